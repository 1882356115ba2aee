// Package shimrun implements the per-invocation core: given a loaded
// shim document and the caller's arguments, resolve the target
// executable, validate it, build the final command line and
// environment, and exec it with inherited stdio.
package shimrun

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/shimexe/shimexe/internal/acquire"
	"github.com/shimexe/shimexe/internal/pathresolver"
	"github.com/shimexe/shimexe/internal/shimconfig"
	"github.com/shimexe/shimexe/internal/shimerr"
	"github.com/shimexe/shimexe/internal/shimtemplate"
	"github.com/shimexe/shimexe/internal/validationcache"
)

// Updater is the subset of internal/updater's surface ShimRunner needs.
// Declared here, not there, so shimrun need not import updater's
// version-check machinery.
type Updater interface {
	CheckAndUpdate(doc *shimconfig.ShimDocument, docPath string) error
}

// Runner executes one shim invocation.
type Runner struct {
	StoreDir   string
	Validation *validationcache.Cache
	Acquirer   *acquire.Acquirer
	Updater    Updater
	Debug      bool
}

// New constructs a Runner rooted at storeDir.
func New(storeDir string, acquirer *acquire.Acquirer, updater Updater) *Runner {
	return &Runner{
		StoreDir:   storeDir,
		Validation: validationcache.New(validationcache.DefaultTTL),
		Acquirer:   acquirer,
		Updater:    updater,
		Debug:      os.Getenv("SHIMEXE_DEBUG") == "1",
	}
}

// Execute runs one invocation of doc (loaded from docPath, empty if
// synthetic) with the caller's additionalArgs, returning the exit code
// of the spawned process.
func (r *Runner) Execute(doc *shimconfig.ShimDocument, docPath string, additionalArgs []string) (int, error) {
	start := time.Now()

	if doc.AutoUpdate != nil && doc.AutoUpdate.Enabled && docPath != "" && r.Updater != nil {
		if err := r.Updater.CheckAndUpdate(doc, docPath); err != nil {
			r.logDebug("auto-update check failed: %v", err)
		}
	}

	if err := r.ensureArtifactAvailable(doc); err != nil {
		return 1, err
	}

	target, err := shimconfig.Resolve(doc, r.StoreDir)
	if err != nil {
		return 1, err
	}

	if !r.Validation.IsValid(target) {
		return 1, shimerr.New(shimerr.ErrExecutableNotFound, target, "target exists but is not a usable executable")
	}

	engine := shimtemplate.New(additionalArgs)
	processed, err := engine.ProcessArgs(doc.Args)
	if err != nil {
		return 1, err
	}
	// The [shim] args come first, ahead of the [args]-processed vector.
	finalArgs := append(append([]string(nil), doc.Shim.Args...), processed...)

	if r.Debug {
		r.logDebug("target=%s args=%v resolution=%v", target, finalArgs, time.Since(start))
	}

	return r.spawn(target, finalArgs, doc)
}

// ensureArtifactAvailable triggers the Acquirer synchronously when doc
// describes a remote origin whose local artifact is missing.
func (r *Runner) ensureArtifactAvailable(doc *shimconfig.ShimDocument) error {
	if !shimconfig.NeedsAcquisition(doc, r.StoreDir) {
		return nil
	}
	if r.Acquirer == nil {
		return shimerr.New(shimerr.ErrExecutableNotFound, doc.Shim.Name, "artifact missing and no acquirer configured")
	}

	remote := doc.Shim.DownloadURL
	if remote == "" {
		remote = doc.Shim.Path
	}

	executables, err := r.Acquirer.DownloadAndExtractArchive(remote, r.StoreDir, doc.Shim.Name, nil)
	if err != nil {
		return err
	}

	if doc.Shim.EffectiveSourceType() == shimconfig.SourceArchive {
		doc.Shim.ExtractedExecutables = classifyExtracted(executables)
	}

	return nil
}

func classifyExtracted(paths []string) []shimconfig.ExtractedExecutable {
	result := make([]shimconfig.ExtractedExecutable, 0, len(paths))
	for i, p := range paths {
		result = append(result, shimconfig.ExtractedExecutable{
			Name:      filepath.Base(p),
			Path:      p,
			FullPath:  p,
			IsPrimary: i == 0,
		})
	}
	return result
}

func (r *Runner) spawn(target string, args []string, doc *shimconfig.ShimDocument) (int, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cmd := exec.CommandContext(ctx, target, args...)
	cmd.Env = buildEnv(doc.Env)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if doc.Shim.Cwd != "" {
		cmd.Dir = doc.Shim.Cwd
	} else if wd, err := os.Getwd(); err == nil {
		cmd.Dir = wd
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := cmd.Start(); err != nil {
		return 1, shimerr.New(shimerr.ErrProcessExecution, target, err.Error())
	}

	if err := cmd.Wait(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
				return status.ExitStatus(), nil
			}
			return -1, nil
		}
		return 1, shimerr.New(shimerr.ErrProcessExecution, target, err.Error())
	}

	return 0, nil
}

func buildEnv(custom map[string]string) []string {
	merged := pathresolver.MergeEnv(custom)
	env := make([]string, 0, len(merged))
	for k, v := range merged {
		env = append(env, k+"="+v)
	}
	return env
}

func (r *Runner) logDebug(format string, args ...interface{}) {
	if !r.Debug {
		return
	}
	fmt.Fprintf(os.Stderr, "[shimexe] "+format+"\n", args...)
}
