// Package updater implements shimexe's auto-update check: deciding
// whether a newer version is available, and replacing a shim's target
// executable in place when it is.
package updater

import (
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/shimexe/shimexe/internal/acquire"
	"github.com/shimexe/shimexe/internal/fileops"
	"github.com/shimexe/shimexe/internal/shimconfig"
	"github.com/shimexe/shimexe/internal/shimerr"
	"github.com/shimexe/shimexe/internal/shimtemplate"
	"github.com/shimexe/shimexe/pkg/semver"
)

var versionPattern = regexp.MustCompile(`\d+\.\d+\.\d+`)

// Updater checks and applies shim updates.
type Updater struct {
	client   *resty.Client
	acquirer *acquire.Acquirer
}

// New constructs an Updater.
func New(acquirer *acquire.Acquirer) *Updater {
	return &Updater{
		client:   resty.New().SetTimeout(30 * time.Second),
		acquirer: acquirer,
	}
}

// CheckAndUpdate runs CheckUpdateNeeded and, if a newer version is
// found, UpdateToVersion — the single entry point ShimRunner calls
// before every invocation of an auto-updating shim.
func (u *Updater) CheckAndUpdate(doc *shimconfig.ShimDocument, docPath string) error {
	latest, needed, err := u.CheckUpdateNeeded(doc, docPath)
	if err != nil {
		return err
	}
	if !needed {
		return nil
	}
	return u.UpdateToVersion(doc, docPath, latest)
}

func lastCheckPath(docPath string) string {
	return docPath + ".last_check"
}

func readLastCheck(docPath string) (time.Time, bool) {
	data, err := os.ReadFile(lastCheckPath(docPath))
	if err != nil {
		return time.Time{}, false
	}
	epoch, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(epoch, 0), true
}

func writeLastCheck(docPath string) error {
	now := strconv.FormatInt(time.Now().Unix(), 10)
	return os.WriteFile(lastCheckPath(docPath), []byte(now), 0o644)
}

// CheckUpdateNeeded returns the latest available version and whether it
// differs from the current one, per the configured interval.
func (u *Updater) CheckUpdateNeeded(doc *shimconfig.ShimDocument, docPath string) (string, bool, error) {
	if doc.AutoUpdate == nil || !doc.AutoUpdate.Enabled {
		return "", false, nil
	}

	if doc.AutoUpdate.CheckIntervalHours != 0 {
		if last, ok := readLastCheck(docPath); ok {
			elapsed := time.Since(last)
			if elapsed < time.Duration(doc.AutoUpdate.CheckIntervalHours)*time.Hour {
				return "", false, nil
			}
		}
	}

	latest, err := u.latestVersion(doc.AutoUpdate.VersionCheck)
	if err != nil {
		return "", false, err
	}

	current := doc.Metadata.Version
	if current == "" {
		current, _ = u.currentVersionFromBinary(doc.Shim.Path)
	}

	return latest, current != latest, nil
}

func (u *Updater) currentVersionFromBinary(path string) (string, error) {
	out, err := exec.Command(path, "--version").Output()
	if err != nil {
		return "", shimerr.New(shimerr.ErrProcessExecution, path, err.Error())
	}
	match := versionPattern.FindString(string(out))
	if match == "" {
		return "", shimerr.New(shimerr.ErrParse, path, "no version found in --version output")
	}
	return match, nil
}

// UpdateToVersion runs the pre/post update commands and replaces the
// shim's target executable in place.
func (u *Updater) UpdateToVersion(doc *shimconfig.ShimDocument, docPath, version string) error {
	if doc.AutoUpdate.PreUpdateCommand != "" {
		if err := runShell(doc.AutoUpdate.PreUpdateCommand); err != nil {
			return shimerr.New(shimerr.ErrProcessExecution, doc.AutoUpdate.PreUpdateCommand, err.Error())
		}
	}

	if doc.AutoUpdate.Provider.Custom != nil {
		cmd := substitute(doc.AutoUpdate.Provider.Custom.UpdateCommand, version)
		if err := runShell(cmd); err != nil {
			return shimerr.New(shimerr.ErrProcessExecution, cmd, err.Error())
		}
	} else {
		if err := u.replaceExecutable(doc, version); err != nil {
			return err
		}
	}

	if doc.AutoUpdate.PostUpdateCommand != "" {
		if err := runShell(doc.AutoUpdate.PostUpdateCommand); err != nil {
			return shimerr.New(shimerr.ErrProcessExecution, doc.AutoUpdate.PostUpdateCommand, err.Error())
		}
	}

	doc.Metadata.Version = version
	return writeLastCheck(docPath)
}

func (u *Updater) replaceExecutable(doc *shimconfig.ShimDocument, version string) error {
	downloadURL, err := u.resolveDownloadURL(doc, version)
	if err != nil {
		return err
	}
	if u.acquirer == nil {
		return shimerr.New(shimerr.ErrDownload, downloadURL, "no acquirer configured")
	}

	tmp, err := os.CreateTemp("", "shimexe-update-*")
	if err != nil {
		return shimerr.New(shimerr.ErrIO, doc.Shim.Name, err.Error())
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := u.acquirer.Download(downloadURL, tmpPath, nil); err != nil {
		return err
	}

	target := doc.Shim.Path
	backup := target + ".backup"

	if err := fileops.CopyFile(target, backup); err != nil {
		return err
	}
	if err := fileops.CopyFile(tmpPath, target); err != nil {
		return err
	}
	if err := fileops.MarkExecutable(target); err != nil {
		return err
	}
	os.Remove(backup)
	return nil
}

func (u *Updater) resolveDownloadURL(doc *shimconfig.ShimDocument, version string) (string, error) {
	provider := doc.AutoUpdate.Provider

	switch {
	case provider.Github != nil:
		asset := substitute(provider.Github.AssetPattern, version)
		return fmt.Sprintf("https://github.com/%s/releases/download/v%s/%s", provider.Github.Repo, version, asset), nil
	case provider.Https != nil:
		return substitute(doc.AutoUpdate.DownloadURL, version), nil
	default:
		return "", shimerr.New(shimerr.ErrConfig, doc.Shim.Name, "no update provider configured")
	}
}

func substitute(template, version string) string {
	r := strings.NewReplacer(
		"{version}", version,
		"{os}", shimtemplate.Platform(),
		"{arch}", shimtemplate.Arch(),
	)
	return r.Replace(template)
}

func runShell(command string) error {
	cmd := exec.Command("sh", "-c", command)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func (u *Updater) latestVersion(cfg shimconfig.VersionCheckConfig) (string, error) {
	switch {
	case cfg.GithubLatest != nil:
		return u.githubLatest(cfg.GithubLatest)
	case cfg.Http != nil:
		return u.httpVersion(cfg.Http)
	case cfg.Semver != nil:
		return u.semverVersion(cfg.Semver)
	case cfg.Command != nil:
		return u.commandVersion(cfg.Command)
	default:
		return "", shimerr.New(shimerr.ErrConfig, "", "no version_check provider configured")
	}
}

func (u *Updater) githubLatest(cfg *shimconfig.GithubLatestCheck) (string, error) {
	url := fmt.Sprintf("https://api.github.com/repos/%s/releases/latest", cfg.Repo)
	if cfg.IncludePrerelease {
		url = fmt.Sprintf("https://api.github.com/repos/%s/releases", cfg.Repo)
	}

	resp, err := u.client.R().Get(url)
	if err != nil {
		return "", shimerr.New(shimerr.ErrDownload, url, err.Error())
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return "", shimerr.New(shimerr.ErrDownload, url, fmt.Sprintf("HTTP %d", resp.StatusCode()))
	}

	var tag string
	if cfg.IncludePrerelease {
		tag = gjson.GetBytes(resp.Body(), "0.tag_name").String()
	} else {
		tag = gjson.GetBytes(resp.Body(), "tag_name").String()
	}
	if tag == "" {
		return "", shimerr.New(shimerr.ErrParse, url, "tag_name missing from response")
	}

	return strings.TrimPrefix(tag, "v"), nil
}

func (u *Updater) httpVersion(cfg *shimconfig.HTTPCheck) (string, error) {
	resp, err := u.client.R().Get(cfg.URL)
	if err != nil {
		return "", shimerr.New(shimerr.ErrDownload, cfg.URL, err.Error())
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return "", shimerr.New(shimerr.ErrDownload, cfg.URL, fmt.Sprintf("HTTP %d", resp.StatusCode()))
	}

	body := resp.Body()

	if cfg.JSONPath != "" {
		result := gjson.GetBytes(body, cfg.JSONPath)
		if !result.Exists() {
			return "", shimerr.New(shimerr.ErrParse, cfg.URL, "json_path not found in response")
		}
		return result.String(), nil
	}

	if cfg.RegexPattern != "" {
		re, err := regexp.Compile(cfg.RegexPattern)
		if err != nil {
			return "", shimerr.New(shimerr.ErrConfig, cfg.RegexPattern, err.Error())
		}
		match := re.FindSubmatch(body)
		if match == nil {
			return "", shimerr.New(shimerr.ErrParse, cfg.URL, "regex_pattern did not match response")
		}
		if len(match) > 1 {
			return string(match[1]), nil
		}
		return string(match[0]), nil
	}

	match := versionPattern.Find(body)
	if match == nil {
		return "", shimerr.New(shimerr.ErrParse, cfg.URL, "no version found in response")
	}
	return string(match), nil
}

// semverVersion fetches the remote version and, unlike the other
// providers, compares it against cfg.Current with proper semver ordering
// rather than the string-inequality comparator CheckUpdateNeeded applies
// afterwards — so a remote string that differs without being numerically
// greater (e.g. a re-tagged release) is reported as "current", not "new".
func (u *Updater) semverVersion(cfg *shimconfig.SemverCheck) (string, error) {
	resp, err := u.client.R().Get(cfg.CheckURL)
	if err != nil {
		return "", shimerr.New(shimerr.ErrDownload, cfg.CheckURL, err.Error())
	}
	match := versionPattern.Find(resp.Body())
	if match == nil {
		return "", shimerr.New(shimerr.ErrParse, cfg.CheckURL, "no version found in response")
	}
	remote := string(match)

	if cfg.Current == "" {
		return remote, nil
	}

	cmp, err := semver.Compare(remote, cfg.Current)
	if err != nil {
		// Either string fails to parse as semver; fall back to the
		// document's own string-inequality policy.
		return remote, nil
	}
	if cmp > 0 {
		return remote, nil
	}
	return cfg.Current, nil
}

func (u *Updater) commandVersion(cfg *shimconfig.CommandCheck) (string, error) {
	out, err := exec.Command(cfg.Command, cfg.Args...).Output()
	if err != nil {
		return "", shimerr.New(shimerr.ErrProcessExecution, cfg.Command, err.Error())
	}
	match := versionPattern.Find(out)
	if match == nil {
		return "", shimerr.New(shimerr.ErrParse, cfg.Command, "no version found in command output")
	}
	return string(match), nil
}
