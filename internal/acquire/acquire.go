// Package acquire fetches remote shim artifacts over HTTP, placing them
// under the shim store and extracting archives in place.
package acquire

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/schollz/progressbar/v3"

	"github.com/shimexe/shimexe/internal/archive"
	"github.com/shimexe/shimexe/internal/fileops"
	"github.com/shimexe/shimexe/internal/shimerr"
)

const maxRetries = 3

// ProgressCallback reports download progress; total is -1 when the
// server did not report Content-Length.
type ProgressCallback func(downloaded, total int64)

// Acquirer downloads shim artifacts with retry, optional progress
// reporting, and HEAD-based skip-if-present checks.
type Acquirer struct {
	client *resty.Client
	quiet  bool
}

// New constructs an Acquirer. When quiet is true, no progress bar is
// rendered regardless of the ProgressCallback passed to Download.
func New(quiet bool) *Acquirer {
	client := resty.New().
		SetTimeout(5 * time.Minute).
		SetRetryCount(0)
	return &Acquirer{client: client, quiet: quiet}
}

// IsURL reports whether s is an absolute HTTP(S) URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// FilenameFromURL returns the last path segment of a URL, stripping any
// query string or fragment.
func FilenameFromURL(rawURL string) (string, bool) {
	withoutFragment := strings.SplitN(rawURL, "#", 2)[0]
	withoutQuery := strings.SplitN(withoutFragment, "?", 2)[0]
	segments := strings.Split(withoutQuery, "/")
	filename := segments[len(segments)-1]
	if filename == "" {
		return "", false
	}
	return filename, true
}

// InferAppName derives a shim name from a download URL's filename,
// stripping one recognized executable or archive suffix.
func InferAppName(rawURL string) (string, bool) {
	filename, ok := FilenameFromURL(rawURL)
	if !ok {
		return "", false
	}

	for _, suffix := range []string{".exe", ".bin", ".app", ".zip", ".tar.gz", ".tgz"} {
		if strings.HasSuffix(filename, suffix) {
			filename = strings.TrimSuffix(filename, suffix)
			break
		}
	}

	if filename == "" {
		return "", false
	}
	return filename, true
}

// DownloadPath computes the canonical on-disk location for one shim's
// artifact: <baseDir>/<appName>/bin/<filename>.
func DownloadPath(baseDir, appName, filename string) string {
	return filepath.Join(baseDir, appName, "bin", filename)
}

// FileExists reports whether path names an existing regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Download fetches url to destPath, making up to three attempts with
// exponential backoff (1s, then 2s) on failure and removing any partial
// file between attempts.
// It never resumes a partial local file — use DownloadResumable for that.
func (a *Acquirer) Download(rawURL, destPath string, progress ProgressCallback) error {
	return a.DownloadResumable(rawURL, destPath, false, progress)
}

// DownloadResumable fetches url to destPath, making up to three attempts
// with exponential backoff (1s, then 2s). When allowResume is true and destPath already
// exists, the request carries a Range header starting at the existing
// file's size and the response is appended rather than overwritten; a 206
// response confirms the server honored the range, a 200 response means it
// did not and the download restarts from scratch.
func (a *Acquirer) DownloadResumable(rawURL, destPath string, allowResume bool, progress ProgressCallback) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return shimerr.New(shimerr.ErrIO, destPath, err.Error())
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(1<<uint(attempt-1)) * time.Second)
		}

		if err := a.downloadOnce(rawURL, destPath, allowResume, progress); err != nil {
			lastErr = err
			if !allowResume {
				os.Remove(destPath)
			}
			continue
		}
		return nil
	}

	return shimerr.New(shimerr.ErrDownload, rawURL, fmt.Sprintf("failed after %d attempts: %v", maxRetries, lastErr))
}

func (a *Acquirer) downloadOnce(rawURL, destPath string, allowResume bool, progress ProgressCallback) error {
	var resumeFrom int64
	if allowResume {
		if info, err := os.Stat(destPath); err == nil {
			resumeFrom = info.Size()
		}
	}

	req := a.client.R().SetDoNotParseResponse(true)
	if resumeFrom > 0 {
		req.SetHeader("Range", fmt.Sprintf("bytes=%d-", resumeFrom))
	}
	resp, err := req.Get(rawURL)
	if err != nil {
		return err
	}
	body := resp.RawBody()
	defer body.Close()

	status := resp.StatusCode()
	if status != 200 && status != 206 {
		return fmt.Errorf("HTTP %d: %s", status, resp.Status())
	}

	resuming := status == 206 && resumeFrom > 0
	var total int64
	if resuming {
		total = resumeFrom + resp.RawResponse.ContentLength
	} else {
		total = resp.RawResponse.ContentLength
		resumeFrom = 0
	}

	flags := os.O_WRONLY | os.O_CREATE
	if resuming {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	out, err := os.OpenFile(destPath, flags, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()

	var bar *progressbar.ProgressBar
	if !a.quiet && total >= 1<<20 {
		bar = progressbar.DefaultBytes(total, "downloading "+filepath.Base(destPath))
		if resumeFrom > 0 {
			bar.Add64(resumeFrom)
		}
	}

	buf := make([]byte, 32*1024)
	downloaded := resumeFrom
	lastReport := time.Now()
	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				return writeErr
			}
			downloaded += int64(n)
			if bar != nil {
				bar.Add(n)
			}
			if progress != nil && (total < 1<<20 || time.Since(lastReport) >= 500*time.Millisecond) {
				progress(downloaded, total)
				lastReport = time.Now()
			}
		}
		if readErr != nil {
			break
		}
	}
	if progress != nil {
		progress(downloaded, total)
	}

	if archive.IsExecutableFile(destPath) {
		fileops.MarkExecutable(destPath)
	}

	return nil
}

// DownloadIfMissing downloads url to destPath only if destPath does not
// already exist or its size differs from the remote's (checked with a
// single HEAD request), returning whether a download occurred. A local
// file whose size matches the remote's is trusted without a GET.
func (a *Acquirer) DownloadIfMissing(rawURL, destPath string, progress ProgressCallback) (bool, error) {
	info, err := os.Stat(destPath)
	if err == nil {
		unchanged, headErr := a.HeadUnchanged(rawURL, info.Size())
		if headErr != nil || unchanged {
			return false, nil
		}
	}
	if err := a.DownloadResumable(rawURL, destPath, true, progress); err != nil {
		return false, err
	}
	return true, nil
}

// DownloadAndExtractArchive downloads rawURL under baseDir/appName/bin,
// extracting it in place if it is a recognized archive. It returns the
// executables found: the extracted set for archives, or the downloaded
// file itself when it is directly executable.
func (a *Acquirer) DownloadAndExtractArchive(rawURL, baseDir, appName string, progress ProgressCallback) ([]string, error) {
	filename, ok := FilenameFromURL(rawURL)
	if !ok {
		return nil, shimerr.New(shimerr.ErrDownload, rawURL, "could not extract filename from URL")
	}

	downloadPath := DownloadPath(baseDir, appName, filename)
	if _, err := a.DownloadIfMissing(rawURL, downloadPath, progress); err != nil {
		return nil, err
	}

	if archive.IsArchive(downloadPath) {
		extractDir := filepath.Dir(downloadPath)
		return archive.Extract(downloadPath, extractDir)
	}

	if archive.IsExecutableFile(downloadPath) {
		fileops.MarkExecutable(downloadPath)
		return []string{downloadPath}, nil
	}
	return nil, nil
}

// HeadUnchanged issues a HEAD request and reports whether the remote
// Content-Length matches localSize, letting a cold-start cache validate
// an already-downloaded artifact with one round trip instead of a GET.
func (a *Acquirer) HeadUnchanged(rawURL string, localSize int64) (bool, error) {
	resp, err := a.client.R().Head(rawURL)
	if err != nil {
		return false, shimerr.New(shimerr.ErrDownload, rawURL, err.Error())
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return false, shimerr.New(shimerr.ErrDownload, rawURL, fmt.Sprintf("HTTP %d", resp.StatusCode()))
	}
	return resp.RawResponse.ContentLength == localSize, nil
}

// ConcurrentDownload fetches every (url, destPath) pair in jobs, running
// at most maxConcurrency downloads simultaneously, and returns one error
// per job in the same order (nil on success).
func (a *Acquirer) ConcurrentDownload(jobs []DownloadJob, maxConcurrency int) []error {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}

	sem := make(chan struct{}, maxConcurrency)
	results := make([]error, len(jobs))
	done := make(chan int, len(jobs))

	for i, job := range jobs {
		go func(i int, job DownloadJob) {
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = a.Download(job.URL, job.DestPath, job.Progress)
			done <- i
		}(i, job)
	}

	for range jobs {
		<-done
	}

	return results
}

// DownloadJob describes one artifact to fetch under ConcurrentDownload.
type DownloadJob struct {
	URL      string
	DestPath string
	Progress ProgressCallback
}

// ValidURL reports whether s parses as a well-formed URL; used to reject
// malformed download_url values before attempting a fetch.
func ValidURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}
