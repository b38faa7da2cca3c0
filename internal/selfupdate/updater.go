package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/mod/semver"
)

var (
	ErrDevBuild       = errors.New("cannot update a development build")
	ErrAlreadyLatest  = errors.New("already running the latest version")
	ErrChecksum       = errors.New("checksum verification failed")
	ErrInvalidVersion = errors.New("not a semantic version")
	ErrNoBackup       = errors.New("no previous version to roll back to")
)

const (
	checksumsFile = "checksums.txt"

	// backupSuffix names the copy of the replaced binary kept for Rollback.
	backupSuffix = ".previous"
)

// UpdateInput selects the running and wanted versions. An empty
// TargetVersion means the latest release.
type UpdateInput struct {
	CurrentVersion string
	TargetVersion  string
}

// UpdateProgress is reported once per stage: check, download, verify,
// extract, apply, done.
type UpdateProgress struct {
	Stage   string
	Message string
}

// releaseAsset locates one platform archive of a tagged release.
type releaseAsset struct {
	base  string
	owner string
	repo  string
	tag   string
	name  string
}

func (a releaseAsset) url(file string) string {
	return fmt.Sprintf("%s/%s/%s/releases/download/%s/%s", a.base, a.owner, a.repo, a.tag, file)
}

// Update installs a release over the running executable. The replaced binary
// stays next to it until the next update so Rollback can restore it.
func (c *Checker) Update(ctx context.Context, input *UpdateInput, progress func(UpdateProgress)) error {
	if input.CurrentVersion == "(devel)" {
		return ErrDevBuild
	}

	tag, err := c.resolveTag(ctx, input, progress)
	if err != nil {
		return err
	}

	name, err := assetName()
	if err != nil {
		return err
	}
	asset := releaseAsset{
		base:  strings.TrimRight(c.downloadBaseURL, "/"),
		owner: c.owner,
		repo:  c.repo,
		tag:   tag,
		name:  name,
	}

	progress(UpdateProgress{Stage: "download", Message: fmt.Sprintf("Downloading quizgen %s...", tag)})
	archive, err := c.downloadFile(ctx, asset.url(asset.name))
	if err != nil {
		return fmt.Errorf("download archive: %w", err)
	}

	progress(UpdateProgress{Stage: "verify", Message: "Verifying checksum..."})
	sums, err := c.downloadFile(ctx, asset.url(checksumsFile))
	if err != nil {
		return fmt.Errorf("download checksums: %w", err)
	}
	want, ok := parseChecksums(sums)[asset.name]
	if !ok {
		return fmt.Errorf("no checksum found for %s in %s", asset.name, checksumsFile)
	}
	if err := verifyChecksum(archive, want); err != nil {
		return err
	}

	progress(UpdateProgress{Stage: "extract", Message: "Extracting binary..."})
	bin, err := extractBinary(archive, asset.name)
	if err != nil {
		return fmt.Errorf("extract binary: %w", err)
	}

	progress(UpdateProgress{Stage: "apply", Message: "Applying update..."})
	target, err := c.execPath()
	if err != nil {
		return fmt.Errorf("resolve executable path: %w", err)
	}
	sum := sha256.Sum256(bin)
	if err := applyUpdate(bin, target, sum[:]); err != nil {
		return fmt.Errorf("apply update: %w", err)
	}

	progress(UpdateProgress{Stage: "done", Message: fmt.Sprintf("Updated to %s (previous binary kept as %s)", tag, filepath.Base(target)+backupSuffix)})
	return nil
}

// resolveTag returns the release to install: the pinned TargetVersion, or the
// latest release when it is newer than the running one.
func (c *Checker) resolveTag(ctx context.Context, input *UpdateInput, progress func(UpdateProgress)) (string, error) {
	if input.TargetVersion != "" {
		tag := canonical(input.TargetVersion)
		if tag == "" {
			return "", fmt.Errorf("%w: %q", ErrInvalidVersion, input.TargetVersion)
		}
		if cur := canonical(input.CurrentVersion); cur != "" && semver.Compare(cur, tag) == 0 {
			return "", ErrAlreadyLatest
		}
		return tag, nil
	}

	progress(UpdateProgress{Stage: "check", Message: "Checking for latest version..."})
	res, err := c.Check(ctx, &CheckInput{Version: input.CurrentVersion})
	if err != nil {
		return "", fmt.Errorf("check for updates: %w", err)
	}
	if !res.UpdateAvailable {
		return "", ErrAlreadyLatest
	}
	return res.LatestVersion, nil
}

// Rollback restores the binary replaced by the last Update.
func (c *Checker) Rollback() error {
	target, err := c.execPath()
	if err != nil {
		return fmt.Errorf("resolve executable path: %w", err)
	}
	backup := target + backupSuffix
	if _, err := os.Stat(backup); err != nil {
		if os.IsNotExist(err) {
			return ErrNoBackup
		}
		return err
	}
	if err := os.Rename(backup, target); err != nil {
		return fmt.Errorf("restore %s: %w", filepath.Base(backup), err)
	}
	return nil
}

func assetName() (string, error) {
	return assetNameFor(runtime.GOOS, runtime.GOARCH)
}

func assetNameFor(goos, goarch string) (string, error) {
	if goos == "darwin" {
		return binaryName + "_Darwin_all.tar.gz", nil
	}

	var osName, ext string
	switch goos {
	case "linux":
		osName, ext = "Linux", ".tar.gz"
	case "windows":
		osName, ext = "Windows", ".zip"
	default:
		return "", fmt.Errorf("unsupported operating system: %s", goos)
	}

	arch, ok := releaseArch[goarch]
	if !ok {
		return "", fmt.Errorf("unsupported architecture: %s", goarch)
	}
	return binaryName + "_" + osName + "_" + arch + ext, nil
}

var releaseArch = map[string]string{
	"amd64": "x86_64",
	"arm64": "arm64",
	"386":   "i386",
}

func (c *Checker) downloadFile(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

// parseChecksums reads sha256sum output. A "*" before the file name marks
// binary mode and is ignored.
func parseChecksums(data []byte) map[string]string {
	sums := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		sums[strings.TrimPrefix(fields[1], "*")] = strings.ToLower(fields[0])
	}
	return sums
}

func verifyChecksum(data []byte, expectedHex string) error {
	h := sha256.Sum256(data)
	if got := hex.EncodeToString(h[:]); got != expectedHex {
		return fmt.Errorf("%w: expected %s, got %s", ErrChecksum, expectedHex, got)
	}
	return nil
}

func extractBinary(archive []byte, asset string) ([]byte, error) {
	if strings.HasSuffix(asset, ".zip") {
		return extractFromZip(archive, binaryName+".exe")
	}
	return extractFromTarGz(archive, binaryName)
}

func extractFromTarGz(data []byte, name string) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil, fmt.Errorf("binary %q not found in archive", name)
		}
		if err != nil {
			return nil, fmt.Errorf("read tar: %w", err)
		}
		if hdr.Typeflag == tar.TypeReg && filepath.Base(hdr.Name) == name {
			return io.ReadAll(tr)
		}
	}
}

func extractFromZip(data []byte, name string) ([]byte, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	for _, f := range r.File {
		if filepath.Base(f.Name) != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer func() { _ = rc.Close() }()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("binary %q not found in archive", name)
}

// applyUpdate stages bin beside target, checks what landed on disk against
// expectedHash, moves target to its backup name and renames the staged file
// into place with target's mode.
func applyUpdate(bin []byte, target string, expectedHash []byte) error {
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("stat target: %w", err)
	}

	tmpDir, err := os.MkdirTemp(filepath.Dir(target), "."+binaryName+"-update-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	staged := filepath.Join(tmpDir, binaryName+"-new")
	if err := os.WriteFile(staged, bin, 0o600); err != nil {
		return fmt.Errorf("write staged binary: %w", err)
	}
	written, err := os.ReadFile(staged)
	if err != nil {
		return fmt.Errorf("re-read staged binary: %w", err)
	}
	if h := sha256.Sum256(written); !bytes.Equal(h[:], expectedHash) {
		return fmt.Errorf("%w: staged binary changed after write", ErrChecksum)
	}
	if err := os.Chmod(staged, info.Mode()); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}

	// A running executable can be renamed on every platform, but not
	// overwritten on Windows.
	backup := target + backupSuffix
	_ = os.Remove(backup)
	if err := os.Rename(target, backup); err != nil {
		return fmt.Errorf("back up current binary: %w", err)
	}
	if err := os.Rename(staged, target); err != nil {
		_ = os.Rename(backup, target)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
