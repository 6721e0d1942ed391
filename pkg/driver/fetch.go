package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/log"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Fetcher checks out git-backed suites under a cache directory.
type Fetcher struct {
	CacheDir string
}

func NewFetcher(cacheDir string) *Fetcher {
	if cacheDir == "" {
		return nil
	}
	return &Fetcher{CacheDir: cacheDir}
}

// DefaultCacheDir is where suites are checked out when no cache is given.
func DefaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "rpal", "suites")
	}
	return filepath.Join(os.TempDir(), "rpal-suites")
}

// Fetch checks out suite.Source and repoints suite.Dir at the checkout.
// Suites without a source are left alone. The resolved commit is returned.
func (f *Fetcher) Fetch(suite *Suite) (string, error) {
	if suite == nil || suite.Source == nil {
		return "", nil
	}
	if f == nil {
		return "", errors.New("git fetcher unavailable")
	}
	src := suite.Source
	url := strings.TrimSpace(src.Git)
	if url == "" {
		return "", fmt.Errorf("suite %q: git URL required", suite.Name)
	}

	baseDir := filepath.Join(f.CacheDir, sanitizePathSegment(suite.Name))
	checkoutDir, commit, err := ensureGitCheckout(baseDir, url, src)
	if err != nil {
		return "", fmt.Errorf("suite %q: %w", suite.Name, err)
	}
	dir := checkoutDir
	if src.Path != "" {
		dir = filepath.Join(checkoutDir, filepath.FromSlash(src.Path))
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return "", fmt.Errorf("suite %q: %s is not a directory in %s", suite.Name, src.Path, url)
	}
	suite.Dir = dir
	log.LogVf("suite %s checked out at %s (%s)", suite.Name, dir, commit)
	return commit, nil
}

func ensureGitCheckout(baseDir, url string, spec *SourceSpec) (string, string, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return "", "", err
	}

	revision, descriptor := gitRevisionFromSpec(spec)

	if rev := strings.TrimSpace(spec.Rev); rev != "" {
		existing := filepath.Join(baseDir, sanitizePathSegment(rev))
		if _, err := os.Stat(existing); err == nil {
			return existing, rev, nil
		}
	}

	tmpDir, err := os.MkdirTemp(baseDir, "git-fetch-*")
	if err != nil {
		return "", "", err
	}
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", "", err
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{
		URL: url,
	})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("git clone %s: %w", url, err)
	}

	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("resolve revision %s: %w", revision, err)
	}

	version := gitPinnedVersion(descriptor, hash.String())
	targetDir := filepath.Join(baseDir, sanitizePathSegment(version))
	if _, err := os.Stat(targetDir); err == nil {
		_ = os.RemoveAll(tmpDir)
		return targetDir, hash.String(), nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{
		Hash:  *hash,
		Force: true,
	}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", fmt.Errorf("git checkout %s: %w", revision, err)
	}

	if err := os.Rename(tmpDir, targetDir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", "", err
	}
	return targetDir, hash.String(), nil
}

func gitPinnedVersion(descriptor, commit string) string {
	commit = strings.TrimSpace(commit)
	descriptor = strings.TrimSpace(descriptor)
	if commit == "" {
		return descriptor
	}
	if descriptor == "" || descriptor == commit {
		return commit
	}
	return fmt.Sprintf("%s@%s", descriptor, commit)
}

// gitRevisionFromSpec picks rev, then tag, then branch, defaulting to HEAD.
func gitRevisionFromSpec(spec *SourceSpec) (plumbing.Revision, string) {
	if rev := strings.TrimSpace(spec.Rev); rev != "" {
		return plumbing.Revision(rev), rev
	}
	if tag := strings.TrimSpace(spec.Tag); tag != "" {
		return plumbing.Revision("refs/tags/" + tag), tag
	}
	if branch := strings.TrimSpace(spec.Branch); branch != "" {
		return plumbing.Revision("refs/heads/" + branch), branch
	}
	return plumbing.Revision("HEAD"), ""
}

func sanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "head"
	}
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
