package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ludeesha-cse/rpal20/pkg/driver"
	"github.com/ludeesha-cse/rpal20/pkg/interpreter"
)

var defaultSuitePath = filepath.Join("fixtures", "suite.yml")

func runTest(opts *options, args []string) int {
	paths := args
	if len(paths) == 0 {
		paths = []string{defaultSuitePath}
	}
	cacheDir, err := resolveCacheDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve RPAL_HOME: %v\n", err)
		return 2
	}
	fetcher := driver.NewFetcher(cacheDir)

	code := 0
	for _, path := range paths {
		suite, err := driver.LoadSuite(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load suite: %v\n", err)
			return 2
		}
		if suite.Source != nil {
			commit, err := fetcher.Fetch(suite)
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to fetch suite: %v\n", err)
				return 2
			}
			fmt.Fprintf(os.Stdout, "suite %s: %s @ %s\n", suite.Name, suite.Source.Git, commit)
		}

		result := interpreter.RunSuite(suite, interpreter.Options{MaxDepth: opts.maxDepth})
		for _, c := range result.Cases {
			fmt.Fprintf(os.Stdout, "%-4s %s\n", c.Status, c.Name)
			if c.Status == interpreter.CaseFailed {
				fmt.Fprintf(os.Stdout, "     %s\n", c.Reason)
			}
		}
		fmt.Fprintf(os.Stdout, "%s: %d passed, %d failed, %d skipped\n",
			suite.Name, result.Passed(), result.Failed(), result.Skipped())
		if !result.OK() {
			code = 1
		}
	}
	return code
}

// resolveCacheDir prefers $RPAL_HOME/suites over the user cache directory.
func resolveCacheDir() (string, error) {
	if home := strings.TrimSpace(os.Getenv("RPAL_HOME")); home != "" {
		abs, err := filepath.Abs(home)
		if err != nil {
			return "", fmt.Errorf("resolve RPAL_HOME %q: %w", home, err)
		}
		return filepath.Join(abs, "suites"), nil
	}
	return driver.DefaultCacheDir(), nil
}
