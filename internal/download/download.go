// Package download correlates browser downloads with the query that triggered
// them and renames the artifacts deterministically.
package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// partialSuffix marks an in-flight Chromium download.
const partialSuffix = ".crdownload"

// settleWait bounds how long an unfinished download is given to complete
// before its partial file is removed.
const settleWait = 15 * time.Second

// Snapshot returns the set of file names currently present in dir.
func Snapshot(dir string) (map[string]bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list download dir %s: %w", dir, err)
	}
	names := make(map[string]bool, len(entries))
	for _, e := range entries {
		names[e.Name()] = true
	}
	return names, nil
}

// AwaitSettled waits for partial downloads in dir to finish. Leftover partial
// files after the wait are deleted; the return value reports whether any were
// found, so the caller can count consecutive unfinished downloads.
func AwaitSettled(ctx context.Context, dir string) (bool, error) {
	partials, err := listPartials(dir)
	if err != nil {
		return false, err
	}
	if len(partials) == 0 {
		return false, nil
	}

	select {
	case <-time.After(settleWait):
	case <-ctx.Done():
		return true, ctx.Err()
	}

	partials, err = listPartials(dir)
	if err != nil {
		return false, err
	}
	for _, p := range partials {
		_ = os.Remove(filepath.Join(dir, p))
	}
	return len(partials) > 0, nil
}

func listPartials(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list download dir %s: %w", dir, err)
	}
	var partials []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), partialSuffix) {
			partials = append(partials, e.Name())
		}
	}
	return partials, nil
}

// CorrelateAndRename identifies the single file created in dir since the
// before snapshot and renames it to {query}_{YYYYMMDD}.pdf. A name collision
// is broken by substituting a full timestamp. Zero or multiple new files mean
// the download cannot be attributed and nothing is renamed.
func CorrelateAndRename(dir string, before map[string]bool, query string) (string, error) {
	after, err := Snapshot(dir)
	if err != nil {
		return "", err
	}

	var created []string
	for name := range after {
		if !before[name] && !strings.HasSuffix(name, partialSuffix) {
			created = append(created, name)
		}
	}
	if len(created) != 1 {
		return "", fmt.Errorf("expected exactly one new file for %s, found %d", query, len(created))
	}

	now := time.Now()
	target := fmt.Sprintf("%s_%s.pdf", query, now.Format("20060102"))
	targetPath := filepath.Join(dir, target)
	if _, err := os.Stat(targetPath); err == nil {
		target = fmt.Sprintf("%s_%s.pdf", query, now.Format("20060102-150405"))
		targetPath = filepath.Join(dir, target)
	}

	if err := os.Rename(filepath.Join(dir, created[0]), targetPath); err != nil {
		return "", fmt.Errorf("failed to rename download %s: %w", created[0], err)
	}
	return target, nil
}
