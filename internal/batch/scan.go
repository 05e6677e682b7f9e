//go:build !ios && !android && (amd64 || arm64)

package batch

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
)

// Item is one conversion: a resolved input path and the output path
// derived from it.
type Item struct {
	Input  string
	Output string
}

// plan decides what to convert. Explicit arguments are converted
// unconditionally; with no arguments the current directory is scanned
// and already-converted files are skipped.
func (r *Runner) plan(args []string) ([]Item, int, error) {
	if len(args) == 0 {
		return r.scan(r.scanDir)
	}

	items := make([]Item, 0, len(args))
	for _, arg := range args {
		input := arg
		if resolved, err := r.resolve(arg); err == nil {
			input = resolved
		}
		// A path that does not resolve is kept as given so the failure
		// surfaces on this item with the real cause.
		items = append(items, Item{Input: input, Output: withGifExt(input)})
	}
	return items, 0, nil
}

// scan collects .webm files directly inside dir, following symlinks to
// regular files. Entries whose output already exists as a non-empty file
// are dropped and counted as skipped.
func (r *Runner) scan(dir string) ([]Item, int, error) {
	entries, err := afero.ReadDir(r.fs, dir)
	if err != nil {
		return nil, 0, fmt.Errorf("listing %s: %w", dir, err)
	}

	var candidates []Item
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) != ".webm" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		resolved, err := r.resolve(path)
		if err != nil {
			r.log.Warn("skipping unresolvable entry", "path", path, "error", err)
			continue
		}
		info, err := r.fs.Stat(resolved)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if !utf8.ValidString(resolved) {
			r.log.Warn("skipping file with invalid utf-8 name", "name", fmt.Sprintf("%q", resolved))
			continue
		}

		candidates = append(candidates, Item{Input: resolved, Output: withGifExt(resolved)})
	}

	if len(candidates) == 0 {
		return nil, 0, nil
	}

	items := candidates[:0]
	for _, item := range candidates {
		if r.outputExists(item.Output) {
			continue
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Input < items[j].Input })

	return items, len(candidates) - len(items), nil
}

// outputExists reports whether path is already a non-empty regular file.
func (r *Runner) outputExists(path string) bool {
	info, err := r.fs.Stat(path)
	return err == nil && info.Mode().IsRegular() && info.Size() != 0
}

func withGifExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".gif"
}
