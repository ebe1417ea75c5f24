package fileutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// WalkOptions configures the directory walk
type WalkOptions struct {
	// FollowSymlinks descends into symlinked directories, visiting each
	// canonical directory at most once
	FollowSymlinks bool
	// OnDirError is called for subdirectories that cannot be listed (optional)
	OnDirError func(path string, err error)
}

// WalkFunc is called for every non-directory entry found by Walk
type WalkFunc func(path string, d fs.DirEntry) error

type walker struct {
	opts    WalkOptions
	fn      WalkFunc
	visited map[string]bool
}

// Walk traverses root top-down, calling fn for every file. See the package
// documentation for ordering and symlink semantics.
func Walk(root string, opts WalkOptions, fn WalkFunc) error {
	w := &walker{
		opts:    opts,
		fn:      fn,
		visited: make(map[string]bool),
	}

	if opts.FollowSymlinks {
		canonical, err := filepath.EvalSymlinks(root)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", root, err)
		}
		w.visited[canonical] = true
	}

	return w.walkDir(root, true)
}

func (w *walker) walkDir(dir string, isRoot bool) error {
	// os.ReadDir returns entries sorted by filename
	entries, err := os.ReadDir(dir)
	if err != nil {
		if isRoot {
			return fmt.Errorf("failed to read directory %s: %w", dir, err)
		}
		if w.opts.OnDirError != nil {
			w.opts.OnDirError(dir, err)
		}
		return nil
	}

	var subdirs []string
	for _, entry := range entries {
		path := JoinPath(dir, entry.Name())

		switch w.classify(path, entry) {
		case entryDir:
			subdirs = append(subdirs, path)
		case entrySkip:
			// directory symlink not followed
		default:
			if err := w.fn(path, entry); err != nil {
				return err
			}
		}
	}

	for _, sub := range subdirs {
		if w.opts.FollowSymlinks {
			canonical, err := filepath.EvalSymlinks(sub)
			if err != nil {
				if w.opts.OnDirError != nil {
					w.opts.OnDirError(sub, err)
				}
				continue
			}
			if w.visited[canonical] {
				continue
			}
			w.visited[canonical] = true
		}

		if err := w.walkDir(sub, false); err != nil {
			return err
		}
	}

	return nil
}

type entryKind int

const (
	entryFile entryKind = iota
	entryDir
	entrySkip
)

func (w *walker) classify(path string, entry fs.DirEntry) entryKind {
	if entry.IsDir() {
		return entryDir
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return entryFile
	}

	// Broken links are treated as files so reading them surfaces the error
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return entryFile
	}
	if w.opts.FollowSymlinks {
		return entryDir
	}
	return entrySkip
}

// JoinPath appends name to dir without cleaning dir, so the caller's spelling
// of the root is preserved in every path.
func JoinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	if strings.HasSuffix(dir, string(filepath.Separator)) || strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + string(filepath.Separator) + name
}

// IsDir reports whether path exists and is a directory (following symlinks)
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
