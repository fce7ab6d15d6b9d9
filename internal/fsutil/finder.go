// Package fsutil provides file system utility functions over billy
// filesystems.
package fsutil

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// skipDirs are never descended into.
var skipDirs = map[string]bool{".git": true}

// FindFiles recursively searches tree for regular files whose slash-separated
// path relative to the root is accepted by match. The result is sorted.
func FindFiles(tree billy.Filesystem, match func(rel string) bool) ([]string, error) {
	var files []string
	err := util.Walk(tree, "/", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if skipDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		rel := strings.TrimPrefix(filepath.ToSlash(path), "/")
		if match(rel) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// ReadFile reads the file at the slash-separated path rel.
func ReadFile(tree billy.Filesystem, rel string) ([]byte, error) {
	return util.ReadFile(tree, "/"+rel)
}
