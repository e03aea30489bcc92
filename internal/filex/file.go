// Package filex contains file helpers for the CLI: output directories,
// extension handling and atomic artifact writes.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureSubdDir creates dirName under the current working directory if
// needed and returns its absolute path.
func EnsureSubdDir(dirName string) (string, error) {
	if filepath.IsAbs(dirName) {
		if err := os.MkdirAll(dirName, 0o770); err != nil {
			return "", fmt.Errorf("mkdir %s: %w", dirName, err)
		}
		return dirName, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// HasExt reports whether name ends with one of exts, ignoring case.
func HasExt(name string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// ReplaceExt returns the base name of path with its last extension swapped
// for ext: ReplaceExt("dir/notes.txt", ".balance") == "notes.balance".
func ReplaceExt(path, ext string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ext
}

// StripExt returns the base name of path without its last extension.
func StripExt(path string) string {
	return ReplaceExt(path, "")
}

// WriteFileAtomic writes data to dir/name through a temporary file in the
// same directory and a rename. A failed write leaves nothing behind.
func WriteFileAtomic(dir, name string, data []byte) (string, error) {
	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp: %w", err)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("close %s: %w", name, err)
	}

	target := filepath.Join(dir, name)
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("rename %s: %w", name, err)
	}
	return target, nil
}
