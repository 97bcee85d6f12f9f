// Package fs contains filesystem helpers for writing the generated bundle.
package fs

import (
	"io"
	"os"
	"path/filepath"

	logger "github.com/please-build/xcodegen/src/cli/logging"
)

var log = logger.Log

// DirPermissions are the default permission bits we apply to directories.
const DirPermissions = os.ModeDir | 0775

// EnsureDir ensures that the given directory exists.
func EnsureDir(dir string) error {
	err := os.MkdirAll(dir, DirPermissions)
	if err != nil && checkFileExists(dir) {
		// It looks like this is a file and not a directory. Attempt to remove it;
		// this can happen when a previous run left a plain file where we need a directory.
		log.Warning("Attempting to remove file %s; a directory is needed here", dir)
		if err := os.Remove(dir); err != nil {
			return err
		}
		err = os.MkdirAll(dir, DirPermissions)
	}
	return err
}

// checkFileExists returns true if the given path exists and is a real file (not a directory).
func checkFileExists(filename string) bool {
	info, err := os.Stat(filename)
	return err == nil && !info.IsDir()
}

// WriteFileAtomic writes a file by writing a temporary alongside it and
// renaming over, so a failed run never leaves a half-written document.
func WriteFileAtomic(filename string, contents []byte, mode os.FileMode) error {
	if err := EnsureDir(filepath.Dir(filename)); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(filename), filepath.Base(filename)+".tmp*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(contents); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Chmod(mode); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, filename)
}

// copyFile copies a single file contents from one path to another.
func copyFile(from, to string, mode os.FileMode) error {
	fromFile, err := os.Open(from)
	if err != nil {
		return err
	}
	defer fromFile.Close()
	if err := EnsureDir(filepath.Dir(to)); err != nil {
		return err
	}
	toFile, err := os.OpenFile(to, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer toFile.Close()
	_, err = io.Copy(toFile, fromFile)
	return err
}
