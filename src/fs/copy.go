package fs

import (
	"os"
	"path/filepath"
)

// CopyFile copies a single file from one path to another.
// 'mode' is the mode of the destination file.
func CopyFile(from, to string, mode os.FileMode) error {
	if mode == 0 {
		info, err := os.Stat(from)
		if err != nil {
			return err
		}
		mode = info.Mode()
	}
	return copyFile(from, to, mode)
}

// RecursiveCopy copies either a single file or a directory tree.
func RecursiveCopy(from, to string) error {
	info, err := os.Stat(from)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return CopyFile(from, to, info.Mode())
	}
	return filepath.Walk(from, func(name string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		dest := filepath.Join(to, name[len(from):])
		if info.IsDir() {
			return EnsureDir(dest)
		}
		return CopyFile(name, dest, info.Mode())
	})
}
