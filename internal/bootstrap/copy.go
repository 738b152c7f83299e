package bootstrap

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// copyFile copies src on srcFs to dst on dstFs, keeping the source's
// permission bits.
func copyFile(srcFs afero.Fs, src string, dstFs afero.Fs, dst string) error {
	in, err := srcFs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	// embedded files report 0444; the user copy must stay owner-writable
	perm := info.Mode().Perm() | 0o200

	out, err := dstFs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// maxTreeDepth bounds recursion through symlinked directories that loop.
const maxTreeDepth = 64

// copyTree recursively copies the directory src to dst on fsys.  dst must not
// exist.  Symlinks are followed and their targets copied.  On failure the
// partial copy is removed so the next run retries.
func copyTree(fsys afero.Fs, src, dst string) (files int, err error) {
	defer func() {
		if err != nil {
			_ = fsys.RemoveAll(dst)
		}
	}()

	info, err := fsys.Stat(src)
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("%s is not a directory", src)
	}
	err = copyDir(fsys, src, dst, info.Mode().Perm(), 0, &files)
	return files, err
}

func copyDir(fsys afero.Fs, src, dst string, perm os.FileMode, depth int, files *int) error {
	if depth > maxTreeDepth {
		return fmt.Errorf("%s: nested more than %d levels, symlink loop?", src, maxTreeDepth)
	}
	if err := fsys.MkdirAll(dst, perm|0o700); err != nil {
		return err
	}
	entries, err := afero.ReadDir(fsys, src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		path := filepath.Join(src, entry.Name())
		target := filepath.Join(dst, entry.Name())

		info := entry
		if entry.Mode()&os.ModeSymlink != 0 {
			if info, err = fsys.Stat(path); err != nil {
				return err
			}
		}

		switch {
		case info.IsDir():
			err = copyDir(fsys, path, target, info.Mode().Perm(), depth+1, files)
		case info.Mode().IsRegular():
			*files++
			err = copyFile(fsys, path, fsys, target)
		default:
			// sockets and devices are not part of a udf tree
		}
		if err != nil {
			return err
		}
	}
	return nil
}
