package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
)

// LocalDisk stores objects below a root directory.
type LocalDisk struct {
	root string // absolute root directory
}

// NewLocalDisk creates root if needed. A relative root is resolved against
// the working directory.
func NewLocalDisk(root string) (*LocalDisk, error) {
	if !filepath.IsAbs(root) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("storage/local: getwd: %w", err)
		}
		root = filepath.Join(cwd, root)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage/local: mkdir %s: %w", root, err)
	}
	return &LocalDisk{root: root}, nil
}

// Root returns the absolute root directory.
func (d *LocalDisk) Root() string { return d.root }

func (d *LocalDisk) abs(name string) (string, error) {
	clean, err := CleanName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(d.root, filepath.FromSlash(clean)), nil
}

// Put writes to a temporary file in the target directory, syncs it and
// renames it into place, so readers never see a partial file.
func (d *LocalDisk) Put(_ context.Context, name string, r io.Reader, _ string) error {
	full, err := d.abs(name)
	if err != nil {
		return err
	}
	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage/local: mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("storage/local: create %s: %w", name, err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("storage/local: write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("storage/local: sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage/local: close %s: %w", name, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("storage/local: chmod %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		return fmt.Errorf("storage/local: rename %s: %w", name, err)
	}
	return nil
}

func (d *LocalDisk) Open(ctx context.Context, name string) (io.ReadCloser, Info, error) {
	full, err := d.abs(name)
	if err != nil {
		return nil, Info{}, err
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, Info{}, wrapLocal("open", name, err)
	}
	info, err := statFile(f.Stat())
	if err != nil {
		f.Close()
		return nil, Info{}, wrapLocal("stat", name, err)
	}
	info.ContentType = mime.TypeByExtension(filepath.Ext(full))
	return f, info, nil
}

func (d *LocalDisk) Stat(_ context.Context, name string) (Info, error) {
	full, err := d.abs(name)
	if err != nil {
		return Info{}, err
	}
	info, err := statFile(os.Stat(full))
	if err != nil {
		return Info{}, wrapLocal("stat", name, err)
	}
	info.ContentType = mime.TypeByExtension(filepath.Ext(full))
	return info, nil
}

func (d *LocalDisk) Delete(_ context.Context, name string) error {
	full, err := d.abs(name)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage/local: delete %s: %w", name, err)
	}
	return nil
}

func statFile(fi fs.FileInfo, err error) (Info, error) {
	if err != nil {
		return Info{}, err
	}
	if fi.IsDir() {
		return Info{}, fs.ErrNotExist
	}
	return Info{Size: fi.Size(), LastModified: fi.ModTime()}, nil
}

func wrapLocal(op, name string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage/local: %s %s: %w", op, name, ErrNotExist)
	}
	return fmt.Errorf("storage/local: %s %s: %w", op, name, err)
}
