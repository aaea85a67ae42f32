package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/shoaibubaid/COUNTDOWN/internal/config"
)

// FileBackend persists every list in a single JSON document on disk.
// Writes go to a temporary sibling file that is then renamed over the
// original, so readers never observe a half-written document.
type FileBackend struct {
	// fs is the filesystem the document lives on.
	fs afero.Fs
	// path is the location of the JSON document.
	path string
	// mu serialises access to the document.
	mu sync.Mutex
}

// ErrCorrupt is returned when the lists file exists but cannot be decoded.
var ErrCorrupt = errors.New("lists file is corrupt")

// document is the on-disk layout: list key to ordered values.
type document struct {
	Lists map[string][]string `json:"lists"`
}

// NewFileBackend creates a backend that reads/writes JSON at path on the OS filesystem.
func NewFileBackend(path string) *FileBackend {
	return NewFileBackendFs(afero.NewOsFs(), path)
}

// NewFileBackendFs creates a backend on the provided filesystem.
func NewFileBackendFs(fs afero.Fs, path string) *FileBackend {
	return &FileBackend{
		fs:   fs,
		path: filepath.Clean(path),
	}
}

// Path returns the location of the JSON document.
func (b *FileBackend) Path() string {
	return b.path
}

// GetList reads the list stored under key.
func (b *FileBackend) GetList(_ context.Context, key string) ([]string, error) {
	if key == "" {
		return nil, errEmptyKey
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	doc, err := b.read()
	if err != nil {
		return nil, err
	}

	values, ok := doc.Lists[key]
	if !ok {
		return nil, ErrNotFound
	}

	if values == nil {
		values = []string{}
	}

	return values, nil
}

// SetList replaces the list stored under key, keeping other keys intact.
func (b *FileBackend) SetList(_ context.Context, key string, values []string) error {
	if key == "" {
		return errEmptyKey
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// A corrupt document is replaced wholesale; there is nothing to keep.
	doc, err := b.read()
	if err != nil && !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrCorrupt) {
		return err
	}

	if values == nil {
		values = []string{}
	}

	doc.Lists[key] = values

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode lists: %w", err)
	}

	return b.write(data)
}

// read loads the whole document. A missing file yields an empty document and ErrNotFound.
func (b *FileBackend) read() (*document, error) {
	doc := &document{
		Lists: make(map[string][]string),
	}

	contents, err := afero.ReadFile(b.fs, b.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, ErrNotFound
		}

		return doc, fmt.Errorf("read lists file: %w", err)
	}

	if err = json.Unmarshal(contents, doc); err != nil {
		return &document{Lists: make(map[string][]string)}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}

	if doc.Lists == nil {
		doc.Lists = make(map[string][]string)
	}

	return doc, nil
}

// write stores data through a temporary file and an atomic rename.
func (b *FileBackend) write(data []byte) error {
	if dir := filepath.Dir(b.path); dir != "." {
		if err := b.fs.MkdirAll(dir, config.DefaultDirPermissions); err != nil {
			return fmt.Errorf("create lists directory: %w", err)
		}
	}

	tmpPath := b.path + ".tmp"

	if err := afero.WriteFile(b.fs, tmpPath, data, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write lists file: %w", err)
	}

	if err := b.fs.Rename(tmpPath, b.path); err != nil {
		_ = b.fs.Remove(tmpPath)

		return fmt.Errorf("replace lists file: %w", err)
	}

	return nil
}
