package store

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-breathfree/internal/util"
	"golang.org/x/sync/errgroup"
)

// cachedValue is a value held in memory together with the identity of the
// file it was read from.
type cachedValue struct {
	data        []byte
	info        fileInfo
	fingerprint string
}

// FileStore keeps one <key>.json file per key in a directory with a memory
// copy in front. A memory copy is only served while the file on disk still
// matches it, so edits by another process are picked up.
type FileStore struct {
	baseDir     string
	mu          sync.RWMutex
	memoryCache map[string]*cachedValue
	closed      bool
}

// NewFileStore creates baseDir if needed.
func NewFileStore(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("file store: create dir: %w", err)
	}
	return &FileStore{
		baseDir:     baseDir,
		memoryCache: make(map[string]*cachedValue),
	}, nil
}

func (s *FileStore) Location() string { return s.baseDir }

func (s *FileStore) path(key string) string {
	return filepath.Join(s.baseDir, key+".json")
}

func (s *FileStore) Load(key string) ([]byte, bool, error) {
	if err := validateKey(key); err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, false, ErrClosed
	}
	cached, ok := s.memoryCache[key]
	s.mu.RUnlock()

	if ok && s.stillValid(key, cached) {
		return cloneBytes(cached.data), true, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.memoryCache, key)

	value, err := s.readFile(key)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("file store: load %s: %w", key, err)
	}
	s.memoryCache[key] = value
	return cloneBytes(value.data), true, nil
}

// stillValid compares the cached identity against the file on disk.
func (s *FileStore) stillValid(key string, cached *cachedValue) bool {
	current, err := statFile(s.path(key))
	if err != nil {
		util.LogDebugf("file store: %s invalidated: %v", key, err)
		return false
	}
	if current != cached.info {
		util.LogDebug("file store: value changed on disk",
			util.F("key", key),
			util.F("cached_size", cached.info.Size),
			util.F("current_size", current.Size))
		return false
	}
	fp, err := fileFingerprint(s.path(key))
	if err != nil || fp != cached.fingerprint {
		util.LogDebugf("file store: %s fingerprint mismatch", key)
		return false
	}
	return true
}

func (s *FileStore) readFile(key string) (*cachedValue, error) {
	path := s.path(key)
	info, err := statFile(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !sonic.Valid(data) {
		return nil, fmt.Errorf("malformed JSON in %s", filepath.Base(path))
	}
	return &cachedValue{data: data, info: info, fingerprint: fingerprint(data)}, nil
}

// Save writes value to a temp file in the same directory and renames it
// over the old one.
func (s *FileStore) Save(key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if !sonic.Valid(value) {
		return fmt.Errorf("file store: save %s: value is not valid JSON", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	path := s.path(key)
	tmp, err := os.CreateTemp(s.baseDir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("file store: save %s: %w", key, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("file store: save %s: write: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("file store: save %s: sync: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("file store: save %s: close: %w", key, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("file store: save %s: rename: %w", key, err)
	}

	info, err := statFile(path)
	if err != nil {
		delete(s.memoryCache, key)
		return nil
	}
	s.memoryCache[key] = &cachedValue{data: cloneBytes(value), info: info, fingerprint: fingerprint(value)}
	return nil
}

func (s *FileStore) Delete(keys ...string) error {
	for _, key := range keys {
		if err := validateKey(key); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	var errs []error
	for _, key := range keys {
		delete(s.memoryCache, key)
		if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("file store: delete %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// Preload reads every value file into memory concurrently. Unreadable
// files are logged and skipped.
func (s *FileStore) Preload() error {
	matches, err := filepath.Glob(filepath.Join(s.baseDir, "*.json"))
	if err != nil {
		return fmt.Errorf("file store: scan: %w", err)
	}
	if len(matches) == 0 {
		return nil
	}

	type result struct {
		key   string
		value *cachedValue
	}
	results := make([]result, len(matches))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, path := range matches {
		key := strings.TrimSuffix(filepath.Base(path), ".json")
		if validateKey(key) != nil {
			continue
		}
		g.Go(func() error {
			value, err := s.readFile(key)
			if err != nil {
				util.LogWarn("file store: preload skipped", util.F("key", key), util.F("error", err))
				return nil
			}
			results[i] = result{key: key, value: value}
			return nil
		})
	}
	_ = g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	loaded := 0
	for _, r := range results {
		if r.value != nil {
			s.memoryCache[r.key] = r.value
			loaded++
		}
	}
	util.LogDebugf("file store: preloaded %d of %d values", loaded, len(matches))
	return nil
}

func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.memoryCache = make(map[string]*cachedValue)
	return nil
}

func cloneBytes(b []byte) []byte {
	return bytes.Clone(b)
}
