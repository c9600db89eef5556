// Package jsonstore provides a JSON file-based implementation of domain.RecordStore.
//
// Each collection is one JSON array file, rewritten wholesale on every write.
// Writes go to a uniquely named temp file in the same directory which is then
// renamed over the target, so readers never observe a partial file.
package jsonstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/tidwall/gjson"

	"github.com/runoshun/mission-control/internal/domain"
)

// CorruptHandler is called when the backing file cannot be decoded.
// quarantine is the path the unreadable bytes were copied to ("" if the copy failed).
type CorruptHandler func(path, quarantine string, err error)

// Option configures a Store.
type Option func(*options)

type options struct {
	onCorrupt CorruptHandler
}

// WithCorruptHandler sets the handler invoked on unreadable content.
func WithCorruptHandler(h CorruptHandler) Option {
	return func(o *options) {
		o.onCorrupt = h
	}
}

// Store implements domain.RecordStore using a JSON file.
type Store[T any] struct {
	onCorrupt CorruptHandler
	path      string

	mu          sync.Mutex
	quarantined []byte // last corrupt content copied aside, to avoid repeated copies
}

// New creates a new Store for the given file path.
// The file does not need to exist; it will be created on first write.
func New[T any](path string, opts ...Option) *Store[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &Store[T]{
		path:      path,
		onCorrupt: o.onCorrupt,
	}
}

// Path returns the backing file path.
func (s *Store[T]) Path() string {
	return s.path
}

// ReadAll decodes every record from the file.
// A missing or empty file yields an empty collection. Content that is not a
// JSON array is copied aside to <path>.corrupt-<unixnano>, reported to the
// corrupt handler, and yields an empty collection. Inside a valid array, only
// the records that fail to decode are dropped; the file is still copied aside
// and reported, and the remaining records are returned.
func (s *Store[T]) ReadAll() ([]T, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	if len(bytes.TrimSpace(content)) == 0 {
		return []T{}, nil
	}

	if !gjson.ValidBytes(content) {
		s.corrupt(content, fmt.Errorf("%w: %s: invalid JSON", domain.ErrStorageCorrupt, s.path))
		return []T{}, nil
	}
	doc := gjson.ParseBytes(content)
	if !doc.IsArray() {
		s.corrupt(content, fmt.Errorf("%w: %s: expected a JSON array", domain.ErrStorageCorrupt, s.path))
		return []T{}, nil
	}

	records, dropped, firstErr := decodeRecords[T](doc.Array())
	if dropped > 0 {
		s.corrupt(content, fmt.Errorf("%w: %s: dropped %d of %d records: %w",
			domain.ErrStorageCorrupt, s.path, dropped, dropped+len(records), firstErr))
	}

	return records, nil
}

var errNullRecord = errors.New("null record")

// decodeRecords decodes each array element on its own so that one bad
// record does not cost the rest of the collection. Null elements count as bad.
func decodeRecords[T any](elems []gjson.Result) (records []T, dropped int, firstErr error) {
	records = make([]T, 0, len(elems))
	for i, elem := range elems {
		var rec T
		err := errNullRecord
		if elem.Type != gjson.Null {
			err = json.Unmarshal([]byte(elem.Raw), &rec)
		}
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("record %d: %w", i, err)
			}
			dropped++
			continue
		}
		records = append(records, rec)
	}
	return records, dropped, firstErr
}

// WriteAll atomically replaces the file with records.
func (s *Store[T]) WriteAll(records []T) error {
	if records == nil {
		records = []T{}
	}
	content, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal store data: %w", domain.ErrStorageIO, err)
	}
	if err := s.write(content); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorageIO, err)
	}
	return nil
}

// IsInitialized checks if the store file exists.
func (s *Store[T]) IsInitialized() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Initialize creates an empty collection file if it doesn't exist.
func (s *Store[T]) Initialize() error {
	if s.IsInitialized() {
		return nil
	}
	return s.WriteAll([]T{})
}

func (s *Store[T]) write(content []byte) error {
	// Ensure parent directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	// Unique temp name so concurrent writers never share a temp file
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		cleanup()
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

// corrupt copies unreadable content aside (once per distinct content) and
// notifies the handler.
func (s *Store[T]) corrupt(content []byte, cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if bytes.Equal(s.quarantined, content) {
		return
	}

	quarantine := s.path + ".corrupt-" + strconv.FormatInt(time.Now().UnixNano(), 10)
	if err := os.WriteFile(quarantine, content, 0o600); err != nil {
		quarantine = ""
	} else {
		s.quarantined = bytes.Clone(content)
	}

	if s.onCorrupt != nil {
		s.onCorrupt(s.path, quarantine, cause)
	}
}

// Ensure Store implements domain.RecordStore.
var _ domain.RecordStore[domain.Task] = (*Store[domain.Task])(nil)
