// Package gitstore provides a Git plumbing-based implementation of domain.RecordStore.
package gitstore

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"gopkg.in/yaml.v3"

	"github.com/runoshun/mission-control/internal/domain"
)

// Store implements domain.RecordStore using Git plumbing (refs and blobs).
//
// Data structure:
//
//	refs/<namespace>/
//	  tasks     → blob (YAML list of tasks)
//	  agents    → blob (YAML list of agents)
//	  mentions  → blob (YAML list of mentions)
//
// A write stores a complete new blob first and only then moves the ref, so
// a reader sees either the previous snapshot or the new one.
type Store[T any] struct {
	repo       *git.Repository
	onCorrupt  CorruptHandler
	namespace  string
	collection string
}

// CorruptHandler is called when the referenced blob cannot be decoded.
// blob is the hash of the unreadable snapshot, which stays in the object database.
type CorruptHandler func(ref, blob string, err error)

// OpenRepository opens the git repository at path, creating a bare one if
// the directory is not a repository yet.
func OpenRepository(path string) (*git.Repository, error) {
	repo, err := git.PlainOpen(path)
	if err == nil {
		return repo, nil
	}
	if !errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("open git repository: %w", err)
	}
	if err := os.MkdirAll(path, 0o750); err != nil {
		return nil, fmt.Errorf("create repository directory: %w", err)
	}
	repo, err = git.PlainInit(path, true)
	if err != nil {
		return nil, fmt.Errorf("init git repository: %w", err)
	}
	return repo, nil
}

// New creates a Store for one collection in the given namespace.
func New[T any](repo *git.Repository, namespace, collection string, onCorrupt CorruptHandler) *Store[T] {
	return &Store[T]{
		repo:       repo,
		namespace:  namespace,
		collection: collection,
		onCorrupt:  onCorrupt,
	}
}

// refName returns the ref holding this collection.
func (s *Store[T]) refName() plumbing.ReferenceName {
	return plumbing.ReferenceName("refs/" + s.namespace + "/" + s.collection)
}

// ReadAll decodes the collection referenced by the ref.
// A missing ref or an undecodable blob yields an empty collection.
func (s *Store[T]) ReadAll() ([]T, error) {
	ref, err := s.repo.Reference(s.refName(), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("get %s ref: %w", s.collection, err)
	}

	data, err := s.readBlob(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.collection, err)
	}

	var records []T
	if err := yaml.Unmarshal(data, &records); err != nil {
		if s.onCorrupt != nil {
			s.onCorrupt(string(s.refName()), ref.Hash().String(),
				fmt.Errorf("%w: %s: %w", domain.ErrStorageCorrupt, s.refName(), err))
		}
		return []T{}, nil
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// WriteAll stores records as a new blob and points the ref at it.
func (s *Store[T]) WriteAll(records []T) error {
	if records == nil {
		records = []T{}
	}
	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %w", domain.ErrStorageIO, s.collection, err)
	}

	hash, err := s.writeBlob(data)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStorageIO, err)
	}

	ref := plumbing.NewHashReference(s.refName(), hash)
	if err := s.repo.Storer.SetReference(ref); err != nil {
		return fmt.Errorf("%w: set %s ref: %w", domain.ErrStorageIO, s.collection, err)
	}
	return nil
}

// IsInitialized checks if the collection ref exists.
func (s *Store[T]) IsInitialized() bool {
	_, err := s.repo.Reference(s.refName(), true)
	return err == nil
}

// Initialize points the ref at an empty collection if it doesn't exist.
func (s *Store[T]) Initialize() error {
	if s.IsInitialized() {
		return nil
	}
	return s.WriteAll([]T{})
}

func (s *Store[T]) writeBlob(data []byte) (plumbing.Hash, error) {
	obj := s.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	obj.SetSize(int64(len(data)))

	writer, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("create blob writer: %w", err)
	}

	if _, writeErr := writer.Write(data); writeErr != nil {
		_ = writer.Close()
		return plumbing.ZeroHash, fmt.Errorf("write blob: %w", writeErr)
	}
	if err := writer.Close(); err != nil {
		return plumbing.ZeroHash, fmt.Errorf("close blob writer: %w", err)
	}

	hash, err := s.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("store blob: %w", err)
	}

	return hash, nil
}

func (s *Store[T]) readBlob(hash plumbing.Hash) ([]byte, error) {
	blob, err := s.repo.BlobObject(hash)
	if err != nil {
		return nil, fmt.Errorf("get blob: %w", err)
	}

	reader, err := blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	defer func() { _ = reader.Close() }()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read blob data: %w", err)
	}
	return data, nil
}

// Ensure Store implements domain.RecordStore.
var _ domain.RecordStore[domain.Agent] = (*Store[domain.Agent])(nil)
