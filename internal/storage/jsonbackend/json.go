package jsonbackend

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/FranksOps/leadburr/internal/lead"
	"github.com/FranksOps/leadburr/internal/storage"
)

// ensure jsonStore implements storage.LeadStore
var _ storage.LeadStore = (*jsonStore)(nil)

// jsonStore appends one JSON record per line. Known links are indexed in
// memory when the file is opened.
type jsonStore struct {
	mu    sync.Mutex
	file  *os.File
	links map[string]struct{}
}

// New opens (creating if needed) an NDJSON-backed storage.LeadStore.
func New(filePath string) (storage.LeadStore, error) {
	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("jsonbackend: open: %w", err)
	}

	s := &jsonStore{file: f, links: make(map[string]struct{})}
	recs, err := s.readAll()
	if err != nil {
		f.Close()
		return nil, err
	}
	for _, r := range recs {
		s.links[r.Link] = struct{}{}
	}
	return s, nil
}

func (s *jsonStore) ExistsByLink(_ context.Context, link string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.links[link]
	return ok, nil
}

func (s *jsonStore) Create(_ context.Context, rec *lead.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("jsonbackend: encode: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.links[rec.Link]; ok {
		return storage.ErrDuplicate
	}
	if _, err := s.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("jsonbackend: write: %w", err)
	}
	s.links[rec.Link] = struct{}{}
	return nil
}

func (s *jsonStore) List(_ context.Context, filter storage.Filter) ([]*lead.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.readAll()
	if err != nil {
		return nil, err
	}
	return filter.Apply(recs), nil
}

// readAll must be called with mu held (or before the store is shared).
func (s *jsonStore) readAll() ([]*lead.Record, error) {
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("jsonbackend: seek: %w", err)
	}
	defer func() {
		_, _ = s.file.Seek(0, io.SeekEnd)
	}()

	scanner := bufio.NewScanner(s.file)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	var recs []*lead.Record
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var r lead.Record
		if err := json.Unmarshal(line, &r); err != nil {
			return nil, fmt.Errorf("jsonbackend: decode: %w", err)
		}
		recs = append(recs, &r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("jsonbackend: read: %w", err)
	}
	return recs, nil
}

func (s *jsonStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
