package csvbackend

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/FranksOps/leadburr/internal/lead"
	"github.com/FranksOps/leadburr/internal/storage"
)

// ensure csvStore implements storage.LeadStore
var _ storage.LeadStore = (*csvStore)(nil)

type csvStore struct {
	mu    sync.Mutex
	file  *os.File
	links map[string]struct{}
}

// Header is the column order. The first six columns match the lead export
// spreadsheet; the rest carry contact details and bookkeeping.
var Header = []string{
	"Title",
	"Link",
	"Description",
	"Category",
	"City",
	"Country",
	"Email",
	"Phone",
	"Elfsight",
	"Client",
	"ID",
	"CreatedAt",
}

// New opens (creating if needed) a CSV-backed storage.LeadStore.
func New(filePath string) (storage.LeadStore, error) {
	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("csvbackend: open: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("csvbackend: stat: %w", err)
	}

	s := &csvStore{file: f, links: make(map[string]struct{})}

	if info.Size() == 0 {
		if err := s.writeRow(Header); err != nil {
			f.Close()
			return nil, err
		}
		return s, nil
	}

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

func (s *csvStore) ExistsByLink(_ context.Context, link string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.links[link]
	return ok, nil
}

func (s *csvStore) Create(_ context.Context, rec *lead.Record) error {
	row := []string{
		rec.Title,
		rec.Link,
		rec.Snippet,
		rec.Category,
		rec.City,
		rec.Country,
		rec.Email,
		rec.Phone,
		strconv.FormatBool(rec.HasTechFootprint),
		rec.Client,
		rec.ID,
		rec.CreatedAt.Format(time.RFC3339Nano),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.links[rec.Link]; ok {
		return storage.ErrDuplicate
	}
	if err := s.writeRow(row); err != nil {
		return err
	}
	s.links[rec.Link] = struct{}{}
	return nil
}

func (s *csvStore) writeRow(row []string) error {
	if _, err := s.file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("csvbackend: seek: %w", err)
	}
	w := csv.NewWriter(s.file)
	if err := w.Write(row); err != nil {
		return fmt.Errorf("csvbackend: write: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("csvbackend: write: %w", err)
	}
	return nil
}

func (s *csvStore) List(_ context.Context, filter storage.Filter) ([]*lead.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.readAll()
	if err != nil {
		return nil, err
	}
	return filter.Apply(recs), nil
}

func (s *csvStore) readAll() ([]*lead.Record, error) {
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("csvbackend: seek: %w", err)
	}
	defer func() {
		_, _ = s.file.Seek(0, io.SeekEnd)
	}()

	r := csv.NewReader(s.file)
	r.FieldsPerRecord = -1

	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("csvbackend: read header: %w", err)
	}

	var recs []*lead.Record
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csvbackend: read: %w", err)
		}
		if len(row) != len(Header) {
			continue // skip malformed rows
		}

		footprint, _ := strconv.ParseBool(row[8])
		createdAt, _ := time.Parse(time.RFC3339Nano, row[11])

		recs = append(recs, &lead.Record{
			Title:            row[0],
			Link:             row[1],
			Snippet:          row[2],
			Category:         row[3],
			City:             row[4],
			Country:          row[5],
			Email:            row[6],
			Phone:            row[7],
			HasTechFootprint: footprint,
			Client:           row[9],
			ID:               row[10],
			CreatedAt:        createdAt,
		})
	}
	return recs, nil
}

func (s *csvStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
