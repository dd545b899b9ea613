// Package store persists classification runs as JSON records on disk,
// one file per run under <dir>/<taleID>/<runID>.json. The store is
// bookkeeping for the review workflow; graph identity never depends on
// what it holds.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/c360studio/folkgraph/identity"
	"github.com/c360studio/folkgraph/provenance"
)

// ErrNotFound is returned when a run record does not exist.
var ErrNotFound = errors.New("run record not found")

// Record is the stored envelope around one classification payload.
type Record struct {
	RecordID string             `json:"record_id"`
	SavedAt  time.Time          `json:"saved_at"`
	Payload  provenance.Payload `json:"payload"`
}

// Store reads and writes run records under one directory. Reads are
// memoized per file and invalidated by modification time and size, so
// repeated lookups of the same run cost one stat.
type Store struct {
	dir    string
	logger *slog.Logger

	entries map[string]cacheEntry
	mu      sync.RWMutex
	group   singleflight.Group
}

type cacheEntry struct {
	record  Record
	modTime time.Time
	size    int64
}

func (e cacheEntry) fresh(info os.FileInfo) bool {
	return e.modTime.Equal(info.ModTime()) && e.size == info.Size()
}

// New creates a store rooted at dir. A nil logger falls back to
// slog.Default.
func New(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, logger: logger, entries: make(map[string]cacheEntry)}
}

// Save persists one payload under a fresh record envelope. The tale and
// run ids come from the payload itself.
func (s *Store) Save(p provenance.Payload) (Record, error) {
	taleID, err := pathComponent("tale id", p.Meta.TaleID)
	if err != nil {
		return Record{}, err
	}
	runID, err := pathComponent("run id", p.Meta.RunID)
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		RecordID: uuid.New().String(),
		SavedAt:  time.Now().UTC().Truncate(time.Second),
		Payload:  p,
	}
	if err := s.write(s.path(taleID, runID), rec); err != nil {
		return Record{}, err
	}
	s.logger.Info("run record saved", "tale", taleID, "run", runID, "record", rec.RecordID)
	return rec, nil
}

// Get returns one run record.
func (s *Store) Get(taleID, runID string) (Record, error) {
	taleID, err := pathComponent("tale id", taleID)
	if err != nil {
		return Record{}, err
	}
	runID, err = pathComponent("run id", runID)
	if err != nil {
		return Record{}, err
	}
	return s.read(s.path(taleID, runID))
}

// List returns all records of one tale, oldest first. Run ids embed the
// RFC 3339 creation stamp, so created_at order is also run id order. A
// tale without records yields an empty list, not an error.
func (s *Store) List(taleID string) ([]Record, error) {
	taleID, err := pathComponent("tale id", taleID)
	if err != nil {
		return nil, err
	}
	dir := filepath.Join(s.dir, taleID)

	dirents, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list runs for %s: %w", taleID, err)
	}

	var recs []Record
	for _, e := range dirents {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		rec, err := s.read(filepath.Join(dir, e.Name()))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		recs = append(recs, rec)
	}

	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i].Payload.Meta, recs[j].Payload.Meta
		if a.CreatedAt != b.CreatedAt {
			return a.CreatedAt < b.CreatedAt
		}
		return recs[i].SavedAt.Before(recs[j].SavedAt)
	})
	return recs, nil
}

// Latest returns the newest record of one tale, ErrNotFound when the
// tale has none.
func (s *Store) Latest(taleID string) (Record, error) {
	recs, err := s.List(taleID)
	if err != nil {
		return Record{}, err
	}
	if len(recs) == 0 {
		return Record{}, ErrNotFound
	}
	return recs[len(recs)-1], nil
}

// ApplyReview loads one record, applies the expert override to its
// payload and rewrites the file in place. A zero SavedAt on the review
// is stamped with the current time. The record id survives the rewrite;
// only the envelope timestamp moves.
func (s *Store) ApplyReview(taleID, runID string, rev provenance.Review) (Record, error) {
	taleID, err := pathComponent("tale id", taleID)
	if err != nil {
		return Record{}, err
	}
	runID, err = pathComponent("run id", runID)
	if err != nil {
		return Record{}, err
	}
	if identity.CleanWS(rev.Code) == "" {
		return Record{}, errors.New("review must carry an ATU code")
	}

	rec, err := s.read(s.path(taleID, runID))
	if err != nil {
		return Record{}, err
	}
	if rev.SavedAt.IsZero() {
		rev.SavedAt = time.Now().UTC()
	}

	rec.Payload.ApplyReview(rev)
	rec.SavedAt = time.Now().UTC().Truncate(time.Second)
	if err := s.write(s.path(taleID, runID), rec); err != nil {
		return Record{}, err
	}
	s.logger.Info("expert review applied", "tale", taleID, "run", runID, "atu", rec.Payload.Meta.FinalATU)
	return rec, nil
}

func (s *Store) path(taleID, runID string) string {
	return filepath.Join(s.dir, taleID, runID+".json")
}

func (s *Store) read(path string) (Record, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("stat record %s: %w", path, err)
	}

	s.mu.RLock()
	entry, ok := s.entries[path]
	s.mu.RUnlock()
	if ok && entry.fresh(info) {
		return entry.record, nil
	}

	result, err, _ := s.group.Do(path, func() (any, error) {
		s.mu.RLock()
		entry, ok := s.entries[path]
		s.mu.RUnlock()
		if ok && entry.fresh(info) {
			return entry.record, nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("read record %s: %w", path, err)
		}
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("parse record %s: %w", path, err)
		}

		s.mu.Lock()
		s.entries[path] = cacheEntry{record: rec, modTime: info.ModTime(), size: info.Size()}
		s.mu.Unlock()
		return rec, nil
	})
	if err != nil {
		return Record{}, err
	}
	return result.(Record), nil
}

// write lands the record atomically: temp file in the target directory,
// then rename. Readers never observe a partial record.
func (s *Store) write(path string, rec Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create run dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".record-*")
	if err != nil {
		return fmt.Errorf("create temp record: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp record: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("chmod temp record: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace record %s: %w", path, err)
	}

	s.mu.Lock()
	delete(s.entries, path)
	s.mu.Unlock()
	return nil
}

// pathComponent validates an id that becomes a file name component.
func pathComponent(kind, v string) (string, error) {
	v = identity.CleanWS(v)
	if v == "" {
		return "", fmt.Errorf("%s must not be empty", kind)
	}
	if v == "." || v == ".." || strings.ContainsAny(v, `/\`) {
		return "", fmt.Errorf("%s %q is not a valid file name", kind, v)
	}
	return v, nil
}
