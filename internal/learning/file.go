package learning

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/Antagata/Month-recap-AVU/internal/model"
)

// manualTag marks manual-correction lines in the flat file.
const manualTag = "(manual correction)"

const fileHeader = `# Learning database
# Format: name | vintage | item no. | timestamp [ (manual correction) ]
# Append-only; corrections supersede earlier lines for the same key.
`

// FileStore is the flat-file Store backend. The on-disk line format
//
//	name | vintage | item no. | timestamp [ (manual correction) ]
//
// is a compatibility contract with pre-existing learning databases. Lines
// starting with '#' are comments. Writes are buffered and appended on
// Flush under a single-writer lock; readers only ever see fully written
// lines because appends are line-atomic and the in-memory view is guarded.
type FileStore struct {
	path string

	mu      sync.RWMutex
	current map[Key]Record
	seen    map[Key]map[int64]bool
	pending []Record
}

// OpenFile loads an existing learning file (or starts a new one) and
// returns a ready store.
func OpenFile(path string) (*FileStore, error) {
	s := &FileStore{
		path:    path,
		current: make(map[Key]Record),
		seen:    make(map[Key]map[int64]bool),
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "learning: open %s", path)
	}
	defer f.Close()

	loaded := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		rec, ok := parseLine(scanner.Text())
		if !ok {
			continue
		}
		s.apply(rec)
		loaded++
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrapf(err, "learning: read %s", path)
	}

	zap.L().Info("learning: loaded store",
		zap.String("path", path),
		zap.Int("records", loaded),
		zap.Int("keys", len(s.current)),
	)
	return s, nil
}

func (s *FileStore) Lookup(_ context.Context, key Key) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if rec, ok := s.current[key]; ok {
		return &rec, nil
	}
	return nil, nil
}

func (s *FileStore) Record(_ context.Context, key Key, itemID int64, origin Origin) (PutOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seen[key][itemID] {
		return DuplicateSkipped, nil
	}

	rec := Record{Key: key, ItemID: itemID, Timestamp: time.Now().UTC(), Origin: origin}
	s.pending = append(s.pending, rec)

	prev, had := s.current[key]
	outcome := Stored
	if had && origin == OriginManualCorrection && prev.ItemID != itemID {
		outcome = Corrected
		zap.L().Info("learning: correction supersedes earlier record",
			zap.String("name", key.Name),
			zap.String("vintage", key.Vintage.String()),
			zap.Int64("old_item", prev.ItemID),
			zap.Int64("new_item", itemID),
		)
	}
	s.apply(rec)
	return outcome, nil
}

// Flush appends pending records to the file. A single writer at a time.
func (s *FileStore) Flush(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return nil
	}

	_, statErr := os.Stat(s.path)
	fresh := os.IsNotExist(statErr)

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return eris.Wrapf(err, "learning: append %s", s.path)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if fresh {
		if _, err := w.WriteString(fileHeader); err != nil {
			return eris.Wrap(err, "learning: write header")
		}
	}
	for _, rec := range s.pending {
		if _, err := w.WriteString(formatLine(rec) + "\n"); err != nil {
			return eris.Wrap(err, "learning: write record")
		}
	}
	if err := w.Flush(); err != nil {
		return eris.Wrapf(err, "learning: flush %s", s.path)
	}

	zap.L().Debug("learning: flushed", zap.Int("records", len(s.pending)))
	s.pending = s.pending[:0]
	return nil
}

func (s *FileStore) Close() error {
	return s.Flush(context.Background())
}

// Len returns the number of distinct learned keys.
func (s *FileStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.current)
}

// apply merges a record into the in-memory view under precedence rules.
// Caller holds the write lock.
func (s *FileStore) apply(rec Record) {
	if s.seen[rec.Key] == nil {
		s.seen[rec.Key] = make(map[int64]bool)
	}
	s.seen[rec.Key][rec.ItemID] = true

	prev, had := s.current[rec.Key]
	if !had || supersedes(prev.Origin, rec.Origin) {
		s.current[rec.Key] = rec
	}
}

func formatLine(rec Record) string {
	line := fmt.Sprintf("%s | %s | %d | %s",
		rec.Key.Name,
		rec.Key.Vintage.String(),
		rec.ItemID,
		rec.Timestamp.Format("2006-01-02 15:04:05"),
	)
	if rec.Origin == OriginManualCorrection {
		line += " " + manualTag
	}
	return line
}

// parseLine decodes one stored line. Malformed or commented lines are
// skipped rather than failing the whole load.
func parseLine(line string) (Record, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Record{}, false
	}

	parts := strings.Split(line, " | ")
	if len(parts) < 3 {
		return Record{}, false
	}

	// Item id may carry trailing annotations from hand-edited files.
	idField := strings.Fields(strings.TrimSpace(parts[2]))
	if len(idField) == 0 {
		return Record{}, false
	}
	itemID, err := strconv.ParseInt(idField[0], 10, 64)
	if err != nil {
		return Record{}, false
	}

	rec := Record{
		// Legacy files may store raw names; normalize on the way in so
		// lookups always compare canonical keys.
		Key:    NewKey(strings.TrimSpace(parts[0]), model.ParseVintage(strings.TrimSpace(parts[1]))),
		ItemID: itemID,
		Origin: OriginAuto,
	}
	if len(parts) >= 4 {
		tail := strings.TrimSpace(parts[3])
		if strings.Contains(tail, "manual correction") {
			rec.Origin = OriginManualCorrection
		}
		tsText := strings.TrimSpace(strings.TrimSuffix(tail, manualTag))
		if ts, err := time.Parse("2006-01-02 15:04:05", tsText); err == nil {
			rec.Timestamp = ts
		}
	}
	return rec, true
}
