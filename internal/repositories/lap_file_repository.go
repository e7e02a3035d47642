package repositories

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"pitwall/internal/models"

	"github.com/goccy/go-json"
)

// FileLapRepository keeps laps in a single JSON array on disk.
type FileLapRepository struct {
	path string
	mu   sync.RWMutex
}

// NewFileLapRepository creates a repository backed by the file at path. The
// file does not need to exist yet.
func NewFileLapRepository(path string) *FileLapRepository {
	return &FileLapRepository{
		path: path,
	}
}

// Path returns the backing file location.
func (r *FileLapRepository) Path() string {
	return r.path
}

// GetAll returns every stored lap. Rows without an id get their index, rows
// without a name get "Item <index>". A missing file yields no rows.
func (r *FileLapRepository) GetAll() ([]models.FilteredLap, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.read()
}

// GetByID returns the lap with the given id.
func (r *FileLapRepository) GetByID(id int) (*models.FilteredLap, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	laps, err := r.read()
	if err != nil {
		return nil, err
	}
	i := indexOf(laps, id)
	if i < 0 {
		return nil, fmt.Errorf("lap %d: %w", id, ErrLapItemNotFound)
	}
	return &laps[i], nil
}

// ReplaceAll overwrites the file with laps.
func (r *FileLapRepository) ReplaceAll(laps []models.FilteredLap) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.write(laps)
}

// Create appends lap, assigning it the next free id.
func (r *FileLapRepository) Create(lap *models.FilteredLap) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	laps, err := r.read()
	if err != nil {
		return err
	}
	next := 0
	for _, l := range laps {
		if *l.ID >= next {
			next = *l.ID + 1
		}
	}
	lap.ID = &next
	if lap.Name == "" {
		lap.Name = fmt.Sprintf("Item %d", next)
	}
	return r.write(append(laps, *lap))
}

// Update applies fn to the lap with the given id and persists the result.
func (r *FileLapRepository) Update(id int, apply func(*models.FilteredLap)) (*models.FilteredLap, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	laps, err := r.read()
	if err != nil {
		return nil, err
	}
	i := indexOf(laps, id)
	if i < 0 {
		return nil, fmt.Errorf("lap %d: %w", id, ErrLapItemNotFound)
	}
	apply(&laps[i])
	laps[i].ID = &id
	if err := r.write(laps); err != nil {
		return nil, err
	}
	updated := laps[i]
	return &updated, nil
}

// Delete removes the lap with the given id.
func (r *FileLapRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	laps, err := r.read()
	if err != nil {
		return err
	}
	i := indexOf(laps, id)
	if i < 0 {
		return fmt.Errorf("lap %d: %w", id, ErrLapItemNotFound)
	}
	return r.write(append(laps[:i], laps[i+1:]...))
}

func (r *FileLapRepository) read() ([]models.FilteredLap, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.FilteredLap{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read lap file: %w", err)
	}

	var laps []models.FilteredLap
	if len(data) > 0 {
		if err := json.Unmarshal(data, &laps); err != nil {
			return nil, fmt.Errorf("failed to decode lap file: %w", err)
		}
	}
	backfillIDs(laps)
	for i := range laps {
		if laps[i].Name == "" {
			laps[i].Name = fmt.Sprintf("Item %d", *laps[i].ID)
		}
	}
	if laps == nil {
		laps = []models.FilteredLap{}
	}
	return laps, nil
}

func (r *FileLapRepository) write(laps []models.FilteredLap) error {
	if laps == nil {
		laps = []models.FilteredLap{}
	}
	data, err := json.MarshalIndent(laps, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode laps: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("failed to create lap directory: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write lap file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("failed to replace lap file: %w", err)
	}
	return nil
}

// backfillIDs gives rows without an id their index, or the next id above
// every taken one when an explicit id already claims that index.
func backfillIDs(laps []models.FilteredLap) {
	taken := make(map[int]bool, len(laps))
	next := 0
	for _, l := range laps {
		if l.ID != nil {
			taken[*l.ID] = true
			if *l.ID >= next {
				next = *l.ID + 1
			}
		}
	}
	if len(laps) > next {
		next = len(laps)
	}
	for i := range laps {
		if laps[i].ID != nil {
			continue
		}
		id := i
		if taken[id] {
			id = next
			next++
		}
		taken[id] = true
		laps[i].ID = &id
	}
}

func indexOf(laps []models.FilteredLap, id int) int {
	for i, l := range laps {
		if l.ID != nil && *l.ID == id {
			return i
		}
	}
	return -1
}
