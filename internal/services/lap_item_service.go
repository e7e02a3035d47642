package services

import (
	"pitwall/internal/models"
	"pitwall/internal/repositories"
)

// LapItemService exposes the exported lap file as editable items.
type LapItemService struct {
	repo   repositories.LapRepository
	events EventPublisher
}

// NewLapItemService creates a new LapItemService. events may be nil.
func NewLapItemService(repo repositories.LapRepository, events EventPublisher) *LapItemService {
	return &LapItemService{
		repo:   repo,
		events: events,
	}
}

// GetAllItems returns every stored lap as an item.
func (s *LapItemService) GetAllItems() ([]models.LapItem, error) {
	laps, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	items := make([]models.LapItem, 0, len(laps))
	for _, l := range laps {
		items = append(items, l.Item())
	}
	return items, nil
}

// GetItem returns the item with the given id.
func (s *LapItemService) GetItem(id int) (*models.LapItem, error) {
	lap, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	item := lap.Item()
	return &item, nil
}

// CreateItem appends a new lap built from in.
func (s *LapItemService) CreateItem(in models.LapItemCreate) (*models.LapItem, error) {
	var lap models.FilteredLap
	lap.ApplyItem(in)
	if err := s.repo.Create(&lap); err != nil {
		return nil, err
	}
	item := lap.Item()
	publish(s.events, EventLapCreated, item)
	return &item, nil
}

// UpdateItem replaces the item fields of the lap with the given id. Columns
// that are not part of the item view are kept.
func (s *LapItemService) UpdateItem(id int, in models.LapItemCreate) (*models.LapItem, error) {
	lap, err := s.repo.Update(id, func(l *models.FilteredLap) { l.ApplyItem(in) })
	if err != nil {
		return nil, err
	}
	item := lap.Item()
	publish(s.events, EventLapUpdated, item)
	return &item, nil
}

// DeleteItem removes the lap with the given id.
func (s *LapItemService) DeleteItem(id int) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	publish(s.events, EventLapDeleted, map[string]int{"id": id})
	return nil
}
