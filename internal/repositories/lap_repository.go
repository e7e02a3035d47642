package repositories

import "pitwall/internal/models"

// LapRepository stores the most recently exported laps.
type LapRepository interface {
	GetAll() ([]models.FilteredLap, error)
	GetByID(id int) (*models.FilteredLap, error)
	ReplaceAll(laps []models.FilteredLap) error
	Create(lap *models.FilteredLap) error
	Update(id int, apply func(*models.FilteredLap)) (*models.FilteredLap, error)
	Delete(id int) error
}
