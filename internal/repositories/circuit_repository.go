package repositories

import "pitwall/internal/models"

// CircuitRepository defines the interface for circuit data access.
type CircuitRepository interface {
	GetAll() ([]models.Circuit, error)
	GetByName(name string) (*models.Circuit, error)
	Create(circuit *models.Circuit) error
	Update(circuit *models.Circuit) error
	DeleteByName(name string) error
}
