package repositories

import (
	"errors"
	"fmt"

	"pitwall/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCircuitRepository is a GORM implementation of CircuitRepository.
type GORMCircuitRepository struct {
	db *gorm.DB
}

// NewGORMCircuitRepository creates a new instance of GORMCircuitRepository.
func NewGORMCircuitRepository(db *gorm.DB) *GORMCircuitRepository {
	return &GORMCircuitRepository{
		db: db,
	}
}

// GetAll retrieves all circuits ordered by name.
func (r *GORMCircuitRepository) GetAll() ([]models.Circuit, error) {
	var circuits []models.Circuit
	if err := r.db.Order("circuit").Find(&circuits).Error; err != nil {
		return nil, fmt.Errorf("failed to get all circuits: %w", err)
	}
	return circuits, nil
}

// GetByName retrieves a circuit by its name, ignoring case.
func (r *GORMCircuitRepository) GetByName(name string) (*models.Circuit, error) {
	var circuit models.Circuit
	if err := r.db.First(&circuit, "LOWER(circuit) = LOWER(?)", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("circuit %s: %w", name, ErrCircuitNotFound)
		}
		return nil, fmt.Errorf("failed to get circuit %s: %w", name, err)
	}
	return &circuit, nil
}

// Create creates a new circuit in the database.
func (r *GORMCircuitRepository) Create(circuit *models.Circuit) error {
	if circuit.ID == "" {
		circuit.ID = uuid.New().String()
	}
	if err := r.db.Create(circuit).Error; err != nil {
		return fmt.Errorf("failed to create circuit: %w", err)
	}
	return nil
}

// Update writes every column of an existing circuit.
func (r *GORMCircuitRepository) Update(circuit *models.Circuit) error {
	res := r.db.Model(&models.Circuit{}).Where("id = ?", circuit.ID).Updates(map[string]interface{}{
		"circuit":          circuit.Circuit,
		"first_gp":         circuit.FirstGP,
		"grand_prix_count": circuit.GrandPrixCount,
		"length_km":        circuit.LengthKm,
		"laps":             circuit.Laps,
		"corners":          circuit.Corners,
		"distance_km":      circuit.DistanceKm,
		"hard":             circuit.Hard,
		"medium":           circuit.Medium,
		"soft":             circuit.Soft,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update circuit: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("circuit %s: %w", circuit.ID, ErrCircuitNotFound)
	}
	return nil
}

// DeleteByName deletes a circuit by its name, ignoring case.
func (r *GORMCircuitRepository) DeleteByName(name string) error {
	res := r.db.Where("LOWER(circuit) = LOWER(?)", name).Delete(&models.Circuit{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete circuit: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("circuit %s: %w", name, ErrCircuitNotFound)
	}
	return nil
}
