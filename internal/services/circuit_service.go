package services

import (
	"errors"
	"fmt"
	"strings"

	"pitwall/internal/models"
	"pitwall/internal/repositories"
)

// CircuitService handles business logic related to circuit records.
type CircuitService struct {
	repo   repositories.CircuitRepository
	events EventPublisher
}

// NewCircuitService creates a new CircuitService. events may be nil.
func NewCircuitService(repo repositories.CircuitRepository, events EventPublisher) *CircuitService {
	return &CircuitService{
		repo:   repo,
		events: events,
	}
}

// GetAllCircuits retrieves all circuits.
func (s *CircuitService) GetAllCircuits() ([]models.Circuit, error) {
	return s.repo.GetAll()
}

// GetCircuitFields returns every circuit reduced to the named fields. An empty
// list selects all fields.
func (s *CircuitService) GetCircuitFields(fields []string) ([]map[string]interface{}, error) {
	if len(fields) == 0 {
		fields = models.CircuitFields
	}
	var probe models.Circuit
	for _, f := range fields {
		if _, ok := probe.Field(f); !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, f)
		}
	}

	circuits, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	rows := make([]map[string]interface{}, 0, len(circuits))
	for _, c := range circuits {
		row := make(map[string]interface{}, len(fields))
		for _, f := range fields {
			row[f], _ = c.Field(f)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// CreateCircuit stores a new circuit record with a unique name.
func (s *CircuitService) CreateCircuit(circuit *models.Circuit) error {
	circuit.Circuit = strings.TrimSpace(circuit.Circuit)
	if err := s.ensureFree(circuit.Circuit); err != nil {
		return err
	}
	if err := s.repo.Create(circuit); err != nil {
		return err
	}
	publish(s.events, EventCircuitCreated, circuit)
	return nil
}

// UpdateCircuit applies the supplied fields to the named circuit.
func (s *CircuitService) UpdateCircuit(name string, update models.CircuitUpdate) (*models.Circuit, error) {
	if update.Empty() {
		return nil, ErrEmptyUpdate
	}
	circuit, err := s.repo.GetByName(name)
	if err != nil {
		return nil, err
	}
	if update.Circuit != nil {
		renamed := strings.TrimSpace(*update.Circuit)
		if !strings.EqualFold(renamed, circuit.Circuit) {
			if err := s.ensureFree(renamed); err != nil {
				return nil, err
			}
		}
		update.Circuit = &renamed
	}

	update.Apply(circuit)
	if err := s.repo.Update(circuit); err != nil {
		return nil, err
	}
	publish(s.events, EventCircuitUpdated, circuit)
	return circuit, nil
}

// DeleteCircuit deletes the named circuit.
func (s *CircuitService) DeleteCircuit(name string) error {
	if err := s.repo.DeleteByName(name); err != nil {
		return err
	}
	publish(s.events, EventCircuitDeleted, map[string]string{"circuit": name})
	return nil
}

func (s *CircuitService) ensureFree(name string) error {
	_, err := s.repo.GetByName(name)
	if err == nil {
		return fmt.Errorf("'%s': %w", name, ErrDuplicateCircuit)
	}
	if !errors.Is(err, repositories.ErrCircuitNotFound) {
		return err
	}
	return nil
}
