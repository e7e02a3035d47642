package models

import "time"

// Circuit describes a racetrack and its grand prix history.
type Circuit struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Circuit        string    `json:"circuit" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=2,max=100"`
	FirstGP        int       `json:"first_gp" validate:"omitempty,gte=1950"`
	GrandPrixCount int       `json:"grand_prix_count" validate:"gte=0"`
	LengthKm       float64   `json:"length_km" validate:"gte=0"`
	Laps           int       `json:"laps" validate:"gte=0"`
	Corners        int       `json:"corners" validate:"gte=0"`
	DistanceKm     float64   `json:"distance_km" validate:"gte=0"`
	Hard           string    `json:"hard" gorm:"type:varchar(10)" validate:"max=10"`
	Medium         string    `json:"medium" gorm:"type:varchar(10)" validate:"max=10"`
	Soft           string    `json:"soft" gorm:"type:varchar(10)" validate:"max=10"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`
}

// CircuitUpdate is a partial update of a circuit record. Nil means untouched.
type CircuitUpdate struct {
	Circuit        *string  `json:"circuit" validate:"omitempty,min=2,max=100"`
	FirstGP        *int     `json:"first_gp" validate:"omitempty,gte=1950"`
	GrandPrixCount *int     `json:"grand_prix_count" validate:"omitempty,gte=0"`
	LengthKm       *float64 `json:"length_km" validate:"omitempty,gte=0"`
	Laps           *int     `json:"laps" validate:"omitempty,gte=0"`
	Corners        *int     `json:"corners" validate:"omitempty,gte=0"`
	DistanceKm     *float64 `json:"distance_km" validate:"omitempty,gte=0"`
	Hard           *string  `json:"hard" validate:"omitempty,max=10"`
	Medium         *string  `json:"medium" validate:"omitempty,max=10"`
	Soft           *string  `json:"soft" validate:"omitempty,max=10"`
}

// Empty reports whether no field was supplied.
func (u CircuitUpdate) Empty() bool {
	return u == CircuitUpdate{}
}

// Apply copies every supplied field onto c.
func (u CircuitUpdate) Apply(c *Circuit) {
	if u.Circuit != nil {
		c.Circuit = *u.Circuit
	}
	if u.FirstGP != nil {
		c.FirstGP = *u.FirstGP
	}
	if u.GrandPrixCount != nil {
		c.GrandPrixCount = *u.GrandPrixCount
	}
	if u.LengthKm != nil {
		c.LengthKm = *u.LengthKm
	}
	if u.Laps != nil {
		c.Laps = *u.Laps
	}
	if u.Corners != nil {
		c.Corners = *u.Corners
	}
	if u.DistanceKm != nil {
		c.DistanceKm = *u.DistanceKm
	}
	if u.Hard != nil {
		c.Hard = *u.Hard
	}
	if u.Medium != nil {
		c.Medium = *u.Medium
	}
	if u.Soft != nil {
		c.Soft = *u.Soft
	}
}

// CircuitFields lists the field names GET /f1/circuitos/campos can project.
var CircuitFields = []string{
	"id", "circuit", "first_gp", "grand_prix_count", "length_km",
	"laps", "corners", "distance_km", "hard", "medium", "soft",
}

// Field returns the value of the named field and whether the name is known.
func (c Circuit) Field(name string) (interface{}, bool) {
	switch name {
	case "id":
		return c.ID, true
	case "circuit":
		return c.Circuit, true
	case "first_gp":
		return c.FirstGP, true
	case "grand_prix_count":
		return c.GrandPrixCount, true
	case "length_km":
		return c.LengthKm, true
	case "laps":
		return c.Laps, true
	case "corners":
		return c.Corners, true
	case "distance_km":
		return c.DistanceKm, true
	case "hard":
		return c.Hard, true
	case "medium":
		return c.Medium, true
	case "soft":
		return c.Soft, true
	}
	return nil, false
}
