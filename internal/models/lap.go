package models

import "time"

// SessionRequest identifies one F1 session and the drivers to keep.
type SessionRequest struct {
	Year    int      `validate:"required,gte=1950,lte=2100"`
	Circuit string   `validate:"required"`
	Session string   `validate:"required"`
	Drivers []string `validate:"required,min=1,dive,required"`
}

// LapRecord is one lap as delivered by the lap-data source, before any
// column is dropped or reformatted. Durations are relative to session start
// unless noted otherwise; nil means the source had no value.
type LapRecord struct {
	Time               *time.Duration
	Driver             string
	DriverNumber       string
	LapTime            *time.Duration
	LapNumber          int
	Stint              *int
	IsPitOutLap        bool
	Sector1Time        *time.Duration
	Sector2Time        *time.Duration
	Sector3Time        *time.Duration
	Sector1SessionTime *time.Duration
	Sector2SessionTime *time.Duration
	Sector3SessionTime *time.Duration
	SpeedI1            *float64
	SpeedI2            *float64
	SpeedST            *float64
	Compound           string
	TyreLife           *float64
	FreshTyre          bool
	Team               string
	LapStartTime       *time.Duration
	LapStartDate       *time.Time
}

// FilteredLap is the exported shape of a lap: session-time columns dropped
// and durations rendered as "M:S.mmm".
type FilteredLap struct {
	ID           *int     `json:"id,omitempty"`
	Name         string   `json:"name,omitempty"`
	Time         *string  `json:"Time"`
	Driver       string   `json:"Driver"`
	DriverNumber string   `json:"DriverNumber"`
	LapTime      *string  `json:"LapTime"`
	LapNumber    int      `json:"LapNumber"`
	Stint        *int     `json:"Stint"`
	IsPitOutLap  bool     `json:"IsPitOutLap"`
	Sector1Time  *string  `json:"Sector1Time"`
	Sector2Time  *string  `json:"Sector2Time"`
	Sector3Time  *string  `json:"Sector3Time"`
	SpeedI1      *float64 `json:"SpeedI1"`
	SpeedI2      *float64 `json:"SpeedI2"`
	SpeedST      *float64 `json:"SpeedST"`
	Compound     string   `json:"Compound"`
	TyreLife     *float64 `json:"TyreLife"`
	FreshTyre    bool     `json:"FreshTyre"`
	Team         string   `json:"Team"`
}

// LapDescription is the editable part of a stored lap item.
type LapDescription struct {
	DriverNumber string  `json:"DriverNumber" validate:"required"`
	LapTime      *string `json:"LapTime"`
	Sector1Time  *string `json:"Sector1Time"`
	Sector2Time  *string `json:"Sector2Time"`
	Sector3Time  *string `json:"Sector3Time"`
	Compound     string  `json:"Compound" validate:"required"`
	TyreLife     float64 `json:"TyreLife" validate:"gte=0"`
	FreshTyre    bool    `json:"FreshTyre"`
	Team         string  `json:"Team" validate:"required"`
}

// LapItem is a row of the lap file exposed through /f1/laps.
type LapItem struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	Description LapDescription `json:"description"`
}

// LapItemCreate is the body of POST /f1/laps and PUT /f1/laps/{id}.
type LapItemCreate struct {
	Name        string         `json:"name" validate:"required,max=100"`
	Description LapDescription `json:"description"`
}

// Item converts a stored lap row into its item view.
func (l FilteredLap) Item() LapItem {
	item := LapItem{
		Name: l.Name,
		Description: LapDescription{
			DriverNumber: l.DriverNumber,
			LapTime:      l.LapTime,
			Sector1Time:  l.Sector1Time,
			Sector2Time:  l.Sector2Time,
			Sector3Time:  l.Sector3Time,
			Compound:     l.Compound,
			FreshTyre:    l.FreshTyre,
			Team:         l.Team,
		},
	}
	if l.ID != nil {
		item.ID = *l.ID
	}
	if l.TyreLife != nil {
		item.Description.TyreLife = *l.TyreLife
	}
	return item
}

// ApplyItem overwrites the row's item fields with the given values.
func (l *FilteredLap) ApplyItem(in LapItemCreate) {
	tyreLife := in.Description.TyreLife
	l.Name = in.Name
	l.DriverNumber = in.Description.DriverNumber
	l.LapTime = in.Description.LapTime
	l.Sector1Time = in.Description.Sector1Time
	l.Sector2Time = in.Description.Sector2Time
	l.Sector3Time = in.Description.Sector3Time
	l.Compound = in.Description.Compound
	l.TyreLife = &tyreLife
	l.FreshTyre = in.Description.FreshTyre
	l.Team = in.Description.Team
}
