package telemetry

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"pitwall/internal/models"
)

// sessionNames maps the short session codes to OpenF1 session names.
var sessionNames = map[string][]string{
	"FP1": {"Practice 1"},
	"FP2": {"Practice 2"},
	"FP3": {"Practice 3"},
	"Q":   {"Qualifying"},
	"SQ":  {"Sprint Qualifying", "Sprint Shootout"},
	"SS":  {"Sprint Shootout", "Sprint Qualifying"},
	"S":   {"Sprint"},
	"R":   {"Race"},
}

// SessionLaps loads every lap of the session identified by year, circuit and
// session code. circuit is matched case-insensitively against the country,
// short circuit name and location. An existing session without laps returns
// an empty slice.
func (c *Client) SessionLaps(ctx context.Context, year int, circuit, session string) ([]models.LapRecord, error) {
	sess, err := c.findSession(ctx, year, circuit, session)
	if err != nil {
		return nil, err
	}

	key := url.Values{"session_key": {strconv.Itoa(sess.SessionKey)}}

	var laps []apiLap
	if err := c.get(ctx, "/laps", key, &laps); err != nil {
		return nil, err
	}
	if len(laps) == 0 {
		return []models.LapRecord{}, nil
	}

	var drivers []apiDriver
	if err := c.get(ctx, "/drivers", key, &drivers); err != nil {
		return nil, err
	}
	var stints []apiStint
	if err := c.get(ctx, "/stints", key, &stints); err != nil {
		return nil, err
	}

	var sessionStart *time.Time
	if t, err := time.Parse(time.RFC3339, sess.DateStart); err == nil {
		sessionStart = &t
	}
	return assembleLaps(sessionStart, laps, drivers, stints), nil
}

func (c *Client) findSession(ctx context.Context, year int, circuit, session string) (*apiSession, error) {
	var sessions []apiSession
	if err := c.get(ctx, "/sessions", url.Values{"year": {strconv.Itoa(year)}}, &sessions); err != nil {
		return nil, err
	}

	names, ok := sessionNames[strings.ToUpper(session)]
	if !ok {
		names = []string{session}
	}
	for _, name := range names {
		for i := range sessions {
			s := &sessions[i]
			if strings.EqualFold(s.SessionName, name) && matchesCircuit(s, circuit) {
				return s, nil
			}
		}
	}
	return nil, fmt.Errorf("%s %d %s: %w", circuit, year, session, ErrSessionNotFound)
}

func matchesCircuit(s *apiSession, circuit string) bool {
	return strings.EqualFold(s.CountryName, circuit) ||
		strings.EqualFold(s.CircuitShortName, circuit) ||
		strings.EqualFold(s.Location, circuit)
}

func assembleLaps(sessionStart *time.Time, laps []apiLap, drivers []apiDriver, stints []apiStint) []models.LapRecord {
	byNumber := make(map[int]apiDriver, len(drivers))
	for _, d := range drivers {
		byNumber[d.DriverNumber] = d
	}
	stintsByDriver := make(map[int][]apiStint)
	for _, s := range stints {
		stintsByDriver[s.DriverNumber] = append(stintsByDriver[s.DriverNumber], s)
	}

	records := make([]models.LapRecord, 0, len(laps))
	for _, l := range laps {
		driver := byNumber[l.DriverNumber]
		rec := models.LapRecord{
			Driver:       driver.NameAcronym,
			DriverNumber: strconv.Itoa(l.DriverNumber),
			Team:         driver.TeamName,
			LapNumber:    l.LapNumber,
			IsPitOutLap:  l.IsPitOutLap,
			LapTime:      seconds(l.LapDuration),
			Sector1Time:  seconds(l.DurationSector1),
			Sector2Time:  seconds(l.DurationSector2),
			Sector3Time:  seconds(l.DurationSector3),
			SpeedI1:      l.I1Speed,
			SpeedI2:      l.I2Speed,
			SpeedST:      l.STSpeed,
		}

		if l.DateStart != nil && sessionStart != nil {
			if start, err := time.Parse(time.RFC3339, *l.DateStart); err == nil {
				startUTC := start.UTC()
				offset := start.Sub(*sessionStart)
				rec.LapStartDate = &startUTC
				rec.LapStartTime = &offset
				rec.Sector1SessionTime = addDurations(&offset, rec.Sector1Time)
				rec.Sector2SessionTime = addDurations(rec.Sector1SessionTime, rec.Sector2Time)
				rec.Sector3SessionTime = addDurations(rec.Sector2SessionTime, rec.Sector3Time)
				rec.Time = addDurations(&offset, rec.LapTime)
			}
		}

		for _, s := range stintsByDriver[l.DriverNumber] {
			if l.LapNumber < s.LapStart || l.LapNumber > s.LapEnd {
				continue
			}
			stint := s.StintNumber
			life := float64(s.TyreAgeAtStart + l.LapNumber - s.LapStart + 1)
			rec.Stint = &stint
			rec.Compound = s.Compound
			rec.TyreLife = &life
			rec.FreshTyre = s.TyreAgeAtStart == 0
			break
		}
		records = append(records, rec)
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Driver != records[j].Driver {
			return records[i].Driver < records[j].Driver
		}
		return records[i].LapNumber < records[j].LapNumber
	})
	return records
}

func seconds(v *float64) *time.Duration {
	if v == nil {
		return nil
	}
	d := time.Duration(math.Round(*v * float64(time.Second)))
	return &d
}

func addDurations(a, b *time.Duration) *time.Duration {
	if a == nil || b == nil {
		return nil
	}
	sum := *a + *b
	return &sum
}
