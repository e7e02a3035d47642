package telemetry_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"pitwall/internal/logging"
	"pitwall/internal/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sessionsJSON = `[
  {"session_key": 9140, "session_name": "Practice 1", "session_type": "Practice", "date_start": "2023-07-28T11:30:00+00:00", "year": 2023, "country_name": "Belgium", "circuit_short_name": "Spa-Francorchamps", "location": "Spa-Francorchamps"},
  {"session_key": 9141, "session_name": "Qualifying", "session_type": "Qualifying", "date_start": "2023-07-28T15:00:00+00:00", "year": 2023, "country_name": "Belgium", "circuit_short_name": "Spa-Francorchamps", "location": "Spa-Francorchamps"}
]`

const driversJSON = `[
  {"driver_number": 1, "name_acronym": "VER", "team_name": "Red Bull Racing"},
  {"driver_number": 16, "name_acronym": "LEC", "team_name": "Ferrari"}
]`

const lapsJSON = `[
  {"driver_number": 16, "lap_number": 1, "date_start": "2023-07-28T11:31:00+00:00", "lap_duration": 110.5, "duration_sector_1": 35.1, "duration_sector_2": 45.2, "duration_sector_3": 30.2, "i1_speed": 290, "i2_speed": 210, "st_speed": 305, "is_pit_out_lap": true},
  {"driver_number": 1, "lap_number": 2, "date_start": "2023-07-28T11:33:00+00:00", "lap_duration": 106.25, "duration_sector_1": 33.0, "duration_sector_2": 44.0, "duration_sector_3": 29.25, "is_pit_out_lap": false},
  {"driver_number": 1, "lap_number": 1, "date_start": "2023-07-28T11:31:10+00:00", "lap_duration": null, "duration_sector_1": null, "duration_sector_2": 46.0, "duration_sector_3": 31.0, "is_pit_out_lap": true}
]`

const stintsJSON = `[
  {"driver_number": 1, "stint_number": 1, "lap_start": 1, "lap_end": 10, "compound": "SOFT", "tyre_age_at_start": 0},
  {"driver_number": 16, "stint_number": 1, "lap_start": 1, "lap_end": 8, "compound": "MEDIUM", "tyre_age_at_start": 3}
]`

func TestMain(m *testing.M) {
	logging.Init(logging.Config{Level: "disabled"})
	m.Run()
}

func newOpenF1Server(t *testing.T, laps string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/sessions":
			assert.Equal(t, "2023", r.URL.Query().Get("year"))
			_, _ = w.Write([]byte(sessionsJSON))
		case "/laps":
			if laps == "" {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"detail":"No results found."}`))
				return
			}
			_, _ = w.Write([]byte(laps))
		case "/drivers":
			_, _ = w.Write([]byte(driversJSON))
		case "/stints":
			_, _ = w.Write([]byte(stintsJSON))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(baseURL string) *telemetry.Client {
	return telemetry.NewClient(telemetry.Config{BaseURL: baseURL, Timeout: 5 * time.Second, RatePerSecond: 100})
}

func TestClient_SessionLaps(t *testing.T) {
	srv := newOpenF1Server(t, lapsJSON)
	client := newClient(srv.URL)

	laps, err := client.SessionLaps(context.Background(), 2023, "belgium", "fp1")
	require.NoError(t, err)
	require.Len(t, laps, 3)

	// Sorted by driver, then lap number.
	assert.Equal(t, "LEC", laps[0].Driver)
	assert.Equal(t, "VER", laps[1].Driver)
	assert.Equal(t, 1, laps[1].LapNumber)
	assert.Equal(t, 2, laps[2].LapNumber)

	lec := laps[0]
	assert.Equal(t, "16", lec.DriverNumber)
	assert.Equal(t, "Ferrari", lec.Team)
	assert.Equal(t, "MEDIUM", lec.Compound)
	assert.False(t, lec.FreshTyre)
	require.NotNil(t, lec.TyreLife)
	assert.Equal(t, 4.0, *lec.TyreLife)
	require.NotNil(t, lec.LapTime)
	assert.Equal(t, 110500*time.Millisecond, *lec.LapTime)
	require.NotNil(t, lec.LapStartTime)
	assert.Equal(t, time.Minute, *lec.LapStartTime)
	require.NotNil(t, lec.Time)
	assert.Equal(t, time.Minute+110500*time.Millisecond, *lec.Time)
	require.NotNil(t, lec.Sector2SessionTime)
	assert.Equal(t, time.Minute+80300*time.Millisecond, *lec.Sector2SessionTime)
	require.NotNil(t, lec.SpeedST)
	assert.Equal(t, 305.0, *lec.SpeedST)
	assert.True(t, lec.IsPitOutLap)

	verOutLap := laps[1]
	assert.Nil(t, verOutLap.LapTime)
	assert.Nil(t, verOutLap.Sector1Time)
	assert.Nil(t, verOutLap.Time)
	assert.Nil(t, verOutLap.Sector1SessionTime)
	assert.True(t, verOutLap.FreshTyre)
	require.NotNil(t, verOutLap.Stint)
	assert.Equal(t, 1, *verOutLap.Stint)
}

func TestClient_SessionLapsMatchesFullSessionName(t *testing.T) {
	srv := newOpenF1Server(t, lapsJSON)
	laps, err := newClient(srv.URL).SessionLaps(context.Background(), 2023, "Spa-Francorchamps", "Qualifying")
	require.NoError(t, err)
	assert.Len(t, laps, 3)
}

func TestClient_SessionNotFound(t *testing.T) {
	srv := newOpenF1Server(t, lapsJSON)
	_, err := newClient(srv.URL).SessionLaps(context.Background(), 2023, "monaco", "R")
	assert.ErrorIs(t, err, telemetry.ErrSessionNotFound)
}

func TestClient_EmptySession(t *testing.T) {
	srv := newOpenF1Server(t, "")
	laps, err := newClient(srv.URL).SessionLaps(context.Background(), 2023, "belgium", "FP1")
	require.NoError(t, err)
	assert.Empty(t, laps)
}

func TestClient_ServerErrorsOpenBreaker(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	client := newClient(srv.URL)

	for i := 0; i < 5; i++ {
		_, err := client.SessionLaps(context.Background(), 2023, "belgium", "FP1")
		assert.ErrorIs(t, err, telemetry.ErrUpstream)
	}
	assert.Equal(t, "open", client.BreakerState())

	_, err := client.SessionLaps(context.Background(), 2023, "belgium", "FP1")
	assert.ErrorIs(t, err, telemetry.ErrUpstream)
	assert.Equal(t, int32(5), atomic.LoadInt32(&calls))
}

func TestClient_CanceledContext(t *testing.T) {
	srv := newOpenF1Server(t, lapsJSON)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newClient(srv.URL).SessionLaps(ctx, 2023, "belgium", "FP1")
	assert.Error(t, err)
}
