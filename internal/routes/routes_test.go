package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ntentasd/motorsim/internal/cache"
	"github.com/ntentasd/motorsim/internal/dataset"
	"github.com/ntentasd/motorsim/internal/generator"
	"github.com/ntentasd/motorsim/internal/monitor"
	"github.com/ntentasd/motorsim/internal/predict"
	"github.com/ntentasd/motorsim/pkg/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)

type fakePredictor struct{}

func condition(v float64) types.Condition {
	switch {
	case v < 5000:
		return types.ConditionNormal
	case v < 8000:
		return types.ConditionOverheating
	default:
		return types.ConditionFailure
	}
}

func (fakePredictor) Status(v float64) (*predict.StatusResult, error) {
	return &predict.StatusResult{
		Status:            condition(v),
		StatusConfidence:  0.9,
		CoolingStatus:     types.EfficiencyEfficient,
		CoolingConfidence: 0.8,
		Vibration:         v,
		HealthScore:       predict.HealthScore(v),
		CoolingMetrics:    predict.CoolingMetrics{Duration: 20, Reduction: 36.4, StableVibration: 0.7 * v},
	}, nil
}

func (fakePredictor) Usage(in predict.UsageInput) (*predict.UsageResult, error) {
	return &predict.UsageResult{Pattern: types.ClassifyUsage(in.UsageFrequency), Confidence: 0.75}, nil
}

func (fakePredictor) Load(in predict.LoadInput) (*predict.LoadResult, error) {
	return &predict.LoadResult{LoadType: types.ClassifyLoad(in.VibrationLevel), Confidence: 0.6}, nil
}

func (fakePredictor) Speed(in predict.SpeedInput) (*predict.SpeedResult, error) {
	return &predict.SpeedResult{OptimalSpeed: generator.OptimalSpeed(in.RequiredFlowRate, in.SystemPressure), Unit: predict.SpeedUnit}, nil
}

func (fakePredictor) StartStop(change float64) (*predict.StartStopResult, error) {
	if change > types.HighCyclingChange {
		return &predict.StartStopResult{Status: "High", Recommendation: "Reduce cycling frequency"}, nil
	}
	return &predict.StartStopResult{Status: "Normal", Recommendation: "Normal operation"}, nil
}

type fakeStore struct {
	mu       sync.Mutex
	inserted []types.Entry
	readings []float64
	last     []types.Entry
	reads    int
}

func (f *fakeStore) InsertReading(_ context.Context, _ uuid.UUID, e types.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserted = append(f.inserted, e)
	return nil
}

func (f *fakeStore) GetReadings(context.Context, uuid.UUID, time.Time, time.Time) ([]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	return f.readings, nil
}

func (f *fakeStore) GetLastValues(_ context.Context, _ uuid.UUID, _ time.Time, n int) ([]types.Entry, error) {
	return f.last[:min(n, len(f.last))], nil
}

func newTestApp(t *testing.T, store Store) (*App, http.Handler) {
	t.Helper()
	m, err := monitor.New(monitor.DefaultSize)
	require.NoError(t, err)

	app := New(fakePredictor{}, m, cache.NewLocal(), store, t.TempDir(), time.Minute, zerolog.Nop())
	app.now = func() time.Time { return fixedNow }
	return app, NewMux(app)
}

func do(t *testing.T, h http.Handler, method, target, body string) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

func TestHealthAndCORS(t *testing.T) {
	_, h := newTestApp(t, nil)

	code, body := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["state"])

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/predict", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	code, _ = do(t, h, http.MethodGet, "/predict", "")
	assert.Equal(t, http.StatusMethodNotAllowed, code)
}

func TestPredict(t *testing.T) {
	store := &fakeStore{}
	app, h := newTestApp(t, store)
	motorID := uuid.New()

	code, body := do(t, h, http.MethodPost, "/predict", `{"vibration": 6500, "motor_id": "`+motorID.String()+`"}`)
	require.Equal(t, http.StatusOK, code, body)

	assert.Equal(t, string(types.ConditionOverheating), body["status"])
	assert.Equal(t, string(types.EfficiencyEfficient), body["cooling_status"])
	assert.InDelta(t, 35.0, body["health_score"], 1e-9)

	history := body["history"].(map[string]any)
	vibration := history["vibration"].([]any)
	require.Len(t, vibration, 1)
	assert.Equal(t, "12:00:00", vibration[0].(map[string]any)["time"])

	counts := body["counts"].(map[string]any)["status"].(map[string]any)
	assert.EqualValues(t, 1, counts[string(types.ConditionOverheating)])
	assert.EqualValues(t, 0, counts[string(types.ConditionNormal)])

	require.Len(t, store.inserted, 1)
	assert.Equal(t, 6500.0, store.inserted[0].Value)

	cached, err := app.Cache.FetchLast(context.Background(), cache.ReadingsKey(motorID, fixedNow), 5)
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, fixedNow, cached[0].Timestamp)

	assert.Len(t, app.Monitor.Snapshot().History.Vibration, 1)
}

func TestPredict_BadRequests(t *testing.T) {
	_, h := newTestApp(t, nil)

	tests := []struct {
		name, body, want string
	}{
		{"not json", `vibration=1`, "body"},
		{"missing vibration", `{}`, "vibration"},
		{"negative vibration", `{"vibration": -1}`, "vibration"},
		{"bad motor id", `{"vibration": 10, "motor_id": "motor-7"}`, "motor_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := do(t, h, http.MethodPost, "/predict", tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Contains(t, body["error"], tt.want)
		})
	}
}

func TestPatternRoutes(t *testing.T) {
	_, h := newTestApp(t, nil)

	code, body := do(t, h, http.MethodPost, "/predict_usage",
		`{"Hour": 0, "Day": 6, "Vibration_Level": 2400, "Usage_Frequency": 0.8}`)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, string(types.UsageHigh), body["Usage_Pattern"])

	code, body = do(t, h, http.MethodPost, "/predict_usage",
		`{"Hour": 24, "Day": 1, "Vibration_Level": 2400, "Usage_Frequency": 0.8}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body["error"], "Hour")

	code, body = do(t, h, http.MethodPost, "/predict_usage", `{"Hour": 3, "Day": 1, "Vibration_Level": 2400}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body["error"], "Usage_Frequency")

	code, body = do(t, h, http.MethodPost, "/predict_load",
		`{"Vibration_Level": 7000, "Motor_Current": 7, "Power_Consumption": 10500}`)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, string(types.LoadPeak), body["Load_Type"])

	code, body = do(t, h, http.MethodPost, "/predict_speed",
		`{"Required_Flow_Rate": 10, "System_Pressure": 1, "Power_Consumption": 10}`)
	require.Equal(t, http.StatusOK, code, body)
	assert.InDelta(t, 150.0, body["Optimal_Speed"], 1e-9)
	assert.Equal(t, "RPM", body["Unit"])

	code, body = do(t, h, http.MethodPost, "/analyze_start_stop", `{"Vibration_Change": 120}`)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "High", body["Start_Stop_Status"])
	assert.Equal(t, "Reduce cycling frequency", body["Recommendation"])

	code, _ = do(t, h, http.MethodPost, "/analyze_start_stop", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHistory(t *testing.T) {
	_, h := newTestApp(t, nil)
	for i := range 12 {
		code, _ := do(t, h, http.MethodPost, "/predict", fmt.Sprintf(`{"vibration": %d}`, 1000*(i%9+1)))
		require.Equal(t, http.StatusOK, code)
	}

	code, body := do(t, h, http.MethodGet, "/history", "")
	require.Equal(t, http.StatusOK, code)
	history := body["history"].(map[string]any)
	assert.Len(t, history["vibration"], monitor.DefaultSize)
	assert.Len(t, history["cooling"], monitor.RecentCooling)
}

func TestLatest(t *testing.T) {
	motorID := uuid.New()

	t.Run("cache only", func(t *testing.T) {
		_, h := newTestApp(t, nil)

		code, _ := do(t, h, http.MethodGet, "/latest?motor_id="+motorID.String(), "")
		assert.Equal(t, http.StatusNotFound, code)

		code, _ = do(t, h, http.MethodPost, "/predict", `{"vibration": 1500, "motor_id": "`+motorID.String()+`"}`)
		require.Equal(t, http.StatusOK, code)

		code, body := do(t, h, http.MethodGet, "/latest?motor_id="+motorID.String(), "")
		require.Equal(t, http.StatusOK, code)
		assert.Len(t, body["data"], 1)
	})

	t.Run("store backfill", func(t *testing.T) {
		store := &fakeStore{}
		for i := range 6 {
			store.last = append(store.last, types.Entry{Timestamp: fixedNow.Add(-time.Duration(i) * time.Minute), Value: float64(i)})
		}
		app, h := newTestApp(t, store)

		code, body := do(t, h, http.MethodGet, "/latest?motor_id="+motorID.String(), "")
		require.Equal(t, http.StatusOK, code)
		assert.Len(t, body["data"], LatestCount)

		cached, err := app.Cache.FetchLast(context.Background(), cache.ReadingsKey(motorID, fixedNow), 10)
		require.NoError(t, err)
		assert.Len(t, cached, LatestCount)
	})

	t.Run("bad motor id", func(t *testing.T) {
		_, h := newTestApp(t, nil)
		code, _ := do(t, h, http.MethodGet, "/latest", "")
		assert.Equal(t, http.StatusBadRequest, code)
		code, _ = do(t, h, http.MethodGet, "/latest?motor_id=seven", "")
		assert.Equal(t, http.StatusBadRequest, code)
	})
}

func TestAggregate(t *testing.T) {
	motorID := uuid.New()

	t.Run("store and cache", func(t *testing.T) {
		store := &fakeStore{readings: []float64{1000, 2000, 6000}}
		_, h := newTestApp(t, store)
		target := "/aggregate?window=1h&motor_id=" + motorID.String()

		code, body := do(t, h, http.MethodGet, target, "")
		require.Equal(t, http.StatusOK, code, body)
		data := body["data"].(map[string]any)
		assert.InDelta(t, 3000.0, data["avg"], 1e-9)
		assert.InDelta(t, 1000.0, data["min"], 1e-9)
		assert.InDelta(t, 6000.0, data["max"], 1e-9)
		assert.EqualValues(t, 3, data["count"])

		store.readings = []float64{1}
		code, body = do(t, h, http.MethodGet, target, "")
		require.Equal(t, http.StatusOK, code)
		assert.InDelta(t, 3000.0, body["data"].(map[string]any)["avg"], 1e-9)
		assert.Equal(t, 1, store.reads)
	})

	t.Run("cached readings", func(t *testing.T) {
		app, h := newTestApp(t, nil)
		key := cache.ReadingsKey(motorID, fixedNow)
		for _, e := range []types.Entry{
			{Timestamp: fixedNow.Add(-2 * time.Hour), Value: 9000},
			{Timestamp: fixedNow.Add(-30 * time.Minute), Value: 2000},
			{Timestamp: fixedNow, Value: 4000},
		} {
			require.NoError(t, app.Cache.Store(context.Background(), key, e))
		}

		code, body := do(t, h, http.MethodGet, "/aggregate?window=1h&motor_id="+motorID.String(), "")
		require.Equal(t, http.StatusOK, code, body)
		data := body["data"].(map[string]any)
		assert.EqualValues(t, 2, data["count"])
		assert.InDelta(t, 3000.0, data["avg"], 1e-9)
	})

	t.Run("invalid", func(t *testing.T) {
		_, h := newTestApp(t, nil)
		for _, q := range []string{"window=1h", "motor_id=" + motorID.String(), "window=-1h&motor_id=" + motorID.String(), "window=soon&motor_id=" + motorID.String()} {
			code, _ := do(t, h, http.MethodGet, "/aggregate?"+q, "")
			assert.Equal(t, http.StatusBadRequest, code, q)
		}
		code, _ := do(t, h, http.MethodGet, "/aggregate?window=1h&motor_id="+motorID.String(), "")
		assert.Equal(t, http.StatusNotFound, code)
	})
}

func TestSummary(t *testing.T) {
	app, h := newTestApp(t, nil)

	g := generator.New(generator.NewSource(3))
	rows, err := g.Load(context.Background(), 90, generator.DefaultLoadConfig())
	require.NoError(t, err)
	_, err = dataset.Write(context.Background(), app.DataDir, dataset.Load, rows)
	require.NoError(t, err)

	code, body := do(t, h, http.MethodGet, "/summary?dataset=load", "")
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "load", body["dataset"])
	assert.EqualValues(t, 90, body["data"].(map[string]any)["rows"])

	cached, err := app.Cache.FetchAggregate(context.Background(), cache.SummaryKey("load"))
	require.NoError(t, err)
	assert.True(t, bytes.Contains(cached, []byte(`"rows":90`)))

	code, body = do(t, h, http.MethodGet, "/summary?dataset=load", "")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 90, body["data"].(map[string]any)["rows"])

	code, _ = do(t, h, http.MethodGet, "/summary?dataset=usage", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, h, http.MethodGet, "/summary?dataset=pressure", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, h, http.MethodGet, "/summary", "")
	assert.Equal(t, http.StatusBadRequest, code)
}
