package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/ntentasd/motorsim/internal/cache"
	"github.com/ntentasd/motorsim/internal/monitor"
	"github.com/ntentasd/motorsim/internal/summary"
	"github.com/ntentasd/motorsim/pkg/types"
	"github.com/ntentasd/motorsim/pkg/utils"
)

func healthHandler(w http.ResponseWriter, r *http.Request) {
	utils.ReplyJSON(w, http.StatusOK, utils.Body{
		"state": "healthy",
	})
}

func (app *App) predictHandler(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := app.decode(w, r, &req); err != nil {
		utils.ReplyError(w, err)
		return
	}

	res, err := app.Predictor.Status(*req.Vibration)
	if err != nil {
		utils.ReplyError(w, err)
		return
	}

	now := app.now()
	clock := now.Format(monitor.ClockLayout)
	snap := app.Monitor.Record(
		monitor.Reading{Time: clock, Value: res.Vibration, Status: res.Status},
		monitor.CoolingEvent{
			Time:      clock,
			Status:    res.CoolingStatus,
			Duration:  res.CoolingMetrics.Duration,
			Reduction: res.CoolingMetrics.Reduction,
		},
	)

	if req.MotorID != "" {
		// validated as a uuid already
		app.persist(r.Context(), uuid.MustParse(req.MotorID), types.Entry{Timestamp: now, Value: res.Vibration})
	}

	utils.ReplyJSON(w, http.StatusOK, utils.Body{
		"status":             res.Status,
		"status_confidence":  res.StatusConfidence,
		"cooling_status":     res.CoolingStatus,
		"cooling_confidence": res.CoolingConfidence,
		"vibration":          res.Vibration,
		"health_score":       res.HealthScore,
		"cooling_metrics":    res.CoolingMetrics,
		"history":            snap.History,
		"counts":             snap.Counts,
	})
}

// persist keeps a served reading. Failures are logged, the prediction was
// already made.
func (app *App) persist(ctx context.Context, motorID uuid.UUID, e types.Entry) {
	if err := app.Cache.Store(ctx, cache.ReadingsKey(motorID, e.Timestamp), e); err != nil {
		app.logger.Warn().Err(err).Str("motor_id", motorID.String()).Msg("failed to cache reading")
	}
	if app.Store == nil {
		return
	}
	if err := app.Store.InsertReading(ctx, motorID, e); err != nil {
		app.logger.Warn().Err(err).Str("motor_id", motorID.String()).Msg("failed to store reading")
	}
}

func (app *App) predictUsageHandler(w http.ResponseWriter, r *http.Request) {
	var req usageRequest
	if err := app.decode(w, r, &req); err != nil {
		utils.ReplyError(w, err)
		return
	}

	res, err := app.Predictor.Usage(req.input())
	if err != nil {
		utils.ReplyError(w, err)
		return
	}

	utils.ReplyJSON(w, http.StatusOK, utils.Body{
		"Usage_Pattern": res.Pattern,
		"Confidence":    res.Confidence,
	})
}

func (app *App) predictLoadHandler(w http.ResponseWriter, r *http.Request) {
	var req loadRequest
	if err := app.decode(w, r, &req); err != nil {
		utils.ReplyError(w, err)
		return
	}

	res, err := app.Predictor.Load(req.input())
	if err != nil {
		utils.ReplyError(w, err)
		return
	}

	utils.ReplyJSON(w, http.StatusOK, utils.Body{
		"Load_Type":  res.LoadType,
		"Confidence": res.Confidence,
	})
}

func (app *App) predictSpeedHandler(w http.ResponseWriter, r *http.Request) {
	var req speedRequest
	if err := app.decode(w, r, &req); err != nil {
		utils.ReplyError(w, err)
		return
	}

	res, err := app.Predictor.Speed(req.input())
	if err != nil {
		utils.ReplyError(w, err)
		return
	}

	utils.ReplyJSON(w, http.StatusOK, utils.Body{
		"Optimal_Speed": res.OptimalSpeed,
		"Unit":          res.Unit,
	})
}

func (app *App) startStopHandler(w http.ResponseWriter, r *http.Request) {
	var req startStopRequest
	if err := app.decode(w, r, &req); err != nil {
		utils.ReplyError(w, err)
		return
	}

	res, err := app.Predictor.StartStop(*req.VibrationChange)
	if err != nil {
		utils.ReplyError(w, err)
		return
	}

	utils.ReplyJSON(w, http.StatusOK, utils.Body{
		"Start_Stop_Status": res.Status,
		"Recommendation":    res.Recommendation,
	})
}

func (app *App) historyHandler(w http.ResponseWriter, r *http.Request) {
	snap := app.Monitor.Snapshot()
	utils.ReplyJSON(w, http.StatusOK, utils.Body{
		"history": snap.History,
		"counts":  snap.Counts,
	})
}

func (app *App) latestHandler(w http.ResponseWriter, r *http.Request) {
	motorID, ok := motorParam(w, r)
	if !ok {
		return
	}

	today := app.now()
	key := cache.ReadingsKey(motorID, today)
	res, err := app.Cache.FetchLast(r.Context(), key, LatestCount)
	if err != nil && !errors.Is(err, cache.ErrMiss) {
		app.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	// Less than LatestCount, cache is stale
	if len(res) < LatestCount && app.Store != nil {
		res, err = app.Store.GetLastValues(r.Context(), motorID, today, LatestCount)
		if err != nil {
			utils.ReplyInternalServerError(w, err.Error())
			return
		}
		for _, entry := range res {
			if err := app.Cache.Store(r.Context(), key, entry); err != nil {
				app.logger.Warn().Err(err).Str("key", key).Msg("cache backfill failed")
				break
			}
		}
	}

	if len(res) == 0 {
		utils.ReplyNotFound(w, "no readings found")
		return
	}

	utils.ReplyJSON(w, http.StatusOK, utils.Body{
		"data": res,
	})
}

func (app *App) aggregateHandler(w http.ResponseWriter, r *http.Request) {
	motorID, ok := motorParam(w, r)
	if !ok {
		return
	}

	windowStr := r.URL.Query().Get("window")
	if windowStr == "" {
		utils.ReplyBadRequest(w, "missing window")
		return
	}
	dur, err := time.ParseDuration(windowStr)
	if err != nil || dur <= 0 {
		utils.ReplyBadRequest(w, "invalid window")
		return
	}

	now := app.now()
	cacheKey := cache.AggregateKey(motorID, now, windowStr)

	cached, err := app.Cache.FetchAggregate(r.Context(), cacheKey)
	if err == nil {
		var agg types.Aggregate
		if err = json.Unmarshal(cached, &agg); err == nil {
			utils.ReplyJSON(w, http.StatusOK, utils.Body{
				"data": agg,
			})
			return
		}
	}

	readings, err := app.windowReadings(r.Context(), motorID, now.Add(-dur), now)
	if err != nil {
		utils.ReplyInternalServerError(w, err.Error())
		return
	}

	if len(readings) == 0 {
		utils.ReplyNotFound(w, "no readings found")
		return
	}

	agg := aggregate(readings, now)
	if err := app.Cache.StoreAggregate(r.Context(), cacheKey, agg, AggregateTTL); err != nil {
		app.logger.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache aggregate")
	}

	utils.ReplyJSON(w, http.StatusOK, utils.Body{
		"data": agg,
	})
}

// windowReadings reads from the store when there is one, otherwise from
// today's cached readings.
func (app *App) windowReadings(ctx context.Context, motorID uuid.UUID, from, to time.Time) ([]float64, error) {
	if app.Store != nil {
		return app.Store.GetReadings(ctx, motorID, from, to)
	}

	entries, err := app.Cache.FetchLast(ctx, cache.ReadingsKey(motorID, to), windowLimit)
	if errors.Is(err, cache.ErrMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var out []float64
	for _, e := range entries {
		if !e.Timestamp.Before(from) && !e.Timestamp.After(to) {
			out = append(out, e.Value)
		}
	}
	return out, nil
}

func aggregate(readings []float64, now time.Time) types.Aggregate {
	sum, lo, hi := 0.0, readings[0], readings[0]
	for _, v := range readings {
		sum += v
		lo = min(lo, v)
		hi = max(hi, v)
	}

	return types.Aggregate{
		Avg:       sum / float64(len(readings)),
		Min:       lo,
		Max:       hi,
		Count:     len(readings),
		Timestamp: now,
	}
}

func (app *App) summaryHandler(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("dataset")
	if name == "" {
		utils.ReplyBadRequest(w, "missing dataset")
		return
	}

	key := cache.SummaryKey(name)
	if cached, err := app.Cache.FetchAggregate(r.Context(), key); err == nil {
		utils.ReplyJSON(w, http.StatusOK, utils.Body{
			"dataset": name,
			"data":    json.RawMessage(cached),
		})
		return
	}

	s, err := summary.Dataset(app.DataDir, name)
	if err != nil {
		utils.ReplyError(w, err)
		return
	}

	if err := app.Cache.StoreAggregate(r.Context(), key, s, app.CacheTTL); err != nil {
		app.logger.Warn().Err(err).Str("key", key).Msg("failed to cache summary")
	}

	utils.ReplyJSON(w, http.StatusOK, utils.Body{
		"dataset": name,
		"data":    s,
	})
}

func motorParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := r.URL.Query().Get("motor_id")
	if raw == "" {
		utils.ReplyBadRequest(w, "missing motor_id")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.ReplyBadRequest(w, "invalid motor_id")
		return uuid.Nil, false
	}
	return id, true
}
