package db

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
	"github.com/ntentasd/motorsim/internal/metrics"
	"github.com/ntentasd/motorsim/pkg/types"
	"gopkg.in/inf.v0"
)

// InsertReading stores one served vibration reading.
func (db *DB) InsertReading(ctx context.Context, motorID uuid.UUID, e types.Entry) error {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	dec, err := toDecimal(e.Value)
	if err != nil {
		metrics.DbWritesTotal.WithLabelValues("error").Inc()
		return err
	}

	err = db.sess.Query(`
INSERT INTO vibration_readings (motor_id, bucket_date, timestamp, value)
VALUES (?, ?, ?, ?)
`, gocql.UUID(motorID), bucket(e.Timestamp), e.Timestamp.UTC(), dec).WithContext(ctx).Exec()
	if err != nil {
		metrics.DbWritesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("insert reading: %w", err)
	}
	metrics.DbWritesTotal.WithLabelValues("ok").Inc()
	return nil
}

// GetReadings returns all readings between two timestamps, possibly spanning
// multiple bucket dates.
func (db *DB) GetReadings(ctx context.Context, motorID uuid.UUID, from, to time.Time) ([]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.DbReadLatencySeconds.WithLabelValues("readings").Observe(time.Since(start).Seconds())
	}()

	readings := make([]float64, 0, 256)
	for _, day := range buckets(from, to) {
		iter := db.sess.Query(`
SELECT value
FROM vibration_readings
WHERE motor_id = ? AND bucket_date = ? AND timestamp >= ? AND timestamp <= ?
ORDER BY timestamp DESC
`, gocql.UUID(motorID), day, from, to).WithContext(ctx).Iter()

		var dec *inf.Dec
		for iter.Scan(&dec) {
			v, err := fromDecimal(dec)
			if err != nil {
				iter.Close()
				return nil, err
			}
			readings = append(readings, v)
		}

		if err := iter.Close(); err != nil {
			return nil, fmt.Errorf("failed to query bucket %s: %w", day.Format(time.DateOnly), err)
		}
	}

	return readings, nil
}

// GetLastValues returns the n newest readings of the day bucket holding day.
func (db *DB) GetLastValues(ctx context.Context, motorID uuid.UUID, day time.Time, n int) ([]types.Entry, error) {
	if err := types.Positive("n", n); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.DbReadLatencySeconds.WithLabelValues("last_values").Observe(time.Since(start).Seconds())
	}()

	iter := db.sess.Query(`
SELECT timestamp, value
FROM vibration_readings
WHERE motor_id = ? AND bucket_date = ?
ORDER BY timestamp DESC LIMIT ?
`, gocql.UUID(motorID), bucket(day), n).WithContext(ctx).Iter()

	var (
		results []types.Entry
		ts      time.Time
		dec     *inf.Dec
	)
	for iter.Scan(&ts, &dec) {
		v, err := fromDecimal(dec)
		if err != nil {
			iter.Close()
			return nil, err
		}
		results = append(results, types.Entry{Timestamp: ts, Value: v})
	}

	if err := iter.Close(); err != nil {
		return nil, err
	}
	return results, nil
}

func bucket(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// buckets lists every day bucket touched by [from, to].
func buckets(from, to time.Time) []time.Time {
	var out []time.Time
	end := bucket(to)
	for day := bucket(from); !day.After(end); day = day.AddDate(0, 0, 1) {
		out = append(out, day)
	}
	return out
}

func toDecimal(v float64) (*inf.Dec, error) {
	dec, ok := new(inf.Dec).SetString(strconv.FormatFloat(v, 'f', -1, 64))
	if !ok {
		return nil, &types.ParameterError{Name: "value", Value: v, Reason: "not representable as decimal"}
	}
	return dec, nil
}

func fromDecimal(dec *inf.Dec) (float64, error) {
	if dec == nil {
		return 0, fmt.Errorf("null reading value")
	}
	return strconv.ParseFloat(dec.String(), 64)
}
