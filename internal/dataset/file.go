package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/ntentasd/motorsim/internal/metrics"
	"github.com/ntentasd/motorsim/pkg/types"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Path returns where the schema's file lives under dir.
func Path[T any](dir string, s Schema[T]) string {
	return filepath.Join(dir, s.File)
}

// Write replaces the schema's file under dir with rows. The table is staged
// in a temporary file next to the destination and renamed into place, so a
// failed write never leaves a partial file behind.
func Write[T any](ctx context.Context, dir string, s Schema[T], rows []T) (path string, err error) {
	_, span := otel.Tracer("motorsim-dataset").Start(ctx, "dataset.Write")
	defer span.End()

	path = Path(dir, s)
	span.SetAttributes(
		attribute.String("dataset", s.Name),
		attribute.String("dataset.path", path),
		attribute.Int("rows", len(rows)),
	)

	start := time.Now()
	if err := writeAtomic(dir, path, s, rows); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	metrics.DatasetWriteLatencySeconds.WithLabelValues(s.Name).Observe(time.Since(start).Seconds())
	span.SetStatus(codes.Ok, "")

	zerolog.Ctx(ctx).Info().
		Str("dataset", s.Name).
		Str("path", path).
		Int("rows", len(rows)).
		Msg("dataset written")

	return path, nil
}

func writeAtomic[T any](dir, path string, s Schema[T], rows []T) (err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %w", types.ErrIOFailure, dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+s.File+".*")
	if err != nil {
		return fmt.Errorf("%w: stage %s: %w", types.ErrIOFailure, path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)
	if err := w.Write(s.Columns); err != nil {
		return fmt.Errorf("%w: write header: %w", types.ErrIOFailure, err)
	}
	for _, r := range rows {
		if err := w.Write(s.encode(r)); err != nil {
			return fmt.Errorf("%w: write row: %w", types.ErrIOFailure, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: flush %s: %w", types.ErrIOFailure, tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: sync %s: %w", types.ErrIOFailure, tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", types.ErrIOFailure, tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("%w: chmod %s: %w", types.ErrIOFailure, tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: rename into %s: %w", types.ErrIOFailure, path, err)
	}
	return nil
}

// Read loads a file written with s. The header must match s.Columns exactly.
func Read[T any](path string, s Schema[T]) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", types.ErrIOFailure, path, err)
	}
	defer f.Close()

	return Decode(f, s)
}

// Decode parses a CSV stream laid out as s.
func Decode[T any](r io.Reader, s Schema[T]) ([]T, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(s.Columns)
	cr.ReuseRecord = true

	header, err := cr.Read()
	switch {
	case errors.Is(err, io.EOF):
		return nil, &types.SchemaError{Dataset: s.Name, Reason: "missing header"}
	case err != nil:
		return nil, readError(s.Name, err)
	}
	if !slices.Equal(header, s.Columns) {
		return nil, &types.SchemaError{
			Dataset: s.Name,
			Reason:  fmt.Sprintf("unexpected columns %v, want %v", header, s.Columns),
		}
	}

	var out []T
	for line := 1; ; line++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, readError(s.Name, err)
		}

		rw := &row{dataset: s.Name, columns: s.Columns, line: line, fields: fields}
		rec := s.decode(rw)
		if rw.err != nil {
			return nil, rw.err
		}
		out = append(out, rec)
	}

	return out, nil
}

func readError(dataset string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &types.SchemaError{Dataset: dataset, Row: pe.Line - 1, Reason: pe.Err.Error()}
	}
	return fmt.Errorf("%w: read %s: %w", types.ErrIOFailure, dataset, err)
}
