package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ntentasd/motorsim/pkg/types"
)

const (
	BundleFile    = "bundle.json"
	BundleVersion = 1
)

// Bundle is every fitted model the prediction service needs.
type Bundle struct {
	Version   int       `json:"version"`
	TrainedAt time.Time `json:"trained_at"`
	Status    *Centroid `json:"status"`
	Cooling   *Logistic `json:"cooling"`
	Usage     *Logistic `json:"usage"`
	Load      *Centroid `json:"load"`
	Speed     *Linear   `json:"speed"`
	Reports   []Report  `json:"reports,omitempty"`
}

// Validate reports the first missing or malformed model as a SchemaError.
func (b *Bundle) Validate() error {
	missing := func(name string) error {
		return &types.SchemaError{Dataset: "bundle", Column: name, Reason: "model missing"}
	}
	if b.Version != BundleVersion {
		return &types.SchemaError{Dataset: "bundle", Reason: fmt.Sprintf("unsupported version %d", b.Version)}
	}
	switch {
	case b.Status == nil:
		return missing("status")
	case b.Cooling == nil:
		return missing("cooling")
	case b.Usage == nil:
		return missing("usage")
	case b.Load == nil:
		return missing("load")
	case b.Speed == nil:
		return missing("speed")
	}

	shapes := []struct {
		name string
		err  error
	}{
		{"status", b.Status.shape(len(StatusFeatures))},
		{"cooling", b.Cooling.shape(len(CoolingFeatures))},
		{"usage", b.Usage.shape(len(UsageFeatures))},
		{"load", b.Load.shape(len(LoadFeatures))},
		{"speed", b.Speed.shape(len(SpeedFeatures))},
	}
	for _, s := range shapes {
		if s.err != nil {
			return &types.SchemaError{Dataset: "bundle", Column: s.name, Reason: s.err.Error()}
		}
	}
	return nil
}

// SaveBundle writes b to dir/bundle.json through a temporary file.
func SaveBundle(dir string, b *Bundle) (path string, err error) {
	if err := b.Validate(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create %s: %w", types.ErrIOFailure, dir, err)
	}

	path = filepath.Join(dir, BundleFile)
	tmp, err := os.CreateTemp(dir, "."+BundleFile+".*")
	if err != nil {
		return "", fmt.Errorf("%w: stage %s: %w", types.ErrIOFailure, path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return "", fmt.Errorf("%w: encode bundle: %w", types.ErrIOFailure, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: close %s: %w", types.ErrIOFailure, tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("%w: rename into %s: %w", types.ErrIOFailure, path, err)
	}
	return path, nil
}

func LoadBundle(path string) (*Bundle, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", types.ErrIOFailure, path, err)
	}

	var b Bundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, &types.SchemaError{Dataset: "bundle", Reason: err.Error()}
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}
