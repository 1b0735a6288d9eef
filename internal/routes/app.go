package routes

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/ntentasd/motorsim/internal/cache"
	"github.com/ntentasd/motorsim/internal/monitor"
	"github.com/ntentasd/motorsim/internal/predict"
	"github.com/ntentasd/motorsim/pkg/types"
	"github.com/rs/zerolog"
)

const (
	// AggregateTTL is how long a windowed aggregate stays cached.
	AggregateTTL = 5 * time.Minute
	// LatestCount is how many readings /latest returns.
	LatestCount = 5
	// windowLimit bounds the cached readings scanned when no store is configured.
	windowLimit = 100
)

// Predictor is the scoring surface the handlers call.
type Predictor interface {
	Status(vibration float64) (*predict.StatusResult, error)
	Usage(in predict.UsageInput) (*predict.UsageResult, error)
	Load(in predict.LoadInput) (*predict.LoadResult, error)
	Speed(in predict.SpeedInput) (*predict.SpeedResult, error)
	StartStop(change float64) (*predict.StartStopResult, error)
}

var _ Predictor = (*predict.Service)(nil)

// Store persists served readings. *db.DB implements it.
type Store interface {
	InsertReading(ctx context.Context, motorID uuid.UUID, e types.Entry) error
	GetReadings(ctx context.Context, motorID uuid.UUID, from, to time.Time) ([]float64, error)
	GetLastValues(ctx context.Context, motorID uuid.UUID, day time.Time, n int) ([]types.Entry, error)
}

type App struct {
	Predictor Predictor
	Monitor   *monitor.Monitor
	Cache     cache.Cache
	// Store is optional; without it readings live in the cache only.
	Store    Store
	DataDir  string
	CacheTTL time.Duration

	validate *validator.Validate
	logger   zerolog.Logger
	now      func() time.Time
}

func New(p Predictor, m *monitor.Monitor, c cache.Cache, store Store, dataDir string, cacheTTL time.Duration, logger zerolog.Logger) *App {
	return &App{
		Predictor: p,
		Monitor:   m,
		Cache:     c,
		Store:     store,
		DataDir:   dataDir,
		CacheTTL:  cacheTTL,
		validate:  newValidator(),
		logger:    logger.With().Str("component", "routes").Logger(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
