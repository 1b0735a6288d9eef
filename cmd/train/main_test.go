package main

import (
	"context"
	"testing"

	"github.com/ntentasd/motorsim/internal/dataset"
	"github.com/ntentasd/motorsim/internal/generator"
	"github.com/ntentasd/motorsim/internal/model"
	"github.com/ntentasd/motorsim/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTables(t *testing.T, dir string) {
	t.Helper()
	ctx := context.Background()
	g := generator.New(generator.NewSource(11))

	vo := generator.DefaultVibrationOptions()
	vo.Samples = 300
	vib, err := g.Vibration(ctx, vo)
	require.NoError(t, err)
	_, err = dataset.Write(ctx, dir, dataset.Vibration, vib)
	require.NoError(t, err)

	usage, err := g.Usage(ctx, 7)
	require.NoError(t, err)
	_, err = dataset.Write(ctx, dir, dataset.Usage, usage)
	require.NoError(t, err)

	load, err := g.Load(ctx, 300, generator.DefaultLoadConfig())
	require.NoError(t, err)
	_, err = dataset.Write(ctx, dir, dataset.Load, load)
	require.NoError(t, err)

	speed, err := g.Speed(ctx, 300)
	require.NoError(t, err)
	_, err = dataset.Write(ctx, dir, dataset.Speed, speed)
	require.NoError(t, err)
}

func TestRun(t *testing.T) {
	dataDir, modelDir := t.TempDir(), t.TempDir()
	writeTables(t, dataDir)

	path, err := run(context.Background(), dataDir, modelDir, 42)
	require.NoError(t, err)

	b, err := model.LoadBundle(path)
	require.NoError(t, err)
	assert.Len(t, b.Reports, 5)
}

func TestRun_MissingDataset(t *testing.T) {
	_, err := run(context.Background(), t.TempDir(), t.TempDir(), 42)
	assert.ErrorIs(t, err, types.ErrIOFailure)
}
