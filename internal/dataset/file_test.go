package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ntentasd/motorsim/internal/generator"
	"github.com/ntentasd/motorsim/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.March, 4, 12, 0, 0, 0, time.UTC)

func newGenerator(seed uint64) *generator.Generator {
	return generator.New(generator.NewSource(seed), generator.WithClock(func() time.Time { return now }))
}

func roundTrip[T any](t *testing.T, s Schema[T], rows []T) {
	t.Helper()
	dir := t.TempDir()

	path, err := Write(context.Background(), dir, s, rows)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, s.File), path)

	got, err := Read(path, s)
	require.NoError(t, err)
	assert.Len(t, got, len(rows))
	assert.Equal(t, rows, got)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	header, _, _ := strings.Cut(string(raw), "\n")
	assert.Equal(t, strings.Join(s.Columns, ","), header)
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()

	t.Run("usage", func(t *testing.T) {
		rows, err := newGenerator(1).Usage(ctx, 3)
		require.NoError(t, err)
		roundTrip(t, Usage, rows)
	})
	t.Run("load", func(t *testing.T) {
		rows, err := newGenerator(2).Load(ctx, 250, generator.DefaultLoadConfig())
		require.NoError(t, err)
		roundTrip(t, Load, rows)
	})
	t.Run("speed", func(t *testing.T) {
		rows, err := newGenerator(3).Speed(ctx, 250)
		require.NoError(t, err)
		roundTrip(t, Speed, rows)
	})
	t.Run("start_stop", func(t *testing.T) {
		rows, err := newGenerator(4).StartStop(ctx, 250)
		require.NoError(t, err)
		roundTrip(t, StartStop, rows)
	})
	t.Run("vibration", func(t *testing.T) {
		opts := generator.DefaultVibrationOptions()
		opts.Samples = 90
		opts.Shuffle = true
		rows, err := newGenerator(5).Vibration(ctx, opts)
		require.NoError(t, err)
		roundTrip(t, Vibration, rows)
	})
}

func TestRoundTrip_NonUTCClock(t *testing.T) {
	athens := time.FixedZone("EET", 2*60*60)
	clock := func() time.Time { return time.Date(2024, time.March, 4, 0, 0, 0, 0, athens) }
	rows, err := generator.New(generator.NewSource(9), generator.WithClock(clock)).Usage(context.Background(), 1)
	require.NoError(t, err)

	path, err := Write(context.Background(), t.TempDir(), Usage, rows)
	require.NoError(t, err)
	got, err := Read(path, Usage)
	require.NoError(t, err)
	require.Len(t, got, 48)

	assert.Equal(t, time.Date(2024, time.March, 2, 22, 0, 0, 0, time.UTC), got[0].Timestamp)
	for _, r := range got {
		assert.Equal(t, r.Timestamp.Hour(), r.Hour)
		assert.Equal(t, (int(r.Timestamp.Weekday())+6)%7, r.Day)
	}
	assert.Equal(t, rows, got)
}

func TestWrite_Overwrites(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := newGenerator(1).Speed(ctx, 20)
	require.NoError(t, err)
	_, err = Write(ctx, dir, Speed, first)
	require.NoError(t, err)

	second, err := newGenerator(2).Speed(ctx, 5)
	require.NoError(t, err)
	path, err := Write(ctx, dir, Speed, second)
	require.NoError(t, err)

	got, err := Read(path, Speed)
	require.NoError(t, err)
	assert.Equal(t, second, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no staging files may remain")
	assert.Equal(t, Speed.File, entries[0].Name())
}

func TestWrite_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	path, err := Write(context.Background(), dir, Load, []types.LoadRecord{
		{VibrationLevel: 1000, MotorCurrent: 1, PowerConsumption: 1500, LoadType: types.LoadLight},
	})
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestWrite_IOFailureLeavesNothing(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "data")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0o644))

	_, err := Write(context.Background(), blocker, Speed, nil)
	assert.ErrorIs(t, err, types.ErrIOFailure)

	entries, err := os.ReadDir(parent)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.csv"), Load)
	assert.ErrorIs(t, err, types.ErrIOFailure)
}

func TestDecode_SchemaMismatch(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty",
			input: "",
			want:  "load: missing header",
		},
		{
			name:  "renamed column",
			input: "Vibration_Level,Motor_Current,Power,Load_Type\n",
			want:  "unexpected columns",
		},
		{
			name:  "missing column",
			input: "Vibration_Level,Motor_Current,Power_Consumption\n",
			want:  "load",
		},
		{
			name:  "bad float",
			input: "Vibration_Level,Motor_Current,Power_Consumption,Load_Type\nabc,1,2,Light Load\n",
			want:  `load: row 1 column "Vibration_Level": not a float: "abc"`,
		},
		{
			name:  "unknown label",
			input: "Vibration_Level,Motor_Current,Power_Consumption,Load_Type\n1,1,2,Light Load\n1,1,2,Heavy Load\n",
			want:  `load: row 2 column "Load_Type"`,
		},
		{
			name:  "short row",
			input: "Vibration_Level,Motor_Current,Power_Consumption,Load_Type\n1,1,2\n",
			want:  "load: row 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input), Load)
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrSchemaMismatch)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDecode_LabelMustMatchCondition(t *testing.T) {
	input := strings.Join(Vibration.Columns, ",") + "\n" +
		"2024-03-04 12:00:00,2000,1,Normal,10,0.4,Efficient,1200,2100,1500\n"

	_, err := Decode(strings.NewReader(input), Vibration)
	assert.ErrorIs(t, err, types.ErrSchemaMismatch)
	assert.Contains(t, err.Error(), `column "label"`)
}

func TestFiles(t *testing.T) {
	files := Files()
	assert.Len(t, files, 5)
	assert.Equal(t, "vibration_data.csv", files[generator.DatasetVibration])
	assert.Equal(t, "motor_start_stop.csv", files[generator.DatasetStartStop])
}
