package worker

import (
	"github.com/ntentasd/motorsim/internal/dataset"
	"github.com/ntentasd/motorsim/internal/generator"
	"github.com/ntentasd/motorsim/pkg/types"
)

// LoadRecords reads the named dataset from dir in file order.
func LoadRecords(dir, name string) ([]any, error) {
	switch name {
	case generator.DatasetUsage:
		return read(dir, dataset.Usage)
	case generator.DatasetLoad:
		return read(dir, dataset.Load)
	case generator.DatasetSpeed:
		return read(dir, dataset.Speed)
	case generator.DatasetStartStop:
		return read(dir, dataset.StartStop)
	case generator.DatasetVibration:
		return read(dir, dataset.Vibration)
	default:
		return nil, &types.ParameterError{Name: "dataset", Value: name, Reason: "unknown dataset"}
	}
}

func read[T any](dir string, s dataset.Schema[T]) ([]any, error) {
	rows, err := dataset.Read(dataset.Path(dir, s), s)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out, nil
}
