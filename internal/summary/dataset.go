package summary

import (
	"github.com/ntentasd/motorsim/internal/dataset"
	"github.com/ntentasd/motorsim/internal/generator"
	"github.com/ntentasd/motorsim/pkg/types"
)

// Dataset reads the named table from dir and summarises it.
func Dataset(dir, name string) (any, error) {
	switch name {
	case generator.DatasetUsage:
		rows, err := dataset.Read(dataset.Path(dir, dataset.Usage), dataset.Usage)
		if err != nil {
			return nil, err
		}
		return OfUsage(rows)
	case generator.DatasetLoad:
		rows, err := dataset.Read(dataset.Path(dir, dataset.Load), dataset.Load)
		if err != nil {
			return nil, err
		}
		return OfLoad(rows), nil
	case generator.DatasetSpeed:
		rows, err := dataset.Read(dataset.Path(dir, dataset.Speed), dataset.Speed)
		if err != nil {
			return nil, err
		}
		return OfSpeed(rows), nil
	case generator.DatasetStartStop:
		rows, err := dataset.Read(dataset.Path(dir, dataset.StartStop), dataset.StartStop)
		if err != nil {
			return nil, err
		}
		return OfStartStop(rows)
	case generator.DatasetVibration:
		rows, err := dataset.Read(dataset.Path(dir, dataset.Vibration), dataset.Vibration)
		if err != nil {
			return nil, err
		}
		return OfCooling(rows), nil
	default:
		return nil, &types.ParameterError{Name: "dataset", Value: name, Reason: "unknown dataset"}
	}
}
