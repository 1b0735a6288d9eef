package dataset

import (
	"strconv"
	"time"

	"github.com/ntentasd/motorsim/pkg/types"
)

// row decodes one CSV record, keeping the first failure only.
type row struct {
	dataset string
	columns []string
	line    int
	fields  []string
	err     error
}

func (r *row) fail(i int, reason string) {
	if r.err != nil {
		return
	}
	r.err = &types.SchemaError{
		Dataset: r.dataset,
		Row:     r.line,
		Column:  r.columns[i],
		Reason:  reason,
	}
}

func (r *row) float(i int) float64 {
	v, err := strconv.ParseFloat(r.fields[i], 64)
	if err != nil {
		r.fail(i, "not a float: "+strconv.Quote(r.fields[i]))
	}
	return v
}

func (r *row) int(i int) int {
	v, err := strconv.Atoi(r.fields[i])
	if err != nil {
		r.fail(i, "not an integer: "+strconv.Quote(r.fields[i]))
	}
	return v
}

func (r *row) time(i int) time.Time {
	v, err := time.ParseInLocation(TimeLayout, r.fields[i], time.UTC)
	if err != nil {
		r.fail(i, "not a timestamp: "+strconv.Quote(r.fields[i]))
	}
	return v
}

func parse[E any](r *row, i int, fn func(string) (E, error)) E {
	v, err := fn(r.fields[i])
	if err != nil {
		r.fail(i, err.Error())
	}
	return v
}
