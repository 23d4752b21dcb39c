// Package frame provides the columnar time-indexed table every pipeline stage reads
// and writes. Values are float64; NaN marks an undefined cell.
package frame

import (
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/aqforecast/pkg/errors"
)

// Frame is an ordered table: one timestamp per row plus named float64 columns in
// insertion order. Accessors return copies so a Frame handed to a caller is never
// mutated behind its back.
type Frame struct {
	times []time.Time
	names []string
	cols  map[string][]float64
}

// New creates a Frame with the given row timestamps and no columns.
func New(times []time.Time) *Frame {
	return &Frame{
		times: append([]time.Time(nil), times...),
		cols:  make(map[string][]float64),
	}
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.times)
}

// Times returns a copy of the row timestamps.
func (f *Frame) Times() []time.Time {
	return append([]time.Time(nil), f.times...)
}

// Time returns the timestamp of row i.
func (f *Frame) Time(i int) time.Time {
	return f.times[i]
}

// Columns returns the column names in insertion order.
func (f *Frame) Columns() []string {
	return append([]string(nil), f.names...)
}

// Has reports whether the column exists.
func (f *Frame) Has(name string) bool {
	_, ok := f.cols[name]
	return ok
}

// Column returns a copy of the named column.
func (f *Frame) Column(name string) ([]float64, bool) {
	col, ok := f.cols[name]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), col...), true
}

// Value returns the cell at (name, i), or NaN when the column is absent.
func (f *Frame) Value(name string, i int) float64 {
	col, ok := f.cols[name]
	if !ok {
		return math.NaN()
	}
	return col[i]
}

// Set adds or replaces a column. values must have one entry per row.
func (f *Frame) Set(name string, values []float64) error {
	if len(values) != len(f.times) {
		return errors.NewDimensionError("Frame.Set", len(f.times), len(values), 0)
	}
	if _, ok := f.cols[name]; !ok {
		f.names = append(f.names, name)
	}
	f.cols[name] = append([]float64(nil), values...)
	return nil
}

// Drop removes columns; unknown names are ignored.
func (f *Frame) Drop(names ...string) {
	for _, name := range names {
		if _, ok := f.cols[name]; !ok {
			continue
		}
		delete(f.cols, name)
		for i, n := range f.names {
			if n == name {
				f.names = append(f.names[:i:i], f.names[i+1:]...)
				break
			}
		}
	}
}

// Clone returns a deep copy.
func (f *Frame) Clone() *Frame {
	out := New(f.times)
	for _, name := range f.names {
		out.names = append(out.names, name)
		out.cols[name] = append([]float64(nil), f.cols[name]...)
	}
	return out
}

// Rows returns a new Frame holding only the given row indices, in that order.
func (f *Frame) Rows(idx []int) *Frame {
	times := make([]time.Time, len(idx))
	for k, i := range idx {
		times[k] = f.times[i]
	}
	out := New(times)
	for _, name := range f.names {
		src := f.cols[name]
		dst := make([]float64, len(idx))
		for k, i := range idx {
			dst[k] = src[i]
		}
		out.names = append(out.names, name)
		out.cols[name] = dst
	}
	return out
}

// DropIncomplete returns a new Frame without the rows that hold a NaN in any of
// cols. With no cols every column is checked.
func (f *Frame) DropIncomplete(cols ...string) *Frame {
	if len(cols) == 0 {
		cols = f.names
	}
	keep := make([]int, 0, f.Len())
	for i := range f.times {
		complete := true
		for _, name := range cols {
			if IsMissing(f.Value(name, i)) {
				complete = false
				break
			}
		}
		if complete {
			keep = append(keep, i)
		}
	}
	return f.Rows(keep)
}

// Tail returns the last n rows (all rows when n >= Len).
func (f *Frame) Tail(n int) *Frame {
	return f.Slice(f.Len()-n, f.Len())
}

// Slice returns rows [start, end). Bounds are clamped to [0, Len]; an empty range
// gives an empty Frame with the same columns.
func (f *Frame) Slice(start, end int) *Frame {
	start = min(max(start, 0), f.Len())
	end = min(max(end, start), f.Len())
	idx := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		idx = append(idx, i)
	}
	return f.Rows(idx)
}

// Select returns a new Frame holding only cols, in that order.
func (f *Frame) Select(cols ...string) (*Frame, error) {
	if missing := f.Missing(cols); len(missing) > 0 {
		return nil, errors.NewMissingFeatureError("Frame.Select", missing)
	}
	out := New(f.times)
	for _, name := range cols {
		if out.Has(name) {
			continue
		}
		out.names = append(out.names, name)
		out.cols[name] = append([]float64(nil), f.cols[name]...)
	}
	return out, nil
}

// Missing lists the names from cols that the frame does not have.
func (f *Frame) Missing(cols []string) []string {
	var missing []string
	for _, name := range cols {
		if !f.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Matrix copies cols, in the given order, into a rows × len(cols) dense matrix.
func (f *Frame) Matrix(cols []string) (*mat.Dense, error) {
	if missing := f.Missing(cols); len(missing) > 0 {
		return nil, errors.NewMissingFeatureError("Frame.Matrix", missing)
	}
	if f.Len() == 0 || len(cols) == 0 {
		return nil, errors.NewModelError("Frame.Matrix", "empty data", errors.ErrEmptyData)
	}
	m := mat.NewDense(f.Len(), len(cols), nil)
	for j, name := range cols {
		m.SetCol(j, f.cols[name])
	}
	return m, nil
}

// Vector copies one column into a gonum vector.
func (f *Frame) Vector(col string) (*mat.VecDense, error) {
	values, ok := f.cols[col]
	if !ok {
		return nil, errors.NewMissingFeatureError("Frame.Vector", []string{col})
	}
	if len(values) == 0 {
		return nil, errors.NewModelError("Frame.Vector", "empty data", errors.ErrEmptyData)
	}
	return mat.NewVecDense(len(values), append([]float64(nil), values...)), nil
}
