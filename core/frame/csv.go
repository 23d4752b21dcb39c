package frame

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/YuminosukeSato/aqforecast/pkg/errors"
)

// TimeColumn is the header written for the row timestamps.
const TimeColumn = "time"

// WriteCSV writes the frame with a leading time column (RFC3339). NaN cells are
// written empty.
func (f *Frame) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := append([]string{TimeColumn}, f.names...)
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "writing csv header")
	}
	record := make([]string, len(header))
	for i, ts := range f.times {
		record[0] = ts.Format(time.RFC3339)
		for j, name := range f.names {
			v := f.cols[name][i]
			if IsMissing(v) {
				record[j+1] = ""
				continue
			}
			record[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrapf(err, "writing csv row %d", i)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing csv")
}
