package airquality

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/YuminosukeSato/aqforecast/pkg/errors"
)

// TimeColumn is the header naming the timestamp column.
const TimeColumn = "time"

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// ParseTime accepts RFC3339 and the naive ISO layouts hourly exports use.
// Naive timestamps are read as UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.NewValidationError(TimeColumn, "unrecognized timestamp layout", s)
}

// ReadObservationsCSV decodes a header-led CSV of hourly observations. The time
// column is required; raw columns may be absent; unknown columns are ignored.
// Empty and "NaN" cells decode as absent values. Row order is preserved.
func ReadObservationsCSV(r io.Reader) ([]Observation, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.NewValidationError("header", "empty input", nil)
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading csv header")
	}

	timeIdx := -1
	cols := make(map[int]string)
	probe := Observation{}
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == TimeColumn {
			timeIdx = i
			continue
		}
		if probe.field(name) != nil {
			cols[i] = name
		}
	}
	if timeIdx < 0 {
		return nil, errors.NewValidationError("header", "missing time column", header)
	}

	var out []Observation
	for row := 1; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading csv row %d", row)
		}
		ts, err := ParseTime(record[timeIdx])
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", row)
		}
		obs := Observation{Time: ts}
		for i, name := range cols {
			v, ok, err := parseCell(record[i])
			if err != nil {
				return nil, errors.Wrapf(
					errors.NewValidationError(name, "not a number", record[i]), "row %d", row)
			}
			if ok {
				obs.SetValue(name, v)
			}
		}
		out = append(out, obs)
	}
	return out, nil
}

func parseCell(s string) (float64, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	if math.IsNaN(v) {
		return 0, false, nil
	}
	return v, true, nil
}

// WriteObservationsCSV writes observations with a time column followed by every
// raw column. Absent values are written empty.
func WriteObservationsCSV(w io.Writer, obs []Observation) error {
	cw := csv.NewWriter(w)
	cols := RawColumns()
	if err := cw.Write(append([]string{TimeColumn}, cols...)); err != nil {
		return errors.Wrap(err, "writing csv header")
	}
	record := make([]string, len(cols)+1)
	for i, o := range obs {
		record[0] = o.Time.Format(time.RFC3339)
		for j, col := range cols {
			record[j+1] = ""
			if v, ok := o.Value(col); ok {
				record[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
			}
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrapf(err, "writing csv row %d", i)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing csv")
}
