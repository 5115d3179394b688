package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/odosim/internal/curve"
	"github.com/san-kum/odosim/internal/sim"
)

var exactColumns = []string{"true_x", "true_y", "true_yaw", "odo_x", "odo_y", "odo_yaw", "z_x", "z_y"}

var noisyColumns = append(append([]string{}, exactColumns...), "u_dl", "u_dtheta", "z_n", "u_dl_n", "u_dtheta_n")

// Columns returns the CSV header for a log variant.
func Columns(variant string) []string {
	if variant == sim.VariantNoisy {
		return noisyColumns
	}
	return exactColumns
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Values returns the numeric columns of one record. Noisy rows append the
// applied input and the input sigmas scaled by dt, plus the observation sigma.
func Values(variant string, dt float64, r sim.Record) []float64 {
	vals := []float64{
		r.True.X, r.True.Y, r.True.Yaw,
		r.Odometry.X, r.Odometry.Y, r.Odometry.Yaw,
		r.Observation.X, r.Observation.Y,
	}
	if variant == sim.VariantNoisy {
		vals = append(vals,
			r.Applied.V*dt, r.Applied.Omega*dt,
			r.Observation.Sigma,
			r.InputNoise.V*dt, r.InputNoise.Omega*dt,
		)
	}
	return vals
}

// Row renders one record as CSV fields.
func Row(variant string, dt float64, r sim.Record) []string {
	vals := Values(variant, dt, r)
	row := make([]string, len(vals))
	for i, v := range vals {
		row[i] = formatFloat(v)
	}
	return row
}

// WriteCSV serialises the log with a header row, one row per record.
func WriteCSV(w io.Writer, log *sim.Log) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns(log.Variant)); err != nil {
		return err
	}
	for _, r := range log.Records {
		if err := cw.Write(Row(log.Variant, log.Dt, r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a file written by WriteCSV. The variant is inferred from
// the header. Times are rebuilt as multiples of dt, and a row counts as an
// observation when any observation column is non-zero.
func ReadCSV(r io.Reader, dt float64) (*sim.Log, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty sample log")
	}

	variant := sim.VariantExact
	switch len(records[0]) {
	case len(exactColumns):
	case len(noisyColumns):
		variant = sim.VariantNoisy
	default:
		return nil, fmt.Errorf("unexpected header with %d columns", len(records[0]))
	}

	log := &sim.Log{
		Variant: variant,
		Dt:      dt,
		Records: make([]sim.Record, 0, len(records)-1),
		Metrics: make(map[string]float64),
	}

	for i, row := range records[1:] {
		vals := make([]float64, len(row))
		for j, field := range row {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", i+1, records[0][j], err)
			}
			vals[j] = v
		}

		rec := sim.Record{
			Time:     float64(i+1) * dt,
			True:     sim.Pose{X: vals[0], Y: vals[1], Yaw: vals[2]},
			Odometry: sim.Pose{X: vals[3], Y: vals[4], Yaw: vals[5]},
			Observation: sim.Observation{
				X: vals[6],
				Y: vals[7],
			},
		}
		if variant == sim.VariantNoisy {
			rec.Observation.Sigma = vals[10]
			if dt > 0 {
				rec.Applied = sim.Input{V: vals[8] / dt, Omega: vals[9] / dt}
				rec.InputNoise = sim.InputNoise{V: vals[11] / dt, Omega: vals[12] / dt}
			}
		}
		rec.Observation.Due = rec.Observation.X != 0 || rec.Observation.Y != 0 || rec.Observation.Sigma != 0

		log.Records = append(log.Records, rec)
	}

	return log, nil
}

// WriteCurveCSV writes x,y rows with a header.
func WriteCurveCSV(w io.Writer, pts []curve.Point) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x", "y"}); err != nil {
		return err
	}
	for _, p := range pts {
		if err := cw.Write([]string{formatFloat(p.X), formatFloat(p.Y)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCurveCSV reads x,y rows; a non-numeric first row is taken as a header.
func ReadCurveCSV(r io.Reader) ([]curve.Point, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	pts := make([]curve.Point, 0, len(records))
	for i, rec := range records {
		x, errX := strconv.ParseFloat(rec[0], 64)
		y, errY := strconv.ParseFloat(rec[1], 64)
		if errX != nil || errY != nil {
			if i == 0 {
				continue
			}
			return nil, fmt.Errorf("row %d: not a number pair: %v", i+1, rec)
		}
		pts = append(pts, curve.Point{X: x, Y: y})
	}
	return pts, nil
}
