package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/odosim/internal/sim"
)

type ExportData struct {
	ID      string             `json:"id,omitempty"`
	Variant string             `json:"variant"`
	Dt      float64            `json:"dt"`
	Seed    int64              `json:"seed"`
	Steps   int                `json:"steps"`
	Columns []string           `json:"columns"`
	Rows    [][]float64        `json:"rows"`
	Metrics map[string]float64 `json:"metrics"`
}

func newExportData(id string, log *sim.Log) ExportData {
	data := ExportData{
		ID:      id,
		Variant: log.Variant,
		Dt:      log.Dt,
		Seed:    log.Seed,
		Steps:   log.Len(),
		Columns: Columns(log.Variant),
		Rows:    make([][]float64, len(log.Records)),
		Metrics: log.Metrics,
	}

	for i, r := range log.Records {
		data.Rows[i] = Values(log.Variant, log.Dt, r)
	}
	return data
}

// ExportJSON writes the log with the same columns as the CSV artifact.
func ExportJSON(w io.Writer, id string, log *sim.Log) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(id, log))
}

func ExportJSONFile(path, id string, log *sim.Log) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return ExportJSON(file, id, log)
}
