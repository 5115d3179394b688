package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/odosim/internal/config"
	"github.com/san-kum/odosim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	dataFile     = "data.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Variant   string             `json:"variant"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	SimTime   float64            `json:"sim_time"`
	Steps     int                `json:"steps"`
	Metrics   map[string]float64 `json:"metrics"`
	Config    *config.Config     `json:"config,omitempty"`
}

// Save writes metadata.json and data.csv under a fresh run directory and
// returns the run ID.
func (s *Store) Save(cfg *config.Config, log *sim.Log) (string, error) {
	runID := fmt.Sprintf("%s_%s", log.Variant, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Variant:   log.Variant,
		Timestamp: time.Now(),
		Seed:      log.Seed,
		Dt:        log.Dt,
		Steps:     log.Len(),
		Metrics:   log.Metrics,
		Config:    cfg,
	}
	if cfg != nil {
		meta.SimTime = cfg.SimTime
	}

	if err := writeRun(runDir, &meta, log); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	return runID, nil
}

func writeRun(runDir string, meta *RunMetadata, log *sim.Log) error {
	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return err
	}

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		metaFile.Close()
		return err
	}
	if err := metaFile.Close(); err != nil {
		return err
	}

	return WriteCSVFile(filepath.Join(runDir, dataFile), log)
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadLog reads a stored run back into a sample log, restoring its metrics.
func (s *Store) LoadLog(runID string) (*RunMetadata, *sim.Log, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(filepath.Join(s.baseDir, runID, dataFile))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	log, err := ReadCSV(f, meta.Dt)
	if err != nil {
		return nil, nil, fmt.Errorf("run %s: %w", runID, err)
	}
	log.Seed = meta.Seed
	for k, v := range meta.Metrics {
		log.Metrics[k] = v
	}
	return meta, log, nil
}

// WriteCSVFile writes the log as a flat CSV file at path.
func WriteCSVFile(path string, log *sim.Log) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, log); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
