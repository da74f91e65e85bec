package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/LuckySan/controlling-fun/internal/dynamo"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
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

func (s *Store) Dir() string { return s.baseDir }

// RunInfo describes how a run was configured.
type RunInfo struct {
	Controller      string             `json:"controller"`
	Integrator      string             `json:"integrator"`
	Seed            int64              `json:"seed"`
	Dt              float64            `json:"dt"`
	Duration        float64            `json:"duration"`
	InitialThetaDeg float64            `json:"initial_theta_deg"`
	Schedule        string             `json:"schedule,omitempty"`
	Params          map[string]float64 `json:"params,omitempty"`
	Gains           map[string]float64 `json:"gains,omitempty"`
}

type RunMetadata struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	RunInfo
	Steps   int                `json:"steps"`
	Samples int                `json:"samples"`
	Tipped  bool               `json:"tipped"`
	TipTime float64            `json:"tip_time,omitempty"`
	Metrics map[string]float64 `json:"metrics"`
}

func newRunID(controller string) string {
	return fmt.Sprintf("%s_%s", controller, uuid.NewString()[:8])
}

// Save writes metadata.json and states.csv into a fresh run directory and
// returns the run ID.
func (s *Store) Save(info RunInfo, result *dynamo.Result) (string, error) {
	runID := newRunID(info.Controller)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Timestamp: time.Now(),
		RunInfo:   info,
		Steps:     result.StepsTaken,
		Samples:   len(result.Samples),
		Tipped:    result.Tipped(),
		Metrics:   result.Metrics,
	}
	if meta.Tipped {
		meta.TipTime = result.Final.Elapsed
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, statesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteCSV(csvFile, result.Samples); err != nil {
		return "", err
	}

	return runID, nil
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
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("run %s: %w", runID, dynamo.ErrNoData)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

func (s *Store) LoadStates(runID string) ([]dynamo.Snapshot, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("run %s: %w", runID, dynamo.ErrNoData)
		}
		return nil, err
	}
	defer file.Close()

	samples, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("run %s: %w", runID, dynamo.ErrNoData)
	}
	return samples, nil
}
