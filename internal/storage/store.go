// Package storage keeps run reports on disk: a metadata.json summary, the
// run configuration and a per-step metric trace in CSV. Particle state is
// never written; a run is reproduced from its configuration and seed.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/particlesim/internal/config"
	"github.com/san-kum/particlesim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	configFile   = "config.yaml"
	traceFile    = "trace.csv"
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
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Particles  int                `json:"particles"`
	Integrator string             `json:"integrator"`
	Steps      int                `json:"steps"`
	Collisions int                `json:"collisions"`
	ElapsedMS  float64            `json:"elapsed_ms"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes a report for result under a new run directory and returns its
// ID. cfg may be nil when the run was not built from a config file.
func (s *Store) Save(name string, cfg *config.Config, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Name:       name,
		Timestamp:  now,
		Steps:      result.Steps,
		Collisions: result.Collisions,
		ElapsedMS:  float64(result.Elapsed.Microseconds()) / 1000,
		Metrics:    result.Metrics,
	}
	if cfg != nil {
		meta.Seed = cfg.Seed
		meta.Particles = cfg.Particles
		meta.Integrator = cfg.Integrator
		if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
			return "", err
		}
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeTrace(filepath.Join(runDir, traceFile), result); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTrace(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{"row"}, result.Names...)
	if err := w.Write(header); err != nil {
		return err
	}
	for i, row := range result.Trace {
		rec := make([]string, 0, len(row)+1)
		rec = append(rec, strconv.Itoa(i))
		for _, v := range row {
			rec = append(rec, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, newest first.
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
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
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

// LoadConfig returns the configuration the run was started with.
func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	return config.Load(filepath.Join(s.baseDir, runID, configFile))
}

// Trace is a metric trace read back from disk, one column per metric.
type Trace struct {
	Names  []string
	Series map[string][]float64
}

func (s *Store) LoadTrace(runID string) (*Trace, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, traceFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	tr := &Trace{Series: make(map[string][]float64)}
	if len(records) == 0 {
		return tr, nil
	}
	tr.Names = append(tr.Names, records[0][1:]...)
	for _, rec := range records[1:] {
		for j := 1; j < len(rec) && j <= len(tr.Names); j++ {
			v, err := strconv.ParseFloat(rec[j], 64)
			if err != nil {
				return nil, fmt.Errorf("trace %s: %w", runID, err)
			}
			name := tr.Names[j-1]
			tr.Series[name] = append(tr.Series[name], v)
		}
	}
	return tr, nil
}
