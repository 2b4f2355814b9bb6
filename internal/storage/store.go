// Package storage is the file-backed run store: one directory per run
// holding JSON metadata plus CSV series for datasets and posterior
// chains.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/TylerFair/jaxoplanet/internal/dataset"
	"github.com/TylerFair/jaxoplanet/internal/trace"
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
	Kind      string             `json:"kind"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      uint64             `json:"seed"`
	Planets   int                `json:"planets"`
	NoiseSD   float64            `json:"noise_sd"`
	Summary   map[string]float64 `json:"summary,omitempty"`
}

// CreateRun allocates a run directory and writes its metadata.
func (s *Store) CreateRun(meta RunMetadata) (string, error) {
	runID := fmt.Sprintf("%s_%d", meta.Kind, time.Now().UnixNano())
	meta.ID = runID
	meta.Timestamp = time.Now()

	if err := os.MkdirAll(filepath.Join(s.baseDir, runID), 0755); err != nil {
		return "", err
	}
	if err := s.SaveMetadata(runID, meta); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) SaveMetadata(runID string, meta RunMetadata) error {
	meta.ID = runID
	f, err := os.Create(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func (s *Store) LoadMetadata(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

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
		meta, err := s.LoadMetadata(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	return runs, nil
}

// SaveDataset writes the photometry as dataset.csv.
func (s *Store) SaveDataset(runID string, ds *dataset.Dataset) error {
	f, err := os.Create(filepath.Join(s.baseDir, runID, "dataset.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"time", "flux", "flux_err"}); err != nil {
		return err
	}
	for i := range ds.Time {
		fluxErr := "0"
		if i < len(ds.FluxErr) {
			fluxErr = strconv.FormatFloat(ds.FluxErr[i], 'g', -1, 64)
		}
		row := []string{
			strconv.FormatFloat(ds.Time[i], 'g', -1, 64),
			strconv.FormatFloat(ds.Flux[i], 'g', -1, 64),
			fluxErr,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) LoadDataset(runID string) (*dataset.Dataset, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "dataset.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("storage: dataset.csv for %s has no rows", runID)
	}

	ds := &dataset.Dataset{}
	for _, rec := range records[1:] {
		if len(rec) < 3 {
			continue
		}
		t, err1 := strconv.ParseFloat(rec[0], 64)
		fl, err2 := strconv.ParseFloat(rec[1], 64)
		fe, err3 := strconv.ParseFloat(rec[2], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			continue
		}
		ds.Time = append(ds.Time, t)
		ds.Flux = append(ds.Flux, fl)
		ds.FluxErr = append(ds.FluxErr, fe)
	}
	return ds, ds.Validate()
}

// SaveTruth records the injected parameters of a synthetic run.
func (s *Store) SaveTruth(runID string, truth *dataset.Truth) error {
	return s.saveJSON(runID, "truth.json", truth)
}

func (s *Store) LoadTruth(runID string) (*dataset.Truth, error) {
	var truth dataset.Truth
	if err := s.loadJSON(runID, "truth.json", &truth); err != nil {
		return nil, err
	}
	return &truth, nil
}

// SaveMAP records a maximum a posteriori point keyed by parameter name.
func (s *Store) SaveMAP(runID string, point map[string]float64) error {
	return s.saveJSON(runID, "map.json", point)
}

func (s *Store) LoadMAP(runID string) (map[string]float64, error) {
	point := map[string]float64{}
	if err := s.loadJSON(runID, "map.json", &point); err != nil {
		return nil, err
	}
	return point, nil
}

// SaveTrace writes the posterior draws as chain.csv with one column per
// parameter plus the log posterior.
func (s *Store) SaveTrace(runID string, tr *trace.Trace) error {
	f, err := os.Create(filepath.Join(s.baseDir, runID, "chain.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	names := tr.Names()
	header := append(append([]string{}, names...), "log_prob")
	if err := w.Write(header); err != nil {
		return err
	}

	cols := make([][]float64, len(names))
	for i, name := range names {
		cols[i], err = tr.Samples(name)
		if err != nil {
			return err
		}
	}
	logProb := tr.LogProb()

	for i := 0; i < tr.Len(); i++ {
		row := make([]string, 0, len(names)+1)
		for j := range names {
			row = append(row, strconv.FormatFloat(cols[j][i], 'g', -1, 64))
		}
		row = append(row, strconv.FormatFloat(logProb[i], 'g', -1, 64))
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) LoadTrace(runID string) (*trace.Trace, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "chain.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("storage: chain.csv for %s is empty", runID)
	}

	header := records[0]
	if len(header) < 2 || header[len(header)-1] != "log_prob" {
		return nil, fmt.Errorf("storage: chain.csv for %s has bad header", runID)
	}
	names := header[:len(header)-1]

	tr := trace.New(names)
	for _, rec := range records[1:] {
		if len(rec) != len(header) {
			continue
		}
		theta := make([]float64, len(names))
		bad := false
		for j := range names {
			v, err := strconv.ParseFloat(rec[j], 64)
			if err != nil {
				bad = true
				break
			}
			theta[j] = v
		}
		lp, err := strconv.ParseFloat(rec[len(rec)-1], 64)
		if bad || err != nil {
			continue
		}
		if err := tr.Append(theta, lp); err != nil {
			return nil, err
		}
	}
	return tr, nil
}

func (s *Store) saveJSON(runID, name string, v any) error {
	f, err := os.Create(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (s *Store) loadJSON(runID, name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
