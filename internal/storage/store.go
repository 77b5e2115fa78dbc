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

	"github.com/san-kum/kinsolve/internal/kinematics"
)

const (
	metadataFile = "metadata.json"
	profileFile  = "profile.csv"
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

// SolutionRecord is a stored kinematics.Solution.
type SolutionRecord struct {
	Target   string    `json:"target"`
	Value    float64   `json:"value"`
	Roots    []float64 `json:"roots,omitempty"`
	Equation int       `json:"equation"`
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Initial   map[string]float64 `json:"initial"`
	Final     map[string]float64 `json:"final"`
	Find      []string           `json:"find"`
	Solutions []SolutionRecord   `json:"solutions"`
	Samples   int                `json:"samples"`
}

// Result rebuilds the solver output recorded in the run.
func (m *RunMetadata) Result() (*kinematics.Result, error) {
	initial, err := kinematics.NewState(kinematics.Initial, m.Initial)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", m.ID, err)
	}
	final, err := kinematics.NewState(kinematics.Final, m.Final)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", m.ID, err)
	}

	res := &kinematics.Result{Initial: initial, Final: final}
	for _, rec := range m.Solutions {
		ref, err := kinematics.ParseVarRef(rec.Target)
		if err != nil {
			return nil, fmt.Errorf("run %s: %w", m.ID, err)
		}
		res.Solutions = append(res.Solutions, kinematics.Solution{
			Target:   ref,
			Value:    rec.Value,
			Roots:    rec.Roots,
			Equation: rec.Equation,
		})
	}
	return res, nil
}

// Save writes the solved problem and its profile under a new run id.
// profile may be nil when the interval is not fully known.
func (s *Store) Save(name string, result *kinematics.Result, profile *kinematics.Profile) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Name:      name,
		Timestamp: now,
		Initial:   result.Initial.Values(),
		Final:     result.Final.Values(),
		Find:      make([]string, 0, len(result.Solutions)),
		Solutions: make([]SolutionRecord, 0, len(result.Solutions)),
	}
	for _, sol := range result.Solutions {
		meta.Find = append(meta.Find, sol.Target.String())
		meta.Solutions = append(meta.Solutions, SolutionRecord{
			Target:   sol.Target.String(),
			Value:    sol.Value,
			Roots:    sol.Roots,
			Equation: sol.Equation,
		})
	}
	if profile != nil {
		meta.Samples = profile.Len()
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeProfile(filepath.Join(runDir, profileFile), profile); err != nil {
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

func writeProfile(path string, profile *kinematics.Profile) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ExportCSV(f, profile)
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

	sort.SliceStable(runs, func(i, j int) bool {
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
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

// LoadProfile reads the sampled motion of a run. A run saved without a
// profile yields an empty one.
func (s *Store) LoadProfile(runID string) (*kinematics.Profile, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, profileFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 3

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	p := &kinematics.Profile{}
	for i := 1; i < len(records); i++ {
		var vals [3]float64
		for j, field := range records[i] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("run %s line %d: %w", runID, i+1, err)
			}
			vals[j] = v
		}
		p.Times = append(p.Times, vals[0])
		p.Positions = append(p.Positions, vals[1])
		p.Velocities = append(p.Velocities, vals[2])
	}
	return p, nil
}
