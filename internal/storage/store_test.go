package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/san-kum/kinsolve/internal/kinematics"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func solved(t *testing.T) (*kinematics.Result, *kinematics.Profile) {
	t.Helper()
	initial, _ := kinematics.NewState(kinematics.Initial, map[string]float64{"s": 0, "t": 0, "v": 0, "a": 2})
	final, _ := kinematics.NewState(kinematics.Final, map[string]float64{"t": 3})

	res, err := kinematics.NewSolver(nil).Run(kinematics.Problem{
		Initial: initial,
		Final:   final,
		Find:    kinematics.MustParseVarRefs("v1", "s1"),
	})
	if err != nil {
		t.Fatalf("solve failed: %v", err)
	}
	profile, err := kinematics.NewProfile(res.Initial, res.Final, 4)
	if err != nil {
		t.Fatalf("profile failed: %v", err)
	}
	return res, profile
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	res, profile := solved(t)
	runID, err := st.Save("test", res, profile)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if !strings.HasPrefix(runID, "test_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Name != "test" {
		t.Errorf("expected name 'test', got '%s'", meta.Name)
	}
	if diff := cmp.Diff([]string{"v1", "s1"}, meta.Find); diff != "" {
		t.Errorf("find mismatch (-want +got):\n%s", diff)
	}
	if meta.Final["v"] != 6 || meta.Final["s"] != 9 {
		t.Errorf("unexpected final values: %v", meta.Final)
	}
	if meta.Solutions[0].Equation != 1 {
		t.Errorf("expected v1 from equation 1, got %d", meta.Solutions[0].Equation)
	}
	if meta.Samples != 4 {
		t.Errorf("expected 4 samples, got %d", meta.Samples)
	}

	loaded, err := st.LoadProfile(runID)
	if err != nil {
		t.Fatalf("load profile failed: %v", err)
	}
	if diff := cmp.Diff(profile, loaded); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	res, profile := solved(t)
	if _, err := st.Save("first", res, profile); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := st.Save("second", res, nil); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].Name != "first" || runs[1].Name != "second" {
		t.Errorf("runs out of order: %s, %s", runs[0].Name, runs[1].Name)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	res, _ := solved(t)
	runID, err := st.Save("test", res, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}
	if _, err := os.Stat(filepath.Join(runDir, "profile.csv")); os.IsNotExist(err) {
		t.Error("profile.csv not created")
	}

	p, err := st.LoadProfile(runID)
	if err != nil {
		t.Fatalf("load profile failed: %v", err)
	}
	if p.Len() != 0 {
		t.Errorf("expected empty profile, got %d samples", p.Len())
	}
}

func TestExportJSON(t *testing.T) {
	res, profile := solved(t)
	st := New(t.TempDir())
	runID, err := st.Save("export", res, profile)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, meta, profile); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("export is not valid json: %v", err)
	}
	if data.ID != runID {
		t.Errorf("expected id %s, got %s", runID, data.ID)
	}
	if len(data.Positions) != 4 || data.Positions[3] != 9 {
		t.Errorf("unexpected positions: %v", data.Positions)
	}
}

func TestExportCSV(t *testing.T) {
	_, profile := solved(t)

	var buf bytes.Buffer
	if err := ExportCSV(&buf, profile); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected header and 4 rows, got %d lines", len(lines))
	}
	if lines[0] != "time,s,v" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[4] != "3,9,6" {
		t.Errorf("unexpected last row %q", lines[4])
	}
}

func TestRunMetadataResult(t *testing.T) {
	st := New(t.TempDir())
	res, profile := solved(t)
	runID, err := st.Save("rebuild", res, profile)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	got, err := meta.Result()
	if err != nil {
		t.Fatalf("result failed: %v", err)
	}

	if diff := cmp.Diff(res.Final.Values(), got.Final.Values()); diff != "" {
		t.Errorf("final state mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(res.Solutions, got.Solutions); diff != "" {
		t.Errorf("solutions mismatch (-want +got):\n%s", diff)
	}

	meta.Solutions[0].Target = "a1"
	if _, err := meta.Result(); err == nil {
		t.Error("expected an invalid target to be rejected")
	}
}
