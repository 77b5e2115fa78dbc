package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/kinsolve/internal/kinematics"
)

type ExportData struct {
	RunMetadata
	Times      []float64 `json:"times"`
	Positions  []float64 `json:"positions"`
	Velocities []float64 `json:"velocities"`
}

// ExportJSON writes a run and its profile as one indented JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, profile *kinematics.Profile) error {
	data := ExportData{RunMetadata: *meta}
	if profile != nil {
		data.Times = profile.Times
		data.Positions = profile.Positions
		data.Velocities = profile.Velocities
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportCSV writes the profile as time,s,v rows under a header. A nil
// profile writes the header only.
func ExportCSV(w io.Writer, profile *kinematics.Profile) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "s", "v"}); err != nil {
		return err
	}
	if profile != nil {
		for i := range profile.Times {
			row := []string{
				strconv.FormatFloat(profile.Times[i], 'g', -1, 64),
				strconv.FormatFloat(profile.Positions[i], 'g', -1, 64),
				strconv.FormatFloat(profile.Velocities[i], 'g', -1, 64),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
