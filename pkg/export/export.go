// Package export renders solved flowsheet results for downstream tooling.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/procsim/flowsim/core/costing"
	"github.com/procsim/flowsim/core/model"
)

// Report bundles everything a solved case produces.
type Report struct {
	RunID      string           `json:"run_id"`
	Condition  string           `json:"condition"`
	Iterations int              `json:"iterations"`
	Conversion float64          `json:"conversion"`
	Cost       costing.Report   `json:"operating_cost"`
	Streams    []model.Snapshot `json:"streams"`
}

// WriteJSON writes the report to w as indented JSON.
func WriteJSON(w io.Writer, rep Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// WriteStreamsCSV writes the stream table with one row per stream.
func WriteStreamsCSV(w io.Writer, streams []model.Snapshot) error {
	cw := csv.NewWriter(w)
	header := []string{"stream", "temperature_k", "pressure_pa", "total_mol_s"}
	for _, sp := range model.AllSpecies {
		header = append(header, "flow_"+sp.String()+"_mol_s")
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, s := range streams {
		rec := []string{
			s.Name,
			formatFloat(s.TemperatureK),
			formatFloat(s.PressurePa),
			formatFloat(s.TotalMolS),
		}
		for _, sp := range model.AllSpecies {
			rec = append(rec, formatFloat(s.FlowMolS[sp.String()]))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
