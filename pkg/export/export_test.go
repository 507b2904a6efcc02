package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/procsim/flowsim/core/costing"
	"github.com/procsim/flowsim/core/model"
)

func sampleStreams() []model.Snapshot {
	s := model.NewStream("product")
	s.Flow[model.CH3OH].Set(250)
	s.Flow[model.CO].Set(66.8)
	s.Flow[model.H2].Set(137.2)
	s.Flow[model.CH4].Set(0)
	s.T.Set(488.15)
	s.P.Set(50.3e5)
	return []model.Snapshot{s.Snapshot()}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	rep := Report{
		RunID:      "run-1",
		Condition:  "optimal",
		Iterations: 6,
		Conversion: 0.79,
		Cost:       costing.Report{Heating: 1, Cooling: 2, Electricity: 3, Total: 6},
		Streams:    sampleStreams(),
	}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, rep); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var got Report
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.RunID != "run-1" || got.Condition != "optimal" || got.Conversion != 0.79 {
		t.Fatalf("round trip header = %+v", got)
	}
	if got.Cost.Total != 6 {
		t.Fatalf("cost total = %g", got.Cost.Total)
	}
	if len(got.Streams) != 1 || got.Streams[0].FlowMolS["CH3OH"] != 250 {
		t.Fatalf("streams = %+v", got.Streams)
	}
}

func TestWriteStreamsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteStreamsCSV(&buf, sampleStreams()); err != nil {
		t.Fatalf("WriteStreamsCSV: %v", err)
	}
	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header + 1", len(rows))
	}
	if rows[0][0] != "stream" || rows[1][0] != "product" {
		t.Fatalf("rows = %v", rows)
	}
	if len(rows[0]) != 4+model.NumSpecies {
		t.Fatalf("columns = %d", len(rows[0]))
	}
}
