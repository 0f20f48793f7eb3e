// Package report provides output formatters for archexpect check and
// scan results in JSON and human-readable text formats.
package report

import (
	"encoding/json"
	"io"

	"github.com/unbound-force/archexpect/internal/taxonomy"
)

// JSONReport is the top-level JSON output structure of a check.
type JSONReport struct {
	Version  string                       `json:"version"`
	Summary  taxonomy.Summary             `json:"summary"`
	Results  []taxonomy.ExpectationResult `json:"results"`
	Metadata *taxonomy.Metadata           `json:"metadata,omitempty"`
}

// ScanReport is the top-level JSON output structure of a scan.
type ScanReport struct {
	Version  string                  `json:"version"`
	Accesses []taxonomy.AccessRecord `json:"accesses"`
}

// WriteJSON writes check results as formatted JSON to the writer.
func WriteJSON(w io.Writer, results []taxonomy.ExpectationResult, version string) error {
	return WriteJSONWithMetadata(w, results, version, nil)
}

// WriteJSONWithMetadata writes check results with run metadata.
func WriteJSONWithMetadata(w io.Writer, results []taxonomy.ExpectationResult, version string, md *taxonomy.Metadata) error {
	if results == nil {
		results = []taxonomy.ExpectationResult{}
	}
	report := JSONReport{
		Version:  version,
		Summary:  taxonomy.Summarize(results),
		Results:  results,
		Metadata: md,
	}
	return encode(w, report)
}

// WriteScanJSON writes scanned accesses as formatted JSON.
func WriteScanJSON(w io.Writer, records []taxonomy.AccessRecord, version string) error {
	if records == nil {
		records = []taxonomy.AccessRecord{}
	}
	return encode(w, ScanReport{Version: version, Accesses: records})
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
