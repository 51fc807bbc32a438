package output

import (
	"github.com/mt-inside/url-canonicalize/pkg/batch"
	"github.com/mt-inside/url-canonicalize/pkg/state"
)

// Row is the flat, serialisable view of one batch.Record.
type Row struct {
	Input  string `json:"input" yaml:"input"`
	Kind   string `json:"kind" yaml:"kind"`
	URL    string `json:"url,omitempty" yaml:"url,omitempty"`
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
	Status int    `json:"status,omitempty" yaml:"status,omitempty"`
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

func RowFromRecord(rec batch.Record) Row {
	row := Row{
		Input: rec.Input,
		Kind:  rec.Result.Kind().String(),
		URL:   rec.Result.URL(),
	}

	switch r := rec.Result.(type) {
	case state.CanonicalFound:
		row.Source = r.Source.String()
	case state.Redirect:
		row.Status = r.StatusCode
	case state.Unresolved:
		row.Status = r.StatusCode
		row.Reason = r.Reason.String()
		if r.Err != nil {
			row.Error = r.Err.Error()
		}
	}

	return row
}
