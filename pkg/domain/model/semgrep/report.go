package semgrep

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
)

// Report is the JSON document every supported tool writes to stdout with --json.
type Report struct {
	Results []Result `json:"results"`
	Errors  []Error  `json:"errors,omitempty"`
	Paths   Paths    `json:"paths"`
	Version string   `json:"version,omitempty"`
}

type Result struct {
	CheckID string   `json:"check_id"`
	Path    string   `json:"path"`
	Start   Position `json:"start"`
	End     Position `json:"end"`
	Extra   Extra    `json:"extra"`
}

type Position struct {
	Line   int `json:"line"`
	Col    int `json:"col"`
	Offset int `json:"offset,omitempty"`
}

type Extra struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Lines    string `json:"lines"`
	// Metadata is decoded lazily so that one malformed rule cannot spoil the whole report.
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

type Paths struct {
	Scanned []string `json:"scanned"`
	Skipped []any    `json:"skipped,omitempty"`
}

type Error struct {
	Code    int    `json:"code"`
	Level   string `json:"level"`
	Type    any    `json:"type"`
	Message string `json:"message"`
}

// Metadata is the rule metadata shape. Technology is accepted as a string or a list.
type Metadata struct {
	Category     string     `json:"category"`
	Technology   StringList `json:"technology"`
	Algorithm    string     `json:"algorithm"`
	Library      string     `json:"library"`
	KeySize      int        `json:"key_size"`
	NISTStandard string     `json:"nist_standard"`
}

type StringList []string

func (x *StringList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if one != "" {
			*x = StringList{one}
		}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return goerr.Wrap(err, "technology must be a string or a list of strings")
	}
	*x = many
	return nil
}

// Parse decodes raw tool output. Output without a results field is rejected: it is most
// likely an error document, not a scan result.
func Parse(data []byte) (*Report, error) {
	var probe struct {
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, goerr.Wrap(types.ErrTool, "failed to decode tool output", goerr.V("error", err.Error()))
	}
	if len(probe.Results) == 0 || string(probe.Results) == "null" {
		return nil, goerr.Wrap(types.ErrTool, "tool output has no results field")
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, goerr.Wrap(types.ErrTool, "failed to decode tool output", goerr.V("error", err.Error()))
	}
	return &report, nil
}

// DecodeMetadata decodes the raw metadata of a result. Empty metadata yields zero values.
func (x *Result) DecodeMetadata() (*Metadata, error) {
	var meta Metadata
	if len(x.Extra.Metadata) == 0 || string(x.Extra.Metadata) == "null" {
		return &meta, nil
	}
	if err := json.Unmarshal(x.Extra.Metadata, &meta); err != nil {
		return nil, goerr.Wrap(types.ErrClassification, "malformed rule metadata",
			goerr.V("check_id", x.CheckID),
			goerr.V("path", x.Path),
			goerr.V("error", err.Error()),
		)
	}
	return &meta, nil
}

// RelativizePaths rewrites result and scanned paths relative to root. Paths outside root are
// left untouched.
func (x *Report) RelativizePaths(root string) {
	for i := range x.Results {
		x.Results[i].Path = relPath(root, x.Results[i].Path)
	}
	for i := range x.Paths.Scanned {
		x.Paths.Scanned[i] = relPath(root, x.Paths.Scanned[i])
	}
}

func relPath(root, path string) string {
	if root == "" || !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
