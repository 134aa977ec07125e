package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pqscan/pkg/domain/model"
	"github.com/m-mizutani/pqscan/pkg/domain/model/semgrep"
	"github.com/m-mizutani/pqscan/pkg/domain/types"
	"github.com/m-mizutani/pqscan/pkg/utils/logging"
)

// Keys are upper-cased tool severities. semgrep and opengrep rules only emit ERROR, WARNING
// and INFO, so ERROR is their top level.
var severityTables = map[types.ToolName]map[string]types.Severity{
	types.ToolSemgrep: {
		"ERROR":      types.SeverityCritical,
		"WARNING":    types.SeverityMedium,
		"INFO":       types.SeverityLow,
		"INVENTORY":  types.SeverityInfo,
		"EXPERIMENT": types.SeverityInfo,
		"CRITICAL":   types.SeverityCritical,
		"HIGH":       types.SeverityHigh,
		"MEDIUM":     types.SeverityMedium,
		"LOW":        types.SeverityLow,
	},
	types.ToolOpengrep: {
		"ERROR":      types.SeverityCritical,
		"WARNING":    types.SeverityMedium,
		"INFO":       types.SeverityLow,
		"INVENTORY":  types.SeverityInfo,
		"EXPERIMENT": types.SeverityInfo,
	},
	types.ToolCryptoScan: {
		"CRITICAL": types.SeverityCritical,
		"HIGH":     types.SeverityHigh,
		"MEDIUM":   types.SeverityMedium,
		"LOW":      types.SeverityLow,
		"INFO":     types.SeverityInfo,
	},
}

var fallbackSeverityTable = map[string]types.Severity{
	"CRITICAL": types.SeverityCritical,
	"ERROR":    types.SeverityHigh,
	"HIGH":     types.SeverityHigh,
	"WARNING":  types.SeverityMedium,
	"MEDIUM":   types.SeverityMedium,
	"LOW":      types.SeverityLow,
	"INFO":     types.SeverityInfo,
}

// Unrecognized severities are reported loud rather than dropped.
const unknownSeverity = types.SeverityHigh

const defaultCategory = "security"

var categorySynonyms = map[string]string{
	"crypto":         "cryptography",
	"cryptographic":  "cryptography",
	"sec":            "security",
	"vuln":           "security",
	"vulnerability":  "security",
	"best_practice":  "best-practice",
	"bestpractice":   "best-practice",
	"best-practices": "best-practice",
	"perf":           "performance",
}

func normalizeSeverity(tool types.ToolName, severity string) types.Severity {
	table, ok := severityTables[tool]
	if !ok {
		table = fallbackSeverityTable
	}
	if s, ok := table[strings.ToUpper(strings.TrimSpace(severity))]; ok {
		return s
	}
	return unknownSeverity
}

func normalizeCategory(category string) string {
	c := strings.ToLower(strings.TrimSpace(category))
	if c == "" {
		return defaultCategory
	}
	if folded, ok := categorySynonyms[c]; ok {
		return folded
	}
	return c
}

func pqcCategory(f *model.Finding) types.PQCCategory {
	if alg, ok := findingAlgorithm(f); ok {
		return alg.Safety.PQCCategory()
	}
	return types.PQCNotApplicable
}

// NormalizeFindings converts one tool report into findings. Results with malformed metadata
// are kept without metadata.
func NormalizeFindings(ctx context.Context, report *semgrep.Report, tool types.ToolName) ([]*model.Finding, error) {
	if report == nil {
		return nil, goerr.Wrap(types.ErrTool, "tool report is nil", goerr.V("tool", tool))
	}

	findings := make([]*model.Finding, 0, len(report.Results))
	for i := range report.Results {
		result := &report.Results[i]

		f := &model.Finding{
			Tool:      tool,
			RuleID:    result.CheckID,
			Severity:  normalizeSeverity(tool, result.Extra.Severity),
			Message:   result.Extra.Message,
			Path:      result.Path,
			StartLine: result.Start.Line,
			StartCol:  result.Start.Col,
			EndLine:   result.End.Line,
			EndCol:    result.End.Col,
			Snippet:   result.Extra.Lines,
			Category:  defaultCategory,
		}

		meta, err := result.DecodeMetadata()
		if err != nil {
			logging.From(ctx).Warn("skip malformed rule metadata", "error", err, "tool", tool)
		} else {
			f.Category = normalizeCategory(meta.Category)
			f.Metadata = model.FindingMetadata{
				Algorithm:    strings.TrimSpace(meta.Algorithm),
				Library:      meta.Library,
				KeySize:      meta.KeySize,
				NISTStandard: meta.NISTStandard,
				Technology:   []string(meta.Technology),
			}
		}

		f.PQCCategory = pqcCategory(f)
		findings = append(findings, f)
	}

	return findings, nil
}
