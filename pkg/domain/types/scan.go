package types

import (
	"log/slog"

	"github.com/google/uuid"
)

type (
	ScanJobID      string
	ReportID       string
	RequestID      string
	ExternalScanID string
	ToolName       string
)

func NewScanJobID() ScanJobID { return ScanJobID(uuid.NewString()) }
func (x ScanJobID) String() string { return string(x) }

func NewReportID() ReportID { return ReportID(uuid.NewString()) }

// LocalReportID is the fixed ID of a job's own report, so that a re-run overwrites it.
func LocalReportID(id ScanJobID) ReportID { return ReportID(id.String() + "-local") }
func (x ReportID) String() string { return string(x) }

func NewRequestID() RequestID { return RequestID(uuid.NewString()) }
func (x RequestID) String() string { return string(x) }

func (x ExternalScanID) String() string { return string(x) }

const (
	ToolSemgrep    ToolName = "semgrep"
	ToolOpengrep   ToolName = "opengrep"
	ToolCryptoScan ToolName = "cryptoscan"
)

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Terminal reports whether no further transition is allowed from the status.
func (x JobStatus) Terminal() bool {
	return x == JobStatusCompleted || x == JobStatusFailed
}

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

type PQCCategory string

const (
	PQCQuantumVulnerable PQCCategory = "quantum_vulnerable"
	PQCQuantumSafe       PQCCategory = "quantum_safe"
	PQCQuantumUnknown    PQCCategory = "quantum_unknown"
	PQCNotApplicable     PQCCategory = "not_applicable"
)

// QuantumSafety is a tri-state. Unknown is a real state and must never be read as safe or
// vulnerable.
type QuantumSafety string

const (
	QuantumSafe       QuantumSafety = "safe"
	QuantumVulnerable QuantumSafety = "vulnerable"
	QuantumUnknown    QuantumSafety = "unknown"
)

// PQCCategory maps the safety state onto the finding category vocabulary.
func (x QuantumSafety) PQCCategory() PQCCategory {
	switch x {
	case QuantumSafe:
		return PQCQuantumSafe
	case QuantumVulnerable:
		return PQCQuantumVulnerable
	default:
		return PQCQuantumUnknown
	}
}

type Primitive string

const (
	PrimitiveSignature    Primitive = "digital-signature"
	PrimitiveKeyAgreement Primitive = "key-agreement"
	PrimitiveKEM          Primitive = "key-encapsulation"
	PrimitivePKE          Primitive = "public-key-encryption"
	PrimitiveHash         Primitive = "hash"
	PrimitiveXOF          Primitive = "xof"
	PrimitiveSymmetric    Primitive = "symmetric"
	PrimitiveUnknown      Primitive = "unknown"
)

type Verdict string

const (
	VerdictCompliant    Verdict = "compliant"
	VerdictPartial      Verdict = "partial"
	VerdictNotCompliant Verdict = "not_compliant"
)

type ReportSource string

const (
	ReportSourceLocal    ReportSource = "local"
	ReportSourceExternal ReportSource = "external"
)

type ExternalScanStatus string

const (
	ExternalScanQueued    ExternalScanStatus = "QUEUED"
	ExternalScanRunning   ExternalScanStatus = "RUNNING"
	ExternalScanCompleted ExternalScanStatus = "COMPLETED"
	ExternalScanFailed    ExternalScanStatus = "FAILED"
)

type IntegrationAPIKey string

func (x IntegrationAPIKey) LogValue() slog.Value {
	return slog.StringValue("***********")
}

func (x IntegrationAPIKey) String() string {
	return "***********"
}

type PolicyName string

const (
	// PolicyPercentage grades by the share of quantum-safe assets.
	PolicyPercentage PolicyName = "percentage"
	// PolicyVulnerabilityCount grades by the number of quantum-vulnerable assets.
	PolicyVulnerabilityCount PolicyName = "vulnerability-count"
)
