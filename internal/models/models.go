// Package models defines the core data structures used throughout the application.
package models

import (
	"strings"
	"time"
)

// StockStatus is the normalized availability state claimed for a product.
type StockStatus string

const (
	StockInStock    StockStatus = "in_stock"
	StockOutOfStock StockStatus = "out_of_stock"
	StockPreorder   StockStatus = "preorder"
	StockBackorder  StockStatus = "backorder"
)

// PricePolicy is the normalized pricing stance found in policy text.
type PricePolicy string

const (
	PolicyPriceChange    PricePolicy = "price_change"
	PolicyPriceGuarantee PricePolicy = "price_guarantee"
	PolicyPriceMatch     PricePolicy = "price_match"
)

// FactSet is the normalized representation of either product-page claims or
// merchant policy terms. Every field is a pointer: nil means "no textual
// evidence found", which is distinct from a found negative value such as
// *ReturnsAllowed == false.
type FactSet struct {
	ReturnsDays      *int         `json:"returns_days,omitempty"`
	ReturnsAllowed   *bool        `json:"returns_allowed,omitempty"`
	WarrantyMonths   *int         `json:"warranty_months,omitempty"`
	WarrantyProvided *bool        `json:"warranty_provided,omitempty"`
	StockStatus      *StockStatus `json:"stock_status,omitempty"`
	PriceValue       *float64     `json:"price_value,omitempty"`
	PriceGuarantee   *bool        `json:"price_guarantee,omitempty"`
	PricePolicy      *PricePolicy `json:"price_policy,omitempty"`
	StockWarning     *bool        `json:"stock_warning,omitempty"`
}

// Empty reports whether no field carries a value.
func (f FactSet) Empty() bool {
	return f.ReturnsDays == nil && f.ReturnsAllowed == nil &&
		f.WarrantyMonths == nil && f.WarrantyProvided == nil &&
		f.StockStatus == nil && f.PriceValue == nil &&
		f.PriceGuarantee == nil && f.PricePolicy == nil &&
		f.StockWarning == nil
}

// Pointer constructors for optional fields.
func Int(v int) *int                     { return &v }
func Bool(v bool) *bool                  { return &v }
func Float(v float64) *float64           { return &v }
func Stock(v StockStatus) *StockStatus   { return &v }
func Pricing(v PricePolicy) *PricePolicy { return &v }
func String(v string) *string            { return &v }

// Flag is a named signal indicating a detected conflict or data gap.
type Flag string

const (
	FlagReturnsConflict  Flag = "returns_conflict"
	FlagWarrantyConflict Flag = "warranty_conflict"
	FlagStockConflict    Flag = "stock_conflict"
	FlagPriceConflict    Flag = "price_conflict"
	FlagUnclear          Flag = "unclear"
	FlagInvalidURL       Flag = "invalid_url"
	FlagAnalysisFailed   Flag = "analysis_failed"
	FlagDevOnly          Flag = "dev_only"
)

// IsConflict reports whether the flag marks a hard contradiction.
func (f Flag) IsConflict() bool {
	return strings.HasSuffix(string(f), "_conflict")
}

// Verdict is the single aggregate outcome derived from a flag set.
type Verdict string

const (
	VerdictGood    Verdict = "good"
	VerdictCaution Verdict = "caution"
	VerdictRisk    Verdict = "risk"
	VerdictUnclear Verdict = "unclear"
)

// VerdictFor derives the verdict from a flag set. Priority order: any
// conflict flag wins, then unclear, then any remaining flag, then good.
func VerdictFor(flags []Flag) Verdict {
	hasUnclear := false
	for _, f := range flags {
		if f.IsConflict() {
			return VerdictRisk
		}
		if f == FlagUnclear {
			hasUnclear = true
		}
	}
	if hasUnclear {
		return VerdictUnclear
	}
	if len(flags) > 0 {
		return VerdictCaution
	}
	return VerdictGood
}

// Step statuses for the pipeline trace.
const (
	StepDone   = "done"
	StepFailed = "failed"
)

// TraceStep records one pipeline stage's outcome. Detail is populated only
// on failure.
type TraceStep struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	DurationMs int64  `json:"duration_ms"`
	Detail     string `json:"detail,omitempty"`
}

// Policy presence markers used by Insight and Details.
const (
	PolicyPresent = "present"
	PolicyMissing = "missing"
)

// Insight is the narrative summary produced when no contradiction fired.
type Insight struct {
	Message      string   `json:"message"`
	Summary      string   `json:"summary"`
	Pros         []string `json:"pros"`
	Cons         []string `json:"cons"`
	PolicyStatus string   `json:"policy_status"`
}

// Details carries product-facing listing information for the UI.
type Details struct {
	Name           string   `json:"name"`
	Price          *string  `json:"price"`
	Description    string   `json:"description,omitempty"`
	Flags          []string `json:"flags"`
	HiddenFindings []string `json:"hidden_findings"`
	PolicyStatus   string   `json:"policy_status"`
}

// AnalyzeResult is the orchestrator's sole output. It is always complete
// and schema-valid, including for terminal failure outcomes.
type AnalyzeResult struct {
	Verdict      Verdict     `json:"verdict"`
	Flags        []Flag      `json:"flags"`
	Explanations []string    `json:"explanations"`
	ProcessingMs int64       `json:"processing_ms"`
	Steps        []TraceStep `json:"steps"`
	Insight      *Insight    `json:"insight"`
	Details      Details     `json:"details"`
	PreviewImage *string     `json:"preview_image"`
}

// Event is one entry on the streaming progress feed. The final event of a
// stream carries the full result.
type Event struct {
	Event   string         `json:"event"`
	Message string         `json:"message,omitempty"`
	At      time.Time      `json:"at"`
	Result  *AnalyzeResult `json:"result,omitempty"`
}

// Event names emitted by the orchestrator and the streaming handler.
const (
	EventRetrieving = "retrieving"
	EventHeartbeat  = "heartbeat"
	EventExtracting = "extracting"
	EventDetecting  = "detecting"
	EventFinalizing = "finalizing"
	EventDone       = "done"
)

// AnalyzeRequest is the request body for the analyze endpoint.
type AnalyzeRequest struct {
	URL string `json:"url"`
}

// APIKey represents an API key for authentication.
type APIKey struct {
	ID                string     `json:"id"`
	KeyHash           string     `json:"-"` // Never expose
	Name              string     `json:"name"`
	RequestsPerMinute int        `json:"requests_per_minute"`
	CreatedAt         time.Time  `json:"created_at"`
	LastUsedAt        *time.Time `json:"last_used_at,omitempty"`
}

// AuditLog represents an API request audit entry.
type AuditLog struct {
	ID           string    `json:"id"`
	APIKeyID     string    `json:"api_key_id"`
	Endpoint     string    `json:"endpoint"`
	Method       string    `json:"method"`
	RequestSize  int64     `json:"request_size"`
	ResponseCode int       `json:"response_code"`
	DurationMs   int64     `json:"duration_ms"`
	Timestamp    time.Time `json:"timestamp"`
}
