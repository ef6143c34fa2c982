package types

import "time"

// IssueType categorizes a reported documentation issue.
type IssueType string

const (
	IssueBrokenExample      IssueType = "broken_example"
	IssueIncorrectSignature IssueType = "incorrect_signature"
	IssueUnclearDocs        IssueType = "unclear_docs"
	IssueMissingInfo        IssueType = "missing_info"
	IssueOther              IssueType = "other"
)

// ValidIssueType reports whether t is a known issue type.
func ValidIssueType(t string) bool {
	switch IssueType(t) {
	case IssueBrokenExample, IssueIncorrectSignature, IssueUnclearDocs, IssueMissingInfo, IssueOther:
		return true
	}
	return false
}

// Severity grades how badly an issue affects users.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// ValidSeverity reports whether s is a known severity.
func ValidSeverity(s string) bool {
	switch Severity(s) {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
		return true
	}
	return false
}

// IssueStatus is the lifecycle state of an issue.
type IssueStatus string

const (
	StatusOpen     IssueStatus = "open"
	StatusResolved IssueStatus = "resolved"
)

// FeedbackIssue is a single user-reported documentation issue. Records are
// append-only: a status change is a new record carrying the same
// CorrelationID, never an in-place mutation of a prior record.
type FeedbackIssue struct {
	IssueID       string      `json:"issue_id"`
	CorrelationID string      `json:"correlation_id"`
	Timestamp     time.Time   `json:"timestamp"`
	Type          IssueType   `json:"issue_type"`
	Description   string      `json:"description"`
	APIID         string      `json:"api_id,omitempty"`
	ExampleID     string      `json:"example_id,omitempty"`
	Severity      Severity    `json:"severity"`
	Status        IssueStatus `json:"status"`
}

// Validate checks the issue's enum fields and required content.
func (i *FeedbackIssue) Validate() error {
	if i.Description == "" {
		return ErrEmptyDescription
	}
	if !ValidIssueType(string(i.Type)) {
		return ErrInvalidIssueType
	}
	if !ValidSeverity(string(i.Severity)) {
		return ErrInvalidSeverity
	}
	if i.Status != StatusOpen && i.Status != StatusResolved {
		return ErrInvalidStatus
	}
	return nil
}
