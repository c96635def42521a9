package pkg

import (
	"time"

	"github.com/google/uuid"
)

// MessageRole describes who authored a transcript message. There are only
// two roles: the patient ("user") and the generation service ("model").
type MessageRole string

const (
	RoleUser  MessageRole = "user"
	RoleModel MessageRole = "model"
)

// MessageID identifies a single transcript message.
type MessageID string

// NewMessageID generates a new message ID.
func NewMessageID() MessageID {
	return MessageID(uuid.New().String())
}

func (x MessageID) String() string {
	return string(x)
}

// CaseID identifies one patient case from reset to reset.
type CaseID string

// NewCaseID generates a new case ID.
func NewCaseID() CaseID {
	return CaseID(uuid.New().String())
}

func (x CaseID) String() string {
	return string(x)
}

// Message is one immutable entry of a case transcript. Insertion order is
// chronological and never reordered. SyntheticWarning marks entries produced
// by the engine itself; those are rendered distinctly and never forwarded to
// the generation service.
type Message struct {
	ID               MessageID   `json:"id"`
	Role             MessageRole `json:"role"`
	Content          string      `json:"content"`
	CreatedAt        time.Time   `json:"created_at"`
	SyntheticWarning bool        `json:"synthetic_warning,omitempty"`
}

// NewMessage creates a transcript message stamped with a fresh ID.
func NewMessage(role MessageRole, content string, synthetic bool) Message {
	return Message{
		ID:               NewMessageID(),
		Role:             role,
		Content:          content,
		CreatedAt:        time.Now(),
		SyntheticWarning: synthetic,
	}
}

// RiskLevel is the ordered triage severity: low < moderate < high.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

func (x RiskLevel) String() string {
	return string(x)
}

// Severity maps the level onto its position in the total order. Unknown
// values rank below low so they can never win a merge.
func (x RiskLevel) Severity() int {
	switch x {
	case RiskLow:
		return 1
	case RiskModerate:
		return 2
	case RiskHigh:
		return 3
	}
	return 0
}

// MaxRiskLevel returns the more severe of the two levels.
func MaxRiskLevel(a, b RiskLevel) RiskLevel {
	if b.Severity() > a.Severity() {
		return b
	}
	return a
}

// RiskAssessment is the outcome of classifying one utterance. It is not
// persisted on its own; the orchestrator folds it into the session state.
type RiskAssessment struct {
	Level         RiskLevel `json:"level"`
	DetectedFlags []string  `json:"detected_flags,omitempty"`
}

// Gender is the extracted patient gender. The zero value means unknown.
type Gender string

const (
	GenderUnknown Gender = ""
	GenderMale    Gender = "Male"
	GenderFemale  Gender = "Female"
	GenderOther   Gender = "Other"
)

// Trend describes the direction of an outbreak's case count.
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendStable  Trend = "stable"
)

// OutbreakRecord is one row of the static local-outbreak surveillance table.
// Records are matched against user input, never mutated.
type OutbreakRecord struct {
	City        string    `json:"city"`
	DiseaseName string    `json:"disease_name"`
	RiskLevel   RiskLevel `json:"risk_level"`
	ActiveCases int       `json:"active_cases"`
	Trend       Trend     `json:"trend"`
}

// CaseSummary is the patient-facing snapshot of a case: demographics, the
// monotonic risk level, notable symptoms and the latest diagnosis label.
type CaseSummary struct {
	Age             string    `json:"age,omitempty"`
	Gender          Gender    `json:"gender,omitempty"`
	RiskLevel       RiskLevel `json:"risk_level"`
	KeySymptoms     []string  `json:"key_symptoms"`
	LikelyCondition string    `json:"likely_condition,omitempty"`
}

// ChartDataPoint is one bar of the dashboard datasets.
type ChartDataPoint struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// ChatRequest is the body of a patient message submission.
type ChatRequest struct {
	Content string `json:"content"`
}

// ChatResponse is returned after one completed turn.
type ChatResponse struct {
	Reply       Message     `json:"reply"`
	Warning     *Message    `json:"warning,omitempty"`
	RiskLevel   RiskLevel   `json:"risk_level"`
	Phase       string      `json:"phase"`
	Placeholder string      `json:"placeholder"`
	Summary     CaseSummary `json:"summary"`
}

// CreateCaseResponse is returned when a new case file is opened, and by the
// reset endpoint when an existing case is wiped back to its initial state.
type CreateCaseResponse struct {
	CaseID      CaseID  `json:"case_id"`
	Greeting    Message `json:"greeting"`
	Phase       string  `json:"phase"`
	Placeholder string  `json:"placeholder"`
}

// CaseSnapshot is the full read view of a case: summary plus transcript.
type CaseSnapshot struct {
	Summary    CaseSummary `json:"summary"`
	Transcript []Message   `json:"transcript"`
	Phase      string      `json:"phase"`
}
