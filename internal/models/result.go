package models

import "time"

// CalibrationState enumerates gage due-status outcomes.
type CalibrationState string

const (
	CalibrationUnknown CalibrationState = "Unknown"
	CalibrationOK      CalibrationState = "OK"
	CalibrationDueSoon CalibrationState = "Due Soon"
	CalibrationOverdue CalibrationState = "Overdue"
)

// CalibrationStatus is the due-status computed for one gage. DaysUntilDue is
// nil when the status is Unknown (absent or unparsable calibration metadata).
type CalibrationStatus struct {
	GageID       string           `json:"gage_id"`
	NextDueDate  string           `json:"next_due_date"`
	DaysUntilDue *int             `json:"days_until_due"`
	Status       CalibrationState `json:"status"`
}

// RepeatFlag classifies a record's accumulated repeat score.
type RepeatFlag string

const (
	RepeatNone   RepeatFlag = "None"
	RepeatWatch  RepeatFlag = "Watch"
	RepeatRepeat RepeatFlag = "Repeat"
)

// Assessment carries the fields the engine derives for one record. Input
// records are immutable; assessments are index-aligned with the input batch.
type Assessment struct {
	RecordID string `json:"record_id"`

	DowntimeCost float64 `json:"downtime_cost"`
	ScrapCost    float64 `json:"scrap_cost"`
	COPQ         float64 `json:"copq"`

	RepeatScore  int        `json:"repeat_score"`
	RepeatFlag   RepeatFlag `json:"repeat_flag"`
	RepeatReason string     `json:"repeat_reason,omitempty"`

	Severity Severity `json:"severity"`
	Reasons  []string `json:"reasons,omitempty"`
}

// AlertType tags the rule family that produced an alert.
type AlertType string

const (
	AlertAndon       AlertType = "Andon"
	AlertRisk        AlertType = "Risk"
	AlertCOPQ        AlertType = "COPQ"
	AlertCalibration AlertType = "Calibration"
)

// Alert is one operator/manager notification. Related points back to the
// originating record or gage by id; it is a lookup reference, never an owning
// one.
type Alert struct {
	ID        string            `json:"id"`
	Severity  Severity          `json:"severity"`
	Type      AlertType         `json:"type"`
	Title     string            `json:"title"`
	Details   string            `json:"details"`
	Related   map[string]string `json:"related,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// IssueCategory groups health-check findings for filtering.
type IssueCategory string

const (
	IssueMissingField    IssueCategory = "Missing Field"
	IssueDefectsLogic    IssueCategory = "Defects Logic"
	IssueDefectClass     IssueCategory = "Defect Classification"
	IssueQCWorkflow      IssueCategory = "QC Workflow"
	IssueNCR             IssueCategory = "NCR"
	IssueActions         IssueCategory = "Actions"
	IssueGageCalibration IssueCategory = "Gage Calibration"
)

// HealthIssue flags a structurally or logically inconsistent record.
type HealthIssue struct {
	Severity   Severity      `json:"severity"`
	EntryID    string        `json:"entry_id"`
	Category   IssueCategory `json:"category"`
	Issue      string        `json:"issue"`
	Suggestion string        `json:"suggestion"`
}

// Evaluation is the complete output of one engine invocation over a batch.
type Evaluation struct {
	AsOf         time.Time           `json:"as_of"`
	Assessments  []Assessment        `json:"assessments"`
	GageStatuses []CalibrationStatus `json:"gage_statuses"`
	Alerts       []Alert             `json:"alerts"`
	Issues       []HealthIssue       `json:"issues"`
}
