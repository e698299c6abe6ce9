package models

// Record is one production/inspection event as captured on the shop floor.
// Capture fields arrive as strings (forms and spreadsheet exports do not
// guarantee types); the engine resolves them through the coercion helpers and
// never mutates a Record.
type Record struct {
	ID   string `json:"id" yaml:"id"`
	Date string `json:"date" yaml:"date"`
	Time string `json:"time,omitempty" yaml:"time,omitempty"`

	Line    string `json:"line" yaml:"line"`
	Machine string `json:"machine" yaml:"machine"`
	ToolNum string `json:"tool_num" yaml:"tool_num"`

	PartNumber string `json:"part_number" yaml:"part_number"`
	Reason     string `json:"reason" yaml:"reason"`

	DowntimeMins   string `json:"downtime_mins" yaml:"downtime_mins"`
	DefectsPresent string `json:"defects_present" yaml:"defects_present"`
	DefectQty      string `json:"defect_qty" yaml:"defect_qty"`
	DefectCode     string `json:"defect_code" yaml:"defect_code"`

	AndonFlag    string `json:"andon_flag" yaml:"andon_flag"`
	CustomerRisk string `json:"customer_risk" yaml:"customer_risk"`

	// QC/NCR/action workflow fields are escalation inputs only.
	QCStatus    string `json:"qc_status,omitempty" yaml:"qc_status,omitempty"`
	QualityUser string `json:"quality_user,omitempty" yaml:"quality_user,omitempty"`
	QualityTime string `json:"quality_time,omitempty" yaml:"quality_time,omitempty"`

	NCRID        string `json:"ncr_id,omitempty" yaml:"ncr_id,omitempty"`
	NCRStatus    string `json:"ncr_status,omitempty" yaml:"ncr_status,omitempty"`
	NCRCloseDate string `json:"ncr_close_date,omitempty" yaml:"ncr_close_date,omitempty"`

	ActionStatus  string `json:"action_status,omitempty" yaml:"action_status,omitempty"`
	ActionDueDate string `json:"action_due_date,omitempty" yaml:"action_due_date,omitempty"`

	GageUsed string `json:"gage_used,omitempty" yaml:"gage_used,omitempty"`
}

// Gage is a measurement instrument subject to periodic calibration.
type Gage struct {
	GageID                   string `json:"gage_id" yaml:"gage_id"`
	Name                     string `json:"name" yaml:"name"`
	Type                     string `json:"type,omitempty" yaml:"type,omitempty"`
	Line                     string `json:"line,omitempty" yaml:"line,omitempty"`
	LastCalibrationDate      string `json:"last_calibration_date" yaml:"last_calibration_date"`
	CalibrationFrequencyDays int    `json:"calibration_frequency_days" yaml:"calibration_frequency_days"`
	Criticality              string `json:"criticality" yaml:"criticality"`
}
