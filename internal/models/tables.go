package models

// Tables bundles the tunable threshold tables consumed by the engine. They are
// read-only snapshots for the duration of an evaluation; the engine never
// caches them across calls.
type Tables struct {
	Cost   CostConfig  `json:"cost" yaml:"cost"`
	Risk   RiskConfig  `json:"risk" yaml:"risk"`
	Repeat RepeatRules `json:"repeat" yaml:"repeat"`
}

// CostConfig holds the cost-rate table for COPQ estimation. A line absent from
// DowntimeCostPerMin rates at 0; a part absent from ScrapCostByPart falls back
// to ScrapCostDefault.
type CostConfig struct {
	DowntimeCostPerMin map[string]float64 `json:"downtime_cost_per_min" yaml:"downtime_cost_per_min"`
	ScrapCostDefault   float64            `json:"scrap_cost_default" yaml:"scrap_cost_default"`
	ScrapCostByPart    map[string]float64 `json:"scrap_cost_by_part" yaml:"scrap_cost_by_part"`
}

// RiskConfig holds the escalation rules. Thresholds must be monotonically
// increasing (medium < high < critical); the engine assumes this and the
// loader enforces it. A threshold set to zero or below is disabled.
type RiskConfig struct {
	AndonAlwaysCritical bool                 `json:"andon_always_critical" yaml:"andon_always_critical"`
	CustomerRiskMap     map[string]string    `json:"customer_risk_map" yaml:"customer_risk_map"`
	COPQThresholds      CostThresholds       `json:"copq_thresholds" yaml:"copq_thresholds"`
	DefectQtyThresholds CountThresholds      `json:"defect_qty_thresholds" yaml:"defect_qty_thresholds"`
	RepeatEscalation    RepeatEscalation     `json:"repeat_offender_escalation" yaml:"repeat_offender_escalation"`
	GageCalibration     GageCalibrationRules `json:"gage_calibration_escalation" yaml:"gage_calibration_escalation"`
}

// CostThresholds are the ordered monetary escalation bands.
type CostThresholds struct {
	Medium   float64 `json:"medium" yaml:"medium"`
	High     float64 `json:"high" yaml:"high"`
	Critical float64 `json:"critical" yaml:"critical"`
}

// CountThresholds are the ordered defect-quantity escalation bands.
type CountThresholds struct {
	Medium   int `json:"medium" yaml:"medium"`
	High     int `json:"high" yaml:"high"`
	Critical int `json:"critical" yaml:"critical"`
}

// RepeatEscalation maps accumulated repeat scores onto severity bands
// (watch escalates to Medium).
type RepeatEscalation struct {
	WatchScore    int `json:"watch_score" yaml:"watch_score"`
	HighScore     int `json:"high_score" yaml:"high_score"`
	CriticalScore int `json:"critical_score" yaml:"critical_score"`
}

// GageCalibrationRules controls calibration due-status and overdue escalation.
type GageCalibrationRules struct {
	DueSoonDays           int               `json:"due_soon_days" yaml:"due_soon_days"`
	OverdueCriticalityMap map[string]string `json:"overdue_criticality_map" yaml:"overdue_criticality_map"`
}

// RepeatRules tunes the windowed repeat-offender detector.
type RepeatRules struct {
	WindowDays                   int           `json:"window_days" yaml:"window_days"`
	PartDefectRepeatThreshold    int           `json:"part_defect_repeat_threshold" yaml:"part_defect_repeat_threshold"`
	MachineDefectRepeatThreshold int           `json:"machine_defect_repeat_threshold" yaml:"machine_defect_repeat_threshold"`
	Weights                      RepeatWeights `json:"weights" yaml:"weights"`
	ScoreBands                   ScoreBands    `json:"score_bands" yaml:"score_bands"`
}

// RepeatWeights are the score contributions per repeat-match kind.
type RepeatWeights struct {
	PartDefectRepeat int `json:"part_defect_repeat" yaml:"part_defect_repeat"`
	MachineRepeat    int `json:"machine_repeat" yaml:"machine_repeat"`
}

// ScoreBands classifies an accumulated repeat score (WatchMin <= RepeatMin).
type ScoreBands struct {
	WatchMin  int `json:"watch_min" yaml:"watch_min"`
	RepeatMin int `json:"repeat_min" yaml:"repeat_min"`
}
