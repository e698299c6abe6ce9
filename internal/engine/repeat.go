package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopfloorstack/shopfloor-qre/internal/models"
	"github.com/shopfloorstack/shopfloor-qre/internal/utils"
)

// RepeatDetector scores recurring defect patterns over a lookback window.
type RepeatDetector struct{}

// NewRepeatDetector creates a repeat-offender detector.
func NewRepeatDetector() *RepeatDetector {
	return &RepeatDetector{}
}

// RepeatAnnotation is the per-record output of Detect, index-aligned with the
// input batch.
type RepeatAnnotation struct {
	Score  int
	Flag   models.RepeatFlag
	Reason string
}

type partDefectKey struct {
	part string
	code string
}

// Detect counts defect records inside the lookback window grouped by
// (part, defect code) and by machine, then scores EVERY record in the batch
// against those counts. Records outside the window still pick up the flag
// when they match a currently-trending pattern; that is intentional so older
// records surface as part of an active trend.
func (d *RepeatDetector) Detect(batch []models.Record, rules models.RepeatRules, asOf time.Time) []RepeatAnnotation {
	out := make([]RepeatAnnotation, len(batch))
	for i := range out {
		out[i].Flag = models.RepeatNone
	}
	if len(batch) == 0 {
		return out
	}

	cutoff := utils.DateOnly(asOf).AddDate(0, 0, -rules.WindowDays)

	partCounts := make(map[partDefectKey]int)
	machineCounts := make(map[string]int)
	for _, rec := range batch {
		dt, ok := utils.ParseLooseDate(rec.Date)
		if !ok || utils.DateOnly(dt).Before(cutoff) {
			continue
		}
		if !utils.TruthyFlag(rec.DefectsPresent) {
			continue
		}
		partCounts[partDefectKey{strings.TrimSpace(rec.PartNumber), strings.TrimSpace(rec.DefectCode)}]++
		machineCounts[strings.TrimSpace(rec.Machine)]++
	}

	for i, rec := range batch {
		score := 0
		var reasons []string

		part := strings.TrimSpace(rec.PartNumber)
		code := strings.TrimSpace(rec.DefectCode)
		machine := strings.TrimSpace(rec.Machine)
		defectsYes := utils.TruthyFlag(rec.DefectsPresent)

		if defectsYes && part != "" && code != "" {
			if cnt := partCounts[partDefectKey{part, code}]; cnt >= rules.PartDefectRepeatThreshold {
				score += rules.Weights.PartDefectRepeat
				reasons = append(reasons, fmt.Sprintf("Part+Defect repeats (%d in %dd)", cnt, rules.WindowDays))
			}
		}
		if defectsYes && machine != "" {
			if cnt := machineCounts[machine]; cnt >= rules.MachineDefectRepeatThreshold {
				score += rules.Weights.MachineRepeat
				reasons = append(reasons, fmt.Sprintf("Machine repeat defects (%d in %dd)", cnt, rules.WindowDays))
			}
		}

		flag := models.RepeatNone
		switch {
		case score >= rules.ScoreBands.RepeatMin:
			flag = models.RepeatRepeat
		case score >= rules.ScoreBands.WatchMin:
			flag = models.RepeatWatch
		}

		out[i] = RepeatAnnotation{
			Score:  score,
			Flag:   flag,
			Reason: strings.Join(reasons, "; "),
		}
	}

	return out
}

// RepeatGroup is one aggregate row of the repeat-offender summary.
type RepeatGroup struct {
	Key          string  `json:"key"`
	SecondaryKey string  `json:"secondary_key,omitempty"`
	Count        int     `json:"count"`
	DefectQty    int     `json:"defect_qty"`
	DowntimeMins float64 `json:"downtime_mins"`
	COPQ         float64 `json:"copq"`

	score float64
}

// RepeatSummary aggregates defect activity inside the lookback window,
// rank-ordered by a weighted emphasis score per dimension.
type RepeatSummary struct {
	WindowDays int           `json:"window_days"`
	MinCount   int           `json:"min_count"`
	PartDefect []RepeatGroup `json:"part_defect"`
	Machines   []RepeatGroup `json:"machines"`
	Tools      []RepeatGroup `json:"tools"`
}

const summaryGroupLimit = 50

// Summarize builds the supervisor-facing repeat-offender tables: part+defect
// and machine groups over defect records, tool groups over all records in the
// window. Groups below minCount (floored at 2) are dropped. copq maps record
// ids to the estimated COPQ of each record; missing ids contribute 0.
func (d *RepeatDetector) Summarize(batch []models.Record, rules models.RepeatRules, copq map[string]float64, minCount int, asOf time.Time) RepeatSummary {
	if minCount < 2 {
		minCount = 2
	}
	summary := RepeatSummary{WindowDays: rules.WindowDays, MinCount: minCount}

	cutoff := utils.DateOnly(asOf).AddDate(0, 0, -rules.WindowDays)

	partGroups := make(map[partDefectKey]*RepeatGroup)
	machineGroups := make(map[string]*RepeatGroup)
	toolGroups := make(map[string]*RepeatGroup)

	for _, rec := range batch {
		dt, ok := utils.ParseLooseDate(rec.Date)
		if !ok || utils.DateOnly(dt).Before(cutoff) {
			continue
		}

		qty := utils.SafeInt(rec.DefectQty, 0)
		mins := utils.SafeFloat(rec.DowntimeMins, 0)
		cost := copq[rec.ID]

		tool := blankKey(rec.ToolNum)
		tg, ok := toolGroups[tool]
		if !ok {
			tg = &RepeatGroup{Key: tool}
			toolGroups[tool] = tg
		}
		accumulate(tg, qty, mins, cost)

		if !utils.TruthyFlag(rec.DefectsPresent) {
			continue
		}

		pk := partDefectKey{blankKey(rec.PartNumber), blankKey(rec.DefectCode)}
		pg, ok := partGroups[pk]
		if !ok {
			pg = &RepeatGroup{Key: pk.part, SecondaryKey: pk.code}
			partGroups[pk] = pg
		}
		accumulate(pg, qty, mins, cost)

		machine := blankKey(rec.Machine)
		mg, ok := machineGroups[machine]
		if !ok {
			mg = &RepeatGroup{Key: machine}
			machineGroups[machine] = mg
		}
		accumulate(mg, qty, mins, cost)
	}

	summary.PartDefect = rankGroups(partGroups, minCount, func(g *RepeatGroup) float64 {
		return float64(g.Count)*5 + float64(g.DefectQty)*2 + g.DowntimeMins*0.5 + g.COPQ*0.01
	})
	summary.Machines = rankGroups(machineGroups, minCount, func(g *RepeatGroup) float64 {
		return float64(g.Count)*4 + float64(g.DefectQty)*1.5 + g.DowntimeMins*0.5 + g.COPQ*0.01
	})
	summary.Tools = rankGroups(toolGroups, minCount, func(g *RepeatGroup) float64 {
		return float64(g.Count)*3 + float64(g.DefectQty)*1.0 + g.DowntimeMins*0.4 + g.COPQ*0.02
	})

	return summary
}

func accumulate(g *RepeatGroup, qty int, mins, cost float64) {
	g.Count++
	g.DefectQty += qty
	g.DowntimeMins += mins
	g.COPQ += cost
}

func blankKey(s string) string {
	if t := strings.TrimSpace(s); t != "" {
		return t
	}
	return "(blank)"
}

func rankGroups[K comparable](groups map[K]*RepeatGroup, minCount int, score func(*RepeatGroup) float64) []RepeatGroup {
	ranked := make([]RepeatGroup, 0, len(groups))
	for _, g := range groups {
		if g.Count < minCount {
			continue
		}
		g.score = score(g)
		ranked = append(ranked, *g)
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > summaryGroupLimit {
		ranked = ranked[:summaryGroupLimit]
	}
	return ranked
}
