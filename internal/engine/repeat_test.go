package engine

import (
	"strings"
	"testing"

	"github.com/shopfloorstack/shopfloor-qre/internal/models"
)

func defectRecord(id, date, part, code, machine string) models.Record {
	return models.Record{
		ID:             id,
		Date:           date,
		PartNumber:     part,
		DefectCode:     code,
		Machine:        machine,
		DefectsPresent: "Yes",
		DefectQty:      "2",
	}
}

func TestDetectPartDefectRepeat(t *testing.T) {
	d := NewRepeatDetector()
	rules := testTables().Repeat

	batch := []models.Record{
		defectRecord("R1", "2024-03-10", "P1", "D1", "M1"),
		defectRecord("R2", "2024-03-11", "P1", "D1", "M2"),
		defectRecord("R3", "2024-03-12", "P1", "D1", "M3"),
		defectRecord("R4", "2024-03-13", "P1", "D1", "M4"),
	}
	got := d.Detect(batch, rules, asOfDay(2024, 3, 14))

	for i, ann := range got {
		if ann.Score != 40 {
			t.Errorf("record %d: score = %d, want 40", i, ann.Score)
		}
		if ann.Flag != models.RepeatWatch {
			t.Errorf("record %d: flag = %s, want Watch", i, ann.Flag)
		}
		if !strings.Contains(ann.Reason, "Part+Defect repeats (4 in 7d)") {
			t.Errorf("record %d: reason = %q", i, ann.Reason)
		}
	}
}

func TestDetectBelowThreshold(t *testing.T) {
	d := NewRepeatDetector()
	rules := testTables().Repeat

	batch := []models.Record{
		defectRecord("R1", "2024-03-12", "P1", "D1", "M1"),
		defectRecord("R2", "2024-03-13", "P1", "D1", "M2"),
	}
	got := d.Detect(batch, rules, asOfDay(2024, 3, 14))

	for i, ann := range got {
		if ann.Score != 0 || ann.Flag != models.RepeatNone {
			t.Errorf("record %d: score=%d flag=%s, want 0/None", i, ann.Score, ann.Flag)
		}
	}
}

func TestDetectMachineRepeatStacks(t *testing.T) {
	d := NewRepeatDetector()
	rules := testTables().Repeat

	// Five defect records on M1 with three sharing a part+code: those three
	// score both dimensions.
	batch := []models.Record{
		defectRecord("R1", "2024-03-10", "P1", "D1", "M1"),
		defectRecord("R2", "2024-03-11", "P1", "D1", "M1"),
		defectRecord("R3", "2024-03-12", "P1", "D1", "M1"),
		defectRecord("R4", "2024-03-13", "P2", "D2", "M1"),
		defectRecord("R5", "2024-03-13", "P3", "D3", "M1"),
	}
	got := d.Detect(batch, rules, asOfDay(2024, 3, 14))

	for i := 0; i < 3; i++ {
		if got[i].Score != 65 {
			t.Errorf("record %d: score = %d, want 65", i, got[i].Score)
		}
		if got[i].Flag != models.RepeatWatch {
			t.Errorf("record %d: flag = %s, want Watch", i, got[i].Flag)
		}
	}
	for i := 3; i < 5; i++ {
		if got[i].Score != 25 {
			t.Errorf("record %d: score = %d, want 25", i, got[i].Score)
		}
		if got[i].Flag != models.RepeatNone {
			t.Errorf("record %d: flag = %s, want None", i, got[i].Flag)
		}
	}
}

func TestDetectIgnoresRecordsWithoutDefects(t *testing.T) {
	d := NewRepeatDetector()
	rules := testTables().Repeat

	noDefects := models.Record{
		ID: "R4", Date: "2024-03-13", PartNumber: "P1", DefectCode: "D1",
		Machine: "M1", DefectsPresent: "No",
	}
	batch := []models.Record{
		defectRecord("R1", "2024-03-10", "P1", "D1", "M1"),
		defectRecord("R2", "2024-03-11", "P1", "D1", "M1"),
		noDefects,
	}
	got := d.Detect(batch, rules, asOfDay(2024, 3, 14))

	// Two defect records never reach the threshold of three, and the
	// defect-free record neither counts nor scores.
	for i, ann := range got {
		if ann.Score != 0 {
			t.Errorf("record %d: score = %d, want 0", i, ann.Score)
		}
	}
}

func TestDetectWindowExcludesOldCountsButScoresOldRecords(t *testing.T) {
	d := NewRepeatDetector()
	rules := testTables().Repeat

	old := defectRecord("R0", "2024-02-01", "P1", "D1", "M9")
	batch := []models.Record{
		old,
		defectRecord("R1", "2024-03-10", "P1", "D1", "M1"),
		defectRecord("R2", "2024-03-11", "P1", "D1", "M2"),
		defectRecord("R3", "2024-03-12", "P1", "D1", "M3"),
	}
	got := d.Detect(batch, rules, asOfDay(2024, 3, 14))

	// The stale record does not count toward the window, so the in-window
	// count is exactly the threshold. Every matching record, the stale one
	// included, still picks up the trend flag.
	for i, ann := range got {
		if ann.Score != 40 {
			t.Errorf("record %d: score = %d, want 40", i, ann.Score)
		}
	}
	if !strings.Contains(got[0].Reason, "(3 in 7d)") {
		t.Errorf("stale record reason = %q, want in-window count of 3", got[0].Reason)
	}
}

func TestDetectEmptyBatch(t *testing.T) {
	d := NewRepeatDetector()
	if got := d.Detect(nil, testTables().Repeat, asOfDay(2024, 3, 14)); len(got) != 0 {
		t.Errorf("Detect(nil) = %v, want empty", got)
	}
}

func TestSummarize(t *testing.T) {
	d := NewRepeatDetector()
	rules := testTables().Repeat

	batch := []models.Record{
		defectRecord("R1", "2024-03-10", "P1", "D1", "M1"),
		defectRecord("R2", "2024-03-11", "P1", "D1", "M1"),
		defectRecord("R3", "2024-03-12", "P2", "D2", "M2"),
		{ID: "R4", Date: "2024-03-13", Machine: "M1", ToolNum: "T7", DefectsPresent: "No", DowntimeMins: "15"},
	}
	batch[0].ToolNum = "T7"
	batch[1].ToolNum = "T7"

	copq := map[string]float64{"R1": 100, "R2": 200, "R3": 50, "R4": 30}
	got := d.Summarize(batch, rules, copq, 0, asOfDay(2024, 3, 14))

	if got.MinCount != 2 {
		t.Errorf("MinCount = %d, want floor of 2", got.MinCount)
	}

	if len(got.PartDefect) != 1 {
		t.Fatalf("PartDefect groups = %d, want 1 (singletons dropped)", len(got.PartDefect))
	}
	pg := got.PartDefect[0]
	if pg.Key != "P1" || pg.SecondaryKey != "D1" || pg.Count != 2 || pg.DefectQty != 4 || pg.COPQ != 300 {
		t.Errorf("part group = %+v", pg)
	}

	if len(got.Machines) != 1 || got.Machines[0].Key != "M1" || got.Machines[0].Count != 2 {
		t.Errorf("machine groups = %+v", got.Machines)
	}

	// Tool grouping counts defect-free records too.
	if len(got.Tools) != 1 {
		t.Fatalf("tool groups = %+v", got.Tools)
	}
	tg := got.Tools[0]
	if tg.Key != "T7" || tg.Count != 3 {
		t.Errorf("tool group = %+v", tg)
	}
}

func TestSummarizeBlankKeys(t *testing.T) {
	d := NewRepeatDetector()
	rules := testTables().Repeat

	batch := []models.Record{
		defectRecord("R1", "2024-03-10", "", "", ""),
		defectRecord("R2", "2024-03-11", "", "", ""),
	}
	got := d.Summarize(batch, rules, nil, 2, asOfDay(2024, 3, 14))

	if len(got.PartDefect) != 1 || got.PartDefect[0].Key != "(blank)" {
		t.Errorf("PartDefect = %+v, want (blank) group", got.PartDefect)
	}
	if len(got.Machines) != 1 || got.Machines[0].Key != "(blank)" {
		t.Errorf("Machines = %+v, want (blank) group", got.Machines)
	}
}
