package todo

import (
	"encoding/json"
	"testing"
	"time"
)

func barFor(t *testing.T, tl Timeline, id string) Bar {
	t.Helper()
	for _, bar := range tl.Bars {
		if bar.TaskID == id {
			return bar
		}
	}
	t.Fatalf("no bar for %s", id)
	return Bar{}
}

func TestProjectTimelineEmpty(t *testing.T) {
	tests := []struct {
		name  string
		tasks []Task
	}{
		{"no tasks", nil},
		{"undated tasks", []Task{{ID: "a"}, {ID: "b"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl, ok := ProjectTimeline(tt.tasks, TimelineOptions{})
			if ok {
				t.Fatalf("expected empty timeline, got %+v", tl)
			}
			if tl.TotalDays != 0 || len(tl.Bars) != 0 {
				t.Fatalf("expected zero timeline, got %+v", tl)
			}
		})
	}
}

func TestProjectTimelineGeometry(t *testing.T) {
	tasks := []Task{
		{ID: "draft", StartDate: MustParseDate("2026-01-01"), DueDate: MustParseDate("2026-01-03")},
		{ID: "review", DueDate: MustParseDate("2026-01-05")},
		{ID: "undated"},
	}

	tl, ok := ProjectTimeline(tasks, TimelineOptions{Now: testEpoch})
	if !ok {
		t.Fatal("expected timeline")
	}

	if tl.MinDate.String() != "2026-01-01" || tl.MaxDate.String() != "2026-01-05" {
		t.Fatalf("unexpected range %s..%s", tl.MinDate, tl.MaxDate)
	}
	if tl.TotalDays != 5 || len(tl.Days) != 5 {
		t.Fatalf("expected 5 days, got %d (%d)", tl.TotalDays, len(tl.Days))
	}
	if len(tl.Bars) != 2 {
		t.Fatalf("expected undated task to be skipped, got %d bars", len(tl.Bars))
	}

	draft := barFor(t, tl, "draft")
	if draft.Position != 0 || draft.Width != 3 {
		t.Fatalf("expected draft at 0 width 3, got %d width %d", draft.Position, draft.Width)
	}

	review := barFor(t, tl, "review")
	if review.Position != 4 || review.Width != 1 {
		t.Fatalf("expected single-date task at 4 width 1, got %d width %d", review.Position, review.Width)
	}
	if !review.Start.Equal(review.End) {
		t.Fatalf("expected single-date task to start and end on the same day")
	}
}

func TestProjectTimelineLongSpan(t *testing.T) {
	tasks := []Task{
		{ID: "a", StartDate: MustParseDate("1700-01-01")},
		{ID: "b", DueDate: MustParseDate("2026-01-01")},
	}

	tl, ok := ProjectTimeline(tasks, TimelineOptions{Now: testEpoch})
	if !ok {
		t.Fatal("expected timeline")
	}
	if tl.TotalDays != 119070 || len(tl.Days) != 119070 {
		t.Fatalf("expected 119070 days, got %d (%d)", tl.TotalDays, len(tl.Days))
	}
	if last := tl.Days[len(tl.Days)-1].Date; !last.Equal(tl.MaxDate) {
		t.Fatalf("expected last day %s, got %s", tl.MaxDate, last)
	}
	if b := barFor(t, tl, "b"); b.Position != 119069 || b.Width != 1 {
		t.Fatalf("expected b at 119069 width 1, got %d width %d", b.Position, b.Width)
	}
}

func TestProjectTimelineClampsPadding(t *testing.T) {
	d := MustParseDate("2026-03-10")
	tl, ok := ProjectTimeline([]Task{{ID: "a", DueDate: d}}, TimelineOptions{PaddingDays: 100000})
	if !ok {
		t.Fatal("expected timeline")
	}
	if tl.TotalDays != 2*MaxPaddingDays+1 {
		t.Fatalf("expected padding clamped to %d, got %d days", MaxPaddingDays, tl.TotalDays)
	}
}

func TestProjectTimelineSameDayHasWidthOne(t *testing.T) {
	d := MustParseDate("2026-03-10")
	tl, ok := ProjectTimeline([]Task{{ID: "a", StartDate: d, DueDate: d}}, TimelineOptions{})
	if !ok {
		t.Fatal("expected timeline")
	}
	if tl.TotalDays != 1 || tl.Bars[0].Width != 1 || tl.Bars[0].Position != 0 {
		t.Fatalf("unexpected geometry %+v", tl.Bars[0])
	}
}

func TestProjectTimelineReversedDates(t *testing.T) {
	tasks := []Task{{ID: "odd", StartDate: MustParseDate("2026-01-05"), DueDate: MustParseDate("2026-01-02")}}

	tl, ok := ProjectTimeline(tasks, TimelineOptions{})
	if !ok {
		t.Fatal("expected timeline")
	}
	bar := tl.Bars[0]
	if bar.Position != 3 || bar.Width != 1 {
		t.Fatalf("expected deterministic one-day bar at 3, got position %d width %d", bar.Position, bar.Width)
	}
	if tl.TotalDays != 4 {
		t.Fatalf("expected range to cover both dates, got %d days", tl.TotalDays)
	}
}

func TestProjectTimelinePadding(t *testing.T) {
	tasks := []Task{{ID: "a", StartDate: MustParseDate("2026-01-10"), DueDate: MustParseDate("2026-01-11")}}

	tl, ok := ProjectTimeline(tasks, TimelineOptions{PaddingDays: 2})
	if !ok {
		t.Fatal("expected timeline")
	}
	if tl.MinDate.String() != "2026-01-08" || tl.MaxDate.String() != "2026-01-13" {
		t.Fatalf("unexpected padded range %s..%s", tl.MinDate, tl.MaxDate)
	}
	if tl.TotalDays != 6 || tl.Bars[0].Position != 2 || tl.Bars[0].Width != 2 {
		t.Fatalf("unexpected padded geometry total=%d bar=%+v", tl.TotalDays, tl.Bars[0])
	}

	unpadded, _ := ProjectTimeline(tasks, TimelineOptions{PaddingDays: -3})
	if unpadded.TotalDays != 2 {
		t.Fatalf("expected negative padding to be ignored, got %d days", unpadded.TotalDays)
	}
}

func TestProjectTimelineSortsByEffectiveStart(t *testing.T) {
	tasks := []Task{
		{ID: "late", StartDate: MustParseDate("2026-01-09")},
		{ID: "due-only", DueDate: MustParseDate("2026-01-02")},
		{ID: "tie-1", StartDate: MustParseDate("2026-01-05")},
		{ID: "tie-2", DueDate: MustParseDate("2026-01-05")},
	}

	tl, _ := ProjectTimeline(tasks, TimelineOptions{})

	var got []string
	for _, bar := range tl.Bars {
		got = append(got, bar.TaskID)
	}
	if !equalStrings(got, []string{"due-only", "tie-1", "tie-2", "late"}) {
		t.Fatalf("unexpected bar order %v", got)
	}
}

func TestProjectTimelineDayMarkers(t *testing.T) {
	// 2026-01-30 is a Friday.
	tasks := []Task{{ID: "a", StartDate: MustParseDate("2026-01-30"), DueDate: MustParseDate("2026-02-02")}}
	now := time.Date(2026, 1, 31, 23, 30, 0, 0, time.UTC)

	tl, ok := ProjectTimeline(tasks, TimelineOptions{Now: now})
	if !ok {
		t.Fatal("expected timeline")
	}

	wantWeekend := []bool{false, true, true, false}
	for i, day := range tl.Days {
		if day.Weekend != wantWeekend[i] {
			t.Errorf("day %s weekend = %v, want %v", day.Date, day.Weekend, wantWeekend[i])
		}
		if day.Today != (i == 1) {
			t.Errorf("day %s today = %v", day.Date, day.Today)
		}
	}
	if tl.TodayIndex != 1 {
		t.Fatalf("expected today index 1, got %d", tl.TodayIndex)
	}
	if !tl.Days[3].FirstOfMonth || tl.Days[0].FirstOfMonth {
		t.Fatal("unexpected first-of-month markers")
	}

	if len(tl.Months) != 2 {
		t.Fatalf("expected two month bands, got %+v", tl.Months)
	}
	if tl.Months[0].Label() != "2026-01" || tl.Months[0].Start != 0 || tl.Months[0].Span != 2 {
		t.Fatalf("unexpected January band %+v", tl.Months[0])
	}
	if tl.Months[1].Label() != "2026-02" || tl.Months[1].Start != 2 || tl.Months[1].Span != 2 {
		t.Fatalf("unexpected February band %+v", tl.Months[1])
	}
}

func TestProjectTimelineTodayOutOfRange(t *testing.T) {
	tasks := []Task{{ID: "a", DueDate: MustParseDate("2026-06-01")}}

	tl, _ := ProjectTimeline(tasks, TimelineOptions{Now: testEpoch})
	if tl.TodayIndex != -1 {
		t.Fatalf("expected today index -1, got %d", tl.TodayIndex)
	}
}

func TestTimelineJSONUsesDateStrings(t *testing.T) {
	tasks := []Task{{ID: "a", Title: "A", DueDate: MustParseDate("2026-06-01")}}
	tl, _ := ProjectTimeline(tasks, TimelineOptions{Now: testEpoch})

	data, err := json.Marshal(tl)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded struct {
		MinDate string `json:"minDate"`
		Bars    []struct {
			TaskID   string `json:"taskId"`
			Start    string `json:"start"`
			Position int    `json:"position"`
			Width    int    `json:"width"`
		} `json:"bars"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.MinDate != "2026-06-01" || decoded.Bars[0].Start != "2026-06-01" || decoded.Bars[0].Width != 1 {
		t.Fatalf("unexpected JSON %s", data)
	}
}
