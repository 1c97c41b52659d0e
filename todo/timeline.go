package todo

import (
	"fmt"
	"sort"
	"time"
)

// MaxPaddingDays is the largest padding a timeline accepts.
const MaxPaddingDays = 3650

// ValidatePadding checks timeline padding against 0..MaxPaddingDays.
func ValidatePadding(days int) error {
	if days < 0 || days > MaxPaddingDays {
		return fmt.Errorf("%w: %d (valid: 0 to %d)", ErrInvalidPadding, days, MaxPaddingDays)
	}
	return nil
}

// TimelineOptions configures ProjectTimeline.
type TimelineOptions struct {
	// PaddingDays extends the range on both sides. Negative values count as
	// 0 and values above MaxPaddingDays as MaxPaddingDays.
	PaddingDays int

	// Now determines which day is today. Defaults to time.Now().
	Now time.Time
}

// Day is one column of a timeline.
type Day struct {
	Date         Date `json:"date"`
	Weekend      bool `json:"weekend"`
	Today        bool `json:"today"`
	FirstOfMonth bool `json:"firstOfMonth"`
}

// MonthBand spans the consecutive days of one month.
type MonthBand struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Start int        `json:"start"`
	Span  int        `json:"span"`
}

// Label formats the band as YYYY-MM.
func (m MonthBand) Label() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Bar is the geometry of one task, in day-units from the timeline's MinDate.
type Bar struct {
	TaskID    string `json:"taskId"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	ParentID  string `json:"parentId,omitempty"`
	Start     Date   `json:"start"`
	End       Date   `json:"end"`
	Position  int    `json:"position"`
	Width     int    `json:"width"`
}

// Timeline is a shared day grid with one bar per dated task.
type Timeline struct {
	MinDate    Date        `json:"minDate"`
	MaxDate    Date        `json:"maxDate"`
	TotalDays  int         `json:"totalDays"`
	TodayIndex int         `json:"todayIndex"`
	Days       []Day       `json:"days"`
	Months     []MonthBand `json:"months"`
	Bars       []Bar       `json:"bars"`
}

// ProjectTimeline lays out the tasks that have a start or due date. It
// returns false when no task has a date.
//
// A task's bar runs from its start date (or due date when unset) to its due
// date (or start date when unset). Width counts both ends and is at least one
// day, so a task whose start is after its due date still gets a one-day bar at
// its start. Bars are ordered by start date; ties keep input order.
func ProjectTimeline(tasks []Task, opts TimelineOptions) (Timeline, bool) {
	var minDate, maxDate Date
	dated := make([]Task, 0, len(tasks))
	for _, task := range tasks {
		if !task.HasDates() {
			continue
		}
		dated = append(dated, task)
		for _, d := range []Date{task.StartDate, task.DueDate} {
			if d.IsZero() {
				continue
			}
			if minDate.IsZero() || d.Before(minDate) {
				minDate = d
			}
			if maxDate.IsZero() || d.After(maxDate) {
				maxDate = d
			}
		}
	}
	if len(dated) == 0 {
		return Timeline{}, false
	}

	if padding := min(opts.PaddingDays, MaxPaddingDays); padding > 0 {
		minDate = minDate.AddDays(-padding)
		maxDate = maxDate.AddDays(padding)
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	tl := Timeline{
		MinDate:    minDate,
		MaxDate:    maxDate,
		TotalDays:  minDate.DaysUntil(maxDate) + 1,
		TodayIndex: -1,
	}

	tl.Days = make([]Day, 0, tl.TotalDays)
	for i := 0; i < tl.TotalDays; i++ {
		d := minDate.AddDays(i)
		day := Day{
			Date:         d,
			Weekend:      IsWeekend(d),
			Today:        IsToday(d, now),
			FirstOfMonth: d.Day() == 1,
		}
		if day.Today {
			tl.TodayIndex = i
		}
		tl.Days = append(tl.Days, day)

		if n := len(tl.Months); n > 0 && tl.Months[n-1].Year == d.Year() && tl.Months[n-1].Month == d.Month() {
			tl.Months[n-1].Span++
		} else {
			tl.Months = append(tl.Months, MonthBand{Year: d.Year(), Month: d.Month(), Start: i, Span: 1})
		}
	}

	tl.Bars = make([]Bar, 0, len(dated))
	for _, task := range dated {
		start, end := effectiveRange(task)
		width := start.DaysUntil(end) + 1
		if width < 1 {
			width = 1
		}
		tl.Bars = append(tl.Bars, Bar{
			TaskID:    task.ID,
			Title:     task.Title,
			Completed: task.Completed,
			ParentID:  task.ParentID,
			Start:     start,
			End:       end,
			Position:  minDate.DaysUntil(start),
			Width:     width,
		})
	}
	sort.SliceStable(tl.Bars, func(i, j int) bool {
		return tl.Bars[i].Start.Before(tl.Bars[j].Start)
	})

	return tl, true
}

func effectiveRange(task Task) (Date, Date) {
	start, end := task.StartDate, task.DueDate
	if start.IsZero() {
		start = end
	}
	if end.IsZero() {
		end = start
	}
	return start, end
}

// IsWeekend reports whether d is a Saturday or Sunday.
func IsWeekend(d Date) bool {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return true
	default:
		return false
	}
}

// IsToday reports whether d is the calendar date of now, in now's location.
func IsToday(d Date, now time.Time) bool {
	return !d.IsZero() && d.Equal(DateOf(now))
}
