package models

import "time"

// Area tags the physical zone a task's location belongs to. The valid set for
// a run comes from the area mapping table; tasks whose location does not
// resolve stay AreaUnclassified and are skipped by the scheduler.
type Area string

// AreaUnclassified marks a location with no entry in the area mapping table.
const AreaUnclassified Area = ""

// TimeBlock is the part of the day a campaign must be filmed in.
type TimeBlock string

const (
	TimeBlockDay   TimeBlock = "day"
	TimeBlockNight TimeBlock = "night"
	TimeBlockBoth  TimeBlock = "both"
)

// Valid reports whether tb is one of the known time blocks.
func (tb TimeBlock) Valid() bool {
	switch tb {
	case TimeBlockDay, TimeBlockNight, TimeBlockBoth:
		return true
	}
	return false
}

// ExceptionType records which last-resort rule created a shoot day.
type ExceptionType string

const (
	ExceptionNone           ExceptionType = "none"
	ExceptionSingleCampaign ExceptionType = "single_campaign"
	ExceptionDualAreaDay    ExceptionType = "dual_area_same_day"
)

// PendingTask is a campaign unit awaiting a filming date. Tasks are owned by
// the upstream CRM; the scheduler only ever writes CurrentFilmingDate.
type PendingTask struct {
	ID                 string     `json:"id"`
	Location           string     `json:"location"`
	Area               Area       `json:"area,omitempty"`
	LiveStart          time.Time  `json:"live_start"`
	LiveEnd            time.Time  `json:"live_end"`
	BriefSubmittedAt   *time.Time `json:"brief_submitted_at,omitempty"`
	TimeBlock          TimeBlock  `json:"time_block"`
	ManualOverride     bool       `json:"manual_override"`
	CurrentFilmingDate *time.Time `json:"current_filming_date,omitempty"`
}

// LiveContains reports whether date falls inside the task's live window
// (both ends inclusive).
func (t *PendingTask) LiveContains(date time.Time) bool {
	return !date.Before(t.LiveStart) && !date.After(t.LiveEnd)
}

// WindowDays is the live window length in calendar days, inclusive. Counted
// from date components so DST-length days do not shorten the window.
func (t *PendingTask) WindowDays() int {
	return civilDay(t.LiveEnd) - civilDay(t.LiveStart) + 1
}

func civilDay(t time.Time) int {
	return int(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// ShootDay is one field-crew visit. Normally it serves a single area; two
// areas only ever appear under the dual-area exception.
type ShootDay struct {
	Date          time.Time     `json:"date"`
	Areas         []Area        `json:"areas"`
	TimeBlocks    []TimeBlock   `json:"time_blocks"`
	AssignedTasks []string      `json:"assigned_tasks"`
	Score         float64       `json:"score"`
	Exception     ExceptionType `json:"exception"`
	Preexisting   bool          `json:"preexisting"`
}

// ServesArea reports whether the shoot covers the given area.
func (sd *ShootDay) ServesArea(a Area) bool {
	for _, sa := range sd.Areas {
		if sa == a {
			return true
		}
	}
	return false
}

// AddTimeBlock accumulates a needed time block onto the shoot.
func (sd *ShootDay) AddTimeBlock(tb TimeBlock) {
	for _, have := range sd.TimeBlocks {
		if have == tb {
			return
		}
	}
	sd.TimeBlocks = append(sd.TimeBlocks, tb)
}

// WeekKey identifies an ISO (year, week) pair.
type WeekKey struct {
	Year int `json:"year"`
	Week int `json:"week"`
}

// WeekKeyOf returns the ISO week key for a date.
func WeekKeyOf(date time.Time) WeekKey {
	y, w := date.ISOWeek()
	return WeekKey{Year: y, Week: w}
}

// Before orders week keys chronologically.
func (k WeekKey) Before(other WeekKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Week < other.Week
}

// WeeklySchedule accumulates the shoots planned (or already committed) per
// ISO week across all areas. It is built fresh each run and threaded through
// the pipeline stages.
type WeeklySchedule struct {
	Weeks map[WeekKey][]*ShootDay
}

// NewWeeklySchedule returns an empty accumulator.
func NewWeeklySchedule() *WeeklySchedule {
	return &WeeklySchedule{Weeks: make(map[WeekKey][]*ShootDay)}
}

// Add appends a shoot day to its week.
func (ws *WeeklySchedule) Add(sd *ShootDay) {
	key := WeekKeyOf(sd.Date)
	ws.Weeks[key] = append(ws.Weeks[key], sd)
}

// CountRegular counts the shoots in a week that are subject to the weekly
// cap. Dual-area exception shoots sit outside the cap and are flagged and
// counted separately in the run summary.
func (ws *WeeklySchedule) CountRegular(key WeekKey) int {
	n := 0
	for _, sd := range ws.Weeks[key] {
		if sd.Exception != ExceptionDualAreaDay {
			n++
		}
	}
	return n
}

// All returns every shoot day across all weeks, unordered.
func (ws *WeeklySchedule) All() []*ShootDay {
	var out []*ShootDay
	for _, days := range ws.Weeks {
		out = append(out, days...)
	}
	return out
}

// ClassificationWarning reports a task whose location resolved to no area.
type ClassificationWarning struct {
	TaskID   string `json:"task_id"`
	Location string `json:"location"`
}

// AppliedException audits one edge-case rescue for the run summary.
type AppliedException struct {
	Type    ExceptionType `json:"type"`
	Date    time.Time     `json:"date"`
	Areas   []Area        `json:"areas"`
	TaskIDs []string      `json:"task_ids"`
}

// UnschedulableTask reports a task no rule could place, for operator
// follow-up. Never silently dropped.
type UnschedulableTask struct {
	TaskID    string    `json:"task_id"`
	Area      Area      `json:"area"`
	LiveStart time.Time `json:"live_start"`
	LiveEnd   time.Time `json:"live_end"`
}

// RunSummary is the audit record of one scheduling pass.
type RunSummary struct {
	Today          time.Time               `json:"today"`
	HorizonWeeks   int                     `json:"horizon_weeks"`
	WeeksProcessed int                     `json:"weeks_processed"`
	ShootsPlanned  int                     `json:"shoots_planned"`
	Updated        int                     `json:"updated"`
	Unchanged      int                     `json:"unchanged"`
	Deferred       int                     `json:"deferred"`
	FailedWrites   int                     `json:"failed_writes"`
	Warnings       []ClassificationWarning `json:"warnings,omitempty"`
	Exceptions     []AppliedException      `json:"exceptions,omitempty"`
	Unschedulable  []UnschedulableTask     `json:"unschedulable,omitempty"`
}
