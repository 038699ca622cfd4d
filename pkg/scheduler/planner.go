package scheduler

import (
	"sort"
	"time"

	"github.com/adcapture/shoot-scheduler-go/pkg/models"
)

type scoredCandidate struct {
	date  time.Time
	score float64
}

// minBundleSize is the smallest set of campaigns that justifies an ordinary
// shoot day. A lone campaign never gets a regular visit; if its window is
// about to close the single-campaign exception handles it instead.
const minBundleSize = 2

// PlanWeek selects which candidate dates become new shoot days for one week.
// Areas are processed in mapping declaration order so a contested slot always
// resolves the same way; each area gets at most one new shoot per week (a
// second date for the same task set adds no bundling value). The weekly cap
// and the minimum-gap rule are hard here; losers roll to backfill or to the
// edge-case resolver.
func (s *Scheduler) PlanWeek(schedule *models.WeeklySchedule, weekStart, today time.Time, areas []models.Area, tasks []*models.PendingTask) {
	key := models.WeekKeyOf(weekStart)

	for _, area := range areas {
		if s.Config.WeeklyCap-schedule.CountRegular(key) <= 0 {
			return
		}
		if s.areaCoveredInWeek(schedule, key, area) {
			continue
		}

		dates := s.CandidateDates(weekStart, today, area, tasks)
		if len(dates) == 0 {
			continue
		}

		candidates := make([]scoredCandidate, 0, len(dates))
		for _, date := range dates {
			score := ScoreDate(date, area, tasks)
			if score > 0 && countFilmable(date, area, tasks) >= minBundleSize {
				candidates = append(candidates, scoredCandidate{date: date, score: score})
			}
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			if candidates[i].score != candidates[j].score {
				return candidates[i].score > candidates[j].score
			}
			return candidates[i].date.Before(candidates[j].date)
		})

		for _, c := range candidates {
			if s.gapViolated(schedule, key, c.date) {
				continue
			}
			schedule.Add(&models.ShootDay{
				Date:      c.date,
				Areas:     []models.Area{area},
				Score:     c.score,
				Exception: models.ExceptionNone,
			})
			break
		}
	}
}

// countFilmable counts the area's tasks that could actually be captured on
// the date.
func countFilmable(date time.Time, area models.Area, tasks []*models.PendingTask) int {
	n := 0
	for _, task := range tasks {
		if task.Area == area && filmableOn(task, date) {
			n++
		}
	}
	return n
}

// areaCoveredInWeek reports whether the week already has a visit serving the
// area, either preexisting or planned earlier in this pass.
func (s *Scheduler) areaCoveredInWeek(schedule *models.WeeklySchedule, key models.WeekKey, area models.Area) bool {
	for _, sd := range schedule.Weeks[key] {
		if sd.ServesArea(area) {
			return true
		}
	}
	return false
}

// gapViolated enforces the minimum calendar-day distance between crew visits
// within a week. Dual-area rescue days are excluded: their date is dictated
// by the colliding live windows.
func (s *Scheduler) gapViolated(schedule *models.WeeklySchedule, key models.WeekKey, date time.Time) bool {
	for _, sd := range schedule.Weeks[key] {
		if sd.Exception == models.ExceptionDualAreaDay {
			continue
		}
		if DaysApart(sd.Date, date) < s.Config.MinGapDays {
			return true
		}
	}
	return false
}
