package scheduler

import (
	"time"

	"github.com/adcapture/shoot-scheduler-go/pkg/models"
)

// expiry bonus tiers: a candidate date close to a window's end is worth more.
const (
	expirySoonDays   = 3
	expirySoonBonus  = 2.0
	expiryNearDays   = 7
	expiryNearBonus  = 1.0
	baseContribution = 1.0
)

// CandidateDates lists the legal shoot dates for an area within one week:
// allowed weekdays, strictly after today, intersecting at least one eligible
// task's live window. An empty result means the week/area pair is skipped.
func (s *Scheduler) CandidateDates(weekStart, today time.Time, area models.Area, tasks []*models.PendingTask) []time.Time {
	var out []time.Time
	for d := 0; d < 7; d++ {
		date := weekStart.AddDate(0, 0, d)
		if !s.Config.AllowsWeekday(date.Weekday()) {
			continue
		}
		if !date.After(today) {
			continue
		}
		for _, task := range tasks {
			if task.Area == area && task.LiveContains(date) {
				out = append(out, date)
				break
			}
		}
	}
	return out
}

// ScoreDate values a candidate date by how many eligible campaigns in the
// area are filmable on it, weighted for urgency. A task counts only when its
// live window contains the date and its brief was submitted on or before it;
// a missing brief timestamp is treated as no constraint. Pure and
// deterministic: identical inputs always yield identical scores.
func ScoreDate(date time.Time, area models.Area, tasks []*models.PendingTask) float64 {
	total := 0.0
	for _, task := range tasks {
		if task.Area != area {
			continue
		}
		if !filmableOn(task, date) {
			continue
		}
		contribution := baseContribution + urgencyWeight(task)
		daysToExpiry := DaysApart(task.LiveEnd, date)
		switch {
		case daysToExpiry <= expirySoonDays:
			contribution += expirySoonBonus
		case daysToExpiry <= expiryNearDays:
			contribution += expiryNearBonus
		}
		total += contribution
	}
	return total
}

// urgencyWeight rewards tight live windows: 1/max(windowDays, 1).
func urgencyWeight(task *models.PendingTask) float64 {
	days := task.WindowDays()
	if days < 1 {
		days = 1
	}
	return 1.0 / float64(days)
}

// filmableOn is the shared per-date eligibility check used by scoring and
// assignment: inside the live window, and not before the brief was submitted.
func filmableOn(task *models.PendingTask, date time.Time) bool {
	if !task.LiveContains(date) {
		return false
	}
	if task.BriefSubmittedAt != nil && task.BriefSubmittedAt.After(date.AddDate(0, 0, 1).Add(-time.Nanosecond)) {
		return false
	}
	return true
}
