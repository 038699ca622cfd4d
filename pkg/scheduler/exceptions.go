package scheduler

import (
	"sort"
	"time"

	"github.com/adcapture/shoot-scheduler-go/pkg/models"
)

// ResolveExceptions tries the two last-resort rescues, in order, for every
// task the normal passes left unassigned. Single-campaign shoots relax only
// the bundling preference; dual-area same-day shoots additionally step over
// the weekly cap, and only when the alternative is losing two campaigns in
// different areas the same week. Anything still unplaced is reported
// unschedulable.
func (s *Scheduler) ResolveExceptions(schedule *models.WeeklySchedule, plan map[string]*models.ShootDay, unassigned []*models.PendingTask, eligible []*models.PendingTask, today time.Time) ([]models.AppliedException, []models.UnschedulableTask) {
	var applied []models.AppliedException
	var unschedulable []models.UnschedulableTask

	// Most urgent first so scarce rescue dates go to the campaigns closest
	// to expiry.
	pending := append([]*models.PendingTask(nil), unassigned...)
	sort.SliceStable(pending, func(i, j int) bool {
		if !pending[i].LiveEnd.Equal(pending[j].LiveEnd) {
			return pending[i].LiveEnd.Before(pending[j].LiveEnd)
		}
		return pending[i].ID < pending[j].ID
	})

	rescued := make(map[string]bool)
	for _, task := range pending {
		if rescued[task.ID] {
			continue
		}
		if sd, ok := s.rescueSingleCampaign(schedule, task, eligible, today); ok {
			plan[task.ID] = sd
			applied = append(applied, models.AppliedException{
				Type:    models.ExceptionSingleCampaign,
				Date:    sd.Date,
				Areas:   sd.Areas,
				TaskIDs: []string{task.ID},
			})
			continue
		}
		if sd, partner, ok := s.rescueDualArea(schedule, task, pending, rescued, today); ok {
			plan[task.ID] = sd
			plan[partner.ID] = sd
			rescued[partner.ID] = true
			applied = append(applied, models.AppliedException{
				Type:    models.ExceptionDualAreaDay,
				Date:    sd.Date,
				Areas:   sd.Areas,
				TaskIDs: []string{task.ID, partner.ID},
			})
			continue
		}
		unschedulable = append(unschedulable, models.UnschedulableTask{
			TaskID:    task.ID,
			Area:      task.Area,
			LiveStart: task.LiveStart,
			LiveEnd:   task.LiveEnd,
		})
	}

	sort.Slice(unschedulable, func(i, j int) bool { return unschedulable[i].TaskID < unschedulable[j].TaskID })
	return applied, unschedulable
}

// rescueSingleCampaign creates a standalone shoot for a task that has no
// bundling partner and whose window would otherwise close unserved. The
// allowed-weekday set, the weekly cap and the minimum gap all still hold;
// the only constraint relaxed is the bundling preference.
func (s *Scheduler) rescueSingleCampaign(schedule *models.WeeklySchedule, task *models.PendingTask, eligible []*models.PendingTask, today time.Time) (*models.ShootDay, bool) {
	if s.hasBundlingPartner(task, eligible) {
		return nil, false
	}
	if futureShootInWindow(schedule, task, today) {
		return nil, false
	}

	for _, date := range s.windowDates(task, today) {
		if !s.Config.AllowsWeekday(date.Weekday()) {
			continue
		}
		key := models.WeekKeyOf(date)
		if schedule.CountRegular(key) >= s.Config.WeeklyCap {
			continue
		}
		if s.gapViolated(schedule, key, date) {
			continue
		}
		sd := &models.ShootDay{
			Date:          date,
			Areas:         []models.Area{task.Area},
			TimeBlocks:    []models.TimeBlock{task.TimeBlock},
			AssignedTasks: []string{task.ID},
			Score:         ScoreDate(date, task.Area, eligible),
			Exception:     models.ExceptionSingleCampaign,
		}
		schedule.Add(sd)
		return sd, true
	}
	return nil, false
}

// rescueDualArea pairs two stranded tasks from different areas into one
// visit when their shared week is already at the cap. The shoot lands on a
// date both live windows contain, preferring allowed weekdays, and is
// recorded as an explicit exception to the cap.
func (s *Scheduler) rescueDualArea(schedule *models.WeeklySchedule, task *models.PendingTask, pending []*models.PendingTask, rescued map[string]bool, today time.Time) (*models.ShootDay, *models.PendingTask, bool) {
	dates := s.windowDates(task, today)

	// Two passes over the window: allowed weekdays first, then any date.
	// Losing the campaign outranks the weekday preference here.
	for _, allowedOnly := range []bool{true, false} {
		for _, date := range dates {
			if s.Config.AllowsWeekday(date.Weekday()) != allowedOnly {
				continue
			}
			key := models.WeekKeyOf(date)
			if schedule.CountRegular(key) < s.Config.WeeklyCap {
				continue
			}
			for _, partner := range pending {
				if partner.ID == task.ID || rescued[partner.ID] || partner.Area == task.Area {
					continue
				}
				if !filmableOn(partner, date) {
					continue
				}
				sd := &models.ShootDay{
					Date:          date,
					Areas:         []models.Area{task.Area, partner.Area},
					AssignedTasks: []string{task.ID, partner.ID},
					Exception:     models.ExceptionDualAreaDay,
				}
				sd.AddTimeBlock(task.TimeBlock)
				sd.AddTimeBlock(partner.TimeBlock)
				schedule.Add(sd)
				return sd, partner, true
			}
		}
	}
	return nil, nil, false
}

// hasBundlingPartner reports whether another eligible task in the same area
// has a live window overlapping this task's.
func (s *Scheduler) hasBundlingPartner(task *models.PendingTask, eligible []*models.PendingTask) bool {
	for _, other := range eligible {
		if other.ID == task.ID || other.Area != task.Area {
			continue
		}
		if !other.LiveStart.After(task.LiveEnd) && !task.LiveStart.After(other.LiveEnd) {
			return true
		}
	}
	return false
}

// windowDates lists the task's filmable future dates in ascending order.
func (s *Scheduler) windowDates(task *models.PendingTask, today time.Time) []time.Time {
	var out []time.Time
	start := task.LiveStart
	if !start.After(today) {
		start = today.AddDate(0, 0, 1)
	}
	for date := start; !date.After(task.LiveEnd); date = date.AddDate(0, 0, 1) {
		if filmableOn(task, date) {
			out = append(out, date)
		}
	}
	return out
}
