package scheduler

import (
	"sort"
	"time"

	"github.com/adcapture/shoot-scheduler-go/pkg/models"
)

// Assign binds eligible tasks to concrete shoot days in two ordered passes:
// backfill into preexisting visits first (bundling onto trips the crew is
// already making), then fill the shoots newly planned this run. Tasks neither
// pass can place go to the edge-case resolver.
func (s *Scheduler) Assign(schedule *models.WeeklySchedule, tasks []*models.PendingTask, today time.Time) (map[string]*models.ShootDay, []*models.PendingTask) {
	plan := make(map[string]*models.ShootDay)
	var unassigned []*models.PendingTask

	preexisting := shootsWhere(schedule, func(sd *models.ShootDay) bool { return sd.Preexisting })
	planned := shootsWhere(schedule, func(sd *models.ShootDay) bool {
		return !sd.Preexisting && sd.Exception == models.ExceptionNone
	})

	for _, task := range tasks {
		if sd := s.bindTask(task, preexisting, today); sd != nil {
			plan[task.ID] = sd
			continue
		}
		if sd := s.bindTask(task, planned, today); sd != nil {
			plan[task.ID] = sd
			continue
		}
		unassigned = append(unassigned, task)
	}
	return plan, unassigned
}

// bindTask picks the compatible shoot with the highest score (ties broken by
// earliest date) and mutates it with the task's id and time block. There is
// no cap on time blocks per visit, so a compatible shoot always accepts.
func (s *Scheduler) bindTask(task *models.PendingTask, shoots []*models.ShootDay, today time.Time) *models.ShootDay {
	for _, sd := range shoots {
		if !sd.ServesArea(task.Area) {
			continue
		}
		if !sd.Date.After(today) {
			continue
		}
		if !filmableOn(task, sd.Date) {
			continue
		}
		sd.AssignedTasks = append(sd.AssignedTasks, task.ID)
		sd.AddTimeBlock(task.TimeBlock)
		return sd
	}
	return nil
}

// shootsWhere returns matching shoots ordered by score descending, then
// earliest date, the selection order both assignment passes use.
func shootsWhere(schedule *models.WeeklySchedule, keep func(*models.ShootDay) bool) []*models.ShootDay {
	var out []*models.ShootDay
	for _, sd := range schedule.All() {
		if keep(sd) {
			out = append(out, sd)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// futureShootInWindow reports whether any scheduled visit could still serve
// the task; used by the resolver to confirm a task is truly stranded.
func futureShootInWindow(schedule *models.WeeklySchedule, task *models.PendingTask, today time.Time) bool {
	for _, sd := range schedule.All() {
		if sd.ServesArea(task.Area) && sd.Date.After(today) && task.LiveContains(sd.Date) {
			return true
		}
	}
	return false
}
