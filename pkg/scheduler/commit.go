package scheduler

import (
	"log"
	"time"

	"github.com/adcapture/shoot-scheduler-go/pkg/models"
)

const (
	commitAttempts = 3
	commitBackoff  = 100 * time.Millisecond
)

// Commit is the only stage with side effects. It prunes planned shoots that
// ended up with nothing to film, diffs each task's computed date against the
// stored one, re-checks override/freeze state immediately before each write
// (the task may have been edited in the CRM while we planned), and retries
// failed writes with bounded backoff. Tasks without a computed date get an
// unschedulable warning instead of a write.
func (s *Scheduler) Commit(schedule *models.WeeklySchedule, plan map[string]*models.ShootDay, eligible []*models.PendingTask, now time.Time) models.RunSummary {
	pruneEmpty(schedule)

	var summary models.RunSummary
	for _, sd := range schedule.All() {
		if !sd.Preexisting {
			summary.ShootsPlanned++
		}
	}

	for _, task := range eligible {
		sd, ok := plan[task.ID]
		if !ok {
			if err := s.Notify.Unschedulable(models.UnschedulableTask{
				TaskID:    task.ID,
				Area:      task.Area,
				LiveStart: task.LiveStart,
				LiveEnd:   task.LiveEnd,
			}); err != nil {
				log.Printf("notify unschedulable %s: %v", task.ID, err)
			}
			continue
		}

		if task.CurrentFilmingDate != nil && SameDate(*task.CurrentFilmingDate, sd.Date, s.Config.Timezone) {
			summary.Unchanged++
			continue
		}

		// Optimistic re-check: a CRM user may have pinned or frozen the
		// task since the snapshot was taken. Their edit wins.
		fresh, err := s.Store.GetTask(task.ID)
		if err != nil {
			log.Printf("recheck %s: %v", task.ID, err)
			summary.FailedWrites++
			continue
		}
		if fresh.ManualOverride || s.frozen(fresh, now) {
			summary.Unchanged++
			continue
		}

		if err := s.writeDate(task.ID, sd.Date); err != nil {
			log.Printf("set filming date %s: %v", task.ID, err)
			summary.FailedWrites++
			continue
		}
		summary.Updated++

		// First-ever assignment carries no old date and raises no event.
		if task.CurrentFilmingDate != nil {
			if err := s.Notify.DateChanged(task.ID, task.CurrentFilmingDate, sd.Date); err != nil {
				log.Printf("notify change %s: %v", task.ID, err)
			}
		}
	}
	return summary
}

// writeDate upserts one filming date with bounded linear backoff.
func (s *Scheduler) writeDate(taskID string, date time.Time) error {
	var err error
	for attempt := 1; attempt <= commitAttempts; attempt++ {
		if err = s.Store.SetFilmingDate(taskID, date); err == nil {
			return nil
		}
		if attempt < commitAttempts {
			s.sleep(commitBackoff * time.Duration(attempt))
		}
	}
	return err
}

// pruneEmpty drops planned shoots that no task was ultimately bound to,
// typically a week whose candidate was superseded by a better-scoring date
// in a neighbouring week. Preexisting visits are never pruned; they belong
// to tasks outside this run's control.
func pruneEmpty(schedule *models.WeeklySchedule) {
	for key, days := range schedule.Weeks {
		kept := days[:0]
		for _, sd := range days {
			if sd.Preexisting || len(sd.AssignedTasks) > 0 {
				kept = append(kept, sd)
			}
		}
		if len(kept) == 0 {
			delete(schedule.Weeks, key)
		} else {
			schedule.Weeks[key] = kept
		}
	}
}
