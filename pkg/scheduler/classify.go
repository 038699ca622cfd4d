package scheduler

import (
	"sort"
	"time"

	"github.com/adcapture/shoot-scheduler-go/pkg/models"
)

// Classify filters the snapshot down to tasks this scheduler may replan.
// It is a pure function of the snapshot and "now": unmapped locations are
// recorded as warnings, frozen and manually pinned tasks are dropped, and
// the survivors come back area-resolved in a deterministic order.
func (s *Scheduler) Classify(snapshot []models.PendingTask, now time.Time) ([]*models.PendingTask, []models.ClassificationWarning) {
	var eligible []*models.PendingTask
	var warnings []models.ClassificationWarning

	for i := range snapshot {
		task := snapshot[i]

		area := s.Areas.Resolve(task.Location)
		if area == models.AreaUnclassified {
			warnings = append(warnings, models.ClassificationWarning{
				TaskID:   task.ID,
				Location: task.Location,
			})
			continue
		}
		if task.ManualOverride {
			continue
		}
		if s.frozen(&task, now) {
			continue
		}
		if !task.TimeBlock.Valid() {
			warnings = append(warnings, models.ClassificationWarning{
				TaskID:   task.ID,
				Location: task.Location,
			})
			continue
		}

		copied := task
		copied.Area = area
		copied.LiveStart = Midnight(task.LiveStart, s.Config.Timezone)
		copied.LiveEnd = Midnight(task.LiveEnd, s.Config.Timezone)
		eligible = append(eligible, &copied)
	}

	sort.Slice(eligible, func(i, j int) bool { return eligible[i].ID < eligible[j].ID })
	sort.Slice(warnings, func(i, j int) bool { return warnings[i].TaskID < warnings[j].TaskID })
	return eligible, warnings
}

// frozen applies the T-1 rule: a task whose current filming date is less
// than the freeze window away from now (or already past) is immutable.
func (s *Scheduler) frozen(task *models.PendingTask, now time.Time) bool {
	if task.CurrentFilmingDate == nil {
		return false
	}
	date := Midnight(*task.CurrentFilmingDate, s.Config.Timezone)
	return date.Sub(now) < s.Config.FreezeWindow
}
