package scheduler

import (
	"sort"
	"time"

	"github.com/adcapture/shoot-scheduler-go/pkg/config"
	"github.com/adcapture/shoot-scheduler-go/pkg/models"
)

// TaskStore is the external campaign-task store. SetFilmingDate is an
// idempotent per-id upsert; GetTask backs the optimistic pre-write re-check.
type TaskStore interface {
	ListPendingTasks() ([]models.PendingTask, error)
	GetTask(id string) (*models.PendingTask, error)
	SetFilmingDate(id string, date time.Time) error
}

// Notifier is the sink for date-change events and unschedulable warnings.
type Notifier interface {
	DateChanged(taskID string, oldDate *time.Time, newDate time.Time) error
	Unschedulable(warning models.UnschedulableTask) error
}

// Clock supplies "now" once per run so every stage sees the same today.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Scheduler runs the area-bundled planning pass: classify, seed existing
// visits, plan weekly shoot days, assign tasks, rescue edge cases, commit.
type Scheduler struct {
	Store  TaskStore
	Notify Notifier
	Clock  Clock
	Config config.ScheduleConfig
	Areas  *config.AreaTable

	// sleep is swappable in tests; used only by the commit retry loop.
	sleep func(time.Duration)
}

// New wires a scheduler over its collaborators.
func New(store TaskStore, notify Notifier, clock Clock, cfg config.ScheduleConfig, areas *config.AreaTable) *Scheduler {
	return &Scheduler{
		Store:  store,
		Notify: notify,
		Clock:  clock,
		Config: cfg,
		Areas:  areas,
		sleep:  time.Sleep,
	}
}

// Run executes one full scheduling pass against a single snapshot of pending
// tasks. The only returned errors are fatal configuration problems, raised
// before any write; everything recoverable lands in the summary.
func (s *Scheduler) Run() (models.RunSummary, error) {
	if err := s.Config.Validate(); err != nil {
		return models.RunSummary{}, err
	}
	if err := s.Areas.Validate(); err != nil {
		return models.RunSummary{}, err
	}

	now := s.Clock.Now().In(s.Config.Timezone)
	today := Midnight(now, s.Config.Timezone)

	snapshot, err := s.Store.ListPendingTasks()
	if err != nil {
		return models.RunSummary{}, err
	}

	eligible, warnings := s.Classify(snapshot, now)

	schedule := models.NewWeeklySchedule()
	s.seedPreexisting(schedule, snapshot, eligible, now)

	areas := s.Areas.Areas()
	weekStart := WeekStart(today)
	for w := 0; w < s.Config.HorizonWeeks; w++ {
		s.PlanWeek(schedule, weekStart.AddDate(0, 0, 7*w), today, areas, eligible)
	}

	plan, unassigned := s.Assign(schedule, eligible, today)

	// A task whose live window closes beyond the horizon is not stranded:
	// a later run will still have dates for it. Only windows that end
	// inside the horizon go to the edge-case resolver; the rest wait.
	horizonEnd := weekStart.AddDate(0, 0, 7*s.Config.HorizonWeeks)
	var resolvable []*models.PendingTask
	deferred := make(map[string]bool)
	for _, task := range unassigned {
		if task.LiveEnd.Before(horizonEnd) {
			resolvable = append(resolvable, task)
		} else {
			deferred[task.ID] = true
		}
	}

	exceptions, unschedulable := s.ResolveExceptions(schedule, plan, resolvable, eligible, today)

	committable := make([]*models.PendingTask, 0, len(eligible))
	for _, task := range eligible {
		if !deferred[task.ID] {
			committable = append(committable, task)
		}
	}

	summary := s.Commit(schedule, plan, committable, now)
	summary.Today = today
	summary.HorizonWeeks = s.Config.HorizonWeeks
	summary.WeeksProcessed = s.Config.HorizonWeeks
	summary.Deferred = len(deferred)
	summary.Warnings = warnings
	summary.Exceptions = exceptions
	summary.Unschedulable = unschedulable
	return summary, nil
}

// seedPreexisting registers already-committed crew visits in the week
// accumulator. A future filming date on a task this run must not touch
// (frozen or manually pinned) is a real visit: it counts against the weekly
// cap and is a backfill target for bundling.
func (s *Scheduler) seedPreexisting(schedule *models.WeeklySchedule, snapshot []models.PendingTask, eligible []*models.PendingTask, now time.Time) {
	today := Midnight(now, s.Config.Timezone)

	eligibleIDs := make(map[string]bool, len(eligible))
	for _, t := range eligible {
		eligibleIDs[t.ID] = true
	}

	type visitKey struct {
		date time.Time
		area models.Area
	}
	visits := make(map[visitKey]*models.ShootDay)
	var order []visitKey

	for i := range snapshot {
		task := snapshot[i]
		if eligibleIDs[task.ID] || task.CurrentFilmingDate == nil {
			continue
		}
		area := s.Areas.Resolve(task.Location)
		if area == models.AreaUnclassified {
			continue
		}
		date := Midnight(*task.CurrentFilmingDate, s.Config.Timezone)
		if !date.After(today) {
			continue
		}
		key := visitKey{date: date, area: area}
		sd, ok := visits[key]
		if !ok {
			sd = &models.ShootDay{
				Date:        date,
				Areas:       []models.Area{area},
				Exception:   models.ExceptionNone,
				Preexisting: true,
				Score:       ScoreDate(date, area, eligible),
			}
			visits[key] = sd
			order = append(order, key)
		}
		sd.AssignedTasks = append(sd.AssignedTasks, task.ID)
		if task.TimeBlock.Valid() {
			sd.AddTimeBlock(task.TimeBlock)
		}
	}

	sort.Slice(order, func(i, j int) bool {
		if !order[i].date.Equal(order[j].date) {
			return order[i].date.Before(order[j].date)
		}
		return order[i].area < order[j].area
	})
	for _, key := range order {
		schedule.Add(visits[key])
	}
}
