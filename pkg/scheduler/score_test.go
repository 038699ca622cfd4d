package scheduler

import (
	"testing"
	"time"

	"github.com/adcapture/shoot-scheduler-go/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eligibleTasks(s *Scheduler, tasks ...*models.PendingTask) []*models.PendingTask {
	snapshot := make([]models.PendingTask, 0, len(tasks))
	for _, tk := range tasks {
		snapshot = append(snapshot, *tk)
	}
	out, _ := s.Classify(snapshot, janAt(8, 9))
	return out
}

func TestCandidateDatesRespectWeekdaysAndWindows(t *testing.T) {
	s := newTestScheduler(newFakeStore(), &fakeNotifier{}, janAt(8, 9))
	tasks := eligibleTasks(s, task("t1", "Pier 4", jan(10), jan(31)))

	dates := s.CandidateDates(jan(8), jan(8), "harbor-north", tasks)
	// Week of Jan 8: Tue 9 precedes the window, Thu 11 and Fri 12 qualify.
	require.Len(t, dates, 2)
	assert.Equal(t, jan(11), dates[0])
	assert.Equal(t, jan(12), dates[1])
}

func TestCandidateDatesExcludeTodayAndPast(t *testing.T) {
	s := newTestScheduler(newFakeStore(), &fakeNotifier{}, janAt(8, 9))
	tasks := eligibleTasks(s, task("t1", "Pier 4", jan(1), jan(31)))

	// "Today" is Thursday Jan 11: only Friday remains in this week.
	dates := s.CandidateDates(jan(8), jan(11), "harbor-north", tasks)
	require.Len(t, dates, 1)
	assert.Equal(t, jan(12), dates[0])
}

func TestCandidateDatesEmptyWhenNoWindowIntersects(t *testing.T) {
	s := newTestScheduler(newFakeStore(), &fakeNotifier{}, janAt(8, 9))
	tasks := eligibleTasks(s, task("t1", "Pier 4", jan(20), jan(31)))

	dates := s.CandidateDates(jan(8), jan(8), "harbor-north", tasks)
	assert.Empty(t, dates, "week/area pairs with no live window are skipped")
}

func TestScoreDateBaseAndUrgency(t *testing.T) {
	s := newTestScheduler(newFakeStore(), &fakeNotifier{}, janAt(8, 9))
	// 10-day window: 1 + 1/10. Jan 12 is 9 days from expiry, outside both
	// bonus tiers.
	tasks := eligibleTasks(s, task("t1", "Pier 4", jan(12), jan(21)))

	score := ScoreDate(jan(12), "harbor-north", tasks)
	assert.InDelta(t, 1.0+1.0/10.0, score, 1e-9)
}

func TestScoreDateExpiryTiers(t *testing.T) {
	s := newTestScheduler(newFakeStore(), &fakeNotifier{}, janAt(8, 9))
	tasks := eligibleTasks(s, task("t1", "Pier 4", jan(1), jan(20)))
	base := 1.0 + 1.0/20.0

	assert.InDelta(t, base+2.0, ScoreDate(jan(18), "harbor-north", tasks), 1e-9, "within 3 days of expiry")
	assert.InDelta(t, base+1.0, ScoreDate(jan(14), "harbor-north", tasks), 1e-9, "within 7 days of expiry")
	assert.InDelta(t, base, ScoreDate(jan(10), "harbor-north", tasks), 1e-9, "no bonus tier")
}

func TestScoreDateExpiryTierUsesCalendarDays(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	at := func(m time.Month, d int) time.Time { return time.Date(2024, m, d, 0, 0, 0, 0, berlin) }

	tk := &models.PendingTask{
		ID:        "t1",
		Area:      "harbor-north",
		LiveStart: at(time.March, 20),
		LiveEnd:   at(time.April, 3),
		TimeBlock: models.TimeBlockDay,
	}

	// Mar 26 is 8 calendar days from expiry, outside both bonus tiers, even
	// though the spring-forward day leaves the span an hour short of eight
	// full days.
	score := ScoreDate(at(time.March, 26), "harbor-north", []*models.PendingTask{tk})
	assert.InDelta(t, 1.0+1.0/15.0, score, 1e-9)
}

func TestScoreDateSumsContributions(t *testing.T) {
	s := newTestScheduler(newFakeStore(), &fakeNotifier{}, janAt(8, 9))
	tasks := eligibleTasks(s,
		task("t1", "Pier 4", jan(10), jan(31)),
		task("t2", "Pier 4", jan(10), jan(31)),
		task("b1", "Ring Road 12", jan(10), jan(31)),
	)

	score := ScoreDate(jan(16), "harbor-north", tasks)
	perTask := 1.0 + 1.0/22.0
	assert.InDelta(t, 2*perTask, score, 1e-9, "other areas never contribute")
}

func TestScoreDateBriefGating(t *testing.T) {
	s := newTestScheduler(newFakeStore(), &fakeNotifier{}, janAt(8, 9))

	late := task("t1", "Pier 4", jan(10), jan(31))
	brief := janAt(14, 15)
	late.BriefSubmittedAt = &brief
	tasks := eligibleTasks(s, late)

	assert.Zero(t, ScoreDate(jan(12), "harbor-north", tasks), "cannot film before the brief exists")
	assert.Positive(t, ScoreDate(jan(14), "harbor-north", tasks), "brief submitted during the day still counts")
	assert.Positive(t, ScoreDate(jan(16), "harbor-north", tasks))
}

func TestScoreDateMissingBriefIsNoConstraint(t *testing.T) {
	s := newTestScheduler(newFakeStore(), &fakeNotifier{}, janAt(8, 9))
	tasks := eligibleTasks(s, task("t1", "Pier 4", jan(10), jan(31)))
	assert.Positive(t, ScoreDate(jan(10), "harbor-north", tasks))
}

func TestScoreDateDeterministic(t *testing.T) {
	s := newTestScheduler(newFakeStore(), &fakeNotifier{}, janAt(8, 9))
	tasks := eligibleTasks(s,
		task("t1", "Pier 4", jan(10), jan(25)),
		task("t2", "Pier 4", jan(12), jan(22)),
	)
	first := ScoreDate(jan(16), "harbor-north", tasks)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, ScoreDate(jan(16), "harbor-north", tasks))
	}
}
