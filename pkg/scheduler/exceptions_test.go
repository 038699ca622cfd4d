package scheduler

import (
	"testing"

	"github.com/adcapture/shoot-scheduler-go/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleCampaignRescue(t *testing.T) {
	// A lone harbor-north campaign with a short window and no partner
	// anywhere: gets its own standalone visit on an allowed weekday.
	s := newTestScheduler(newFakeStore(), &fakeNotifier{}, janAt(8, 9))
	tasks := eligibleTasks(s, task("t1", "Pier 4", jan(10), jan(12)))

	schedule := models.NewWeeklySchedule()
	plan := make(map[string]*models.ShootDay)
	applied, unschedulable := s.ResolveExceptions(schedule, plan, tasks, tasks, jan(8))

	assert.Empty(t, unschedulable)
	require.Len(t, applied, 1)
	assert.Equal(t, models.ExceptionSingleCampaign, applied[0].Type)
	require.Contains(t, plan, "t1")

	sd := plan["t1"]
	assert.Equal(t, jan(11), sd.Date, "Thu Jan 11 is the earliest allowed in-window weekday")
	assert.Equal(t, models.ExceptionSingleCampaign, sd.Exception)
	assert.Equal(t, []string{"t1"}, sd.AssignedTasks)
}

func TestSingleCampaignBlockedByPartner(t *testing.T) {
	s := newTestScheduler(newFakeStore(), &fakeNotifier{}, janAt(8, 9))
	tasks := eligibleTasks(s,
		task("t1", "Pier 4", jan(10), jan(12)),
		task("t2", "Pier 4", jan(11), jan(20)),
	)

	schedule := models.NewWeeklySchedule()
	plan := make(map[string]*models.ShootDay)
	// Only t1 is stranded; its overlapping partner disqualifies the
	// single-campaign rule and no dual-area pairing exists.
	applied, unschedulable := s.ResolveExceptions(schedule, plan, tasks[:1], tasks, jan(8))

	assert.Empty(t, applied)
	require.Len(t, unschedulable, 1)
	assert.Equal(t, "t1", unschedulable[0].TaskID)
}

func TestSingleCampaignRespectsWeeklyCap(t *testing.T) {
	s := newTestScheduler(newFakeStore(), &fakeNotifier{}, janAt(8, 9))
	tasks := eligibleTasks(s, task("t1", "Pier 4", jan(10), jan(12)))

	schedule := models.NewWeeklySchedule()
	schedule.Add(&models.ShootDay{Date: jan(9), Areas: []models.Area{"city-ring"}, Preexisting: true})
	schedule.Add(&models.ShootDay{Date: jan(12), Areas: []models.Area{"city-ring"}, Preexisting: true})

	plan := make(map[string]*models.ShootDay)
	applied, unschedulable := s.ResolveExceptions(schedule, plan, tasks, tasks, jan(8))

	// Week at cap and no second stranded area: the dual-area rule needs a
	// partner task, so the campaign is reported, not rescued.
	assert.Empty(t, applied)
	require.Len(t, unschedulable, 1)
}

func TestDualAreaSameDayRescue(t *testing.T) {
	s := newTestScheduler(newFakeStore(), &fakeNotifier{}, janAt(8, 9))

	aExp := task("a-exp", "Pier 4", jan(10), jan(12))
	bExp := task("b-exp", "Ring Road 12", jan(10), jan(13))
	bExp.TimeBlock = models.TimeBlockNight
	tasks := eligibleTasks(s, aExp, bExp)

	// The week is already at the two-shoot cap.
	schedule := models.NewWeeklySchedule()
	schedule.Add(&models.ShootDay{Date: jan(9), Areas: []models.Area{"airport"}, Preexisting: true})
	schedule.Add(&models.ShootDay{Date: jan(12), Areas: []models.Area{"airport"}, Preexisting: true})

	plan := make(map[string]*models.ShootDay)
	applied, unschedulable := s.ResolveExceptions(schedule, plan, tasks, tasks, jan(8))

	assert.Empty(t, unschedulable)
	require.Len(t, applied, 1)
	assert.Equal(t, models.ExceptionDualAreaDay, applied[0].Type)

	sd := plan["a-exp"]
	require.NotNil(t, sd)
	assert.Same(t, sd, plan["b-exp"], "both stranded tasks share the visit")
	assert.Equal(t, []models.Area{"harbor-north", "city-ring"}, sd.Areas)
	assert.ElementsMatch(t, []models.TimeBlock{models.TimeBlockDay, models.TimeBlockNight}, sd.TimeBlocks)
	assert.True(t, aExp.LiveContains(sd.Date), "date must sit in both windows")
	assert.True(t, bExp.LiveContains(sd.Date))

	// The rescue explicitly steps over the cap: 2 regular + 1 flagged.
	key := models.WeekKeyOf(sd.Date)
	assert.Equal(t, 2, schedule.CountRegular(key))
	assert.Len(t, schedule.Weeks[key], 3)
}

func TestUnschedulableWhenWindowHasNoAllowedWeekday(t *testing.T) {
	// Sat Jan 13 – Sun Jan 14: no Tue/Thu/Fri, week under cap, no partner
	// in another area. Both exceptions pass; the task is reported.
	s := newTestScheduler(newFakeStore(), &fakeNotifier{}, janAt(8, 9))
	tasks := eligibleTasks(s, task("t1", "Pier 4", jan(13), jan(14)))

	schedule := models.NewWeeklySchedule()
	plan := make(map[string]*models.ShootDay)
	applied, unschedulable := s.ResolveExceptions(schedule, plan, tasks, tasks, jan(8))

	assert.Empty(t, applied)
	require.Len(t, unschedulable, 1)
	assert.Equal(t, "t1", unschedulable[0].TaskID)
	assert.Equal(t, models.Area("harbor-north"), unschedulable[0].Area)
	assert.Empty(t, plan)
}

func TestResolveOrdersMostUrgentFirst(t *testing.T) {
	s := newTestScheduler(newFakeStore(), &fakeNotifier{}, janAt(8, 9))

	// Two lone campaigns in different areas, non-overlapping weeks; both
	// take the single-campaign path independent of intake order.
	late := task("late", "Pier 4", jan(22), jan(24))
	soon := task("soon", "Ring Road 12", jan(10), jan(12))
	tasks := eligibleTasks(s, late, soon)

	schedule := models.NewWeeklySchedule()
	plan := make(map[string]*models.ShootDay)
	applied, unschedulable := s.ResolveExceptions(schedule, plan, tasks, tasks, jan(8))

	assert.Empty(t, unschedulable)
	require.Len(t, applied, 2)
	assert.Equal(t, []string{"soon"}, applied[0].TaskIDs, "tightest window is rescued first")
	assert.Equal(t, []string{"late"}, applied[1].TaskIDs)
}
