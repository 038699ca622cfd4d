package database

import (
	"encoding/json"
	"time"

	"github.com/adcapture/shoot-scheduler-go/pkg/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskStatusPending marks tasks awaiting a filming date.
const TaskStatusPending = "pending"

// GormTaskStore adapts the tasks table to the scheduler's TaskStore port.
type GormTaskStore struct {
	DB *gorm.DB
}

// ListPendingTasks returns the snapshot the run plans against, in stable id
// order.
func (s *GormTaskStore) ListPendingTasks() ([]models.PendingTask, error) {
	var records []TaskRecord
	if err := s.DB.Where("status = ?", TaskStatusPending).Order("id asc").Find(&records).Error; err != nil {
		return nil, err
	}
	tasks := make([]models.PendingTask, 0, len(records))
	for i := range records {
		tasks = append(tasks, toPendingTask(&records[i]))
	}
	return tasks, nil
}

// GetTask re-reads one task for the pre-write optimistic check.
func (s *GormTaskStore) GetTask(id string) (*models.PendingTask, error) {
	var record TaskRecord
	if err := s.DB.First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	task := toPendingTask(&record)
	return &task, nil
}

// SetFilmingDate upserts the filming date for one task. Idempotent per id.
func (s *GormTaskStore) SetFilmingDate(id string, date time.Time) error {
	return s.DB.Model(&TaskRecord{}).Where("id = ?", id).Update("filming_date", date).Error
}

func toPendingTask(r *TaskRecord) models.PendingTask {
	return models.PendingTask{
		ID:                 r.ID,
		Location:           r.Location,
		LiveStart:          r.LiveStart,
		LiveEnd:            r.LiveEnd,
		BriefSubmittedAt:   r.BriefSubmittedAt,
		TimeBlock:          models.TimeBlock(r.TimeBlock),
		ManualOverride:     r.ManualOverride,
		CurrentFilmingDate: r.FilmingDate,
	}
}

// OutboxNotifier persists scheduler events as outbox rows; a downstream
// relay drains them into the operator messaging channel.
type OutboxNotifier struct {
	DB *gorm.DB
}

// DateChanged records a filming-date move.
func (n *OutboxNotifier) DateChanged(taskID string, oldDate *time.Time, newDate time.Time) error {
	return n.DB.Create(&Notification{
		ID:      uuid.NewString(),
		Kind:    NotificationDateChanged,
		TaskID:  taskID,
		OldDate: oldDate,
		NewDate: &newDate,
	}).Error
}

// Unschedulable records a task no rule could place.
func (n *OutboxNotifier) Unschedulable(w models.UnschedulableTask) error {
	liveStart, liveEnd := w.LiveStart, w.LiveEnd
	return n.DB.Create(&Notification{
		ID:        uuid.NewString(),
		Kind:      NotificationUnschedulable,
		TaskID:    w.TaskID,
		Area:      string(w.Area),
		LiveStart: &liveStart,
		LiveEnd:   &liveEnd,
	}).Error
}

// SaveRun writes the audit record for one completed pass.
func SaveRun(db *gorm.DB, startedAt time.Time, summary models.RunSummary) (*ScheduleRun, error) {
	payload, err := json.Marshal(summary)
	if err != nil {
		return nil, err
	}
	run := &ScheduleRun{
		ID:           uuid.NewString(),
		StartedAt:    startedAt,
		HorizonWeeks: summary.HorizonWeeks,
		Summary:      string(payload),
	}
	if err := db.Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}
