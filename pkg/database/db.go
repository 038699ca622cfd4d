package database

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskRecord is the pending-task row consumed by the scheduler. Tasks are
// created and edited by the upstream CRM; this service only ever writes
// FilmingDate.
type TaskRecord struct {
	ID               string     `gorm:"primaryKey" json:"id"`
	Location         string     `gorm:"not null" json:"location"`
	Status           string     `gorm:"index;default:pending" json:"status"`
	LiveStart        time.Time  `gorm:"not null" json:"live_start"`
	LiveEnd          time.Time  `gorm:"not null" json:"live_end"`
	BriefSubmittedAt *time.Time `json:"brief_submitted_at"`
	TimeBlock        string     `gorm:"not null" json:"time_block"`
	ManualOverride   bool       `gorm:"default:false" json:"manual_override"`
	FilmingDate      *time.Time `json:"filming_date"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Notification is an outbox row for the messaging channel: either a filming
// date change or an unschedulable warning.
type Notification struct {
	ID        string     `gorm:"primaryKey" json:"id"`
	Kind      string     `gorm:"index;not null" json:"kind"`
	TaskID    string     `gorm:"index;not null" json:"task_id"`
	OldDate   *time.Time `json:"old_date"`
	NewDate   *time.Time `json:"new_date"`
	Area      string     `json:"area"`
	LiveStart *time.Time `json:"live_start"`
	LiveEnd   *time.Time `json:"live_end"`
	CreatedAt time.Time  `json:"created_at"`
}

// Notification kinds.
const (
	NotificationDateChanged   = "date_changed"
	NotificationUnschedulable = "unschedulable"
)

// ScheduleRun is the per-run audit record.
type ScheduleRun struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	StartedAt    time.Time `gorm:"index" json:"started_at"`
	HorizonWeeks int       `json:"horizon_weeks"`
	Summary      string    `gorm:"type:text" json:"summary"`
	CreatedAt    time.Time `json:"created_at"`
}

// APIKey represents the api_keys table
type APIKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Key        string     `gorm:"unique;not null" json:"key"`
	Name       string     `gorm:"not null" json:"name"`
	KeyPreview string     `json:"key_preview"`
	RateLimit  int        `gorm:"default:10000" json:"rate_limit"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsed   *time.Time `json:"last_used"`
}

// APIUsage represents the api_usage table
type APIUsage struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	KeyID        uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date         string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount int    `gorm:"default:0" json:"request_count"`
	TotalRuns    int    `gorm:"default:0" json:"total_runs"`
	TotalTasks   int    `gorm:"default:0" json:"total_tasks"`
}

// MasterUser represents the master_users table
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// InitDB initializes the database connection and migrates the schema
func InitDB() *gorm.DB {
	var db *gorm.DB
	var err error

	dsn := os.Getenv("DATABASE_URL")
	if dsn != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	} else {
		dbPath := os.Getenv("DATA_PATH")
		if dbPath == "" {
			dbPath = "shoot_scheduler.db"
		}
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	}

	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	// Auto Migration
	db.AutoMigrate(&TaskRecord{}, &Notification{}, &ScheduleRun{}, &APIKey{}, &APIUsage{}, &MasterUser{})

	return db
}
