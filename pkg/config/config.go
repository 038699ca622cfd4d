package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/adcapture/shoot-scheduler-go/pkg/models"
	"gopkg.in/yaml.v3"
)

// AreaEntry is one row of the location→area mapping table. Declaration order
// in the YAML file is the deterministic processing order for areas.
type AreaEntry struct {
	Name      string   `yaml:"name"`
	Locations []string `yaml:"locations"`
}

// AreaTable is the external location→area mapping, reloaded per run.
type AreaTable struct {
	Entries []AreaEntry `yaml:"areas"`
}

// LoadAreaTable reads and validates the YAML mapping file.
func LoadAreaTable(path string) (*AreaTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("area table: %w", err)
	}
	var table AreaTable
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("area table: %w", err)
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &table, nil
}

// Validate rejects empty or ambiguous tables before any planning happens.
func (t *AreaTable) Validate() error {
	if len(t.Entries) == 0 {
		return fmt.Errorf("area table: no areas defined")
	}
	seen := make(map[string]bool)
	for _, e := range t.Entries {
		if e.Name == "" {
			return fmt.Errorf("area table: entry with empty name")
		}
		if seen[e.Name] {
			return fmt.Errorf("area table: duplicate area %q", e.Name)
		}
		seen[e.Name] = true
		if len(e.Locations) == 0 {
			return fmt.Errorf("area table: area %q has no locations", e.Name)
		}
	}
	return nil
}

// Areas returns the area tags in declaration order.
func (t *AreaTable) Areas() []models.Area {
	out := make([]models.Area, 0, len(t.Entries))
	for _, e := range t.Entries {
		out = append(out, models.Area(e.Name))
	}
	return out
}

// Resolve maps a raw location string to its area. Matching is on the trimmed,
// case-folded location; unmapped locations yield AreaUnclassified.
func (t *AreaTable) Resolve(location string) models.Area {
	needle := strings.ToLower(strings.TrimSpace(location))
	for _, e := range t.Entries {
		for _, loc := range e.Locations {
			if strings.ToLower(strings.TrimSpace(loc)) == needle {
				return models.Area(e.Name)
			}
		}
	}
	return models.AreaUnclassified
}

// ScheduleConfig holds the knobs of one scheduling pass.
type ScheduleConfig struct {
	HorizonWeeks    int            `json:"horizon_weeks"`
	AllowedWeekdays []time.Weekday `json:"allowed_weekdays"`
	WeeklyCap       int            `json:"weekly_cap"`
	MinGapDays      int            `json:"min_gap_days"`
	FreezeWindow    time.Duration  `json:"freeze_window"`
	Timezone        *time.Location `json:"-"`
}

// Default returns the production configuration: 4-week horizon, shoots on
// Tue/Thu/Fri, one crew with at most 2 visits a week at least a day apart,
// and the 24h T-1 freeze.
func Default() ScheduleConfig {
	return ScheduleConfig{
		HorizonWeeks:    4,
		AllowedWeekdays: []time.Weekday{time.Tuesday, time.Thursday, time.Friday},
		WeeklyCap:       2,
		MinGapDays:      1,
		FreezeWindow:    24 * time.Hour,
		Timezone:        time.UTC,
	}
}

// FromEnv builds the config from environment variables, falling back to
// defaults. SCHEDULE_TZ must name a loadable IANA zone.
func FromEnv() (ScheduleConfig, error) {
	cfg := Default()
	if tz := os.Getenv("SCHEDULE_TZ"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return cfg, fmt.Errorf("config: bad SCHEDULE_TZ %q: %w", tz, err)
		}
		cfg.Timezone = loc
	}
	if wd := os.Getenv("SCHEDULE_WEEKDAYS"); wd != "" {
		days, err := ParseWeekdays(wd)
		if err != nil {
			return cfg, err
		}
		cfg.AllowedWeekdays = days
	}
	return cfg, cfg.Validate()
}

var weekdayNames = map[string]time.Weekday{
	"mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
	"sun": time.Sunday,
}

// ParseWeekdays parses a comma-separated weekday list like "tue,thu,fri".
func ParseWeekdays(s string) ([]time.Weekday, error) {
	var out []time.Weekday
	for _, part := range strings.Split(s, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if len(name) > 3 {
			name = name[:3]
		}
		day, ok := weekdayNames[name]
		if !ok {
			return nil, fmt.Errorf("config: unknown weekday %q", part)
		}
		out = append(out, day)
	}
	return out, nil
}

// Validate fails fast on malformed configuration; nothing is planned or
// written once this errors.
func (c ScheduleConfig) Validate() error {
	if c.HorizonWeeks < 1 {
		return fmt.Errorf("config: horizon must be at least 1 week, got %d", c.HorizonWeeks)
	}
	if len(c.AllowedWeekdays) == 0 {
		return fmt.Errorf("config: allowed weekday set is empty")
	}
	if c.WeeklyCap < 1 {
		return fmt.Errorf("config: weekly cap must be at least 1, got %d", c.WeeklyCap)
	}
	if c.MinGapDays < 1 {
		return fmt.Errorf("config: minimum gap must be at least 1 day, got %d", c.MinGapDays)
	}
	if c.Timezone == nil {
		return fmt.Errorf("config: no timezone")
	}
	return nil
}

// AllowsWeekday reports whether shoots may normally land on day.
func (c ScheduleConfig) AllowsWeekday(day time.Weekday) bool {
	for _, d := range c.AllowedWeekdays {
		if d == day {
			return true
		}
	}
	return false
}
