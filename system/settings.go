// Package system holds runtime settings that gate message relaying.
package system

import (
	"database/sql"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Settings struct {
	gorm.Model
	MaintenanceMode bool         `gorm:"column:maintenance_mode;default:false"`
	PausedSince     sql.NullTime `gorm:"column:paused_since"`
}

func (Settings) TableName() string {
	return "system_settings"
}

func (s *Settings) String() string {
	return fmt.Sprintf("MaintenanceMode: %t, PausedSince: %v", s.MaintenanceMode, s.PausedSince.Time)
}

// PausedUntil returns when a pause of length d started at PausedSince ends.
// ok is false when the relay was never paused.
func (s *Settings) PausedUntil(d time.Duration) (until time.Time, ok bool) {
	if !s.PausedSince.Valid {
		return time.Time{}, false
	}
	return s.PausedSince.Time.Add(d), true
}

func (s *Settings) ToJSON() SettingsJSON {
	j := SettingsJSON{MaintenanceMode: s.MaintenanceMode}
	if s.PausedSince.Valid {
		t := s.PausedSince.Time
		j.PausedSince = &t
	}
	return j
}

// FromJSON copies the writable fields. PausedSince is managed by Pause only.
func (s *Settings) FromJSON(j SettingsJSON) {
	s.MaintenanceMode = j.MaintenanceMode
}

type SettingsJSON struct {
	MaintenanceMode bool       `json:"maintenanceMode"`
	PausedSince     *time.Time `json:"pausedSince,omitempty"`
}
