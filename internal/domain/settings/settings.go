package settings

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// settingsID is the fixed key of the singleton row. Every accessor goes
// through this id so a second row can never appear.
const settingsID = "system"

type SystemSetting struct {
	AppName              string `json:"appName"`
	SystemTheme          string `json:"systemTheme"`
	MaintenanceMode      bool   `json:"maintenanceMode"`
	NotificationsEnabled bool   `json:"notificationsEnabled"`
	EmailNotifications   bool   `json:"emailNotifications"`
}

func Defaults() SystemSetting {
	return SystemSetting{
		AppName:              "PerfTrack",
		SystemTheme:          "light",
		MaintenanceMode:      false,
		NotificationsEnabled: true,
		EmailNotifications:   false,
	}
}

type FieldChange struct {
	Field string `json:"field"`
	Old   any    `json:"old"`
	New   any    `json:"new"`
}

// Diff lists the fields whose values actually differ, in declaration
// order. An empty result means a no-op update.
func Diff(old, next SystemSetting) []FieldChange {
	var changes []FieldChange
	if old.AppName != next.AppName {
		changes = append(changes, FieldChange{Field: "appName", Old: old.AppName, New: next.AppName})
	}
	if old.SystemTheme != next.SystemTheme {
		changes = append(changes, FieldChange{Field: "systemTheme", Old: old.SystemTheme, New: next.SystemTheme})
	}
	if old.MaintenanceMode != next.MaintenanceMode {
		changes = append(changes, FieldChange{Field: "maintenanceMode", Old: old.MaintenanceMode, New: next.MaintenanceMode})
	}
	if old.NotificationsEnabled != next.NotificationsEnabled {
		changes = append(changes, FieldChange{Field: "notificationsEnabled", Old: old.NotificationsEnabled, New: next.NotificationsEnabled})
	}
	if old.EmailNotifications != next.EmailNotifications {
		changes = append(changes, FieldChange{Field: "emailNotifications", Old: old.EmailNotifications, New: next.EmailNotifications})
	}
	return changes
}

type Service struct {
	DB *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Service {
	return &Service{DB: db}
}

// Get reads the singleton settings row, creating it with defaults the
// first time anything asks for it.
func (s *Service) Get(ctx context.Context) (SystemSetting, error) {
	defaults := Defaults()
	if _, err := s.DB.Exec(ctx, `
    INSERT INTO system_settings (id, app_name, system_theme, maintenance_mode, notifications_enabled, email_notifications)
    VALUES ($1,$2,$3,$4,$5,$6)
    ON CONFLICT (id) DO NOTHING
  `, settingsID, defaults.AppName, defaults.SystemTheme, defaults.MaintenanceMode, defaults.NotificationsEnabled, defaults.EmailNotifications); err != nil {
		return SystemSetting{}, err
	}

	var out SystemSetting
	err := s.DB.QueryRow(ctx, `
    SELECT app_name, system_theme, maintenance_mode, notifications_enabled, email_notifications
    FROM system_settings
    WHERE id = $1
  `, settingsID).Scan(&out.AppName, &out.SystemTheme, &out.MaintenanceMode, &out.NotificationsEnabled, &out.EmailNotifications)
	return out, err
}

// Update persists the new values and reports which fields changed. A
// payload identical to the current row writes nothing and returns no
// changes, so callers can skip their audit entry.
func (s *Service) Update(ctx context.Context, next SystemSetting) ([]FieldChange, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	changes := Diff(current, next)
	if len(changes) == 0 {
		return nil, nil
	}

	_, err = s.DB.Exec(ctx, `
    UPDATE system_settings
    SET app_name = $1, system_theme = $2, maintenance_mode = $3, notifications_enabled = $4, email_notifications = $5, updated_at = now()
    WHERE id = $6
  `, next.AppName, next.SystemTheme, next.MaintenanceMode, next.NotificationsEnabled, next.EmailNotifications, settingsID)
	if err != nil {
		return nil, err
	}
	return changes, nil
}
