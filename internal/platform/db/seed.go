package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"perftrack/internal/domain/auth"
	"perftrack/internal/domain/notifications"
	"perftrack/internal/platform/config"
)

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensureSettings(ctx, pool, cfg.AppName); err != nil {
		return err
	}
	if err := ensureTriggers(ctx, pool); err != nil {
		return err
	}
	if cfg.SeedAdminEmail != "" && cfg.SeedAdminPassword != "" {
		if err := ensureAdminUser(ctx, pool, cfg.SeedAdminName, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
			return err
		}
	}
	return nil
}

func ensureSettings(ctx context.Context, pool *pgxpool.Pool, appName string) error {
	_, err := pool.Exec(ctx, `
    INSERT INTO system_settings (id, app_name, system_theme, maintenance_mode, notifications_enabled, email_notifications)
    VALUES ('system', $1, 'light', false, true, false)
    ON CONFLICT (id) DO NOTHING
  `, appName)
	return err
}

func ensureTriggers(ctx context.Context, pool *pgxpool.Pool) error {
	defaults := []struct {
		event    string
		template string
	}{
		{notifications.EventDeadlineApproaching, "Your goal \"{title}\" is due soon."},
		{notifications.EventReviewDue, "A performance review for you is due."},
		{notifications.EventFeedbackRequest, "{actor} requested your feedback: {title}"},
		{notifications.EventEvaluationCompleted, "{actor} evaluated you on {criteria}."},
		{notifications.EventNewAssignment, "{actor} assigned you a new goal: {title}"},
	}
	for _, d := range defaults {
		_, err := pool.Exec(ctx, `
      INSERT INTO auto_message_triggers (event_name, message_template, is_active)
      VALUES ($1, $2, true)
      ON CONFLICT (event_name) DO NOTHING
    `, d.event, d.template)
		if err != nil {
			return err
		}
	}
	return nil
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, name, email, password string) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE email = $1", email).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO users (name, email, password_hash, role)
    VALUES ($1, $2, $3, $4)
  `, name, email, hash, auth.RoleAdmin)
	return err
}
