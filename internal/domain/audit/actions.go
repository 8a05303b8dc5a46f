package audit

// Recognized audit actions. The recorder only ever appends; nothing in
// the application updates or deletes audit rows.
const (
	ActionLoginSuccess          = "login-success"
	ActionLoginFailure          = "login-failure"
	ActionPasswordChangeSuccess = "password-change-success"
	ActionPasswordChangeFailure = "password-change-failure"
	ActionSettingsUpdate        = "settings-update"
	ActionBackupSuccess         = "backup-success"
	ActionBackupFailure         = "backup-failure"
	ActionBatchAssignSuccess    = "batch-assignment-success"
	ActionBatchAssignFailure    = "batch-assignment-failure"
	ActionNotificationsRead     = "notifications-read"
	ActionStartup               = "system-startup"
)
