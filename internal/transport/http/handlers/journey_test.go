package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"perftrack/internal/app/server"
	"perftrack/internal/platform/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   any             `json:"error"`
}

func testConfig(dbURL string) config.Config {
	return config.Config{
		Addr:               ":0",
		DatabaseURL:        dbURL,
		JWTSecret:          "test-secret",
		Environment:        "test",
		AppName:            "PerfTrack",
		SeedAdminName:      "System Administrator",
		SeedAdminEmail:     "admin@test.local",
		SeedAdminPassword:  "ChangeMe123!",
		RunMigrations:      true,
		RunSeed:            true,
		MigrationsDir:      "../../../../migrations",
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 1000,
		MetricsEnabled:     true,
	}
}

func startApp(t *testing.T) (*httptest.Server, config.Config) {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := testConfig(dbURL)
	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	t.Cleanup(app.Close)

	ts := httptest.NewServer(app.Router)
	t.Cleanup(ts.Close)
	return ts, cfg
}

func TestGoalAndScoreJourney(t *testing.T) {
	ts, cfg := startApp(t)
	client := ts.Client()

	adminToken := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	suffix := time.Now().UnixNano()
	supervisorEmail := fmt.Sprintf("supervisor-%d@example.com", suffix)
	employeeEmail := fmt.Sprintf("employee-%d@example.com", suffix)
	outsiderEmail := fmt.Sprintf("outsider-%d@example.com", suffix)

	supervisorID := createUser(t, client, ts.URL, adminToken, supervisorEmail, "SUPERVISOR", "")
	employeeID := createUser(t, client, ts.URL, adminToken, employeeEmail, "EMPLOYEE", "")
	createUser(t, client, ts.URL, adminToken, outsiderEmail, "EMPLOYEE", "")

	// Admin assigns the supervisor; the employee gets notified.
	postJSON(t, client, ts.URL+"/api/v1/assignments/update", adminToken, map[string]any{
		"employeeId":   employeeID,
		"supervisorId": supervisorID,
	})

	employeeToken := login(t, client, ts.URL, employeeEmail, "Password123!")
	supervisorToken := login(t, client, ts.URL, supervisorEmail, "Password123!")
	outsiderToken := login(t, client, ts.URL, outsiderEmail, "Password123!")

	notificationsBody := getJSON(t, client, ts.URL+"/api/v1/notifications", employeeToken)
	var notificationsPayload struct {
		Notifications []map[string]any `json:"notifications"`
		Total         int              `json:"total"`
	}
	if err := json.Unmarshal(notificationsBody.Data, &notificationsPayload); err != nil {
		t.Fatalf("failed to decode notifications: %v", err)
	}
	if notificationsPayload.Total == 0 {
		t.Fatal("expected a supervisor assignment notification")
	}
	message, _ := notificationsPayload.Notifications[0]["message"].(string)
	if !strings.Contains(message, "assigned supervisor") {
		t.Fatalf("unexpected notification message: %s", message)
	}

	// Supervisor creates a goal for the direct report and becomes its
	// pinned supervisor.
	goalResp := postJSON(t, client, ts.URL+"/api/v1/goals", supervisorToken, map[string]any{
		"title":      "Ship quarterly report",
		"employeeId": employeeID,
		"dueDate":    "2026-12-31",
	})
	goalID := idFrom(t, goalResp)

	goalBody := getJSON(t, client, ts.URL+"/api/v1/goals/"+goalID, employeeToken)
	var goal map[string]any
	if err := json.Unmarshal(goalBody.Data, &goal); err != nil {
		t.Fatalf("failed to decode goal: %v", err)
	}
	if goal["supervisorId"] != supervisorID {
		t.Fatalf("expected goal supervisor %s, got %v", supervisorID, goal["supervisorId"])
	}

	// An unrelated employee can neither read the goal nor list it.
	getJSONStatus(t, client, ts.URL+"/api/v1/goals/"+goalID, outsiderToken, http.StatusForbidden)
	getJSONStatus(t, client, ts.URL+"/api/v1/goals?employeeId="+employeeID, outsiderToken, http.StatusForbidden)

	// Scores are self-attested: naming someone else as evaluator is
	// rejected, out-of-range and fractional values are validation errors.
	criteriaResp := postJSON(t, client, ts.URL+"/api/v1/evaluation-criteria", adminToken, map[string]any{
		"name": fmt.Sprintf("Quality-%d", suffix),
	})
	criteriaID := idFrom(t, criteriaResp)

	postJSONStatus(t, client, ts.URL+"/api/v1/performance-scores", supervisorToken, map[string]any{
		"employeeId":  employeeID,
		"criteriaId":  criteriaID,
		"score":       4,
		"evaluatorId": employeeID,
	}, http.StatusForbidden)
	postJSONStatus(t, client, ts.URL+"/api/v1/performance-scores", supervisorToken, map[string]any{
		"employeeId": employeeID,
		"criteriaId": criteriaID,
		"score":      6,
	}, http.StatusBadRequest)
	postJSONStatus(t, client, ts.URL+"/api/v1/performance-scores", supervisorToken, map[string]any{
		"employeeId": employeeID,
		"criteriaId": criteriaID,
		"score":      3.5,
	}, http.StatusBadRequest)

	postJSON(t, client, ts.URL+"/api/v1/performance-scores", supervisorToken, map[string]any{
		"employeeId": employeeID,
		"criteriaId": criteriaID,
		"score":      4,
		"comments":   "solid quarter",
	})

	// Criteria with recorded scores cannot be removed.
	deleteJSONStatus(t, client, ts.URL+"/api/v1/evaluation-criteria/"+criteriaID, adminToken, http.StatusConflict)

	// The evaluated employee now has an evaluation notification; marking
	// all as read reports the count.
	markResp := postJSON(t, client, ts.URL+"/api/v1/notifications/mark-as-read", employeeToken, nil)
	var marked struct {
		Marked int64 `json:"marked"`
	}
	if err := json.Unmarshal(markResp.Data, &marked); err != nil {
		t.Fatalf("failed to decode mark response: %v", err)
	}
	if marked.Marked == 0 {
		t.Fatal("expected unread notifications to be marked")
	}
}

func TestAdminSurfaceJourney(t *testing.T) {
	ts, cfg := startApp(t)
	client := ts.Client()

	adminToken := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	// Settings update records a field-level diff in the audit log.
	putJSON(t, client, ts.URL+"/api/v1/admin/settings", adminToken, map[string]any{
		"appName":              "PerfTrack",
		"systemTheme":          "dark",
		"maintenanceMode":      false,
		"notificationsEnabled": true,
		"emailNotifications":   false,
	})

	auditBody := getJSON(t, client, ts.URL+"/api/v1/admin/audit-logs?action=settings-update", adminToken)
	var entries []map[string]any
	if err := json.Unmarshal(auditBody.Data, &entries); err != nil {
		t.Fatalf("failed to decode audit entries: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected a settings-update audit entry")
	}

	// Backup is a JSON download and never contains password hashes.
	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/admin/backup", nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("backup request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected backup status 200, got %d", resp.StatusCode)
	}
	if disposition := resp.Header.Get("Content-Disposition"); !strings.Contains(disposition, "backup-") {
		t.Fatalf("unexpected content disposition: %s", disposition)
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read backup: %v", err)
	}
	if strings.Contains(string(raw), "$2a$") || strings.Contains(string(raw), "password_hash") {
		t.Fatal("backup leaked password material")
	}

	// Non-admins are locked out of the whole admin surface.
	suffix := time.Now().UnixNano()
	employeeEmail := fmt.Sprintf("plain-%d@example.com", suffix)
	createUser(t, client, ts.URL, adminToken, employeeEmail, "EMPLOYEE", "")
	employeeToken := login(t, client, ts.URL, employeeEmail, "Password123!")
	getJSONStatus(t, client, ts.URL+"/api/v1/admin/settings", employeeToken, http.StatusForbidden)
	getJSONStatus(t, client, ts.URL+"/api/v1/admin/audit-logs", employeeToken, http.StatusForbidden)
	getJSONStatus(t, client, ts.URL+"/api/v1/users", employeeToken, http.StatusForbidden)

	// Trigger templates drive generated notification wording.
	putJSON(t, client, ts.URL+"/api/v1/admin/auto-message-triggers/NEW_ASSIGNMENT", adminToken, map[string]any{
		"messageTemplate": "Heads up: {actor} set you a goal named {title}",
		"isActive":        true,
	})
	targetEmail := fmt.Sprintf("target-%d@example.com", suffix)
	targetID := createUser(t, client, ts.URL, adminToken, targetEmail, "EMPLOYEE", "")
	postJSON(t, client, ts.URL+"/api/v1/goals", adminToken, map[string]any{
		"title":      "Template check",
		"employeeId": targetID,
	})
	targetToken := login(t, client, ts.URL, targetEmail, "Password123!")
	notificationsBody := getJSON(t, client, ts.URL+"/api/v1/notifications", targetToken)
	var payload struct {
		Notifications []map[string]any `json:"notifications"`
	}
	if err := json.Unmarshal(notificationsBody.Data, &payload); err != nil {
		t.Fatalf("failed to decode notifications: %v", err)
	}
	if len(payload.Notifications) == 0 {
		t.Fatal("expected goal assignment notification")
	}
	message, _ := payload.Notifications[0]["message"].(string)
	if !strings.Contains(message, "Heads up:") || !strings.Contains(message, "Template check") {
		t.Fatalf("trigger template not applied: %s", message)
	}

	// Metrics snapshot is available after traffic.
	metricsBody := getJSON(t, client, ts.URL+"/api/v1/admin/metrics", adminToken)
	var snapshot map[string]any
	if err := json.Unmarshal(metricsBody.Data, &snapshot); err != nil {
		t.Fatalf("failed to decode metrics: %v", err)
	}
	if snapshot["requestsTotal"] == nil {
		t.Fatal("expected request counter in metrics snapshot")
	}
}

func TestPasswordChangeIsSelfServiceOnly(t *testing.T) {
	ts, cfg := startApp(t)
	client := ts.Client()

	adminToken := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	suffix := time.Now().UnixNano()
	email := fmt.Sprintf("pw-%d@example.com", suffix)
	userID := createUser(t, client, ts.URL, adminToken, email, "EMPLOYEE", "")
	userToken := login(t, client, ts.URL, email, "Password123!")

	// Even an admin cannot change somebody else's password.
	postJSONStatus(t, client, ts.URL+"/api/v1/users/"+userID+"/password", adminToken, map[string]any{
		"currentPassword": "Password123!",
		"newPassword":     "Hijacked123!",
	}, http.StatusForbidden)

	// A wrong current password is rejected and audited.
	postJSONStatus(t, client, ts.URL+"/api/v1/users/"+userID+"/password", userToken, map[string]any{
		"currentPassword": "WrongPassword!",
		"newPassword":     "NewPassword123!",
	}, http.StatusForbidden)

	postJSON(t, client, ts.URL+"/api/v1/users/"+userID+"/password", userToken, map[string]any{
		"currentPassword": "Password123!",
		"newPassword":     "NewPassword123!",
	})
	login(t, client, ts.URL, email, "NewPassword123!")

	failures := getJSON(t, client, ts.URL+"/api/v1/admin/audit-logs?action=password-change-failure", adminToken)
	var entries []map[string]any
	if err := json.Unmarshal(failures.Data, &entries); err != nil {
		t.Fatalf("failed to decode audit entries: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected password-change-failure audit entry")
	}
}

func TestSupervisorAssignmentLifecycle(t *testing.T) {
	ts, cfg := startApp(t)
	client := ts.Client()

	adminToken := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	suffix := time.Now().UnixNano()
	supervisorEmail := fmt.Sprintf("lead-%d@example.com", suffix)
	firstEmail := fmt.Sprintf("first-%d@example.com", suffix)
	secondEmail := fmt.Sprintf("second-%d@example.com", suffix)

	supervisorID := createUser(t, client, ts.URL, adminToken, supervisorEmail, "SUPERVISOR", "")
	firstID := createUser(t, client, ts.URL, adminToken, firstEmail, "EMPLOYEE", "")
	secondID := createUser(t, client, ts.URL, adminToken, secondEmail, "EMPLOYEE", "")

	// Batch assignment moves every listed employee under the supervisor.
	batchResp := postJSON(t, client, ts.URL+"/api/v1/assignments/batch-update", adminToken, map[string]any{
		"employeeIds":  []string{firstID, secondID},
		"supervisorId": supervisorID,
	})
	var batch struct {
		Updated int64 `json:"updated"`
	}
	if err := json.Unmarshal(batchResp.Data, &batch); err != nil {
		t.Fatalf("failed to decode batch response: %v", err)
	}
	if batch.Updated != 2 {
		t.Fatalf("expected 2 updated rows, got %d", batch.Updated)
	}
	for _, id := range []string{firstID, secondID} {
		if got := supervisorOf(t, client, ts.URL, adminToken, id); got != supervisorID {
			t.Fatalf("expected supervisor %s for %s, got %q", supervisorID, id, got)
		}
	}

	// Exactly one audit row records the batch together with its count.
	batchEntries := auditDetails(t, client, ts.URL, adminToken, "batch-assignment-success", firstID)
	if len(batchEntries) != 1 {
		t.Fatalf("expected one batch audit entry, got %d", len(batchEntries))
	}
	var recorded struct {
		Updated int64 `json:"updated"`
	}
	if err := json.Unmarshal(batchEntries[0], &recorded); err != nil {
		t.Fatalf("failed to decode audit details: %v", err)
	}
	if recorded.Updated != 2 {
		t.Fatalf("expected audited count 2, got %d", recorded.Updated)
	}

	// Re-running the identical batch changes nothing and notifies nobody.
	firstToken := login(t, client, ts.URL, firstEmail, "Password123!")
	before := notificationTotal(t, client, ts.URL, firstToken)
	postJSON(t, client, ts.URL+"/api/v1/assignments/batch-update", adminToken, map[string]any{
		"employeeIds":  []string{firstID, secondID},
		"supervisorId": supervisorID,
	})
	if after := notificationTotal(t, client, ts.URL, firstToken); after != before {
		t.Fatalf("unchanged assignment produced notifications: %d -> %d", before, after)
	}

	// A supervisor with direct reports cannot be deleted, and the failed
	// attempt mutates nothing.
	deleteJSONStatus(t, client, ts.URL+"/api/v1/users/"+supervisorID, adminToken, http.StatusConflict)
	getJSON(t, client, ts.URL+"/api/v1/users/"+supervisorID, adminToken)
	if got := supervisorOf(t, client, ts.URL, adminToken, firstID); got != supervisorID {
		t.Fatalf("delete attempt must not touch assignments, got %q", got)
	}

	// A wrong password on a known account is refused and audited with
	// its reason.
	postJSONStatus(t, client, ts.URL+"/api/v1/auth/login", "", map[string]any{
		"email":    supervisorEmail,
		"password": "WrongPassword!",
	}, http.StatusUnauthorized)
	failures := auditDetails(t, client, ts.URL, adminToken, "login-failure", supervisorEmail)
	if len(failures) != 1 {
		t.Fatalf("expected one login-failure audit entry, got %d", len(failures))
	}
	var failure struct {
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(failures[0], &failure); err != nil {
		t.Fatalf("failed to decode audit details: %v", err)
	}
	if failure.Reason != "password mismatch" {
		t.Fatalf("expected reason %q, got %q", "password mismatch", failure.Reason)
	}
}

func login(t *testing.T, client *http.Client, baseURL, email, password string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/auth/login", "", map[string]any{
		"email":    email,
		"password": password,
	})
	var payload map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	token, _ := payload["token"].(string)
	if token == "" {
		t.Fatal("expected token")
	}
	return token
}

func createUser(t *testing.T, client *http.Client, baseURL, token, email, role, supervisorID string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/users", token, map[string]any{
		"name":         "Journey Tester",
		"email":        email,
		"password":     "Password123!",
		"role":         role,
		"department":   "Engineering",
		"supervisorId": supervisorID,
	})
	return idFrom(t, resp)
}

func supervisorOf(t *testing.T, client *http.Client, baseURL, token, userID string) string {
	t.Helper()
	resp := getJSON(t, client, baseURL+"/api/v1/users/"+userID, token)
	var user struct {
		SupervisorID string `json:"supervisorId"`
	}
	if err := json.Unmarshal(resp.Data, &user); err != nil {
		t.Fatalf("failed to decode user: %v", err)
	}
	return user.SupervisorID
}

func notificationTotal(t *testing.T, client *http.Client, baseURL, token string) int {
	t.Helper()
	resp := getJSON(t, client, baseURL+"/api/v1/notifications", token)
	var payload struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode notifications: %v", err)
	}
	return payload.Total
}

// auditDetails returns the details of audit entries for one action
// whose raw details mention needle. The needle keeps runs on a shared
// database from seeing each other's rows.
func auditDetails(t *testing.T, client *http.Client, baseURL, token, action, needle string) []json.RawMessage {
	t.Helper()
	resp := getJSON(t, client, baseURL+"/api/v1/admin/audit-logs?action="+action, token)
	var entries []struct {
		Details json.RawMessage `json:"details"`
	}
	if err := json.Unmarshal(resp.Data, &entries); err != nil {
		t.Fatalf("failed to decode audit entries: %v", err)
	}
	var out []json.RawMessage
	for _, entry := range entries {
		if strings.Contains(string(entry.Details), needle) {
			out = append(out, entry.Details)
		}
	}
	return out
}

func idFrom(t *testing.T, resp envelope) string {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode id response: %v", err)
	}
	id, _ := payload["id"].(string)
	if id == "" {
		t.Fatal("expected id")
	}
	return id
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, body any, want int) envelope {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewBuffer(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	if want > 0 {
		if resp.StatusCode != want {
			t.Fatalf("expected status %d, got %d: %s", want, resp.StatusCode, string(raw))
		}
	} else if resp.StatusCode >= 400 {
		t.Fatalf("unexpected status %d: %s", resp.StatusCode, string(raw))
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return env
}

func postJSON(t *testing.T, client *http.Client, url, token string, body any) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodPost, url, token, body, 0)
}

func postJSONStatus(t *testing.T, client *http.Client, url, token string, body any, want int) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodPost, url, token, body, want)
}

func putJSON(t *testing.T, client *http.Client, url, token string, body any) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodPut, url, token, body, 0)
}

func putJSONStatus(t *testing.T, client *http.Client, url, token string, body any, want int) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodPut, url, token, body, want)
}

func getJSON(t *testing.T, client *http.Client, url, token string) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodGet, url, token, nil, 0)
}

func getJSONStatus(t *testing.T, client *http.Client, url, token string, want int) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodGet, url, token, nil, want)
}

func deleteJSONStatus(t *testing.T, client *http.Client, url, token string, want int) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodDelete, url, token, nil, want)
}
