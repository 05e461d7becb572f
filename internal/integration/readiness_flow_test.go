package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"roleready/internal/app"
	"roleready/internal/config"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type semanticResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func TestIntegration_ReadinessFlow(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	c := newTestContainer(t)
	defer func() { _ = c.Close() }()

	fiberApp := app.New(c).Fiber

	email := "it-" + uuid.NewString()[:8] + "@example.com"
	var auth struct {
		User struct {
			ID uuid.UUID `json:"id"`
		} `json:"user"`
		AccessToken string `json:"access_token"`
	}
	call(t, fiberApp, "POST", "/api/v1/auth/register", "", map[string]string{
		"email":     email,
		"password":  "correct horse battery",
		"full_name": "Integration User",
	}, 201, &auth)
	if auth.AccessToken == "" {
		t.Fatalf("register: missing access_token")
	}
	defer cleanupUser(t, ctx, c, auth.User.ID)
	tok := auth.AccessToken

	var readinessCtx struct {
		HasTargetRole bool `json:"has_target_role"`
	}
	call(t, fiberApp, "GET", "/api/v1/me/readiness/context", tok, nil, 200, &readinessCtx)
	if readinessCtx.HasTargetRole {
		t.Fatalf("context: new user should have no target role")
	}

	var edge map[string]any
	call(t, fiberApp, "POST", "/api/v1/me/readiness", tok, nil, 400, &edge)
	if edge["code"] != "NO_TARGET_ROLE" {
		t.Fatalf("calculate without target: expected NO_TARGET_ROLE, got %v", edge["code"])
	}

	var roles []struct {
		ID         uuid.UUID `json:"id"`
		Name       string    `json:"name"`
		Benchmarks []struct {
			SkillID   uuid.UUID `json:"skill_id"`
			SkillName string    `json:"skill_name"`
		} `json:"benchmarks"`
	}
	call(t, fiberApp, "GET", "/api/v1/roles", tok, nil, 200, &roles)
	var roleID uuid.UUID
	skillIDs := map[string]uuid.UUID{}
	for _, r := range roles {
		if r.Name == "Backend Engineer" {
			roleID = r.ID
			for _, b := range r.Benchmarks {
				skillIDs[b.SkillName] = b.SkillID
			}
		}
	}
	if roleID == uuid.Nil {
		t.Fatalf("roles: seeded Backend Engineer role not found")
	}

	call(t, fiberApp, "PUT", "/api/v1/me/target-role", tok, map[string]any{"role_id": roleID}, 200, nil)

	call(t, fiberApp, "POST", "/api/v1/me/readiness", tok, nil, 400, &edge)
	if edge["code"] != "NO_SKILLS" {
		t.Fatalf("calculate without skills: expected NO_SKILLS, got %v", edge["code"])
	}

	call(t, fiberApp, "POST", "/api/v1/me/skills", tok, map[string]any{"skill_id": skillIDs["Go"], "level": 4}, 201, nil)
	call(t, fiberApp, "POST", "/api/v1/me/skills", tok, map[string]any{"skill_id": skillIDs["PostgreSQL"], "source": "resume", "level": 3}, 201, nil)

	var first struct {
		Recalculated bool `json:"recalculated"`
		Readiness    struct {
			Percentage     int    `json:"percentage"`
			HasAllRequired bool   `json:"has_all_required"`
			Trigger        string `json:"trigger"`
		} `json:"readiness"`
	}
	call(t, fiberApp, "POST", "/api/v1/me/readiness", tok, nil, 201, &first)
	if !first.Recalculated || first.Readiness.Trigger != "manual" {
		t.Fatalf("first calculation: unexpected outcome %+v", first)
	}
	if first.Readiness.Percentage <= 0 || first.Readiness.Percentage >= 100 {
		t.Fatalf("first calculation: expected partial readiness, got %d", first.Readiness.Percentage)
	}
	if first.Readiness.HasAllRequired {
		t.Fatalf("first calculation: REST API Design is missing, has_all_required must be false")
	}

	var cooldown map[string]any
	call(t, fiberApp, "POST", "/api/v1/me/readiness", tok, nil, 400, &cooldown)
	if secs, _ := cooldown["remaining_seconds"].(float64); secs <= 0 {
		t.Fatalf("cooldown: expected remaining_seconds > 0, got %v", cooldown["remaining_seconds"])
	}

	var forced struct {
		Readiness struct {
			Trigger string `json:"trigger"`
		} `json:"readiness"`
	}
	call(t, fiberApp, "POST", "/api/v1/me/readiness", tok, map[string]any{"force": true}, 201, &forced)
	if forced.Readiness.Trigger != "forced" {
		t.Fatalf("forced calculation: expected trigger forced, got %s", forced.Readiness.Trigger)
	}

	var history []struct {
		Trigger string `json:"trigger"`
	}
	call(t, fiberApp, "GET", "/api/v1/me/readiness/history?limit=10", tok, nil, 200, &history)
	if len(history) != 2 || history[0].Trigger != "forced" {
		t.Fatalf("history: expected 2 snapshots newest first, got %+v", history)
	}

	var latest struct {
		Readiness struct {
			Trigger string `json:"trigger"`
		} `json:"readiness"`
	}
	call(t, fiberApp, "GET", "/api/v1/me/readiness/latest", tok, nil, 200, &latest)
	if latest.Readiness.Trigger != "forced" {
		t.Fatalf("latest: expected forced snapshot, got %s", latest.Readiness.Trigger)
	}

	call(t, fiberApp, "PATCH", "/api/v1/me/readiness", tok, nil, 400, &edge)
	if edge["code"] != "NO_VALIDATION_UPDATES" {
		t.Fatalf("patch without reviews: expected NO_VALIDATION_UPDATES, got %v", edge["code"])
	}
}

func newTestContainer(t *testing.T) *app.Container {
	t.Helper()

	host := stringsOrDefault(os.Getenv("ROLEREADY_TEST_DB_HOST"), os.Getenv("DB_HOST"))
	port := stringsOrDefault(os.Getenv("ROLEREADY_TEST_DB_PORT"), os.Getenv("DB_PORT"))
	name := stringsOrDefault(os.Getenv("ROLEREADY_TEST_DB_NAME"), os.Getenv("DB_NAME"))
	user := stringsOrDefault(os.Getenv("ROLEREADY_TEST_DB_USER"), os.Getenv("DB_USER"))
	pass := stringsOrDefault(os.Getenv("ROLEREADY_TEST_DB_PASSWORD"), os.Getenv("DB_PASSWORD"))
	ssl := stringsOrDefault(os.Getenv("ROLEREADY_TEST_DB_SSL_MODE"), os.Getenv("DB_SSL_MODE"))

	if host == "" || port == "" || name == "" || user == "" {
		t.Skip("missing test DB env vars: set ROLEREADY_TEST_DB_HOST/PORT/NAME/USER/PASSWORD (or DB_HOST/DB_PORT/DB_NAME/DB_USER/DB_PASSWORD)")
	}

	cfg := config.Config{
		App: config.AppConfig{AppName: "roleready-it", Environment: "test", HTTPPort: "0"},
		Database: config.DatabaseConfig{
			DBHost:         host,
			DBPort:         port,
			DBName:         name,
			DBUser:         user,
			DBPassword:     pass,
			DBSSLMode:      stringsOrDefault(ssl, "disable"),
			ConnectTimeout: 5 * time.Second,
			PoolMaxConns:   4,
			RunMigrations:  true,
			RunSeeders:     true,
		},
		JWT: config.JWTConfig{
			AccessSecret:     "it-access-secret",
			RefreshSecret:    "it-refresh-secret",
			AccessExpiresIn:  15 * time.Minute,
			RefreshExpiresIn: time.Hour,
		},
		Redis: config.RedisConfig{
			Host: stringsOrDefault(os.Getenv("ROLEREADY_TEST_REDIS_HOST"), "127.0.0.1"),
			Port: stringsOrDefault(os.Getenv("ROLEREADY_TEST_REDIS_PORT"), "6379"),
		},
		Readiness: config.ReadinessConfig{
			Cooldown:     5 * time.Minute,
			LockTTL:      30 * time.Second,
			RoleCacheTTL: time.Minute,
			HistoryLimit: 20,
		},
	}

	c, err := app.NewContainer(cfg)
	if err != nil {
		t.Fatalf("init container: %v", err)
	}
	return c
}

func cleanupUser(t *testing.T, ctx context.Context, c *app.Container, userID uuid.UUID) {
	t.Helper()

	_, _ = c.DB.Exec(ctx, `DELETE FROM readiness_snapshots WHERE user_id = $1`, userID)
	_, _ = c.DB.Exec(ctx, `DELETE FROM target_roles WHERE user_id = $1`, userID)
	_, _ = c.DB.Exec(ctx, `DELETE FROM user_skills WHERE user_id = $1`, userID)
	_, _ = c.DB.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
}

// call sends a JSON request and decodes the envelope data into out.
func call(t *testing.T, a *fiber.App, method, path, token string, body any, wantStatus int, out any) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	if err != nil {
		t.Fatalf("%s %s: request error: %v", method, path, err)
	}
	defer resp.Body.Close()

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		t.Fatalf("%s %s: decode error: %v", method, path, err)
	}
	if sr.Status != wantStatus {
		t.Fatalf("%s %s: expected status=%d, got %d (message=%s)", method, path, wantStatus, sr.Status, sr.Message)
	}
	if out != nil && len(sr.Data) > 0 && string(sr.Data) != "null" {
		if err := json.Unmarshal(sr.Data, out); err != nil {
			t.Fatalf("%s %s: data unmarshal error: %v", method, path, err)
		}
	}
}

func stringsOrDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
