package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"rawwealthy.backend/internal/config"
	plog "rawwealthy.backend/pkg/logger"
	"rawwealthy.backend/pkg/redis"
)

func withMainHooks(t *testing.T) {
	t.Helper()
	origLoadDotenv := loadDotenv
	origLoadCfg := loadCfg
	origInitLog := initLog
	origInitRedis := initRedis
	origOpenDB := openDB
	origMigrateDB := migrateDB
	origNewSessionStore := newSessionStore
	origRunServer := runServer

	t.Cleanup(func() {
		loadDotenv = origLoadDotenv
		loadCfg = origLoadCfg
		initLog = origInitLog
		initRedis = origInitRedis
		openDB = origOpenDB
		migrateDB = origMigrateDB
		newSessionStore = origNewSessionStore
		runServer = origRunServer
		redis.SetClient(nil)
	})

	loadDotenv = func(...string) error { return nil }
	loadCfg = baseTestConfig
	initLog = plog.Init
}

func baseTestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port: "18080",
			Env:  "development",
		},
		Database: config.DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			DBName:   "rawwealthy",
			SSLMode:  "disable",
		},
		Redis: config.RedisConfig{
			URL: "redis://localhost:6379",
		},
		JWT: config.JWTConfig{
			Secret:        "secret",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 24 * time.Hour,
		},
		Security: config.SecurityConfig{
			SessionEncryptionKey: "0000000000000000000000000000000000000000000000000000000000000000",
			SessionExpiry:        time.Hour,
			BcryptCost:           4,
			IdempotencyTTL:       time.Hour,
		},
		Plans:   config.PlanConfig{RateReconciliation: "overwrite", FeaturedLimit: 6},
		Jobs:    config.JobsConfig{ResetTokenCleanupInterval: time.Hour},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func sqliteDB(name string) func(config.DatabaseConfig) (*gorm.DB, error) {
	return func(config.DatabaseConfig) (*gorm.DB, error) {
		return gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	}
}

func TestRunMainProcess_RedisInitError(t *testing.T) {
	withMainHooks(t)
	initRedis = func(string, string) error { return errors.New("redis down") }

	err := runMainProcess()
	if err == nil || !strings.Contains(err.Error(), "redis") {
		t.Fatalf("expected redis init error, got %v", err)
	}
}

func TestRunMainProcess_DBOpenError(t *testing.T) {
	withMainHooks(t)
	initRedis = func(string, string) error { return nil }
	openDB = func(config.DatabaseConfig) (*gorm.DB, error) { return nil, errors.New("db open failed") }

	if err := runMainProcess(); err == nil {
		t.Fatal("expected db open error")
	}
}

func TestRunMainProcess_MigrateOnlyWhenEnabled(t *testing.T) {
	withMainHooks(t)
	initRedis = func(string, string) error { return nil }
	openDB = sqliteDB("main_migrate")
	runServer = func(context.Context, http.Handler, string) error { return nil }

	calls := 0
	migrateDB = func(*gorm.DB) error {
		calls++
		return errors.New("migration failed")
	}

	if err := runMainProcess(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 0 {
		t.Fatalf("migration ran while disabled")
	}

	loadCfg = func() *config.Config {
		cfg := baseTestConfig()
		cfg.Database.AutoMigrate = true
		return cfg
	}
	if err := runMainProcess(); err == nil || calls != 1 {
		t.Fatalf("expected migration error, got %v after %d calls", err, calls)
	}
}

func TestRunMainProcess_SessionStoreError(t *testing.T) {
	withMainHooks(t)
	initRedis = func(string, string) error { return nil }
	openDB = sqliteDB("main_session_err")
	newSessionStore = func(string) (*redis.SessionStore, error) { return nil, errors.New("bad session key") }

	if err := runMainProcess(); err == nil {
		t.Fatal("expected session store error")
	}
}

func TestRunMainProcess_ServerRunError(t *testing.T) {
	withMainHooks(t)
	initRedis = func(string, string) error { return nil }
	openDB = sqliteDB("main_server_err")
	runServer = func(context.Context, http.Handler, string) error { return errors.New("listen failed") }

	if err := runMainProcess(); err == nil {
		t.Fatal("expected server run error")
	}
}

func TestRunMainProcess_SuccessPathServesHealthAndMetrics(t *testing.T) {
	withMainHooks(t)

	mr := miniredis.RunT(t)
	initRedis = func(string, string) error {
		redis.SetClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
		return nil
	}
	openDB = sqliteDB("main_success")

	// requests run inside the stub while the database handle is still open
	var responses []*httptest.ResponseRecorder
	runServer = func(_ context.Context, h http.Handler, port string) error {
		if port != "18080" {
			t.Errorf("unexpected port %s", port)
		}
		for _, path := range []string{"/health", "/metrics", "/api/v1/auth/me"} {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			responses = append(responses, rec)
		}
		return nil
	}

	if err := runMainProcess(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(responses) != 3 {
		t.Fatal("server was not started")
	}

	if responses[0].Code != http.StatusOK {
		t.Fatalf("expected healthy dependencies, got %d: %s", responses[0].Code, responses[0].Body.String())
	}
	metricsBody := responses[1].Body.String()
	if responses[1].Code != http.StatusOK || !strings.Contains(metricsBody, `rawwealthy_http_requests_total{method="GET",route="/health",status="200"} 1`) {
		t.Fatalf("unexpected metrics output: %s", metricsBody)
	}
	if responses[2].Code != http.StatusUnauthorized {
		t.Fatalf("expected protected route to reject, got %d", responses[2].Code)
	}
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, http.NotFoundHandler(), "0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected shutdown error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServe_InvalidPort(t *testing.T) {
	if err := serve(context.Background(), http.NotFoundHandler(), "invalid-port"); err == nil {
		t.Fatal("expected listen error")
	}
}
