package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear environment to test defaults
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}

	if cfg.Database.Host != "localhost" {
		t.Errorf("expected default DB host localhost, got %s", cfg.Database.Host)
	}

	if cfg.Database.Port != 5432 {
		t.Errorf("expected default DB port 5432, got %d", cfg.Database.Port)
	}

	if cfg.Database.DBName != "school_erp" {
		t.Errorf("expected default DB name school_erp, got %s", cfg.Database.DBName)
	}

	if cfg.Domain.BaseDomain != "smartschoolerp.xyz" {
		t.Errorf("expected default base domain smartschoolerp.xyz, got %s", cfg.Domain.BaseDomain)
	}

	if cfg.Domain.AdminSubdomain != "admin" {
		t.Errorf("expected default admin subdomain admin, got %s", cfg.Domain.AdminSubdomain)
	}

	if cfg.NATS.Enabled {
		t.Error("expected NATS disabled by default")
	}

	if cfg.Retention.Days != 180 {
		t.Errorf("expected default retention 180 days, got %d", cfg.Retention.Days)
	}

	if cfg.Retention.CleanupSchedule != "0 2 * * *" {
		t.Errorf("expected default cleanup schedule, got %s", cfg.Retention.CleanupSchedule)
	}

	if !cfg.IsDevelopment() {
		t.Error("expected development environment by default")
	}
}

func TestLoad_FromEnv(t *testing.T) {
	os.Setenv("SERVER_PORT", "9000")
	os.Setenv("DB_HOST", "db.internal")
	os.Setenv("DB_MAX_OPEN_CONNS", "50")
	os.Setenv("BASE_DOMAIN", "example.com")
	os.Setenv("NATS_ENABLED", "true")
	os.Setenv("AUTH_JWT_SECRET", "test-secret")
	os.Setenv("ACTIVITY_RETENTION_DAYS", "90")
	os.Setenv("APP_ENV", "production")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}

	if cfg.Database.Host != "db.internal" {
		t.Errorf("expected DB host db.internal, got %s", cfg.Database.Host)
	}

	if cfg.Database.MaxOpenConns != 50 {
		t.Errorf("expected 50 max open conns, got %d", cfg.Database.MaxOpenConns)
	}

	if cfg.Domain.BaseDomain != "example.com" {
		t.Errorf("expected base domain example.com, got %s", cfg.Domain.BaseDomain)
	}

	if !cfg.NATS.Enabled {
		t.Error("expected NATS enabled")
	}

	if cfg.Auth.JWTSecret != "test-secret" {
		t.Errorf("expected JWT secret from env, got %s", cfg.Auth.JWTSecret)
	}

	if cfg.Retention.Days != 90 {
		t.Errorf("expected retention 90 days, got %d", cfg.Retention.Days)
	}

	if !cfg.IsProduction() {
		t.Error("expected production environment")
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	os.Clearenv()
	os.Setenv("DB_PASSWORD", "secret")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dsn := cfg.GetDatabaseDSN()
	expected := "host=localhost port=5432 user=postgres password=secret dbname=school_erp sslmode=disable"
	if dsn != expected {
		t.Errorf("expected DSN %q, got %q", expected, dsn)
	}
}

func TestGetEnvAsInt_Invalid(t *testing.T) {
	os.Setenv("SERVER_PORT", "not-a-number")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected fallback to default 8080, got %d", cfg.Server.Port)
	}
}
