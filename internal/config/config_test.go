package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ALLOWED_ORIGIN", "")
	t.Setenv("SNAPSHOT_PATH", "")
	t.Setenv("REPORT_TTL_SECONDS", "")
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("port = %q", cfg.Port)
	}
	if cfg.SnapshotPath != "data/snapshot.json" {
		t.Fatalf("snapshot path = %q", cfg.SnapshotPath)
	}
	if cfg.ReportTTLSeconds != 30 {
		t.Fatalf("report ttl = %d", cfg.ReportTTLSeconds)
	}
	if cfg.AccessTokenTTLMinutes != 480 {
		t.Fatalf("token ttl = %d", cfg.AccessTokenTTLMinutes)
	}
	if cfg.Address() != ":8080" {
		t.Fatalf("address = %q", cfg.Address())
	}
}

func TestLoadDoesNotInjectWeakAuthDefaults(t *testing.T) {
	t.Setenv("AUTH_SECRET", "")
	t.Setenv("ADMIN_PASSWORD_HASH", "")

	cfg := Load()
	if cfg.AuthSecret != "" {
		t.Fatalf("expected empty AUTH_SECRET when unset, got %q", cfg.AuthSecret)
	}
	if cfg.AdminPasswordHash != "" {
		t.Fatalf("expected empty ADMIN_PASSWORD_HASH when unset, got %q", cfg.AdminPasswordHash)
	}
}

func TestLoadRejectsNonsenseTTLs(t *testing.T) {
	t.Setenv("REPORT_TTL_SECONDS", "-5")
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "bogus")

	cfg := Load()
	if cfg.ReportTTLSeconds != 30 {
		t.Fatalf("report ttl = %d, want default 30", cfg.ReportTTLSeconds)
	}
	if cfg.AccessTokenTTLMinutes != 480 {
		t.Fatalf("token ttl = %d, want default 480", cfg.AccessTokenTTLMinutes)
	}
}
