package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sample = `
telegram:
  botToken: "123456:file-token"
  maxAge: 1h
server:
  listen: ":9000"
  store: postgres
  postgresDsn: "host=db user=postgres"
  redisAddr: "redis:6379"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	config, err := Load(writeConfig(t, sample))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if config.Telegram.BotToken != "123456:file-token" || config.Telegram.MaxAge != time.Hour {
		t.Fatalf("unexpected telegram config %+v", config.Telegram)
	}
	if config.Server.Listen != ":9000" || config.Server.RedisAddr != "redis:6379" {
		t.Fatalf("unexpected server config %+v", config.Server)
	}
	if config.Server.RateBurst != 20 || config.Server.ServiceName != "funnelbuilder" {
		t.Fatalf("defaults not applied %+v", config.Server)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("FUNNELBUILDER_TELEGRAM_BOT_TOKEN", "654321:env-token")
	t.Setenv("FUNNELBUILDER_TELEGRAM_MAX_AGE", "30m")
	t.Setenv("FUNNELBUILDER_LISTEN", ":7000")

	config, err := Load(writeConfig(t, sample))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if config.Telegram.BotToken != "654321:env-token" || config.Telegram.MaxAge != 30*time.Minute {
		t.Fatalf("env not applied %+v", config.Telegram)
	}
	if config.Server.Listen != ":7000" || config.Server.PostgresDsn != "host=db user=postgres" {
		t.Fatalf("unexpected server config %+v", config.Server)
	}

	d := config.Domain()
	if d.BotToken != "654321:env-token" || d.MaxAge != 30*time.Minute {
		t.Fatalf("unexpected domain config %+v", d)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	t.Setenv("FUNNELBUILDER_TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("FUNNELBUILDER_STORE", "supabase")
	t.Setenv("FUNNELBUILDER_SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("FUNNELBUILDER_SUPABASE_KEY", "anon")

	config, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if config.Server.Store != StoreSupabase || config.Telegram.MaxAge != 24*time.Hour {
		t.Fatalf("unexpected config %+v", config)
	}
}

func TestValidate(t *testing.T) {
	if _, err := Load(writeConfig(t, "server:\n  store: postgres\n")); err == nil {
		t.Fatalf("expected missing bot token to fail")
	}

	t.Setenv("FUNNELBUILDER_TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("FUNNELBUILDER_STORE", "sqlite")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected unknown store to fail")
	}
}
