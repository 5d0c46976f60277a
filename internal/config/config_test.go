package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "mongo")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017/testdb")
	t.Setenv("MONGODB_DATABASE", "site_test")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("JWT_SECRET", "testsecret123456789012345678901234")
	t.Setenv("ADMIN_USERS", "stephanie:stephanie123")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.MongoDB.URI == "" || cfg.Redis.Host == "" {
		t.Fatalf("unexpected empty config values: %+v", cfg)
	}
	require.Equal(t, BackendMongo, cfg.Storage.Backend)
	require.Equal(t, "8000", cfg.Server.Port)
	require.Equal(t, 30*time.Minute, cfg.JWT.AccessTokenTTL)
	require.Equal(t, map[string]string{"stephanie": "stephanie123"}, cfg.Admins)
	require.False(t, cfg.RateLimit.Enabled)
}

func TestLoadConfig_MongoWithoutURIFails(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "mongo")
	t.Setenv("MONGODB_URI", "")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadConfig_DefaultAdmin(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "memory")
	t.Setenv("ADMIN_USERS", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, map[string]string{"admin": "admin123", "stephanie": "stephanie123"}, cfg.Admins)
}

func TestParseAdmins(t *testing.T) {
	got, err := ParseAdmins(" admin:admin123 , stephanie:pa:ss ")
	require.NoError(t, err)
	require.Equal(t, map[string]string{"admin": "admin123", "stephanie": "pa:ss"}, got)

	_, err = ParseAdmins("nopassword")
	require.Error(t, err)

	empty, err := ParseAdmins("")
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: "5432", User: "u", Password: "p", Database: "site", SSLMode: "disable"}
	require.Equal(t, "host=db user=u password=p dbname=site port=5432 sslmode=disable TimeZone=UTC", p.DSN())
}
