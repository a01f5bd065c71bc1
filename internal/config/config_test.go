package config

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cfg := Load()
	require.NotNil(t, cfg)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.True(t, cfg.Server.IsDevelopment())
	assert.Equal(t, "public", cfg.Database.Schema)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 100, cfg.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, []string{"admin"}, cfg.JWT.WriteRoles)
	assert.False(t, cfg.JWT.Enabled())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_ENV", "production")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_WRITE_ROLES", "admin,editor")

	cfg := Load()

	assert.False(t, cfg.Server.IsDevelopment())
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.True(t, cfg.JWT.Enabled())
	assert.Equal(t, []string{"admin", "editor"}, cfg.JWT.WriteRoles)
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "localhost",
		Port:     "5432",
		User:     "catalog",
		Password: "pw",
		Database: "catalog",
		Schema:   "inventory",
	}

	assert.Equal(t,
		"postgres://catalog:pw@localhost:5432/catalog?search_path=inventory&sslmode=disable",
		d.DSN(),
	)
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Nil(t, splitList(" , "))
	assert.Equal(t, []string{"a", "b"}, splitList("a, b"))
}

func TestDatabaseDSN_EscapesCredentials(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db",
		Port:     "5432",
		User:     "cat@log",
		Password: "p@ss/w:rd#1",
		Database: "catalog",
		Schema:   "public",
	}

	parsed, err := pgx.ParseConfig(d.DSN())
	require.NoError(t, err)
	assert.Equal(t, "db", parsed.Host)
	assert.Equal(t, uint16(5432), parsed.Port)
	assert.Equal(t, "cat@log", parsed.User)
	assert.Equal(t, "p@ss/w:rd#1", parsed.Password)
	assert.Equal(t, "catalog", parsed.Database)
	assert.Equal(t, "public", parsed.RuntimeParams["search_path"])
}
