package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPoolWithConfigRejectsInvalidURL(t *testing.T) {
	_, err := NewPoolWithConfig(context.Background(), PoolConfig{DatabaseURL: "not-a-url"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse database URL")
}

func TestNewPoolWithConfigPingFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := NewPoolWithConfig(ctx, PoolConfig{
		DatabaseURL: "postgres://invalid:5432/db?connect_timeout=1",
		MaxConns:    1,
	})
	assert.Error(t, err)
}

func TestMigratorMissingSource(t *testing.T) {
	m := NewMigrator("postgres://invalid:5432/db?sslmode=disable", t.TempDir()+"/missing", zerolog.Nop())
	assert.Error(t, m.Up())
	assert.Error(t, m.Down())
}
