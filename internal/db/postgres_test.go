package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/cyberclub/internal/config"
)

func TestPoolConfigFromSettings(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.URL = "postgres://club:pw@db.internal:5433/cyberclub?sslmode=disable"
	cfg.Database.MaxOpenConns = 15
	cfg.Database.MaxIdleConns = 3
	cfg.Database.ConnMaxLifetime = 30 * time.Minute

	pc, err := PoolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, int32(15), pc.MaxConns)
	assert.Equal(t, int32(3), pc.MinConns)
	assert.Equal(t, 30*time.Minute, pc.MaxConnLifetime)
	assert.Equal(t, "db.internal", pc.ConnConfig.Host)
	assert.Equal(t, uint16(5433), pc.ConnConfig.Port)
	assert.Equal(t, "cyberclub", pc.ConnConfig.Database)
}

func TestPoolConfigRejectsGarbage(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.URL = "postgres://%zz"
	_, err := PoolConfig(cfg)
	assert.Error(t, err)
}

func TestPoolConfigUnsetLifetimeFallsBack(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.URL = "postgres://u:p@localhost:5432/db"

	pc, err := PoolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, pc.MaxConnLifetime)
}
