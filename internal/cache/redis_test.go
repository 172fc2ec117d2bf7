package cache

import (
	"testing"

	"github.com/agro-export/backend/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedis_Single(t *testing.T) {
	mr := miniredis.RunT(t)

	var cfg config.Cache
	cfg.Type = RedisTypeSingle
	cfg.Redis.Address = mr.Addr()
	cfg.Redis.PoolSize = 4

	client, err := NewRedis(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
}

func TestNewRedis_PasswordRequired(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("secret")

	var cfg config.Cache
	cfg.Type = RedisTypeSingle
	cfg.Redis.Address = mr.Addr()

	client, err := NewRedis(cfg)
	assert.Error(t, err)
	_ = client.Close()

	cfg.Redis.Password = "secret"
	client, err = NewRedis(cfg)
	require.NoError(t, err)
	_ = client.Close()
}

func TestNewRedis_WrongType(t *testing.T) {
	_, err := NewRedis(config.Cache{Type: "memcached"})
	assert.ErrorIs(t, err, ErrWrongRedisType)
}
