package database

import (
	"context"
	"testing"

	"rank-boost/internal/common/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedis_PingAgainstMiniredis(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Ping(context.Background()))

	mr.Close()
	assert.Error(t, client.Ping(context.Background()))
}

func TestNewRedis_RequiresAddress(t *testing.T) {
	_, err := NewRedis(config.RedisConfig{})
	assert.Error(t, err)
}

func TestNewPostgres_OpensLazily(t *testing.T) {
	client, err := NewPostgres(config.PostgresConfig{
		Host:           "127.0.0.1",
		Port:           1,
		Database:       "orders",
		User:           "boost",
		SSLMode:        "disable",
		MaxConnections: 2,
		MaxIdle:        1,
	})
	require.NoError(t, err)
	assert.NotNil(t, client.DB)
	assert.NoError(t, client.Close())
}

func TestClose_NilSafe(t *testing.T) {
	assert.NoError(t, (&RedisClient{}).Close())
	assert.NoError(t, (&PostgresClient{}).Close())
}
