package redis

import (
	"context"
	"net"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/bagstore/internal/config"
	"github.com/your-org/bagstore/internal/pkg/logger"
)

func configFor(addr string) *config.Config {
	host, port, _ := net.SplitHostPort(addr)
	cfg := &config.Config{}
	cfg.Redis.Host = host
	cfg.Redis.Port = port
	cfg.Redis.PoolSize = 2
	return cfg
}

func TestNewConnection(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewConnection(configFor(mr.Addr()), logger.Discard())
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Health(context.Background()))
	assert.NotNil(t, client.GetClient())
}

func TestNewConnectionFailsWhenUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewConnection(configFor(addr), logger.Discard())
	assert.Error(t, err)
}
