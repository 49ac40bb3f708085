package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigAddr(t *testing.T) {
	cfg := Config{Host: "store.internal", Port: 6380}
	assert.Equal(t, "store.internal:6380", cfg.Addr())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "localhost:6379", cfg.Addr())
	assert.Equal(t, 0, cfg.DB)
	assert.Equal(t, 5*time.Second, cfg.DialTimeout)
}
