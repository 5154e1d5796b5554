package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRedisCache_RequiresHost(t *testing.T) {
	cache, err := NewRedisCache(&Config{Host: "  "})
	assert.Error(t, err)
	assert.Nil(t, cache)

	cache, err = NewRedisCache(nil)
	assert.Error(t, err)
	assert.Nil(t, cache)
}

func TestConfig_Addr(t *testing.T) {
	assert.Equal(t, "localhost:6379", (&Config{Host: "localhost", Port: "6379"}).Addr())
	assert.Equal(t, "[::1]:6380", (&Config{Host: "::1", Port: "6380"}).Addr())
}
