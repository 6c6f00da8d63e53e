package ratelimiting

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockedRateLimiter struct {
	consumeFunc func(key string) bool
}

func (m *mockedRateLimiter) Consume(key string) bool {
	return m.consumeFunc(key)
}

func TestTokenBucketRateLimiter(t *testing.T) {
	rateLimiter, stop := NewTokenBucketRateLimiter(1, 2)
	defer stop()

	// Burst of 2, per key
	assert.True(t, rateLimiter.Consume("user1"))
	assert.True(t, rateLimiter.Consume("user1"))
	assert.False(t, rateLimiter.Consume("user1"))

	assert.True(t, rateLimiter.Consume("user2"))
	assert.True(t, rateLimiter.Consume("user2"))
	assert.False(t, rateLimiter.Consume("user2"))
}

func TestIPKeyFunc(t *testing.T) {
	request := &http.Request{RemoteAddr: "123.123.123.123:51613"}
	assert.Equal(t, "ip: 123.123.123.123", IPKeyFunc(request))

	request = &http.Request{RemoteAddr: "123.123.123.123"}
	assert.Equal(t, "ip: 123.123.123.123", IPKeyFunc(request))
}

func TestUserIDKeyFunc(t *testing.T) {
	request, err := http.NewRequest(http.MethodPost, "/v1/matches/resolve", nil)
	require.NoError(t, err)

	assert.Equal(t, "user-id: <missing>", UserIDKeyFunc(request))

	request.Header.Set("X-User-Id", "u-42")
	assert.Equal(t, "user-id: u-42", UserIDKeyFunc(request))
}

func TestRequestBasedRateLimiter(t *testing.T) {
	var expectedKey string
	var allowed bool
	rateLimiter := &mockedRateLimiter{
		consumeFunc: func(key string) bool {
			t.Helper()
			require.Equal(t, expectedKey, key)
			return allowed
		},
	}
	requestRateLimiter := NewRequestBasedRateLimiter(rateLimiter, IPKeyFunc)

	request := &http.Request{RemoteAddr: "10.0.0.1:1234"}

	expectedKey = "ip: 10.0.0.1"
	allowed = true
	assert.True(t, requestRateLimiter.Consume(request))

	allowed = false
	assert.False(t, requestRateLimiter.Consume(request))
}
