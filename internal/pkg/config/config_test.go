package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetDuration(t *testing.T) {
	t.Setenv("NOTICE_DELAY", "1s")
	assert.Equal(t, time.Second, GetDuration("NOTICE_DELAY", time.Minute))

	t.Setenv("NOTICE_DELAY", "soon")
	assert.Equal(t, time.Minute, GetDuration("NOTICE_DELAY", time.Minute))

	t.Setenv("NOTICE_DELAY", "-5s")
	assert.Equal(t, time.Minute, GetDuration("NOTICE_DELAY", time.Minute))
}

func TestGetList(t *testing.T) {
	t.Setenv("DELIVERY_TRANSPORTS", " Log, grpc ,,amqp ")
	assert.Equal(t, []string{"log", "grpc", "amqp"}, GetList("DELIVERY_TRANSPORTS", nil))

	t.Setenv("DELIVERY_TRANSPORTS", " , ")
	assert.Equal(t, []string{"log"}, GetList("DELIVERY_TRANSPORTS", []string{"log"}))
}

func TestLoadStorefront_Defaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "NOTICE_DELAY", "DELIVERY_TRANSPORTS", "SESSION_MAX_IDLE"} {
		t.Setenv(k, "")
	}

	cfg := LoadStorefront()
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 2500*time.Millisecond, cfg.NoticeDelay)
	assert.Equal(t, 30*time.Minute, cfg.SessionMaxIdle)
	assert.Equal(t, []string{"log"}, cfg.DeliveryTransports)
}

func TestLoadOrderService(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg := LoadOrderService()
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, 24*time.Hour, cfg.ClaimTTL)
}
