package redis

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/jobtrack-backend/internal/platform/logger"
)

func testClient(t *testing.T) *goredis.Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rdb, err := NewClient(context.Background(), logger.Nop(), Config{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestNewClientRequiresAddr(t *testing.T) {
	_, err := NewClient(context.Background(), logger.Nop(), Config{})
	require.Error(t, err)
	_, err = NewClient(context.Background(), nil, Config{Addr: "localhost:6379"})
	require.Error(t, err)
}

func TestConstructorsRequireClient(t *testing.T) {
	_, err := NewLock(nil, nil, 0)
	require.Error(t, err)
	_, err = NewPublisher(nil, nil, "")
	require.Error(t, err)
}

func TestLockSerializesHolders(t *testing.T) {
	rdb := testClient(t)
	lock, err := NewLock(logger.Nop(), rdb, time.Second)
	require.NoError(t, err)

	key := "test:" + t.Name() + ":" + time.Now().Format(time.RFC3339Nano)
	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			unlock, err := lock.Lock(ctx, key)
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInside)
}

func TestLockHonoursContext(t *testing.T) {
	rdb := testClient(t)
	lock, err := NewLock(logger.Nop(), rdb, 2*time.Second)
	require.NoError(t, err)

	key := "test:" + t.Name() + ":" + time.Now().Format(time.RFC3339Nano)
	unlock, err := lock.Lock(context.Background(), key)
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	_, err = lock.Lock(ctx, key)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPublisherSendsJSON(t *testing.T) {
	rdb := testClient(t)
	channel := "test." + time.Now().Format("150405.000000")
	pub, err := NewPublisher(logger.Nop(), rdb, channel)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sub := rdb.Subscribe(ctx, channel)
	defer sub.Close()
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, pub.Publish(ctx, map[string]int{"count": 2}))
	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var got map[string]int
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.Equal(t, 2, got["count"])
}
