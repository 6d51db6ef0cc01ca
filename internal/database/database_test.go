package database

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skyline-estates/api/internal/config"
)

func testConfig(attempts int) config.MongoConfig {
	return config.MongoConfig{
		URI:           "mongodb://localhost:27017",
		Database:      "estates_test",
		RetryAttempts: attempts,
		RetryBaseWait: time.Millisecond,
	}
}

// newIdleClient builds a client handle without touching the network; the
// driver only dials on first operation.
func newIdleClient(t *testing.T) *mongo.Client {
	t.Helper()
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://localhost:27017"))
	if err != nil {
		t.Fatalf("building idle client: %v", err)
	}
	return client
}

func TestGetRetriesUntilSuccess(t *testing.T) {
	var calls int32
	c := NewConnector(testConfig(5))
	c.dial = func(ctx context.Context) (*mongo.Client, error) {
		if atomic.AddInt32(&calls, 1) < 3 {
			return nil, errors.New("connection refused")
		}
		return newIdleClient(t), nil
	}

	db, err := c.Get(context.Background())
	if err != nil {
		t.Fatalf("Get() after transient failures: %v", err)
	}
	if db.Name() != "estates_test" {
		t.Errorf("database name = %q", db.Name())
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("dial called %d times, want 3", got)
	}
}

func TestGetExhaustsCeiling(t *testing.T) {
	var calls int32
	c := NewConnector(testConfig(4))
	c.dial = func(ctx context.Context) (*mongo.Client, error) {
		atomic.AddInt32(&calls, 1)
		return nil, errors.New("connection refused")
	}

	if _, err := c.Get(context.Background()); err == nil {
		t.Fatal("Get() must fail once the retry ceiling is exhausted")
	}
	if got := atomic.LoadInt32(&calls); got != 4 {
		t.Errorf("dial called %d times, want 4", got)
	}
}

func TestFailureClearsInFlightAttempt(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	c := NewConnector(testConfig(1))
	c.dial = func(ctx context.Context) (*mongo.Client, error) {
		if fail.Load() {
			return nil, errors.New("connection refused")
		}
		return newIdleClient(t), nil
	}

	if _, err := c.Get(context.Background()); err == nil {
		t.Fatal("first Get() must fail")
	}

	// The failed attempt must not be replayed: a later call dials again.
	fail.Store(false)
	if _, err := c.Get(context.Background()); err != nil {
		t.Fatalf("Get() after clearing the failed attempt: %v", err)
	}
}

func TestConcurrentCallersShareOneAttempt(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	c := NewConnector(testConfig(1))
	c.dial = func(ctx context.Context) (*mongo.Client, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return newIdleClient(t), nil
	}

	const waiters = 8
	var wg sync.WaitGroup
	errs := make([]error, waiters)
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.Get(context.Background())
		}(i)
	}

	// Let every goroutine queue up on the same in-flight attempt.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("waiter %d: %v", i, err)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("dial called %d times, want 1 shared attempt", got)
	}
}

func TestGetHonoursContextCancellation(t *testing.T) {
	c := NewConnector(testConfig(1))
	c.dial = func(ctx context.Context) (*mongo.Client, error) {
		time.Sleep(time.Second)
		return nil, errors.New("slow")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := c.Get(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Get() = %v, want context deadline error", err)
	}
}

func TestCachedHandleIsReused(t *testing.T) {
	var calls int32
	c := NewConnector(testConfig(1))
	c.dial = func(ctx context.Context) (*mongo.Client, error) {
		atomic.AddInt32(&calls, 1)
		return newIdleClient(t), nil
	}

	first, err := c.Get(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Get(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("Get() must return the cached handle")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("dial called %d times, want 1", got)
	}
}
