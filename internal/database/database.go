package database

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/skyline-estates/api/internal/config"
)

const (
	serverSelectionTimeout = 5 * time.Second
	socketTimeout          = 45 * time.Second
)

// dialFunc establishes a single connection attempt. Swapped out in tests.
type dialFunc func(ctx context.Context) (*mongo.Client, error)

// Connector owns the process-wide MongoDB handle. The connection is
// established lazily on the first Get; concurrent callers share one in-flight
// attempt, and a failed attempt clears the cell so the next Get dials again.
type Connector struct {
	cfg  config.MongoConfig
	dial dialFunc

	mu      sync.Mutex
	client  *mongo.Client
	db      *mongo.Database
	pending *attempt
}

type attempt struct {
	done chan struct{}
	err  error
}

func NewConnector(cfg config.MongoConfig) *Connector {
	c := &Connector{cfg: cfg}
	c.dial = c.dialMongo
	return c
}

// Get returns the cached database handle, dialing with retries if no
// connection exists yet. Exhausting the retry ceiling returns an error; the
// caller decides whether that is fatal (it is at startup).
func (c *Connector) Get(ctx context.Context) (*mongo.Database, error) {
	c.mu.Lock()
	if c.db != nil {
		db := c.db
		c.mu.Unlock()
		return db, nil
	}
	p := c.pending
	if p == nil {
		p = &attempt{done: make(chan struct{})}
		c.pending = p
		go c.connect(p)
	}
	c.mu.Unlock()

	select {
	case <-p.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if p.err != nil {
		return nil, p.err
	}

	c.mu.Lock()
	db := c.db
	c.mu.Unlock()
	return db, nil
}

// Client returns the underlying client if connected, for ping probes and
// shutdown. Nil when no connection has been established.
func (c *Connector) Client() *mongo.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client
}

// Disconnect tears down the cached connection, if any.
func (c *Connector) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	client := c.client
	c.client = nil
	c.db = nil
	c.mu.Unlock()
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

func (c *Connector) connect(p *attempt) {
	client, err := c.dialWithRetry()

	c.mu.Lock()
	if err != nil {
		// Clear the cell so a later Get starts a fresh attempt instead of
		// replaying this failure forever.
		c.pending = nil
	} else {
		c.client = client
		c.db = client.Database(c.cfg.Database)
	}
	c.mu.Unlock()

	p.err = err
	close(p.done)
}

func (c *Connector) dialWithRetry() (*mongo.Client, error) {
	attempts := c.cfg.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	wait := c.cfg.RetryBaseWait

	var lastErr error
	for i := 1; i <= attempts; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), serverSelectionTimeout+time.Second)
		client, err := c.dial(ctx)
		cancel()
		if err == nil {
			log.Println("Connected to MongoDB")
			return client, nil
		}
		lastErr = err
		log.Printf("MongoDB connection attempt %d/%d failed: %v", i, attempts, err)
		if i < attempts {
			time.Sleep(wait)
			wait *= 2
		}
	}
	return nil, fmt.Errorf("could not connect to MongoDB after %d attempts: %w", attempts, lastErr)
}

func (c *Connector) dialMongo(ctx context.Context) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(c.cfg.URI).
		SetServerSelectionTimeout(serverSelectionTimeout).
		SetSocketTimeout(socketTimeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return client, nil
}
