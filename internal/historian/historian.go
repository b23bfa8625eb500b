// Package historian drains game events from the Redis queue and persists
// them to PostgreSQL in batches. It runs as its own process; the game server
// never waits on it.
package historian

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Subas2/SIANG-TAMBOLA/internal/database"
	"github.com/Subas2/SIANG-TAMBOLA/internal/events"
)

// Service accumulates drained events and flushes them to the archive when
// the batch fills or the flush interval elapses, whichever comes first.
type Service struct {
	redisClient *redis.Client
	queueName   string
	batchSize   int
	flushDelay  time.Duration
	logger      *logrus.Logger

	batchMu sync.Mutex
	batch   []events.Event

	// flush is swappable for tests; defaults to the postgres batch insert.
	flush func(ctx context.Context, batch []events.Event) error

	ctx      context.Context
	cancelFn context.CancelFunc
}

// New constructs a Service from environment variables or defaults.
func New(logger *logrus.Logger) *Service {
	batchSize := getEnvInt("HISTORIAN_BATCH_SIZE", 20)
	flushMs := getEnvInt("HISTORIAN_FLUSH_MS", 500)

	rdb := redis.NewClient(&redis.Options{
		Addr: getEnv("REDIS_ADDR", "localhost:6379"),
	})

	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		redisClient: rdb,
		queueName:   getEnv("HISTORIAN_QUEUE_NAME", events.DefaultQueueName),
		batchSize:   batchSize,
		flushDelay:  time.Duration(flushMs) * time.Millisecond,
		logger:      logger,
		batch:       make([]events.Event, 0, batchSize),
		ctx:         ctx,
		cancelFn:    cancel,
	}
	s.flush = func(ctx context.Context, batch []events.Event) error {
		return database.InsertEvents(ctx, database.DB, batch)
	}
	return s
}

// Run connects to the archive database and drains the queue until Stop.
func (s *Service) Run() {
	database.ConnectDB()

	go s.readRedisLoop()

	s.logger.Info("tambola-historian service started")
	<-s.ctx.Done()
	s.flushBatch()
	s.logger.Info("tambola-historian shutting down")
}

// Stop cancels the drain loop. The final partial batch is flushed by Run.
func (s *Service) Stop() {
	s.cancelFn()
}

// readRedisLoop continuously BLPops events, batching them for insertion.
func (s *Service) readRedisLoop() {
	ticker := time.NewTicker(s.flushDelay)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return

		case <-ticker.C:
			s.flushBatch()

		default:
			// BLPop with a short timeout so cancellation is handled.
			res, err := s.redisClient.BLPop(s.ctx, 3*time.Second, s.queueName).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				if s.ctx.Err() != nil {
					return
				}
				s.logger.Errorf("BLPop: %v", err)
				continue
			}
			if len(res) < 2 {
				continue
			}

			var ev events.Event
			if err := json.Unmarshal([]byte(res[1]), &ev); err != nil {
				s.logger.Warnf("invalid event record: %v", err)
				continue
			}
			s.appendToBatch(ev)
		}
	}
}

func (s *Service) appendToBatch(ev events.Event) {
	s.batchMu.Lock()
	full := false
	s.batch = append(s.batch, ev)
	full = len(s.batch) >= s.batchSize
	s.batchMu.Unlock()
	if full {
		s.flushBatch()
	}
}

func (s *Service) flushBatch() {
	s.batchMu.Lock()
	if len(s.batch) == 0 {
		s.batchMu.Unlock()
		return
	}
	batchCopy := make([]events.Event, len(s.batch))
	copy(batchCopy, s.batch)
	s.batch = s.batch[:0]
	s.batchMu.Unlock()

	if err := s.flush(context.Background(), batchCopy); err != nil {
		s.logger.Errorf("flush batch: %v", err)
		return
	}
	s.logger.Debugf("flushed %d events to archive", len(batchCopy))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
