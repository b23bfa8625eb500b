package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// DefaultQueueName is the Redis list the historian service drains.
const DefaultQueueName = "tambola_events"

// Queue pushes events onto a Redis list for asynchronous archival. Push
// failures are logged and dropped; archival is never allowed to fail a game
// operation.
type Queue struct {
	rdb    *redis.Client
	name   string
	logger *logrus.Logger
}

// NewQueue wraps a Redis client. An empty name selects DefaultQueueName.
func NewQueue(rdb *redis.Client, name string, logger *logrus.Logger) *Queue {
	if name == "" {
		name = DefaultQueueName
	}
	return &Queue{rdb: rdb, name: name, logger: logger}
}

func (q *Queue) Publish(ctx context.Context, ev Event) {
	ev = Stamp(ev)
	data, err := json.Marshal(ev)
	if err != nil {
		if q.logger != nil {
			q.logger.Warnf("failed to marshal event for queue: %v", err)
		}
		return
	}
	if err := q.rdb.RPush(ctx, q.name, data).Err(); err != nil && q.logger != nil {
		q.logger.Warnf("failed to RPush to '%s': %v", q.name, err)
	}
}
