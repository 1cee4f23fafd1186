package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	// QueueTableStatus buffers table-status events between the request path
	// and the delivery workers.
	QueueTableStatus = "jobs:table-status"

	// channelTableStatus is the pub/sub channel floor-plan clients subscribe to.
	channelTableStatus = "tables:status"
)

// TableStatusChanged is emitted after a commit that changes which command
// occupies a table (status change, table move). Carries only the public UUID.
type TableStatusChanged struct {
	TableID string    `json:"table_id"`
	At      time.Time `json:"at"`
}

// Dispatcher enqueues notification events into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// PublishTableStatusChanged is fire-and-forget: it runs after the business
// transaction has committed and a failure here is logged, never returned —
// notification delivery must not roll back or fail the operation.
func (d *Dispatcher) PublishTableStatusChanged(ctx context.Context, tableID uuid.UUID) {
	if d == nil || d.rdb == nil {
		return
	}
	event := TableStatusChanged{TableID: tableID.String(), At: time.Now().UTC()}
	encoded, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal table-status event")
		return
	}
	if err := d.rdb.LPush(ctx, QueueTableStatus, encoded).Err(); err != nil {
		log.Error().Err(err).Str("table_id", event.TableID).Msg("failed to enqueue table-status event")
	}
}

// StartWorkerPool launches numWorkers goroutines consuming the event queue.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueTableStatus).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			deliver(ctx, rdb, result[1])
		}
	}
}

// deliver fans the event out to live subscribers via Redis pub/sub. No
// acknowledgment: subscribers that miss an event refetch the floor state.
func deliver(ctx context.Context, rdb *redis.Client, raw string) {
	var event TableStatusChanged
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		log.Error().Err(err).Msg("failed to unmarshal table-status event")
		return
	}
	if err := rdb.Publish(ctx, channelTableStatus, raw).Err(); err != nil {
		log.Error().Err(err).Str("table_id", event.TableID).Msg("failed to publish table-status event")
		return
	}
	log.Debug().Str("table_id", event.TableID).Msg("table status event delivered")
}
