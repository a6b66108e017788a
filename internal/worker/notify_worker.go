package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sprtutor/examportal/internal/config"
)

const notifyPollTimeout = 1 * time.Second

// NotifyWorker consumes finalized-result notices and dispatches the report
// to the moderator's inbox. Dispatch is currently a structured log line —
// the original portal only simulated the send — but the queue decouples it
// from the exam flow either way.
type NotifyWorker struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewNotifyWorker creates a new NotifyWorker.
func NewNotifyWorker(rdb *redis.Client, log zerolog.Logger) *NotifyWorker {
	return &NotifyWorker{
		rdb: rdb,
		log: log.With().Str("component", "notify_worker").Logger(),
	}
}

type notifyPayload struct {
	ResultID     string `json:"result_id"`
	Name         string `json:"name"`
	RollNumber   string `json:"roll_number"`
	MobileNumber string `json:"mobile_number"`
	Score        int    `json:"score"`
	Total        int    `json:"total"`
}

// Start consumes the queue until ctx is cancelled.
func (w *NotifyWorker) Start(ctx context.Context) {
	w.log.Info().Msg("NotifyWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("NotifyWorker stopping")
			return
		default:
			item, err := w.rdb.BLPop(ctx, notifyPollTimeout, config.WorkerKey.ResultNotifyQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var p notifyPayload
			if err := json.Unmarshal([]byte(item[1]), &p); err != nil {
				w.log.Error().Err(err).Msg("Invalid notification payload")
				continue
			}

			w.dispatch(&p)
		}
	}
}

// dispatch emits the report. Swapping this for a real mail sender is the
// only change needed to deliver actual emails.
func (w *NotifyWorker) dispatch(p *notifyPayload) {
	w.log.Info().
		Str("result_id", p.ResultID).
		Str("name", p.Name).
		Str("roll_number", p.RollNumber).
		Int("score", p.Score).
		Int("total", p.Total).
		Msg("Dispatching result report")
}
