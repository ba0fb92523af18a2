package recorder

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lfarias-dev/biblioteca-api/internal/models"
)

// Entry is one issued search to be persisted for auditing.
type Entry struct {
	Actor  models.Actor
	Q      string
	Params map[string]string
	At     time.Time
}

// Recorder persists search history best-effort: writes are queued on a
// buffered channel and batch-inserted by background workers. A full buffer
// drops the entry and a failed insert is logged and forgotten; nothing here
// may ever affect the search response that was already computed.
type Recorder struct {
	db  *sql.DB
	log *zap.Logger

	ch   chan Entry
	done chan struct{}
	wg   sync.WaitGroup
}

const (
	batchSize  = 50
	flushEvery = 250 * time.Millisecond
	writeTO    = 500 * time.Millisecond
)

// New starts the worker pool. Suggested: buf=4096, workers=2.
func New(db *sql.DB, log *zap.Logger, buf, workers int) *Recorder {
	r := &Recorder{
		db:   db,
		log:  log,
		ch:   make(chan Entry, buf),
		done: make(chan struct{}),
	}
	for range workers {
		r.wg.Add(1)
		go r.worker()
	}
	return r
}

// Enqueue queues an entry without blocking; dropped if the buffer is full.
func (r *Recorder) Enqueue(e Entry) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	select {
	case r.ch <- e:
	default:
		// buffer full; audit log is best-effort
	}
}

// Shutdown stops the workers, flushing whatever is still queued.
func (r *Recorder) Shutdown() {
	close(r.done)
	r.wg.Wait()
}

func (r *Recorder) worker() {
	defer r.wg.Done()
	tk := time.NewTicker(flushEvery)
	defer tk.Stop()

	batch := make([]Entry, 0, batchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := r.insertBatch(batch); err != nil {
			r.log.Warn("search history insert failed", zap.Int("entries", len(batch)), zap.Error(err))
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-r.done:
			for {
				select {
				case e := <-r.ch:
					batch = append(batch, e)
					if len(batch) >= batchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		case e := <-r.ch:
			batch = append(batch, e)
			if len(batch) >= batchSize {
				flush()
			}
		case <-tk.C:
			flush()
		}
	}
}

func (r *Recorder) insertBatch(batch []Entry) error {
	args := make([]any, 0, len(batch)*5)
	vals := make([]byte, 0, len(batch)*24)
	for i, e := range batch {
		if i > 0 {
			vals = append(vals, ',')
		}
		n := 5 * i
		vals = append(vals, fmt.Sprintf("($%d,$%d,$%d,$%d,$%d)", n+1, n+2, n+3, n+4, n+5)...)

		params, err := json.Marshal(e.Params)
		if err != nil {
			params = []byte("{}")
		}
		var userID any
		if e.Actor.UserID != "" {
			userID = e.Actor.UserID
		}
		args = append(args, userID, e.Actor.SessionKey, e.Q, params, e.At)
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTO)
	defer cancel()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO search_queries (user_id, session_key, q, params, created_at) VALUES `+string(vals),
		args...)
	return err
}
