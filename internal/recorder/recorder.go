package recorder

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/clubstats/backend/internal/metrics"
	"github.com/clubstats/backend/internal/storage/models"
)

// Store is the persistence the recorder writes to and the admin surface reads
// from.
type Store interface {
	InsertUnanswered(*models.UnansweredQuestion) error
	ListUnanswered(models.UnansweredFilter) ([]models.UnansweredQuestion, error)
	MarkUnansweredHandled(id string) error
	DeleteUnanswered(id string) error
	DeleteAllUnanswered() (int64, error)
	DeleteHandledUnansweredBefore(cutoff time.Time) (int64, error)
}

// Recorder persists questions the engine could not confidently answer.
// Submissions go through a bounded channel drained by one background worker,
// so a slow or failing store can never block or fail the request path.
type Recorder struct {
	store Store
	queue chan models.UnansweredQuestion
	log   *zap.Logger

	mu      sync.RWMutex
	stopped bool

	wg       sync.WaitGroup
	stopOnce sync.Once
}

func New(store Store, queueSize int, log *zap.Logger) *Recorder {
	if queueSize <= 0 {
		queueSize = 256
	}
	if log == nil {
		log = zap.NewNop()
	}

	r := &Recorder{
		store: store,
		queue: make(chan models.UnansweredQuestion, queueSize),
		log:   log,
	}

	r.wg.Add(1)
	go r.drain()

	return r
}

// Submit enqueues a record without blocking. When the queue is full, or the
// recorder has already been stopped, the record is dropped and counted; these
// records are diagnostic, not authoritative.
func (r *Recorder) Submit(question, userContext, questionType, complexity string, confidence float64) {
	record := models.UnansweredQuestion{
		ID:           uuid.New().String(),
		Question:     question,
		UserContext:  userContext,
		QuestionType: questionType,
		Complexity:   complexity,
		Confidence:   confidence,
		CreatedAt:    time.Now(),
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.stopped {
		metrics.RecorderDropped.Inc()
		r.log.Warn("Recorder stopped, dropping record",
			zap.String("question", question),
		)
		return
	}

	select {
	case r.queue <- record:
		metrics.UnansweredRecorded.Inc()
	default:
		metrics.RecorderDropped.Inc()
		r.log.Warn("Recorder queue full, dropping record",
			zap.String("question", question),
		)
	}
}

func (r *Recorder) drain() {
	defer r.wg.Done()

	for record := range r.queue {
		record := record
		if err := r.store.InsertUnanswered(&record); err != nil {
			// logged only; the request path never sees store failures
			r.log.Error("Failed to persist unanswered question",
				zap.Error(err),
				zap.String("id", record.ID),
			)
		}
	}
}

// Stop closes the queue and waits for queued records to flush. Submissions
// arriving after Stop are dropped, not panicked on.
func (r *Recorder) Stop() {
	r.stopOnce.Do(func() {
		r.mu.Lock()
		r.stopped = true
		close(r.queue)
		r.mu.Unlock()
	})
	r.wg.Wait()
}

// Admin surface passthroughs.

func (r *Recorder) List(filter models.UnansweredFilter) ([]models.UnansweredQuestion, error) {
	return r.store.ListUnanswered(filter)
}

func (r *Recorder) MarkHandled(id string) error {
	return r.store.MarkUnansweredHandled(id)
}

func (r *Recorder) Delete(id string) error {
	return r.store.DeleteUnanswered(id)
}

func (r *Recorder) DeleteAll() (int64, error) {
	return r.store.DeleteAllUnanswered()
}

func (r *Recorder) PurgeHandledOlderThan(days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	return r.store.DeleteHandledUnansweredBefore(cutoff)
}
