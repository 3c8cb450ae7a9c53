package recorder

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubstats/backend/internal/storage/models"
)

type fakeStore struct {
	mu       sync.Mutex
	inserted []models.UnansweredQuestion
	failOn   string
}

func (f *fakeStore) InsertUnanswered(record *models.UnansweredQuestion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn != "" && record.Question == f.failOn {
		return errors.New("insert failed")
	}
	f.inserted = append(f.inserted, *record)
	return nil
}

func (f *fakeStore) ListUnanswered(models.UnansweredFilter) ([]models.UnansweredQuestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.UnansweredQuestion(nil), f.inserted...), nil
}

func (f *fakeStore) MarkUnansweredHandled(string) error { return nil }
func (f *fakeStore) DeleteUnanswered(string) error { return nil }
func (f *fakeStore) DeleteAllUnanswered() (int64, error) { return 0, nil }
func (f *fakeStore) DeleteHandledUnansweredBefore(time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inserted)
}

func TestSubmitPersistsRecord(t *testing.T) {
	store := &fakeStore{}
	r := New(store, 8, nil)

	r.Submit("How many goals has Luke Bangs scored?", "Luke Bangs", "single_stat", "simple", 0.3)
	r.Stop()

	require.Equal(t, 1, store.count())
	record := store.inserted[0]
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "How many goals has Luke Bangs scored?", record.Question)
	assert.Equal(t, "Luke Bangs", record.UserContext)
	assert.Equal(t, "single_stat", record.QuestionType)
	assert.Equal(t, "simple", record.Complexity)
	assert.Equal(t, 0.3, record.Confidence)
	assert.False(t, record.Handled)
	assert.False(t, record.CreatedAt.IsZero())
}

func TestSubmitNeverBlocksWhenQueueIsFull(t *testing.T) {
	// a store that blocks until released keeps the single drain worker busy
	release := make(chan struct{})
	store := &blockingStore{release: release}
	r := New(store, 1, nil)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			r.Submit("question", "", "single_stat", "simple", 0.1)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Submit blocked on a full queue")
	}

	close(release)
	r.Stop()
}

type blockingStore struct {
	fakeStore
	release chan struct{}
}

func (b *blockingStore) InsertUnanswered(record *models.UnansweredQuestion) error {
	<-b.release
	return b.fakeStore.InsertUnanswered(record)
}

func TestStoreFailuresDoNotStopTheWorker(t *testing.T) {
	store := &fakeStore{failOn: "first"}
	r := New(store, 8, nil)

	r.Submit("first", "", "single_stat", "simple", 0.1)
	r.Submit("second", "", "single_stat", "simple", 0.1)
	r.Stop()

	require.Equal(t, 1, store.count())
	assert.Equal(t, "second", store.inserted[0].Question)
}

func TestStopIsIdempotent(t *testing.T) {
	r := New(&fakeStore{}, 8, nil)
	r.Stop()
	r.Stop()
}

func TestSubmitAfterStopIsDropped(t *testing.T) {
	store := &fakeStore{}
	r := New(store, 8, nil)
	r.Stop()

	r.Submit("late", "", "single_stat", "simple", 0.1)

	assert.Equal(t, 0, store.count())
}

func TestSubmitAssignsUniqueIDs(t *testing.T) {
	store := &fakeStore{}
	r := New(store, 8, nil)

	r.Submit("a", "", "single_stat", "simple", 0.1)
	r.Submit("b", "", "single_stat", "simple", 0.1)
	r.Stop()

	require.Equal(t, 2, store.count())
	assert.NotEqual(t, store.inserted[0].ID, store.inserted[1].ID)
}
