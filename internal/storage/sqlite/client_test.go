package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubstats/backend/internal/storage/models"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	require.NoError(t, client.InitSchema())
	return client
}

func newRecord(question string, confidence float64, createdAt time.Time) *models.UnansweredQuestion {
	return &models.UnansweredQuestion{
		ID:           uuid.New().String(),
		Question:     question,
		QuestionType: "single_stat",
		Complexity:   "complex",
		Confidence:   confidence,
		CreatedAt:    createdAt,
	}
}

func TestInsertAndListUnanswered(t *testing.T) {
	client := newTestClient(t)

	record := newRecord("What's the weather like today?", 0.3, time.Now())
	record.UserContext = "Luke Bangs"
	require.NoError(t, client.InsertUnanswered(record))

	records, err := client.ListUnanswered(models.UnansweredFilter{})
	require.NoError(t, err)
	require.Len(t, records, 1)

	got := records[0]
	assert.Equal(t, record.ID, got.ID)
	assert.Equal(t, record.Question, got.Question)
	assert.Equal(t, "Luke Bangs", got.UserContext)
	assert.Equal(t, "single_stat", got.QuestionType)
	assert.Equal(t, "complex", got.Complexity)
	assert.Equal(t, 0.3, got.Confidence)
	assert.False(t, got.Handled)
}

func TestListUnansweredOrdersByNewestFirst(t *testing.T) {
	client := newTestClient(t)

	base := time.Now().Add(-time.Hour)
	require.NoError(t, client.InsertUnanswered(newRecord("old", 0.3, base)))
	require.NoError(t, client.InsertUnanswered(newRecord("new", 0.3, base.Add(time.Minute))))

	records, err := client.ListUnanswered(models.UnansweredFilter{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "new", records[0].Question)
	assert.Equal(t, "old", records[1].Question)
}

func TestListUnansweredFilters(t *testing.T) {
	client := newTestClient(t)

	now := time.Now()
	low := newRecord("low confidence", 0.2, now)
	high := newRecord("high confidence", 0.7, now)
	handled := newRecord("handled one", 0.2, now)
	handled.Handled = true

	for _, r := range []*models.UnansweredQuestion{low, high, handled} {
		require.NoError(t, client.InsertUnanswered(r))
	}

	t.Run("by handled", func(t *testing.T) {
		unhandled := false
		records, err := client.ListUnanswered(models.UnansweredFilter{Handled: &unhandled})
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("by confidence range", func(t *testing.T) {
		min := 0.5
		records, err := client.ListUnanswered(models.UnansweredFilter{MinConfidence: &min})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, high.ID, records[0].ID)
	})

	t.Run("by date window", func(t *testing.T) {
		from := now.Add(-time.Minute)
		to := now.Add(time.Minute)
		records, err := client.ListUnanswered(models.UnansweredFilter{From: &from, To: &to})
		require.NoError(t, err)
		assert.Len(t, records, 3)
	})

	t.Run("limit and offset", func(t *testing.T) {
		records, err := client.ListUnanswered(models.UnansweredFilter{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, records, 2)

		records, err = client.ListUnanswered(models.UnansweredFilter{Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})
}

func TestMarkUnansweredHandled(t *testing.T) {
	client := newTestClient(t)

	record := newRecord("pending", 0.3, time.Now())
	require.NoError(t, client.InsertUnanswered(record))

	require.NoError(t, client.MarkUnansweredHandled(record.ID))

	records, err := client.ListUnanswered(models.UnansweredFilter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Handled)

	assert.Error(t, client.MarkUnansweredHandled("no-such-id"))
}

func TestDeleteUnanswered(t *testing.T) {
	client := newTestClient(t)

	record := newRecord("to delete", 0.3, time.Now())
	require.NoError(t, client.InsertUnanswered(record))

	require.NoError(t, client.DeleteUnanswered(record.ID))
	assert.Error(t, client.DeleteUnanswered(record.ID))

	records, err := client.ListUnanswered(models.UnansweredFilter{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDeleteAllUnanswered(t *testing.T) {
	client := newTestClient(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, client.InsertUnanswered(newRecord("q", 0.3, time.Now())))
	}

	deleted, err := client.DeleteAllUnanswered()
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
}

func TestPurgeKeepsUnhandledRecords(t *testing.T) {
	client := newTestClient(t)

	old := time.Now().Add(-48 * time.Hour)

	oldHandled := newRecord("old handled", 0.3, old)
	oldHandled.Handled = true
	oldUnhandled := newRecord("old unhandled", 0.3, old)
	recentHandled := newRecord("recent handled", 0.3, time.Now())
	recentHandled.Handled = true

	for _, r := range []*models.UnansweredQuestion{oldHandled, oldUnhandled, recentHandled} {
		require.NoError(t, client.InsertUnanswered(r))
	}

	deleted, err := client.DeleteHandledUnansweredBefore(time.Now().Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	records, err := client.ListUnanswered(models.UnansweredFilter{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, r := range records {
		assert.NotEqual(t, "old handled", r.Question)
	}
}
