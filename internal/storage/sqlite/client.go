package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/clubstats/backend/internal/storage/models"
	"github.com/clubstats/backend/pkg/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err = db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err = db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS unanswered_questions (
		id TEXT PRIMARY KEY,
		question TEXT NOT NULL,
		user_context TEXT,
		question_type TEXT,
		complexity TEXT,
		confidence REAL,
		handled INTEGER DEFAULT 0,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_unanswered_created ON unanswered_questions(created_at);
	CREATE INDEX IF NOT EXISTS idx_unanswered_handled ON unanswered_questions(handled);
	`

	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

func (c *Client) InsertUnanswered(record *models.UnansweredQuestion) error {
	query := `
		INSERT INTO unanswered_questions (id, question, user_context, question_type, complexity, confidence, handled, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	handled := 0
	if record.Handled {
		handled = 1
	}

	_, err := c.db.Exec(
		query,
		record.ID,
		record.Question,
		record.UserContext,
		record.QuestionType,
		record.Complexity,
		record.Confidence,
		handled,
		record.CreatedAt.Unix(),
	)

	if err != nil {
		return fmt.Errorf("failed to insert unanswered question: %w", err)
	}

	logger.Debug("Unanswered question recorded",
		zap.String("id", record.ID),
		zap.String("question", record.Question),
	)

	return nil
}

func (c *Client) ListUnanswered(filter models.UnansweredFilter) ([]models.UnansweredQuestion, error) {
	query := `
		SELECT id, question, user_context, question_type, complexity, confidence, handled, created_at
		FROM unanswered_questions
	`

	var conditions []string
	var args []any

	if filter.Handled != nil {
		handled := 0
		if *filter.Handled {
			handled = 1
		}
		conditions = append(conditions, "handled = ?")
		args = append(args, handled)
	}
	if filter.MinConfidence != nil {
		conditions = append(conditions, "confidence >= ?")
		args = append(args, *filter.MinConfidence)
	}
	if filter.MaxConfidence != nil {
		conditions = append(conditions, "confidence <= ?")
		args = append(args, *filter.MaxConfidence)
	}
	if filter.From != nil {
		conditions = append(conditions, "created_at >= ?")
		args = append(args, filter.From.Unix())
	}
	if filter.To != nil {
		conditions = append(conditions, "created_at <= ?")
		args = append(args, filter.To.Unix())
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, filter.Offset)

	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list unanswered questions: %w", err)
	}
	defer rows.Close()

	var records []models.UnansweredQuestion
	for rows.Next() {
		var r models.UnansweredQuestion
		var userContext sql.NullString
		var handled int
		var createdAt int64

		err := rows.Scan(&r.ID, &r.Question, &userContext, &r.QuestionType, &r.Complexity, &r.Confidence, &handled, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		r.UserContext = userContext.String
		r.Handled = handled == 1
		r.CreatedAt = time.Unix(createdAt, 0)
		records = append(records, r)
	}

	return records, rows.Err()
}

func (c *Client) MarkUnansweredHandled(id string) error {
	result, err := c.db.Exec("UPDATE unanswered_questions SET handled = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to mark question handled: %w", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("unanswered question not found: %s", id)
	}

	return nil
}

func (c *Client) DeleteUnanswered(id string) error {
	result, err := c.db.Exec("DELETE FROM unanswered_questions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete unanswered question: %w", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("unanswered question not found: %s", id)
	}

	return nil
}

func (c *Client) DeleteAllUnanswered() (int64, error) {
	result, err := c.db.Exec("DELETE FROM unanswered_questions")
	if err != nil {
		return 0, fmt.Errorf("failed to delete unanswered questions: %w", err)
	}

	deleted, _ := result.RowsAffected()
	logger.Info("All unanswered questions deleted", zap.Int64("count", deleted))
	return deleted, nil
}

// DeleteHandledUnansweredBefore purges handled records older than the cutoff.
// Unhandled records are never purged regardless of age.
func (c *Client) DeleteHandledUnansweredBefore(cutoff time.Time) (int64, error) {
	result, err := c.db.Exec(
		"DELETE FROM unanswered_questions WHERE handled = 1 AND created_at < ?",
		cutoff.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to purge handled questions: %w", err)
	}

	deleted, _ := result.RowsAffected()
	logger.Info("Handled unanswered questions purged",
		zap.Int64("count", deleted),
		zap.Time("cutoff", cutoff),
	)
	return deleted, nil
}
