package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/okian/competency/internal/domain/competency"
	"github.com/okian/competency/internal/domain/model"
	"github.com/okian/competency/pkg/logger"
	"github.com/okian/competency/pkg/metrics"
)

const schema = `
CREATE TABLE IF NOT EXISTS questions (
	id         INTEGER PRIMARY KEY,
	text       TEXT    NOT NULL,
	competency TEXT    NOT NULL,
	category   TEXT    NOT NULL DEFAULT '',
	active     INTEGER NOT NULL DEFAULT 1,
	order_num  INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS question_options (
	id          INTEGER PRIMARY KEY,
	question_id INTEGER NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
	text        TEXT    NOT NULL,
	score       INTEGER NOT NULL,
	order_num   INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_question_options_question ON question_options(question_id);
CREATE TABLE IF NOT EXISTS test_results (
	id              TEXT PRIMARY KEY,
	user_id         TEXT NOT NULL,
	taken_at        TEXT NOT NULL,
	answers         TEXT NOT NULL,
	scores          TEXT NOT NULL,
	recommendations TEXT NOT NULL,
	profile_data    TEXT
);
CREATE INDEX IF NOT EXISTS idx_test_results_user ON test_results(user_id, taken_at);
`

// SQLiteStore persists questions and results in a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	log logger.Logger
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) the database at dsn and ensures the
// schema exists. Requires a cgo-enabled build.
func OpenSQLite(ctx context.Context, dsn string, opts ...Option) (*SQLiteStore, error) {
	o := buildOptions(opts)
	if !strings.Contains(dsn, "_foreign_keys") {
		dsn += sep(dsn) + "_foreign_keys=on"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenStore, err)
	}
	db.SetMaxOpenConns(o.maxOpenConns)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping: %w", ErrOpenStore, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: schema: %w", ErrOpenStore, err)
	}
	o.log.Info(ctx, "sqlite store ready", logger.String("dsn", dsn))
	return &SQLiteStore{db: db, log: o.log}, nil
}

func sep(dsn string) string {
	if strings.Contains(dsn, "?") {
		return "&"
	}
	return "?"
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) ActiveQuestions(ctx context.Context) ([]model.Question, error) {
	defer observe("sqlite", "active_questions", time.Now())
	return s.questions(ctx, "WHERE active = 1")
}

func (s *SQLiteStore) AllQuestions(ctx context.Context) ([]model.Question, error) {
	defer observe("sqlite", "all_questions", time.Now())
	return s.questions(ctx, "")
}

func (s *SQLiteStore) questions(ctx context.Context, where string) ([]model.Question, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, text, competency, category, active, order_num FROM questions "+where+" ORDER BY order_num, id")
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var out []model.Question
	index := make(map[int64]int)
	for rows.Next() {
		var q model.Question
		var comp string
		if err := rows.Scan(&q.ID, &q.Text, &comp, &q.Category, &q.Active, &q.OrderNum); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q.Competency = competency.Key(comp)
		q.Options = []model.Option{}
		index[q.ID] = len(out)
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	if len(out) == 0 {
		return []model.Question{}, nil
	}

	opts, err := s.db.QueryContext(ctx,
		"SELECT id, question_id, text, score, order_num FROM question_options ORDER BY order_num, id")
	if err != nil {
		return nil, fmt.Errorf("query options: %w", err)
	}
	defer opts.Close()
	for opts.Next() {
		var o model.Option
		if err := opts.Scan(&o.ID, &o.QuestionID, &o.Text, &o.Score, &o.OrderNum); err != nil {
			return nil, fmt.Errorf("scan option: %w", err)
		}
		if i, ok := index[o.QuestionID]; ok {
			out[i].Options = append(out[i].Options, o)
		}
	}
	if err := opts.Err(); err != nil {
		return nil, fmt.Errorf("iterate options: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) SaveQuestions(ctx context.Context, questions []model.Question) (err error) {
	defer observe("sqlite", "save_questions", time.Now())
	if err := validateQuestions(questions); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, q := range questions {
		if _, err = tx.ExecContext(ctx, "DELETE FROM question_options WHERE question_id = ?", q.ID); err != nil {
			return fmt.Errorf("clear options of question %d: %w", q.ID, err)
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO questions (id, text, competency, category, active, order_num) VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET text = excluded.text, competency = excluded.competency,
			 category = excluded.category, active = excluded.active, order_num = excluded.order_num`,
			q.ID, q.Text, string(q.Competency), q.Category, q.Active, q.OrderNum); err != nil {
			return fmt.Errorf("upsert question %d: %w", q.ID, err)
		}
		for _, o := range q.Options {
			if _, err = tx.ExecContext(ctx,
				"INSERT OR REPLACE INTO question_options (id, question_id, text, score, order_num) VALUES (?, ?, ?, ?, ?)",
				o.ID, q.ID, o.Text, o.Score, o.OrderNum); err != nil {
				return fmt.Errorf("insert option %d: %w", o.ID, err)
			}
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CountQuestions(ctx context.Context) (int, error) {
	return s.count(ctx, "questions")
}

func (s *SQLiteStore) SaveResult(ctx context.Context, result model.Result) error {
	defer observe("sqlite", "save_result", time.Now())
	rec, err := encodeResult(result)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO test_results (id, user_id, taken_at, answers, scores, recommendations, profile_data)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.id, rec.userID, rec.takenAt.Format(timeLayout),
		string(rec.answers), string(rec.scores), string(rec.recommendations), string(rec.profile))
	if err != nil {
		var sqlErr sqlite3.Error
		if errors.As(err, &sqlErr) && sqlErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return ErrDuplicateResult
		}
		return fmt.Errorf("insert result %s: %w", rec.id, err)
	}
	if n, err := s.CountResults(ctx); err == nil {
		metrics.UpdateStoredResults(n)
	}
	return nil
}

const (
	resultColumns = "id, user_id, taken_at, answers, scores, recommendations, profile_data"
	// fixed width so taken_at sorts lexically
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

func (s *SQLiteStore) Result(ctx context.Context, id string) (model.Result, error) {
	defer observe("sqlite", "result", time.Now())
	row := s.db.QueryRowContext(ctx, "SELECT "+resultColumns+" FROM test_results WHERE id = ?", id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Result{}, ErrNotFound
	}
	if err != nil {
		return model.Result{}, err
	}
	return rec.decode()
}

func (s *SQLiteStore) ResultsByUser(ctx context.Context, userID string) ([]model.Result, error) {
	defer observe("sqlite", "results_by_user", time.Now())
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+resultColumns+" FROM test_results WHERE user_id = ? ORDER BY taken_at DESC, rowid DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var recs []record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			s.log.Warn(ctx, "skipping unreadable row", logger.Error(err))
			continue
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return decodeAll(ctx, s.log, recs), nil
}

func (s *SQLiteStore) RawScoreBlobs(ctx context.Context) ([][]byte, error) {
	defer observe("sqlite", "raw_score_blobs", time.Now())
	rows, err := s.db.QueryContext(ctx, "SELECT scores FROM test_results ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	var out [][]byte
	for rows.Next() {
		var blob sql.NullString
		if err := rows.Scan(&blob); err != nil {
			return nil, fmt.Errorf("scan scores: %w", err)
		}
		out = append(out, []byte(blob.String))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scores: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) CountResults(ctx context.Context) (int, error) {
	return s.count(ctx, "test_results")
}

func (s *SQLiteStore) count(ctx context.Context, table string) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (record, error) {
	var (
		rec                            record
		takenAt                        string
		answers, scores, recs, profile sql.NullString
	)
	if err := sc.Scan(&rec.id, &rec.userID, &takenAt, &answers, &scores, &recs, &profile); err != nil {
		return record{}, err
	}
	t, err := time.Parse(timeLayout, takenAt)
	if err != nil {
		return record{}, fmt.Errorf("%w: result %s taken_at: %w", model.ErrCorruptRecord, rec.id, err)
	}
	rec.takenAt = t
	rec.answers = []byte(answers.String)
	rec.scores = []byte(scores.String)
	rec.recommendations = []byte(recs.String)
	rec.profile = []byte(profile.String)
	return rec, nil
}
