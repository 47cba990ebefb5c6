package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"celinker/internal/linker"
)

// Store persists decisions and operator actions backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

var _ linker.Recorder = (*Store)(nil)

// Entry is one decision summary row for listings.
type Entry struct {
	TraceID      string
	Query        string
	NeedsReview  bool
	BestRecordID *int64
	Rationale    string
	CreatedAt    time.Time
}

// Detail is a fully hydrated decision with its raw responses and any
// operator actions taken against it.
type Detail struct {
	Entry
	Decision  linker.Decision
	Responses []linker.KeyResult
	Actions   []Action
}

// Action is one operator action recorded against a decision.
type Action struct {
	ID        int64
	TraceID   string
	Actor     string
	Action    string
	RecordID  *int64
	Note      string
	CreatedAt time.Time
}

// Open initializes or connects to the audit database at the given path.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordDecision stores one completed pipeline run. An existing row for the
// same trace identifier is replaced; trace identifiers are unique per run,
// so a conflict only occurs when a run is re-recorded.
func (s *Store) RecordDecision(ctx context.Context, record linker.AuditRecord) error {
	decisionJSON, err := json.Marshal(record.Decision)
	if err != nil {
		return fmt.Errorf("marshal decision: %w", err)
	}
	responsesJSON, err := json.Marshal(record.Responses)
	if err != nil {
		return fmt.Errorf("marshal responses: %w", err)
	}

	var bestRecordID any
	if record.Decision.Best != nil {
		bestRecordID = record.Decision.Best.RecordID
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT OR REPLACE INTO decisions (
            trace_id, query, needs_review, best_record_id, rationale,
            decision_json, responses_json, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.TraceID,
		record.Query,
		boolToInt(record.Decision.NeedsReview),
		bestRecordID,
		record.Decision.Rationale,
		string(decisionJSON),
		string(responsesJSON),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}

// RecordAction stores one operator action against a recorded decision.
func (s *Store) RecordAction(ctx context.Context, traceID, actor, action string, recordID *int64, note string) error {
	var recordIDValue any
	if recordID != nil {
		recordIDValue = *recordID
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO actions (trace_id, actor, action, record_id, note, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		traceID,
		actor,
		action,
		recordIDValue,
		nullableString(note),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert action: %w", err)
	}
	return nil
}

// Recent returns the newest decision summaries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT trace_id, query, needs_review, best_record_id, rationale, created_at
         FROM decisions ORDER BY created_at DESC, trace_id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent decisions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// PendingReview returns decisions flagged for review that have no recorded
// operator action yet, oldest first.
func (s *Store) PendingReview(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT d.trace_id, d.query, d.needs_review, d.best_record_id, d.rationale, d.created_at
         FROM decisions d
         WHERE d.needs_review = 1
           AND NOT EXISTS (SELECT 1 FROM actions a WHERE a.trace_id = d.trace_id)
         ORDER BY d.created_at LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query pending review: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Get returns the full decision detail for a trace identifier, or nil when
// no such decision exists.
func (s *Store) Get(ctx context.Context, traceID string) (*Detail, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT trace_id, query, needs_review, best_record_id, rationale, created_at,
                decision_json, responses_json
         FROM decisions WHERE trace_id = ?`,
		traceID,
	)

	var (
		entry         Entry
		needsReview   int
		bestRecordID  sql.NullInt64
		createdRaw    string
		decisionJSON  string
		responsesJSON string
	)
	err := row.Scan(
		&entry.TraceID,
		&entry.Query,
		&needsReview,
		&bestRecordID,
		&entry.Rationale,
		&createdRaw,
		&decisionJSON,
		&responsesJSON,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get decision: %w", err)
	}

	entry.NeedsReview = needsReview != 0
	if bestRecordID.Valid {
		id := bestRecordID.Int64
		entry.BestRecordID = &id
	}
	if created, parseErr := time.Parse(time.RFC3339Nano, createdRaw); parseErr == nil {
		entry.CreatedAt = created
	}

	detail := &Detail{Entry: entry}
	if err := json.Unmarshal([]byte(decisionJSON), &detail.Decision); err != nil {
		return nil, fmt.Errorf("unmarshal decision: %w", err)
	}
	if err := json.Unmarshal([]byte(responsesJSON), &detail.Responses); err != nil {
		return nil, fmt.Errorf("unmarshal responses: %w", err)
	}

	actions, err := s.actionsFor(ctx, traceID)
	if err != nil {
		return nil, err
	}
	detail.Actions = actions
	return detail, nil
}

func (s *Store) actionsFor(ctx context.Context, traceID string) ([]Action, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, trace_id, actor, action, record_id, note, created_at
         FROM actions WHERE trace_id = ? ORDER BY id`,
		traceID,
	)
	if err != nil {
		return nil, fmt.Errorf("query actions: %w", err)
	}
	defer rows.Close()

	var actions []Action
	for rows.Next() {
		var (
			action     Action
			recordID   sql.NullInt64
			note       sql.NullString
			createdRaw string
		)
		if err := rows.Scan(&action.ID, &action.TraceID, &action.Actor, &action.Action, &recordID, &note, &createdRaw); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		if recordID.Valid {
			id := recordID.Int64
			action.RecordID = &id
		}
		action.Note = note.String
		if created, parseErr := time.Parse(time.RFC3339Nano, createdRaw); parseErr == nil {
			action.CreatedAt = created
		}
		actions = append(actions, action)
	}
	return actions, rows.Err()
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var (
		entry        Entry
		needsReview  int
		bestRecordID sql.NullInt64
		createdRaw   string
	)
	if err := scanner.Scan(
		&entry.TraceID,
		&entry.Query,
		&needsReview,
		&bestRecordID,
		&entry.Rationale,
		&createdRaw,
	); err != nil {
		return Entry{}, fmt.Errorf("scan decision: %w", err)
	}
	entry.NeedsReview = needsReview != 0
	if bestRecordID.Valid {
		id := bestRecordID.Int64
		entry.BestRecordID = &id
	}
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		entry.CreatedAt = created
	}
	return entry, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
