package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"spritegen/imagegen"
)

// Generation is one row of the generations table.
type Generation struct {
	ID            int64     // Auto-incremented primary key
	CorrelationID string    // Links the row to log lines from the same run
	Provider      string    // Provider name: "gemini" or "openai"
	Model         string    // Model that served the call
	Prompt        string    // Full prompt text as sent
	OutputPath    string    // Where the image was written
	EditPath      string    // Edit image path, empty for pure generation
	RefCount      int       // Number of reference images attached
	PromptTokens  int       // Input tokens consumed
	OutputTokens  int       // Output tokens generated
	TotalTokens   int       // Total tokens billed
	DurationMS    int64     // Wall time of the provider call in milliseconds
	CreatedAt     time.Time // When the run finished
}

// Store is the SQLite-backed generation history.
//
// Thread Safety: Store is safe for concurrent use; the connection pool is
// configured for a single writer, which serializes inserts.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path and applies
// pending schema migrations.
func Open(path string) (*Store, error) {
	db, err := openConnection(DefaultConnectionConfig(path))
	if err != nil {
		return nil, err
	}
	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordGeneration implements imagegen.HistoryRecorder.
func (s *Store) RecordGeneration(ctx context.Context, rec imagegen.GenerationRecord) error {
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	const query = `
		INSERT INTO generations (
			correlation_id, provider, model, prompt, output_path,
			edit_path, ref_count, prompt_tokens, output_tokens,
			total_tokens, duration_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		rec.CorrelationID, rec.Provider, rec.Model, rec.Prompt, rec.OutputPath,
		rec.EditPath, rec.RefCount, rec.PromptTokens, rec.OutputTokens,
		rec.TotalTokens, rec.DurationMS, createdAt,
	)
	if err != nil {
		return fmt.Errorf("history: failed to insert generation: %w", err)
	}
	return nil
}

// Recent returns the most recent generations, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Generation, error) {
	if limit <= 0 {
		limit = 10
	}

	const query = `
		SELECT id, correlation_id, provider, model, prompt, output_path,
		       edit_path, ref_count, prompt_tokens, output_tokens,
		       total_tokens, duration_ms, created_at
		FROM generations
		ORDER BY created_at DESC, id DESC
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("history: failed to query generations: %w", err)
	}
	defer rows.Close()

	var out []Generation
	for rows.Next() {
		var g Generation
		if err := rows.Scan(
			&g.ID, &g.CorrelationID, &g.Provider, &g.Model, &g.Prompt,
			&g.OutputPath, &g.EditPath, &g.RefCount, &g.PromptTokens,
			&g.OutputTokens, &g.TotalTokens, &g.DurationMS, &g.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("history: failed to scan generation: %w", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: failed to read generations: %w", err)
	}
	return out, nil
}

// Count returns the total number of recorded generations.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM generations").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("history: failed to count generations: %w", err)
	}
	return n, nil
}

// Ensure Store implements the recorder interface at compile time.
var _ imagegen.HistoryRecorder = (*Store)(nil)
