package store

import (
	"context"
	"database/sql"
	"sync"

	"github.com/example/campus-canteen/internal/domain/cart"
	"github.com/example/campus-canteen/internal/domain/catalog"
)

// CartStore persists a cart as an ordered list of lines so it can be
// restored after a restart by replaying them into the engine.
type CartStore interface {
	Save(ctx context.Context, userID string, lines []cart.Line) error
	Load(ctx context.Context, userID string) ([]cart.Line, error)
	Delete(ctx context.Context, userID string) error
}

// PostgresCartStore keeps cart lines in the cart_lines table, one row per
// line, ordered by position.
type PostgresCartStore struct {
	db *sql.DB
}

func NewPostgresCartStore(db *sql.DB) *PostgresCartStore {
	return &PostgresCartStore{db: db}
}

// Save replaces the user's saved lines with the given snapshot
func (s *PostgresCartStore) Save(ctx context.Context, userID string, lines []cart.Line) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM cart_lines WHERE user_id = $1", userID); err != nil {
		return err
	}

	for i, line := range lines {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO cart_lines (user_id, position, entry_id, name, price, image, category, quantity)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			userID, i, line.ID, line.Name, line.Price, line.Image, string(line.Category), line.Quantity,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Load returns the user's saved lines in saved order
func (s *PostgresCartStore) Load(ctx context.Context, userID string) ([]cart.Line, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT entry_id, name, price, image, category, quantity
		 FROM cart_lines
		 WHERE user_id = $1
		 ORDER BY position ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []cart.Line
	for rows.Next() {
		var line cart.Line
		var category string
		if err := rows.Scan(&line.ID, &line.Name, &line.Price, &line.Image, &category, &line.Quantity); err != nil {
			return nil, err
		}
		line.Category = catalog.Category(category)
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// Delete drops the user's saved cart
func (s *PostgresCartStore) Delete(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM cart_lines WHERE user_id = $1", userID)
	return err
}

// MemoryCartStore is an in-memory CartStore for tests and runs without a
// database
type MemoryCartStore struct {
	mu    sync.RWMutex
	lines map[string][]cart.Line
}

func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{lines: make(map[string][]cart.Line)}
}

func (s *MemoryCartStore) Save(_ context.Context, userID string, lines []cart.Line) error {
	saved := make([]cart.Line, len(lines))
	copy(saved, lines)

	s.mu.Lock()
	s.lines[userID] = saved
	s.mu.Unlock()
	return nil
}

func (s *MemoryCartStore) Load(_ context.Context, userID string) ([]cart.Line, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	saved, ok := s.lines[userID]
	if !ok {
		return nil, nil
	}
	out := make([]cart.Line, len(saved))
	copy(out, saved)
	return out, nil
}

func (s *MemoryCartStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	delete(s.lines, userID)
	s.mu.Unlock()
	return nil
}
