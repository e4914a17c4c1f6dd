package sqlitestore

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/idilsaglam/snaptodo/internal/model"
)

type todoRow struct {
	ID        int64  `db:"id"`
	Title     string `db:"title"`
	CreatedAt int64  `db:"created_at"`
}

func (r todoRow) toModel() model.TodoItem {
	return model.TodoItem{
		ID:        r.ID,
		Title:     r.Title,
		CreatedAt: time.UnixMilli(r.CreatedAt),
	}
}

// Insert appends a todo. The id is assigned by SQLite and never reused.
func (s *Store) Insert(ctx context.Context, title string, createdAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO todo (title, created_at) VALUES (?, ?)`,
		title, createdAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		log.Debug().Int64("id", id).Msg("todo inserted")
	}
	s.afterWrite(ctx, "insert")
	return nil
}

// DeleteByID removes the todo with the given id. A missing id is not an error.
func (s *Store) DeleteByID(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM todo WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete todo %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		log.Debug().Int64("id", id).Msg("delete: no such todo")
		return nil
	}
	s.afterWrite(ctx, "delete")
	return nil
}

// List returns every todo in insertion order.
func (s *Store) List(ctx context.Context) ([]model.TodoItem, error) {
	var rows []todoRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT id, title, created_at FROM todo ORDER BY id`); err != nil {
		return nil, fmt.Errorf("select todos: %w", err)
	}
	out := make([]model.TodoItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

// Observe returns a live view of the table. The current list arrives first;
// a new list is pushed after each change. The channel closes when ctx ends
// or the store is closed.
func (s *Store) Observe(ctx context.Context) <-chan []model.TodoItem {
	return s.feed.Subscribe(ctx)
}

// afterWrite publishes a committed change. The row is already stored, so a
// failed re-read is logged rather than reported as a failed write; the next
// refresh catches the feed up.
func (s *Store) afterWrite(ctx context.Context, op string) {
	if err := s.refresh(ctx); err != nil {
		log.Warn().Err(err).Str("op", op).Msg("write committed, live list not refreshed")
	}
}

// refresh re-reads the table and publishes it if it differs from the last snapshot.
func (s *Store) refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.snapshot(ctx)
	if err != nil {
		return err
	}
	if prev, ok := s.feed.Value(); ok && sameItems(prev, items) {
		return nil
	}
	s.feed.Publish(items)
	return nil
}

func sameItems(a, b []model.TodoItem) bool {
	return slices.EqualFunc(a, b, func(x, y model.TodoItem) bool {
		return x.ID == y.ID && x.Title == y.Title && x.CreatedAt.Equal(y.CreatedAt)
	})
}
