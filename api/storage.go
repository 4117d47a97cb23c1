package main

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func openDB(cfg config) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.db.dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.db.maxOpenConnections)
	db.SetMaxIdleConns(cfg.db.maxIdleConnections)
	db.SetConnMaxIdleTime(cfg.db.maxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		return nil, err
	}

	return db, nil
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL,
	password_hash BYTEA NOT NULL
);
CREATE TABLE IF NOT EXISTS tasks (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users (id),
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	completed BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS tasks_user_id_idx ON tasks (user_id);`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at TIMESTAMP NOT NULL,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL,
	password_hash BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users (id),
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	completed BOOLEAN NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS tasks_user_id_idx ON tasks (user_id);`

type storage struct {
	db *sqlx.DB
}

func newStorage(db *sqlx.DB) *storage {
	return &storage{db: db}
}

func (s *storage) createSchema() error {
	schema := postgresSchema
	if s.db.DriverName() == "sqlite3" {
		schema = sqliteSchema
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *storage) getUserByUsername(username string) (*user, error) {
	query := s.db.Rebind(`SELECT id, created_at, username, email, password_hash
			  FROM users
			  WHERE username = ?`)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var u user
	err := s.db.GetContext(ctx, &u, query, username)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, nil
		default:
			return nil, err
		}
	}
	return &u, nil
}

func (s *storage) getUserByID(id int) (*user, error) {
	query := s.db.Rebind(`SELECT id, created_at, username, email, password_hash
			  FROM users
			  WHERE id = ?`)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var u user
	err := s.db.GetContext(ctx, &u, query, id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, nil
		default:
			return nil, err
		}
	}
	return &u, nil
}

func (s *storage) insertUser(u *user) error {
	query := s.db.Rebind(`INSERT INTO users (created_at, username, email, password_hash)
			  VALUES (?, ?, ?, ?)
			  RETURNING id`)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	u.CreatedAt = time.Now().UTC()
	row := s.db.QueryRowContext(ctx, query, u.CreatedAt, u.Username, u.Email, u.PasswordHash)
	return row.Scan(&u.ID)
}

func (s *storage) getTasks(userID int) ([]task, error) {
	query := s.db.Rebind(`SELECT id, user_id, title, description, completed, created_at, updated_at
			  FROM tasks
			  WHERE user_id = ?
			  ORDER BY created_at DESC, id DESC`)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	tasks := []task{}
	err := s.db.SelectContext(ctx, &tasks, query, userID)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// getTask returns (nil, nil) both when the task does not exist and when it
// belongs to another user. Callers cannot tell the two apart.
func (s *storage) getTask(userID, taskID int) (*task, error) {
	query := s.db.Rebind(`SELECT id, user_id, title, description, completed, created_at, updated_at
			  FROM tasks
			  WHERE id = ? AND user_id = ?`)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var t task
	err := s.db.GetContext(ctx, &t, query, taskID, userID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, nil
		default:
			return nil, err
		}
	}
	return &t, nil
}

func (s *storage) insertTask(t *task) error {
	query := s.db.Rebind(`INSERT INTO tasks (user_id, title, description, completed, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?)
			  RETURNING id`)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	t.Completed = false
	t.CreatedAt = now
	t.UpdatedAt = now
	row := s.db.QueryRowContext(ctx, query, t.UserID, t.Title, t.Description, t.Completed, t.CreatedAt, t.UpdatedAt)
	return row.Scan(&t.ID)
}

// updateTask applies a partial update in a single statement so concurrent
// updates to the same task cannot interleave per-field. Nil fields keep
// their stored values. Returns (nil, nil) on the same terms as getTask.
func (s *storage) updateTask(userID, taskID int, title, description *string, completed *bool) (*task, error) {
	query := s.db.Rebind(`UPDATE tasks
			  SET title = COALESCE(?, title),
			      description = COALESCE(?, description),
			      completed = COALESCE(?, completed),
			      updated_at = ?
			  WHERE id = ? AND user_id = ?
			  RETURNING id, user_id, title, description, completed, created_at, updated_at`)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var t task
	row := s.db.QueryRowxContext(ctx, query, title, description, completed, time.Now().UTC(), taskID, userID)
	err := row.StructScan(&t)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, nil
		default:
			return nil, err
		}
	}
	return &t, nil
}

func (s *storage) deleteTask(userID, taskID int) (bool, error) {
	query := s.db.Rebind(`DELETE FROM tasks
			  WHERE id = ? AND user_id = ?`)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res, err := s.db.ExecContext(ctx, query, taskID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
