package repository

import (
	"context"
	"errors"
	"fmt"

	"innovation_hunt/pkg/logger"

	pkgerrors "github.com/pkg/errors"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrUserIDTaken is returned when a freshly generated user_id collides
	// with an existing row. The caller retries with a new id.
	ErrUserIDTaken = errors.New("user id already taken")

	// ErrUserExists is returned when a row for the phone number already
	// exists (two requests raced on first contact).
	ErrUserExists = errors.New("user already exists")

	// ErrConnectionExists is returned when the directed (connector, connectee)
	// pair has already been recorded.
	ErrConnectionExists = errors.New("connection already recorded")
)

const (
	constraintUserID         = "users_user_id_key"
	constraintUserPhone      = "users_pkey"
	constraintConnectionOnce = "uq_connection_once"
)

type Repository struct {
	db *sqlx.DB
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Transaction(ctx context.Context, t func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	err = t(tx)
	if err != nil {
		txErr := tx.Rollback()
		if txErr != nil {
			return pkgerrors.Wrapf(err, "rollback error: %v", txErr)
		}
		return err
	}
	return tx.Commit()
}

// uniqueViolation returns the violated constraint name if err is a
// Postgres unique violation (SQLSTATE 23505), or "" otherwise.
func uniqueViolation(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName
	}
	return ""
}

type Config struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func New(cfg Config) (*Repository, error) {
	url := cfg.GetDatabaseURL()
	db, err := sqlx.Connect("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Logger().Info("Connected to database successfully")

	return &Repository{db: db}, nil
}

func (c *Config) GetDatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Name,
	)
}
