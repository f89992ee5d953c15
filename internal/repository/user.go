package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"innovation_hunt/internal/model"

	"github.com/Masterminds/squirrel"
)

type user struct {
	PhoneNumber    string    `db:"phone_number"`
	UserID         string    `db:"user_id"`
	Name           *string   `db:"name"`
	Email          *string   `db:"email"`
	LinkedInURL    *string   `db:"linkedin_url"`
	RawProfileText *string   `db:"raw_profile_text"`
	Category       *string   `db:"category"`
	Points         int       `db:"points"`
	CreatedAt      time.Time `db:"created_at"`
}

func (u *user) toModel() *model.User {
	m := &model.User{
		PhoneNumber: u.PhoneNumber,
		UserID:      u.UserID,
		Points:      u.Points,
		CreatedAt:   u.CreatedAt,
	}
	if u.Name != nil {
		m.Name = *u.Name
	}
	if u.Email != nil {
		m.Email = *u.Email
	}
	if u.LinkedInURL != nil {
		m.LinkedInURL = *u.LinkedInURL
	}
	if u.RawProfileText != nil {
		m.RawProfileText = *u.RawProfileText
	}
	if u.Category != nil {
		m.Category = model.Category(*u.Category)
	}
	return m
}

func (r *Repository) CreateUser(ctx context.Context, u *model.User) error {
	query, args, err := squirrel.
		Insert("users").
		SetMap(map[string]interface{}{
			"phone_number": u.PhoneNumber,
			"user_id":      u.UserID,
			"created_at":   u.CreatedAt,
			"points":       u.Points,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build user insert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		switch uniqueViolation(err) {
		case constraintUserID:
			return ErrUserIDTaken
		case constraintUserPhone:
			return ErrUserExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

func (r *Repository) GetUserByPhone(ctx context.Context, phone string) (*model.User, error) {
	return r.getUserBy(ctx, squirrel.Eq{"phone_number": phone})
}

func (r *Repository) GetUserByUserID(ctx context.Context, userID string) (*model.User, error) {
	return r.getUserBy(ctx, squirrel.Eq{"user_id": userID})
}

func (r *Repository) getUserBy(ctx context.Context, pred squirrel.Eq) (*model.User, error) {
	var u user
	query, args, err := squirrel.
		Select("*").
		From("users").
		Where(pred).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &u, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return u.toModel(), nil
}

func (r *Repository) SetUserName(ctx context.Context, phone, name string) error {
	return r.updateUserColumn(ctx, phone, "name", name)
}

func (r *Repository) SetUserEmail(ctx context.Context, phone, email string) error {
	return r.updateUserColumn(ctx, phone, "email", email)
}

func (r *Repository) SetUserLinkedIn(ctx context.Context, phone, url string) error {
	return r.updateUserColumn(ctx, phone, "linkedin_url", url)
}

func (r *Repository) SetUserAbout(ctx context.Context, phone, text string) error {
	return r.updateUserColumn(ctx, phone, "raw_profile_text", text)
}

func (r *Repository) SetUserCategory(ctx context.Context, phone string, category model.Category) error {
	return r.updateUserColumn(ctx, phone, "category", string(category))
}

func (r *Repository) updateUserColumn(ctx context.Context, phone, column string, value interface{}) error {
	query, args, err := squirrel.
		Update("users").
		Set(column, value).
		Where(squirrel.Eq{"phone_number": phone}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", column, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddUserPoints increments the durable points counter and returns the new
// value. A missing user yields ErrNotFound.
func (r *Repository) AddUserPoints(ctx context.Context, phone string, delta int) (int, error) {
	query, args, err := squirrel.
		Update("users").
		Set("points", squirrel.Expr("points + ?", delta)).
		Where(squirrel.Eq{"phone_number": phone}).
		Suffix("RETURNING points").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	var points int
	err = r.db.GetContext(ctx, &points, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to add user points: %w", err)
	}

	return points, nil
}

// GetTopUsers is the durable-counter view of the ranking, used as a
// fallback check against the Redis leaderboard.
func (r *Repository) GetTopUsers(ctx context.Context, limit int) ([]*model.User, error) {
	query, args, err := squirrel.
		Select("*").
		From("users").
		OrderBy("points DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var users []user
	err = r.db.SelectContext(ctx, &users, query, args...)
	if err != nil {
		return nil, err
	}

	userList := make([]*model.User, len(users))
	for i := range users {
		userList[i] = users[i].toModel()
	}
	return userList, nil
}
