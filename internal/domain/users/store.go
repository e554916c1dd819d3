package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"studyspots/internal/apperr"
	"studyspots/internal/db"
)

// nameConstraint backs the username uniqueness check; see schema.sql.
const nameConstraint = "users_name_key"

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

const userColumns = `id, name, password, cafes_visited, average_rating, profile_picture, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Name, &u.Password, &u.CafesVisited, &u.AverageRating,
		&u.ProfilePicture, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) Create(ctx context.Context, user *User) error {
	user.ID = uuid.NewString()

	query := `
	INSERT INTO users (id, name, password, cafes_visited, average_rating)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		user.ID, user.Name, user.Password, user.CafesVisited, user.AverageRating,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if db.IsUniqueViolation(err, nameConstraint) {
			return apperr.Conflict(apperr.DuplicateUsername)
		}
		return apperr.Dependency("insert user", err)
	}
	return nil
}

func (r *Repository) get(ctx context.Context, op, column, value string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s = $1`, userColumns, column)

	u, err := scanUser(r.db.QueryRow(ctx, query, value))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.NotFound(apperr.EntityUser, value)
		}
		return nil, apperr.Dependency(op, err)
	}
	return u, nil
}

func (r *Repository) GetByID(ctx context.Context, userID string) (*User, error) {
	return r.get(ctx, "get user", "id", userID)
}

// GetByName matches the name exactly; "Alice" and "alice" are different users.
func (r *Repository) GetByName(ctx context.Context, name string) (*User, error) {
	return r.get(ctx, "get user by name", "name", name)
}

func (r *Repository) list(ctx context.Context, op, query string, args ...any) ([]User, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Dependency(op, err)
	}
	defer rows.Close()

	out := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, apperr.Dependency(op, err)
		}
		out = append(out, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Dependency(op, err)
	}
	return out, nil
}

func (r *Repository) List(ctx context.Context, skip, limit int) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at, id LIMIT $1 OFFSET $2`
	return r.list(ctx, "list users", query, limit, skip)
}

// Search returns users whose name contains query, ignoring case.
func (r *Repository) Search(ctx context.Context, query string) ([]User, error) {
	pattern := "%" + likeEscaper.Replace(query) + "%"
	sql := `SELECT ` + userColumns + ` FROM users WHERE name ILIKE $1 ORDER BY name, id`
	return r.list(ctx, "search users", sql, pattern)
}

func (r *Repository) Update(ctx context.Context, userID string, patch Patch) (*User, error) {
	var (
		set  []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Password != nil {
		add("password", *patch.Password)
	}
	if patch.CafesVisited != nil {
		add("cafes_visited", *patch.CafesVisited)
	}
	if patch.AverageRating != nil {
		add("average_rating", *patch.AverageRating)
	}
	set = append(set, "updated_at = NOW()")
	args = append(args, userID)

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(set, ", "), len(args), userColumns)

	u, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		switch {
		case db.IsNoRows(err):
			return nil, apperr.NotFound(apperr.EntityUser, userID)
		case db.IsUniqueViolation(err, nameConstraint):
			return nil, apperr.Conflict(apperr.DuplicateUsername)
		}
		return nil, apperr.Dependency("update user", err)
	}
	return u, nil
}

func (r *Repository) SetProfilePicture(ctx context.Context, userID string, url *string) (*User, error) {
	query := `
	UPDATE users SET profile_picture = $1, updated_at = NOW()
	WHERE id = $2
	RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRow(ctx, query, url, userID))
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperr.NotFound(apperr.EntityUser, userID)
		}
		return nil, apperr.Dependency("set profile picture", err)
	}
	return u, nil
}

func (r *Repository) Delete(ctx context.Context, userID string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return apperr.Dependency("delete user", err)
	}
	if ct.RowsAffected() == 0 {
		return apperr.NotFound(apperr.EntityUser, userID)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
