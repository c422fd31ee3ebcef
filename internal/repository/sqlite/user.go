package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vulncamp/vulnworld/internal/apperror"
	"github.com/vulncamp/vulnworld/internal/model"
	"github.com/vulncamp/vulnworld/internal/repository"
)

// UserStore implements repository.UserRepository on the shared connection.
type UserStore struct {
	db *DB
}

// Users returns the user repository view of this database.
func (db *DB) Users() *UserStore {
	return &UserStore{db: db}
}

// compile-time check that *UserStore implements repository.UserRepository
var _ repository.UserRepository = (*UserStore)(nil)

// Create inserts a new user and fills in the assigned rowid.
//
// The password column receives the plaintext exactly as given — no hashing
// anywhere in this codebase, by design of the exercise.
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	createdAt := user.CreatedAt
	if createdAt == 0 {
		createdAt = 2020 // schema default, mirrored here so the struct agrees
	}

	res, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO users (name, password, bio, created_at)
		 VALUES (?, ?, ?, ?)`,
		user.Name,
		user.Password,
		user.Bio,
		createdAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Duplicate("user name", user.Name)
		}
		return fmt.Errorf("sqlite: inserting user %q: %w", user.Name, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading user rowid: %w", err)
	}
	user.ID = id
	user.CreatedAt = createdAt

	return nil
}

// GetByName retrieves a user by exact name. SQLite's = on TEXT is
// case-sensitive by default, which is the comparison the app relies on.
func (s *UserStore) GetByName(ctx context.Context, name string) (*model.User, error) {
	return s.get(ctx, `WHERE name = ?`, name)
}

// GetByID retrieves a user by surrogate key.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return s.get(ctx, `WHERE id = ?`, id)
}

func (s *UserStore) get(ctx context.Context, where string, arg any) (*model.User, error) {
	var u model.User

	err := s.db.conn.QueryRowContext(ctx,
		`SELECT id, name, password, bio, created_at FROM users `+where,
		arg,
	).Scan(
		&u.ID,
		&u.Name,
		&u.Password,
		&u.Bio,
		&u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", fmt.Sprint(arg))
		}
		return nil, fmt.Errorf("sqlite: getting user %v: %w", arg, err)
	}

	return &u, nil
}
