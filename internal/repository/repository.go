// Package repository declares the storage interfaces the rest of the app
// programs against. The sqlite subpackage is the production implementation;
// tests inject in-memory mocks.
package repository

import (
	"context"

	"github.com/vulncamp/vulnworld/internal/model"
)

// UserRepository is the record store for User rows.
type UserRepository interface {
	// Create inserts the user and fills in its assigned ID.
	// Returns apperror.ErrDuplicate when the name is already taken.
	Create(ctx context.Context, user *model.User) error

	// GetByName looks a user up by exact, case-sensitive name.
	// Returns apperror.ErrNotFound when no such user exists.
	GetByName(ctx context.Context, name string) (*model.User, error)

	// GetByID looks a user up by surrogate key.
	// Returns apperror.ErrNotFound when no such user exists.
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// PostRepository is the record store for Post rows.
type PostRepository interface {
	// Create inserts the post and fills in its assigned ID.
	// Returns apperror.ErrDuplicate when the title collides — or when the
	// author already has a post (author_id is UNIQUE in this schema).
	Create(ctx context.Context, post *model.Post) error

	// List returns every post, oldest first.
	List(ctx context.Context) ([]model.Post, error)
}
