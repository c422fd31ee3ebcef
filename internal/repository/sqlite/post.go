package sqlite

import (
	"context"
	"fmt"

	"github.com/vulncamp/vulnworld/internal/apperror"
	"github.com/vulncamp/vulnworld/internal/model"
	"github.com/vulncamp/vulnworld/internal/repository"
)

// PostStore implements repository.PostRepository on the shared connection.
type PostStore struct {
	db *DB
}

// Posts returns the post repository view of this database.
func (db *DB) Posts() *PostStore {
	return &PostStore{db: db}
}

// compile-time check that *PostStore implements repository.PostRepository
var _ repository.PostRepository = (*PostStore)(nil)

// Create inserts a new post and fills in the assigned rowid.
//
// Two UNIQUE columns can collide here: title, and author_id. The second one
// means a user who already published gets ErrDuplicate on their next post.
// The driver does not say which constraint fired, and neither do we — the
// caller only ever sees the uniqueness-violation kind.
func (s *PostStore) Create(ctx context.Context, post *model.Post) error {
	res, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO posts (title, body, created_at, author_id)
		 VALUES (?, ?, ?, ?)`,
		post.Title,
		post.Body,
		post.CreatedAt,
		post.AuthorID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Duplicate("post", post.Title)
		}
		return fmt.Errorf("sqlite: inserting post %q: %w", post.Title, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading post rowid: %w", err)
	}
	post.ID = id

	return nil
}

// List returns every post, oldest first. The index page is the only caller
// and it always wants all of them — no pagination in this app.
func (s *PostStore) List(ctx context.Context) ([]model.Post, error) {
	rows, err := s.db.conn.QueryContext(ctx,
		`SELECT id, title, body, created_at, author_id
		 FROM posts
		 ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Body, &p.CreatedAt, &p.AuthorID); err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}

	return posts, nil
}
