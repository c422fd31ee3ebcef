package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vulncamp/vulnworld/internal/apperror"
	"github.com/vulncamp/vulnworld/internal/model"
	"github.com/vulncamp/vulnworld/internal/repository"
)

// PostService handles publishing and listing posts.
type PostService struct {
	users  repository.UserRepository
	posts  repository.PostRepository
	logger *slog.Logger
}

// NewPostService creates a PostService.
func NewPostService(users repository.UserRepository, posts repository.PostRepository, logger *slog.Logger) *PostService {
	return &PostService{users: users, posts: posts, logger: logger}
}

// PostWithAuthor pairs a post with its author's display name for the index
// page.
type PostWithAuthor struct {
	Post       model.Post
	AuthorName string
}

// Publish constructs a post for the given author and persists it in one
// call; the post is visible to other requests as soon as Publish returns.
//
// createdAt is stored as given — it is nominally a year but nothing checks
// that. A second post by the same author fails with ErrDuplicate because of
// the schema's one-post-per-author ceiling.
func (s *PostService) Publish(ctx context.Context, author *model.User, title, body string, createdAt int64) (*model.Post, error) {
	post := &model.Post{
		Title:     title,
		Body:      body,
		CreatedAt: createdAt,
		AuthorID:  author.ID,
	}

	if err := s.posts.Create(ctx, post); err != nil {
		if errors.Is(err, apperror.ErrDuplicate) {
			return nil, err
		}
		return nil, fmt.Errorf("service/post: publishing %q: %w", title, err)
	}

	s.logger.Info("post published",
		slog.Int64("postID", post.ID),
		slog.Int64("authorID", author.ID),
		slog.String("title", post.Title),
	)

	return post, nil
}

// ListWithAuthors loads every post and resolves each author's name with a
// separate lookup per post.
//
// Yes, that is an N+1 query pattern. It is harmless at this data size and
// deliberately left unoptimized; a query-count lesson, not one of the
// planted vulnerabilities. A post whose author row is missing is a broken
// assumption, and the error propagates — the index page 500s rather than
// papering over it.
func (s *PostService) ListWithAuthors(ctx context.Context) ([]PostWithAuthor, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/post: listing posts: %w", err)
	}

	out := make([]PostWithAuthor, 0, len(posts))
	for _, p := range posts {
		author, err := s.users.GetByID(ctx, p.AuthorID)
		if err != nil {
			return nil, fmt.Errorf("service/post: resolving author %d for post %d: %w", p.AuthorID, p.ID, err)
		}
		out = append(out, PostWithAuthor{Post: p, AuthorName: author.Name})
	}

	return out, nil
}
