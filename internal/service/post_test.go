package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/vulncamp/vulnworld/internal/apperror"
	"github.com/vulncamp/vulnworld/internal/model"
)

// mockPostRepo is an in-memory repository.PostRepository enforcing the same
// uniqueness rules as the schema: title and author_id.
type mockPostRepo struct {
	posts  []model.Post
	nextID int64
}

func (m *mockPostRepo) Create(_ context.Context, post *model.Post) error {
	for _, p := range m.posts {
		if p.Title == post.Title {
			return apperror.Duplicate("post", post.Title)
		}
		if p.AuthorID == post.AuthorID {
			return apperror.Duplicate("post", post.Title)
		}
	}
	m.nextID++
	post.ID = m.nextID
	m.posts = append(m.posts, *post)
	return nil
}

func (m *mockPostRepo) List(_ context.Context) ([]model.Post, error) {
	out := make([]model.Post, len(m.posts))
	copy(out, m.posts)
	return out, nil
}

func newTestPostService(t *testing.T) (*PostService, *mockUserRepo, *mockPostRepo) {
	t.Helper()
	users := newMockUserRepo()
	posts := &mockPostRepo{}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewPostService(users, posts, logger), users, posts
}

func addUser(t *testing.T, users *mockUserRepo, name string) *model.User {
	t.Helper()
	u := &model.User{Name: name, Password: "pw"}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("setup: creating user %q: %v", name, err)
	}
	return u
}

func TestPublish_Success(t *testing.T) {
	svc, users, _ := newTestPostService(t)
	john := addUser(t, users, "John")

	post, err := svc.Publish(context.Background(), john, "Magnetism", "body", 2022)
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if post.AuthorID != john.ID {
		t.Errorf("AuthorID = %d, want %d", post.AuthorID, john.ID)
	}
	if post.CreatedAt != 2022 {
		t.Errorf("CreatedAt = %d, want 2022 (stored as given, unvalidated)", post.CreatedAt)
	}
}

func TestPublish_SecondPostSameAuthor(t *testing.T) {
	svc, users, _ := newTestPostService(t)
	paul := addUser(t, users, "Paul")

	if _, err := svc.Publish(context.Background(), paul, "First", "body", 2022); err != nil {
		t.Fatalf("setup: Publish() error = %v", err)
	}

	_, err := svc.Publish(context.Background(), paul, "Second", "body", 2023)
	if !errors.Is(err, apperror.ErrDuplicate) {
		t.Errorf("error = %v, want ErrDuplicate (one post per author)", err)
	}
}

func TestListWithAuthors(t *testing.T) {
	svc, users, _ := newTestPostService(t)
	john := addUser(t, users, "John")
	marie := addUser(t, users, "Marie")

	if _, err := svc.Publish(context.Background(), john, "Magnetism", "a", 2022); err != nil {
		t.Fatalf("setup: Publish() error = %v", err)
	}
	if _, err := svc.Publish(context.Background(), marie, "Log4j", "b", 2021); err != nil {
		t.Fatalf("setup: Publish() error = %v", err)
	}

	out, err := svc.ListWithAuthors(context.Background())
	if err != nil {
		t.Fatalf("ListWithAuthors() error = %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d posts, want 2", len(out))
	}
	if out[0].AuthorName != "John" || out[1].AuthorName != "Marie" {
		t.Errorf("author names = %q, %q; want John, Marie", out[0].AuthorName, out[1].AuthorName)
	}
}

// A post whose author row is gone is a broken assumption: the lookup's
// NotFound propagates instead of being papered over.
func TestListWithAuthors_MissingAuthor(t *testing.T) {
	svc, _, posts := newTestPostService(t)
	posts.posts = append(posts.posts, model.Post{ID: 1, Title: "orphan", AuthorID: 42})

	_, err := svc.ListWithAuthors(context.Background())
	if err == nil {
		t.Fatal("ListWithAuthors() should fail when an author row is missing")
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
