package sqlite

import (
	"context"
	"fmt"

	"github.com/vulncamp/vulnworld/internal/model"
)

// Seed loads the fixture users and posts the training scenario is built
// around. Paul is the target identity: his session reveals the index flag
// and passes the admin gate. Idempotent — a database that already has users
// is left alone.
func (db *DB) Seed(ctx context.Context) error {
	var count int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("sqlite: counting users: %w", err)
	}
	if count > 0 {
		return nil
	}

	users := []model.User{
		{Name: "John", Password: "qwerty"},
		{Name: "Paul", Password: "defcon"},
		{Name: "Marie", Password: "sunshine"},
	}
	byName := make(map[string]*model.User, len(users))
	for i := range users {
		if err := db.Users().Create(ctx, &users[i]); err != nil {
			return fmt.Errorf("sqlite: seeding user %q: %w", users[i].Name, err)
		}
		byName[users[i].Name] = &users[i]
	}

	posts := []struct {
		author string
		post   model.Post
	}{
		{"John", model.Post{
			Title:     "New properties of magnetism that could change our computers",
			Body:      "Our electronics can no longer shrink and are on the verge of overheating. But in a new discovery from the University of Copenhagen, researchers have uncovered a fundamental property of magnetism, which may become relevant for the development of a new generation of more powerful and less hot computers.",
			CreatedAt: 2022,
		}},
		{"Marie", model.Post{
			Title:     "Minecraft: Log4j 0day",
			Body:      "A new vulnerability has been found in the form of an exploit within Log4j, a Java logging library. This vulnerability poses a potential risk of your computer being compromised.",
			CreatedAt: 2021,
		}},
		{"Paul", model.Post{
			Title:     "The one-click attack",
			Body:      "Cross-site request forgery (CSRF) is a type of malicious exploit of a website where unauthorized commands are submitted from a user that the web application trusts. In a CSRF attack a user is tricked by an attacker (using social engineering) to submit a malicious web request.",
			CreatedAt: 2022,
		}},
	}
	for _, s := range posts {
		s.post.AuthorID = byName[s.author].ID
		if err := db.Posts().Create(ctx, &s.post); err != nil {
			return fmt.Errorf("sqlite: seeding post %q: %w", s.post.Title, err)
		}
	}

	return nil
}
