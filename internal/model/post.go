package model

// Post is a published article shown on the index page.
//
// AuthorID carries a UNIQUE constraint, so each user can author at most one
// post. That ceiling is a quirk of the naive schema — not one of the planted
// security lessons — and it is part of the app's observable behavior, so it
// stays.
type Post struct {
	ID        int64  `json:"id"        db:"id"`
	Title     string `json:"title"     db:"title"` // unique
	Body      string `json:"body"      db:"body"`
	CreatedAt int64  `json:"createdAt" db:"created_at"` // caller-supplied, unvalidated
	AuthorID  int64  `json:"authorId"  db:"author_id"`  // unique: one post per author
}
