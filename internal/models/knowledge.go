package models

import "time"

// Knowledge is one knowledge-base entry. Content may hold several
// paragraphs separated by blank lines; Keywords is a comma-separated
// curator hint; Intent optionally names one intent label.
type Knowledge struct {
	ID        int64     `db:"id"`
	Title     string    `db:"title"`
	Content   string    `db:"content"`
	Keywords  string    `db:"keywords"`
	Intent    string    `db:"intent"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
