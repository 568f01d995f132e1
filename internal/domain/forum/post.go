// Package forum holds the community feed records: posts in one of the four
// board categories, stored as documents and rendered from Markdown.
package forum

import (
	"bytes"
	"html/template"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/angkasa-id/angkasa/internal/docstore"
	"github.com/angkasa-id/angkasa/internal/listview"
)

// Collection is the document collection holding posts.
const Collection = "posts"

// Board categories.
const (
	CategoryLomba    = "lomba"
	CategoryBeasiswa = "beasiswa"
	CategoryEvent    = "event"
	CategoryDiskusi  = "diskusi"
)

// Categories lists the board categories in display order.
var Categories = []string{CategoryLomba, CategoryBeasiswa, CategoryEvent, CategoryDiskusi}

// ValidCategory reports whether c is a known board category.
func ValidCategory(c string) bool {
	switch c {
	case CategoryLomba, CategoryBeasiswa, CategoryEvent, CategoryDiskusi:
		return true
	}
	return false
}

// CategoryLabel is the display name of a category.
func CategoryLabel(c string) string {
	switch c {
	case CategoryLomba:
		return "Lomba"
	case CategoryBeasiswa:
		return "Beasiswa"
	case CategoryEvent:
		return "Event"
	case CategoryDiskusi:
		return "Diskusi"
	}
	return c
}

// Post is one feed entry.
type Post struct {
	ID         string
	Title      string
	Body       string
	Category   string
	AuthorID   string
	AuthorName string
	CreatedAt  time.Time
	Replies    int64
	Likes      int64
	Pinned     bool
}

// FromDocument decodes a stored post.
func FromDocument(doc docstore.Document) Post {
	return Post{
		ID:         doc.ID,
		Title:      doc.String("title"),
		Body:       doc.String("body"),
		Category:   doc.String("category"),
		AuthorID:   doc.String("author_id"),
		AuthorName: doc.String("author_name"),
		CreatedAt:  doc.Time("created_at"),
		Replies:    doc.Int("replies"),
		Likes:      doc.Int("likes"),
		Pinned:     doc.Bool("pinned"),
	}
}

// Document encodes the post for storage.
func (p Post) Document() map[string]any {
	return map[string]any{
		"title":       p.Title,
		"body":        p.Body,
		"category":    p.Category,
		"author_id":   p.AuthorID,
		"author_name": p.AuthorName,
		"created_at":  p.CreatedAt.UTC().Format(time.RFC3339),
		"replies":     p.Replies,
		"likes":       p.Likes,
		"pinned":      p.Pinned,
	}
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// BodyHTML renders the Markdown body. Raw HTML in the source is escaped by
// the renderer's default policy.
func (p Post) BodyHTML() template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(p.Body), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(p.Body))
	}
	return template.HTML(buf.String())
}

// Excerpt returns the first line of the body, capped for feed cards. The cap
// is in bytes but never splits a multi-byte rune.
func (p Post) Excerpt(max int) string {
	line := p.Body
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if max > 0 && len(line) > max {
		cut := max
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		return strings.TrimSpace(line[:cut]) + "…"
	}
	return line
}

// ListFields wires posts into the list controller: free-text search over
// title, body and author, faceting over the board category.
var ListFields = listview.Fields[Post]{
	Search: func(p Post) []string {
		return []string{p.Title, p.Body, p.AuthorName}
	},
	Facet: func(p Post, field string) string {
		if field == "category" {
			return p.Category
		}
		return ""
	},
}

// NewestFirst orders pinned posts ahead of the rest, then by creation time
// descending.
func NewestFirst(a, b Post) bool {
	if a.Pinned != b.Pinned {
		return a.Pinned
	}
	return a.CreatedAt.After(b.CreatedAt)
}
