package forum

import (
	"bytes"
	"html/template"
	"time"

	"github.com/angkasa-id/angkasa/internal/docstore"
)

// RepliesCollection names the per-post reply collection.
func RepliesCollection(postID string) string {
	return "replies:" + postID
}

// Reply is one reply under a post.
type Reply struct {
	ID         string
	PostID     string
	AuthorID   string
	AuthorName string
	Body       string
	CreatedAt  time.Time
}

// ReplyFromDocument decodes a stored reply.
func ReplyFromDocument(postID string, doc docstore.Document) Reply {
	return Reply{
		ID:         doc.ID,
		PostID:     postID,
		AuthorID:   doc.String("author_id"),
		AuthorName: doc.String("author_name"),
		Body:       doc.String("body"),
		CreatedAt:  doc.Time("created_at"),
	}
}

// Document encodes the reply for storage.
func (r Reply) Document() map[string]any {
	return map[string]any{
		"author_id":   r.AuthorID,
		"author_name": r.AuthorName,
		"body":        r.Body,
		"created_at":  r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// BodyHTML renders the Markdown reply body.
func (r Reply) BodyHTML() template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(r.Body), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(r.Body))
	}
	return template.HTML(buf.String())
}
