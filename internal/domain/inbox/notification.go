// Package inbox holds per-user notifications, stored in the tree under
// notifications/<user-id>/<notification-id>.
package inbox

import (
	"strings"
	"time"

	"github.com/angkasa-id/angkasa/internal/listview"
	"github.com/angkasa-id/angkasa/internal/treestore"
)

// Notification kinds.
const (
	KindAnnouncement = "announcement"
	KindReply        = "reply"
	KindSystem       = "system"
)

// ValidKind reports whether k is a known notification kind.
func ValidKind(k string) bool {
	switch k {
	case KindAnnouncement, KindReply, KindSystem:
		return true
	}
	return false
}

// Notification is one inbox entry.
type Notification struct {
	ID        string
	UserID    string
	Kind      string
	Title     string
	Body      string
	Read      bool
	CreatedAt time.Time
}

// UserPath is the subtree holding one user's notifications.
func UserPath(userID string) string {
	return treestore.Join("notifications", userID)
}

// Path addresses one notification.
func Path(userID, id string) string {
	return treestore.Join("notifications", userID, id)
}

// FromNode decodes a stored notification; the user and notification ids come
// from the node's path. Nodes at the wrong depth decode to the zero value.
func FromNode(n treestore.Node) Notification {
	segs := strings.Split(n.Path, "/")
	if len(segs) != 3 {
		return Notification{}
	}
	return Notification{
		ID:        segs[2],
		UserID:    segs[1],
		Kind:      n.String("kind"),
		Title:     n.String("title"),
		Body:      n.String("body"),
		Read:      n.Bool("read"),
		CreatedAt: n.Time("created_at"),
	}
}

// FromNodes decodes a subtree snapshot, dropping non-leaf nodes.
func FromNodes(nodes []treestore.Node) []Notification {
	out := []Notification{}
	for _, n := range nodes {
		nt := FromNode(n)
		if nt.ID != "" {
			out = append(out, nt)
		}
	}
	return out
}

// Value encodes the notification for storage.
func (n Notification) Value() map[string]any {
	return map[string]any{
		"kind":       n.Kind,
		"title":      n.Title,
		"body":       n.Body,
		"read":       n.Read,
		"created_at": n.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ListFields wires notifications into the list controller: search over title
// and body, faceting over kind and read state.
var ListFields = listview.Fields[Notification]{
	Search: func(n Notification) []string {
		return []string{n.Title, n.Body}
	},
	Facet: func(n Notification, field string) string {
		switch field {
		case "kind":
			return n.Kind
		case "status":
			if n.Read {
				return "read"
			}
			return "unread"
		}
		return ""
	},
}

// NewestFirst orders notifications by creation time descending.
func NewestFirst(a, b Notification) bool {
	return a.CreatedAt.After(b.CreatedAt)
}

// CountUnread tallies the unread entries of a snapshot.
func CountUnread(list []Notification) int {
	n := 0
	for _, nt := range list {
		if !nt.Read {
			n++
		}
	}
	return n
}
