// Package member holds the community membership directory, stored as
// documents keyed by the auth user id.
package member

import (
	"time"

	"github.com/angkasa-id/angkasa/internal/docstore"
	"github.com/angkasa-id/angkasa/internal/listview"
)

// Collection is the document collection holding member profiles.
const Collection = "members"

// Directory statuses derived from the active flag.
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
)

// Member is one directory entry. Role mirrors the auth role at profile
// creation; the auth record stays authoritative for access control.
type Member struct {
	ID          string
	DisplayName string
	Email       string
	Role        string
	Institution string
	Bio         string
	Verified    bool
	Active      bool
	JoinedAt    time.Time
}

// Status is the directory label for the active flag.
func (m Member) Status() string {
	if m.Active {
		return StatusActive
	}
	return StatusSuspended
}

// FromDocument decodes a stored profile. Profiles written before the active
// flag existed count as active.
func FromDocument(doc docstore.Document) Member {
	active := true
	if v, ok := doc.Data["active"].(bool); ok {
		active = v
	}
	return Member{
		ID:          doc.ID,
		DisplayName: doc.String("display_name"),
		Email:       doc.String("email"),
		Role:        doc.String("role"),
		Institution: doc.String("institution"),
		Bio:         doc.String("bio"),
		Verified:    doc.Bool("verified"),
		Active:      active,
		JoinedAt:    doc.Time("joined_at"),
	}
}

// Document encodes the profile for storage.
func (m Member) Document() map[string]any {
	return map[string]any{
		"display_name": m.DisplayName,
		"email":        m.Email,
		"role":         m.Role,
		"institution":  m.Institution,
		"bio":          m.Bio,
		"verified":     m.Verified,
		"active":       m.Active,
		"joined_at":    m.JoinedAt.UTC().Format(time.RFC3339),
	}
}

// ListFields wires the directory into the list controller: search over name,
// email and institution, faceting over role and verification state.
var ListFields = listview.Fields[Member]{
	Search: func(m Member) []string {
		return []string{m.DisplayName, m.Email, m.Institution}
	},
	Facet: func(m Member, field string) string {
		switch field {
		case "role":
			return m.Role
		case "status":
			return m.Status()
		case "verified":
			if m.Verified {
				return "yes"
			}
			return "no"
		}
		return ""
	},
}

// NewestFirst orders members by join time descending.
func NewestFirst(a, b Member) bool {
	return a.JoinedAt.After(b.JoinedAt)
}
