package member

import (
	"testing"
	"time"

	"github.com/angkasa-id/angkasa/internal/docstore"
)

func TestFromDocumentRoundTrip(t *testing.T) {
	t.Parallel()

	joined := time.Date(2026, 7, 12, 9, 30, 0, 0, time.UTC)
	m := Member{
		ID:          "42",
		DisplayName: "Dewi Lestari",
		Email:       "dewi@kampus.ac.id",
		Role:        "student",
		Institution: "Universitas Indonesia",
		Bio:         "Suka ikut lomba UI/UX.",
		Verified:    true,
		Active:      true,
		JoinedAt:    joined,
	}

	doc := docstore.Document{ID: "42", Data: m.Document()}
	if got := FromDocument(doc); got != m {
		t.Fatalf("round trip = %+v, want %+v", got, m)
	}
}

func TestFromDocumentDefaultsMissingActiveToTrue(t *testing.T) {
	t.Parallel()

	doc := docstore.Document{ID: "7", Data: map[string]any{
		"display_name": "Bagus",
		"email":        "bagus@kampus.ac.id",
	}}
	m := FromDocument(doc)
	if !m.Active {
		t.Fatal("Active = false for profile without active flag, want true")
	}
	if got := m.Status(); got != StatusActive {
		t.Fatalf("Status() = %q, want %q", got, StatusActive)
	}
}

func TestStatusReflectsActiveFlag(t *testing.T) {
	t.Parallel()

	if got := (Member{Active: true}).Status(); got != StatusActive {
		t.Fatalf("Status() = %q, want %q", got, StatusActive)
	}
	if got := (Member{}).Status(); got != StatusSuspended {
		t.Fatalf("Status() = %q, want %q", got, StatusSuspended)
	}
}

func TestListFieldsFacets(t *testing.T) {
	t.Parallel()

	m := Member{Role: "provider", Verified: true, Active: false}
	if got := ListFields.Facet(m, "role"); got != "provider" {
		t.Fatalf(`Facet(role) = %q, want "provider"`, got)
	}
	if got := ListFields.Facet(m, "status"); got != StatusSuspended {
		t.Fatalf("Facet(status) = %q, want %q", got, StatusSuspended)
	}
	if got := ListFields.Facet(m, "verified"); got != "yes" {
		t.Fatalf(`Facet(verified) = %q, want "yes"`, got)
	}
	if got := ListFields.Facet(m, "unknown"); got != "" {
		t.Fatalf(`Facet(unknown) = %q, want ""`, got)
	}
}

func TestNewestFirst(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	older := Member{ID: "a", JoinedAt: base}
	newer := Member{ID: "b", JoinedAt: base.Add(time.Hour)}
	if !NewestFirst(newer, older) {
		t.Fatal("NewestFirst(newer, older) = false, want true")
	}
	if NewestFirst(older, newer) {
		t.Fatal("NewestFirst(older, newer) = true, want false")
	}
}
