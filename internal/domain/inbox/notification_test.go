package inbox

import (
	"testing"
	"time"

	"github.com/angkasa-id/angkasa/internal/listview"
	"github.com/angkasa-id/angkasa/internal/treestore"
)

func TestPathHelpers(t *testing.T) {
	t.Parallel()

	if got := UserPath("u1"); got != "notifications/u1" {
		t.Fatalf("UserPath = %q", got)
	}
	if got := Path("u1", "n42"); got != "notifications/u1/n42" {
		t.Fatalf("Path = %q", got)
	}
}

func TestFromNodesDropsNonLeaves(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	nodes := []treestore.Node{
		{Path: "notifications/u1"},
		{Path: "notifications/u1/n1", Data: map[string]any{
			"kind":       KindReply,
			"title":      "Balasan baru",
			"body":       "Ada balasan di utas kamu.",
			"read":       false,
			"created_at": created.Format(time.RFC3339),
		}},
		{Path: "notifications/u1/n2", Data: map[string]any{
			"kind": KindSystem,
			"read": true,
		}},
	}

	got := FromNodes(nodes)
	if len(got) != 2 {
		t.Fatalf("FromNodes kept %d entries, want 2", len(got))
	}
	first := got[0]
	if first.ID != "n1" || first.UserID != "u1" || first.Kind != KindReply {
		t.Fatalf("decoded = %+v", first)
	}
	if !first.CreatedAt.Equal(created) {
		t.Fatalf("CreatedAt = %v, want %v", first.CreatedAt, created)
	}
	if got := CountUnread(got); got != 1 {
		t.Fatalf("CountUnread = %d, want 1", got)
	}
}

func TestListFieldsFacets(t *testing.T) {
	t.Parallel()

	items := []Notification{
		{ID: "n1", Kind: KindReply, Title: "Balasan baru"},
		{ID: "n2", Kind: KindAnnouncement, Title: "Pengumuman beasiswa", Read: true},
		{ID: "n3", Kind: KindReply, Title: "Balasan lain", Read: true},
	}

	visible := listview.DeriveVisible(items, "", []listview.Facet{
		{Field: "kind", Value: KindReply},
		{Field: "status", Value: "read"},
	}, ListFields)

	if len(visible) != 1 || visible[0].ID != "n3" {
		t.Fatalf("visible = %+v, want only n3", visible)
	}
}

func TestValidKind(t *testing.T) {
	t.Parallel()

	for _, k := range []string{KindAnnouncement, KindReply, KindSystem} {
		if !ValidKind(k) {
			t.Fatalf("ValidKind(%q) = false", k)
		}
	}
	if ValidKind("spam") {
		t.Fatal(`ValidKind("spam") = true`)
	}
}
