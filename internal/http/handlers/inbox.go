package handlers

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v5"

	"github.com/angkasa-id/angkasa/internal/domain/inbox"
	"github.com/angkasa-id/angkasa/internal/http/viewmodels"
	"github.com/angkasa-id/angkasa/internal/http/views"
	"github.com/angkasa-id/angkasa/internal/listview"
)

// HandleInbox renders the visitor's notifications with kind and read-state
// facets applied per request.
func (h *Handlers) HandleInbox(c *echo.Context) error {
	ctx := c.Request().Context()
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	userID := strconv.FormatInt(principal.UserID, 10)

	query := strings.TrimSpace(c.QueryParam("q"))
	kind := strings.TrimSpace(c.QueryParam("kind"))
	if !inbox.ValidKind(kind) {
		kind = ""
	}
	status := strings.TrimSpace(c.QueryParam("status"))
	if status != "read" && status != "unread" {
		status = ""
	}

	nodes, err := h.Tree.Get(ctx, inbox.UserPath(userID))
	if err != nil {
		return err
	}
	all := inbox.FromNodes(nodes)
	sort.SliceStable(all, func(i, j int) bool { return inbox.NewestFirst(all[i], all[j]) })

	var facets []listview.Facet
	if kind != "" {
		facets = append(facets, listview.Facet{Field: "kind", Value: kind})
	}
	if status != "" {
		facets = append(facets, listview.Facet{Field: "status", Value: status})
	}
	visible := listview.DeriveVisible(all, query, facets, inbox.ListFields)

	items := make([]viewmodels.NotificationViewData, 0, len(visible))
	for _, n := range visible {
		items = append(items, viewmodels.NotificationViewData{
			ID:        n.ID,
			Kind:      n.Kind,
			KindLabel: views.HumanizeNotificationKind(n.Kind),
			Title:     n.Title,
			Body:      n.Body,
			Read:      n.Read,
			CreatedAt: formatTimestamp(n.CreatedAt),
		})
	}

	data := viewmodels.InboxViewData{
		Layout:      h.LayoutData(ctx, c, "Inbox"),
		Query:       query,
		Kind:        kind,
		Status:      status,
		Items:       items,
		UnreadCount: inbox.CountUnread(all),
		Total:       len(all),
	}
	return h.RenderComponent(c, views.InboxPage(data))
}

// HandleInboxMarkRead flips one notification to read.
func (h *Handlers) HandleInboxMarkRead(c *echo.Context) error {
	ctx := c.Request().Context()
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	userID := strconv.FormatInt(principal.UserID, 10)
	notificationID := c.Param("id")

	path := inbox.Path(userID, notificationID)
	nodes, err := h.Tree.Get(ctx, path)
	if err != nil {
		return err
	}
	if len(nodes) == 1 {
		n := inbox.FromNode(nodes[0])
		n.Read = true
		if err := h.Tree.Set(ctx, path, n.Value()); err != nil {
			return err
		}
	}
	return c.Redirect(http.StatusSeeOther, views.InboxURL(
		c.QueryParam("q"), c.QueryParam("kind"), c.QueryParam("status")))
}

// HandleInboxClear removes every notification after confirmation.
func (h *Handlers) HandleInboxClear(c *echo.Context) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	userID := strconv.FormatInt(principal.UserID, 10)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		_, err := h.Feed.PerformGuardedAction(ctx, listview.GuardedAction{
			Name:           "inbox_clear",
			OwnerID:        userID,
			ConfirmMessage: "Bersihkan semua notifikasi? Tindakan ini tidak bisa dibatalkan.",
			SuccessMessage: "Inbox bersih.",
			FailureMessage: "Notifikasi gagal dihapus. Coba lagi.",
			Run: func(ctx context.Context) error {
				return h.Tree.Remove(ctx, inbox.UserPath(userID))
			},
		})
		if err != nil {
			h.Logger.Error("inbox clear failed", "user_id", userID, "error", err)
		}
	}()

	return c.Redirect(http.StatusSeeOther, "/inbox")
}
