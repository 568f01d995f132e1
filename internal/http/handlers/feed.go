package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/angkasa-id/angkasa/internal/alert"
	"github.com/angkasa-id/angkasa/internal/docstore"
	"github.com/angkasa-id/angkasa/internal/domain/forum"
	"github.com/angkasa-id/angkasa/internal/domain/inbox"
	"github.com/angkasa-id/angkasa/internal/http/viewmodels"
	"github.com/angkasa-id/angkasa/internal/http/views"
	"github.com/angkasa-id/angkasa/internal/listview"
)

// HandleFeed renders the community feed. Search and category facets are
// applied to the live mirror per request; the backing subscription is shared
// by every visitor.
func (h *Handlers) HandleFeed(c *echo.Context) error {
	ctx := c.Request().Context()
	addVary(c, "Cookie")

	query := strings.TrimSpace(c.QueryParam("q"))
	category := strings.TrimSpace(c.QueryParam("category"))
	if !forum.ValidCategory(category) {
		category = ""
	}

	items := h.Feed.Items()
	var facets []listview.Facet
	if category != "" {
		facets = append(facets, listview.Facet{Field: "category", Value: category})
	}
	visible := listview.DeriveVisible(items, query, facets, forum.ListFields)
	total := len(visible)
	if h.Cfg.FeedPageSize > 0 && len(visible) > h.Cfg.FeedPageSize {
		visible = visible[:h.Cfg.FeedPageSize]
	}

	counts := map[string]int{}
	for _, p := range items {
		counts[p.Category]++
	}
	categories := make([]viewmodels.CategoryOption, 0, len(forum.Categories))
	for _, cat := range forum.Categories {
		categories = append(categories, viewmodels.CategoryOption{
			Value:  cat,
			Label:  forum.CategoryLabel(cat),
			Active: cat == category,
			Count:  counts[cat],
		})
	}

	posts := make([]viewmodels.PostCardViewData, 0, len(visible))
	for _, p := range visible {
		posts = append(posts, postCard(p))
	}

	data := viewmodels.FeedViewData{
		Layout:     h.LayoutData(ctx, c, "Beranda"),
		Query:      query,
		Category:   category,
		Categories: categories,
		Posts:      posts,
		Loading:    h.Feed.Loading(),
		Total:      total,
	}
	return h.RenderComponent(c, views.FeedPage(data))
}

func postCard(p forum.Post) viewmodels.PostCardViewData {
	return viewmodels.PostCardViewData{
		ID:            p.ID,
		Href:          "/posts/" + p.ID,
		Title:         p.Title,
		Excerpt:       p.Excerpt(140),
		Category:      p.Category,
		CategoryLabel: forum.CategoryLabel(p.Category),
		AuthorName:    p.AuthorName,
		CreatedAt:     formatTimestamp(p.CreatedAt),
		Replies:       p.Replies,
		Likes:         p.Likes,
		Pinned:        p.Pinned,
	}
}

// HandlePostShow renders one post with its replies. A missing post gets the
// friendly not-found page instead of a bare 404.
func (h *Handlers) HandlePostShow(c *echo.Context) error {
	ctx := c.Request().Context()
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	postID := c.Param("id")

	doc, err := h.Docs.GetDocument(ctx, forum.Collection, postID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			layout := h.LayoutData(ctx, c, "Postingan tidak ditemukan")
			c.Response().WriteHeader(http.StatusNotFound)
			return h.RenderComponent(c, views.PostNotFoundPage(layout))
		}
		return err
	}
	post := forum.FromDocument(doc)

	replyDocs, err := h.Docs.GetAllDocuments(ctx, forum.RepliesCollection(postID), docstore.OrderByDesc("created_at"))
	if err != nil {
		return err
	}
	replies := make([]viewmodels.ReplyViewData, 0, len(replyDocs))
	for i := len(replyDocs) - 1; i >= 0; i-- { // oldest first
		r := forum.ReplyFromDocument(postID, replyDocs[i])
		replies = append(replies, viewmodels.ReplyViewData{
			AuthorName: r.AuthorName,
			BodyHTML:   r.BodyHTML(),
			CreatedAt:  formatTimestamp(r.CreatedAt),
		})
	}

	authorID := strconv.FormatInt(principal.UserID, 10)
	data := viewmodels.PostViewData{
		Layout:        h.LayoutData(ctx, c, post.Title),
		ID:            post.ID,
		Title:         post.Title,
		BodyHTML:      post.BodyHTML(),
		Category:      post.Category,
		CategoryLabel: forum.CategoryLabel(post.Category),
		AuthorName:    post.AuthorName,
		CreatedAt:     formatTimestamp(post.CreatedAt),
		Likes:         post.Likes,
		Pinned:        post.Pinned,
		Replies:       replies,
		CanDelete:     principal.IsAdmin() || post.AuthorID == authorID,
		CanPin:        principal.IsAdmin(),
	}
	return h.RenderComponent(c, views.PostPage(data))
}

// HandlePostCreate publishes a new post. Providers and admins only.
func (h *Handlers) HandlePostCreate(c *echo.Context) error {
	ctx := c.Request().Context()
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if !principal.IsProvider() && !principal.IsAdmin() {
		return echo.NewHTTPError(http.StatusForbidden, http.StatusText(http.StatusForbidden))
	}

	title := strings.TrimSpace(c.FormValue("title"))
	body := strings.TrimSpace(c.FormValue("body"))
	category := strings.TrimSpace(c.FormValue("category"))
	if title == "" || body == "" || !forum.ValidCategory(category) {
		h.Alerts.Notify("Judul, isi dan kategori wajib diisi.", alert.KindWarning,
			alert.WithOwner(strconv.FormatInt(principal.UserID, 10)))
		return c.Redirect(http.StatusSeeOther, "/provider")
	}

	post := forum.Post{
		ID:         uuid.NewString(),
		Title:      title,
		Body:       body,
		Category:   category,
		AuthorID:   strconv.FormatInt(principal.UserID, 10),
		AuthorName: principal.DisplayName,
		CreatedAt:  time.Now(),
	}
	if err := h.Docs.SetDocument(ctx, forum.Collection, post.ID, post.Document()); err != nil {
		return err
	}

	setFlashToast(c, viewmodels.ToastViewData{
		Category: "success",
		Title:    "Postingan terbit",
	})
	return c.Redirect(http.StatusSeeOther, "/posts/"+post.ID)
}

// HandlePostReply appends a reply and notifies the post author.
func (h *Handlers) HandlePostReply(c *echo.Context) error {
	ctx := c.Request().Context()
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	postID := c.Param("id")

	body := strings.TrimSpace(c.FormValue("body"))
	if body == "" {
		return c.Redirect(http.StatusSeeOther, "/posts/"+postID)
	}

	doc, err := h.Docs.GetDocument(ctx, forum.Collection, postID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return c.Redirect(http.StatusSeeOther, "/")
		}
		return err
	}
	post := forum.FromDocument(doc)

	reply := forum.Reply{
		ID:         uuid.NewString(),
		PostID:     postID,
		AuthorID:   strconv.FormatInt(principal.UserID, 10),
		AuthorName: principal.DisplayName,
		Body:       body,
		CreatedAt:  time.Now(),
	}
	if err := h.Docs.SetDocument(ctx, forum.RepliesCollection(postID), reply.ID, reply.Document()); err != nil {
		return err
	}
	err = h.Docs.UpdateDocument(ctx, forum.Collection, postID,
		map[string]any{"replies": post.Replies + 1}, true)
	if err != nil && !errors.Is(err, docstore.ErrNotFound) {
		h.Logger.Error("reply count update failed", "post_id", postID, "error", err)
	}

	if post.AuthorID != reply.AuthorID {
		notification := inbox.Notification{
			ID:        uuid.NewString(),
			UserID:    post.AuthorID,
			Kind:      inbox.KindReply,
			Title:     reply.AuthorName + " membalas postingan kamu",
			Body:      post.Title,
			CreatedAt: reply.CreatedAt,
		}
		err := h.Tree.Set(ctx, inbox.Path(notification.UserID, notification.ID), notification.Value())
		if err != nil {
			h.Logger.Error("reply notification failed", "post_id", postID, "error", err)
		}
	}

	return c.Redirect(http.StatusSeeOther, "/posts/"+postID)
}

// HandlePostLike bumps the like counter. Likes are anonymous tallies, not
// per-user toggles, so repeat clicks keep counting.
func (h *Handlers) HandlePostLike(c *echo.Context) error {
	ctx := c.Request().Context()
	if _, err := requirePrincipal(c); err != nil {
		return err
	}
	postID := c.Param("id")

	doc, err := h.Docs.GetDocument(ctx, forum.Collection, postID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return c.Redirect(http.StatusSeeOther, "/")
		}
		return err
	}
	post := forum.FromDocument(doc)

	err = h.Docs.UpdateDocument(ctx, forum.Collection, postID,
		map[string]any{"likes": post.Likes + 1}, true)
	if err != nil && !errors.Is(err, docstore.ErrNotFound) {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/posts/"+postID)
}

// HandlePostPin toggles the pinned flag. Admins only.
func (h *Handlers) HandlePostPin(c *echo.Context) error {
	ctx := c.Request().Context()
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	if !principal.IsAdmin() {
		return echo.NewHTTPError(http.StatusForbidden, http.StatusText(http.StatusForbidden))
	}
	postID := c.Param("id")

	doc, err := h.Docs.GetDocument(ctx, forum.Collection, postID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return c.Redirect(http.StatusSeeOther, "/")
		}
		return err
	}
	post := forum.FromDocument(doc)

	err = h.Docs.UpdateDocument(ctx, forum.Collection, postID,
		map[string]any{"pinned": !post.Pinned}, true)
	if err != nil && !errors.Is(err, docstore.ErrNotFound) {
		return err
	}
	owner := alert.WithOwner(strconv.FormatInt(principal.UserID, 10))
	if post.Pinned {
		h.Alerts.Notify("Sematan dilepas.", alert.KindInfo, owner)
	} else {
		h.Alerts.Notify("Postingan disematkan di atas feed.", alert.KindInfo, owner)
	}
	return c.Redirect(http.StatusSeeOther, "/posts/"+postID)
}

// HandlePostDelete arms the destructive confirmation and, once confirmed,
// removes the post with its replies. The handler returns immediately; the
// dialog endpoints resolve the outcome.
func (h *Handlers) HandlePostDelete(c *echo.Context) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	postID := c.Param("id")

	doc, err := h.Docs.GetDocument(c.Request().Context(), forum.Collection, postID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return c.Redirect(http.StatusSeeOther, "/")
		}
		return err
	}
	post := forum.FromDocument(doc)
	if !principal.IsAdmin() && post.AuthorID != strconv.FormatInt(principal.UserID, 10) {
		return echo.NewHTTPError(http.StatusForbidden, http.StatusText(http.StatusForbidden))
	}

	// The request context ends with this response; the guarded action keeps
	// running until the dialog is resolved.
	ownerID := strconv.FormatInt(principal.UserID, 10)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		_, err := h.Feed.PerformGuardedAction(ctx, listview.GuardedAction{
			Name:           "post_delete",
			OwnerID:        ownerID,
			ConfirmMessage: "Hapus postingan \"" + post.Title + "\"? Semua balasan ikut terhapus.",
			SuccessMessage: "Postingan dihapus.",
			FailureMessage: "Postingan gagal dihapus. Coba lagi.",
			Run: func(ctx context.Context) error {
				tx, err := h.Pool.Begin(ctx)
				if err != nil {
					return err
				}
				defer tx.Rollback(ctx)

				docs := h.Docs.WithTx(tx)
				if err := docs.DeleteDocument(ctx, forum.Collection, postID); err != nil {
					return err
				}
				if err := docs.DeleteCollection(ctx, forum.RepliesCollection(postID)); err != nil {
					return err
				}
				if err := tx.Commit(ctx); err != nil {
					return err
				}
				h.Docs.Refresh(ctx, forum.Collection)
				return nil
			},
		})
		if err != nil {
			h.Logger.Error("post deletion failed", "post_id", postID, "error", err)
		}
	}()

	return c.Redirect(http.StatusSeeOther, "/posts/"+postID)
}
