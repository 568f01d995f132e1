package handlers

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v5"

	"github.com/angkasa-id/angkasa/internal/domain/forum"
	"github.com/angkasa-id/angkasa/internal/http/viewmodels"
	"github.com/angkasa-id/angkasa/internal/http/views"
	"github.com/angkasa-id/angkasa/internal/listview"
)

// HandleProvider renders the provider workspace: the composer plus the
// provider's own posts from the live feed mirror, with the same search and
// category filters as the public feed.
func (h *Handlers) HandleProvider(c *echo.Context) error {
	ctx := c.Request().Context()
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	authorID := strconv.FormatInt(principal.UserID, 10)

	query := strings.TrimSpace(c.QueryParam("q"))
	category := strings.TrimSpace(c.QueryParam("category"))
	if !forum.ValidCategory(category) {
		category = ""
	}

	var mine []forum.Post
	for _, p := range h.Feed.Items() {
		if p.AuthorID == authorID {
			mine = append(mine, p)
		}
	}

	var facets []listview.Facet
	if category != "" {
		facets = append(facets, listview.Facet{Field: "category", Value: category})
	}
	visible := listview.DeriveVisible(mine, query, facets, forum.ListFields)

	own := make([]viewmodels.PostCardViewData, 0, len(visible))
	for _, p := range visible {
		own = append(own, postCard(p))
	}

	counts := map[string]int{}
	for _, p := range mine {
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

	data := viewmodels.ProviderViewData{
		Layout:     h.LayoutData(ctx, c, "Workspace"),
		Query:      query,
		Category:   category,
		Posts:      own,
		Categories: categories,
		Total:      len(own),
	}
	return h.RenderComponent(c, views.ProviderPage(data))
}
