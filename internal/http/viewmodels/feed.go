package viewmodels

import "html/template"

// CategoryOption is one facet chip on the feed.
type CategoryOption struct {
	Value  string
	Label  string
	Active bool
	Count  int
}

// PostCardViewData is one feed card.
type PostCardViewData struct {
	ID            string
	Href          string
	Title         string
	Excerpt       string
	Category      string
	CategoryLabel string
	AuthorName    string
	CreatedAt     string
	Replies       int64
	Likes         int64
	Pinned        bool
}

// FeedViewData backs the home feed.
type FeedViewData struct {
	Layout     LayoutData
	Query      string
	Category   string
	Categories []CategoryOption
	Posts      []PostCardViewData
	Loading    bool
	Total      int
}

// ReplyViewData is one reply on the post detail page.
type ReplyViewData struct {
	AuthorName string
	BodyHTML   template.HTML
	CreatedAt  string
}

// PostViewData backs the post detail page.
type PostViewData struct {
	Layout        LayoutData
	ID            string
	Title         string
	BodyHTML      template.HTML
	Category      string
	CategoryLabel string
	AuthorName    string
	CreatedAt     string
	Likes         int64
	Pinned        bool
	Replies       []ReplyViewData
	CanDelete     bool
	CanPin        bool
}

// ProviderViewData backs the provider workspace.
type ProviderViewData struct {
	Layout     LayoutData
	Query      string
	Category   string
	Posts      []PostCardViewData
	Categories []CategoryOption
	Total      int
}
