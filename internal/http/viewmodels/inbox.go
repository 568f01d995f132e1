package viewmodels

// NotificationViewData is one inbox row.
type NotificationViewData struct {
	ID        string
	Kind      string
	KindLabel string
	Title     string
	Body      string
	Read      bool
	CreatedAt string
}

// InboxViewData backs the inbox page.
type InboxViewData struct {
	Layout      LayoutData
	Query       string
	Kind        string
	Status      string
	Items       []NotificationViewData
	UnreadCount int
	Total       int
}
