package viewmodels

// MemberRowViewData is one row in the admin member table.
type MemberRowViewData struct {
	ID          string
	DisplayName string
	Email       string
	Role        string
	RoleLabel   string
	Institution string
	Verified    bool
	Active      bool
	JoinedAt    string
}

// AdminViewData backs the admin console.
type AdminViewData struct {
	Layout     LayoutData
	Query      string
	Role       string
	Status     string
	Verified   string
	Members    []MemberRowViewData
	RoleCounts map[string]int
	Total      int
	Loading    bool
}
