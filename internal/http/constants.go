package httpx

// Pages of the console layout. Each renders the "<page>-content" template.
const (
	PageDashboard = "dashboard"
	PageUsers     = "users"
	PageUserForm  = "user-form"
)

// List paging bounds.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Template directories relative to the module root and to this package.
const (
	TemplatePathFromRoot = "frontend/templates"
	TemplatePathFromTest = "../../frontend/templates"
)

// FormMode tells the user form whether it creates or edits.
type FormMode string

const (
	FormModeCreate FormMode = "create"
	FormModeEdit   FormMode = "edit"
)

// ContentTemplateFor maps a page to its content template. Unknown pages get
// the dashboard.
func ContentTemplateFor(page string) string {
	switch page {
	case PageUsers, PageUserForm:
		return page + "-content"
	default:
		return PageDashboard + "-content"
	}
}
