package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/api/http/handlers"
	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/auth"
	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/cache"
	"github.com/ayushjhaa1187-spec/hostel-issue-tracking-system/internal/domain"
)

// RouteConfig bundles everything the router mounts.
type RouteConfig struct {
	Auth          *auth.AuthMiddleware
	Cache         *cache.ResponseCache
	Users         *handlers.UsersHandler
	Issues        *handlers.IssuesHandler
	LostItems     *handlers.LostItemsHandler
	Announcements *handlers.AnnouncementsHandler
	Analytics     *handlers.AnalyticsHandler
	Health        *handlers.HealthHandler
}

// RegisterRoutes mounts the full API surface on the app.
func RegisterRoutes(app *fiber.App, rc RouteConfig) {
	app.Get("/healthz", rc.Health.Live)
	app.Get("/readyz", rc.Health.Ready)
	app.Get("/metricsz", rc.Health.Metrics)

	api := app.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", rc.Users.Register)
	authGroup.Post("/login", rc.Users.Login)
	authGroup.Get("/me", rc.Auth.Handle, rc.Users.Me)
	authGroup.Post("/change-password", rc.Auth.Handle, rc.Users.ChangePassword)

	issues := api.Group("/issues", rc.Auth.Handle)
	issues.Post("/", rc.Issues.Create)
	issues.Get("/", rc.Cache.Middleware(), rc.Issues.List)
	issues.Get("/sla/breaches", auth.RequireStaff(), rc.Issues.BreachCandidates)
	issues.Get("/:id", rc.Issues.Get)
	issues.Patch("/:id/status", auth.RequireStaff(), rc.Issues.UpdateStatus)
	issues.Post("/:id/comments", rc.Issues.AddComment)
	issues.Post("/:id/upvote", rc.Issues.ToggleUpvote)
	issues.Post("/:id/assign", auth.RequireStaff(), rc.Issues.Assign)
	issues.Post("/:id/escalate", auth.RequireStaff(), rc.Issues.Escalate)

	items := api.Group("/lost-items", rc.Auth.Handle)
	items.Post("/", rc.LostItems.Report)
	items.Get("/", rc.Cache.Middleware(), rc.LostItems.List)
	items.Get("/mine", rc.LostItems.MyItems)
	items.Get("/:id", rc.LostItems.Get)
	items.Get("/:id/matches", rc.LostItems.Matches)
	items.Post("/:id/claim", rc.LostItems.Claim)
	items.Post("/:id/resolve", rc.LostItems.Resolve)
	items.Post("/:id/unclaim", auth.RequireStaff(), rc.LostItems.Unclaim)

	announcements := api.Group("/announcements", rc.Auth.Handle)
	announcements.Get("/", rc.Cache.Middleware(), rc.Announcements.List)
	announcements.Post("/", auth.RequireStaff(), rc.Announcements.Create)
	announcements.Delete("/:id", auth.RequireRole(domain.RoleAdmin), rc.Announcements.Delete)

	analytics := api.Group("/analytics", rc.Auth.Handle, auth.RequireStaff())
	analytics.Get("/summary", rc.Analytics.Summary)
	analytics.Get("/issues-by-status", rc.Analytics.IssuesByStatus)
	analytics.Get("/issues/export", rc.Analytics.ExportIssuesCSV)
}
