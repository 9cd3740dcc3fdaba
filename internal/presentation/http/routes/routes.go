// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/presetbase/presetbase-go/internal/application/container"
	"github.com/presetbase/presetbase-go/internal/presentation/http/handlers"
	"github.com/presetbase/presetbase-go/internal/presentation/http/middleware"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(c *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Initialize handlers
	authHandlers := handlers.NewAuthHandlers(c.AuthService, c.Logger)
	tableHandlers := handlers.NewTableHandlers(c.BrowseService, c.Gateway, c.Logger)
	editorHandlers := handlers.NewEditorHandlers(c.EditorService, c.SuggestService, c.Logger)
	suggestHandlers := handlers.NewSuggestHandlers(c.SuggestService, c.Logger)
	submissionHandlers := handlers.NewSubmissionHandlers(c.SubmissionService, c.Logger)
	uploadHandlers := handlers.NewUploadHandlers(c.UploadService, c.Logger)
	publicHandlers := handlers.NewPublicHandlers(c.PublicService, c.Logger)
	socketHandlers := handlers.NewSocketHandlers(c.Broadcaster, c.Logger)
	healthHandlers := handlers.NewHealthHandlers(c)

	// Table refresh stream for open admin tables.
	r.GET("/ws/refresh", socketHandlers.GetRefreshSocket)

	api := r.Group("/api/v1")
	{
		api.GET("/health", healthHandlers.GetHealth)

		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandlers.PostLogin)
			auth.POST("/refresh", authHandlers.PostRefreshToken)
			auth.GET("/status", authHandlers.GetAuthStatus)
		}

		// Visitor-facing browse and submission surface.
		api.GET("/songs/shelves/:shelf", publicHandlers.GetShelf)
		api.GET("/search", publicHandlers.GetSearch)
		api.GET("/entry-names", publicHandlers.GetEntryNames)
		api.GET("/autofill/:kind", publicHandlers.GetAutofillSuggestions)
		api.GET("/autofill/:kind/data", publicHandlers.GetAutofillData)
		api.GET("/detail/:kind/:id", publicHandlers.GetDetail)
		api.POST("/submit", publicHandlers.PostSubmit)

		// Admin surface: tables, editor, moderation, uploads.
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(), middleware.AdminOnlyMiddleware())
		{
			admin.GET("/tables/:table", tableHandlers.GetTable)
			admin.GET("/tables/:table/config", tableHandlers.GetTableConfig)
			admin.GET("/users", tableHandlers.GetUsers)

			admin.POST("/editor/:table/:id", editorHandlers.PostOpen)

			sessions := admin.Group("/editor/sessions/:sessionId")
			{
				sessions.GET("", editorHandlers.GetSession)
				sessions.PUT("/fields", editorHandlers.PutField)
				sessions.PUT("/colors", editorHandlers.PutColor)
				sessions.POST("/lists/:list", editorHandlers.PostListItem)
				sessions.PUT("/lists/:list/:itemId", editorHandlers.PutListItemInput)
				sessions.DELETE("/lists/:list/:itemId", editorHandlers.DeleteListItem)
				sessions.POST("/apply", editorHandlers.PostApply)
				sessions.DELETE("/entry", editorHandlers.DeleteEntry)
				sessions.DELETE("", editorHandlers.DeleteSession)

				sessions.POST("/suggest/:field", suggestHandlers.PostKeystroke)
				sessions.GET("/suggest/:field", suggestHandlers.GetState)
				sessions.POST("/suggest/:field/cursor", suggestHandlers.PostCursor)
				sessions.POST("/suggest/:field/select", suggestHandlers.PostSelect)
				sessions.POST("/suggest/:field/dismiss", suggestHandlers.PostDismiss)
			}

			admin.GET("/submissions", submissionHandlers.GetPending)
			admin.POST("/submissions/:id/approve", submissionHandlers.PostApprove)
			admin.POST("/submissions/:id/deny", submissionHandlers.PostDeny)

			admin.POST("/uploads/image", uploadHandlers.PostImage)
			admin.POST("/uploads/audio", uploadHandlers.PostAudio)
		}
	}

	return r
}
