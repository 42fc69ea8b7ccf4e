package router

import (
	"net/http"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/careflow/api/handler"
	"github.com/fastygo/careflow/api/transport"
)

type Handlers struct {
	Auth      *apiHandler.AuthHandler
	Task      *apiHandler.TaskHandler
	Tag       *apiHandler.TagHandler
	Comment   *apiHandler.CommentHandler
	Dashboard *apiHandler.DashboardHandler
	Activity  *apiHandler.ActivityHandler
	Health    *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()
	r.HandleMethodNotAllowed = true
	r.MethodNotAllowed = jsonError(http.StatusMethodNotAllowed, "method not allowed")
	r.NotFound = jsonError(http.StatusNotFound, "not found")

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/auth/signup", handlers.Auth.Signup)
	r.POST("/api/auth/login", handlers.Auth.Login)
	r.POST("/api/auth/logout", authMiddleware(handlers.Auth.Logout))
	r.POST("/api/auth/change-password", authMiddleware(handlers.Auth.ChangePassword))
	r.GET("/api/auth/me", authMiddleware(handlers.Auth.Me))

	// Protected routes
	r.GET("/api/tasks", authMiddleware(handlers.Task.GetTasks))
	r.POST("/api/tasks", authMiddleware(handlers.Task.CreateTask))
	r.GET("/api/tasks/{id}", authMiddleware(handlers.Task.GetTask))
	r.PUT("/api/tasks/{id}", authMiddleware(handlers.Task.UpdateTask))
	r.DELETE("/api/tasks/{id}", authMiddleware(handlers.Task.DeleteTask))

	r.GET("/api/tasks/{id}/comments", authMiddleware(handlers.Comment.List))
	r.POST("/api/tasks/{id}/comments", authMiddleware(handlers.Comment.Create))
	r.PUT("/api/comments/{id}", authMiddleware(handlers.Comment.Update))
	r.DELETE("/api/comments/{id}", authMiddleware(handlers.Comment.Delete))

	r.GET("/api/tasks/{id}/tags", authMiddleware(handlers.Tag.TaskTags))
	r.POST("/api/tasks/{id}/tags", authMiddleware(handlers.Tag.AddToTask))
	r.DELETE("/api/tasks/{id}/tags/{tagId}", authMiddleware(handlers.Tag.RemoveFromTask))
	r.GET("/api/tags", authMiddleware(handlers.Tag.Search))

	r.GET("/api/dashboard/stats", authMiddleware(handlers.Dashboard.Stats))
	r.GET("/api/dashboard/matrix", authMiddleware(handlers.Dashboard.Matrix))

	r.GET("/api/activity", authMiddleware(handlers.Activity.Recent))

	return r
}

func jsonError(status int, message string) fasthttp.RequestHandler {
	body := transport.NewError(message).String()
	return func(ctx *fasthttp.RequestCtx) {
		ctx.Response.Header.SetContentType("application/json")
		ctx.SetStatusCode(status)
		ctx.SetBodyString(body)
	}
}
