package handler

import (
	"net/http"
	"strings"

	"club-hours/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Limits are the rate-limit tiers. A nil tier does not limit.
type Limits struct {
	Auth  *middleware.Limiter
	Read  *middleware.Limiter
	Write *middleware.Limiter
}

type Router struct {
	Auth      *AuthHandler
	WorkHours *WorkHourHandler
	Dashboard *DashboardHandler
	Tokens    middleware.SessionVerifier
	Limits    Limits
}

// Mount registers every /api route on r.
func (rt *Router) Mount(r *gin.Engine) {
	api := r.Group("/api", middleware.ErrorHandling())
	api.GET("/health", Health)

	public := api.Group("", limit(rt.Limits.Auth, middleware.ByClientIP))
	public.POST("/login", rt.Auth.Login)
	public.POST("/select-member", rt.Auth.SelectMember)
	public.POST("/register", rt.Auth.Register)
	public.POST("/forgotPassword", rt.Auth.ForgotPassword)
	public.POST("/resetPassword", rt.Auth.ResetPassword)

	protected := api.Group("", middleware.JWTAuth(rt.Tokens))

	read := protected.Group("", limit(rt.Limits.Read, middleware.ByMember))
	read.GET("/verify-token", rt.Auth.CurrentUser)
	read.GET("/user", rt.Auth.CurrentUser)
	read.GET("/dashboard/:year", rt.Dashboard.Show)
	read.GET("/arbeitsstunden/:id", rt.WorkHours.Get)

	write := protected.Group("", limit(rt.Limits.Write, middleware.ByMember))
	write.POST("/arbeitsstunden", rt.WorkHours.Create)
	write.PUT("/arbeitsstunden/:id", rt.WorkHours.Update)
	write.DELETE("/arbeitsstunden/:id", rt.WorkHours.Delete)

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "not_found", "message": "API endpoint not found"})
			return
		}
		c.Status(http.StatusNotFound)
	})
}

func limit(l *middleware.Limiter, key middleware.KeyFunc) gin.HandlerFunc {
	if l == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return middleware.RateLimit(l, key)
}
