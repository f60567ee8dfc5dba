package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/fazilraphi/blig-blogs/internal/config"
	"github.com/fazilraphi/blig-blogs/internal/handler"
	"github.com/fazilraphi/blig-blogs/internal/middleware"
	"github.com/fazilraphi/blig-blogs/internal/service"
)

// Handlers carries every handler the API mounts. Grouping them in one
// struct keeps RegisterAll's signature stable as endpoints grow.
type Handlers struct {
	Auth    *handler.AuthHandler
	Blogs   *handler.BlogHandler
	Comment *handler.CommentHandler
	Social  *handler.SocialHandler
}

// RegisterAll wires every route onto the Echo instance.
//
// Public browse endpoints (blog reads, comment reads, follower lists)
// go through the Redis response cache when one is configured. Auth
// endpoints and all mutations bypass it. Protected endpoints live in a
// group guarded by the JWT middleware.
func RegisterAll(e *echo.Echo, h Handlers, tokens *service.Tokens, cacheCfg config.CacheConfig, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	// Session lifecycle. Register/login/refresh need no token;
	// logout-refresh invalidates the refresh token carried in the body.
	auth := e.Group("/v1/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout-refresh", h.Auth.LogoutRefresh)

	// Unauthenticated reads, cached when Redis is available.
	pub := e.Group("/v1", middleware.ResponseCache(cacheCfg, rdb))
	pub.GET("/blogs", h.Blogs.List)
	pub.GET("/blogs/:id", h.Blogs.Get)
	pub.GET("/blogs/:id/comments", h.Comment.List)
	pub.GET("/users/:id/followers", h.Social.Followers)
	pub.GET("/users/:id/following", h.Social.Following)

	// Everything below requires a valid access token.
	priv := e.Group("/v1", middleware.JWTAuth(tokens))
	priv.GET("/auth/me", h.Auth.Me)
	priv.POST("/auth/logout", h.Auth.Logout)
	priv.POST("/profile/image", h.Auth.ProfileImage)

	priv.POST("/blogs", h.Blogs.Create)
	priv.PATCH("/blogs/:id", h.Blogs.Update)
	priv.DELETE("/blogs/:id", h.Blogs.Delete)
	priv.POST("/blogs/:id/media", h.Blogs.UploadMedia)

	priv.POST("/blogs/:id/comments", h.Comment.Create)
	priv.DELETE("/comments/:id", h.Comment.Delete)

	priv.POST("/blogs/:id/like", h.Social.Like)
	priv.DELETE("/blogs/:id/like", h.Social.Unlike)

	priv.POST("/users/:id/follow", h.Social.Follow)
	priv.DELETE("/users/:id/follow", h.Social.Unfollow)
}
