package routers

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/gabrielvps/PintClub/config"
	"github.com/gabrielvps/PintClub/internal/handlers"
	"github.com/gabrielvps/PintClub/middleware/jwt"
	logger "github.com/gabrielvps/PintClub/middleware/log"
	"github.com/gabrielvps/PintClub/pkg/middlewares"
	"github.com/gabrielvps/PintClub/utils/ratelimit"
)

// Handlers bundles the wired handler set for route registration.
type Handlers struct {
	Auth    *handlers.AuthHandler
	Group   *handlers.GroupHandler
	Invite  *handlers.InviteHandler
	Pint    *handlers.PintHandler
	Capture *handlers.CaptureHandler
	Friend  *handlers.FriendHandler
	Profile *handlers.ProfileHandler
}

// SetupRoutes wires middleware and all route groups onto the engine.
func SetupRoutes(r *gin.Engine, cfg *config.Config,
	appLogger *logger.Logger,
	tokens *jwt.TokenManager,
	limiter ratelimit.Limiter,
	h *Handlers,
) {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Trace-ID"}
	r.Use(cors.New(corsConfig))

	r.Use(logger.AccessLog(appLogger))

	if cfg.RateLimit.MaxConcurrency > 0 {
		r.Use(middlewares.MaxConcurrencyMiddleware(cfg.RateLimit.MaxConcurrency))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"Status": "OK",
		})
	})

	// Uploaded objects (drink photos, avatars) are served straight from the
	// store's root; keep this before the async middleware so large file
	// responses never occupy the worker pool.
	r.Static("/media", cfg.Storage.RootDir)

	// Queue the remaining request handling on the worker pool.
	r.Use(middlewares.AsyncMiddleware())

	rlConfig := &ratelimit.RateLimitConfig{
		SignUpPerMinute: cfg.RateLimit.SignUpPerMinute,
		SignInPerMinute: cfg.RateLimit.SignInPerMinute,
		SharePerMinute:  cfg.RateLimit.SharePerMinute,
		APIPerMinute:    cfg.RateLimit.APIPerMinute,
	}

	registerAuthRoutes(r, tokens, limiter, rlConfig, h)
	registerGroupRoutes(r, tokens, h)
	registerInviteRoutes(r, tokens, h)
	registerPintRoutes(r, tokens, h)
	registerCaptureRoutes(r, tokens, limiter, rlConfig, h)
	registerFriendRoutes(r, tokens, h)
	registerProfileRoutes(r, tokens, h)
}

func registerAuthRoutes(r *gin.Engine, tokens *jwt.TokenManager, limiter ratelimit.Limiter, rlConfig *ratelimit.RateLimitConfig, h *Handlers) {
	authGroup := r.Group("/api/v1/auth")
	{
		authGroup.POST("/signup", middlewares.RateLimitMiddleware(limiter, "signup", rlConfig), h.Auth.SignUp)
		authGroup.POST("/signin", middlewares.RateLimitMiddleware(limiter, "signin", rlConfig), h.Auth.SignIn)
	}
	authGroup.Use(middlewares.AuthMiddleware(tokens))
	{
		authGroup.GET("/me", h.Auth.Me)
		authGroup.POST("/signout", h.Auth.SignOut)
	}
}

func registerGroupRoutes(r *gin.Engine, tokens *jwt.TokenManager, h *Handlers) {
	groupGroup := r.Group("/api/v1/groups")
	groupGroup.Use(middlewares.AuthMiddleware(tokens))
	{
		groupGroup.POST("", h.Group.Create)
		groupGroup.GET("/mine", h.Group.ListMine)
		groupGroup.GET("/discover", h.Group.Discover)
		groupGroup.GET("/:id", h.Group.Get)
		groupGroup.GET("/:id/members", h.Group.Members)
		groupGroup.GET("/:id/leaderboard", h.Group.Leaderboard)

		groupGroup.POST("/:id/invites", h.Invite.SendByUsername)
		groupGroup.GET("/:id/invite-link", h.Invite.Link)

		groupGroup.GET("/:id/pints", h.Pint.GroupFeed)
	}
}

func registerInviteRoutes(r *gin.Engine, tokens *jwt.TokenManager, h *Handlers) {
	// Invite previews must render for viewers who are not logged in yet.
	r.GET("/api/v1/invite/:token", middlewares.OptionalAuthMiddleware(tokens), h.Invite.Preview)
	r.POST("/api/v1/invite/:token/join", middlewares.AuthMiddleware(tokens), h.Invite.Join)

	inviteGroup := r.Group("/api/v1/invites")
	inviteGroup.Use(middlewares.AuthMiddleware(tokens))
	{
		inviteGroup.GET("/pending", h.Invite.ListPending)
		inviteGroup.POST("/:id/respond", h.Invite.Respond)
	}
}

func registerPintRoutes(r *gin.Engine, tokens *jwt.TokenManager, h *Handlers) {
	pintGroup := r.Group("/api/v1/pints")
	pintGroup.Use(middlewares.AuthMiddleware(tokens))
	{
		pintGroup.GET("", h.Pint.Feed)
		pintGroup.GET("/friends", h.Pint.FriendsFeed)
		pintGroup.GET("/today", h.Pint.UploadedToday)
	}
}

func registerCaptureRoutes(r *gin.Engine, tokens *jwt.TokenManager, limiter ratelimit.Limiter, rlConfig *ratelimit.RateLimitConfig, h *Handlers) {
	captureGroup := r.Group("/api/v1/capture")
	captureGroup.Use(middlewares.AuthMiddleware(tokens))
	{
		captureGroup.POST("/session", h.Capture.Start)
		captureGroup.GET("/session", h.Capture.Get)
		captureGroup.DELETE("/session", h.Capture.End)

		captureGroup.POST("/photo", h.Capture.Photo)
		captureGroup.POST("/facing", h.Capture.ToggleFacing)
		captureGroup.POST("/location", h.Capture.Location)

		captureGroup.POST("/picker/open", h.Capture.OpenPicker)
		captureGroup.POST("/picker/close", h.Capture.ClosePicker)
		captureGroup.POST("/group/:id", h.Capture.SelectGroup)
		captureGroup.POST("/details", h.Capture.Details)
		captureGroup.GET("/drink-types", h.Capture.DrinkTypes)

		captureGroup.POST("/share", middlewares.RateLimitMiddleware(limiter, "share", rlConfig), h.Capture.Share)
		captureGroup.POST("/reset", h.Capture.Reset)
	}
}

func registerFriendRoutes(r *gin.Engine, tokens *jwt.TokenManager, h *Handlers) {
	friendGroup := r.Group("/api/v1/friends")
	friendGroup.Use(middlewares.AuthMiddleware(tokens))
	{
		friendGroup.GET("", h.Friend.List)
		friendGroup.GET("/search", h.Friend.Search)
		friendGroup.POST("/:id", h.Friend.Send)
		friendGroup.POST("/:id/accept", h.Friend.Accept)
		friendGroup.POST("/:id/reject", h.Friend.Reject)
	}
}

func registerProfileRoutes(r *gin.Engine, tokens *jwt.TokenManager, h *Handlers) {
	profileGroup := r.Group("/api/v1/profiles")
	profileGroup.Use(middlewares.AuthMiddleware(tokens))
	{
		profileGroup.POST("/me/avatar", h.Profile.UploadAvatar)
		profileGroup.GET("/:id/avatar", h.Profile.Avatar)
	}
}
