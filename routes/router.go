package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clwei/goblog/config"
	"github.com/clwei/goblog/controllers"
	"github.com/clwei/goblog/middleware"
	"github.com/clwei/goblog/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace the default console logger with the file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.Static("/static", "./static")

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	authController := controllers.NewAuthController(db)
	postController := controllers.NewPostController(db)
	categoryController := controllers.NewCategoryController(db)
	commentController := controllers.NewCommentController(db)
	uploadController := controllers.NewUploadController(db)
	statsController := controllers.NewStatsController(db)
	siteController := controllers.NewSiteController()

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/oauth/github/login", authController.OAuthRedirect)
	authGroup.GET("/oauth/github/callback", authController.OAuthCallback)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)
	authGroup.PATCH("/profile", middleware.AuthRequired(), authController.UpdateProfile)

	// Public reads
	api.GET("/home", postController.Home)
	api.GET("/posts", postController.ListPosts)
	api.GET("/posts/:id", middleware.ViewCounter(db), postController.GetPost)
	api.GET("/posts/:id/stats", statsController.GetPostStats)
	api.GET("/categories", categoryController.ListCategories)
	api.GET("/categories/:id", categoryController.GetCategory)
	api.GET("/stats", statsController.GetStats)
	api.GET("/meta", siteController.GetMeta)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	protected.POST("/posts", postController.CreatePost)
	protected.PUT("/posts/:id", postController.UpdatePost)
	protected.DELETE("/posts/:id", postController.DeletePost)
	protected.POST("/posts/:id/comments", commentController.CreateComment)
	protected.DELETE("/comments/:id", commentController.DeleteComment)
	protected.POST("/categories", categoryController.CreateCategory)
	protected.PUT("/categories/:id", categoryController.UpdateCategory)
	protected.DELETE("/categories/:id", categoryController.DeleteCategory)
	protected.POST("/uploads/images", uploadController.UploadImage)

	r.NoRoute(func(ctx *gin.Context) {
		path := ctx.Request.URL.Path
		if strings.HasPrefix(path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
			return
		}
		if strings.HasPrefix(path, "/static/") {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "static asset not found"})
			return
		}
		ctx.Status(http.StatusOK)
		ctx.File("./static/index.html")
	})

	return r
}
