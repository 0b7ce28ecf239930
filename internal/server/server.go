package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"anoa.com/skillnest/internal/config"
	"anoa.com/skillnest/internal/jobs"
	"anoa.com/skillnest/internal/middleware"
	"anoa.com/skillnest/pkg/logger"
	"anoa.com/skillnest/pkg/response"
	"anoa.com/skillnest/pkg/scraper"
	"anoa.com/skillnest/pkg/storage"
	"anoa.com/skillnest/pkg/token"

	adminHttp "anoa.com/skillnest/internal/modules/admin/delivery/http"
	adminRepo "anoa.com/skillnest/internal/modules/admin/repository"
	adminService "anoa.com/skillnest/internal/modules/admin/service"

	categoryHttp "anoa.com/skillnest/internal/modules/category/delivery/http"
	categoryRepo "anoa.com/skillnest/internal/modules/category/repository"
	categoryService "anoa.com/skillnest/internal/modules/category/service"

	engagementHttp "anoa.com/skillnest/internal/modules/engagement/delivery/http"
	engagementRepo "anoa.com/skillnest/internal/modules/engagement/repository"
	engagementService "anoa.com/skillnest/internal/modules/engagement/service"

	notifHttp "anoa.com/skillnest/internal/modules/notification/delivery/http"
	notifRepo "anoa.com/skillnest/internal/modules/notification/repository"
	notifService "anoa.com/skillnest/internal/modules/notification/service"

	profileHttp "anoa.com/skillnest/internal/modules/profile/delivery/http"
	profileService "anoa.com/skillnest/internal/modules/profile/service"

	resourceHttp "anoa.com/skillnest/internal/modules/resource/delivery/http"
	resourceRepo "anoa.com/skillnest/internal/modules/resource/repository"
	resourceService "anoa.com/skillnest/internal/modules/resource/service"

	roadmapHttp "anoa.com/skillnest/internal/modules/roadmap/delivery/http"
	roadmapRepo "anoa.com/skillnest/internal/modules/roadmap/repository"
	roadmapService "anoa.com/skillnest/internal/modules/roadmap/service"

	searchHttp "anoa.com/skillnest/internal/modules/search/delivery/http"
	searchRepo "anoa.com/skillnest/internal/modules/search/repository"
	searchService "anoa.com/skillnest/internal/modules/search/service"

	skillHttp "anoa.com/skillnest/internal/modules/skill/delivery/http"
	skillRepo "anoa.com/skillnest/internal/modules/skill/repository"
	skillService "anoa.com/skillnest/internal/modules/skill/service"

	userHttp "anoa.com/skillnest/internal/modules/user/delivery/http"
	userRepo "anoa.com/skillnest/internal/modules/user/repository"
	userService "anoa.com/skillnest/internal/modules/user/service"

	viewService "anoa.com/skillnest/internal/modules/view/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the infrastructure clients the server is built on. Redis, Indexer and ImageStorage may be nil.
type Deps struct {
	DB           *gorm.DB
	Redis        *redis.Client
	Indexer      searchService.Indexer
	ImageStorage storage.ImageStorage
	Scraper      scraper.MetadataFetcher
	Log          *logger.Logger
}

type Server struct {
	engine    *gin.Engine
	http      *http.Server
	scheduler *jobs.Scheduler
	log       *logger.Logger
}

func NewServer(cfg *config.Config, deps Deps) (*Server, error) {
	log := deps.Log
	db := deps.DB
	redisClient := deps.Redis

	response.SetLogger(log)
	tokens := token.NewManager(cfg.JWTSecret, cfg.JWTTTL)

	userRepository := userRepo.NewUserRepository(db)
	categoryRepository := categoryRepo.NewCategoryRepository(db)
	skillRepository := skillRepo.NewSkillRepository(db)
	resourceRepository := resourceRepo.NewResourceRepository(db)
	roadmapRepository := roadmapRepo.NewRoadmapRepository(db)
	engagementRepository := engagementRepo.NewEngagementRepository(db)
	notificationRepository := notifRepo.NewNotificationRepository(db)

	searchSvc := searchService.NewSearchService(searchRepo.NewSearchRepository(db), deps.Indexer, log)
	searchHandler := searchHttp.NewSearchHandler(searchSvc)

	// The token issuer is optional; keep the interface nil when there is no indexer.
	var searchTokens userService.SearchTokenIssuer
	if deps.Indexer != nil {
		searchTokens = deps.Indexer
	}
	authSvc := userService.NewAuthService(userRepository, tokens, searchTokens,
		userService.OAuthCredentials{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
		},
		userService.OAuthCredentials{
			ClientID:     cfg.GithubClientID,
			ClientSecret: cfg.GithubClientSecret,
			RedirectURL:  cfg.GithubRedirectURL,
		},
		log,
	)
	authHandler := userHttp.NewAuthHandler(authSvc, cfg.FrontendURL)

	profileSvc := profileService.NewProfileService(userRepository, deps.ImageStorage, resourceRepository)
	profileHandler := profileHttp.NewProfileHandler(profileSvc)

	categorySvc := categoryService.NewCategoryService(categoryRepository)
	categoryHandler := categoryHttp.NewCategoryHandler(categorySvc)

	skillSvc := skillService.NewSkillService(skillRepository, deps.Indexer, log)
	skillHandler := skillHttp.NewSkillHandler(skillSvc)

	notificationSvc := notifService.NewNotificationService(notificationRepository, redisClient, log)
	notificationHandler := notifHttp.NewNotificationHandler(notificationSvc, redisClient, cfg.Origins(), log)

	engagementSvc := engagementService.NewEngagementService(
		engagementRepository,
		resourceRepository,
		notificationSvc,
		redisClient,
		cfg.RateLimitComment,
		log,
	)
	engagementHandler := engagementHttp.NewEngagementHandler(engagementSvc)

	viewSvc := viewService.NewViewService(redisClient, resourceRepository, log)

	resourceSvc := resourceService.NewResourceService(resourceService.Deps{
		Repo:          resourceRepository,
		Skills:        skillRepository,
		Suggester:     skillSvc,
		Engagement:    engagementSvc,
		Views:         viewSvc,
		Indexer:       deps.Indexer,
		ImageStorage:  deps.ImageStorage,
		Scraper:       deps.Scraper,
		Redis:         redisClient,
		ResourceLimit: cfg.RateLimitResource,
		Log:           log,
	})
	resourceHandler := resourceHttp.NewResourceHandler(resourceSvc)

	roadmapSvc := roadmapService.NewRoadmapService(roadmapRepository, skillRepository, resourceRepository)
	roadmapHandler := roadmapHttp.NewRoadmapHandler(roadmapSvc)

	adminSvc := adminService.NewAdminService(adminRepo.NewStatsRepository(db), userRepository, log)
	adminHandler := adminHttp.NewAdminHandler(adminSvc)

	scheduler := jobs.NewScheduler(log, cfg.JobTimeout)
	if err := scheduler.RegisterJob(jobs.NewViewSyncJob(viewSvc, cfg.ViewSyncSchedule)); err != nil {
		return nil, err
	}
	if err := scheduler.RegisterJob(jobs.NewReindexJob(searchSvc, cfg.ReindexSchedule)); err != nil {
		return nil, err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	setupCORS(router, cfg.Origins())

	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log, "/api/health", "/api/notifications/ws"))

	authMiddleware := middleware.NewAuthMiddleware(userRepository, tokens)

	api := router.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public routes (no auth required)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/:provider/login", authHandler.OAuthLogin)
		auth.GET("/:provider/callback", authHandler.OAuthCallback)
	}

	api.GET("/categories", categoryHandler.GetAllCategories)
	api.GET("/skills", skillHandler.ListSkills)
	api.GET("/skills/:slug", authMiddleware.OptionalAuth(), skillHandler.GetSkillBySlug)
	api.GET("/skills/:slug/resources", resourceHandler.ListBySkill)
	api.GET("/roadmaps/:slug", roadmapHandler.GetPublishedRoadmap)
	api.GET("/resources/:id", authMiddleware.OptionalAuth(), resourceHandler.GetResource)
	api.GET("/resources/:id/comments", engagementHandler.ListComments)
	api.GET("/search", searchHandler.Search)
	api.GET("/search/suggest", searchHandler.Suggest)
	api.GET("/profiles/:username", profileHandler.GetProfileByUsername)

	// Protected routes
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.GET("/profile", profileHandler.GetCurrentProfile)
		protected.PUT("/profile", profileHandler.UpdateProfile)

		protected.POST("/skills/suggest", skillHandler.SuggestSkill)

		protected.POST("/resources", resourceHandler.CreateResource)
		protected.DELETE("/resources/:id", resourceHandler.DeleteResource)
		protected.GET("/metadata", resourceHandler.FetchMetadata)

		protected.POST("/resources/:id/like", engagementHandler.ToggleLike)
		protected.POST("/resources/:id/bookmark", engagementHandler.ToggleBookmark)
		protected.POST("/resources/:id/comments", engagementHandler.AddComment)
		protected.DELETE("/comments/:id", engagementHandler.DeleteComment)
		protected.GET("/bookmarks", engagementHandler.ListBookmarks)

		protected.GET("/dashboard/posts", resourceHandler.ListMine)
		protected.GET("/dashboard/stats", resourceHandler.DashboardStats)

		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)

		adminGroup := protected.Group("/admin")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.GET("/stats", adminHandler.GetStats)
			adminGroup.GET("/users", adminHandler.GetAllUsers)
			adminGroup.PATCH("/users/:id/role", adminHandler.UpdateUserRole)

			adminGroup.GET("/skills", skillHandler.ListByStatus)
			adminGroup.POST("/skills", skillHandler.CreateSkill)
			adminGroup.PATCH("/skills/:id/approve", skillHandler.ApproveSkill)
			adminGroup.PATCH("/skills/:id/reject", skillHandler.RejectSkill)
			adminGroup.DELETE("/skills/:id", skillHandler.DeleteSkill)

			adminGroup.GET("/resources", resourceHandler.ListAll)
			adminGroup.PATCH("/resources/:id/status", resourceHandler.UpdateStatus)
			adminGroup.DELETE("/resources/:id", resourceHandler.AdminDeleteResource)

			adminGroup.POST("/categories", categoryHandler.CreateCategory)
			adminGroup.DELETE("/categories/:id", categoryHandler.DeleteCategory)

			adminGroup.GET("/roadmaps", roadmapHandler.ListRoadmaps)
			adminGroup.GET("/roadmaps/:slug", roadmapHandler.GetFullRoadmap)
			adminGroup.POST("/roadmaps", roadmapHandler.CreateRoadmap)
			adminGroup.PATCH("/roadmaps/:id", roadmapHandler.UpdateRoadmap)
			adminGroup.POST("/roadmaps/:id/steps", roadmapHandler.AddStep)
			adminGroup.PATCH("/steps/:id/move", roadmapHandler.MoveStep)
			adminGroup.DELETE("/steps/:id", roadmapHandler.DeleteStep)
			adminGroup.POST("/steps/:id/items", roadmapHandler.AddItem)
			adminGroup.DELETE("/items/:id", roadmapHandler.DeleteItem)

			adminGroup.GET("/jobs", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"data": scheduler.JobNames()})
			})
			adminGroup.POST("/jobs/:name/run", func(c *gin.Context) {
				if err := scheduler.RunJobByName(c.Request.Context(), c.Param("name")); err != nil {
					response.ResponseError(c, err)
					return
				}
				c.JSON(http.StatusOK, gin.H{"message": "job completed"})
			})
		}
	}

	return &Server{
		engine: router,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		scheduler: scheduler,
		log:       log,
	}, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the background jobs and serves HTTP until Shutdown is called.
// Shutdown may run concurrently with Run, including before it.
func (s *Server) Run() error {
	s.scheduler.Start()

	s.log.Info("http server listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains HTTP connections and waits for running jobs.
func (s *Server) Shutdown(ctx context.Context) error {
	s.scheduler.Stop(ctx)
	return s.http.Shutdown(ctx)
}

func setupCORS(router *gin.Engine, origins []string) {
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
