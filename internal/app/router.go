package app

import (
	"log"
	"time"

	"socialnet/internal/config"
	"socialnet/internal/middleware"
	"socialnet/internal/model"
	"socialnet/internal/repository"
	"socialnet/internal/service"
	"socialnet/internal/util"
	"socialnet/internal/websocket"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewRouter(cfg *config.Config) *gin.Engine {
	if cfg.ServerPort == "5000" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(corsMiddleware(cfg.ClientURL))

	if cfg.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		r.Use(rateLimiter.Middleware())
		log.Printf("Rate limiting enabled: %d req/sec, burst: %d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	db, err := initDB(cfg)
	if err != nil {
		panic("Failed to connect to database: " + err.Error())
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Profile{},
		&model.FriendRequest{},
		&model.FriendEdge{},
		&model.Post{},
		&model.PostTag{},
		&model.Comment{},
		&model.Reaction{},
		&model.Recap{},
		&model.Notification{},
		&model.Announcement{},
		&model.ModerationRecord{},
		&model.ScheduledMessage{},
	); err != nil {
		panic("Failed to migrate database: " + err.Error())
	}

	// comments.target_id and reactions.target_id are polymorphic, so any
	// foreign key AutoMigrate created for them must go
	fixPolymorphicConstraints(db)

	ensureFriendshipIndexes(db)

	redisClient := initRedisWithRetry(cfg)
	rabbitMQ := initRabbitMQWithRetry(cfg)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db, redisClient)
	friendshipRepo := repository.NewFriendshipRepository(db, redisClient)
	postRepo := repository.NewPostRepository(db, redisClient)
	commentRepo := repository.NewCommentRepository(db, redisClient)
	reactionRepo := repository.NewReactionRepository(db, redisClient)
	recapRepo := repository.NewRecapRepository(db, redisClient)
	notificationRepo := repository.NewNotificationRepository(db, redisClient)
	announcementRepo := repository.NewAnnouncementRepository(db)
	moderationRepo := repository.NewModerationRepository(db)
	scheduledMessageRepo := repository.NewScheduledMessageRepository(db)

	// WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()
	log.Println("WebSocket hub started")

	// Cloudinary for post image uploads
	var cloudinaryClient *util.CloudinaryClient
	if cfg.CloudinaryCloudName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		cloudinaryClient, err = util.NewCloudinaryClient(cfg)
		if err != nil {
			log.Printf("Warning: Failed to initialize Cloudinary: %v. Image uploads will be disabled.", err)
		} else {
			log.Println("Cloudinary initialized successfully")
		}
	} else {
		log.Println("Cloudinary credentials not configured. Image uploads will be disabled.")
	}

	// Services
	authService := service.NewAuthService(userRepo, profileRepo, cfg.JWTSecret)
	notificationService := service.NewNotificationService(notificationRepo, rabbitMQ)
	notificationService.SetWSHub(wsHub)
	friendshipService := service.NewFriendshipService(friendshipRepo, userRepo, notificationService)
	moderationService := service.NewModerationService(moderationRepo)
	postService := service.NewPostService(postRepo, userRepo, moderationService)
	commentService := service.NewCommentService(commentRepo, postRepo, userRepo, moderationService)
	reactionService := service.NewReactionService(reactionRepo, postRepo, commentRepo, userRepo)
	recapService := service.NewRecapService(recapRepo, friendshipRepo, postRepo, commentRepo, reactionRepo, notificationService)
	profileService := service.NewProfileService(profileRepo, friendshipRepo)
	announcementService := service.NewAnnouncementService(announcementRepo, userRepo)
	scheduledMessageService := service.NewScheduledMessageService(scheduledMessageRepo, friendshipRepo, moderationService)

	// Background workers
	if rabbitMQ != nil {
		notificationWorker := service.NewNotificationWorker(rabbitMQ, wsHub)
		if err := notificationWorker.Start(); err != nil {
			log.Printf("Warning: Failed to start notification worker: %v", err)
		} else {
			log.Println("Notification worker started successfully")
		}
	}

	scheduledMessageWorker := service.NewScheduledMessageWorker(scheduledMessageRepo, notificationService)
	scheduledMessageWorker.Start()

	// Handlers
	authHandler := NewAuthHandler(authService, cfg.JWTSecret)
	friendshipHandler := NewFriendshipHandler(friendshipService)
	recapHandler := NewRecapHandler(recapService)
	postHandler := NewPostHandler(postService, cloudinaryClient)
	commentHandler := NewCommentHandler(commentService)
	reactionHandler := NewReactionHandler(reactionService)
	profileHandler := NewProfileHandler(profileService)
	notificationHandler := NewNotificationHandler(notificationService)
	announcementHandler := NewAnnouncementHandler(announcementService, wsHub)
	scheduledMessageHandler := NewScheduledMessageHandler(scheduledMessageService)

	// API routes
	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", authHandler.AuthMiddleware(), authHandler.GetMe)
		}

		users := api.Group("/users")
		users.Use(authHandler.AuthMiddleware())
		{
			users.GET("/search", authHandler.SearchUsers)
			users.GET("/username/:username", authHandler.GetUserByUsername)
		}

		profiles := api.Group("/profiles")
		profiles.Use(authHandler.AuthMiddleware())
		{
			profiles.GET("/me", profileHandler.GetMyProfile)
			profiles.PUT("/me", profileHandler.UpdateProfile)
			profiles.GET("/user/:userID", profileHandler.GetProfile)
		}

		friendships := api.Group("/friendships")
		friendships.Use(authHandler.AuthMiddleware())
		{
			friendships.POST("/requests", friendshipHandler.SendFriendRequest)
			friendships.GET("/requests", friendshipHandler.GetPendingRequests)
			friendships.DELETE("/requests/:toID", friendshipHandler.WithdrawFriendRequest)
			friendships.POST("/requests/:fromID/accept", friendshipHandler.AcceptFriendRequest)
			friendships.POST("/requests/:fromID/reject", friendshipHandler.RejectFriendRequest)
			friendships.GET("/friends", friendshipHandler.GetFriends)
			friendships.DELETE("/friends/:friendID", friendshipHandler.RemoveFriend)
			friendships.GET("/status/:userID", friendshipHandler.GetFriendshipStatus)
		}

		recaps := api.Group("/recaps")
		recaps.Use(authHandler.AuthMiddleware())
		{
			recaps.POST("", recapHandler.GenerateRecap)
			recaps.GET("", recapHandler.GetRecaps)
			recaps.GET("/latest", recapHandler.GetLatestRecap)
		}

		posts := api.Group("/posts")
		{
			posts.GET("/user/:userID", postHandler.GetPostsByUserID)
			posts.GET("/:id", postHandler.GetPost)

			posts.Use(authHandler.AuthMiddleware())
			{
				posts.POST("", postHandler.CreatePost)
				posts.POST("/upload", postHandler.CreatePostWithImages)
				posts.PUT("/:id", postHandler.UpdatePost)
				posts.DELETE("/:id", postHandler.DeletePost)
			}
		}

		comments := api.Group("/comments")
		{
			comments.GET("", commentHandler.GetCommentsByTarget)
			comments.GET("/count", commentHandler.GetCommentCount)
			comments.GET("/:id", commentHandler.GetComment)

			comments.Use(authHandler.AuthMiddleware())
			{
				comments.POST("", commentHandler.CreateComment)
				comments.PUT("/:id", commentHandler.UpdateComment)
				comments.DELETE("/:id", commentHandler.DeleteComment)
			}
		}

		reactions := api.Group("/reactions")
		{
			reactions.GET("", reactionHandler.GetReactionsByTarget)
			reactions.GET("/count", reactionHandler.GetReactionCount)

			reactions.Use(authHandler.AuthMiddleware())
			{
				reactions.POST("", reactionHandler.CreateReaction)
				reactions.PUT("/:id", reactionHandler.UpdateReaction)
				reactions.DELETE("/:id", reactionHandler.DeleteReaction)
			}
		}

		notifications := api.Group("/notifications")
		notifications.Use(authHandler.AuthMiddleware())
		{
			notifications.GET("", notificationHandler.GetNotifications)
			notifications.GET("/unread", notificationHandler.GetUnreadNotifications)
			notifications.GET("/unread/count", notificationHandler.GetUnreadCount)
			notifications.PUT("/:id/read", notificationHandler.MarkAsRead)
			notifications.PUT("/read-all", notificationHandler.MarkAllAsRead)
			notifications.DELETE("/:id", notificationHandler.DeleteNotification)
		}

		announcements := api.Group("/announcements")
		announcements.Use(authHandler.AuthMiddleware())
		{
			announcements.POST("", announcementHandler.CreateAnnouncement)
			announcements.GET("/user/:userID", announcementHandler.GetAnnouncements)
		}

		messages := api.Group("/messages")
		messages.Use(authHandler.AuthMiddleware())
		{
			messages.POST("", scheduledMessageHandler.ScheduleMessage)
			messages.GET("/sent", scheduledMessageHandler.GetScheduledMessages)
			messages.GET("/received", scheduledMessageHandler.GetReceivedMessages)
			messages.DELETE("/:id", scheduledMessageHandler.DeleteScheduledMessage)
		}
	}

	// WebSocket route
	r.GET("/ws", func(c *gin.Context) {
		websocket.ServeWS(wsHub, cfg.JWTSecret).ServeHTTP(c.Writer, c.Request)
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}

func initDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := cfg.DatabaseURL
	if dsn == "" {
		dsn = "host=" + cfg.PostgresHost +
			" port=" + cfg.PostgresPort +
			" user=" + cfg.PostgresUser +
			" password=" + cfg.PostgresPassword +
			" dbname=" + cfg.PostgresDB +
			" sslmode=" + cfg.PostgresSSLMode
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	return db, nil
}

// initRabbitMQWithRetry attempts to connect to RabbitMQ with exponential backoff retry
func initRabbitMQWithRetry(cfg *config.Config) *util.RabbitMQClient {
	maxRetries := 10
	initialDelay := 2 * time.Second
	maxDelay := 30 * time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		rabbitMQ, err := util.NewRabbitMQClient(cfg)
		if err == nil {
			log.Printf("RabbitMQ connected successfully on attempt %d", attempt)
			return rabbitMQ
		}

		if attempt < maxRetries {
			delay := initialDelay * time.Duration(1<<uint(attempt-1))
			if delay > maxDelay {
				delay = maxDelay
			}

			log.Printf("Failed to connect to RabbitMQ (attempt %d/%d): %v. Retrying in %v...", attempt, maxRetries, err, delay)
			time.Sleep(delay)
		} else {
			log.Printf("Warning: Failed to connect to RabbitMQ after %d attempts: %v. Async notification fan-out will be disabled.", maxRetries, err)
		}
	}

	return nil
}

// initRedisWithRetry attempts to connect to Redis with exponential backoff retry
func initRedisWithRetry(cfg *config.Config) *util.RedisClient {
	maxRetries := 10
	initialDelay := 2 * time.Second
	maxDelay := 30 * time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		redisClient, err := util.NewRedisClient(cfg)
		if err == nil {
			log.Printf("Redis connected successfully on attempt %d", attempt)
			return redisClient
		}

		if attempt < maxRetries {
			delay := initialDelay * time.Duration(1<<uint(attempt-1))
			if delay > maxDelay {
				delay = maxDelay
			}

			log.Printf("Failed to connect to Redis (attempt %d/%d): %v. Retrying in %v...", attempt, maxRetries, err, delay)
			time.Sleep(delay)
		} else {
			log.Printf("Warning: Failed to connect to Redis after %d attempts: %v. Caching will be disabled.", maxRetries, err)
		}
	}

	return nil
}

// fixPolymorphicConstraints drops foreign key constraints AutoMigrate may
// have created on polymorphic target_id columns, which can reference either
// posts or comments.
func fixPolymorphicConstraints(db *gorm.DB) {
	for _, table := range []string{"comments", "reactions"} {
		query := `
			SELECT constraint_name
			FROM information_schema.table_constraints
			WHERE table_name = ?
			AND constraint_type = 'FOREIGN KEY'
			AND constraint_name IN (
				SELECT constraint_name
				FROM information_schema.key_column_usage
				WHERE table_name = ?
				AND column_name = 'target_id'
			)
		`

		var constraints []struct {
			ConstraintName string `gorm:"column:constraint_name"`
		}

		if err := db.Raw(query, table, table).Scan(&constraints).Error; err != nil {
			log.Printf("Warning: Failed to query foreign key constraints on %s table: %v", table, err)
			continue
		}

		for _, constraint := range constraints {
			dropQuery := "ALTER TABLE " + table + " DROP CONSTRAINT IF EXISTS " + constraint.ConstraintName
			if err := db.Exec(dropQuery).Error; err != nil {
				log.Printf("Warning: Failed to drop constraint %s: %v", constraint.ConstraintName, err)
			} else {
				log.Printf("Dropped foreign key constraint: %s", constraint.ConstraintName)
			}
		}
	}
}

// ensureFriendshipIndexes enforces at most one pending friend request per
// unordered user pair in storage. AutoMigrate cannot express a partial
// expression index, so it is created here.
func ensureFriendshipIndexes(db *gorm.DB) {
	query := `
		CREATE UNIQUE INDEX IF NOT EXISTS idx_friend_requests_pending_pair
		ON friend_requests (LEAST(from_id, to_id), GREATEST(from_id, to_id))
		WHERE status = 'pending'
	`
	if err := db.Exec(query).Error; err != nil {
		log.Printf("Warning: Failed to create pending friend request index: %v", err)
	}
}

func corsMiddleware(clientURL string) gin.HandlerFunc {
	allowedOrigins := []string{
		clientURL,
		"http://localhost:3000",
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", clientURL)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
