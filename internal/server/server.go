package server

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/vuminhhieu/rent-house/backend/internal/database"
	"github.com/vuminhhieu/rent-house/backend/internal/handlers"
	"github.com/vuminhhieu/rent-house/backend/internal/mailer"
	"github.com/vuminhhieu/rent-house/backend/internal/middleware"
	"github.com/vuminhhieu/rent-house/backend/internal/storage"
)

type Server struct {
	db      database.Service
	rawDB   *database.Database
	rdb     *redis.Client
	handler *handlers.Handler
}

// NewServer creates and configures a new server
func NewServer() *http.Server {
	// Connectivity preflight on the raw driver before the ORM opens
	rawDB, err := database.NewDatabase()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	db := database.New()

	var uploads storage.Uploader
	if cld, err := storage.NewCloudinaryUploader(); err != nil {
		log.Printf("Object storage unavailable: %v", err)
	} else {
		uploads = cld
	}

	var rdb *redis.Client
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr})
	}

	newServer := &Server{
		db:      db,
		rawDB:   rawDB,
		rdb:     rdb,
		handler: handlers.NewHandler(db.GetDB(), mailer.NewSMTPMailer(), uploads),
	}

	router := newServer.RegisterRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // local dev fallback
	}

	server := &http.Server{
		Addr:         "0.0.0.0:" + port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("Server starting on port %s\n", port)

	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	gormDB := s.db.GetDB()
	authRequired := middleware.AuthRequired(gormDB)
	authOptional := middleware.AuthOptional(gormDB)
	accountLimit := middleware.RateLimit(s.rdb, 20, time.Minute)

	api := r.Group("/api")
	{
		account := api.Group("/account")
		{
			account.POST("/register", accountLimit, authOptional, s.handler.Auth.Register)
			account.POST("/login", accountLimit, s.handler.Auth.Login)
			account.POST("/google", accountLimit, s.handler.Auth.GoogleLogin)
			account.GET("/login/callback", authRequired, s.handler.Auth.Callback)
			account.POST("/logout", authRequired, s.handler.Auth.Logout)
		}

		users := api.Group("/users")
		{
			users.GET("/current_user", authRequired, s.handler.User.CurrentUser)
			users.GET("/count_user", authRequired, s.handler.User.CountUsers)
		}

		rental := api.Group("/rental_post")
		{
			// Reads are public; visibility depends on the optional viewer
			rental.GET("", authOptional, s.handler.RentalPost.GetRentalPosts)

			rental.POST("", authRequired, s.handler.RentalPost.CreateRentalPost)
			rental.PATCH("/change_post_status", authRequired, s.handler.RentalPost.ChangePostStatus)
			rental.POST("/save_post", authRequired, s.handler.RentalPost.SavePost)
			rental.GET("/saved_posts", authRequired, s.handler.RentalPost.SavedPosts)
			rental.GET("/:id", authOptional, s.handler.RentalPost.GetRentalPost)
			rental.PUT("/:id", authRequired, s.handler.RentalPost.UpdateRentalPost)
			rental.DELETE("/:id", authRequired, s.handler.RentalPost.DeleteRentalPost)
			rental.DELETE("/:id/delete_saved_post", authRequired, s.handler.RentalPost.DeleteSavedPost)
		}

		findRoom := api.Group("/find_room_post")
		{
			findRoom.GET("", s.handler.FindRoomPost.GetFindRoomPosts)
			findRoom.POST("", authRequired, s.handler.FindRoomPost.CreateFindRoomPost)
			findRoom.GET("/my_find_room_posts", authRequired, s.handler.FindRoomPost.MyFindRoomPosts)
			findRoom.GET("/:id", s.handler.FindRoomPost.GetFindRoomPost)
			findRoom.PUT("/:id", authRequired, s.handler.FindRoomPost.UpdateFindRoomPost)
			findRoom.DELETE("/:id", authRequired, s.handler.FindRoomPost.DeleteFindRoomPost)
		}

		comment := api.Group("/comment")
		{
			comment.POST("", authRequired, s.handler.Comment.CreateComment)
			comment.DELETE("/:id", authRequired, s.handler.Comment.DeleteComment)
		}

		follow := api.Group("/follow")
		{
			follow.POST("", authRequired, s.handler.Follow.Follow)
			follow.POST("/unfollow", authRequired, s.handler.Follow.Unfollow)
			follow.GET("/following", authRequired, s.handler.Follow.Following)
			follow.GET("/count_follower", authRequired, s.handler.Follow.CountFollowers)
		}

		api.POST("/image", authRequired, s.handler.Image.Upload)
	}

	return r
}
