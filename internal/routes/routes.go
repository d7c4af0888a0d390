package routes

import (
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Rohit-NITW/harmony-backend/internal/config"
	"github.com/Rohit-NITW/harmony-backend/internal/handlers"
	"github.com/Rohit-NITW/harmony-backend/internal/middleware"
	"github.com/Rohit-NITW/harmony-backend/internal/notify"
	"github.com/Rohit-NITW/harmony-backend/internal/repository"
	"github.com/Rohit-NITW/harmony-backend/internal/services"
	chatws "github.com/Rohit-NITW/harmony-backend/internal/websocket"
)

func RegisterRoutes(
	app *fiber.App,
	cfg *config.Config,
	db *pgxpool.Pool,
	log *zap.Logger,
	notifier notify.Notifier,
) {
	userRepo := repository.NewUserRepository(db)
	mentorRepo := repository.NewMentorRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	resourceRepo := repository.NewResourceRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	bookingService := services.NewBookingService(
		db,
		bookingRepo,
		mentorRepo,
		userRepo,
		notifier,
		log,
		cfg.GroupSessionCapacity,
	)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	mentorHandler := handlers.NewMentorHandler(mentorRepo)
	resourceHandler := handlers.NewResourceHandler(resourceRepo)
	assessmentHandler := handlers.NewAssessmentHandler(assessmentRepo)

	chatHub := chatws.NewHub()
	go chatHub.Run()
	chatService := services.NewChatService(db, conversationRepo, messageRepo, userRepo)
	chatHandler := handlers.NewChatHandler(chatService, chatHub, cfg.JWTSecret)

	bookingLimiter := middleware.NewRateLimiter(cfg.BookingRatePerMinute, cfg.BookingRateBurst)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Crisis material stays reachable without a token.
	api.Get("/crisis-resources", resourceHandler.ListCrisisResources)

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	bookings := authProtected.Group("/bookings")
	bookings.Post("", middleware.RateLimit(bookingLimiter), bookingHandler.CreateBooking)
	bookings.Get("", bookingHandler.ListBookings)
	bookings.Get("/availability", bookingHandler.GetAvailability)
	bookings.Get("/:id", bookingHandler.GetBooking)
	bookings.Put("/:id/status", bookingHandler.UpdateStatus)

	mentors := authProtected.Group("/mentors")
	mentors.Get("", mentorHandler.ListMentors)
	mentors.Put("/profile", mentorHandler.UpdateMyProfile)
	mentors.Get("/:id", mentorHandler.GetMentor)

	resources := authProtected.Group("/resources")
	resources.Get("", resourceHandler.ListResources)
	resources.Post("", resourceHandler.CreateResource)
	resources.Get("/:id", resourceHandler.GetResource)
	resources.Put("/:id", resourceHandler.UpdateResource)

	assessments := authProtected.Group("/assessments")
	assessments.Post("", assessmentHandler.SubmitAssessment)
	assessments.Get("", assessmentHandler.ListMyAssessments)

	authProtected.Get("/volunteers", chatHandler.ListVolunteers)

	conversations := authProtected.Group("/conversations")
	conversations.Get("", chatHandler.ListConversations)
	conversations.Post("", chatHandler.CreateConversation)
	conversations.Get("/:id/messages", chatHandler.GetMessages)

	api.Use("/v1/ws", chatHandler.WebSocketAuth)
	api.Get("/v1/ws", websocket.New(chatHandler.HandleWebSocket))
}
