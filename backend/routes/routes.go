package routes

import (
	"germanlearn/backend/ai"
	"germanlearn/backend/config"
	"germanlearn/backend/controllers"
	"germanlearn/backend/middleware"
	"germanlearn/backend/repository"
	"germanlearn/backend/services"
	"germanlearn/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

// Services bundles what the handlers need beyond the database.
type Services struct {
	Progress   *services.ProgressService
	Tutor      *services.TutorService
	Translator *ai.Translator
	Sentences  *ai.SentenceGenerator
	Log        *utils.Logger
}

// NewServices wires the GORM stores and the model gateway. cache may be nil.
func NewServices(db *gorm.DB, cfg *config.Config, oracle ai.Oracle, cache ai.Cache, log *utils.Logger) *Services {
	return &Services{
		Progress:   services.NewProgressService(repository.NewProgressRepository(db), log),
		Tutor:      services.NewTutorService(repository.NewChatRepository(db), oracle, log),
		Translator: ai.NewTranslator(oracle, cache, cfg.TranslationCacheTTL, log),
		Sentences:  ai.NewSentenceGenerator(oracle, log),
		Log:        log,
	}
}

// NewApp builds the Fiber application with the shared middleware stack and
// every route mounted.
func NewApp(db *gorm.DB, cfg *config.Config, svc *Services) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "german-learning",
		ErrorHandler: utils.ErrorHandler(svc.Log),
		BodyLimit:    12 << 20,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSAllowOrigin,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(svc.Log))

	SetupRoutes(app, db, cfg, svc)
	return app
}

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, svc *Services) {
	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	authMiddleware := middleware.AuthMiddleware(cfg)

	// Auth routes
	authController := controllers.NewAuthController(db, cfg, svc.Log)
	api.Post("/auth/register", authController.Register)
	api.Post("/auth/login", authController.Login)
	api.Post("/auth/token/refresh", authController.RefreshToken)

	// User routes
	userController := controllers.NewUserController(db, cfg, svc.Progress)
	api.Get("/auth/profile", authMiddleware, userController.GetProfile)
	api.Put("/auth/profile", authMiddleware, userController.UpdateProfile)
	api.Patch("/auth/profile", authMiddleware, userController.UpdateProfile)
	api.Get("/auth/stats", authMiddleware, userController.GetStats)

	// Courses routes
	coursesController := controllers.NewCoursesController(db, cfg)
	courses := api.Group("/courses")
	courses.Get("/", coursesController.ListCourses)
	courses.Get("/modules/:id", coursesController.GetModule)
	courses.Get("/:id", coursesController.GetCourse)

	// Lessons routes
	lessonsController := controllers.NewLessonsController(db, cfg, svc.Progress)
	lessons := api.Group("/lessons", authMiddleware)
	lessons.Get("/", lessonsController.ListLessons)
	lessons.Post("/exercises/submit", lessonsController.SubmitExercise)
	lessons.Get("/:id", lessonsController.GetLesson)
	lessons.Post("/:id/complete", lessonsController.CompleteLesson)

	// Progress routes
	progressController := controllers.NewProgressController(db, cfg, svc.Progress)
	progress := api.Group("/progress", authMiddleware)
	progress.Get("/", progressController.ListProgress)
	progress.Post("/", progressController.RecordProgress)
	progress.Get("/streak", progressController.GetStreak)
	progress.Get("/achievements", progressController.ListAchievements)
	progress.Get("/dashboard", progressController.GetDashboard)
	progress.Get("/:id", progressController.GetProgress)

	// Chat routes
	chatController := controllers.NewChatController(db, cfg, svc.Tutor)
	chat := api.Group("/chat", authMiddleware)
	chat.Post("/send", chatController.SendMessage)
	chat.Get("/sessions", chatController.ListSessions)
	chat.Post("/sessions", chatController.CreateSession)
	chat.Delete("/sessions/:id/clear", chatController.ClearSession)
	chat.Get("/sessions/:id", chatController.GetSession)
	chat.Put("/sessions/:id", chatController.UpdateSession)
	chat.Patch("/sessions/:id", chatController.UpdateSession)
	chat.Delete("/sessions/:id", chatController.DeleteSession)

	// AI routes
	aiController := controllers.NewAIController(db, cfg, svc.Translator, svc.Sentences, svc.Log)
	aiGroup := api.Group("/ai", authMiddleware)
	aiGroup.Post("/translate", aiController.Translate)
	aiGroup.Post("/generate-sentences", aiController.GenerateSentences)
	aiGroup.Post("/speech-to-text", aiController.SpeechToText)
	aiGroup.Post("/text-to-speech", aiController.TextToSpeech)
	aiGroup.Post("/pronunciation", aiController.CheckPronunciation)
}
