package router

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/respir-app/respir-api/config"
	"github.com/respir-app/respir-api/database"
	"github.com/respir-app/respir-api/handlers"
	admin_handlers "github.com/respir-app/respir-api/handlers/admin"
	catalog_handlers "github.com/respir-app/respir-api/handlers/catalog"
	course_handlers "github.com/respir-app/respir-api/handlers/course"
	progress_handlers "github.com/respir-app/respir-api/handlers/progress"
	"github.com/respir-app/respir-api/services"
	"github.com/respir-app/respir-api/services/storage"
	"github.com/respir-app/respir-api/utils"
	"github.com/respir-app/respir-api/utils/middleware"
	"gorm.io/gorm"
)

// Options carries the collaborators built at startup
type Options struct {
	Config *config.EnvironmentVariables
	// LimiterStorage backs the rate limiter; nil keeps counters in memory
	LimiterStorage fiber.Storage
	// AudioStore presigns ambience audio; nil when no bucket is configured
	AudioStore    *storage.AudioStore
	DisableLogger bool
}

func SetupRoutes(app *fiber.App, store database.Storage, opts Options) error {
	if opts.Config == nil {
		return errors.New("router: missing configuration")
	}
	env := opts.Config

	// Get DB instance (type assert from interface)
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return errors.New("router: storage does not expose a *gorm.DB")
	}

	if env.UsesDefaultAdminKey() {
		log.Warn("ADMIN_API_KEY is the default placeholder; set a real secret before exposing the API")
	}

	rateWindow := env.RATE_LIMIT_WINDOW
	if rateWindow <= 0 {
		rateWindow = time.Minute
	}
	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    env.ALLOWED_ORIGINS,
		RateLimitRequests: env.RATE_LIMIT_REQUESTS,
		RateLimitWindow:   rateWindow,
		LimiterStorage:    opts.LimiterStorage,
		DisableLogger:     opts.DisableLogger,
	})

	categoryHandler := catalog_handlers.NewCategoryHandler(db)
	levelHandler := catalog_handlers.NewLevelHandler(db)
	ambienceHandler := catalog_handlers.NewAmbienceHandler(db, opts.AudioStore)
	courseHandler := course_handlers.NewCourseHandler(db)
	progressHandler := progress_handlers.NewProgressHandler(db)
	logHandler := admin_handlers.NewLogHandler(db)

	requireAdmin := middleware.RequireAdmin(env.ADMIN_API_KEY)
	audit := func(action, resource string) fiber.Handler {
		return middleware.AdminAuditLog(db, action, resource)
	}
	identity := middleware.Identity(services.NewUserService(db))

	// Health check endpoint (public)
	app.Get("/health", utils.MakeHTTPHandleFunc(handlers.HandleCheckHealth, store))

	// Categories routes
	categories := app.Group("/categories")
	categories.Get("/", categoryHandler.ListCategories)
	categories.Get("/:id", categoryHandler.GetCategory)
	categories.Post("/", requireAdmin, audit("category_create", "categories"), categoryHandler.CreateCategory)
	categories.Put("/:id", requireAdmin, audit("category_update", "categories"), categoryHandler.UpdateCategory)
	categories.Patch("/:id", requireAdmin, audit("category_update", "categories"), categoryHandler.UpdateCategory)
	categories.Delete("/:id", requireAdmin, audit("category_delete", "categories"), categoryHandler.DeleteCategory)

	// Levels routes
	levels := app.Group("/levels")
	levels.Get("/", levelHandler.ListLevels)
	levels.Get("/:id", levelHandler.GetLevel)
	levels.Post("/", requireAdmin, audit("level_create", "levels"), levelHandler.CreateLevel)
	levels.Put("/:id", requireAdmin, audit("level_update", "levels"), levelHandler.UpdateLevel)
	levels.Patch("/:id", requireAdmin, audit("level_update", "levels"), levelHandler.UpdateLevel)
	levels.Delete("/:id", requireAdmin, audit("level_delete", "levels"), levelHandler.DeleteLevel)

	// Ambiances routes
	ambiances := app.Group("/ambiances")
	ambiances.Get("/", ambienceHandler.ListAmbiances)
	ambiances.Get("/:id", ambienceHandler.GetAmbience)
	ambiances.Get("/:id/audio", ambienceHandler.GetAmbienceAudio)
	ambiances.Post("/", requireAdmin, audit("ambience_create", "ambiances"), ambienceHandler.CreateAmbience)
	ambiances.Put("/:id", requireAdmin, audit("ambience_update", "ambiances"), ambienceHandler.UpdateAmbience)
	ambiances.Patch("/:id", requireAdmin, audit("ambience_update", "ambiances"), ambienceHandler.UpdateAmbience)
	ambiances.Delete("/:id", requireAdmin, audit("ambience_delete", "ambiances"), ambienceHandler.DeleteAmbience)

	// Courses routes
	courses := app.Group("/courses")
	courses.Get("/", courseHandler.ListCourses)
	courses.Get("/:id", courseHandler.GetCourse)
	courses.Post("/", requireAdmin, audit("course_create", "courses"), courseHandler.CreateCourse)
	courses.Put("/:id", requireAdmin, audit("course_update", "courses"), courseHandler.UpdateCourse)
	courses.Patch("/:id", requireAdmin, audit("course_update", "courses"), courseHandler.UpdateCourse)
	courses.Delete("/:id", requireAdmin, audit("course_delete", "courses"), courseHandler.DeleteCourse)

	// Sessions routes (nested under courses)
	sessions := courses.Group("/:id/sessions")
	sessions.Get("/", courseHandler.ListSessions)
	sessions.Post("/", requireAdmin, audit("session_create", "course_sessions"), courseHandler.CreateSession)
	sessions.Put("/:session_id", requireAdmin, audit("session_update", "course_sessions"), courseHandler.UpdateSession)
	sessions.Patch("/:session_id", requireAdmin, audit("session_update", "course_sessions"), courseHandler.UpdateSession)
	sessions.Delete("/:session_id", requireAdmin, audit("session_delete", "course_sessions"), courseHandler.DeleteSession)

	// Progress routes (caller identity required)
	progress := app.Group("/progress", identity)
	progress.Get("/me", progressHandler.ListMyProgress)
	progress.Post("/start", progressHandler.StartProgress)
	progress.Post("/courses/:course_id/log", progressHandler.LogCourseProgress)
	progress.Post("/courses/:course_id/complete", progressHandler.CompleteCourseProgress)
	progress.Get("/:id", progressHandler.GetProgress)
	progress.Post("/:id/log", progressHandler.LogProgress)
	progress.Post("/:id/complete", progressHandler.CompleteProgress)

	// Admin routes
	admin := app.Group("/admin", requireAdmin)
	admin.Get("/audit-logs", logHandler.ListAuditLogs)
	admin.Get("/cron-logs", logHandler.ListCronLogs)

	return nil
}
