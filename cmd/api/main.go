package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"

	"github.com/jobmate-app/jobmate-be/internal/cache"
	"github.com/jobmate-app/jobmate-be/internal/config"
	"github.com/jobmate-app/jobmate-be/internal/db"
	"github.com/jobmate-app/jobmate-be/internal/handlers"
	"github.com/jobmate-app/jobmate-be/internal/middleware"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal(err)
	}

	rdb := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigin,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, x-auth-token",
		AllowCredentials: true,
	}))

	authH := &handlers.AuthHandler{
		DB:        gdb,
		JWTSecret: cfg.JWTSecret,
		Expires:   cfg.JWTExpiresMin,
	}
	googleH := &handlers.GoogleOAuthHandler{
		DB:              gdb,
		JWTSecret:       cfg.JWTSecret,
		Expires:         cfg.JWTExpiresMin,
		GoogleClientID:  cfg.GoogleClientID,
		GoogleSecret:    cfg.GoogleSecret,
		GoogleRedirect:  cfg.GoogleRedirect,
		FrontendBaseURL: cfg.FrontendBaseURL,
	}
	categoryH := handlers.NewCategoryHandler(gdb)
	jobH := handlers.NewJobHandler(gdb)
	applicationH := handlers.NewApplicationHandler(gdb)
	dashboardH := handlers.NewDashboardHandler(gdb)

	requireLogin := middleware.RequireLogin(cfg.JWTSecret)
	attachLocals := middleware.AttachJWTLocals()

	api := app.Group("/api")

	// public
	users := api.Group("/users")
	users.Post("/register", middleware.RateLimit(rdb, 10, time.Minute, "auth"), authH.Register)
	users.Post("/login", middleware.RateLimit(rdb, 10, time.Minute, "auth"), authH.Login)
	users.Post("/logout", authH.Logout)
	users.Get("/me", requireLogin, attachLocals, authH.Me)

	api.Get("/auth/google/start", googleH.GoogleStart)
	api.Get("/auth/google/callback", googleH.GoogleCallback)

	categories := api.Group("/categories")
	categories.Get("/", categoryH.List)
	categories.Get("/name/:name", categoryH.GetByName)
	categories.Post("/", requireLogin, attachLocals, categoryH.Create)
	categories.Put("/:id", requireLogin, attachLocals, categoryH.Update)
	categories.Delete("/:id", requireLogin, attachLocals, categoryH.Delete)

	jobs := api.Group("/jobs", requireLogin, attachLocals)
	jobs.Post("/", middleware.RequireRoles("client"), jobH.Create)
	jobs.Get("/", jobH.List)
	jobs.Get("/search", jobH.Search)
	jobs.Get("/:id", jobH.GetByID)
	jobs.Put("/:id", jobH.Update)
	jobs.Patch("/:id", jobH.Update)
	jobs.Delete("/:id", jobH.Delete)

	applications := api.Group("/applications", requireLogin, attachLocals)
	applications.Post("/apply", middleware.RequireRoles("freelancer"), applicationH.Apply)
	applications.Get("/job/:jobId", applicationH.ListByJob)
	applications.Get("/client/all", applicationH.ListForClient)
	applications.Get("/freelancer/applications", applicationH.ListForFreelancer)
	applications.Put("/:applicationId", applicationH.UpdateStatus)

	dashboard := api.Group("/dashboard")
	dashboard.Get("/client/:clientId", dashboardH.Client)
	dashboard.Get("/freelancer/:userId", dashboardH.Freelancer)

	log.Fatal(app.Listen(":" + cfg.AppPort))
}
