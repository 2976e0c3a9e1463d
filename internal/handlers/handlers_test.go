package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/jobmate-app/jobmate-be/internal/middleware"
	"github.com/jobmate-app/jobmate-be/internal/models"
	"github.com/jobmate-app/jobmate-be/internal/utils"
)

const testSecret = "test-secret-key"

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Job{},
		&models.Application{},
	))
	return db
}

// setupTestApp wires the full route table the way cmd/api does, minus
// redis (nil client disables the rate limiter) and OAuth.
func setupTestApp(db *gorm.DB) *fiber.App {
	app := fiber.New()

	authH := &AuthHandler{DB: db, JWTSecret: testSecret, Expires: 60}
	categoryH := NewCategoryHandler(db)
	jobH := NewJobHandler(db)
	applicationH := NewApplicationHandler(db)
	dashboardH := NewDashboardHandler(db)

	requireLogin := middleware.RequireLogin(testSecret)
	attachLocals := middleware.AttachJWTLocals()

	api := app.Group("/api")

	users := api.Group("/users")
	users.Post("/register", middleware.RateLimit(nil, 10, time.Minute, "auth"), authH.Register)
	users.Post("/login", middleware.RateLimit(nil, 10, time.Minute, "auth"), authH.Login)
	users.Post("/logout", authH.Logout)
	users.Get("/me", requireLogin, attachLocals, authH.Me)

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

	return app
}

// createUser inserts a user directly and returns it with a signed token.
func createUser(t *testing.T, db *gorm.DB, name, email string, role models.Role) (models.User, string) {
	t.Helper()

	hashed, err := utils.HashPassword("password123")
	require.NoError(t, err)

	u := models.User{Name: name, Email: email, Password: hashed, Role: role}
	require.NoError(t, db.Create(&u).Error)

	token, err := utils.SignJWT(testSecret, u.ID.String(), string(u.Role), 60)
	require.NoError(t, err)
	return u, token
}

func createCategory(t *testing.T, db *gorm.DB, name string) models.Category {
	t.Helper()
	cat := models.Category{Name: name}
	require.NoError(t, db.Create(&cat).Error)
	return cat
}

type jobSeed struct {
	Title       string
	Description string
	Category    uuid.UUID
	Client      uuid.UUID
	Skills      []string
	Budget      *float64
	Status      models.JobStatus
	CreatedAt   time.Time
}

func createJob(t *testing.T, db *gorm.DB, seed jobSeed) models.Job {
	t.Helper()

	if seed.Status == "" {
		seed.Status = models.JobStatusOpen
	}
	job := models.Job{
		Title:          seed.Title,
		Description:    seed.Description,
		ClientID:       seed.Client,
		CategoryID:     seed.Category,
		SkillsRequired: encodeSkills(seed.Skills),
		Budget:         seed.Budget,
		Status:         seed.Status,
	}
	require.NoError(t, db.Create(&job).Error)
	if !seed.CreatedAt.IsZero() {
		require.NoError(t, db.Model(&job).Update("created_at", seed.CreatedAt).Error)
		job.CreatedAt = seed.CreatedAt
	}
	return job
}

// doRequest performs an authenticated JSON request against the test app.
func doRequest(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("x-auth-token", token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func floatPtr(v float64) *float64 { return &v }
