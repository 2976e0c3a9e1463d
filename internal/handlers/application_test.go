package handlers

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jobmate-app/jobmate-be/internal/models"
)

// The composite unique index on (job_id, freelancer_id) must surface as a
// duplicated-key error, so Apply can 409 on the race and 500 on anything
// else.
func TestApplicationPairUniqueAtStoreLevel(t *testing.T) {
	db := setupTestDB(t)

	client, _ := createUser(t, db, "Alice", "alice@example.com", models.RoleClient)
	freelancer, _ := createUser(t, db, "Bob", "bob@example.com", models.RoleFreelancer)
	cat := createCategory(t, db, "Web Development")
	job := createJob(t, db, jobSeed{
		Title: "Build it", Description: "desc", Category: cat.ID, Client: client.ID,
	})

	first := models.Application{JobID: job.ID, FreelancerID: freelancer.ID, Status: models.ApplicationApplied}
	require.NoError(t, db.Create(&first).Error)

	dup := models.Application{JobID: job.ID, FreelancerID: freelancer.ID, Status: models.ApplicationApplied}
	require.ErrorIs(t, db.Create(&dup).Error, gorm.ErrDuplicatedKey)
}

func TestApply(t *testing.T) {
	db := setupTestDB(t)
	app := setupTestApp(db)

	client, clientToken := createUser(t, db, "Alice", "alice@example.com", models.RoleClient)
	_, freelancerToken := createUser(t, db, "Bob", "bob@example.com", models.RoleFreelancer)
	cat := createCategory(t, db, "Web Development")
	job := createJob(t, db, jobSeed{
		Title: "Build it", Description: "desc", Category: cat.ID, Client: client.ID,
	})

	t.Run("client cannot apply", func(t *testing.T) {
		resp := doRequest(t, app, "POST", "/api/applications/apply", clientToken,
			map[string]any{"jobId": job.ID.String()})
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("unknown job", func(t *testing.T) {
		resp := doRequest(t, app, "POST", "/api/applications/apply", freelancerToken,
			map[string]any{"jobId": "00000000-0000-0000-0000-000000000001"})
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("first apply succeeds, second conflicts", func(t *testing.T) {
		resp := doRequest(t, app, "POST", "/api/applications/apply", freelancerToken,
			map[string]any{"jobId": job.ID.String(), "coverLetter": "hi"})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)

		var created models.Application
		decodeBody(t, resp, &created)
		assert.Equal(t, models.ApplicationApplied, created.Status)
		assert.Equal(t, "hi", created.CoverLetter)
		assert.False(t, created.SubmittedAt.IsZero())

		resp = doRequest(t, app, "POST", "/api/applications/apply", freelancerToken,
			map[string]any{"jobId": job.ID.String()})
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})
}

func TestListByJobOwnership(t *testing.T) {
	db := setupTestDB(t)
	app := setupTestApp(db)

	client, clientToken := createUser(t, db, "Alice", "alice@example.com", models.RoleClient)
	_, otherToken := createUser(t, db, "Eve", "eve@example.com", models.RoleClient)
	freelancer, freelancerToken := createUser(t, db, "Bob", "bob@example.com", models.RoleFreelancer)
	cat := createCategory(t, db, "Web Development")
	job := createJob(t, db, jobSeed{
		Title: "Build it", Description: "desc", Category: cat.ID, Client: client.ID,
	})

	resp := doRequest(t, app, "POST", "/api/applications/apply", freelancerToken,
		map[string]any{"jobId": job.ID.String()})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	path := "/api/applications/job/" + job.ID.String()

	t.Run("other client forbidden", func(t *testing.T) {
		resp := doRequest(t, app, "GET", path, otherToken, nil)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("owner sees applications with freelancer expanded", func(t *testing.T) {
		resp := doRequest(t, app, "GET", path, clientToken, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var apps []models.Application
		decodeBody(t, resp, &apps)
		require.Len(t, apps, 1)
		require.NotNil(t, apps[0].Freelancer)
		assert.Equal(t, freelancer.ID, apps[0].Freelancer.ID)
	})
}

func TestUpdateApplicationStatus(t *testing.T) {
	db := setupTestDB(t)
	app := setupTestApp(db)

	client, clientToken := createUser(t, db, "Alice", "alice@example.com", models.RoleClient)
	_, otherToken := createUser(t, db, "Eve", "eve@example.com", models.RoleClient)
	_, freelancerToken := createUser(t, db, "Bob", "bob@example.com", models.RoleFreelancer)
	cat := createCategory(t, db, "Web Development")
	job := createJob(t, db, jobSeed{
		Title: "Build it", Description: "desc", Category: cat.ID, Client: client.ID,
	})

	resp := doRequest(t, app, "POST", "/api/applications/apply", freelancerToken,
		map[string]any{"jobId": job.ID.String()})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var application models.Application
	decodeBody(t, resp, &application)

	path := "/api/applications/" + application.ID.String()

	t.Run("only the job owner may decide", func(t *testing.T) {
		resp := doRequest(t, app, "PUT", path, otherToken, map[string]any{"status": "accepted"})
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("status outside accepted/rejected is rejected", func(t *testing.T) {
		for _, status := range []string{"applied", "open", "withdrawn", ""} {
			resp := doRequest(t, app, "PUT", path, clientToken, map[string]any{"status": status})
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "status %q", status)
		}
	})

	t.Run("accept persists", func(t *testing.T) {
		resp := doRequest(t, app, "PUT", path, clientToken, map[string]any{"status": "accepted"})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var updated models.Application
		decodeBody(t, resp, &updated)
		assert.Equal(t, models.ApplicationAccepted, updated.Status)
	})
}

func TestApplicationListings(t *testing.T) {
	db := setupTestDB(t)
	app := setupTestApp(db)

	client, clientToken := createUser(t, db, "Alice", "alice@example.com", models.RoleClient)
	_, freelancerToken := createUser(t, db, "Bob", "bob@example.com", models.RoleFreelancer)
	_, freelancer2Token := createUser(t, db, "Cara", "cara@example.com", models.RoleFreelancer)
	cat := createCategory(t, db, "Web Development")

	jobA := createJob(t, db, jobSeed{
		Title: "Job A", Description: "desc", Category: cat.ID, Client: client.ID,
	})
	jobB := createJob(t, db, jobSeed{
		Title: "Job B", Description: "desc", Category: cat.ID, Client: client.ID,
	})

	for _, tc := range []struct {
		token string
		jobID string
	}{
		{freelancerToken, jobA.ID.String()},
		{freelancerToken, jobB.ID.String()},
		{freelancer2Token, jobA.ID.String()},
	} {
		resp := doRequest(t, app, "POST", "/api/applications/apply", tc.token,
			map[string]any{"jobId": tc.jobID})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	t.Run("client sees all applications across own jobs", func(t *testing.T) {
		resp := doRequest(t, app, "GET", "/api/applications/client/all", clientToken, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var apps []models.Application
		decodeBody(t, resp, &apps)
		assert.Len(t, apps, 3)
	})

	t.Run("freelancer sees only own submissions", func(t *testing.T) {
		resp := doRequest(t, app, "GET", "/api/applications/freelancer/applications", freelancerToken, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var apps []models.Application
		decodeBody(t, resp, &apps)
		require.Len(t, apps, 2)
		for _, a := range apps {
			require.NotNil(t, a.Job)
		}
	})
}
