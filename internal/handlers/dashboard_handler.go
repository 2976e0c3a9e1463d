package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jobmate-app/jobmate-be/internal/models"
)

type DashboardHandler struct {
	DB *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{DB: db}
}

func (h *DashboardHandler) countJobs(clientID uuid.UUID, status models.JobStatus) int64 {
	var n int64
	q := h.DB.Model(&models.Job{}).Where("client_id = ?", clientID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	q.Count(&n)
	return n
}

// Client returns the job and application rollup for one client. Every
// aggregate is recomputed from the live store.
func (h *DashboardHandler) Client(c *fiber.Ctx) error {
	clientID, err := uuid.Parse(c.Params("clientId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid clientId",
		})
	}

	totalJobs := h.countJobs(clientID, "")
	openJobs := h.countJobs(clientID, models.JobStatusOpen)
	inProgressJobs := h.countJobs(clientID, models.JobStatusInProgress)
	completedJobs := h.countJobs(clientID, models.JobStatusCompleted)

	var totalApplications int64
	h.DB.Table("applications").
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Where("jobs.client_id = ?", clientID).
		Count(&totalApplications)

	// Top 5 owned jobs by received-application count.
	type topJobRow struct {
		JobID    uuid.UUID
		AppCount int64
	}
	var topRows []topJobRow
	if err := h.DB.Table("applications").
		Select("applications.job_id AS job_id, COUNT(*) AS app_count").
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Where("jobs.client_id = ?", clientID).
		Group("applications.job_id").
		Order("app_count DESC").
		Limit(5).
		Scan(&topRows).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	topJobs := make([]fiber.Map, 0, len(topRows))
	for _, row := range topRows {
		var job models.Job
		if err := h.DB.Preload("Category").First(&job, "id = ?", row.JobID).Error; err != nil {
			continue
		}
		topJobs = append(topJobs, fiber.Map{
			"job":   job,
			"count": row.AppCount,
		})
	}

	var latest []models.Application
	if err := h.DB.
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Where("jobs.client_id = ?", clientID).
		Preload("Freelancer").
		Preload("Job").
		Order("applications.created_at DESC").
		Limit(10).
		Find(&latest).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	latestApplications := make([]fiber.Map, 0, len(latest))
	for _, a := range latest {
		item := fiber.Map{
			"id":          a.ID,
			"status":      a.Status,
			"coverLetter": a.CoverLetter,
			"submittedAt": a.SubmittedAt,
		}
		if a.Freelancer != nil {
			item["freelancer"] = fiber.Map{
				"id":    a.Freelancer.ID,
				"name":  a.Freelancer.Name,
				"email": a.Freelancer.Email,
			}
		}
		if a.Job != nil {
			item["job"] = fiber.Map{
				"id":    a.Job.ID,
				"title": a.Job.Title,
			}
		}
		latestApplications = append(latestApplications, item)
	}

	return c.JSON(fiber.Map{
		"summary": fiber.Map{
			"totalJobs":         totalJobs,
			"openJobs":          openJobs,
			"inProgressJobs":    inProgressJobs,
			"completedJobs":     completedJobs,
			"totalApplications": totalApplications,
		},
		"topJobs":            topJobs,
		"latestApplications": latestApplications,
	})
}

func (h *DashboardHandler) countApplications(userID uuid.UUID, status models.ApplicationStatus) int64 {
	var n int64
	q := h.DB.Model(&models.Application{}).Where("freelancer_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	q.Count(&n)
	return n
}

// Freelancer returns the application rollup plus job recommendations drawn
// from the caller's most-applied-to category.
func (h *DashboardHandler) Freelancer(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid userId",
		})
	}

	totalApplied := h.countApplications(userID, "")
	pending := h.countApplications(userID, models.ApplicationApplied)
	accepted := h.countApplications(userID, models.ApplicationAccepted)
	rejected := h.countApplications(userID, models.ApplicationRejected)

	var latest []models.Application
	if err := h.DB.
		Preload("Job").
		Preload("Job.Category").
		Where("freelancer_id = ?", userID).
		Order("created_at DESC").
		Limit(10).
		Find(&latest).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	latestApplications := make([]fiber.Map, 0, len(latest))
	for _, a := range latest {
		item := fiber.Map{
			"id":          a.ID,
			"status":      a.Status,
			"submittedAt": a.SubmittedAt,
		}
		if a.Job != nil {
			job := fiber.Map{
				"id":    a.Job.ID,
				"title": a.Job.Title,
			}
			if a.Job.Category != nil {
				job["category"] = fiber.Map{
					"id":   a.Job.Category.ID,
					"name": a.Job.Category.Name,
				}
			}
			item["job"] = job
		}
		latestApplications = append(latestApplications, item)
	}

	// Single most-applied-to category; up to 5 open jobs in it become
	// recommendations.
	type topCategoryRow struct {
		CategoryID uuid.UUID
		AppCount   int64
	}
	var top topCategoryRow
	h.DB.Table("applications").
		Select("jobs.category_id AS category_id, COUNT(*) AS app_count").
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Where("applications.freelancer_id = ?", userID).
		Group("jobs.category_id").
		Order("app_count DESC").
		Limit(1).
		Scan(&top)

	recommendedJobs := []models.Job{}
	if top.AppCount > 0 {
		if err := h.DB.
			Preload("Client").
			Preload("Category").
			Where("category_id = ? AND status = ?", top.CategoryID, models.JobStatusOpen).
			Order("created_at DESC").
			Limit(5).
			Find(&recommendedJobs).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": err.Error(),
			})
		}
	}

	return c.JSON(fiber.Map{
		"summary": fiber.Map{
			"totalApplied": totalApplied,
			"pending":      pending,
			"accepted":     accepted,
			"rejected":     rejected,
		},
		"latestApplications": latestApplications,
		"recommendedJobs":    recommendedJobs,
	})
}
