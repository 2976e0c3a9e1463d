package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jobmate-app/jobmate-be/internal/models"
)

type ApplicationHandler struct {
	DB *gorm.DB
}

func NewApplicationHandler(db *gorm.DB) *ApplicationHandler {
	return &ApplicationHandler{DB: db}
}

type ApplyReq struct {
	JobID       string `json:"jobId"`
	CoverLetter string `json:"coverLetter"`
}

func (h *ApplicationHandler) Apply(c *fiber.Ctx) error {
	var req ApplyReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid body",
		})
	}

	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid job id",
		})
	}

	var job models.Job
	if err := h.DB.First(&job, "id = ?", jobID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Job not found",
		})
	}

	uid := c.Locals("userId").(string)
	freelancerID, err := uuid.Parse(uid)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Token is not valid",
		})
	}

	var existing models.Application
	if err := h.DB.Where("job_id = ? AND freelancer_id = ?", jobID, freelancerID).
		First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "You already applied to this job",
		})
	} else if err != gorm.ErrRecordNotFound {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	application := models.Application{
		JobID:        jobID,
		FreelancerID: freelancerID,
		Status:       models.ApplicationApplied,
		CoverLetter:  strings.TrimSpace(req.CoverLetter),
	}
	if err := h.DB.Create(&application).Error; err != nil {
		// The composite unique index backstops concurrent duplicates.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "You already applied to this job",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(application)
}

func (h *ApplicationHandler) ListByJob(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("jobId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid job id",
		})
	}

	var job models.Job
	if err := h.DB.First(&job, "id = ?", jobID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Job not found",
		})
	}

	uid := c.Locals("userId").(string)
	if job.ClientID.String() != uid {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You can only view applications for your own jobs",
		})
	}

	var applications []models.Application
	if err := h.DB.
		Preload("Freelancer").
		Where("job_id = ?", jobID).
		Find(&applications).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	return c.JSON(applications)
}

type UpdateStatusReq struct {
	Status string `json:"status"`
}

func (h *ApplicationHandler) UpdateStatus(c *fiber.Ctx) error {
	appID, err := uuid.Parse(c.Params("applicationId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid application id",
		})
	}

	var req UpdateStatusReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid body",
		})
	}

	var application models.Application
	if err := h.DB.Preload("Job").First(&application, "id = ?", appID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Application not found",
		})
	}

	uid := c.Locals("userId").(string)
	if application.Job == nil || application.Job.ClientID.String() != uid {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You can only update applications for your own jobs",
		})
	}

	status := models.ApplicationStatus(req.Status)
	if status != models.ApplicationAccepted && status != models.ApplicationRejected {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid status",
		})
	}

	application.Status = status
	if err := h.DB.Save(&application).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	return c.JSON(application)
}

// ListForClient returns every application across all of the caller's jobs.
func (h *ApplicationHandler) ListForClient(c *fiber.Ctx) error {
	uid := c.Locals("userId").(string)

	var applications []models.Application
	if err := h.DB.
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Where("jobs.client_id = ?", uid).
		Preload("Freelancer").
		Preload("Job").
		Order("applications.created_at DESC").
		Find(&applications).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	return c.JSON(applications)
}

// ListForFreelancer returns the caller's own submissions.
func (h *ApplicationHandler) ListForFreelancer(c *fiber.Ctx) error {
	uid := c.Locals("userId").(string)

	var applications []models.Application
	if err := h.DB.
		Preload("Job").
		Preload("Job.Category").
		Where("freelancer_id = ?", uid).
		Order("created_at DESC").
		Find(&applications).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	return c.JSON(applications)
}
