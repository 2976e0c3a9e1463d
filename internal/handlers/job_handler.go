package handlers

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/jobmate-app/jobmate-be/internal/models"
)

type JobHandler struct {
	DB *gorm.DB
}

func NewJobHandler(db *gorm.DB) *JobHandler {
	return &JobHandler{DB: db}
}

type JobReq struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Category       string   `json:"category"`
	SkillsRequired []string `json:"skillsRequired"`
	Budget         *float64 `json:"budget"`
	Status         string   `json:"status"`
}

func encodeSkills(skills []string) datatypes.JSON {
	if skills == nil {
		skills = []string{}
	}
	b, _ := json.Marshal(skills)
	return datatypes.JSON(b)
}

// resolveCategory validates the category reference: syntactically valid
// uuid and an existing row. On failure the response has already been
// written and ok is false.
func (h *JobHandler) resolveCategory(c *fiber.Ctx, raw string) (uuid.UUID, bool) {
	catID, err := uuid.Parse(raw)
	if err != nil {
		_ = c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid category id",
		})
		return uuid.Nil, false
	}
	var category models.Category
	if err := h.DB.First(&category, "id = ?", catID).Error; err != nil {
		_ = c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Category not found",
		})
		return uuid.Nil, false
	}
	return catID, true
}

func (h *JobHandler) Create(c *fiber.Ctx) error {
	var req JobReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid body",
		})
	}

	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" || description == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "title and description are required",
		})
	}

	catID, ok := h.resolveCategory(c, req.Category)
	if !ok {
		return nil
	}

	uid := c.Locals("userId").(string)
	clientID, err := uuid.Parse(uid)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Token is not valid",
		})
	}

	job := models.Job{
		Title:          title,
		Description:    description,
		ClientID:       clientID,
		CategoryID:     catID,
		SkillsRequired: encodeSkills(req.SkillsRequired),
		Budget:         req.Budget,
		Status:         models.JobStatusOpen,
	}
	if err := h.DB.Create(&job).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(job)
}

func (h *JobHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var total int64
	if err := h.DB.Model(&models.Job{}).Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	var jobs []models.Job
	if err := h.DB.
		Preload("Client").
		Preload("Category").
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&jobs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"total":      total,
		"page":       page,
		"totalPages": int(math.Ceil(float64(total) / float64(limit))),
		"jobs":       jobs,
	})
}

func (h *JobHandler) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid job id",
		})
	}

	var job models.Job
	if err := h.DB.
		Preload("Client").
		Preload("Category").
		Preload("AssignedFreelancer").
		First(&job, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Job not found",
		})
	}

	return c.JSON(job)
}

func (h *JobHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid job id",
		})
	}

	var job models.Job
	if err := h.DB.First(&job, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Job not found",
		})
	}

	uid := c.Locals("userId").(string)
	if job.ClientID.String() != uid {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You can only update your own jobs",
		})
	}

	var req JobReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "invalid body",
		})
	}

	// Field-level partial update: only fields present in the request apply.
	if title := strings.TrimSpace(req.Title); title != "" {
		job.Title = title
	}
	if description := strings.TrimSpace(req.Description); description != "" {
		job.Description = description
	}
	if req.Category != "" {
		catID, ok := h.resolveCategory(c, req.Category)
		if !ok {
			return nil
		}
		job.CategoryID = catID
	}
	if req.SkillsRequired != nil {
		job.SkillsRequired = encodeSkills(req.SkillsRequired)
	}
	if req.Budget != nil {
		job.Budget = req.Budget
	}
	if req.Status != "" {
		status := models.JobStatus(req.Status)
		if !models.ValidJobStatus(status) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid status",
			})
		}
		job.Status = status
	}

	if err := h.DB.Save(&job).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	return c.JSON(job)
}

func (h *JobHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid job id",
		})
	}

	var job models.Job
	if err := h.DB.First(&job, "id = ?", id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Job not found",
		})
	}

	uid := c.Locals("userId").(string)
	if job.ClientID.String() != uid {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "You can only delete your own jobs",
		})
	}

	// Hard delete, applications are left in place.
	if err := h.DB.Delete(&job).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Job deleted successfully",
	})
}
