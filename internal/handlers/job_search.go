package handlers

import (
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jobmate-app/jobmate-be/internal/models"
)

// searchParams carries the decoded filter set. All filters are optional
// and compose conjunctively.
type searchParams struct {
	Keyword   string
	Category  *uuid.UUID
	Skills    []string
	MinBudget *float64
	MaxBudget *float64
	Status    string
	ClientID  *uuid.UUID
	Sort      string
	Page      int
	Limit     int
}

func parseSearchParams(c *fiber.Ctx) (searchParams, bool) {
	p := searchParams{
		Keyword: strings.TrimSpace(c.Query("keyword")),
		Status:  strings.TrimSpace(c.Query("status")),
		Sort:    c.Query("sort", "newest"),
		Page:    c.QueryInt("page", 1),
		Limit:   c.QueryInt("limit", 10),
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}

	switch p.Sort {
	case "newest", "oldest", "highestBudget", "lowestBudget":
	default:
		p.Sort = "newest"
	}

	// A malformed category id is not an error: the original behaviour is
	// an empty result set.
	if raw := c.Query("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return p, false
		}
		p.Category = &id
	}
	// A malformed clientId simply imposes no constraint.
	if raw := c.Query("clientId"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			p.ClientID = &id
		}
	}

	if raw := c.Query("skills"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				p.Skills = append(p.Skills, s)
			}
		}
	}

	if raw := c.Query("minBudget"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			p.MinBudget = &v
		}
	}
	if raw := c.Query("maxBudget"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			p.MaxBudget = &v
		}
	}

	return p, true
}

// applyFilters appends every supplied constraint to q. Absent parameters
// add nothing.
func applyFilters(q *gorm.DB, p searchParams) *gorm.DB {
	if p.Keyword != "" {
		kw := "%" + strings.ToLower(p.Keyword) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", kw, kw)
	}
	if p.Category != nil {
		q = q.Where("category_id = ?", *p.Category)
	}
	if p.ClientID != nil {
		q = q.Where("client_id = ?", *p.ClientID)
	}
	// All requested skills must be present (superset match against the
	// JSON-encoded skill array). The cast is required on Postgres, where
	// the column is jsonb and has no LIKE operator.
	for _, skill := range p.Skills {
		q = q.Where("CAST(skills_required AS TEXT) LIKE ?", `%"`+skill+`"%`)
	}
	// A null budget never matches a budget-bounded search.
	if p.MinBudget != nil || p.MaxBudget != nil {
		q = q.Where("budget IS NOT NULL")
	}
	if p.MinBudget != nil {
		q = q.Where("budget >= ?", *p.MinBudget)
	}
	if p.MaxBudget != nil {
		q = q.Where("budget <= ?", *p.MaxBudget)
	}
	if p.Status != "" {
		q = q.Where("status = ?", p.Status)
	}
	return q
}

func sortOrder(sort string) string {
	switch sort {
	case "oldest":
		return "created_at ASC"
	// Null budgets always sort as the cheapest; Postgres would otherwise
	// put them first under DESC.
	case "highestBudget":
		return "budget DESC NULLS LAST"
	case "lowestBudget":
		return "budget ASC NULLS FIRST"
	default:
		return "created_at DESC"
	}
}

func (h *JobHandler) Search(c *fiber.Ctx) error {
	p, ok := parseSearchParams(c)
	if !ok {
		return c.JSON(fiber.Map{
			"total":      0,
			"page":       p.Page,
			"totalPages": 0,
			"sort":       p.Sort,
			"jobs":       []models.Job{},
		})
	}

	var total int64
	if err := applyFilters(h.DB.Model(&models.Job{}), p).Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	var jobs []models.Job
	if err := applyFilters(h.DB.Model(&models.Job{}), p).
		Preload("Client").
		Preload("Category").
		Order(sortOrder(p.Sort)).
		Limit(p.Limit).
		Offset((p.Page - 1) * p.Limit).
		Find(&jobs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"total":      total,
		"page":       p.Page,
		"totalPages": int(math.Ceil(float64(total) / float64(p.Limit))),
		"sort":       p.Sort,
		"jobs":       jobs,
	})
}
