package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/demand-analytics/internal/analytics"
	"github.com/spec-kit/demand-analytics/internal/api/dto"
	"github.com/spec-kit/demand-analytics/internal/auth"
	"github.com/spec-kit/demand-analytics/internal/domain"
	"github.com/spec-kit/demand-analytics/internal/service"
	apperrors "github.com/spec-kit/demand-analytics/pkg/util/errorutil"
)

const exportFilename = "demands.csv"

// ReportsHandler exposes the analytics report endpoints.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reports *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// General handles GET /reports/general.
func (h *ReportsHandler) General(c *fiber.Ctx) error {
	filters, err := h.filters(c)
	if err != nil {
		return err
	}
	report, err := h.reports.GenerateGeneralReport(c.UserContext(), filters)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}

// Unit handles GET /reports/units/:id.
func (h *ReportsHandler) Unit(c *fiber.Ctx) error {
	unitID := strings.TrimSpace(c.Params("id"))
	if scoped, ok := auth.ScopedUnit(c); ok && scoped != unitID {
		return apperrors.NewForbidden("unit outside token scope")
	}
	filters, err := h.filters(c)
	if err != nil {
		return err
	}
	report, err := h.reports.GenerateUnitReport(c.UserContext(), unitID, filters)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}

// Performance handles GET /reports/performance.
func (h *ReportsHandler) Performance(c *fiber.Ctx) error {
	filters, err := h.filters(c)
	if err != nil {
		return err
	}
	report, err := h.reports.GeneratePerformanceReport(c.UserContext(), filters)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}

// Neighborhoods handles GET /reports/neighborhoods.
func (h *ReportsHandler) Neighborhoods(c *fiber.Ctx) error {
	filters, err := h.filters(c)
	if err != nil {
		return err
	}
	report, err := h.reports.GenerateNeighborhoodReport(c.UserContext(), filters)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}

// Export handles GET /reports/export.csv.
func (h *ReportsHandler) Export(c *fiber.Ctx) error {
	filters, err := h.filters(c)
	if err != nil {
		return err
	}
	body, err := h.reports.ExportTabular(c.UserContext(), filters)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", exportFilename))
	return c.Send(body)
}

// Deadline handles GET /sla/deadline.
func (h *ReportsHandler) Deadline(c *fiber.Ctx) error {
	var q dto.DeadlineQuery
	if err := c.QueryParser(&q); err != nil {
		return apperrors.NewInvalidArgument("invalid query parameters", map[string]any{"reason": err.Error()})
	}
	if q.CreatedAt == "" {
		return apperrors.NewInvalidArgument("created_at required", nil)
	}
	createdAt, err := time.Parse(time.RFC3339, q.CreatedAt)
	if err != nil {
		return apperrors.NewInvalidArgument("invalid created_at", map[string]any{"created_at": q.CreatedAt})
	}

	deadline, err := h.reports.PreviewDeadline(createdAt, q.LeadDays)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.DeadlineResponse{
		CreatedAt: createdAt,
		LeadDays:  q.LeadDays,
		Deadline:  deadline,
	}})
}

// filters parses the query string and narrows it to the caller's unit when the token is unit scoped.
func (h *ReportsHandler) filters(c *fiber.Ctx) (domain.FilterCriteria, error) {
	var q dto.ReportQuery
	if err := c.QueryParser(&q); err != nil {
		return domain.FilterCriteria{}, apperrors.NewInvalidArgument("invalid query parameters", map[string]any{"reason": err.Error()})
	}
	filters, err := analytics.ParseFilter(q.FilterInput(), h.reports.Location())
	if err != nil {
		return domain.FilterCriteria{}, err
	}
	scoped, ok := auth.ScopedUnit(c)
	if !ok {
		return filters, nil
	}
	if filters.OrganizationalUnitID != nil && *filters.OrganizationalUnitID != scoped {
		return domain.FilterCriteria{}, apperrors.NewForbidden("unit outside token scope")
	}
	return filters.WithUnit(scoped), nil
}
