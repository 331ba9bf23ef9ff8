package report

import (
	"fmt"
	"net/http"
	"time"

	"oklok/internal/shared/apperror"
	"oklok/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Weekly(c *gin.Context) {
	tenantID := c.GetString("tenant_id")

	// Absent weekStart stays zero and the service resolves it to the
	// Monday of the current tenant-local week.
	var weekStart time.Time
	if v := c.Query("weekStart"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "weekStart must be YYYY-MM-DD", nil)
			return
		}
		weekStart = parsed
	}

	resp, err := h.service.WeeklyReport(c.Request.Context(), tenantID, weekStart)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Dashboard(c *gin.Context) {
	tenantID := c.GetString("tenant_id")

	resp, err := h.service.DashboardStats(c.Request.Context(), tenantID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ExportTimeEntries(c *gin.Context) {
	tenantID := c.GetString("tenant_id")

	var filter ExportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	rows, err := h.service.PayrollRows(c.Request.Context(), tenantID, filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	stamp := time.Now().UTC().Format("20060102")

	switch filter.Format {
	case "xlsx":
		payload, err := WriteXLSX(rows)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="time-entries-%s.xlsx"`, stamp))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", payload)
	default:
		payload, err := WriteCSV(rows)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="time-entries-%s.csv"`, stamp))
		c.Data(http.StatusOK, "text/csv", payload)
	}
}
