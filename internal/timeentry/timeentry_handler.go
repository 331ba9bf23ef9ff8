package timeentry

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"oklok/internal/rbac"
	"oklok/internal/shared/apperror"
	"oklok/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	service Service
	rbac    rbac.Service
	rdb     *redis.Client
}

func NewHandler(service Service, rbacService rbac.Service) *Handler {
	return &Handler{service: service, rbac: rbacService}
}

func NewHandlerWithRedis(service Service, rbacService rbac.Service, rdb *redis.Client) *Handler {
	return &Handler{service: service, rbac: rbacService, rdb: rdb}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// finishIdempotent releases the idempotency lock and caches the
// successful response for replay.
func (h *Handler) finishIdempotent(c *gin.Context, resp any) {
	if h.rdb == nil {
		return
	}
	if lk, ok := c.Get("idempotency_lock_key"); ok {
		if key, ok := lk.(string); ok && key != "" {
			h.rdb.Del(c.Request.Context(), key)
		}
	}
	if resp == nil {
		return
	}
	if ck, ok := c.Get("idempotency_cache_key"); ok {
		if key, ok := ck.(string); ok && key != "" {
			if payload, err := json.Marshal(resp); err == nil {
				_ = h.rdb.Set(c.Request.Context(), key, payload, 24*time.Hour).Err()
			}
		}
	}
}

func (h *Handler) ClockIn(c *gin.Context) {
	tenantID := c.GetString("tenant_id")
	userID := c.GetString("user_id")

	var req ClockInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.finishIdempotent(c, nil)
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.ClockIn(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.finishIdempotent(c, nil)
		writeServiceError(c, err)
		return
	}

	h.finishIdempotent(c, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) ClockOut(c *gin.Context) {
	tenantID := c.GetString("tenant_id")
	userID := c.GetString("user_id")

	var req ClockOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.finishIdempotent(c, nil)
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.ClockOut(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.finishIdempotent(c, nil)
		writeServiceError(c, err)
		return
	}

	h.finishIdempotent(c, resp)
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) StartBreak(c *gin.Context) {
	tenantID := c.GetString("tenant_id")
	userID := c.GetString("user_id")

	resp, err := h.service.StartBreak(c.Request.Context(), tenantID, userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) EndBreak(c *gin.Context) {
	tenantID := c.GetString("tenant_id")
	userID := c.GetString("user_id")

	resp, err := h.service.EndBreak(c.Request.Context(), tenantID, userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	tenantID := c.GetString("tenant_id")
	actorID := c.GetString("user_id")
	role := c.GetString("role")

	var filter ListEntriesFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	canReadAll := h.rbac != nil && h.rbac.CanReadAll(role)

	resp, err := h.service.List(c.Request.Context(), tenantID, actorID, canReadAll, filter)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if pageSize < 1 {
		pageSize = 10
	}

	total := int64(len(resp))
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(resp) {
		start = len(resp)
	}
	if end > len(resp) {
		end = len(resp)
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

func (h *Handler) Approve(c *gin.Context) {
	tenantID := c.GetString("tenant_id")
	approverID := c.GetString("user_id")

	resp, err := h.service.Approve(c.Request.Context(), tenantID, approverID, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Cancel(c *gin.Context) {
	tenantID := c.GetString("tenant_id")

	resp, err := h.service.Cancel(c.Request.Context(), tenantID, c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	tenantID := c.GetString("tenant_id")

	var req UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.AdminUpdate(c.Request.Context(), tenantID, c.Param("id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
