// internal/api/handlers.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"taste-bridge/internal/command"
	"taste-bridge/internal/models"
	"taste-bridge/internal/service"

	"github.com/labstack/echo/v4"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 1000
)

// Bridge API 가 사용하는 브리지 서비스 기능
type Bridge interface {
	Activate(ctx context.Context, params command.Params) (service.Result, error)
	ActivatePreset(ctx context.Context, name string) (service.Result, error)
	Deactivate(ctx context.Context) (service.Result, error)
	Pending(ctx context.Context) ([]command.Snapshot, error)
	Status(ctx context.Context) (service.Status, error)
	Presets() map[string]command.Params
}

// HistoryReader 명령 이력 조회. DB 가 꺼져 있으면 nil
type HistoryReader interface {
	Recent(ctx context.Context, limit int) ([]models.CommandRecord, error)
}

// Handler 브리지 HTTP 핸들러
type Handler struct {
	bridge      Bridge
	history     HistoryReader
	waitTimeout time.Duration
}

// NewHandler waitTimeout 은 쓰기 요청이 결과를 기다리는 최대 시간
func NewHandler(bridge Bridge, history HistoryReader, waitTimeout time.Duration) *Handler {
	return &Handler{
		bridge:      bridge,
		history:     history,
		waitTimeout: waitTimeout,
	}
}

// HealthCheck 연결 상태와 대기 명령 수
func (h *Handler) HealthCheck(c echo.Context) error {
	status, err := h.bridge.Status(c.Request().Context())
	if err != nil {
		return HandleServiceError(err)
	}
	data := map[string]interface{}{
		"service":   "taste-bridge",
		"timestamp": time.Now().Unix(),
		"device":    status,
	}
	return c.JSON(http.StatusOK, CreateSuccessResponse("Service is healthy", data))
}

// GetPendingCommands 대기 중인 명령 (오래된 순)
func (h *Handler) GetPendingCommands(c echo.Context) error {
	pending, err := h.bridge.Pending(c.Request().Context())
	if err != nil {
		return HandleServiceError(err)
	}
	if pending == nil {
		pending = []command.Snapshot{}
	}
	data := map[string]interface{}{
		"commands": pending,
		"count":    len(pending),
	}
	return c.JSON(http.StatusOK, CreateSuccessResponse("Pending commands retrieved successfully", data))
}

// GetCommandHistory 최근 명령 이력
func (h *Handler) GetCommandHistory(c echo.Context) error {
	if h.history == nil {
		return echo.NewHTTPError(http.StatusNotFound, "Command history is not enabled")
	}

	limit := defaultHistoryLimit
	if raw := c.QueryParam("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		if v > maxHistoryLimit {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("limit cannot exceed %d", maxHistoryLimit))
		}
		limit = v
	}

	records, err := h.history.Recent(c.Request().Context(), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("Failed to get command history: %v", err))
	}
	data := map[string]interface{}{
		"commands": records,
		"count":    len(records),
	}
	return c.JSON(http.StatusOK, CreateSuccessResponse("Command history retrieved successfully", data))
}

// GetPresets 등록된 프리셋
func (h *Handler) GetPresets(c echo.Context) error {
	presets := h.bridge.Presets()
	data := map[string]interface{}{
		"presets": presets,
		"count":   len(presets),
	}
	return c.JSON(http.StatusOK, CreateSuccessResponse("Presets retrieved successfully", data))
}

// Activate 본문의 파라미터로 장치 구동
func (h *Handler) Activate(c echo.Context) error {
	var params command.Params
	if err := c.Bind(&params); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
	}

	ctx, cancel := h.waitContext(c)
	defer cancel()

	result, err := h.bridge.Activate(ctx, params)
	if err != nil {
		return HandleServiceError(err)
	}
	return SendResult(c, result)
}

// ActivatePreset 이름으로 프리셋 구동
func (h *Handler) ActivatePreset(c echo.Context) error {
	name := c.Param("name")
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Preset name is required")
	}

	ctx, cancel := h.waitContext(c)
	defer cancel()

	result, err := h.bridge.ActivatePreset(ctx, name)
	if err != nil {
		return HandleServiceError(err)
	}
	return SendResult(c, result)
}

// Deactivate 장치를 유휴 상태로
func (h *Handler) Deactivate(c echo.Context) error {
	ctx, cancel := h.waitContext(c)
	defer cancel()

	result, err := h.bridge.Deactivate(ctx)
	if err != nil {
		return HandleServiceError(err)
	}
	return SendResult(c, result)
}

func (h *Handler) waitContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), h.waitTimeout)
}
