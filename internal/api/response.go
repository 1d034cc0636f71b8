// internal/api/response.go
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"taste-bridge/internal/command"
	"taste-bridge/internal/service"

	"github.com/labstack/echo/v4"
)

// CreateSuccessResponse 표준 성공 응답
func CreateSuccessResponse(message string, data interface{}) map[string]interface{} {
	response := map[string]interface{}{
		"status":  "success",
		"message": message,
	}

	if data != nil {
		response["data"] = data
	}

	return response
}

// CreateErrorResponse 표준 실패 응답
func CreateErrorResponse(message string, data interface{}) map[string]interface{} {
	response := map[string]interface{}{
		"status":  "error",
		"message": message,
	}

	if data != nil {
		response["data"] = data
	}

	return response
}

// SendResult 명령 결과를 HTTP 상태로 변환.
// 장치가 거부하면 502, 응답이 없거나 밀려나면 504
func SendResult(c echo.Context, result service.Result) error {
	switch result.Outcome {
	case command.OutcomeSuccess:
		return c.JSON(http.StatusOK, CreateSuccessResponse("Command succeeded", result))
	case command.OutcomeFailure:
		return c.JSON(http.StatusBadGateway, CreateErrorResponse("Device rejected command", result))
	default:
		return c.JSON(http.StatusGatewayTimeout, CreateErrorResponse(result.Message, result))
	}
}

// HandleServiceError 서비스 에러를 HTTP 에러로 변환
func HandleServiceError(err error) error {
	switch {
	case errors.Is(err, command.ErrInvalidArgument):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnknownPreset):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrStopped):
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return echo.NewHTTPError(http.StatusGatewayTimeout, "Timed out waiting for device response")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("Command failed: %v", err))
	}
}
