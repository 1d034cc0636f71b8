// internal/api/server.go
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"taste-bridge/internal/utils"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server echo 기반 HTTP 서버
type Server struct {
	echo *echo.Echo
	addr string
}

// NewServer 라우트 등록. gatherer 가 nil 이면 /metrics 를 노출하지 않음
func NewServer(addr string, handler *Handler, gatherer prometheus.Gatherer) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	RegisterRoutes(e, handler)
	if gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	return &Server{echo: e, addr: addr}
}

// RegisterRoutes /api/v1 라우트 등록
func RegisterRoutes(e *echo.Echo, h *Handler) {
	v1 := e.Group("/api/v1")

	v1.GET("/health", h.HealthCheck)
	v1.GET("/presets", h.GetPresets)
	v1.GET("/commands/pending", h.GetPendingCommands)
	v1.GET("/commands/history", h.GetCommandHistory)

	v1.POST("/activate", h.Activate)
	v1.POST("/presets/:name/activate", h.ActivatePreset)
	v1.POST("/deactivate", h.Deactivate)
}

// Handler 테스트용 http.Handler
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start 백그라운드에서 요청 처리 시작
func (s *Server) Start() {
	go func() {
		utils.Logger.Infof("Starting HTTP server on %s", s.addr)
		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Logger.Errorf("HTTP server failed: %v", err)
		}
	}()
}

// Shutdown 진행 중인 요청을 기다린 뒤 종료
func (s *Server) Shutdown(timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.echo.Shutdown(ctx); err != nil {
		utils.Logger.Errorf("HTTP server shutdown error: %v", err)
	}
}

// errorHandler 에러도 표준 응답 형식으로
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := err.Error()
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	}

	if code >= http.StatusInternalServerError {
		utils.Logger.Errorf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, CreateErrorResponse(message, nil))
	}
	if err != nil {
		utils.Logger.Errorf("Failed to write error response: %v", err)
	}
}
