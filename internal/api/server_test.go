package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"taste-bridge/internal/command"
	"taste-bridge/internal/metrics"
	"taste-bridge/internal/models"
	"taste-bridge/internal/service"

	"github.com/prometheus/client_golang/prometheus"
)

type fakeBridge struct {
	result    service.Result
	err       error
	activated []command.Params
	preset    string
	pending   []command.Snapshot
	status    service.Status
}

func (f *fakeBridge) Activate(_ context.Context, params command.Params) (service.Result, error) {
	f.activated = append(f.activated, params)
	return f.result, f.err
}

func (f *fakeBridge) ActivatePreset(_ context.Context, name string) (service.Result, error) {
	f.preset = name
	return f.result, f.err
}

func (f *fakeBridge) Deactivate(ctx context.Context) (service.Result, error) {
	return f.Activate(ctx, command.IdleParams)
}

func (f *fakeBridge) Pending(context.Context) ([]command.Snapshot, error) {
	return f.pending, f.err
}

func (f *fakeBridge) Status(context.Context) (service.Status, error) {
	return f.status, f.err
}

func (f *fakeBridge) Presets() map[string]command.Params {
	return map[string]command.Params{"sour": command.PresetSour}
}

type fakeHistory struct {
	limit   int
	records []models.CommandRecord
}

func (f *fakeHistory) Recent(_ context.Context, limit int) ([]models.CommandRecord, error) {
	f.limit = limit
	return f.records, nil
}

type apiResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(bridge Bridge, history HistoryReader, gatherer prometheus.Gatherer) *Server {
	return NewServer(":0", NewHandler(bridge, history, time.Second), gatherer)
}

func do(t *testing.T, s *Server, method, target, body string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	var resp apiResponse
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, resp
}

func TestActivate(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		bridge := &fakeBridge{result: service.Result{Sequence: 3, Outcome: command.OutcomeSuccess, Message: "success\r"}}
		s := newTestServer(bridge, nil, nil)

		rec, resp := do(t, s, http.MethodPost, "/api/v1/activate", `{"dac_value":10,"duty_cycle":20,"frequency":30}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if resp.Status != "success" {
			t.Errorf("Expected success status, got %s", resp.Status)
		}
		want := command.Params{DacValue: 10, DutyCycle: 20, Frequency: 30}
		if len(bridge.activated) != 1 || bridge.activated[0] != want {
			t.Errorf("Expected %+v to be activated, got %v", want, bridge.activated)
		}
	})

	t.Run("Device Failure", func(t *testing.T) {
		bridge := &fakeBridge{result: service.Result{Outcome: command.OutcomeFailure, Message: "error\r"}}
		s := newTestServer(bridge, nil, nil)

		rec, resp := do(t, s, http.MethodPost, "/api/v1/activate", `{"dac_value":1,"duty_cycle":1,"frequency":1}`)
		if rec.Code != http.StatusBadGateway {
			t.Errorf("Expected 502, got %d", rec.Code)
		}
		if resp.Status != "error" {
			t.Errorf("Expected error status, got %s", resp.Status)
		}
	})

	t.Run("Timeout Outcome", func(t *testing.T) {
		bridge := &fakeBridge{result: service.Result{Outcome: command.OutcomeTimeout, Message: "command response timed out"}}
		s := newTestServer(bridge, nil, nil)

		rec, resp := do(t, s, http.MethodPost, "/api/v1/deactivate", "")
		if rec.Code != http.StatusGatewayTimeout {
			t.Errorf("Expected 504, got %d", rec.Code)
		}
		if resp.Message != "command response timed out" {
			t.Errorf("Expected timeout message, got %q", resp.Message)
		}
		if len(bridge.activated) != 1 || bridge.activated[0] != command.IdleParams {
			t.Errorf("Expected idle params, got %v", bridge.activated)
		}
	})

	t.Run("Invalid Argument", func(t *testing.T) {
		bridge := &fakeBridge{err: command.ErrInvalidArgument}
		s := newTestServer(bridge, nil, nil)

		rec, resp := do(t, s, http.MethodPost, "/api/v1/activate", `{"dac_value":500,"duty_cycle":1,"frequency":1}`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
		if resp.Status != "error" {
			t.Errorf("Expected error status, got %s", resp.Status)
		}
	})

	t.Run("Malformed Body", func(t *testing.T) {
		s := newTestServer(&fakeBridge{}, nil, nil)

		rec, _ := do(t, s, http.MethodPost, "/api/v1/activate", `{"dac_value":`)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})

	t.Run("Wait Deadline", func(t *testing.T) {
		s := newTestServer(&fakeBridge{err: context.DeadlineExceeded}, nil, nil)

		rec, _ := do(t, s, http.MethodPost, "/api/v1/deactivate", "")
		if rec.Code != http.StatusGatewayTimeout {
			t.Errorf("Expected 504, got %d", rec.Code)
		}
	})
}

func TestActivatePreset(t *testing.T) {
	t.Run("Known Preset", func(t *testing.T) {
		bridge := &fakeBridge{result: service.Result{Outcome: command.OutcomeSuccess}}
		s := newTestServer(bridge, nil, nil)

		rec, _ := do(t, s, http.MethodPost, "/api/v1/presets/sour/activate", "")
		if rec.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d", rec.Code)
		}
		if bridge.preset != "sour" {
			t.Errorf("Expected preset sour, got %q", bridge.preset)
		}
	})

	t.Run("Unknown Preset", func(t *testing.T) {
		s := newTestServer(&fakeBridge{err: service.ErrUnknownPreset}, nil, nil)

		rec, _ := do(t, s, http.MethodPost, "/api/v1/presets/umami/activate", "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", rec.Code)
		}
	})
}

func TestReadEndpoints(t *testing.T) {
	t.Run("Health", func(t *testing.T) {
		bridge := &fakeBridge{status: service.Status{Connected: true, Pending: 2, MaxQueueLength: 100}}
		s := newTestServer(bridge, nil, nil)

		rec, resp := do(t, s, http.MethodGet, "/api/v1/health", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}
		var data struct {
			Device service.Status `json:"device"`
		}
		if err := json.Unmarshal(resp.Data, &data); err != nil {
			t.Fatalf("Failed to decode data: %v", err)
		}
		if !data.Device.Connected || data.Device.Pending != 2 {
			t.Errorf("Expected connected device with 2 pending, got %+v", data.Device)
		}
	})

	t.Run("Health When Stopped", func(t *testing.T) {
		s := newTestServer(&fakeBridge{err: service.ErrStopped}, nil, nil)

		rec, _ := do(t, s, http.MethodGet, "/api/v1/health", "")
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected 503, got %d", rec.Code)
		}
	})

	t.Run("Pending Empty List", func(t *testing.T) {
		s := newTestServer(&fakeBridge{}, nil, nil)

		rec, resp := do(t, s, http.MethodGet, "/api/v1/commands/pending", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}
		if !strings.Contains(string(resp.Data), `"commands":[]`) {
			t.Errorf("Expected empty command list, got %s", resp.Data)
		}
	})

	t.Run("Presets", func(t *testing.T) {
		s := newTestServer(&fakeBridge{}, nil, nil)

		rec, resp := do(t, s, http.MethodGet, "/api/v1/presets", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}
		if !strings.Contains(string(resp.Data), `"sour"`) {
			t.Errorf("Expected sour preset, got %s", resp.Data)
		}
	})
}

func TestCommandHistory(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		s := newTestServer(&fakeBridge{}, nil, nil)

		rec, _ := do(t, s, http.MethodGet, "/api/v1/commands/history", "")
		if rec.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", rec.Code)
		}
	})

	t.Run("Limit", func(t *testing.T) {
		history := &fakeHistory{records: []models.CommandRecord{{Sequence: 1, Status: "SUCCESS"}}}
		s := newTestServer(&fakeBridge{}, history, nil)

		rec, _ := do(t, s, http.MethodGet, "/api/v1/commands/history?limit=5", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}
		if history.limit != 5 {
			t.Errorf("Expected limit 5, got %d", history.limit)
		}
	})

	t.Run("Invalid Limit", func(t *testing.T) {
		s := newTestServer(&fakeBridge{}, &fakeHistory{}, nil)

		for _, limit := range []string{"abc", "0", "5000"} {
			rec, _ := do(t, s, http.MethodGet, "/api/v1/commands/history?limit="+limit, "")
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400 for limit=%s, got %d", limit, rec.Code)
			}
		}
	})
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.ConnectionChanged(true)

	s := newTestServer(&fakeBridge{}, nil, reg)
	rec, _ := do(t, s, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "taste_device_connected 1") {
		t.Errorf("Expected connected gauge in output, got %s", rec.Body.String())
	}
}

func TestHandleServiceError(t *testing.T) {
	err := HandleServiceError(errors.New("boom"))
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("Expected wrapped message, got %v", err)
	}
}
