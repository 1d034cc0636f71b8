// internal/service/bridge.go
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"taste-bridge/internal/command"
	"taste-bridge/internal/common/constants"
	"taste-bridge/internal/utils"

	"github.com/google/uuid"
)

var (
	ErrStopped       = errors.New("bridge service is stopped")
	ErrUnknownPreset = errors.New("unknown preset")
)

// Lifecycle 브리지가 시작/정지시키는 전송 계층
type Lifecycle interface {
	Start(ctx context.Context) error
	Stop()
}

// Result 명령 하나의 최종 결과
type Result struct {
	RequestID uuid.UUID       `json:"request_id"`
	Sequence  int             `json:"sequence"`
	Params    command.Params  `json:"params"`
	Outcome   command.Outcome `json:"outcome"`
	Message   string          `json:"message"`
}

// Status 헬스 체크용 상태
type Status struct {
	Connected      bool `json:"connected"`
	Pending        int  `json:"pending"`
	MaxQueueLength int  `json:"max_queue_length"`
}

// BridgeService 컨트롤러를 단일 고루틴 틱 루프로 구동.
// 다른 고루틴(API 등)은 Do 로 작업을 루프에 넘겨야 함
type BridgeService struct {
	controller     *command.Controller
	transport      Lifecycle
	presets        *command.PresetRegistry
	tickInterval   time.Duration
	maxQueueLength int

	requests chan func(*command.Controller)
	stop     chan struct{}
	done     chan struct{}
	started  atomic.Bool
	stopOnce sync.Once
}

func NewBridgeService(controller *command.Controller, transport Lifecycle, presets *command.PresetRegistry, tickInterval time.Duration, maxQueueLength int) *BridgeService {
	utils.Logger.Infof("🏗️ CREATING BridgeService")

	if presets == nil {
		presets = command.NewPresetRegistry()
	}
	return &BridgeService{
		controller:     controller,
		transport:      transport,
		presets:        presets,
		tickInterval:   tickInterval,
		maxQueueLength: maxQueueLength,
		requests:       make(chan func(*command.Controller)),
		stop:           make(chan struct{}),
		done:           make(chan struct{}),
	}
}

// Start 전송 계층을 시작하고 틱 루프 실행
func (s *BridgeService) Start(ctx context.Context) error {
	utils.Logger.Infof("🚀 STARTING BridgeService (tick %v)", s.tickInterval)

	if err := s.transport.Start(ctx); err != nil {
		return fmt.Errorf("failed to start transport: %w", err)
	}

	s.started.Store(true)
	go s.run()
	return nil
}

// Stop 장치를 유휴 상태로 돌린 뒤 루프와 전송 계층 종료
func (s *BridgeService) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
		if !s.started.Load() {
			close(s.done)
			return
		}
		<-s.done
		s.transport.Stop()
		utils.Logger.Info("✅ BridgeService stopped")
	})
}

func (s *BridgeService) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			// 유휴 명령을 내보내고 마지막 틱으로 도착한 응답까지 처리
			s.controller.Shutdown()
			s.controller.Tick(time.Now())
			return
		case fn := <-s.requests:
			fn(s.controller)
		case now := <-ticker.C:
			s.controller.Tick(now)
		}
	}
}

// Do fn 을 틱 고루틴에서 실행하고 끝날 때까지 대기
func (s *BridgeService) Do(ctx context.Context, fn func(*command.Controller)) error {
	finished := make(chan struct{})
	task := func(c *command.Controller) {
		defer close(finished)
		fn(c)
	}

	select {
	case s.requests <- task:
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return ErrStopped
	}

	// 루프가 받은 작업은 반드시 실행됨
	<-finished
	return nil
}

// Execute 명령을 보내고 결과가 나올 때까지 대기.
// ctx 가 먼저 끝나면 명령은 계속 대기 중이며 결과는 로그/저널로만 남음
func (s *BridgeService) Execute(ctx context.Context, params command.Params) (Result, error) {
	results := make(chan Result, 1)

	var (
		snapshot command.Snapshot
		sendErr  error
	)
	err := s.Do(ctx, func(c *command.Controller) {
		report := func(outcome command.Outcome) command.Callback {
			return func(message string) {
				results <- Result{
					RequestID: snapshot.RequestID,
					Sequence:  snapshot.Sequence,
					Params:    snapshot.Params,
					Outcome:   outcome,
					Message:   message,
				}
			}
		}
		onTimeout := func(message string) {
			outcome := command.OutcomeTimeout
			if message == constants.MessageQueuePressure {
				outcome = command.OutcomeEvicted
			}
			report(outcome)(message)
		}

		snapshot, sendErr = c.Send(params, command.Callbacks{
			OnSuccess: report(command.OutcomeSuccess),
			OnFailure: report(command.OutcomeFailure),
			OnTimeout: onTimeout,
		})
	})
	if err != nil {
		return Result{}, err
	}
	if sendErr != nil {
		return Result{}, sendErr
	}

	select {
	case result := <-results:
		return result, nil
	case <-ctx.Done():
		utils.Logger.Warnf("Stopped waiting for command %d (%s): %v", snapshot.Sequence, snapshot.RequestID, ctx.Err())
		return Result{}, ctx.Err()
	}
}

// Activate 명시적 파라미터로 장치 구동
func (s *BridgeService) Activate(ctx context.Context, params command.Params) (Result, error) {
	return s.Execute(ctx, params)
}

// ActivatePreset 이름으로 프리셋 구동
func (s *BridgeService) ActivatePreset(ctx context.Context, name string) (Result, error) {
	preset, ok := s.presets.Get(name)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	return s.Execute(ctx, preset)
}

// Deactivate 유휴 파라미터 전송
func (s *BridgeService) Deactivate(ctx context.Context) (Result, error) {
	return s.Execute(ctx, command.IdleParams)
}

// Pending 대기 중인 명령 목록
func (s *BridgeService) Pending(ctx context.Context) ([]command.Snapshot, error) {
	var pending []command.Snapshot
	err := s.Do(ctx, func(c *command.Controller) {
		pending = c.Pending()
	})
	return pending, err
}

// Status 연결 상태와 대기 명령 수
func (s *BridgeService) Status(ctx context.Context) (Status, error) {
	status := Status{MaxQueueLength: s.maxQueueLength}
	err := s.Do(ctx, func(c *command.Controller) {
		status.Connected = c.IsConnected()
		status.Pending = c.PendingCount()
	})
	return status, err
}

// Presets 등록된 프리셋
func (s *BridgeService) Presets() map[string]command.Params {
	return s.presets.All()
}
