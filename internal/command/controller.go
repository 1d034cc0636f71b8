// internal/command/controller.go
package command

import (
	"errors"
	"fmt"
	"time"

	"taste-bridge/internal/messaging"
	"taste-bridge/internal/utils"
)

// Transport 컨트롤러가 사용하는 전송 계층 경계. TryReceive 는 블로킹하지 않음
type Transport interface {
	TryReceive() (messaging.Event, bool)
	SendLine(line string) error
}

// Options 컨트롤러 설정
type Options struct {
	Timeout        time.Duration
	MaxQueueLength int
	Clock          func() time.Time
	Observer       Observer
}

// Controller 명령 발행, 응답 매칭, 타임아웃 처리를 하나의 틱 흐름에서 수행.
// 모든 메서드는 같은 고루틴에서 호출되어야 함
type Controller struct {
	transport      Transport
	timeout        time.Duration
	maxQueueLength int
	clock          func() time.Time
	observer       Observer

	store        *Store
	nextSequence int
	connected    bool
}

// NewController 새 컨트롤러 생성
func NewController(transport Transport, opts Options) (*Controller, error) {
	if transport == nil {
		return nil, errors.New("transport is required")
	}
	if opts.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be positive, got %v", opts.Timeout)
	}
	if opts.MaxQueueLength <= 0 {
		return nil, fmt.Errorf("max queue length must be positive, got %d", opts.MaxQueueLength)
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Observer == nil {
		opts.Observer = Observers(nil)
	}

	return &Controller{
		transport:      transport,
		timeout:        opts.Timeout,
		maxQueueLength: opts.MaxQueueLength,
		clock:          opts.Clock,
		observer:       opts.Observer,
		store:          NewStore(opts.MaxQueueLength),
	}, nil
}

// Tick 한 번의 스케줄링 단위: 이벤트 하나를 처리한 뒤 타임아웃 스윕.
// 같은 틱에 도착한 응답이 만료보다 우선함
func (c *Controller) Tick(now time.Time) {
	if event, ok := c.transport.TryReceive(); ok {
		c.dispatch(event)
	}
	c.SweepExpired(now)
}

func (c *Controller) dispatch(event messaging.Event) {
	switch event.Kind {
	case messaging.EventConnected:
		c.OnConnected()
	case messaging.EventDisconnected:
		c.OnDisconnected()
	case messaging.EventLine:
		err := c.OnLineReceived(event.Line)
		switch {
		case err == nil:
		case errors.Is(err, ErrUnmatchedResponse):
			utils.Logger.Debugf("Discarded response %q: %v", event.Line, err)
		default:
			utils.Logger.Errorf("Discarded response %q: %v", event.Line, err)
		}
	default:
		utils.Logger.Warnf("Unknown transport event: %v", event.Kind)
	}
}

// Pending 대기 중인 명령 목록 (오래된 순)
func (c *Controller) Pending() []Snapshot {
	return c.store.Snapshot()
}

// PendingCount 대기 중인 명령 수
func (c *Controller) PendingCount() int {
	return c.store.Len()
}

// finish 명령을 종료시키고 옵저버, 콜백 순으로 알림. 명령은 이미 store 에서 제거된 상태여야 함.
// 콜백이 같은 시퀀스 번호로 다시 Send 할 수 있으므로 옵저버가 먼저 종료를 봐야 함
func (c *Controller) finish(cmd *PendingCommand, outcome Outcome, message string) {
	if !cmd.transition(outcome) {
		return
	}
	c.observer.CommandResolved(cmd.Snapshot(), outcome, message)
	cmd.notify(outcome, message)
}
