// internal/command/lifecycle.go
package command

import (
	"context"
	"time"

	"taste-bridge/internal/utils"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
)

const (
	StatePending   = "pending"
	StateSucceeded = "succeeded"
	StateFailed    = "failed"
	StateTimedOut  = "timed_out"
	StateEvicted   = "evicted"
)

var outcomeEvents = map[Outcome]string{
	OutcomeSuccess: "succeed",
	OutcomeFailure: "fail",
	OutcomeTimeout: "expire",
	OutcomeEvicted: "evict",
}

func newLifecycle() *fsm.FSM {
	pending := []string{StatePending}
	return fsm.NewFSM(
		StatePending,
		fsm.Events{
			{Name: "succeed", Src: pending, Dst: StateSucceeded},
			{Name: "fail", Src: pending, Dst: StateFailed},
			{Name: "expire", Src: pending, Dst: StateTimedOut},
			{Name: "evict", Src: pending, Dst: StateEvicted},
		},
		fsm.Callbacks{},
	)
}

// PendingCommand 응답을 기다리는 전송된 명령
type PendingCommand struct {
	RequestID uuid.UUID
	Sequence  int
	Params    Params
	IssuedAt  time.Time

	callbacks Callbacks
	lifecycle *fsm.FSM
}

func newPendingCommand(sequence int, params Params, issuedAt time.Time, callbacks Callbacks) *PendingCommand {
	return &PendingCommand{
		RequestID: uuid.New(),
		Sequence:  sequence,
		Params:    params,
		IssuedAt:  issuedAt,
		callbacks: callbacks.withDefaults(),
		lifecycle: newLifecycle(),
	}
}

// State 현재 생명주기 상태
func (c *PendingCommand) State() string {
	return c.lifecycle.Current()
}

// Snapshot 읽기 전용 사본
func (c *PendingCommand) Snapshot() Snapshot {
	return Snapshot{
		RequestID: c.RequestID,
		Sequence:  c.Sequence,
		Params:    c.Params,
		IssuedAt:  c.IssuedAt,
	}
}

// transition 종료 상태로 전이. 이미 종료된 명령이면 false
func (c *PendingCommand) transition(outcome Outcome) bool {
	if err := c.lifecycle.Event(context.Background(), outcomeEvents[outcome]); err != nil {
		utils.Logger.Errorf("Command %d (%s) not resolved as %s: %v",
			c.Sequence, c.RequestID, outcome, err)
		return false
	}
	return true
}

func (c *PendingCommand) notify(outcome Outcome, message string) {
	switch outcome {
	case OutcomeSuccess:
		c.callbacks.OnSuccess(message)
	case OutcomeFailure:
		c.callbacks.OnFailure(message)
	default:
		c.callbacks.OnTimeout(message)
	}
}
