// internal/command/types.go
package command

import (
	"fmt"
	"time"

	"taste-bridge/internal/common/constants"
	"taste-bridge/internal/utils"

	"github.com/google/uuid"
)

// Callback 명령 결과 콜백. 응답 페이로드 또는 진단 메시지를 받음
type Callback func(message string)

// Callbacks 세 가지 결과 콜백. nil 필드는 기본 콜백으로 대체됨
type Callbacks struct {
	OnSuccess Callback
	OnFailure Callback
	OnTimeout Callback
}

// DefaultCallbacks 모든 결과에 기본 콜백 사용
var DefaultCallbacks = Callbacks{}

func (c Callbacks) withDefaults() Callbacks {
	if c.OnSuccess == nil {
		c.OnSuccess = defaultOnSuccess
	}
	if c.OnFailure == nil {
		c.OnFailure = defaultOnFailure
	}
	if c.OnTimeout == nil {
		c.OnTimeout = defaultOnTimeout
	}
	return c
}

func defaultOnSuccess(string) {}

func defaultOnFailure(message string) {
	utils.Logger.Warn(message)
}

func defaultOnTimeout(message string) {
	utils.Logger.Warn(message)
}

// Params 장치 구동 파라미터. 각 필드는 [0,100] 범위
type Params struct {
	DacValue  int `json:"dac_value" yaml:"dac_value"`
	DutyCycle int `json:"duty_cycle" yaml:"duty_cycle"`
	Frequency int `json:"frequency" yaml:"frequency"`
}

// Validate 범위를 벗어난 필드가 있으면 ErrInvalidArgument
func (p Params) Validate() error {
	fields := []struct {
		name  string
		value int
	}{
		{"dac_value", p.DacValue},
		{"duty_cycle", p.DutyCycle},
		{"frequency", p.Frequency},
	}
	for _, f := range fields {
		if f.value < constants.ParamMin || f.value > constants.ParamMax {
			return fmt.Errorf("%w: %s %d must be in range [%d,%d]",
				ErrInvalidArgument, f.name, f.value, constants.ParamMin, constants.ParamMax)
		}
	}
	return nil
}

// encodeCommand 전송 줄 포맷: "<seq> <dac> <duty> <freq>"
func encodeCommand(sequence int, p Params) string {
	return fmt.Sprintf("%d %d %d %d", sequence, p.DacValue, p.DutyCycle, p.Frequency)
}

// Outcome 명령의 종료 결과
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	OutcomeTimeout Outcome = "timeout"
	OutcomeEvicted Outcome = "evicted"
)

// Status DB 저장용 상태 문자열
func (o Outcome) Status() string {
	switch o {
	case OutcomeSuccess:
		return constants.CommandStatusSuccess
	case OutcomeFailure:
		return constants.CommandStatusFailure
	case OutcomeTimeout:
		return constants.CommandStatusTimeout
	case OutcomeEvicted:
		return constants.CommandStatusEvicted
	default:
		return constants.CommandStatusPending
	}
}

// Snapshot 대기 명령의 읽기 전용 사본
type Snapshot struct {
	RequestID uuid.UUID `json:"request_id"`
	Sequence  int       `json:"sequence"`
	Params    Params    `json:"params"`
	IssuedAt  time.Time `json:"issued_at"`
}

// Observer 명령 생명주기 알림 수신자. 틱 고루틴에서 호출되므로 블로킹 금지
type Observer interface {
	CommandIssued(cmd Snapshot)
	CommandResolved(cmd Snapshot, outcome Outcome, message string)
	ConnectionChanged(connected bool)
}

// Observers 여러 옵저버에 순서대로 전달
type Observers []Observer

func (o Observers) CommandIssued(cmd Snapshot) {
	for _, obs := range o {
		obs.CommandIssued(cmd)
	}
}

func (o Observers) CommandResolved(cmd Snapshot, outcome Outcome, message string) {
	for _, obs := range o {
		obs.CommandResolved(cmd, outcome, message)
	}
}

func (o Observers) ConnectionChanged(connected bool) {
	for _, obs := range o {
		obs.ConnectionChanged(connected)
	}
}
