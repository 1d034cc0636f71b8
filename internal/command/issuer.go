// internal/command/issuer.go
package command

import (
	"taste-bridge/internal/common/constants"
	"taste-bridge/internal/utils"
)

// Send 파라미터를 검증하고 시퀀스 번호를 할당해 큐에 넣은 뒤 전송.
// 검증 실패 시 어떤 상태도 바뀌지 않음. 전송 실패는 로그만 남기고 명령은 타임아웃까지 대기
func (c *Controller) Send(params Params, callbacks Callbacks) (Snapshot, error) {
	if err := params.Validate(); err != nil {
		return Snapshot{}, err
	}

	c.relieveQueuePressure()

	cmd := newPendingCommand(c.nextSequence, params, c.clock(), callbacks)
	if err := c.store.PushBack(cmd); err != nil {
		return Snapshot{}, err
	}
	snapshot := cmd.Snapshot()
	c.observer.CommandIssued(snapshot)

	// 큐 등록 이후에만 전송
	line := encodeCommand(cmd.Sequence, params)
	if err := c.transport.SendLine(line); err != nil {
		utils.Logger.Errorf("Failed to send command %q: %v", line, err)
	} else {
		utils.Logger.Debugf("Sent command %q (%s)", line, cmd.RequestID)
	}

	c.nextSequence++
	if c.nextSequence >= c.maxQueueLength {
		c.nextSequence = 0
	}
	return snapshot, nil
}

// relieveQueuePressure 큐가 가득 찼거나 다음 시퀀스 번호가 아직 대기 중이면
// 가장 오래된 명령부터 큐 압력 메시지로 타임아웃 처리.
// 콜백이 다시 Send 를 호출할 수 있으므로 조건을 매번 다시 확인함
func (c *Controller) relieveQueuePressure() {
	for c.store.Full() || c.store.Holds(c.nextSequence) {
		cmd, ok := c.store.PopFront()
		if !ok {
			return
		}
		utils.Logger.Warnf("Evicting command %d (%s): queue pressure", cmd.Sequence, cmd.RequestID)
		c.finish(cmd, OutcomeEvicted, constants.MessageQueuePressure)
	}
}

// Activate 명시적 파라미터로 장치 구동
func (c *Controller) Activate(dacValue, dutyCycle, frequency int, callbacks Callbacks) (Snapshot, error) {
	return c.Send(Params{DacValue: dacValue, DutyCycle: dutyCycle, Frequency: frequency}, callbacks)
}

// ActivatePreset 저장된 프리셋으로 장치 구동
func (c *Controller) ActivatePreset(preset Params, callbacks Callbacks) (Snapshot, error) {
	return c.Activate(preset.DacValue, preset.DutyCycle, preset.Frequency, callbacks)
}

// Deactivate 유휴 파라미터 전송
func (c *Controller) Deactivate(callbacks Callbacks) (Snapshot, error) {
	return c.Send(IdleParams, callbacks)
}

// Shutdown 호스트 종료 시 호출. 장치를 유휴 상태로 되돌림
func (c *Controller) Shutdown() {
	if _, err := c.Deactivate(DefaultCallbacks); err != nil {
		utils.Logger.Errorf("Failed to deactivate device on shutdown: %v", err)
		return
	}
	utils.Logger.Info("Deactivate command issued for shutdown")
}
