// internal/command/correlator.go
package command

import (
	"fmt"
	"strconv"
	"strings"

	"taste-bridge/internal/common/constants"
)

// OnLineReceived 수신 줄을 대기 명령과 매칭해 성공/실패 콜백 중 하나를 호출.
// 형식 오류는 ErrMalformedResponse, 대기 명령이 없으면 ErrUnmatchedResponse (둘 다 상태 변화 없음)
func (c *Controller) OnLineReceived(line string) error {
	sequence, payload, err := parseResponse(line)
	if err != nil {
		return err
	}

	cmd, ok := c.store.RemoveSequence(sequence)
	if !ok {
		return fmt.Errorf("%w: sequence %d not pending", ErrUnmatchedResponse, sequence)
	}

	outcome := OutcomeFailure
	if payload == constants.SuccessMarker {
		outcome = OutcomeSuccess
	}
	c.finish(cmd, outcome, payload)
	return nil
}

// parseResponse "<seq> <payload>" 분리. payload 는 첫 공백 이후 전체 (줄 끝 문자 포함)
func parseResponse(line string) (int, string, error) {
	index := strings.IndexByte(line, ' ')
	if index == -1 {
		return 0, "", fmt.Errorf("%w: no separator in %q", ErrMalformedResponse, line)
	}
	sequence, err := strconv.Atoi(line[:index])
	if err != nil {
		return 0, "", fmt.Errorf("%w: invalid sequence %q", ErrMalformedResponse, line[:index])
	}
	return sequence, line[index+1:], nil
}
