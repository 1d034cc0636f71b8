package command

import (
	"time"

	"taste-bridge/internal/common/constants"
)

// SweepExpired 만료된 명령을 오래된 순으로 타임아웃 처리하고 처리 건수를 반환.
// 모든 명령의 타임아웃이 같으므로 첫 번째 미만료 명령에서 멈춤
func (c *Controller) SweepExpired(now time.Time) int {
	expired := 0
	for {
		head, ok := c.store.Front()
		if !ok || head.IssuedAt.Add(c.timeout).After(now) {
			return expired
		}
		c.store.PopFront()
		c.finish(head, OutcomeTimeout, constants.MessageTimedOut)
		expired++
	}
}
