package command

import (
	"taste-bridge/internal/utils"
)

// OnConnected 장치 연결 알림. 명령 처리에는 영향 없음
func (c *Controller) OnConnected() {
	c.setConnected(true)
}

// OnDisconnected 장치 연결 해제 알림. 대기 명령은 그대로 두고 타임아웃에 맡김
func (c *Controller) OnDisconnected() {
	c.setConnected(false)
}

// IsConnected 현재 연결 상태
func (c *Controller) IsConnected() bool {
	return c.connected
}

func (c *Controller) setConnected(connected bool) {
	if connected {
		utils.Logger.Info("Tasting device connected")
	} else {
		utils.Logger.Info("Tasting device disconnected")
	}

	if c.connected == connected {
		return
	}
	c.connected = connected
	c.observer.ConnectionChanged(connected)
}
