// internal/messaging/transport.go
package messaging

import (
	"context"
	"errors"
)

var ErrNotConnected = errors.New("transport is not connected")

// Transport 줄 단위 장치 링크. 연결/해제는 TryReceive 로 이벤트로 전달됨
type Transport interface {
	Start(ctx context.Context) error
	Stop()
	TryReceive() (Event, bool)
	SendLine(line string) error
	IsConnected() bool
}
