// internal/messaging/event.go
package messaging

// EventKind 전송 계층에서 올라오는 이벤트 종류
type EventKind int

const (
	EventLine EventKind = iota
	EventConnected
	EventDisconnected
)

func (k EventKind) String() string {
	switch k {
	case EventLine:
		return "line"
	case EventConnected:
		return "connected"
	case EventDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Event 한 번의 폴링으로 받는 단위. Kind 가 EventLine 일 때만 Line 이 채워짐
type Event struct {
	Kind EventKind
	Line string
}

// LineEvent 수신 줄 이벤트 생성
func LineEvent(line string) Event {
	return Event{Kind: EventLine, Line: line}
}
