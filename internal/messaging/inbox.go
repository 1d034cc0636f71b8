// internal/messaging/inbox.go
package messaging

import (
	"sync/atomic"

	"taste-bridge/internal/utils"
)

// Inbox 수신 스레드와 틱 루프 사이의 제한된 큐. TryReceive 는 블로킹하지 않음
type Inbox struct {
	events  chan Event
	dropped atomic.Int64
}

func NewInbox(size int) *Inbox {
	if size <= 0 {
		size = 1
	}
	return &Inbox{events: make(chan Event, size)}
}

// Push 수신 줄 추가. 큐가 가득 차면 버림
func (i *Inbox) Push(ev Event) bool {
	select {
	case i.events <- ev:
		return true
	default:
		i.dropped.Add(1)
		utils.Logger.Warnf("Inbox full, dropping %s event %q", ev.Kind, ev.Line)
		return false
	}
}

// PushControl 연결/해제 이벤트 추가. 큐가 가득 차면 가장 오래된 이벤트를 버리고 넣음
func (i *Inbox) PushControl(ev Event) {
	for {
		select {
		case i.events <- ev:
			return
		default:
		}
		select {
		case old := <-i.events:
			i.dropped.Add(1)
			utils.Logger.Warnf("Inbox full, dropping %s event %q for %s", old.Kind, old.Line, ev.Kind)
		default:
		}
	}
}

// TryReceive 다음 이벤트가 있으면 반환
func (i *Inbox) TryReceive() (Event, bool) {
	select {
	case ev := <-i.events:
		return ev, true
	default:
		return Event{}, false
	}
}

// Dropped 버려진 이벤트 수
func (i *Inbox) Dropped() int64 {
	return i.dropped.Load()
}
