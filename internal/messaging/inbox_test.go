package messaging

import "testing"

func TestInbox(t *testing.T) {
	t.Run("Empty Inbox Does Not Block", func(t *testing.T) {
		in := NewInbox(2)
		if _, ok := in.TryReceive(); ok {
			t.Errorf("Expected no event")
		}
	})

	t.Run("Lines Beyond Capacity Are Dropped", func(t *testing.T) {
		in := NewInbox(2)
		in.Push(LineEvent("a"))
		in.Push(LineEvent("b"))
		if in.Push(LineEvent("c")) {
			t.Errorf("Expected third push to be dropped")
		}
		if in.Dropped() != 1 {
			t.Errorf("Expected 1 dropped, got %d", in.Dropped())
		}

		first, _ := in.TryReceive()
		second, _ := in.TryReceive()
		if first.Line != "a" || second.Line != "b" {
			t.Errorf("Expected a,b got %q,%q", first.Line, second.Line)
		}
	})

	t.Run("Control Events Displace Oldest", func(t *testing.T) {
		in := NewInbox(2)
		in.Push(LineEvent("a"))
		in.Push(LineEvent("b"))
		in.PushControl(Event{Kind: EventDisconnected})

		first, _ := in.TryReceive()
		second, _ := in.TryReceive()
		if first.Line != "b" || second.Kind != EventDisconnected {
			t.Errorf("Expected b then disconnected, got %+v %+v", first, second)
		}
	})
}

func TestLineFramer(t *testing.T) {
	var f lineFramer

	if lines := f.Feed([]byte("3 succ")); len(lines) != 0 {
		t.Errorf("Expected no complete line, got %q", lines)
	}
	lines := f.Feed([]byte("ess\r\n4 error\r\n5"))
	if len(lines) != 2 || lines[0] != "3 success\r" || lines[1] != "4 error\r" {
		t.Errorf("Unexpected lines %q", lines)
	}
	lines = f.Feed([]byte(" success\r\n"))
	if len(lines) != 1 || lines[0] != "5 success\r" {
		t.Errorf("Unexpected lines %q", lines)
	}

	f.Feed(make([]byte, maxLineLength+1))
	if len(f.buf) != 0 {
		t.Errorf("Expected oversized fragment to be discarded")
	}
}
