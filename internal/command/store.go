// internal/command/store.go
package command

import "fmt"

// Store 응답 대기 명령 큐. 발행 순서(오래된 것 먼저)로 정렬되고 capacity 를 넘지 않음.
// 틱 고루틴 하나에서만 접근하므로 잠금 없음
type Store struct {
	capacity int
	items    []*PendingCommand
}

func NewStore(capacity int) *Store {
	return &Store{
		capacity: capacity,
		items:    make([]*PendingCommand, 0, capacity),
	}
}

func (s *Store) Len() int { return len(s.items) }

func (s *Store) Cap() int { return s.capacity }

func (s *Store) Full() bool { return len(s.items) >= s.capacity }

// Front 가장 오래된 명령
func (s *Store) Front() (*PendingCommand, bool) {
	if len(s.items) == 0 {
		return nil, false
	}
	return s.items[0], true
}

// PushBack 꼬리에 추가. 가득 찼거나 시퀀스 번호가 겹치면 에러
func (s *Store) PushBack(cmd *PendingCommand) error {
	if s.Full() {
		return ErrStoreFull
	}
	if s.Holds(cmd.Sequence) {
		return fmt.Errorf("%w: %d", ErrDuplicateSequence, cmd.Sequence)
	}
	s.items = append(s.items, cmd)
	return nil
}

// PopFront 가장 오래된 명령 제거
func (s *Store) PopFront() (*PendingCommand, bool) {
	if len(s.items) == 0 {
		return nil, false
	}
	cmd := s.items[0]
	s.items[0] = nil
	s.items = s.items[1:]
	return cmd, true
}

// RemoveSequence 오래된 순으로 검색해 일치하는 명령 제거
func (s *Store) RemoveSequence(sequence int) (*PendingCommand, bool) {
	for i, cmd := range s.items {
		if cmd.Sequence == sequence {
			copy(s.items[i:], s.items[i+1:])
			s.items[len(s.items)-1] = nil
			s.items = s.items[:len(s.items)-1]
			return cmd, true
		}
	}
	return nil, false
}

// Holds 해당 시퀀스 번호가 대기 중인지
func (s *Store) Holds(sequence int) bool {
	for _, cmd := range s.items {
		if cmd.Sequence == sequence {
			return true
		}
	}
	return false
}

func (s *Store) Snapshot() []Snapshot {
	out := make([]Snapshot, 0, len(s.items))
	for _, cmd := range s.items {
		out = append(out, cmd.Snapshot())
	}
	return out
}
