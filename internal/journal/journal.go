// Package journal 명령 생명주기 이벤트를 틱 루프 밖의 싱크(DB, Redis)로 비동기 전달.
// 틱 고루틴은 채널에 넣기만 하고 절대 블로킹하지 않음
package journal

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"taste-bridge/internal/command"
	"taste-bridge/internal/utils"
)

type EntryKind int

const (
	EntryIssued EntryKind = iota
	EntryResolved
	EntryConnection
)

// Entry 저널 항목 하나
type Entry struct {
	Kind      EntryKind
	At        time.Time
	Command   command.Snapshot
	Outcome   command.Outcome
	Message   string
	Connected bool
}

// Sink 저널 항목 저장소
type Sink interface {
	Name() string
	Record(ctx context.Context, entry Entry) error
}

// Journal command.Observer 구현. 항목을 순서대로 모든 싱크에 기록
type Journal struct {
	entries chan Entry
	sinks   []Sink
	clock   func() time.Time
	timeout time.Duration

	dropped atomic.Int64
	stop    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

// New 버퍼 크기와 싱크로 저널 생성
func New(size int, sinks ...Sink) *Journal {
	if size <= 0 {
		size = 1
	}
	return &Journal{
		entries: make(chan Entry, size),
		sinks:   sinks,
		clock:   time.Now,
		timeout: 5 * time.Second,
		stop:    make(chan struct{}),
	}
}

func (j *Journal) CommandIssued(cmd command.Snapshot) {
	j.enqueue(Entry{Kind: EntryIssued, Command: cmd})
}

func (j *Journal) CommandResolved(cmd command.Snapshot, outcome command.Outcome, message string) {
	j.enqueue(Entry{Kind: EntryResolved, Command: cmd, Outcome: outcome, Message: message})
}

func (j *Journal) ConnectionChanged(connected bool) {
	j.enqueue(Entry{Kind: EntryConnection, Connected: connected})
}

func (j *Journal) enqueue(entry Entry) {
	entry.At = j.clock()
	select {
	case j.entries <- entry:
	default:
		j.dropped.Add(1)
		utils.Logger.Warnf("Journal buffer full, dropping entry kind %d for sequence %d",
			entry.Kind, entry.Command.Sequence)
	}
}

// Dropped 버퍼 초과로 버려진 항목 수
func (j *Journal) Dropped() int64 {
	return j.dropped.Load()
}

// Start 기록 고루틴 시작
func (j *Journal) Start() {
	j.wg.Add(1)
	go j.run()
}

// Stop 남은 항목을 모두 기록한 뒤 종료
func (j *Journal) Stop() {
	j.once.Do(func() { close(j.stop) })
	j.wg.Wait()
}

func (j *Journal) run() {
	defer j.wg.Done()
	for {
		select {
		case entry := <-j.entries:
			j.write(entry)
		case <-j.stop:
			for {
				select {
				case entry := <-j.entries:
					j.write(entry)
				default:
					return
				}
			}
		}
	}
}

func (j *Journal) write(entry Entry) {
	for _, sink := range j.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		if err := sink.Record(ctx, entry); err != nil {
			utils.Logger.Errorf("Journal sink %s failed: %v", sink.Name(), err)
		}
		cancel()
	}
}
