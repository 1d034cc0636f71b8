// internal/messaging/serial.go
package messaging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"taste-bridge/internal/utils"

	"github.com/tarm/serial"
)

// 연속으로 즉시 반환되는 EOF 가 이 횟수를 넘으면 포트가 끊긴 것으로 판단
const maxImmediateEOF = 3

type SerialConfig struct {
	Port              string
	Baud              int
	ReadTimeout       time.Duration
	ReconnectInterval time.Duration
	MaxUnreadMessages int
}

type portOpener func(cfg *serial.Config) (io.ReadWriteCloser, error)

func openSerialPort(cfg *serial.Config) (io.ReadWriteCloser, error) {
	return serial.OpenPort(cfg)
}

// SerialTransport 시리얼 포트 줄 전송. 별도 고루틴에서 읽고 끊기면 재연결
type SerialTransport struct {
	cfg   SerialConfig
	open  portOpener
	inbox *Inbox

	mu   sync.Mutex
	port io.ReadWriteCloser

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSerialTransport 새 시리얼 전송 생성
func NewSerialTransport(cfg SerialConfig) *SerialTransport {
	return newSerialTransport(cfg, openSerialPort)
}

func newSerialTransport(cfg SerialConfig, open portOpener) *SerialTransport {
	if cfg.ReconnectInterval <= 0 {
		cfg.ReconnectInterval = time.Second
	}
	return &SerialTransport{
		cfg:   cfg,
		open:  open,
		inbox: NewInbox(cfg.MaxUnreadMessages),
	}
}

// Start 읽기/재연결 고루틴 시작
func (t *SerialTransport) Start(ctx context.Context) error {
	utils.Logger.Infof("🏗️ STARTING Serial Transport on %s @ %d baud", t.cfg.Port, t.cfg.Baud)

	ctx, t.cancel = context.WithCancel(ctx)
	t.wg.Add(1)
	go t.run(ctx)
	return nil
}

// Stop 고루틴 종료 후 포트 닫기
func (t *SerialTransport) Stop() {
	if t.cancel != nil {
		t.cancel()
	}
	t.closePort()
	t.wg.Wait()
	utils.Logger.Info("Serial transport stopped")
}

func (t *SerialTransport) TryReceive() (Event, bool) {
	return t.inbox.TryReceive()
}

// SendLine 줄바꿈을 붙여 기록. 연결되어 있지 않으면 ErrNotConnected
func (t *SerialTransport) SendLine(line string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.port == nil {
		return ErrNotConnected
	}
	if _, err := io.WriteString(t.port, line+"\n"); err != nil {
		return fmt.Errorf("failed to write to %s: %w", t.cfg.Port, err)
	}
	return nil
}

func (t *SerialTransport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.port != nil
}

func (t *SerialTransport) run(ctx context.Context) {
	defer t.wg.Done()

	for {
		port, err := t.open(&serial.Config{
			Name:        t.cfg.Port,
			Baud:        t.cfg.Baud,
			ReadTimeout: t.cfg.ReadTimeout,
		})
		if err != nil {
			utils.Logger.Errorf("Failed to open serial port %s: %v", t.cfg.Port, err)
		} else {
			t.setPort(port)
			t.inbox.PushControl(Event{Kind: EventConnected})

			err = t.readLoop(ctx, port)
			t.closePort()
			t.inbox.PushControl(Event{Kind: EventDisconnected})
			if err != nil && ctx.Err() == nil {
				utils.Logger.Warnf("Serial port %s lost: %v", t.cfg.Port, err)
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(t.cfg.ReconnectInterval):
		}
	}
}

func (t *SerialTransport) readLoop(ctx context.Context, port io.Reader) error {
	var framer lineFramer
	buf := make([]byte, 256)
	immediateEOF := 0

	for ctx.Err() == nil {
		started := time.Now()
		n, err := port.Read(buf)
		if n > 0 {
			immediateEOF = 0
			for _, line := range framer.Feed(buf[:n]) {
				t.inbox.Push(LineEvent(line))
			}
		}
		if err == nil {
			continue
		}
		if !errors.Is(err, io.EOF) || t.cfg.ReadTimeout <= 0 {
			return err
		}
		// 읽기 타임아웃도 EOF 로 보고되므로 즉시 반환된 경우만 센다
		if n > 0 || time.Since(started) >= t.cfg.ReadTimeout/2 {
			immediateEOF = 0
			continue
		}
		immediateEOF++
		if immediateEOF > maxImmediateEOF {
			return io.ErrUnexpectedEOF
		}
	}
	return nil
}

func (t *SerialTransport) setPort(port io.ReadWriteCloser) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.port = port
}

func (t *SerialTransport) closePort() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.port != nil {
		_ = t.port.Close()
		t.port = nil
	}
}
