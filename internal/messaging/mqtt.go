// internal/messaging/mqtt.go
package messaging

import (
	"context"
	"fmt"
	"strings"
	"time"

	"taste-bridge/internal/utils"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type MQTTConfig struct {
	Broker            string
	ClientID          string
	Username          string
	Password          string
	CommandTopic      string
	ResponseTopic     string
	MaxUnreadMessages int
}

// MQTTTransport 장치 측 브리지가 시리얼 줄을 MQTT 토픽으로 중계하는 경우의 전송.
// 명령은 CommandTopic 으로 발행하고 응답은 ResponseTopic 에서 받음
type MQTTTransport struct {
	client mqtt.Client
	config MQTTConfig
	inbox  *Inbox
}

// NewMQTTTransport 새 MQTT 전송 생성 (연결은 Start 에서)
func NewMQTTTransport(cfg MQTTConfig) *MQTTTransport {
	utils.Logger.Infof("🏗️ CREATING MQTT Transport")

	t := &MQTTTransport{
		config: cfg,
		inbox:  NewInbox(cfg.MaxUnreadMessages),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(10 * time.Second)

	// 연결 상태 콜백
	opts.SetOnConnectHandler(t.onConnect)
	opts.SetConnectionLostHandler(t.onConnectionLost)

	t.client = mqtt.NewClient(opts)

	utils.Logger.Infof("✅ MQTT Transport CREATED")
	return t
}

// Start 브로커 연결
func (t *MQTTTransport) Start(ctx context.Context) error {
	token := t.client.Connect()
	select {
	case <-token.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	if token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return nil
}

// Stop 연결 해제
func (t *MQTTTransport) Stop() {
	if t.client.IsConnected() {
		t.client.Disconnect(250)
		utils.Logger.Info("MQTT client disconnected")
	}
}

func (t *MQTTTransport) TryReceive() (Event, bool) {
	return t.inbox.TryReceive()
}

// SendLine 명령 토픽으로 발행. 틱을 막지 않도록 완료는 기다리지 않음
func (t *MQTTTransport) SendLine(line string) error {
	if !t.client.IsConnected() {
		return ErrNotConnected
	}

	token := t.client.Publish(t.config.CommandTopic, 1, false, line)
	go func() {
		if token.Wait() && token.Error() != nil {
			utils.Logger.Errorf("❌ MQTT SEND FAILED: %s %q - %v", t.config.CommandTopic, line, token.Error())
		}
	}()
	return nil
}

func (t *MQTTTransport) IsConnected() bool {
	return t.client.IsConnected()
}

func (t *MQTTTransport) onConnect(c mqtt.Client) {
	utils.Logger.Info("MQTT client connected")

	token := c.Subscribe(t.config.ResponseTopic, 1, t.handleMessage)
	go func() {
		if token.Wait() && token.Error() != nil {
			utils.Logger.Errorf("❌ SUBSCRIPTION FAILED: %s - %v", t.config.ResponseTopic, token.Error())
			return
		}
		utils.Logger.Infof("✅ Subscribed to topic: %s", t.config.ResponseTopic)
	}()

	t.inbox.PushControl(Event{Kind: EventConnected})
}

func (t *MQTTTransport) onConnectionLost(_ mqtt.Client, err error) {
	utils.Logger.Errorf("MQTT connection lost: %v", err)
	t.inbox.PushControl(Event{Kind: EventDisconnected})
}

// handleMessage 페이로드를 '\n' 으로 나눠 줄 이벤트로 넣음. '\r' 은 유지
func (t *MQTTTransport) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	payload := strings.TrimSuffix(string(msg.Payload()), "\n")
	utils.Logger.Debugf("📨 MESSAGE RECEIVED Topic: %s Content: %q", msg.Topic(), payload)

	for _, line := range strings.Split(payload, "\n") {
		if line == "" {
			continue
		}
		t.inbox.Push(LineEvent(line))
	}
}
