// internal/di/container.go
package di

import (
	"context"
	"fmt"
	"io"
	"time"

	"taste-bridge/internal/api"
	"taste-bridge/internal/command"
	"taste-bridge/internal/config"
	"taste-bridge/internal/database"
	"taste-bridge/internal/journal"
	"taste-bridge/internal/messaging"
	"taste-bridge/internal/metrics"
	"taste-bridge/internal/redis"
	"taste-bridge/internal/repository"
	"taste-bridge/internal/service"
	"taste-bridge/internal/utils"

	goredis "github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

const (
	journalBufferSize = 1024
	shutdownTimeout   = 10 * time.Second
)

// Container 의존성 주입 컨테이너
type Container struct {
	Config *config.Config

	// Infra (Redis / DB 는 설정이 없으면 nil)
	Transport messaging.Transport
	Redis     *goredis.Client
	DB        *gorm.DB
	Registry  *prometheus.Registry

	// Observers
	Journal *journal.Journal
	Metrics *metrics.Metrics
	Mirror  *redis.PendingMirror
	History *repository.History

	// Core
	Presets    *command.PresetRegistry
	Controller *command.Controller

	// Service
	BridgeService *service.BridgeService
	APIServer     *api.Server

	logFile io.Closer
}

// NewContainer 새로운 컨테이너 생성
func NewContainer(cfg *config.Config) (*Container, error) {
	container := &Container{Config: cfg}

	// 1. 로깅
	utils.SetupLogger(cfg.LogLevel)
	container.logFile = utils.SetupLogFile(cfg.LogFile)

	// 2. 인프라 서비스들 초기화
	if err := container.initInfraServices(cfg); err != nil {
		container.Cleanup()
		return nil, fmt.Errorf("failed to init infra services: %w", err)
	}

	// 3. 명령 컨트롤러 초기화
	if err := container.initController(cfg); err != nil {
		container.Cleanup()
		return nil, fmt.Errorf("failed to init controller: %w", err)
	}

	// 4. 브릿지 서비스와 API
	container.initServices(cfg)

	return container, nil
}

// initInfraServices 전송 계층, Redis, DB, 메트릭 레지스트리
func (c *Container) initInfraServices(cfg *config.Config) error {
	transport, err := newTransport(cfg)
	if err != nil {
		return fmt.Errorf("transport init failed: %w", err)
	}
	c.Transport = transport

	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.Metrics = metrics.New(c.Registry)

	var sinks []journal.Sink

	if cfg.RedisEnabled() {
		client, err := redis.NewRedisClient(cfg)
		if err != nil {
			return fmt.Errorf("redis init failed: %w", err)
		}
		c.Redis = client
		c.Mirror = redis.NewPendingMirror(client, 2*cfg.Timeout)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Mirror.Reset(ctx); err != nil {
			return fmt.Errorf("redis reset failed: %w", err)
		}
		sinks = append(sinks, c.Mirror)
		utils.Logger.Infof("✅ Redis pending mirror enabled (%s:%s)", cfg.RedisHost, cfg.RedisPort)
	}

	if cfg.DatabaseEnabled() {
		db, err := database.NewPostgresDB(cfg)
		if err != nil {
			return fmt.Errorf("database init failed: %w", err)
		}
		c.DB = db
		c.History = repository.NewHistory(db)
		sinks = append(sinks, c.History)
		utils.Logger.Infof("✅ Command history enabled (%s/%s)", cfg.DBHost, cfg.DBName)
	}

	c.Journal = journal.New(journalBufferSize, sinks...)
	return nil
}

// initController 프리셋과 컨트롤러
func (c *Container) initController(cfg *config.Config) error {
	c.Presets = command.NewPresetRegistry()
	if cfg.PresetsFile != "" {
		if err := c.Presets.LoadFile(cfg.PresetsFile); err != nil {
			return err
		}
		utils.Logger.Infof("Loaded presets from %s: %v", cfg.PresetsFile, c.Presets.Names())
	}

	controller, err := command.NewController(c.Transport, command.Options{
		Timeout:        cfg.Timeout,
		MaxQueueLength: cfg.MaxQueueLength,
		Observer:       command.Observers{c.Metrics, c.Journal},
	})
	if err != nil {
		return err
	}
	c.Controller = controller
	return nil
}

func (c *Container) initServices(cfg *config.Config) {
	c.BridgeService = service.NewBridgeService(c.Controller, c.Transport, c.Presets, cfg.TickInterval, cfg.MaxQueueLength)

	// nil 포인터가 non-nil 인터페이스가 되지 않도록
	var history api.HistoryReader
	if c.History != nil {
		history = c.History
	}

	// 쓰기 요청은 명령 타임아웃보다 조금 더 기다림
	handler := api.NewHandler(c.BridgeService, history, cfg.Timeout+time.Second)
	c.APIServer = api.NewServer(cfg.HTTPAddr, handler, c.Registry)
}

// Start 저널, 브릿지 루프, HTTP 서버 시작
func (c *Container) Start(ctx context.Context) error {
	c.Journal.Start()

	if err := c.BridgeService.Start(ctx); err != nil {
		return err
	}

	c.APIServer.Start()
	return nil
}

// newTransport 설정에 맞는 전송 계층 생성
func newTransport(cfg *config.Config) (messaging.Transport, error) {
	switch cfg.Transport {
	case config.TransportSerial:
		return messaging.NewSerialTransport(messaging.SerialConfig{
			Port:              cfg.SerialPort,
			Baud:              cfg.SerialBaud,
			ReadTimeout:       cfg.SerialReadTimeout,
			ReconnectInterval: cfg.ReconnectInterval,
			MaxUnreadMessages: cfg.MaxUnreadMessages,
		}), nil
	case config.TransportMQTT:
		return messaging.NewMQTTTransport(messaging.MQTTConfig{
			Broker:            cfg.MQTTBroker,
			ClientID:          cfg.MQTTClientID,
			Username:          cfg.MQTTUsername,
			Password:          cfg.MQTTPassword,
			CommandTopic:      cfg.MQTTCommandTopic,
			ResponseTopic:     cfg.MQTTResponseTopic,
			MaxUnreadMessages: cfg.MaxUnreadMessages,
		}), nil
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}

// Cleanup 리소스 정리. HTTP → 브릿지(유휴 명령 전송) → 저널 → 저장소 순
func (c *Container) Cleanup() {
	if c.APIServer != nil {
		c.APIServer.Shutdown(shutdownTimeout)
	}
	if c.BridgeService != nil {
		c.BridgeService.Stop()
	}
	if c.Journal != nil {
		c.Journal.Stop()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			utils.Logger.Errorf("Failed to close redis: %v", err)
		}
	}
	if c.DB != nil {
		if sqlDB, err := c.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
	utils.Logger.Infof("Container cleanup completed")
	if c.logFile != nil {
		c.logFile.Close()
	}
}
