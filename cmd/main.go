// cmd/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"taste-bridge/internal/config"
	"taste-bridge/internal/di"
	"taste-bridge/internal/utils"
)

func main() {
	// 설정 로드
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	// DI 컨테이너 생성
	container, err := di.NewContainer(cfg)
	if err != nil {
		panic("Failed to create DI container: " + err.Error())
	}

	// 브릿지 서비스 시작
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := container.Start(ctx); err != nil {
		container.Cleanup()
		utils.Logger.Fatalf("Failed to start bridge service: %v", err)
	}

	utils.Logger.Infof("🎯 Taste Bridge started (transport=%s, timeout=%v, queue=%d, http=%s)",
		cfg.Transport, cfg.Timeout, cfg.MaxQueueLength, cfg.HTTPAddr)

	// 우아한 종료 처리
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// 종료 신호 대기
	<-sigChan

	utils.Logger.Infof("🛑 Shutdown signal received")

	// 전송 계층이 살아 있는 동안 유휴 명령을 내보낸 뒤 취소
	container.Cleanup()
	cancel()

	utils.Logger.Infof("✅ Taste Bridge shutdown completed")
}
