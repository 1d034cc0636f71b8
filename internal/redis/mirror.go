// internal/redis/mirror.go
package redis

import (
	"context"
	"fmt"
	"time"

	"taste-bridge/internal/common/constants"
	keys "taste-bridge/internal/common/redis"
	"taste-bridge/internal/journal"
	"taste-bridge/internal/utils"

	"github.com/go-redis/redis/v8"
)

// PendingMirror 대기 명령 목록을 Redis 해시로 미러링하는 저널 싱크.
// 다른 프로세스(대시보드 등)가 현재 큐를 볼 수 있게 함
type PendingMirror struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPendingMirror ttl 은 응답이 끝내 오지 않아 Del 이 누락될 때를 위한 만료 시간
func NewPendingMirror(client *redis.Client, ttl time.Duration) *PendingMirror {
	return &PendingMirror{client: client, ttl: ttl}
}

func (m *PendingMirror) Name() string { return "redis" }

func (m *PendingMirror) Record(ctx context.Context, entry journal.Entry) error {
	switch entry.Kind {
	case journal.EntryIssued:
		key := keys.PendingCommand(entry.Command.Sequence)
		pipe := m.client.TxPipeline()
		pipe.HSet(ctx, key, map[string]interface{}{
			"request_id": entry.Command.RequestID.String(),
			"sequence":   entry.Command.Sequence,
			"dac_value":  entry.Command.Params.DacValue,
			"duty_cycle": entry.Command.Params.DutyCycle,
			"frequency":  entry.Command.Params.Frequency,
			"issued_at":  entry.Command.IssuedAt.UnixMilli(),
		})
		pipe.Expire(ctx, key, m.ttl)
		_, err := pipe.Exec(ctx)
		return err

	case journal.EntryResolved:
		return m.client.Del(ctx, keys.PendingCommand(entry.Command.Sequence)).Err()

	case journal.EntryConnection:
		state := constants.ConnectionStateOffline
		if entry.Connected {
			state = constants.ConnectionStateOnline
		}
		return m.client.Set(ctx, keys.ConnectionStateKey, state, 0).Err()

	default:
		return fmt.Errorf("unknown journal entry kind %d", entry.Kind)
	}
}

// Reset 이전 실행에서 남은 대기 명령 키 삭제. 시작 시 큐는 항상 비어 있음
func (m *PendingMirror) Reset(ctx context.Context) error {
	stale, err := m.client.Keys(ctx, keys.AllPendingCommands()).Result()
	if err != nil {
		return fmt.Errorf("failed to list pending command keys: %w", err)
	}
	if len(stale) > 0 {
		if err := m.client.Del(ctx, stale...).Err(); err != nil {
			return fmt.Errorf("failed to delete pending command keys: %w", err)
		}
		utils.Logger.Infof("Removed %d stale pending command keys", len(stale))
	}
	return m.client.Set(ctx, keys.ConnectionStateKey, constants.ConnectionStateOffline, 0).Err()
}
