// internal/common/redis/keys.go
package redis

import "fmt"

// Redis Key Patterns Redis 키 패턴 상수
const (
	// 대기 중인 명령 (시퀀스 번호별)
	PendingCommandPattern = "taste:pending_command:%d"

	// 장치 연결 상태
	ConnectionStateKey = "taste:connection_state"
)

// PendingCommand 대기 명령 키 생성
func PendingCommand(sequence int) string {
	return fmt.Sprintf(PendingCommandPattern, sequence)
}

// AllPendingCommands 모든 대기 명령 키 패턴
func AllPendingCommands() string {
	return "taste:pending_command:*"
}
