package models

import (
	"time"

	"gorm.io/gorm"
)

// CommandRecord 장치로 보낸 명령 한 건과 그 결과.
// 시퀀스 번호는 순환하므로 RequestID 로 식별
type CommandRecord struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	RequestID  string         `gorm:"size:36;not null;uniqueIndex" json:"request_id"`
	Sequence   int            `gorm:"not null;index" json:"sequence"`
	DacValue   int            `gorm:"not null" json:"dac_value"`
	DutyCycle  int            `gorm:"not null" json:"duty_cycle"`
	Frequency  int            `gorm:"not null" json:"frequency"`
	Status     string         `gorm:"size:20;not null;index" json:"status"` // PENDING, SUCCESS, FAILURE, TIMEOUT, EVICTED
	Message    string         `gorm:"size:500" json:"message"`              // 응답 페이로드 또는 진단 메시지
	IssuedAt   time.Time      `gorm:"not null;index" json:"issued_at"`
	ResolvedAt *time.Time     `json:"resolved_at"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at"`
}

// ConnectionEvent 장치 연결/해제 이력
type ConnectionEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	State      string    `gorm:"size:20;not null" json:"state"` // ONLINE, OFFLINE
	OccurredAt time.Time `gorm:"not null;index" json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}
