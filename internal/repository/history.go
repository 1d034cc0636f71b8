package repository

import (
	"context"
	"fmt"

	"taste-bridge/internal/common/constants"
	"taste-bridge/internal/journal"
	"taste-bridge/internal/models"
	"taste-bridge/internal/utils"

	"gorm.io/gorm"
)

// History 명령 이력을 PostgreSQL 에 기록하는 저널 싱크
type History struct {
	db *gorm.DB
}

func NewHistory(db *gorm.DB) *History {
	return &History{db: db}
}

func (h *History) Name() string { return "postgres" }

// Record 저널 항목 종류에 따라 생성/갱신
func (h *History) Record(ctx context.Context, entry journal.Entry) error {
	switch entry.Kind {
	case journal.EntryIssued:
		return h.createCommand(ctx, entry)
	case journal.EntryResolved:
		return h.resolveCommand(ctx, entry)
	case journal.EntryConnection:
		return h.createConnectionEvent(ctx, entry)
	default:
		return fmt.Errorf("unknown journal entry kind %d", entry.Kind)
	}
}

func (h *History) createCommand(ctx context.Context, entry journal.Entry) error {
	record := &models.CommandRecord{
		RequestID: entry.Command.RequestID.String(),
		Sequence:  entry.Command.Sequence,
		DacValue:  entry.Command.Params.DacValue,
		DutyCycle: entry.Command.Params.DutyCycle,
		Frequency: entry.Command.Params.Frequency,
		Status:    constants.CommandStatusPending,
		IssuedAt:  entry.Command.IssuedAt,
	}
	return h.db.WithContext(ctx).Create(record).Error
}

// resolveCommand Command 의 최종 상태를 업데이트합니다.
func (h *History) resolveCommand(ctx context.Context, entry journal.Entry) error {
	resolvedAt := entry.At
	result := h.db.WithContext(ctx).Model(&models.CommandRecord{}).
		Where("request_id = ?", entry.Command.RequestID.String()).
		Updates(map[string]interface{}{
			"status":      entry.Outcome.Status(),
			"message":     truncate(entry.Message, 500),
			"resolved_at": &resolvedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		utils.Logger.Warnf("No command record for %s, resolution %s not stored",
			entry.Command.RequestID, entry.Outcome)
	}
	return nil
}

func (h *History) createConnectionEvent(ctx context.Context, entry journal.Entry) error {
	state := constants.ConnectionStateOffline
	if entry.Connected {
		state = constants.ConnectionStateOnline
	}
	return h.db.WithContext(ctx).Create(&models.ConnectionEvent{
		State:      state,
		OccurredAt: entry.At,
	}).Error
}

// Recent 최근 명령 이력 조회
func (h *History) Recent(ctx context.Context, limit int) ([]models.CommandRecord, error) {
	var records []models.CommandRecord
	err := h.db.WithContext(ctx).Order("issued_at DESC").Limit(limit).Find(&records).Error
	return records, err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
