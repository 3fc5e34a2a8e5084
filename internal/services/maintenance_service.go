package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/slika-backend/internal/models"
	"gorm.io/gorm"
)

// MaintenanceService holds operator tasks: pin id sequence repair, the
// placeholder backfill and system log lookups.
type MaintenanceService struct {
	db *gorm.DB
}

func NewMaintenanceService(db *gorm.DB) *MaintenanceService {
	return &MaintenanceService{db: db}
}

type PinDiagnosis struct {
	Latest        []models.Pin `json:"latest"`
	MaxID         int64        `json:"maxId"`
	SequenceValue *int64       `json:"sequenceValue"`
}

func (s *MaintenanceService) isPostgres() bool {
	return s.db.Dialector.Name() == "postgres"
}

// DiagnosePins reports the newest pins and, on PostgreSQL, where the id
// sequence currently stands. A sequence behind MaxID makes inserts collide.
func (s *MaintenanceService) DiagnosePins(ctx context.Context) (*PinDiagnosis, error) {
	db := s.db.WithContext(ctx)

	var d PinDiagnosis
	if err := db.Order("id DESC").Limit(5).Find(&d.Latest).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Pin{}).Select("COALESCE(MAX(id), 0)").Scan(&d.MaxID).Error; err != nil {
		return nil, err
	}
	if !s.isPostgres() {
		return &d, nil
	}

	var last sql.NullInt64
	if err := db.Raw("SELECT pg_sequence_last_value(pg_get_serial_sequence('pins', 'id')::regclass)").Scan(&last).Error; err != nil {
		return nil, fmt.Errorf("read pin sequence: %w", err)
	}
	if last.Valid {
		d.SequenceValue = &last.Int64
	}
	return &d, nil
}

// ResetPinSequence moves the pin id sequence to MAX(id) so the next insert
// gets MAX(id)+1. Returns the value the sequence was set to.
func (s *MaintenanceService) ResetPinSequence(ctx context.Context) (int64, error) {
	if !s.isPostgres() {
		return 0, ErrUnsupportedDialect
	}
	db := s.db.WithContext(ctx)

	var maxID int64
	if err := db.Model(&models.Pin{}).Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
		return 0, err
	}

	// setval rejects 0; an empty table restarts at 1 instead.
	value, called := maxID, true
	if maxID == 0 {
		value, called = 1, false
	}
	var result int64
	if err := db.Raw("SELECT setval(pg_get_serial_sequence('pins', 'id'), ?, ?)", value, called).Scan(&result).Error; err != nil {
		return 0, fmt.Errorf("reset pin sequence: %w", err)
	}
	slog.InfoContext(ctx, "pin sequence reset", "max_id", maxID, "value", result)
	return result, nil
}

// MarkLegacyPlaceholders flags accounts that only carry the legacy seed id
// prefix as placeholders so reconciliation can absorb them.
func (s *MaintenanceService) MarkLegacyPlaceholders(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where(`id LIKE ? ESCAPE '\' AND kind <> ?`, escapeLike(models.LegacySeedPrefix)+"%", models.UserKindPlaceholder).
		Update("kind", models.UserKindPlaceholder)
	return res.RowsAffected, res.Error
}

func (s *MaintenanceService) SystemLogs(ctx context.Context, level string, limit int) ([]models.SystemLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := s.db.WithContext(ctx).Order("timestamp DESC").Limit(limit)
	if level != "" {
		query = query.Where("level = ?", level)
	}
	var logs []models.SystemLog
	err := query.Find(&logs).Error
	return logs, err
}
