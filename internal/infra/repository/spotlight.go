package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yuitake/tana/internal/domain"
	"github.com/yuitake/tana/internal/infra/database/models"
	"github.com/yuitake/tana/internal/usecase"
)

// SpotlightRepository persists rotation records in Postgres. The table is
// append-only; supersession happens implicitly through the c_date DESC
// ordering of the read queries.
type SpotlightRepository struct {
	db *gorm.DB
}

func NewSpotlightRepository(db *gorm.DB) *SpotlightRepository {
	return &SpotlightRepository{db: db}
}

func (r *SpotlightRepository) Create(ctx context.Context, record domain.SpotlightRecord) error {
	row := models.SpotlightRecord{
		ID:                record.ID,
		Category:          record.Category,
		ItemID:            record.ItemID,
		StartDate:         record.StartDate,
		EndDate:           record.EndDate,
		IsManualSelection: record.IsManualSelection,
		CDate:             record.CreatedDate,
	}

	err := r.db.WithContext(ctx).Create(&row).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.DuplicateError{Resource: "spotlight record"}
	}
	return err
}

func (r *SpotlightRepository) FindActive(ctx context.Context, category string, now time.Time) (domain.SpotlightRecord, error) {
	var row models.SpotlightRecord
	err := r.db.WithContext(ctx).
		Where("category = ? AND end_date > ?", category, now).
		Order("c_date DESC").
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.SpotlightRecord{}, domain.NotFoundError{Resource: "active spotlight"}
	}
	if err != nil {
		return domain.SpotlightRecord{}, err
	}
	return recordToDomain(row), nil
}

func (r *SpotlightRepository) History(ctx context.Context, category string) ([]domain.SpotlightRecord, error) {
	var rows []models.SpotlightRecord
	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("c_date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make([]domain.SpotlightRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, recordToDomain(row))
	}
	return records, nil
}

func (r *SpotlightRepository) RecentItemIDs(ctx context.Context, category string, limit int) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.SpotlightRecord{}).
		Where("category = ?", category).
		Order("c_date DESC").
		Limit(limit).
		Pluck("item_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func recordToDomain(row models.SpotlightRecord) domain.SpotlightRecord {
	return domain.SpotlightRecord{
		ID:                row.ID,
		Category:          row.Category,
		ItemID:            row.ItemID,
		StartDate:         row.StartDate,
		EndDate:           row.EndDate,
		IsManualSelection: row.IsManualSelection,
		CreatedDate:       row.CDate,
	}
}

var _ usecase.SpotlightRepository = (*SpotlightRepository)(nil)
