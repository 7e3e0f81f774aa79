package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/packtrace/sdp-backend/internal/domain"
	"github.com/packtrace/sdp-backend/internal/platform/logger"
)

type PeriodRepo interface {
	GetNameByID(ctx context.Context, id int) (string, error)
	GetActive(ctx context.Context) ([]domain.Period, error)
}

type periodRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPeriodRepo(db *gorm.DB, baseLog *logger.Logger) PeriodRepo {
	return &periodRepo{db: db, log: baseLog.With("repo", "PeriodRepo")}
}

// GetNameByID returns "" without error when the period does not exist;
// callers treat an unresolved period as non-fatal.
func (r *periodRepo) GetNameByID(ctx context.Context, id int) (string, error) {
	var period domain.Period
	err := r.db.WithContext(ctx).First(&period, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return period.Period, nil
}

func (r *periodRepo) GetActive(ctx context.Context) ([]domain.Period, error) {
	var periods []domain.Period
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id").
		Find(&periods).Error
	return periods, err
}
