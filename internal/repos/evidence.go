package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/packtrace/sdp-backend/internal/domain"
	"github.com/packtrace/sdp-backend/internal/platform/logger"
)

type EvidenceRepo interface {
	Create(ctx context.Context, evidence *domain.EvidenceFile) error
	GetByComponentID(ctx context.Context, componentID int) ([]domain.EvidenceFile, error)
	GetByComponentIDs(ctx context.Context, componentIDs []int) ([]domain.EvidenceFile, error)
}

type evidenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEvidenceRepo(db *gorm.DB, baseLog *logger.Logger) EvidenceRepo {
	return &evidenceRepo{db: db, log: baseLog.With("repo", "EvidenceRepo")}
}

func (r *evidenceRepo) Create(ctx context.Context, evidence *domain.EvidenceFile) error {
	return r.db.WithContext(ctx).Create(evidence).Error
}

func (r *evidenceRepo) GetByComponentID(ctx context.Context, componentID int) ([]domain.EvidenceFile, error) {
	var files []domain.EvidenceFile
	err := r.db.WithContext(ctx).
		Where("component_id = ?", componentID).
		Order("id").
		Find(&files).Error
	return files, err
}

func (r *evidenceRepo) GetByComponentIDs(ctx context.Context, componentIDs []int) ([]domain.EvidenceFile, error) {
	var files []domain.EvidenceFile
	if len(componentIDs) == 0 {
		return files, nil
	}
	err := r.db.WithContext(ctx).
		Where("component_id IN ?", componentIDs).
		Order("id").
		Find(&files).Error
	return files, err
}
