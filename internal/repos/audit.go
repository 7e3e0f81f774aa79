package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/packtrace/sdp-backend/internal/domain"
	"github.com/packtrace/sdp-backend/internal/platform/logger"
)

type AuditLogRepo interface {
	Create(ctx context.Context, entry *domain.ComponentAuditLog) error
	GetByCmCode(ctx context.Context, cmCode string) ([]domain.ComponentAuditLog, error)
}

type auditLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAuditLogRepo(db *gorm.DB, baseLog *logger.Logger) AuditLogRepo {
	return &auditLogRepo{db: db, log: baseLog.With("repo", "AuditLogRepo")}
}

func (r *auditLogRepo) Create(ctx context.Context, entry *domain.ComponentAuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *auditLogRepo) GetByCmCode(ctx context.Context, cmCode string) ([]domain.ComponentAuditLog, error) {
	var entries []domain.ComponentAuditLog
	err := r.db.WithContext(ctx).
		Where("cm_code = ?", cmCode).
		Order("id DESC").
		Find(&entries).Error
	return entries, err
}
