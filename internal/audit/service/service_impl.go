package service

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/invomate/gstbill/internal/audit/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
	}
}

// AuditLog appends one record. Failures are logged, never propagated into the
// calling operation.
func (s *Service) AuditLog(ctx context.Context, companyID, action, targetType string, targetID *string, metadata map[string]any) error {
	entry := domain.AuditLog{
		ID:         s.genID.Generate(),
		CompanyID:  companyID,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Metadata:   datatypes.JSONMap(metadata),
		CreatedAt:  time.Now().UTC(),
	}
	if entry.Metadata == nil {
		entry.Metadata = datatypes.JSONMap{}
	}

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		s.log.Warn("audit append failed",
			zap.String("action", action),
			zap.String("target_type", targetType),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// List returns the company's newest entries first. Snowflake ids are
// time-ordered, so ordering by id is ordering by creation.
func (s *Service) List(ctx context.Context, companyID string, limit int) ([]domain.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 250 {
		limit = 250
	}

	var entries []domain.AuditLog
	err := s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("id desc").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
