package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/invomate/gstbill/internal/apikey/domain"
	"github.com/invomate/gstbill/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const rawKeyPrefix = "gbk_"

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type Service struct {
	keys repository.Repository[domain.APIKey]
	log  *zap.Logger
}

func New(p Params) domain.Service {
	return &Service{
		keys: repository.ProvideStore[domain.APIKey](p.DB),
		log:  p.Log.Named("apikey.service"),
	}
}

func (s *Service) Issue(ctx context.Context, tx *gorm.DB, companyID, name string) (string, *domain.APIKey, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", nil, err
	}
	raw := rawKeyPrefix + hex.EncodeToString(buf)

	now := time.Now().UTC()
	key := domain.APIKey{
		ID:        uuid.NewString(),
		CompanyID: companyID,
		Name:      name,
		KeyHash:   domain.HashAPIKey(raw),
		CreatedAt: now,
	}
	if err := s.keys.WithTrx(tx).Create(ctx, &key); err != nil {
		return "", nil, err
	}

	return raw, &key, nil
}

func (s *Service) Authenticate(ctx context.Context, raw string) (string, error) {
	if raw == "" {
		return "", domain.ErrInvalidKey
	}

	key, err := s.keys.FindOne(ctx, &domain.APIKey{KeyHash: domain.HashAPIKey(raw)})
	if err != nil {
		return "", err
	}
	if key == nil {
		return "", domain.ErrInvalidKey
	}

	now := time.Now().UTC()
	if err := s.keys.Update(ctx, key.ID, map[string]any{"last_used_at": now}); err != nil {
		s.log.Warn("failed to touch api key", zap.Error(err))
	}

	return key.CompanyID, nil
}
