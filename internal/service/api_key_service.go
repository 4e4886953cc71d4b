package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/hotel-listing-api/internal/repository"
)

// APIKeyService answers whether a client API key may call the API.
type APIKeyService struct {
	keys repository.APIKeyStore
	now  func() time.Time
	log  *zap.Logger
}

func NewAPIKeyService(keys repository.APIKeyStore, log *zap.Logger) *APIKeyService {
	if log == nil {
		log = zap.NewNop()
	}
	return &APIKeyService{keys: keys, now: utcNow, log: log}
}

// IsValid is true iff key exists and has not expired. Lookup failures are
// logged and treated as invalid.
func (s *APIKeyService) IsValid(ctx context.Context, key string) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return false
	}
	k, err := s.keys.GetByKey(ctx, key)
	if err != nil {
		if !errors.Is(err, repository.ErrAPIKeyNotFound) {
			s.log.Error("api key lookup failed", zap.Error(err))
		}
		return false
	}
	return k.IsActive(s.now())
}
