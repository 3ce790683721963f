// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/your-org/bagstore/internal/config"
	"github.com/your-org/bagstore/internal/domain/apperr"
	"gorm.io/gorm"
)

const listCacheKey = "catalog:bags"

// Service handles catalog reads. Reads never lock: stock shown here is
// advisory and re-validated under lock at checkout.
type Service struct {
	db          *gorm.DB
	redisClient *redis.Client
	config      *config.Config
}

// NewService creates a new catalog service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Service {
	return &Service{
		db:          db,
		redisClient: redisClient,
		config:      cfg,
	}
}

// ListBags returns every bag, served from Redis when a fresh copy exists
func (s *Service) ListBags(ctx context.Context) ([]Bag, error) {
	if bags, ok := s.cachedList(ctx); ok {
		return bags, nil
	}

	var bags []Bag
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&bags).Error; err != nil {
		return nil, fmt.Errorf("failed to list bags: %w", err)
	}

	s.storeList(ctx, bags)
	return bags, nil
}

// GetBag returns one bag
func (s *Service) GetBag(ctx context.Context, id uint) (*Bag, error) {
	var bag Bag
	err := s.db.WithContext(ctx).First(&bag, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("catalog.get_bag", "bag", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bag: %w", err)
	}
	return &bag, nil
}

// InvalidateCache drops the cached listing, e.g. after stock changed
func (s *Service) InvalidateCache(ctx context.Context) error {
	if s.redisClient == nil {
		return nil
	}
	return s.redisClient.Del(ctx, listCacheKey).Err()
}

func (s *Service) cachedList(ctx context.Context) ([]Bag, bool) {
	if s.redisClient == nil {
		return nil, false
	}

	data, err := s.redisClient.Get(ctx, listCacheKey).Bytes()
	if err != nil {
		return nil, false
	}

	var bags []Bag
	if err := json.Unmarshal(data, &bags); err != nil {
		return nil, false
	}
	return bags, true
}

func (s *Service) storeList(ctx context.Context, bags []Bag) {
	if s.redisClient == nil || s.config.Store.CatalogCacheTTL <= 0 {
		return
	}

	data, err := json.Marshal(bags)
	if err != nil {
		return
	}
	// A failed cache write only costs a database read next time.
	_ = s.redisClient.Set(ctx, listCacheKey, data, s.config.Store.CatalogCacheTTL).Err()
}
