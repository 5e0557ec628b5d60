package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fekuna/omnipos-pos-service/internal/catalog"
	"github.com/fekuna/omnipos-pos-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/pkg/cache"
	"github.com/fekuna/omnipos-pos-service/pkg/logger"
	"github.com/fekuna/omnipos-pos-service/pkg/metrics"
)

const listKeyPrefix = "pos:products:list:"

type catalogUseCase struct {
	repo    catalog.Repository
	cache   *cache.RedisClient
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  logger.ZapLogger
}

// NewCatalogUseCase caches product lists in Redis for ttl. A nil cache
// disables caching.
func NewCatalogUseCase(repo catalog.Repository, cache *cache.RedisClient, ttl time.Duration, m *metrics.Metrics, log logger.ZapLogger) catalog.UseCase {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &catalogUseCase{
		repo:    repo,
		cache:   cache,
		ttl:     ttl,
		metrics: m,
		logger:  log,
	}
}

func (uc *catalogUseCase) LookupByCode(ctx context.Context, code string) (*model.ProductLookup, error) {
	return uc.repo.FindByCode(ctx, code)
}

func (uc *catalogUseCase) FetchBatches(ctx context.Context, productID string) ([]model.Batch, error) {
	return uc.repo.FindBatches(ctx, productID)
}

type cachedList struct {
	Products   []model.Product
	Pagination *model.Pagination
}

func (uc *catalogUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, *model.Pagination, error) {
	// 1. Generate Cache Key
	cacheKey, err := generateCacheKey(filters)
	if err == nil && uc.cache != nil {
		// 2. Check Cache
		var hit cachedList
		err := uc.cache.GetJSON(ctx, cacheKey, &hit)
		switch {
		case err == nil:
			uc.metrics.RecordCacheLookup(true)
			return hit.Products, hit.Pagination, nil
		case errors.Is(err, cache.ErrCacheMiss):
			uc.metrics.RecordCacheLookup(false)
		default:
			uc.logger.Warn("product list cache read failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	// 3. Store API
	products, page, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, nil, err
	}

	// 4. Set Cache
	if cacheKey != "" && uc.cache != nil {
		if err := uc.cache.SetJSON(ctx, cacheKey, cachedList{Products: products, Pagination: page}, uc.ttl); err != nil {
			uc.logger.Warn("product list cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	return products, page, nil
}

func generateCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%x", listKeyPrefix, md5.Sum(data)), nil
}

// InvalidateListCache drops every cached product list. Stock shown in lists
// goes stale as soon as any inventory moves.
func (uc *catalogUseCase) InvalidateListCache(ctx context.Context) error {
	if uc.cache == nil {
		return nil
	}
	n, err := uc.cache.DeleteByPattern(ctx, listKeyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidate product list cache: %w", err)
	}
	uc.logger.Debug("product list cache invalidated", zap.Int("keys", n))
	return nil
}
