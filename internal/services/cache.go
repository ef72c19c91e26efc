package services

import (
	"context"
	"sync"
	"time"

	"portfolio-growth-api/internal/config"
	"portfolio-growth-api/internal/models"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
)

// Generic in-memory cache with type safety
type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]*cacheItem[V]
	ttl   time.Duration
}

type cacheItem[V any] struct {
	value      V
	expiration time.Time
}

func NewCache[K comparable, V any](ttl time.Duration) *Cache[K, V] {
	c := &Cache[K, V]{
		items: make(map[K]*cacheItem[V]),
		ttl:   ttl,
	}

	// Start cleanup goroutine
	go c.cleanup()

	return c
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, exists := c.items[key]
	if !exists || time.Now().After(item.expiration) {
		var zero V
		return zero, false
	}

	return item.value, true
}

func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = &cacheItem[V]{
		value:      value,
		expiration: time.Now().Add(c.ttl),
	}
}

func (c *Cache[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[K]*cacheItem[V])
}

func (c *Cache[K, V]) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for key, item := range c.items {
			if now.After(item.expiration) {
				delete(c.items, key)
			}
		}
		c.mu.Unlock()
	}
}

// CacheService layers an in-memory cache over Firestore. Firestore keeps
// projections and rate presets warm across instances; when it is
// unavailable the service degrades to in-memory only.
type CacheService struct {
	config          *config.Config
	firestoreClient *firestore.Client
	projectionCache *Cache[string, *models.ProjectionResponse]
	rateCache       *Cache[string, *models.RateData]
}

func NewCacheService(cfg *config.Config) *CacheService {
	ctx := context.Background()

	client, err := firestore.NewClient(ctx, cfg.FirestoreProject)
	if err != nil {
		log.Warn().Err(err).Msg("firestore unavailable, falling back to in-memory cache only")
		client = nil
	}

	return &CacheService{
		config:          cfg,
		firestoreClient: client,
		projectionCache: NewCache[string, *models.ProjectionResponse](cfg.CacheTTL),
		rateCache:       NewCache[string, *models.RateData](cfg.CacheTTL),
	}
}

// GetProjection retrieves a cached projection by its parameter hash.
func (s *CacheService) GetProjection(ctx context.Context, cacheKey string) (*models.ProjectionResponse, bool) {
	if resp, found := s.projectionCache.Get(cacheKey); found {
		resp.CacheHit = true
		return resp, true
	}

	if s.firestoreClient != nil {
		doc, err := s.firestoreClient.Collection("projections").Doc(cacheKey).Get(ctx)
		if err == nil {
			var resp models.ProjectionResponse
			if err := doc.DataTo(&resp); err == nil {
				if time.Since(resp.GeneratedAt) < s.config.CacheTTL {
					resp.CacheHit = true
					s.projectionCache.Set(cacheKey, &resp)
					return &resp, true
				}
			}
		}
	}

	return nil, false
}

// SetProjection stores a projection under its parameter hash.
func (s *CacheService) SetProjection(ctx context.Context, cacheKey string, resp *models.ProjectionResponse) error {
	s.projectionCache.Set(cacheKey, resp)

	if s.firestoreClient != nil {
		_, err := s.firestoreClient.Collection("projections").Doc(cacheKey).Set(ctx, resp)
		return err
	}

	return nil
}

// GetRate retrieves a cached rate preset for a symbol.
func (s *CacheService) GetRate(ctx context.Context, symbol string) (*models.RateData, bool) {
	if data, found := s.rateCache.Get(symbol); found {
		return data, true
	}

	if s.firestoreClient != nil {
		doc, err := s.firestoreClient.Collection("rates").Doc(symbol).Get(ctx)
		if err == nil {
			var data models.RateData
			if err := doc.DataTo(&data); err == nil {
				if time.Since(data.LastUpdated) < s.config.CacheTTL {
					s.rateCache.Set(symbol, &data)
					return &data, true
				}
			}
		}
	}

	return nil, false
}

// SetRate stores a rate preset for a symbol.
func (s *CacheService) SetRate(ctx context.Context, symbol string, data *models.RateData) error {
	s.rateCache.Set(symbol, data)

	if s.firestoreClient != nil {
		_, err := s.firestoreClient.Collection("rates").Doc(symbol).Set(ctx, data)
		return err
	}

	return nil
}

// Reset drops the in-memory caches. Firestore documents expire by TTL check
// on read, so they are left in place.
func (s *CacheService) Reset() {
	s.projectionCache.Purge()
	s.rateCache.Purge()
}

// Close closes the Firestore client
func (s *CacheService) Close() error {
	if s.firestoreClient != nil {
		return s.firestoreClient.Close()
	}
	return nil
}
