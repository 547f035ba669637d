package services

import (
	"context"
	"time"

	"example.com/edueat/services/cafeteria/internal/cache"
	"example.com/edueat/services/cafeteria/internal/models"
	"example.com/edueat/services/cafeteria/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const menuCacheTTL = 5 * time.Minute

// MenuService handles the menu catalog with read-through caching. Every
// write invalidates the cached catalog and publishes a change event so
// connected clients refresh.
type MenuService struct {
	menuRepo repositories.MenuRepository
	cache    *cache.RedisCache
}

// NewMenuService creates a new menu service. The cache may be nil.
func NewMenuService(menuRepo repositories.MenuRepository, c *cache.RedisCache) *MenuService {
	return &MenuService{menuRepo: menuRepo, cache: c}
}

// ListMenu returns the full catalog, served from cache when possible
func (s *MenuService) ListMenu(ctx context.Context) ([]models.MenuItem, error) {
	if s.cache != nil {
		var cached []models.MenuItem
		if err := s.cache.Get(ctx, cache.MenuCacheKey(), &cached); err == nil {
			return cached, nil
		}
	}

	items, err := s.menuRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cache.MenuCacheKey(), items, menuCacheTTL); err != nil {
			log.Warn().Err(err).Msg("Failed to cache menu catalog")
		}
	}
	return items, nil
}

// ListByCategory returns catalog items in one category
func (s *MenuService) ListByCategory(ctx context.Context, category models.MenuCategory) ([]models.MenuItem, error) {
	return s.menuRepo.ListByCategory(ctx, category)
}

// GetItem returns a single menu item
func (s *MenuService) GetItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	return s.menuRepo.GetByID(ctx, id)
}

// SaveItem creates or updates a menu item, invalidates the cached
// catalog and notifies subscribers of the change.
func (s *MenuService) SaveItem(ctx context.Context, item *models.MenuItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if err := s.menuRepo.Upsert(ctx, item); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, cache.MenuCacheKey()); err != nil {
			log.Warn().Err(err).Msg("Failed to invalidate menu cache")
		}
		err := s.cache.Publish(ctx, cache.ChannelMenu, cache.ChangeEvent{
			Collection: "menu",
			EntityID:   item.ID,
			Action:     "menu_updated",
			Time:       time.Now(),
		})
		if err != nil {
			log.Warn().Err(err).Str("item_id", item.ID.String()).Msg("Failed to publish menu change event")
		}
	}

	log.Info().
		Str("item_id", item.ID.String()).
		Str("name", item.Name).
		Str("category", string(item.Category)).
		Msg("Menu item saved")
	return nil
}

// WarmCache repopulates the cached catalog from the database. The worker
// runs this when it consumes a menu change event.
func (s *MenuService) WarmCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	items, err := s.menuRepo.List(ctx)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, cache.MenuCacheKey(), items, menuCacheTTL)
}
