package reddit

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/pentyflix/pentyflix-api/internal/cache"
	"github.com/pentyflix/pentyflix-api/pkg/logging"
	"github.com/pentyflix/pentyflix-api/pkg/telemetry"
)

// CategoryService serves subreddit listings by popularity, search, and name
type CategoryService struct {
	client  Fetcher
	store   cache.Store
	baseURL string
	logger  *zap.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(client Fetcher, store cache.Store, baseURL string) *CategoryService {
	return &CategoryService{
		client:  client,
		store:   store,
		baseURL: baseURL,
		logger:  logging.GetLogger().With(zap.String("component", "category-service")),
	}
}

// Popular returns the most popular categories. Popularity moves slowly, so
// results are cached for an hour.
func (s *CategoryService) Popular(ctx context.Context, limit int) ([]Category, error) {
	ctx, span := telemetry.StartSpan(ctx, "reddit.popular_categories")
	defer span.End()

	limit = clampLimit(limit)

	key := cache.Key("reddit", "categories", "popular", fmt.Sprint(limit))
	return cache.Fetch(ctx, s.store, key, popularListingTTL, func(ctx context.Context) ([]Category, error) {
		s.logger.Info("fetching popular categories", zap.Int("limit", limit))
		listingURL := fmt.Sprintf("%s/subreddits/popular.json?limit=%d", s.baseURL, limit)
		return s.fetchCategories(ctx, listingURL, "popular categories")
	})
}

// Search returns categories matching a query. Results are query-specific
// and never cached. An empty query yields an empty result, not an error.
func (s *CategoryService) Search(ctx context.Context, query string, limit int) ([]Category, error) {
	ctx, span := telemetry.StartSpan(ctx, "reddit.search_categories")
	defer span.End()

	if strings.TrimSpace(query) == "" {
		return []Category{}, nil
	}
	limit = clampLimit(limit)

	s.logger.Info("searching categories", zap.String("query", query), zap.Int("limit", limit))
	listingURL := fmt.Sprintf("%s/subreddits/search.json?q=%s&limit=%d",
		s.baseURL, url.QueryEscape(query), limit)
	return s.fetchCategories(ctx, listingURL, fmt.Sprintf("search categories %q", query))
}

// Detail returns one category's about record by name, canonicalized before
// cache-key construction and the upstream request.
func (s *CategoryService) Detail(ctx context.Context, name string) (Category, error) {
	ctx, span := telemetry.StartSpan(ctx, "reddit.category_detail")
	defer span.End()

	name = CanonicalName(name)

	key := cache.Key("reddit", "category", "detail", name)
	return cache.Fetch(ctx, s.store, key, categoryDetailTTL, func(ctx context.Context) (Category, error) {
		s.logger.Info("fetching category detail", zap.String("category", name))

		aboutURL := fmt.Sprintf("%s/r/%s/about.json", s.baseURL, name)
		body, err := s.client.Fetch(ctx, aboutURL)
		if err != nil {
			return Category{}, fmt.Errorf("category detail r/%s: %w", name, err)
		}
		return normalizeEntityAbout(body, "category detail r/"+name)
	})
}

func (s *CategoryService) fetchCategories(ctx context.Context, listingURL, op string) ([]Category, error) {
	body, err := s.client.Fetch(ctx, listingURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return normalizeCategoryListing(body, op)
}
