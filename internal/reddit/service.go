package reddit

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/pentyflix/pentyflix-api/internal/cache"
	"github.com/pentyflix/pentyflix-api/pkg/logging"
	"github.com/pentyflix/pentyflix-api/pkg/telemetry"
)

// Cache lifetimes per operation. Search results are never cached: every
// query is specific enough that recomputation beats key churn.
const (
	mediaListingTTL   = 15 * time.Minute
	popularListingTTL = time.Hour
	categoryDetailTTL = 30 * time.Minute
)

// defaultLimit replaces out-of-range listing limits
const defaultLimit = 25

// Fetcher fetches a raw upstream body for a URL
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// clampLimit falls back to the default for non-positive or oversized limits
func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return defaultLimit
	}
	return limit
}

// Service aggregates media posts from subreddit listings
type Service struct {
	client  Fetcher
	store   cache.Store
	baseURL string
	logger  *zap.Logger
}

// NewService creates a new media post service
func NewService(client Fetcher, store cache.Store, baseURL string) *Service {
	return &Service{
		client:  client,
		store:   store,
		baseURL: baseURL,
		logger:  logging.GetLogger().With(zap.String("component", "reddit-service")),
	}
}

// ListMediaPosts returns the media-bearing posts of a subreddit's top
// listing, in upstream order. Posts without resolvable media are dropped.
// Results are cached per (subreddit, limit, timeFrame).
func (s *Service) ListMediaPosts(ctx context.Context, subreddit string, limit int, timeFrame string) ([]MediaPost, error) {
	ctx, span := telemetry.StartSpan(ctx, "reddit.list_media_posts")
	defer span.End()

	name := CanonicalName(subreddit)
	limit = clampLimit(limit)

	key := cache.Key("reddit", "media", name, fmt.Sprint(limit), timeFrame)
	return cache.Fetch(ctx, s.store, key, mediaListingTTL, func(ctx context.Context) ([]MediaPost, error) {
		return s.fetchMediaPosts(ctx, name, limit, timeFrame)
	})
}

func (s *Service) fetchMediaPosts(ctx context.Context, name string, limit int, timeFrame string) ([]MediaPost, error) {
	s.logger.Info("fetching media posts",
		zap.String("subreddit", name),
		zap.Int("limit", limit),
		zap.String("time_frame", timeFrame))

	listingURL := fmt.Sprintf("%s/r/%s/top.json?limit=%d&t=%s",
		s.baseURL, name, limit, url.QueryEscape(timeFrame))

	body, err := s.client.Fetch(ctx, listingURL)
	if err != nil {
		return nil, fmt.Errorf("list media posts r/%s: %w", name, err)
	}

	posts, err := normalizeMediaListing(body, "list media posts r/"+name)
	if err != nil {
		return nil, err
	}

	mediaPosts := make([]MediaPost, 0, len(posts))
	for _, p := range posts {
		mediaURL := resolveMediaURL(p)
		if mediaURL == "" {
			continue
		}
		mediaPosts = append(mediaPosts, MediaPost{
			Title:     p.Title,
			Author:    p.Author,
			Permalink: s.baseURL + p.Permalink,
			URL:       mediaURL,
			Thumbnail: p.Thumbnail,
			Score:     p.Score,
			// Subreddit media keeps local-time conversion
			CreatedUtc: epochToTime(p.CreatedUtc, time.Local),
			IsVideo:    p.IsVideo,
			MediaType:  classifyMedia(mediaURL, p.IsVideo),
		})
	}

	s.logger.Info("media posts resolved",
		zap.String("subreddit", name),
		zap.Int("posts", len(posts)),
		zap.Int("with_media", len(mediaPosts)))

	return mediaPosts, nil
}

// FilterMediaPosts filters posts by exact media type. "all" (or empty) is
// a pass-through.
func FilterMediaPosts(posts []MediaPost, mediaType string) []MediaPost {
	if mediaType == "" || mediaType == MediaTypeAll {
		return posts
	}
	filtered := make([]MediaPost, 0, len(posts))
	for _, p := range posts {
		if p.MediaType == mediaType {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
