package reddit

import (
	"time"
)

// Media type values for MediaPost.MediaType
const (
	MediaTypeImage   = "image"
	MediaTypeVideo   = "video"
	MediaTypeGif     = "gif"
	MediaTypeUnknown = "unknown"
	MediaTypeAll     = "all"
)

// Category is a normalized subreddit record, built from either a listing
// item or a single-entity about response. Never mutated after construction.
type Category struct {
	Name            string    `json:"name"`
	DisplayName     string    `json:"displayName"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	URL             string    `json:"url"`
	SubscriberCount int64     `json:"subscriberCount"`
	IsNsfw          bool      `json:"isNsfw"`
	IconURL         string    `json:"iconUrl"`
	BannerURL       string    `json:"bannerUrl"`
	CreatedUtc      time.Time `json:"createdUtc"`
}

// MediaPost is a normalized subreddit post that resolved to a direct media
// URL. Posts without resolvable media never materialize as records.
type MediaPost struct {
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	Permalink  string    `json:"permalink"`
	URL        string    `json:"url"`
	Thumbnail  string    `json:"thumbnail"`
	Score      int64     `json:"score"`
	CreatedUtc time.Time `json:"createdUtc"`
	IsVideo    bool      `json:"isVideo"`
	MediaType  string    `json:"mediaType"`
}

// post carries the upstream fields a listing item may expose, before media
// resolution decides whether it becomes a MediaPost.
type post struct {
	Title         string
	Author        string
	Permalink     string
	URL           string
	Thumbnail     string
	Score         int64
	CreatedUtc    float64
	IsVideo       bool
	IsGallery     bool
	GalleryItems  []string          // media_id per gallery item, in order
	MediaMetadata map[string]string // media_id -> file extension
	FallbackURL   string            // reddit-hosted video playback URL
}

// Strict-path envelopes. The upstream schema is partially undocumented, so
// any shape surprise here falls back to the tolerant traversal.

type listingEnvelope[T any] struct {
	Data struct {
		Children []struct {
			Data *T `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type rawPost struct {
	Title         string                  `json:"title"`
	Author        string                  `json:"author"`
	Permalink     string                  `json:"permalink"`
	URL           string                  `json:"url"`
	Thumbnail     string                  `json:"thumbnail"`
	Score         *int64                  `json:"score"`
	CreatedUtc    *float64                `json:"created_utc"`
	IsVideo       *bool                   `json:"is_video"`
	IsGallery     *bool                   `json:"is_gallery"`
	GalleryData   *rawGalleryData         `json:"gallery_data"`
	MediaMetadata map[string]rawMediaMeta `json:"media_metadata"`
	Media         *rawMedia               `json:"media"`
}

type rawGalleryData struct {
	Items []rawGalleryItem `json:"items"`
}

type rawGalleryItem struct {
	MediaID string `json:"media_id"`
}

type rawMediaMeta struct {
	M string `json:"m"`
}

type rawMedia struct {
	RedditVideo *rawRedditVideo `json:"reddit_video"`
}

type rawRedditVideo struct {
	FallbackURL string `json:"fallback_url"`
}

type rawCategory struct {
	Name              string   `json:"name"`
	DisplayName       string   `json:"display_name"`
	Title             string   `json:"title"`
	PublicDescription string   `json:"public_description"`
	URL               string   `json:"url"`
	Subscribers       *int64   `json:"subscribers"`
	Over18            *bool    `json:"over18"`
	IconImg           string   `json:"icon_img"`
	BannerImg         string   `json:"banner_img"`
	CreatedUtc        *float64 `json:"created_utc"`
}
