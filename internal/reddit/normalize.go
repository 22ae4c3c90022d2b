package reddit

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

// maxEpochSeconds rejects values that would overflow a time.Time well
// before the year 10000
const maxEpochSeconds = 253402300799

// CanonicalName canonicalizes a subreddit/category name: trims whitespace,
// lowercases, and strips a leading "r/" prefix.
func CanonicalName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.TrimPrefix(name, "r/")
}

// epochToTime converts upstream epoch seconds (a float) by truncating to
// whole seconds. Unparsable or out-of-range values yield the current time
// instead of failing the record.
func epochToTime(sec float64, loc *time.Location) time.Time {
	if sec <= 0 || math.IsNaN(sec) || math.IsInf(sec, 0) || sec > maxEpochSeconds {
		return time.Now().In(loc)
	}
	return time.Unix(int64(sec), 0).In(loc)
}

// normalizeCategoryListing parses a listing envelope into Category records.
// The strict typed decode is attempted first; a shape surprise falls back
// to the tolerant node-by-node traversal. Both paths apply the same
// defaulting policy and produce identical output for well-formed input.
func normalizeCategoryListing(body, op string) ([]Category, error) {
	categories, err := strictCategoryListing(body)
	if err == nil {
		return categories, nil
	}

	categories, fallbackErr := tolerantCategoryListing(body)
	if fallbackErr != nil {
		return nil, &MalformedResponseError{Op: op, Err: fallbackErr}
	}
	return categories, nil
}

// normalizeMediaListing parses a listing envelope into raw post records,
// with the same strict-then-tolerant structure as the category path.
func normalizeMediaListing(body, op string) ([]post, error) {
	posts, err := strictMediaListing(body)
	if err == nil {
		return posts, nil
	}

	posts, fallbackErr := tolerantMediaListing(body)
	if fallbackErr != nil {
		return nil, &MalformedResponseError{Op: op, Err: fallbackErr}
	}
	return posts, nil
}

// normalizeEntityAbout parses a single-entity about envelope (data object
// directly, no children array) into one Category.
func normalizeEntityAbout(body, op string) (Category, error) {
	var envelope map[string]interface{}
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		return Category{}, &MalformedResponseError{Op: op, Err: err}
	}
	return categoryFromNode(childNode(envelope, "data")), nil
}

// --- strict path ---

func strictCategoryListing(body string) ([]Category, error) {
	var envelope listingEnvelope[rawCategory]
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		return nil, err
	}

	categories := make([]Category, 0, len(envelope.Data.Children))
	for _, child := range envelope.Data.Children {
		if child.Data == nil {
			continue
		}
		categories = append(categories, categoryFromRaw(child.Data))
	}
	return categories, nil
}

func categoryFromRaw(raw *rawCategory) Category {
	category := Category{
		Name:        raw.Name,
		DisplayName: raw.DisplayName,
		Title:       raw.Title,
		Description: raw.PublicDescription,
		URL:         raw.URL,
		IconURL:     raw.IconImg,
		BannerURL:   raw.BannerImg,
	}
	if raw.Subscribers != nil {
		category.SubscriberCount = *raw.Subscribers
	}
	if raw.Over18 != nil {
		category.IsNsfw = *raw.Over18
	}
	// Listings are aggregated from many sources, so timestamps stay UTC
	created := float64(0)
	if raw.CreatedUtc != nil {
		created = *raw.CreatedUtc
	}
	category.CreatedUtc = epochToTime(created, time.UTC)
	return category
}

func strictMediaListing(body string) ([]post, error) {
	var envelope listingEnvelope[rawPost]
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		return nil, err
	}

	posts := make([]post, 0, len(envelope.Data.Children))
	for _, child := range envelope.Data.Children {
		if child.Data == nil {
			continue
		}
		posts = append(posts, postFromRaw(child.Data))
	}
	return posts, nil
}

func postFromRaw(raw *rawPost) post {
	p := post{
		Title:     raw.Title,
		Author:    raw.Author,
		Permalink: raw.Permalink,
		URL:       raw.URL,
		Thumbnail: raw.Thumbnail,
	}
	if raw.Score != nil {
		p.Score = *raw.Score
	}
	if raw.CreatedUtc != nil {
		p.CreatedUtc = *raw.CreatedUtc
	}
	if raw.IsVideo != nil {
		p.IsVideo = *raw.IsVideo
	}
	if raw.IsGallery != nil {
		p.IsGallery = *raw.IsGallery
	}
	if raw.GalleryData != nil {
		for _, item := range raw.GalleryData.Items {
			p.GalleryItems = append(p.GalleryItems, item.MediaID)
		}
	}
	if len(raw.MediaMetadata) > 0 {
		p.MediaMetadata = make(map[string]string, len(raw.MediaMetadata))
		for id, meta := range raw.MediaMetadata {
			p.MediaMetadata[id] = meta.M
		}
	}
	if raw.Media != nil && raw.Media.RedditVideo != nil {
		p.FallbackURL = raw.Media.RedditVideo.FallbackURL
	}
	return p
}

// --- tolerant path ---
//
// The helpers below implement the per-field defaulting policy: absent,
// null, or mistyped fields become the zero value for their expected type.

func stringField(node map[string]interface{}, key string) string {
	if v, ok := node[key].(string); ok {
		return v
	}
	return ""
}

func numberField(node map[string]interface{}, key string) float64 {
	if v, ok := node[key].(float64); ok {
		return v
	}
	return 0
}

func boolField(node map[string]interface{}, key string) bool {
	if v, ok := node[key].(bool); ok {
		return v
	}
	return false
}

func childNode(node map[string]interface{}, key string) map[string]interface{} {
	if node == nil {
		return nil
	}
	if v, ok := node[key].(map[string]interface{}); ok {
		return v
	}
	return nil
}

func arrayField(node map[string]interface{}, key string) []interface{} {
	if node == nil {
		return nil
	}
	if v, ok := node[key].([]interface{}); ok {
		return v
	}
	return nil
}

func listingChildren(body string) ([]map[string]interface{}, error) {
	var envelope map[string]interface{}
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		return nil, err
	}

	var children []map[string]interface{}
	for _, item := range arrayField(childNode(envelope, "data"), "children") {
		node, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		if data := childNode(node, "data"); data != nil {
			children = append(children, data)
		}
	}
	return children, nil
}

func tolerantCategoryListing(body string) ([]Category, error) {
	children, err := listingChildren(body)
	if err != nil {
		return nil, err
	}

	categories := make([]Category, 0, len(children))
	for _, data := range children {
		categories = append(categories, categoryFromNode(data))
	}
	return categories, nil
}

func categoryFromNode(data map[string]interface{}) Category {
	return Category{
		Name:            stringField(data, "name"),
		DisplayName:     stringField(data, "display_name"),
		Title:           stringField(data, "title"),
		Description:     stringField(data, "public_description"),
		URL:             stringField(data, "url"),
		SubscriberCount: int64(numberField(data, "subscribers")),
		IsNsfw:          boolField(data, "over18"),
		IconURL:         stringField(data, "icon_img"),
		BannerURL:       stringField(data, "banner_img"),
		CreatedUtc:      epochToTime(numberField(data, "created_utc"), time.UTC),
	}
}

func tolerantMediaListing(body string) ([]post, error) {
	children, err := listingChildren(body)
	if err != nil {
		return nil, err
	}

	posts := make([]post, 0, len(children))
	for _, data := range children {
		posts = append(posts, postFromNode(data))
	}
	return posts, nil
}

func postFromNode(data map[string]interface{}) post {
	p := post{
		Title:      stringField(data, "title"),
		Author:     stringField(data, "author"),
		Permalink:  stringField(data, "permalink"),
		URL:        stringField(data, "url"),
		Thumbnail:  stringField(data, "thumbnail"),
		Score:      int64(numberField(data, "score")),
		CreatedUtc: numberField(data, "created_utc"),
		IsVideo:    boolField(data, "is_video"),
		IsGallery:  boolField(data, "is_gallery"),
	}

	for _, item := range arrayField(childNode(data, "gallery_data"), "items") {
		node, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		p.GalleryItems = append(p.GalleryItems, stringField(node, "media_id"))
	}

	if metadata := childNode(data, "media_metadata"); metadata != nil {
		p.MediaMetadata = make(map[string]string, len(metadata))
		for id := range metadata {
			p.MediaMetadata[id] = stringField(childNode(metadata, id), "m")
		}
	}

	p.FallbackURL = stringField(childNode(childNode(data, "media"), "reddit_video"), "fallback_url")

	return p
}
