package reddit

import (
	"strings"
)

// resolveMediaURL inspects a post's URL, flags, and gallery metadata and
// returns the best direct media URL, or "" when no rule matches (the post
// is then dropped). Rules are evaluated in order; the first match wins.
func resolveMediaURL(p post) string {
	// Direct image links (most common)
	if hasImageExtension(p.URL) {
		return p.URL
	}

	// Reddit-hosted images
	if strings.Contains(p.URL, "i.redd.it") {
		return p.URL
	}

	// Reddit-hosted videos
	if p.IsVideo && p.FallbackURL != "" {
		return p.FallbackURL
	}

	// Imgur links without extensions
	if strings.Contains(p.URL, "imgur.com") {
		if strings.Contains(p.URL, "imgur.com/a/") || strings.Contains(p.URL, "imgur.com/gallery/") {
			// An album, no single direct image URL to synthesize
			return ""
		}
		segments := strings.Split(p.URL, "/")
		assetID := segments[len(segments)-1]
		if assetID == "" {
			return ""
		}
		// The real extension may differ; imgur's CDN resolves .jpg anyway
		return "https://i.imgur.com/" + assetID + ".jpg"
	}

	// Gallery posts: synthesize from the first item's metadata entry
	if p.IsGallery && len(p.GalleryItems) > 0 {
		mediaID := p.GalleryItems[0]
		if extension, ok := p.MediaMetadata[mediaID]; ok && mediaID != "" && extension != "" {
			return "https://i.redd.it/" + mediaID + "." + extension
		}
	}

	return ""
}

// classifyMedia determines the media type of a resolved URL. The native
// video flag wins regardless of the URL; otherwise the file extension
// decides, and anything unrecognized (or an empty URL) is unknown.
func classifyMedia(url string, isVideo bool) string {
	if isVideo {
		return MediaTypeVideo
	}
	if url == "" {
		return MediaTypeUnknown
	}

	segments := strings.Split(url, ".")
	switch strings.ToLower(segments[len(segments)-1]) {
	case "jpg", "jpeg", "png":
		return MediaTypeImage
	case "gif":
		return MediaTypeGif
	default:
		return MediaTypeUnknown
	}
}

func hasImageExtension(url string) bool {
	return strings.HasSuffix(url, ".jpg") ||
		strings.HasSuffix(url, ".jpeg") ||
		strings.HasSuffix(url, ".png") ||
		strings.HasSuffix(url, ".gif")
}
