package reddit

import (
	"testing"
)

func TestResolveMediaURL(t *testing.T) {
	tests := []struct {
		name     string
		post     post
		expected string
	}{
		{
			name:     "direct jpg",
			post:     post{URL: "https://example.com/cat.jpg"},
			expected: "https://example.com/cat.jpg",
		},
		{
			name:     "direct gif",
			post:     post{URL: "https://example.com/cat.gif"},
			expected: "https://example.com/cat.gif",
		},
		{
			name:     "reddit-hosted image",
			post:     post{URL: "https://i.redd.it/abcdef"},
			expected: "https://i.redd.it/abcdef",
		},
		{
			name:     "native video with fallback",
			post:     post{URL: "https://v.redd.it/xyz", IsVideo: true, FallbackURL: "https://v.redd.it/xyz/DASH_720.mp4"},
			expected: "https://v.redd.it/xyz/DASH_720.mp4",
		},
		{
			name:     "native video without fallback",
			post:     post{URL: "https://v.redd.it/xyz", IsVideo: true},
			expected: "",
		},
		{
			name:     "imgur without extension synthesizes direct url",
			post:     post{URL: "https://i.imgur.com/abc123"},
			expected: "https://i.imgur.com/abc123.jpg",
		},
		{
			name:     "imgur album is dropped",
			post:     post{URL: "https://imgur.com/a/abc123"},
			expected: "",
		},
		{
			name:     "imgur gallery is dropped",
			post:     post{URL: "https://imgur.com/gallery/abc123"},
			expected: "",
		},
		{
			name: "gallery post synthesizes from first item",
			post: post{
				URL:           "https://www.reddit.com/gallery/xyz",
				IsGallery:     true,
				GalleryItems:  []string{"m1", "m2"},
				MediaMetadata: map[string]string{"m1": "png", "m2": "jpg"},
			},
			expected: "https://i.redd.it/m1.png",
		},
		{
			name: "gallery item missing from metadata",
			post: post{
				URL:           "https://www.reddit.com/gallery/xyz",
				IsGallery:     true,
				GalleryItems:  []string{"m1"},
				MediaMetadata: map[string]string{"other": "png"},
			},
			expected: "",
		},
		{
			name:     "text post has no media",
			post:     post{URL: "https://www.reddit.com/r/AskReddit/comments/1/x/"},
			expected: "",
		},
		{
			name:     "empty url",
			post:     post{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveMediaURL(tt.post); got != tt.expected {
				t.Errorf("resolveMediaURL() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestClassifyMedia(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		isVideo  bool
		expected string
	}{
		{"video flag wins", "https://i.imgur.com/abc.jpg", true, MediaTypeVideo},
		{"jpg", "https://i.imgur.com/abc.jpg", false, MediaTypeImage},
		{"jpeg", "https://example.com/a.jpeg", false, MediaTypeImage},
		{"png uppercase", "https://example.com/a.PNG", false, MediaTypeImage},
		{"gif", "https://example.com/a.gif", false, MediaTypeGif},
		{"mp4 is unknown without flag", "https://v.redd.it/a.mp4", false, MediaTypeUnknown},
		{"no extension", "https://i.redd.it/abcdef", false, MediaTypeUnknown},
		{"empty url", "", false, MediaTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyMedia(tt.url, tt.isVideo); got != tt.expected {
				t.Errorf("classifyMedia(%q, %v) = %q, want %q", tt.url, tt.isVideo, got, tt.expected)
			}
		})
	}
}

func TestImgurScenario(t *testing.T) {
	// A bare imgur asset link resolves to a synthesized direct image URL
	p := post{URL: "https://i.imgur.com/abc123"}
	resolved := resolveMediaURL(p)
	if resolved != "https://i.imgur.com/abc123.jpg" {
		t.Fatalf("resolved = %q", resolved)
	}
	if got := classifyMedia(resolved, false); got != MediaTypeImage {
		t.Errorf("mediaType = %q, want image", got)
	}
}
