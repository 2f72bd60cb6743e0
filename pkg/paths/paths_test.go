package paths

import (
	"path/filepath"
	"testing"
)

func TestDigest(t *testing.T) {
	// Fixed vectors: the digest must be stable across runs and platforms
	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com/cat.png", "750ff4e45c40562ef261b8e2f5cecd287aedf963"},
		{"https://example.com/dog.jpg", "6c162783069559f1601cda2a5e2974107ed4ca10"},
	}

	for _, tt := range tests {
		if got := Digest(tt.url); got != tt.want {
			t.Errorf("Digest(%q) = %s, want %s", tt.url, got, tt.want)
		}
	}
}

func TestFullPath(t *testing.T) {
	r := NewResolver("/data/images")

	got := r.FullPath("https://example.com/cat.png")
	want := filepath.Join("/data/images", "full", "750ff4e45c40562ef261b8e2f5cecd287aedf963.jpg")
	if got != want {
		t.Errorf("FullPath = %s, want %s", got, want)
	}

	// Pure function: same input, same output
	if again := r.FullPath("https://example.com/cat.png"); again != got {
		t.Errorf("FullPath not deterministic: %s != %s", again, got)
	}
}

func TestThumbPath(t *testing.T) {
	r := NewResolver("/data/images")

	got := r.ThumbPath("https://example.com/cat.png", "small")
	want := filepath.Join("/data/images", "thumbs", "small", "750ff4e45c40562ef261b8e2f5cecd287aedf963.jpg")
	if got != want {
		t.Errorf("ThumbPath = %s, want %s", got, want)
	}

	// Different thumb ids map to different directories, same file name
	other := r.ThumbPath("https://example.com/cat.png", "large")
	if filepath.Base(other) != filepath.Base(got) {
		t.Errorf("thumb file names differ across ids: %s vs %s", other, got)
	}
	if filepath.Dir(other) == filepath.Dir(got) {
		t.Error("expected different directories for different thumb ids")
	}
}

func TestResolverDirs(t *testing.T) {
	r := NewResolver("/data/images")

	if got := r.FullDir(); got != filepath.Join("/data/images", "full") {
		t.Errorf("FullDir = %s", got)
	}
	if got := r.ThumbDir("small"); got != filepath.Join("/data/images", "thumbs", "small") {
		t.Errorf("ThumbDir = %s", got)
	}
	if got := r.Root(); got != "/data/images" {
		t.Errorf("Root = %s", got)
	}
}

func TestDifferentURLsDifferentPaths(t *testing.T) {
	r := NewResolver("/data/images")

	a := r.FullPath("https://example.com/cat.png")
	b := r.FullPath("https://example.com/dog.jpg")
	if a == b {
		t.Error("expected different URLs to resolve to different paths")
	}
}
