package storage

import "testing"

func TestNewUnconfigured(t *testing.T) {
	c, err := New("", "eu-central-1", "", "", "blog-images", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c != nil {
		t.Error("expected nil client when endpoint and credentials are empty")
	}
}

func TestFileURL(t *testing.T) {
	tests := []struct {
		name      string
		endpoint  string
		publicURL string
		key       string
		want      string
	}{
		{
			name:     "path style from endpoint",
			endpoint: "https://s3.example.com",
			key:      "posts/cover.webp",
			want:     "https://s3.example.com/blog-images/posts/cover.webp",
		},
		{
			name:      "public url preferred",
			endpoint:  "https://s3.example.com",
			publicURL: "https://cdn.aironlab.ru",
			key:       "posts/cover.webp",
			want:      "https://cdn.aironlab.ru/posts/cover.webp",
		},
		{
			name:      "trailing slashes stripped",
			endpoint:  "https://s3.example.com/",
			publicURL: "https://cdn.aironlab.ru/",
			key:       "a.png",
			want:      "https://cdn.aironlab.ru/a.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.endpoint, "eu-central-1", "key", "secret", "blog-images", tt.publicURL)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			if got := c.FileURL(tt.key); got != tt.want {
				t.Errorf("FileURL() = %q, want %q", got, tt.want)
			}
		})
	}
}
