package uri

import "testing"

func TestComposePicURI(t *testing.T) {
	cases := []struct {
		name       string
		baseURL    string
		pictureURI string
		want       string
	}{
		{"relative joined", "https://catalog.example.com", "/img/7.png", "https://catalog.example.com/img/7.png"},
		{"relative without slash", "https://catalog.example.com", "img/7.png", "https://catalog.example.com/img/7.png"},
		{"base with trailing slash", "https://catalog.example.com/", "/img/7.png", "https://catalog.example.com/img/7.png"},
		{"absolute http untouched", "https://catalog.example.com", "http://cdn.example.com/7.png", "http://cdn.example.com/7.png"},
		{"absolute https untouched", "https://catalog.example.com", "https://cdn.example.com/7.png", "https://cdn.example.com/7.png"},
		{"empty picture", "https://catalog.example.com", "", ""},
		{"empty base", "", "/img/7.png", "/img/7.png"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			composer := NewComposer(tc.baseURL)
			if got := composer.ComposePicURI(tc.pictureURI); got != tc.want {
				t.Fatalf("ComposePicURI(%q) = %q, want %q", tc.pictureURI, got, tc.want)
			}
		})
	}
}
