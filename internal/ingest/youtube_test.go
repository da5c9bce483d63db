package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestExtractVideoID(t *testing.T) {
	cases := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{name: "watch url", url: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "watch url without www", url: "https://youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "mobile host", url: "https://m.youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "music host", url: "https://music.youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "short link", url: "https://youtu.be/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "short link with params", url: "https://youtu.be/dQw4w9WgXcQ?t=42", want: "dQw4w9WgXcQ"},
		{name: "shorts", url: "https://www.youtube.com/shorts/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "embed", url: "https://www.youtube.com/embed/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{name: "trailing slash", url: "https://youtu.be/dQw4w9WgXcQ/", want: "dQw4w9WgXcQ"},
		{name: "not a url", url: "not a url", wantErr: true},
		{name: "empty", url: "", wantErr: true},
		{name: "wrong host", url: "https://vimeo.com/123456", wantErr: true},
		{name: "watch without id", url: "https://www.youtube.com/watch", wantErr: true},
		{name: "channel path", url: "https://www.youtube.com/@somechannel", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractVideoID(tc.url)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidURL) {
					t.Fatalf("expected ErrInvalidURL, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractVideoID(%q) failed: %v", tc.url, err)
			}
			if got != tc.want {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tc.url, got, tc.want)
			}
		})
	}
}

func TestExtractCaptionURL(t *testing.T) {
	page := `..."captionTracks":[{"baseUrl":"https:\/\/example.com\/api\/timedtext?v=abc&lang=en","name":...`

	got, ok := extractCaptionURL(page)
	if !ok {
		t.Fatal("expected a caption url")
	}
	want := "https://example.com/api/timedtext?v=abc&lang=en"
	if got != want {
		t.Errorf("caption url = %q, want %q", got, want)
	}
}

func TestExtractCaptionURLMissing(t *testing.T) {
	if _, ok := extractCaptionURL(`<html>no player response here</html>`); ok {
		t.Error("expected no caption url on a page without caption tracks")
	}
}

// watchPage builds a minimal watch page whose caption track points back at
// the given base url, escaped the way the embedded player response is.
func watchPage(baseURL string) string {
	captionURL := baseURL + "/api/timedtext?v=dQw4w9WgXcQ&lang=en"
	captionURL = strings.ReplaceAll(captionURL, "/", `\/`)
	captionURL = strings.ReplaceAll(captionURL, "&", `&`)
	return fmt.Sprintf(`<html><head>
<meta property="og:title" content="Test Video">
<meta property="og:description" content="A video about testing">
</head><body>
<script>var ytInitialPlayerResponse = {"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[{"baseUrl":"%s","languageCode":"en"}]}}};</script>
</body></html>`, captionURL)
}

func TestLoad(t *testing.T) {
	var mux http.ServeMux
	srv := httptest.NewServer(&mux)
	defer srv.Close()

	mux.HandleFunc("/watch", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("v") != "dQw4w9WgXcQ" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, watchPage(srv.URL))
	})
	mux.HandleFunc("/api/timedtext", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<?xml version="1.0" encoding="utf-8"?>
<transcript>
<text start="0" dur="2">Hello and welcome</text>
<text start="2" dur="3">let&amp;#39;s get started</text>
<text start="5" dur="1">  </text>
<text start="6" dur="2">second part</text>
</transcript>`)
	})

	loader := NewYouTubeLoader(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	info, err := loader.Load(context.Background(), "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if info.SourceID != "dQw4w9WgXcQ" {
		t.Errorf("source id = %q", info.SourceID)
	}
	if info.Title != "Test Video" {
		t.Errorf("title = %q", info.Title)
	}
	if info.Description != "A video about testing" {
		t.Errorf("description = %q", info.Description)
	}
	want := "Hello and welcome let's get started second part"
	if info.Transcript != want {
		t.Errorf("transcript = %q, want %q", info.Transcript, want)
	}
}

func TestLoadNoCaptions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head>
<meta property="og:title" content="Silent Video">
</head><body>no captions</body></html>`)
	}))
	defer srv.Close()

	loader := NewYouTubeLoader(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	_, err := loader.Load(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	if !errors.Is(err, ErrNoTranscript) {
		t.Fatalf("expected ErrNoTranscript, got %v", err)
	}
}

func TestLoadMissingMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head></head><body>nothing here</body></html>`)
	}))
	defer srv.Close()

	loader := NewYouTubeLoader(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	_, err := loader.Load(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	if !errors.Is(err, ErrInvalidURL) {
		t.Fatalf("expected ErrInvalidURL, got %v", err)
	}
}
