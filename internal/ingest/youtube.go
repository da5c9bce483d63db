package ingest

import (
	"context"
	"encoding/xml"
	"fmt"
	stdhtml "html"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// YouTubeLoader scrapes a video's watch page for its metadata and caption
// track. Only videos with published captions can be imported.
type YouTubeLoader struct {
	httpClient *http.Client
	baseURL    string
}

type YouTubeLoaderOption func(*YouTubeLoader)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) YouTubeLoaderOption {
	return func(l *YouTubeLoader) { l.httpClient = client }
}

// WithBaseURL overrides the watch-page host, for tests.
func WithBaseURL(base string) YouTubeLoaderOption {
	return func(l *YouTubeLoader) { l.baseURL = base }
}

func NewYouTubeLoader(opts ...YouTubeLoaderOption) *YouTubeLoader {
	l := &YouTubeLoader{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://www.youtube.com",
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *YouTubeLoader) Load(ctx context.Context, rawURL string) (*VideoInfo, error) {
	videoID, err := ExtractVideoID(rawURL)
	if err != nil {
		return nil, err
	}

	page, err := l.fetch(ctx, l.baseURL+"/watch?v="+videoID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	title, description := parseMeta(page)
	if title == "" {
		return nil, fmt.Errorf("%w: no video metadata found", ErrInvalidURL)
	}
	if description == "" {
		description = "No description available"
	}

	captionURL, ok := extractCaptionURL(page)
	if !ok {
		return nil, ErrNoTranscript
	}

	transcript, err := l.fetchTranscript(ctx, captionURL)
	if err != nil {
		return nil, err
	}

	log.Printf("[YouTubeLoader] Loaded video %s (%d transcript chars)", videoID, len(transcript))

	return &VideoInfo{
		SourceID:    videoID,
		URL:         rawURL,
		Title:       title,
		Description: description,
		Transcript:  transcript,
	}, nil
}

func (l *YouTubeLoader) fetch(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept-Language", "en")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (l *YouTubeLoader) fetchTranscript(ctx context.Context, captionURL string) (string, error) {
	body, err := l.fetch(ctx, captionURL)
	if err != nil {
		return "", fmt.Errorf("%w: fetch caption track: %v", ErrNoTranscript, err)
	}

	var doc struct {
		Texts []struct {
			Value string `xml:",chardata"`
		} `xml:"text"`
	}
	if err := xml.Unmarshal([]byte(body), &doc); err != nil {
		return "", fmt.Errorf("%w: parse caption track: %v", ErrNoTranscript, err)
	}

	parts := make([]string, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		text := strings.TrimSpace(stdhtml.UnescapeString(t.Value))
		if text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return "", ErrNoTranscript
	}
	return strings.Join(parts, " "), nil
}

// ExtractVideoID pulls the 11-character video id out of the common YouTube
// URL shapes (watch, youtu.be, shorts, embed).
func ExtractVideoID(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, rawURL)
	}

	host := strings.TrimPrefix(u.Hostname(), "www.")
	var id string
	switch host {
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/shorts/"):
			id = strings.TrimPrefix(u.Path, "/shorts/")
		case strings.HasPrefix(u.Path, "/embed/"):
			id = strings.TrimPrefix(u.Path, "/embed/")
		}
	case "youtu.be":
		id = strings.TrimPrefix(u.Path, "/")
	}

	id = strings.Trim(id, "/")
	if id == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, rawURL)
	}
	return id, nil
}

// parseMeta extracts the og:title and og:description meta tags.
func parseMeta(page string) (title, description string) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return "", ""
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "meta" {
			var property, content string
			for _, attr := range n.Attr {
				switch attr.Key {
				case "property", "name":
					property = attr.Val
				case "content":
					content = attr.Val
				}
			}
			switch property {
			case "og:title":
				title = content
			case "og:description":
				description = content
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return title, description
}

// extractCaptionURL finds the first caption track's baseUrl in the player
// response embedded in the watch page.
func extractCaptionURL(page string) (string, bool) {
	const marker = `"captionTracks":[{"baseUrl":"`
	start := strings.Index(page, marker)
	if start < 0 {
		return "", false
	}
	start += len(marker)
	end := strings.Index(page[start:], `"`)
	if end < 0 {
		return "", false
	}
	raw := page[start : start+end]
	raw = strings.ReplaceAll(raw, `\u0026`, "&")
	raw = strings.ReplaceAll(raw, `\/`, "/")
	return raw, true
}
