// Package transcript pulls caption text from a YouTube video so it can be
// used as comprehension source text.
package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidVideo = errors.New("invalid YouTube URL or video ID")
	ErrNoCaptions   = errors.New("no captions available")
)

const defaultBaseURL = "https://www.youtube.com"

var (
	videoIDPattern   = regexp.MustCompile(`(?:youtube\.com\/(?:[^\/]+\/.+\/|(?:v|e(?:mbed)?)\/|.*[?&]v=)|youtu\.be\/)([^"&?\/\s]{11})`)
	bareIDPattern    = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	titlePattern     = regexp.MustCompile(`<title>(.+?) - YouTube</title>`)
	captionLineRegex = regexp.MustCompile(`<text start="([^"]*)" dur="([^"]*)"[^>]*>([^<]*)</text>`)
)

// Transcript is the joined caption text of one video
type Transcript struct {
	VideoID string `json:"videoId"`
	Title   string `json:"title"`
	Lang    string `json:"lang"`
	Text    string `json:"text"`
}

type Fetcher struct {
	client  *http.Client
	baseURL string
	log     *logrus.Logger
}

// Option configures a Fetcher
type Option func(*Fetcher)

func WithHTTPClient(c *http.Client) Option { return func(f *Fetcher) { f.client = c } }

// WithBaseURL points the fetcher at another host serving watch pages
func WithBaseURL(u string) Option {
	return func(f *Fetcher) { f.baseURL = strings.TrimRight(u, "/") }
}

func WithLogger(l *logrus.Logger) Option { return func(f *Fetcher) { f.log = l } }

func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: defaultBaseURL,
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// VideoID extracts the 11 character id from a watch, share or embed URL, or
// accepts a bare id.
func VideoID(url string) (string, error) {
	url = strings.TrimSpace(url)
	if bareIDPattern.MatchString(url) {
		return url, nil
	}
	if m := videoIDPattern.FindStringSubmatch(url); m != nil {
		return m[1], nil
	}
	return "", ErrInvalidVideo
}

// Fetch downloads the caption track in lang, or the first track when lang is empty
func (f *Fetcher) Fetch(ctx context.Context, url, lang string) (*Transcript, error) {
	videoID, err := VideoID(url)
	if err != nil {
		return nil, err
	}
	entry := f.log.WithContext(ctx).WithField("video_id", videoID)

	page, err := f.get(ctx, fmt.Sprintf("%s/watch?v=%s", f.baseURL, videoID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video page: %w", err)
	}

	var title string
	if m := titlePattern.FindStringSubmatch(page); len(m) > 1 {
		title = html.UnescapeString(m[1])
	}

	trackURL, trackLang, err := captionTrack(page, lang)
	if err != nil {
		entry.WithError(err).Debug("Caption track lookup failed")
		return nil, err
	}

	body, err := f.get(ctx, trackURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transcript: %w", err)
	}

	var text strings.Builder
	for _, m := range captionLineRegex.FindAllStringSubmatch(body, -1) {
		line := strings.TrimSpace(html.UnescapeString(html.UnescapeString(m[3])))
		if line == "" {
			continue
		}
		if text.Len() > 0 {
			text.WriteByte(' ')
		}
		text.WriteString(line)
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("%w for video %s", ErrNoCaptions, videoID)
	}

	entry.WithField("chars", text.Len()).Info("Fetched video transcript")
	return &Transcript{VideoID: videoID, Title: title, Lang: trackLang, Text: text.String()}, nil
}

func captionTrack(page, lang string) (string, string, error) {
	_, after, found := strings.Cut(page, `"captions":`)
	if !found {
		return "", "", ErrNoCaptions
	}
	end := strings.Index(after, `,"videoDetails`)
	if end < 0 {
		return "", "", ErrNoCaptions
	}

	var captions struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []struct {
				BaseURL      string `json:"baseUrl"`
				LanguageCode string `json:"languageCode"`
			} `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	}
	if err := json.Unmarshal([]byte(after[:end]), &captions); err != nil {
		return "", "", fmt.Errorf("failed to parse captions data: %w", err)
	}

	tracks := captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return "", "", ErrNoCaptions
	}
	if lang == "" {
		return tracks[0].BaseURL, tracks[0].LanguageCode, nil
	}
	for _, t := range tracks {
		if t.LanguageCode == lang {
			return t.BaseURL, t.LanguageCode, nil
		}
	}
	return "", "", fmt.Errorf("%w in language %s", ErrNoCaptions, lang)
}

func (f *Fetcher) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d from %s", resp.StatusCode, req.URL.Host)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
