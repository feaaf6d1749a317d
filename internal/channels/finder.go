package channels

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://www.youtube.com"

// channelIDPatterns match the places YouTube embeds the canonical channel
// ID (UC...) in a channel page.
var channelIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`"externalId":"(UC[a-zA-Z0-9_-]{22})"`),
	regexp.MustCompile(`"channelId":"(UC[a-zA-Z0-9_-]{22})"`),
	regexp.MustCompile(`/channel/(UC[a-zA-Z0-9_-]{22})`),
	regexp.MustCompile(`"browse_id":"(UC[a-zA-Z0-9_-]{22})"`),
	regexp.MustCompile(`"browseEndpoint":{"browseId":"(UC[a-zA-Z0-9_-]{22})"`),
}

// Options configures a Finder. Zero values use sensible defaults.
type Options struct {
	// BaseURL overrides the YouTube origin, used by tests.
	BaseURL string

	// Delay is the pause between page requests.
	Delay time.Duration

	// Client is the HTTP client used for scraping.
	Client *http.Client
}

// Finder scrapes YouTube channel pages for channel IDs.
type Finder struct {
	baseURL string
	delay   time.Duration
	client  *http.Client
	log     zerolog.Logger
}

// NewFinder creates a Finder with the given options.
func NewFinder(opts Options, log zerolog.Logger) *Finder {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	delay := opts.Delay
	if delay <= 0 {
		delay = time.Second
	}
	return &Finder{
		baseURL: strings.TrimRight(baseURL, "/"),
		delay:   delay,
		client:  client,
		log:     log,
	}
}

// Resolve tries the known URL formats for a username until one page yields
// a channel ID. The /about pages are tried first as they respond more
// consistently than the channel landing pages.
func (f *Finder) Resolve(ctx context.Context, username string) Result {
	result := Result{Username: username, Status: StatusNotFound}

	for _, pageURL := range f.candidateURLs(username) {
		if err := ctx.Err(); err != nil {
			result.Status = StatusError
			result.ErrorMsg = err.Error()
			return result
		}

		f.log.Debug().
			Str("username", username).
			Str("url", pageURL).
			Msg("Fetching channel page")

		body, err := f.fetch(ctx, pageURL)
		if err != nil {
			result.ErrorMsg = err.Error()
			f.log.Debug().Err(err).Str("url", pageURL).Msg("Channel page fetch failed")
			continue
		}

		if channelID := extractChannelID(body); channelID != "" {
			result.ChannelID = channelID
			result.URL = fmt.Sprintf("%s/channel/%s", defaultBaseURL, channelID)
			result.Status = StatusFound
			result.ErrorMsg = ""
			return result
		}

		sleepCtx(ctx, f.delay)
	}

	if result.ErrorMsg == "" {
		result.ErrorMsg = "channel not found with any URL format"
	}
	return result
}

// candidateURLs lists the page URLs to try for a username, /about first.
func (f *Finder) candidateURLs(username string) []string {
	bare := strings.TrimPrefix(username, "@")
	return []string{
		fmt.Sprintf("%s/%s/about", f.baseURL, username),
		fmt.Sprintf("%s/c/%s/about", f.baseURL, bare),
		fmt.Sprintf("%s/user/%s/about", f.baseURL, bare),
		fmt.Sprintf("%s/%s", f.baseURL, username),
		fmt.Sprintf("%s/c/%s", f.baseURL, bare),
		fmt.Sprintf("%s/user/%s", f.baseURL, bare),
	}
}

func (f *Finder) fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept-Language", "en")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d for %s", resp.StatusCode, pageURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// extractChannelID returns the first channel ID found in the page content.
func extractChannelID(content string) string {
	for _, pattern := range channelIDPatterns {
		if match := pattern.FindStringSubmatch(content); match != nil {
			return match[1]
		}
	}
	return ""
}

func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
