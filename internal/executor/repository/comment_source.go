package repository

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang-finance-insight/internal/executor/config"
	"golang-finance-insight/internal/executor/dto"
	"golang-finance-insight/pkg/logger"

	"github.com/patrickmn/go-cache"
)

// CommentSource yields raw community comments for a company.
// A nil code means the company could not be resolved; comments is never nil.
type CommentSource interface {
	Fetch(ctx context.Context, company string) (resolvedName string, code *string, comments []dto.RawComment, err error)
}

// NewCommentSource builds the source selected by comment_source.provider.
func NewCommentSource(cfg *config.Config, log *logger.Logger) (CommentSource, error) {
	switch cfg.CommentSource.Provider {
	case "html", "":
		return NewHTMLCommentSource(cfg, log), nil
	case "rss":
		return NewRSSCommentSource(cfg, log), nil
	default:
		return nil, fmt.Errorf("unknown comment source provider: %s", cfg.CommentSource.Provider)
	}
}

var (
	stockCodePattern = regexp.MustCompile(`/stocks/A?(\d{6})`)
	nonDigitPattern  = regexp.MustCompile(`\D`)
)

// extractStockCode returns the six digit code embedded in a stock page URL.
func extractStockCode(link string) (string, bool) {
	m := stockCodePattern.FindStringSubmatch(link)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

func parseLikes(s string) int {
	n, err := strconv.Atoi(nonDigitPattern.ReplaceAllString(s, ""))
	if err != nil {
		return 0
	}
	return n
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// resolution is a cached company lookup.
type resolution struct {
	name  string
	code  string
	found bool
}

func newResolveCache(ttl time.Duration) *cache.Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return cache.New(ttl, 2*ttl)
}

func resolveCacheKey(company string) string {
	return strings.ToLower(strings.TrimSpace(company))
}

// fetchPage issues a browser-like GET and returns the body of a 200 response.
func fetchPage(ctx context.Context, client *http.Client, userAgent, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	if userAgent == "" {
		userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9,en-US;q=0.5")

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, fmt.Errorf("failed to fetch %s, status code: %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, resp.StatusCode, nil
}
