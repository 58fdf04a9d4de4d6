package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang-finance-insight/internal/executor/config"
	"golang-finance-insight/internal/executor/dto"
	"golang-finance-insight/pkg/logger"

	"github.com/PuerkitoBio/goquery"
	"github.com/mauidude/go-readability"
	"github.com/mmcdole/gofeed"
	"github.com/patrickmn/go-cache"
)

// rssCommentSource reads a per-company discussion feed. Each feed item is one comment.
type rssCommentSource struct {
	client       *http.Client
	cfg          config.CommentSource
	logger       *logger.Logger
	resolveCache *cache.Cache
}

func NewRSSCommentSource(cfg *config.Config, log *logger.Logger) CommentSource {
	return &rssCommentSource{
		client:       &http.Client{Timeout: cfg.CommentSource.RequestTimeout},
		cfg:          cfg.CommentSource,
		logger:       log,
		resolveCache: newResolveCache(cfg.CommentSource.ResolveCacheTTL),
	}
}

func (s *rssCommentSource) Fetch(ctx context.Context, company string) (string, *string, []dto.RawComment, error) {
	key := resolveCacheKey(company)
	if v, ok := s.resolveCache.Get(key); ok && !v.(resolution).found {
		return company, nil, []dto.RawComment{}, nil
	}

	feedURL := fmt.Sprintf(s.cfg.RSS.FeedURL, url.QueryEscape(company))
	fp := gofeed.NewParser()
	fp.Client = s.client
	if s.cfg.UserAgent != "" {
		fp.UserAgent = s.cfg.UserAgent
	}
	feed, err := fp.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			s.resolveCache.Set(key, resolution{name: company}, cache.DefaultExpiration)
			return company, nil, []dto.RawComment{}, nil
		}
		return company, nil, []dto.RawComment{}, fmt.Errorf("failed to parse discussion feed: %w", err)
	}

	code, _ := extractStockCode(feed.Link)
	comments := make([]dto.RawComment, 0, len(feed.Items))
	for _, item := range feed.Items {
		if s.cfg.MaxComments > 0 && len(comments) >= s.cfg.MaxComments {
			break
		}
		if code == "" {
			code, _ = extractStockCode(item.Link)
		}
		comments = append(comments, s.toRawComment(ctx, item))
	}
	s.resolveCache.Set(key, resolution{name: company, code: code, found: true}, cache.DefaultExpiration)

	s.logger.Debug("Discussion feed read", logger.StringField("company", company), logger.IntField("count", len(comments)))
	return company, &code, comments, nil
}

func (s *rssCommentSource) toRawComment(ctx context.Context, item *gofeed.Item) dto.RawComment {
	c := dto.RawComment{
		Content:   htmlToText(item.Description),
		Likes:     parseLikes(item.Custom["likes"]),
		WrittenAt: item.Published,
	}
	if item.Author != nil {
		c.Author = item.Author.Name
	} else if len(item.Authors) > 0 && item.Authors[0] != nil {
		c.Author = item.Authors[0].Name
	}
	if c.Content == "" {
		c.Content = htmlToText(item.Content)
	}
	if c.Content == "" && item.Link != "" {
		content, err := s.readArticle(ctx, item.Link)
		if err != nil {
			s.logger.Warn("Failed to read comment page", logger.ErrorField(err), logger.StringField("url", item.Link))
		}
		c.Content = content
	}
	return c
}

// readArticle extracts the main text of a linked post.
func (s *rssCommentSource) readArticle(ctx context.Context, link string) (string, error) {
	body, _, err := fetchPage(ctx, s.client, s.cfg.UserAgent, link)
	if err != nil {
		return "", err
	}
	doc, err := readability.NewDocument(string(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse post content: %w", err)
	}
	return htmlToText(doc.Content()), nil
}

func htmlToText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(fragment)))
	if err != nil {
		return cleanText(fragment)
	}
	return cleanText(doc.Text())
}
