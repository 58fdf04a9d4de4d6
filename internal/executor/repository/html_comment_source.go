package repository

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"

	"golang-finance-insight/internal/executor/config"
	"golang-finance-insight/internal/executor/dto"
	"golang-finance-insight/pkg/logger"

	"github.com/PuerkitoBio/goquery"
	"github.com/patrickmn/go-cache"
)

// htmlCommentSource scrapes a community board: a search page resolves the company to a stock page,
// the stock's community page lists the comments.
type htmlCommentSource struct {
	client       *http.Client
	cfg          config.CommentSource
	logger       *logger.Logger
	resolveCache *cache.Cache
}

func NewHTMLCommentSource(cfg *config.Config, log *logger.Logger) CommentSource {
	return &htmlCommentSource{
		client:       &http.Client{Timeout: cfg.CommentSource.RequestTimeout},
		cfg:          cfg.CommentSource,
		logger:       log,
		resolveCache: newResolveCache(cfg.CommentSource.ResolveCacheTTL),
	}
}

func (s *htmlCommentSource) Fetch(ctx context.Context, company string) (string, *string, []dto.RawComment, error) {
	res, err := s.resolve(ctx, company)
	if err != nil {
		return company, nil, []dto.RawComment{}, err
	}
	if !res.found {
		s.logger.Info("Company not found on community search", logger.StringField("company", company))
		return company, nil, []dto.RawComment{}, nil
	}

	comments, err := s.fetchComments(ctx, res.code)
	if err != nil {
		return res.name, &res.code, []dto.RawComment{}, err
	}
	return res.name, &res.code, comments, nil
}

func (s *htmlCommentSource) resolve(ctx context.Context, company string) (resolution, error) {
	key := resolveCacheKey(company)
	if v, ok := s.resolveCache.Get(key); ok {
		return v.(resolution), nil
	}

	searchURL := fmt.Sprintf(s.cfg.HTML.SearchURL, url.QueryEscape(company))
	body, _, err := fetchPage(ctx, s.client, s.cfg.UserAgent, searchURL)
	if err != nil {
		return resolution{}, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return resolution{}, fmt.Errorf("failed to parse search page: %w", err)
	}

	res := resolution{name: company}
	doc.Find(s.cfg.HTML.ResultSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if !ok {
			return true
		}
		code, ok := extractStockCode(href)
		if !ok {
			return true
		}
		res.code = code
		res.found = true
		if s.cfg.HTML.NameSelector != "" {
			if name := cleanText(sel.Find(s.cfg.HTML.NameSelector).First().Text()); name != "" {
				res.name = name
			}
		}
		return false
	})

	s.resolveCache.Set(key, res, cache.DefaultExpiration)
	return res, nil
}

func (s *htmlCommentSource) fetchComments(ctx context.Context, code string) ([]dto.RawComment, error) {
	pageURL := fmt.Sprintf(s.cfg.HTML.CommunityURL, code)
	body, _, err := fetchPage(ctx, s.client, s.cfg.UserAgent, pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse community page: %w", err)
	}

	comments := []dto.RawComment{}
	doc.Find(s.cfg.HTML.CommentSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if s.cfg.MaxComments > 0 && len(comments) >= s.cfg.MaxComments {
			return false
		}
		comments = append(comments, dto.RawComment{
			Author:    cleanText(sel.Find(s.cfg.HTML.AuthorSelector).First().Text()),
			Content:   cleanText(sel.Find(s.cfg.HTML.ContentSelector).First().Text()),
			Likes:     parseLikes(sel.Find(s.cfg.HTML.LikesSelector).First().Text()),
			WrittenAt: cleanText(sel.Find(s.cfg.HTML.TimeSelector).First().Text()),
		})
		return true
	})

	s.logger.Debug("Community comments scraped", logger.StringField("stock_code", code), logger.IntField("count", len(comments)))
	return comments, nil
}
