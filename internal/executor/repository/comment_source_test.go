package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"golang-finance-insight/internal/executor/config"
	"golang-finance-insight/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchPage = `<html><body>
<ul class="results">
  <li><a class="result" href="/news/123">news</a></li>
  <li><a class="result" href="/stocks/A005930/overview"><span class="name">삼성전자</span></a></li>
</ul>
</body></html>`

const communityPage = `<html><body>
<div class="comment">
  <span class="author">개미1</span><p class="content">  가즈아 🚀  </p><span class="likes">1,204</span><time>3시간 전</time>
</div>
<div class="comment">
  <span class="author">개미2</span><p class="content">폭락 ㅠㅠ</p><span class="likes">7</span><time>어제 10:30</time>
</div>
<div class="comment">
  <span class="author">개미3</span><p class="content">관망</p><span class="likes"></span><time>방금</time>
</div>
</body></html>`

func newHTMLTestConfig(baseURL string) *config.Config {
	return &config.Config{CommentSource: config.CommentSource{
		Provider:        "html",
		RequestTimeout:  5 * time.Second,
		MaxComments:     2,
		ResolveCacheTTL: time.Minute,
		HTML: config.HTMLSource{
			SearchURL:       baseURL + "/search?q=%s",
			CommunityURL:    baseURL + "/stocks/%s/community",
			ResultSelector:  "a.result",
			NameSelector:    ".name",
			CommentSelector: "div.comment",
			AuthorSelector:  ".author",
			ContentSelector: ".content",
			LikesSelector:   ".likes",
			TimeSelector:    "time",
		},
	}}
}

func TestHTMLCommentSource_Fetch(t *testing.T) {
	var searches int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			atomic.AddInt32(&searches, 1)
			if r.URL.Query().Get("q") == "없는회사" {
				fmt.Fprint(w, `<html><body><a class="result" href="/news/1">x</a></body></html>`)
				return
			}
			fmt.Fprint(w, searchPage)
		case "/stocks/005930/community":
			fmt.Fprint(w, communityPage)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	source, err := NewCommentSource(newHTMLTestConfig(srv.URL), logger.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	name, code, comments, err := source.Fetch(ctx, "삼성")
	require.NoError(t, err)
	require.NotNil(t, code)
	assert.Equal(t, "005930", *code)
	assert.Equal(t, "삼성전자", name)
	require.Len(t, comments, 2)
	assert.Equal(t, "개미1", comments[0].Author)
	assert.Equal(t, "가즈아 🚀", comments[0].Content)
	assert.Equal(t, 1204, comments[0].Likes)
	assert.Equal(t, "3시간 전", comments[0].WrittenAt)

	_, _, _, err = source.Fetch(ctx, "삼성")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&searches), "resolution is cached")

	name, code, comments, err = source.Fetch(ctx, "없는회사")
	require.NoError(t, err)
	assert.Nil(t, code)
	assert.Equal(t, "없는회사", name)
	assert.NotNil(t, comments)
	assert.Empty(t, comments)
}

func TestHTMLCommentSource_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	source := NewHTMLCommentSource(newHTMLTestConfig(srv.URL), logger.NewNop())

	_, code, comments, err := source.Fetch(context.Background(), "삼성")
	assert.Error(t, err)
	assert.Nil(t, code)
	assert.NotNil(t, comments)
}

const discussionFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Discussion</title>
  <link>https://community.example.com/stocks/A000660/community</link>
  <description>board</description>
  <item>
    <title>post 1</title>
    <author>trader@example.com (트레이더)</author>
    <description><![CDATA[<p>실적 <b>좋다</b></p>]]></description>
    <pubDate>Mon, 13 Oct 2026 09:30:00 +0900</pubDate>
  </item>
  <item>
    <title>post 2</title>
    <description>손절각</description>
    <pubDate>Tue, 14 Oct 2026 10:00:00 +0900</pubDate>
  </item>
</channel>
</rss>`

func TestRSSCommentSource_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "SK하이닉스" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, discussionFeed)
	}))
	defer srv.Close()

	cfg := &config.Config{CommentSource: config.CommentSource{
		Provider:       "rss",
		RequestTimeout: 5 * time.Second,
		RSS:            config.RSSSource{FeedURL: srv.URL + "/feed?q=%s"},
	}}
	source, err := NewCommentSource(cfg, logger.NewNop())
	require.NoError(t, err)

	name, code, comments, err := source.Fetch(context.Background(), "SK하이닉스")
	require.NoError(t, err)
	require.NotNil(t, code)
	assert.Equal(t, "000660", *code)
	assert.Equal(t, "SK하이닉스", name)
	require.Len(t, comments, 2)
	assert.Equal(t, "실적 좋다", comments[0].Content)
	assert.Equal(t, "Mon, 13 Oct 2026 09:30:00 +0900", comments[0].WrittenAt)
	assert.Equal(t, "손절각", comments[1].Content)

	_, code, comments, err = source.Fetch(context.Background(), "Nonexistent Corp")
	require.NoError(t, err)
	assert.Nil(t, code)
	assert.Empty(t, comments)
}

func TestNewCommentSource_UnknownProvider(t *testing.T) {
	_, err := NewCommentSource(&config.Config{CommentSource: config.CommentSource{Provider: "ftp"}}, logger.NewNop())
	assert.Error(t, err)
}

func TestExtractStockCode(t *testing.T) {
	code, ok := extractStockCode("https://x.com/stocks/A005930/community")
	assert.True(t, ok)
	assert.Equal(t, "005930", code)

	code, ok = extractStockCode("/stocks/373220")
	assert.True(t, ok)
	assert.Equal(t, "373220", code)

	_, ok = extractStockCode("/news/005930")
	assert.False(t, ok)
}
