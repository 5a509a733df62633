// internal/workers/affiliate/resolve-link/handler_test.go
package resolvelink

import (
	"context"
	"errors"
	"net/url"
	"testing"

	apperrors "moonlight-diary/internal/common/errors"
	"moonlight-diary/internal/common/logger"
	affiliatelookup "moonlight-diary/internal/workers/affiliate/affiliate-lookup"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLookup struct {
	link     string
	err      error
	keywords []string
}

func (s *stubLookup) Lookup(ctx context.Context, keyword string) (string, error) {
	s.keywords = append(s.keywords, keyword)
	return s.link, s.err
}

func newTestHandler(t *testing.T, lookup affiliatelookup.Lookuper) (*Handler, *[]string) {
	var recorded []string
	errHandler := apperrors.NewErrorHandler(logger.NewTestLogger(t), func(code, recovery string) {
		recorded = append(recorded, code)
	})
	return NewHandler(LoadConfig(), lookup, errHandler, logger.NewTestLogger(t)), &recorded
}

func TestHandler_Resolve_LookupHit(t *testing.T) {
	lookup := &stubLookup{link: "https://link.coupang.com/a/abc"}
	h, recorded := newTestHandler(t, lookup)

	out := h.Execute(context.Background(), &Input{Keyword: "  라벤더 캔들 "})
	assert.Equal(t, "https://link.coupang.com/a/abc", out.Link)
	assert.Equal(t, SourceLookup, out.Source)
	assert.Equal(t, []string{"라벤더 캔들"}, lookup.keywords)
	assert.Empty(t, *recorded)
}

func TestHandler_Resolve_Fallbacks(t *testing.T) {
	tests := []struct {
		name     string
		keyword  string
		err      error
		wantLink string
		wantCode string
	}{
		{
			name:     "empty result set",
			keyword:  "라벤더 캔들",
			err:      affiliatelookup.ErrNoProduct,
			wantLink: "https://www.coupang.com/np/search?component=&q=%EB%9D%BC%EB%B2%A4%EB%8D%94%20%EC%BA%94%EB%93%A4&channel=user",
			wantCode: "AFFILIATE_NO_PRODUCT",
		},
		{
			name:     "missing credentials",
			keyword:  "허브티",
			err:      affiliatelookup.ErrCredentialsMissing,
			wantLink: "https://www.coupang.com/np/search?component=&q=%ED%97%88%EB%B8%8C%ED%8B%B0&channel=user",
			wantCode: "AFFILIATE_CREDENTIALS_MISSING",
		},
		{
			name:     "transport error",
			keyword:  "tea & honey",
			err:      errors.New("dial tcp: i/o timeout"),
			wantLink: "https://www.coupang.com/np/search?component=&q=tea%20%26%20honey&channel=user",
			wantCode: "AFFILIATE_REQUEST_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, recorded := newTestHandler(t, &stubLookup{err: tt.err})

			out := h.Execute(context.Background(), &Input{Keyword: tt.keyword})
			assert.Equal(t, tt.wantLink, out.Link)
			assert.Equal(t, SourceFallback, out.Source)
			assert.Equal(t, []string{tt.wantCode}, *recorded)
		})
	}
}

func TestHandler_Resolve_BlankKeywordSkipsLookup(t *testing.T) {
	lookup := &stubLookup{link: "https://link.coupang.com/a/abc"}
	h, _ := newTestHandler(t, lookup)

	for _, kw := range []string{"", "   ", "\n"} {
		link := h.Resolve(context.Background(), kw)
		assert.Equal(t, "https://www.coupang.com/np/search?component=&q=&channel=user", link)
	}
	assert.Empty(t, lookup.keywords)
}

func TestHandler_Resolve_AlwaysWellFormed(t *testing.T) {
	h := NewHandler(LoadConfig(), nil, nil, logger.NewNoOpLogger())

	for _, kw := range []string{"", "라벤더 캔들", "100% 면 수건", "a/b?c#d", "🌙 moon"} {
		link := h.Resolve(context.Background(), kw)
		require.NotEmpty(t, link)

		u, err := url.Parse(link)
		require.NoError(t, err, kw)
		assert.Equal(t, "https", u.Scheme)
		assert.Equal(t, "www.coupang.com", u.Host)
		assert.Equal(t, kw, u.Query().Get("q"))
	}
}

func TestHandler_Resolve_EmptyLinkFromLookup(t *testing.T) {
	h, recorded := newTestHandler(t, &stubLookup{link: ""})
	out := h.Execute(context.Background(), &Input{Keyword: "캔들"})
	assert.Equal(t, SourceFallback, out.Source)
	assert.Empty(t, *recorded)
}
