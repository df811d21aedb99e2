package httpx

import (
	"net/url"
	"strconv"
	"strings"
)

// pageOpts is the 1-based page a list view asked for.
type pageOpts struct {
	Page     int
	PageSize int
}

// getPageParams reads page and page_size. Missing, malformed or out-of-range
// values fall back to the first page of DefaultPageSize rows.
func getPageParams(q url.Values) pageOpts {
	return pageOpts{
		Page:     positiveParam(q, "page", 1, 0),
		PageSize: positiveParam(q, "page_size", DefaultPageSize, MaxPageSize),
	}
}

// positiveParam parses a positive integer no larger than ceiling, where a
// zero ceiling means no cap.
func positiveParam(q url.Values, key string, fallback, ceiling int) int {
	n, err := strconv.Atoi(q.Get(key))
	if err != nil || n <= 0 || (ceiling > 0 && n > ceiling) {
		return fallback
	}
	return n
}

// LimitAndOffset converts the page into service bounds.
func (p pageOpts) LimitAndOffset() (int, int) {
	size := p.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	page := max(p.Page, 1)
	return size, (page - 1) * size
}

// buildPageURL links to page p of basePath and keeps the caller's filters.
// Blank values, htmx bookkeeping params and one-shot toasts are dropped.
func buildPageURL(basePath string, q url.Values, p pageOpts) string {
	out := url.Values{}
	for key, values := range q {
		if key == "toast" || strings.HasPrefix(key, "hx-") || strings.HasPrefix(key, "hx_") {
			continue
		}
		for _, v := range values {
			if strings.TrimSpace(v) != "" {
				out.Add(key, v)
			}
		}
	}
	out.Set("page", strconv.Itoa(p.Page))
	out.Set("page_size", strconv.Itoa(p.PageSize))
	return basePath + "?" + out.Encode()
}
