// Package pagination implements page-number pagination: a 1-indexed page
// number plus a client-overridable page size with a server-side cap.
package pagination

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	PageQueryParam     = "page"
	PageSizeQueryParam = "page_size"

	// LastPage may be passed as the page number to select the final page.
	LastPage = "last"

	DefaultPageSize = 10
	MaxPageSize     = 100
)

// InvalidPageMessage is the client-facing message for ErrInvalidPage.
const InvalidPageMessage = "Invalid page."

// ErrInvalidPage is returned when the requested page is not an integer, is
// below 1, or lies past the last page.
var ErrInvalidPage = errors.New("invalid page")

// Config holds the page size policy.
type Config struct {
	DefaultPageSize int
	MaxPageSize     int
}

// DefaultConfig is a page size of 10 capped at 100.
func DefaultConfig() Config {
	return Config{DefaultPageSize: DefaultPageSize, MaxPageSize: MaxPageSize}
}

// Request is an unresolved page request. Page is kept raw because its
// validity can only be decided once the total count is known.
type Request struct {
	Page string
	Size int
}

// FromQuery reads page and page_size from query parameters. An unusable
// page_size falls back to the default; an oversized one is capped.
func (c Config) FromQuery(q url.Values) Request {
	return Request{
		Page: q.Get(PageQueryParam),
		Size: c.pageSize(q),
	}
}

func (c Config) pageSize(q url.Values) int {
	def := c.DefaultPageSize
	if def <= 0 {
		def = DefaultPageSize
	}
	raw, ok := q[PageSizeQueryParam]
	if !ok || len(raw) == 0 {
		return def
	}
	size, err := strconv.Atoi(strings.TrimSpace(raw[0]))
	if err != nil || size <= 0 {
		return def
	}
	if c.MaxPageSize > 0 && size > c.MaxPageSize {
		return c.MaxPageSize
	}
	return size
}

// Page describes a resolved page within a result set of Count items.
type Page struct {
	Number   int
	Size     int
	Count    int
	NumPages int
}

// Resolve validates req against the total count. Page 1 of an empty result
// set is valid; every other out-of-range page is ErrInvalidPage.
func Resolve(req Request, count int) (Page, error) {
	size := req.Size
	if size <= 0 {
		size = DefaultPageSize
	}

	numPages := 1
	if count > 0 {
		numPages = (count + size - 1) / size
	}

	raw := strings.TrimSpace(req.Page)
	number := 1
	switch {
	case raw == "":
	case raw == LastPage:
		number = numPages
	default:
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > numPages {
			return Page{}, ErrInvalidPage
		}
		number = n
	}

	return Page{Number: number, Size: size, Count: count, NumPages: numPages}, nil
}

// Offset is the number of rows to skip to reach this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Limit is the number of rows on a full page.
func (p Page) Limit() int {
	return p.Size
}

func (p Page) HasNext() bool {
	return p.Number < p.NumPages
}

func (p Page) HasPrevious() bool {
	return p.Number > 1
}

// Links builds absolute next and previous URLs from the current request URL.
// The previous link to page 1 drops the page parameter altogether.
func (p Page) Links(current *url.URL) (next, previous *string) {
	if p.HasNext() {
		next = withPage(current, p.Number+1)
	}
	if p.HasPrevious() {
		previous = withPage(current, p.Number-1)
	}
	return next, previous
}

func withPage(current *url.URL, number int) *string {
	u := *current
	q := u.Query()
	if number == 1 {
		q.Del(PageQueryParam)
	} else {
		q.Set(PageQueryParam, strconv.Itoa(number))
	}
	u.RawQuery = q.Encode()
	s := u.String()
	return &s
}

// RequestURL reconstructs the absolute URL of r.
func RequestURL(r *http.Request) *url.URL {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return &url.URL{
		Scheme:   scheme,
		Host:     r.Host,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
	}
}
