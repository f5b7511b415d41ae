package model

import (
	"net/http"
	"time"
)

// Request is the backend-neutral fetch request used by probes.
type Request struct {
	Method  string
	URL     string
	Headers http.Header
	Body    []byte

	// FollowRedirects controls redirect handling; sensitive-path checks
	// need redirects left alone so a 302 still counts as "present".
	FollowRedirects bool
}

// Response is the backend-neutral fetch result.
type Response struct {
	Request    *Request
	Headers    http.Header
	Cookies    []*http.Cookie
	Body       []byte
	StatusCode int
	FetchedAt  time.Time
}
