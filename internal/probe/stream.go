// SPDX-License-Identifier: MIT

// Package probe classifies remote stream URLs and logo images by liveness
// using a layered HTTP heuristic. Checks never return an error: every code
// path, including timeouts and malformed URLs, terminates in a classified
// result with a diagnostic detail.
package probe

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/YuQing-Ding/IPTV-Editor/internal/metrics"
)

// Classification is the three-valued outcome of a stream check.
type Classification string

const (
	Reachable     Classification = "REACHABLE"
	Unreachable   Classification = "UNREACHABLE"
	Indeterminate Classification = "INDETERMINATE"
)

// Result is the outcome of a single stream liveness check.
type Result struct {
	Class     Classification `json:"classification"`
	Detail    string         `json:"detail"`
	ElapsedMS int64          `json:"elapsed_ms"`
}

const (
	// DefaultStreamTimeout bounds the read phase of a stream check when the
	// caller does not supply a timeout.
	DefaultStreamTimeout = 6 * time.Second

	connectTimeout  = 3 * time.Second
	sniffBytes      = 2048
	streamUserAgent = "Mozilla/5.0 (IPTV-Editor Stream-Checker)"
)

// Checker performs stream and logo checks over a shared HTTP client. The
// zero Checker (nil client) has no HTTP capability and classifies every
// network-dependent check as INDETERMINATE.
type Checker struct {
	client *http.Client
}

// NewChecker returns a Checker backed by a shared, redirect-following HTTP
// client with a bounded connect timeout and an instrumented transport.
func NewChecker() *Checker {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout: connectTimeout,
		}).DialContext,
		MaxIdleConns:        32,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: connectTimeout,
	}
	return &Checker{
		client: &http.Client{
			Transport: otelhttp.NewTransport(transport),
		},
	}
}

// NewCheckerWithClient returns a Checker using the supplied client. A nil
// client disables HTTP entirely.
func NewCheckerWithClient(client *http.Client) *Checker {
	return &Checker{client: client}
}

// CheckStream classifies rawURL without downloading the stream: a HEAD
// request first, then a ranged GET sniffing the first 2 KiB of the body.
// timeout bounds the read phase of each request; zero means
// DefaultStreamTimeout.
func (c *Checker) CheckStream(ctx context.Context, rawURL string, timeout time.Duration) Result {
	start := time.Now()
	finish := func(class Classification, detail string) Result {
		res := Result{Class: class, Detail: detail, ElapsedMS: time.Since(start).Milliseconds()}
		metrics.RecordStreamCheck(string(res.Class), time.Since(start).Seconds())
		return res
	}

	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		res := Result{Class: Unreachable, Detail: "Empty URL", ElapsedMS: 0}
		metrics.RecordStreamCheck(string(res.Class), 0)
		return res
	}

	scheme := ""
	if u, err := url.Parse(rawURL); err == nil {
		scheme = strings.ToLower(u.Scheme)
	}
	if scheme != "" && scheme != "http" && scheme != "https" {
		// udp/rtmp and friends cannot be cheaply probed over HTTP
		return finish(Indeterminate, "non-HTTP scheme: "+scheme)
	}

	if c == nil || c.client == nil {
		return finish(Indeterminate, "HTTP capability unavailable")
	}

	if timeout <= 0 {
		timeout = DefaultStreamTimeout
	}

	// Layer 1: HEAD. Any failure falls through to the ranged GET. Each
	// layer gets its own deadline, matching the per-request timeouts.
	if class, detail, ok := c.tryHead(ctx, rawURL, timeout); ok {
		return finish(class, detail)
	}

	class, detail := c.rangedGet(ctx, rawURL, timeout)
	return finish(class, detail)
}

func (c *Checker) tryHead(ctx context.Context, rawURL string, timeout time.Duration) (Classification, string, bool) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return "", "", false
	}
	req.Header.Set("User-Agent", streamUserAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", "", false
	}
	defer func() { _ = resp.Body.Close() }()

	code := resp.StatusCode
	ctype := strings.ToLower(resp.Header.Get("Content-Type"))
	if code >= 200 && code < 400 && (isHLSContentType(ctype) || isVideoContentType(ctype)) {
		return Reachable, fmt.Sprintf("HEAD %d %s", code, ctype), true
	}
	return "", "", false
}

func (c *Checker) rangedGet(ctx context.Context, rawURL string, timeout time.Duration) (Classification, string) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Unreachable, "Error: " + err.Error()
	}
	req.Header.Set("User-Agent", streamUserAgent)
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Range", fmt.Sprintf("bytes=0-%d", sniffBytes-1))

	resp, err := c.client.Do(req)
	if err != nil {
		return Unreachable, "Error: " + err.Error()
	}
	defer func() { _ = resp.Body.Close() }()

	code := resp.StatusCode
	ctype := strings.ToLower(resp.Header.Get("Content-Type"))

	// First chunk only; the remainder of the body is discarded unread.
	head := make([]byte, sniffBytes)
	n, _ := io.ReadFull(resp.Body, head)
	textHead := strings.ToValidUTF8(string(head[:n]), "")

	if (code >= 200 && code < 400) || code == http.StatusPartialContent {
		switch {
		case strings.Contains(textHead, "#EXTM3U"):
			return Reachable, fmt.Sprintf("GET %d looks like M3U8", code)
		case isVideoContentType(ctype):
			return Reachable, fmt.Sprintf("GET %d %s", code, ctype)
		default:
			// transport reachable but content unconfirmed
			return Indeterminate, fmt.Sprintf("GET %d uncertain content-type: %s", code, ctype)
		}
	}
	return Unreachable, fmt.Sprintf("HTTP %d", code)
}

func isHLSContentType(ctype string) bool {
	return strings.Contains(ctype, "application/vnd.apple.mpegurl") ||
		strings.Contains(ctype, "application/x-mpegurl")
}

func isVideoContentType(ctype string) bool {
	return strings.HasPrefix(ctype, "video/") ||
		strings.Contains(ctype, "octet-stream") ||
		strings.Contains(ctype, "mpeg")
}
