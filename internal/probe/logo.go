// SPDX-License-Identifier: MIT

package probe

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	// Formats registered for image.Decode. The stdlib covers png/jpeg/gif;
	// webp and bmp come up often enough in logo packs to be worth decoding.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/YuQing-Ding/IPTV-Editor/internal/metrics"
)

// LogoStatus is the outcome of a logo reachability check.
type LogoStatus string

const (
	LogoNotSet        LogoStatus = "NOT_SET"
	LogoOK            LogoStatus = "OK"
	LogoFail          LogoStatus = "FAIL"
	LogoIndeterminate LogoStatus = "INDETERMINATE"
)

// LogoResult is the outcome of a single logo check.
type LogoResult struct {
	Status LogoStatus `json:"status"`
	Detail string     `json:"detail"`
}

const (
	// DefaultLogoTimeout bounds a logo fetch.
	DefaultLogoTimeout = 5 * time.Second

	logoUserAgent = "Mozilla/5.0 (IPTV-Editor Logo-Checker)"
)

// CheckLogo fetches rawURL and reports whether its bytes decode as a
// displayable image. A body that downloads but does not decode reports
// INDETERMINATE rather than FAIL: formats like SVG may not decode locally
// yet still work downstream. A non-positive timeout means
// DefaultLogoTimeout.
func (c *Checker) CheckLogo(ctx context.Context, rawURL string, timeout time.Duration) LogoResult {
	if timeout <= 0 {
		timeout = DefaultLogoTimeout
	}
	finish := func(res LogoResult) LogoResult {
		metrics.RecordLogoCheck(strings.ToLower(string(res.Status)))
		return res
	}

	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return finish(LogoResult{Status: LogoNotSet, Detail: "logo not set"})
	}
	if c == nil || c.client == nil {
		return finish(LogoResult{Status: LogoIndeterminate, Detail: "HTTP capability unavailable"})
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return finish(LogoResult{Status: LogoFail, Detail: "network error: " + err.Error()})
	}
	req.Header.Set("User-Agent", logoUserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return finish(LogoResult{Status: LogoFail, Detail: "network error: " + err.Error()})
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return finish(LogoResult{Status: LogoFail, Detail: fmt.Sprintf("HTTP %d", resp.StatusCode)})
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return finish(LogoResult{Status: LogoFail, Detail: "network error: " + err.Error()})
	}
	ctype := strings.ToLower(resp.Header.Get("Content-Type"))

	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		return finish(LogoResult{
			Status: LogoIndeterminate,
			Detail: fmt.Sprintf("downloaded but undecodable, %d bytes, content-type=%s", len(data), ctype),
		})
	}
	return finish(LogoResult{
		Status: LogoOK,
		Detail: fmt.Sprintf("logo ok, %d bytes, content-type=%s", len(data), ctype),
	})
}
