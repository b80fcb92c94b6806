// Copyright 2025 Agentic World, LLC (Sherin Thomas)
//
// This file includes modifications to code originally developed by Adam Tauber,
// licensed under the Apache License, Version 2.0.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package aragog

import (
	"bytes"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// Response holds the result of a single fetch
type Response struct {
	// URL is the URL that was fetched
	URL string
	// StatusCode is the HTTP status code (e.g., 200, 404, 500)
	StatusCode int
	// Body is the raw response body, decoded to UTF-8 when charset
	// handling is enabled
	Body []byte
	// Headers are the response headers
	Headers *http.Header
}

// Text returns the response body as a string
func (r *Response) Text() string {
	return string(r.Body)
}

// IsHTML reports whether the response declared an HTML content type.
// Only HTML bodies are handed to the anchor extractor.
func (r *Response) IsHTML() bool {
	if r.Headers == nil {
		return false
	}
	return strings.Contains(strings.ToLower(r.Headers.Get("Content-Type")), "text/html")
}

// Transport retrieves the bytes behind an absolute URL. It fails with a
// transport-layer error on network or TLS failure; HTTP error statuses are
// reported through the Response, not the error.
type Transport interface {
	Fetch(url string) (*Response, error)
}

// httpBackend is the default Transport: a cookie-jarred http.Client with a
// request timeout, a User-Agent header, a response body size cap and
// optional charset detection for pages served without an explicit charset
// declaration.
type httpBackend struct {
	Client        *http.Client
	UserAgent     string
	MaxBodySize   int
	DetectCharset bool
}

func newHTTPBackend(userAgent string, timeout time.Duration, maxBodySize int, detectCharset bool) *httpBackend {
	jar, _ := cookiejar.New(nil)
	return &httpBackend{
		Client: &http.Client{
			Jar:     jar,
			Timeout: timeout,
		},
		UserAgent:     userAgent,
		MaxBodySize:   maxBodySize,
		DetectCharset: detectCharset,
	}
}

// Fetch implements Transport
func (h *httpBackend) Fetch(u string) (*Response, error) {
	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", h.UserAgent)

	res, err := h.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var bodyReader io.Reader = res.Body
	if h.MaxBodySize > 0 {
		bodyReader = io.LimitReader(bodyReader, int64(h.MaxBodySize))
	}
	body, err := io.ReadAll(bodyReader)
	if err != nil {
		return nil, err
	}

	contentType := strings.ToLower(res.Header.Get("Content-Type"))
	body, err = fixCharset(h.DetectCharset, contentType, body)
	if err != nil {
		return nil, err
	}

	return &Response{
		URL:        u,
		StatusCode: res.StatusCode,
		Body:       body,
		Headers:    &res.Header,
	}, nil
}

// fixCharset re-encodes the body to UTF-8. When detection is enabled and the
// server declared no charset, the body is sniffed with chardet; otherwise the
// declared charset label decides. UTF-8 bodies pass through untouched.
func fixCharset(detectCharset bool, contentType string, body []byte) ([]byte, error) {
	if strings.Contains(contentType, "image/") {
		// Not text. Leave it as it is.
		return body, nil
	}
	if detectCharset && !strings.Contains(contentType, "charset") {
		d := chardet.NewTextDetector()
		r, err := d.DetectBest(body)
		if err != nil {
			return body, nil
		}
		contentType = "text/plain; charset=" + strings.ToLower(r.Charset)
	}
	if contentType == "" ||
		strings.Contains(contentType, "utf-8") ||
		strings.Contains(contentType, "utf8") ||
		!strings.Contains(contentType, "charset") {
		return body, nil
	}
	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(reader)
}
