// Copyright 2025 Agentic World, LLC (Sherin Thomas)
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
	"net/http"
	"testing"

	"github.com/LachlanMarnham/aragog/debug"
)

const testBaseURL = "http://test.local"

var robotsFile = `User-agent: *
Disallow: /secret.html
Disallow: /pics/private/
Disallow: */restrict*?wghky
Disallow: */restrict*&wghky
Allow: */restrict*?pg=

Sitemap: http://test.local/sitemap.xml

User-agent: AdsBot-Google-Mobile-Apps
Allow: /intl/`

var indexPage = `<!DOCTYPE html>
<html>
<head><title>Test Site</title></head>
<body>
<a href="http://test.local/a.html">a</a>
<a href="b.html">b</a>
<a href="mailto:someone@test.local">mail</a>
<a href="http://test.local/secret.html">secret</a>
<a href="http://elsewhere.example/offsite.html">offsite</a>
</body>
</html>`

// setupMockTransport creates a new MockTransport with all test endpoints registered
func setupMockTransport() *MockTransport {
	mock := NewMockTransport()

	mock.RegisterRobots(testBaseURL, robotsFile)
	mock.RegisterHTML(testBaseURL+"/", indexPage)
	mock.RegisterHTML(testBaseURL+"/a.html", `<html><head><title>A</title></head><body><a href="b.html">b</a></body></html>`)
	mock.RegisterHTML(testBaseURL+"/b.html", `<html><head><title>B</title></head><body><a href="http://test.local/">home</a></body></html>`)
	mock.RegisterHTML(testBaseURL+"/secret.html", `<html><head><title>Secret</title></head><body></body></html>`)

	return mock
}

// newTestCrawler creates a crawler for test.local wired to the mock transport,
// with an unthrottled rate limit so tests run fast
func newTestCrawler(t *testing.T, mock *MockTransport) *Crawler {
	t.Helper()

	config := NewDefaultConfig()
	config.Domain = "test.local"
	config.Schema = "http://"
	config.MaxRate = 100000

	c, err := NewCrawler(config)
	if err != nil {
		t.Fatalf("NewCrawler() failed: %v", err)
	}
	c.SetClient(&http.Client{Transport: mock})
	return c
}

// countingDebugger tallies debugger events by type
type countingDebugger struct {
	byType map[string]int
}

func (d *countingDebugger) Init() error {
	d.byType = make(map[string]int)
	return nil
}

func (d *countingDebugger) Event(e *debug.Event) {
	d.byType[e.Type]++
}
