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
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/kennygrant/sanitize"
)

var whitespacePattern = regexp.MustCompile(`\s+`)

// extractHrefs returns the raw href attribute values of every anchor tag in
// the page, in document order, unvalidated. Hrefs are frequently garbage
// (empty, mailto:, phone numbers); validation is the normalizer's job.
func extractHrefs(pageHTML []byte) []string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(pageHTML))
	if err != nil {
		return nil
	}
	var hrefs []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			hrefs = append(hrefs, href)
		}
	})
	return hrefs
}

// extractTitle returns the page title with markup stripped and whitespace
// collapsed, safe for log output. Empty when the page has no <title>.
func extractTitle(pageHTML []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(pageHTML))
	if err != nil {
		return ""
	}
	title := sanitize.HTML(doc.Find("title").First().Text())
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(title, " "))
}
