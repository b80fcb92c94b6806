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
	"net/url"
	"regexp"

	whatwgUrl "github.com/nlnwa/whatwg-url/url"
)

var urlParser = whatwgUrl.NewParser(whatwgUrl.WithPercentEncodeSinglePercentSign())

// candidateURLPattern matches strings shaped like an absolute or relative
// URL. It rejects the href noise found in real pages: mailto: links, phone
// numbers, empty strings and anything containing illegal whitespace.
var candidateURLPattern = regexp.MustCompile(`^(?:http(s)?://)?[\w.-]+(?:\.[\w.-]+)+[\w\-._~:/?#[\]@!$&'()*+,;=]+$`)

// isCandidateURL reports whether href is worth resolving at all. Plenty of
// <a> tags carry no href attribute, so the caller may pass an empty string.
func isCandidateURL(href string) bool {
	return href != "" && candidateURLPattern.MatchString(href)
}

// resolveURLs turns raw hrefs extracted from a page into absolute URLs.
// An href with no host component is treated as relative and joined against
// the parent page URL per WHATWG resolution rules; hrefs that are already
// absolute pass through unchanged. Hrefs that fail both interpretations are
// dropped. The result preserves discovery order with duplicates removed.
func resolveURLs(parentURL string, hrefs []string) []string {
	resolved := make([]string, 0, len(hrefs))
	seen := make(map[string]bool, len(hrefs))
	for _, href := range hrefs {
		if !isCandidateURL(href) {
			continue
		}
		absolute := href
		if parsed, err := url.Parse(href); err != nil || parsed.Host == "" {
			joined, err := urlParser.ParseRef(parentURL, href)
			if err != nil {
				continue
			}
			absolute = joined.Href(false)
		}
		if !seen[absolute] {
			seen[absolute] = true
			resolved = append(resolved, absolute)
		}
	}
	return resolved
}

// localURLPattern compiles the matcher used to restrict a crawl to its
// target domain: http or https scheme and an exact host match. The domain
// is expected to carry its trailing slash so that the host cannot match a
// prefix of a longer hostname.
func localURLPattern(domain string) *regexp.Regexp {
	return regexp.MustCompile(`^(http|https)://` + regexp.QuoteMeta(domain) + `.*$`)
}

// filterLocal keeps only the URLs on the crawl's target domain
func filterLocal(urls []string, domainPattern *regexp.Regexp) []string {
	local := make([]string, 0, len(urls))
	for _, u := range urls {
		if domainPattern.MatchString(u) {
			local = append(local, u)
		}
	}
	return local
}

// normalizeURL reparses a URL to fix ambiguities such as
// "http://example.com" vs "http://example.com/"
func normalizeURL(u string) string {
	parsed, err := urlParser.Parse(u)
	if err != nil {
		return u
	}
	return parsed.String()
}
