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
	"regexp"
	"sort"
	"strings"
)

// Structural robots.txt line patterns, compiled once at init and read-only
// afterwards so they are safe for concurrent reuse.
var (
	userAgentPattern = regexp.MustCompile(`^User-agent:\s+(.+)$`)
	allowPattern     = regexp.MustCompile(`^Allow:\s+(.+)$`)
	disallowPattern  = regexp.MustCompile(`^Disallow:\s+(.+)$`)
)

// RobotRule is a single compiled Allow/Disallow directive scoped to a site root.
// The pattern matches complete absolute URLs, never substrings, so a rule
// anchored to http://www.example.com can never leak onto another scheme,
// subdomain or trailing path segment.
type RobotRule struct {
	pattern *regexp.Regexp
	// Allow reports whether the source directive was "Allow:" (true) or
	// "Disallow:" (false)
	Allow bool
	// priority is the length of the raw path text from the directive,
	// before wildcard expansion. Longer (more specific) paths win.
	priority int
}

// compileRulePattern turns one raw robots.txt path into an anchored matcher
// over absolute URL strings, plus the rule's priority.
//
// A directory rule like "Disallow: /data/" recursively covers its contents,
// so a trailing "/" gets a wildcard appended before compilation. Everything
// with regexp significance in the root+path concatenation is escaped (URLs
// legitimately contain ".", "+", "?" and friends), then the robots.txt
// wildcard marker is reintroduced as "match any sequence".
func compileRulePattern(rootURL, rawPath string) (*regexp.Regexp, int, error) {
	priority := len(rawPath)
	if strings.HasSuffix(rawPath, "/") {
		rawPath += "*"
	}
	quoted := regexp.QuoteMeta(rootURL + rawPath)
	expr := "^" + strings.ReplaceAll(quoted, `\*`, ".*") + "$"
	pattern, err := regexp.Compile(expr)
	if err != nil {
		return nil, 0, err
	}
	return pattern, priority, nil
}

// newRobotRule compiles a RobotRule from a site root and a raw directive path
func newRobotRule(rootURL, rawPath string, allow bool) (RobotRule, error) {
	pattern, priority, err := compileRulePattern(rootURL, rawPath)
	if err != nil {
		return RobotRule{}, err
	}
	return RobotRule{pattern: pattern, Allow: allow, priority: priority}, nil
}

// Match reports whether the rule covers the given absolute URL
func (r RobotRule) Match(url string) bool {
	return r.pattern.MatchString(url)
}

// Priority returns the rule's specificity score. It is non-negative and
// stable for a given raw directive text.
func (r RobotRule) Priority() int {
	return r.priority
}

// RobotsPolicy answers allow/disallow queries for absolute URLs. The
// concrete implementation is a RuleSet built once per crawl session;
// alternate policies plug in via this interface.
type RobotsPolicy interface {
	// IsAllowed reports whether the crawl policy permits fetching url
	IsAllowed(url string) bool
}

// RuleSet is the RobotsPolicy backed by a site's robots.txt document.
// Rules are held in priority order (descending); ties between rules of
// equal priority keep their original document order. The de-facto robots
// standard leaves wildcard tie-breaking undefined, so document order is
// this implementation's explicit policy choice, not a guarantee inherited
// from the standard.
type RuleSet struct {
	rules []RobotRule
}

// ParseRobots builds a RuleSet from a robots.txt document.
//
// The document is scanned line by line. A "User-agent:" line opens a new
// group and marks it relevant when its agent token is one of relevantAgents
// (typically just "*"); the flag persists until the next "User-agent:" line.
// Inside a relevant group, Allow/Disallow lines compile into rules; blank
// lines, comments, Sitemap entries and directives in irrelevant groups are
// all ignored.
func ParseRobots(rootURL, document string, relevantAgents []string) (*RuleSet, error) {
	agents := make(map[string]bool, len(relevantAgents))
	for _, agent := range relevantAgents {
		agents[agent] = true
	}

	var rules []RobotRule
	inRelevantGroup := false
	for _, line := range strings.Split(document, "\n") {
		line = strings.TrimRight(line, "\r")
		if m := userAgentPattern.FindStringSubmatch(line); m != nil {
			inRelevantGroup = agents[m[1]]
			continue
		}
		if !inRelevantGroup {
			continue
		}
		var rawPath string
		allow := false
		if m := allowPattern.FindStringSubmatch(line); m != nil {
			rawPath = m[1]
			allow = true
		} else if m := disallowPattern.FindStringSubmatch(line); m != nil {
			rawPath = m[1]
		} else {
			continue
		}
		rule, err := newRobotRule(rootURL, rawPath, allow)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}

	// Stable: equal-priority rules keep document order
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].priority > rules[j].priority
	})
	return &RuleSet{rules: rules}, nil
}

// IsAllowed scans the rules in priority order and returns the decision
// of the first rule that matches. A URL no rule covers is allowed.
func (rs *RuleSet) IsAllowed(url string) bool {
	for _, rule := range rs.rules {
		if rule.Match(url) {
			return rule.Allow
		}
	}
	return true
}

// Len returns the number of compiled rules
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// Rules returns the compiled rules in evaluation order
func (rs *RuleSet) Rules() []RobotRule {
	return rs.rules
}
