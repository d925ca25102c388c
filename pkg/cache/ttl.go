package cache

import (
	"strings"
	"time"
)

// TTLs per resource volatility. Grades and submissions change within
// minutes; course metadata and files rarely change within a session.
const (
	TTLShort  = 5 * time.Minute
	TTLMedium = 10 * time.Minute
	TTLLong   = 30 * time.Minute

	// DefaultTTL applies when no rule matches.
	DefaultTTL = TTLShort
)

// ttlRule binds a resource category to a key matcher and a TTL.
type ttlRule struct {
	category string
	match    func(key string) bool
	ttl      time.Duration
}

// TTLPolicy is an ordered rule table mapping cache keys to TTLs.
// Rules are evaluated top to bottom; the first match wins.
type TTLPolicy struct {
	rules    []ttlRule
	fallback time.Duration
}

// DefaultTTLPolicy returns the standard Canvas resource policy.
func DefaultTTLPolicy() *TTLPolicy {
	return &TTLPolicy{
		rules: []ttlRule{
			{
				category: "user",
				match:    containsAny("user", "profile"),
				ttl:      TTLLong,
			},
			{
				// Course metadata, but not course sub-resources like
				// assignments which have their own volatility.
				category: "course",
				match: func(key string) bool {
					return strings.Contains(key, "course") && !strings.Contains(key, "assignment")
				},
				ttl: TTLLong,
			},
			{category: "assignment", match: containsAny("assignment"), ttl: TTLShort},
			{category: "submission", match: containsAny("submission"), ttl: TTLShort},
			{category: "module", match: containsAny("module"), ttl: TTLMedium},
			{category: "file", match: containsAny("file", "folder"), ttl: TTLLong},
			{category: "discussion", match: containsAny("discussion"), ttl: TTLMedium},
			{category: "announcement", match: containsAny("announcement"), ttl: TTLShort},
			{category: "planner", match: containsAny("planner", "todo"), ttl: TTLShort},
			{category: "grade", match: containsAny("grade", "enrollment"), ttl: TTLShort},
		},
		fallback: DefaultTTL,
	}
}

// TTLFor returns the TTL for a cache key.
func (p *TTLPolicy) TTLFor(key string) time.Duration {
	for _, rule := range p.rules {
		if rule.match(key) {
			return rule.ttl
		}
	}
	return p.fallback
}

// CategoryFor returns the matched category name, or "default".
func (p *TTLPolicy) CategoryFor(key string) string {
	for _, rule := range p.rules {
		if rule.match(key) {
			return rule.category
		}
	}
	return "default"
}

func containsAny(substrings ...string) func(key string) bool {
	return func(key string) bool {
		for _, sub := range substrings {
			if strings.Contains(key, sub) {
				return true
			}
		}
		return false
	}
}
