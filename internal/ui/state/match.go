package state

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// term is one space separated piece of a query, using the subset of fzf's
// extended search syntax the picker understands:
//
//	abc    fuzzy match
//	'abc   substring match
//	^abc   prefix match
//	abc$   suffix match
//	!abc   inverse substring match
type term struct {
	text   string
	exact  bool
	prefix bool
	suffix bool
	negate bool
}

func parseTerms(query string) []term {
	fields := strings.Fields(query)
	terms := make([]term, 0, len(fields))
	for _, f := range fields {
		var t term
		if strings.HasPrefix(f, "!") {
			t.negate, t.exact = true, true
			f = f[1:]
		}
		switch {
		case strings.HasPrefix(f, "'"):
			t.exact = true
			f = f[1:]
		case strings.HasPrefix(f, "^"):
			t.prefix = true
			f = f[1:]
		}
		if strings.HasSuffix(f, "$") && len(f) > 1 {
			t.suffix = true
			f = f[:len(f)-1]
		}
		if f == "" {
			continue
		}
		t.text = strings.ToLower(f)
		terms = append(terms, t)
	}
	return terms
}

func (t term) matches(text string) bool {
	lower := strings.ToLower(text)
	var ok bool
	switch {
	case t.prefix && t.suffix:
		ok = lower == t.text
	case t.prefix:
		ok = strings.HasPrefix(lower, t.text)
	case t.suffix:
		ok = strings.HasSuffix(lower, t.text)
	case t.exact:
		ok = strings.Contains(lower, t.text)
	default:
		ok = fuzzy.MatchNormalizedFold(t.text, text)
	}
	return ok != t.negate
}

// Match reports whether text satisfies every term of query. An empty query
// matches everything.
func Match(query, text string) bool {
	for _, t := range parseTerms(query) {
		if !t.matches(text) {
			return false
		}
	}
	return true
}

// Filter returns the items matching query. Input order is kept, the way
// `fzf --no-sort` presents a commit log.
func Filter(items []Item, query string) []Item {
	terms := parseTerms(query)
	out := make([]Item, 0, len(items))
next:
	for _, item := range items {
		for _, t := range terms {
			if !t.matches(item.Text) {
				continue next
			}
		}
		out = append(out, item)
	}
	return out
}
