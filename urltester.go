package spamlists

import (
	"strings"
)

// URLTesterChain tests URLs against a sequence of testers, in order. Bulk
// results are combined lazily: a tester is only queried once the results of
// the previous one are drained.
type URLTesterChain struct {
	testers []URLTester
}

var _ URLTester = &URLTesterChain{}

// NewURLTesterChain returns a tester combining all given testers.
func NewURLTesterChain(testers ...URLTester) *URLTesterChain {
	return &URLTesterChain{testers: testers}
}

func (c *URLTesterChain) AnyMatch(urls []string) (bool, error) {
	if err := validateURLs(urls); err != nil {
		return false, err
	}
	for _, t := range c.testers {
		match, err := t.AnyMatch(urls)
		if err != nil {
			return false, err
		}
		if match {
			return true, nil
		}
	}
	return false, nil
}

func (c *URLTesterChain) LookupMatching(urls []string) (*ItemSeq, error) {
	if err := validateURLs(urls); err != nil {
		return nil, err
	}
	var cur *ItemSeq
	i := 0
	return &ItemSeq{next: func() (*AddressListItem, bool, error) {
		for {
			if cur == nil {
				if i >= len(c.testers) {
					return nil, false, nil
				}
				seq, err := c.testers[i].LookupMatching(urls)
				if err != nil {
					return nil, false, err
				}
				cur = seq
				i++
			}
			if cur.Next() {
				return cur.Item(), true, nil
			}
			if err := cur.Err(); err != nil {
				return nil, false, err
			}
			cur = nil
		}
	}}, nil
}

// FilterMatching returns the URLs matched by any tester in the chain. A URL
// reported by an earlier tester is not passed to, or reported again by,
// later ones.
func (c *URLTesterChain) FilterMatching(urls []string) (*URLSeq, error) {
	if err := validateURLs(urls); err != nil {
		return nil, err
	}
	remaining := dedupeURLs(urls)
	var cur *URLSeq
	i := 0
	return &URLSeq{next: func() (string, bool, error) {
		for {
			if cur == nil {
				if len(remaining) == 0 || i >= len(c.testers) {
					return "", false, nil
				}
				seq, err := c.testers[i].FilterMatching(remaining)
				if err != nil {
					return "", false, err
				}
				cur = seq
				i++
			}
			if cur.Next() {
				url := cur.URL()
				// don't offer it to the remaining testers again
				remaining = remove(remaining, url)
				return url, true, nil
			}
			if err := cur.Err(); err != nil {
				return "", false, err
			}
			cur = nil
		}
	}}, nil
}

func (c *URLTesterChain) String() string {
	names := make([]string, len(c.testers))
	for i, t := range c.testers {
		names[i] = t.String()
	}
	return "Chain(" + strings.Join(names, ",") + ")"
}

// remove returns a fresh slice; the previous one may still be iterated by
// an active tester sequence.
func remove(urls []string, url string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u != url {
			out = append(out, u)
		}
	}
	return out
}

// GeneralizedURLTester combines a URL tester with redirect resolution and an
// optional whitelist. Redirect targets of the input URLs are tested along
// with them, and URLs matched by the whitelist are dropped before testing.
type GeneralizedURLTester struct {
	Tester    URLTester
	Whitelist URLFilter
	Resolver  *RedirectResolver
}

// NewGeneralizedURLTester returns a tester wrapping the given one. The
// whitelist may be nil. A nil resolver is replaced with a default one.
func NewGeneralizedURLTester(tester URLTester, whitelist URLFilter, resolver *RedirectResolver) *GeneralizedURLTester {
	if resolver == nil {
		resolver = NewRedirectResolver(RedirectResolverOptions{})
	}
	return &GeneralizedURLTester{
		Tester:    tester,
		Whitelist: whitelist,
		Resolver:  resolver,
	}
}

// urlsToTest resolves redirects if requested and drops whitelisted URLs.
func (g *GeneralizedURLTester) urlsToTest(urls []string, resolveRedirects bool) ([]string, error) {
	set, err := g.Resolver.URLsToTest(urls, resolveRedirects)
	if err != nil {
		return nil, err
	}
	toTest, err := set.URLs()
	if err != nil {
		return nil, err
	}
	if g.Whitelist == nil {
		return toTest, nil
	}
	seq, err := g.Whitelist.FilterMatching(toTest)
	if err != nil {
		return nil, err
	}
	listed, err := seq.Collect()
	if err != nil {
		return nil, err
	}
	whitelisted := make(map[string]struct{}, len(listed))
	for _, u := range listed {
		whitelisted[u] = struct{}{}
	}
	filtered := toTest[:0]
	for _, u := range toTest {
		if _, ok := whitelisted[u]; !ok {
			filtered = append(filtered, u)
		}
	}
	return filtered, nil
}

func (g *GeneralizedURLTester) AnyMatch(urls []string, resolveRedirects bool) (bool, error) {
	toTest, err := g.urlsToTest(urls, resolveRedirects)
	if err != nil {
		return false, err
	}
	return g.Tester.AnyMatch(toTest)
}

func (g *GeneralizedURLTester) LookupMatching(urls []string, resolveRedirects bool) (*ItemSeq, error) {
	toTest, err := g.urlsToTest(urls, resolveRedirects)
	if err != nil {
		return nil, err
	}
	return g.Tester.LookupMatching(toTest)
}

func (g *GeneralizedURLTester) FilterMatching(urls []string, resolveRedirects bool) (*URLSeq, error) {
	toTest, err := g.urlsToTest(urls, resolveRedirects)
	if err != nil {
		return nil, err
	}
	return g.Tester.FilterMatching(toTest)
}

func (g *GeneralizedURLTester) String() string {
	return "Generalized(" + g.Tester.String() + ")"
}
