package spamlists

import (
	"fmt"
	"net/url"
)

// AddressListItem is the result of a successful match against a listing
// service: the matched host or URL text, the source that listed it, and the
// classification labels the source assigns to it. Items are immutable.
type AddressListItem struct {
	Value          string
	Source         fmt.Stringer
	Classification []string
}

// URLTester is implemented by anything that can test a set of URLs against
// listing criteria. The bulk operations validate every URL up front and
// return InvalidURLError before any lookup is performed.
type URLTester interface {
	// AnyMatch reports whether any of the URLs matches.
	AnyMatch(urls []string) (bool, error)

	// LookupMatching returns a lazy sequence of items for the matching URLs.
	LookupMatching(urls []string) (*ItemSeq, error)

	// FilterMatching returns a lazy sequence of the URLs that match,
	// preserving their input order.
	FilterMatching(urls []string) (*URLSeq, error)

	fmt.Stringer
}

// URLFilter is the capability needed of a whitelist: reduce a URL set to
// the listed ones.
type URLFilter interface {
	FilterMatching(urls []string) (*URLSeq, error)
}

// ListingSource is a URL tester that can also answer single-host queries.
// It is implemented by DNS-based, HTTP-based and in-memory services alike.
type ListingSource interface {
	URLTester

	// Contains reports whether the host is listed. Values that are not
	// valid hosts, or not of a type the source lists, are reported as not
	// listed rather than returning an error.
	Contains(host string) (bool, error)

	// Lookup returns an item for the listed value matching the host, or nil
	// if the host is not listed. It returns InvalidHostError if the value
	// is not a valid host at all, and (nil, nil) for valid hosts of a type
	// the source does not list.
	Lookup(host string) (*AddressListItem, error)
}

// hostMatcher is the single-host primitive a concrete service client
// provides. The match is the listed text that covered the host, or "" if
// the host is not listed.
type hostMatcher interface {
	matchHost(h Host) (match string, classification []string, err error)
	fmt.Stringer
}

// hostContainsChecker is implemented by matchers with a membership check
// cheaper than a full classification lookup.
type hostContainsChecker interface {
	containsHost(h Host) (bool, error)
}

// hostList implements the URL-level operations of ListingSource in terms of
// a host factory and the single-host primitives of a concrete client.
// Concrete clients embed it and pass themselves as the matcher.
type hostList struct {
	factory HostFactory
	matcher hostMatcher
}

func (l *hostList) Contains(host string) (bool, error) {
	h, err := l.factory(host)
	if err != nil {
		// fail closed to non-member for single-host queries
		return false, nil
	}
	if c, ok := l.matcher.(hostContainsChecker); ok {
		return c.containsHost(h)
	}
	match, _, err := l.matcher.matchHost(h)
	return match != "", err
}

func (l *hostList) Lookup(host string) (*AddressListItem, error) {
	h, err := l.factory(host)
	if err != nil {
		if !IsValidHost(host) {
			return nil, err
		}
		// a valid host, just not of a type this source lists
		return nil, nil
	}
	match, classification, err := l.matcher.matchHost(h)
	if err != nil {
		return nil, err
	}
	if match == "" {
		return nil, nil
	}
	return &AddressListItem{
		Value:          match,
		Source:         l.matcher,
		Classification: classification,
	}, nil
}

func (l *hostList) AnyMatch(urls []string) (bool, error) {
	hosts, err := urlHosts(urls)
	if err != nil {
		return false, err
	}
	for _, host := range hosts {
		listed, err := l.Contains(host)
		if err != nil {
			return false, err
		}
		if listed {
			return true, nil
		}
	}
	return false, nil
}

func (l *hostList) LookupMatching(urls []string) (*ItemSeq, error) {
	hosts, err := urlHosts(urls)
	if err != nil {
		return nil, err
	}
	i := 0
	return &ItemSeq{next: func() (*AddressListItem, bool, error) {
		for i < len(hosts) {
			host := hosts[i]
			i++
			item, err := l.Lookup(host)
			if err != nil {
				return nil, false, err
			}
			if item != nil {
				return item, true, nil
			}
		}
		return nil, false, nil
	}}, nil
}

func (l *hostList) FilterMatching(urls []string) (*URLSeq, error) {
	hosts, err := urlHosts(urls)
	if err != nil {
		return nil, err
	}
	i := 0
	return &URLSeq{next: func() (string, bool, error) {
		for i < len(hosts) {
			u, host := urls[i], hosts[i]
			i++
			listed, err := l.Contains(host)
			if err != nil {
				return "", false, err
			}
			if listed {
				return u, true, nil
			}
		}
		return "", false, nil
	}}, nil
}

// urlHosts validates the URLs and returns the host component of each.
func urlHosts(urls []string) ([]string, error) {
	hosts := make([]string, 0, len(urls))
	for _, u := range urls {
		if !IsValidURL(u) {
			return nil, &InvalidURLError{URL: u}
		}
		parsed, err := url.Parse(u)
		if err != nil {
			return nil, &InvalidURLError{URL: u}
		}
		hosts = append(hosts, parsed.Hostname())
	}
	return hosts, nil
}

// validateURLs returns InvalidURLError for the first invalid URL, if any.
func validateURLs(urls []string) error {
	for _, u := range urls {
		if !IsValidURL(u) {
			return &InvalidURLError{URL: u}
		}
	}
	return nil
}

// dedupeURLs removes duplicates, keeping the first occurrence of each URL.
func dedupeURLs(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
