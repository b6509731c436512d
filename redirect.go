package spamlists

import (
	"net/http"
	"time"
)

// RedirectResolver follows the redirect chain of a URL one hop at a time
// using HEAD requests, so that redirect targets can be tested against
// listing services along with the original URL. Transport failures never
// surface as errors; they simply end the chain.
type RedirectResolver struct {
	client *http.Client
	opt    RedirectResolverOptions
}

type RedirectResolverOptions struct {
	// Maximum number of redirects followed per URL. Defaults to 30.
	MaxRedirects int

	// Timeout for each individual request. Defaults to 10s.
	Timeout time.Duration

	// Client overrides the HTTP client used for requests. The resolver
	// disables the client's automatic redirect following to step through
	// the chain itself.
	Client *http.Client
}

// NewRedirectResolver returns a new instance of a redirect resolver.
func NewRedirectResolver(opt RedirectResolverOptions) *RedirectResolver {
	if opt.MaxRedirects == 0 {
		opt.MaxRedirects = 30
	}
	if opt.Timeout == 0 {
		opt.Timeout = 10 * time.Second
	}
	client := opt.Client
	if client == nil {
		client = &http.Client{Timeout: opt.Timeout}
	}
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return &RedirectResolver{client: client, opt: opt}
}

// FirstResponse issues a HEAD request for the URL and returns the response.
// Transport failures (connection errors, unsupported schemes, timeouts)
// return a nil response instead of an error; they carry no listing
// information. Returns InvalidURLError if the URL is not valid.
func (r *RedirectResolver) FirstResponse(url string) (*http.Response, error) {
	if !IsValidURL(url) {
		return nil, &InvalidURLError{URL: url}
	}
	resp, err := r.head(url)
	if err != nil {
		Log.WithField("url", url).WithError(err).Debug("request failed, stopping redirect resolution")
		return nil, nil
	}
	return resp, nil
}

func (r *RedirectResolver) head(url string) (*http.Response, error) {
	resp, err := r.client.Head(url)
	if err != nil {
		return nil, err
	}
	resp.Body.Close()
	return resp, nil
}

// RedirectChain returns the redirect targets of the URL as a lazy,
// single-pass sequence. Each value is only fetched when the consumer asks
// for it, and iterating a new chain for the same URL re-issues the
// requests. A valid target is emitted as soon as its Location header is
// seen, before its own response is fetched; a target whose response can't
// be obtained still appears in the chain and ends it. The chain ends
// without error when a response is not a redirect, when a request fails,
// or when a redirect target is not a valid URL; an invalid target is not
// included. Returns InvalidURLError if the starting URL itself is not
// valid.
func (r *RedirectResolver) RedirectChain(url string) (*URLSeq, error) {
	if !IsValidURL(url) {
		return nil, &InvalidURLError{URL: url}
	}
	pending := url
	hops := 0
	return &URLSeq{next: func() (string, bool, error) {
		if hops >= r.opt.MaxRedirects {
			return "", false, nil
		}
		resp, err := r.head(pending)
		if err != nil {
			Log.WithField("url", pending).WithError(err).Debug("request failed, stopping redirect resolution")
			return "", false, nil
		}
		location, err := resp.Location()
		if err != nil {
			// not a redirect response, the chain is complete
			return "", false, nil
		}
		target := location.String()
		if !IsValidURL(target) {
			return "", false, nil
		}
		hops++
		pending = target
		return target, true, nil
	}}, nil
}

// RedirectURLs returns the distinct redirect targets discovered for all
// given URLs as a lazy sequence. Values that repeat an input URL or an
// earlier target are skipped. Returns InvalidURLError if any input URL is
// invalid, before any request is made.
func (r *RedirectResolver) RedirectURLs(urls []string) (*URLSeq, error) {
	if err := validateURLs(urls); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		seen[u] = struct{}{}
	}
	var chain *URLSeq
	i := 0
	return &URLSeq{next: func() (string, bool, error) {
		for {
			if chain == nil {
				if i >= len(urls) {
					return "", false, nil
				}
				// input URLs were validated above, this can't fail
				chain, _ = r.RedirectChain(urls[i])
				i++
			}
			for chain.Next() {
				url := chain.URL()
				if _, ok := seen[url]; ok {
					continue
				}
				seen[url] = struct{}{}
				return url, true, nil
			}
			chain = nil
		}
	}}, nil
}

// URLsToTest returns the set of URLs to test for the given input: the
// deduplicated input URLs and, if resolveRedirects is set, every distinct
// redirect target discovered for them. Input URLs always precede redirect
// targets. The result is replayable; redirect chains are only fetched once,
// during the first pass. Returns InvalidURLError if any input URL is
// invalid, before any request is made.
func (r *RedirectResolver) URLsToTest(urls []string, resolveRedirects bool) (*CachedURLSeq, error) {
	if err := validateURLs(urls); err != nil {
		return nil, err
	}
	inputs := dedupeURLs(urls)
	if !resolveRedirects {
		return &CachedURLSeq{cache: inputs}, nil
	}
	gen, err := r.RedirectURLs(inputs)
	if err != nil {
		return nil, err
	}
	return &CachedURLSeq{cache: inputs, gen: gen}, nil
}
