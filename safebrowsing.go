package spamlists

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/jtacoma/uritemplates"
	"github.com/pkg/errors"
)

// GoogleSafeBrowsing is a client for the Google Safe Browsing lookup API
// v3.1. Unlike the host-based sources it tests whole URLs, so it implements
// URLTester but not ListingSource.
type GoogleSafeBrowsing struct {
	requestURL string
	client     *http.Client
	metrics    *sourceMetrics
}

var _ URLTester = &GoogleSafeBrowsing{}

const (
	safeBrowsingEndpoint        = "https://sb-ssl.google.com/safebrowsing/api/lookup{?client,key,appver,pver}"
	safeBrowsingProtocolVersion = "3.1"

	// The lookup API accepts at most 500 URLs in one request.
	maxURLsPerRequest = 500
)

type GoogleSafeBrowsingOptions struct {
	// Endpoint URI template of the lookup service. Used in tests.
	Endpoint string

	// Client overrides the HTTP client used for lookups.
	Client *http.Client
}

// NewGoogleSafeBrowsing returns a new instance of a Safe Browsing lookup
// client for the application identified by clientName/appVersion, using the
// given API key.
func NewGoogleSafeBrowsing(clientName, appVersion, apiKey string, opt GoogleSafeBrowsingOptions) (*GoogleSafeBrowsing, error) {
	if opt.Endpoint == "" {
		opt.Endpoint = safeBrowsingEndpoint
	}
	template, err := uritemplates.Parse(opt.Endpoint)
	if err != nil {
		return nil, err
	}
	requestURL, err := template.Expand(map[string]interface{}{
		"client": clientName,
		"key":    apiKey,
		"appver": appVersion,
		"pver":   safeBrowsingProtocolVersion,
	})
	if err != nil {
		return nil, err
	}
	client := opt.Client
	if client == nil {
		client = &http.Client{Timeout: httpTimeout}
	}
	return &GoogleSafeBrowsing{
		requestURL: requestURL,
		client:     client,
		metrics:    newSourceMetrics("safebrowsing", "GoogleSafeBrowsing"),
	}, nil
}

// queryOnce sends one chunk of URLs to the lookup API. The response body is
// empty when the status is 204 (none of the URLs is listed).
func (g *GoogleSafeBrowsing) queryOnce(urls []string) (status int, body string, err error) {
	request := strings.Join(append([]string{strconv.Itoa(len(urls))}, urls...), "\n")

	ctx, cancel := context.WithTimeout(context.Background(), httpTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "POST", g.requestURL, strings.NewReader(request))
	if err != nil {
		g.metrics.err.Add("http", 1)
		return 0, "", err
	}
	g.metrics.query.Add(1)
	resp, err := g.client.Do(req)
	if err != nil {
		g.metrics.err.Add("post", 1)
		return 0, "", err
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
	case http.StatusUnauthorized:
		g.metrics.err.Add("unauthorized", 1)
		return 0, "", &UnauthorizedKeyError{}
	default:
		g.metrics.err.Add("status", 1)
		return 0, "", errors.Errorf("got unexpected status code %d from Safe Browsing API", resp.StatusCode)
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		g.metrics.err.Add("read", 1)
		return 0, "", err
	}
	return resp.StatusCode, string(b), nil
}

type safeBrowsingMatch struct {
	url    string
	labels string
}

// matches returns a pull function producing one value per URL the service
// recognizes, with the raw comma-separated labels the service reports.
func (g *GoogleSafeBrowsing) matches(urls []string) func() (safeBrowsingMatch, bool, error) {
	urls = dedupeURLs(urls)
	var pending []safeBrowsingMatch
	i := 0
	return func() (safeBrowsingMatch, bool, error) {
		for {
			if len(pending) > 0 {
				m := pending[0]
				pending = pending[1:]
				return m, true, nil
			}
			if i >= len(urls) {
				return safeBrowsingMatch{}, false, nil
			}
			chunk := urls[i:min(i+maxURLsPerRequest, len(urls))]
			i += len(chunk)

			status, body, err := g.queryOnce(chunk)
			if err != nil {
				return safeBrowsingMatch{}, false, err
			}
			if status != http.StatusOK {
				continue
			}
			// One line per URL of the chunk, in order. "ok" means the URL
			// is not listed.
			lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
			for j, class := range lines {
				if j >= len(chunk) {
					break
				}
				if class == "ok" || class == "" {
					continue
				}
				g.metrics.match.Add(1)
				pending = append(pending, safeBrowsingMatch{url: chunk[j], labels: class})
			}
		}
	}
}

func (g *GoogleSafeBrowsing) AnyMatch(urls []string) (bool, error) {
	if err := validateURLs(urls); err != nil {
		return false, err
	}
	urls = dedupeURLs(urls)
	for i := 0; i < len(urls); i += maxURLsPerRequest {
		chunk := urls[i:min(i+maxURLsPerRequest, len(urls))]
		status, _, err := g.queryOnce(chunk)
		if err != nil {
			return false, err
		}
		if status == http.StatusOK {
			return true, nil
		}
	}
	return false, nil
}

func (g *GoogleSafeBrowsing) LookupMatching(urls []string) (*ItemSeq, error) {
	if err := validateURLs(urls); err != nil {
		return nil, err
	}
	next := g.matches(urls)
	return &ItemSeq{next: func() (*AddressListItem, bool, error) {
		m, ok, err := next()
		if err != nil || !ok {
			return nil, false, err
		}
		return &AddressListItem{
			Value:          m.url,
			Source:         g,
			Classification: strings.Split(m.labels, ","),
		}, true, nil
	}}, nil
}

func (g *GoogleSafeBrowsing) FilterMatching(urls []string) (*URLSeq, error) {
	if err := validateURLs(urls); err != nil {
		return nil, err
	}
	next := g.matches(urls)
	return &URLSeq{next: func() (string, bool, error) {
		m, ok, err := next()
		if err != nil || !ok {
			return "", false, err
		}
		return m.url, true, nil
	}}, nil
}

func (g *GoogleSafeBrowsing) String() string {
	return "GoogleSafeBrowsing"
}
