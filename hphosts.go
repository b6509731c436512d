package spamlists

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jtacoma/uritemplates"
)

// HpHosts is a client for the hpHosts online lookup service at
// hosts-file.net. The service lists hostnames and IP4 addresses only, so
// IP6 values are treated as not listed.
type HpHosts struct {
	hostList
	appID    string
	template *uritemplates.UriTemplate
	client   *http.Client
	metrics  *sourceMetrics
}

var _ ListingSource = &HpHosts{}

const (
	hpHostsEndpoint  = "http://verify.hosts-file.net/{?v,s,class}"
	hpHostsNotListed = "Not Listed"

	httpTimeout = 30 * time.Second
)

type HpHostsOptions struct {
	// Endpoint URI template of the lookup service. Used in tests.
	Endpoint string

	// Client overrides the HTTP client used for lookups.
	Client *http.Client
}

// NewHpHosts returns a new instance of an hpHosts client. The appID names
// the application using the service, as required by its API.
func NewHpHosts(appID string, opt HpHostsOptions) (*HpHosts, error) {
	if opt.Endpoint == "" {
		opt.Endpoint = hpHostsEndpoint
	}
	template, err := uritemplates.Parse(opt.Endpoint)
	if err != nil {
		return nil, err
	}
	client := opt.Client
	if client == nil {
		client = &http.Client{Timeout: httpTimeout}
	}
	h := &HpHosts{
		appID:    appID,
		template: template,
		client:   client,
		metrics:  newSourceMetrics("hphosts", "hpHosts"),
	}
	h.hostList = hostList{factory: NewNonIP6Host, matcher: h}
	return h, nil
}

// query returns the response body for a lookup of the host, optionally
// requesting classification data.
func (s *HpHosts) query(h Host, classification bool) (string, error) {
	values := map[string]interface{}{
		"v": s.appID,
		"s": h.String(),
	}
	if classification {
		values["class"] = "true"
	}
	u, err := s.template.Expand(values)
	if err != nil {
		s.metrics.err.Add("template", 1)
		return "", err
	}
	logger("hpHosts", h.String()).Debug("querying hpHosts")

	ctx, cancel := context.WithTimeout(context.Background(), httpTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		s.metrics.err.Add("http", 1)
		return "", err
	}
	s.metrics.query.Add(1)
	resp, err := s.client.Do(req)
	if err != nil {
		s.metrics.err.Add("get", 1)
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		s.metrics.err.Add("status", 1)
		return "", fmt.Errorf("got unexpected status code %d from %s", resp.StatusCode, u)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		s.metrics.err.Add("read", 1)
		return "", err
	}
	return string(body), nil
}

func (s *HpHosts) containsHost(h Host) (bool, error) {
	body, err := s.query(h, false)
	if err != nil {
		return false, err
	}
	if strings.Contains(body, hpHostsNotListed) {
		return false, nil
	}
	s.metrics.match.Add(1)
	return true, nil
}

func (s *HpHosts) matchHost(h Host) (string, []string, error) {
	body, err := s.query(h, true)
	if err != nil {
		return "", nil, err
	}
	if strings.Contains(body, hpHostsNotListed) {
		return "", nil, nil
	}
	// The response is "Listed,class1,class2,..."
	elements := strings.Split(strings.TrimSpace(body), ",")
	s.metrics.match.Add(1)
	return h.String(), elements[1:], nil
}

func (s *HpHosts) String() string {
	return "hpHosts"
}
