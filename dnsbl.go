package spamlists

import (
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
	"github.com/pkg/errors"
)

// DNSBL is a client for a DNS-based blacklist service. A host is tested by
// querying the A record of its reverse labels joined with the service's
// query suffix; NXDOMAIN means the host is not listed, and the last octet of
// each returned address is decoded into classification labels through the
// configured code map.
type DNSBL struct {
	hostList
	id          string
	querySuffix string
	codes       CodeMap
	client      *dns.Client
	opt         DNSBLOptions
	metrics     *sourceMetrics
}

var _ ListingSource = &DNSBL{}

type DNSBLOptions struct {
	// Address of the DNS server queries are sent to, in host:port form.
	// Defaults to the first server in /etc/resolv.conf.
	Resolver string

	// "udp" or "tcp", defaults to "udp".
	Net string

	// Query timeout, defaults to 5s.
	Timeout time.Duration

	// Factory turning raw values into hosts of the type the service lists.
	// Defaults to NewHost.
	Factory HostFactory

	// Exchange overrides the query transport. Used in tests.
	Exchange func(q *dns.Msg, addr string) (*dns.Msg, error)
}

// NewDNSBL returns a new instance of a DNSBL client.
func NewDNSBL(id, querySuffix string, codes CodeMap, opt DNSBLOptions) *DNSBL {
	if opt.Resolver == "" {
		opt.Resolver = systemResolver()
	}
	if opt.Net == "" {
		opt.Net = "udp"
	}
	if opt.Timeout == 0 {
		opt.Timeout = 5 * time.Second
	}
	if opt.Factory == nil {
		opt.Factory = NewHost
	}
	d := &DNSBL{
		id:          id,
		querySuffix: dns.Fqdn(querySuffix),
		codes:       codes,
		client: &dns.Client{
			Net:     opt.Net,
			Timeout: opt.Timeout,
		},
		opt:     opt,
		metrics: newSourceMetrics("dnsbl", id),
	}
	d.hostList = hostList{factory: opt.Factory, matcher: d}
	return d
}

// systemResolver returns the address of the first configured system
// resolver, falling back to localhost.
func systemResolver() string {
	conf, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil || len(conf.Servers) == 0 {
		return "127.0.0.1:53"
	}
	return net.JoinHostPort(conf.Servers[0], conf.Port)
}

// query returns the A records listed for the host, or nil if the host is
// not listed.
func (d *DNSBL) query(h Host) ([]net.IP, error) {
	name := strings.Join(h.ReverseLabels(), ".") + "." + d.querySuffix
	logger(d.id, h.String()).WithField("qname", name).Debug("querying DNSBL")

	q := new(dns.Msg)
	q.SetQuestion(name, dns.TypeA)

	d.metrics.query.Add(1)
	var (
		a   *dns.Msg
		err error
	)
	if d.opt.Exchange != nil {
		a, err = d.opt.Exchange(q, d.opt.Resolver)
	} else {
		a, _, err = d.client.Exchange(q, d.opt.Resolver)
	}
	if err != nil {
		d.metrics.err.Add("query", 1)
		return nil, errors.Wrapf(err, "querying %s", d.id)
	}
	switch a.Rcode {
	case dns.RcodeNameError: // not listed
		return nil, nil
	case dns.RcodeSuccess:
	default:
		d.metrics.err.Add(dns.RcodeToString[a.Rcode], 1)
		return nil, errors.Errorf("query for '%s' against %s returned %s", name, d.id, dns.RcodeToString[a.Rcode])
	}
	var ips []net.IP
	for _, rr := range a.Answer {
		if record, ok := rr.(*dns.A); ok {
			ips = append(ips, record.A)
		}
	}
	return ips, nil
}

func (d *DNSBL) containsHost(h Host) (bool, error) {
	ips, err := d.query(h)
	if err != nil {
		return false, err
	}
	if len(ips) == 0 {
		return false, nil
	}
	d.metrics.match.Add(1)
	return true, nil
}

func (d *DNSBL) matchHost(h Host) (string, []string, error) {
	ips, err := d.query(h)
	if err != nil {
		return "", nil, err
	}
	if len(ips) == 0 {
		return "", nil, nil
	}
	var classification []string
	seen := make(map[string]struct{})
	for _, ip := range ips {
		code := int(ip.To4()[3])
		labels, err := d.codes.Decode(code)
		if err != nil {
			d.metrics.err.Add("code", 1)
			return "", nil, errors.Wrapf(err, "source %s", d.id)
		}
		for _, label := range labels {
			if _, ok := seen[label]; ok {
				continue
			}
			seen[label] = struct{}{}
			classification = append(classification, label)
		}
	}
	d.metrics.match.Add(1)
	return h.String(), classification, nil
}

func (d *DNSBL) String() string {
	return d.id
}
