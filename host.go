package spamlists

import (
	"net"
	"strconv"
	"strings"

	"golang.org/x/net/idna"
)

// Host is a validated host value, either a hostname or an IP address.
// Host values are immutable and can be shared freely.
type Host interface {
	// Equal reports whether the other host has the same canonical form and
	// is of the same kind.
	Equal(other Host) bool

	// IsSubdomainOf reports whether this host equals the other host or is a
	// subdomain of it. It is always false between hosts of different kinds
	// and between IP addresses of different families.
	IsSubdomainOf(other Host) bool

	// ReverseLabels returns the labels used to build a DNS blacklist query
	// name relative to a zone suffix. For IP addresses these are the
	// reverse-DNS octets (IP4) or nibbles (IP6), least significant first.
	// For hostnames they are the name's own labels.
	ReverseLabels() []string

	// String returns the canonical text form of the host.
	String() string
}

// HostFactory turns a raw string into a Host. Factories return
// InvalidHostError when the value is not of a type they accept.
type HostFactory func(value string) (Host, error)

// Hostname is a validated DNS-style name in canonical lowercase form.
type Hostname struct {
	name string
}

var _ Host = Hostname{}

// NewHostname parses the value as a hostname. Unicode names are converted to
// their IDNA ASCII form. IP address literals are not hostnames.
func NewHostname(value string) (Host, error) {
	if net.ParseIP(value) != nil {
		return nil, &InvalidHostError{Value: value}
	}
	name := strings.ToLower(strings.TrimSuffix(value, "."))
	if !isValidHostname(name) {
		return nil, &InvalidHostError{Value: value}
	}
	if ascii, err := idna.Lookup.ToASCII(name); err == nil {
		name = ascii
	}
	return Hostname{name: name}, nil
}

func (h Hostname) Equal(other Host) bool {
	o, ok := other.(Hostname)
	return ok && o.name == h.name
}

func (h Hostname) IsSubdomainOf(other Host) bool {
	o, ok := other.(Hostname)
	if !ok {
		return false
	}
	return h.name == o.name || strings.HasSuffix(h.name, "."+o.name)
}

func (h Hostname) ReverseLabels() []string {
	return strings.Split(h.name, ".")
}

func (h Hostname) String() string {
	return h.name
}

// IPAddress is a validated IP4 or IP6 address in canonical binary form.
type IPAddress struct {
	ip net.IP
	v6 bool
}

var _ Host = IPAddress{}

// NewIPAddress parses the value as an IP address literal of either family.
func NewIPAddress(value string) (Host, error) {
	ip := net.ParseIP(value)
	if ip == nil {
		return nil, &InvalidHostError{Value: value}
	}
	if ip4 := ip.To4(); ip4 != nil {
		return IPAddress{ip: ip4}, nil
	}
	return IPAddress{ip: ip, v6: true}, nil
}

// NewIP4Address parses the value as an IP4 address literal only.
func NewIP4Address(value string) (Host, error) {
	h, err := NewIPAddress(value)
	if err != nil {
		return nil, err
	}
	if h.(IPAddress).v6 {
		return nil, &InvalidHostError{Value: value}
	}
	return h, nil
}

// IP returns the address in its canonical binary form.
func (h IPAddress) IP() net.IP {
	return h.ip
}

func (h IPAddress) Equal(other Host) bool {
	o, ok := other.(IPAddress)
	return ok && o.v6 == h.v6 && o.ip.Equal(h.ip)
}

// IsSubdomainOf holds for IP addresses only under equality, an address
// covers nothing but itself.
func (h IPAddress) IsSubdomainOf(other Host) bool {
	return h.Equal(other)
}

const hexDigit = "0123456789abcdef"

func (h IPAddress) ReverseLabels() []string {
	if !h.v6 {
		ip := h.ip.To4()
		labels := make([]string, len(ip))
		for i, b := range ip {
			labels[len(ip)-1-i] = strconv.Itoa(int(b))
		}
		return labels
	}
	ip := h.ip.To16()
	labels := make([]string, 0, 2*len(ip))
	for i := len(ip) - 1; i >= 0; i-- {
		labels = append(labels,
			string(hexDigit[ip[i]&0xf]),
			string(hexDigit[ip[i]>>4]),
		)
	}
	return labels
}

func (h IPAddress) String() string {
	return h.ip.String()
}

// NewHost parses the value as an IP address of either family, falling back
// to a hostname.
func NewHost(value string) (Host, error) {
	if h, err := NewIPAddress(value); err == nil {
		return h, nil
	}
	if h, err := NewHostname(value); err == nil {
		return h, nil
	}
	return nil, &InvalidHostError{Value: value}
}

// NewNonIP6Host parses the value as an IP4 address or a hostname. Used by
// services that do not support IP6 addresses.
func NewNonIP6Host(value string) (Host, error) {
	if h, err := NewIP4Address(value); err == nil {
		return h, nil
	}
	if _, err := NewIPAddress(value); err == nil {
		// an IP6 address, not just an invalid value
		return nil, &InvalidHostError{Value: value}
	}
	if h, err := NewHostname(value); err == nil {
		return h, nil
	}
	return nil, &InvalidHostError{Value: value}
}
