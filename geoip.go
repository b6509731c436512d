package spamlists

import (
	"fmt"
	"strings"

	"github.com/oschwald/maxminddb-golang"
)

// GeoIPSource lists IP addresses located in a configured set of countries.
// When an IP host is queried, its location is looked up in a MaxMind
// database and compared against the country set. Hostnames are never
// listed, the source does not resolve them.
type GeoIPSource struct {
	hostList
	id             string
	geoDB          *maxminddb.Reader
	countries      map[string]struct{}
	classification []string
}

var _ ListingSource = &GeoIPSource{}

// NewGeoIPSource returns a source listing IPs whose country ISO code is in
// countries, with the given classification labels applied to every match.
func NewGeoIPSource(id, geoDBFile string, countries []string, classification []string) (*GeoIPSource, error) {
	if geoDBFile == "" {
		geoDBFile = "/usr/share/GeoIP/GeoLite2-Country.mmdb"
	}
	geoDB, err := maxminddb.Open(geoDBFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open geo location database file: %w", err)
	}
	set := make(map[string]struct{}, len(countries))
	for _, c := range countries {
		set[strings.ToUpper(strings.TrimSpace(c))] = struct{}{}
	}
	g := &GeoIPSource{
		id:             id,
		geoDB:          geoDB,
		countries:      set,
		classification: append([]string(nil), classification...),
	}
	g.hostList = hostList{factory: NewIPAddress, matcher: g}
	return g, nil
}

func (g *GeoIPSource) matchHost(h Host) (string, []string, error) {
	ip, ok := h.(IPAddress)
	if !ok {
		return "", nil, nil
	}
	var record struct {
		Country struct {
			ISOCode string `maxminddb:"iso_code"`
		} `maxminddb:"country"`
	}
	if err := g.geoDB.Lookup(ip.IP(), &record); err != nil {
		return "", nil, err
	}
	if _, listed := g.countries[record.Country.ISOCode]; !listed {
		return "", nil, nil
	}
	return h.String(), g.classification, nil
}

// Close releases the database file.
func (g *GeoIPSource) Close() error {
	return g.geoDB.Close()
}

func (g *GeoIPSource) String() string {
	return g.id
}
