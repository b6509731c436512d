package main

import (
	"os"

	"github.com/BurntSushi/toml"
)

type config struct {
	Title        string
	Collections  map[string]collection
	DNSBL        map[string]dnsbl
	HpHosts      *hpHosts      `toml:"hphosts"`
	SafeBrowsing *safeBrowsing `toml:"safebrowsing"`
	GeoIP        map[string]geoIP
	// Name of a collection whose members are never reported as spam.
	Whitelist string
	// Ordered list of source ids to test against. Defaults to all
	// configured sources.
	Chain []string
	// Log every lookup and its outcome.
	QueryLog bool `toml:"query-log"`
}

type collection struct {
	Classification []string
	Hosts          []string
}

type dnsbl struct {
	// Zone suffix queries are sent under, e.g. "zen.spamhaus.org".
	Suffix string
	// DNS server address in host:port form. Defaults to the system resolver.
	Resolver string
	// Return code registry, keyed by code.
	Codes map[string]string
	// Decode return codes as sums of the registered base codes.
	Sum bool
	// Type of values the service lists: "any", "ip4", "hostname".
	Hosts string
}

type hpHosts struct {
	AppID string `toml:"app-id"`
}

type safeBrowsing struct {
	ClientName string `toml:"client-name"`
	AppVersion string `toml:"app-version"`
	APIKey     string `toml:"api-key"`
}

type geoIP struct {
	Database       string
	Countries      []string
	Classification []string
}

// loadConfig reads a config file and returns the decoded structure.
func loadConfig(name string) (config, error) {
	var c config
	f, err := os.Open(name)
	if err != nil {
		return c, err
	}
	defer f.Close()
	_, err = toml.DecodeReader(f, &c)
	return c, err
}
