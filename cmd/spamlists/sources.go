package main

import (
	"fmt"
	"sort"
	"strconv"

	spamlists "github.com/namsoila/spam-lists"
)

// buildSources turns the config into listing sources and URL testers, and
// returns the ordered tester chain plus the whitelist, if one is set.
func buildSources(cfg config) (map[string]spamlists.URLTester, []spamlists.URLTester, spamlists.URLFilter, error) {
	sources := make(map[string]spamlists.URLTester)

	var whitelist spamlists.URLFilter
	for id, c := range cfg.Collections {
		coll, err := spamlists.NewHostCollection(id, c.Classification, c.Hosts...)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to build collection '%s': %w", id, err)
		}
		if id == cfg.Whitelist {
			whitelist = coll
			continue
		}
		sources[id] = wrap(coll, cfg)
	}
	if cfg.Whitelist != "" && whitelist == nil {
		return nil, nil, nil, fmt.Errorf("whitelist references non-existant collection '%s'", cfg.Whitelist)
	}

	for id, d := range cfg.DNSBL {
		codes, err := codeMap(d)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to build dnsbl '%s': %w", id, err)
		}
		opt := spamlists.DNSBLOptions{Resolver: d.Resolver}
		switch d.Hosts {
		case "", "any":
		case "ip4":
			opt.Factory = spamlists.NewIP4Address
		case "hostname":
			opt.Factory = spamlists.NewHostname
		default:
			return nil, nil, nil, fmt.Errorf("unsupported host type '%s' for dnsbl '%s'", d.Hosts, id)
		}
		sources[id] = wrap(spamlists.NewDNSBL(id, d.Suffix, codes, opt), cfg)
	}

	if cfg.HpHosts != nil {
		source, err := spamlists.NewHpHosts(cfg.HpHosts.AppID, spamlists.HpHostsOptions{})
		if err != nil {
			return nil, nil, nil, err
		}
		sources["hphosts"] = wrap(source, cfg)
	}

	if cfg.SafeBrowsing != nil {
		source, err := spamlists.NewGoogleSafeBrowsing(
			cfg.SafeBrowsing.ClientName,
			cfg.SafeBrowsing.AppVersion,
			cfg.SafeBrowsing.APIKey,
			spamlists.GoogleSafeBrowsingOptions{},
		)
		if err != nil {
			return nil, nil, nil, err
		}
		sources["safebrowsing"] = source
	}

	for id, g := range cfg.GeoIP {
		source, err := spamlists.NewGeoIPSource(id, g.Database, g.Countries, g.Classification)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to build geoip source '%s': %w", id, err)
		}
		sources[id] = wrap(source, cfg)
	}

	chain, err := chainOrder(cfg, sources)
	if err != nil {
		return nil, nil, nil, err
	}
	return sources, chain, whitelist, nil
}

// wrap adds query logging to a source when enabled.
func wrap(source spamlists.ListingSource, cfg config) spamlists.ListingSource {
	if !cfg.QueryLog {
		return source
	}
	return spamlists.NewQueryLog(source, spamlists.QueryLogOptions{})
}

// chainOrder returns the testers in the order given by the chain config, or
// all of them in name order if no chain is configured.
func chainOrder(cfg config, sources map[string]spamlists.URLTester) ([]spamlists.URLTester, error) {
	if len(cfg.Chain) == 0 {
		ids := make([]string, 0, len(sources))
		for id := range sources {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		chain := make([]spamlists.URLTester, 0, len(ids))
		for _, id := range ids {
			chain = append(chain, sources[id])
		}
		return chain, nil
	}
	chain := make([]spamlists.URLTester, 0, len(cfg.Chain))
	for _, id := range cfg.Chain {
		source, ok := sources[id]
		if !ok {
			return nil, fmt.Errorf("chain references non-existant source '%s'", id)
		}
		chain = append(chain, source)
	}
	return chain, nil
}

// codeMap builds the return code registry for a DNSBL.
func codeMap(d dnsbl) (spamlists.CodeMap, error) {
	registry := make(map[int]string, len(d.Codes))
	for code, label := range d.Codes {
		value, err := strconv.Atoi(code)
		if err != nil {
			return nil, fmt.Errorf("unable to parse return code '%s'", code)
		}
		registry[value] = label
	}
	if d.Sum {
		return spamlists.NewSumCodeMap(registry)
	}
	return spamlists.DirectCodeMap(registry), nil
}
