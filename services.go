package spamlists

// Preconfigured clients for a number of public listing services.

// NewSpamhausZEN returns a client for the Spamhaus ZEN combined blacklist.
// ZEN lists IP4 addresses only; the return codes map directly to the
// sub-list that produced the match.
func NewSpamhausZEN(opt DNSBLOptions) *DNSBL {
	if opt.Factory == nil {
		opt.Factory = NewIP4Address
	}
	return NewDNSBL("spamhaus-zen", "zen.spamhaus.org", DirectCodeMap{
		2:  "spam",
		3:  "spam",
		4:  "exploits",
		5:  "exploits",
		6:  "exploits",
		7:  "exploits",
		9:  "spam",
		10: "policy",
		11: "policy",
	}, opt)
}

// NewSpamhausDBL returns a client for the Spamhaus domain blacklist. DBL
// lists hostnames only.
func NewSpamhausDBL(opt DNSBLOptions) *DNSBL {
	if opt.Factory == nil {
		opt.Factory = NewHostname
	}
	return NewDNSBL("spamhaus-dbl", "dbl.spamhaus.org", DirectCodeMap{
		2:   "spam",
		4:   "phishing",
		5:   "malware",
		6:   "botnet-cc",
		102: "abused-spam",
		103: "abused-redirector",
		104: "abused-phishing",
		105: "abused-malware",
		106: "abused-botnet-cc",
	}, opt)
}

// NewSURBLMulti returns a client for the SURBL multi combined list. The
// return code is a bitmask combining all lists the value appears on.
func NewSURBLMulti(opt DNSBLOptions) (*DNSBL, error) {
	codes, err := NewSumCodeMap(map[int]string{
		8:   "phishing",
		16:  "malware",
		64:  "spam",
		128: "cracked",
	})
	if err != nil {
		return nil, err
	}
	return NewDNSBL("surbl-multi", "multi.surbl.org", codes, opt), nil
}
