package spamlists

// HostCollection is an in-memory list of IP addresses and hostnames, usable
// as a local whitelist or blacklist. A single classification applies to all
// members. The collection keeps a minimal covering set: a member is never a
// subdomain of another member, and adding a broader domain displaces any
// narrower members it covers.
//
// A HostCollection must not be mutated from multiple goroutines.
type HostCollection struct {
	hostList
	id             string
	classification []string
	members        []Host
}

var _ ListingSource = &HostCollection{}

// NewHostCollection returns a collection with the given identifier and
// classification labels, populated with the given hosts. It returns
// InvalidHostError if any of the initial hosts is invalid.
func NewHostCollection(id string, classification []string, hosts ...string) (*HostCollection, error) {
	c := &HostCollection{
		id:             id,
		classification: append([]string(nil), classification...),
	}
	c.hostList = hostList{factory: NewHost, matcher: c}
	for _, host := range hosts {
		if err := c.Add(host); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add inserts a host into the collection. Values covered by an existing
// member are discarded, and members covered by the new value are removed
// before it is inserted, so insertion never grows the covering set beyond
// the minimum. Returns InvalidHostError for invalid values.
func (c *HostCollection) Add(host string) error {
	h, err := c.factory(host)
	if err != nil {
		return err
	}
	for _, member := range c.members {
		if h.IsSubdomainOf(member) {
			return nil
		}
	}
	// Collect survivors first, then insert. One new value may displace
	// several existing members.
	kept := c.members[:0]
	for _, member := range c.members {
		if member.IsSubdomainOf(h) {
			continue
		}
		kept = append(kept, member)
	}
	c.members = append(kept, h)
	return nil
}

// Members returns the current covering set.
func (c *HostCollection) Members() []Host {
	return append([]Host(nil), c.members...)
}

func (c *HostCollection) matchHost(h Host) (string, []string, error) {
	for _, member := range c.members {
		if h.IsSubdomainOf(member) {
			return member.String(), c.classification, nil
		}
	}
	return "", nil, nil
}

func (c *HostCollection) String() string {
	return c.id
}
