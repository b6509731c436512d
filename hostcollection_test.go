package spamlists

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHostCollectionAddSubsumption(t *testing.T) {
	c, err := NewHostCollection("testlist", []string{"spam"})
	require.NoError(t, err)

	// the narrower domain is discarded when the broader one is present
	require.NoError(t, c.Add("b.com"))
	require.NoError(t, c.Add("a.b.com"))
	members := c.Members()
	require.Len(t, members, 1)
	require.Equal(t, "b.com", members[0].String())

	// and displaced when the broader one arrives later
	c, err = NewHostCollection("testlist", []string{"spam"}, "a.b.com", "x.b.com", "other.net")
	require.NoError(t, err)
	require.NoError(t, c.Add("b.com"))
	members = c.Members()
	require.Len(t, members, 2)
	names := []string{members[0].String(), members[1].String()}
	require.Contains(t, names, "b.com")
	require.Contains(t, names, "other.net")
}

func TestHostCollectionAddIdempotent(t *testing.T) {
	c, err := NewHostCollection("testlist", []string{"spam"}, "b.com", "b.com", "1.2.3.4", "1.2.3.4")
	require.NoError(t, err)
	require.Len(t, c.Members(), 2)
}

func TestHostCollectionAddInvalid(t *testing.T) {
	c, err := NewHostCollection("testlist", nil)
	require.NoError(t, err)
	err = c.Add("double..dot.com")
	var invalid *InvalidHostError
	require.ErrorAs(t, err, &invalid)

	_, err = NewHostCollection("testlist", nil, "valid.com", "in valid.com")
	require.Error(t, err)
}

func TestHostCollectionContains(t *testing.T) {
	c, err := NewHostCollection("testlist", []string{"spam"}, "b.com", "1.2.3.4")
	require.NoError(t, err)

	tests := []struct {
		host   string
		listed bool
	}{
		{"b.com", true},
		{"a.b.com", true},
		{"deep.a.b.com", true},
		{"1.2.3.4", true},

		{"notb.com", false},
		{"com", false},
		{"1.2.3.5", false},
		// invalid hosts are reported as not listed
		{"in valid.com", false},
	}
	for _, test := range tests {
		listed, err := c.Contains(test.host)
		require.NoError(t, err)
		require.Equal(t, test.listed, listed, "host: %s", test.host)
	}
}

func TestHostCollectionLookup(t *testing.T) {
	c, err := NewHostCollection("testlist", []string{"spam", "malware"}, "b.com")
	require.NoError(t, err)

	item, err := c.Lookup("a.b.com")
	require.NoError(t, err)
	require.NotNil(t, item)
	require.Equal(t, "b.com", item.Value)
	require.Equal(t, []string{"spam", "malware"}, item.Classification)
	require.Equal(t, "testlist", item.Source.String())

	item, err = c.Lookup("other.com")
	require.NoError(t, err)
	require.Nil(t, item)

	_, err = c.Lookup("in valid.com")
	var invalid *InvalidHostError
	require.ErrorAs(t, err, &invalid)
}

func TestHostCollectionURLOperations(t *testing.T) {
	c, err := NewHostCollection("testlist", []string{"spam"}, "b.com", "1.2.3.4")
	require.NoError(t, err)

	urls := []string{
		"http://clean.com/page",
		"http://a.b.com/login",
		"http://1.2.3.4/",
	}

	match, err := c.AnyMatch(urls)
	require.NoError(t, err)
	require.True(t, match)

	match, err = c.AnyMatch([]string{"http://clean.com"})
	require.NoError(t, err)
	require.False(t, match)

	seq, err := c.FilterMatching(urls)
	require.NoError(t, err)
	matching, err := seq.Collect()
	require.NoError(t, err)
	require.Equal(t, []string{"http://a.b.com/login", "http://1.2.3.4/"}, matching)

	items, err := c.LookupMatching(urls)
	require.NoError(t, err)
	collected, err := items.Collect()
	require.NoError(t, err)
	require.Len(t, collected, 2)
	require.Equal(t, "b.com", collected[0].Value)
	require.Equal(t, "1.2.3.4", collected[1].Value)

	// any invalid URL fails the whole operation before lookups
	_, err = c.AnyMatch([]string{"http://b.com", "not a url"})
	var invalid *InvalidURLError
	require.ErrorAs(t, err, &invalid)
	_, err = c.LookupMatching([]string{"not a url"})
	require.ErrorAs(t, err, &invalid)
	_, err = c.FilterMatching([]string{"not a url"})
	require.ErrorAs(t, err, &invalid)
}
