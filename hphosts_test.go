package spamlists

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func newHpHostsServer(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "test-client", r.URL.Query().Get("v"))
		host := r.URL.Query().Get("s")
		if host != "listed.example.com" && host != "1.2.3.4" {
			w.Write([]byte("Not Listed"))
			return
		}
		if r.URL.Query().Get("class") == "true" {
			w.Write([]byte("Listed,phishing,exploit"))
			return
		}
		w.Write([]byte("Listed"))
	}))
}

func newTestHpHosts(t *testing.T, endpoint string) *HpHosts {
	h, err := NewHpHosts("test-client", HpHostsOptions{Endpoint: endpoint + "/{?v,s,class}"})
	require.NoError(t, err)
	return h
}

func TestHpHostsContains(t *testing.T) {
	server := newHpHostsServer(t)
	defer server.Close()
	h := newTestHpHosts(t, server.URL)

	listed, err := h.Contains("listed.example.com")
	require.NoError(t, err)
	require.True(t, listed)

	listed, err = h.Contains("clean.example.com")
	require.NoError(t, err)
	require.False(t, listed)

	// the service doesn't support IP6, such values are not listed
	listed, err = h.Contains("2001:db8::1")
	require.NoError(t, err)
	require.False(t, listed)
}

func TestHpHostsLookup(t *testing.T) {
	server := newHpHostsServer(t)
	defer server.Close()
	h := newTestHpHosts(t, server.URL)

	item, err := h.Lookup("listed.example.com")
	require.NoError(t, err)
	require.NotNil(t, item)
	require.Equal(t, "listed.example.com", item.Value)
	require.Equal(t, []string{"phishing", "exploit"}, item.Classification)
	require.Equal(t, "hpHosts", item.Source.String())

	item, err = h.Lookup("clean.example.com")
	require.NoError(t, err)
	require.Nil(t, item)

	// a valid IP6 host, just not one this service can list
	item, err = h.Lookup("2001:db8::1")
	require.NoError(t, err)
	require.Nil(t, item)
}

func TestHpHostsURLOperations(t *testing.T) {
	server := newHpHostsServer(t)
	defer server.Close()
	h := newTestHpHosts(t, server.URL)

	match, err := h.AnyMatch([]string{"http://clean.example.com/x", "http://1.2.3.4/y"})
	require.NoError(t, err)
	require.True(t, match)

	seq, err := h.FilterMatching([]string{"http://clean.example.com/x", "http://1.2.3.4/y"})
	require.NoError(t, err)
	matching, err := seq.Collect()
	require.NoError(t, err)
	require.Equal(t, []string{"http://1.2.3.4/y"}, matching)

	_, err = h.AnyMatch([]string{"not a url"})
	var invalid *InvalidURLError
	require.ErrorAs(t, err, &invalid)
}

func TestHpHostsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()
	h := newTestHpHosts(t, server.URL)

	_, err := h.Contains("listed.example.com")
	require.Error(t, err)
}
