package spamlists

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

// newRedirectServer serves a small redirect graph:
// /a -> /b -> /c (200), /to-invalid -> invalid Location, /loop -> /loop
func newRedirectServer(requests *int64) *httptest.Server {
	mux := http.NewServeMux()
	var server *httptest.Server
	count := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if requests != nil {
				atomic.AddInt64(requests, 1)
			}
			h(w, r)
		}
	}
	mux.HandleFunc("/a", count(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, server.URL+"/b", http.StatusMovedPermanently)
	}))
	mux.HandleFunc("/b", count(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, server.URL+"/c", http.StatusFound)
	}))
	mux.HandleFunc("/c", count(func(w http.ResponseWriter, r *http.Request) {}))
	mux.HandleFunc("/to-invalid", count(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "http://invalid host/")
		w.WriteHeader(http.StatusMovedPermanently)
	}))
	mux.HandleFunc("/b-to-invalid", count(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, server.URL+"/to-invalid", http.StatusFound)
	}))
	mux.HandleFunc("/loop", count(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, server.URL+"/loop", http.StatusFound)
	}))
	server = httptest.NewServer(mux)
	return server
}

func TestRedirectChain(t *testing.T) {
	server := newRedirectServer(nil)
	defer server.Close()
	r := NewRedirectResolver(RedirectResolverOptions{})

	seq, err := r.RedirectChain(server.URL + "/a")
	require.NoError(t, err)
	urls, err := seq.Collect()
	require.NoError(t, err)
	require.Equal(t, []string{server.URL + "/b", server.URL + "/c"}, urls)

	// no redirect at all
	seq, err = r.RedirectChain(server.URL + "/c")
	require.NoError(t, err)
	urls, err = seq.Collect()
	require.NoError(t, err)
	require.Empty(t, urls)
}

func TestRedirectChainInvalidTarget(t *testing.T) {
	server := newRedirectServer(nil)
	defer server.Close()
	r := NewRedirectResolver(RedirectResolverOptions{})

	// the invalid target ends the chain and is not included
	seq, err := r.RedirectChain(server.URL + "/b-to-invalid")
	require.NoError(t, err)
	urls, err := seq.Collect()
	require.NoError(t, err)
	require.Equal(t, []string{server.URL + "/to-invalid"}, urls)

	seq, err = r.RedirectChain(server.URL + "/to-invalid")
	require.NoError(t, err)
	urls, err = seq.Collect()
	require.NoError(t, err)
	require.Empty(t, urls)
}

func TestRedirectChainTransportFailure(t *testing.T) {
	server := newRedirectServer(nil)
	url := server.URL + "/a"
	server.Close()
	r := NewRedirectResolver(RedirectResolverOptions{})

	// transport failures end the chain silently
	seq, err := r.RedirectChain(url)
	require.NoError(t, err)
	urls, err := seq.Collect()
	require.NoError(t, err)
	require.Empty(t, urls)
}

func TestRedirectChainInvalidURL(t *testing.T) {
	r := NewRedirectResolver(RedirectResolverOptions{})
	_, err := r.RedirectChain("not a url")
	var invalid *InvalidURLError
	require.ErrorAs(t, err, &invalid)
}

func TestRedirectChainMaxRedirects(t *testing.T) {
	server := newRedirectServer(nil)
	defer server.Close()
	r := NewRedirectResolver(RedirectResolverOptions{MaxRedirects: 5})

	seq, err := r.RedirectChain(server.URL + "/loop")
	require.NoError(t, err)
	urls, err := seq.Collect()
	require.NoError(t, err)
	require.Len(t, urls, 5)
}

func TestRedirectChainLazy(t *testing.T) {
	var requests int64
	server := newRedirectServer(&requests)
	defer server.Close()
	r := NewRedirectResolver(RedirectResolverOptions{})

	seq, err := r.RedirectChain(server.URL + "/a")
	require.NoError(t, err)
	require.Equal(t, int64(0), atomic.LoadInt64(&requests))

	require.True(t, seq.Next())
	require.Equal(t, server.URL+"/b", seq.URL())
	// only /a fetched so far, a target is reported before its own fetch
	require.Equal(t, int64(1), atomic.LoadInt64(&requests))

	require.True(t, seq.Next())
	require.Equal(t, server.URL+"/c", seq.URL())
	require.Equal(t, int64(2), atomic.LoadInt64(&requests))

	require.False(t, seq.Next())
	require.NoError(t, seq.Err())
	require.Equal(t, int64(3), atomic.LoadInt64(&requests))
}

func TestFirstResponse(t *testing.T) {
	server := newRedirectServer(nil)
	defer server.Close()
	r := NewRedirectResolver(RedirectResolverOptions{})

	resp, err := r.FirstResponse(server.URL + "/a")
	require.NoError(t, err)
	require.NotNil(t, resp)
	require.Equal(t, http.StatusMovedPermanently, resp.StatusCode)

	// transport failure carries no information
	resp, err = r.FirstResponse("http://127.0.0.1:1/unreachable")
	require.NoError(t, err)
	require.Nil(t, resp)

	_, err = r.FirstResponse("not a url")
	var invalid *InvalidURLError
	require.ErrorAs(t, err, &invalid)
}
