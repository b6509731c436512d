/*
Package spamlists implements clients for spam and abuse listing services and
the plumbing to test hosts and URLs against them. A listing service can be a
DNS blacklist, the hpHosts HTTP lookup service, the Google Safe Browsing
lookup API, a GeoIP database, or a local in-memory host collection. There are
three fundamental kinds of objects in this library.

Listing sources

Listing sources answer whether a single host, or the host of any URL in a set,
is listed, and return the matched value together with its classification
labels. DNSBL, HpHosts, GeoIPSource and HostCollection all implement the
ListingSource interface and can be used interchangeably.

URL testers

URL testers operate on whole URLs rather than hosts. Every listing source is
a URL tester; GoogleSafeBrowsing is a URL tester only. Testers can be combined
with URLTesterChain, and GeneralizedURLTester adds redirect resolution and
whitelist filtering on top of any tester.

Redirect resolution

RedirectResolver follows the redirect chain of a URL with HEAD requests and
exposes the discovered target URLs as a lazy sequence, so that shortened or
bouncing URLs can be tested under their final addresses as well.
*/
package spamlists
