package spamlists

// URLSeq is a lazy, finite sequence of URL strings. It is single-pass:
// values are produced on demand and a drained sequence stays drained.
// Iterate with Next/URL and check Err once Next returns false.
type URLSeq struct {
	next func() (string, bool, error)
	url  string
	err  error
	done bool
}

// Next advances the sequence. It returns false when the sequence is
// exhausted or produced an error.
func (s *URLSeq) Next() bool {
	if s.done {
		return false
	}
	url, ok, err := s.next()
	if err != nil || !ok {
		s.err = err
		s.done = true
		return false
	}
	s.url = url
	return true
}

// URL returns the value produced by the last successful call to Next.
func (s *URLSeq) URL() string {
	return s.url
}

// Err returns the error that terminated the sequence, if any.
func (s *URLSeq) Err() error {
	return s.err
}

// Collect drains the sequence into a slice.
func (s *URLSeq) Collect() ([]string, error) {
	var urls []string
	for s.Next() {
		urls = append(urls, s.URL())
	}
	return urls, s.Err()
}

// ItemSeq is a lazy, finite, single-pass sequence of matched list items.
type ItemSeq struct {
	next func() (*AddressListItem, bool, error)
	item *AddressListItem
	err  error
	done bool
}

// Next advances the sequence. It returns false when the sequence is
// exhausted or produced an error.
func (s *ItemSeq) Next() bool {
	if s.done {
		return false
	}
	item, ok, err := s.next()
	if err != nil || !ok {
		s.err = err
		s.done = true
		return false
	}
	s.item = item
	return true
}

// Item returns the value produced by the last successful call to Next.
func (s *ItemSeq) Item() *AddressListItem {
	return s.item
}

// Err returns the error that terminated the sequence, if any.
func (s *ItemSeq) Err() error {
	return s.err
}

// Collect drains the sequence into a slice.
func (s *ItemSeq) Collect() ([]*AddressListItem, error) {
	var items []*AddressListItem
	for s.Next() {
		items = append(items, s.Item())
	}
	return items, s.Err()
}

// CachedURLSeq is a replayable URL sequence. The first pass pulls values
// from a generating sequence and caches them as they are produced; later
// passes replay the cache without repeating any network requests. Values
// come in fixed order: the initial cache first, generated values after.
type CachedURLSeq struct {
	cache []string
	gen   *URLSeq
}

// Seq returns a sequence over the cached and generated values.
func (c *CachedURLSeq) Seq() *URLSeq {
	i := 0
	return &URLSeq{next: func() (string, bool, error) {
		if i < len(c.cache) {
			url := c.cache[i]
			i++
			return url, true, nil
		}
		if c.gen != nil && c.gen.Next() {
			url := c.gen.URL()
			c.cache = append(c.cache, url)
			i++
			return url, true, nil
		}
		if c.gen != nil && c.gen.Err() != nil {
			return "", false, c.gen.Err()
		}
		return "", false, nil
	}}
}

// URLs drains a full pass over the sequence into a slice.
func (c *CachedURLSeq) URLs() ([]string, error) {
	return c.Seq().Collect()
}
