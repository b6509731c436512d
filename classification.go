package spamlists

import (
	"fmt"
	"sort"
)

// CodeMap decodes the numeric return codes of a listing service into
// classification labels. Instances are immutable after construction and can
// be shared freely.
type CodeMap interface {
	// Decode returns the classification labels for a reported code, or
	// UnknownCodeError if the code is not known to the registry.
	Decode(code int) ([]string, error)
}

// DirectCodeMap maps each return code to exactly one label.
type DirectCodeMap map[int]string

var _ CodeMap = DirectCodeMap{}

func (m DirectCodeMap) Decode(code int) ([]string, error) {
	label, ok := m[code]
	if !ok {
		return nil, &UnknownCodeError{Code: code}
	}
	return []string{label}, nil
}

// SumCodeMap decodes codes that are sums of bit-flag-like base codes, each
// base code contributing its own label. A reported code is decoded by
// repeatedly peeling off the largest registered base code not exceeding the
// remainder. This is only correct when every base code is greater than the
// sum of all smaller ones (as with powers of two), so NewSumCodeMap rejects
// registries that don't have that shape.
type SumCodeMap struct {
	labels map[int]string
	codes  []int // base codes in descending order
}

var _ CodeMap = &SumCodeMap{}

// NewSumCodeMap returns a decoder for the given base code registry.
func NewSumCodeMap(registry map[int]string) (*SumCodeMap, error) {
	codes := make([]int, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	sum := 0
	for _, code := range codes {
		if code <= sum {
			return nil, fmt.Errorf("base code %d does not exceed the sum of all smaller base codes (%d)", code, sum)
		}
		sum += code
	}
	sort.Sort(sort.Reverse(sort.IntSlice(codes)))
	labels := make(map[int]string, len(registry))
	for code, label := range registry {
		labels[code] = label
	}
	return &SumCodeMap{labels: labels, codes: codes}, nil
}

func (m *SumCodeMap) Decode(code int) ([]string, error) {
	remainder := code
	var labels []string
	for _, base := range m.codes {
		if base <= remainder {
			labels = append(labels, m.labels[base])
			remainder -= base
		}
	}
	if remainder != 0 || len(labels) == 0 {
		return nil, &UnknownCodeError{Code: code}
	}
	// labels were collected largest base code first, return them in
	// registry order instead
	for i, j := 0, len(labels)-1; i < j; i, j = i+1, j-1 {
		labels[i], labels[j] = labels[j], labels[i]
	}
	return labels, nil
}
