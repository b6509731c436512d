package spamlists

import (
	"expvar"
	"fmt"
)

// Get an *expvar.Int with the given path.
func getVarInt(base string, id string, name string) *expvar.Int {
	fullname := fmt.Sprintf("spamlists.%s.%s.%s", base, id, name)
	if v := expvar.Get(fullname); v != nil {
		return v.(*expvar.Int)
	}
	return expvar.NewInt(fullname)
}

// Get an *expvar.Map with the given path.
func getVarMap(base string, id string, name string) *expvar.Map {
	fullname := fmt.Sprintf("spamlists.%s.%s.%s", base, id, name)
	if v := expvar.Get(fullname); v != nil {
		return v.(*expvar.Map)
	}
	return expvar.NewMap(fullname)
}

// sourceMetrics holds the counters every listing client maintains.
type sourceMetrics struct {
	// Count of lookups sent to the service.
	query *expvar.Int
	// Count of lookups that matched a listed value.
	match *expvar.Int
	// Count of errors, by type.
	err *expvar.Map
}

func newSourceMetrics(kind, id string) *sourceMetrics {
	return &sourceMetrics{
		query: getVarInt(kind, id, "query"),
		match: getVarInt(kind, id, "match"),
		err:   getVarMap(kind, id, "error"),
	}
}
