package spamlists

import "fmt"

// InvalidHostError is returned when a value is neither a valid IP address
// nor a valid hostname.
type InvalidHostError struct {
	Value string
}

func (e *InvalidHostError) Error() string {
	return fmt.Sprintf("'%s' is not a valid host", e.Value)
}

// InvalidURLError is returned when a value is not a valid URL.
type InvalidURLError struct {
	URL string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("'%s' is not a valid URL", e.URL)
}

// UnknownCodeError is returned when a return code reported by a listing
// service can not be decoded against the configured code registry.
type UnknownCodeError struct {
	Code int
}

func (e *UnknownCodeError) Error() string {
	return fmt.Sprintf("unknown classification code %d", e.Code)
}

// UnauthorizedKeyError is returned when a remote service rejects the
// configured API key.
type UnauthorizedKeyError struct{}

func (e *UnauthorizedKeyError) Error() string {
	return "the API key is not authorized"
}
