package spamlists

import (
	"fmt"

	syslog "github.com/RackSec/srslog"
	"github.com/sirupsen/logrus"
)

// QueryLog wraps a listing source and logs every query and its outcome,
// either through the package logger or to syslog.
type QueryLog struct {
	source ListingSource
	writer *syslog.Writer
	opt    QueryLogOptions
}

var _ ListingSource = &QueryLog{}

type QueryLogOptions struct {
	// Send log lines to syslog instead of the package logger.
	Syslog bool

	// "udp", "tcp", "unix". Defaults to "udp"
	Network string

	// Remote address, defaults to local syslog server
	Address string

	// Priority value as per https://pkg.go.dev/log/syslog#Priority
	Priority int

	// Syslog tag
	Tag string
}

// NewQueryLog returns a new instance of a query-logging wrapper around the
// given source.
func NewQueryLog(source ListingSource, opt QueryLogOptions) *QueryLog {
	var writer *syslog.Writer
	if opt.Syslog {
		var err error
		writer, err = syslog.Dial(opt.Network, opt.Address, syslog.Priority(opt.Priority), opt.Tag)
		if err != nil {
			// Log any error but don't block if this fails
			Log.WithError(err).Error("failed to initialize syslog")
		}
	}
	return &QueryLog{
		source: source,
		writer: writer,
		opt:    opt,
	}
}

func (q *QueryLog) log(op, value string, listed bool) {
	if q.writer != nil {
		msg := fmt.Sprintf("source=%s op=%s value=%s listed=%t", q.source, op, value, listed)
		if _, err := q.writer.Write([]byte(msg)); err != nil {
			Log.WithError(err).Error("failed to write to syslog")
		}
		return
	}
	Log.WithFields(logrus.Fields{
		"source": q.source.String(),
		"op":     op,
		"value":  value,
		"listed": listed,
	}).Info("lookup")
}

func (q *QueryLog) Contains(host string) (bool, error) {
	listed, err := q.source.Contains(host)
	if err == nil {
		q.log("contains", host, listed)
	}
	return listed, err
}

func (q *QueryLog) Lookup(host string) (*AddressListItem, error) {
	item, err := q.source.Lookup(host)
	if err == nil {
		q.log("lookup", host, item != nil)
	}
	return item, err
}

func (q *QueryLog) AnyMatch(urls []string) (bool, error) {
	match, err := q.source.AnyMatch(urls)
	if err == nil {
		q.log("any-match", fmt.Sprintf("%d urls", len(urls)), match)
	}
	return match, err
}

func (q *QueryLog) LookupMatching(urls []string) (*ItemSeq, error) {
	seq, err := q.source.LookupMatching(urls)
	if err != nil {
		return nil, err
	}
	return &ItemSeq{next: func() (*AddressListItem, bool, error) {
		if seq.Next() {
			item := seq.Item()
			q.log("lookup-matching", item.Value, true)
			return item, true, nil
		}
		return nil, false, seq.Err()
	}}, nil
}

func (q *QueryLog) FilterMatching(urls []string) (*URLSeq, error) {
	seq, err := q.source.FilterMatching(urls)
	if err != nil {
		return nil, err
	}
	return &URLSeq{next: func() (string, bool, error) {
		if seq.Next() {
			url := seq.URL()
			q.log("filter-matching", url, true)
			return url, true, nil
		}
		return "", false, seq.Err()
	}}, nil
}

func (q *QueryLog) String() string {
	return q.source.String()
}
