// Package network holds the HTTP client used for release checks.
package network

import (
	"net/http"
	"time"
)

// Client is shared by every outbound request. Requests are expected to carry their
// own context deadline as well.
var Client = &http.Client{
	Timeout:   15 * time.Second,
	Transport: newTransport(),
}

func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 4
	t.MaxIdleConnsPerHost = 2
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 10 * time.Second
	return t
}
