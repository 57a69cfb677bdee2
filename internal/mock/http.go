package mock

import (
	"bytes"
	"io"
	"net/http"
	"sync"
)

// HTTPDoer fakes http.Client. Safe for concurrent use.
//
// Responses are picked round robin from Statuses and Bodies, unless DoFunc is set.
// Requests keeps every request received, in order of arrival.
type HTTPDoer struct {
	Statuses []int
	Bodies   [][]byte
	Headers  []http.Header

	DoFunc func(*http.Request) (*http.Response, error)

	m        sync.Mutex
	i        int
	requests []*http.Request
	payloads [][]byte
}

// Do fakes executing http request.
func (d *HTTPDoer) Do(r *http.Request) (*http.Response, error) {
	d.m.Lock()
	i := d.i
	d.i++
	var payload []byte
	if r.Body != nil {
		payload, _ = io.ReadAll(r.Body)
		r.Body.Close()
	}
	d.requests = append(d.requests, r)
	d.payloads = append(d.payloads, payload)
	d.m.Unlock()

	if d.DoFunc != nil {
		return d.DoFunc(r)
	}

	status := http.StatusOK
	if len(d.Statuses) > 0 {
		status = d.Statuses[i%len(d.Statuses)]
	}
	var data []byte
	if len(d.Bodies) > 0 {
		data = d.Bodies[i%len(d.Bodies)]
	}
	header := http.Header{}
	if len(d.Headers) > 0 {
		header = d.Headers[i%len(d.Headers)]
	}

	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(data)),
		Header:     header,
		Request:    r,
	}, nil
}

// Requests returns requests received so far.
func (d *HTTPDoer) Requests() []*http.Request {
	d.m.Lock()
	defer d.m.Unlock()

	return append([]*http.Request(nil), d.requests...)
}

// Payload returns body of i-th received request.
func (d *HTTPDoer) Payload(i int) []byte {
	d.m.Lock()
	defer d.m.Unlock()

	if i < 0 || i >= len(d.payloads) {
		return nil
	}
	return d.payloads[i]
}
