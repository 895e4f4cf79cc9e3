package rpc

import (
	"encoding/json"
	"sync"
)

// Callback receives the parsed response of a successful call.
type Callback func(response interface{})

// Pending is the eventual outcome of a call started with Client.Go. It
// resolves exactly once.
type Pending struct {
	Method string

	callback Callback
	codec    Codec
	once     sync.Once
	done     chan struct{}

	raw      json.RawMessage
	response interface{}
	err      error
}

func newPending(method string, codec Codec, callback Callback) *Pending {
	return &Pending{
		Method:   method,
		callback: callback,
		codec:    codec,
		done:     make(chan struct{}),
	}
}

// resolve records the outcome. The callback runs before Done is closed, and
// only for successful calls. Later calls to resolve are ignored.
func (p *Pending) resolve(raw json.RawMessage, response interface{}, err error) {
	p.once.Do(func() {
		p.raw, p.response, p.err = raw, response, err
		if err == nil && p.callback != nil {
			p.callback(response)
		}
		close(p.done)
	})
}

// Done is closed once the call has completed.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the call completes and returns its error.
func (p *Pending) Wait() error {
	<-p.done
	return p.err
}

// Err returns the error of a completed call, nil while still in flight.
func (p *Pending) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

// Response blocks until completion and returns the parsed response.
func (p *Pending) Response() interface{} {
	<-p.done
	return p.response
}

// Raw blocks until completion and returns the response body.
func (p *Pending) Raw() json.RawMessage {
	<-p.done
	return p.raw
}

// Decode blocks until completion and parses the response body into v.
func (p *Pending) Decode(v interface{}) error {
	if err := p.Wait(); err != nil {
		return err
	}
	if v == nil || len(p.raw) == 0 {
		return nil
	}
	return p.codec.Parse(p.raw, v)
}
