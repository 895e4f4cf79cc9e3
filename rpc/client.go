package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// Config holds everything a Client needs; nothing is read from globals.
type Config struct {
	// BaseURL is prefixed to "xhr/<method>" or "xd/<method>", so it should
	// end with a slash. Relative base URLs are resolved against PageURL.
	BaseURL string
	// PageURL is the URL of the page issuing the calls. Its origin decides
	// between the same-origin and the cross-domain transport.
	PageURL string

	// Codec defaults to JSONCodec.
	Codec Codec
	// HTTPClient is used by the default transports (optional).
	HTTPClient *http.Client
	// MaxContentLength is the response size limit of the default
	// transports (optional).
	MaxContentLength int64

	// SameOrigin replaces the default XHRTransport (optional).
	SameOrigin Transport
	// CrossDomain replaces the default XDTransport (optional).
	CrossDomain Transport
}

// Client issues calls against a single base URL. The transport is chosen
// once, in New. A Client is safe for concurrent use.
type Client struct {
	codec     Codec
	kind      Kind
	base      string
	page      *url.URL
	origin    string
	transport Transport
}

// New returns a Client for config.
func New(config Config) (*Client, error) {
	c := &Client{
		codec: config.Codec,
		kind:  SelectTransport(config.BaseURL, config.PageURL),
		base:  config.BaseURL,
	}
	if c.codec == nil {
		c.codec = JSONCodec{}
	}

	if config.PageURL != "" {
		page, err := url.Parse(config.PageURL)
		if err != nil {
			return nil, fmt.Errorf("rpc: invalid page URL: %w", err)
		}
		c.page = page
		if c.origin, err = Origin(config.PageURL); err != nil {
			return nil, fmt.Errorf("rpc: invalid page URL: %w", err)
		}
	}

	base, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("rpc: invalid base URL: %w", err)
	}

	switch c.kind {
	case SameOrigin:
		c.transport = config.SameOrigin
		if c.transport == nil {
			c.transport = &XHRTransport{
				HTTPClient:       config.HTTPClient,
				MaxContentLength: config.MaxContentLength,
			}
		}
	case CrossDomain:
		c.transport = config.CrossDomain
		if c.transport == nil {
			c.transport = &XDTransport{
				HTTPClient:       config.HTTPClient,
				MaxContentLength: config.MaxContentLength,
			}
		}
	}

	usingDefault := (c.kind == SameOrigin && config.SameOrigin == nil) ||
		(c.kind == CrossDomain && config.CrossDomain == nil)
	if usingDefault && !base.IsAbs() && c.page == nil {
		return nil, ErrMissingPageURL
	}

	logger.Printf("New(): base %q uses the %s transport", config.BaseURL, c.kind)
	return c, nil
}

// Kind returns the wire shape selected for this client.
func (c *Client) Kind() Kind {
	return c.kind
}

// Endpoint returns the URL that calls to method are sent to.
func (c *Client) Endpoint(method string) string {
	ref := c.base + c.kind.Path() + method
	if c.page == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil || u.IsAbs() {
		return ref
	}
	return c.page.ResolveReference(u).String()
}

// Go starts a call and returns immediately. The callback, if not nil, is
// invoked at most once with the parsed response, and never for a failed call.
// It runs before the Pending completes, so it must not call Wait, Response,
// Raw or Decode on that Pending; they would block forever.
func (c *Client) Go(ctx context.Context, method string, args Args, callback Callback) *Pending {
	p := newPending(method, c.codec, callback)
	go func() {
		raw, response, err := c.send(ctx, method, args)
		if err != nil {
			logger.Printf("%s failed: %s", method, err)
		}
		p.resolve(raw, response, err)
	}()
	return p
}

// Call performs a call synchronously and parses the response into result,
// unless result is nil.
func (c *Client) Call(ctx context.Context, result interface{}, method string, args Args) error {
	raw, _, err := c.send(ctx, method, args)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	return c.codec.Parse(raw, result)
}

// Close releases the transport if it holds a connection.
func (c *Client) Close() error {
	if closer, ok := c.transport.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (c *Client) send(ctx context.Context, method string, args Args) (json.RawMessage, interface{}, error) {
	if method == "" {
		return nil, nil, ErrEmptyMethod
	}
	serialized, err := SerializeArgs(c.codec, args)
	if err != nil {
		return nil, nil, err
	}
	if all, err := c.codec.Serialize(args); err == nil {
		logger.Printf("calling %s: %s", method, all)
	}

	req := &Request{
		ID:     uuid.NewString(),
		Method: method,
		URL:    c.Endpoint(method),
		Args:   serialized,
		Origin: c.origin,
	}
	body, err := c.transport.Send(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	if c.kind == CrossDomain {
		logger.Printf("%s response: %s", method, body)
	}

	var response interface{}
	if err := c.codec.Parse(body, &response); err != nil {
		return nil, nil, ParseError{Method: method, Body: body, Cause: err}
	}
	return json.RawMessage(body), response, nil
}
