package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

var _ Transport = &XDTransport{}

// XDTransport sends cross-domain calls as a JSON object of serialized
// arguments. The page origin is sent in the Origin header and the response
// must allow it through Access-Control-Allow-Origin.
type XDTransport struct {
	HTTPClient *http.Client

	// MaxContentLength is the response size limit (optional)
	MaxContentLength int64
}

func (t *XDTransport) Send(ctx context.Context, req *Request) ([]byte, error) {
	args := req.Args
	if args == nil {
		args = map[string]string{}
	}
	body, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequest(http.MethodPost, req.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", jsonContentType)
	httpReq.Header.Set("Accept", jsonContentType)
	if req.Origin != "" {
		httpReq.Header.Set("Origin", req.Origin)
	}
	if req.ID != "" {
		httpReq.Header.Set("X-Request-Id", req.ID)
	}
	httpReq = httpReq.WithContext(ctx)

	resp, err := httpClient(t.HTTPClient).Do(httpReq)
	if err != nil {
		return nil, err
	}
	if req.Origin != "" {
		allowed := resp.Header.Get("Access-Control-Allow-Origin")
		if allowed != "*" && allowed != req.Origin {
			cleanlyCloseBody(resp.Body)
			return nil, fmt.Errorf("%w: %s not allowed by %s", ErrCrossOriginDenied, req.Origin, req.URL)
		}
	}
	return readResponse(resp, t.MaxContentLength)
}
