package rpc

import (
	"context"
	"net/http"
	"strings"
)

var _ Transport = &XHRTransport{}

// XHRTransport sends same-origin calls as an urlencoded form POST.
type XHRTransport struct {
	HTTPClient *http.Client

	// MaxContentLength is the response size limit (optional)
	MaxContentLength int64
}

func (t *XHRTransport) Send(ctx context.Context, req *Request) ([]byte, error) {
	body := FormBody(req.Args)
	httpReq, err := http.NewRequest(http.MethodPost, req.URL, strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", formContentType)
	httpReq.Header.Set("Accept", jsonContentType)
	httpReq.Header.Set("X-Requested-With", "XMLHttpRequest")
	if req.ID != "" {
		httpReq.Header.Set("X-Request-Id", req.ID)
	}
	httpReq = httpReq.WithContext(ctx)

	resp, err := httpClient(t.HTTPClient).Do(httpReq)
	if err != nil {
		return nil, err
	}
	return readResponse(resp, t.MaxContentLength)
}
