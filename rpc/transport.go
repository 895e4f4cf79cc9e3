package rpc

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
)

const (
	jsonContentType = "application/json"
	formContentType = "application/x-www-form-urlencoded"
)

// Request is a single outgoing call as seen by a Transport.
type Request struct {
	// ID is unique per call and is sent along as X-Request-Id.
	ID string
	// Method is the RPC method name.
	Method string
	// URL is the full endpoint, <base><kind>/<method>.
	URL string
	// Args holds every argument value already serialized.
	Args map[string]string
	// Origin is the origin of the calling page, if known.
	Origin string
}

// Transport delivers a Request and returns the raw response body.
type Transport interface {
	Send(ctx context.Context, req *Request) ([]byte, error)
}

func httpClient(c *http.Client) *http.Client {
	if c == nil {
		return http.DefaultClient
	}
	return c
}

// readResponse checks the status and size of resp and returns its body.
func readResponse(resp *http.Response, maxContentLength int64) ([]byte, error) {
	defer cleanlyCloseBody(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, HTTPRequestError{
			Response: resp,
			Reason:   fmt.Sprintf("bad status code: %d", resp.StatusCode),
		}
	}
	if maxContentLength > 0 && resp.ContentLength > maxContentLength {
		return nil, HTTPRequestError{
			Response: resp,
			Reason:   "response too large",
		}
	}

	var r io.Reader = resp.Body
	if maxContentLength > 0 {
		// One extra byte tells a body at the limit apart from a longer one.
		r = io.LimitReader(resp.Body, maxContentLength+1)
	}
	body, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if maxContentLength > 0 && int64(len(body)) > maxContentLength {
		return nil, HTTPRequestError{
			Response: resp,
			Reason:   "response too large",
		}
	}
	return body, nil
}

// cleanlyCloseBody drains the body before closing it so the connection can
// be reused.
func cleanlyCloseBody(body io.ReadCloser) error {
	if body == nil {
		return nil
	}
	_, _ = io.Copy(ioutil.Discard, body)
	return body.Close()
}
