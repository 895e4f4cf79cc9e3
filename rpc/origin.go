package rpc

import (
	"net"
	"net/url"
	"strings"
)

// Kind identifies which of the two wire shapes a call uses.
type Kind int

const (
	// SameOrigin calls POST an urlencoded form to <base>xhr/<method>.
	SameOrigin Kind = iota
	// CrossDomain calls POST structured args to <base>xd/<method>.
	CrossDomain
)

func (k Kind) String() string {
	switch k {
	case SameOrigin:
		return "xhr"
	case CrossDomain:
		return "xd"
	}
	return "unknown"
}

// Path is the path segment inserted between the base URL and the method.
func (k Kind) Path() string {
	return k.String() + "/"
}

var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
	"ws":    "80",
	"wss":   "443",
}

// Origin returns the scheme://host[:port] of an absolute URL, lowercased and
// with the scheme's default port dropped. It returns "" for relative URLs.
func Origin(rawurl string) (string, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", nil
	}
	scheme := strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	port := u.Port()
	if port == "" || port == defaultPorts[scheme] {
		if strings.Contains(host, ":") {
			host = "[" + host + "]"
		}
		return scheme + "://" + host, nil
	}
	return scheme + "://" + net.JoinHostPort(host, port), nil
}

// SelectTransport decides the wire shape for calls against baseURL from a page
// at pageURL. Base URLs starting with "/" are always same-origin. Otherwise
// the two origins must match in scheme, host and port. A URL without a host,
// such as "" or "rpc/", has no origin and so never matches, nor does an
// unparseable one.
func SelectTransport(baseURL, pageURL string) Kind {
	if strings.HasPrefix(baseURL, "/") {
		return SameOrigin
	}
	base, err := Origin(baseURL)
	if err != nil || base == "" {
		return CrossDomain
	}
	page, err := Origin(pageURL)
	if err != nil || page != base {
		return CrossDomain
	}
	return SameOrigin
}
