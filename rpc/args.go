package rpc

import (
	"net/url"
	"sort"
	"strings"
)

// Args are the named arguments of a call. Values must be serializable by the
// client's Codec.
type Args map[string]interface{}

// SerializeArgs encodes each argument value separately. The result maps every
// key of args to the encoded value.
func SerializeArgs(codec Codec, args Args) (map[string]string, error) {
	serialized := make(map[string]string, len(args))
	for key, value := range args {
		s, err := codec.Serialize(value)
		if err != nil {
			return nil, ArgError{Key: key, Cause: err}
		}
		serialized[key] = s
	}
	return serialized, nil
}

// FormBody joins serialized arguments into an urlencoded form body, one
// key=value pair per argument. Keys are sorted so the body is stable.
func FormBody(serialized map[string]string) string {
	keys := make([]string, 0, len(serialized))
	for key := range serialized {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(escapeComponent(key))
		b.WriteByte('=')
		b.WriteString(escapeComponent(serialized[key]))
	}
	return b.String()
}

// escapeComponent percent-encodes s for use as a form key or value. Spaces
// become %20 rather than '+'.
func escapeComponent(s string) string {
	return strings.Replace(url.QueryEscape(s), "+", "%20", -1)
}
