package rpc

import (
	"net/url"
	"strings"
	"testing"
)

func TestSerializeArgs(t *testing.T) {
	args := Args{
		"video_id": "abc123",
		"count":    3,
		"tags":     []string{"a", "b"},
		"none":     nil,
	}
	got, err := SerializeArgs(JSONCodec{}, args)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{
		"video_id": `"abc123"`,
		"count":    `3`,
		"tags":     `["a","b"]`,
		"none":     `null`,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d args; want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("arg %q: got: %q; want %q", k, got[k], v)
		}
	}
}

func TestSerializeArgsError(t *testing.T) {
	_, err := SerializeArgs(JSONCodec{}, Args{"bad": make(chan int)})
	argErr, ok := err.(ArgError)
	if !ok {
		t.Fatalf("got: %T; want ArgError", err)
	}
	if argErr.Key != "bad" {
		t.Errorf("got: %q; want %q", argErr.Key, "bad")
	}
}

func TestFormBody(t *testing.T) {
	serialized, err := SerializeArgs(JSONCodec{}, Args{
		"text":  "hello world & more",
		"id":    42,
		"extra": map[string]string{"k": "v=1"},
	})
	if err != nil {
		t.Fatal(err)
	}
	body := FormBody(serialized)

	if got, want := body, "extra=%7B%22k%22%3A%22v%3D1%22%7D&id=42&text=%22hello%20world%20%26%20more%22"; got != want {
		t.Errorf("got: %q; want %q", got, want)
	}

	pairs := strings.Split(body, "&")
	if len(pairs) != len(serialized) {
		t.Errorf("got %d params; want %d", len(pairs), len(serialized))
	}
	values, err := url.ParseQuery(body)
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range serialized {
		if got := values.Get(k); got != v {
			t.Errorf("param %q: got: %q; want %q", k, got, v)
		}
	}
}

func TestFormBodyEmpty(t *testing.T) {
	if got := FormBody(nil); got != "" {
		t.Errorf("got: %q; want empty body", got)
	}
}
