package rpc

import "encoding/json"

// Codec serializes argument values and parses response bodies.
type Codec interface {
	Serialize(v interface{}) (string, error)
	Parse(data []byte, v interface{}) error
}

var _ Codec = JSONCodec{}

// JSONCodec is the default Codec, backed by encoding/json.
type JSONCodec struct{}

func (JSONCodec) Serialize(v interface{}) (string, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (JSONCodec) Parse(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
