package nexusapi

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Page is the paginated data envelope: {data: {rows, total, page, limit}}.
type Page[T any] struct {
	Rows  []T `json:"rows"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

var (
	errMissingData = errors.New(`missing "data" field`)
	errMissingRows = errors.New(`missing "rows" field`)
	errNotArray    = errors.New("expected a JSON array")
	errNotEmpty    = errors.New("expected an empty body")
)

func decodeBare[T any](endpoint string, body []byte) (T, error) {
	var out T
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return out, &DecodeError{Endpoint: endpoint, Envelope: EnvelopeBare, Err: errNotArray}
	}
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return out, &DecodeError{Endpoint: endpoint, Envelope: EnvelopeBare, Err: err}
	}
	return out, nil
}

func dataField(endpoint string, env Envelope, body []byte) (json.RawMessage, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, &DecodeError{Endpoint: endpoint, Envelope: env, Err: err}
	}
	if len(wrapper.Data) == 0 || bytes.Equal(wrapper.Data, []byte("null")) {
		return nil, &DecodeError{Endpoint: endpoint, Envelope: env, Err: errMissingData}
	}
	return wrapper.Data, nil
}

func decodeData[T any](endpoint string, body []byte) (T, error) {
	var out T
	raw, err := dataField(endpoint, EnvelopeData, body)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, &DecodeError{Endpoint: endpoint, Envelope: EnvelopeData, Err: err}
	}
	return out, nil
}

func decodePage[T any](endpoint string, body []byte) (Page[T], error) {
	var out Page[T]
	raw, err := dataField(endpoint, EnvelopePage, body)
	if err != nil {
		return out, err
	}
	var probe struct {
		Rows json.RawMessage `json:"rows"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return out, &DecodeError{Endpoint: endpoint, Envelope: EnvelopePage, Err: err}
	}
	if len(probe.Rows) == 0 || bytes.Equal(probe.Rows, []byte("null")) {
		return out, &DecodeError{Endpoint: endpoint, Envelope: EnvelopePage, Err: errMissingRows}
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, &DecodeError{Endpoint: endpoint, Envelope: EnvelopePage, Err: err}
	}
	return out, nil
}

func decodeEmpty(endpoint string, body []byte) error {
	if len(bytes.TrimSpace(body)) != 0 {
		return &DecodeError{Endpoint: endpoint, Envelope: EnvelopeEmpty, Err: errNotEmpty}
	}
	return nil
}
