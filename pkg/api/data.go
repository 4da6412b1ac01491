package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

type Parameter map[string]string

func (p Parameter) Encode() string {
	var parameters []string
	for key, value := range p {
		parameters = append(parameters, key+"="+url.QueryEscape(value))
	}
	sort.Strings(parameters)
	return strings.Join(parameters, "&")
}

type Body interface {
	ToReader() (io.Reader, string, error)
}

type JSON map[string]any

type Array []JSON

func (j JSON) ToReader() (io.Reader, string, error) {
	b, err := json.Marshal(j)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewBuffer(b), "application/json", nil
}

func (j JSON) Get(key string) (any, error) {
	value, ok := j[key]
	if !ok {
		return nil, fmt.Errorf("not found field %s", key)
	}

	return value, nil
}

func (j JSON) GetString(key string) (string, error) {
	value, err := j.Get(key)
	if err != nil {
		return "", err
	}

	if value == nil {
		return "", nil
	}

	if s, ok := value.(string); ok {
		return s, nil
	}

	return "", fmt.Errorf("invalid type of field %s (%T)", key, value)
}

func (j JSON) GetNumber(key string) (float64, error) {
	value, err := j.Get(key)
	if err != nil {
		return 0, err
	}

	switch t := value.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	}

	return 0, fmt.Errorf("invalid type of field %s (%T)", key, value)
}

func (j JSON) GetBool(key string) (bool, error) {
	value, err := j.Get(key)
	if err != nil {
		return false, err
	}

	if value == nil {
		return false, nil
	}

	if b, ok := value.(bool); ok {
		return b, nil
	}

	return false, fmt.Errorf("invalid type of field %s (%T)", key, value)
}

func (j JSON) GetJSON(key string) (JSON, error) {
	value, err := j.Get(key)
	if err != nil {
		return nil, err
	}

	if value == nil {
		return nil, nil
	}

	if m, ok := value.(map[string]any); ok {
		return JSON(m), nil
	}

	return nil, fmt.Errorf("invalid type of field %s (%T)", key, value)
}

func (j JSON) GetArray(key string) (Array, error) {
	value, err := j.Get(key)
	if err != nil {
		return nil, err
	}

	if value == nil {
		return nil, nil
	}

	raw, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("invalid type of field %s (%T)", key, value)
	}

	result := make(Array, 0, len(raw))
	for i, elem := range raw {
		m, ok := elem.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("invalid type of element %d of field %s (%T)", i, key, elem)
		}
		result = append(result, JSON(m))
	}

	return result, nil
}

type Response struct {
	Code    int
	Header  http.Header
	Body    any
	RawBody []byte
}

func (r *Response) JSON() (JSON, error) {
	if j, ok := r.Body.(JSON); ok {
		return j, nil
	}

	return nil, fmt.Errorf("response body is not an object (%T)", r.Body)
}

func (r *Response) Array() (Array, error) {
	if a, ok := r.Body.(Array); ok {
		return a, nil
	}

	return nil, fmt.Errorf("response body is not an array (%T)", r.Body)
}

func bytesToJSON(b []byte) (JSON, error) {
	result := JSON{}
	if err := json.Unmarshal(b, &result); err != nil {
		return nil, err
	}

	return result, nil
}

func bytesToArray(b []byte) (Array, error) {
	raw := []map[string]any{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}

	result := make(Array, 0, len(raw))
	for _, m := range raw {
		result = append(result, JSON(m))
	}

	return result, nil
}
