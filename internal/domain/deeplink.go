package domain

import "slices"

// Param is one query parameter of a deep link.
type Param struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// DeepLinkTarget is an in-app destination: a screen plus ordered parameters.
// Params behaves as a mapping that remembers insertion order; keys are unique.
type DeepLinkTarget struct {
	Screen string  `json:"screen"`
	Params []Param `json:"params,omitempty"`
}

// NewTarget builds a target from alternating key/value pairs.
// A trailing key without a value is ignored.
func NewTarget(screen string, kv ...string) DeepLinkTarget {
	t := DeepLinkTarget{Screen: screen}
	for i := 0; i+1 < len(kv); i += 2 {
		t = t.With(kv[i], kv[i+1])
	}
	return t
}

// Get returns the value stored under key.
func (t DeepLinkTarget) Get(key string) (string, bool) {
	for _, p := range t.Params {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Has reports whether key is present.
func (t DeepLinkTarget) Has(key string) bool {
	_, ok := t.Get(key)
	return ok
}

// With returns a copy of t with key set to value. An existing key keeps its
// position; a new key is appended.
func (t DeepLinkTarget) With(key, value string) DeepLinkTarget {
	params := slices.Clone(t.Params)
	for i := range params {
		if params[i].Key == key {
			params[i].Value = value
			return DeepLinkTarget{Screen: t.Screen, Params: params}
		}
	}
	return DeepLinkTarget{Screen: t.Screen, Params: append(params, Param{Key: key, Value: value})}
}

// Values returns the params as a plain map (order is lost).
func (t DeepLinkTarget) Values() map[string]string {
	m := make(map[string]string, len(t.Params))
	for _, p := range t.Params {
		m[p.Key] = p.Value
	}
	return m
}

// Equal compares screen and params in order. A nil and an empty param list are equal.
func (t DeepLinkTarget) Equal(o DeepLinkTarget) bool {
	if t.Screen != o.Screen || len(t.Params) != len(o.Params) {
		return false
	}
	for i := range t.Params {
		if t.Params[i] != o.Params[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (t DeepLinkTarget) Clone() DeepLinkTarget {
	return DeepLinkTarget{Screen: t.Screen, Params: slices.Clone(t.Params)}
}
