package nhl

import (
	"strconv"
)

// Payload is a decoded JSON object from the feed. The feed is schema-less
// from the client's point of view; accessors substitute the caller's
// default whenever a field is absent or has an unexpected type.
type Payload map[string]any

// Has reports whether key is present and non-null.
func (p Payload) Has(key string) bool {
	v, ok := p[key]
	return ok && v != nil
}

// Map returns the nested object under key, or an empty Payload.
func (p Payload) Map(key string) Payload {
	if m, ok := p[key].(map[string]any); ok {
		return Payload(m)
	}
	if m, ok := p[key].(Payload); ok {
		return m
	}
	return Payload{}
}

// List returns the objects in the array under key. Non-object elements
// are skipped.
func (p Payload) List(key string) []Payload {
	raw, ok := p[key].([]any)
	if !ok {
		if typed, ok := p[key].([]Payload); ok {
			return typed
		}
		return nil
	}
	out := make([]Payload, 0, len(raw))
	for _, v := range raw {
		switch m := v.(type) {
		case map[string]any:
			out = append(out, Payload(m))
		case Payload:
			out = append(out, m)
		}
	}
	return out
}

// Str returns the string under key. Numbers are formatted without a
// trailing fraction when integral.
func (p Payload) Str(key, def string) string {
	switch v := p[key].(type) {
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	}
	return def
}

// Int returns the number under key truncated to an int.
func (p Payload) Int(key string, def int) int {
	switch v := p[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// Float returns the number under key.
func (p Payload) Float(key string, def float64) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

// Bool returns the boolean under key.
func (p Payload) Bool(key string, def bool) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return def
}

// Localized returns the "default" string of a localized field such as
// {"default": "Maple Leafs", "fr": "..."}. A bare string is returned as is.
func (p Payload) Localized(key, def string) string {
	if s, ok := p[key].(string); ok {
		return s
	}
	if s := p.Map(key).Str("default", ""); s != "" {
		return s
	}
	return def
}
