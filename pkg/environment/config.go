package environment

import (
	"bytes"
	"encoding/json"

	"github.com/rotisserie/eris"
)

var (
	// ErrUnsupportedValue is returned when a configuration value has no JSON representation.
	ErrUnsupportedValue = eris.New("value can't be represented as JSON")
	// ErrNotAMapping is returned when a configuration document (or environment) isn't a mapping.
	ErrNotAMapping = eris.New("configuration is not a mapping")
	// ErrEnvironmentNotDefined is returned when the requested environment is missing from the file.
	ErrEnvironmentNotDefined = eris.New("environment not defined")
	// ErrUnknownFormat is returned for configuration files with an unsupported extension.
	ErrUnknownFormat = eris.New("unknown configuration format")
)

// Config is the configuration object for one environment. It behaves like a JS object:
// keys keep their insertion order and the JSON encoding follows that order.
// Nested mappings are *Config values, sequences are []interface{}.
type Config struct {
	keys   []string
	values map[string]interface{}
}

// New returns an empty Config.
func New() *Config {
	return &Config{values: map[string]interface{}{}}
}

// Set stores value under key. Overwriting an existing key keeps its position.
func (c *Config) Set(key string, value interface{}) {
	if _, present := c.values[key]; !present {
		c.keys = append(c.keys, key)
	}
	c.values[key] = value
}

// Get returns the value stored under key.
func (c *Config) Get(key string) (interface{}, bool) {
	if c == nil {
		return nil, false
	}

	value, ok := c.values[key]
	return value, ok
}

// Keys returns the keys in insertion order.
func (c *Config) Keys() []string {
	if c == nil {
		return nil
	}

	result := make([]string, len(c.keys))
	copy(result, c.keys)
	return result
}

// Len returns the number of keys.
func (c *Config) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// MarshalJSON implements json.Marshaler.
func (c *Config) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("null"), nil
	}

	buf := bytes.Buffer{}
	buf.WriteByte('{')
	for idx, key := range c.keys {
		if idx > 0 {
			buf.WriteByte(',')
		}

		encKey, err := encode(key)
		if err != nil {
			return nil, err
		}

		encValue, err := encode(c.values[key])
		if err != nil {
			return nil, eris.Wrapf(err, "failed to encode %s", key)
		}

		buf.Write(encKey)
		buf.WriteByte(':')
		buf.Write(encValue)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// JSON serializes the configuration the same way JSON.stringify() would.
func (c *Config) JSON() (string, error) {
	data, err := encode(c)
	if err != nil {
		return "", eris.Wrap(err, "failed to serialize environment")
	}
	return string(data), nil
}

// encode is json.Marshal without HTML escaping and without the trailing newline.
func encode(value interface{}) ([]byte, error) {
	buf := bytes.Buffer{}
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	err := enc.Encode(value)
	if err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// unsupportedValue stands in for values that were loaded fine but can't be serialized
// (functions, cyclic containers). Loading succeeds; serialization fails.
type unsupportedValue struct {
	kind string
}

func (v unsupportedValue) MarshalJSON() ([]byte, error) {
	return nil, eris.Wrapf(ErrUnsupportedValue, "found %s value", v.kind)
}
