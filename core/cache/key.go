package cache

import (
	"sort"
	"strconv"
	"strings"
)

// KeyBuilder assembles deterministic cache keys from query parameters.
// Optional parameters are only written when set, and every string value is
// trimmed and lower-cased so equal queries always share one key.
type KeyBuilder struct {
	parts []string
}

// NewKey starts a key with the given base name.
func NewKey(base string) *KeyBuilder {
	return &KeyBuilder{parts: []string{base}}
}

// Int appends a positional integer.
func (b *KeyBuilder) Int(v int) *KeyBuilder {
	b.parts = append(b.parts, strconv.Itoa(v))
	return b
}

// OptInt appends name:v when v is non-nil.
func (b *KeyBuilder) OptInt(name string, v *int) *KeyBuilder {
	if v != nil {
		b.parts = append(b.parts, name, strconv.Itoa(*v))
	}
	return b
}

// OptString appends name:value when value is non-blank.
func (b *KeyBuilder) OptString(name, value string) *KeyBuilder {
	value = strings.ToLower(strings.TrimSpace(value))
	if value != "" {
		b.parts = append(b.parts, name, value)
	}
	return b
}

// Set appends name:a,b,c using the canonical form of values.
func (b *KeyBuilder) Set(name string, values []string) *KeyBuilder {
	norm := NormalizeSet(values)
	if len(norm) > 0 {
		b.parts = append(b.parts, name, strings.Join(norm, ","))
	}
	return b
}

// String returns the colon-joined key.
func (b *KeyBuilder) String() string {
	return strings.Join(b.parts, ":")
}

// NormalizeSet trims, lower-cases, de-duplicates and sorts values, dropping blanks.
func NormalizeSet(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
