// Package cachekey implements the fingerprint (CacheKey) that identifies a
// cached pipeline node invocation: a type tag plus a SHA-1 digest over a set
// of named input components.
package cachekey

import (
	"crypto/sha1" //nolint:gosec // committing a key, not securing content
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// typePattern matches the allowed alphabet for a CacheKey's Type field.
var typePattern = regexp.MustCompile(`^[A-Za-z0-9]{1,32}$`)

// hashPattern matches a lowercase 40-character hex SHA-1 digest.
var hashPattern = regexp.MustCompile(`^[0-9a-f]{40}$`)

// prefixPattern matches the leading "<type>_<hash>" portion of any filename
// that belongs to a cache entry. ParsePrefix exposes it so the store package
// can parse cache keys back out of marker and output filenames.
var prefixPattern = regexp.MustCompile(`^([A-Za-z0-9]{1,32}_[0-9a-f]{40})`)

// AnnotatedValue is a component value paired with an optional human-readable
// annotation. Only Value participates in hashing; Annotation is carried
// through JSON round-trips for diagnostics (e.g. the path that produced it).
type AnnotatedValue struct {
	Value      string
	Annotation string
	HasAnno    bool
}

// NewAnnotatedValue builds an AnnotatedValue with no annotation.
func NewAnnotatedValue(value string) AnnotatedValue {
	return AnnotatedValue{Value: value}
}

// NewAnnotatedValueWithNote builds an AnnotatedValue carrying an annotation.
func NewAnnotatedValueWithNote(value, annotation string) AnnotatedValue {
	return AnnotatedValue{Value: value, Annotation: annotation, HasAnno: true}
}

// InvalidKeyError reports that a Type or HashValue failed validation.
type InvalidKeyError struct {
	Field string
	Value string
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("cachekey: invalid %s %q", e.Field, e.Value)
}

// CacheKey is the fingerprint of a pipeline node invocation: the node kind
// (Type), the SHA-1 digest of its canonicalised Components (HashValue), and
// the components themselves.
type CacheKey struct {
	Type       string
	HashValue  string
	Components map[string]AnnotatedValue
}

// New constructs a CacheKey from a type tag and a set of components,
// computing HashValue from them. It validates Type but trusts the caller to
// have produced well-formed component values; HashValue is always valid by
// construction.
func New(typ string, components map[string]AnnotatedValue) (*CacheKey, error) {
	if !typePattern.MatchString(typ) {
		return nil, &InvalidKeyError{Field: "type", Value: typ}
	}
	return &CacheKey{
		Type:       typ,
		HashValue:  Hash(components),
		Components: components,
	}, nil
}

// NewWithHash reconstructs a CacheKey with an explicit HashValue, as used
// when deserialising a marker from disk. Both Type and HashValue are
// validated against their regexes; mismatches between HashValue and what
// Hash(components) would compute are NOT re-checked here, since the marker
// on disk is the recorded fact, not something to be recomputed on every read.
func NewWithHash(typ, hashValue string, components map[string]AnnotatedValue) (*CacheKey, error) {
	if !typePattern.MatchString(typ) {
		return nil, &InvalidKeyError{Field: "type", Value: typ}
	}
	if !hashPattern.MatchString(hashValue) {
		return nil, &InvalidKeyError{Field: "hashValue", Value: hashValue}
	}
	return &CacheKey{
		Type:       typ,
		HashValue:  hashValue,
		Components: components,
	}, nil
}

// Hash computes the canonical SHA-1 digest of a component set: sort entries
// by name (byte-wise), render each as "name: value", join with "\n" (no
// trailing newline), and hash the UTF-8 bytes. Annotations never enter the
// digest. This exact recipe is the cross-implementation interop contract —
// do not substitute a JSON-then-hash shortcut.
func Hash(components map[string]AnnotatedValue) string {
	names := make([]string, 0, len(components))
	for name := range components {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, name+": "+components[name].Value)
	}
	joined := strings.Join(lines, "\n")

	sum := sha1.Sum([]byte(joined)) //nolint:gosec
	return fmt.Sprintf("%x", sum)
}

// String returns the cache-key string "type_hashValue" that prefixes every
// file belonging to this key.
func (k *CacheKey) String() string {
	return k.Type + "_" + k.HashValue
}

// ParsePrefix extracts the leading "type_hash" cache-key string from a
// filename, returning ok=false if the filename doesn't start with one.
func ParsePrefix(filename string) (prefix string, ok bool) {
	m := prefixPattern.FindStringSubmatch(filename)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ValidType reports whether typ matches the type grammar.
func ValidType(typ string) bool {
	return typePattern.MatchString(typ)
}

// ValidHash reports whether hash matches the hash grammar.
func ValidHash(hash string) bool {
	return hashPattern.MatchString(hash)
}
