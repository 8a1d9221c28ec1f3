package cachekey

import (
	"encoding/json"
	"fmt"
)

// jsonAnnotatedValue is the wire shape of AnnotatedValue: {"value", "annotation"?}.
type jsonAnnotatedValue struct {
	Value      string  `json:"value"`
	Annotation *string `json:"annotation,omitempty"`
}

// jsonCacheKey is the wire shape of CacheKey, matching the marker JSON
// schema documented for the on-disk sidecar.
type jsonCacheKey struct {
	Type       string                         `json:"type"`
	HashValue  string                         `json:"hashValue"`
	Components map[string]jsonAnnotatedValue  `json:"components"`
}

// MarshalJSON renders the pretty-printable wire form. Use json.MarshalIndent
// at the call site for the pretty-printed marker file; this method just
// picks the field shape.
func (k *CacheKey) MarshalJSON() ([]byte, error) {
	out := jsonCacheKey{
		Type:       k.Type,
		HashValue:  k.HashValue,
		Components: make(map[string]jsonAnnotatedValue, len(k.Components)),
	}
	for name, av := range k.Components {
		jav := jsonAnnotatedValue{Value: av.Value}
		if av.HasAnno {
			anno := av.Annotation
			jav.Annotation = &anno
		}
		out.Components[name] = jav
	}
	return json.Marshal(out)
}

// UnmarshalJSON parses the marker JSON schema back into a CacheKey. Type and
// HashValue are validated; malformed JSON yields a wrapped decode error and
// an invalid Type or HashValue yields an *InvalidKeyError.
func (k *CacheKey) UnmarshalJSON(data []byte) error {
	var in jsonCacheKey
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("cachekey: decode: %w", err)
	}

	components := make(map[string]AnnotatedValue, len(in.Components))
	for name, jav := range in.Components {
		av := AnnotatedValue{Value: jav.Value}
		if jav.Annotation != nil {
			av.Annotation = *jav.Annotation
			av.HasAnno = true
		}
		components[name] = av
	}

	if !typePattern.MatchString(in.Type) {
		return &InvalidKeyError{Field: "type", Value: in.Type}
	}
	if !hashPattern.MatchString(in.HashValue) {
		return &InvalidKeyError{Field: "hashValue", Value: in.HashValue}
	}

	k.Type = in.Type
	k.HashValue = in.HashValue
	k.Components = components
	return nil
}

// Marshal renders the pretty-printed JSON form of k, matching the marker
// file schema (two-space indent, UTF-8).
func Marshal(k *CacheKey) ([]byte, error) {
	data, err := json.MarshalIndent(k, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("cachekey: marshal: %w", err)
	}
	return data, nil
}

// Unmarshal parses the marker JSON schema into a CacheKey.
func Unmarshal(data []byte) (*CacheKey, error) {
	k := &CacheKey{}
	if err := json.Unmarshal(data, k); err != nil {
		return nil, err
	}
	return k, nil
}
