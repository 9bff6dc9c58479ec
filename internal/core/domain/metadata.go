package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// NFTMetadata is the off-chain description of a catalog item. The zero value
// stands for unknown metadata.
type NFTMetadata struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	NFTType1    string  `json:"nft_type1"`
	NFTType2    string  `json:"nft_type2"`
	ImageURL    string  `json:"image_url"`
	ExternalURL string  `json:"external_url"`
	Attributes  []Trait `json:"attributes"`
}

type Trait struct {
	TraitType string     `json:"trait_type"`
	Value     TraitValue `json:"value"`
}

// TraitValue keeps a trait value as text. Numeric and boolean JSON values are
// kept as their literal form.
type TraitValue string

func (v *TraitValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = TraitValue(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = TraitValue(strings.TrimSpace(string(raw)))
	return nil
}

// IsZero reports whether m is the unknown metadata value.
func (m NFTMetadata) IsZero() bool {
	return m.ID == "" && m.Name == "" && m.Description == "" &&
		m.NFTType1 == "" && m.NFTType2 == "" && m.ImageURL == "" &&
		m.ExternalURL == "" && len(m.Attributes) == 0
}

// Clone returns a copy that shares no slice storage with m.
func (m NFTMetadata) Clone() NFTMetadata {
	if m.Attributes != nil {
		m.Attributes = append([]Trait(nil), m.Attributes...)
	}
	return m
}
