package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Option is a single label/value pair inside a custom variant
type Option struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// CustomVariant is a merchant-defined option set shown on the storefront
type CustomVariant struct {
	VariantTitle string   `json:"variantTitle" yaml:"variantTitle"`
	Options      []Option `json:"options" yaml:"options"`
}

// VariantSet is the ordered list of custom variants stored on a product.
//
// Editing methods return a new set and leave the receiver untouched, so a
// caller holding the previous value never observes a partial edit.
type VariantSet []CustomVariant

func emptyVariant() CustomVariant {
	return CustomVariant{Options: []Option{{}}}
}

// DefaultVariantSet is what the builder starts with when a product has no definitions.
func DefaultVariantSet() VariantSet {
	return VariantSet{emptyVariant()}
}

// ParseVariantSet decodes the metafield value. An empty value yields nil.
func ParseVariantSet(raw string) (VariantSet, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var set VariantSet
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		return nil, fmt.Errorf("decode custom variants: %w", err)
	}
	for i := range set {
		if set[i].Options == nil {
			set[i].Options = []Option{}
		}
	}
	return set, nil
}

// JSON encodes the set the way it is persisted in the metafield.
func (s VariantSet) JSON() (string, error) {
	if s == nil {
		s = VariantSet{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s VariantSet) clone() VariantSet {
	out := make(VariantSet, len(s))
	for i, v := range s {
		out[i] = CustomVariant{
			VariantTitle: v.VariantTitle,
			Options:      append([]Option(nil), v.Options...),
		}
	}
	return out
}

func (s VariantSet) checkVariant(i int) error {
	if i < 0 || i >= len(s) {
		return fmt.Errorf("variant index %d out of range (%d variants)", i, len(s))
	}
	return nil
}

func (s VariantSet) checkOption(i, j int) error {
	if err := s.checkVariant(i); err != nil {
		return err
	}
	if j < 0 || j >= len(s[i].Options) {
		return fmt.Errorf("option index %d out of range (%d options)", j, len(s[i].Options))
	}
	return nil
}

// AddVariant appends a variant with an empty title and one empty option
func (s VariantSet) AddVariant() VariantSet {
	return append(s.clone(), emptyVariant())
}

// DeleteVariant removes the variant at index i
func (s VariantSet) DeleteVariant(i int) (VariantSet, error) {
	if err := s.checkVariant(i); err != nil {
		return nil, err
	}
	out := s.clone()
	return append(out[:i], out[i+1:]...), nil
}

// SetVariantTitle replaces the title of variant i
func (s VariantSet) SetVariantTitle(i int, title string) (VariantSet, error) {
	if err := s.checkVariant(i); err != nil {
		return nil, err
	}
	out := s.clone()
	out[i].VariantTitle = title
	return out, nil
}

// AddOption appends an empty label/value pair to variant i
func (s VariantSet) AddOption(i int) (VariantSet, error) {
	if err := s.checkVariant(i); err != nil {
		return nil, err
	}
	out := s.clone()
	out[i].Options = append(out[i].Options, Option{})
	return out, nil
}

// DeleteOption removes option j from variant i
func (s VariantSet) DeleteOption(i, j int) (VariantSet, error) {
	if err := s.checkOption(i, j); err != nil {
		return nil, err
	}
	out := s.clone()
	opts := out[i].Options
	out[i].Options = append(opts[:j], opts[j+1:]...)
	return out, nil
}

// SetOption sets the label or value of option j in variant i
func (s VariantSet) SetOption(i, j int, field, value string) (VariantSet, error) {
	if err := s.checkOption(i, j); err != nil {
		return nil, err
	}
	out := s.clone()
	switch field {
	case "label":
		out[i].Options[j].Label = value
	case "value":
		out[i].Options[j].Value = value
	default:
		return nil, fmt.Errorf("unknown option field %q", field)
	}
	return out, nil
}
