package umbraco

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Kind is the JSON shape of a property value.
type Kind uint8

const (
	KindAbsent Kind = iota
	KindNull
	KindString
	KindNumber
	KindBool
	KindObject
	KindArray
)

// Value is a single dynamic property value kept as raw JSON until read
// through one of the typed accessors of [Properties].
type Value struct {
	raw json.RawMessage
}

func (v *Value) UnmarshalJSON(b []byte) error {
	v.raw = append(v.raw[:0], b...)
	return nil
}

func (v Value) MarshalJSON() ([]byte, error) {
	if len(v.raw) == 0 {
		return []byte("null"), nil
	}
	return v.raw, nil
}

func (v Value) Kind() Kind {
	trimmed := bytes.TrimSpace(v.raw)
	if len(trimmed) == 0 {
		return KindAbsent
	}
	switch c := trimmed[0]; {
	case c == 'n':
		return KindNull
	case c == '"':
		return KindString
	case c == 't' || c == 'f':
		return KindBool
	case c == '{':
		return KindObject
	case c == '[':
		return KindArray
	default:
		return KindNumber
	}
}

// Properties is the property bag of a content node.
type Properties map[string]Value

func (p Properties) Kind(key string) Kind {
	v, ok := p[key]
	if !ok {
		return KindAbsent
	}
	return v.Kind()
}

// Decode unmarshals the value under key into dst. It reports false when
// the value is absent, null or of an incompatible shape.
func (p Properties) Decode(key string, dst any) bool {
	switch p.Kind(key) {
	case KindAbsent, KindNull:
		return false
	}
	return json.Unmarshal(p[key].raw, dst) == nil
}

func (p Properties) String(key string) (string, bool) {
	if p.Kind(key) != KindString {
		return "", false
	}
	var s string
	if !p.Decode(key, &s) {
		return "", false
	}
	return s, true
}

func (p Properties) Number(key string) (float64, bool) {
	if p.Kind(key) != KindNumber {
		return 0, false
	}
	var n float64
	if !p.Decode(key, &n) {
		return 0, false
	}
	return n, true
}

func (p Properties) Decimal(key string) (decimal.Decimal, bool) {
	if p.Kind(key) != KindNumber {
		return decimal.Zero, false
	}
	var d decimal.Decimal
	if !p.Decode(key, &d) {
		return decimal.Zero, false
	}
	return d, true
}

func (p Properties) Bool(key string) (bool, bool) {
	if p.Kind(key) != KindBool {
		return false, false
	}
	var b bool
	if !p.Decode(key, &b) {
		return false, false
	}
	return b, true
}

func (p Properties) Strings(key string) ([]string, bool) {
	if p.Kind(key) != KindArray {
		return nil, false
	}
	var ss []string
	if !p.Decode(key, &ss) {
		return nil, false
	}
	return ss, true
}

// Markup returns the markup of a rich text value.
func (p Properties) Markup(key string) (string, bool) {
	if p.Kind(key) != KindObject {
		return "", false
	}
	var rt struct {
		Markup string `json:"markup"`
	}
	if !p.Decode(key, &rt) {
		return "", false
	}
	return rt.Markup, true
}

// Price decodes a commerce price value.
func (p Properties) Price(key string) (Price, bool) {
	if p.Kind(key) != KindObject {
		return Price{}, false
	}
	var price Price
	if !p.Decode(key, &price) {
		return Price{}, false
	}
	return price, true
}

// Media decodes a media picker value, either a list or a single item.
func (p Properties) Media(key string) ([]Media, bool) {
	switch p.Kind(key) {
	case KindArray:
		var ms []Media
		if !p.Decode(key, &ms) {
			return nil, false
		}
		return ms, true
	case KindObject:
		var m Media
		if !p.Decode(key, &m) {
			return nil, false
		}
		return []Media{m}, true
	}
	return nil, false
}

// Links decodes a multi url picker value.
func (p Properties) Links(key string) ([]Link, bool) {
	if p.Kind(key) != KindArray {
		return nil, false
	}
	var ls []Link
	if !p.Decode(key, &ls) {
		return nil, false
	}
	return ls, true
}

const (
	propHidden = "umbracoNaviHide"
	propStock  = "stock"
)

// Hidden reports the hide-from-navigation flag.
func (p Properties) Hidden() bool {
	hidden, _ := p.Bool(propHidden)
	return hidden
}

// InStock reports a positive stock count.
func (p Properties) InStock() bool {
	stock, ok := p.Decimal(propStock)
	return ok && stock.IsPositive()
}
