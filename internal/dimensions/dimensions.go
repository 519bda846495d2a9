// Package dimensions encodes the box size of courier pallets.
//
// The canonical stored form is "LxPxH" with no spaces and no unit, e.g.
// "110x130x150". Decoding is lenient: it also accepts spaces around the
// delimiter, an upper-case X or the multiplication sign, and a trailing unit
// token separated by whitespace ("110 x 130 x 150 cm").
package dimensions

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"github.com/Lysium16/bancalplast-lysium/internal/model"
)

// Placeholder is rendered when dimensions are absent or unreadable.
const Placeholder = "—"

var (
	ErrMissing    = errors.New("dimensions are required for courier pallets")
	ErrMalformed  = errors.New("dimensions must be three values L x P x H")
	ErrUnexpected = errors.New("dimensions are only allowed on courier pallets")
)

var (
	delimiter  = regexp.MustCompile(`\s*[xX×]\s*`)
	unitSuffix = regexp.MustCompile(`(?i)\s+(cm|mm|m)\.?$`)
)

// Dimensions is a decoded L × P × H triple. The zero value means "unknown".
type Dimensions struct {
	L string `json:"l"`
	P string `json:"p"`
	H string `json:"h"`
}

// Complete reports whether all three parts are present.
func (d Dimensions) Complete() bool { return d.L != "" && d.P != "" && d.H != "" }

// Encode trims each part and joins them in canonical form. It returns false
// when any part is empty or would not survive a decode (embedded whitespace
// or delimiter characters); callers must not persist in that case.
func Encode(l, p, h string) (string, bool) {
	parts := [3]string{strings.TrimSpace(l), strings.TrimSpace(p), strings.TrimSpace(h)}
	for _, s := range parts {
		if s == "" || strings.ContainsAny(s, "xX×") || strings.IndexFunc(s, unicode.IsSpace) >= 0 {
			return "", false
		}
	}
	return parts[0] + "x" + parts[1] + "x" + parts[2], true
}

// Decode parses a stored value. Anything that is not exactly three non-empty
// parts decodes to the zero value.
func Decode(s *string) Dimensions {
	if s == nil {
		return Dimensions{}
	}
	v := strings.TrimSpace(*s)
	v = unitSuffix.ReplaceAllString(v, "")
	if v == "" {
		return Dimensions{}
	}
	parts := delimiter.Split(v, -1)
	if len(parts) != 3 {
		return Dimensions{}
	}
	d := Dimensions{L: strings.TrimSpace(parts[0]), P: strings.TrimSpace(parts[1]), H: strings.TrimSpace(parts[2])}
	if !d.Complete() {
		return Dimensions{}
	}
	return d
}

// Pretty renders stored dimensions for display, e.g. "110 × 130 × 150".
func Pretty(s *string) string {
	d := Decode(s)
	if !d.Complete() {
		return Placeholder
	}
	return d.L + " × " + d.P + " × " + d.H
}

// Validate checks the shipping-type invariant: courier pallets carry
// decodable dimensions, truck pallets carry none.
func Validate(t model.ShippingType, s *string) error {
	switch t {
	case model.ShippingCourier:
		if s == nil || strings.TrimSpace(*s) == "" {
			return ErrMissing
		}
		if !Decode(s).Complete() {
			return ErrMalformed
		}
	case model.ShippingTruck:
		if s != nil {
			return ErrUnexpected
		}
	}
	return nil
}
