package control

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// GainsResult is the outcome of parsing gain text. Callers inspect OK before applying it.
type GainsResult struct {
	Gains Gains
	Err   error
}

// OK reports whether all three gains parsed.
func (r GainsResult) OK() bool {
	return r.Err == nil
}

// ParseGains parses the text of the three gain fields. Either all of them parse or the result
// carries the first failure and no gains.
func ParseGains(kp, ki, kd string) GainsResult {
	var g Gains
	for _, field := range []struct {
		name string
		text string
		dst  *float64
	}{
		{"kp", kp, &g.Kp},
		{"ki", ki, &g.Ki},
		{"kd", kd, &g.Kd},
	} {
		v, err := strconv.ParseFloat(strings.TrimSpace(field.text), 64)
		if err != nil {
			return GainsResult{Err: errors.Wrapf(err, "invalid %s value %q", field.name, field.text)}
		}
		*field.dst = v
	}
	return GainsResult{Gains: g}
}
