package control

import (
	"strconv"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
)

func TestParseGains(t *testing.T) {
	for _, c := range []struct {
		kp, ki, kd string
		gains      Gains
		err        string
	}{
		{"0.2", "0.01", "0.01", Gains{Kp: 0.2, Ki: 0.01, Kd: 0.01}, ""},
		{" 1 ", "\t2", "3\n", Gains{Kp: 1, Ki: 2, Kd: 3}, ""},
		{"-4", "1e-3", "0", Gains{Kp: -4, Ki: 0.001, Kd: 0}, ""},
		{"", "0.01", "0.01", Gains{}, `invalid kp value ""`},
		{"0.2", "abc", "0.01", Gains{}, `invalid ki value "abc"`},
		{"0.2", "0.01", "1,5", Gains{}, `invalid kd value "1,5"`},
	} {
		res := ParseGains(c.kp, c.ki, c.kd)
		if c.err == "" {
			test.That(t, res.OK(), test.ShouldBeTrue)
			test.That(t, res.Err, test.ShouldBeNil)
			test.That(t, res.Gains, test.ShouldResemble, c.gains)
		} else {
			test.That(t, res.OK(), test.ShouldBeFalse)
			test.That(t, res.Err.Error(), test.ShouldStartWith, c.err)
			test.That(t, res.Gains, test.ShouldResemble, Gains{})
			test.That(t, errors.Is(res.Err, strconv.ErrSyntax), test.ShouldBeTrue)
		}
	}
}
