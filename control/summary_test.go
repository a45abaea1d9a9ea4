package control

import (
	"testing"

	"go.viam.com/test"
)

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, 900, DefaultErrorMargin)
	test.That(t, s, test.ShouldResemble, Summary{SettledAt: -1})
}

func TestSummarize(t *testing.T) {
	samples := []Sample{
		{0, 600},
		{1, 800},
		{2, 950},
		{3, 905},
		{4, 900},
		{5, 900},
	}
	s := Summarize(samples, 900, 10)
	test.That(t, s.Mean, test.ShouldAlmostEqual, 842.5)
	test.That(t, s.Min, test.ShouldEqual, 600.0)
	test.That(t, s.Max, test.ShouldEqual, 950.0)
	test.That(t, s.FinalError, test.ShouldEqual, 0.0)
	test.That(t, s.StdDev, test.ShouldBeGreaterThan, 0.0)
	test.That(t, s.SettledAt, test.ShouldEqual, 3.0)

	// a tighter margin settles later
	test.That(t, Summarize(samples, 900, 1).SettledAt, test.ShouldEqual, 4.0)
}

func TestSummarizeNotSettled(t *testing.T) {
	samples := []Sample{{0, 900}, {1, 900}, {2, 700}}
	s := Summarize(samples, 900, DefaultErrorMargin)
	test.That(t, s.SettledAt, test.ShouldEqual, -1.0)
	test.That(t, s.FinalError, test.ShouldEqual, 200.0)
}
