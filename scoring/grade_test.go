package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGradeFor_Bands(t *testing.T) {
	cases := []struct {
		avg  float64
		want Grade
	}{
		{100, GradeAPlus},
		{95, GradeAPlus},
		{90, GradeAPlus},
		{89.99, GradeA},
		{80, GradeA},
		{70, GradeA},
		{69.5, GradeB},
		{60, GradeB},
		{59.9, GradeC},
		{50, GradeC},
		{49.99, GradeNone},
		{10, GradeNone},
		{0, GradeNone},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, GradeFor(c.avg), "avg=%v", c.avg)
	}
}

func TestGradeFor_Monotonic(t *testing.T) {
	order := map[Grade]int{
		GradeNone:  0,
		GradeC:     1,
		GradeB:     2,
		GradeA:     3,
		GradeAPlus: 4,
	}
	prev := GradeFor(0)
	for s := 0.5; s <= 100; s += 0.5 {
		g := GradeFor(s)
		assert.GreaterOrEqual(t, order[g], order[prev], "grade dropped at %v", s)
		prev = g
	}
}
