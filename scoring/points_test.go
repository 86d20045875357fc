package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleSettings() Settings {
	return Settings{
		NormalGradePoints: map[Grade]float64{
			GradeAPlus: 10,
			GradeA:     8,
			GradeB:     6,
			GradeC:     4,
		},
		SpecialGradePoints: map[int]map[Grade]float64{
			42: {GradeAPlus: 20, GradeA: 15},
		},
		RankPoints: RankPoints{First: 5, Second: 3, Third: 1},
	}
}

func TestPointsFor_NormalProgram(t *testing.T) {
	s := sampleSettings()
	// A+ and rank 1
	assert.Equal(t, 15.0, PointsFor(95, 1, MarkTypeNormal, 1, s))
	// A and rank 3
	assert.Equal(t, 9.0, PointsFor(80, 3, MarkTypeNormal, 1, s))
	// B, unranked
	assert.Equal(t, 6.0, PointsFor(65, 0, MarkTypeNormal, 1, s))
}

func TestPointsFor_SpecialMarkUsesProgramTable(t *testing.T) {
	s := sampleSettings()
	assert.Equal(t, 25.0, PointsFor(95, 1, MarkTypeSpecial, 42, s))
	assert.Equal(t, 18.0, PointsFor(75, 2, MarkTypeSpecial, 42, s))
}

func TestPointsFor_MissingKeysDegradeToZero(t *testing.T) {
	s := sampleSettings()

	// No Grade absent from the normal table
	assert.Equal(t, 0.0, PointsFor(30, 4, MarkTypeNormal, 1, s))

	// special-mark program with no per-program table: grade component is 0,
	// rank points still apply
	assert.Equal(t, 5.0, PointsFor(95, 1, MarkTypeSpecial, 99, s))

	// rank beyond third earns no rank points
	assert.Equal(t, 10.0, PointsFor(95, 4, MarkTypeNormal, 1, s))
}

func TestPointsFor_EmptySettings(t *testing.T) {
	// Totally unconfigured settings never panic, everything is 0.
	var s Settings
	for _, avg := range []float64{0, 49, 50, 60, 70, 90, 100} {
		for rank := 0; rank <= 5; rank++ {
			assert.Equal(t, 0.0, PointsFor(avg, rank, MarkTypeNormal, 1, s))
			assert.Equal(t, 0.0, PointsFor(avg, rank, MarkTypeSpecial, 1, s))
		}
	}
}
