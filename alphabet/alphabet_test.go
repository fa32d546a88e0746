package alphabet

import (
	"testing"

	"github.com/hupe1980/strucdb/structure"
	"github.com/hupe1980/strucdb/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func helixCoords(n int) structure.Coords {
	ca := make([]structure.Vec3, n)
	for i := range ca {
		ca[i] = testutil.CA(i)
	}
	return structure.Coords{CA: ca, N: ca, C: ca, CB: ca}
}

func TestGeometric_Helix(t *testing.T) {
	states := NewGeometric().Convert(nil, helixCoords(8))
	require.Len(t, states, 8)

	assert.Equal(t, byte(Invalid), states[0])
	assert.Equal(t, byte(Invalid), states[6])
	assert.Equal(t, byte(Invalid), states[7])
	for i := 1; i <= 5; i++ {
		assert.Equal(t, byte(8), states[i], "residue %d", i)
	}
}

func TestGeometric_ShortChain(t *testing.T) {
	for n := 0; n < 4; n++ {
		states := NewGeometric().Convert(nil, helixCoords(n))
		require.Len(t, states, n)
		for _, s := range states {
			assert.Equal(t, byte(Invalid), s)
		}
	}
}

func TestGeometric_ChainBreak(t *testing.T) {
	c := helixCoords(10)
	c.CA[5] = c.CA[5].Add(structure.Vec3{X: 20})

	states := NewGeometric().Convert(nil, c)
	require.Len(t, states, 10)
	// every window touching residue 5 is broken
	for _, i := range []int{3, 4, 5, 6} {
		assert.Equal(t, byte(Invalid), states[i], "residue %d", i)
	}
	assert.Equal(t, byte(8), states[2])
	assert.Equal(t, byte(8), states[7])
}

func TestGeometric_AppendsToDst(t *testing.T) {
	dst := []byte{1, 2}
	dst = NewGeometric().Convert(dst, helixCoords(4))
	assert.Equal(t, []byte{1, 2, Invalid, 8, Invalid, Invalid}, dst)
}

func TestState(t *testing.T) {
	tests := []struct {
		theta, tau float64
		want       byte
	}{
		{80, -180, 0},
		{80, 180, 4},
		{95, 0, 7},
		{110, -100, 11},
		{150, 179, 19},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, State(tt.theta, tt.tau), "theta=%v tau=%v", tt.theta, tt.tau)
	}
}

func TestDihedral(t *testing.T) {
	a := structure.Vec3{Y: 1}
	b := structure.Vec3{}
	c := structure.Vec3{X: 1}

	assert.InDelta(t, 0, dihedral(a, b, c, structure.Vec3{X: 1, Y: 1}), 1e-6)
	assert.InDelta(t, 180, dihedral(a, b, c, structure.Vec3{X: 1, Y: -1}), 1e-6)
	assert.InDelta(t, 90, angle(a, b, c), 1e-6)
}

func TestTable(t *testing.T) {
	tbl := DefaultTable
	assert.Equal(t, byte('A'), tbl.Letter(0))
	assert.Equal(t, byte('Y'), tbl.Letter(States-1))
	assert.Equal(t, byte('X'), tbl.Letter(Invalid))
	assert.Equal(t, byte('X'), tbl.Letter(200))

	assert.Equal(t, "KAX", string(tbl.AppendLetters(nil, []byte{8, 0, Invalid})))

	_, err := NewTable("ABC")
	assert.ErrorIs(t, err, ErrTableSize)

	custom, err := NewTable("abcdefghijklmnopqrst*")
	require.NoError(t, err)
	assert.Equal(t, byte('*'), custom.Letter(Invalid))
}
