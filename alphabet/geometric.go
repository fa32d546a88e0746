package alphabet

import (
	"math"

	"github.com/hupe1980/strucdb/structure"
)

// MaxCADistance is the largest CA-CA distance (Å) still treated as bonded.
const MaxCADistance = 4.2

var angleEdges = [...]float64{90, 105, 120}

const dihedralBins = 5

// Geometric assigns states from the CA trace alone. Residue i uses the
// virtual bond angle at CA[i] and the dihedral CA[i-1]..CA[i+2].
type Geometric struct{}

// NewGeometric returns the default converter.
func NewGeometric() Geometric { return Geometric{} }

// Convert implements Converter.
func (Geometric) Convert(dst []byte, c structure.Coords) []byte {
	ca := c.CA
	n := len(ca)
	for i := 0; i < n; i++ {
		if i == 0 || i+2 >= n || !bonded(ca[i-1], ca[i]) || !bonded(ca[i], ca[i+1]) || !bonded(ca[i+1], ca[i+2]) {
			dst = append(dst, Invalid)
			continue
		}
		theta := angle(ca[i-1], ca[i], ca[i+1])
		tau := dihedral(ca[i-1], ca[i], ca[i+1], ca[i+2])
		dst = append(dst, State(theta, tau))
	}
	return dst
}

// State combines a bond angle and a dihedral (degrees) into a state.
func State(theta, tau float64) byte {
	a := len(angleEdges)
	for k, edge := range angleEdges {
		if theta < edge {
			a = k
			break
		}
	}
	d := int(math.Floor((tau + 180) / (360 / dihedralBins)))
	if d < 0 {
		d = 0
	}
	if d >= dihedralBins {
		d = dihedralBins - 1
	}
	return byte(a*dihedralBins + d)
}

func bonded(a, b structure.Vec3) bool {
	return a.Sub(b).Norm() <= MaxCADistance
}

func angle(a, b, c structure.Vec3) float64 {
	u, v := a.Sub(b), c.Sub(b)
	den := float64(u.Norm()) * float64(v.Norm())
	if den == 0 {
		return 0
	}
	cos := float64(u.Dot(v)) / den
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

func dihedral(a, b, c, d structure.Vec3) float64 {
	b0 := a.Sub(b)
	b1 := c.Sub(b)
	b2 := d.Sub(c)

	n1 := b1.Norm()
	if n1 == 0 {
		return 0
	}
	b1 = b1.Scale(1 / n1)
	v := b0.Sub(b1.Scale(b0.Dot(b1)))
	w := b2.Sub(b1.Scale(b2.Dot(b1)))
	x := float64(v.Dot(w))
	y := float64(b1.Cross(v).Dot(w))
	return math.Atan2(y, x) * 180 / math.Pi
}
