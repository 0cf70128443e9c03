package chart

import "strconv"

// Dentition generations. Permanent teeth use universal numbering "1".."32";
// primary teeth use letters "A".."T".
const (
	DentitionPermanent = "permanent"
	DentitionPrimary   = "primary"
)

const (
	QuadrantUpperRight = "upper_right"
	QuadrantUpperLeft  = "upper_left"
	QuadrantLowerLeft  = "lower_left"
	QuadrantLowerRight = "lower_right"
)

// ToothSpec is one row of the canonical dentition table. These are fixed
// reference data, never user input.
type ToothSpec struct {
	Number          string
	UniversalNumber int
	DentitionType   string
	Name            string
	Quadrant        string
}

var permanentToothTypes = [8]string{
	"Central Incisor", "Lateral Incisor", "Canine", "First Premolar",
	"Second Premolar", "First Molar", "Second Molar", "Third Molar",
}

var primaryToothTypes = [5]string{
	"Central Incisor", "Lateral Incisor", "Canine", "First Molar", "Second Molar",
}

var quadrantLabels = map[string]string{
	QuadrantUpperRight: "Upper Right",
	QuadrantUpperLeft:  "Upper Left",
	QuadrantLowerLeft:  "Lower Left",
	QuadrantLowerRight: "Lower Right",
}

var canonicalTeeth = buildCanonicalTeeth()

var specByNumber = func() map[string]ToothSpec {
	m := make(map[string]ToothSpec, len(canonicalTeeth))
	for _, t := range canonicalTeeth {
		m[t.Number] = t
	}
	return m
}()

// CanonicalTeeth returns the full 52-tooth reference set: 32 permanent
// followed by 20 primary, in canonical symbol order.
func CanonicalTeeth() []ToothSpec {
	out := make([]ToothSpec, len(canonicalTeeth))
	copy(out, canonicalTeeth)
	return out
}

// LookupSpec resolves a tooth symbol ("1".."32", "A".."T") to its canonical
// spec. ok is false for symbols outside either dentition.
func LookupSpec(number string) (ToothSpec, bool) {
	spec, ok := specByNumber[number]
	return spec, ok
}

func buildCanonicalTeeth() []ToothSpec {
	teeth := make([]ToothSpec, 0, 52)

	// Permanent dentition, universal numbering: 1 starts at the upper right
	// third molar, runs across the upper arch to 16, then 17 resumes at the
	// lower left third molar and runs back to 32 at the lower right.
	for n := 1; n <= 32; n++ {
		var quadrant string
		var typeIdx int
		switch {
		case n <= 8:
			quadrant = QuadrantUpperRight
			typeIdx = 8 - n
		case n <= 16:
			quadrant = QuadrantUpperLeft
			typeIdx = n - 9
		case n <= 24:
			quadrant = QuadrantLowerLeft
			typeIdx = 24 - n
		default:
			quadrant = QuadrantLowerRight
			typeIdx = n - 25
		}
		teeth = append(teeth, ToothSpec{
			Number:          strconv.Itoa(n),
			UniversalNumber: n,
			DentitionType:   DentitionPermanent,
			Name:            quadrantLabels[quadrant] + " " + permanentToothTypes[typeIdx],
			Quadrant:        quadrant,
		})
	}

	// Primary dentition: letters A..T mapped onto FDI numbers 51..55, 61..65,
	// 71..75, 81..85, five teeth per quadrant from the central incisor out.
	primaryQuadrants := [4]string{QuadrantUpperRight, QuadrantUpperLeft, QuadrantLowerLeft, QuadrantLowerRight}
	for i := 0; i < 20; i++ {
		quadrant := primaryQuadrants[i/5]
		typeIdx := i % 5
		teeth = append(teeth, ToothSpec{
			Number:          string(rune('A' + i)),
			UniversalNumber: 51 + (i/5)*10 + typeIdx,
			DentitionType:   DentitionPrimary,
			Name:            "Primary " + quadrantLabels[quadrant] + " " + primaryToothTypes[typeIdx],
			Quadrant:        quadrant,
		})
	}

	return teeth
}
