package catalog

import (
	"math/rand/v2"

	"github.com/rzbill/lodex/pkg/id"
)

// hiragana is the 46-character basic syllabary.
var hiragana = []rune("あいうえおかきくけこさしすせそたちつてとなにぬねのはひふへほまみむめもやゆよらりるれろわをん")

const (
	minNameLen = 2
	maxNameLen = 10
)

// Generate returns n items with random hiragana names of 2 to 10 characters.
// The same seed yields the same names; ids come from gen and are unique.
func Generate(n int, seed uint64, gen *id.Generator) []Item {
	if gen == nil {
		gen = id.NewGenerator()
	}
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	items := make([]Item, n)
	for i := range items {
		size := minNameLen + r.IntN(maxNameLen-minNameLen+1)
		name := make([]rune, size)
		for j := range name {
			name[j] = hiragana[r.IntN(len(hiragana))]
		}
		nid := gen.Next()
		items[i] = Item{ID: nid.String(), Name: string(name), CreatedMs: nid.Millis()}
	}
	return items
}
