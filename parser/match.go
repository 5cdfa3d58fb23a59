package parser

import (
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
)

// Match pairs each prototype with the first typedef whose name contains the
// upper-cased prototype name, e.g. glFooEXT with PFNGLFOOEXTPROC. Prototypes
// without such a typedef are left out. The result is sorted by prototype name
// and holds each name at most once; the first prototype with a name wins.
func Match(prototypes []Prototype, typedefs []TypeDefinition) []Entry {
	matched := treemap.NewWithStringComparator()

	for _, p := range prototypes {
		if _, found := matched.Get(p.Name); found {
			continue
		}

		upper := strings.ToUpper(p.Name)
		for _, t := range typedefs {
			if strings.Contains(t.Name, upper) {
				matched.Put(p.Name, Entry{Prototype: p, TypeDefinition: t})
				break
			}
		}
	}

	entries := make([]Entry, 0, matched.Size())
	it := matched.Iterator()
	for it.Next() {
		entries = append(entries, it.Value().(Entry))
	}

	return entries
}
