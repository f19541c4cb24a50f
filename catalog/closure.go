/*
 * ObjectHub
 *
 * Copyright 2021 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package catalog

import (
	"fmt"
	"sort"
	"strings"

	"devt.de/krotik/objecthub/catalog/model"
	"devt.de/krotik/objecthub/catalog/util"
)

// Closure index maintenance
// =========================

// Class relations are canonical so the class ids along any closure path
// are strictly increasing. All paths are therefore simple and the
// index is finite.

/*
insertClosureForEdge updates the closure index for a newly inserted
class relation (lo, hi). The index records one entry per distinct path
so the new edge is combined with all existing paths which end at lo and
all existing paths which start at hi.
*/
func (cm *Manager) insertClosureForEdge(lo uint64, hi uint64) error {
	t := cm.table(TableClosure)

	// Collect all paths which end at lo and all paths which start at hi
	// before any entries are added

	var intoLo []*model.ClosureEntry
	var fromHi []*model.ClosureEntry

	for _, entries := range t.Data() {
		for _, entry := range entries.([]*model.ClosureEntry) {

			if entry.Descendant == lo {
				intoLo = append(intoLo, entry)
			}

			if entry.Ancestor == hi {
				fromHi = append(fromHi, entry)
			}
		}
	}

	// Insert the direct entry

	if err := cm.addClosureEntry(&model.ClosureEntry{
		Ancestor:   lo,
		Descendant: hi,
		Depth:      1,
		Path:       []uint64{lo, hi},
	}); err != nil {
		return err
	}

	// Extend all paths which end at lo with the new edge

	for _, p1 := range intoLo {

		if err := cm.addClosureEntry(&model.ClosureEntry{
			Ancestor:   p1.Ancestor,
			Descendant: hi,
			Depth:      p1.Depth + 1,
			Path:       appendPath(p1.Path, hi),
		}); err != nil {
			return err
		}
	}

	// Extend all paths which start at hi with the new edge

	for _, p2 := range fromHi {

		if err := cm.addClosureEntry(&model.ClosureEntry{
			Ancestor:   lo,
			Descendant: p2.Descendant,
			Depth:      p2.Depth + 1,
			Path:       prependPath(lo, p2.Path),
		}); err != nil {
			return err
		}
	}

	// Bridge all path pairs over the new edge - p1 already ends at lo
	// and p2 already starts at hi so the bridged path is p1 ++ p2

	for _, p1 := range intoLo {
		for _, p2 := range fromHi {

			if err := cm.addClosureEntry(&model.ClosureEntry{
				Ancestor:   p1.Ancestor,
				Descendant: p2.Descendant,
				Depth:      p1.Depth + 1 + p2.Depth,
				Path:       joinPaths(p1.Path, p2.Path),
			}); err != nil {
				return err
			}
		}
	}

	return nil
}

/*
rebuildClosure recomputes the whole closure index from the stored class
relations. This runs after every deletion batch since derived entries
may depend on the removed edges in ways which cannot be untangled
incrementally.
*/
func (cm *Manager) rebuildClosure() error {
	t := cm.table(TableClosure)

	for key := range t.Data() {
		delete(t.Data(), key)
	}

	rels := cm.classRelations()

	sort.Slice(rels, func(i, j int) bool { return rels[i].ID < rels[j].ID })

	for _, rel := range rels {
		if err := cm.insertClosureForEdge(rel.ClassLo, rel.ClassHi); err != nil {
			return err
		}
	}

	return nil
}

/*
addClosureEntry adds a single entry to the closure index. The insert is
idempotent - an entry with an already recorded path is ignored since
different extension steps may derive the same path independently.
*/
func (cm *Manager) addClosureEntry(entry *model.ClosureEntry) error {
	t := cm.table(TableClosure)

	if err := checkClosureEntry(entry); err != nil {
		return err
	}

	key := pairKey(entry.Ancestor, entry.Descendant)

	var entries []*model.ClosureEntry

	if val, ok := t.Data()[key]; ok {
		entries = val.([]*model.ClosureEntry)

		for _, existing := range entries {
			if pathsEqual(existing.Path, entry.Path) {
				return nil
			}
		}
	}

	t.Data()[key] = append(entries, entry)

	return nil
}

/*
checkClosureEntry checks the well-formedness of a closure entry before
it enters the index. A malformed entry means the closure maintenance
itself is broken and the error must not be ignored.
*/
func checkClosureEntry(entry *model.ClosureEntry) error {
	wellformed := entry.Ancestor < entry.Descendant &&
		len(entry.Path) == entry.Depth+1 &&
		entry.Path[0] == entry.Ancestor &&
		entry.Path[len(entry.Path)-1] == entry.Descendant

	for i := 1; wellformed && i < len(entry.Path); i++ {
		if entry.Path[i] <= entry.Path[i-1] {
			wellformed = false
		}
	}

	if !wellformed {
		return &util.CatalogError{Type: util.ErrInconsistentClosure,
			Detail: fmt.Sprint("Malformed closure entry ", entry.Path)}
	}

	return nil
}

/*
closureEntries returns all entries for a canonical class pair without
taking the manager lock.
*/
func (cm *Manager) closureEntries(lo uint64, hi uint64) []*model.ClosureEntry {
	t := cm.table(TableClosure)

	if val, ok := t.Data()[pairKey(lo, hi)]; ok {
		return val.([]*model.ClosureEntry)
	}

	return nil
}

/*
sortClosureEntries sorts closure entries by depth and then by path so
query results are deterministic.
*/
func sortClosureEntries(entries []*model.ClosureEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Depth != entries[j].Depth {
			return entries[i].Depth < entries[j].Depth
		}

		return comparePaths(entries[i].Path, entries[j].Path) < 0
	})
}

// Path helpers
// ============

/*
appendPath returns a copy of a path with an additional last element.
*/
func appendPath(path []uint64, id uint64) []uint64 {
	ret := make([]uint64, 0, len(path)+1)

	ret = append(ret, path...)

	return append(ret, id)
}

/*
prependPath returns a copy of a path with an additional first element.
*/
func prependPath(id uint64, path []uint64) []uint64 {
	ret := make([]uint64, 0, len(path)+1)

	ret = append(ret, id)

	return append(ret, path...)
}

/*
joinPaths returns the concatenation of two paths as a new path.
*/
func joinPaths(p1 []uint64, p2 []uint64) []uint64 {
	ret := make([]uint64, 0, len(p1)+len(p2))

	ret = append(ret, p1...)

	return append(ret, p2...)
}

/*
pathsEqual checks if two paths are identical.
*/
func pathsEqual(p1 []uint64, p2 []uint64) bool {
	return comparePaths(p1, p2) == 0
}

/*
comparePaths compares two paths element by element.
*/
func comparePaths(p1 []uint64, p2 []uint64) int {
	for i := 0; i < len(p1) && i < len(p2); i++ {
		if p1[i] < p2[i] {
			return -1
		} else if p1[i] > p2[i] {
			return 1
		}
	}

	return len(p1) - len(p2)
}

/*
classRelations returns all stored class relations without taking the
manager lock.
*/
func (cm *Manager) classRelations() []*model.ClassRelation {
	var ret []*model.ClassRelation

	for key, val := range cm.table(TableClassRels).Data() {
		if strings.HasPrefix(key, PrefixEntity) {
			ret = append(ret, val.(*model.ClassRelation))
		}
	}

	return ret
}
