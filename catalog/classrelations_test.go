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
	"testing"

	"devt.de/krotik/objecthub/catalog/model"
	"devt.de/krotik/objecthub/catalog/util"
)

/*
createTestClasses creates a namespace with a given number of classes.
*/
func createTestClasses(t *testing.T, count int) (*Manager, []*model.Class) {
	cm := newTestManager()

	ns := &model.Namespace{Name: "main"}
	if err := cm.StoreNamespace(ns); err != nil {
		t.Error(err)
		return nil, nil
	}

	var classes []*model.Class

	for i := 0; i < count; i++ {
		cl := &model.Class{Name: fmt.Sprint("class", i), Namespace: ns.ID}

		if err := cm.StoreClass(cl); err != nil {
			t.Error(err)
			return nil, nil
		}

		classes = append(classes, cl)
	}

	return cm, classes
}

/*
bruteForceRelated recomputes relatedness from scratch from an edge set.
Closure paths follow canonical edges from lower to higher ids so the
reference check is a directed reachability search.
*/
func bruteForceRelated(rels []*model.ClassRelation, from uint64, to uint64) bool {
	lo, hi := canonicalize(from, to)

	var visit func(current uint64) bool

	visit = func(current uint64) bool {
		if current == hi {
			return true
		}

		for _, rel := range rels {
			if rel.ClassLo == current && visit(rel.ClassHi) {
				return true
			}
		}

		return false
	}

	return lo != hi && visit(lo)
}

/*
checkClosureAgreement checks that the closure index agrees with a from
scratch recomputation for every class pair.
*/
func checkClosureAgreement(t *testing.T, cm *Manager, classes []*model.Class) {
	rels, _ := cm.ClassRelations()

	for i, c1 := range classes {
		for _, c2 := range classes[i+1:] {

			expected := bruteForceRelated(rels, c1.ID, c2.ID)

			if res := cm.AreClassesRelated(c1.ID, c2.ID); res != expected {
				t.Error("Closure disagrees with recomputation for",
					c1.Name, c2.Name, "got:", res, "expected:", expected)
				return
			}
		}
	}
}

func TestClassRelationCanonicalOrdering(t *testing.T) {
	cm, classes := createTestClasses(t, 2)
	if cm == nil {
		return
	}

	// Insert with the endpoints in reverse order

	rel, err := cm.StoreClassRelation(classes[1].ID, classes[0].ID)
	if err != nil {
		t.Error(err)
		return
	}

	if rel.ClassLo != classes[0].ID || rel.ClassHi != classes[1].ID {
		t.Error("Relation was not canonicalized:", rel)
		return
	}

	// Inserting again must fail in both orders

	_, err = cm.StoreClassRelation(classes[0].ID, classes[1].ID)
	if ce, ok := err.(*util.CatalogError); !ok || ce.Type != util.ErrDuplicateRelation {
		t.Error("Unexpected result:", err)
		return
	}

	_, err = cm.StoreClassRelation(classes[1].ID, classes[0].ID)
	if ce, ok := err.(*util.CatalogError); !ok || ce.Type != util.ErrDuplicateRelation {
		t.Error("Unexpected result:", err)
		return
	}

	// Lookup works in both orders

	res, _ := cm.ClassRelationBetween(classes[1].ID, classes[0].ID)
	if res == nil || res.ID != rel.ID {
		t.Error("Unexpected result:", res)
		return
	}
}

func TestClassRelationValidation(t *testing.T) {
	cm, classes := createTestClasses(t, 1)
	if cm == nil {
		return
	}

	// No self relations

	_, err := cm.StoreClassRelation(classes[0].ID, classes[0].ID)
	if ce, ok := err.(*util.CatalogError); !ok || ce.Type != util.ErrInvalidRelation {
		t.Error("Unexpected result:", err)
		return
	}

	// Both classes must exist

	_, err = cm.StoreClassRelation(classes[0].ID, 4711)
	if ce, ok := err.(*util.CatalogError); !ok || ce.Type != util.ErrNotFound {
		t.Error("Unexpected result:", err)
		return
	}

	// Removal of a nonexistent relation

	_, err = cm.RemoveClassRelation(4711)
	if ce, ok := err.(*util.CatalogError); !ok || ce.Type != util.ErrNotFound {
		t.Error("Unexpected result:", err)
		return
	}
}

func TestClosureMaintenance(t *testing.T) {
	cm, classes := createTestClasses(t, 5)
	if cm == nil {
		return
	}

	c := func(i int) uint64 { return classes[i].ID }

	// Build a chain 0 - 1 - 2 - 3 and a shortcut 0 - 2

	cm.StoreClassRelation(c(0), c(1))
	cm.StoreClassRelation(c(1), c(2))
	cm.StoreClassRelation(c(2), c(3))
	cm.StoreClassRelation(c(0), c(2))

	checkClosureAgreement(t, cm, classes)

	if !cm.AreClassesRelated(c(0), c(3)) {
		t.Error("Transitive relation was not recorded")
		return
	}

	if cm.AreClassesRelated(c(0), c(4)) {
		t.Error("Unrelated classes should not be related")
		return
	}

	// Two distinct paths must be recorded between 0 and 2

	entries, _ := cm.ClassClosure(c(0), c(2))
	if len(entries) != 2 {
		t.Error("Unexpected closure entries:", entries)
		return
	}

	if entries[0].Depth != 1 || entries[1].Depth != 2 {
		t.Error("Unexpected closure entry depths:", entries)
		return
	}

	// Two distinct paths must also be recorded between 0 and 3

	entries, _ = cm.ClassClosure(c(0), c(3))
	if len(entries) != 2 {
		t.Error("Unexpected closure entries:", entries)
		return
	}
}

func TestClosurePathWellFormedness(t *testing.T) {
	cm, classes := createTestClasses(t, 6)
	if cm == nil {
		return
	}

	c := func(i int) uint64 { return classes[i].ID }

	// Insert the bridging edge last so all four insertion steps run

	cm.StoreClassRelation(c(0), c(1))
	cm.StoreClassRelation(c(1), c(2))
	cm.StoreClassRelation(c(3), c(4))
	cm.StoreClassRelation(c(4), c(5))
	cm.StoreClassRelation(c(2), c(3))

	for i, c1 := range classes {
		for _, c2 := range classes[i+1:] {

			entries, _ := cm.ClassClosure(c1.ID, c2.ID)

			for _, entry := range entries {

				if len(entry.Path) != entry.Depth+1 {
					t.Error("Path length does not match depth:", entry)
					return
				}

				if entry.Path[0] != entry.Ancestor ||
					entry.Path[len(entry.Path)-1] != entry.Descendant {
					t.Error("Path endpoints do not match entry:", entry)
					return
				}

				// The bridge node must not be double counted

				for j := 1; j < len(entry.Path); j++ {
					if entry.Path[j] == entry.Path[j-1] {
						t.Error("Duplicate consecutive path element:", entry)
						return
					}
				}
			}
		}
	}

	// The longest bridged path spans all six classes

	entries, _ := cm.ClassClosure(c(0), c(5))
	if len(entries) != 1 || entries[0].Depth != 5 {
		t.Error("Unexpected closure entries:", entries)
		return
	}
}

func TestClosureDeletion(t *testing.T) {
	cm, classes := createTestClasses(t, 4)
	if cm == nil {
		return
	}

	c := func(i int) uint64 { return classes[i].ID }

	cm.StoreClassRelation(c(0), c(1))
	rel12, _ := cm.StoreClassRelation(c(1), c(2))
	cm.StoreClassRelation(c(2), c(3))

	if !cm.AreClassesRelated(c(0), c(3)) {
		t.Error("Transitive relation was not recorded")
		return
	}

	// Removing the middle edge must remove all derived entries even
	// though all endpoint classes still exist

	if _, err := cm.RemoveClassRelation(rel12.ID); err != nil {
		t.Error(err)
		return
	}

	checkClosureAgreement(t, cm, classes)

	if cm.AreClassesRelated(c(0), c(3)) || cm.AreClassesRelated(c(0), c(2)) {
		t.Error("Stale closure entries after deletion")
		return
	}

	if !cm.AreClassesRelated(c(0), c(1)) || !cm.AreClassesRelated(c(2), c(3)) {
		t.Error("Surviving direct relations lost")
		return
	}

	// Re-inserting the edge restores the full closure

	cm.StoreClassRelation(c(1), c(2))

	checkClosureAgreement(t, cm, classes)

	if !cm.AreClassesRelated(c(0), c(3)) {
		t.Error("Closure was not restored")
		return
	}
}

func TestClosureDeletionSequence(t *testing.T) {
	cm, classes := createTestClasses(t, 6)
	if cm == nil {
		return
	}

	c := func(i int) uint64 { return classes[i].ID }

	pairs := [][2]int{{0, 1}, {1, 2}, {0, 2}, {2, 5}, {3, 4}, {1, 4}, {4, 5}}

	var rels []*model.ClassRelation

	for _, p := range pairs {
		rel, err := cm.StoreClassRelation(c(p[0]), c(p[1]))
		if err != nil {
			t.Error(err)
			return
		}

		rels = append(rels, rel)

		checkClosureAgreement(t, cm, classes)
	}

	// Delete the edges again in insertion order and check the closure
	// against a recomputation after every step

	for _, rel := range rels {
		if _, err := cm.RemoveClassRelation(rel.ID); err != nil {
			t.Error(err)
			return
		}

		checkClosureAgreement(t, cm, classes)
	}

	if cm.ClassRelationCount() != 0 {
		t.Error("Unexpected relation count:", cm.ClassRelationCount())
		return
	}
}

func TestClassDeletionCascade(t *testing.T) {
	cm, classes := createTestClasses(t, 3)
	if cm == nil {
		return
	}

	c := func(i int) uint64 { return classes[i].ID }

	cm.StoreClassRelation(c(0), c(1))
	cm.StoreClassRelation(c(1), c(2))

	if _, err := cm.RemoveClass(c(1)); err != nil {
		t.Error(err)
		return
	}

	if cm.ClassRelationCount() != 0 {
		t.Error("Relations of the removed class should be gone:",
			cm.ClassRelationCount())
		return
	}

	if cm.AreClassesRelated(c(0), c(2)) {
		t.Error("Stale closure entries after class deletion")
		return
	}
}
