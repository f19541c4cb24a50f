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

	"devt.de/krotik/objecthub/catalog/model"
	"devt.de/krotik/objecthub/catalog/util"
)

// Class relation API
// ==================

/*
StoreClassRelation declares that objects of two classes may be related.
The endpoints are canonicalized so the order in which they are given
does not matter. The closure index is updated in the same operation.
*/
func (cm *Manager) StoreClassRelation(classA uint64, classB uint64) (*model.ClassRelation, error) {
	lo, hi := canonicalize(classA, classB)

	if err := cm.cr.catalogEvent(EventClassRelationStore,
		&model.ClassRelation{ClassLo: lo, ClassHi: hi}); err != nil {

		if err == ErrEventHandled {
			err = nil
		}
		return nil, err
	}

	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	if classA == classB {
		return nil, &util.CatalogError{Type: util.ErrInvalidRelation,
			Detail: fmt.Sprint("Class cannot be related to itself: ", classA)}
	}

	if cm.class(lo) == nil {
		return nil, &util.CatalogError{Type: util.ErrNotFound,
			Detail: fmt.Sprint("Class ", lo)}
	}

	if cm.class(hi) == nil {
		return nil, &util.CatalogError{Type: util.ErrNotFound,
			Detail: fmt.Sprint("Class ", hi)}
	}

	t := cm.table(TableClassRels)

	if _, ok := t.Data()[PrefixRelPair+pairKey(lo, hi)]; ok {
		return nil, &util.CatalogError{Type: util.ErrDuplicateRelation,
			Detail: fmt.Sprint("Class relation ", lo, " <-> ", hi)}
	}

	rel := &model.ClassRelation{ID: cm.allocID(), ClassLo: lo, ClassHi: hi}

	t.Data()[PrefixEntity+numKey(rel.ID)] = rel
	t.Data()[PrefixRelPair+pairKey(lo, hi)] = rel.ID

	cm.changeCount(MainDBClassRelCount, 1)

	if err := cm.insertClosureForEdge(lo, hi); err != nil {
		return nil, err
	}

	if err := cm.flushStorage(TableClassRels, TableClosure); err != nil {
		return nil, err
	}

	if err := cm.cr.catalogEvent(EventClassRelationCreated, rel); err != nil && err != ErrEventHandled {
		return rel, err
	}

	return rel, nil
}

/*
ClassRelation fetches a single class relation from the catalog. The
function returns nil if the relation does not exist.
*/
func (cm *Manager) ClassRelation(id uint64) (*model.ClassRelation, error) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	return cm.classRelation(id), nil
}

/*
ClassRelationBetween fetches the class relation between two classes. The
function returns nil if no relation exists.
*/
func (cm *Manager) ClassRelationBetween(classA uint64, classB uint64) (*model.ClassRelation, error) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	lo, hi := canonicalize(classA, classB)

	t := cm.table(TableClassRels)

	if id, ok := t.Data()[PrefixRelPair+pairKey(lo, hi)]; ok {
		return cm.classRelation(id.(uint64)), nil
	}

	return nil, nil
}

/*
ClassRelations returns all stored class relations sorted by their id.
*/
func (cm *Manager) ClassRelations() ([]*model.ClassRelation, error) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	ret := cm.classRelations()

	sort.Slice(ret, func(i, j int) bool { return ret[i].ID < ret[j].ID })

	return ret, nil
}

/*
AreClassesRelated checks if two classes are directly or transitively
related. The check is a single closure index lookup.
*/
func (cm *Manager) AreClassesRelated(classA uint64, classB uint64) bool {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	lo, hi := canonicalize(classA, classB)

	return len(cm.closureEntries(lo, hi)) > 0
}

/*
ClassClosure returns all recorded paths which connect two classes sorted
by depth. The result is empty if the classes are not related.
*/
func (cm *Manager) ClassClosure(classA uint64, classB uint64) ([]*model.ClosureEntry, error) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	lo, hi := canonicalize(classA, classB)

	entries := cm.closureEntries(lo, hi)

	ret := make([]*model.ClosureEntry, len(entries))
	copy(ret, entries)

	sortClosureEntries(ret)

	return ret, nil
}

/*
RemoveClassRelation removes a single class relation from the catalog.
The closure index is rebuilt from the remaining class relations and
object relations which lost their schema support are removed by the
cleanup rule in the same batch.
*/
func (cm *Manager) RemoveClassRelation(id uint64) (*model.ClassRelation, error) {

	if err := cm.cr.catalogEvent(EventClassRelationDelete, id); err != nil {
		if err == ErrEventHandled {
			err = nil
		}
		return nil, err
	}

	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	rel := cm.classRelation(id)
	if rel == nil {
		return nil, &util.CatalogError{Type: util.ErrNotFound,
			Detail: fmt.Sprint("Class relation ", id)}
	}

	cm.removeClassRelationData(rel)

	if err := cm.rebuildClosure(); err != nil {
		return nil, err
	}

	if err := cm.flushStorage(TableClassRels, TableClosure); err != nil {
		return nil, err
	}

	if err := cm.cr.catalogEvent(EventClassRelationDeleted, rel); err != nil && err != ErrEventHandled {
		return rel, err
	}

	return rel, nil
}

/*
classRelation fetches a single class relation without taking the manager
lock.
*/
func (cm *Manager) classRelation(id uint64) *model.ClassRelation {
	if val, ok := cm.table(TableClassRels).Data()[PrefixEntity+numKey(id)]; ok {
		return val.(*model.ClassRelation)
	}

	return nil
}

/*
classRelationsOfClass returns all class relations which touch a given
class without taking the manager lock.
*/
func (cm *Manager) classRelationsOfClass(classid uint64) []*model.ClassRelation {
	var ret []*model.ClassRelation

	for _, rel := range cm.classRelations() {
		if rel.ClassLo == classid || rel.ClassHi == classid {
			ret = append(ret, rel)
		}
	}

	sort.Slice(ret, func(i, j int) bool { return ret[i].ID < ret[j].ID })

	return ret
}

/*
removeClassRelationData removes a class relation. The closure index is
not touched - callers must rebuild it once per deletion batch.
*/
func (cm *Manager) removeClassRelationData(rel *model.ClassRelation) {
	t := cm.table(TableClassRels)

	delete(t.Data(), PrefixEntity+numKey(rel.ID))
	delete(t.Data(), PrefixRelPair+pairKey(rel.ClassLo, rel.ClassHi))

	cm.changeCount(MainDBClassRelCount, -1)
}
