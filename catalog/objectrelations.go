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

// Object relation API
// ===================

/*
StoreObjectRelation relates two objects through a given class relation.
The endpoints are canonicalized so the order in which they are given
does not matter.
*/
func (cm *Manager) StoreObjectRelation(objectA uint64, objectB uint64,
	classRelID uint64) (*model.ObjectRelation, error) {

	candLo, candHi := canonicalize(objectA, objectB)

	if err := cm.cr.catalogEvent(EventObjectRelationStore,
		&model.ObjectRelation{ObjectLo: candLo, ObjectHi: candHi,
			ClassRelation: classRelID}); err != nil {

		if err == ErrEventHandled {
			err = nil
		}
		return nil, err
	}

	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	lo, hi, err := cm.validateObjectRelation(objectA, objectB, classRelID)
	if err != nil {
		return nil, err
	}

	t := cm.table(TableObjectRels)

	if _, ok := t.Data()[PrefixRelPair+pairKey(lo, hi)]; ok {
		return nil, &util.CatalogError{Type: util.ErrDuplicateRelation,
			Detail: fmt.Sprint("Object relation ", lo, " <-> ", hi)}
	}

	rel := &model.ObjectRelation{ID: cm.allocID(), ObjectLo: lo,
		ObjectHi: hi, ClassRelation: classRelID}

	cm.addObjectRelationData(rel)

	if err := cm.flushStorage(TableObjectRels); err != nil {
		return nil, err
	}

	if err := cm.cr.catalogEvent(EventObjectRelationCreated, rel); err != nil && err != ErrEventHandled {
		return rel, err
	}

	return rel, nil
}

/*
UpdateObjectRelation changes the endpoints or the class relation of a
stored object relation. The same validation as for a new relation is
applied.
*/
func (cm *Manager) UpdateObjectRelation(id uint64, objectA uint64, objectB uint64,
	classRelID uint64) (*model.ObjectRelation, error) {

	candLo, candHi := canonicalize(objectA, objectB)

	if err := cm.cr.catalogEvent(EventObjectRelationStore,
		&model.ObjectRelation{ID: id, ObjectLo: candLo, ObjectHi: candHi,
			ClassRelation: classRelID}); err != nil {

		if err == ErrEventHandled {
			err = nil
		}
		return nil, err
	}

	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	old := cm.objectRelation(id)
	if old == nil {
		return nil, &util.CatalogError{Type: util.ErrNotFound,
			Detail: fmt.Sprint("Object relation ", id)}
	}

	lo, hi, err := cm.validateObjectRelation(objectA, objectB, classRelID)
	if err != nil {
		return nil, err
	}

	t := cm.table(TableObjectRels)

	if val, ok := t.Data()[PrefixRelPair+pairKey(lo, hi)]; ok && val.(uint64) != id {
		return nil, &util.CatalogError{Type: util.ErrDuplicateRelation,
			Detail: fmt.Sprint("Object relation ", lo, " <-> ", hi)}
	}

	rel := &model.ObjectRelation{ID: id, ObjectLo: lo, ObjectHi: hi,
		ClassRelation: classRelID}

	cm.removeObjectRelation(old)
	cm.addObjectRelationData(rel)

	if err := cm.flushStorage(TableObjectRels); err != nil {
		return nil, err
	}

	if err := cm.cr.catalogEvent(EventObjectRelationUpdated, rel, old); err != nil && err != ErrEventHandled {
		return rel, err
	}

	return rel, nil
}

/*
ObjectRelation fetches a single object relation from the catalog. The
function returns nil if the relation does not exist.
*/
func (cm *Manager) ObjectRelation(id uint64) (*model.ObjectRelation, error) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	return cm.objectRelation(id), nil
}

/*
ObjectRelationBetween fetches the object relation between two objects.
The function returns nil if no relation exists.
*/
func (cm *Manager) ObjectRelationBetween(objectA uint64, objectB uint64) (*model.ObjectRelation, error) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	lo, hi := canonicalize(objectA, objectB)

	t := cm.table(TableObjectRels)

	if id, ok := t.Data()[PrefixRelPair+pairKey(lo, hi)]; ok {
		return cm.objectRelation(id.(uint64)), nil
	}

	return nil, nil
}

/*
ObjectRelations returns all stored object relations sorted by their id.
*/
func (cm *Manager) ObjectRelations() ([]*model.ObjectRelation, error) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	var ret []*model.ObjectRelation

	for key, val := range cm.table(TableObjectRels).Data() {
		if strings.HasPrefix(key, PrefixEntity) {
			ret = append(ret, val.(*model.ObjectRelation))
		}
	}

	sort.Slice(ret, func(i, j int) bool { return ret[i].ID < ret[j].ID })

	return ret, nil
}

/*
RemoveObjectRelation removes a single object relation from the catalog.
*/
func (cm *Manager) RemoveObjectRelation(id uint64) (*model.ObjectRelation, error) {

	if err := cm.cr.catalogEvent(EventObjectRelationDelete, id); err != nil {
		if err == ErrEventHandled {
			err = nil
		}
		return nil, err
	}

	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	rel := cm.objectRelation(id)
	if rel == nil {
		return nil, &util.CatalogError{Type: util.ErrNotFound,
			Detail: fmt.Sprint("Object relation ", id)}
	}

	cm.removeObjectRelation(rel)

	if err := cm.flushStorage(TableObjectRels); err != nil {
		return nil, err
	}

	if err := cm.cr.catalogEvent(EventObjectRelationDeleted, rel); err != nil && err != ErrEventHandled {
		return rel, err
	}

	return rel, nil
}

/*
validateObjectRelation checks if a candidate object relation is valid
against the current class graph. The checks run in a fixed order so a
candidate which is invalid for several reasons always fails with the
same error. The canonical object pair is returned on success.
*/
func (cm *Manager) validateObjectRelation(objectA uint64, objectB uint64,
	classRelID uint64) (uint64, uint64, error) {

	if objectA == objectB {
		return 0, 0, &util.CatalogError{Type: util.ErrSelfRelation,
			Detail: fmt.Sprint("Object cannot be related to itself: ", objectA)}
	}

	objA := cm.object(objectA)
	if objA == nil {
		return 0, 0, &util.CatalogError{Type: util.ErrNotFound,
			Detail: fmt.Sprint("Object ", objectA)}
	}

	objB := cm.object(objectB)
	if objB == nil {
		return 0, 0, &util.CatalogError{Type: util.ErrNotFound,
			Detail: fmt.Sprint("Object ", objectB)}
	}

	if objA.Class == objB.Class {
		return 0, 0, &util.CatalogError{Type: util.ErrSameClass,
			Detail: fmt.Sprint("Objects ", objectA, " and ", objectB,
				" are both of class ", objA.Class)}
	}

	classRel := cm.classRelation(classRelID)
	if classRel == nil {
		return 0, 0, &util.CatalogError{Type: util.ErrNotFound,
			Detail: fmt.Sprint("Class relation ", classRelID)}
	}

	classLo, classHi := canonicalize(objA.Class, objB.Class)

	if classLo != classRel.ClassLo || classHi != classRel.ClassHi {
		return 0, 0, &util.CatalogError{Type: util.ErrClassMismatch,
			Detail: fmt.Sprintf("Classes %v and %v do not match class relation %v",
				objA.Class, objB.Class, classRelID)}
	}

	// The class relation is a direct edge so the closure index must
	// hold an entry for the class pair - a missing entry means the
	// index lost sync with the edge set

	if len(cm.closureEntries(classLo, classHi)) == 0 {
		return 0, 0, &util.CatalogError{Type: util.ErrInconsistentClosure,
			Detail: fmt.Sprint("No closure entry for class relation ", classRelID)}
	}

	lo, hi := canonicalize(objectA, objectB)

	return lo, hi, nil
}

/*
objectRelation fetches a single object relation without taking the
manager lock.
*/
func (cm *Manager) objectRelation(id uint64) *model.ObjectRelation {
	if val, ok := cm.table(TableObjectRels).Data()[PrefixEntity+numKey(id)]; ok {
		return val.(*model.ObjectRelation)
	}

	return nil
}

/*
addObjectRelationData adds an object relation with its pair and
adjacency lookup entries.
*/
func (cm *Manager) addObjectRelationData(rel *model.ObjectRelation) {
	t := cm.table(TableObjectRels)

	t.Data()[PrefixEntity+numKey(rel.ID)] = rel
	t.Data()[PrefixRelPair+pairKey(rel.ObjectLo, rel.ObjectHi)] = rel.ID

	addNeighbour := func(from uint64, to uint64) {
		key := PrefixAdjacency + numKey(from)

		var adj map[uint64]uint64

		if val, ok := t.Data()[key]; ok {
			adj = val.(map[uint64]uint64)
		} else {
			adj = make(map[uint64]uint64)
			t.Data()[key] = adj
		}

		adj[to] = rel.ID
	}

	addNeighbour(rel.ObjectLo, rel.ObjectHi)
	addNeighbour(rel.ObjectHi, rel.ObjectLo)

	cm.changeCount(MainDBObjectRelCount, 1)
}

/*
removeObjectRelation removes an object relation with its pair and
adjacency lookup entries.
*/
func (cm *Manager) removeObjectRelation(rel *model.ObjectRelation) {
	t := cm.table(TableObjectRels)

	delete(t.Data(), PrefixEntity+numKey(rel.ID))
	delete(t.Data(), PrefixRelPair+pairKey(rel.ObjectLo, rel.ObjectHi))

	removeNeighbour := func(from uint64, to uint64) {
		key := PrefixAdjacency + numKey(from)

		if val, ok := t.Data()[key]; ok {
			adj := val.(map[uint64]uint64)

			delete(adj, to)

			if len(adj) == 0 {
				delete(t.Data(), key)
			}
		}
	}

	removeNeighbour(rel.ObjectLo, rel.ObjectHi)
	removeNeighbour(rel.ObjectHi, rel.ObjectLo)

	cm.changeCount(MainDBObjectRelCount, -1)
}
