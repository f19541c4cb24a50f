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

// Object API
// ==========

/*
StoreObject stores a single object in the catalog. An object without an
id is created, an object with an id updates the stored object. The class
of an object cannot be changed after creation.
*/
func (cm *Manager) StoreObject(obj *model.Object) error {

	if err := cm.cr.catalogEvent(EventObjectStore, obj); err != nil {
		if err == ErrEventHandled {
			err = nil
		}
		return err
	}

	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	if obj.Name == "" {
		return &util.CatalogError{Type: util.ErrInvalidData,
			Detail: "Object is missing a name value"}
	}

	t := cm.table(TableObjects)

	nameKey := func(o *model.Object) string {
		return PrefixEntityName + numKey(o.Namespace) + ":" + o.Name
	}

	if obj.ID == 0 {

		// Create a new object

		if cm.namespace(obj.Namespace) == nil {
			return &util.CatalogError{Type: util.ErrNotFound,
				Detail: fmt.Sprint("Namespace ", obj.Namespace)}
		}

		if cm.class(obj.Class) == nil {
			return &util.CatalogError{Type: util.ErrNotFound,
				Detail: fmt.Sprint("Class ", obj.Class)}
		}

		if _, ok := t.Data()[nameKey(obj)]; ok {
			return &util.CatalogError{Type: util.ErrDuplicate,
				Detail: fmt.Sprint("Object ", obj.Name)}
		}

		obj.ID = cm.allocID()

		t.Data()[PrefixEntity+numKey(obj.ID)] = obj
		t.Data()[nameKey(obj)] = obj.ID

		cm.changeCount(MainDBObjectCount, 1)

		if err := cm.flushStorage(TableObjects); err != nil {
			return err
		}

		if err := cm.cr.catalogEvent(EventObjectCreated, obj); err != nil && err != ErrEventHandled {
			return err
		}

		return nil
	}

	// Update an existing object

	old := cm.object(obj.ID)
	if old == nil {
		return &util.CatalogError{Type: util.ErrNotFound,
			Detail: fmt.Sprint("Object ", obj.ID)}
	}

	if obj.Class != old.Class {
		return &util.CatalogError{Type: util.ErrInvalidData,
			Detail: "Object class cannot be changed"}
	}

	if obj.Namespace != old.Namespace && cm.namespace(obj.Namespace) == nil {
		return &util.CatalogError{Type: util.ErrNotFound,
			Detail: fmt.Sprint("Namespace ", obj.Namespace)}
	}

	if obj.Name != old.Name || obj.Namespace != old.Namespace {

		if _, ok := t.Data()[nameKey(obj)]; ok {
			return &util.CatalogError{Type: util.ErrDuplicate,
				Detail: fmt.Sprint("Object ", obj.Name)}
		}

		delete(t.Data(), nameKey(old))
		t.Data()[nameKey(obj)] = obj.ID
	}

	t.Data()[PrefixEntity+numKey(obj.ID)] = obj

	if err := cm.flushStorage(TableObjects); err != nil {
		return err
	}

	if err := cm.cr.catalogEvent(EventObjectUpdated, obj, old); err != nil && err != ErrEventHandled {
		return err
	}

	return nil
}

/*
Object fetches a single object from the catalog. The function returns nil
if the object does not exist.
*/
func (cm *Manager) Object(id uint64) (*model.Object, error) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	return cm.object(id), nil
}

/*
ObjectByName fetches a single object by its namespace and name. The
function returns nil if the object does not exist.
*/
func (cm *Manager) ObjectByName(nsid uint64, name string) (*model.Object, error) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	t := cm.table(TableObjects)

	if id, ok := t.Data()[PrefixEntityName+numKey(nsid)+":"+name]; ok {
		return cm.object(id.(uint64)), nil
	}

	return nil, nil
}

/*
Objects returns all stored objects sorted by their id.
*/
func (cm *Manager) Objects() ([]*model.Object, error) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	var ret []*model.Object

	for key, val := range cm.table(TableObjects).Data() {
		if strings.HasPrefix(key, PrefixEntity) {
			ret = append(ret, val.(*model.Object))
		}
	}

	sort.Slice(ret, func(i, j int) bool { return ret[i].ID < ret[j].ID })

	return ret, nil
}

/*
ObjectsOfClass returns all objects of a given class sorted by their id.
*/
func (cm *Manager) ObjectsOfClass(classid uint64) ([]*model.Object, error) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	return cm.objectsOfClass(classid), nil
}

/*
RemoveObject removes a single object from the catalog. All object
relations of the object are removed as well.
*/
func (cm *Manager) RemoveObject(id uint64) (*model.Object, error) {

	if err := cm.cr.catalogEvent(EventObjectDelete, id); err != nil {
		if err == ErrEventHandled {
			err = nil
		}
		return nil, err
	}

	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	obj := cm.object(id)
	if obj == nil {
		return nil, &util.CatalogError{Type: util.ErrNotFound,
			Detail: fmt.Sprint("Object ", id)}
	}

	cm.removeObjectData(obj)

	if err := cm.flushStorage(TableObjects, TableObjectRels); err != nil {
		return nil, err
	}

	if err := cm.cr.catalogEvent(EventObjectDeleted, obj); err != nil && err != ErrEventHandled {
		return obj, err
	}

	return obj, nil
}

/*
object fetches a single object without taking the manager lock.
*/
func (cm *Manager) object(id uint64) *model.Object {
	if val, ok := cm.table(TableObjects).Data()[PrefixEntity+numKey(id)]; ok {
		return val.(*model.Object)
	}

	return nil
}

/*
objectsOfClass returns all objects of a given class without taking the
manager lock.
*/
func (cm *Manager) objectsOfClass(classid uint64) []*model.Object {
	var ret []*model.Object

	for key, val := range cm.table(TableObjects).Data() {
		if strings.HasPrefix(key, PrefixEntity) {
			if obj := val.(*model.Object); obj.Class == classid {
				ret = append(ret, obj)
			}
		}
	}

	sort.Slice(ret, func(i, j int) bool { return ret[i].ID < ret[j].ID })

	return ret
}

/*
objectsOfNamespace returns all objects of a given namespace without
taking the manager lock.
*/
func (cm *Manager) objectsOfNamespace(nsid uint64) []*model.Object {
	var ret []*model.Object

	for key, val := range cm.table(TableObjects).Data() {
		if strings.HasPrefix(key, PrefixEntity) {
			if obj := val.(*model.Object); obj.Namespace == nsid {
				ret = append(ret, obj)
			}
		}
	}

	sort.Slice(ret, func(i, j int) bool { return ret[i].ID < ret[j].ID })

	return ret
}

/*
removeObjectData removes an object with all its object relations.
*/
func (cm *Manager) removeObjectData(obj *model.Object) {
	t := cm.table(TableObjects)

	// Remove all object relations of the object

	relTable := cm.table(TableObjectRels)

	if val, ok := relTable.Data()[PrefixAdjacency+numKey(obj.ID)]; ok {

		for _, relID := range val.(map[uint64]uint64) {
			if rel := cm.objectRelation(relID); rel != nil {
				cm.removeObjectRelation(rel)
			}
		}
	}

	delete(t.Data(), PrefixEntity+numKey(obj.ID))
	delete(t.Data(), PrefixEntityName+numKey(obj.Namespace)+":"+obj.Name)

	cm.changeCount(MainDBObjectCount, -1)
}
