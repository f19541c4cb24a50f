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

// Class API
// =========

/*
StoreClass stores a single class in the catalog. A class without an id is
created, a class with an id updates the stored class. The namespace of a
class cannot be changed after creation.
*/
func (cm *Manager) StoreClass(cl *model.Class) error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	if err := cm.checkName(cl.Name, "Class"); err != nil {
		return err
	}

	t := cm.table(TableClasses)

	if cl.ID == 0 {

		// Create a new class

		if cm.namespace(cl.Namespace) == nil {
			return &util.CatalogError{Type: util.ErrNotFound,
				Detail: fmt.Sprint("Namespace ", cl.Namespace)}
		}

		if _, ok := t.Data()[PrefixEntityName+cl.Name]; ok {
			return &util.CatalogError{Type: util.ErrDuplicate,
				Detail: fmt.Sprint("Class ", cl.Name)}
		}

		cl.ID = cm.allocID()

		t.Data()[PrefixEntity+numKey(cl.ID)] = cl
		t.Data()[PrefixEntityName+cl.Name] = cl.ID

		cm.changeCount(MainDBClassCount, 1)

		if err := cm.flushStorage(TableClasses); err != nil {
			return err
		}

		if err := cm.cr.catalogEvent(EventClassCreated, cl); err != nil && err != ErrEventHandled {
			return err
		}

		return nil
	}

	// Update an existing class

	old := cm.class(cl.ID)
	if old == nil {
		return &util.CatalogError{Type: util.ErrNotFound,
			Detail: fmt.Sprint("Class ", cl.ID)}
	}

	if cl.Namespace != old.Namespace {
		return &util.CatalogError{Type: util.ErrInvalidData,
			Detail: "Class namespace cannot be changed"}
	}

	if cl.Name != old.Name {

		if _, ok := t.Data()[PrefixEntityName+cl.Name]; ok {
			return &util.CatalogError{Type: util.ErrDuplicate,
				Detail: fmt.Sprint("Class ", cl.Name)}
		}

		delete(t.Data(), PrefixEntityName+old.Name)
		t.Data()[PrefixEntityName+cl.Name] = cl.ID
	}

	t.Data()[PrefixEntity+numKey(cl.ID)] = cl

	if err := cm.flushStorage(TableClasses); err != nil {
		return err
	}

	if err := cm.cr.catalogEvent(EventClassUpdated, cl, old); err != nil && err != ErrEventHandled {
		return err
	}

	return nil
}

/*
Class fetches a single class from the catalog. The function returns nil
if the class does not exist.
*/
func (cm *Manager) Class(id uint64) (*model.Class, error) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	return cm.class(id), nil
}

/*
ClassByName fetches a single class by its unique name. The function
returns nil if the class does not exist.
*/
func (cm *Manager) ClassByName(name string) (*model.Class, error) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	t := cm.table(TableClasses)

	if id, ok := t.Data()[PrefixEntityName+name]; ok {
		return cm.class(id.(uint64)), nil
	}

	return nil, nil
}

/*
Classes returns all stored classes sorted by their id.
*/
func (cm *Manager) Classes() ([]*model.Class, error) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	var ret []*model.Class

	for key, val := range cm.table(TableClasses).Data() {
		if strings.HasPrefix(key, PrefixEntity) {
			ret = append(ret, val.(*model.Class))
		}
	}

	sort.Slice(ret, func(i, j int) bool { return ret[i].ID < ret[j].ID })

	return ret, nil
}

/*
ClassesInNamespace returns all classes of a given namespace sorted by
their id.
*/
func (cm *Manager) ClassesInNamespace(nsid uint64) ([]*model.Class, error) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	return cm.classesOfNamespace(nsid), nil
}

/*
RemoveClass removes a single class from the catalog. All objects of the
class and all class relations which touch the class are removed as well.
Object relations which lost their schema support are removed by the
cleanup rule in the same batch.
*/
func (cm *Manager) RemoveClass(id uint64) (*model.Class, error) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	cl := cm.class(id)
	if cl == nil {
		return nil, &util.CatalogError{Type: util.ErrNotFound,
			Detail: fmt.Sprint("Class ", id)}
	}

	cm.removeClassData(cl)

	if err := cm.rebuildClosure(); err != nil {
		return nil, err
	}

	if err := cm.flushStorage(TableClasses, TableObjects, TableClassRels,
		TableObjectRels, TableClosure); err != nil {

		return nil, err
	}

	if err := cm.cr.catalogEvent(EventClassDeleted, cl); err != nil && err != ErrEventHandled {
		return cl, err
	}

	return cl, nil
}

/*
class fetches a single class without taking the manager lock.
*/
func (cm *Manager) class(id uint64) *model.Class {
	if val, ok := cm.table(TableClasses).Data()[PrefixEntity+numKey(id)]; ok {
		return val.(*model.Class)
	}

	return nil
}

/*
classesOfNamespace returns all classes of a given namespace without
taking the manager lock.
*/
func (cm *Manager) classesOfNamespace(nsid uint64) []*model.Class {
	var ret []*model.Class

	for key, val := range cm.table(TableClasses).Data() {
		if strings.HasPrefix(key, PrefixEntity) {
			if cl := val.(*model.Class); cl.Namespace == nsid {
				ret = append(ret, cl)
			}
		}
	}

	sort.Slice(ret, func(i, j int) bool { return ret[i].ID < ret[j].ID })

	return ret
}

/*
removeClassData removes a class with all its objects and all class
relations which touch it. The closure index is not touched - callers
must rebuild it once per deletion batch.
*/
func (cm *Manager) removeClassData(cl *model.Class) {
	t := cm.table(TableClasses)

	// Remove all objects of the class with their object relations

	for _, obj := range cm.objectsOfClass(cl.ID) {
		cm.removeObjectData(obj)
	}

	// Remove all class relations which touch the class

	for _, rel := range cm.classRelationsOfClass(cl.ID) {
		cm.removeClassRelationData(rel)
	}

	delete(t.Data(), PrefixEntity+numKey(cl.ID))
	delete(t.Data(), PrefixEntityName+cl.Name)

	cm.changeCount(MainDBClassCount, -1)
}
