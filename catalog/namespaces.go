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

// Namespace API
// =============

/*
StoreNamespace stores a single namespace in the catalog. A namespace
without an id is created, a namespace with an id updates the stored
namespace. This function will overwrite any namespace with the same id.
*/
func (cm *Manager) StoreNamespace(ns *model.Namespace) error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	if err := cm.checkName(ns.Name, "Namespace"); err != nil {
		return err
	}

	t := cm.table(TableNamespaces)

	if ns.ID == 0 {

		// Create a new namespace

		if _, ok := t.Data()[PrefixEntityName+ns.Name]; ok {
			return &util.CatalogError{Type: util.ErrDuplicate,
				Detail: fmt.Sprint("Namespace ", ns.Name)}
		}

		ns.ID = cm.allocID()

		t.Data()[PrefixEntity+numKey(ns.ID)] = ns
		t.Data()[PrefixEntityName+ns.Name] = ns.ID

		cm.changeCount(MainDBNamespaceCount, 1)

		if err := cm.flushStorage(TableNamespaces); err != nil {
			return err
		}

		if err := cm.cr.catalogEvent(EventNamespaceCreated, ns); err != nil && err != ErrEventHandled {
			return err
		}

		return nil
	}

	// Update an existing namespace

	old := cm.namespace(ns.ID)
	if old == nil {
		return &util.CatalogError{Type: util.ErrNotFound,
			Detail: fmt.Sprint("Namespace ", ns.ID)}
	}

	if ns.Name != old.Name {

		if _, ok := t.Data()[PrefixEntityName+ns.Name]; ok {
			return &util.CatalogError{Type: util.ErrDuplicate,
				Detail: fmt.Sprint("Namespace ", ns.Name)}
		}

		delete(t.Data(), PrefixEntityName+old.Name)
		t.Data()[PrefixEntityName+ns.Name] = ns.ID
	}

	t.Data()[PrefixEntity+numKey(ns.ID)] = ns

	if err := cm.flushStorage(TableNamespaces); err != nil {
		return err
	}

	if err := cm.cr.catalogEvent(EventNamespaceUpdated, ns, old); err != nil && err != ErrEventHandled {
		return err
	}

	return nil
}

/*
Namespace fetches a single namespace from the catalog. The function
returns nil if the namespace does not exist.
*/
func (cm *Manager) Namespace(id uint64) (*model.Namespace, error) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	return cm.namespace(id), nil
}

/*
NamespaceByName fetches a single namespace by its unique name. The
function returns nil if the namespace does not exist.
*/
func (cm *Manager) NamespaceByName(name string) (*model.Namespace, error) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	t := cm.table(TableNamespaces)

	if id, ok := t.Data()[PrefixEntityName+name]; ok {
		return cm.namespace(id.(uint64)), nil
	}

	return nil, nil
}

/*
Namespaces returns all stored namespaces sorted by their id.
*/
func (cm *Manager) Namespaces() ([]*model.Namespace, error) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	var ret []*model.Namespace

	for key, val := range cm.table(TableNamespaces).Data() {
		if strings.HasPrefix(key, PrefixEntity) {
			ret = append(ret, val.(*model.Namespace))
		}
	}

	sort.Slice(ret, func(i, j int) bool { return ret[i].ID < ret[j].ID })

	return ret, nil
}

/*
RemoveNamespace removes a single namespace from the catalog. All classes
and objects of the namespace and all relations which depend on them are
removed as well.
*/
func (cm *Manager) RemoveNamespace(id uint64) (*model.Namespace, error) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	ns := cm.namespace(id)
	if ns == nil {
		return nil, &util.CatalogError{Type: util.ErrNotFound,
			Detail: fmt.Sprint("Namespace ", id)}
	}

	// Cascade all classes of the namespace - this also removes their
	// objects and all class relations which touch them

	for _, cl := range cm.classesOfNamespace(id) {
		cm.removeClassData(cl)
	}

	// Remove objects of the namespace whose class lives in another namespace

	for _, obj := range cm.objectsOfNamespace(id) {
		cm.removeObjectData(obj)
	}

	if err := cm.rebuildClosure(); err != nil {
		return nil, err
	}

	t := cm.table(TableNamespaces)

	delete(t.Data(), PrefixEntity+numKey(ns.ID))
	delete(t.Data(), PrefixEntityName+ns.Name)

	cm.changeCount(MainDBNamespaceCount, -1)

	if err := cm.flushStorage(TableNamespaces, TableClasses, TableObjects,
		TableClassRels, TableObjectRels, TableClosure); err != nil {

		return nil, err
	}

	// The cleanup rule runs one relation sweep for the whole batch

	if err := cm.cr.catalogEvent(EventNamespaceDeleted, ns); err != nil && err != ErrEventHandled {
		return ns, err
	}

	return ns, nil
}

/*
namespace fetches a single namespace without taking the manager lock.
*/
func (cm *Manager) namespace(id uint64) *model.Namespace {
	if val, ok := cm.table(TableNamespaces).Data()[PrefixEntity+numKey(id)]; ok {
		return val.(*model.Namespace)
	}

	return nil
}
