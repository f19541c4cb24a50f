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
	"strconv"
	"sync"

	"devt.de/krotik/common/errorutil"
	"devt.de/krotik/objecthub/catalog/storage"
)

/*
Manager data structure
*/
type Manager struct {
	cs           storage.Storage      // Catalog storage of this manager
	cr           *catalogRulesManager // Manager for catalog rules
	mutex        *sync.RWMutex        // Mutex to protect catalog operations
	storageMutex *sync.Mutex          // Special mutex for storage object access
}

/*
NewCatalogManager returns a new CatalogManager instance.
*/
func NewCatalogManager(cs storage.Storage) *Manager {
	cm := createCatalogManager(cs)

	cm.SetCatalogRule(&SystemRuleCleanupRelations{})

	return cm
}

/*
createCatalogManager creates a catalog manager instance without loading
the default system rules.
*/
func createCatalogManager(cs storage.Storage) *Manager {
	cm := &Manager{cs, &catalogRulesManager{nil, make(map[string]Rule),
		make(map[int]map[string]Rule)}, &sync.RWMutex{}, &sync.Mutex{}}

	cm.cr.cm = cm

	// Check version of the main database

	if version, ok := cs.MainDB()[MainDBVersion]; !ok {

		cs.MainDB()[MainDBVersion] = strconv.Itoa(VERSION)
		errorutil.AssertOk(cs.FlushMain())

	} else {
		v, _ := strconv.Atoi(version)

		errorutil.AssertTrue(v <= VERSION,
			fmt.Sprintf("Cannot open catalog storage of version: %v - "+
				"please use a newer version of this software", version))
	}

	return cm
}

/*
Name returns the name of the catalog storage which is managed by this manager.
*/
func (cm *Manager) Name() string {
	return fmt.Sprint("Catalog ", cm.cs.Name())
}

/*
SetCatalogRule sets a catalog rule.
*/
func (cm *Manager) SetCatalogRule(rule Rule) {
	cm.cr.SetCatalogRule(rule)
}

/*
CatalogRules returns a list of all available catalog rules.
*/
func (cm *Manager) CatalogRules() []string {
	return cm.cr.CatalogRules()
}

/*
NamespaceCount returns the number of stored namespaces.
*/
func (cm *Manager) NamespaceCount() uint64 {
	return cm.readCount(MainDBNamespaceCount)
}

/*
ClassCount returns the number of stored classes.
*/
func (cm *Manager) ClassCount() uint64 {
	return cm.readCount(MainDBClassCount)
}

/*
ObjectCount returns the number of stored objects.
*/
func (cm *Manager) ObjectCount() uint64 {
	return cm.readCount(MainDBObjectCount)
}

/*
ClassRelationCount returns the number of stored class relations.
*/
func (cm *Manager) ClassRelationCount() uint64 {
	return cm.readCount(MainDBClassRelCount)
}

/*
ObjectRelationCount returns the number of stored object relations.
*/
func (cm *Manager) ObjectRelationCount() uint64 {
	return cm.readCount(MainDBObjectRelCount)
}
