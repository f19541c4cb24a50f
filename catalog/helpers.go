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
	"encoding/binary"
	"fmt"
	"strconv"

	"devt.de/krotik/common/stringutil"
	"devt.de/krotik/objecthub/catalog/storage"
	"devt.de/krotik/objecthub/catalog/util"
)

// Helper functions for CatalogManager
// ===================================

/*
canonicalize orders two entity ids so the lower id comes first.
*/
func canonicalize(a uint64, b uint64) (uint64, uint64) {
	if a > b {
		return b, a
	}

	return a, b
}

/*
numKey converts an entity id into a table key.
*/
func numKey(id uint64) string {
	return strconv.FormatUint(id, 10)
}

/*
pairKey builds the table key for a canonical id pair.
*/
func pairKey(lo uint64, hi uint64) string {
	return numKey(lo) + ":" + numKey(hi)
}

/*
checkName checks if a given entity name is valid.
*/
func (cm *Manager) checkName(name string, kind string) error {
	if name == "" {
		return &util.CatalogError{Type: util.ErrInvalidData,
			Detail: kind + " is missing a name value"}
	}

	if !stringutil.IsAlphaNumeric(name) {
		return &util.CatalogError{
			Type:   util.ErrInvalidData,
			Detail: fmt.Sprintf("%v name %v is not alphanumeric - can only contain [a-zA-Z0-9_]", kind, name),
		}
	}

	return nil
}

/*
table gets a data table with a certain name. The table is created if it
does not exist yet.
*/
func (cm *Manager) table(name string) storage.Table {
	cm.storageMutex.Lock()
	defer cm.storageMutex.Unlock()

	return cm.cs.Table(name, true)
}

/*
allocID hands out the next free entity id. All entity kinds share a
single id sequence so canonical ordering is total across entities.
*/
func (cm *Manager) allocID() uint64 {
	cm.storageMutex.Lock()
	defer cm.storageMutex.Unlock()

	var id uint64

	if val, ok := cm.cs.MainDB()[MainDBIDCounter]; ok && len(val) == 8 {
		id = binary.LittleEndian.Uint64([]byte(val))
	}

	id++

	numstr := make([]byte, 8)
	binary.LittleEndian.PutUint64(numstr, id)
	cm.cs.MainDB()[MainDBIDCounter] = string(numstr)

	return id
}

/*
readCount reads an entity count from the main database.
*/
func (cm *Manager) readCount(key string) uint64 {
	if val, ok := cm.cs.MainDB()[key]; ok && len(val) == 8 {
		return binary.LittleEndian.Uint64([]byte(val))
	}

	return 0
}

/*
writeCount writes a new entity count to the main database.
*/
func (cm *Manager) writeCount(key string, count uint64) {
	numstr := make([]byte, 8)

	binary.LittleEndian.PutUint64(numstr, count)
	cm.cs.MainDB()[key] = string(numstr)
}

/*
changeCount changes an entity count in the main database by a given delta.
*/
func (cm *Manager) changeCount(key string, delta int64) {
	cm.writeCount(key, uint64(int64(cm.readCount(key))+delta))
}

/*
flushStorage writes all pending changes of the given tables and the main
database to the storage. All changes are rolled back if a flush fails.
*/
func (cm *Manager) flushStorage(tables ...string) error {
	var err error

	for _, name := range tables {
		if t := cm.cs.Table(name, false); t != nil {
			if err = t.Flush(); err != nil {
				break
			}
		}
	}

	if err == nil {
		err = cm.cs.FlushMain()
	}

	if err != nil {

		// Try to get back to the last flushed state - the rollback
		// error is secondary to the flush error which is returned

		for _, name := range tables {
			if t := cm.cs.Table(name, false); t != nil {
				t.Rollback()
			}
		}

		cm.cs.RollbackMain()
	}

	return err
}
