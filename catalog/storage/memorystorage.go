/*
 * ObjectHub
 *
 * Copyright 2021 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package storage

/*
Return values for Close, FlushMain, RollbackMain and table Flush calls.
These can be set to test error handling of clients.
*/
var MsRetClose, MsRetFlushMain, MsRetRollbackMain, MsRetFlushTable error

/*
MemoryStorage data structure
*/
type MemoryStorage struct {
	name   string                  // Name of the storage
	mainDB map[string]string       // Main database
	tables map[string]*MemoryTable // Map of data tables
}

/*
NewMemoryStorage creates a new MemoryStorage instance.
*/
func NewMemoryStorage(name string) Storage {
	return &MemoryStorage{name, make(map[string]string),
		make(map[string]*MemoryTable)}
}

/*
Name returns the name of the MemoryStorage instance.
*/
func (ms *MemoryStorage) Name() string {
	return ms.name
}

/*
MainDB returns the main database.
*/
func (ms *MemoryStorage) MainDB() map[string]string {
	return ms.mainDB
}

/*
RollbackMain rollback the main database.
*/
func (ms *MemoryStorage) RollbackMain() error {
	return MsRetRollbackMain
}

/*
FlushMain writes the main database to the storage.
*/
func (ms *MemoryStorage) FlushMain() error {
	return MsRetFlushMain
}

/*
Table gets a data table with a certain name. A non-existing table is not
created automatically if the create flag is set to false.
*/
func (ms *MemoryStorage) Table(name string, create bool) Table {

	t, ok := ms.tables[name]

	if !ok {

		if !create {
			return nil
		}

		t = &MemoryTable{make(map[string]interface{})}
		ms.tables[name] = t
	}

	return t
}

/*
FlushAll writes all pending changes to the storage.
*/
func (ms *MemoryStorage) FlushAll() error {
	return nil
}

/*
Close closes the storage.
*/
func (ms *MemoryStorage) Close() error {
	return MsRetClose
}

/*
MemoryTable data structure
*/
type MemoryTable struct {
	data map[string]interface{} // Data of the table
}

/*
Data returns the data map of this table.
*/
func (mt *MemoryTable) Data() map[string]interface{} {
	return mt.data
}

/*
Flush writes all pending changes of this table to the storage.
*/
func (mt *MemoryTable) Flush() error {
	return MsRetFlushTable
}

/*
Rollback discards all changes of this table since the last flush.
*/
func (mt *MemoryTable) Rollback() error {
	return nil
}
