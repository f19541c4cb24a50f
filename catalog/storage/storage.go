/*
 * ObjectHub
 *
 * Copyright 2021 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package storage contains classes which model storage objects for catalog data.

There are two main storage objects: DiskStorage which provides disk storage
and MemoryStorage which provides memory-only storage.
*/
package storage

/*
Storage interface models the storage backend for a catalog manager.
*/
type Storage interface {

	/*
	   Name returns the name of the Storage instance.
	*/
	Name() string

	/*
		MainDB returns the main database. The main database is a quick
		lookup map for meta data which is always kept in memory.
	*/
	MainDB() map[string]string

	/*
	   RollbackMain rollback the main database.
	*/
	RollbackMain() error

	/*
	   FlushMain writes the main database to the storage.
	*/
	FlushMain() error

	/*
		Table gets a data table with a certain name. A non-existing table
		is not created automatically if the create flag is set to false.
	*/
	Table(name string, create bool) Table

	/*
	   FlushAll writes all pending changes to the storage.
	*/
	FlushAll() error

	/*
		Close closes the storage.
	*/
	Close() error
}

/*
Table models a single data table of a catalog storage. Clients access the
data map directly and request explicit flushes.
*/
type Table interface {

	/*
		Data returns the data map of this table.
	*/
	Data() map[string]interface{}

	/*
	   Flush writes all pending changes of this table to the storage.
	*/
	Flush() error

	/*
		Rollback discards all changes of this table since the last flush.
	*/
	Rollback() error
}
