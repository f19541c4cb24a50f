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

import (
	"fmt"
	"os"
	"strings"

	"devt.de/krotik/common/datautil"
	"devt.de/krotik/common/fileutil"
	"devt.de/krotik/objecthub/catalog/util"
)

/*
FilenameMainDB is the filename for the main database file
*/
var FilenameMainDB = "main.pm"

/*
FileSuffixTable is the file suffix for data table files
*/
var FileSuffixTable = ".pm"

/*
DiskStorage data structure
*/
type DiskStorage struct {
	name     string                        // Name of the storage
	readonly bool                          // Flag for readonly mode
	mainDB   *datautil.PersistentStringMap // Database storing meta data
	tables   map[string]*DiskTable         // Map of data tables
}

/*
NewDiskStorage creates a new DiskStorage instance.
*/
func NewDiskStorage(name string, readonly bool) (Storage, error) {

	ds := &DiskStorage{name, readonly, nil, make(map[string]*DiskTable)}

	// Load the storage if the storage directory already exists if not try to create it

	if res, _ := fileutil.PathExists(name); !res {
		if err := os.Mkdir(name, 0770); err != nil {
			return nil, &util.CatalogError{Type: util.ErrOpening, Detail: err.Error()}
		}

		mainDB, err := datautil.NewPersistentStringMap(name + "/" + FilenameMainDB)
		if err != nil {
			return nil, &util.CatalogError{Type: util.ErrOpening, Detail: err.Error()}
		}

		ds.mainDB = mainDB

	} else {

		mainDB, err := datautil.LoadPersistentStringMap(name + "/" + FilenameMainDB)
		if err != nil {
			return nil, &util.CatalogError{Type: util.ErrOpening, Detail: err.Error()}
		}

		ds.mainDB = mainDB
	}

	return ds, nil
}

/*
Name returns the name of the DiskStorage instance.
*/
func (ds *DiskStorage) Name() string {
	return ds.name
}

/*
MainDB returns the main database.
*/
func (ds *DiskStorage) MainDB() map[string]string {
	return ds.mainDB.Data
}

/*
RollbackMain rollback the main database.
*/
func (ds *DiskStorage) RollbackMain() error {

	// Fail operation when readonly

	if ds.readonly {
		return &util.CatalogError{Type: util.ErrReadOnly, Detail: "Cannot rollback main db"}
	}

	mainDB, err := datautil.LoadPersistentStringMap(ds.name + "/" + FilenameMainDB)
	if err != nil {
		return &util.CatalogError{Type: util.ErrOpening, Detail: err.Error()}
	}

	ds.mainDB = mainDB

	return nil
}

/*
FlushMain writes the main database to the storage.
*/
func (ds *DiskStorage) FlushMain() error {

	// Fail operation when readonly

	if ds.readonly {
		return &util.CatalogError{Type: util.ErrReadOnly, Detail: "Cannot flush main db"}
	}

	if err := ds.mainDB.Flush(); err != nil {
		return &util.CatalogError{Type: util.ErrFlushing, Detail: err.Error()}
	}

	return nil
}

/*
Table gets a data table with a certain name. A non-existing table is
created automatically if the create flag is set to true or if the table
file already exists on disk.
*/
func (ds *DiskStorage) Table(name string, create bool) Table {

	t, ok := ds.tables[name]

	filename := ds.name + "/" + name + FileSuffixTable

	if !ok {
		exists, _ := fileutil.PathExists(filename)

		if !create && !exists {
			return nil
		}

		var pm *datautil.PersistentMap
		var err error

		if exists {
			pm, err = datautil.LoadPersistentMap(filename)
		} else {
			pm, err = datautil.NewPersistentMap(filename)
		}

		if err != nil {
			return nil
		}

		t = &DiskTable{filename, ds.readonly, pm}
		ds.tables[name] = t
	}

	return t
}

/*
FlushAll writes all pending changes to the storage.
*/
func (ds *DiskStorage) FlushAll() error {

	if ds.readonly {
		return nil
	}

	var errs []string

	if err := ds.mainDB.Flush(); err != nil {
		errs = append(errs, err.Error())
	}

	for _, t := range ds.tables {
		if err := t.Flush(); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) > 0 {
		details := fmt.Sprint(ds.name, " :", strings.Join(errs, "; "))

		return &util.CatalogError{Type: util.ErrFlushing, Detail: details}
	}

	return nil
}

/*
Close closes the storage.
*/
func (ds *DiskStorage) Close() error {

	var errs []string

	if !ds.readonly {

		if err := ds.mainDB.Flush(); err != nil {
			errs = append(errs, err.Error())
		}

		for _, t := range ds.tables {
			if err := t.Flush(); err != nil {
				errs = append(errs, err.Error())
			}
		}
	}

	ds.tables = make(map[string]*DiskTable)

	if len(errs) > 0 {
		details := fmt.Sprint(ds.name, " :", strings.Join(errs, "; "))

		return &util.CatalogError{Type: util.ErrClosing, Detail: details}
	}

	return nil
}

/*
DiskTable data structure
*/
type DiskTable struct {
	filename string                  // File of the table
	readonly bool                    // Flag for readonly mode
	pm       *datautil.PersistentMap // Persistent map holding the data
}

/*
Data returns the data map of this table.
*/
func (dt *DiskTable) Data() map[string]interface{} {
	return dt.pm.Data
}

/*
Flush writes all pending changes of this table to the storage.
*/
func (dt *DiskTable) Flush() error {

	if dt.readonly {
		return &util.CatalogError{Type: util.ErrReadOnly, Detail: "Cannot flush table"}
	}

	if err := dt.pm.Flush(); err != nil {
		return &util.CatalogError{Type: util.ErrFlushing, Detail: err.Error()}
	}

	return nil
}

/*
Rollback discards all changes of this table since the last flush.
*/
func (dt *DiskTable) Rollback() error {

	pm, err := datautil.LoadPersistentMap(dt.filename)
	if err != nil {
		return &util.CatalogError{Type: util.ErrRollback, Detail: err.Error()}
	}

	dt.pm = pm

	return nil
}
