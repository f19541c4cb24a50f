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
	"encoding/json"
	"fmt"
	"io"

	"devt.de/krotik/objecthub/catalog/model"
	"devt.de/krotik/objecthub/catalog/util"
)

/*
catalogDump is the serialization format for catalog exports.
*/
type catalogDump struct {
	Namespaces      []*model.Namespace      `json:"namespaces"`
	Classes         []*model.Class          `json:"classes"`
	Objects         []*model.Object         `json:"objects"`
	ClassRelations  []*model.ClassRelation  `json:"class_relations"`
	ObjectRelations []*model.ObjectRelation `json:"object_relations"`
}

/*
ExportCatalog dumps the contents of the catalog to an io.Writer in JSON format:

	{
		"namespaces" : [ { <attr> : <value> }, ... ],
		"classes" : [ ... ],
		"objects" : [ ... ],
		"class_relations" : [ ... ],
		"object_relations" : [ ... ]
	}

The closure index is not exported - it is derived state and rebuilt
during import.
*/
func ExportCatalog(out io.Writer, cm *Manager) error {
	dump := &catalogDump{}

	dump.Namespaces, _ = cm.Namespaces()
	dump.Classes, _ = cm.Classes()
	dump.Objects, _ = cm.Objects()
	dump.ClassRelations, _ = cm.ClassRelations()
	dump.ObjectRelations, _ = cm.ObjectRelations()

	res, err := json.MarshalIndent(dump, "", "    ")

	if err == nil {
		_, err = fmt.Fprintln(out, string(res))
	}

	return err
}

/*
ImportCatalog imports the JSON contents of an io.Reader into the catalog.
The format produced by ExportCatalog is expected. All imported entities
are given fresh ids - references between them are remapped accordingly.
*/
func ImportCatalog(in io.Reader, cm *Manager) error {
	dump := &catalogDump{}

	dec := json.NewDecoder(in)

	if err := dec.Decode(dump); err != nil {
		return fmt.Errorf("Could not decode file content as catalog dump: %s",
			err.Error())
	}

	// Store namespaces and build the namespace id mapping

	nsIDs := make(map[uint64]uint64)

	for _, ns := range dump.Namespaces {
		oldID := ns.ID

		ns.ID = 0

		if err := cm.StoreNamespace(ns); err != nil {
			return err
		}

		nsIDs[oldID] = ns.ID
	}

	// Store classes - namespace references are remapped

	classIDs := make(map[uint64]uint64)

	for _, cl := range dump.Classes {
		oldID := cl.ID

		nsid, ok := nsIDs[cl.Namespace]
		if !ok {
			return &util.CatalogError{Type: util.ErrInvalidData,
				Detail: fmt.Sprint("Class ", cl.Name,
					" references unknown namespace ", cl.Namespace)}
		}

		cl.ID = 0
		cl.Namespace = nsid

		if err := cm.StoreClass(cl); err != nil {
			return err
		}

		classIDs[oldID] = cl.ID
	}

	// Store objects - class and namespace references are remapped

	objectIDs := make(map[uint64]uint64)

	for _, obj := range dump.Objects {
		oldID := obj.ID

		nsid, nsok := nsIDs[obj.Namespace]
		clid, clok := classIDs[obj.Class]

		if !nsok || !clok {
			return &util.CatalogError{Type: util.ErrInvalidData,
				Detail: fmt.Sprint("Object ", obj.Name,
					" references unknown namespace or class")}
		}

		obj.ID = 0
		obj.Namespace = nsid
		obj.Class = clid

		if err := cm.StoreObject(obj); err != nil {
			return err
		}

		objectIDs[oldID] = obj.ID
	}

	// Store class relations - the closure index is maintained as a side
	// effect of the inserts

	classRelIDs := make(map[uint64]uint64)

	for _, rel := range dump.ClassRelations {

		lo, look := classIDs[rel.ClassLo]
		hi, hiok := classIDs[rel.ClassHi]

		if !look || !hiok {
			return &util.CatalogError{Type: util.ErrInvalidData,
				Detail: fmt.Sprint("Class relation ", rel.ID,
					" references an unknown class")}
		}

		newRel, err := cm.StoreClassRelation(lo, hi)
		if err != nil {
			return err
		}

		classRelIDs[rel.ID] = newRel.ID
	}

	// Store object relations

	for _, rel := range dump.ObjectRelations {

		lo, look := objectIDs[rel.ObjectLo]
		hi, hiok := objectIDs[rel.ObjectHi]
		crid, crok := classRelIDs[rel.ClassRelation]

		if !look || !hiok || !crok {
			return &util.CatalogError{Type: util.ErrInvalidData,
				Detail: fmt.Sprint("Object relation ", rel.ID,
					" references an unknown object or class relation")}
		}

		if _, err := cm.StoreObjectRelation(lo, hi, crid); err != nil {
			return err
		}
	}

	return nil
}
