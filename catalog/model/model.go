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
Package model contains the data structures which are stored in the catalog.

All entities share a single id sequence. Relations between classes and
between objects are stored in canonical form: the endpoint with the lower
id always comes first. The closure index entries are derived state which
is maintained by the catalog manager.
*/
package model

import "encoding/gob"

func init() {

	// Make sure the model objects can be stored in gob encoded tables

	gob.Register(&Namespace{})
	gob.Register(&Class{})
	gob.Register(&Object{})
	gob.Register(&ClassRelation{})
	gob.Register(&ObjectRelation{})
	gob.Register(&ClosureEntry{})
	gob.Register([]*ClosureEntry{})
	gob.Register(map[uint64]uint64{})
	gob.Register(map[string]interface{}{})
	gob.Register([]interface{}{})
}

/*
Namespace is a container for classes and objects.
*/
type Namespace struct {
	ID          uint64 `json:"id"`          // Unique id of the namespace
	Name        string `json:"name"`        // Unique name of the namespace
	Description string `json:"description"` // Description text
}

/*
Class describes the shape of a set of objects. The schema document is
an optional JSON schema which is stored verbatim.
*/
type Class struct {
	ID          uint64      `json:"id"`          // Unique id of the class
	Name        string      `json:"name"`        // Unique name of the class
	Namespace   uint64      `json:"namespace"`   // Id of the containing namespace
	Description string      `json:"description"` // Description text
	Schema      interface{} `json:"json_schema,omitempty"`  // Optional JSON schema document
	Validate    bool        `json:"validate_schema"`        // Flag if the schema should be applied
}

/*
Object is a catalog entry. The data payload is semi-structured and the
class reference is immutable after creation.
*/
type Object struct {
	ID          uint64      `json:"id"`          // Unique id of the object
	Name        string      `json:"name"`        // Name of the object (unique per namespace)
	Class       uint64      `json:"class"`       // Id of the class of this object
	Namespace   uint64      `json:"namespace"`   // Id of the containing namespace
	Description string      `json:"description"` // Description text
	Data        interface{} `json:"data,omitempty"` // Semi-structured data payload
}

/*
ClassRelation is an undirected relation between two classes stored in
canonical form (ClassLo < ClassHi).
*/
type ClassRelation struct {
	ID      uint64 `json:"id"`            // Unique id of the relation
	ClassLo uint64 `json:"from_class_id"` // Endpoint class with the lower id
	ClassHi uint64 `json:"to_class_id"`   // Endpoint class with the higher id
}

/*
ObjectRelation is an undirected relation between two objects stored in
canonical form (ObjectLo < ObjectHi). It references the class relation
which permits it.
*/
type ObjectRelation struct {
	ID            uint64 `json:"id"`                // Unique id of the relation
	ObjectLo      uint64 `json:"from_object_id"`    // Endpoint object with the lower id
	ObjectHi      uint64 `json:"to_object_id"`      // Endpoint object with the higher id
	ClassRelation uint64 `json:"class_relation_id"` // Id of the permitting class relation
}

/*
ClosureEntry is a derived index entry which records one concrete path
between two transitively related classes. Ancestor is always the class
with the lower id. Depth is the number of edges in Path which always
starts with Ancestor and ends with Descendant.
*/
type ClosureEntry struct {
	Ancestor   uint64   `json:"ancestor_class_id"`   // Path endpoint class with the lower id
	Descendant uint64   `json:"descendant_class_id"` // Path endpoint class with the higher id
	Depth      int      `json:"depth"`               // Number of edges in the path
	Path       []uint64 `json:"path"`                // Class ids along the path
}

/*
ObjectLink is a single result of a transitive link query. Path starts
with the query start object and ends with the target object.
*/
type ObjectLink struct {
	TargetObject uint64   `json:"object_id"` // Id of the reached object
	Path         []uint64 `json:"path"`      // Object ids along the witness path
}
