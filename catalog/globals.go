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
Package catalog contains the main API to the object catalog.

Manager API

The main API is provided by a Manager object which can be created with the
NewCatalogManager() constructor function. The manager provides CRUD
functionality for namespaces, classes and objects through store, fetch and
remove functions. It also manages relations between classes and between
objects and provides the transitive link query which finds all objects
which are connected to a given object through chains of object relations.

Relations

Relations are undirected and are always stored in canonical form: the
endpoint with the lower id comes first. A relation of an entity to itself
is invalid. At most one relation can exist between any two classes and
between any two objects.

An object relation is only valid if a class relation directly or
transitively connects the classes of its endpoint objects. The validity
is checked against the closure index when the relation is stored and
relations which lost their support are removed by a system rule when
class relations or classes are deleted.

Closure index

The closure index records all transitive connections between classes.
For every pair of transitively connected classes it holds one entry per
distinct connecting path. The index is maintained incrementally when a
class relation is stored and rebuilt from the remaining class relations
when one is removed. Since class relations are canonical the class ids
along any path are strictly increasing which means all paths are simple
and the index is finite.

Rules

Catalog rules provide automatic operations which help to keep the catalog
consistent. Rules trigger on global catalog events. The rule
SystemRuleCleanupRelations is automatically loaded when a new Manager is
created. See the code for further details.

Databases

A catalog manager handles the catalog storage and provides the API for
the object catalog. The storage is divided into several databases:

Main database

MainDB stores various meta information such as version information, the
id counter and entity counts.

Entity databases

The namespace, class and object databases store:

	PrefixEntity + entity id -> entity
	(the entity itself)

	PrefixEntityName + name key -> entity id
	(name lookup, the name key of an object is prefixed with its
	namespace id)

Relation databases

The class relation and object relation databases store:

	PrefixEntity + relation id -> relation
	(the relation itself)

	PrefixRelPair + lo id + ":" + hi id -> relation id
	(canonical pair lookup)

	PrefixAdjacency + object id -> map of neighbour object id to relation id
	(object relations only, adjacency lookup for traversals)

Closure database

The closure database stores:

	lo class id + ":" + hi class id -> list of closure entries
	(all distinct paths which connect the two classes)
*/
package catalog

/*
VERSION of the CatalogManager
*/
const VERSION = 1

/*
MainDBEntryPrefix is the prefix for entries stored in the main database
*/
const MainDBEntryPrefix = "\x02"

// MainDB entries
// ==============

/*
MainDBVersion is the MainDB entry key for version information
*/
const MainDBVersion = MainDBEntryPrefix + "ver"

/*
MainDBIDCounter is the MainDB entry key for the id counter. All entity
kinds draw their ids from this single sequence.
*/
const MainDBIDCounter = MainDBEntryPrefix + "idcnt"

/*
MainDBNamespaceCount is the MainDB entry key for the namespace count
*/
const MainDBNamespaceCount = MainDBEntryPrefix + "nscnt"

/*
MainDBClassCount is the MainDB entry key for the class count
*/
const MainDBClassCount = MainDBEntryPrefix + "clcnt"

/*
MainDBObjectCount is the MainDB entry key for the object count
*/
const MainDBObjectCount = MainDBEntryPrefix + "obcnt"

/*
MainDBClassRelCount is the MainDB entry key for the class relation count
*/
const MainDBClassRelCount = MainDBEntryPrefix + "crcnt"

/*
MainDBObjectRelCount is the MainDB entry key for the object relation count
*/
const MainDBObjectRelCount = MainDBEntryPrefix + "orcnt"

// Table names
// ===========

/*
TableNamespaces is the name of the table holding namespaces
*/
const TableNamespaces = "namespaces"

/*
TableClasses is the name of the table holding classes
*/
const TableClasses = "classes"

/*
TableObjects is the name of the table holding objects
*/
const TableObjects = "objects"

/*
TableClassRels is the name of the table holding class relations
*/
const TableClassRels = "classrels"

/*
TableObjectRels is the name of the table holding object relations
*/
const TableObjectRels = "objectrels"

/*
TableClosure is the name of the table holding the closure index
*/
const TableClosure = "closure"

// PREFIXES for table entries
// ==========================

// Prefixes are only one byte. They should be followed by the entity id
// or name so similar entries are stored near each other.
//

/*
PrefixEntity is the prefix for storing an entity under its id
*/
const PrefixEntity = "\x01"

/*
PrefixEntityName is the prefix for storing a name to id lookup
*/
const PrefixEntityName = "\x02"

/*
PrefixRelPair is the prefix for storing a canonical pair to relation id lookup
*/
const PrefixRelPair = "\x03"

/*
PrefixAdjacency is the prefix for storing the relation neighbours of an object
*/
const PrefixAdjacency = "\x04"

// Catalog events
//===============

/*
EventNamespaceCreated is thrown when a namespace gets created.

Parameters: created namespace
*/
const EventNamespaceCreated = 0x01

/*
EventNamespaceUpdated is thrown when a namespace gets updated.

Parameters: updated namespace, old namespace
*/
const EventNamespaceUpdated = 0x02

/*
EventNamespaceDeleted is thrown when a namespace gets deleted.

Parameters: deleted namespace
*/
const EventNamespaceDeleted = 0x03

/*
EventClassCreated is thrown when a class gets created.

Parameters: created class
*/
const EventClassCreated = 0x04

/*
EventClassUpdated is thrown when a class gets updated.

Parameters: updated class, old class
*/
const EventClassUpdated = 0x05

/*
EventClassDeleted is thrown when a class gets deleted.

Parameters: deleted class
*/
const EventClassDeleted = 0x06

/*
EventObjectCreated is thrown when an object gets created.

Parameters: created object
*/
const EventObjectCreated = 0x07

/*
EventObjectUpdated is thrown when an object gets updated.

Parameters: updated object, old object
*/
const EventObjectUpdated = 0x08

/*
EventObjectDeleted is thrown when an object gets deleted.

Parameters: deleted object
*/
const EventObjectDeleted = 0x09

/*
EventClassRelationCreated is thrown when a class relation gets created.

Parameters: created class relation
*/
const EventClassRelationCreated = 0x0a

/*
EventClassRelationDeleted is thrown when a class relation gets deleted.

Parameters: deleted class relation
*/
const EventClassRelationDeleted = 0x0b

/*
EventObjectRelationCreated is thrown when an object relation gets created.

Parameters: created object relation
*/
const EventObjectRelationCreated = 0x0c

/*
EventObjectRelationUpdated is thrown when an object relation gets updated.

Parameters: updated object relation, old object relation
*/
const EventObjectRelationUpdated = 0x0d

/*
EventObjectRelationDeleted is thrown when an object relation gets deleted.

Parameters: deleted object relation
*/
const EventObjectRelationDeleted = 0x0e

/*
EventObjectStore is thrown before an object is stored.

Parameters: object to store
*/
const EventObjectStore = 0x10

/*
EventObjectDelete is thrown before an object is deleted.

Parameters: id of object to delete
*/
const EventObjectDelete = 0x11

/*
EventObjectRelationStore is thrown before an object relation is stored.

Parameters: candidate object relation (endpoints in canonical order, no id
unless an existing relation is updated)
*/
const EventObjectRelationStore = 0x12

/*
EventObjectRelationDelete is thrown before an object relation is deleted.

Parameters: id of object relation to delete
*/
const EventObjectRelationDelete = 0x13

/*
EventClassRelationStore is thrown before a class relation is stored.

Parameters: candidate class relation (endpoints in canonical order, no id)
*/
const EventClassRelationStore = 0x14

/*
EventClassRelationDelete is thrown before a class relation is deleted.

Parameters: id of class relation to delete
*/
const EventClassRelationDelete = 0x15
