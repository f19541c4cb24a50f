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

	"devt.de/krotik/objecthub/catalog/model"
	"devt.de/krotik/objecthub/catalog/util"
)

// Transitive link queries
// =======================

/*
FindTransitivelyLinkedObjects finds all objects of a target class which
are reachable from a start object through chains of object relations.
For every reachable object one witness path is returned which starts
with the start object and ends with the reached object.

A hop into an object is only permitted if the namespace of the object is
in the given visibility set. A nil set permits all namespaces. The walk
stops after maxSteps traversed edges - a value of 0 means no limit.

The closure index is consulted first: if the class of the start object
and the target class are not related then no valid path can exist and
the walk is skipped.

The traversal is breadth first and visits the neighbours of every object
in ascending id order. Each object is visited at most once so the walk
terminates on cyclic graphs and witness paths are deterministic for a
fixed relation set.
*/
func (cm *Manager) FindTransitivelyLinkedObjects(startID uint64, targetClassID uint64,
	visibleNamespaces map[uint64]bool, maxSteps int) ([]*model.ObjectLink, error) {

	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	start := cm.object(startID)
	if start == nil {
		return nil, &util.CatalogError{Type: util.ErrNotFound,
			Detail: fmt.Sprint("Object ", startID)}
	}

	if cm.class(targetClassID) == nil {
		return nil, &util.CatalogError{Type: util.ErrNotFound,
			Detail: fmt.Sprint("Class ", targetClassID)}
	}

	// Schema level short-circuit - without a closure entry for the class
	// pair no chain of object relations can end at the target class

	lo, hi := canonicalize(start.Class, targetClassID)

	if len(cm.closureEntries(lo, hi)) == 0 {
		return nil, nil
	}

	var ret []*model.ObjectLink

	visited := map[uint64]bool{startID: true}
	parent := make(map[uint64]uint64)

	queue := []uint64{startID}

	steps := 0

walk:
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, neighbour := range cm.objectNeighbours(current) {

			if visited[neighbour] {
				continue
			}

			if maxSteps > 0 && steps >= maxSteps {
				break walk
			}
			steps++

			obj := cm.object(neighbour)
			if obj == nil {
				continue
			}

			if visibleNamespaces != nil && !visibleNamespaces[obj.Namespace] {
				continue
			}

			visited[neighbour] = true
			parent[neighbour] = current

			if obj.Class == targetClassID {
				ret = append(ret, &model.ObjectLink{
					TargetObject: neighbour,
					Path:         witnessPath(parent, startID, neighbour),
				})
			}

			queue = append(queue, neighbour)
		}
	}

	return ret, nil
}

/*
objectNeighbours returns the ids of all objects directly related to a
given object in ascending order.
*/
func (cm *Manager) objectNeighbours(id uint64) []uint64 {
	t := cm.table(TableObjectRels)

	val, ok := t.Data()[PrefixAdjacency+numKey(id)]
	if !ok {
		return nil
	}

	adj := val.(map[uint64]uint64)

	ret := make([]uint64, 0, len(adj))

	for neighbour := range adj {
		ret = append(ret, neighbour)
	}

	sort.Slice(ret, func(i, j int) bool { return ret[i] < ret[j] })

	return ret
}

/*
witnessPath builds the path from the start object to a reached object by
walking the recorded parent chain backwards.
*/
func witnessPath(parent map[uint64]uint64, startID uint64, endID uint64) []uint64 {
	var ret []uint64

	for id := endID; id != startID; id = parent[id] {
		ret = append(ret, id)
	}

	ret = append(ret, startID)

	// Reverse so the path runs from start to end

	for i, j := 0, len(ret)-1; i < j; i, j = i+1, j-1 {
		ret[i], ret[j] = ret[j], ret[i]
	}

	return ret
}
