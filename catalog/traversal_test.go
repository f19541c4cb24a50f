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
	"testing"

	"devt.de/krotik/objecthub/catalog/model"
	"devt.de/krotik/objecthub/catalog/util"
)

/*
createTestGraph builds an object graph with a cycle:

	o1 (classes[0]) - o2 (classes[1])
	o2 - o3 (classes[2])
	o3 - o1
	o1 - o4 (classes[3])
	o3 - o5 (classes[3])

o3 lives in its own namespace so visibility filtering can be tested.
*/
func createTestGraph(t *testing.T) (*Manager, []*model.Class, []*model.Object) {
	cm, classes := createTestClasses(t, 4)
	if cm == nil {
		return nil, nil, nil
	}

	hidden := &model.Namespace{Name: "hidden"}
	if err := cm.StoreNamespace(hidden); err != nil {
		t.Error(err)
		return nil, nil, nil
	}

	c := func(i int) uint64 { return classes[i].ID }

	relAB, _ := cm.StoreClassRelation(c(0), c(1))
	relBC, _ := cm.StoreClassRelation(c(1), c(2))
	relAC, _ := cm.StoreClassRelation(c(0), c(2))
	relAD, _ := cm.StoreClassRelation(c(0), c(3))
	relCD, _ := cm.StoreClassRelation(c(2), c(3))

	objs := make([]*model.Object, 5)

	for i, class := range []int{0, 1, 2, 3, 3} {
		nsid := classes[0].Namespace
		if i == 2 {
			nsid = hidden.ID
		}

		objs[i] = &model.Object{Name: fmt.Sprint("o", i+1),
			Class: c(class), Namespace: nsid}

		if err := cm.StoreObject(objs[i]); err != nil {
			t.Error(err)
			return nil, nil, nil
		}
	}

	o := func(i int) uint64 { return objs[i].ID }

	for _, link := range []struct {
		a, b uint64
		rel  *model.ClassRelation
	}{
		{o(0), o(1), relAB},
		{o(1), o(2), relBC},
		{o(2), o(0), relAC},
		{o(0), o(3), relAD},
		{o(2), o(4), relCD},
	} {
		if _, err := cm.StoreObjectRelation(link.a, link.b, link.rel.ID); err != nil {
			t.Error(err)
			return nil, nil, nil
		}
	}

	return cm, classes, objs
}

func TestTraversalTermination(t *testing.T) {
	cm, classes, objs := createTestGraph(t)
	if cm == nil {
		return
	}

	// The object graph contains the cycle o1 - o2 - o3 - o1 - the walk
	// must terminate and find o4 directly and o5 through the cycle

	res, err := cm.FindTransitivelyLinkedObjects(objs[0].ID, classes[3].ID, nil, 0)
	if err != nil {
		t.Error(err)
		return
	}

	if len(res) != 2 {
		t.Error("Unexpected result:", res)
		return
	}

	if res[0].TargetObject != objs[3].ID ||
		fmt.Sprint(res[0].Path) != fmt.Sprint([]uint64{objs[0].ID, objs[3].ID}) {
		t.Error("Unexpected witness path:", res[0])
		return
	}

	if res[1].TargetObject != objs[4].ID ||
		fmt.Sprint(res[1].Path) != fmt.Sprint([]uint64{objs[0].ID, objs[2].ID, objs[4].ID}) {
		t.Error("Unexpected witness path:", res[1])
		return
	}

	// Running the query again must yield the identical result

	res2, _ := cm.FindTransitivelyLinkedObjects(objs[0].ID, classes[3].ID, nil, 0)

	if fmt.Sprint(res) != fmt.Sprint(res2) {
		t.Error("Traversal result is not deterministic:", res, res2)
		return
	}
}

func TestTraversalVisibility(t *testing.T) {
	cm, classes, objs := createTestGraph(t)
	if cm == nil {
		return
	}

	// Exclude the namespace of o3 - o5 is only reachable through o3
	// and must disappear from the result

	visible := map[uint64]bool{objs[0].Namespace: true}

	res, err := cm.FindTransitivelyLinkedObjects(objs[0].ID, classes[3].ID, visible, 0)
	if err != nil {
		t.Error(err)
		return
	}

	if len(res) != 1 || res[0].TargetObject != objs[3].ID {
		t.Error("Unexpected result:", res)
		return
	}
}

func TestTraversalPrecondition(t *testing.T) {
	cm, classes, objs := createTestGraph(t)
	if cm == nil {
		return
	}

	// The start object is of the target class - the closure holds no
	// entry for a class pair with itself so the result is empty

	res, err := cm.FindTransitivelyLinkedObjects(objs[3].ID, classes[3].ID, nil, 0)
	if err != nil || res != nil {
		t.Error("Unexpected result:", res, err)
		return
	}

	// Unknown start object and unknown target class

	_, err = cm.FindTransitivelyLinkedObjects(4711, classes[3].ID, nil, 0)
	if ce, ok := err.(*util.CatalogError); !ok || ce.Type != util.ErrNotFound {
		t.Error("Unexpected result:", err)
		return
	}

	_, err = cm.FindTransitivelyLinkedObjects(objs[0].ID, 4711, nil, 0)
	if ce, ok := err.(*util.CatalogError); !ok || ce.Type != util.ErrNotFound {
		t.Error("Unexpected result:", err)
		return
	}
}

func TestTraversalStepCap(t *testing.T) {
	cm, classes, objs := createTestGraph(t)
	if cm == nil {
		return
	}

	// With a cap of 2 the walk stops before it reaches o4

	res, err := cm.FindTransitivelyLinkedObjects(objs[0].ID, classes[3].ID, nil, 2)
	if err != nil || len(res) != 0 {
		t.Error("Unexpected result:", res, err)
		return
	}

	// With a cap of 3 the walk reaches o4 but not o5

	res, err = cm.FindTransitivelyLinkedObjects(objs[0].ID, classes[3].ID, nil, 3)
	if err != nil || len(res) != 1 || res[0].TargetObject != objs[3].ID {
		t.Error("Unexpected result:", res, err)
		return
	}
}
