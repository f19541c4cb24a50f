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
	"testing"

	"devt.de/krotik/objecthub/catalog/model"
	"devt.de/krotik/objecthub/catalog/util"
)

/*
createTestObject creates a single object of a given class.
*/
func createTestObject(t *testing.T, cm *Manager, name string, cl *model.Class) *model.Object {
	ns, _ := cm.NamespaceByName("main")

	obj := &model.Object{Name: name, Class: cl.ID, Namespace: ns.ID}

	if err := cm.StoreObject(obj); err != nil {
		t.Error(err)
		return nil
	}

	return obj
}

func TestObjectRelationValidation(t *testing.T) {
	cm, server, swtch, rack := createTestSchema(t)
	if cm == nil {
		return
	}

	rel, err := cm.StoreClassRelation(server.ID, swtch.ID)
	if err != nil {
		t.Error(err)
		return
	}

	server1 := createTestObject(t, cm, "server1", server)
	server2 := createTestObject(t, cm, "server2", server)
	switch1 := createTestObject(t, cm, "switch1", swtch)
	rack1 := createTestObject(t, cm, "rack1", rack)

	// An object cannot be related to itself

	_, err = cm.StoreObjectRelation(server1.ID, server1.ID, rel.ID)
	if ce, ok := err.(*util.CatalogError); !ok || ce.Type != util.ErrSelfRelation {
		t.Error("Unexpected result:", err)
		return
	}

	// Both objects must exist

	_, err = cm.StoreObjectRelation(server1.ID, 4711, rel.ID)
	if ce, ok := err.(*util.CatalogError); !ok || ce.Type != util.ErrNotFound {
		t.Error("Unexpected result:", err)
		return
	}

	// Objects of the same class cannot be related

	_, err = cm.StoreObjectRelation(server1.ID, server2.ID, rel.ID)
	if ce, ok := err.(*util.CatalogError); !ok || ce.Type != util.ErrSameClass {
		t.Error("Unexpected result:", err)
		return
	}

	// The class relation must exist

	_, err = cm.StoreObjectRelation(server1.ID, switch1.ID, 4711)
	if ce, ok := err.(*util.CatalogError); !ok || ce.Type != util.ErrNotFound {
		t.Error("Unexpected result:", err)
		return
	}

	// The object classes must match the class relation endpoints

	_, err = cm.StoreObjectRelation(server1.ID, rack1.ID, rel.ID)
	if ce, ok := err.(*util.CatalogError); !ok || ce.Type != util.ErrClassMismatch {
		t.Error("Unexpected result:", err)
		return
	}

	// A valid relation is canonicalized

	orel, err := cm.StoreObjectRelation(switch1.ID, server1.ID, rel.ID)
	if err != nil {
		t.Error(err)
		return
	}

	if orel.ObjectLo != server1.ID || orel.ObjectHi != switch1.ID {
		t.Error("Relation was not canonicalized:", orel)
		return
	}

	// Duplicates are rejected in both orders

	_, err = cm.StoreObjectRelation(server1.ID, switch1.ID, rel.ID)
	if ce, ok := err.(*util.CatalogError); !ok || ce.Type != util.ErrDuplicateRelation {
		t.Error("Unexpected result:", err)
		return
	}

	res, _ := cm.ObjectRelationBetween(switch1.ID, server1.ID)
	if res == nil || res.ID != orel.ID {
		t.Error("Unexpected result:", res)
		return
	}

	if cm.ObjectRelationCount() != 1 {
		t.Error("Unexpected relation count:", cm.ObjectRelationCount())
		return
	}
}

func TestObjectRelationUpdate(t *testing.T) {
	cm, server, swtch, rack := createTestSchema(t)
	if cm == nil {
		return
	}

	relSS, _ := cm.StoreClassRelation(server.ID, swtch.ID)
	relSR, _ := cm.StoreClassRelation(server.ID, rack.ID)

	server1 := createTestObject(t, cm, "server1", server)
	switch1 := createTestObject(t, cm, "switch1", swtch)
	rack1 := createTestObject(t, cm, "rack1", rack)

	orel, err := cm.StoreObjectRelation(server1.ID, switch1.ID, relSS.ID)
	if err != nil {
		t.Error(err)
		return
	}

	// Update validation runs the same checks as the insert

	_, err = cm.UpdateObjectRelation(orel.ID, server1.ID, rack1.ID, relSS.ID)
	if ce, ok := err.(*util.CatalogError); !ok || ce.Type != util.ErrClassMismatch {
		t.Error("Unexpected result:", err)
		return
	}

	// A valid update changes the endpoints

	updated, err := cm.UpdateObjectRelation(orel.ID, server1.ID, rack1.ID, relSR.ID)
	if err != nil {
		t.Error(err)
		return
	}

	if updated.ObjectLo != server1.ID || updated.ObjectHi != rack1.ID {
		t.Error("Unexpected result:", updated)
		return
	}

	if res, _ := cm.ObjectRelationBetween(server1.ID, switch1.ID); res != nil {
		t.Error("Old pair should no longer resolve:", res)
		return
	}

	// Updates of nonexistent relations fail

	_, err = cm.UpdateObjectRelation(4711, server1.ID, rack1.ID, relSR.ID)
	if ce, ok := err.(*util.CatalogError); !ok || ce.Type != util.ErrNotFound {
		t.Error("Unexpected result:", err)
		return
	}
}

func TestCleanupSweep(t *testing.T) {
	cm, classes := createTestClasses(t, 3)
	if cm == nil {
		return
	}

	a, b, c := classes[0], classes[1], classes[2]

	relAB, _ := cm.StoreClassRelation(a.ID, b.ID)
	relBC, _ := cm.StoreClassRelation(b.ID, c.ID)

	objA := &model.Object{Name: "a1", Class: a.ID, Namespace: a.Namespace}
	objB := &model.Object{Name: "b1", Class: b.ID, Namespace: b.Namespace}
	objC := &model.Object{Name: "c1", Class: c.ID, Namespace: c.Namespace}

	for _, obj := range []*model.Object{objA, objB, objC} {
		if err := cm.StoreObject(obj); err != nil {
			t.Error(err)
			return
		}
	}

	orelAB, err := cm.StoreObjectRelation(objA.ID, objB.ID, relAB.ID)
	if err != nil {
		t.Error(err)
		return
	}

	orelBC, err := cm.StoreObjectRelation(objB.ID, objC.ID, relBC.ID)
	if err != nil {
		t.Error(err)
		return
	}

	// Deleting the class relation B - C must remove the object relation
	// which instantiates it and keep the one instantiating A - B

	if _, err := cm.RemoveClassRelation(relBC.ID); err != nil {
		t.Error(err)
		return
	}

	if res, _ := cm.ObjectRelation(orelBC.ID); res != nil {
		t.Error("Unsupported object relation should have been swept:", res)
		return
	}

	if res, _ := cm.ObjectRelation(orelAB.ID); res == nil {
		t.Error("Supported object relation should have survived")
		return
	}

	if cm.ObjectRelationCount() != 1 {
		t.Error("Unexpected relation count:", cm.ObjectRelationCount())
		return
	}
}

func TestCleanupSweepOnClassDeletion(t *testing.T) {
	cm, classes := createTestClasses(t, 3)
	if cm == nil {
		return
	}

	a, b, c := classes[0], classes[1], classes[2]

	relAB, _ := cm.StoreClassRelation(a.ID, b.ID)
	relBC, _ := cm.StoreClassRelation(b.ID, c.ID)

	objA := &model.Object{Name: "a1", Class: a.ID, Namespace: a.Namespace}
	objB := &model.Object{Name: "b1", Class: b.ID, Namespace: b.Namespace}
	objC := &model.Object{Name: "c1", Class: c.ID, Namespace: c.Namespace}

	for _, obj := range []*model.Object{objA, objB, objC} {
		cm.StoreObject(obj)
	}

	cm.StoreObjectRelation(objA.ID, objB.ID, relAB.ID)
	cm.StoreObjectRelation(objB.ID, objC.ID, relBC.ID)

	// Deleting class B removes its object, both class relations and
	// both object relations in one batch

	if _, err := cm.RemoveClass(b.ID); err != nil {
		t.Error(err)
		return
	}

	if cm.ObjectRelationCount() != 0 {
		t.Error("Unexpected relation count:", cm.ObjectRelationCount())
		return
	}

	if cm.ObjectCount() != 2 {
		t.Error("Unexpected object count:", cm.ObjectCount())
		return
	}

	if res, _ := cm.Object(objA.ID); res == nil {
		t.Error("Objects of other classes should survive")
		return
	}
}

func TestObjectRelationRemoval(t *testing.T) {
	cm, server, swtch, _ := createTestSchema(t)
	if cm == nil {
		return
	}

	rel, _ := cm.StoreClassRelation(server.ID, swtch.ID)

	server1 := createTestObject(t, cm, "server1", server)
	switch1 := createTestObject(t, cm, "switch1", swtch)

	orel, err := cm.StoreObjectRelation(server1.ID, switch1.ID, rel.ID)
	if err != nil {
		t.Error(err)
		return
	}

	// Removing an object removes its relations

	if _, err := cm.RemoveObject(switch1.ID); err != nil {
		t.Error(err)
		return
	}

	if res, _ := cm.ObjectRelation(orel.ID); res != nil {
		t.Error("Relation of removed object should be gone:", res)
		return
	}

	if cm.ObjectRelationCount() != 0 {
		t.Error("Unexpected relation count:", cm.ObjectRelationCount())
		return
	}

	// Removal of a nonexistent relation

	_, err = cm.RemoveObjectRelation(orel.ID)
	if ce, ok := err.(*util.CatalogError); !ok || ce.Type != util.ErrNotFound {
		t.Error("Unexpected result:", err)
		return
	}
}
