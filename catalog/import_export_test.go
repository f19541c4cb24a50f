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
	"bytes"
	"strings"
	"testing"

	"devt.de/krotik/objecthub/catalog/model"
	"devt.de/krotik/objecthub/catalog/util"
)

func TestImportExport(t *testing.T) {
	cm, server, swtch, rack := createTestSchema(t)
	if cm == nil {
		return
	}

	ns, _ := cm.NamespaceByName("main")

	server1 := &model.Object{Name: "server1", Class: server.ID, Namespace: ns.ID,
		Data: map[string]interface{}{"cpu": "4"}}
	switch1 := &model.Object{Name: "switch1", Class: swtch.ID, Namespace: ns.ID}
	rack1 := &model.Object{Name: "rack1", Class: rack.ID, Namespace: ns.ID}

	for _, obj := range []*model.Object{server1, switch1, rack1} {
		if err := cm.StoreObject(obj); err != nil {
			t.Error(err)
			return
		}
	}

	rel1, err := cm.StoreClassRelation(server.ID, swtch.ID)
	if err != nil {
		t.Error(err)
		return
	}

	rel2, err := cm.StoreClassRelation(swtch.ID, rack.ID)
	if err != nil {
		t.Error(err)
		return
	}

	if _, err := cm.StoreObjectRelation(server1.ID, switch1.ID, rel1.ID); err != nil {
		t.Error(err)
		return
	}

	if _, err := cm.StoreObjectRelation(switch1.ID, rack1.ID, rel2.ID); err != nil {
		t.Error(err)
		return
	}

	// Export the catalog

	var buf bytes.Buffer

	if err := ExportCatalog(&buf, cm); err != nil {
		t.Error(err)
		return
	}

	dump := buf.String()

	// Import the dump into a fresh catalog - the entities were created in
	// export order so the fresh catalog allocates the same ids and a
	// second export must reproduce the dump

	cm2 := newTestManager()

	if err := ImportCatalog(bytes.NewBufferString(dump), cm2); err != nil {
		t.Error(err)
		return
	}

	if cm2.NamespaceCount() != 1 || cm2.ClassCount() != 3 ||
		cm2.ObjectCount() != 3 || cm2.ClassRelationCount() != 2 ||
		cm2.ObjectRelationCount() != 2 {

		t.Error("Unexpected counts after import")
		return
	}

	// The closure index is rebuilt during import

	if !cm2.AreClassesRelated(server.ID, rack.ID) {
		t.Error("Closure should have been rebuilt during import")
		return
	}

	var buf2 bytes.Buffer

	if err := ExportCatalog(&buf2, cm2); err != nil {
		t.Error(err)
		return
	}

	if buf2.String() != dump {
		t.Error("Unexpected dump:", buf2.String())
		return
	}

	// Importing the same dump again must fail on the namespace name

	err = ImportCatalog(bytes.NewBufferString(dump), cm2)
	if ce, ok := err.(*util.CatalogError); !ok || ce.Type != util.ErrDuplicate {
		t.Error("Unexpected result:", err)
		return
	}
}

func TestImportErrors(t *testing.T) {
	cm := newTestManager()

	err := ImportCatalog(bytes.NewBufferString("{"), cm)
	if err == nil || !strings.HasPrefix(err.Error(),
		"Could not decode file content as catalog dump:") {

		t.Error("Unexpected result:", err)
		return
	}

	// Dangling references in the dump are detected

	err = ImportCatalog(bytes.NewBufferString(`{
  "namespaces" : [],
  "classes" : [ { "id" : 2, "name" : "Server", "namespace" : 1 } ]
}`), cm)
	if ce, ok := err.(*util.CatalogError); !ok || ce.Type != util.ErrInvalidData {
		t.Error("Unexpected result:", err)
		return
	}

	err = ImportCatalog(bytes.NewBufferString(`{
  "namespaces" : [ { "id" : 1, "name" : "main" } ],
  "objects" : [ { "id" : 3, "name" : "server1", "class" : 2, "namespace" : 1 } ]
}`), cm)
	if ce, ok := err.(*util.CatalogError); !ok || ce.Type != util.ErrInvalidData {
		t.Error("Unexpected result:", err)
		return
	}

	cm = newTestManager()

	err = ImportCatalog(bytes.NewBufferString(`{
  "namespaces" : [ { "id" : 1, "name" : "main" } ],
  "class_relations" : [ { "id" : 4, "from_class_id" : 2, "to_class_id" : 3 } ]
}`), cm)
	if ce, ok := err.(*util.CatalogError); !ok || ce.Type != util.ErrInvalidData {
		t.Error("Unexpected result:", err)
		return
	}

	err = ImportCatalog(bytes.NewBufferString(`{
  "object_relations" : [ { "id" : 5, "from_object_id" : 2, "to_object_id" : 3, "class_relation_id" : 4 } ]
}`), cm)
	if ce, ok := err.(*util.CatalogError); !ok || ce.Type != util.ErrInvalidData {
		t.Error("Unexpected result:", err)
		return
	}
}
