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
Package ecal contains the main API for the event condition action language (ECAL).
*/
package ecal

import (
	"encoding/json"
	"fmt"
	"strings"

	"devt.de/krotik/common/errorutil"
	"devt.de/krotik/ecal/engine"
	"devt.de/krotik/ecal/scope"
	"devt.de/krotik/ecal/util"
	"devt.de/krotik/objecthub/catalog"
)

/*
EventMapping is a mapping between ObjectHub event types to ObjectHub specific event kinds in ECAL.
*/
var EventMapping = map[int]string{

	/*
	   EventNamespaceCreated is thrown when a namespace was created.

	   Parameters: created namespace
	*/
	catalog.EventNamespaceCreated: "db.ns.created",

	/*
	   EventNamespaceUpdated is thrown when a namespace was updated.

	   Parameters: updated namespace, old namespace
	*/
	catalog.EventNamespaceUpdated: "db.ns.updated",

	/*
	   EventNamespaceDeleted is thrown when a namespace was deleted.

	   Parameters: deleted namespace
	*/
	catalog.EventNamespaceDeleted: "db.ns.deleted",

	/*
	   EventClassCreated is thrown when a class was created.

	   Parameters: created class
	*/
	catalog.EventClassCreated: "db.class.created",

	/*
	   EventClassUpdated is thrown when a class was updated.

	   Parameters: updated class, old class
	*/
	catalog.EventClassUpdated: "db.class.updated",

	/*
	   EventClassDeleted is thrown when a class was deleted.

	   Parameters: deleted class
	*/
	catalog.EventClassDeleted: "db.class.deleted",

	/*
	   EventObjectCreated is thrown when an object was created.

	   Parameters: created object
	*/
	catalog.EventObjectCreated: "db.obj.created",

	/*
	   EventObjectUpdated is thrown when an object was updated.

	   Parameters: updated object, old object
	*/
	catalog.EventObjectUpdated: "db.obj.updated",

	/*
	   EventObjectDeleted is thrown when an object was deleted.

	   Parameters: deleted object
	*/
	catalog.EventObjectDeleted: "db.obj.deleted",

	/*
	   EventClassRelationCreated is thrown when a class relation was created.

	   Parameters: created class relation
	*/
	catalog.EventClassRelationCreated: "db.classrel.created",

	/*
	   EventClassRelationDeleted is thrown when a class relation was deleted.

	   Parameters: deleted class relation
	*/
	catalog.EventClassRelationDeleted: "db.classrel.deleted",

	/*
	   EventObjectRelationCreated is thrown when an object relation was created.

	   Parameters: created object relation
	*/
	catalog.EventObjectRelationCreated: "db.objrel.created",

	/*
	   EventObjectRelationUpdated is thrown when an object relation was updated.

	   Parameters: updated object relation, old object relation
	*/
	catalog.EventObjectRelationUpdated: "db.objrel.updated",

	/*
	   EventObjectRelationDeleted is thrown when an object relation was deleted.

	   Parameters: deleted object relation
	*/
	catalog.EventObjectRelationDeleted: "db.objrel.deleted",

	/*
	   EventObjectStore is thrown before an object is stored.

	   Parameters: object to store
	*/
	catalog.EventObjectStore: "db.obj.store",

	/*
	   EventObjectDelete is thrown before an object is deleted.

	   Parameters: id of object to delete
	*/
	catalog.EventObjectDelete: "db.obj.delete",

	/*
	   EventObjectRelationStore is thrown before an object relation is stored.

	   Parameters: candidate object relation (endpoints in canonical order)
	*/
	catalog.EventObjectRelationStore: "db.objrel.store",

	/*
	   EventObjectRelationDelete is thrown before an object relation is deleted.

	   Parameters: id of object relation to delete
	*/
	catalog.EventObjectRelationDelete: "db.objrel.delete",

	/*
	   EventClassRelationStore is thrown before a class relation is stored.

	   Parameters: candidate class relation (endpoints in canonical order)
	*/
	catalog.EventClassRelationStore: "db.classrel.store",

	/*
	   EventClassRelationDelete is thrown before a class relation is deleted.

	   Parameters: id of class relation to delete
	*/
	catalog.EventClassRelationDelete: "db.classrel.delete",
}

/*
EventBridge is a rule for a catalog manager to forward all catalog events to ECAL.
*/
type EventBridge struct {
	Processor engine.Processor
	Logger    util.Logger
}

/*
Name returns the name of the rule.
*/
func (eb *EventBridge) Name() string {
	return "ecal.eventbridge"
}

/*
Handles returns a list of events which are handled by this rule.
*/
func (eb *EventBridge) Handles() []int {
	return []int{
		catalog.EventNamespaceCreated,
		catalog.EventNamespaceUpdated,
		catalog.EventNamespaceDeleted,
		catalog.EventClassCreated,
		catalog.EventClassUpdated,
		catalog.EventClassDeleted,
		catalog.EventObjectCreated,
		catalog.EventObjectUpdated,
		catalog.EventObjectDeleted,
		catalog.EventClassRelationCreated,
		catalog.EventClassRelationDeleted,
		catalog.EventObjectRelationCreated,
		catalog.EventObjectRelationUpdated,
		catalog.EventObjectRelationDeleted,
		catalog.EventObjectStore,
		catalog.EventObjectDelete,
		catalog.EventObjectRelationStore,
		catalog.EventObjectRelationDelete,
		catalog.EventClassRelationStore,
		catalog.EventClassRelationDelete,
	}
}

/*
Handle handles an event.
*/
func (eb *EventBridge) Handle(cm *catalog.Manager, event int, ed ...interface{}) error {
	var err error

	if name, ok := EventMapping[event]; ok {
		eventName := fmt.Sprintf("ObjectHub: %v", name)
		eventKind := strings.Split(name, ".")

		// Construct an event which can be used to check if any rule will trigger.
		// This is to avoid the relative costly state construction below for events
		// which would not trigger any rules.

		triggerCheckEvent := engine.NewEvent(eventName, eventKind, nil)

		if !eb.Processor.IsTriggering(triggerCheckEvent) {
			return nil
		}

		// Build up state

		state := map[interface{}]interface{}{}

		// Include the right arguments into the state

		switch event {

		case catalog.EventNamespaceCreated, catalog.EventNamespaceDeleted:
			state["namespace"] = toECALObject(ed[0])

		case catalog.EventNamespaceUpdated:
			state["namespace"] = toECALObject(ed[0])
			state["old_namespace"] = toECALObject(ed[1])

		case catalog.EventClassCreated, catalog.EventClassDeleted:
			state["class"] = toECALObject(ed[0])

		case catalog.EventClassUpdated:
			state["class"] = toECALObject(ed[0])
			state["old_class"] = toECALObject(ed[1])

		case catalog.EventObjectCreated, catalog.EventObjectDeleted,
			catalog.EventObjectStore:
			state["object"] = toECALObject(ed[0])

		case catalog.EventObjectUpdated:
			state["object"] = toECALObject(ed[0])
			state["old_object"] = toECALObject(ed[1])

		case catalog.EventClassRelationCreated, catalog.EventClassRelationDeleted,
			catalog.EventClassRelationStore, catalog.EventObjectRelationCreated,
			catalog.EventObjectRelationDeleted, catalog.EventObjectRelationStore:
			state["relation"] = toECALObject(ed[0])

		case catalog.EventObjectRelationUpdated:
			state["relation"] = toECALObject(ed[0])
			state["old_relation"] = toECALObject(ed[1])

		case catalog.EventObjectDelete, catalog.EventObjectRelationDelete,
			catalog.EventClassRelationDelete:
			state["id"] = fmt.Sprint(ed[0])
		}

		// Try to inject the event

		event := engine.NewEvent(eventName, eventKind, state)

		var m engine.Monitor
		m, err = eb.Processor.AddEventAndWait(event, nil)

		if err == nil {

			// If there was no direct error adding the event then check if an error was
			// raised in a sink

			if errs := m.(*engine.RootMonitor).AllErrors(); len(errs) > 0 {
				var errList []error

				for _, e := range errs {

					addError := true

					for _, se := range e.ErrorMap {

						// Check if the sink returned a special catalog.ErrEventHandled error

						if re, ok := se.(*util.RuntimeErrorWithDetail); ok && re.Detail == catalog.ErrEventHandled.Error() {
							addError = false
						}
					}

					if addError {
						errList = append(errList, e)
					}
				}

				if len(errList) > 0 {
					err = &errorutil.CompositeError{Errors: errList}
				} else {
					err = catalog.ErrEventHandled
				}
			}
		}

		if err != nil {
			eb.Logger.LogDebug(fmt.Sprintf("ObjectHub event %v was handled by ECAL and returned: %v", name, err))
		}
	}

	return err
}

/*
toECALObject converts a catalog entity into an object which can be used in ECAL.
*/
func toECALObject(v interface{}) interface{} {
	var data interface{}

	b, _ := json.Marshal(v)
	json.Unmarshal(b, &data)

	return scope.ConvertJSONToECALObject(data)
}
