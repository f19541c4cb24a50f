/*
 * ObjectHub
 *
 * Copyright 2021 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package dbfunc

import (
	"fmt"

	"devt.de/krotik/ecal/parser"
	"devt.de/krotik/objecthub/catalog"
	"devt.de/krotik/objecthub/catalog/model"
)

/*
StoreClassRelationFunc stores a relation between two classes in ObjectHub.
*/
type StoreClassRelationFunc struct {
	CM *catalog.Manager
}

/*
Run executes the ECAL function.
*/
func (f *StoreClassRelationFunc) Run(instanceID string, vs parser.Scope, is map[string]interface{}, tid uint64, args []interface{}) (interface{}, error) {
	var res interface{}
	var err error

	if arglen := len(args); arglen != 2 {
		err = fmt.Errorf("Function requires 2 parameters: class id and class id")
	}

	if err == nil {
		var classA, classB uint64
		var rel *model.ClassRelation

		if classA, err = uintArg(args, 0, "class id"); err == nil {

			if classB, err = uintArg(args, 1, "class id"); err == nil {

				if rel, err = f.CM.StoreClassRelation(classA, classB); err == nil {
					res = toECALResult(rel)
				}
			}
		}
	}

	return res, err
}

/*
DocString returns a descriptive string.
*/
func (f *StoreClassRelationFunc) DocString() (string, error) {
	return "Stores a relation between two classes in ObjectHub.", nil
}

/*
RemoveClassRelationFunc removes a class relation in ObjectHub. All object
relations which reference the class relation are removed as well.
*/
type RemoveClassRelationFunc struct {
	CM *catalog.Manager
}

/*
Run executes the ECAL function.
*/
func (f *RemoveClassRelationFunc) Run(instanceID string, vs parser.Scope, is map[string]interface{}, tid uint64, args []interface{}) (interface{}, error) {
	var res interface{}
	var err error

	if arglen := len(args); arglen != 1 {
		err = fmt.Errorf("Function requires 1 parameter: class relation id")
	}

	if err == nil {
		var id uint64
		var rel *model.ClassRelation

		if id, err = uintArg(args, 0, "class relation id"); err == nil {

			if rel, err = f.CM.RemoveClassRelation(id); rel != nil {
				res = toECALResult(rel)
			}
		}
	}

	return res, err
}

/*
DocString returns a descriptive string.
*/
func (f *RemoveClassRelationFunc) DocString() (string, error) {
	return "Removes a class relation in ObjectHub.", nil
}

/*
StoreObjectRelationFunc stores a relation between two objects in ObjectHub.
The relation must be permitted by an existing class relation.
*/
type StoreObjectRelationFunc struct {
	CM *catalog.Manager
}

/*
Run executes the ECAL function.
*/
func (f *StoreObjectRelationFunc) Run(instanceID string, vs parser.Scope, is map[string]interface{}, tid uint64, args []interface{}) (interface{}, error) {
	var res interface{}
	var err error

	if arglen := len(args); arglen != 3 {
		err = fmt.Errorf("Function requires 3 parameters: object id, object id and class relation id")
	}

	if err == nil {
		var objectA, objectB, classRel uint64
		var rel *model.ObjectRelation

		if objectA, err = uintArg(args, 0, "object id"); err == nil {

			if objectB, err = uintArg(args, 1, "object id"); err == nil {

				if classRel, err = uintArg(args, 2, "class relation id"); err == nil {

					if rel, err = f.CM.StoreObjectRelation(objectA, objectB, classRel); err == nil {
						res = toECALResult(rel)
					}
				}
			}
		}
	}

	return res, err
}

/*
DocString returns a descriptive string.
*/
func (f *StoreObjectRelationFunc) DocString() (string, error) {
	return "Stores a relation between two objects in ObjectHub.", nil
}

/*
RemoveObjectRelationFunc removes an object relation in ObjectHub.
*/
type RemoveObjectRelationFunc struct {
	CM *catalog.Manager
}

/*
Run executes the ECAL function.
*/
func (f *RemoveObjectRelationFunc) Run(instanceID string, vs parser.Scope, is map[string]interface{}, tid uint64, args []interface{}) (interface{}, error) {
	var res interface{}
	var err error

	if arglen := len(args); arglen != 1 {
		err = fmt.Errorf("Function requires 1 parameter: object relation id")
	}

	if err == nil {
		var id uint64
		var rel *model.ObjectRelation

		if id, err = uintArg(args, 0, "object relation id"); err == nil {

			if rel, err = f.CM.RemoveObjectRelation(id); rel != nil {
				res = toECALResult(rel)
			}
		}
	}

	return res, err
}

/*
DocString returns a descriptive string.
*/
func (f *RemoveObjectRelationFunc) DocString() (string, error) {
	return "Removes an object relation in ObjectHub.", nil
}

/*
RelatedFunc checks if two classes are directly or transitively related
in ObjectHub.
*/
type RelatedFunc struct {
	CM *catalog.Manager
}

/*
Run executes the ECAL function.
*/
func (f *RelatedFunc) Run(instanceID string, vs parser.Scope, is map[string]interface{}, tid uint64, args []interface{}) (interface{}, error) {
	var res interface{}
	var err error

	if arglen := len(args); arglen != 2 {
		err = fmt.Errorf("Function requires 2 parameters: class id and class id")
	}

	if err == nil {
		var classA, classB uint64

		if classA, err = uintArg(args, 0, "class id"); err == nil {

			if classB, err = uintArg(args, 1, "class id"); err == nil {
				res = f.CM.AreClassesRelated(classA, classB)
			}
		}
	}

	return res, err
}

/*
DocString returns a descriptive string.
*/
func (f *RelatedFunc) DocString() (string, error) {
	return "Checks if two classes are directly or transitively related in ObjectHub.", nil
}

/*
ClassClosureFunc returns all known paths between two transitively related
classes in ObjectHub.
*/
type ClassClosureFunc struct {
	CM *catalog.Manager
}

/*
Run executes the ECAL function.
*/
func (f *ClassClosureFunc) Run(instanceID string, vs parser.Scope, is map[string]interface{}, tid uint64, args []interface{}) (interface{}, error) {
	var res interface{}
	var err error

	if arglen := len(args); arglen != 2 {
		err = fmt.Errorf("Function requires 2 parameters: class id and class id")
	}

	if err == nil {
		var classA, classB uint64
		var entries []*model.ClosureEntry

		if classA, err = uintArg(args, 0, "class id"); err == nil {

			if classB, err = uintArg(args, 1, "class id"); err == nil {

				if entries, err = f.CM.ClassClosure(classA, classB); err == nil {
					ret := []interface{}{}

					for _, entry := range entries {
						ret = append(ret, toECALResult(entry))
					}

					res = ret
				}
			}
		}
	}

	return res, err
}

/*
DocString returns a descriptive string.
*/
func (f *ClassClosureFunc) DocString() (string, error) {
	return "Returns all known paths between two transitively related classes in ObjectHub.", nil
}
