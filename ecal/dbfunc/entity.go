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
	"devt.de/krotik/ecal/scope"
	"devt.de/krotik/objecthub/catalog"
	"devt.de/krotik/objecthub/catalog/model"
)

/*
StoreNamespaceFunc stores a namespace in ObjectHub.
*/
type StoreNamespaceFunc struct {
	CM *catalog.Manager
}

/*
Run executes the ECAL function.
*/
func (f *StoreNamespaceFunc) Run(instanceID string, vs parser.Scope, is map[string]interface{}, tid uint64, args []interface{}) (interface{}, error) {
	var res interface{}
	var err error

	if arglen := len(args); arglen != 1 {
		err = fmt.Errorf("Function requires 1 parameter: namespace map")
	}

	if err == nil {
		var ns *model.Namespace

		nsMap, ok := args[0].(map[interface{}]interface{})

		if !ok {
			err = fmt.Errorf("First parameter must be a map")
		}

		if err == nil {
			if ns, err = NewNamespaceFromECALMap(nsMap); err == nil {

				if err = f.CM.StoreNamespace(ns); err == nil {
					res = toECALResult(ns)
				}
			}
		}
	}

	return res, err
}

/*
DocString returns a descriptive string.
*/
func (f *StoreNamespaceFunc) DocString() (string, error) {
	return "Stores a namespace in ObjectHub.", nil
}

/*
FetchNamespaceFunc fetches a namespace in ObjectHub.
*/
type FetchNamespaceFunc struct {
	CM *catalog.Manager
}

/*
Run executes the ECAL function.
*/
func (f *FetchNamespaceFunc) Run(instanceID string, vs parser.Scope, is map[string]interface{}, tid uint64, args []interface{}) (interface{}, error) {
	var res interface{}
	var err error

	if arglen := len(args); arglen != 1 {
		err = fmt.Errorf("Function requires 1 parameter: namespace id")
	}

	if err == nil {
		var id uint64
		var ns *model.Namespace

		if id, err = uintArg(args, 0, "namespace id"); err == nil {

			if ns, err = f.CM.Namespace(id); ns != nil {
				res = toECALResult(ns)
			}
		}
	}

	return res, err
}

/*
DocString returns a descriptive string.
*/
func (f *FetchNamespaceFunc) DocString() (string, error) {
	return "Fetches a namespace in ObjectHub.", nil
}

/*
RemoveNamespaceFunc removes a namespace in ObjectHub. All classes and objects
of the namespace are removed as well.
*/
type RemoveNamespaceFunc struct {
	CM *catalog.Manager
}

/*
Run executes the ECAL function.
*/
func (f *RemoveNamespaceFunc) Run(instanceID string, vs parser.Scope, is map[string]interface{}, tid uint64, args []interface{}) (interface{}, error) {
	var res interface{}
	var err error

	if arglen := len(args); arglen != 1 {
		err = fmt.Errorf("Function requires 1 parameter: namespace id")
	}

	if err == nil {
		var id uint64
		var ns *model.Namespace

		if id, err = uintArg(args, 0, "namespace id"); err == nil {

			if ns, err = f.CM.RemoveNamespace(id); ns != nil {
				res = toECALResult(ns)
			}
		}
	}

	return res, err
}

/*
DocString returns a descriptive string.
*/
func (f *RemoveNamespaceFunc) DocString() (string, error) {
	return "Removes a namespace in ObjectHub.", nil
}

/*
StoreClassFunc stores a class in ObjectHub.
*/
type StoreClassFunc struct {
	CM *catalog.Manager
}

/*
Run executes the ECAL function.
*/
func (f *StoreClassFunc) Run(instanceID string, vs parser.Scope, is map[string]interface{}, tid uint64, args []interface{}) (interface{}, error) {
	var res interface{}
	var err error

	if arglen := len(args); arglen != 1 {
		err = fmt.Errorf("Function requires 1 parameter: class map")
	}

	if err == nil {
		var cl *model.Class

		clMap, ok := args[0].(map[interface{}]interface{})

		if !ok {
			err = fmt.Errorf("First parameter must be a map")
		}

		if err == nil {
			if cl, err = NewClassFromECALMap(clMap); err == nil {

				if err = f.CM.StoreClass(cl); err == nil {
					res = toECALResult(cl)
				}
			}
		}
	}

	return res, err
}

/*
DocString returns a descriptive string.
*/
func (f *StoreClassFunc) DocString() (string, error) {
	return "Stores a class in ObjectHub.", nil
}

/*
FetchClassFunc fetches a class in ObjectHub.
*/
type FetchClassFunc struct {
	CM *catalog.Manager
}

/*
Run executes the ECAL function.
*/
func (f *FetchClassFunc) Run(instanceID string, vs parser.Scope, is map[string]interface{}, tid uint64, args []interface{}) (interface{}, error) {
	var res interface{}
	var err error

	if arglen := len(args); arglen != 1 {
		err = fmt.Errorf("Function requires 1 parameter: class id")
	}

	if err == nil {
		var id uint64
		var cl *model.Class

		if id, err = uintArg(args, 0, "class id"); err == nil {

			if cl, err = f.CM.Class(id); cl != nil {
				res = toECALResult(cl)
			}
		}
	}

	return res, err
}

/*
DocString returns a descriptive string.
*/
func (f *FetchClassFunc) DocString() (string, error) {
	return "Fetches a class in ObjectHub.", nil
}

/*
RemoveClassFunc removes a class in ObjectHub. All objects of the class and
all class relations which reference the class are removed as well.
*/
type RemoveClassFunc struct {
	CM *catalog.Manager
}

/*
Run executes the ECAL function.
*/
func (f *RemoveClassFunc) Run(instanceID string, vs parser.Scope, is map[string]interface{}, tid uint64, args []interface{}) (interface{}, error) {
	var res interface{}
	var err error

	if arglen := len(args); arglen != 1 {
		err = fmt.Errorf("Function requires 1 parameter: class id")
	}

	if err == nil {
		var id uint64
		var cl *model.Class

		if id, err = uintArg(args, 0, "class id"); err == nil {

			if cl, err = f.CM.RemoveClass(id); cl != nil {
				res = toECALResult(cl)
			}
		}
	}

	return res, err
}

/*
DocString returns a descriptive string.
*/
func (f *RemoveClassFunc) DocString() (string, error) {
	return "Removes a class in ObjectHub.", nil
}

/*
StoreObjectFunc stores an object in ObjectHub.
*/
type StoreObjectFunc struct {
	CM *catalog.Manager
}

/*
Run executes the ECAL function.
*/
func (f *StoreObjectFunc) Run(instanceID string, vs parser.Scope, is map[string]interface{}, tid uint64, args []interface{}) (interface{}, error) {
	var res interface{}
	var err error

	if arglen := len(args); arglen != 1 {
		err = fmt.Errorf("Function requires 1 parameter: object map")
	}

	if err == nil {
		var obj *model.Object

		objMap, ok := args[0].(map[interface{}]interface{})

		if !ok {
			err = fmt.Errorf("First parameter must be a map")
		}

		if err == nil {
			if obj, err = NewObjectFromECALMap(objMap); err == nil {

				if err = f.CM.StoreObject(obj); err == nil {
					res = toECALResult(obj)
				}
			}
		}
	}

	return res, err
}

/*
DocString returns a descriptive string.
*/
func (f *StoreObjectFunc) DocString() (string, error) {
	return "Stores an object in ObjectHub.", nil
}

/*
FetchObjectFunc fetches an object in ObjectHub.
*/
type FetchObjectFunc struct {
	CM *catalog.Manager
}

/*
Run executes the ECAL function.
*/
func (f *FetchObjectFunc) Run(instanceID string, vs parser.Scope, is map[string]interface{}, tid uint64, args []interface{}) (interface{}, error) {
	var res interface{}
	var err error

	if arglen := len(args); arglen != 1 {
		err = fmt.Errorf("Function requires 1 parameter: object id")
	}

	if err == nil {
		var id uint64
		var obj *model.Object

		if id, err = uintArg(args, 0, "object id"); err == nil {

			if obj, err = f.CM.Object(id); obj != nil {
				res = toECALResult(obj)
			}
		}
	}

	return res, err
}

/*
DocString returns a descriptive string.
*/
func (f *FetchObjectFunc) DocString() (string, error) {
	return "Fetches an object in ObjectHub.", nil
}

/*
RemoveObjectFunc removes an object in ObjectHub. All object relations of
the object are removed as well.
*/
type RemoveObjectFunc struct {
	CM *catalog.Manager
}

/*
Run executes the ECAL function.
*/
func (f *RemoveObjectFunc) Run(instanceID string, vs parser.Scope, is map[string]interface{}, tid uint64, args []interface{}) (interface{}, error) {
	var res interface{}
	var err error

	if arglen := len(args); arglen != 1 {
		err = fmt.Errorf("Function requires 1 parameter: object id")
	}

	if err == nil {
		var id uint64
		var obj *model.Object

		if id, err = uintArg(args, 0, "object id"); err == nil {

			if obj, err = f.CM.RemoveObject(id); obj != nil {
				res = toECALResult(obj)
			}
		}
	}

	return res, err
}

/*
DocString returns a descriptive string.
*/
func (f *RemoveObjectFunc) DocString() (string, error) {
	return "Removes an object in ObjectHub.", nil
}

// Helper functions
// ================

/*
NewNamespaceFromECALMap creates a new Namespace instance from a given map.
*/
func NewNamespaceFromECALMap(d map[interface{}]interface{}) (*model.Namespace, error) {
	id, err := uintMapAttr(d, "id")
	if err != nil {
		return nil, err
	}

	return &model.Namespace{
		ID:          id,
		Name:        stringMapAttr(d, "name"),
		Description: stringMapAttr(d, "description"),
	}, nil
}

/*
NewClassFromECALMap creates a new Class instance from a given map.
*/
func NewClassFromECALMap(d map[interface{}]interface{}) (*model.Class, error) {
	id, err := uintMapAttr(d, "id")

	if err == nil {
		var nsid uint64

		if nsid, err = uintMapAttr(d, "namespace"); err == nil {
			var schema interface{}

			if s, ok := d["json_schema"]; ok {
				schema = scope.ConvertECALToJSONObject(s)
			}

			validate := false
			if v, ok := d["validate_schema"]; ok {
				validate = v == true
			}

			return &model.Class{
				ID:          id,
				Name:        stringMapAttr(d, "name"),
				Namespace:   nsid,
				Description: stringMapAttr(d, "description"),
				Schema:      schema,
				Validate:    validate,
			}, nil
		}
	}

	return nil, err
}

/*
NewObjectFromECALMap creates a new Object instance from a given map.
*/
func NewObjectFromECALMap(d map[interface{}]interface{}) (*model.Object, error) {
	id, err := uintMapAttr(d, "id")

	if err == nil {
		var clid, nsid uint64

		if clid, err = uintMapAttr(d, "class"); err == nil {

			if nsid, err = uintMapAttr(d, "namespace"); err == nil {
				var data interface{}

				if v, ok := d["data"]; ok {
					data = scope.ConvertECALToJSONObject(v)
				}

				return &model.Object{
					ID:          id,
					Name:        stringMapAttr(d, "name"),
					Class:       clid,
					Namespace:   nsid,
					Description: stringMapAttr(d, "description"),
					Data:        data,
				}, nil
			}
		}
	}

	return nil, err
}
