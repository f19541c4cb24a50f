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
Package dbfunc contains catalog related ECAL stdlib functions.
*/
package dbfunc

import (
	"encoding/json"
	"fmt"
	"strconv"

	"devt.de/krotik/ecal/interpreter"
	"devt.de/krotik/ecal/parser"
	"devt.de/krotik/ecal/scope"
	"devt.de/krotik/ecal/util"
	"devt.de/krotik/objecthub/catalog"
)

/*
RaiseEventHandledFunc returns the special catalog.ErrEventHandled error which a sink,
handling catalog events, can return to notify the CatalogManager that no further
action is necessary.
*/
type RaiseEventHandledFunc struct {
}

/*
Run executes the ECAL function.
*/
func (f *RaiseEventHandledFunc) Run(instanceID string, vs parser.Scope, is map[string]interface{}, tid uint64, args []interface{}) (interface{}, error) {
	return nil, catalog.ErrEventHandled
}

/*
DocString returns a descriptive string.
*/
func (f *RaiseEventHandledFunc) DocString() (string, error) {
	return "When handling a catalog event, notify the CatalogManager of ObjectHub that no further action is necessary.", nil
}

/*
ErrWebEventHandled is a special error to signal that a web request was handled.
*/
var ErrWebEventHandled = fmt.Errorf("Web event handled")

/*
RaiseWebEventHandledFunc returns a special error which a sink can return to notify
the web API that a web request was handled.
*/
type RaiseWebEventHandledFunc struct {
}

/*
Run executes the ECAL function.
*/
func (f *RaiseWebEventHandledFunc) Run(instanceID string, vs parser.Scope, is map[string]interface{}, tid uint64, args []interface{}) (interface{}, error) {
	if arglen := len(args); arglen != 1 {
		return nil, fmt.Errorf("Function requires 1 parameter: request response object")
	}

	res := args[0]

	resMap, ok := res.(map[interface{}]interface{})

	if !ok {
		return nil, fmt.Errorf("Request response object should be a map")
	}

	if _, ok := resMap["status"]; !ok {
		resMap["status"] = 200
	}
	if _, ok := resMap["headers"]; !ok {
		resMap["header"] = map[interface{}]interface{}{
			"Content-Type":           "application/json; charset=utf-8",
			"X-Content-Type-Options": "nosniff",
		}
	}
	if _, ok := resMap["body"]; !ok {
		resMap["body"] = map[interface{}]interface{}{}
	}

	erp := is["erp"].(*interpreter.ECALRuntimeProvider)
	node := is["astnode"].(*parser.ASTNode)

	return nil, &util.RuntimeErrorWithDetail{
		RuntimeError: erp.NewRuntimeError(ErrWebEventHandled, "", node).(*util.RuntimeError),
		Environment:  vs,
		Data:         res,
	}
}

/*
DocString returns a descriptive string.
*/
func (f *RaiseWebEventHandledFunc) DocString() (string, error) {
	return "When handling a web event, notify the web API of ObjectHub that the web request was handled.", nil
}

// Helper functions
// ================

/*
uintArg reads a function argument as an entity id.
*/
func uintArg(args []interface{}, index int, name string) (uint64, error) {
	id, err := strconv.ParseUint(fmt.Sprint(args[index]), 10, 64)

	if err != nil {
		return 0, fmt.Errorf("Parameter %v must be an id: %v", name, err.Error())
	}

	return id, nil
}

/*
uintMapAttr reads an optional map attribute as an entity id.
*/
func uintMapAttr(m map[interface{}]interface{}, key string) (uint64, error) {
	val, ok := m[key]

	if !ok || val == nil {
		return 0, nil
	}

	id, err := strconv.ParseUint(fmt.Sprint(val), 10, 64)

	if err != nil {
		return 0, fmt.Errorf("Attribute %v must be an id: %v", key, err.Error())
	}

	return id, nil
}

/*
stringMapAttr reads an optional map attribute as a string.
*/
func stringMapAttr(m map[interface{}]interface{}, key string) string {
	if val, ok := m[key]; ok && val != nil {
		return fmt.Sprint(val)
	}

	return ""
}

/*
toECALResult converts a catalog result entity into an object which can be
used in ECAL.
*/
func toECALResult(v interface{}) interface{} {
	var data interface{}

	b, _ := json.Marshal(v)
	json.Unmarshal(b, &data)

	return scope.ConvertJSONToECALObject(data)
}
