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
FindLinkedFunc finds all objects of a target class which are transitively
linked to a given start object in ObjectHub.
*/
type FindLinkedFunc struct {
	CM *catalog.Manager
}

/*
Run executes the ECAL function.
*/
func (f *FindLinkedFunc) Run(instanceID string, vs parser.Scope, is map[string]interface{}, tid uint64, args []interface{}) (interface{}, error) {
	var res interface{}
	var err error

	if arglen := len(args); arglen < 2 || arglen > 4 {
		err = fmt.Errorf("Function requires 2 to 4 parameters: start object id, " +
			"target class id, optional max steps and optional list of visible namespace ids")
	}

	if err == nil {
		var start, target uint64
		var maxSteps int
		var visible map[uint64]bool
		var links []*model.ObjectLink

		if start, err = uintArg(args, 0, "object id"); err == nil {
			target, err = uintArg(args, 1, "class id")
		}

		if err == nil && len(args) > 2 {
			var steps uint64

			if steps, err = uintArg(args, 2, "max steps"); err == nil {
				maxSteps = int(steps)
			}
		}

		if err == nil && len(args) > 3 {
			nsList, ok := args[3].([]interface{})

			if !ok {
				err = fmt.Errorf("Fourth parameter must be a list of namespace ids")
			}

			if err == nil {
				visible = make(map[uint64]bool)

				for _, item := range nsList {
					var nsid uint64

					if nsid, err = uintArg([]interface{}{item}, 0, "namespace id"); err != nil {
						break
					}

					visible[nsid] = true
				}
			}
		}

		if err == nil {

			if links, err = f.CM.FindTransitivelyLinkedObjects(start, target, visible, maxSteps); err == nil {
				ret := []interface{}{}

				for _, link := range links {
					ret = append(ret, toECALResult(link))
				}

				res = ret
			}
		}
	}

	return res, err
}

/*
DocString returns a descriptive string.
*/
func (f *FindLinkedFunc) DocString() (string, error) {
	return "Finds all objects of a target class which are transitively linked to a given start object in ObjectHub.", nil
}
