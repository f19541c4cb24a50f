/*
 * ObjectHub
 *
 * Copyright 2021 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package v1

import (
	"net/http"

	"devt.de/krotik/objecthub/api"
	"devt.de/krotik/objecthub/config"
)

/*
EndpointLinked is the transitive link query endpoint URL (rooted). Handles everything under linked/...
*/
const EndpointLinked = api.APIRoot + APIv1 + "/linked/"

/*
VisibleNamespacesFunc is called to determine which namespaces are visible
to the user of a given request. A nil function or a nil result means all
namespaces are visible. The function is set by the server when access
control is enabled.
*/
var VisibleNamespacesFunc func(r *http.Request) map[uint64]bool

/*
LinkedEndpointInst creates a new endpoint handler.
*/
func LinkedEndpointInst() api.RestEndpointHandler {
	return &linkedEndpoint{}
}

/*
Handler object for transitive link queries.
*/
type linkedEndpoint struct {
	*api.DefaultEndpointHandler
}

/*
HandleGET handles a REST call to find all objects of a target class which
are transitively linked to a given start object. Only objects in
namespaces visible to the requesting user are traversed.
*/
func (le *linkedEndpoint) HandleGET(w http.ResponseWriter, r *http.Request, resources []string) {

	if !checkResources(w, resources, 2, 2, "Need a start object id and a target class id") {
		return
	}

	start, ok := resourceID(w, resources[0], "object id")
	if !ok {
		return
	}

	target, ok := resourceID(w, resources[1], "class id")
	if !ok {
		return
	}

	// Get steps parameter; -1 if not set

	steps, ok := queryParamPosNum(w, r, "steps")
	if !ok {
		return
	}

	if steps == -1 {
		steps = int(config.Int(config.TraversalMaxSteps))
	}

	var visible map[uint64]bool

	if VisibleNamespacesFunc != nil {
		visible = VisibleNamespacesFunc(r)
	}

	links, err := api.CM.FindTransitivelyLinkedObjects(start, target, visible, steps)
	if err != nil {
		writeCatalogError(w, err)
		return
	}

	data := make([]interface{}, 0, len(links))
	for _, link := range links {
		data = append(data, link)
	}

	writeJSON(w, data)
}

/*
SwaggerDefs is used to describe the endpoint in swagger.
*/
func (le *linkedEndpoint) SwaggerDefs(s map[string]interface{}) {

	s["paths"].(map[string]interface{})["/v1/linked/{object}/{class}"] = map[string]interface{}{
		"get": map[string]interface{}{
			"summary": "Find transitively linked objects.",
			"description": "Find all objects of a target class which are reachable " +
				"from a start object through chains of object relations.",
			"produces": []string{
				"application/json",
			},
			"parameters": []map[string]interface{}{
				{
					"name":        "object",
					"in":          "path",
					"description": "Id of the start object.",
					"required":    true,
					"type":        "integer",
				},
				{
					"name":        "class",
					"in":          "path",
					"description": "Id of the target class.",
					"required":    true,
					"type":        "integer",
				},
				{
					"name":        "steps",
					"in":          "query",
					"description": "Maximum number of traversal steps (0 means no limit).",
					"required":    false,
					"type":        "integer",
				},
			},
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "A list of reached objects with one witness path each.",
				},
				"default": map[string]interface{}{
					"description": "Error response",
					"schema": map[string]interface{}{
						"$ref": "#/definitions/Error",
					},
				},
			},
		},
	}

	s["definitions"].(map[string]interface{})["Error"] = map[string]interface{}{
		"description": "A human readable error mesage.",
		"type":        "string",
	}
}
