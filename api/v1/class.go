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
	"encoding/json"
	"net/http"
	"strconv"

	"devt.de/krotik/objecthub/api"
	"devt.de/krotik/objecthub/catalog/model"
)

/*
EndpointClass is the class endpoint URL (rooted). Handles everything under class/...
*/
const EndpointClass = api.APIRoot + APIv1 + "/class/"

/*
ClassEndpointInst creates a new endpoint handler.
*/
func ClassEndpointInst() api.RestEndpointHandler {
	return &classEndpoint{}
}

/*
Handler object for class operations.
*/
type classEndpoint struct {
	*api.DefaultEndpointHandler
}

/*
HandleGET handles REST calls to retrieve classes.
*/
func (ce *classEndpoint) HandleGET(w http.ResponseWriter, r *http.Request, resources []string) {

	if !checkResources(w, resources, 0, 1, "Need a class id or name") {
		return
	}

	if len(resources) == 0 {

		var cls []*model.Class
		var err error

		// Get namespace filter parameter; -1 if not set

		nsid, ok := queryParamPosNum(w, r, "namespace")
		if !ok {
			return
		}

		if nsid != -1 {
			cls, err = api.CM.ClassesInNamespace(uint64(nsid))
		} else {
			cls, err = api.CM.Classes()
		}

		if err != nil {
			writeCatalogError(w, err)
			return
		}

		data := make([]interface{}, 0, len(cls))
		for _, cl := range cls {
			data = append(data, cl)
		}

		w.Header().Add(HTTPHeaderTotalCount, strconv.FormatUint(api.CM.ClassCount(), 10))

		writeJSON(w, data)

		return
	}

	// Fetch a specific class either by id or by its unique name

	var cl *model.Class
	var err error

	if id, cerr := strconv.ParseUint(resources[0], 10, 64); cerr == nil {
		cl, err = api.CM.Class(id)
	} else {
		cl, err = api.CM.ClassByName(resources[0])
	}

	if err != nil {
		writeCatalogError(w, err)
		return
	} else if cl == nil {
		http.Error(w, "Unknown class: "+resources[0], http.StatusNotFound)
		return
	}

	writeJSON(w, cl)
}

/*
HandlePOST handles a REST call to create a new class.
*/
func (ce *classEndpoint) HandlePOST(w http.ResponseWriter, r *http.Request, resources []string) {

	if !checkResources(w, resources, 0, 0, "Can only create new classes at the endpoint root") {
		return
	}

	var cl model.Class

	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(&cl); err != nil {
		http.Error(w, "Could not decode request body as class: "+err.Error(), http.StatusBadRequest)
		return
	}

	cl.ID = 0

	if err := api.CM.StoreClass(&cl); err != nil {
		writeCatalogError(w, err)
		return
	}

	writeJSON(w, &cl)
}

/*
HandlePUT handles a REST call to update an existing class.
*/
func (ce *classEndpoint) HandlePUT(w http.ResponseWriter, r *http.Request, resources []string) {

	if !checkResources(w, resources, 1, 1, "Need a class id") {
		return
	}

	id, ok := resourceID(w, resources[0], "class id")
	if !ok {
		return
	}

	var cl model.Class

	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(&cl); err != nil {
		http.Error(w, "Could not decode request body as class: "+err.Error(), http.StatusBadRequest)
		return
	}

	cl.ID = id

	if err := api.CM.StoreClass(&cl); err != nil {
		writeCatalogError(w, err)
		return
	}

	writeJSON(w, &cl)
}

/*
HandleDELETE handles a REST call to remove a class. All objects of the
class and all class relations which reference the class are removed as
well.
*/
func (ce *classEndpoint) HandleDELETE(w http.ResponseWriter, r *http.Request, resources []string) {

	if !checkResources(w, resources, 1, 1, "Need a class id") {
		return
	}

	id, ok := resourceID(w, resources[0], "class id")
	if !ok {
		return
	}

	cl, err := api.CM.RemoveClass(id)
	if err != nil {
		writeCatalogError(w, err)
		return
	}

	writeJSON(w, cl)
}

/*
SwaggerDefs is used to describe the endpoint in swagger.
*/
func (ce *classEndpoint) SwaggerDefs(s map[string]interface{}) {

	idParams := []map[string]interface{}{
		{
			"name":        "id",
			"in":          "path",
			"description": "Id or unique name of the class.",
			"required":    true,
			"type":        "string",
		},
	}

	s["paths"].(map[string]interface{})["/v1/class"] = map[string]interface{}{
		"get": map[string]interface{}{
			"summary":     "List classes.",
			"description": "Return all classes of the catalog or all classes of a given namespace.",
			"produces": []string{
				"application/json",
			},
			"parameters": []map[string]interface{}{
				{
					"name":        "namespace",
					"in":          "query",
					"description": "Only return classes of the namespace with this id.",
					"required":    false,
					"type":        "integer",
				},
			},
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "A list of classes.",
				},
				"default": map[string]interface{}{
					"description": "Error response",
					"schema": map[string]interface{}{
						"$ref": "#/definitions/Error",
					},
				},
			},
		},
		"post": map[string]interface{}{
			"summary":     "Create a new class.",
			"description": "Store a new class in the catalog.",
			"consumes": []string{
				"application/json",
			},
			"produces": []string{
				"application/json",
			},
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "The created class including its assigned id.",
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

	s["paths"].(map[string]interface{})["/v1/class/{id}"] = map[string]interface{}{
		"get": map[string]interface{}{
			"summary":     "Fetch a class.",
			"description": "Fetch a single class by its id or unique name.",
			"produces": []string{
				"application/json",
			},
			"parameters": idParams,
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "The requested class.",
				},
				"default": map[string]interface{}{
					"description": "Error response",
					"schema": map[string]interface{}{
						"$ref": "#/definitions/Error",
					},
				},
			},
		},
		"put": map[string]interface{}{
			"summary":     "Update a class.",
			"description": "Update an existing class. The namespace of a class cannot be changed.",
			"consumes": []string{
				"application/json",
			},
			"produces": []string{
				"application/json",
			},
			"parameters": idParams,
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "The updated class.",
				},
				"default": map[string]interface{}{
					"description": "Error response",
					"schema": map[string]interface{}{
						"$ref": "#/definitions/Error",
					},
				},
			},
		},
		"delete": map[string]interface{}{
			"summary":     "Remove a class.",
			"description": "Remove a class including all its objects and class relations.",
			"produces": []string{
				"application/json",
			},
			"parameters": idParams,
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "The removed class.",
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
