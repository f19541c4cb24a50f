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
	"strings"

	"devt.de/krotik/objecthub/api"
	"devt.de/krotik/objecthub/catalog/model"
)

/*
EndpointObject is the object endpoint URL (rooted). Handles everything under object/...
*/
const EndpointObject = api.APIRoot + APIv1 + "/object/"

/*
ObjectEndpointInst creates a new endpoint handler.
*/
func ObjectEndpointInst() api.RestEndpointHandler {
	return &objectEndpoint{}
}

/*
Handler object for object operations.
*/
type objectEndpoint struct {
	*api.DefaultEndpointHandler
}

/*
HandleGET handles REST calls to retrieve objects.
*/
func (oe *objectEndpoint) HandleGET(w http.ResponseWriter, r *http.Request, resources []string) {

	if !checkResources(w, resources, 0, 2, "Need an object id or a namespace id and an object name") {
		return
	}

	if len(resources) == 0 {

		var objs []*model.Object
		var err error

		// Get class filter parameter; -1 if not set

		classid, ok := queryParamPosNum(w, r, "class")
		if !ok {
			return
		}

		if classid != -1 {
			objs, err = api.CM.ObjectsOfClass(uint64(classid))
		} else {
			objs, err = api.CM.Objects()
		}

		if err != nil {
			writeCatalogError(w, err)
			return
		}

		data := make([]interface{}, 0, len(objs))
		for _, obj := range objs {
			data = append(data, obj)
		}

		w.Header().Add(HTTPHeaderTotalCount, strconv.FormatUint(api.CM.ObjectCount(), 10))

		writeJSON(w, data)

		return
	}

	// Fetch a specific object either by id or by namespace id and name -
	// object names are only unique within their namespace

	var obj *model.Object
	var err error

	if len(resources) == 1 {
		var id uint64
		var ok bool

		if id, ok = resourceID(w, resources[0], "object id"); !ok {
			return
		}

		obj, err = api.CM.Object(id)

	} else {
		var nsid uint64
		var ok bool

		if nsid, ok = resourceID(w, resources[0], "namespace id"); !ok {
			return
		}

		obj, err = api.CM.ObjectByName(nsid, resources[1])
	}

	if err != nil {
		writeCatalogError(w, err)
		return
	} else if obj == nil {
		http.Error(w, "Unknown object: "+strings.Join(resources, "/"), http.StatusNotFound)
		return
	}

	writeJSON(w, obj)
}

/*
HandlePOST handles a REST call to create a new object.
*/
func (oe *objectEndpoint) HandlePOST(w http.ResponseWriter, r *http.Request, resources []string) {

	if !checkResources(w, resources, 0, 0, "Can only create new objects at the endpoint root") {
		return
	}

	var obj model.Object

	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(&obj); err != nil {
		http.Error(w, "Could not decode request body as object: "+err.Error(), http.StatusBadRequest)
		return
	}

	obj.ID = 0

	if err := api.CM.StoreObject(&obj); err != nil {
		writeCatalogError(w, err)
		return
	}

	writeJSON(w, &obj)
}

/*
HandlePUT handles a REST call to update an existing object. The class of
an object cannot be changed.
*/
func (oe *objectEndpoint) HandlePUT(w http.ResponseWriter, r *http.Request, resources []string) {

	if !checkResources(w, resources, 1, 1, "Need an object id") {
		return
	}

	id, ok := resourceID(w, resources[0], "object id")
	if !ok {
		return
	}

	var obj model.Object

	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(&obj); err != nil {
		http.Error(w, "Could not decode request body as object: "+err.Error(), http.StatusBadRequest)
		return
	}

	obj.ID = id

	if err := api.CM.StoreObject(&obj); err != nil {
		writeCatalogError(w, err)
		return
	}

	writeJSON(w, &obj)
}

/*
HandleDELETE handles a REST call to remove an object. All object relations
of the object are removed as well.
*/
func (oe *objectEndpoint) HandleDELETE(w http.ResponseWriter, r *http.Request, resources []string) {

	if !checkResources(w, resources, 1, 1, "Need an object id") {
		return
	}

	id, ok := resourceID(w, resources[0], "object id")
	if !ok {
		return
	}

	obj, err := api.CM.RemoveObject(id)
	if err != nil {
		writeCatalogError(w, err)
		return
	}

	writeJSON(w, obj)
}

/*
SwaggerDefs is used to describe the endpoint in swagger.
*/
func (oe *objectEndpoint) SwaggerDefs(s map[string]interface{}) {

	idParams := []map[string]interface{}{
		{
			"name":        "id",
			"in":          "path",
			"description": "Id of the object.",
			"required":    true,
			"type":        "integer",
		},
	}

	s["paths"].(map[string]interface{})["/v1/object"] = map[string]interface{}{
		"get": map[string]interface{}{
			"summary":     "List objects.",
			"description": "Return all objects of the catalog or all objects of a given class.",
			"produces": []string{
				"application/json",
			},
			"parameters": []map[string]interface{}{
				{
					"name":        "class",
					"in":          "query",
					"description": "Only return objects of the class with this id.",
					"required":    false,
					"type":        "integer",
				},
			},
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "A list of objects.",
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
			"summary":     "Create a new object.",
			"description": "Store a new object in the catalog.",
			"consumes": []string{
				"application/json",
			},
			"produces": []string{
				"application/json",
			},
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "The created object including its assigned id.",
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

	s["paths"].(map[string]interface{})["/v1/object/{id}"] = map[string]interface{}{
		"get": map[string]interface{}{
			"summary":     "Fetch an object.",
			"description": "Fetch a single object by its id.",
			"produces": []string{
				"application/json",
			},
			"parameters": idParams,
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "The requested object.",
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
			"summary":     "Update an object.",
			"description": "Update an existing object. The class of an object cannot be changed.",
			"consumes": []string{
				"application/json",
			},
			"produces": []string{
				"application/json",
			},
			"parameters": idParams,
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "The updated object.",
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
			"summary":     "Remove an object.",
			"description": "Remove an object including all its object relations.",
			"produces": []string{
				"application/json",
			},
			"parameters": idParams,
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "The removed object.",
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

	s["paths"].(map[string]interface{})["/v1/object/{namespace}/{name}"] = map[string]interface{}{
		"get": map[string]interface{}{
			"summary":     "Fetch an object by name.",
			"description": "Fetch a single object by its namespace id and its name.",
			"produces": []string{
				"application/json",
			},
			"parameters": []map[string]interface{}{
				{
					"name":        "namespace",
					"in":          "path",
					"description": "Id of the namespace of the object.",
					"required":    true,
					"type":        "integer",
				},
				{
					"name":        "name",
					"in":          "path",
					"description": "Name of the object.",
					"required":    true,
					"type":        "string",
				},
			},
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "The requested object.",
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
