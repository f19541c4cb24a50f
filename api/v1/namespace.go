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
EndpointNamespace is the namespace endpoint URL (rooted). Handles everything under namespace/...
*/
const EndpointNamespace = api.APIRoot + APIv1 + "/namespace/"

/*
NamespaceEndpointInst creates a new endpoint handler.
*/
func NamespaceEndpointInst() api.RestEndpointHandler {
	return &namespaceEndpoint{}
}

/*
Handler object for namespace operations.
*/
type namespaceEndpoint struct {
	*api.DefaultEndpointHandler
}

/*
HandleGET handles REST calls to retrieve namespaces.
*/
func (ne *namespaceEndpoint) HandleGET(w http.ResponseWriter, r *http.Request, resources []string) {

	if !checkResources(w, resources, 0, 1, "Need a namespace id or name") {
		return
	}

	if len(resources) == 0 {

		// List all namespaces

		nss, err := api.CM.Namespaces()
		if err != nil {
			writeCatalogError(w, err)
			return
		}

		data := make([]interface{}, 0, len(nss))
		for _, ns := range nss {
			data = append(data, ns)
		}

		w.Header().Add(HTTPHeaderTotalCount, strconv.FormatUint(api.CM.NamespaceCount(), 10))

		writeJSON(w, data)

		return
	}

	// Fetch a specific namespace either by id or by its unique name

	var ns *model.Namespace
	var err error

	if id, cerr := strconv.ParseUint(resources[0], 10, 64); cerr == nil {
		ns, err = api.CM.Namespace(id)
	} else {
		ns, err = api.CM.NamespaceByName(resources[0])
	}

	if err != nil {
		writeCatalogError(w, err)
		return
	} else if ns == nil {
		http.Error(w, "Unknown namespace: "+resources[0], http.StatusNotFound)
		return
	}

	writeJSON(w, ns)
}

/*
HandlePOST handles a REST call to create a new namespace.
*/
func (ne *namespaceEndpoint) HandlePOST(w http.ResponseWriter, r *http.Request, resources []string) {

	if !checkResources(w, resources, 0, 0, "Can only create new namespaces at the endpoint root") {
		return
	}

	var ns model.Namespace

	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(&ns); err != nil {
		http.Error(w, "Could not decode request body as namespace: "+err.Error(), http.StatusBadRequest)
		return
	}

	ns.ID = 0

	if err := api.CM.StoreNamespace(&ns); err != nil {
		writeCatalogError(w, err)
		return
	}

	writeJSON(w, &ns)
}

/*
HandlePUT handles a REST call to update an existing namespace.
*/
func (ne *namespaceEndpoint) HandlePUT(w http.ResponseWriter, r *http.Request, resources []string) {

	if !checkResources(w, resources, 1, 1, "Need a namespace id") {
		return
	}

	id, ok := resourceID(w, resources[0], "namespace id")
	if !ok {
		return
	}

	var ns model.Namespace

	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(&ns); err != nil {
		http.Error(w, "Could not decode request body as namespace: "+err.Error(), http.StatusBadRequest)
		return
	}

	ns.ID = id

	if err := api.CM.StoreNamespace(&ns); err != nil {
		writeCatalogError(w, err)
		return
	}

	writeJSON(w, &ns)
}

/*
HandleDELETE handles a REST call to remove a namespace. All classes and
objects of the namespace are removed as well.
*/
func (ne *namespaceEndpoint) HandleDELETE(w http.ResponseWriter, r *http.Request, resources []string) {

	if !checkResources(w, resources, 1, 1, "Need a namespace id") {
		return
	}

	id, ok := resourceID(w, resources[0], "namespace id")
	if !ok {
		return
	}

	ns, err := api.CM.RemoveNamespace(id)
	if err != nil {
		writeCatalogError(w, err)
		return
	}

	writeJSON(w, ns)
}

/*
SwaggerDefs is used to describe the endpoint in swagger.
*/
func (ne *namespaceEndpoint) SwaggerDefs(s map[string]interface{}) {

	idParams := []map[string]interface{}{
		{
			"name":        "id",
			"in":          "path",
			"description": "Id or unique name of the namespace.",
			"required":    true,
			"type":        "string",
		},
	}

	s["paths"].(map[string]interface{})["/v1/namespace"] = map[string]interface{}{
		"get": map[string]interface{}{
			"summary":     "List all namespaces.",
			"description": "Return all namespaces of the catalog sorted by their id.",
			"produces": []string{
				"application/json",
			},
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "A list of namespaces.",
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
			"summary":     "Create a new namespace.",
			"description": "Store a new namespace in the catalog.",
			"consumes": []string{
				"application/json",
			},
			"produces": []string{
				"application/json",
			},
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "The created namespace including its assigned id.",
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

	s["paths"].(map[string]interface{})["/v1/namespace/{id}"] = map[string]interface{}{
		"get": map[string]interface{}{
			"summary":     "Fetch a namespace.",
			"description": "Fetch a single namespace by its id or unique name.",
			"produces": []string{
				"application/json",
			},
			"parameters": idParams,
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "The requested namespace.",
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
			"summary":     "Update a namespace.",
			"description": "Update an existing namespace.",
			"consumes": []string{
				"application/json",
			},
			"produces": []string{
				"application/json",
			},
			"parameters": idParams,
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "The updated namespace.",
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
			"summary":     "Remove a namespace.",
			"description": "Remove a namespace including all its classes and objects.",
			"produces": []string{
				"application/json",
			},
			"parameters": idParams,
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "The removed namespace.",
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
