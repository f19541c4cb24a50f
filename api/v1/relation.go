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
EndpointClassRelation is the class relation endpoint URL (rooted). Handles everything under classrelation/...
*/
const EndpointClassRelation = api.APIRoot + APIv1 + "/classrelation/"

/*
EndpointObjectRelation is the object relation endpoint URL (rooted). Handles everything under objectrelation/...
*/
const EndpointObjectRelation = api.APIRoot + APIv1 + "/objectrelation/"

/*
ClassRelationEndpointInst creates a new endpoint handler.
*/
func ClassRelationEndpointInst() api.RestEndpointHandler {
	return &classRelationEndpoint{}
}

/*
Handler object for class relation operations.
*/
type classRelationEndpoint struct {
	*api.DefaultEndpointHandler
}

/*
HandleGET handles REST calls to retrieve class relations and to query the
closure index. The special resources "related" and "closure" followed by
two class ids answer transitive relation queries.
*/
func (cre *classRelationEndpoint) HandleGET(w http.ResponseWriter, r *http.Request, resources []string) {

	if !checkResources(w, resources, 0, 3, "Need a class relation id or a closure query") {
		return
	}

	if len(resources) == 0 {

		// List all class relations

		rels, err := api.CM.ClassRelations()
		if err != nil {
			writeCatalogError(w, err)
			return
		}

		data := make([]interface{}, 0, len(rels))
		for _, rel := range rels {
			data = append(data, rel)
		}

		w.Header().Add(HTTPHeaderTotalCount, strconv.FormatUint(api.CM.ClassRelationCount(), 10))

		writeJSON(w, data)

		return
	}

	if resources[0] == "related" || resources[0] == "closure" {

		// Answer a transitive relation query for a pair of classes

		if !checkResources(w, resources, 3, 3, "Need two class ids") {
			return
		}

		classA, ok := resourceID(w, resources[1], "class id")
		if !ok {
			return
		}

		classB, ok := resourceID(w, resources[2], "class id")
		if !ok {
			return
		}

		if resources[0] == "related" {

			writeJSON(w, map[string]interface{}{
				"related": api.CM.AreClassesRelated(classA, classB),
			})

			return
		}

		entries, err := api.CM.ClassClosure(classA, classB)
		if err != nil {
			writeCatalogError(w, err)
			return
		}

		data := make([]interface{}, 0, len(entries))
		for _, entry := range entries {
			data = append(data, entry)
		}

		writeJSON(w, data)

		return
	}

	// Fetch a specific class relation

	id, ok := resourceID(w, resources[0], "class relation id")
	if !ok {
		return
	}

	rel, err := api.CM.ClassRelation(id)
	if err != nil {
		writeCatalogError(w, err)
		return
	} else if rel == nil {
		http.Error(w, "Unknown class relation: "+resources[0], http.StatusNotFound)
		return
	}

	writeJSON(w, rel)
}

/*
HandlePOST handles a REST call to create a new class relation.
*/
func (cre *classRelationEndpoint) HandlePOST(w http.ResponseWriter, r *http.Request, resources []string) {

	if !checkResources(w, resources, 0, 0, "Can only create new class relations at the endpoint root") {
		return
	}

	var reldata model.ClassRelation

	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(&reldata); err != nil {
		http.Error(w, "Could not decode request body as class relation: "+err.Error(), http.StatusBadRequest)
		return
	}

	rel, err := api.CM.StoreClassRelation(reldata.ClassLo, reldata.ClassHi)
	if err != nil {
		writeCatalogError(w, err)
		return
	}

	writeJSON(w, rel)
}

/*
HandleDELETE handles a REST call to remove a class relation. All object
relations which lost their support are removed as well.
*/
func (cre *classRelationEndpoint) HandleDELETE(w http.ResponseWriter, r *http.Request, resources []string) {

	if !checkResources(w, resources, 1, 1, "Need a class relation id") {
		return
	}

	id, ok := resourceID(w, resources[0], "class relation id")
	if !ok {
		return
	}

	rel, err := api.CM.RemoveClassRelation(id)
	if err != nil {
		writeCatalogError(w, err)
		return
	}

	writeJSON(w, rel)
}

/*
SwaggerDefs is used to describe the endpoint in swagger.
*/
func (cre *classRelationEndpoint) SwaggerDefs(s map[string]interface{}) {

	classPairParams := []map[string]interface{}{
		{
			"name":        "class1",
			"in":          "path",
			"description": "Id of the first class.",
			"required":    true,
			"type":        "integer",
		},
		{
			"name":        "class2",
			"in":          "path",
			"description": "Id of the second class.",
			"required":    true,
			"type":        "integer",
		},
	}

	s["paths"].(map[string]interface{})["/v1/classrelation"] = map[string]interface{}{
		"get": map[string]interface{}{
			"summary":     "List all class relations.",
			"description": "Return all class relations of the catalog sorted by their id.",
			"produces": []string{
				"application/json",
			},
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "A list of class relations.",
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
			"summary":     "Create a new class relation.",
			"description": "Relate two classes. The relation is stored in canonical form.",
			"consumes": []string{
				"application/json",
			},
			"produces": []string{
				"application/json",
			},
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "The created class relation including its assigned id.",
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

	s["paths"].(map[string]interface{})["/v1/classrelation/related/{class1}/{class2}"] = map[string]interface{}{
		"get": map[string]interface{}{
			"summary":     "Check if two classes are related.",
			"description": "Check if two classes are directly or transitively related.",
			"produces": []string{
				"application/json",
			},
			"parameters": classPairParams,
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "Object with a single related flag.",
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

	s["paths"].(map[string]interface{})["/v1/classrelation/closure/{class1}/{class2}"] = map[string]interface{}{
		"get": map[string]interface{}{
			"summary":     "Fetch closure entries.",
			"description": "Return all known paths which connect two transitively related classes.",
			"produces": []string{
				"application/json",
			},
			"parameters": classPairParams,
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "A list of closure entries.",
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

/*
ObjectRelationEndpointInst creates a new endpoint handler.
*/
func ObjectRelationEndpointInst() api.RestEndpointHandler {
	return &objectRelationEndpoint{}
}

/*
Handler object for object relation operations.
*/
type objectRelationEndpoint struct {
	*api.DefaultEndpointHandler
}

/*
HandleGET handles REST calls to retrieve object relations.
*/
func (ore *objectRelationEndpoint) HandleGET(w http.ResponseWriter, r *http.Request, resources []string) {

	if !checkResources(w, resources, 0, 1, "Need an object relation id") {
		return
	}

	if len(resources) == 0 {

		rels, err := api.CM.ObjectRelations()
		if err != nil {
			writeCatalogError(w, err)
			return
		}

		data := make([]interface{}, 0, len(rels))
		for _, rel := range rels {
			data = append(data, rel)
		}

		w.Header().Add(HTTPHeaderTotalCount, strconv.FormatUint(api.CM.ObjectRelationCount(), 10))

		writeJSON(w, data)

		return
	}

	id, ok := resourceID(w, resources[0], "object relation id")
	if !ok {
		return
	}

	rel, err := api.CM.ObjectRelation(id)
	if err != nil {
		writeCatalogError(w, err)
		return
	} else if rel == nil {
		http.Error(w, "Unknown object relation: "+resources[0], http.StatusNotFound)
		return
	}

	writeJSON(w, rel)
}

/*
HandlePOST handles a REST call to create a new object relation. The
relation must be permitted by an existing class relation.
*/
func (ore *objectRelationEndpoint) HandlePOST(w http.ResponseWriter, r *http.Request, resources []string) {

	if !checkResources(w, resources, 0, 0, "Can only create new object relations at the endpoint root") {
		return
	}

	var reldata model.ObjectRelation

	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(&reldata); err != nil {
		http.Error(w, "Could not decode request body as object relation: "+err.Error(), http.StatusBadRequest)
		return
	}

	rel, err := api.CM.StoreObjectRelation(reldata.ObjectLo, reldata.ObjectHi, reldata.ClassRelation)
	if err != nil {
		writeCatalogError(w, err)
		return
	}

	writeJSON(w, rel)
}

/*
HandlePUT handles a REST call to update an existing object relation.
*/
func (ore *objectRelationEndpoint) HandlePUT(w http.ResponseWriter, r *http.Request, resources []string) {

	if !checkResources(w, resources, 1, 1, "Need an object relation id") {
		return
	}

	id, ok := resourceID(w, resources[0], "object relation id")
	if !ok {
		return
	}

	var reldata model.ObjectRelation

	dec := json.NewDecoder(r.Body)

	if err := dec.Decode(&reldata); err != nil {
		http.Error(w, "Could not decode request body as object relation: "+err.Error(), http.StatusBadRequest)
		return
	}

	rel, err := api.CM.UpdateObjectRelation(id, reldata.ObjectLo, reldata.ObjectHi, reldata.ClassRelation)
	if err != nil {
		writeCatalogError(w, err)
		return
	}

	writeJSON(w, rel)
}

/*
HandleDELETE handles a REST call to remove an object relation.
*/
func (ore *objectRelationEndpoint) HandleDELETE(w http.ResponseWriter, r *http.Request, resources []string) {

	if !checkResources(w, resources, 1, 1, "Need an object relation id") {
		return
	}

	id, ok := resourceID(w, resources[0], "object relation id")
	if !ok {
		return
	}

	rel, err := api.CM.RemoveObjectRelation(id)
	if err != nil {
		writeCatalogError(w, err)
		return
	}

	writeJSON(w, rel)
}

/*
SwaggerDefs is used to describe the endpoint in swagger.
*/
func (ore *objectRelationEndpoint) SwaggerDefs(s map[string]interface{}) {

	idParams := []map[string]interface{}{
		{
			"name":        "id",
			"in":          "path",
			"description": "Id of the object relation.",
			"required":    true,
			"type":        "integer",
		},
	}

	s["paths"].(map[string]interface{})["/v1/objectrelation"] = map[string]interface{}{
		"get": map[string]interface{}{
			"summary":     "List all object relations.",
			"description": "Return all object relations of the catalog sorted by their id.",
			"produces": []string{
				"application/json",
			},
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "A list of object relations.",
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
			"summary":     "Create a new object relation.",
			"description": "Relate two objects. The relation must be permitted by a class relation.",
			"consumes": []string{
				"application/json",
			},
			"produces": []string{
				"application/json",
			},
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "The created object relation including its assigned id.",
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

	s["paths"].(map[string]interface{})["/v1/objectrelation/{id}"] = map[string]interface{}{
		"get": map[string]interface{}{
			"summary":     "Fetch an object relation.",
			"description": "Fetch a single object relation by its id.",
			"produces": []string{
				"application/json",
			},
			"parameters": idParams,
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "The requested object relation.",
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
			"summary":     "Update an object relation.",
			"description": "Update the endpoints or class relation of an existing object relation.",
			"consumes": []string{
				"application/json",
			},
			"produces": []string{
				"application/json",
			},
			"parameters": idParams,
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "The updated object relation.",
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
			"summary":     "Remove an object relation.",
			"description": "Remove a single object relation from the catalog.",
			"produces": []string{
				"application/json",
			},
			"parameters": idParams,
			"responses": map[string]interface{}{
				"200": map[string]interface{}{
					"description": "The removed object relation.",
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
