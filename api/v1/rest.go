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
	"log"
	"net/http"
	"strconv"
	"strings"

	"devt.de/krotik/objecthub/api"
	"devt.de/krotik/objecthub/catalog/util"
)

/*
LogError is a logger which is used to log internal errors which surface
in the REST API (can be deactivated for testing)
*/
var LogError = log.Print

/*
APIv1 is the directory for version 1 of the API
*/
const APIv1 = "/v1"

/*
HTTPHeaderTotalCount is a special header value containing the total count of objects.
*/
const HTTPHeaderTotalCount = "X-Total-Count"

/*
V1EndpointMap is a map of urls to endpoints for version 1 of the API
*/
var V1EndpointMap = map[string]api.RestEndpointInst{
	EndpointNamespace:      NamespaceEndpointInst,
	EndpointClass:          ClassEndpointInst,
	EndpointObject:         ObjectEndpointInst,
	EndpointClassRelation:  ClassRelationEndpointInst,
	EndpointObjectRelation: ObjectRelationEndpointInst,
	EndpointLinked:         LinkedEndpointInst,
	EndpointECALSock:       ECALSockEndpointInst,
}

// Helper functions
// ================

/*
checkResources check given resources for a GET request.
*/
func checkResources(w http.ResponseWriter, resources []string, requiredMin int, requiredMax int, errorMsg string) bool {
	if len(resources) < requiredMin {
		http.Error(w, errorMsg, http.StatusBadRequest)
		return false
	} else if len(resources) > requiredMax {
		http.Error(w, "Invalid resource specification: "+strings.Join(resources[1:], "/"), http.StatusBadRequest)
		return false
	}
	return true
}

/*
Extract a positive number from a query parameter. Returns -1 and true
if the parameter was not given.
*/
func queryParamPosNum(w http.ResponseWriter, r *http.Request, param string) (int, bool) {

	val := r.URL.Query().Get(param)

	if val == "" {
		return -1, true
	}

	num, err := strconv.Atoi(val)

	if err != nil || num < 0 {
		http.Error(w, "Invalid parameter value: "+param+" should be a positive integer number", http.StatusBadRequest)
		return -1, false
	}

	return num, true
}

/*
Extract an entity id from a given resource string.
*/
func resourceID(w http.ResponseWriter, resource string, name string) (uint64, bool) {
	id, err := strconv.ParseUint(resource, 10, 64)

	if err != nil {
		http.Error(w, "Invalid "+name+": "+resource, http.StatusBadRequest)
		return 0, false
	}

	return id, true
}

/*
writeCatalogError writes a catalog error with the right HTTP status code.
*/
func writeCatalogError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError

	if ce, ok := err.(*util.CatalogError); ok {

		switch ce.Type {

		case util.ErrNotFound:
			code = http.StatusNotFound

		case util.ErrDuplicate, util.ErrDuplicateRelation:
			code = http.StatusConflict

		case util.ErrInvalidData, util.ErrInvalidRelation, util.ErrSelfRelation,
			util.ErrSameClass, util.ErrClassMismatch:
			code = http.StatusBadRequest
		}
	}

	// Closure inconsistencies and storage failures surface as internal
	// errors and are logged

	if code == http.StatusInternalServerError {
		LogError("Internal error: ", err)
	}

	http.Error(w, err.Error(), code)
}

/*
writeJSON writes a given object as a JSON response.
*/
func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("content-type", "application/json; charset=utf-8")

	ret := json.NewEncoder(w)
	ret.Encode(data)
}
