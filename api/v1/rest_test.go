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
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"devt.de/krotik/common/errorutil"
	"devt.de/krotik/common/fileutil"
	"devt.de/krotik/common/httputil"
	"devt.de/krotik/objecthub/api"
	"devt.de/krotik/objecthub/catalog"
	"devt.de/krotik/objecthub/catalog/storage"
	"devt.de/krotik/objecthub/catalog/util"
	"devt.de/krotik/objecthub/config"
	"devt.de/krotik/objecthub/ecal"
)

const TESTPORT = ":9091"

const testScriptDir = "testscripts"

func TestMain(m *testing.M) {
	flag.Parse()

	defer func() {
		if res, _ := fileutil.PathExists(testScriptDir); res {
			if err := os.RemoveAll(testScriptDir); err != nil {
				fmt.Print("Could not remove test directory:", err.Error())
			}
		}
	}()

	data := make(map[string]interface{})
	for k, v := range config.DefaultConfig {
		data[k] = v
	}

	config.Config = data

	config.Config[config.ECALScriptFolder] = testScriptDir

	if res, _ := fileutil.PathExists(testScriptDir); !res {
		errorutil.AssertOk(os.Mkdir(testScriptDir, 0770))
	}

	resetCatalog()

	hs, wg := startServer()
	if hs == nil {
		return
	}

	api.RegisterRestEndpoints(V1EndpointMap)
	api.RegisterRestEndpoints(api.GeneralEndpointMap)

	res := m.Run()

	stopServer(hs, wg)

	if res != 0 {
		os.Exit(res)
	}
}

/*
resetCatalog sets up a fresh catalog manager on a memory storage.
*/
func resetCatalog() {
	api.CS = storage.NewMemoryStorage("mystorage")
	api.CM = catalog.NewCatalogManager(api.CS)
}

/*
resetSI sets up a fresh scripting interpreter.
*/
func resetSI() {
	api.SI = ecal.NewScriptingInterpreter(testScriptDir, api.CM)
}

func TestCatalogErrorLogging(t *testing.T) {
	var logBuf bytes.Buffer

	LogError = func(v ...interface{}) {
		fmt.Fprint(&logBuf, v...)
	}
	defer func() { LogError = log.Print }()

	// Internal errors are logged at error severity

	w := httptest.NewRecorder()

	writeCatalogError(w, &util.CatalogError{Type: util.ErrInconsistentClosure,
		Detail: "Closure entry missing"})

	if w.Code != http.StatusInternalServerError {
		t.Error("Unexpected code:", w.Code)
		return
	}

	if logBuf.String() != "Internal error: CatalogError: Closure index is inconsistent (Closure entry missing)" {
		t.Error("Unexpected log output:", logBuf.String())
		return
	}

	logBuf.Reset()
	w = httptest.NewRecorder()

	writeCatalogError(w, &util.CatalogError{Type: util.ErrFlushing,
		Detail: "disk full"})

	if w.Code != http.StatusInternalServerError || logBuf.String() == "" {
		t.Error("Unexpected result:", w.Code, logBuf.String())
		return
	}

	// Client errors are not logged

	logBuf.Reset()
	w = httptest.NewRecorder()

	writeCatalogError(w, &util.CatalogError{Type: util.ErrNotFound,
		Detail: "Namespace 42"})

	if w.Code != http.StatusNotFound || logBuf.String() != "" {
		t.Error("Unexpected result:", w.Code, logBuf.String())
		return
	}
}

// Helper functions
// ================

/*
Send a request to a HTTP test server
*/
func sendTestRequest(url string, method string, content []byte) (string, http.Header, string) {
	var req *http.Request
	var err error

	if content != nil {
		req, err = http.NewRequest(method, url, bytes.NewBuffer(content))
	} else {
		req, err = http.NewRequest(method, url, nil)
	}

	if err != nil {
		panic(err)
	}

	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()

	body, _ := ioutil.ReadAll(resp.Body)
	bodyStr := strings.Trim(string(body), " \n")

	// Try json decoding first

	out := bytes.Buffer{}
	err = json.Indent(&out, []byte(bodyStr), "", "  ")
	if err == nil {
		return resp.Status, resp.Header, out.String()
	}

	// Just return the body

	return resp.Status, resp.Header, bodyStr
}

/*
formatJSONString formats a given JSON string.
*/
func formatJSONString(str string) string {
	out := bytes.Buffer{}
	errorutil.AssertOk(json.Indent(&out, []byte(str), "", "  "))
	return out.String()
}

/*
Start a HTTP test server.
*/
func startServer() (*httputil.HTTPServer, *sync.WaitGroup) {
	hs := &httputil.HTTPServer{}

	var wg sync.WaitGroup
	wg.Add(1)

	go hs.RunHTTPServer(TESTPORT, &wg)

	wg.Wait()

	// Server is started

	if hs.LastError != nil {
		panic(hs.LastError)
	}

	return hs, &wg
}

/*
Stop a started HTTP test server.
*/
func stopServer(hs *httputil.HTTPServer, wg *sync.WaitGroup) {

	if hs.Running == true {

		wg.Add(1)

		// Server is shut down

		hs.Shutdown()

		wg.Wait()

	} else {

		panic("Server was not running as expected")
	}
}
