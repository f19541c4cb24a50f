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
ObjectHub is a catalog server for schema-flexible objects which are connected
through a relation graph.

Features:

- Objects are grouped into classes and namespaces. Their data payload is
semi-structured - classes may carry an optional JSON schema document.

- Classes can be related to each other. Object relations are validated
against the class relations and a transitive closure index over the class
graph.

- Objects which are transitively linked can be discovered through a
reachability query which respects namespace visibility.

- Data can be stored in memory or on disk.

- The server provides a REST API with optional user authentication and
group based access control.

- Catalog events can be handled by ECAL scripts.
*/
package main

import (
	"flag"
	"fmt"
	"os"

	"devt.de/krotik/objecthub/catalog"
	"devt.de/krotik/objecthub/config"
	"devt.de/krotik/objecthub/server"
)

func main() {

	// Initialize the default command line parser

	flag.CommandLine.Init(os.Args[0], flag.ContinueOnError)

	// Define default usage message

	flag.Usage = func() {

		// Print usage for tool selection

		fmt.Println(fmt.Sprintf("Usage of %s <tool>", os.Args[0]))
		fmt.Println()
		fmt.Println("ObjectHub object catalog server")
		fmt.Println()
		fmt.Println("Available commands:")
		fmt.Println()
		fmt.Println("    server    Start ObjectHub server")
		fmt.Println()
		fmt.Println(fmt.Sprintf("Use %s <command> -help for more information about a given command.", os.Args[0]))
		fmt.Println()
	}

	// Parse the command bit

	err := flag.CommandLine.Parse(os.Args[1:])

	if len(flag.Args()) > 0 {

		arg := flag.Args()[0]

		if arg == "server" {
			config.LoadConfigFile(config.DefaultConfigFile)
			server.StartServerWithSingleOp(handleServerCommandLine)
		} else {
			flag.Usage()
		}

	} else if err == nil {

		flag.Usage()
	}
}

/*
handleServerCommandLine handles all command line options for the server
*/
func handleServerCommandLine(cm *catalog.Manager) bool {
	var err error

	importDb := flag.String("import", "", "Import a catalog from a JSON file")
	exportDb := flag.String("export", "", "Export the current catalog to a JSON file")

	noServ := flag.Bool("no-serv", false, "Do not start the server after initialization")

	showHelp := flag.Bool("help", false, "Show this help message")

	flag.Usage = func() {
		fmt.Println()
		fmt.Println(fmt.Sprintf("Usage of %s server [options]", os.Args[0]))
		fmt.Println()
		flag.PrintDefaults()
		fmt.Println()
	}

	flag.CommandLine.Parse(os.Args[2:])

	if *showHelp {
		flag.Usage()
		return true
	}

	if *importDb != "" {
		var file *os.File

		fmt.Println("Importing from:", *importDb)

		if file, err = os.Open(*importDb); err == nil {
			defer file.Close()

			err = catalog.ImportCatalog(file, cm)
		}
	}

	if *exportDb != "" {
		var file *os.File

		fmt.Println("Exporting to:", *exportDb)

		if file, err = os.Create(*exportDb); err == nil {
			defer file.Close()

			err = catalog.ExportCatalog(file, cm)
		}
	}

	if err != nil {
		fmt.Println(err.Error())
		return true
	}

	return *noServ
}
