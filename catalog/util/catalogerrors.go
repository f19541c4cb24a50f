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
Package util contains utility classes for the catalog.

CatalogError

Models a catalog related error. Low-level errors should be wrapped in a
CatalogError before they are returned to a client.
*/
package util

import (
	"errors"
	"fmt"
)

/*
CatalogError is a catalog related error
*/
type CatalogError struct {
	Type   error  // Error type (to be used for equal checks)
	Detail string // Details of this error
}

/*
Error returns a human-readable string representation of this error.
*/
func (ce *CatalogError) Error() string {
	if ce.Detail != "" {
		return fmt.Sprintf("CatalogError: %v (%v)", ce.Type, ce.Detail)
	}

	return fmt.Sprintf("CatalogError: %v", ce.Type)
}

/*
Catalog storage related error types
*/
var (
	ErrOpening  = errors.New("Failed to open catalog storage")
	ErrFlushing = errors.New("Failed to flush changes")
	ErrRollback = errors.New("Failed to rollback changes")
	ErrClosing  = errors.New("Failed to close catalog storage")
	ErrReadOnly = errors.New("Failed write to readonly storage")
)

/*
Catalog related error types
*/
var (
	ErrInvalidData = errors.New("Invalid data")
	ErrReading     = errors.New("Could not read catalog information")
	ErrWriting     = errors.New("Could not write catalog information")
	ErrRule        = errors.New("Catalog rule error")
	ErrNotFound    = errors.New("Entity not found")
	ErrDuplicate   = errors.New("Entity exists already")
)

/*
Relation related error types
*/
var (
	ErrInvalidRelation     = errors.New("Relation endpoints are invalid")
	ErrDuplicateRelation   = errors.New("Relation exists already")
	ErrSelfRelation        = errors.New("Relation endpoints are the same object")
	ErrSameClass           = errors.New("Relation endpoints are of the same class")
	ErrClassMismatch       = errors.New("No class relation for the endpoint classes")
	ErrInconsistentClosure = errors.New("Closure index is inconsistent")
)
