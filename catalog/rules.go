/*
 * ObjectHub
 *
 * Copyright 2021 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package catalog

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"devt.de/krotik/objecthub/catalog/model"
	"devt.de/krotik/objecthub/catalog/util"
)

/*
ErrEventHandled is a special error which can be returned by a rule to
indicate that it has handled an event. For pre events this aborts the
running operation without raising an error.
*/
var ErrEventHandled = errors.New("Event was handled")

/*
catalogRulesManager data structure
*/
type catalogRulesManager struct {
	cm       *Manager                // CatalogManager which provides events
	rules    map[string]Rule         // Map of catalog rules
	eventMap map[int]map[string]Rule // Map of events to catalog rules
}

/*
Rule models a catalog rule.
*/
type Rule interface {

	/*
	   Name returns the name of the rule.
	*/
	Name() string

	/*
		Handles returns a list of events which are handled by this rule.
	*/
	Handles() []int

	/*
		Handle handles an event. The given manager is a clone which can be
		used for further catalog operations.
	*/
	Handle(cm *Manager, event int, data ...interface{}) error
}

/*
catalogEvent main event handler which receives all catalog related events.
*/
func (cr *catalogRulesManager) catalogEvent(event int, data ...interface{}) error {
	var result error
	var errs []string

	rules, ok := cr.eventMap[event]

	handled := false // Flag to return a special handled error if no other error occured

	if ok {

		for _, rule := range rules {

			// Create a CatalogManager clone which has its own mutexes so
			// rules can use the normal manager API

			cmclone := cr.cloneCatalogManager()

			// Handle the event

			err := rule.Handle(cmclone, event, data...)

			if err != nil {
				if err == ErrEventHandled {
					handled = true
				} else {
					if errs == nil {
						errs = make([]string, 0)
					}
					errs = append(errs, err.Error())
				}
			}
		}
	}

	if errs != nil {
		return &util.CatalogError{Type: util.ErrRule, Detail: strings.Join(errs, ";")}
	}

	if handled {
		result = ErrEventHandled
	}

	return result
}

/*
Clone a given catalog manager and insert new mutexes.
*/
func (cr *catalogRulesManager) cloneCatalogManager() *Manager {
	return &Manager{cr.cm.cs, cr, &sync.RWMutex{}, &sync.Mutex{}}
}

/*
SetCatalogRule sets a catalog rule.
*/
func (cr *catalogRulesManager) SetCatalogRule(rule Rule) {
	cr.rules[rule.Name()] = rule

	for _, handledEvent := range rule.Handles() {

		rules, ok := cr.eventMap[handledEvent]
		if !ok {
			rules = make(map[string]Rule)
			cr.eventMap[handledEvent] = rules
		}

		rules[rule.Name()] = rule
	}
}

/*
CatalogRules returns a list of all available catalog rules.
*/
func (cr *catalogRulesManager) CatalogRules() []string {
	ret := make([]string, 0, len(cr.rules))

	for rule := range cr.rules {
		ret = append(ret, rule)
	}

	sort.StringSlice(ret).Sort()

	return ret
}

// System rule SystemRuleCleanupRelations
// ======================================

/*
SystemRuleCleanupRelations is a system rule to remove all object relations
which lost their schema support after class relations or classes were
deleted. The rule runs one global sweep per deletion batch: an object
relation is removed if one of its endpoint objects is gone or if the
closure index no longer connects the classes of its endpoints.
*/
type SystemRuleCleanupRelations struct {
}

/*
Name returns the name of the rule.
*/
func (r *SystemRuleCleanupRelations) Name() string {
	return "system.cleanuprelations"
}

/*
Handles returns a list of events which are handled by this rule.
*/
func (r *SystemRuleCleanupRelations) Handles() []int {
	return []int{EventClassRelationDeleted, EventClassDeleted,
		EventNamespaceDeleted}
}

/*
Handle handles an event.
*/
func (r *SystemRuleCleanupRelations) Handle(cm *Manager, event int, ed ...interface{}) error {
	return cm.sweepObjectRelations()
}

/*
sweepObjectRelations removes all object relations which are no longer
supported by the closure index.
*/
func (cm *Manager) sweepObjectRelations() error {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()

	relTable := cm.table(TableObjectRels)
	closureTable := cm.table(TableClosure)

	var stale []*model.ObjectRelation

	for key, val := range relTable.Data() {

		if !strings.HasPrefix(key, PrefixEntity) {
			continue
		}

		rel := val.(*model.ObjectRelation)

		keep := false

		objLo := cm.object(rel.ObjectLo)
		objHi := cm.object(rel.ObjectHi)

		if objLo != nil && objHi != nil {
			lo, hi := canonicalize(objLo.Class, objHi.Class)

			_, keep = closureTable.Data()[pairKey(lo, hi)]
		}

		if !keep {
			stale = append(stale, rel)
		}
	}

	for _, rel := range stale {
		cm.removeObjectRelation(rel)
	}

	if len(stale) > 0 {

		if err := cm.flushStorage(TableObjectRels); err != nil {
			return err
		}

		for _, rel := range stale {
			if err := cm.cr.catalogEvent(EventObjectRelationDeleted, rel); err != nil && err != ErrEventHandled {
				return err
			}
		}
	}

	return nil
}
