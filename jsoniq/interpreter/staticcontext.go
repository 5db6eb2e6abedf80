/*
 * EliasDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package interpreter

import (
	"fmt"
	"sync/atomic"

	"devt.de/krotik/jsoniqdb/item"
	"devt.de/krotik/jsoniqdb/jsoniq/ast"
)

/*
Cardinality is the statically known number of items an operator produces
*/
type Cardinality int

/*
Known cardinalities
*/
const (
	CardinalityMany Cardinality = iota
	CardinalityAtMostOne
)

/*
ExecutionMode records if a loop construct may be fanned out over
independent evaluations.
*/
type ExecutionMode int

/*
Known execution modes
*/
const (
	ModeLocal ExecutionMode = iota
	ModeParallel
)

/*
String returns a string representation of the execution mode.
*/
func (m ExecutionMode) String() string {
	if m == ModeParallel {
		return "parallel"
	}
	return "local"
}

/*
staticIDCounter hands out unique operator IDs
*/
var staticIDCounter int64

/*
StaticContext holds the compile time information of an operator.
*/
type StaticContext struct {
	ID          int           // Handle of the operator in per-evaluation tables
	Name        string        // Name of the operator
	Var         item.Name     // Declared variable (if any)
	Cardinality Cardinality   // Statically known cardinality
	Mode        ExecutionMode // Execution mode of loop constructs
	Meta        ast.Metadata  // Source location of the operator
}

/*
NewStaticContext creates a new static context with a unique ID.
*/
func NewStaticContext(name string, meta ast.Metadata) *StaticContext {
	id := atomic.AddInt64(&staticIDCounter, 1)
	return &StaticContext{int(id), name, item.Name{}, CardinalityMany, ModeParallel, meta}
}

/*
String returns a string representation of this static context.
*/
func (sc *StaticContext) String() string {
	return fmt.Sprintf("%v#%v (%v)", sc.Name, sc.ID, sc.Meta)
}
