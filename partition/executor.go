/*
 * EliasDB
 *
 * Copyright 2016 Matthias Ladkau. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package partition runs compiled queries over partitioned input data.

If a query is parallelizable for its input variable every partition is
evaluated by its own run of the query. Runs are executed concurrently by a
bounded number of workers. The results are concatenated in partition order.
Queries which are not parallelizable are run once over the concatenation of
all partitions.
*/
package partition

import (
	"context"
	"fmt"
	"time"

	"devt.de/krotik/common/datautil"
	"devt.de/krotik/common/logutil"
	"devt.de/krotik/jsoniqdb/config"
	"devt.de/krotik/jsoniqdb/item"
	"devt.de/krotik/jsoniqdb/jsoniq"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

/*
logger is the logger of this package
*/
var logger = logutil.GetLogger("jsoniq.partition")

/*
Executor runs queries over partitioned input.
*/
type Executor struct {
	Workers int                  // Maximum number of concurrent runs
	log     *datautil.RingBuffer // Log of recent executions
}

/*
NewExecutor creates a new executor. The log keeps the given number of
recent lines.
*/
func NewExecutor(workers int, logHistory int) *Executor {
	if workers < 1 {
		workers = 1
	}
	return &Executor{workers, datautil.NewRingBuffer(logHistory)}
}

/*
NewDefaultExecutor creates a new executor with the configured settings.
*/
func NewDefaultExecutor() *Executor {
	return NewExecutor(int(config.Int(config.PartitionWorkers)),
		int(config.Int(config.PartitionLogHistory)))
}

/*
Log returns the recent log lines of this executor.
*/
func (e *Executor) Log() []string {
	return e.log.StringSlice()
}

/*
Run evaluates a query with an input variable bound to partitioned data.
*/
func (e *Executor) Run(q *jsoniq.Query, inputVar item.Name, partitions []item.Sequence) (item.Sequence, error) {
	var res item.Sequence

	start := time.Now()

	if !q.Parallelizable(inputVar) {
		var all item.Sequence

		for _, p := range partitions {
			all = append(all, p...)
		}

		e.log.Log(fmt.Sprintf("%v: sequential run over %v partitions", q.Name, len(partitions)))

		return q.Run(map[item.Name]item.Sequence{inputVar: all}, nil)
	}

	results, err := e.runPartitions(q, inputVar, partitions)

	if err != nil {
		e.log.Log(fmt.Sprintf("%v: failed: %v", q.Name, err))
		logger.Error(fmt.Sprintf("Partitioned run of %v failed: %v", q.Name, err))
		return nil, err
	}

	for _, r := range results {
		res = append(res, r...)
	}

	e.log.Log(fmt.Sprintf("%v: %v partitions produced %v items in %v", q.Name,
		len(partitions), len(res), time.Since(start)))

	if res == nil {
		res = item.Sequence{}
	}

	return res, nil
}

/*
runPartitions evaluates every partition with its own run of the query. The
first failure cancels all runs which have not started yet.
*/
func (e *Executor) runPartitions(q *jsoniq.Query, inputVar item.Name,
	partitions []item.Sequence) ([]item.Sequence, error) {

	results := make([]item.Sequence, len(partitions))
	sem := semaphore.NewWeighted(int64(e.Workers))
	g, ctx := errgroup.WithContext(context.Background())

	for i, p := range partitions {
		i, p := i, p

		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}

		g.Go(func() error {
			defer sem.Release(1)

			if err := ctx.Err(); err != nil {
				return err
			}

			res, err := q.Run(map[item.Name]item.Sequence{inputVar: p}, nil)
			if err != nil {
				return fmt.Errorf("partition %v: %w", i, err)
			}

			logger.Debug(fmt.Sprintf("%v: partition %v produced %v items", q.Name, i, len(res)))

			results[i] = res

			return nil
		})
	}

	return results, g.Wait()
}
