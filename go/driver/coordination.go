// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"sync"
	"sync/atomic"
	"time"
)

// forEachInput runs the given operation on all inputs using numJobs
// goroutines. The operation reports the number of steps it processed and
// whether processing should be aborted. Progress is reported periodically
// through the given print function, with rates measured in steps.
func forEachInput(
	inputs []string,
	opFunction func(input string) (steps int, abort bool),
	printProgress func(relativeTime time.Duration, rate float64, current int64),
	numJobs int,
) {
	var stepCounter atomic.Int64
	var abort atomic.Bool

	done := make(chan bool)
	printerDone := make(chan bool)
	go func() {
		defer close(printerDone)
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		startTime := time.Now()
		lastTime := startTime
		lastCounter := int64(0)

		checkTimingAndPrint := func(now time.Time) {
			cur := stepCounter.Load()

			diffCounter := cur - lastCounter
			diffTime := now.Sub(lastTime)

			lastTime = now
			lastCounter = cur

			rate := 0.0
			if diffTime > 0 {
				rate = float64(diffCounter) / diffTime.Seconds()
			}
			printProgress(now.Sub(startTime), rate, cur)
		}

		for {
			select {
			case <-done:
				checkTimingAndPrint(time.Now())
				return
			case now := <-ticker.C:
				checkTimingAndPrint(now)
			}
		}
	}()

	var waitGroup sync.WaitGroup
	waitGroup.Add(numJobs)
	inputChannel := make(chan string, 10*numJobs)
	for i := 0; i < numJobs; i++ {
		go func() {
			defer waitGroup.Done()
			for input := range inputChannel {
				if abort.Load() {
					continue // < drain the channel
				}
				steps, stop := opFunction(input)
				stepCounter.Add(int64(steps))
				if stop {
					abort.Store(true)
				}
			}
		}()
	}

	for _, input := range inputs {
		inputChannel <- input
	}
	close(inputChannel)
	waitGroup.Wait()

	close(done)   // < signals progress printer to stop
	<-printerDone // < blocks until channel is closed by progress printer
}
