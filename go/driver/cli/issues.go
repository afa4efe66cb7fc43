// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package cliUtils

import (
	"fmt"
	"io"
	"sort"
	"sync"
)

type issue struct {
	input string
	err   error
}

func (i *issue) Error() error {
	return i.err
}

// Input is the path of the trace file the issue was found in.
func (i *issue) Input() string {
	return i.input
}

type IssuesCollector struct {
	issues []issue
	mu     sync.Mutex
}

func (c *IssuesCollector) AddIssue(input string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issues = append(c.issues, issue{input, err})
}

func (c *IssuesCollector) NumIssues() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.issues)
}

func (c *IssuesCollector) GetIssues() []issue {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]issue{}, c.issues...)
}

// PrintIssues writes all collected issues, ordered by input, to the given
// writer.
func (c *IssuesCollector) PrintIssues(out io.Writer) {
	issues := c.GetIssues()
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].input < issues[j].input })
	for _, issue := range issues {
		fmt.Fprintf(out, "----------------------------\n")
		fmt.Fprintf(out, "%s\n", issue.input)
		fmt.Fprintf(out, "%v\n", issue.err)
	}
}
