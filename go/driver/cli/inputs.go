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
	"os"
	"path/filepath"
	"strings"
)

// EnumerateInputs lists the given files and all trace files in the given
// directories (recursively). Files named explicitly are listed regardless of
// their extension; files found in directories must end in ".json". The
// order of the inputs is preserved, directory entries are listed by name.
func EnumerateInputs(inputs []string) ([]string, error) {
	var inputFiles []string

	for _, input := range inputs {
		path, err := filepath.Abs(input)
		if err != nil {
			return nil, err
		}

		stat, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !stat.IsDir() {
			inputFiles = append(inputFiles, path)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}

		for _, entry := range entries {
			filePath := filepath.Join(path, entry.Name())
			if entry.IsDir() {
				recInputs, err := EnumerateInputs([]string{filePath})
				if err != nil {
					return nil, err
				}
				inputFiles = append(inputFiles, recInputs...)
			} else if strings.HasSuffix(entry.Name(), ".json") {
				inputFiles = append(inputFiles, filePath)
			}
		}
	}

	return inputFiles, nil
}
