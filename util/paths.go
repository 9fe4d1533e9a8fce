// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"os"
	"path/filepath"
)

// EnsureAbsolute - relative paths are taken from directory
func EnsureAbsolute(directory string, filePath string) string {
	if "" == filePath {
		return ""
	}
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(directory, filePath)
	}
	return filepath.Clean(filePath)
}

// EnsureFileExists - true if the name can be stat'ed
func EnsureFileExists(name string) bool {
	_, err := os.Stat(name)
	return nil == err
}

// EnsureDirectories - create each directory and any missing parents
func EnsureDirectories(directories ...string) error {
	for _, d := range directories {
		if "" == d {
			continue
		}
		if err := os.MkdirAll(d, 0700); nil != err {
			return err
		}
	}
	return nil
}
