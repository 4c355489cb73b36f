// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package encoding

import "fmt"

// SizeError reports a byte string of unexpected length.
type SizeError struct {
	Name     string
	Expected int
	Actual   int
}

// Error implements the error interface.
func (e *SizeError) Error() string {
	return fmt.Sprintf("invalid length for %s: expected %d, got %d", e.Name, e.Expected, e.Actual)
}

// CheckSize returns a SizeError if the input is not of the expected length.
func CheckSize(input []byte, expected int, name string) error {
	if len(input) != expected {
		return &SizeError{Name: name, Expected: expected, Actual: len(input)}
	}

	return nil
}
