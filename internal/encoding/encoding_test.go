// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package encoding_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/karol-bisztyga/opaque-ke/internal/encoding"
)

func TestI2OSP(t *testing.T) {
	tests := []struct {
		expected []byte
		value    int
		length   int
	}{
		{expected: []byte{0}, value: 0, length: 1},
		{expected: []byte{255}, value: 255, length: 1},
		{expected: []byte{1, 0}, value: 256, length: 2},
		{expected: []byte{0, 42}, value: 42, length: 2},
		{expected: []byte{0xff, 0xff}, value: 65535, length: 2},
	}

	for _, test := range tests {
		if out := encoding.I2OSP(test.value, test.length); !bytes.Equal(out, test.expected) {
			t.Errorf("I2OSP(%d, %d) = %v, want %v", test.value, test.length, out, test.expected)
		}

		if back := encoding.OS2IP(test.expected); back != test.value {
			t.Errorf("OS2IP(%v) = %d, want %d", test.expected, back, test.value)
		}
	}
}

func TestI2OSP_Panics(t *testing.T) {
	tests := []struct {
		name   string
		value  int
		length int
	}{
		{name: "negative value", value: -1, length: 2},
		{name: "zero length", value: 1, length: 0},
		{name: "value overflows length", value: 256, length: 1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t2 *testing.T) {
			defer func() {
				if recover() == nil {
					t2.Error("expected panic")
				}
			}()

			_ = encoding.I2OSP(test.value, test.length)
		})
	}
}

func TestVectorRoundTrip(t *testing.T) {
	for _, in := range [][]byte{nil, {}, []byte("a"), []byte("some longer input")} {
		encoded := encoding.EncodeVector(in)

		out, offset, err := encoding.DecodeVector(encoded)
		if err != nil {
			t.Fatalf("%v", err)
		}

		if offset != len(encoded) {
			t.Errorf("offset = %d, want %d", offset, len(encoded))
		}

		if !bytes.Equal(out, in) {
			t.Errorf("decoded %v, want %v", out, in)
		}
	}
}

func TestDecodeVector_Short(t *testing.T) {
	if _, _, err := encoding.DecodeVector([]byte{1}); err == nil {
		t.Error("expected error on missing header")
	}

	// Header announces more data than present.
	if _, _, err := encoding.DecodeVector([]byte{0, 5, 1, 2}); err == nil {
		t.Error("expected error on truncated data")
	}
}

func TestCheckSize(t *testing.T) {
	if err := encoding.CheckSize([]byte{1, 2, 3}, 3, "input"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := encoding.CheckSize([]byte{1, 2, 3}, 4, "input")
	if err == nil {
		t.Fatal("expected error")
	}

	var sizeErr *encoding.SizeError
	if !errors.As(err, &sizeErr) {
		t.Fatal("expected a SizeError")
	}

	if sizeErr.Expected != 4 || sizeErr.Actual != 3 || sizeErr.Name != "input" {
		t.Errorf("unexpected SizeError: %+v", sizeErr)
	}
}
