// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package encoding provides encoding utilities.
package encoding

import "errors"

// EncodeVectorLen returns the input prepended with its length encoded on the given amount of bytes.
func EncodeVectorLen(input []byte, length int) []byte {
	return append(I2OSP(len(input), length), input...)
}

// EncodeVector returns the input prepended with its two-byte length encoding.
func EncodeVector(input []byte) []byte {
	return EncodeVectorLen(input, 2)
}

// Concat returns the concatenation of the two inputs.
func Concat(a, b []byte) []byte {
	e := make([]byte, 0, len(a)+len(b))
	e = append(e, a...)
	e = append(e, b...)

	return e
}

// Concat3 returns the concatenation of the three inputs.
func Concat3(a, b, c []byte) []byte {
	e := make([]byte, 0, len(a)+len(b)+len(c))
	e = append(e, a...)
	e = append(e, b...)
	e = append(e, c...)

	return e
}

// Concatenate takes the variadic array of input and returns a concatenation of it.
func Concatenate(input ...[]byte) []byte {
	length := 0
	for _, b := range input {
		length += len(b)
	}

	buf := make([]byte, 0, length)

	for _, in := range input {
		buf = append(buf, in...)
	}

	return buf
}

// DecodeVector decodes a 2-byte length-prefixed byte string and returns its content,
// the total number of bytes consumed, and an error if the input is too short.
func DecodeVector(input []byte) (data []byte, offset int, err error) {
	if len(input) < 2 {
		return nil, 0, errors.New("insufficient header length for decoding")
	}

	dataLen := OS2IP(input[:2])
	offset = 2 + dataLen

	if len(input) < offset {
		return nil, 0, errors.New("insufficient total length for decoding")
	}

	return input[2:offset], offset, nil
}

// SuffixString returns the concatenation of the input byte string and the string argument.
func SuffixString(a []byte, b string) []byte {
	e := make([]byte, 0, len(a)+len(b))
	e = append(e, a...)
	e = append(e, b...)

	return e
}
