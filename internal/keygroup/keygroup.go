// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package keygroup abstracts the Diffie-Hellman group used in the authenticated key exchange.
//
// The key exchange layer only manipulates fixed-length byte encodings of scalars and elements,
// so that prime-order elliptic curve groups and the x25519 function can be used interchangeably.
package keygroup

import (
	"errors"
)

var (
	// ErrPointDecode indicates that a byte string does not decode to a group element.
	ErrPointDecode = errors.New("could not decode element")

	// ErrIdentity indicates that a byte string decodes to the group's identity element.
	ErrIdentity = errors.New("the element is the identity element")

	// ErrInvalidKeypair indicates that a secret key is not a valid scalar for the group.
	ErrInvalidKeypair = errors.New("invalid keypair: secret key is not a valid scalar")

	// ErrDiffieHellman indicates a degenerate Diffie-Hellman output.
	ErrDiffieHellman = errors.New("Diffie-Hellman computation yielded a degenerate element")
)

// Group is the set of operations the key exchange requires from a Diffie-Hellman group.
// All byte string arguments and results use the group's fixed-length encodings.
type Group interface {
	// RandomScalar returns a uniformly random non-zero secret scalar.
	RandomScalar() []byte

	// DeriveScalar deterministically maps a seed to a secret scalar, domain separated by dst.
	DeriveScalar(seed, dst []byte) []byte

	// PublicKey returns the base point multiplied by the given secret scalar.
	PublicKey(secretKey []byte) ([]byte, error)

	// DiffieHellman returns the shared element between the secret scalar and the peer element.
	DiffieHellman(secretKey, element []byte) ([]byte, error)

	// DecodeElement verifies that the input is the canonical encoding of a valid,
	// non-identity group element, and returns it. The identity element is reported
	// as ErrIdentity, distinct from a generic decoding failure.
	DecodeElement(element []byte) ([]byte, error)

	// ScalarLength returns the byte length of encoded scalars.
	ScalarLength() int

	// ElementLength returns the byte length of encoded elements.
	ElementLength() int
}
