// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package keygroup

import (
	cryptorand "crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/hkdf"

	"github.com/karol-bisztyga/opaque-ke/internal/encoding"
)

// X25519 implements Group over the Curve25519 Montgomery curve.
//
// Scalars are 32-byte strings clamped by the x25519 function itself. Any 32-byte string is
// a valid element encoding; the all-zero string is the identity.
type X25519 struct{}

// NewX25519 returns a Group over the x25519 function.
func NewX25519() *X25519 {
	return &X25519{}
}

func isZero(b []byte) bool {
	return subtle.ConstantTimeCompare(b, make([]byte, len(b))) == 1
}

// RandomScalar returns a uniformly random non-zero secret scalar.
func (c *X25519) RandomScalar() []byte {
	s := make([]byte, curve25519.ScalarSize)

	for {
		if _, err := cryptorand.Read(s); err != nil {
			panic(fmt.Errorf("unexpected error in generating random bytes : %w", err))
		}

		if !isZero(s) {
			return s
		}
	}
}

// DeriveScalar deterministically maps a seed to a secret scalar, domain separated by dst.
func (c *X25519) DeriveScalar(seed, dst []byte) []byte {
	s := make([]byte, curve25519.ScalarSize)
	if _, err := hkdf.Expand(sha512.New, seed, dst).Read(s); err != nil {
		panic(fmt.Errorf("unexpected HKDF error : %w", err))
	}

	return s
}

// PublicKey returns the base point multiplied by the given secret scalar.
func (c *X25519) PublicKey(secretKey []byte) ([]byte, error) {
	if err := encoding.CheckSize(secretKey, curve25519.ScalarSize, "secret key"); err != nil {
		return nil, err
	}

	if isZero(secretKey) {
		return nil, ErrInvalidKeypair
	}

	pk, err := curve25519.X25519(secretKey, curve25519.Basepoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKeypair, err)
	}

	return pk, nil
}

// DiffieHellman returns the shared element between the secret scalar and the peer element.
func (c *X25519) DiffieHellman(secretKey, element []byte) ([]byte, error) {
	if err := encoding.CheckSize(secretKey, curve25519.ScalarSize, "secret key"); err != nil {
		return nil, err
	}

	if err := encoding.CheckSize(element, curve25519.PointSize, "element"); err != nil {
		return nil, err
	}

	// X25519 rejects the all-zero shared output produced by low-order elements.
	k, err := curve25519.X25519(secretKey, element)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDiffieHellman, err)
	}

	return k, nil
}

// DecodeElement verifies the input's length and that it is not the identity element.
// Any other 32-byte string is a valid x25519 element.
func (c *X25519) DecodeElement(element []byte) ([]byte, error) {
	if err := encoding.CheckSize(element, curve25519.PointSize, "element"); err != nil {
		return nil, err
	}

	if isZero(element) {
		return nil, ErrIdentity
	}

	out := make([]byte, curve25519.PointSize)
	copy(out, element)

	return out, nil
}

// ScalarLength returns the byte length of encoded scalars.
func (c *X25519) ScalarLength() int {
	return curve25519.ScalarSize
}

// ElementLength returns the byte length of encoded elements.
func (c *X25519) ElementLength() int {
	return curve25519.PointSize
}
