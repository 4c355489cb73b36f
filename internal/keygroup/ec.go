// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package keygroup

import (
	"crypto/subtle"
	"fmt"

	group "github.com/bytemare/crypto"

	"github.com/karol-bisztyga/opaque-ke/internal/encoding"
)

// EC implements Group over a prime-order elliptic curve group.
type EC struct {
	group group.Group
}

// NewEC returns a Group over the given prime-order group.
func NewEC(g group.Group) *EC {
	return &EC{group: g}
}

// RandomScalar returns a uniformly random non-zero secret scalar.
func (c *EC) RandomScalar() []byte {
	for {
		s := c.group.NewScalar().Random()
		if !s.IsZero() {
			return encoding.SerializeScalar(s, c.group)
		}
	}
}

// DeriveScalar deterministically maps a seed to a secret scalar, domain separated by dst.
func (c *EC) DeriveScalar(seed, dst []byte) []byte {
	return encoding.SerializeScalar(c.group.HashToScalar(seed, dst), c.group)
}

func (c *EC) decodeScalar(secretKey []byte) (*group.Scalar, error) {
	if err := encoding.CheckSize(secretKey, c.ScalarLength(), "secret key"); err != nil {
		return nil, err
	}

	s := c.group.NewScalar()
	if err := s.Decode(secretKey); err != nil || s.IsZero() {
		return nil, ErrInvalidKeypair
	}

	return s, nil
}

// PublicKey returns the base point multiplied by the given secret scalar.
func (c *EC) PublicKey(secretKey []byte) ([]byte, error) {
	s, err := c.decodeScalar(secretKey)
	if err != nil {
		return nil, err
	}

	return encoding.SerializePoint(c.group.Base().Multiply(s), c.group), nil
}

// DiffieHellman returns the shared element between the secret scalar and the peer element.
func (c *EC) DiffieHellman(secretKey, element []byte) ([]byte, error) {
	s, err := c.decodeScalar(secretKey)
	if err != nil {
		return nil, err
	}

	e := c.group.NewElement()
	if err := e.Decode(element); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPointDecode, err)
	}

	k := e.Multiply(s)
	if k.IsIdentity() {
		return nil, ErrDiffieHellman
	}

	return encoding.SerializePoint(k, c.group), nil
}

// DecodeElement verifies that the input is the canonical encoding of a valid, non-identity group element.
func (c *EC) DecodeElement(element []byte) ([]byte, error) {
	if err := encoding.CheckSize(element, c.ElementLength(), "element"); err != nil {
		return nil, err
	}

	// All-zero input is the canonical identity encoding in some groups, and invalid in others.
	if subtle.ConstantTimeCompare(element, make([]byte, len(element))) == 1 {
		return nil, ErrIdentity
	}

	e := c.group.NewElement()
	if err := e.Decode(element); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPointDecode, err)
	}

	if e.IsIdentity() {
		return nil, ErrIdentity
	}

	return encoding.SerializePoint(e, c.group), nil
}

// ScalarLength returns the byte length of encoded scalars.
func (c *EC) ScalarLength() int {
	return encoding.ScalarLength[c.group]
}

// ElementLength returns the byte length of encoded elements.
func (c *EC) ElementLength() int {
	return encoding.PointLength[c.group]
}
