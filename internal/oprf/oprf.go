// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package oprf implements the base mode of the Elliptic Curve Oblivious Pseudorandom
// Function (EC-OPRF) from https://tools.ietf.org/html/draft-irtf-cfrg-voprf.
package oprf

import (
	"crypto"

	group "github.com/bytemare/crypto"

	"github.com/karol-bisztyga/opaque-ke/internal/encoding"
	"github.com/karol-bisztyga/opaque-ke/internal/tag"
)

// mode distinguishes between the OPRF base mode and the verifiable mode.
type mode byte

// base identifies the OPRF non-verifiable, base mode.
const base mode = iota

// Ciphersuite identifies the OPRF compatible cipher suite to be used.
type Ciphersuite group.Group

const (
	// RistrettoSha512 is the OPRF cipher suite of the Ristretto255 group and SHA-512.
	RistrettoSha512 = Ciphersuite(group.Ristretto255Sha512)

	// P256Sha256 is the OPRF cipher suite of the NIST P-256 group and SHA-256.
	P256Sha256 = Ciphersuite(group.P256Sha256)
)

var suiteToHash = map[Ciphersuite]crypto.Hash{
	RistrettoSha512: crypto.SHA512,
	P256Sha256:      crypto.SHA256,
}

// Available returns whether the identifier is a usable OPRF cipher suite.
func (c Ciphersuite) Available() bool {
	_, ok := suiteToHash[c]
	return ok
}

// Group returns the casted group identifier for the cipher suite.
func (c Ciphersuite) Group() group.Group {
	return group.Group(c)
}

// SerializePoint returns the fixed-length encoding of the element in the suite's group.
func (c Ciphersuite) SerializePoint(e *group.Element) []byte {
	return encoding.SerializePoint(e, c.Group())
}

// PointLength returns the byte length of encoded elements in the suite's group.
func (c Ciphersuite) PointLength() int {
	return encoding.PointLength[c.Group()]
}

func contextString(id Ciphersuite) []byte {
	v := []byte(tag.OPRFVersionPrefix)
	ctx := make([]byte, 0, len(v)+3)
	ctx = append(ctx, v...)
	ctx = append(ctx, encoding.I2OSP(int(base), 1)...)
	ctx = append(ctx, encoding.I2OSP(int(id), 2)...)

	return ctx
}

type oprf struct {
	Ciphersuite
	contextString []byte
}

func (o *oprf) dst(prefix string) []byte {
	p := []byte(prefix)
	dst := make([]byte, 0, len(p)+len(o.contextString))
	dst = append(dst, p...)
	dst = append(dst, o.contextString...)

	return dst
}

// DeriveKey returns a scalar in the suite's group mapped from the input seed.
func (c Ciphersuite) DeriveKey(seed, dst []byte) *group.Scalar {
	return c.Group().HashToScalar(seed, dst)
}

// Evaluate evaluates the blinded input with the given key.
func (c Ciphersuite) Evaluate(key *group.Scalar, blindedElement *group.Element) *group.Element {
	return blindedElement.Copy().Multiply(key)
}

// Client returns an OPRF client for the cipher suite.
func (c Ciphersuite) Client() *Client {
	return &Client{
		oprf: &oprf{
			Ciphersuite:   c,
			contextString: contextString(c),
		},
	}
}
