// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package oprf

import (
	"errors"

	group "github.com/bytemare/crypto"

	"github.com/karol-bisztyga/opaque-ke/internal/encoding"
	"github.com/karol-bisztyga/opaque-ke/internal/tag"
)

// ErrReflected indicates that the server echoed the client's own blinded element back
// as the evaluation, which would allow a dishonest server to test passwords offline.
var ErrReflected = errors.New("the evaluation is the client's own blinded element")

// Client implements the OPRF client and holds its state.
type Client struct {
	*oprf
	input   []byte
	blind   *group.Scalar
	blinded *group.Element
}

// SetBlind allows to set the blinding scalar to use.
func (c *Client) SetBlind(blind *group.Scalar) {
	c.blind = blind
}

// Blind masks the input.
func (c *Client) Blind(input []byte) *group.Element {
	if c.blind == nil {
		c.blind = c.Group().NewScalar().Random()
	}

	p := c.Group().HashToGroup(input, c.dst(tag.OPRFPointPrefix))
	c.input = input
	c.blinded = p.Multiply(c.blind)

	return c.blinded
}

func (o *oprf) hash(input ...[]byte) []byte {
	h := suiteToHash[o.Ciphersuite].New()

	for _, i := range input {
		_, _ = h.Write(i)
	}

	return h.Sum(nil)
}

func (o *oprf) hashTranscript(input, unblinded []byte) []byte {
	return o.hash(
		encoding.EncodeVector(input),
		encoding.EncodeVector(unblinded),
		encoding.EncodeVector(o.dst(tag.OPRFFinalize)),
	)
}

// Finalize terminates the OPRF by unblinding the evaluation and hashing the transcript.
func (c *Client) Finalize(evaluation *group.Element) ([]byte, error) {
	if c.blinded != nil && evaluation.Equal(c.blinded) == 1 {
		return nil, ErrReflected
	}

	u := c.SerializePoint(evaluation.Copy().Multiply(c.blind.Copy().Invert()))

	return c.hashTranscript(c.input, u), nil
}
