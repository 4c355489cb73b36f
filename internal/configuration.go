// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package internal

import (
	"github.com/karol-bisztyga/opaque-ke/internal/keygroup"
	"github.com/karol-bisztyga/opaque-ke/internal/oprf"
)

// Configuration is the internal, resolved representation of the public configuration:
// all primitives are instantiated and all lengths are fixed, once, at construction.
type Configuration struct {
	KDF             *KDF
	MAC             *Mac
	Hash            *Hash
	KSF             *KSF
	OPRF            oprf.Ciphersuite
	KeGroup         keygroup.Group
	NonceLen        int
	EnvelopeSize    int
	OPRFPointLength int
	AkePointLength  int
	AkeScalarLength int
	Context         []byte
}
