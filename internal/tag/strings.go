// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package tag provides the static tag strings to the protocol.
package tag

// These strings are the static tags and labels used throughout the protocol.
const (
	// OPRF tags.

	// OPRFVersionPrefix is a string explicitly stating the OPRF version name.
	OPRFVersionPrefix = "VOPRF09-"

	// OPRFPointPrefix is the DST prefix to use for HashToGroup operations.
	OPRFPointPrefix = "HashToGroup-"

	// OPRFFinalize is the DST suffix used in the client transcript.
	OPRFFinalize = "Finalize-"

	// Envelope tags.

	// AuthKey is the envelope's MAC key's KDF dst.
	AuthKey = "AuthKey"

	// ExportKey is the export key's KDF dst.
	ExportKey = "ExportKey"

	// EncryptionPad is the envelope's encryption key KDF dst.
	EncryptionPad = "Pad"

	// AKE tags.

	// VersionTag is the transcript prefix.
	VersionTag = "RFCXXXX"

	// LabelPrefix is the AKE secret KDF dst prefix.
	LabelPrefix = "OPAQUE-"

	// Handshake is the AKE HandshakeSecret dst.
	Handshake = "HandshakeSecret"

	// SessionKey is the AKE session secret dst.
	SessionKey = "SessionKey"

	// MacServer is the server's MAC key KDF dst.
	MacServer = "ServerMAC"

	// MacClient is the client's MAC key KDF dst.
	MacClient = "ClientMAC"

	// Key derivation tags.

	// DeriveKeyPair is the OPRF key hash-to-scalar dst.
	DeriveKeyPair = "OPAQUE-DeriveKeyPair"

	// DeriveDiffieHellmanKeyPair is the hash-to-scalar dst for derived keys in the AKE group.
	DeriveDiffieHellmanKeyPair = "OPAQUE-DeriveDiffieHellmanKeyPair"

	// Server tags.

	// ExpandOPRF is the server's per-credential OPRF key seed KDF dst.
	ExpandOPRF = "OprfKey"

	// FakeSecretKey is the fake record's secret key seed KDF dst.
	FakeSecretKey = "FakeSecretKey"

	// FakeEnvelope is the fake record's envelope KDF dst.
	FakeEnvelope = "FakeEnvelope"
)
