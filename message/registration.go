// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package message provides the protocol's wire messages.
package message

import (
	group "github.com/bytemare/crypto"

	"github.com/karol-bisztyga/opaque-ke/internal/encoding"
	"github.com/karol-bisztyga/opaque-ke/internal/oprf"
)

// RegistrationRequest is the first message of the registration flow, created by the client and sent to the server.
type RegistrationRequest struct {
	C              oprf.Ciphersuite
	BlindedMessage *group.Element `json:"blindedMessage"`
}

// Serialize returns the byte encoding of RegistrationRequest.
func (r *RegistrationRequest) Serialize() []byte {
	return r.C.SerializePoint(r.BlindedMessage)
}

// RegistrationResponse is the second message of the registration flow, created by the server and sent to the client.
type RegistrationResponse struct {
	C                oprf.Ciphersuite
	EvaluatedMessage *group.Element `json:"evaluatedMessage"`
	Pks              []byte         `json:"serverPublicKey"`
}

// Serialize returns the byte encoding of RegistrationResponse.
func (r *RegistrationResponse) Serialize() []byte {
	return encoding.Concat(r.C.SerializePoint(r.EvaluatedMessage), r.Pks)
}

// RegistrationRecord represents the client record sent as the last registration message by the client to the server.
type RegistrationRecord struct {
	PublicKey []byte `json:"clientPublicKey"`
	Envelope  []byte `json:"envelope"`
}

// Serialize returns the byte encoding of RegistrationRecord.
func (r *RegistrationRecord) Serialize() []byte {
	return encoding.Concat(r.PublicKey, r.Envelope)
}
