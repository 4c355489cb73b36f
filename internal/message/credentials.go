// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package message provides the internal credential recovery messages.
package message

import (
	group "github.com/bytemare/crypto"

	"github.com/karol-bisztyga/opaque-ke/internal/encoding"
	"github.com/karol-bisztyga/opaque-ke/internal/oprf"
)

// CredentialRequest represents the credential request message.
type CredentialRequest struct {
	C    oprf.Ciphersuite
	Data *group.Element `json:"data"`
}

// NewCredentialRequest returns a populated CredentialRequest.
func NewCredentialRequest(c oprf.Ciphersuite, data *group.Element) *CredentialRequest {
	return &CredentialRequest{C: c, Data: data}
}

// Serialize returns the byte encoding of CredentialRequest.
func (c *CredentialRequest) Serialize() []byte {
	return c.C.SerializePoint(c.Data)
}

// CredentialResponse represents the credential response message.
type CredentialResponse struct {
	C        oprf.Ciphersuite
	Data     *group.Element `json:"data"`
	Pks      []byte         `json:"pks"`
	Envelope []byte         `json:"env"`
}

// NewCredentialResponse returns a populated CredentialResponse.
func NewCredentialResponse(c oprf.Ciphersuite, data *group.Element, pks, envelope []byte) *CredentialResponse {
	return &CredentialResponse{C: c, Data: data, Pks: pks, Envelope: envelope}
}

// Serialize returns the byte encoding of CredentialResponse.
func (c *CredentialResponse) Serialize() []byte {
	return encoding.Concat3(c.C.SerializePoint(c.Data), c.Pks, c.Envelope)
}
