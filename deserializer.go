// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package opaque

import (
	"crypto/subtle"
	"errors"

	group "github.com/bytemare/crypto"

	"github.com/karol-bisztyga/opaque-ke/internal"
	"github.com/karol-bisztyga/opaque-ke/internal/encoding"
	"github.com/karol-bisztyga/opaque-ke/internal/keygroup"
	cred "github.com/karol-bisztyga/opaque-ke/internal/message"
	"github.com/karol-bisztyga/opaque-ke/message"
)

var (
	errInvalidBlindedData = errors.New("blinded data is an invalid point")
	errInvalidEvaluation  = errors.New("evaluated data is an invalid point")
	errInvalidClientPK    = errors.New("invalid client public key")
	errInvalidServerPK    = errors.New("invalid server public key")
	errInvalidClientEPK   = errors.New("invalid client ephemeral public key")
	errInvalidServerEPK   = errors.New("invalid server ephemeral public key")
)

// Deserializer exposes the message deserialization functions for a fixed configuration.
// Deserialization verifies lengths and decodes group elements, rejecting off-curve and
// identity elements before any message is processed.
type Deserializer struct {
	conf *internal.Configuration
}

// decodeOPRFElement decodes and validates an element of the OPRF group.
func (d *Deserializer) decodeOPRFElement(input []byte, reason error) (*group.Element, error) {
	// All-zero input is the canonical identity encoding in some groups, and invalid in others.
	if subtle.ConstantTimeCompare(input, make([]byte, len(input))) == 1 {
		return nil, ErrIdentityElement.Join(reason)
	}

	e := d.conf.OPRF.Group().NewElement()
	if err := e.Decode(input); err != nil {
		return nil, reason
	}

	if e.IsIdentity() {
		return nil, ErrIdentityElement.Join(reason)
	}

	return e, nil
}

// checkAkeElement validates an encoded element of the key exchange group.
func (d *Deserializer) checkAkeElement(input []byte, reason error) error {
	if _, err := d.conf.KeGroup.DecodeElement(input); err != nil {
		if errors.Is(err, keygroup.ErrIdentity) {
			return ErrIdentityElement.Join(reason)
		}

		return reason
	}

	return nil
}

// RegistrationRequest returns a deserialized RegistrationRequest from the input.
func (d *Deserializer) RegistrationRequest(input []byte) (*message.RegistrationRequest, error) {
	if len(input) != d.conf.OPRFPointLength {
		return nil, ErrRegistrationRequest.Join(encoding.CheckSize(input, d.conf.OPRFPointLength, "registration request"))
	}

	blinded, err := d.decodeOPRFElement(input, errInvalidBlindedData)
	if err != nil {
		return nil, joinMessageError(ErrRegistrationRequest, err)
	}

	return &message.RegistrationRequest{C: d.conf.OPRF, BlindedMessage: blinded}, nil
}

// RegistrationResponse returns a deserialized RegistrationResponse from the input.
func (d *Deserializer) RegistrationResponse(input []byte) (*message.RegistrationResponse, error) {
	expected := d.conf.OPRFPointLength + d.conf.AkePointLength
	if len(input) != expected {
		return nil, ErrRegistrationResponse.Join(encoding.CheckSize(input, expected, "registration response"))
	}

	evaluated, err := d.decodeOPRFElement(input[:d.conf.OPRFPointLength], errInvalidEvaluation)
	if err != nil {
		return nil, joinMessageError(ErrRegistrationResponse, err)
	}

	pks := input[d.conf.OPRFPointLength:]
	if err := d.checkAkeElement(pks, errInvalidServerPK); err != nil {
		return nil, joinMessageError(ErrRegistrationResponse, err)
	}

	return &message.RegistrationResponse{
		C:                d.conf.OPRF,
		EvaluatedMessage: evaluated,
		Pks:              pks,
	}, nil
}

// RegistrationRecord returns a deserialized RegistrationRecord from the input.
func (d *Deserializer) RegistrationRecord(input []byte) (*message.RegistrationRecord, error) {
	expected := d.conf.AkePointLength + d.conf.EnvelopeSize
	if len(input) != expected {
		return nil, ErrRegistrationRecord.Join(encoding.CheckSize(input, expected, "registration record"))
	}

	pk := input[:d.conf.AkePointLength]
	if err := d.checkAkeElement(pk, errInvalidClientPK); err != nil {
		return nil, joinMessageError(ErrRegistrationRecord, err)
	}

	return &message.RegistrationRecord{
		PublicKey: pk,
		Envelope:  input[d.conf.AkePointLength:],
	}, nil
}

// KE1 returns a deserialized KE1 message from the input.
func (d *Deserializer) KE1(input []byte) (*message.KE1, error) {
	expected := d.conf.OPRFPointLength + d.conf.NonceLen + d.conf.AkePointLength
	if len(input) != expected {
		return nil, ErrKE1.Join(encoding.CheckSize(input, expected, "KE1"))
	}

	blinded, err := d.decodeOPRFElement(input[:d.conf.OPRFPointLength], errInvalidBlindedData)
	if err != nil {
		return nil, joinMessageError(ErrKE1, err)
	}

	nonceU := input[d.conf.OPRFPointLength : d.conf.OPRFPointLength+d.conf.NonceLen]
	epku := input[d.conf.OPRFPointLength+d.conf.NonceLen:]

	if err := d.checkAkeElement(epku, errInvalidClientEPK); err != nil {
		return nil, joinMessageError(ErrKE1, err)
	}

	return &message.KE1{
		CredentialRequest: cred.NewCredentialRequest(d.conf.OPRF, blinded),
		NonceU:            nonceU,
		EpkU:              epku,
	}, nil
}

// KE2 returns a deserialized KE2 message from the input.
func (d *Deserializer) KE2(input []byte) (*message.KE2, error) {
	expected := d.conf.OPRFPointLength + d.conf.AkePointLength + d.conf.EnvelopeSize +
		d.conf.NonceLen + d.conf.AkePointLength + d.conf.MAC.Size()
	if len(input) != expected {
		return nil, ErrKE2.Join(encoding.CheckSize(input, expected, "KE2"))
	}

	evaluated, err := d.decodeOPRFElement(input[:d.conf.OPRFPointLength], errInvalidEvaluation)
	if err != nil {
		return nil, joinMessageError(ErrKE2, err)
	}

	offset := d.conf.OPRFPointLength
	pks := input[offset : offset+d.conf.AkePointLength]
	offset += d.conf.AkePointLength
	envelope := input[offset : offset+d.conf.EnvelopeSize]
	offset += d.conf.EnvelopeSize
	nonceS := input[offset : offset+d.conf.NonceLen]
	offset += d.conf.NonceLen
	epks := input[offset : offset+d.conf.AkePointLength]
	mac := input[offset+d.conf.AkePointLength:]

	if err := d.checkAkeElement(pks, errInvalidServerPK); err != nil {
		return nil, joinMessageError(ErrKE2, err)
	}

	if err := d.checkAkeElement(epks, errInvalidServerEPK); err != nil {
		return nil, joinMessageError(ErrKE2, err)
	}

	return &message.KE2{
		CredentialResponse: cred.NewCredentialResponse(d.conf.OPRF, evaluated, pks, envelope),
		NonceS:             nonceS,
		EpkS:               epks,
		Mac:                mac,
	}, nil
}

// KE3 returns a deserialized KE3 message from the input.
func (d *Deserializer) KE3(input []byte) (*message.KE3, error) {
	if len(input) != d.conf.MAC.Size() {
		return nil, ErrKE3.Join(encoding.CheckSize(input, d.conf.MAC.Size(), "KE3"))
	}

	return &message.KE3{Mac: input}, nil
}

// joinMessageError preserves an identity element rejection as the error's code, and joins
// the message context, so that both are matchable with errors.Is.
func joinMessageError(messageErr *Error, err error) error {
	var protocolErr *Error
	if errors.As(err, &protocolErr) && protocolErr.Code == ErrCodeIdentityElement {
		return protocolErr.Join(errors.New(messageErr.Message))
	}

	return messageErr.Join(err)
}
