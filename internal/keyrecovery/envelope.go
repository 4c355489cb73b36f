// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package keyrecovery provides the credential envelope sealing the client's long-term key material.
package keyrecovery

import (
	"errors"

	"github.com/karol-bisztyga/opaque-ke/internal"
	"github.com/karol-bisztyga/opaque-ke/internal/encoding"
	"github.com/karol-bisztyga/opaque-ke/internal/tag"
)

var (
	// ErrEnvelopeAuthTag indicates the envelope authentication tag did not verify.
	ErrEnvelopeAuthTag = errors.New("invalid envelope authentication tag")

	// ErrIncompatibleEnvelopeMode indicates an attempt to open an envelope in another mode than it was sealed in.
	ErrIncompatibleEnvelopeMode = errors.New("incompatible envelope mode")

	// ErrInvalidInnerEnvelope indicates a structurally malformed envelope.
	ErrInvalidInnerEnvelope = errors.New("invalid inner envelope")
)

// Mode distinguishes the envelope's credential layouts.
type Mode byte

const (
	// Base is the envelope mode authenticating the server public key only.
	Base Mode = 1 + iota

	// CustomIdentifier additionally folds the client and server identities into the authenticated credentials.
	CustomIdentifier
)

// Envelope seals the client's long-term secret key under a key derived from the randomized password.
type Envelope struct {
	Nonce         []byte
	InnerEnvelope []byte
	AuthTag       []byte
	Mode          Mode
}

// Serialize returns the byte encoding of the envelope.
func (e *Envelope) Serialize() []byte {
	return encoding.Concatenate(encoding.I2OSP(int(e.Mode), 1), e.Nonce, e.InnerEnvelope, e.AuthTag)
}

// DeserializeEnvelope parses a serialized envelope for the given configuration.
func DeserializeEnvelope(conf *internal.Configuration, input []byte) (*Envelope, error) {
	if len(input) != conf.EnvelopeSize {
		return nil, ErrInvalidInnerEnvelope
	}

	mode := Mode(input[0])
	if mode != Base && mode != CustomIdentifier {
		return nil, ErrInvalidInnerEnvelope
	}

	nonce := input[1 : 1+conf.NonceLen]
	inner := input[1+conf.NonceLen : 1+conf.NonceLen+conf.AkeScalarLength]
	authTag := input[1+conf.NonceLen+conf.AkeScalarLength:]

	return &Envelope{
		Nonce:         nonce,
		InnerEnvelope: inner,
		AuthTag:       authTag,
		Mode:          mode,
	}, nil
}

func xorPad(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}

	return out
}

// cleartextCredentials assumes that serverPublicKey is a validated group element encoding.
func cleartextCredentials(mode Mode, serverPublicKey, clientIdentity, serverIdentity []byte) []byte {
	if mode == CustomIdentifier {
		return encoding.Concat3(
			serverPublicKey,
			encoding.EncodeVector(serverIdentity),
			encoding.EncodeVector(clientIdentity),
		)
	}

	return serverPublicKey
}

func exportKey(conf *internal.Configuration, randomizedPwd, nonce []byte) []byte {
	return conf.KDF.Expand(randomizedPwd, encoding.SuffixString(nonce, tag.ExportKey), conf.KDF.Size())
}

func authTag(conf *internal.Configuration, randomizedPwd, nonce, inner, ctc []byte, mode Mode) []byte {
	authKey := conf.KDF.Expand(randomizedPwd, encoding.SuffixString(nonce, tag.AuthKey), conf.KDF.Size())
	return conf.MAC.MAC(authKey, encoding.Concatenate(encoding.I2OSP(int(mode), 1), nonce, inner, ctc))
}

// Store seals the client's long-term secret key under the randomized password and returns
// the envelope and the additional export key. If nonceIn is empty, a fresh random nonce is used.
func Store(
	conf *internal.Configuration,
	randomizedPwd []byte,
	mode Mode,
	clientSecretKey, serverPublicKey, clientIdentity, serverIdentity, nonceIn []byte,
) (*Envelope, []byte) {
	nonce := nonceIn
	if len(nonce) == 0 {
		nonce = internal.RandomBytes(conf.NonceLen)
	}

	pad := conf.KDF.Expand(randomizedPwd, encoding.SuffixString(nonce, tag.EncryptionPad), len(clientSecretKey))
	inner := xorPad(clientSecretKey, pad)
	ctc := cleartextCredentials(mode, serverPublicKey, clientIdentity, serverIdentity)

	env := &Envelope{
		Nonce:         nonce,
		InnerEnvelope: inner,
		AuthTag:       authTag(conf, randomizedPwd, nonce, inner, ctc, mode),
		Mode:          mode,
	}

	return env, exportKey(conf, randomizedPwd, nonce)
}

// Recover opens the envelope and returns the client's secret and public key, and the export key.
// The mode is verified first, then the authentication tag in constant time, and only then
// is any credential material recovered.
func Recover(
	conf *internal.Configuration,
	randomizedPwd []byte,
	mode Mode,
	serverPublicKey, clientIdentity, serverIdentity []byte,
	envelope *Envelope,
) (clientSecretKey, clientPublicKey, export []byte, err error) {
	if envelope.Mode != mode {
		return nil, nil, nil, ErrIncompatibleEnvelopeMode
	}

	if len(envelope.InnerEnvelope) != conf.AkeScalarLength {
		return nil, nil, nil, ErrInvalidInnerEnvelope
	}

	ctc := cleartextCredentials(mode, serverPublicKey, clientIdentity, serverIdentity)

	expected := authTag(conf, randomizedPwd, envelope.Nonce, envelope.InnerEnvelope, ctc, mode)
	if !conf.MAC.Equal(expected, envelope.AuthTag) {
		return nil, nil, nil, ErrEnvelopeAuthTag
	}

	pad := conf.KDF.Expand(
		randomizedPwd,
		encoding.SuffixString(envelope.Nonce, tag.EncryptionPad),
		len(envelope.InnerEnvelope),
	)
	clientSecretKey = xorPad(envelope.InnerEnvelope, pad)

	clientPublicKey, err = conf.KeGroup.PublicKey(clientSecretKey)
	if err != nil {
		return nil, nil, nil, ErrInvalidInnerEnvelope
	}

	return clientSecretKey, clientPublicKey, exportKey(conf, randomizedPwd, envelope.Nonce), nil
}
