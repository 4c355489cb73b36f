// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package ake provides the 3-message authenticated Diffie-Hellman key exchange.
package ake

import (
	"errors"
	"fmt"

	"github.com/karol-bisztyga/opaque-ke/internal"
	"github.com/karol-bisztyga/opaque-ke/internal/encoding"
	"github.com/karol-bisztyga/opaque-ke/internal/keygroup"
	"github.com/karol-bisztyga/opaque-ke/internal/tag"
	"github.com/karol-bisztyga/opaque-ke/message"
)

// ErrAkeMacMismatch indicates a MAC verification failure in the key exchange.
var ErrAkeMacMismatch = errors.New("key exchange MAC is not valid")

// Identities holds the client and server identities bound into the transcript.
type Identities struct {
	ClientIdentity []byte
	ServerIdentity []byte
}

// SetIdentities defaults the client and server identities to their respective public keys if not set.
func (id *Identities) SetIdentities(clientPublicKey, serverPublicKey []byte) *Identities {
	if id.ClientIdentity == nil {
		id.ClientIdentity = clientPublicKey
	}

	if id.ServerIdentity == nil {
		id.ServerIdentity = serverPublicKey
	}

	return id
}

// KeyGen returns a fresh private and public key in the given group.
func KeyGen(g keygroup.Group) (secretKey, publicKey []byte) {
	sk := g.RandomScalar()

	pk, err := g.PublicKey(sk)
	if err != nil {
		// RandomScalar only emits valid non-zero scalars.
		panic(fmt.Errorf("unexpected keypair generation error : %w", err))
	}

	return sk, pk
}

// k3dh computes the three Diffie-Hellman values and returns their concatenation.
func k3dh(g keygroup.Group, p1, s1, p2, s2, p3, s3 []byte) ([]byte, error) {
	e1, err := g.DiffieHellman(s1, p1)
	if err != nil {
		return nil, err
	}

	e2, err := g.DiffieHellman(s2, p2)
	if err != nil {
		return nil, err
	}

	e3, err := g.DiffieHellman(s3, p3)
	if err != nil {
		return nil, err
	}

	return encoding.Concat3(e1, e2, e3), nil
}

func buildLabel(length int, label, context []byte) []byte {
	return encoding.Concat3(
		encoding.I2OSP(length, 2),
		encoding.EncodeVectorLen(append([]byte(tag.LabelPrefix), label...), 1),
		encoding.EncodeVectorLen(context, 1))
}

func expandLabel(h *internal.KDF, secret, label, context []byte) []byte {
	return h.Expand(secret, buildLabel(h.Size(), label, context), h.Size())
}

func deriveSecret(h *internal.KDF, secret, label, context []byte) []byte {
	return expandLabel(h, secret, label, context)
}

func initTranscript(conf *internal.Configuration, identities *Identities, ke1 []byte, ke2 *message.KE2) {
	conf.Hash.Reset()
	addToHash(conf, []byte(tag.VersionTag),
		encoding.EncodeVector(conf.Context),
		encoding.EncodeVector(identities.ClientIdentity),
		ke1,
		encoding.EncodeVector(identities.ServerIdentity),
		ke2.CredentialResponse.Serialize(),
		ke2.NonceS,
		ke2.EpkS,
	)
}

func addToHash(conf *internal.Configuration, data ...[]byte) {
	for _, d := range data {
		conf.Hash.Write(d)
	}
}

func deriveKeys(h *internal.KDF, ikm, context []byte) (serverMacKey, clientMacKey, sessionSecret []byte) {
	prk := h.Extract(nil, ikm)
	handshakeSecret := deriveSecret(h, prk, []byte(tag.Handshake), context)
	sessionSecret = deriveSecret(h, prk, []byte(tag.SessionKey), context)
	serverMacKey = expandLabel(h, handshakeSecret, []byte(tag.MacServer), nil)
	clientMacKey = expandLabel(h, handshakeSecret, []byte(tag.MacClient), nil)

	return serverMacKey, clientMacKey, sessionSecret
}

// core3DH derives the session secret and both MACs from the three Diffie-Hellman values
// and the message transcript so far.
func core3DH(
	conf *internal.Configuration, identities *Identities, ikm, ke1 []byte, ke2 *message.KE2,
) (sessionSecret, serverMac, clientMac []byte) {
	initTranscript(conf, identities, ke1, ke2)

	serverMacKey, clientMacKey, sessionSecret := deriveKeys(conf.KDF, ikm, conf.Hash.Sum()) // preamble
	serverMac = conf.MAC.MAC(serverMacKey, conf.Hash.Sum())                                 // transcript2
	conf.Hash.Write(serverMac)
	clientMac = conf.MAC.MAC(clientMacKey, conf.Hash.Sum()) // transcript3

	return sessionSecret, serverMac, clientMac
}
