// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package ake

import (
	"github.com/karol-bisztyga/opaque-ke/internal"
	"github.com/karol-bisztyga/opaque-ke/internal/encoding"
	cred "github.com/karol-bisztyga/opaque-ke/internal/message"
	"github.com/karol-bisztyga/opaque-ke/message"
)

// Server exposes the server's key exchange functions and holds its state.
type Server struct {
	// NonceS and EphemeralSecretKey can be set before Response to force values, for testing only.
	NonceS             []byte
	EphemeralSecretKey []byte
	expectedClientMac  []byte
	sessionKey         []byte
}

// NewServer returns a new, empty, server key exchange state.
func NewServer() *Server {
	return &Server{}
}

func (s *Server) setup(conf *internal.Configuration) []byte {
	if len(s.NonceS) == 0 {
		s.NonceS = internal.RandomBytes(conf.NonceLen)
	}

	if len(s.EphemeralSecretKey) == 0 {
		sk, pk := KeyGen(conf.KeGroup)
		s.EphemeralSecretKey = sk

		return pk
	}

	pk, err := conf.KeGroup.PublicKey(s.EphemeralSecretKey)
	if err != nil {
		panic(err)
	}

	return pk
}

// Response produces a KE2 message for the given KE1 message and credential response,
// and keeps the expected KE3 MAC and the session key in the server's state.
func (s *Server) Response(
	conf *internal.Configuration,
	identities *Identities,
	serverSecretKey, clientPublicKey []byte,
	ke1 *message.KE1,
	response *cred.CredentialResponse,
) (*message.KE2, error) {
	epk := s.setup(conf)

	ikm, err := k3dh(conf.KeGroup,
		ke1.EpkU, s.EphemeralSecretKey,
		ke1.EpkU, serverSecretKey,
		clientPublicKey, s.EphemeralSecretKey)
	if err != nil {
		return nil, err
	}

	ke2 := &message.KE2{
		CredentialResponse: response,
		NonceS:             s.NonceS,
		EpkS:               epk,
		Mac:                nil,
	}

	sessionSecret, serverMac, clientMac := core3DH(conf, identities, ikm, ke1.Serialize(), ke2)
	ke2.Mac = serverMac
	s.expectedClientMac = clientMac
	s.sessionKey = sessionSecret

	return ke2, nil
}

// Finalize verifies the client's KE3 MAC against the expected value, in constant time.
func (s *Server) Finalize(conf *internal.Configuration, ke3 *message.KE3) error {
	if !conf.MAC.Equal(s.expectedClientMac, ke3.Mac) {
		return ErrAkeMacMismatch
	}

	return nil
}

// SessionKey returns the secret shared session key if a previous call to Response() was successful.
func (s *Server) SessionKey() []byte {
	return s.sessionKey
}

// SerializeState returns the server's key exchange state, for resumption between KE2 and KE3.
func (s *Server) SerializeState(conf *internal.Configuration) []byte {
	state := make([]byte, 0, conf.MAC.Size()+conf.KDF.Size())
	state = append(state, s.expectedClientMac...)
	state = append(state, s.sessionKey...)

	return state
}

// SetState restores a server key exchange state produced by SerializeState.
func (s *Server) SetState(conf *internal.Configuration, state []byte) error {
	if err := encoding.CheckSize(state, conf.MAC.Size()+conf.KDF.Size(), "AKE state"); err != nil {
		return err
	}

	s.expectedClientMac = state[:conf.MAC.Size()]
	s.sessionKey = state[conf.MAC.Size():]

	return nil
}

// Flush zeroes the server's ephemeral secret key, nonce and expected MAC, so that a
// subsequent Response generates fresh values.
func (s *Server) Flush() {
	for i := range s.EphemeralSecretKey {
		s.EphemeralSecretKey[i] = 0
	}

	s.EphemeralSecretKey = nil
	s.NonceS = nil
	s.expectedClientMac = nil
}
