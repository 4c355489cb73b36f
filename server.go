// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package opaque

import (
	"errors"

	group "github.com/bytemare/crypto"

	"github.com/karol-bisztyga/opaque-ke/internal"
	"github.com/karol-bisztyga/opaque-ke/internal/ake"
	"github.com/karol-bisztyga/opaque-ke/internal/encoding"
	"github.com/karol-bisztyga/opaque-ke/internal/keyrecovery"
	cred "github.com/karol-bisztyga/opaque-ke/internal/message"
	"github.com/karol-bisztyga/opaque-ke/internal/tag"
	"github.com/karol-bisztyga/opaque-ke/message"
)

var (
	errNoKeyMaterial   = errors.New("key material not set, call SetKeyMaterial first")
	errNilKeyMaterial  = errors.New("key material is nil")
	errNilClientRecord = errors.New("client record is nil")
	errNoKE2State      = errors.New("no KE2 in state, call GenerateKE2 first")
)

// Server represents an OPAQUE server, exposing its functions and holding its state.
// A Server instance drives one login exchange at a time and is not safe for concurrent
// use. The long-term key material in ServerSetup is shared across instances.
type Server struct {
	Deserialize    *Deserializer
	Ake            *ake.Server
	conf           *internal.Configuration
	setup          *ServerSetup
	serverIdentity []byte
	finished       bool
}

// NewServer returns a new Server instantiated with the given Configuration.
func NewServer(c *Configuration) (*Server, error) {
	if c == nil {
		c = DefaultConfiguration()
	}

	conf, err := c.toInternal()
	if err != nil {
		return nil, err
	}

	return &Server{
		Deserialize:    &Deserializer{conf: conf},
		Ake:            ake.NewServer(),
		conf:           conf,
		setup:          nil,
		serverIdentity: nil,
	}, nil
}

// SetKeyMaterial loads the server's long-term key material and optional identity into the
// server. It must be called before any other server operation. A non-nil serverIdentity is
// bound into the key exchange, and clients must then provide the same identity at
// registration and login.
func (s *Server) SetKeyMaterial(serverIdentity []byte, setup *ServerSetup) error {
	if setup == nil {
		return ErrServerKeyMaterial.Join(errNilKeyMaterial)
	}

	if len(setup.oprfSeed) != s.conf.KDF.Size() ||
		len(setup.serverSecretKey) != s.conf.AkeScalarLength ||
		len(setup.serverPublicKey) != s.conf.AkePointLength {
		return ErrServerKeyMaterial.Join(errors.New("key material length mismatch"))
	}

	s.setup = setup
	s.serverIdentity = serverIdentity

	return nil
}

// oprfKey derives the per-credential OPRF key from the global seed and the credential
// identifier, so that no per-credential key needs to be stored.
func (s *Server) oprfKey(credentialIdentifier []byte) *group.Scalar {
	seed := s.conf.KDF.Expand(
		s.setup.oprfSeed,
		encoding.SuffixString(credentialIdentifier, tag.ExpandOPRF),
		internal.SeedLength,
	)

	return s.conf.OPRF.DeriveKey(seed, []byte(tag.DeriveKeyPair))
}

// RegistrationResponse evaluates the client's blinded password under the credential's OPRF
// key and returns the response to send back, carrying the server's static public key.
func (s *Server) RegistrationResponse(
	req *message.RegistrationRequest,
	credentialIdentifier []byte,
) (*message.RegistrationResponse, error) {
	if s.setup == nil {
		return nil, ErrServerKeyMaterial.Join(errNoKeyMaterial)
	}

	evaluated := s.conf.OPRF.Evaluate(s.oprfKey(credentialIdentifier), req.BlindedMessage)

	return &message.RegistrationResponse{
		C:                s.conf.OPRF,
		EvaluatedMessage: evaluated,
		Pks:              s.setup.serverPublicKey,
	}, nil
}

// fakeRecord deterministically derives a client public key and envelope for an unregistered
// credential identifier. The same identifier always yields the same fake record, so repeated
// probes are consistent with a real, stable registration.
func (s *Server) fakeRecord(credentialIdentifier []byte) (clientPublicKey, envelope []byte) {
	skSeed := s.conf.KDF.Expand(
		s.setup.fakeSeed,
		encoding.SuffixString(credentialIdentifier, tag.FakeSecretKey),
		internal.SeedLength,
	)
	sk := s.conf.KeGroup.DeriveScalar(skSeed, []byte(tag.DeriveDiffieHellmanKeyPair))

	clientPublicKey, err := s.conf.KeGroup.PublicKey(sk)
	if err != nil {
		panic(err)
	}

	envelope = s.conf.KDF.Expand(
		s.setup.fakeSeed,
		encoding.SuffixString(credentialIdentifier, tag.FakeEnvelope),
		s.conf.EnvelopeSize,
	)
	envelope[0] = byte(keyrecovery.Base)

	return clientPublicKey, envelope
}

// GenerateKE2 processes the client's KE1 message against the client record and returns the
// KE2 message to send back. If the record holds no registration record, the server simulates
// one, so that the response is indistinguishable from a registered client's and the exchange
// fails only at the client's MAC. The expected KE3 MAC and the session key are kept in the
// server's state.
func (s *Server) GenerateKE2(ke1 *message.KE1, record *ClientRecord) (*message.KE2, error) {
	if s.setup == nil {
		return nil, ErrServerKeyMaterial.Join(errNoKeyMaterial)
	}

	if record == nil {
		return nil, ErrClientRecord.Join(errNilClientRecord)
	}

	if len(s.Ake.SessionKey()) != 0 {
		// A previous exchange went through Response. Its nonce and ephemeral key must
		// not be carried into this one.
		s.Ake.Flush()
		s.finished = false
	}

	var clientPublicKey, envelope []byte

	if record.RegistrationRecord != nil {
		clientPublicKey = record.RegistrationRecord.PublicKey
		envelope = record.RegistrationRecord.Envelope

		if len(clientPublicKey) != s.conf.AkePointLength || len(envelope) != s.conf.EnvelopeSize {
			return nil, ErrClientRecord.Join(errors.New("invalid record lengths"))
		}
	} else {
		clientPublicKey, envelope = s.fakeRecord(record.CredentialIdentifier)
	}

	evaluated := s.conf.OPRF.Evaluate(s.oprfKey(record.CredentialIdentifier), ke1.Data)
	response := cred.NewCredentialResponse(s.conf.OPRF, evaluated, s.setup.serverPublicKey, envelope)

	identities := &ake.Identities{
		ClientIdentity: record.ClientIdentity,
		ServerIdentity: s.serverIdentity,
	}
	identities.SetIdentities(clientPublicKey, s.setup.serverPublicKey)

	ke2, err := s.Ake.Response(s.conf, identities, s.setup.serverSecretKey, clientPublicKey, ke1, response)
	if err != nil {
		return nil, ErrInvalidLogin.Join(err)
	}

	return ke2, nil
}

// LoginFinish verifies the client's KE3 MAC, in constant time, and completes the login. All
// verification failures return ErrInvalidLogin. On success, the state is consumed and
// SessionKey returns the shared session key.
func (s *Server) LoginFinish(ke3 *message.KE3) error {
	if s.finished || len(s.Ake.SessionKey()) == 0 {
		return ErrServerState.Join(errNoKE2State)
	}

	if err := s.Ake.Finalize(s.conf, ke3); err != nil {
		return ErrInvalidLogin.Join(err)
	}

	s.finished = true
	s.Ake.Flush()

	return nil
}

// SessionKey returns the shared session key if the previous call to GenerateKE2 was
// successful, and nil otherwise. The key must only be used after LoginFinish succeeded.
func (s *Server) SessionKey() []byte {
	return s.Ake.SessionKey()
}

// SerializeState returns the internal state between GenerateKE2 and LoginFinish, for
// stateless deployments where KE1 and KE3 may be handled by different server instances.
// The output is secret and must be protected accordingly.
func (s *Server) SerializeState() []byte {
	return s.Ake.SerializeState(s.conf)
}

// SetAKEState restores a state produced by SerializeState, after which LoginFinish can be
// called on this instance.
func (s *Server) SetAKEState(state []byte) error {
	if err := s.Ake.SetState(s.conf, state); err != nil {
		return ErrServerState.Join(err)
	}

	s.finished = false

	return nil
}
