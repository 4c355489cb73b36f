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
	"github.com/karol-bisztyga/opaque-ke/internal/oprf"
	"github.com/karol-bisztyga/opaque-ke/message"
)

var (
	errNoOPRFState    = errors.New("no blinded password in state, call RegistrationInit or GenerateKE1 first")
	errNoKE1State     = errors.New("no KE1 in state, call GenerateKE1 first")
	errInvalidPKS     = errors.New("invalid server public key")
	errEnvelopeSealed = errors.New("envelope recovery failed")
)

// Client represents an OPAQUE client, exposing its functions and holding its state.
// A Client instance drives one registration or one login exchange, start to finish, and
// is not safe for concurrent use.
type Client struct {
	Deserialize *Deserializer
	OPRF        *oprf.Client
	Ake         *ake.Client
	Ke1         *message.KE1
	conf        *internal.Configuration
}

// NewClient returns a new Client instantiated with the given Configuration.
func NewClient(c *Configuration) (*Client, error) {
	if c == nil {
		c = DefaultConfiguration()
	}

	conf, err := c.toInternal()
	if err != nil {
		return nil, err
	}

	return &Client{
		Deserialize: &Deserializer{conf: conf},
		OPRF:        nil,
		Ake:         ake.NewClient(),
		Ke1:         nil,
		conf:        conf,
	}, nil
}

// buildPRK finalizes the OPRF on the evaluation, stretches the output, and extracts the
// randomized password.
func (c *Client) buildPRK(evaluation *group.Element) ([]byte, error) {
	output, err := c.OPRF.Finalize(evaluation)
	if err != nil {
		return nil, err
	}

	stretched := c.conf.KSF.Harden(output, nil, c.conf.OPRFPointLength)

	return c.conf.KDF.Extract(nil, encoding.Concat(output, stretched)), nil
}

// RegistrationInit blinds the password and returns the registration request to send
// to the server.
func (c *Client) RegistrationInit(password []byte) *message.RegistrationRequest {
	c.OPRF = c.conf.OPRF.Client()
	m := c.OPRF.Blind(password)

	return &message.RegistrationRequest{
		C:              c.conf.OPRF,
		BlindedMessage: m,
	}
}

// ClientRegistrationFinalizeOptions enables setting optional client registration values.
type ClientRegistrationFinalizeOptions struct {
	// ClientIdentity: optional. A client identity to bind the envelope to, e.g. a username.
	ClientIdentity []byte
	// ServerIdentity: optional. A server identity to bind the envelope to, e.g. a domain name.
	ServerIdentity []byte
	// EnvelopeNonce: optional. Forces the envelope nonce, for testing only.
	EnvelopeNonce []byte
}

func envelopeMode(clientIdentity, serverIdentity []byte) keyrecovery.Mode {
	if clientIdentity != nil || serverIdentity != nil {
		return keyrecovery.CustomIdentifier
	}

	return keyrecovery.Base
}

// RegistrationFinalize generates a fresh long-term client key pair, seals its secret key in
// an envelope under the password, and returns the registration record to send to the server
// together with the client-only export key. Providing identities in options binds the
// envelope to them, and the same identities must then be provided at login.
func (c *Client) RegistrationFinalize(
	resp *message.RegistrationResponse,
	options ClientRegistrationFinalizeOptions,
) (record *message.RegistrationRecord, exportKey []byte, err error) {
	if c.OPRF == nil {
		return nil, nil, ErrClientState.Join(errNoOPRFState)
	}

	if _, err = c.conf.KeGroup.DecodeElement(resp.Pks); err != nil {
		return nil, nil, ErrRegistrationResponse.Join(errInvalidPKS, err)
	}

	randomizedPwd, err := c.buildPRK(resp.EvaluatedMessage)
	if err != nil {
		if errors.Is(err, oprf.ErrReflected) {
			return nil, nil, ErrReflectedValue.Join(err)
		}

		return nil, nil, ErrCodeInternal.New("", err)
	}

	clientSecretKey, clientPublicKey := ake.KeyGen(c.conf.KeGroup)
	mode := envelopeMode(options.ClientIdentity, options.ServerIdentity)

	envelope, exportKey := keyrecovery.Store(
		c.conf,
		randomizedPwd,
		mode,
		clientSecretKey,
		resp.Pks,
		options.ClientIdentity,
		options.ServerIdentity,
		options.EnvelopeNonce,
	)

	c.OPRF = nil

	return &message.RegistrationRecord{
		PublicKey: clientPublicKey,
		Envelope:  envelope.Serialize(),
	}, exportKey, nil
}

// GenerateKE1 initiates the login protocol: it blinds the password, generates ephemeral key
// exchange values, and returns the KE1 message to send to the server. The returned KE1 is
// also kept in the client's state for GenerateKE3.
func (c *Client) GenerateKE1(password []byte) *message.KE1 {
	if c.Ke1 != nil {
		// A previous exchange did not complete. Its nonce and ephemeral key must not
		// be carried into this one.
		c.Ake.Flush()
		c.Ke1 = nil
	}

	c.OPRF = c.conf.OPRF.Client()
	m := c.OPRF.Blind(password)

	ke1 := c.Ake.Start(c.conf)
	ke1.CredentialRequest = cred.NewCredentialRequest(c.conf.OPRF, m)
	c.Ke1 = ke1

	return ke1
}

// GenerateKE3Options enables setting optional client login values. The identities must
// match those used at registration.
type GenerateKE3Options struct {
	// ClientIdentity: optional. The client identity the envelope was bound to.
	ClientIdentity []byte
	// ServerIdentity: optional. The server identity the envelope was bound to.
	ServerIdentity []byte
}

// GenerateKE3 processes the server's KE2 message: it recovers the credentials sealed at
// registration, verifies the server's key confirmation MAC, and returns the KE3 message to
// send to the server together with the export key. All authentication failures, including a
// wrong password, a tampered envelope, and an unregistered identity, return ErrInvalidLogin.
// On success, the state is consumed and SessionKey returns the shared session key.
func (c *Client) GenerateKE3(
	ke2 *message.KE2,
	options GenerateKE3Options,
) (ke3 *message.KE3, exportKey []byte, err error) {
	if c.Ke1 == nil || c.OPRF == nil {
		return nil, nil, ErrClientState.Join(errNoKE1State)
	}

	randomizedPwd, err := c.buildPRK(ke2.Data)
	if err != nil {
		if errors.Is(err, oprf.ErrReflected) {
			return nil, nil, ErrReflectedValue.Join(err)
		}

		return nil, nil, ErrCodeInternal.New("", err)
	}

	envelope, err := keyrecovery.DeserializeEnvelope(c.conf, ke2.Envelope)
	if err != nil {
		return nil, nil, ErrInvalidLogin.Join(errEnvelopeSealed, err)
	}

	mode := envelopeMode(options.ClientIdentity, options.ServerIdentity)

	clientSecretKey, clientPublicKey, exportKey, err := keyrecovery.Recover(
		c.conf,
		randomizedPwd,
		mode,
		ke2.Pks,
		options.ClientIdentity,
		options.ServerIdentity,
		envelope,
	)
	if err != nil {
		return nil, nil, ErrInvalidLogin.Join(errEnvelopeSealed, err)
	}

	identities := &ake.Identities{
		ClientIdentity: options.ClientIdentity,
		ServerIdentity: options.ServerIdentity,
	}
	identities.SetIdentities(clientPublicKey, ke2.Pks)

	ke3, err = c.Ake.Finalize(c.conf, identities, clientSecretKey, ke2.Pks, c.Ke1, ke2)
	if err != nil {
		return nil, nil, ErrInvalidLogin.Join(err)
	}

	c.Ake.Flush()
	c.Ke1 = nil
	c.OPRF = nil

	return ke3, exportKey, nil
}

// SessionKey returns the shared session key if the previous call to GenerateKE3 was
// successful, and nil otherwise.
func (c *Client) SessionKey() []byte {
	return c.Ake.SessionKey()
}
