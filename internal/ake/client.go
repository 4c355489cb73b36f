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
	"github.com/karol-bisztyga/opaque-ke/message"
)

// Client exposes the client's key exchange functions and holds its state.
type Client struct {
	// NonceU and EphemeralSecretKey can be set before Start to force values, for testing only.
	NonceU             []byte
	EphemeralSecretKey []byte
	sessionKey         []byte
}

// NewClient returns a new, empty, client key exchange state.
func NewClient() *Client {
	return &Client{}
}

// Start generates the client's ephemeral contribution to a KE1 message.
func (c *Client) Start(conf *internal.Configuration) *message.KE1 {
	epk := c.setup(conf)

	return &message.KE1{
		CredentialRequest: nil,
		NonceU:            c.NonceU,
		EpkU:              epk,
	}
}

func (c *Client) setup(conf *internal.Configuration) []byte {
	if len(c.NonceU) == 0 {
		c.NonceU = internal.RandomBytes(conf.NonceLen)
	}

	if len(c.EphemeralSecretKey) == 0 {
		sk, pk := KeyGen(conf.KeGroup)
		c.EphemeralSecretKey = sk

		return pk
	}

	pk, err := conf.KeGroup.PublicKey(c.EphemeralSecretKey)
	if err != nil {
		panic(err)
	}

	return pk
}

// Finalize verifies the server's KE2 MAC, and returns the KE3 message on success.
func (c *Client) Finalize(
	conf *internal.Configuration,
	identities *Identities,
	clientSecretKey, serverPublicKey []byte,
	ke1 *message.KE1,
	ke2 *message.KE2,
) (*message.KE3, error) {
	ikm, err := k3dh(conf.KeGroup,
		ke2.EpkS, c.EphemeralSecretKey,
		serverPublicKey, c.EphemeralSecretKey,
		ke2.EpkS, clientSecretKey)
	if err != nil {
		return nil, err
	}

	sessionSecret, serverMac, clientMac := core3DH(conf, identities, ikm, ke1.Serialize(), ke2)

	if !conf.MAC.Equal(serverMac, ke2.Mac) {
		return nil, ErrAkeMacMismatch
	}

	c.sessionKey = sessionSecret

	return &message.KE3{Mac: clientMac}, nil
}

// SessionKey returns the secret shared session key if a previous call to Finalize() was successful.
func (c *Client) SessionKey() []byte {
	return c.sessionKey
}

// Flush zeroes the client's ephemeral secret key and nonce, so that a subsequent Start
// generates fresh values.
func (c *Client) Flush() {
	for i := range c.EphemeralSecretKey {
		c.EphemeralSecretKey[i] = 0
	}

	c.EphemeralSecretKey = nil
	c.NonceU = nil
}
