// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package opaque

import (
	"crypto"
	"crypto/subtle"
	"errors"
	"fmt"

	group "github.com/bytemare/crypto"
	"github.com/bytemare/ksf"

	"github.com/karol-bisztyga/opaque-ke/internal"
	"github.com/karol-bisztyga/opaque-ke/internal/encoding"
	"github.com/karol-bisztyga/opaque-ke/internal/keygroup"
	"github.com/karol-bisztyga/opaque-ke/internal/oprf"
	"github.com/karol-bisztyga/opaque-ke/message"
)

// Group identifies the prime-order group (or Diffie-Hellman function) used in the protocol.
type Group byte

const (
	// RistrettoSha512 identifies the Ristretto255 group with SHA-512.
	RistrettoSha512 = Group(group.Ristretto255Sha512)

	// P256Sha256 identifies the NIST P-256 group with SHA-256.
	P256Sha256 = Group(group.P256Sha256)

	// X25519 identifies the Curve25519 Diffie-Hellman function with SHA-512. It has no
	// element arithmetic and is therefore only usable as the key exchange group, not as
	// the OPRF group.
	X25519 Group = 16
)

// AvailableOPRF returns whether the identifier is a group usable for the OPRF.
func (g Group) AvailableOPRF() bool {
	return oprf.Ciphersuite(g).Available()
}

// AvailableAKE returns whether the identifier is a group usable for the key exchange.
func (g Group) AvailableAKE() bool {
	return g == X25519 || g.AvailableOPRF()
}

// OPRF returns the OPRF cipher suite for the group.
func (g Group) OPRF() oprf.Ciphersuite {
	return oprf.Ciphersuite(g)
}

func (g Group) keGroup() keygroup.Group {
	if g == X25519 {
		return keygroup.NewX25519()
	}

	return keygroup.NewEC(group.Group(g))
}

// Configuration is the mutable, self-contained representation of the protocol parameters.
// A Configuration must be identical on the client and the server.
type Configuration struct {
	KSF     ksf.Identifier
	KDF     crypto.Hash
	MAC     crypto.Hash
	Hash    crypto.Hash
	OPRF    Group
	AKE     Group
	Context []byte
}

// DefaultConfiguration returns a default configuration with strong parameters.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		OPRF:    RistrettoSha512,
		AKE:     RistrettoSha512,
		KSF:     ksf.Argon2id,
		KDF:     crypto.SHA512,
		MAC:     crypto.SHA512,
		Hash:    crypto.SHA512,
		Context: nil,
	}
}

// toInternal resolves and verifies the configuration, and fixes all lengths.
func (c *Configuration) toInternal() (*internal.Configuration, error) {
	if !c.OPRF.AvailableOPRF() {
		return nil, ErrConfiguration.Join(fmt.Errorf("invalid OPRF group identifier %d", c.OPRF))
	}

	if !c.AKE.AvailableAKE() {
		return nil, ErrConfiguration.Join(fmt.Errorf("invalid AKE group identifier %d", c.AKE))
	}

	for _, h := range []crypto.Hash{c.KDF, c.MAC, c.Hash} {
		if !h.Available() {
			return nil, ErrConfiguration.Join(fmt.Errorf("hash function %d is not available", h))
		}
	}

	g := c.AKE.keGroup()
	mac := internal.NewMac(c.MAC)
	kdf := internal.NewKDF(c.KDF)

	// Derived MAC keys are KDF outputs feeding fixed-size fields.
	if mac.Size() != kdf.Size() {
		return nil, ErrConfiguration.Join(errors.New("KDF and MAC output sizes differ"))
	}

	conf := &internal.Configuration{
		KDF:             kdf,
		MAC:             mac,
		Hash:            internal.NewHash(c.Hash),
		KSF:             internal.NewKSF(c.KSF),
		OPRF:            c.OPRF.OPRF(),
		KeGroup:         g,
		NonceLen:        internal.NonceLength,
		EnvelopeSize:    1 + internal.NonceLength + g.ScalarLength() + mac.Size(),
		OPRFPointLength: c.OPRF.OPRF().PointLength(),
		AkePointLength:  g.ElementLength(),
		AkeScalarLength: g.ScalarLength(),
		Context:         c.Context,
	}

	return conf, nil
}

// Client returns a newly instantiated Client from the Configuration.
func (c *Configuration) Client() (*Client, error) {
	return NewClient(c)
}

// Server returns a newly instantiated Server from the Configuration.
func (c *Configuration) Server() (*Server, error) {
	return NewServer(c)
}

// Serialize returns the byte encoding of the Configuration.
func (c *Configuration) Serialize() []byte {
	ids := []byte{
		byte(c.OPRF),
		byte(c.AKE),
		byte(c.KSF),
		byte(c.KDF),
		byte(c.MAC),
		byte(c.Hash),
	}

	return encoding.Concat(ids, encoding.EncodeVector(c.Context))
}

// confLength is the byte length of a serialized Configuration, without the variable context.
const confLength = 6

// DeserializeConfiguration decodes the input and returns a verified Configuration.
func DeserializeConfiguration(encoded []byte) (*Configuration, error) {
	if len(encoded) < confLength+2 {
		return nil, ErrConfiguration.Join(errors.New("encoded configuration is too short"))
	}

	ctx, offset, err := encoding.DecodeVector(encoded[confLength:])
	if err != nil {
		return nil, ErrConfiguration.Join(err)
	}

	if confLength+offset != len(encoded) {
		return nil, ErrConfiguration.Join(errors.New("invalid encoded configuration length"))
	}

	c := &Configuration{
		OPRF:    Group(encoded[0]),
		AKE:     Group(encoded[1]),
		KSF:     ksf.Identifier(encoded[2]),
		KDF:     crypto.Hash(encoded[3]),
		MAC:     crypto.Hash(encoded[4]),
		Hash:    crypto.Hash(encoded[5]),
		Context: ctx,
	}

	if _, err := c.toInternal(); err != nil {
		return nil, err
	}

	return c, nil
}

// ServerSetup holds the server's long-term key material: the OPRF key seed, the server's
// static key exchange key pair, and the seed for fake records. It is created once, at first
// server start, and must be restored identically on every subsequent start.
type ServerSetup struct {
	oprfSeed        []byte
	serverSecretKey []byte
	serverPublicKey []byte
	fakeSeed        []byte
}

// NewServerSetup returns fresh, random server key material for the Configuration.
func (c *Configuration) NewServerSetup() (*ServerSetup, error) {
	conf, err := c.toInternal()
	if err != nil {
		return nil, err
	}

	sk := conf.KeGroup.RandomScalar()

	pk, err := conf.KeGroup.PublicKey(sk)
	if err != nil {
		return nil, ErrServerKeyMaterial.Join(err)
	}

	return &ServerSetup{
		oprfSeed:        internal.RandomBytes(conf.KDF.Size()),
		serverSecretKey: sk,
		serverPublicKey: pk,
		fakeSeed:        internal.RandomBytes(internal.SeedLength),
	}, nil
}

// PublicKey returns the server's static public key, to distribute to clients out of band.
func (s *ServerSetup) PublicKey() []byte {
	return s.serverPublicKey
}

// Serialize returns the byte encoding of the server's key material, for persistent storage.
// The output is secret and must be protected accordingly.
func (s *ServerSetup) Serialize() []byte {
	return encoding.Concatenate(s.oprfSeed, s.serverSecretKey, s.serverPublicKey, s.fakeSeed)
}

// DeserializeServerSetup decodes server key material produced by ServerSetup.Serialize.
func (c *Configuration) DeserializeServerSetup(encoded []byte) (*ServerSetup, error) {
	conf, err := c.toInternal()
	if err != nil {
		return nil, err
	}

	expected := conf.KDF.Size() + conf.AkeScalarLength + conf.AkePointLength + internal.SeedLength
	if err := encoding.CheckSize(encoded, expected, "server setup"); err != nil {
		return nil, ErrServerKeyMaterial.Join(err)
	}

	seedLen := conf.KDF.Size()
	sk := encoded[seedLen : seedLen+conf.AkeScalarLength]
	pk := encoded[seedLen+conf.AkeScalarLength : seedLen+conf.AkeScalarLength+conf.AkePointLength]

	verification, err := conf.KeGroup.PublicKey(sk)
	if err != nil || subtle.ConstantTimeCompare(verification, pk) != 1 {
		return nil, ErrServerKeyMaterial.Join(errors.New("secret and public key do not match"))
	}

	return &ServerSetup{
		oprfSeed:        encoded[:seedLen],
		serverSecretKey: sk,
		serverPublicKey: pk,
		fakeSeed:        encoded[len(encoded)-internal.SeedLength:],
	}, nil
}

// ClientRecord is the server's record for a registered client: the credential identifier it
// is stored under, the optional client identity, and the registration record the client
// produced. A nil RegistrationRecord makes the server simulate a registered client, so that
// login attempts against unknown identities are indistinguishable from failed logins.
type ClientRecord struct {
	*message.RegistrationRecord
	CredentialIdentifier []byte
	ClientIdentity       []byte
}
