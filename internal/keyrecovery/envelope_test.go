// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package keyrecovery_test

import (
	"bytes"
	"crypto"
	"errors"
	"testing"

	group "github.com/bytemare/crypto"

	"github.com/karol-bisztyga/opaque-ke/internal"
	"github.com/karol-bisztyga/opaque-ke/internal/keygroup"
	"github.com/karol-bisztyga/opaque-ke/internal/keyrecovery"
	"github.com/karol-bisztyga/opaque-ke/internal/oprf"
)

func testConfiguration() *internal.Configuration {
	g := keygroup.NewEC(group.Ristretto255Sha512)
	mac := internal.NewMac(crypto.SHA512)

	return &internal.Configuration{
		KDF:             internal.NewKDF(crypto.SHA512),
		MAC:             mac,
		Hash:            internal.NewHash(crypto.SHA512),
		KSF:             internal.NewKSF(0),
		OPRF:            oprf.RistrettoSha512,
		KeGroup:         g,
		NonceLen:        internal.NonceLength,
		EnvelopeSize:    1 + internal.NonceLength + g.ScalarLength() + mac.Size(),
		OPRFPointLength: 32,
		AkePointLength:  g.ElementLength(),
		AkeScalarLength: g.ScalarLength(),
		Context:         nil,
	}
}

func testKeys(t *testing.T, conf *internal.Configuration) (sk, pk []byte) {
	sk = conf.KeGroup.RandomScalar()

	pk, err := conf.KeGroup.PublicKey(sk)
	if err != nil {
		t.Fatalf("%v", err)
	}

	return sk, pk
}

func TestStoreRecover(t *testing.T) {
	conf := testConfiguration()
	randomizedPwd := internal.RandomBytes(conf.KDF.Size())
	clientSecretKey, serverPublicKey := testKeys(t, conf)

	for _, mode := range []keyrecovery.Mode{keyrecovery.Base, keyrecovery.CustomIdentifier} {
		var clientIdentity, serverIdentity []byte
		if mode == keyrecovery.CustomIdentifier {
			clientIdentity = []byte("client")
			serverIdentity = []byte("server")
		}

		envelope, exportKey := keyrecovery.Store(
			conf, randomizedPwd, mode, clientSecretKey, serverPublicKey, clientIdentity, serverIdentity, nil,
		)

		if len(envelope.Serialize()) != conf.EnvelopeSize {
			t.Fatalf("mode %v: unexpected envelope size %d", mode, len(envelope.Serialize()))
		}

		sk, pk, export, err := keyrecovery.Recover(
			conf, randomizedPwd, mode, serverPublicKey, clientIdentity, serverIdentity, envelope,
		)
		if err != nil {
			t.Fatalf("mode %v: %v", mode, err)
		}

		if !bytes.Equal(sk, clientSecretKey) {
			t.Errorf("mode %v: recovered secret key differs", mode)
		}

		expectedPK, err := conf.KeGroup.PublicKey(clientSecretKey)
		if err != nil {
			t.Fatalf("%v", err)
		}

		if !bytes.Equal(pk, expectedPK) {
			t.Errorf("mode %v: recovered public key differs", mode)
		}

		if !bytes.Equal(export, exportKey) {
			t.Errorf("mode %v: export keys differ", mode)
		}
	}
}

func TestRecover_WrongPassword(t *testing.T) {
	conf := testConfiguration()
	clientSecretKey, serverPublicKey := testKeys(t, conf)
	randomizedPwd := internal.RandomBytes(conf.KDF.Size())

	envelope, _ := keyrecovery.Store(
		conf, randomizedPwd, keyrecovery.Base, clientSecretKey, serverPublicKey, nil, nil, nil,
	)

	otherPwd := internal.RandomBytes(conf.KDF.Size())

	_, _, _, err := keyrecovery.Recover(
		conf, otherPwd, keyrecovery.Base, serverPublicKey, nil, nil, envelope,
	)
	if !errors.Is(err, keyrecovery.ErrEnvelopeAuthTag) {
		t.Errorf("expected ErrEnvelopeAuthTag, got %v", err)
	}
}

func TestRecover_WrongIdentities(t *testing.T) {
	conf := testConfiguration()
	clientSecretKey, serverPublicKey := testKeys(t, conf)
	randomizedPwd := internal.RandomBytes(conf.KDF.Size())

	envelope, _ := keyrecovery.Store(
		conf, randomizedPwd, keyrecovery.CustomIdentifier,
		clientSecretKey, serverPublicKey, []byte("client"), []byte("server"), nil,
	)

	_, _, _, err := keyrecovery.Recover(
		conf, randomizedPwd, keyrecovery.CustomIdentifier,
		serverPublicKey, []byte("not the client"), []byte("server"), envelope,
	)
	if !errors.Is(err, keyrecovery.ErrEnvelopeAuthTag) {
		t.Errorf("expected ErrEnvelopeAuthTag, got %v", err)
	}
}

func TestRecover_ModeMismatch(t *testing.T) {
	conf := testConfiguration()
	clientSecretKey, serverPublicKey := testKeys(t, conf)
	randomizedPwd := internal.RandomBytes(conf.KDF.Size())

	envelope, _ := keyrecovery.Store(
		conf, randomizedPwd, keyrecovery.Base, clientSecretKey, serverPublicKey, nil, nil, nil,
	)

	_, _, _, err := keyrecovery.Recover(
		conf, randomizedPwd, keyrecovery.CustomIdentifier,
		serverPublicKey, []byte("client"), []byte("server"), envelope,
	)
	if !errors.Is(err, keyrecovery.ErrIncompatibleEnvelopeMode) {
		t.Errorf("expected ErrIncompatibleEnvelopeMode, got %v", err)
	}
}

func TestEnvelope_Serialization(t *testing.T) {
	conf := testConfiguration()
	clientSecretKey, serverPublicKey := testKeys(t, conf)
	randomizedPwd := internal.RandomBytes(conf.KDF.Size())

	envelope, _ := keyrecovery.Store(
		conf, randomizedPwd, keyrecovery.Base, clientSecretKey, serverPublicKey, nil, nil, nil,
	)

	encoded := envelope.Serialize()

	decoded, err := keyrecovery.DeserializeEnvelope(conf, encoded)
	if err != nil {
		t.Fatalf("%v", err)
	}

	if !bytes.Equal(encoded, decoded.Serialize()) {
		t.Error("serialization differs after round trip")
	}

	// Tampered mode byte.
	tampered := append([]byte(nil), encoded...)
	tampered[0] = 99

	if _, err = keyrecovery.DeserializeEnvelope(conf, tampered); err == nil {
		t.Error("expected error on invalid mode")
	}

	// Wrong length.
	if _, err = keyrecovery.DeserializeEnvelope(conf, encoded[:len(encoded)-1]); err == nil {
		t.Error("expected error on wrong length")
	}
}

func TestStore_FixedNonce(t *testing.T) {
	conf := testConfiguration()
	clientSecretKey, serverPublicKey := testKeys(t, conf)
	randomizedPwd := internal.RandomBytes(conf.KDF.Size())
	nonce := internal.RandomBytes(conf.NonceLen)

	envelope1, export1 := keyrecovery.Store(
		conf, randomizedPwd, keyrecovery.Base, clientSecretKey, serverPublicKey, nil, nil, nonce,
	)
	envelope2, export2 := keyrecovery.Store(
		conf, randomizedPwd, keyrecovery.Base, clientSecretKey, serverPublicKey, nil, nil, nonce,
	)

	if !bytes.Equal(envelope1.Serialize(), envelope2.Serialize()) {
		t.Error("envelopes differ for a fixed nonce")
	}

	if !bytes.Equal(export1, export2) {
		t.Error("export keys differ for a fixed nonce")
	}
}
