// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package opaque_test

import (
	"bytes"
	"crypto"
	"errors"
	"testing"

	"github.com/go-test/deep"

	opaque "github.com/karol-bisztyga/opaque-ke"
)

func TestConfiguration_Serialization(t *testing.T) {
	testAll(t, func(t2 *testing.T, conf *configuration) {
		encoded := conf.conf.Serialize()

		decoded, err := opaque.DeserializeConfiguration(encoded)
		if err != nil {
			t2.Fatalf(dbgErr, err)
		}

		if diff := deep.Equal(conf.conf, decoded); diff != nil {
			t2.Error(diff)
		}
	})
}

func TestConfiguration_Deserialization_Short(t *testing.T) {
	if _, err := opaque.DeserializeConfiguration(nil); !errors.Is(err, opaque.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}

	if _, err := opaque.DeserializeConfiguration([]byte{1, 2, 3}); !errors.Is(err, opaque.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestConfiguration_Deserialization_Invalid(t *testing.T) {
	encoded := opaque.DefaultConfiguration().Serialize()
	encoded[0] = byte(opaque.X25519) // not usable as the OPRF group

	if _, err := opaque.DeserializeConfiguration(encoded); !errors.Is(err, opaque.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration, got %v", err)
	}
}

func TestConfiguration_Invalid(t *testing.T) {
	tests := []struct {
		modify func(c *opaque.Configuration)
		name   string
	}{
		{
			name:   "X25519 as OPRF group",
			modify: func(c *opaque.Configuration) { c.OPRF = opaque.X25519 },
		},
		{
			name:   "unknown OPRF group",
			modify: func(c *opaque.Configuration) { c.OPRF = opaque.Group(99) },
		},
		{
			name:   "unknown AKE group",
			modify: func(c *opaque.Configuration) { c.AKE = opaque.Group(99) },
		},
		{
			name:   "unavailable KDF",
			modify: func(c *opaque.Configuration) { c.KDF = crypto.Hash(0) },
		},
		{
			name:   "unavailable MAC",
			modify: func(c *opaque.Configuration) { c.MAC = crypto.Hash(0) },
		},
		{
			name:   "unavailable hash",
			modify: func(c *opaque.Configuration) { c.Hash = crypto.Hash(0) },
		},
		{
			name:   "KDF and MAC output sizes differ",
			modify: func(c *opaque.Configuration) { c.MAC = crypto.SHA256 },
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t2 *testing.T) {
			conf := opaque.DefaultConfiguration()
			test.modify(conf)

			if _, err := conf.Client(); !errors.Is(err, opaque.ErrConfiguration) {
				t2.Errorf("client: expected ErrConfiguration, got %v", err)
			}

			if _, err := conf.Server(); !errors.Is(err, opaque.ErrConfiguration) {
				t2.Errorf("server: expected ErrConfiguration, got %v", err)
			}

			if _, err := conf.NewServerSetup(); !errors.Is(err, opaque.ErrConfiguration) {
				t2.Errorf("setup: expected ErrConfiguration, got %v", err)
			}
		})
	}
}

func TestServerSetup_Serialization(t *testing.T) {
	testAll(t, func(t2 *testing.T, conf *configuration) {
		setup, err := conf.conf.NewServerSetup()
		if err != nil {
			t2.Fatalf(dbgErr, err)
		}

		encoded := setup.Serialize()

		decoded, err := conf.conf.DeserializeServerSetup(encoded)
		if err != nil {
			t2.Fatalf(dbgErr, err)
		}

		if !bytes.Equal(setup.PublicKey(), decoded.PublicKey()) {
			t2.Error("public keys differ after round trip")
		}

		if !bytes.Equal(encoded, decoded.Serialize()) {
			t2.Error("serialization differs after round trip")
		}
	})
}

func TestServerSetup_Deserialization_Invalid(t *testing.T) {
	testAll(t, func(t2 *testing.T, conf *configuration) {
		setup, err := conf.conf.NewServerSetup()
		if err != nil {
			t2.Fatalf(dbgErr, err)
		}

		// Wrong length.
		if _, err = conf.conf.DeserializeServerSetup([]byte("too short")); !errors.Is(err, opaque.ErrServerKeyMaterial) {
			t2.Errorf("expected ErrServerKeyMaterial, got %v", err)
		}

		// Mismatched key pair.
		encoded := setup.Serialize()
		encoded[len(encoded)-33] ^= 1 // last byte of the public key

		if _, err = conf.conf.DeserializeServerSetup(encoded); !errors.Is(err, opaque.ErrServerKeyMaterial) {
			t2.Errorf("expected ErrServerKeyMaterial, got %v", err)
		}
	})
}

// TestServerSetup_Restored verifies that key material restored from its serialization can
// finish a login for a registration made with the original.
func TestServerSetup_Restored(t *testing.T) {
	testAll(t, func(t2 *testing.T, conf *configuration) {
		p := newTestParams(t2, conf.conf, []byte("1234"))
		record, _ := testRegistration(t2, p, opaque.ClientRegistrationFinalizeOptions{})

		restored, err := conf.conf.DeserializeServerSetup(p.setup.Serialize())
		if err != nil {
			t2.Fatalf(dbgErr, err)
		}

		p.setup = restored
		testAuthentication(t2, p, record, opaque.GenerateKE3Options{})
	})
}
