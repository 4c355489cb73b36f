// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package opaque implements the client and server roles of the OPAQUE asymmetric
// password-authenticated key exchange protocol.
//
// OPAQUE registers and authenticates clients over their password without the server ever
// learning that password, and produces a fresh shared session key on every successful login.
// The client additionally recovers a stable export key, known only to itself, that it can
// use to protect data at rest.
//
// For protocol details, please refer to the IETF protocol document
// https://datatracker.ietf.org/doc/draft-irtf-cfrg-opaque.
package opaque
