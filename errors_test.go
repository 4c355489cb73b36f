// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package opaque_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	opaque "github.com/karol-bisztyga/opaque-ke"
)

func TestError_CodeMatching(t *testing.T) {
	server, err := opaque.DefaultConfiguration().Server()
	if err != nil {
		t.Fatalf(dbgErr, err)
	}

	_, err = server.Deserialize.KE2([]byte("invalid"))
	if err == nil {
		t.Fatal("expected error")
	}

	if !errors.Is(err, opaque.ErrKE2) {
		t.Error("expected errors.Is(err, ErrKE2) to be true")
	}

	if !errors.Is(err, opaque.ErrCodeMessage) {
		t.Error("expected errors.Is(err, ErrCodeMessage) to be true")
	}

	if errors.Is(err, opaque.ErrCodeInvalidLogin) {
		t.Error("expected errors.Is(err, ErrCodeInvalidLogin) to be false")
	}

	var code opaque.ErrorCode
	if !errors.As(err, &code) || code != opaque.ErrCodeMessage {
		t.Errorf("expected code %v, got %v", opaque.ErrCodeMessage, code)
	}

	var protocolErr *opaque.Error
	if !errors.As(err, &protocolErr) {
		t.Fatal("expected errors.As(err, **Error) to be true")
	}

	if protocolErr.Code != opaque.ErrCodeMessage {
		t.Errorf("expected code %v, got %v", opaque.ErrCodeMessage, protocolErr.Code)
	}
}

func TestError_Format(t *testing.T) {
	err := opaque.ErrCodeMessage.New("something went wrong", errors.New("the cause"))

	if got := fmt.Sprintf("%s", err); got != "something went wrong" {
		t.Errorf("unexpected %%s output: %q", got)
	}

	if got := fmt.Sprintf("%q", err); got != `"something went wrong"` {
		t.Errorf("unexpected %%q output: %q", got)
	}

	verbose := fmt.Sprintf("%+v", err)
	if !strings.Contains(verbose, "message_error") || !strings.Contains(verbose, "the cause") {
		t.Errorf("unexpected %%+v output: %q", verbose)
	}
}

func TestError_CauseNotInMessage(t *testing.T) {
	cause := errors.New("the secret cause")
	err := opaque.ErrInvalidLogin.Join(cause)

	if strings.Contains(err.Error(), cause.Error()) {
		t.Error("the error message leaks its cause")
	}

	if !errors.Is(err, cause) {
		t.Error("the cause is not reachable through Unwrap")
	}
}

func TestErrorCode_String(t *testing.T) {
	if opaque.ErrCodeInvalidLogin.String() != "invalid_login_error" {
		t.Errorf("unexpected string: %q", opaque.ErrCodeInvalidLogin)
	}

	if opaque.ErrorCode(222).String() != "unknown_error" {
		t.Errorf("unexpected string: %q", opaque.ErrorCode(222))
	}
}
