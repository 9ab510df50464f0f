// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package requestutil reads bodies, path parameters and the authenticated
// caller from incoming requests. Every failure is already an
// [apperr.AppError].
package requestutil

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xcalibur215/mmhub/internal/platform/apperr"
	"github.com/xcalibur215/mmhub/internal/platform/ctxutil"
	"github.com/xcalibur215/mmhub/internal/platform/sec"
	"github.com/xcalibur215/mmhub/internal/platform/validate"
	"github.com/xcalibur215/mmhub/pkg/uuid"
)

// maxBodyBytes caps every decoded request body.
const maxBodyBytes = 1 << 20

// # Bodies

// DecodeJSON decodes the body into target, answering [validate.ErrInvalidJSON]
// for malformed or oversized input.
func DecodeJSON(request *http.Request, target any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, request.Body, maxBodyBytes))
	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

// IsForm reports a urlencoded or multipart body.
func IsForm(request *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(request.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		return true
	}
	return false
}

// FormValues parses a form body and returns fields; absent ones map to "".
func FormValues(request *http.Request, fields ...string) (map[string]string, error) {
	request.Body = http.MaxBytesReader(nil, request.Body, maxBodyBytes)
	if err := request.ParseForm(); err != nil {
		return nil, apperr.ValidationError("Request body is not a valid form")
	}

	values := make(map[string]string, len(fields))
	for _, field := range fields {
		values[field] = request.PostFormValue(field)
	}
	return values, nil
}

// # Path

// UUIDParam returns the chi path parameter name, rejecting anything that is
// not a UUID with a 400.
func UUIDParam(request *http.Request, name string) (string, error) {
	value := chi.URLParam(request, name)
	if uuid.Valid(value) {
		return value, nil
	}
	return "", apperr.ValidationError("Invalid identifier",
		apperr.FieldError{Field: name, Message: "must be a valid UUID"})
}

// # Caller

// RequiredIdentity returns the resolved caller or a 401.
func RequiredIdentity(request *http.Request) (*sec.Identity, error) {
	if identity := ctxutil.GetIdentity(request.Context()); identity != nil {
		return identity, nil
	}
	return nil, apperr.Unauthorized("Authentication required")
}

// RequiredUserID is [RequiredIdentity] reduced to the account ID.
func RequiredUserID(request *http.Request) (string, error) {
	identity, err := RequiredIdentity(request)
	if err != nil {
		return "", err
	}
	return identity.ID, nil
}
