// Copyright (c) 2026 Tasko. All rights reserved.
// Author: rui.mcarvalho.dev@gmail.com

package googleid

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
)

// keySet maps a JWKS key ID to its RSA public key.
type keySet map[string]*rsa.PublicKey

// jsonWebKey is the subset of RFC 7517 fields needed for RS256 verification.
type jsonWebKey struct {
	KeyType  string `json:"kty"`
	KeyID    string `json:"kid"`
	Use      string `json:"use"`
	Modulus  string `json:"n"`
	Exponent string `json:"e"`
}

// parseKeySet decodes a JWKS document into usable RSA public keys.
//
// Non-RSA entries are skipped; a document yielding zero usable keys is an error.
func parseKeySet(document string) (keySet, error) {
	var payload struct {
		Keys []jsonWebKey `json:"keys"`
	}

	if err := json.Unmarshal([]byte(document), &payload); err != nil {
		return nil, fmt.Errorf("googleid: malformed jwks document: %w", err)
	}

	keys := make(keySet, len(payload.Keys))
	for _, key := range payload.Keys {
		if key.KeyType != "RSA" || key.KeyID == "" {
			continue
		}

		publicKey, err := decodeRSAKey(key)
		if err != nil {
			continue
		}

		keys[key.KeyID] = publicKey
	}

	if len(keys) == 0 {
		return nil, errors.New("googleid: jwks document contains no usable RSA keys")
	}

	return keys, nil
}

// decodeRSAKey converts base64url modulus/exponent fields into an [rsa.PublicKey].
func decodeRSAKey(key jsonWebKey) (*rsa.PublicKey, error) {
	modulusBytes, err := base64.RawURLEncoding.DecodeString(key.Modulus)
	if err != nil {
		return nil, fmt.Errorf("googleid: decode modulus: %w", err)
	}

	exponentBytes, err := base64.RawURLEncoding.DecodeString(key.Exponent)
	if err != nil {
		return nil, fmt.Errorf("googleid: decode exponent: %w", err)
	}

	exponent := 0
	for _, b := range exponentBytes {
		exponent = exponent<<8 | int(b)
	}
	if exponent <= 1 {
		return nil, errors.New("googleid: invalid public exponent")
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(modulusBytes),
		E: exponent,
	}, nil
}
