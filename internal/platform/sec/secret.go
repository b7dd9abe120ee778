// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// HashSecret hashes a short-lived secret (a confirmation code) with bcrypt.
func HashSecret(plainText string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainText), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash secret: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckSecret compares a plain-text secret with its bcrypt hash.
// An empty hash never matches.
func CheckSecret(plainText, existingHash string) bool {
	if existingHash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainText))
	return err == nil
}

// GenerateCode returns a random string of the given length drawn uniformly from alphabet.
func GenerateCode(length int, alphabet string) (string, error) {
	if length <= 0 || alphabet == "" {
		return "", errors.New("sec: invalid code shape")
	}

	limit := big.NewInt(int64(len(alphabet)))
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("sec: failed to read random source: %w", err)
		}
		code[i] = alphabet[n.Int64()]
	}

	return string(code), nil
}
