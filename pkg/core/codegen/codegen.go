// Package codegen produces random short codes over the base62 alphabet.
package codegen

import (
	"fmt"
	"regexp"

	nanoid "github.com/jaevor/go-nanoid"
)

// Alphabet is the 62-symbol alphabet codes are drawn from.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// DefaultLength is the length of generated codes.
const DefaultLength = 6

// nanoid rejects lengths below 2 and never returns for lengths below 5,
// so shorter codes are cut from a longer draw.
const minDrawLength = 5

var codePattern = regexp.MustCompile(`^[A-Za-z0-9]{6,8}$`)

// Generator draws codes of a fixed length uniformly from Alphabet.
type Generator struct {
	length int
	next   func() string
}

// New returns a Generator for codes of the given length.
func New(length int) (*Generator, error) {
	if length <= 0 {
		return nil, fmt.Errorf("code length must be positive, got %d", length)
	}
	next, err := nanoid.CustomASCII(Alphabet, max(length, minDrawLength))
	if err != nil {
		return nil, fmt.Errorf("init code generator: %w", err)
	}
	return &Generator{length: length, next: next}, nil
}

// Generate returns a fresh random code. Uniqueness is not guaranteed.
func (g *Generator) Generate() string {
	return g.next()[:g.length]
}

// Length reports the length of codes produced by g.
func (g *Generator) Length() int {
	return g.length
}

// IsValid reports whether code has the accepted format: 6 to 8 characters of [A-Za-z0-9].
func IsValid(code string) bool {
	return codePattern.MatchString(code)
}
