// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package game

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6

	// codeAttempts bounds the random draw before falling back to a
	// timestamp-suffixed code, which is unique as long as two rooms are
	// not created in the same hundredth of a second after 100 straight
	// collisions each.
	codeAttempts = 100
)

func randomCode(rng *rand.Rand) string {
	var b strings.Builder
	b.Grow(codeLength)
	for i := 0; i < codeLength; i++ {
		b.WriteByte(codeAlphabet[rng.IntN(len(codeAlphabet))])
	}
	return b.String()
}

// uniqueCode draws codes until one is unused, falling back to a suffixed
// code after codeAttempts collisions. Caller holds the registry write lock.
func (g *Registry) uniqueCode() string {
	for i := 0; i < codeAttempts; i++ {
		code := randomCode(g.rng)
		if _, exists := g.rooms[code]; !exists {
			return code
		}
	}
	base := randomCode(g.rng)
	return fmt.Sprintf("%s%02d", base, g.now().UnixMilli()/10%100)
}
