/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

package chip8

import (
	"math/rand"
	"time"
)

/// RandomSource produces the random bytes used by RND.
///
type RandomSource interface {
	RandomByte() byte
}

/// RandomFunc adapts a plain function to a RandomSource.
///
type RandomFunc func() byte

func (f RandomFunc) RandomByte() byte {
	return f()
}

type mathRandom struct {
	r *rand.Rand
}

/// NewRandom returns a RandomSource seeded from the clock.
///
func NewRandom() RandomSource {
	return NewSeededRandom(time.Now().UnixNano())
}

/// NewSeededRandom returns a deterministic RandomSource.
///
func NewSeededRandom(seed int64) RandomSource {
	return &mathRandom{r: rand.New(rand.NewSource(seed))}
}

func (m *mathRandom) RandomByte() byte {
	return byte(m.r.Intn(256))
}
