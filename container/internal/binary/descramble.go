package binary

import (
	"errors"
	"fmt"
	"math/bits"
)

// ErrBlockTooSmall is returned when a block cannot hold the cipher key bytes.
var ErrBlockTooSmall = errors.New("block smaller than cipher key span")

// Cipher key byte offsets, relative to block start. Key bytes are never rotated.
const (
	KeyOffsetA = 0x02
	KeyOffsetB = 0x0B
	KeyOffsetC = 0x0C

	// MinBlockSize is the smallest block that contains all key bytes.
	MinBlockSize = KeyOffsetC + 1
)

// rotateTable maps the key factor to a rotate amount. It covers every
// residue mod 5, so a lookup miss means the factor formula is wrong.
var rotateTable = [5]int{0: 7, 1: 1, 2: 6, 3: 2, 4: 5}

// RotateAmount derives the per-block rotate amount from the three key bytes.
func RotateAmount(a, b, c byte) int {
	factor := (bits.OnesCount8(a) - bits.OnesCount8(b) + bits.OnesCount8(c)) % len(rotateTable)
	if factor < 0 {
		factor += len(rotateTable)
	}
	if factor < 0 || factor >= len(rotateTable) {
		panic(fmt.Sprintf("binary: cipher factor %d outside [0,%d)", factor, len(rotateTable)))
	}
	return rotateTable[factor]
}

func isKeyOffset(i int) bool {
	return i == KeyOffsetA || i == KeyOffsetB || i == KeyOffsetC
}

// Descramble reverses the block cipher over blockSize bytes starting at the
// current position, in place. On success the reader is left at
// blockStart+blockSize; on failure the position is unchanged.
func Descramble(r *Reader, blockSize int) error {
	if blockSize < MinBlockSize {
		return r.WrapError("descramble", fmt.Errorf("%w: %d bytes", ErrBlockTooSmall, blockSize))
	}
	if r.Len()-r.Position() < blockSize {
		return r.wrapError(ErrEndOfBuffer)
	}

	a, _ := r.PeekByte(KeyOffsetA)
	b, _ := r.PeekByte(KeyOffsetB)
	c, _ := r.PeekByte(KeyOffsetC)
	n := RotateAmount(a, b, c)

	for i := 0; i < blockSize; i++ {
		var err error
		if isKeyOffset(i) {
			err = r.Skip(1)
		} else {
			err = r.RotateByte(n)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Scramble applies the block cipher to block in place. It is the inverse of
// Descramble: key bytes stay put, so both sides derive the same amount.
func Scramble(block []byte) error {
	if len(block) < MinBlockSize {
		return fmt.Errorf("%w: %d bytes", ErrBlockTooSmall, len(block))
	}
	n := RotateAmount(block[KeyOffsetA], block[KeyOffsetB], block[KeyOffsetC])
	for i := range block {
		if isKeyOffset(i) {
			continue
		}
		block[i] = bits.RotateLeft8(block[i], -n)
	}
	return nil
}
