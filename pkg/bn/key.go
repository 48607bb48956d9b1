package bn

import (
	"fmt"
	"math/big"
)

// SpaceKey encodes space into an arbitrary-precision integer unique with
// respect to net: two bits per network variable (00 free, 10 zero, 11 one),
// ordered by each variable's Index. The key doubles as a total, deterministic
// ordering on subspaces (smaller keys first), which SD-Graph relies on to
// guarantee reproducible iteration order.
func SpaceKey(net *Network, space Subspace) (*big.Int, error) {
	key := new(big.Int)
	bits := new(big.Int)
	for name, val := range space {
		idx, ok := net.Index(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownVariable, name)
		}
		bits.SetInt64(int64(val) + 2)
		bits.Lsh(bits, uint(2*idx))
		key.Or(key, bits)
	}
	return key, nil
}
