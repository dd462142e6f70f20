package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/jam-duna/jampvm/pvm/pvmtypes"
)

const hashPrefix = "hash:"

// readBlob resolves a program argument: 0x-prefixed hex, hash:<hex> for a
// blob in the program store, or a file path.
func (a *app) readBlob(arg string) ([]byte, error) {
	switch {
	case strings.HasPrefix(arg, "0x"):
		return hexutil.Decode(arg)
	case strings.HasPrefix(arg, hashPrefix):
		h := strings.TrimPrefix(arg, hashPrefix)
		if _, err := hexutil.Decode(h); err != nil || len(h) != 2+2*common.HashLength {
			return nil, fmt.Errorf("bad program hash %q", h)
		}
		s, err := a.openStore()
		if err != nil {
			return nil, err
		}
		return s.Get(common.HexToHash(h))
	}
	return os.ReadFile(arg)
}

// parseHexBytes accepts an empty string as no bytes.
func parseHexBytes(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	return hexutil.Decode(s)
}

// parseRegs reads "idx=value" pairs, value in decimal or 0x hex.
func parseRegs(pairs []string) ([pvmtypes.NumRegisters]uint64, error) {
	var regs [pvmtypes.NumRegisters]uint64
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			return regs, fmt.Errorf("register %q: want idx=value", p)
		}
		idx, err := strconv.Atoi(k)
		if err != nil || idx < 0 || idx >= pvmtypes.NumRegisters {
			return regs, fmt.Errorf("register %q: index must be 0..%d", p, pvmtypes.NumRegisters-1)
		}
		val, err := strconv.ParseUint(v, 0, 64)
		if err != nil {
			return regs, fmt.Errorf("register %q: %w", p, err)
		}
		regs[idx] = val
	}
	return regs, nil
}
