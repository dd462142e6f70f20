package interpreter

import "math/bits"

func rotL64(x, s uint64) uint64 { return bits.RotateLeft64(x, int(s%64)) }
func rotR64(x, s uint64) uint64 { return bits.RotateLeft64(x, -int(s%64)) }
func rotL32(x, s uint64) uint64 { return sext32(uint64(bits.RotateLeft32(uint32(x), int(s%32)))) }
func rotR32(x, s uint64) uint64 { return sext32(uint64(bits.RotateLeft32(uint32(x), -int(s%32)))) }
