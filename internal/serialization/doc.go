// Package serialization saves and loads named float64 arrays, such as the
// parameters of a trained network, in the .mnpy checkpoint format:
//
//	Format Structure:
//	  [4 bytes: Magic "MNPY"]
//	  [4 bytes: Version (uint32 LE)]
//	  [4 bytes: Flags (uint32 LE)]
//	  [4 bytes: reserved]
//	  [8 bytes: Header Size (uint64 LE)]
//	  [8 bytes: Data Size (uint64 LE)]
//	  [32 bytes: SHA-256 of the data section]
//	  [Header: JSON metadata]
//	  [Array data: float64 LE, 64-byte aligned]
//
// Example usage:
//
//	err := serialization.Save("net.mnpy", serialization.StateDict{"W1": w1}, serialization.Header{Kind: "TwoLayerNet"})
//
//	state, header, err := serialization.Load("net.mnpy")
package serialization
