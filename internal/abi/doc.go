// Package abi provides internal arithmetic helpers for layout computation.
//
// # Contents
//
//   - align.go: power-of-two checks, offset rounding and padding counts
//   - count.go: discriminant and flags sizes for the canonical ABI
package abi
