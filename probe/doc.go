// Package probe validates concrete bytes in WebAssembly linear memory
// against layouts.
//
// A layout says which bytes must be initialized or non-zero; a Prober reads
// the bytes at an address through a typelayout.Memory and reports the first
// violation as an *errors.Error in errors.PhaseProbe:
//
//	mem := probe.WrapMemory(mod.ExportedMemory("memory"))
//	p := probe.New(mem, probe.Options{})
//	if err := p.Check(addr, hdr); err != nil {
//	    // out of bounds, misaligned, or a zero byte where NonZero is required
//	}
//	err = p.Zero(addr, hdr) // fails with KindNotZeroable for padded types
//
// Uninit bytes cannot be observed in memory, so Check treats every byte as
// initialized.
package probe
