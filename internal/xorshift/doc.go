// Package xorshift provides the deterministic pseudo-random generator that
// drives every workload.
//
// The generator is a plain 64-bit xorshift (13, 7, 17). It has no external
// entropy: for a fixed seed the sequence returned by Next is bit-identical
// across runs and platforms, which is what makes the workloads reproducible.
//
// A Generator is not safe for concurrent use. Concurrent workers each own a
// generator seeded with baseSeed+workerID.
package xorshift
