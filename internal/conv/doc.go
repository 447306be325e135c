// Package conv provides overflow-checked integer arithmetic and conversions
// used when scaling workload parameters and computing arena offsets.
package conv
