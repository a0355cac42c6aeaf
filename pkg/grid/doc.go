// Package grid provides the primitive 2-D integer array pool and flood-fill
// helper that every other generation package builds on: allocation, bulk
// fill, bounds-checked access, and a cardinal-neighbor flood fill over a
// caller-supplied passability predicate.
package grid
