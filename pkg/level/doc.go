// Package level holds the Cell and Level data model of spec §3: a
// DCOLS x DROWS grid of four-layer cells carrying catalog tile ids, a
// runtime flag bitset, and the per-level machine numbering.
package level
