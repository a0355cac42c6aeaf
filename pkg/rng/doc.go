// Package rng provides the deterministic random number stream consumed by
// every generation stage. All procedures used during level generation draw
// from a single "substantive" stream so that a given seed and depth always
// produce the same level; cosmetic-only choices (item flavor text, color
// variation) draw from a separate "cosmetic" stream so that they never
// perturb the substantive sequence.
package rng
