// Package feature implements the dungeon-feature spawner: a
// probability-decayed flood fill that paints terrain (grass patches, blood
// splatters, flooding, wall cracks, gas jets) outward from a seed cell,
// optionally chaining into a subsequent feature (spec §4.7).
package feature
