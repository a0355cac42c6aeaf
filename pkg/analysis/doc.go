// Package analysis computes map-wide connectivity metadata consumed by
// later stages of the pipeline: chokepoints and gate sites for machine
// origin selection (spec §4.8), Dijkstra distance maps for machine
// interior growth and monster-AI waypoints, a coarse field-of-view mask,
// and the stair-placement predicate (spec §4.9).
package analysis
