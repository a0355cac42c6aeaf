// Package catalog holds the static data tables that drive generation:
// tile definitions and their terrain/mechanical flags, dungeon features
// (paintbrush propagation effects), blueprints (machine templates), the
// machine features a blueprint places, and autogenerators (depth-scaled
// machine/DF spawners run automatically each level). None of it depends on
// a particular grid instance — it is pure reference data, analogous to the
// teacher's theme/content tables.
package catalog
