// Package carving rasterizes the coarse room-and-corridor topology onto the
// level grid and then finishes it: wall/granite promotion, diagonal-opening
// removal, door classification, lake placement and filling, and bridge
// spanning (spec §4.2–§4.5).
package carving
