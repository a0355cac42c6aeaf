package export

import (
	"bytes"
	"fmt"
	"sort"

	svg "github.com/ajstarks/svgo"

	"github.com/dshills/dungeonkeep/pkg/catalog"
	"github.com/dshills/dungeonkeep/pkg/dungeon"
	"github.com/dshills/dungeonkeep/pkg/grid"
	"github.com/dshills/dungeonkeep/pkg/level"
)

// SVGOptions configures tile-grid visualization export, adapted from the
// teacher's room-graph SVGOptions to a per-cell renderer (spec §3's tile
// grid rather than a room/edge graph).
type SVGOptions struct {
	CellSize    int    // Pixel size of one grid cell (default: 12)
	Margin      int    // Canvas margin in pixels (default: 20)
	ShowLegend  bool   // Show a tile-color legend
	ShowStairs  bool   // Mark up/down stairs cells
	ShowMachine bool   // Outline cells claimed by a machine
	Title       string // Optional title for the visualization
}

// DefaultSVGOptions returns sensible default SVG export options.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		CellSize:    12,
		Margin:      20,
		ShowLegend:  true,
		ShowStairs:  true,
		ShowMachine: true,
		Title:       "Generated Level",
	}
}

// tileColors maps the tile IDs a level is likely to contain to a fill
// color. IDs with no entry fall back to tileColorFallback.
var tileColors = map[catalog.TileID]string{
	catalog.NothingID:         "#000000",
	catalog.GraniteID:         "#0d0d12",
	catalog.WallID:            "#3a3a4a",
	catalog.FloorID:           "#2d3748",
	catalog.DoorID:            "#8b5a2b",
	catalog.SecretDoorID:      "#5a4a3a",
	catalog.LockedDoorID:      "#a06b2b",
	catalog.BridgeID:          "#7a5230",
	catalog.BridgeEdgeID:      "#6a4526",
	catalog.DeepWaterID:       "#1a3a6b",
	catalog.ShallowWaterID:    "#2a5a9b",
	catalog.LavaID:            "#c0391f",
	catalog.ObsidianBridgeID:  "#4a2a1a",
	catalog.ChasmID:           "#000510",
	catalog.ChasmEdgeID:       "#0a1020",
	catalog.BrimstoneID:       "#8b2f12",
	catalog.GrassID:           "#2f6b3a",
	catalog.BloodID:           "#6b1f1f",
	catalog.CarpetID:          "#6b2f5a",
	catalog.RubbleID:          "#4a4a3a",
	catalog.StatueID:          "#7a7a8a",
	catalog.UpStairsID:        "#e2c044",
	catalog.DownStairsID:      "#e2c044",
	catalog.DungeonPortalID:   "#9b4ae2",
	catalog.DungeonExitID:     "#4ae29b",
	catalog.TorchWallID:       "#e28a2a",
	catalog.LeverID:           "#c0c0c0",
	catalog.LeverWallID:       "#8a8a8a",
	catalog.AltarID:           "#d4af37",
	catalog.PressurePlateID:   "#606060",
}

const tileColorFallback = "#ff00ff"

func colorFor(id catalog.TileID) string {
	if c, ok := tileColors[id]; ok {
		return c
	}
	return tileColorFallback
}

// ExportSVG renders artifact's level as a flat-shaded tile grid (each
// cell drawn with its HighestPriorityTile color), optionally with a
// legend and stairs/machine markers.
func ExportSVG(artifact *dungeon.Artifact, opts SVGOptions) ([]byte, error) {
	if artifact == nil {
		return nil, fmt.Errorf("artifact cannot be nil")
	}
	if artifact.Level == nil {
		return nil, fmt.Errorf("artifact must contain a level")
	}
	if opts.CellSize <= 0 {
		opts.CellSize = 12
	}
	if opts.Margin <= 0 {
		opts.Margin = 20
	}

	lv := artifact.Level
	legendWidth := 0
	seen := map[catalog.TileID]bool{}
	if opts.ShowLegend {
		legendWidth = 160
	}

	width := lv.Width*opts.CellSize + 2*opts.Margin + legendWidth
	height := lv.Height*opts.CellSize + 2*opts.Margin
	if opts.Title != "" {
		height += 30
	}

	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:#0b0b12")

	top := opts.Margin
	if opts.Title != "" {
		canvas.Text(opts.Margin, opts.Margin, opts.Title,
			"font-size:16px;font-weight:bold;fill:#e2e8f0;font-family:sans-serif")
		top += 30
	}

	lv.ForEach(func(x, y int, c *level.Cell) {
		id := c.HighestPriorityTile().ID
		seen[id] = true
		px := opts.Margin + x*opts.CellSize
		py := top + y*opts.CellSize
		canvas.Rect(px, py, opts.CellSize, opts.CellSize, fmt.Sprintf("fill:%s", colorFor(id)))
		if opts.ShowMachine && c.MachineNumber != 0 {
			canvas.Rect(px, py, opts.CellSize, opts.CellSize,
				"fill:none;stroke:#f6e05e;stroke-width:1;opacity:0.6")
		}
	})

	if opts.ShowStairs {
		drawStairMarker(canvas, artifact.DownStairs, opts, top, "#e53e3e")
		drawStairMarker(canvas, artifact.UpStairs, opts, top, "#38a169")
	}

	if opts.ShowLegend {
		drawLegend(canvas, seen, opts, top, lv.Width*opts.CellSize+opts.Margin*2)
	}

	canvas.End()
	return buf.Bytes(), nil
}

func drawStairMarker(canvas *svg.SVG, p grid.Point, opts SVGOptions, top int, color string) {
	cx := opts.Margin + p.X*opts.CellSize + opts.CellSize/2
	cy := top + p.Y*opts.CellSize + opts.CellSize/2
	canvas.Circle(cx, cy, opts.CellSize/3, fmt.Sprintf("fill:none;stroke:%s;stroke-width:2", color))
}

// drawLegend lists every tile ID actually present in the level, in
// ascending ID order, for deterministic output across identical runs.
func drawLegend(canvas *svg.SVG, seen map[catalog.TileID]bool, opts SVGOptions, top, legendX int) {
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)

	y := top
	for _, id := range ids {
		tid := catalog.TileID(id)
		canvas.Rect(legendX, y, 12, 12, fmt.Sprintf("fill:%s", colorFor(tid)))
		name := catalog.Get(tid).Name
		canvas.Text(legendX+18, y+10, name, "font-size:11px;fill:#cbd5e0;font-family:monospace")
		y += 16
	}
}

// SaveSVGToFile renders artifact to SVG and writes it to filepath with
// 0644 permissions.
func SaveSVGToFile(artifact *dungeon.Artifact, filepath string, opts SVGOptions) error {
	data, err := ExportSVG(artifact, opts)
	if err != nil {
		return err
	}
	return writeFile(filepath, data)
}
