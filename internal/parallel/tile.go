// Package parallel splits an image into independent rectangular tiles and runs
// them on a work-stealing goroutine pool.
//
// Tiles mirror GPU workgroups: the software renderer walks the same
// WorkgroupSize x WorkgroupSize grid a compute dispatch would, so a tile is
// the CPU analogue of one workgroup. Edge tiles are clipped to the image.
package parallel

// Tile is a half-open pixel rectangle [X0, X1) x [Y0, Y1).
type Tile struct {
	X0, Y0 int
	X1, Y1 int
}

// Width returns the tile width in pixels.
func (t Tile) Width() int { return t.X1 - t.X0 }

// Height returns the tile height in pixels.
func (t Tile) Height() int { return t.Y1 - t.Y0 }

// Pixels returns the number of pixels covered by the tile.
func (t Tile) Pixels() int { return t.Width() * t.Height() }

// Contains reports whether pixel (x, y) lies inside the tile.
func (t Tile) Contains(x, y int) bool {
	return x >= t.X0 && x < t.X1 && y >= t.Y0 && y < t.Y1
}

// GridSize returns the number of tiles per axis needed to cover a
// width x height image, rounding up. It is the dispatch grid of a compute
// shader with a size x size workgroup.
func GridSize(width, height, size int) (cols, rows int) {
	if width <= 0 || height <= 0 || size <= 0 {
		return 0, 0
	}
	return (width + size - 1) / size, (height + size - 1) / size
}

// Grid covers a width x height image with size x size tiles in row-major
// order. Tiles on the right and bottom edges are clipped.
func Grid(width, height, size int) []Tile {
	cols, rows := GridSize(width, height, size)
	tiles := make([]Tile, 0, cols*rows)
	for ty := range rows {
		for tx := range cols {
			tiles = append(tiles, Tile{
				X0: tx * size,
				Y0: ty * size,
				X1: min((tx+1)*size, width),
				Y1: min((ty+1)*size, height),
			})
		}
	}
	return tiles
}

// Bands splits height rows into consecutive full-width tiles of at most
// maxRows rows each. It returns nil when either argument is not positive.
func Bands(width, height, maxRows int) []Tile {
	if width <= 0 || height <= 0 || maxRows <= 0 {
		return nil
	}
	bands := make([]Tile, 0, (height+maxRows-1)/maxRows)
	for y := 0; y < height; y += maxRows {
		bands = append(bands, Tile{X0: 0, Y0: y, X1: width, Y1: min(y+maxRows, height)})
	}
	return bands
}
