package parallel

import "testing"

func TestGridSize(t *testing.T) {
	tests := []struct {
		name       string
		w, h, size int
		cols, rows int
	}{
		{"exact", 3200, 2400, 32, 100, 75},
		{"rounded up", 3200, 2400, 16, 200, 150},
		{"partial edge", 33, 17, 16, 3, 2},
		{"single pixel", 1, 1, 16, 1, 1},
		{"zero width", 0, 10, 16, 0, 0},
		{"zero size", 10, 10, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols, rows := GridSize(tt.w, tt.h, tt.size)
			if cols != tt.cols || rows != tt.rows {
				t.Errorf("GridSize(%d, %d, %d) = (%d, %d), want (%d, %d)",
					tt.w, tt.h, tt.size, cols, rows, tt.cols, tt.rows)
			}
		})
	}
}

func TestGridCoversImageOnce(t *testing.T) {
	const w, h = 37, 21
	tiles := Grid(w, h, 8)

	if len(tiles) != 5*3 {
		t.Fatalf("len(tiles) = %d, want 15", len(tiles))
	}

	hits := make([]int, w*h)
	for _, tile := range tiles {
		if tile.Width() <= 0 || tile.Width() > 8 || tile.Height() <= 0 || tile.Height() > 8 {
			t.Errorf("tile %+v has invalid size %dx%d", tile, tile.Width(), tile.Height())
		}
		for y := tile.Y0; y < tile.Y1; y++ {
			for x := tile.X0; x < tile.X1; x++ {
				hits[y*w+x]++
			}
		}
	}
	for i, n := range hits {
		if n != 1 {
			t.Fatalf("pixel (%d, %d) covered %d times", i%w, i/w, n)
		}
	}

	last := tiles[len(tiles)-1]
	if last.X1 != w || last.Y1 != h || last.Pixels() != 5*5 {
		t.Errorf("last tile = %+v, want clipped to %dx%d with 25 pixels", last, w, h)
	}
}

func TestTileContains(t *testing.T) {
	tile := Tile{X0: 16, Y0: 32, X1: 32, Y1: 48}
	if !tile.Contains(16, 32) || !tile.Contains(31, 47) {
		t.Error("tile should contain its corners")
	}
	if tile.Contains(32, 40) || tile.Contains(20, 48) || tile.Contains(15, 40) {
		t.Error("tile should not contain pixels past its half-open bounds")
	}
}

func TestBands(t *testing.T) {
	bands := Bands(100, 250, 100)
	if len(bands) != 3 {
		t.Fatalf("len(bands) = %d, want 3", len(bands))
	}
	wantRows := []int{100, 100, 50}
	next := 0
	for i, b := range bands {
		if b.Y0 != next {
			t.Errorf("band %d starts at row %d, want %d", i, b.Y0, next)
		}
		if b.Height() != wantRows[i] || b.Width() != 100 {
			t.Errorf("band %d = %dx%d, want 100x%d", i, b.Width(), b.Height(), wantRows[i])
		}
		next = b.Y1
	}

	if Bands(100, 0, 10) != nil || Bands(100, 10, 0) != nil {
		t.Error("Bands with non-positive input should return nil")
	}
}
