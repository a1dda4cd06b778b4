package shpimport

import (
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"
)

// Shapefile winding: clockwise outer rings, counter-clockwise holes.
var (
	outerCW  = orb.Ring{{0, 0}, {0, 1}, {1, 1}, {1, 0}, {0, 0}}
	holeCCW  = orb.Ring{{0.2, 0.2}, {0.8, 0.2}, {0.8, 0.8}, {0.2, 0.8}, {0.2, 0.2}}
	outerCW2 = orb.Ring{{5, 5}, {5, 6}, {6, 6}, {6, 5}, {5, 5}}
)

func TestSplitRingsClosesOpenRings(t *testing.T) {
	points := []shp.Point{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}}
	rings := splitRings([]int32{0}, points)

	if len(rings) != 1 {
		t.Fatalf("got %d rings, want 1", len(rings))
	}
	ring := rings[0]
	if len(ring) != 5 {
		t.Fatalf("got %d points, want 5 (ring closed)", len(ring))
	}
	if ring[0] != ring[len(ring)-1] {
		t.Errorf("ring not closed: first %v last %v", ring[0], ring[len(ring)-1])
	}
}

func TestSplitRingsMultipleParts(t *testing.T) {
	points := []shp.Point{
		{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 0},
		{X: 5, Y: 5}, {X: 5, Y: 6}, {X: 6, Y: 6}, {X: 6, Y: 5}, {X: 5, Y: 5},
	}
	rings := splitRings([]int32{0, 5}, points)

	if len(rings) != 2 {
		t.Fatalf("got %d rings, want 2", len(rings))
	}
	if rings[1][0] != (orb.Point{5, 5}) {
		t.Errorf("second ring starts at %v, want {5 5}", rings[1][0])
	}
}

func TestRingsToMultiPolygon(t *testing.T) {
	t.Run("outer with hole", func(t *testing.T) {
		mp := ringsToMultiPolygon([]orb.Ring{outerCW, holeCCW})
		if len(mp) != 1 {
			t.Fatalf("got %d polygons, want 1", len(mp))
		}
		if len(mp[0]) != 2 {
			t.Fatalf("got %d rings in polygon, want outer + hole", len(mp[0]))
		}
	})

	t.Run("two outers", func(t *testing.T) {
		mp := ringsToMultiPolygon([]orb.Ring{outerCW, outerCW2})
		if len(mp) != 2 {
			t.Fatalf("got %d polygons, want 2", len(mp))
		}
	})

	t.Run("leading hole promoted", func(t *testing.T) {
		mp := ringsToMultiPolygon([]orb.Ring{holeCCW})
		if len(mp) != 1 || len(mp[0]) != 1 {
			t.Fatalf("got %v, want one single-ring polygon", mp)
		}
	})

	t.Run("degenerate ring skipped", func(t *testing.T) {
		mp := ringsToMultiPolygon([]orb.Ring{{{0, 0}, {1, 1}, {0, 0}}, outerCW})
		if len(mp) != 1 {
			t.Fatalf("got %d polygons, want 1", len(mp))
		}
	})
}

func TestShapeToMultiPolygon(t *testing.T) {
	poly := &shp.Polygon{
		Parts:  []int32{0},
		Points: []shp.Point{{X: 0, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 0}},
	}
	mp, ok := shapeToMultiPolygon(poly)
	if !ok || len(mp) != 1 {
		t.Fatalf("polygon conversion failed: ok=%v mp=%v", ok, mp)
	}

	if _, ok := shapeToMultiPolygon(&shp.Point{X: 1, Y: 2}); ok {
		t.Error("point shape should not convert")
	}
}

func TestNormalizeCPG(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ISO-8859-1", "88591"},
		{"ISO 8859-1", "88591"},
		{"WINDOWS-1252", "1252"},
		{"ANSI 1252", "1252"},
		{"CP437", "437"},
		{"UTF-8", "utf8"},
		{"  latin1 ", "latin1"},
	}
	for _, tt := range tests {
		if got := normalizeCPG(tt.in); got != tt.want {
			t.Errorf("normalizeCPG(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDecoderFor(t *testing.T) {
	if decoderFor("UTF-8") != nil {
		t.Error("utf-8 should pass through with no decoder")
	}
	if decoderFor("") != nil {
		t.Error("missing cpg should pass through")
	}

	dec := decoderFor("ISO-8859-1")
	if dec == nil {
		t.Fatal("expected a latin-1 decoder")
	}
	out, err := dec.String("Mbog\xe9")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out != "Mbogé" {
		t.Errorf("decoded %q, want %q", out, "Mbogé")
	}
}

func TestDBFValue(t *testing.T) {
	num := shp.Field{Fieldtype: 'N'}
	if v := dbfValue(num, "42.5"); v != 42.5 {
		t.Errorf("numeric field: got %v", v)
	}
	if v := dbfValue(num, "not-a-number"); v != "not-a-number" {
		t.Errorf("unparseable numeric should stay string: got %v", v)
	}

	logical := shp.Field{Fieldtype: 'L'}
	if v := dbfValue(logical, "T"); v != true {
		t.Errorf("logical T: got %v", v)
	}
	if v := dbfValue(logical, "n"); v != false {
		t.Errorf("logical n: got %v", v)
	}

	char := shp.Field{Fieldtype: 'C'}
	if v := dbfValue(char, "MBY-0001"); v != "MBY-0001" {
		t.Errorf("character field: got %v", v)
	}
}
