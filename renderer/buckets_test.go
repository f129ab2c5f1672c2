package renderer

import "testing"

func TestBucketsCoverImage(t *testing.T) {
	const w, h = 100, 80 // deliberately not multiples of the bucket size
	buckets := GetBucketsList(w, h)

	covered := make([][]int, h)
	for y := range covered {
		covered[y] = make([]int, w)
	}
	for _, b := range buckets {
		if b.X0 < 0 || b.Y0 < 0 || b.X1 > w || b.Y1 > h {
			t.Fatalf("bucket out of bounds: %+v", b)
		}
		for y := b.Y0; y < b.Y1; y++ {
			for x := b.X0; x < b.X1; x++ {
				covered[y][x]++
			}
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if covered[y][x] != 1 {
				t.Fatalf("pixel (%d,%d) covered %d times", x, y, covered[y][x])
			}
		}
	}
}

func TestBucketsSerpentineOrder(t *testing.T) {
	buckets := GetBucketsList(200, 100) // 5 columns x 3 rows

	// row 0 runs left to right
	if buckets[0].X0 != 0 || buckets[1].X0 != bucketSize {
		t.Fatalf("row 0 not left-to-right: %+v %+v", buckets[0], buckets[1])
	}
	// row 1 runs right to left
	row1 := buckets[5]
	if row1.Y0 != bucketSize {
		t.Fatalf("bucket 5 not on row 1: %+v", row1)
	}
	if row1.X0 <= buckets[6].X0 {
		t.Fatalf("row 1 not right-to-left: %+v then %+v", row1, buckets[6])
	}
}

func TestBucketClip(t *testing.T) {
	r := NewRect(96, 48, 144, 96)
	r.Clip(100, 80)
	if r.X1 != 100 || r.Y1 != 80 {
		t.Fatalf("clip failed: %+v", r)
	}
}
