package detection

// ConnectedComponents labels the 8-connected foreground blobs of a
// row-major width x height mask. Any nonzero value is foreground.
//
// The first pass scans in raster order and gives each foreground pixel the
// smallest label among its already-visited neighbours (left, top, top-left,
// top-right), or a fresh label when it has none, and unions all neighbour
// labels. The second pass resolves every label to its set root.
//
// Background pixels keep label 0. Labels are unique per blob but are not
// guaranteed to be contiguous.
//
// Example:
//
//	ConnectedComponents(3, 3, []uint32{10, 10, 0, 10, 0, 20, 0, 20, 20})
//	// [1 1 0 1 0 1 0 1 1]
//
//	ConnectedComponents(3, 3, []uint32{10, 10, 10, 0, 0, 0, 20, 20, 20})
//	// [1 1 1 0 0 0 2 2 2]
func ConnectedComponents(width, height int, mask []uint32) []uint32 {
	size := width * height
	labels := make([]uint32, size)
	if size == 0 {
		return labels
	}

	uf := NewUnionFind(size + 1)
	next := uint32(1)
	var neighbours [4]uint32

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			idx := y*width + x
			if mask[idx] == 0 {
				continue
			}

			n := 0
			if x > 0 && mask[idx-1] > 0 {
				neighbours[n] = labels[idx-1]
				n++
			}
			if y > 0 && mask[idx-width] > 0 {
				neighbours[n] = labels[idx-width]
				n++
			}
			if x > 0 && y > 0 && mask[idx-width-1] > 0 {
				neighbours[n] = labels[idx-width-1]
				n++
			}
			if x < width-1 && y > 0 && mask[idx-width+1] > 0 {
				neighbours[n] = labels[idx-width+1]
				n++
			}

			if n == 0 {
				labels[idx] = next
				next++
				continue
			}

			least := neighbours[0]
			for _, l := range neighbours[1:n] {
				least = min(least, l)
			}
			labels[idx] = least
			for _, l := range neighbours[:n] {
				uf.Union(int(least), int(l))
			}
		}
	}

	for i, l := range labels {
		if l != 0 {
			labels[i] = uint32(uf.Find(int(l)))
		}
	}
	return labels
}
