package parallel

// Band is a half-open range of rows [Y0, Y1).
type Band struct {
	Y0, Y1 int
}

// Rows returns the number of rows in the band.
func (b Band) Rows() int {
	return b.Y1 - b.Y0
}

// SplitRows divides height rows into at most parts contiguous bands of at
// least minRows rows each. Bands cover [0, height) exactly, in order.
// Returns nil for a non-positive height.
func SplitRows(height, parts, minRows int) []Band {
	if height <= 0 {
		return nil
	}
	if minRows < 1 {
		minRows = 1
	}
	if parts < 1 {
		parts = 1
	}
	if maxParts := height / minRows; parts > maxParts {
		parts = max(maxParts, 1)
	}

	bands := make([]Band, 0, parts)
	base, extra := height/parts, height%parts
	y := 0
	for i := range parts {
		n := base
		if i < extra {
			n++
		}
		bands = append(bands, Band{Y0: y, Y1: y + n})
		y += n
	}
	return bands
}

// ForRows runs fn over height rows split into bands, one band per work item,
// and returns once every band has finished. A single band runs on the
// calling goroutine.
func (p *WorkerPool) ForRows(height, minRows int, fn func(b Band)) {
	bands := SplitRows(height, p.workers, minRows)
	if len(bands) <= 1 {
		for _, b := range bands {
			fn(b)
		}
		return
	}

	work := make([]func(), len(bands))
	for i, b := range bands {
		work[i] = func() { fn(b) }
	}
	p.ExecuteAll(work)
}
