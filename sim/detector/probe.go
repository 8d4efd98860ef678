package detector

import (
	"github.com/siggen-go/siggen/sim"
	"github.com/siggen-go/siggen/sim/field"
)

// Probe is per-caller query state. It holds the grid locator memo and records the
// outcome of the most recent query. The zero value is ready to use; a Probe must
// not be shared between goroutines.
type Probe struct {
	memo field.Memo

	// Resolution is how the last queried point mapped onto the field grid.
	Resolution sim.Resolution
	// DvDE and VOverE are the drift diagnostics of the last DriftVelocity call.
	DvDE   float64
	VOverE float64
}

// Reset clears the memo and the recorded results.
func (p *Probe) Reset() {
	*p = Probe{}
}
