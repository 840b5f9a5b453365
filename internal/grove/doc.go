// Package grove provides the simulation core for ecological drift on a
// fixed square grid of trees.
//
// The package defines the grid, its census and clock, and the replacement
// rules that relabel one tree per step:
//
//   - [Drift]: arrival copied from a uniformly chosen living tree
//   - [Immigration]: drift with periodic arrivals from the full species set
//   - [Competition]: two species sharing two resources, rejection sampled
//   - [Exclusion]: arrival must differ from every species in the 3x3 block
//
// A [World] owns one grid, its census, clock and rule. [World.RunBatch]
// advances it a fixed number of steps and returns; pacing is left to the
// caller.
//
// # Example
//
//	species := grove.Palette(10)
//	w, err := grove.NewWorld(20, species, grove.NewDrift(), grove.NewSource(42))
//	if err != nil {
//	    return err
//	}
//	res, err := w.RunBatch(40)
//
// # Thread Safety
//
// World instances are NOT thread-safe. Independent worlds may run on
// separate goroutines; see the experiment package for ensembles.
package grove
