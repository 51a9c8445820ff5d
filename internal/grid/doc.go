// Package grid computes the time grid shown by every calgrid surface.
//
// A grid covers one, three or seven days. It has one header row of day
// cells and 24 hour rows, each made of an hour label followed by one
// time-slot cell per visible day. The package is pure: Render never
// mutates its input and never fails, and navigation returns new
// ViewState values instead of changing shared state.
//
// Example usage:
//
//	r := grid.NewRenderer(time.Sunday)
//	state := grid.NewViewState(time.Now(), grid.Week)
//	layout := r.Render(state)
//	fmt.Println(layout.Caption) // "Week View"
//
//	layout = r.Render(state.Next())
package grid
