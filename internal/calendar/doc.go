// Package calendar reads and writes Google Calendar events for the grid.
//
// A Client is bound to one calendar ID ("primary" by default). Every call
// takes a context, is traced and counted, and fails with *Error, whose
// Alert method returns the message shown to the user. Nothing is retried.
//
// Place assigns fetched events to the cells of a grid.Layout so every
// surface draws them the same way.
//
// Example usage:
//
//	client, err := calendar.NewClient(ctx, "primary", option.WithTokenSource(ts))
//	if err != nil {
//	    return err
//	}
//	events, err := client.ListEvents(ctx, layout.Start, layout.End)
//	if err != nil {
//	    fmt.Println(calendar.Alert(err))
//	}
//	placement := calendar.Place(layout, events)
package calendar
