package server

import (
	"embed"
	"html/template"
	"net/url"
	"time"

	"github.com/teemow/calgrid/internal/calendar"
	"github.com/teemow/calgrid/internal/google"
	"github.com/teemow/calgrid/internal/grid"
	"github.com/teemow/calgrid/internal/theme"
)

//go:embed templates/page.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html.tmpl"))

const queryDateLayout = "2006-01-02"

var viewLabels = map[grid.View]string{
	grid.Day:      "Day",
	grid.ThreeDay: "3 Days",
	grid.Week:     "Week",
}

type pageData struct {
	Caption       string
	Mode          string
	Stylesheet    template.CSS
	Profile       *google.Profile
	SignInEnabled bool
	Alert         string
	Nav           navLinks
	Views         []viewLink
	ToggleLabel   string
	ReturnTo      string
	Header        []headerCell
	AllDay        [][]calendar.Event
	Rows          []pageRow
}

type navLinks struct {
	Today string
	Prev  string
	Next  string
}

type viewLink struct {
	Label  string
	URL    string
	Active bool
}

type headerCell struct {
	Weekday string
	Day     int
	Today   bool
}

type pageRow struct {
	Label string
	Cells []pageCell
}

type pageCell struct {
	Today  bool
	Events []calendar.Event
}

// gridURL links to the page for date in view v.
func gridURL(date time.Time, v grid.View) string {
	q := url.Values{}
	q.Set("date", date.Format(queryDateLayout))
	q.Set("view", v.String())
	return "/?" + q.Encode()
}

// newPageData turns a layout and its placed events into the template
// model. The stylesheet is generated from numeric HSL values only.
func newPageData(state grid.ViewState, layout grid.Layout, now time.Time, th theme.Theme, mode theme.Mode, placement calendar.Placement) pageData {
	d := pageData{
		Caption:    layout.Caption,
		Mode:       mode.String(),
		Stylesheet: template.CSS(theme.Stylesheet(th)), //nolint:gosec
		Nav: navLinks{
			Today: gridURL(state.Today(now).Reference, state.View),
			Prev:  gridURL(state.Prev().Reference, state.View),
			Next:  gridURL(state.Next().Reference, state.View),
		},
		ToggleLabel: "Dark mode",
		ReturnTo:    gridURL(state.Reference, state.View),
	}
	if mode == theme.Dark {
		d.ToggleLabel = "Light mode"
	}

	for _, v := range grid.Views {
		d.Views = append(d.Views, viewLink{
			Label:  viewLabels[v],
			URL:    gridURL(state.Reference, v),
			Active: v == layout.View,
		})
	}

	hasAllDay := false
	allDay := make([][]calendar.Event, 0, len(layout.Days))
	for _, c := range layout.Header() {
		d.Header = append(d.Header, headerCell{Weekday: c.Weekday, Day: c.DayOfMonth, Today: c.Today})
		evs := placement.AllDayAt(c.Column)
		hasAllDay = hasAllDay || len(evs) > 0
		allDay = append(allDay, evs)
	}
	if hasAllDay {
		d.AllDay = allDay
	}

	today := layout.TodayColumn()
	for row := 1; row < layout.Rows; row++ {
		cells := layout.Row(row)
		pr := pageRow{Label: cells[0].Label}
		for _, c := range cells[1:] {
			pr.Cells = append(pr.Cells, pageCell{
				Today:  c.Column == today,
				Events: placement.At(row, c.Column),
			})
		}
		d.Rows = append(d.Rows, pr)
	}
	return d
}
