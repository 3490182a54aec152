package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dmitrijs2005/minuend/internal/client/models"
)

func renderStorage(w io.Writer, s models.Storage) {
	fmt.Fprintf(w, "Storage level %d: %s/%s used, %s free\n",
		s.Level, humanize.Comma(int64(s.Used())), humanize.Comma(int64(s.Capacity)), humanize.Comma(int64(s.FreeSpace)))
	for _, r := range s.Resources.Kinds() {
		fmt.Fprintf(w, "  [%s] %s: %s\n", r.Icon(), r, humanize.Comma(int64(s.Resources[r])))
	}
}

func renderHangar(w io.Writer, h models.Hangar) {
	fmt.Fprintf(w, "Hangar level %d: %d/%d ships\n", h.Level, len(h.Ships), h.Capacity)
	if len(h.Ships) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, s := range h.Ships {
		status := string(s.Status)
		if !s.MissionID.IsZero() {
			status += " (mission " + s.MissionID.String() + ")"
		}
		fmt.Fprintf(tw, "  #%s\t%s\t%s\t%s\t%s\n", s.ID, s.Name, s.Type, s.Color, status)
	}
	_ = tw.Flush()
}

// renderLocations lists locations with the control each card offers.
func renderLocations(w io.Writer, locs []models.Location, control func(models.Location) string) {
	if len(locs) == 0 {
		fmt.Fprintln(w, "No locations discovered.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, l := range locs {
		fmt.Fprintf(tw, "  #%s\t%s\t%s\t%s away\t[%s]\n", l.ID, l.Name, l.ResourceType, humanize.Comma(int64(l.DistanceFromStation)), control(l))
	}
	_ = tw.Flush()
}

func renderMission(w io.Writer, m models.Mission, now time.Time) {
	fmt.Fprintf(w, "Mission #%s: %s\n", m.ID, m.Status)
	fmt.Fprintf(w, "  ship #%s to location #%s for %s\n", m.ShipID, m.LocationID, time.Duration(m.ActivityDuration)*time.Second)
	if !m.StartedAt.IsZero() {
		fmt.Fprintf(w, "  started %s\n", humanize.RelTime(m.StartedAt.Time, now, "ago", "from now"))
	}
	if !m.ApproxEndTime.IsZero() && !m.Status.Final() {
		fmt.Fprintf(w, "  back %s\n", humanize.RelTime(m.ApproxEndTime.Time, now, "ago", "from now"))
	}
	for _, e := range m.Events {
		line := "  - " + e.Type
		if e.Message != "" {
			line += ": " + e.Message
		}
		if !e.EndTime.IsZero() {
			line += " (" + e.EndTime.Local().Format(time.DateTime) + ")"
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

func renderActiveMissions(w io.Writer, ms []models.Mission, names map[models.ID]string, now time.Time) {
	if len(ms) == 0 {
		fmt.Fprintln(w, "No active missions.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, m := range ms {
		where := "#" + m.LocationID.String()
		if name, ok := names[m.LocationID]; ok {
			where = name + " " + where
		}
		back := "-"
		if !m.ApproxEndTime.IsZero() {
			back = humanize.RelTime(m.ApproxEndTime.Time, now, "ago", "from now")
		}
		fmt.Fprintf(tw, "  #%s\t%s\tship #%s\t%s\tback %s\n", m.ID, m.Status, m.ShipID, where, back)
	}
	_ = tw.Flush()
}
