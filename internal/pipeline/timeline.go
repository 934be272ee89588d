package pipeline

import (
	"html"
	"sort"
	"strings"
	"time"

	"github.com/mkowalski/billsync/internal/model"
)

// RenderTimeline turns a bill's action history into formatted HTML: one
// block per distinct date, newest first, with the date emphasized and a
// bullet per action when several actions share the date. With no history at
// all it falls back to the bill's last-action fields, and with nothing there
// either it returns "" (no timeline, not an error). Output is deterministic
// for a given input.
func RenderTimeline(bill *model.SourceBill) string {
	events := make([]model.HistoryEvent, len(bill.History))
	copy(events, bill.History)

	if len(events) == 0 {
		if bill.LastAction == "" && bill.LastActionDate == "" {
			return ""
		}
		events = []model.HistoryEvent{{Date: bill.LastActionDate, Action: bill.LastAction}}
	}

	// YYYY-MM-DD keys compare correctly as strings; empty dates sort last.
	// Stable sort keeps the received order within a date.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date > events[j].Date
	})

	var blocks []string
	for i := 0; i < len(events); {
		j := i
		for j < len(events) && events[j].Date == events[i].Date {
			j++
		}
		blocks = append(blocks, renderDateBlock(events[i].Date, events[i:j]))
		i = j
	}

	return strings.Join(blocks, "<br><br>")
}

func renderDateBlock(date string, events []model.HistoryEvent) string {
	var b strings.Builder
	b.WriteString("<strong>")
	b.WriteString(html.EscapeString(formatActionDate(date)))
	b.WriteString("</strong>")

	if len(events) == 1 {
		if events[0].Action != "" {
			b.WriteString("<br>")
			b.WriteString(html.EscapeString(events[0].Action))
		}
		return b.String()
	}

	for _, e := range events {
		b.WriteString("<br>• ")
		b.WriteString(html.EscapeString(e.Action))
	}
	return b.String()
}

// formatActionDate renders YYYY-MM-DD as "Jan 2, 2006"; anything that does
// not parse passes through untouched.
func formatActionDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("Jan 2, 2006")
}
