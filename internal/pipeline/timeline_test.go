package pipeline

import (
	"strings"
	"testing"

	"github.com/mkowalski/billsync/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTimeline(t *testing.T) {
	t.Run("single event per date", func(t *testing.T) {
		bill := &model.SourceBill{History: []model.HistoryEvent{
			{Date: "2024-02-01", Action: "Introduced"},
			{Date: "2024-03-15", Action: "Referred to committee"},
		}}

		got := RenderTimeline(bill)
		want := "<strong>Mar 15, 2024</strong><br>Referred to committee" +
			"<br><br>" +
			"<strong>Feb 1, 2024</strong><br>Introduced"
		assert.Equal(t, want, got)
	})

	t.Run("same-date events grouped into one bulleted block", func(t *testing.T) {
		bill := &model.SourceBill{History: []model.HistoryEvent{
			{Date: "2024-02-01", Action: "First reading"},
			{Date: "2024-02-01", Action: "Second reading"},
		}}

		got := RenderTimeline(bill)
		require.Equal(t, 1, strings.Count(got, "<strong>"))
		assert.Equal(t, 2, strings.Count(got, "• "))
		assert.Contains(t, got, "• First reading")
		assert.Contains(t, got, "• Second reading")
	})

	t.Run("idempotent", func(t *testing.T) {
		bill := &model.SourceBill{History: []model.HistoryEvent{
			{Date: "2024-02-01", Action: "First reading"},
			{Date: "2024-02-01", Action: "Second reading"},
			{Date: "2024-03-01", Action: "Third reading"},
		}}

		assert.Equal(t, RenderTimeline(bill), RenderTimeline(bill))
	})

	t.Run("escapes html in actions", func(t *testing.T) {
		bill := &model.SourceBill{History: []model.HistoryEvent{
			{Date: "2024-02-01", Action: `Amended <A & B> "quotes"`},
		}}

		got := RenderTimeline(bill)
		assert.NotContains(t, got, "<A")
		assert.Contains(t, got, "&lt;A &amp; B&gt;")
	})

	t.Run("falls back to last action fields", func(t *testing.T) {
		bill := &model.SourceBill{
			LastAction:     "Signed by governor",
			LastActionDate: "2024-05-20",
		}

		got := RenderTimeline(bill)
		assert.Equal(t, "<strong>May 20, 2024</strong><br>Signed by governor", got)
	})

	t.Run("unparseable date passes through", func(t *testing.T) {
		bill := &model.SourceBill{History: []model.HistoryEvent{
			{Date: "last week", Action: "Introduced"},
		}}

		assert.Equal(t, "<strong>last week</strong><br>Introduced", RenderTimeline(bill))
	})

	t.Run("no history and no last action is empty", func(t *testing.T) {
		assert.Equal(t, "", RenderTimeline(&model.SourceBill{}))
	})
}
