package pipeline

import (
	"testing"

	"github.com/mkowalski/billsync/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestSelectDocumentLink(t *testing.T) {
	tests := []struct {
		name string
		bill model.SourceBill
		want string
	}{
		{
			name: "prefers most recent pdf over newer html",
			bill: model.SourceBill{Texts: []model.DocVersion{
				{Date: "2024-01-10", TypeHint: "application/pdf", URL: "https://example.com/old.pdf"},
				{Date: "2024-03-01", TypeHint: "text/html", URL: "https://example.com/new.html"},
				{Date: "2024-02-15", TypeHint: "application/pdf", URL: "https://example.com/mid.pdf"},
			}},
			want: "https://example.com/mid.pdf",
		},
		{
			name: "pdf detected from url when type hint is useless",
			bill: model.SourceBill{Texts: []model.DocVersion{
				{Date: "2024-02-01", TypeHint: "", URL: "https://example.com/text.pdf"},
				{Date: "2024-03-01", TypeHint: "", URL: "https://example.com/text.html"},
			}},
			want: "https://example.com/text.pdf",
		},
		{
			name: "most recent of any type when no pdf exists",
			bill: model.SourceBill{Texts: []model.DocVersion{
				{Date: "2024-01-10", TypeHint: "text/html", URL: "https://example.com/old.html"},
				{Date: "2024-03-01", TypeHint: "text/html", URL: "https://example.com/new.html"},
			}},
			want: "https://example.com/new.html",
		},
		{
			name: "state url wins over api url",
			bill: model.SourceBill{Texts: []model.DocVersion{
				{Date: "2024-01-10", TypeHint: "application/pdf", URL: "https://api.example.com/doc", StateURL: "https://state.example.com/doc.pdf"},
			}},
			want: "https://state.example.com/doc.pdf",
		},
		{
			name: "missing dates sort oldest",
			bill: model.SourceBill{Texts: []model.DocVersion{
				{Date: "", TypeHint: "text/html", URL: "https://example.com/undated.html"},
				{Date: "2024-01-01", TypeHint: "text/html", URL: "https://example.com/dated.html"},
			}},
			want: "https://example.com/dated.html",
		},
		{
			name: "equal dates keep received order",
			bill: model.SourceBill{Texts: []model.DocVersion{
				{Date: "2024-01-01", TypeHint: "text/html", URL: "https://example.com/first.html"},
				{Date: "2024-01-01", TypeHint: "text/html", URL: "https://example.com/second.html"},
			}},
			want: "https://example.com/first.html",
		},
		{
			name: "falls back to state link",
			bill: model.SourceBill{StateLink: "https://state.example.com/bill"},
			want: "https://state.example.com/bill",
		},
		{
			name: "falls back to bill url last",
			bill: model.SourceBill{URL: "https://legiscan.example.com/bill"},
			want: "https://legiscan.example.com/bill",
		},
		{
			name: "no link at all",
			bill: model.SourceBill{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectDocumentLink(&tt.bill))
		})
	}
}
