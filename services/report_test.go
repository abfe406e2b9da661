package services

import (
	"bytes"
	"strings"
	"testing"

	"ebay-research/models"
	"ebay-research/scoring"
)

func TestReportPrinterSections(t *testing.T) {
	a := NewAnalyzer(scoring.NewDefaultEngine(), newTestLogger(), 10)
	result := a.Analyze([]*models.Listing{
		{Title: "Best Seller Wireless Earbuds with Charging Case and Extra Tips", Price: 45, HasPrice: true,
			SoldCount: 600, Watchers: 60, Shipping: "Free", SearchKeyword: "Electronics"},
		{Title: "Plain Mug", Price: 8, HasPrice: true, SearchKeyword: "Home & Garden"},
	})

	var buf bytes.Buffer
	NewReportPrinter(&buf).Print(result)
	out := buf.String()

	for _, want := range []string{
		"eBAY MARKET RESEARCH REPORT",
		"Products analyzed",
		"high_potential",
		"Median price",
		"$0-$25",
		"Electronics",
		"Top Title Keywords",
		"Top Selling Products",
		"High Potential Products",
		"Best Seller Wireless Earbuds with Charging Case and Extra...",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestReportPrinterEmpty(t *testing.T) {
	a := NewAnalyzer(scoring.NewDefaultEngine(), newTestLogger(), 10)

	var buf bytes.Buffer
	NewReportPrinter(&buf).Print(a.Analyze(nil))
	out := buf.String()

	if !strings.Contains(out, "No price data available") {
		t.Error("empty report should say there is no price data")
	}
	if !strings.Contains(out, "None") {
		t.Error("empty report should list no products")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a longer title here", 10, "a longe..."},
		{"çok güzel çanta", 8, "çok g..."},
	}

	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q; want %q", tt.in, tt.max, got, tt.want)
		}
	}
}
