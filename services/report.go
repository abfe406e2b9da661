package services

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"ebay-research/models"
)

type reportStyles struct {
	banner  lipgloss.Style
	section lipgloss.Style
	bold    lipgloss.Style
	money   lipgloss.Style
	dim     lipgloss.Style
	tier    map[models.Tier]lipgloss.Style
}

func newReportStyles(r *lipgloss.Renderer) reportStyles {
	return reportStyles{
		banner:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
		section: r.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		bold:    r.NewStyle().Bold(true),
		money:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		dim:     r.NewStyle().Foreground(lipgloss.Color("8")),
		tier: map[models.Tier]lipgloss.Style{
			models.TierHigh:   r.NewStyle().Foreground(lipgloss.Color("10")),
			models.TierMedium: r.NewStyle().Foreground(lipgloss.Color("12")),
			models.TierLow:    r.NewStyle().Foreground(lipgloss.Color("3")),
			models.TierPoor:   r.NewStyle().Foreground(lipgloss.Color("9")),
		},
	}
}

func (s reportStyles) tierStyle(t models.Tier) lipgloss.Style {
	if style, ok := s.tier[t]; ok {
		return style
	}
	return s.bold
}

// ReportPrinter renders a research result as a console summary.
type ReportPrinter struct {
	out    io.Writer
	styles reportStyles
}

// NewReportPrinter writes to out, picking colours based on what out supports.
func NewReportPrinter(out io.Writer) *ReportPrinter {
	return &ReportPrinter{
		out:    out,
		styles: newReportStyles(lipgloss.NewRenderer(out)),
	}
}

func (p *ReportPrinter) Print(r *models.ResearchResult) {
	st := p.styles
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)
	w := p.out

	fmt.Fprintf(w, "\n%s\n", st.banner.Render(sep))
	fmt.Fprintf(w, "%s\n", st.banner.Render("  eBAY MARKET RESEARCH REPORT"))
	fmt.Fprintf(w, "%s\n\n", st.banner.Render(sep))

	fmt.Fprintf(w, "%s\n  %s\n", st.section.Render("  Overview"), thin)
	fmt.Fprintf(w, "  Date                   : %s\n", r.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(w, "  Products analyzed      : %s\n", st.bold.Render(fmt.Sprint(r.TotalProductsAnalyzed)))
	fmt.Fprintf(w, "  Top selling listed     : %d\n", len(r.TopSellingProducts))
	fmt.Fprintf(w, "  High potential listed  : %d\n", len(r.HighPotentialProducts))
	fmt.Fprintln(w)

	ins := r.Insights
	if ins == nil {
		ins = &models.InsightReport{}
	}

	fmt.Fprintf(w, "%s\n  %s\n", st.section.Render("  Score Distribution"), thin)
	fmt.Fprintf(w, "  Average score : %s\n", st.bold.Render(fmt.Sprintf("%.2f", ins.AverageScore)))
	dist := ins.ScoreDistribution
	for _, t := range models.Tiers {
		n := dist.Of(t)
		fmt.Fprintf(w, "  %-18s %s\n", t.Label(), st.tierStyle(t).Render(fmt.Sprintf("%s (%d)", bar(n), n)))
	}
	fmt.Fprintln(w)

	pa := ins.PriceAnalysis
	fmt.Fprintf(w, "%s\n  %s\n", st.section.Render("  Price Statistics"), thin)
	if pa.MaxPrice > 0 {
		fmt.Fprintf(w, "  Average price : %s\n", st.money.Render(fmt.Sprintf("$%.2f", pa.AveragePrice)))
		fmt.Fprintf(w, "  Median price  : %s\n", st.money.Render(fmt.Sprintf("$%.2f", pa.MedianPrice)))
		fmt.Fprintf(w, "  Minimum price : %s\n", st.money.Render(fmt.Sprintf("$%.2f", pa.MinPrice)))
		fmt.Fprintf(w, "  Maximum price : %s\n", st.money.Render(fmt.Sprintf("$%.2f", pa.MaxPrice)))
		for _, pr := range pa.PriceRanges {
			fmt.Fprintf(w, "  %-12s %s (%d)\n", pr.Label, bar(pr.Count), pr.Count)
		}
	} else {
		fmt.Fprintf(w, "  %s\n", st.dim.Render("No price data available"))
	}
	fmt.Fprintln(w)

	if len(ins.CategoryPerformance) > 0 {
		fmt.Fprintf(w, "%s\n  %s\n", st.section.Render("  Average Score by Search Term"), thin)
		type termScore struct {
			term  string
			score float64
		}
		var terms []termScore
		for term, score := range ins.CategoryPerformance {
			terms = append(terms, termScore{term, score})
		}
		sort.Slice(terms, func(i, j int) bool {
			if terms[i].score != terms[j].score {
				return terms[i].score > terms[j].score
			}
			return terms[i].term < terms[j].term
		})
		for _, ts := range terms {
			name := ts.term
			if name == "" {
				name = "(none)"
			}
			fmt.Fprintf(w, "  %-32s %6.2f\n", truncate(name, 30), ts.score)
		}
		fmt.Fprintln(w)
	}

	if len(ins.TopTrends) > 0 {
		fmt.Fprintf(w, "%s\n  %s\n", st.section.Render("  Top Title Keywords"), thin)
		for i, kf := range ins.TopTrends {
			fmt.Fprintf(w, "  %2d. %-20s %d\n", i+1, kf.Keyword, kf.Frequency)
		}
		fmt.Fprintln(w)
	}

	p.printListings("Top Selling Products", r.TopSellingProducts)
	p.printListings("High Potential Products", r.HighPotentialProducts)

	fmt.Fprintf(w, "%s\n\n", st.banner.Render(sep))
}

func (p *ReportPrinter) printListings(heading string, listings []*models.ScoredListing) {
	st := p.styles
	w := p.out

	fmt.Fprintf(w, "%s\n  %s\n", st.section.Render("  "+heading), strings.Repeat("─", 54))
	if len(listings) == 0 {
		fmt.Fprintf(w, "  %s\n\n", st.dim.Render("None"))
		return
	}
	for i, l := range listings {
		fmt.Fprintf(w, "  %s %s\n", st.bold.Render(fmt.Sprintf("%d.", i+1)), truncate(l.Title, 60))
		fmt.Fprintf(w, "     Price: $%.2f | Score: %s | Sold: %d\n",
			l.Price, st.tierStyle(l.Tier).Render(fmt.Sprintf("%.2f", l.AdvancedScore)), l.SoldCount)
	}
	fmt.Fprintln(w)
}

func bar(n int) string {
	if n > 40 {
		n = 40
	}
	return strings.Repeat("█", n)
}

// truncate shortens s to max runes, marking the cut with "...".
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
