package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/investimentigrugno/screener/internal/contracts"
	"github.com/investimentigrugno/screener/internal/presentation"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// every command prints with the same layout
// ═══════════════════════════════════════════════════════════

// PrintHeader prints a formatted command header
func PrintHeader(title string, fields map[string]string, order []string) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  %s\n", title)
	PrintSeparator()
	for _, k := range order {
		if v, ok := fields[k]; ok && v != "" {
			fmt.Printf("  %-10s: %s\n", k, v)
		}
	}
	PrintSeparator()
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Println("═══════════════════════════════════════════════════════════")
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Println()
	fmt.Printf("⚠️  %s\n", message)
	fmt.Println()
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	fmt.Printf("ℹ️  %s\n", message)
}

// PrintTableHeader prints a table header
func PrintTableHeader(columns []string, widths []int) {
	printTableLine(columns, widths)

	totalWidth := 0
	for i, width := range widths {
		totalWidth += width
		if i < len(widths)-1 {
			totalWidth += 2 // spacing
		}
	}
	fmt.Println(strings.Repeat("─", totalWidth))
}

func printTableLine(cells []string, widths []int) {
	for i, cell := range cells {
		fmt.Printf("%-*s", widths[i], truncate(cell, widths[i]))
		if i < len(cells)-1 {
			fmt.Print("  ")
		}
	}
	fmt.Println()
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}

var rankedColumns = []string{"#", "Symbol", "Company", "Sector", "Price", "Chg", "MCap", "RSI", "Rating", "Score"}
var rankedWidths = []int{4, 8, 24, 18, 12, 8, 8, 6, 11, 5}

// PrintRankedTable prints the ranked equities
func PrintRankedTable(rows []presentation.DisplayRow) {
	PrintTableHeader(rankedColumns, rankedWidths)
	for _, r := range rows {
		printTableLine([]string{
			fmt.Sprintf("%d", r.Rank),
			r.Symbol,
			r.Company,
			r.Sector,
			r.Price,
			r.Change,
			r.MarketCap,
			r.RSI,
			r.TechnicalRating,
			r.Score,
		}, rankedWidths)
	}
}

// PrintPicks prints the top picks with their rationale
func PrintPicks(picks []contracts.Pick) {
	fmt.Println()
	fmt.Println("🏆 Top picks")
	PrintSeparator()
	for _, p := range picks {
		rec := p.Equity.Record
		fmt.Printf("  %d. %-8s %-28s %s\n",
			p.Rank, rec.Symbol, truncate(rec.CompanyName, 28), presentation.Score(p.Equity.InvestmentScore))
		if p.Rationale != "" {
			fmt.Printf("     %s\n", p.Rationale)
		}
	}
}

// PrintNews prints news items, newest first as given
func PrintNews(items []contracts.NewsItem) {
	fmt.Println()
	fmt.Println("📰 News")
	PrintSeparator()
	if len(items) == 0 {
		fmt.Println("  (no news)")
		return
	}
	for _, n := range items {
		when := presentation.NotAvailable
		if !n.PublishedAt.IsZero() {
			when = humanize.Time(n.PublishedAt)
		}
		fmt.Printf("  • %s\n", n.Title)
		if n.Translated {
			when += " · translated"
		}
		fmt.Printf("    %s · %s · %s\n", n.Source, n.Impact, when)
		if n.URL != "" {
			fmt.Printf("    %s\n", n.URL)
		}
	}
}

// PrintCompletion prints a completion line with elapsed time
func PrintCompletion(what string, elapsed time.Duration) {
	fmt.Println()
	PrintSuccess(fmt.Sprintf("%s completed in %.2fs", what, elapsed.Seconds()))
}
