// Package display renders dashboard summaries for the terminal.
package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/dyike/FolioGo/internal/models"
	"github.com/dyike/FolioGo/internal/money"
)

const (
	barWidth   = 30
	timeLayout = "2006-01-02 15:04:05"
)

var tableHeaders = []string{"Ticker", "Current Price", "Return", "Valuation (KRW)", "Currency"}

type styles struct {
	title    lipgloss.Style
	label    lipgloss.Style
	metric   lipgloss.Style
	fallback lipgloss.Style
	header   lipgloss.Style
	cell     lipgloss.Style
	top      lipgloss.Style
	gain     lipgloss.Style
	loss     lipgloss.Style
	bar      lipgloss.Style
	alert    lipgloss.Style
	warning  lipgloss.Style
	hint     lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title: r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED")).
			MarginBottom(1),
		label:    r.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		metric:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#3B82F6")),
		fallback: r.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Italic(true),
		header:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#3B82F6")).Padding(0, 1),
		cell:     r.NewStyle().Padding(0, 1),
		top:      r.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("#10B981")),
		gain:     r.NewStyle().Foreground(lipgloss.Color("#10B981")),
		loss:     r.NewStyle().Foreground(lipgloss.Color("#EF4444")),
		bar:      r.NewStyle().Foreground(lipgloss.Color("#8B5CF6")),
		alert:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444")),
		warning:  r.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
		hint:     r.NewStyle().Foreground(lipgloss.Color("#3B82F6")).Italic(true),
	}
}

// Renderer writes dashboards to w, using colors only when w is a terminal.
type Renderer struct {
	w      io.Writer
	styles styles
}

func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w, styles: newStyles(lipgloss.NewRenderer(w))}
}

// Dashboard renders the full summary.
func (r *Renderer) Dashboard(s models.Summary) {
	st := r.styles
	var b strings.Builder

	b.WriteString(st.title.Render("📊 Portfolio Dashboard · " + s.GeneratedAt.Format(timeLayout)))
	b.WriteString("\n")
	b.WriteString(r.rateLine(s.Rate))
	b.WriteString("\n")

	if s.Empty() {
		b.WriteString("\n")
		b.WriteString(st.hint.Render("No holdings yet. Add one with `foliogo add`."))
		b.WriteString("\n")
		fmt.Fprint(r.w, b.String())
		return
	}

	b.WriteString(st.label.Render("Total valuation: "))
	b.WriteString(st.metric.Render(money.KRW(s.Total)))
	b.WriteString("\n\n")

	if len(s.Rows) > 0 {
		b.WriteString(r.table(s))
		b.WriteString("\n\n")
		b.WriteString(r.allocation(s.Allocation))
	}

	for _, a := range s.Alerts {
		b.WriteString(st.alert.Render(a.Message()))
		b.WriteString("\n")
	}
	for _, sk := range s.Skipped {
		b.WriteString(st.warning.Render(fmt.Sprintf("⚠️  %s: no price data, excluded from totals", sk.Ticker)))
		b.WriteString("\n")
	}

	fmt.Fprint(r.w, b.String())
}

// Rate renders only the exchange rate banner.
func (r *Renderer) Rate(q models.RateQuote) {
	fmt.Fprintln(r.w, r.rateLine(q))
}

// History renders recorded snapshots, newest first.
func (r *Renderer) History(snapshots []models.Snapshot) {
	if len(snapshots) == 0 {
		fmt.Fprintln(r.w, r.styles.hint.Render("No snapshots recorded yet."))
		return
	}

	rows := make([][]string, 0, len(snapshots))
	for _, snap := range snapshots {
		rate := money.Price(snap.Rate, models.KRW)
		if snap.RateFallback {
			rate += " *"
		}
		rows = append(rows, []string{
			snap.TakenAt.Local().Format(timeLayout),
			money.KRW(snap.Total),
			rate,
			strconv.Itoa(snap.Evaluated) + "/" + strconv.Itoa(snap.Holdings),
			strconv.Itoa(snap.Alerts),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("Taken At", "Total", "Rate", "Priced", "Alerts").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return r.styles.header
			}
			return r.styles.cell
		})
	fmt.Fprintln(r.w, t.String())
}

func (r *Renderer) rateLine(q models.RateQuote) string {
	line := r.styles.label.Render("Exchange rate: ") + r.styles.metric.Render(money.Rate(q.Value))
	if q.Fallback {
		line += " " + r.styles.fallback.Render("(fallback, live rate unavailable)")
	}
	return line
}

func (r *Renderer) table(s models.Summary) string {
	st := r.styles
	rows := make([][]string, 0, len(s.Rows))
	for _, row := range s.Rows {
		rows = append(rows, []string{
			row.Ticker,
			row.PriceDisplay,
			money.Percent(row.ReturnPercent),
			money.Amount(row.Valuation, 0),
			string(row.Currency),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(tableHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return st.header
			case row == s.TopIndex:
				return st.top
			case col == 2 && row >= 0 && row < len(s.Rows):
				if s.Rows[row].ReturnPercent.IsNegative() {
					return st.loss.Padding(0, 1)
				}
				return st.gain.Padding(0, 1)
			}
			return st.cell
		}).
		String()
}

// allocation draws one horizontal bar per ticker, grouped under its currency.
func (r *Renderer) allocation(slices []models.AllocationSlice) string {
	st := r.styles
	var b strings.Builder
	b.WriteString(st.label.Render("Allocation"))
	b.WriteString("\n")

	var current models.Currency
	for _, sl := range slices {
		if sl.Currency != current {
			current = sl.Currency
			b.WriteString(fmt.Sprintf("  %s %s\n", current, st.label.Render(money.KRW(groupTotal(slices, current)))))
		}
		filled := int(sl.Share.Mul(decimal.NewFromInt(barWidth)).Round(0).IntPart())
		filled = max(0, min(filled, barWidth))
		b.WriteString(fmt.Sprintf("    %-12s %s %6s%%\n",
			sl.Ticker,
			st.bar.Render(strings.Repeat("█", filled)+strings.Repeat("░", barWidth-filled)),
			sl.Share.Mul(decimal.NewFromInt(100)).StringFixed(1)))
	}
	b.WriteString("\n")
	return b.String()
}

func groupTotal(slices []models.AllocationSlice, c models.Currency) decimal.Decimal {
	total := decimal.Zero
	for _, sl := range slices {
		if sl.Currency == c {
			total = total.Add(sl.Value)
		}
	}
	return total
}
