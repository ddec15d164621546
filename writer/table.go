package writer

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"coin-dash/coingecko"
	"coin-dash/display"

	"github.com/fatih/color"
	"github.com/gosuri/uilive"
	"github.com/guptarohit/asciigraph"
	"github.com/mattn/go-colorable"
	"github.com/olekukonko/tablewriter"
)

var faint = color.New(color.Faint).SprintFunc()

// ChartPanel is one coin's historical series ready to plot.
type ChartPanel struct {
	ID     string
	Points []coingecko.PricePoint
}

// Frame is everything one successful refresh cycle produced.
type Frame struct {
	Currency    string
	PingLatency time.Duration
	PingOK      bool
	Quotes      []coingecko.Quote
	MissingIDs  []string
	Charts      []ChartPanel
	ChartDays   int
}

// Dashboard rewrites the terminal in place via uilive. The last rendered frame
// is kept so the countdown footer can redraw it once per second.
type Dashboard struct {
	writer    *uilive.Writer
	lastFrame []byte
}

// New builds a Dashboard writing to out; pass nil for colorable stdout.
func New(out io.Writer) *Dashboard {
	w := uilive.New()
	if out == nil {
		out = colorable.NewColorableStdout() // For Windows
	}
	w.Out = out
	return &Dashboard{writer: w}
}

// Bypass writes above the live area, log lines survive the next redraw.
func (d *Dashboard) Bypass() io.Writer {
	return d.writer.Bypass()
}

// Render draws a full dashboard frame: status line, summary cards, market
// table and chart panels.
func (d *Dashboard) Render(f *Frame) {
	var buf bytes.Buffer

	d.writeStatus(&buf, f)
	buf.WriteByte('\n')
	d.writeCards(&buf, f)
	buf.WriteByte('\n')
	d.writeTable(&buf, f)
	d.writeCharts(&buf, f)

	d.flush(buf.Bytes())
}

// RenderError reports a fatal quote-fetch failure. Nothing else is drawn this
// cycle, the next scheduled cycle retries.
func (d *Dashboard) RenderError(err error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, color.RedString("Failed to fetch market data from CoinGecko: %v", err))
	fmt.Fprintln(&buf, faint("Will retry on the next refresh."))
	d.flush(buf.Bytes())
}

// RenderEmpty reports the zero-row case, e.g. every requested id was unknown.
func (d *Dashboard) RenderEmpty(ids []string) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, color.YellowString("No market data found for [%s].", strings.Join(ids, ", ")))
	fmt.Fprintln(&buf, faint("Check the coin ids (CoinGecko ids, not tickers) or your network."))
	d.flush(buf.Bytes())
}

// RenderCountdown redraws the last frame with a progress footer.
func (d *Dashboard) RenderCountdown(remaining, total time.Duration) {
	var buf bytes.Buffer
	buf.Write(d.lastFrame)
	buf.WriteByte('\n')
	fmt.Fprintln(&buf, faint(progressBar(remaining, total))+
		faint(fmt.Sprintf(" next refresh in %ds", int(remaining.Seconds()))))
	d.writer.Write(buf.Bytes())
	d.writer.Flush()
}

func (d *Dashboard) flush(frame []byte) {
	d.lastFrame = frame
	d.writer.Write(frame)
	d.writer.Flush()
}

func (d *Dashboard) writeStatus(buf *bytes.Buffer, f *Frame) {
	if f.PingOK {
		fmt.Fprintln(buf, color.GreenString("● CoinGecko API up (%.2fs)", f.PingLatency.Seconds()))
	} else {
		fmt.Fprintln(buf, color.RedString("● CoinGecko API unreachable"))
	}
}

func (d *Dashboard) writeCards(buf *bytes.Buffer, f *Frame) {
	labelWidth := 0
	cards := make([]display.Card, 0, len(f.Quotes))
	for i := range f.Quotes {
		card := display.BuildCard(&f.Quotes[i], f.Currency)
		if len(card.Label) > labelWidth {
			labelWidth = len(card.Label)
		}
		cards = append(cards, card)
	}
	for _, card := range cards {
		fmt.Fprintf(buf, "%-*s  %s  %s\n", labelWidth, card.Label, card.Value, deltaArrow(card.Delta))
	}
}

func (d *Dashboard) writeTable(buf *bytes.Buffer, f *Frame) {
	// Set up ascii table writer
	table := tablewriter.NewWriter(buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	headers := display.Headers(f.Currency)
	formattedHeaders := make([]string, len(headers))
	for i, hdr := range headers {
		formattedHeaders[i] = color.YellowString(hdr)
	}
	table.SetHeader(formattedHeaders)
	table.SetRowLine(true)
	table.SetCenterSeparator(faint("-"))
	table.SetColumnSeparator(faint("|"))
	table.SetRowSeparator(faint("-"))

	// Fill in data
	for i := range f.Quotes {
		row := display.Project(&f.Quotes[i])
		table.Append([]string{
			row.Symbol,
			row.Name,
			row.Price,
			colorCell(row.Change1h),
			colorCell(row.Change24h),
			colorCell(row.Change7d),
			row.High24h,
			row.Low24h,
			row.AllTimeHigh,
			row.MarketCap,
			row.Volume24h,
			row.Rank,
			row.FDV,
			row.LastUpdate,
		})
	}
	table.Render()

	if len(f.MissingIDs) > 0 {
		fmt.Fprintln(buf, color.YellowString("No matching rows for ids: %s", strings.Join(f.MissingIDs, ", ")))
	}
}

func (d *Dashboard) writeCharts(buf *bytes.Buffer, f *Frame) {
	for _, panel := range f.Charts {
		buf.WriteByte('\n')
		if len(panel.Points) == 0 {
			fmt.Fprintln(buf, color.YellowString("No chart data for %s.", panel.ID))
			continue
		}
		prices := make([]float64, len(panel.Points))
		for i, p := range panel.Points {
			prices[i] = p.Price
		}
		caption := fmt.Sprintf("%s (%s) - last %dd", strings.ToUpper(panel.ID), strings.ToUpper(f.Currency), f.ChartDays)
		fmt.Fprintln(buf, asciigraph.Plot(prices,
			asciigraph.Height(8),
			asciigraph.Width(70),
			asciigraph.Precision(4),
			asciigraph.Caption(caption)))
	}
}

func colorCell(c display.Cell) string {
	switch c.Class {
	case display.Positive:
		return color.GreenString(c.Text)
	case display.Negative:
		return color.RedString(c.Text)
	default:
		return faint(c.Text)
	}
}

func deltaArrow(c display.Cell) string {
	switch c.Class {
	case display.Positive:
		return color.GreenString("▲ " + c.Text)
	case display.Negative:
		return color.RedString("▼ " + c.Text)
	default:
		return faint(c.Text)
	}
}

func progressBar(remaining, total time.Duration) string {
	const width = 30
	if total <= 0 {
		return "[" + strings.Repeat("-", width) + "]"
	}
	filled := int(float64(width) * float64(total-remaining) / float64(total))
	if filled < 0 {
		filled = 0
	} else if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}
