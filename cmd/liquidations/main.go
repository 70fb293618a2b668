// Liquidation dashboard: timeframe overview, 24h aggregate stats, the ten
// largest liquidations and a per-coin breakdown.
//
// Usage:
//
//	liquidations [-watch 30s]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"moonflow/internal/cli"
	"moonflow/moondev"
)

func main() {
	watch := flag.Duration("watch", 0, "refresh interval, 0 renders once")
	flag.Parse()

	_ = godotenv.Load()

	client, err := moondev.New()
	if err != nil {
		cli.Fatal(err)
	}

	ctx := context.Background()

	render(ctx, client)
	if *watch <= 0 {
		return
	}

	ticker := time.NewTicker(*watch)
	defer ticker.Stop()
	for range ticker.C {
		fmt.Print("\033[H\033[2J")
		render(ctx, client)
	}
}

func render(ctx context.Context, client *moondev.Client) {
	cli.Header("LIQUIDATION DASHBOARD")

	renderTimeframes(ctx, client)

	stats, err := client.LiquidationStats(ctx)
	if err != nil {
		cli.Fatal(err)
	}
	window := cli.Parse(stats).Sub("windows").Sub("24h", "4h")

	renderStats(window)
	renderLargest(window)
	renderByCoin(window)

	fmt.Printf("%s%s | api.moondev.com%s\n", cli.Dim, time.Now().Format("2006-01-02 15:04:05"), cli.Reset)
}

func renderTimeframes(ctx context.Context, client *moondev.Client) {
	fmt.Printf("\n%sLiquidations by timeframe%s\n", cli.Bold, cli.Reset)

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIMEFRAME\tCOUNT\tTOTAL USD\tLONGS\tSHORTS\tLONG/SHORT")

	for _, tf := range []string{"10m", "1h", "4h", "24h"} {
		body, err := client.Liquidations(ctx, tf)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\t\t\t\t\n", tf, err)
			continue
		}
		doc := cli.Parse(body)
		stats := doc.Sub("stats")
		if len(stats) == 0 {
			stats = doc
		}

		longs := stats.Int("long_count", "longs")
		shorts := stats.Int("short_count", "shorts")
		share := 0.5
		if longs+shorts > 0 {
			share = float64(longs) / float64(longs+shorts)
		}

		fmt.Fprintf(w, "%s\t%d\t%s\t%s%d%s\t%s%d%s\t%s\n",
			tf,
			stats.Int("total_count"),
			cli.FormatUSD(stats.Float("total_value_usd", "total_usd")),
			cli.Green, longs, cli.Reset,
			cli.Red, shorts, cli.Reset,
			cli.Bar(share),
		)
	}
	w.Flush()
}

func renderStats(window cli.Doc) {
	fmt.Printf("\n%sAggregated statistics (24h)%s\n", cli.Bold, cli.Reset)

	longCount := window.Int("long_count")
	shortCount := window.Int("short_count")

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Total\t%d events\t%s\n",
		window.Int("total_count"), cli.FormatUSD(window.Float("total_value_usd")))
	fmt.Fprintf(w, "%sLongs%s\t%d events\t%s\n",
		cli.Green, cli.Reset, longCount, cli.FormatUSD(window.Float("long_value_usd")))
	fmt.Fprintf(w, "%sShorts%s\t%d events\t%s\n",
		cli.Red, cli.Reset, shortCount, cli.FormatUSD(window.Float("short_value_usd")))
	w.Flush()

	if longCount+shortCount > 0 {
		share := float64(longCount) / float64(longCount+shortCount)
		fmt.Printf("Ratio  %s %.1f%% long\n", cli.Bar(share), share*100)
	}
}

func renderLargest(window cli.Doc) {
	largest := window.List("largest")
	if len(largest) == 0 {
		return
	}

	fmt.Printf("\n%sTop 10 largest liquidations (24h)%s\n", cli.Bold, cli.Reset)

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tVALUE\tCOIN\tSIDE\tPRICE\tWALLET\tTIME")

	if len(largest) > 10 {
		largest = largest[:10]
	}
	for i, liq := range largest {
		side := strings.ToUpper(liq.Str("side", "direction"))
		color := cli.Red
		if side == "LONG" || side == "BUY" {
			color = cli.Green
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s%s%s\t$%.2f\t%s\t%s\n",
			i+1,
			cli.FormatUSD(liq.Float("value_usd", "usd", "value")),
			liq.Str("coin", "symbol"),
			color, side, cli.Reset,
			liq.Float("price"),
			liq.Str("address", "wallet", "user"),
			liq.Str("timestamp", "time"),
		)
	}
	w.Flush()
}

func renderByCoin(window cli.Doc) {
	byCoin := window.Sub("by_coin")
	if len(byCoin) == 0 {
		return
	}

	type coinRow struct {
		coin string
		data cli.Doc
	}
	rows := make([]coinRow, 0, len(byCoin))
	for _, coin := range byCoin.Keys() {
		rows = append(rows, coinRow{coin, byCoin.Sub(coin)})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].data.Float("total_value_usd", "total_value") >
			rows[j].data.Float("total_value_usd", "total_value")
	})
	if len(rows) > 10 {
		rows = rows[:10]
	}

	fmt.Printf("\n%sLiquidations by coin (24h)%s\n", cli.Bold, cli.Reset)

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COIN\tCOUNT\tTOTAL\tLONG $\tSHORT $\tLONG/SHORT")

	for _, row := range rows {
		long := row.data.Float("long_value_usd", "long_value")
		short := row.data.Float("short_value_usd", "short_value")
		share := 0.5
		if long+short > 0 {
			share = long / (long + short)
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
			row.coin,
			row.data.Int("count", "total_count"),
			cli.FormatUSD(row.data.Float("total_value_usd", "total_value")),
			cli.FormatUSD(long),
			cli.FormatUSD(short),
			cli.Bar(share),
		)
	}
	w.Flush()
}
