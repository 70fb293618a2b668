// Positions dashboard: whale positions above the $2M tracking threshold plus
// the aggregate view across every tracked address.
//
// Usage:
//
//	positions [-all] [-coin BTC] [-top 20]
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
	all := flag.Bool("all", false, "show all tracked positions instead of the $2M+ set")
	coin := flag.String("coin", "", "only show positions in this coin")
	top := flag.Int("top", 20, "number of positions to display")
	flag.Parse()

	_ = godotenv.Load()

	client, err := moondev.New()
	if err != nil {
		cli.Fatal(err)
	}

	ctx := context.Background()

	var (
		body  moondev.Document
		title string
	)
	if *all {
		body, err = client.AllPositions(ctx)
		title = "ALL TRACKED POSITIONS"
	} else {
		body, err = client.Positions(ctx)
		title = "WHALE POSITIONS ($2M+)"
	}
	if err != nil {
		cli.Fatal(err)
	}

	cli.Header(title)

	doc := cli.Parse(body)
	positions := doc.List("positions", "data")
	if positions == nil {
		positions = cli.ParseList(body)
	}
	if *coin != "" {
		filtered := positions[:0]
		for _, p := range positions {
			if strings.EqualFold(p.Str("coin", "symbol"), *coin) {
				filtered = append(filtered, p)
			}
		}
		positions = filtered
	}
	if len(positions) == 0 {
		fmt.Println("no positions returned")
		return
	}

	sort.Slice(positions, func(i, j int) bool {
		return abs(positions[i].Float("position_value", "value_usd", "notional")) >
			abs(positions[j].Float("position_value", "value_usd", "notional"))
	})

	var longValue, shortValue float64
	for _, p := range positions {
		v := p.Float("position_value", "value_usd", "notional")
		size := p.Float("size", "szi", "position")
		if size >= 0 {
			longValue += abs(v)
		} else {
			shortValue += abs(v)
		}
	}

	shown := positions
	if len(shown) > *top {
		shown = shown[:*top]
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tCOIN\tSIDE\tVALUE\tENTRY\tPNL\tWALLET")
	for i, p := range shown {
		size := p.Float("size", "szi", "position")
		side, color := "LONG", cli.Green
		if size < 0 {
			side, color = "SHORT", cli.Red
		}
		if s := strings.ToUpper(p.Str("side", "direction")); s != "" {
			side, color = s, cli.Green
			if s == "SHORT" || s == "SELL" {
				color = cli.Red
			}
		}
		fmt.Fprintf(w, "%d\t%s\t%s%s%s\t%s\t$%.2f\t%s\t%s\n",
			i+1,
			p.Str("coin", "symbol"),
			color, side, cli.Reset,
			cli.FormatUSD(abs(p.Float("position_value", "value_usd", "notional"))),
			p.Float("entry_price", "entry"),
			cli.FormatPnL(p.Float("unrealized_pnl", "pnl")),
			p.Str("address", "wallet", "user"),
		)
	}
	w.Flush()

	fmt.Printf("\n%d positions tracked", len(positions))
	if longValue+shortValue > 0 {
		share := longValue / (longValue + shortValue)
		fmt.Printf(" | long %s short %s | %s %.1f%% long",
			cli.FormatUSD(longValue), cli.FormatUSD(shortValue), cli.Bar(share), share*100)
	}
	fmt.Println()
	fmt.Printf("%s%s | api.moondev.com%s\n", cli.Dim, time.Now().Format("2006-01-02 15:04:05"), cli.Reset)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
