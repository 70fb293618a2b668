// Wallet inspector: open positions and recent fills for a single address,
// cross-checked against the live Hyperliquid clearinghouse state.
//
// Usage:
//
//	wallet [-limit 100] [-live] 0xADDRESS
//
// A limit of -1 requests the complete fill history.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"moonflow/internal/cli"
	"moonflow/moondev"
)

func main() {
	limit := flag.Int("limit", 100, "number of fills to fetch, -1 for the complete history")
	live := flag.Bool("live", false, "also query Hyperliquid directly for current positions")
	flag.Parse()

	address := flag.Arg(0)
	if address == "" {
		fmt.Fprintln(os.Stderr, "usage: wallet [-limit N] [-live] 0xADDRESS")
		os.Exit(2)
	}

	_ = godotenv.Load()

	client, err := moondev.New()
	if err != nil {
		cli.Fatal(err)
	}

	ctx := context.Background()

	cli.Header("WALLET " + address)

	renderPositions(ctx, client, address)
	renderFills(ctx, client, address, *limit)
	if *live {
		renderLive(ctx, client, address)
	}

	fmt.Printf("%s%s | api.moondev.com%s\n", cli.Dim, time.Now().Format("2006-01-02 15:04:05"), cli.Reset)
}

func renderPositions(ctx context.Context, client *moondev.Client, address string) {
	fmt.Printf("\n%sOpen positions%s\n", cli.Bold, cli.Reset)

	body, err := client.UserPositions(ctx, address)
	if err != nil {
		cli.Fatal(err)
	}
	doc := cli.Parse(body)
	positions := doc.List("positions", "data")
	if positions == nil {
		positions = cli.ParseList(body)
	}
	if len(positions) == 0 {
		fmt.Println("no open positions")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COIN\tSIDE\tSIZE\tVALUE\tENTRY\tPNL")
	for _, p := range positions {
		size := p.Float("size", "szi")
		side, color := "LONG", cli.Green
		if size < 0 {
			side, color = "SHORT", cli.Red
			size = -size
		}
		fmt.Fprintf(w, "%s\t%s%s%s\t%.4f\t%s\t$%.2f\t%s\n",
			p.Str("coin", "symbol"),
			color, side, cli.Reset,
			size,
			cli.FormatUSD(p.Float("position_value", "value_usd", "notional")),
			p.Float("entry_price", "entry"),
			cli.FormatPnL(p.Float("unrealized_pnl", "pnl")),
		)
	}
	w.Flush()
}

func renderFills(ctx context.Context, client *moondev.Client, address string, limit int) {
	label := fmt.Sprintf("Recent fills (limit %d)", limit)
	if limit == moondev.AllFills {
		label = "Complete fill history"
	}
	fmt.Printf("\n%s%s%s\n", cli.Bold, label, cli.Reset)

	body, err := client.UserFills(ctx, address, limit)
	if err != nil {
		cli.Fatal(err)
	}
	doc := cli.Parse(body)
	fills := doc.List("fills", "data")
	if fills == nil {
		fills = cli.ParseList(body)
	}
	if len(fills) == 0 {
		fmt.Println("no fills")
		return
	}

	shown := fills
	if len(shown) > 25 {
		shown = shown[:25]
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tCOIN\tSIDE\tSIZE\tPRICE\tPNL")
	for _, f := range shown {
		side := strings.ToUpper(f.Str("side", "dir"))
		color := cli.Red
		if side == "BUY" || strings.HasPrefix(side, "OPEN LONG") || strings.HasPrefix(side, "B") {
			color = cli.Green
		}
		fmt.Fprintf(w, "%s\t%s\t%s%s%s\t%.4f\t$%.2f\t%s\n",
			f.Str("time", "timestamp"),
			f.Str("coin", "symbol"),
			color, side, cli.Reset,
			f.Float("size", "sz"),
			f.Float("price", "px"),
			cli.FormatPnL(f.Float("closed_pnl", "closedPnl", "pnl")),
		)
	}
	w.Flush()

	if len(fills) > len(shown) {
		fmt.Printf("%s... %d more fills fetched%s\n", cli.Dim, len(fills)-len(shown), cli.Reset)
	}
}

func renderLive(ctx context.Context, client *moondev.Client, address string) {
	fmt.Printf("\n%sLive clearinghouse state (Hyperliquid)%s\n", cli.Bold, cli.Reset)

	body, err := client.HyperliquidPositions(ctx, address)
	if err != nil {
		fmt.Printf("unavailable: %v\n", err)
		return
	}
	state := cli.Parse(body)

	margin := state.Sub("marginSummary")
	fmt.Printf("Account value %s, margin used %s\n",
		cli.FormatUSD(margin.Float("accountValue")),
		cli.FormatUSD(margin.Float("totalMarginUsed")))

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COIN\tSIZE\tENTRY\tLEVERAGE\tPNL")
	for _, ap := range state.List("assetPositions") {
		pos := ap.Sub("position")
		if len(pos) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s\t%.4f\t$%.2f\t%.0fx\t%s\n",
			pos.Str("coin"),
			pos.Float("szi"),
			pos.Float("entryPx"),
			pos.Sub("leverage").Float("value"),
			cli.FormatPnL(pos.Float("unrealizedPnl")),
		)
	}
	w.Flush()
}
