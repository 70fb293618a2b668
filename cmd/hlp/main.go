// HLP dashboard for the Hyperliquid protocol vault. HLP takes the opposite
// side of retail flow, so its net delta is a contrarian retail indicator.
//
// Usage:
//
//	hlp sentiment    z-score signal (the default)
//	hlp analytics    liquidators, market maker, timing, correlation
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
	flag.Parse()

	_ = godotenv.Load()

	client, err := moondev.New()
	if err != nil {
		cli.Fatal(err)
	}

	ctx := context.Background()

	mode := flag.Arg(0)
	if mode == "" {
		mode = "sentiment"
	}

	switch mode {
	case "sentiment":
		renderSentiment(ctx, client)
	case "analytics":
		renderAnalytics(ctx, client)
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q: want sentiment or analytics\n", mode)
		os.Exit(2)
	}

	fmt.Printf("%s%s | api.moondev.com%s\n", cli.Dim, time.Now().Format("2006-01-02 15:04:05"), cli.Reset)
}

func renderSentiment(ctx context.Context, client *moondev.Client) {
	cli.Header("HLP SENTIMENT")

	body, err := client.HLPSentiment(ctx)
	if err != nil {
		cli.Fatal(err)
	}
	doc := cli.Parse(body)

	z := doc.Float("z_score", "zscore")
	signal := doc.Str("signal", "interpretation")
	if signal == "" {
		signal = doc.Sub("signal").Str("text", "message", "signal")
	}

	fmt.Printf("\nSignal      %s%s%s\n", signalColor(z), signal, cli.Reset)
	fmt.Printf("Z-score     %s%+.2fσ%s from mean\n", signalColor(z), z, cli.Reset)
	fmt.Printf("Net delta   %s\n", cli.FormatUSD(doc.Float("net_delta", "delta")))
	fmt.Printf("Percentile  %.1f%%\n\n", doc.Float("percentile", "pct"))

	fmt.Println("SHORT ◄" + zScale(z) + "► LONG")
	fmt.Println()
	fmt.Println(interpret(z))

	stats := doc.Sub("stats", "historical")
	if len(stats) > 0 {
		fmt.Printf("\n%sHistorical context (60 days)%s\n", cli.Bold, cli.Reset)
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Mean delta\t%s\n", cli.FormatUSD(stats.Float("mean", "avg_delta")))
		fmt.Fprintf(w, "Std deviation\t%s\n", cli.FormatUSD(stats.Float("std", "std_delta")))
		fmt.Fprintf(w, "Max (most long)\t%s\n", cli.FormatUSD(stats.Float("max", "max_delta")))
		fmt.Fprintf(w, "Min (most short)\t%s\n", cli.FormatUSD(stats.Float("min", "min_delta")))
		w.Flush()
	}
}

// zScale renders the z-score position on a -3σ..+3σ axis.
func zScale(z float64) string {
	if z < -3 {
		z = -3
	}
	if z > 3 {
		z = 3
	}
	pos := int((z + 3) / 6 * 40)
	if pos > 39 {
		pos = 39
	}
	return strings.Repeat("░", pos) + "█" + strings.Repeat("░", 39-pos)
}

func signalColor(z float64) string {
	switch {
	case z >= 2:
		return cli.Green
	case z <= -2:
		return cli.Red
	case z >= 1 || z <= -1:
		return cli.Yellow
	default:
		return ""
	}
}

func interpret(z float64) string {
	switch {
	case z >= 2.5:
		return "EXTREME: HLP heavily long, retail heavily short. Short squeeze likely."
	case z >= 2.0:
		return "BULLISH: HLP more long than usual, retail leaning short."
	case z >= 1.0:
		return "SLIGHTLY BULLISH: mild long bias."
	case z <= -2.5:
		return "EXTREME: HLP heavily short, retail heavily long. Long squeeze likely."
	case z <= -2.0:
		return "BEARISH: HLP more short than usual, retail leaning long."
	case z <= -1.0:
		return "SLIGHTLY BEARISH: mild short bias."
	default:
		return "NEUTRAL: HLP near its historical average."
	}
}

func renderAnalytics(ctx context.Context, client *moondev.Client) {
	cli.Header("HLP ANALYTICS")

	renderLiquidators(ctx, client)
	renderMarketMaker(ctx, client)
	renderTiming(ctx, client)
	renderCorrelation(ctx, client)
}

func renderLiquidators(ctx context.Context, client *moondev.Client) {
	fmt.Printf("\n%sLiquidator status%s\n", cli.Bold, cli.Reset)

	body, err := client.HLPLiquidatorStatus(ctx)
	if err != nil {
		fmt.Printf("unavailable: %v\n", err)
		return
	}
	doc := cli.Parse(body)

	liquidators := doc.List("liquidators", "data")
	if len(liquidators) == 0 {
		fmt.Printf("active %d, idle %d, total pnl %s\n",
			doc.Int("active_count", "active"),
			doc.Int("idle_count", "idle"),
			cli.FormatPnL(doc.Float("total_pnl")))
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LIQUIDATOR\tSTATUS\tPNL\tLAST ACTIVE")
	if len(liquidators) > 10 {
		liquidators = liquidators[:10]
	}
	for _, liq := range liquidators {
		status := liq.Str("status")
		display := cli.Dim + "idle" + cli.Reset
		if strings.EqualFold(status, "active") {
			display = cli.Green + "active" + cli.Reset
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			liq.Str("address", "wallet"),
			display,
			cli.FormatPnL(liq.Float("pnl", "profit")),
			liq.Str("last_active", "timestamp"),
		)
	}
	w.Flush()
}

func renderMarketMaker(ctx context.Context, client *moondev.Client) {
	fmt.Printf("\n%sMarket maker%s\n", cli.Bold, cli.Reset)

	body, err := client.HLPMarketMaker(ctx)
	if err != nil {
		fmt.Printf("unavailable: %v\n", err)
		return
	}
	coins := cli.Parse(body).Sub("coins", "symbols", "data")
	if len(coins) == 0 {
		fmt.Println("no market maker data")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COIN\tPOSITION\tSIDE\tENTRY\tMARK\tPNL")
	for _, coin := range []string{"BTC", "ETH", "SOL"} {
		data := coins.Sub(coin, strings.ToLower(coin))
		if len(data) == 0 {
			continue
		}
		position := data.Float("position", "size")
		side, color := "FLAT", cli.Dim
		if position > 0 {
			side, color = "LONG", cli.Green
		} else if position < 0 {
			side, color = "SHORT", cli.Red
			position = -position
		}
		fmt.Fprintf(w, "%s\t%s\t%s%s%s\t$%.2f\t$%.2f\t%s\n",
			coin,
			cli.FormatUSD(position),
			color, side, cli.Reset,
			data.Float("entry_price", "entry"),
			data.Float("mark_price", "mark"),
			cli.FormatPnL(data.Float("pnl", "unrealized_pnl")),
		)
	}
	w.Flush()
}

func renderTiming(ctx context.Context, client *moondev.Client) {
	fmt.Printf("\n%sTiming%s\n", cli.Bold, cli.Reset)

	body, err := client.HLPTiming(ctx)
	if err != nil {
		fmt.Printf("unavailable: %v\n", err)
		return
	}
	doc := cli.Parse(body)

	sessions := doc.Sub("sessions", "by_session")
	if len(sessions) > 0 {
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SESSION\tPNL\tTRADES")
		names := sessions.Keys()
		sort.Strings(names)
		for _, name := range names {
			data := sessions.Sub(name)
			fmt.Fprintf(w, "%s\t%s\t%d\n",
				strings.ToUpper(name),
				cli.FormatPnL(data.Float("pnl", "profit")),
				data.Int("trades", "count"),
			)
		}
		w.Flush()
	}

	hourly := doc.Sub("hourly", "by_hour")
	if len(hourly) > 0 {
		type hourPnL struct {
			hour string
			pnl  float64
		}
		hours := make([]hourPnL, 0, len(hourly))
		for _, h := range hourly.Keys() {
			hours = append(hours, hourPnL{h, hourly.Sub(h).Float("pnl")})
		}
		sort.Slice(hours, func(i, j int) bool { return hours[i].pnl > hours[j].pnl })

		fmt.Println("Best hours (UTC):")
		for i := 0; i < 3 && i < len(hours); i++ {
			fmt.Printf("  %s:00  %s\n", hours[i].hour, cli.FormatPnL(hours[i].pnl))
		}
		fmt.Println("Worst hours (UTC):")
		for i := len(hours) - 3; i < len(hours); i++ {
			if i < 0 {
				continue
			}
			fmt.Printf("  %s:00  %s\n", hours[i].hour, cli.FormatPnL(hours[i].pnl))
		}
	}
}

func renderCorrelation(ctx context.Context, client *moondev.Client) {
	fmt.Printf("\n%sDelta-price correlation%s\n", cli.Bold, cli.Reset)

	body, err := client.HLPCorrelation(ctx)
	if err != nil {
		fmt.Printf("unavailable: %v\n", err)
		return
	}
	coins := cli.Parse(body).Sub("coins", "by_coin", "data")
	if len(coins) == 0 {
		fmt.Println("no correlation data")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COIN\tCORRELATION")
	names := coins.Keys()
	sort.Strings(names)
	for _, name := range names {
		corr := coins.Float(name)
		if sub := coins.Sub(name); len(sub) > 0 {
			corr = sub.Float("correlation", "corr")
		}
		fmt.Fprintf(w, "%s\t%+.3f\n", strings.ToUpper(name), corr)
	}
	w.Flush()
}
