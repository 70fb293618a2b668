package swarm

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"moonflow/logger"
	"moonflow/moondev"
)

// DirectorModel drives the planning conversation. A single fast model keeps
// the chat loop responsive; the full roster only sees the collected data.
var DirectorModel = Model{"Grok 4 Fast", "x-ai/grok-4-fast"}

// PlanCall is one dataset fetch proposed by the director, e.g.
// liquidations("24h").
type PlanCall struct {
	Name string
	Arg  string
}

func (p PlanCall) String() string {
	if p.Arg == "" {
		return p.Name + "()"
	}
	return fmt.Sprintf("%s(%q)", p.Name, p.Arg)
}

// endpointCall binds a plan name to the client method that serves it. An
// empty arg falls back to the entry's default inside fetch.
type endpointCall struct {
	describe string
	fetch    func(ctx context.Context, c *moondev.Client, arg string) (moondev.Document, error)
}

func timeframeOr(arg, fallback string) string {
	if arg == "" {
		return fallback
	}
	return arg
}

func intOr(arg string, fallback int) int {
	if n, err := strconv.Atoi(arg); err == nil {
		return n
	}
	return fallback
}

var catalogOrder = []string{
	"liquidations", "all_liquidations", "all_liquidation_stats",
	"positions", "all_positions",
	"hlp_sentiment", "hlp_positions", "hlp_trades", "hlp_trade_stats",
	"hlp_liquidator_status", "hlp_market_maker", "hlp_timing", "hlp_correlation",
	"smart_money_rankings", "smart_money_leaderboard", "smart_money_signals",
	"orderflow", "imbalance", "trades", "large_trades",
	"tick_latest", "whales", "buyers", "events",
	"user_positions", "user_fills",
}

var endpointCatalog = map[string]endpointCall{
	"liquidations": {
		describe: `liquidations("24h") - liquidation totals and top events, timeframes 10m/1h/4h/12h/24h/2d/7d/14d/30d`,
		fetch: func(ctx context.Context, c *moondev.Client, arg string) (moondev.Document, error) {
			return c.Liquidations(ctx, timeframeOr(arg, "24h"))
		},
	},
	"all_liquidations": {
		describe: `all_liquidations("24h") - liquidations combined across Hyperliquid, Binance, Bybit and OKX`,
		fetch: func(ctx context.Context, c *moondev.Client, arg string) (moondev.Document, error) {
			return c.AllLiquidations(ctx, timeframeOr(arg, "24h"))
		},
	},
	"all_liquidation_stats": {
		describe: `all_liquidation_stats() - per-exchange liquidation volume breakdown`,
		fetch: func(ctx context.Context, c *moondev.Client, _ string) (moondev.Document, error) {
			return c.AllLiquidationStats(ctx)
		},
	},
	"positions": {
		describe: `positions() - top 50 whale positions across all symbols, near-liquidation flags`,
		fetch: func(ctx context.Context, c *moondev.Client, _ string) (moondev.Document, error) {
			return c.Positions(ctx)
		},
	},
	"all_positions": {
		describe: `all_positions() - every symbol with its top 50 longs and shorts (large response)`,
		fetch: func(ctx context.Context, c *moondev.Client, _ string) (moondev.Document, error) {
			return c.AllPositions(ctx)
		},
	},
	"hlp_sentiment": {
		describe: `hlp_sentiment() - HLP z-score sentiment; z > +2 means retail is short, z < -2 means retail is long`,
		fetch: func(ctx context.Context, c *moondev.Client, _ string) (moondev.Document, error) {
			return c.HLPSentiment(ctx)
		},
	},
	"hlp_positions": {
		describe: `hlp_positions() - all HLP strategy positions plus combined net exposure`,
		fetch: func(ctx context.Context, c *moondev.Client, _ string) (moondev.Document, error) {
			return c.HLPPositions(ctx, true)
		},
	},
	"hlp_trades": {
		describe: `hlp_trades("100") - recent HLP trade fills, argument is the fill count`,
		fetch: func(ctx context.Context, c *moondev.Client, arg string) (moondev.Document, error) {
			return c.HLPTrades(ctx, intOr(arg, 100))
		},
	},
	"hlp_trade_stats": {
		describe: `hlp_trade_stats() - HLP volume and fee statistics`,
		fetch: func(ctx context.Context, c *moondev.Client, _ string) (moondev.Document, error) {
			return c.HLPTradeStats(ctx)
		},
	},
	"hlp_liquidator_status": {
		describe: `hlp_liquidator_status() - real-time liquidator state and PnL`,
		fetch: func(ctx context.Context, c *moondev.Client, _ string) (moondev.Document, error) {
			return c.HLPLiquidatorStatus(ctx)
		},
	},
	"hlp_market_maker": {
		describe: `hlp_market_maker() - market-maker strategy tracker for BTC/ETH/SOL`,
		fetch: func(ctx context.Context, c *moondev.Client, _ string) (moondev.Document, error) {
			return c.HLPMarketMaker(ctx)
		},
	},
	"hlp_timing": {
		describe: `hlp_timing() - hourly and session profitability analysis`,
		fetch: func(ctx context.Context, c *moondev.Client, _ string) (moondev.Document, error) {
			return c.HLPTiming(ctx)
		},
	},
	"hlp_correlation": {
		describe: `hlp_correlation() - delta-to-price correlation by coin`,
		fetch: func(ctx context.Context, c *moondev.Client, _ string) (moondev.Document, error) {
			return c.HLPCorrelation(ctx)
		},
	},
	"smart_money_rankings": {
		describe: `smart_money_rankings() - top 100 smart money and bottom 100 wallets`,
		fetch: func(ctx context.Context, c *moondev.Client, _ string) (moondev.Document, error) {
			return c.SmartMoneyRankings(ctx)
		},
	},
	"smart_money_leaderboard": {
		describe: `smart_money_leaderboard() - top 50 performers with details`,
		fetch: func(ctx context.Context, c *moondev.Client, _ string) (moondev.Document, error) {
			return c.SmartMoneyLeaderboard(ctx)
		},
	},
	"smart_money_signals": {
		describe: `smart_money_signals("1h") - smart money trading signals, timeframes 10m/1h/24h`,
		fetch: func(ctx context.Context, c *moondev.Client, arg string) (moondev.Document, error) {
			return c.SmartMoneySignals(ctx, timeframeOr(arg, "1h"))
		},
	},
	"orderflow": {
		describe: `orderflow() - buy/sell pressure by timeframe and per coin`,
		fetch: func(ctx context.Context, c *moondev.Client, _ string) (moondev.Document, error) {
			return c.OrderFlow(ctx)
		},
	},
	"imbalance": {
		describe: `imbalance("1h") - buy/sell imbalance, timeframes 5m/15m/1h/4h/24h`,
		fetch: func(ctx context.Context, c *moondev.Client, arg string) (moondev.Document, error) {
			return c.Imbalance(ctx, timeframeOr(arg, "1h"))
		},
	},
	"trades": {
		describe: `trades() - most recent 500 trades`,
		fetch: func(ctx context.Context, c *moondev.Client, _ string) (moondev.Document, error) {
			return c.Trades(ctx)
		},
	},
	"large_trades": {
		describe: `large_trades() - trades above $100k in the last 24h`,
		fetch: func(ctx context.Context, c *moondev.Client, _ string) (moondev.Document, error) {
			return c.LargeTrades(ctx)
		},
	},
	"tick_latest": {
		describe: `tick_latest() - current prices for all symbols`,
		fetch: func(ctx context.Context, c *moondev.Client, _ string) (moondev.Document, error) {
			return c.TickLatest(ctx)
		},
	},
	"whales": {
		describe: `whales() - recent whale trades above $25k`,
		fetch: func(ctx context.Context, c *moondev.Client, _ string) (moondev.Document, error) {
			return c.Whales(ctx)
		},
	},
	"buyers": {
		describe: `buyers() - $5k+ buyers on HYPE/SOL/XRP/ETH`,
		fetch: func(ctx context.Context, c *moondev.Client, _ string) (moondev.Document, error) {
			return c.Buyers(ctx)
		},
	},
	"events": {
		describe: `events() - real-time blockchain events: transfers, swaps, deposits`,
		fetch: func(ctx context.Context, c *moondev.Client, _ string) (moondev.Document, error) {
			return c.Events(ctx)
		},
	},
	"user_positions": {
		describe: `user_positions("0x...") - open positions for any wallet address`,
		fetch: func(ctx context.Context, c *moondev.Client, arg string) (moondev.Document, error) {
			if arg == "" {
				return nil, fmt.Errorf("user_positions needs a wallet address")
			}
			return c.UserPositions(ctx, arg)
		},
	},
	"user_fills": {
		describe: `user_fills("0x...") - recent trade history for any wallet address`,
		fetch: func(ctx context.Context, c *moondev.Client, arg string) (moondev.Document, error) {
			if arg == "" {
				return nil, fmt.Errorf("user_fills needs a wallet address")
			}
			return c.UserFills(ctx, arg, 50)
		},
	},
}

// planTag marks a director reply that proposes concrete fetches.
const planTag = "[PLAN]"

func directorSystemPrompt() string {
	var b strings.Builder
	b.WriteString("You are a director for Hyperliquid market-data analysis.\n\n")
	b.WriteString("You can fetch these datasets:\n")
	for _, name := range catalogOrder {
		b.WriteString("- ")
		b.WriteString(endpointCatalog[name].describe)
		b.WriteString("\n")
	}
	b.WriteString(`
When the user asks a general question, explain what the datasets can answer.
When the user asks for analysis, propose the exact fetches under a ` + planTag + ` tag:

` + planTag + `
1. hlp_sentiment() - check retail positioning
2. liquidations("24h") - recent liquidation pressure

Use only the calls listed above. Be concise.
`)
	return b.String()
}

// analystSystemPrompt frames the roster when the collected data goes out.
const analystSystemPrompt = "You are an expert crypto analyst reviewing Hyperliquid exchange data. " +
	"Provide clear, actionable analysis based on the data provided. " +
	"Focus on what the numbers mean for trading decisions."

// maxPayloadChars caps each dataset inside the swarm prompt so a single
// large response cannot crowd out the rest.
const maxPayloadChars = 3000

// Director chats about available datasets, turns the conversation into a
// fetch plan, executes it against the market-data client and hands the
// combined context to the model swarm.
type Director struct {
	agent  *Agent
	client *moondev.Client
	system string
}

// NewDirector wires an existing swarm agent to a market-data client.
func NewDirector(agent *Agent, client *moondev.Client) *Director {
	return &Director{
		agent:  agent,
		client: client,
		system: directorSystemPrompt(),
	}
}

// Chat sends one user message to the director model and returns its reply.
func (d *Director) Chat(ctx context.Context, message string) (string, error) {
	return d.agent.queryModel(ctx, DirectorModel, message, d.system)
}

// HasPlan reports whether a director reply proposes fetches.
func HasPlan(reply string) bool {
	return strings.Contains(reply, planTag)
}

var planCallRe = regexp.MustCompile(`([a-z_]+)\(\s*"?([^)"\s]*)"?\s*\)`)

// ParsePlan extracts the known calls from a director reply in order,
// dropping duplicates and names outside the catalog.
func ParsePlan(reply string) []PlanCall {
	var calls []PlanCall
	seen := make(map[string]bool)
	for _, m := range planCallRe.FindAllStringSubmatch(reply, -1) {
		name, arg := m[1], m[2]
		if _, ok := endpointCatalog[name]; !ok {
			continue
		}
		key := name + "|" + arg
		if seen[key] {
			continue
		}
		seen[key] = true
		calls = append(calls, PlanCall{Name: name, Arg: arg})
	}
	return calls
}

// ExecutePlan fetches every planned dataset and returns a prompt-ready
// summary. Individual failures are noted inline; it only errors when
// nothing could be fetched.
func (d *Director) ExecutePlan(ctx context.Context, calls []PlanCall) (string, error) {
	if len(calls) == 0 {
		return "", fmt.Errorf("plan contains no known calls")
	}

	log := d.agent.log.WithComponent("director")

	var b strings.Builder
	fetched := 0
	for _, call := range calls {
		entry, ok := endpointCatalog[call.Name]
		if !ok {
			continue
		}
		doc, err := entry.fetch(ctx, d.client, call.Arg)
		if err != nil {
			log.WithError(err).WithFields(logger.Fields{"call": call.String()}).Warn("plan fetch failed")
			fmt.Fprintf(&b, "\n=== %s ===\nfetch failed: %v\n", call, err)
			continue
		}
		fetched++
		fmt.Fprintf(&b, "\n=== %s ===\n%s\n", call, trimPayload(doc))
	}

	if fetched == 0 {
		return "", fmt.Errorf("no dataset in the plan could be fetched")
	}
	return b.String(), nil
}

// Analyze fans the question plus collected data out to the full roster.
func (d *Director) Analyze(ctx context.Context, question, dataSummary string) []Result {
	prompt := fmt.Sprintf(`QUESTION: %s

COLLECTED HYPERLIQUID DATA:
%s

Analyze this data and provide your perspective on the question.
Be specific about what the data tells us and include actionable insights.`, question, dataSummary)

	return d.agent.Query(ctx, prompt, analystSystemPrompt)
}

func trimPayload(doc moondev.Document) string {
	s := string(doc)
	if pretty, err := json.MarshalIndent(json.RawMessage(doc), "", "  "); err == nil {
		s = string(pretty)
	}
	if len(s) > maxPayloadChars {
		s = s[:maxPayloadChars] + "\n... [truncated]"
	}
	return s
}
