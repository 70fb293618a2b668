// Swarm CLI: ask every model in the roster the same question and print each
// answer side by side.
//
// Usage:
//
//	swarm [-system "..."] "is BTC going up?"
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"moonflow/config"
	"moonflow/internal/cli"
	"moonflow/swarm"
)

func main() {
	systemPrompt := flag.String("system", "", "system prompt, defaults to the trading analyst framing")
	flag.Parse()

	prompt := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if prompt == "" {
		fmt.Fprintln(os.Stderr, `usage: swarm [-system "..."] "your question"`)
		os.Exit(2)
	}

	_ = godotenv.Load()

	agent, err := swarm.New(config.SwarmConfig{})
	if err != nil {
		cli.Fatal(err)
	}

	cli.Header("MODEL SWARM")
	fmt.Printf("\n%sPrompt:%s %s\n", cli.Bold, cli.Reset, prompt)
	fmt.Printf("%sQuerying %d models...%s\n", cli.Dim, len(agent.Models()), cli.Reset)

	results := agent.Query(context.Background(), prompt, *systemPrompt)

	failed := 0
	for _, r := range results {
		fmt.Printf("\n%s%s━━━ %s ━━━%s\n", cli.Bold, cli.Magenta, r.Model, cli.Reset)
		if r.Err != nil {
			failed++
			fmt.Printf("%sfailed: %v%s\n", cli.Red, r.Err, cli.Reset)
			continue
		}
		fmt.Println(r.Response)
	}

	fmt.Printf("\n%s%d/%d models answered%s\n", cli.Dim, len(results)-failed, len(results), cli.Reset)
	if failed == len(results) {
		os.Exit(1)
	}
}
