// Director CLI: chat about the available Hyperliquid datasets, confirm the
// proposed fetch plan, then read the swarm's take on the collected data.
//
// Usage:
//
//	director
//
// Type a question at the prompt; answer y when the director proposes a plan.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"moonflow/config"
	"moonflow/internal/cli"
	"moonflow/moondev"
	"moonflow/swarm"
)

func main() {
	_ = godotenv.Load()

	agent, err := swarm.New(config.SwarmConfig{})
	if err != nil {
		cli.Fatal(err)
	}
	client, err := moondev.New()
	if err != nil {
		cli.Fatal(err)
	}
	director := swarm.NewDirector(agent, client)

	cli.Header("DIRECTOR")
	fmt.Printf("%sAsk about Hyperliquid data; quit to exit.%s\n", cli.Dim, cli.Reset)

	ctx := context.Background()
	in := bufio.NewScanner(os.Stdin)
	for prompt(); in.Scan(); prompt() {
		line := strings.TrimSpace(in.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "q", "quit", "exit":
			return
		}

		reply, err := director.Chat(ctx, line)
		if err != nil {
			fmt.Printf("%sdirector unavailable: %v%s\n", cli.Red, err, cli.Reset)
			continue
		}
		fmt.Printf("\n%s\n", reply)

		if !swarm.HasPlan(reply) {
			continue
		}
		calls := swarm.ParsePlan(reply)
		if len(calls) == 0 {
			fmt.Printf("%splan contained no known calls%s\n", cli.Yellow, cli.Reset)
			continue
		}

		fmt.Printf("\n%sProposed fetches:%s\n", cli.Bold, cli.Reset)
		for _, c := range calls {
			fmt.Printf("  %s\n", c)
		}
		if !confirm(in) {
			fmt.Printf("%splan cancelled%s\n", cli.Dim, cli.Reset)
			continue
		}

		fmt.Printf("%sfetching %d datasets...%s\n", cli.Dim, len(calls), cli.Reset)
		summary, err := director.ExecutePlan(ctx, calls)
		if err != nil {
			fmt.Printf("%s%v%s\n", cli.Red, err, cli.Reset)
			continue
		}

		fmt.Printf("%squerying %d models...%s\n", cli.Dim, len(agent.Models()), cli.Reset)
		results := director.Analyze(ctx, line, summary)
		for _, r := range results {
			fmt.Printf("\n%s%s━━━ %s ━━━%s\n", cli.Bold, cli.Magenta, r.Model, cli.Reset)
			if r.Err != nil {
				fmt.Printf("%sfailed: %v%s\n", cli.Red, r.Err, cli.Reset)
				continue
			}
			fmt.Println(r.Response)
		}
		fmt.Println()
	}
}

func prompt() {
	fmt.Printf("\n%sdirector%s> ", cli.Cyan, cli.Reset)
}

func confirm(in *bufio.Scanner) bool {
	fmt.Printf("%sRun this plan? [y/N]%s ", cli.Bold, cli.Reset)
	if !in.Scan() {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(in.Text()), "y")
}
