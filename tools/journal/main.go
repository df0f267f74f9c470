package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"tankai-server/internal/infrastructure/storage"
	"time"
)

func main() {
	if len(os.Args) < 3 {
		printHelp()
		return
	}

	j, err := storage.Open(os.Args[1])
	if err != nil {
		fmt.Printf("Cannot open journal: %v\n", err)
		os.Exit(1)
	}
	defer j.Close()

	switch os.Args[2] {
	case "matches":
		matches, err := j.Matches()
		if err != nil {
			fmt.Printf("Query failed: %v\n", err)
			return
		}
		for _, m := range matches {
			fmt.Printf("%s  seed=%d  arena=%s  tanks=%d  started=%s\n",
				m.ID, m.Seed, m.Arena, m.Tanks, time.Unix(m.StartedAt, 0).Format(time.RFC3339))
		}
	case "events":
		if len(os.Args) < 4 {
			fmt.Println("Usage: journal <db> events <match_id> [agent]")
			return
		}
		agent := -1
		if len(os.Args) > 4 {
			agent, err = strconv.Atoi(os.Args[4])
			if err != nil {
				fmt.Printf("Invalid agent: %v\n", err)
				return
			}
		}
		events, err := j.Events(os.Args[3], agent)
		if err != nil {
			fmt.Printf("Query failed: %v\n", err)
			return
		}
		for _, e := range events {
			fmt.Printf("frame=%-6d agent=%d %-12s (%.0f, %.0f) target=%d amount=%d\n",
				e.Frame, e.Agent, e.Kind, e.X, e.Y, e.Target, e.Amount)
		}
	case "counts":
		if len(os.Args) < 4 {
			fmt.Println("Usage: journal <db> counts <match_id>")
			return
		}
		counts, err := j.CountByKind(os.Args[3])
		if err != nil {
			fmt.Printf("Query failed: %v\n", err)
			return
		}
		kinds := make([]string, 0, len(counts))
		for k := range counts {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Printf("%-12s %d\n", k, counts[k])
		}
	default:
		printHelp()
	}
}

func printHelp() {
	fmt.Println(`Journal - просмотр журнала событий матчей
Usage: journal <db> <command>
Commands:
  matches                    - список записанных матчей, новые первыми
  events <match_id> [agent]  - события матча (опционально одного агента)
  counts <match_id>          - число событий каждого типа`)
}
