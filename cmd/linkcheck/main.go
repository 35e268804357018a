package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"linkshield/internal/detection/typosquat"
)

// linkcheck runs the typosquat engine over URLs given as arguments, or over
// stdin when no arguments are passed. Handy for eyeballing verdicts without
// standing up the API.
func main() {
	jsonOut := flag.Bool("json", false, "print verdicts as JSON lines")
	flag.Parse()

	engine := typosquat.NewDefaultEngine()

	urls := flag.Args()
	if len(urls) == 0 {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			urls = append(urls, line)
		}
		if err := scanner.Err(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to read stdin: %v\n", err)
			os.Exit(1)
		}
	}

	suspicious := 0
	enc := json.NewEncoder(os.Stdout)
	for _, u := range urls {
		result := engine.Analyze(u)
		if result.Suspicious {
			suspicious++
		}

		if *jsonOut {
			enc.Encode(result)
			continue
		}

		if result.Suspicious {
			fmt.Printf("SUSPECT  %3d  %s\n", result.RiskScore, result.URL)
			for _, reason := range result.Reasons {
				fmt.Printf("              - %s\n", reason)
			}
		} else {
			fmt.Printf("ok         0  %s\n", result.URL)
		}
	}

	if suspicious > 0 {
		os.Exit(2)
	}
}
