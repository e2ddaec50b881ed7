// mentorctl is a small CLI for exercising a running mentoring service.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const defaultServerURL = "http://localhost:8080"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	switch command {
	case "query":
		runQuery(os.Args[2:])
	case "health":
		runHealth(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runQuery(args []string) {
	flagSet := flag.NewFlagSet("query", flag.ExitOnError)
	server := flagSet.String("server", defaultServerURL, "Mentoring service URL")
	taskID := flagSet.String("task-id", "", "Correlation id (default: server-assigned)")
	timeout := flagSet.Duration("timeout", 2*time.Minute, "Request timeout")
	flagSet.Usage = printUsage
	if err := flagSet.Parse(args); err != nil {
		os.Exit(1)
	}

	if flagSet.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: query text required")
		printUsage()
		os.Exit(1)
	}
	query := flagSet.Arg(0)

	payload, err := json.Marshal(map[string]string{
		"query":   query,
		"task_id": *taskID,
	})
	if err != nil {
		fatal("failed to encode request: %v", err)
	}

	client := &http.Client{Timeout: *timeout}
	resp, err := client.Post(*server+"/query", "application/json", bytes.NewReader(payload))
	if err != nil {
		fatal("request failed: %v", err)
	}
	defer resp.Body.Close()

	printResponse(resp)
}

func runHealth(args []string) {
	flagSet := flag.NewFlagSet("health", flag.ExitOnError)
	server := flagSet.String("server", defaultServerURL, "Mentoring service URL")
	timeout := flagSet.Duration("timeout", 30*time.Second, "Request timeout")
	flagSet.Usage = printUsage
	if err := flagSet.Parse(args); err != nil {
		os.Exit(1)
	}

	client := &http.Client{Timeout: *timeout}
	resp, err := client.Get(*server + "/health")
	if err != nil {
		fatal("request failed: %v", err)
	}
	defer resp.Body.Close()

	printResponse(resp)

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}

// printResponse pretty-prints a JSON body, falling back to raw output.
func printResponse(resp *http.Response) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fatal("failed to read response: %v", err)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(pretty.String())
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: mentorctl <command> [flags]

Commands:
  query <text>   Send a mentoring query
  health         Check service health

Flags:
  -server URL    Mentoring service URL (default %s)
  -task-id ID    Correlation id for query
  -timeout D     Request timeout

Examples:
  mentorctl query "explain photosynthesis"
  mentorctl query -task-id t-1 "what is calculus"
  mentorctl health -server http://mentor.internal:8080
`, defaultServerURL)
}
