package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sort"
	"text/tabwriter"
	"time"
)

// controllerctl prints the status snapshot of a running controllermon daemon.

type entry struct {
	Host       string    `json:"host"`
	State      string    `json:"state"`
	LastChange time.Time `json:"last_change"`
}

func main() {
	api := flag.String("api", "", "daemon base URL (default $API_BASE or http://localhost:8080)")
	flag.Parse()

	base := *api
	if base == "" {
		base = os.Getenv("API_BASE")
	}
	if base == "" {
		base = "http://localhost:8080"
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(base + "/api/controllers")
	if err != nil {
		fmt.Fprintln(os.Stderr, "error contacting daemon:", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		fmt.Fprintln(os.Stderr, "daemon returned status:", resp.Status)
		os.Exit(1)
	}

	var entries map[string]entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		fmt.Fprintln(os.Stderr, "bad response:", err)
		os.Exit(1)
	}

	hosts := make([]string, 0, len(entries))
	for h := range entries {
		hosts = append(hosts, h)
	}
	sort.Strings(hosts)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "HOST\tSTATE\tLAST CHANGE")
	for _, h := range hosts {
		e := entries[h]
		changed := "-"
		if !e.LastChange.IsZero() {
			changed = e.LastChange.UTC().Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Host, e.State, changed)
	}
	w.Flush()
}
