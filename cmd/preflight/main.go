package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// preflight checks the environment before the daemon is started, so a bad
// deploy fails here instead of at 3am when the first alert cannot be sent.

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	host := strings.TrimSpace(os.Getenv("EMAIL_HOST"))
	port := strings.TrimSpace(os.Getenv("EMAIL_PORT"))
	user := strings.TrimSpace(os.Getenv("EMAIL_USER"))
	pass := strings.TrimSpace(os.Getenv("EMAIL_PASS"))
	to := strings.TrimSpace(os.Getenv("EMAIL_TO"))
	db := strings.TrimSpace(os.Getenv("DATABASE_URL"))

	if host == "" {
		fail("EMAIL_HOST is empty (alerts cannot be delivered).")
	}
	if port == "" {
		fail("EMAIL_PORT is empty.")
	} else if _, err := strconv.Atoi(port); err != nil {
		fail("EMAIL_PORT is not a number: " + port)
	}
	if user == "" {
		fail("EMAIL_USER is empty.")
	}
	if pass == "" {
		fail("EMAIL_PASS is empty.")
	}
	if to == "" {
		fail("EMAIL_TO is empty (no recipients).")
	} else if strings.Contains(to, " ") && !strings.Contains(to, ",") {
		warn("EMAIL_TO contains spaces; use comma-separated recipients, e.g. a@x.com,b@x.com")
	}
	ok("email settings present")

	if db == "" {
		warn("DATABASE_URL empty — transition history will be kept in memory only.")
	} else {
		ok("DATABASE_URL present")
	}

	ok("preflight passed")
}
