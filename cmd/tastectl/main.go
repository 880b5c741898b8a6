// Tastevin - Personal Taste Tracking and Versus Matching
// Copyright 2026 Tastevin contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tastevin-app/tastevin

// Command tastectl performs maintenance against a running server's
// admin endpoints: inspecting cache effectiveness, resetting counters,
// and sweeping expired cache entries.
//
// Usage:
//
//	tastectl -server http://localhost:8480 metrics
//	tastectl -server http://localhost:8480 reset
//	tastectl -server http://localhost:8480 sweep
package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/tastevin-app/tastevin/internal/models"
)

func main() {
	server := flag.String("server", "http://localhost:8480", "Base URL of the Tastevin server")
	timeout := flag.Duration("timeout", 10*time.Second, "Request timeout")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: tastectl [flags] metrics|reset|sweep")
		flag.PrintDefaults()
		os.Exit(2)
	}

	client := &http.Client{Timeout: *timeout}
	var (
		method string
		path   string
	)
	switch flag.Arg(0) {
	case "metrics":
		method, path = http.MethodGet, "/api/v1/admin/cache/metrics"
	case "reset":
		method, path = http.MethodPost, "/api/v1/admin/cache/metrics/reset"
	case "sweep":
		method, path = http.MethodPost, "/api/v1/admin/cache/sweep"
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", flag.Arg(0))
		os.Exit(2)
	}

	if err := call(client, method, *server+path); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func call(client *http.Client, method, url string) error {
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}

	var envelope models.APIResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decoding response (%d): %w", resp.StatusCode, err)
	}
	if !envelope.Success {
		if envelope.Error != nil {
			return fmt.Errorf("%s: %s", envelope.Error.Code, envelope.Error.Message)
		}
		return fmt.Errorf("server returned status %d", resp.StatusCode)
	}

	pretty, err := json.MarshalIndent(envelope.Data, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(pretty))
	return nil
}
