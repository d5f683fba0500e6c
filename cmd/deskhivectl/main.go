// deskhivectl is a command-line client for deskhived. It can spawn a daemon
// over a process pipe or target a running HTTP daemon, invoke any catalog
// method, and print the JSON result.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/deskhive-io/deskhive/internal/catalog"
	"github.com/deskhive-io/deskhive/internal/rpc"
	"github.com/deskhive-io/deskhive/internal/store"
)

// caller is satisfied by both the pipe client and the HTTP client.
type caller interface {
	Call(ctx context.Context, method string, params map[string]any) (json.RawMessage, error)
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(0)
	}

	switch os.Args[1] {
	case "call":
		cmdCall(os.Args[2:])
	case "methods":
		cmdMethods(os.Args[2:])
	case "seed":
		cmdSeed(os.Args[2:])
	case "health":
		cmdHealth(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`deskhivectl - client for the deskhive customer data service

Usage:
  deskhivectl call <method> [params-json]   Invoke a catalog method
  deskhivectl methods [-schema]             List available methods
  deskhivectl seed -db <path>               Create and seed a database
  deskhivectl health                        Check that the backend responds

Options for call/health:
  -db <path>      Database path for a spawned daemon (default from env)
  -server <cmd>   Daemon binary to spawn (default "deskhived")
  -http <url>     Target a running HTTP daemon at <url>/rpc instead`)
}

func newCaller(ctx context.Context, httpURL, server, dbPath string) (caller, func(), error) {
	if httpURL != "" {
		return rpc.NewHTTPClient(httpURL + "/rpc"), func() {}, nil
	}

	args := []string{}
	if dbPath != "" {
		args = append(args, "-db", dbPath)
	}
	client, err := rpc.NewProcessClient(ctx, server, args...)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { client.Close() }, nil
}

func cmdCall(args []string) {
	fs := flag.NewFlagSet("call", flag.ExitOnError)
	dbPath := fs.String("db", "", "database path for a spawned daemon")
	server := fs.String("server", "deskhived", "daemon binary to spawn")
	httpURL := fs.String("http", "", "target a running HTTP daemon")
	fs.Parse(args)

	rest := fs.Args()
	if len(rest) < 1 {
		fmt.Fprintln(os.Stderr, "usage: deskhivectl call <method> [params-json]")
		os.Exit(1)
	}
	method := rest[0]

	params := map[string]any{}
	if len(rest) > 1 {
		if err := json.Unmarshal([]byte(rest[1]), &params); err != nil {
			fmt.Fprintf(os.Stderr, "invalid params JSON: %v\n", err)
			os.Exit(1)
		}
	}

	ctx := context.Background()
	c, done, err := newCaller(ctx, *httpURL, *server, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect: %v\n", err)
		os.Exit(1)
	}
	defer done()

	result, err := c.Call(ctx, method, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "call failed: %v\n", err)
		os.Exit(1)
	}
	printJSON(result)
}

func cmdMethods(args []string) {
	fs := flag.NewFlagSet("methods", flag.ExitOnError)
	withSchema := fs.Bool("schema", false, "include parameter schemas")
	fs.Parse(args)

	// A throwaway in-memory store backs the local registry, so every
	// registered operation is callable, not just listable.
	s, err := store.Open(":memory:")
	if err != nil {
		fmt.Fprintf(os.Stderr, "open: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	reg := catalog.NewRegistry()
	catalog.RegisterAll(reg, catalog.New(s))

	for _, name := range reg.Names() {
		op, _ := reg.Get(name)
		fmt.Printf("%-42s %s\n", name, op.Description())
		if *withSchema {
			schema, _ := json.MarshalIndent(op.Parameters(), "  ", "  ")
			fmt.Printf("  %s\n", schema)
		}
	}
}

func cmdSeed(args []string) {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	dbPath := fs.String("db", "", "database path")
	fs.Parse(args)

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: deskhivectl seed -db <path>")
		os.Exit(1)
	}

	s, err := store.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	if err := s.Seed(); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("seeded %s\n", *dbPath)
}

func cmdHealth(args []string) {
	fs := flag.NewFlagSet("health", flag.ExitOnError)
	dbPath := fs.String("db", "", "database path for a spawned daemon")
	server := fs.String("server", "deskhived", "daemon binary to spawn")
	httpURL := fs.String("http", "", "target a running HTTP daemon")
	fs.Parse(args)

	ctx := context.Background()
	c, done, err := newCaller(ctx, *httpURL, *server, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect: %v\n", err)
		os.Exit(1)
	}
	defer done()

	result, err := c.Call(ctx, "health_check", nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "health check failed: %v\n", err)
		os.Exit(1)
	}
	printJSON(result)
}

func printJSON(raw json.RawMessage) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		fmt.Println(string(raw))
		return
	}
	pretty, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(pretty))
}
