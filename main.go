package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/fragmede/quibble/internal/api"
	"github.com/fragmede/quibble/internal/cache"
	"github.com/fragmede/quibble/internal/config"
	"github.com/fragmede/quibble/internal/tree"
	"github.com/fragmede/quibble/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	json "github.com/goccy/go-json"
	"golang.org/x/term"
)

func main() {
	jsonDump := flag.Bool("json", false, "Fetch once and print the nested comment forest as JSON")
	endpoint := flag.String("endpoint", "", "Override the indexer endpoint URL")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *endpoint != "" {
		cfg.IndexerURL = *endpoint
	}

	client := api.NewClient(cfg.IndexerURL, cfg.RequestTimeout)

	if *jsonDump {
		if err := dumpJSON(client, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "stdout is not a terminal; use -json for scriptable output")
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
		log.Fatalf("creating cache dir: %v", err)
	}

	db, err := cache.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("opening cache: %v", err)
	}
	defer db.Close()

	app := ui.NewApp(cfg, client, db)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// dumpNode mirrors one forest node with its replies nested, for scripts
// and agents that would otherwise re-derive the tree from the flat set.
type dumpNode struct {
	api.Comment
	Replies []dumpNode `json:"replies,omitempty"`
}

func dumpJSON(client *api.Client, cfg config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()

	records, err := client.FetchComments(ctx)
	if err != nil {
		return err
	}

	var convert func(nodes []*tree.Node) []dumpNode
	convert = func(nodes []*tree.Node) []dumpNode {
		out := make([]dumpNode, len(nodes))
		for i, n := range nodes {
			out[i] = dumpNode{Comment: n.Comment, Replies: convert(n.Children)}
		}
		return out
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(convert(tree.Build(records)))
}
