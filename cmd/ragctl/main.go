package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"ragserver/internal/client"
	"ragserver/internal/tui"
)

func main() {
	_ = godotenv.Load()

	serverURL := flag.String("server", defaultServerURL(), "Base URL of the RAG server")
	topK := flag.Int("top-k", 3, "Number of source chunks to retrieve per query")
	clear := flag.Bool("clear", false, "Clear all indexed documents and exit")
	flag.Parse()
	uploads := flag.Args()

	api := client.New(*serverURL, 2*time.Minute)
	ctx := context.Background()

	if *clear {
		if err := api.Clear(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "clear failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("All documents cleared.")
		return
	}

	// Upload any files given on the command line before starting the TUI.
	for _, path := range uploads {
		resp, err := api.Upload(ctx, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "upload %s failed: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("Uploaded %s: %d chunks\n", resp.FileName, resp.ChunksCreated)
	}

	health, err := api.Health(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot reach server at %s: %v\n", *serverURL, err)
		os.Exit(1)
	}
	status := fmt.Sprintf("Connected to %s (%s, %d chunks indexed). Type to ask.",
		*serverURL, health.Status, health.TotalDocuments)

	m := tui.New(api, *topK, status)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func defaultServerURL() string {
	if u := os.Getenv("RAG_SERVER_URL"); u != "" {
		return u
	}
	return "http://localhost:8000"
}
