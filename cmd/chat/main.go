// Terminal client for the RealtyPilot chat proxy. Useful for trying agent
// personas without the web frontend.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/realtypilot/realtypilot/internal/agent"
	"github.com/realtypilot/realtypilot/internal/chatclient"
)

func main() {
	_ = godotenv.Load()

	serverURL := flag.String("server", envOr("REALTYPILOT_SERVER", "http://localhost:8080"), "server base URL")
	slug := flag.String("agent", "", "agent slug (omit to list available agents)")
	flag.Parse()

	ctx := context.Background()

	if *slug == "" {
		if err := listAgents(ctx, *serverURL); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		return
	}

	if err := runChat(ctx, *serverURL, *slug); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func listAgents(ctx context.Context, serverURL string) error {
	agents, err := chatclient.ListAgents(ctx, serverURL)
	if err != nil {
		return err
	}
	fmt.Println("Available agents:")
	for _, a := range agents {
		fmt.Printf("  %-24s %s — %s\n", a.Slug, a.Name, a.Tagline)
	}
	fmt.Println("\nStart a chat with: chat -agent <slug>")
	return nil
}

func runChat(ctx context.Context, serverURL, slug string) error {
	conv := chatclient.New(serverURL, slug)
	fmt.Printf("Chatting with %q. Empty line or Ctrl-D to quit.\n\n", slug)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			break
		}

		reply, err := conv.Send(ctx, text)
		if err != nil {
			// Only possible when a send is already in flight, which a
			// sequential loop never does.
			return err
		}
		printReply(reply)
	}

	return scanner.Err()
}

func printReply(m agent.Message) {
	fmt.Printf("\nagent> %s\n\n", strings.TrimSpace(m.Content))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
