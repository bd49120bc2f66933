package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dom/blog-website/internal/client"
	"github.com/gorilla/websocket"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Global flags
	apiURL := "http://localhost:5174"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "watch":
		watchCmd(apiURL, args)
	case "populate":
		populateCmd(apiURL, args)
	case "browse":
		browseCmd(apiURL, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Blog Simulator - Development tool for exercising a running blog API

USAGE:
  simulator <command> [options]

COMMANDS:
  watch     Print live post events from the websocket feed
  populate  Log in as an existing user and publish fake posts
  browse    List the newest posts or search them
  help      Show this help message

ENVIRONMENT:
  API_URL   Backend API URL (default: http://localhost:5174)

EXAMPLES:
  # Follow the post feed in one terminal
  simulator watch

  # Publish 5 posts as a verified user in another
  simulator populate --identifier=alice --password=secret1 --count=5

  # Show page 2 of the post list
  simulator browse --page=2

  # Search titles and descriptions
  simulator browse --query=golang`)
}

func watchCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	raw := fs.Bool("raw", false, "Print messages as received instead of a summary line")
	fs.Parse(args)

	wsURL, err := feedURL(apiURL)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Connecting to %s... ", wsURL)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()
	fmt.Println("OK")
	fmt.Println("Waiting for post events (Ctrl+C to stop)")
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				fmt.Printf("Connection closed: %v\n", err)
			}
			return
		}
		if *raw {
			fmt.Println(string(data))
			continue
		}
		fmt.Println(describeEvent(data))
	}
}

type feedEvent struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

func describeEvent(data []byte) string {
	var event feedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Sprintf("unreadable message: %s", data)
	}
	var post client.Post
	if err := json.Unmarshal(event.Payload, &post); err != nil {
		return fmt.Sprintf("%s (unreadable payload)", event.Type)
	}
	at := time.UnixMilli(event.Timestamp).Format("15:04:05")
	return fmt.Sprintf("%s  %-13s %s  %q by @%s", at, event.Type, post.ID, post.Title, post.User.Username)
}

// feedURL maps the API base URL onto the websocket feed endpoint.
func feedURL(apiURL string) (string, error) {
	u, err := url.Parse(apiURL)
	if err != nil {
		return "", fmt.Errorf("invalid API_URL %q: %w", apiURL, err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/api/v1/ws/posts"
	return u.String(), nil
}

func populateCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("populate", flag.ExitOnError)
	identifier := fs.String("identifier", "", "Email or username of a verified user (required)")
	password := fs.String("password", "", "Password of that user (required)")
	count := fs.Int("count", 3, "Number of posts to publish")
	fs.Parse(args)

	if *identifier == "" || *password == "" {
		fmt.Println("Error: --identifier and --password are required")
		os.Exit(1)
	}
	if *count < 1 || *count > 50 {
		fmt.Println("Error: --count must be between 1 and 50")
		os.Exit(1)
	}

	api, err := client.New(apiURL)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	ctx := context.Background()

	fmt.Println("=== Blog Simulator: Populate ===")
	fmt.Println()

	fmt.Printf("Logging in as %s... ", *identifier)
	session, err := api.Login(ctx, *identifier, *password)
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK (user: @%s)\n", session.User.Username)

	fmt.Println()
	fmt.Printf("Publishing %d posts:\n", *count)
	created := 0
	for i := 1; i <= *count; i++ {
		input := fakePost(i)
		fmt.Printf("  [%d/%d] %s... ", i, *count, input.Title)
		post, err := api.CreatePost(ctx, input)
		if err != nil {
			fmt.Printf("FAILED\n    Error: %v\n", err)
			continue
		}
		created++
		fmt.Printf("OK (%s)\n", post.ID)
	}

	fmt.Println()
	fmt.Printf("Published %d of %d posts\n", created, *count)
	if created < *count {
		os.Exit(1)
	}
}

var topics = []string{
	"Goroutines", "Channels", "Context cancellation", "Table-driven tests",
	"Interfaces", "Error wrapping", "Graceful shutdown", "Database migrations",
}

func fakePost(n int) client.PostInput {
	topic := topics[(n-1)%len(topics)]
	stamp := time.Now().Format("2006-01-02 15:04:05")
	return client.PostInput{
		Title:       fmt.Sprintf("Notes on %s #%d", topic, n),
		Description: fmt.Sprintf("A short write-up about %s, generated %s.", strings.ToLower(topic), stamp),
		Content: fmt.Sprintf("%s come up in almost every service. This post was published by the "+
			"simulator to fill the feed with realistic looking entries. It is safe to delete.", topic),
	}
}

func browseCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("browse", flag.ExitOnError)
	query := fs.String("query", "", "Search query (lists all posts when empty)")
	page := fs.Int("page", 1, "Page number")
	limit := fs.Int("limit", 10, "Posts per page")
	fs.Parse(args)

	api, err := client.New(apiURL)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	ctx := context.Background()

	if *query != "" {
		result, err := api.SearchPosts(ctx, *query, *page, *limit)
		if err != nil {
			fmt.Printf("Search failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Results for %q (page %d, %d found):\n", result.SearchQuery, result.Pagination.CurrentPage, result.Pagination.ResultsCount)
		printPosts(result.Posts)
		return
	}

	list, err := api.ListPosts(ctx, *page, *limit)
	if err != nil {
		fmt.Printf("List failed: %v\n", err)
		os.Exit(1)
	}
	p := list.Pagination
	fmt.Printf("Page %d of %d (%d posts total):\n", p.CurrentPage, p.TotalPages, p.TotalPosts)
	printPosts(list.Posts)
	if p.HasNextPage {
		fmt.Printf("\nMore: simulator browse --page=%d\n", p.CurrentPage+1)
	}
}

func printPosts(posts []client.Post) {
	if len(posts) == 0 {
		fmt.Println("  (no posts)")
		return
	}
	for _, post := range posts {
		fmt.Printf("  %s  %s  %q by @%s\n", post.CreatedAt.Format("2006-01-02"), post.ID, post.Title, post.User.Username)
	}
}
