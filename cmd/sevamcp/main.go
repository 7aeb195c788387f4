// Command sevamcp exposes the Seva backend tools over MCP stdio so MCP
// clients can classify, search, file, and track grievances directly.
// The consent tools (confirm, upload, support) are client tools and are
// not served.
//
// Configuration matches sevad: GRM_API_URL, GRM_API_TOKEN, USER_ID,
// and optionally GOOGLE_CSE_KEY / GOOGLE_CSE_ID for scheme search.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/openseva/seva/assistant"
	"github.com/openseva/seva/grm"
	"github.com/openseva/seva/mcp"
	"github.com/openseva/seva/myscheme"
)

func main() {
	godotenv.Load()

	apiURL := os.Getenv("GRM_API_URL")
	apiToken := os.Getenv("GRM_API_TOKEN")
	userID := os.Getenv("USER_ID")
	if apiURL == "" || apiToken == "" || userID == "" {
		log.Fatal(fmt.Errorf("GRM_API_URL, GRM_API_TOKEN, and USER_ID are required"))
	}

	registry := assistant.NewRegistry(assistant.Config{
		GRM:     grm.New(apiURL, apiToken),
		Schemes: myscheme.New(os.Getenv("GOOGLE_CSE_KEY"), os.Getenv("GOOGLE_CSE_ID")),
		UserID:  userID,
	})

	if err := mcp.ServeStdio(registry,
		mcp.WithName("seva-grievance-tools"),
		mcp.WithVersion("1.0.0"),
	); err != nil {
		log.Fatal(err)
	}
}
