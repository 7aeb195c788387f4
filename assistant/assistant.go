// Package assistant wires the Seva tool set: four backend tools that
// resolve against external services, and three client tools that pause
// the run for a human decision.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	ai "github.com/openseva/seva"
	"github.com/openseva/seva/grm"
	"github.com/openseva/seva/myscheme"
	"github.com/openseva/seva/schema"
	"github.com/openseva/seva/tool"
)

// Tool names.
const (
	ToolMySchemeSearch    = "performMySchemeSearch"
	ToolClassifyGrievance = "classifyGrievance"
	ToolCreateGrievance   = "createGrievance"
	ToolGrievanceStatus   = "getGrievanceStatus"
	ToolConfirmGrievance  = "confirmGrievance"
	ToolDocumentUpload    = "documentUpload"
	ToolAdditionalSupport = "additionalSupport"
)

// Sentinel strings the client binds as results for the human-in-the-loop
// tools. The model keys its next step off these exact values.
const (
	ConfirmYes     = "Yes, confirmed."
	ConfirmNo      = "No, I would like to add more information."
	SupportAccept  = "Connect me to a support group"
	SupportDecline = "No, I dont want additional support."
	NoDocuments    = "No documents available."
)

// Config holds the external collaborators the backend tools call.
type Config struct {
	GRM     *grm.Client
	Schemes *myscheme.Client

	// UserID is injected into every created grievance server-side;
	// the model never supplies it.
	UserID string
}

// NewRegistry builds the Seva tool registry. Backend tools carry
// handlers; the confirmation, upload, and support tools are registered
// as client tools so the agent leaves their calls pending.
func NewRegistry(cfg Config) *tool.Registry {
	r := tool.NewRegistry()

	r.MustRegister(mySchemeSearchTool(), mySchemeSearchHandler(cfg.Schemes))
	r.MustRegister(classifyGrievanceTool(), classifyGrievanceHandler(cfg.GRM))
	r.MustRegister(createGrievanceTool(), createGrievanceHandler(cfg.GRM, cfg.UserID))
	r.MustRegister(grievanceStatusTool(), grievanceStatusHandler(cfg.GRM))

	for _, t := range ClientTools() {
		if err := r.RegisterClientTool(t); err != nil {
			panic(err)
		}
	}
	return r
}

// ClientTools returns the three executor-less tools the UI resolves.
func ClientTools() []ai.Tool {
	return []ai.Tool{
		{
			Name:        ToolConfirmGrievance,
			Description: "Ask for user confirmation before filing the grievance. This should be used as the final step before calling createGrievance.",
			Parameters:  schema.Object().MustBuild(),
		},
		{
			Name:        ToolDocumentUpload,
			Description: "Upload documents for the grievance. This tool should be used to upload documents for the grievance.",
			Parameters: schema.Object().
				Field("message", schema.String().Desc("Relevant documents for the grievance").Required()).
				MustBuild(),
		},
		{
			Name:        ToolAdditionalSupport,
			Description: "Provide additional support to the user. This tool should be used to provide additional support to the user.",
			Parameters: schema.Object().
				Field("message", schema.String().Desc("Additional support for the grievance").Required()).
				MustBuild(),
		},
	}
}

func mySchemeSearchTool() ai.Tool {
	return ai.Tool{
		Name:        ToolMySchemeSearch,
		Description: "Search the *.myscheme.gov.in for any scheme-related grievance, in case their grievance can be immediately resolved using information on the myscheme website.",
		Parameters: schema.Object().
			Field("query", schema.String().
				Desc("Search query. This must be based solely on the user query, but optimized for search, and must not contain any information not provided by the user.").
				Required()).
			MustBuild(),
	}
}

// mySchemeSearchHandler never returns a handler error: search failures
// come back as a {success:false} payload so the model can respond
// conversationally instead of seeing a tool error.
func mySchemeSearchHandler(schemes *myscheme.Client) tool.Handler {
	return func(ctx context.Context, call ai.ToolCall) (string, error) {
		var args struct {
			Query string `json:"query"`
		}
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return "", fmt.Errorf("invalid arguments: %w", err)
		}
		result := schemes.Search(ctx, args.Query)
		return marshalResult(result)
	}
}

func classifyGrievanceTool() ai.Tool {
	return ai.Tool{
		Name:        ToolClassifyGrievance,
		Description: "Classify the given user category to the right department, category and subcategory.",
		Parameters: schema.Object().
			Field("query", schema.String().Desc("User grievance text").Required()).
			MustBuild(),
	}
}

func classifyGrievanceHandler(client *grm.Client) tool.Handler {
	return func(ctx context.Context, call ai.ToolCall) (string, error) {
		var args struct {
			Query string `json:"query"`
		}
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return "", fmt.Errorf("invalid arguments: %w", err)
		}
		predictions, err := client.Classify(ctx, args.Query)
		if err != nil {
			return "", err
		}
		return marshalResult(map[string]any{
			"success": true,
			"data":    predictions,
		})
	}
}

func createGrievanceTool() ai.Tool {
	return ai.Tool{
		Name:        ToolCreateGrievance,
		Description: "Create a new grievance in the system. IMPORTANT: DO NOT call this function until you have collected ALL mandatory information from the user. The description field MUST include all personal details and category-specific required information in a structured format.",
		Parameters: schema.Object().
			Field("title", schema.String().
				Desc("A short, clear title summarizing the grievance issue").
				Required()).
			Field("description", schema.String().
				Desc("MUST include ALL of the following in a structured format: 1) Personal details (full name, contact info, complete address with PIN code), 2) Detailed description of the issue with dates and specifics, 3) Category-specific required information, 4) Timeline of incidents and previous follow-ups, 5) Expected resolution. DO NOT call this function if any mandatory information is missing.").
				Required()).
			Field("category", schema.String().
				Desc("Main category of the grievance. If unsure or not a grievance, use 'Other' or 'None'").
				Required()).
			Field("cpgrams_category", schema.String().
				Desc("Full category name along with subcategories extracted from the CPGRAMS classification").
				Required()).
			Field("priority", schema.String().
				Enum(grm.PriorityLow, grm.PriorityMedium, grm.PriorityHigh).
				Desc("Priority level based on the urgency and impact of the grievance").
				Required()).
			MustBuild(),
	}
}

func createGrievanceHandler(client *grm.Client, userID string) tool.Handler {
	return func(ctx context.Context, call ai.ToolCall) (string, error) {
		var args struct {
			Title           string `json:"title"`
			Description     string `json:"description"`
			Category        string `json:"category"`
			CPGRAMSCategory string `json:"cpgrams_category"`
			Priority        string `json:"priority"`
		}
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return "", fmt.Errorf("invalid arguments: %w", err)
		}

		created, err := client.CreateGrievance(ctx, grm.CreateGrievanceInput{
			Title:           args.Title,
			Description:     args.Description,
			Category:        args.Category,
			CPGRAMSCategory: args.CPGRAMSCategory,
			Priority:        args.Priority,
			UserID:          userID,
		})
		if err != nil {
			return "", err
		}
		return marshalResult(map[string]any{
			"success":   true,
			"grievance": created,
		})
	}
}

func grievanceStatusTool() ai.Tool {
	return ai.Tool{
		Name:        ToolGrievanceStatus,
		Description: "Look up the current status of a previously filed grievance by its ID.",
		Parameters: schema.Object().
			Field("grievanceId", schema.String().Desc("The grievance ID to look up").Required()).
			MustBuild(),
	}
}

func grievanceStatusHandler(client *grm.Client) tool.Handler {
	return func(ctx context.Context, call ai.ToolCall) (string, error) {
		var args struct {
			GrievanceID string `json:"grievanceId"`
		}
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			return "", fmt.Errorf("invalid arguments: %w", err)
		}

		g, err := client.GetGrievance(ctx, args.GrievanceID)
		if errors.Is(err, grm.ErrNotFound) {
			return fmt.Sprintf("No grievance was found with ID %s. Please ask the user to double-check the ID.", args.GrievanceID), nil
		}
		if err != nil {
			return "", err
		}
		return marshalResult(map[string]any{
			"success":   true,
			"grievance": g,
		})
	}
}

func marshalResult(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal tool result: %w", err)
	}
	return string(data), nil
}
