package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ai "github.com/openseva/seva"
	"github.com/openseva/seva/agent"
	"github.com/openseva/seva/grm"
	"github.com/openseva/seva/myscheme"
)

func testConfig(grmURL string) Config {
	return Config{
		GRM:     grm.New(grmURL, "test-token"),
		Schemes: myscheme.New("", ""),
		UserID:  "rec_user_1",
	}
}

func TestNewRegistry(t *testing.T) {
	registry := NewRegistry(testConfig("http://grm.invalid"))

	t.Run("registers all seven tools", func(t *testing.T) {
		assert.Equal(t, 7, registry.Len())
		for _, name := range []string{
			ToolMySchemeSearch, ToolClassifyGrievance, ToolCreateGrievance,
			ToolGrievanceStatus, ToolConfirmGrievance, ToolDocumentUpload,
			ToolAdditionalSupport,
		} {
			_, ok := registry.GetTool(name)
			assert.True(t, ok, "missing tool %s", name)
		}
	})

	t.Run("consent tools are client tools", func(t *testing.T) {
		assert.True(t, registry.IsClientTool(ToolConfirmGrievance))
		assert.True(t, registry.IsClientTool(ToolDocumentUpload))
		assert.True(t, registry.IsClientTool(ToolAdditionalSupport))
		assert.False(t, registry.IsClientTool(ToolCreateGrievance))
	})

	t.Run("backend tools have handlers", func(t *testing.T) {
		for _, name := range []string{
			ToolMySchemeSearch, ToolClassifyGrievance,
			ToolCreateGrievance, ToolGrievanceStatus,
		} {
			handler, ok := registry.Get(name)
			assert.True(t, ok)
			assert.NotNil(t, handler, "nil handler for %s", name)
		}
	})
}

func TestMySchemeSearchTool(t *testing.T) {
	t.Run("unconfigured search is a soft failure, not a tool error", func(t *testing.T) {
		registry := NewRegistry(testConfig("http://grm.invalid"))

		result, err := registry.Execute(context.Background(), ai.ToolCall{
			ID:        "call_1",
			Name:      ToolMySchemeSearch,
			Arguments: `{"query":"widow pension scheme"}`,
		})
		require.NoError(t, err)
		assert.False(t, result.IsError)

		var payload myscheme.SearchResult
		require.NoError(t, json.Unmarshal([]byte(result.Content), &payload))
		assert.False(t, payload.Success)
		assert.Contains(t, payload.Error, "not configured")
	})
}

func TestClassifyGrievanceTool(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/category", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": []map[string]any{
				{"category": "Pension", "confidence": 0.9},
			},
		})
	}))
	defer srv.Close()

	registry := NewRegistry(testConfig(srv.URL))
	result, err := registry.Execute(context.Background(), ai.ToolCall{
		ID:        "call_1",
		Name:      ToolClassifyGrievance,
		Arguments: `{"query":"pension not received"}`,
	})
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, result.Content, "Pension")
}

func TestCreateGrievanceTool(t *testing.T) {
	t.Run("injects the configured user id", func(t *testing.T) {
		var received grm.CreateGrievanceInput
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			json.NewEncoder(w).Encode(grm.Grievance{ID: "grv_9", Status: "submitted"})
		}))
		defer srv.Close()

		registry := NewRegistry(testConfig(srv.URL))
		result, err := registry.Execute(context.Background(), ai.ToolCall{
			ID:   "call_1",
			Name: ToolCreateGrievance,
			Arguments: `{
				"title": "Pension delayed",
				"description": "Name: A. Kumar, PIN 110001. Pension missing since March.",
				"category": "Pension",
				"cpgrams_category": "Pension > Central Government",
				"priority": "high"
			}`,
		})
		require.NoError(t, err)
		assert.False(t, result.IsError)
		assert.Contains(t, result.Content, "grv_9")

		assert.Equal(t, "rec_user_1", received.UserID)
		assert.Equal(t, "high", received.Priority)
	})

	t.Run("upstream failure becomes a tool error result", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"message": "category is invalid"})
		}))
		defer srv.Close()

		registry := NewRegistry(testConfig(srv.URL))
		result, err := registry.Execute(context.Background(), ai.ToolCall{
			ID:        "call_1",
			Name:      ToolCreateGrievance,
			Arguments: `{"title":"t","description":"d","category":"x","cpgrams_category":"x","priority":"low"}`,
		})
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, result.Content, "category is invalid")
	})
}

func TestGrievanceStatusTool(t *testing.T) {
	t.Run("missing grievance maps to a friendly message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		registry := NewRegistry(testConfig(srv.URL))
		result, err := registry.Execute(context.Background(), ai.ToolCall{
			ID:        "call_1",
			Name:      ToolGrievanceStatus,
			Arguments: `{"grievanceId":"grv_missing"}`,
		})
		require.NoError(t, err)
		assert.False(t, result.IsError)
		assert.Contains(t, result.Content, "No grievance was found")
		assert.Contains(t, result.Content, "grv_missing")
	})

	t.Run("returns the grievance record", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(grm.Grievance{ID: "grv_7", Status: "in_progress"})
		}))
		defer srv.Close()

		registry := NewRegistry(testConfig(srv.URL))
		result, err := registry.Execute(context.Background(), ai.ToolCall{
			ID:        "call_1",
			Name:      ToolGrievanceStatus,
			Arguments: `{"grievanceId":"grv_7"}`,
		})
		require.NoError(t, err)
		assert.False(t, result.IsError)
		assert.Contains(t, result.Content, "in_progress")
	})
}

func TestClientTools(t *testing.T) {
	tools := ClientTools()
	require.Len(t, tools, 3)

	names := make([]string, len(tools))
	for i, tl := range tools {
		names[i] = tl.Name
		assert.NotEmpty(t, tl.Description)
		assert.NotEmpty(t, tl.Parameters)
	}
	assert.Equal(t, []string{ToolConfirmGrievance, ToolDocumentUpload, ToolAdditionalSupport}, names)
}

// turnClient implements chat.Client with one scripted response per model call.
type turnClient struct {
	turns []ai.Response
	calls int
}

func (c *turnClient) next() ai.Response {
	if c.calls >= len(c.turns) {
		return ai.Response{Content: "Done."}
	}
	resp := c.turns[c.calls]
	c.calls++
	return resp
}

func (c *turnClient) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	resp := c.next()
	return &resp, nil
}

func (c *turnClient) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	resp := c.next()
	ch := make(chan ai.StreamEvent, 2)
	if resp.Content != "" {
		ch <- ai.StreamEvent{Delta: resp.Content}
	}
	ch <- ai.StreamEvent{Done: true, Response: &resp}
	close(ch)
	return ch, nil
}

func TestConfirmThenCreateCycle(t *testing.T) {
	var creates int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/grievances" {
			creates++
			json.NewEncoder(w).Encode(grm.Grievance{ID: "grv_42", Status: "submitted"})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	registry := NewRegistry(testConfig(srv.URL))

	confirmCall := ai.ToolCall{ID: "call_confirm", Name: ToolConfirmGrievance, Arguments: `{}`}
	history := []ai.Message{ai.NewUserMessage("My street has had no water supply for two weeks.")}

	// First turn: the model asks for confirmation and the run pauses
	// without filing anything.
	first := agent.New(&turnClient{turns: []ai.Response{
		{Content: "Please confirm the details.", ToolCalls: []ai.ToolCall{confirmCall}},
	}}, registry)
	result, err := first.Run(context.Background(), history)
	require.NoError(t, err)
	assert.Equal(t, agent.TerminationClientToolCall, result.Termination)
	require.Len(t, result.PendingToolCalls, 1)
	assert.Equal(t, ToolConfirmGrievance, result.PendingToolCalls[0].Name)
	assert.Zero(t, creates)

	// The frontend binds the affirmative sentinel and resubmits the
	// full history. The model repeats the confirm call alongside the
	// create call; the seeded result must keep it from pausing again.
	resumed := append(history,
		ai.Message{Role: ai.RoleAssistant, Content: "Please confirm the details.", ToolCalls: []ai.ToolCall{confirmCall}},
		ai.NewToolResultMessage(ai.ToolResult{ToolCallID: "call_confirm", Content: ConfirmYes}),
	)
	second := agent.New(&turnClient{turns: []ai.Response{
		{ToolCalls: []ai.ToolCall{
			confirmCall,
			{ID: "call_create", Name: ToolCreateGrievance, Arguments: `{
				"title": "No water supply",
				"description": "Name: R. Devi, PIN 226001. No municipal water for two weeks.",
				"category": "Water",
				"cpgrams_category": "Urban Local Bodies > Water Supply",
				"priority": "high"
			}`},
		}},
		{Content: "Your grievance grv_42 has been filed."},
	}}, registry)
	result, err = second.Run(context.Background(), resumed)
	require.NoError(t, err)
	assert.Equal(t, agent.TerminationComplete, result.Termination)
	assert.Empty(t, result.PendingToolCalls)
	assert.Equal(t, 1, creates)
}
