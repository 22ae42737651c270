package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/procard/internal/picker"
	"github.com/kalambet/procard/internal/profile"
	"github.com/kalambet/procard/internal/session"
	"github.com/kalambet/procard/internal/share"
)

const profileResourceURI = "profile://current"

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Navigator *session.Navigator
	Library   *picker.Library // optional; select_photo fails without it
	Sharer    share.Service   // optional; share_profile fails without it
}

// NewMCPServer creates an MCP server with the profile tools and resources
// registered.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"procard",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("procard: view and edit a professional profile card. Open an editor, change the draft, then save or discard it."),
		server.WithRecovery(),
	)

	editorID := mcp.WithString("editor_id", mcp.Description("Editor id from open_editor (default: the open editor)"))

	s.AddTool(
		mcp.NewTool("get_profile",
			mcp.WithDescription("Return the committed profile record as JSON."),
		),
		mcpGetProfile(deps),
	)

	s.AddTool(
		mcp.NewTool("summarize_profile",
			mcp.WithDescription("Return a short plain-text summary of the committed profile."),
		),
		mcpSummarizeProfile(deps),
	)

	s.AddTool(
		mcp.NewTool("open_editor",
			mcp.WithDescription("Start editing a private copy of the profile. Fails if an editor is already open unless force is set."),
			mcp.WithBoolean("force", mcp.Description("Discard an editor that is already open")),
		),
		mcpOpenEditor(deps),
	)

	s.AddTool(
		mcp.NewTool("set_field",
			mcp.WithDescription("Set first_name, last_name, bio or profile_picture on the draft."),
			editorID,
			mcp.WithString("field", mcp.Description("Field name"), mcp.Required()),
			mcp.WithString("value", mcp.Description("New value"), mcp.Required()),
		),
		mcpSetField(deps),
	)

	s.AddTool(
		mcp.NewTool("add_interest",
			mcp.WithDescription("Add an interest to the draft."),
			editorID,
			mcp.WithString("name", mcp.Description("Interest label"), mcp.Required()),
			mcp.WithString("icon", mcp.Description("Icon name (default star)")),
		),
		mcpAddInterest(deps),
	)

	s.AddTool(
		mcp.NewTool("remove_interest",
			mcp.WithDescription("Remove an interest from the draft by id."),
			editorID,
			mcp.WithNumber("id", mcp.Description("Interest id"), mcp.Required()),
		),
		mcpRemoveInterest(deps),
	)

	s.AddTool(
		mcp.NewTool("select_photo",
			mcp.WithDescription("Pick a profile photo from the photo library. An empty uri cancels."),
			editorID,
			mcp.WithString("uri", mcp.Description("Asset URI or file name")),
		),
		mcpSelectPhoto(deps),
	)

	s.AddTool(
		mcp.NewTool("save_profile",
			mcp.WithDescription("Validate and commit the draft. First and last name are required."),
			editorID,
		),
		mcpSaveProfile(deps),
	)

	s.AddTool(
		mcp.NewTool("discard_edits",
			mcp.WithDescription("Close the editor without saving."),
			editorID,
		),
		mcpDiscardEdits(deps),
	)

	s.AddTool(
		mcp.NewTool("share_profile",
			mcp.WithDescription("Share a short message about the committed profile."),
		),
		mcpShareProfile(deps),
	)

	s.AddResource(
		mcp.NewResource(
			profileResourceURI,
			"Professional Profile",
			mcp.WithResourceDescription("Committed profile record as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceProfile(deps),
	)

	return s
}

func mcpGetProfile(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcpJSON(deps.Navigator.Store().Record()), nil
	}
}

func mcpSummarizeProfile(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcpText(profile.Summary(deps.Navigator.Store().Record())), nil
	}
}

func mcpOpenEditor(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		v, err := deps.Navigator.Open(req.GetBool("force", false))
		if err != nil {
			return mcpError(err.Error()), nil
		}
		return mcpJSON(v), nil
	}
}

func mcpSetField(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("field")
		if err != nil {
			return mcpError("field is required"), nil
		}
		value, err := req.RequireString("value")
		if err != nil {
			return mcpError("value is required"), nil
		}
		f, err := profile.ParseField(name)
		if err != nil {
			return mcpError(err.Error()), nil
		}

		return mcpDo(deps, req, func(ed *profile.Editor) (string, error) {
			if err := ed.SetField(f, value); err != nil {
				return "", err
			}
			return fmt.Sprintf("Set %s", f), nil
		}), nil
	}
}

func mcpAddInterest(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := req.RequireString("name")
		if err != nil {
			return mcpError("name is required"), nil
		}
		icon := profile.Icon(req.GetString("icon", ""))

		return mcpDo(deps, req, func(ed *profile.Editor) (string, error) {
			in, err := ed.AddInterest(name, icon)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Added interest %d %q (%s)", in.ID, in.Name, in.Icon), nil
		}), nil
	}
}

func mcpRemoveInterest(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireInt("id")
		if err != nil {
			return mcpError("id is required"), nil
		}

		return mcpDo(deps, req, func(ed *profile.Editor) (string, error) {
			removed, err := ed.RemoveInterest(id)
			if err != nil {
				return "", err
			}
			if !removed {
				return fmt.Sprintf("No interest with id %d", id), nil
			}
			return fmt.Sprintf("Removed interest %d", id), nil
		}), nil
	}
}

func mcpSelectPhoto(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if deps.Library == nil {
			return mcpError("no photo library configured"), nil
		}
		id, err := resolveEditorID(deps, req)
		if err != nil {
			return mcpError(err.Error()), nil
		}

		lib := deps.Library.WithChooser(picker.ChooseURI(req.GetString("uri", "")))
		sel, v, err := deps.Navigator.SelectImage(ctx, id, lib)
		if err != nil {
			return mcpError(err.Error()), nil
		}
		msg := fmt.Sprintf("Photo selection %s", sel.Outcome)
		if sel.Outcome == picker.Picked {
			msg += ": " + sel.URI
		}
		return mcpText(withAlerts(msg, v)), nil
	}
}

func mcpSaveProfile(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcpDo(deps, req, func(ed *profile.Editor) (string, error) {
			if err := ed.Commit(); err != nil {
				return "", err
			}
			return "Profile saved", nil
		}), nil
	}
}

func mcpDiscardEdits(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcpDo(deps, req, func(ed *profile.Editor) (string, error) {
			ed.Discard()
			return "Edits discarded", nil
		}), nil
	}
}

func mcpShareProfile(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if deps.Sharer == nil {
			return mcpError("sharing is not configured"), nil
		}
		msg := share.ProfileMessage(deps.Navigator.Store().Record())
		share.Send(ctx, deps.Sharer, msg)
		return mcpText(msg.Text), nil
	}
}

func mcpResourceProfile(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		b, err := json.Marshal(deps.Navigator.Store().Record())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal profile: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

// WatchProfile notifies subscribed MCP clients whenever store commits a new
// record. The returned func stops watching.
func WatchProfile(s *server.MCPServer, store *profile.Store) (cancel func()) {
	return store.Subscribe(func(profile.Record) {
		s.SendNotificationToAllClients("notifications/resources/updated", map[string]any{
			"uri": profileResourceURI,
		})
	})
}

func resolveEditorID(deps MCPDeps, req mcp.CallToolRequest) (string, error) {
	if id := req.GetString("editor_id", ""); id != "" {
		return id, nil
	}
	v, ok := deps.Navigator.Current()
	if !ok {
		return "", errors.New("no editor is open; call open_editor first")
	}
	return v.ID, nil
}

// mcpDo runs fn against the requested editor. Alerts raised during fn are
// appended to the result text.
func mcpDo(deps MCPDeps, req mcp.CallToolRequest, fn func(ed *profile.Editor) (string, error)) *mcp.CallToolResult {
	id, err := resolveEditorID(deps, req)
	if err != nil {
		return mcpError(err.Error())
	}

	var text string
	v, err := deps.Navigator.Do(id, func(ed *profile.Editor) error {
		var err error
		text, err = fn(ed)
		return err
	})
	if err != nil {
		return mcpError(withAlerts(err.Error(), v))
	}
	return mcpText(withAlerts(text, v))
}

func withAlerts(text string, v session.View) string {
	if len(v.Alerts) == 0 {
		return text
	}
	var b strings.Builder
	b.WriteString(text)
	for _, a := range v.Alerts {
		fmt.Fprintf(&b, "\n[%s] %s", a.Title, a.Message)
	}
	return b.String()
}

func mcpJSON(v any) *mcp.CallToolResult {
	b, err := json.Marshal(v)
	if err != nil {
		return mcpError(fmt.Sprintf("failed to marshal result: %v", err))
	}
	return mcpText(string(b))
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
