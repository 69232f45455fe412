// Package mcptools expone las operaciones del copiloto como herramientas MCP.
package mcptools

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Neuralic/Tinder-AI/internal/domain"
	"github.com/Neuralic/Tinder-AI/internal/service"
)

// Deps son los servicios que respaldan las herramientas.
type Deps struct {
	Profiles *service.ProfileAnalysisService
	Advice   *service.AdviceService
	Version  string
}

// NewServer registra analyze_profile, analyze_bio, suggest_reply y ask_out.
func NewServer(deps Deps) *server.MCPServer {
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	s := server.NewMCPServer(
		"tinder-copilot",
		version,
		server.WithToolCapabilities(true),
		server.WithInstructions("Dating-profile copilot: photo review, bio openers, reply ideas and ask-out lines."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("analyze_profile",
			mcp.WithDescription("Review a dating-profile photo and return a five-part feedback text."),
			mcp.WithString("image", mcp.Description("Base64 encoded photo (data URI accepted)")),
			mcp.WithString("image_path", mcp.Description("Path to a jpg, png or gif photo on the server host, used when image is empty")),
			mcp.WithString("name", mcp.Description("User name")),
			mcp.WithString("age", mcp.Description("User age")),
			mcp.WithString("gender", mcp.Description("User gender")),
			mcp.WithString("goals", mcp.Description("What the user is looking for")),
			mcp.WithString("confidence", mcp.Description("Self-rated confidence")),
		),
		analyzeProfile(deps),
	)

	s.AddTool(
		mcp.NewTool("analyze_bio",
			mcp.WithDescription("Suggest three opening lines for a match's bio."),
			mcp.WithString("bio", mcp.Description("The match's bio"), mcp.Required()),
		),
		analyzeBio(deps),
	)

	s.AddTool(
		mcp.NewTool("suggest_reply",
			mcp.WithDescription("Suggest three replies to a received message."),
			mcp.WithString("message", mcp.Description("Message received from the match"), mcp.Required()),
			mcp.WithString("intent", mcp.Description("What the user wants from the reply")),
			mcp.WithString("tone", mcp.Description("Desired tone")),
		),
		suggestReply(deps),
	)

	s.AddTool(
		mcp.NewTool("ask_out",
			mcp.WithDescription("Suggest one message to ask the match out."),
			mcp.WithString("convo", mcp.Description("Chat transcript, one turn per line"), mcp.Required()),
			mcp.WithString("tone", mcp.Description("Desired tone")),
		),
		askOut(deps),
	)

	return s
}

func analyzeProfile(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		image := req.GetString("image", "")
		if image == "" {
			if path := req.GetString("image_path", ""); path != "" {
				raw, err := readImageFile(path)
				if err != nil {
					return mcpError(fmt.Sprintf("failed to read image: %v", err)), nil
				}
				image = base64.StdEncoding.EncodeToString(raw)
			}
		}

		review, err := deps.Profiles.Run(ctx, domain.ProfileRequest{
			Image:      image,
			Name:       req.GetString("name", ""),
			Age:        req.GetString("age", ""),
			Gender:     req.GetString("gender", ""),
			Goals:      req.GetString("goals", ""),
			Confidence: req.GetString("confidence", ""),
		})
		if err != nil {
			return mcpError(err.Error()), nil
		}
		return mcpText(review.Feedback), nil
	}
}

var errNotImageFile = errors.New("image_path must be a regular .jpg, .jpeg, .png or .gif file")

// readImageFile solo lee archivos de imagen regulares del host.
func readImageFile(path string) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".gif":
	default:
		return nil, errNotImageFile
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, errNotImageFile
	}
	return os.ReadFile(path)
}

func analyzeBio(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		bio, err := req.RequireString("bio")
		if err != nil {
			return mcpError("bio is required"), nil
		}
		out, err := deps.Advice.AnalyzeBio(ctx, domain.BioRequest{Bio: bio})
		if err != nil {
			return mcpError(err.Error()), nil
		}
		return mcpText(out), nil
	}
}

func suggestReply(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		message, err := req.RequireString("message")
		if err != nil {
			return mcpError("message is required"), nil
		}
		out, err := deps.Advice.SuggestReply(ctx, domain.ReplyRequest{
			Message: message,
			Intent:  req.GetString("intent", ""),
			Tone:    req.GetString("tone", ""),
		})
		if err != nil {
			return mcpError(err.Error()), nil
		}
		return mcpText(out), nil
	}
}

func askOut(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		convo, err := req.RequireString("convo")
		if err != nil {
			return mcpError("convo is required"), nil
		}
		out, err := deps.Advice.AskOut(ctx, domain.AskOutRequest{Convo: convo, Tone: req.GetString("tone", "")})
		if err != nil {
			return mcpError(err.Error()), nil
		}
		return mcpText(out), nil
	}
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
