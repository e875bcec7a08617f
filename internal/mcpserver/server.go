// Package mcpserver exposes the engine as Model Context Protocol tools so
// an assistant can list venues, compose prompts, check style picks and
// classify local photos.
package mcpserver

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"github.com/fpang/venue-enhance/internal/angle"
	"github.com/fpang/venue-enhance/internal/engine"
	"github.com/fpang/venue-enhance/internal/facet"
	"github.com/fpang/venue-enhance/internal/photo"
	"github.com/fpang/venue-enhance/internal/style"
)

// maxPhotoBytes bounds photos read by detect_angle.
const maxPhotoBytes = 30 << 20

// New builds an MCP server with every tool registered.
func New(e *engine.Engine, version string) *mcp.Server {
	t := &tools{engine: e}
	server := mcp.NewServer(&mcp.Implementation{Name: "venue-enhance", Version: version}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_venues",
		Description: "List the venue styles that enhancement prompts can target.",
	}, t.listVenues)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "build_enhancement_prompt",
		Description: "Compose the physics-consistent enhancement instruction for a venue and camera angle.",
	}, t.buildPrompt)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_style_selection",
		Description: "Check a business type, mood and seasonal theme for compatibility. Only a missing business type is blocking.",
	}, t.validateStyle)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "detect_angle",
		Description: "Classify the camera angle (overhead, hero, eye-level) of a photo on local disk.",
	}, t.detectAngle)
	return server
}

// Run serves over stdio until ctx is done or the client disconnects.
func Run(ctx context.Context, e *engine.Engine, version string) error {
	log.Info().Str("version", version).Msg("MCP server listening on stdio")
	return New(e, version).Run(ctx, &mcp.StdioTransport{})
}

type tools struct {
	engine *engine.Engine
}

type ListVenuesInput struct{}

type ListVenuesOutput struct {
	Venues []engine.VenueSummary `json:"venues"`
}

func (t *tools) listVenues(ctx context.Context, req *mcp.CallToolRequest, in ListVenuesInput) (*mcp.CallToolResult, ListVenuesOutput, error) {
	return nil, ListVenuesOutput{Venues: engine.ListVenues()}, nil
}

type BuildPromptInput struct {
	Venue     string           `json:"venue" jsonschema:"venue style ID, e.g. hawker or fine-dining"`
	Bucket    string           `json:"bucket" jsonschema:"camera angle: overhead, hero or eye-level"`
	Technical *facet.Selection `json:"technical,omitempty" jsonschema:"optional facet option IDs; unset facets use defaults"`
	FoodTag   string           `json:"foodTag,omitempty" jsonschema:"optional food-state tag such as hot-food or iced-drink"`
}

type BuildPromptOutput struct {
	Prompt string       `json:"prompt"`
	Bucket angle.Bucket `json:"bucket"`
}

func (t *tools) buildPrompt(ctx context.Context, req *mcp.CallToolRequest, in BuildPromptInput) (*mcp.CallToolResult, BuildPromptOutput, error) {
	b := angle.ParseBucket(in.Bucket)
	if b == angle.Unknown {
		b = angle.Hero
	}
	return nil, BuildPromptOutput{
		Prompt: engine.BuildEnhancementPrompt(in.Venue, b, in.Technical, strings.TrimSpace(in.FoodTag)),
		Bucket: b,
	}, nil
}

func (t *tools) validateStyle(ctx context.Context, req *mcp.CallToolRequest, in style.Selection) (*mcp.CallToolResult, engine.Validation, error) {
	return nil, engine.ValidateStyleSelection(in), nil
}

type DetectAngleInput struct {
	Path string `json:"path" jsonschema:"absolute path of a JPEG, PNG, WebP or HEIC photo"`
}

func (t *tools) detectAngle(ctx context.Context, req *mcp.CallToolRequest, in DetectAngleInput) (*mcp.CallToolResult, angle.Result, error) {
	info, err := os.Stat(in.Path)
	if err != nil {
		return nil, angle.Result{}, fmt.Errorf("cannot read photo: %w", err)
	}
	if info.IsDir() || info.Size() > maxPhotoBytes {
		return nil, angle.Result{}, fmt.Errorf("%s is not a photo under %d MB", in.Path, maxPhotoBytes>>20)
	}
	data, err := os.ReadFile(in.Path)
	if err != nil {
		return nil, angle.Result{}, fmt.Errorf("cannot read photo: %w", err)
	}
	return nil, t.engine.DetectAngle(ctx, data, photo.DetectMIME(data, in.Path)), nil
}
