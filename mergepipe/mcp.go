package mergepipe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterMCP registers the pipeline's tools on an MCP server.
func (p *Pipeline) RegisterMCP(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "bindery_merge",
		Description: "Merge PDFs, images, text and word-processing files into one PDF.",
	}, p.mcpMerge)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "bindery_classify",
		Description: "Classify a file name/content type into an input category.",
	}, p.mcpClassify)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "bindery_profiles",
		Description: "List the output modes and their quality profiles.",
	}, p.mcpProfiles)
}

type mcpMergeArgs struct {
	Paths   []string     `json:"paths"`
	Output  string       `json:"output"`
	Mode    string       `json:"mode,omitempty"`
	Options MergeOptions `json:"options,omitempty"`
}

type mcpMergeReply struct {
	Output    string      `json:"output"`
	PageCount int         `json:"page_count"`
	ByteSize  int64       `json:"byte_size"`
	Succeeded int         `json:"succeeded"`
	Skipped   int         `json:"skipped"`
	Errored   int         `json:"errored"`
	Errors    []FileError `json:"errors,omitempty"`
}

func (p *Pipeline) mcpMerge(ctx context.Context, _ *mcp.CallToolRequest, args mcpMergeArgs) (*mcp.CallToolResult, mcpMergeReply, error) {
	var reply mcpMergeReply
	if len(args.Paths) == 0 {
		return nil, reply, fmt.Errorf("paths is required")
	}
	if args.Output == "" {
		return nil, reply, fmt.Errorf("output is required")
	}

	inputs := make([]InputItem, 0, len(args.Paths))
	for _, path := range args.Paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, reply, fmt.Errorf("read %s: %w", path, err)
		}
		inputs = append(inputs, InputItem{
			Name:     filepath.Base(path),
			Data:     data,
			Size:     int64(len(data)),
			Selected: true,
		})
	}

	outcome, err := p.Merge(ctx, inputs, OutputMode(args.Mode), args.Options, nil)
	if err != nil {
		return nil, reply, err
	}
	if err := os.WriteFile(args.Output, outcome.Output, 0o644); err != nil {
		return nil, reply, fmt.Errorf("write %s: %w", args.Output, err)
	}

	reply = mcpMergeReply{
		Output:    args.Output,
		PageCount: outcome.PageCount,
		ByteSize:  outcome.ByteSize,
		Succeeded: outcome.Succeeded,
		Skipped:   outcome.Skipped,
		Errored:   outcome.Errored,
		Errors:    outcome.Errors,
	}
	return nil, reply, nil
}

type mcpClassifyArgs struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type,omitempty"`
}

type mcpClassifyReply struct {
	Category Category `json:"category"`
}

func (p *Pipeline) mcpClassify(_ context.Context, _ *mcp.CallToolRequest, args mcpClassifyArgs) (*mcp.CallToolResult, mcpClassifyReply, error) {
	return nil, mcpClassifyReply{Category: Classify(args.Name, args.ContentType)}, nil
}

type mcpProfilesArgs struct{}

type mcpProfile struct {
	Mode          OutputMode `json:"mode"`
	JPEGQuality   float64    `json:"jpeg_quality"`
	MaxDimension  int        `json:"max_dimension"`
	Downscale     bool       `json:"downscale"`
	CompactLayout bool       `json:"compact_layout"`
}

type mcpProfilesReply struct {
	Profiles []mcpProfile `json:"profiles"`
}

func (p *Pipeline) mcpProfiles(_ context.Context, _ *mcp.CallToolRequest, _ mcpProfilesArgs) (*mcp.CallToolResult, mcpProfilesReply, error) {
	var reply mcpProfilesReply
	for _, mode := range Modes() {
		q := ProfileFor(mode)
		reply.Profiles = append(reply.Profiles, mcpProfile{
			Mode:          mode,
			JPEGQuality:   q.JPEGQuality,
			MaxDimension:  q.MaxDimension,
			Downscale:     q.Downscale,
			CompactLayout: q.CompactLayout,
		})
	}
	return nil, reply, nil
}
