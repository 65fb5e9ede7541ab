package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tsbridge/tsbridge/config"
	"github.com/tsbridge/tsbridge/emit"
	"github.com/tsbridge/tsbridge/engine"
)

type generateInput struct {
	Spec        specInput `json:"spec"                   jsonschema:"The OpenAPI document to generate a client from"`
	OutputDir   string    `json:"output_dir"             jsonschema:"Directory to write the TypeScript artifacts to"`
	HookMode    string    `json:"hook_mode,omitempty"    jsonschema:"Hook artifact flavor: none, basic, or query-style (default: basic)"`
	ExcludeTags []string  `json:"exclude_tags,omitempty" jsonschema:"Endpoint tags excluded from emission (default: internal)"`
}

type generatedFileInfo struct {
	Name string `json:"name"`
}

type generateOutput struct {
	Success       bool                `json:"success"`
	OutputDir     string              `json:"output_dir"`
	FileCount     int                 `json:"file_count"`
	Files         []generatedFileInfo `json:"files"`
	Types         int                 `json:"types"`
	Endpoints     int                 `json:"endpoints"`
	WarningCount  int                 `json:"warning_count"`
	InfoCount     int                 `json:"info_count"`
	UpToDate      bool                `json:"up_to_date,omitempty"`
	CycleID       string              `json:"cycle_id"`
	DurationMilli int64               `json:"duration_ms"`
}

func handleGenerate(ctx context.Context, _ *mcp.CallToolRequest, input generateInput) (*mcp.CallToolResult, generateOutput, error) {
	if input.OutputDir == "" {
		return errResult(fmt.Errorf("output_dir is required")), generateOutput{}, nil
	}

	src, err := input.Spec.source()
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	cf := config.Default()
	cf.OutputDir = input.OutputDir
	cf.BaseDir = input.Spec.baseDir()
	cf.ExcludeTags = cfg.ExcludeTags
	if len(input.ExcludeTags) > 0 {
		cf.ExcludeTags = input.ExcludeTags
	}
	if cfg.HookMode != "" {
		cf.HookMode = cfg.HookMode
	}
	if input.HookMode != "" {
		cf.HookMode = input.HookMode
	}

	eng, err := engine.New(cf, src)
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	report, err := eng.RunOnce(ctx)
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	output := generateOutput{
		Success:       true,
		OutputDir:     input.OutputDir,
		FileCount:     len(report.Written),
		Types:         report.Types,
		Endpoints:     report.Endpoints,
		UpToDate:      report.UpToDate,
		CycleID:       report.CycleID,
		DurationMilli: report.Duration.Milliseconds(),
	}
	for _, issue := range report.Issues {
		switch issue.Severity {
		case emit.SeverityWarning:
			output.WarningCount++
		case emit.SeverityInfo:
			output.InfoCount++
		}
	}

	output.Files = makeSlice[generatedFileInfo](len(report.Written))
	for _, name := range report.Written {
		output.Files = append(output.Files, generatedFileInfo{Name: name})
	}

	return nil, output, nil
}
