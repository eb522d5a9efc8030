package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ZephyrDeng/timeavg/analyzer"
)

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: text,
			},
		},
	}
}

// handleAverageTimings 处理 "average_timings" 工具请求。
func handleAverageTimings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments

	logURIStr, ok := args["log_uri"].(string)
	if !ok || logURIStr == "" {
		return nil, fmt.Errorf("missing or invalid required argument: log_uri (string)")
	}
	outputFormat, ok := args["output_format"].(string)
	if !ok || outputFormat == "" {
		outputFormat = "text"
	}

	log.Printf("Handling average_timings: URI=%s, Format=%s", logURIStr, outputFormat)

	filePath, cleanup, err := getLogAsFile(logURIStr)
	if err != nil {
		return nil, fmt.Errorf("failed to get timing log: %w", err)
	}
	defer cleanup()

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open timing log '%s': %w", filePath, err)
	}
	defer file.Close()

	result, err := analyzer.AnalyzeTimingLog(file, outputFormat)
	if err != nil {
		log.Printf("Analysis error for '%s': %v", filePath, err)
		return nil, err
	}

	log.Printf("Analysis successful. Result length: %d", len(result))
	return textResult(result), nil
}

// handleExportTimingProfile 处理 "export_timing_profile" 工具请求，把分组写成 pprof 文件。
func handleExportTimingProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments

	logURIStr, ok := args["log_uri"].(string)
	if !ok || logURIStr == "" {
		return nil, fmt.Errorf("missing or invalid required argument: log_uri (string)")
	}
	outputPath, ok := args["output_path"].(string)
	if !ok || outputPath == "" {
		return nil, fmt.Errorf("missing or invalid required argument: output_path (string)")
	}

	// 相对路径按服务器当前工作目录解析
	if !filepath.IsAbs(outputPath) {
		absPath, err := filepath.Abs(outputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve output path '%s': %w", outputPath, err)
		}
		outputPath = absPath
	}

	log.Printf("Handling export_timing_profile: URI=%s, Output=%s", logURIStr, outputPath)

	groups, err := loadGroups(logURIStr)
	if err != nil {
		return nil, err
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile file '%s': %w", outputPath, err)
	}
	if err := analyzer.WriteTimingProfile(out, groups); err != nil {
		out.Close()
		return nil, err
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("failed to close profile file '%s': %w", outputPath, err)
	}

	log.Printf("Exported timing profile with %d groups to %s", len(groups), outputPath)
	return textResult(fmt.Sprintf("Timing profile (%d groups) written to: %s\nView it with: go tool pprof -http=:8081 %s", len(groups), outputPath, outputPath)), nil
}
