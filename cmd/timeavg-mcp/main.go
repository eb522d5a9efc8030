package main

import (
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	// 1. 初始化 MCP 服务器
	mcpServer := server.NewMCPServer(
		"TimeAverager",
		"0.1.0",
		server.WithLogging(),
		server.WithRecovery(),
	)

	// 2. average_timings: 按分组计算平均 real 耗时
	averageTool := mcp.NewTool("average_timings",
		mcp.WithDescription("Average the `real` times reported by `time` in a benchmark log, grouped by 'Analyzing' header lines."),
		mcp.WithString("log_uri",
			mcp.Description("URI of the benchmark log ('file://', 'http://', 'https://' or a plain local path)."),
			mcp.Required(),
		),
		mcp.WithString("output_format",
			mcp.Description("Output format. 'plain' matches the timeavg command line output."),
			mcp.DefaultString("text"),
			mcp.Enum("plain", "text", "markdown", "json", "flamegraph-json"),
		),
	)

	// 3. export_timing_profile: 导出为 pprof 文件
	exportTool := mcp.NewTool("export_timing_profile",
		mcp.WithDescription("Export the per-group real times of a benchmark log as a gzipped pprof profile."),
		mcp.WithString("log_uri",
			mcp.Description("URI of the benchmark log ('file://', 'http://', 'https://' or a plain local path)."),
			mcp.Required(),
		),
		mcp.WithString("output_path",
			mcp.Description("Where to write the .pb.gz profile (absolute, or relative to the server working directory)."),
			mcp.Required(),
		),
	)

	// 4. open_interactive_pprof: 在后台启动 pprof Web UI
	openInteractiveTool := mcp.NewTool("open_interactive_pprof",
		mcp.WithDescription("Export the timing profile of a benchmark log and start 'go tool pprof' web UI in the background. Returns the process PID."),
		mcp.WithString("log_uri",
			mcp.Description("URI of the benchmark log ('file://', 'http://', 'https://' or a plain local path)."),
			mcp.Required(),
		),
		mcp.WithString("http_address",
			mcp.Description("Listen address for the pprof web UI (e.g. ':8081'). Defaults to ':8081'."),
		),
	)

	// 5. disconnect_pprof_session
	disconnectTool := mcp.NewTool("disconnect_pprof_session",
		mcp.WithDescription("Terminate a background pprof process started by 'open_interactive_pprof'."),
		mcp.WithNumber("pid",
			mcp.Description("PID returned by 'open_interactive_pprof'."),
			mcp.Required(),
		),
	)

	mcpServer.AddTool(averageTool, handleAverageTimings)
	mcpServer.AddTool(exportTool, handleExportTimingProfile)
	mcpServer.AddTool(openInteractiveTool, handleOpenInteractivePprof)
	mcpServer.AddTool(disconnectTool, handleDisconnectPprofSession)

	setupSignalHandler()

	log.Println("Starting TimeAverager MCP server via stdio...")
	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
