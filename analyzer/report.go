package analyzer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
)

// AnalyzeTimingLog 分析基准测试日志并按 format 返回格式化结果。
// 支持 plain (与 Average 完全一致)、text、markdown、json 和 flamegraph-json。
func AnalyzeTimingLog(r io.Reader, format string) (string, error) {
	log.Printf("Analyzing timing log (Format: %s)", format)

	if format == "plain" {
		var buf bytes.Buffer
		if err := Average(r, &buf); err != nil {
			return "", err
		}
		return buf.String(), nil
	}

	switch format {
	case "text", "markdown", "json", "flamegraph-json":
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}

	groups, err := CollectGroups(r)
	if err != nil {
		var perr *ParseError
		if format == "json" && errors.As(err, &perr) {
			// JSON 调用方期望结构化的错误信息
			errJSONBytes, _ := json.Marshal(ErrorResult{Error: err.Error(), Line: perr.Line})
			return string(errJSONBytes), nil
		}
		return "", err
	}
	log.Printf("Collected %d groups from timing log", len(groups))

	totalSamples := 0
	totalSeconds := 0.0
	for _, g := range groups {
		totalSamples += g.Samples
		totalSeconds += g.TotalSeconds
	}

	switch format {
	case "text", "markdown":
		var b strings.Builder
		if format == "markdown" {
			b.WriteString("```text\n") // 使用文本块以获得更好的对齐效果
		}
		b.WriteString("Timing Log Analysis (Mean real Time by Group)\n")
		b.WriteString(fmt.Sprintf("Groups: %d, Samples: %d, Total real: %s\n", len(groups), totalSamples, FormatSeconds(totalSeconds)))
		b.WriteString("--------------------------------------------------\n")
		b.WriteString(fmt.Sprintf("%-8s %-15s %-15s %s\n", "Samples", "Mean", "Total", "Group"))
		b.WriteString("--------------------------------------------------\n")
		for _, g := range groups {
			mean := "-"
			if g.Samples > 0 {
				mean = FormatMean(g.MeanSeconds) + "s"
			}
			b.WriteString(fmt.Sprintf("%-8d %-15s %-15s %s\n", g.Samples, mean, FormatSeconds(g.TotalSeconds), displayName(g)))
		}
		if format == "markdown" {
			b.WriteString("```\n")
		}
		return b.String(), nil

	case "json":
		result := TimingAnalysisResult{
			ValueType:    RealPrefix,
			ValueUnit:    "seconds",
			TotalSamples: totalSamples,
			TotalSeconds: totalSeconds,
			Groups:       make([]GroupTimingStat, 0, len(groups)),
		}
		for _, g := range groups {
			stat := GroupTimingStat{
				Name:                displayName(g),
				Header:              g.Header,
				Samples:             g.Samples,
				TotalSeconds:        g.TotalSeconds,
				TotalValueFormatted: FormatSeconds(g.TotalSeconds),
			}
			if g.Samples > 0 {
				stat.MeanSeconds = g.MeanSeconds
				stat.MeanFormatted = FormatSeconds(g.MeanSeconds)
			}
			result.Groups = append(result.Groups, stat)
		}
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Printf("Error marshaling timing analysis to JSON: %v", err)
			errJSONBytes, _ := json.Marshal(ErrorResult{Error: fmt.Sprintf("Failed to marshal result to JSON: %v", err)})
			return string(errJSONBytes), nil
		}
		return string(jsonBytes), nil

	default: // flamegraph-json
		p, err := BuildTimingProfile(groups)
		if err != nil {
			return "", err
		}
		root, err := BuildFlameGraphTree(p, realValueIndex)
		if err != nil {
			return "", fmt.Errorf("failed to build flame graph tree: %w", err)
		}
		jsonBytes, err := json.Marshal(root) // 紧凑 JSON
		if err != nil {
			return "", fmt.Errorf("failed to marshal flame graph tree to JSON: %w", err)
		}
		return string(jsonBytes), nil
	}
}

func displayName(g GroupStat) string {
	if g.Header == "" {
		return implicitGroupName
	}
	return g.Name
}
