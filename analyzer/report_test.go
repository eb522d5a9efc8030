package analyzer_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ZephyrDeng/timeavg/analyzer"
)

const sampleLog = `Analyzing declared.bc
real	0m1.000s
user	0m0.900s
sys	0m0.100s
real	0m3.000s
Analyzing pairwise.bc
Analyzing falsepairwise.bc
real	0m2.000s
`

func TestAnalyzeTimingLog(t *testing.T) {
	t.Run("PlainFormat", func(t *testing.T) {
		result, err := analyzer.AnalyzeTimingLog(strings.NewReader(sampleLog), "plain")
		if err != nil {
			t.Fatalf("Error analyzing timing log with plain format: %v", err)
		}
		want := "Analyzing declared.bc\n2.0\nAnalyzing pairwise.bc\nAnalyzing falsepairwise.bc\n2.0\n"
		if result != want {
			t.Errorf("Expected plain result %q, but got %q", want, result)
		}
	})

	t.Run("TextFormat", func(t *testing.T) {
		result, err := analyzer.AnalyzeTimingLog(strings.NewReader(sampleLog), "text")
		if err != nil {
			t.Fatalf("Error analyzing timing log with text format: %v", err)
		}

		expectedStrings := []string{
			"Timing Log Analysis",
			"Groups: 3, Samples: 3",
			"declared.bc",
			"pairwise.bc",
			"falsepairwise.bc",
			"2.0s",
		}
		for _, expected := range expectedStrings {
			if !strings.Contains(result, expected) {
				t.Errorf("Expected result to contain '%s', but it doesn't.\nResult: %s", expected, result)
			}
		}
		if strings.Contains(result, "```") {
			t.Errorf("Expected text result without code fences.\nResult: %s", result)
		}
	})

	t.Run("MarkdownFormat", func(t *testing.T) {
		result, err := analyzer.AnalyzeTimingLog(strings.NewReader(sampleLog), "markdown")
		if err != nil {
			t.Fatalf("Error analyzing timing log with markdown format: %v", err)
		}
		if !strings.HasPrefix(result, "```text\n") || !strings.HasSuffix(result, "```\n") {
			t.Errorf("Expected markdown result to be wrapped in code blocks, but it isn't.\nResult: %s", result)
		}
	})

	t.Run("JSONFormat", func(t *testing.T) {
		result, err := analyzer.AnalyzeTimingLog(strings.NewReader(sampleLog), "json")
		if err != nil {
			t.Fatalf("Error analyzing timing log with JSON format: %v", err)
		}

		var parsed analyzer.TimingAnalysisResult
		if err := json.Unmarshal([]byte(result), &parsed); err != nil {
			t.Fatalf("Error parsing JSON result: %v", err)
		}
		if parsed.TotalSamples != 3 || parsed.TotalSeconds != 6 {
			t.Errorf("Expected 3 samples totalling 6s, got %d samples totalling %v", parsed.TotalSamples, parsed.TotalSeconds)
		}
		if len(parsed.Groups) != 3 {
			t.Fatalf("Expected 3 groups, got %d.\nResult: %s", len(parsed.Groups), result)
		}
		if g := parsed.Groups[0]; g.Name != "declared.bc" || g.Samples != 2 || g.MeanSeconds != 2 {
			t.Errorf("Unexpected first group: %+v", g)
		}
		if g := parsed.Groups[1]; g.Samples != 0 || g.MeanFormatted != "" {
			t.Errorf("Expected empty second group, got %+v", g)
		}
	})

	t.Run("JSONFormatParseError", func(t *testing.T) {
		result, err := analyzer.AnalyzeTimingLog(strings.NewReader("Analyzing x\nreal bogus\n"), "json")
		if err != nil {
			t.Fatalf("Expected JSON error result instead of error, got %v", err)
		}
		var parsed analyzer.ErrorResult
		if err := json.Unmarshal([]byte(result), &parsed); err != nil {
			t.Fatalf("Error parsing JSON error result: %v", err)
		}
		if parsed.Line != 2 || parsed.Error == "" {
			t.Errorf("Expected error on line 2, got %+v", parsed)
		}
	})

	t.Run("FlamegraphJSONFormat", func(t *testing.T) {
		result, err := analyzer.AnalyzeTimingLog(strings.NewReader(sampleLog), "flamegraph-json")
		if err != nil {
			t.Fatalf("Error analyzing timing log with flamegraph-json format: %v", err)
		}

		var root analyzer.FlameGraphNode
		if err := json.Unmarshal([]byte(result), &root); err != nil {
			t.Fatalf("Error parsing flamegraph JSON result: %v", err)
		}
		if root.Name != "root" || root.Value != 6e9 {
			t.Errorf("Expected root with 6e9ns, got %s=%d", root.Name, root.Value)
		}
		// 没有样本的分组不出现在火焰图中
		if len(root.Children) != 2 {
			t.Fatalf("Expected 2 children, got %d.\nResult: %s", len(root.Children), result)
		}
		if root.Children[0].Name != "declared.bc" || root.Children[0].Value != 4e9 {
			t.Errorf("Expected largest child declared.bc=4e9, got %s=%d", root.Children[0].Name, root.Children[0].Value)
		}
	})

	t.Run("InvalidFormat", func(t *testing.T) {
		_, err := analyzer.AnalyzeTimingLog(strings.NewReader(sampleLog), "invalid-format")
		if err == nil {
			t.Error("Expected error for invalid format, but got nil")
		}
	})

	t.Run("ParseErrorPropagates", func(t *testing.T) {
		_, err := analyzer.AnalyzeTimingLog(strings.NewReader("real 5\n"), "text")
		if err == nil {
			t.Error("Expected parse error for malformed real line, but got nil")
		}
	})
}
