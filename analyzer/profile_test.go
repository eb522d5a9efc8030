package analyzer_test

import (
	"bytes"
	"testing"

	"github.com/ZephyrDeng/timeavg/analyzer"
	"github.com/google/pprof/profile"
)

func TestBuildTimingProfile(t *testing.T) {
	groups := []analyzer.GroupStat{
		{Header: "", Samples: 1, TotalSeconds: 0.5, MeanSeconds: 0.5},
		{Header: "Analyzing foo", Name: "foo", Samples: 2, TotalSeconds: 4, MeanSeconds: 2},
		{Header: "Analyzing empty", Name: "empty"},
	}

	p, err := analyzer.BuildTimingProfile(groups)
	if err != nil {
		t.Fatalf("Error building timing profile: %v", err)
	}

	if len(p.SampleType) != 2 || p.SampleType[1].Type != "real" || p.SampleType[1].Unit != "nanoseconds" {
		t.Errorf("Unexpected sample types: %v", p.SampleType)
	}
	if len(p.Sample) != 2 {
		t.Fatalf("Expected 2 samples (empty group skipped), got %d", len(p.Sample))
	}
	if got := p.Sample[0].Label["group"]; len(got) != 1 || got[0] != "<implicit>" {
		t.Errorf("Expected implicit group label, got %v", got)
	}
	if got := p.Sample[1].Value; got[0] != 2 || got[1] != 4e9 {
		t.Errorf("Expected values [2 4000000000], got %v", got)
	}
	if p.DurationNanos != 4.5e9 {
		t.Errorf("Expected DurationNanos 4.5e9, got %d", p.DurationNanos)
	}
}

func TestWriteTimingProfileRoundTrip(t *testing.T) {
	groups := []analyzer.GroupStat{
		{Header: "Analyzing foo", Name: "foo", Samples: 3, TotalSeconds: 3, MeanSeconds: 1},
		{Header: "Analyzing bar", Name: "bar", Samples: 1, TotalSeconds: 2, MeanSeconds: 2},
	}

	var buf bytes.Buffer
	if err := analyzer.WriteTimingProfile(&buf, groups); err != nil {
		t.Fatalf("Error writing timing profile: %v", err)
	}

	parsed, err := profile.Parse(&buf)
	if err != nil {
		t.Fatalf("Error parsing written profile: %v", err)
	}
	if len(parsed.Sample) != 2 {
		t.Fatalf("Expected 2 samples after round trip, got %d", len(parsed.Sample))
	}
	names := map[string]int64{}
	for _, s := range parsed.Sample {
		names[s.Location[0].Line[0].Function.Name] = s.Value[1]
	}
	if names["foo"] != 3e9 || names["bar"] != 2e9 {
		t.Errorf("Unexpected per-group values after round trip: %v", names)
	}
}

func TestBuildFlameGraphTree(t *testing.T) {
	p, err := analyzer.BuildTimingProfile([]analyzer.GroupStat{
		{Header: "Analyzing a", Name: "a", Samples: 1, TotalSeconds: 1},
		{Header: "Analyzing b", Name: "b", Samples: 1, TotalSeconds: 3},
		{Header: "Analyzing a", Name: "a", Samples: 1, TotalSeconds: 1},
	})
	if err != nil {
		t.Fatalf("Error building timing profile: %v", err)
	}

	t.Run("RealTime", func(t *testing.T) {
		root, err := analyzer.BuildFlameGraphTree(p, 1)
		if err != nil {
			t.Fatalf("Error building flame graph tree: %v", err)
		}
		if root.Name != "root" || root.Value != 5e9 {
			t.Errorf("Expected root=5e9, got %s=%d", root.Name, root.Value)
		}
		// 同名分组合并
		if len(root.Children) != 2 {
			t.Fatalf("Expected 2 children, got %d", len(root.Children))
		}
		if root.Children[0].Name != "b" || root.Children[1].Name != "a" || root.Children[1].Value != 2e9 {
			t.Errorf("Unexpected children order or values: %s=%d, %s=%d",
				root.Children[0].Name, root.Children[0].Value, root.Children[1].Name, root.Children[1].Value)
		}
	})

	t.Run("SampleCount", func(t *testing.T) {
		root, err := analyzer.BuildFlameGraphTree(p, 0)
		if err != nil {
			t.Fatalf("Error building flame graph tree: %v", err)
		}
		if root.Value != 3 {
			t.Errorf("Expected root value 3, got %d", root.Value)
		}
	})

	t.Run("InvalidValueIndex", func(t *testing.T) {
		if _, err := analyzer.BuildFlameGraphTree(p, 5); err == nil {
			t.Error("Expected error for invalid value index, but got nil")
		}
	})
}
