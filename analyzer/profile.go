package analyzer

import (
	"fmt"
	"io"
	"log"

	"github.com/google/pprof/profile"
)

// implicitGroupName 用作没有 Analyzing 标题的首个分组的函数名
const implicitGroupName = "<implicit>"

// realValueIndex 是 real/nanoseconds 在 SampleType 中的位置，0 为 samples/count
const realValueIndex = 1

// BuildTimingProfile 把分组统计转换为 pprof profile，方便用 `go tool pprof` 查看。
// 每个包含样本的分组对应一个函数、一个 location 和一个样本。
func BuildTimingProfile(groups []GroupStat) (*profile.Profile, error) {
	p := &profile.Profile{
		SampleType: []*profile.ValueType{
			{Type: "samples", Unit: "count"},
			{Type: "real", Unit: "nanoseconds"},
		},
		PeriodType:        &profile.ValueType{Type: "real", Unit: "nanoseconds"},
		Period:            1,
		DefaultSampleType: "real",
	}

	var total int64
	for _, g := range groups {
		if g.Samples == 0 {
			continue
		}
		name := g.Name
		if g.Header == "" {
			name = implicitGroupName
		}
		id := uint64(len(p.Function) + 1)
		fn := &profile.Function{ID: id, Name: name, SystemName: name}
		loc := &profile.Location{ID: id, Line: []profile.Line{{Function: fn}}}
		nanos := secondsToNanos(g.TotalSeconds)
		p.Function = append(p.Function, fn)
		p.Location = append(p.Location, loc)
		p.Sample = append(p.Sample, &profile.Sample{
			Location: []*profile.Location{loc},
			Value:    []int64{int64(g.Samples), nanos},
			Label:    map[string][]string{"group": {name}},
		})
		total += nanos
	}
	p.DurationNanos = total

	if err := p.CheckValid(); err != nil {
		return nil, fmt.Errorf("invalid timing profile: %w", err)
	}
	log.Printf("Built timing profile with %d groups, total real time %s", len(p.Sample), FormatSeconds(float64(total)/1e9))
	return p, nil
}

// WriteTimingProfile 将分组写为 gzip 压缩的 pprof protobuf。
func WriteTimingProfile(w io.Writer, groups []GroupStat) error {
	p, err := BuildTimingProfile(groups)
	if err != nil {
		return err
	}
	if err := p.Write(w); err != nil {
		return fmt.Errorf("failed to write timing profile: %w", err)
	}
	return nil
}
