// Package analyzer 计算基准测试日志中每个分组的平均 real 耗时。
//
// 文件划分:
// - timing.go: 行扫描、分组状态机以及 Average / CollectGroups
// - report.go: text、markdown、json、flamegraph-json 等报告格式
// - profile.go: 导出为 pprof profile
// - flamegraph.go: 从 profile 构建火焰图树
// - formatters.go: 数值格式化
package analyzer
