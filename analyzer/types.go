package analyzer

// GroupStat 汇总一个分组 (两个 Analyzing 标题之间的日志) 的 real 耗时。
type GroupStat struct {
	Header       string  // 原始标题行，隐式首分组为空
	Name         string  // 去掉 "Analyzing" 之后的分组名
	Samples      int     // real 样本数
	TotalSeconds float64 // 样本耗时之和 (秒)
	MeanSeconds  float64 // 平均耗时 (秒)，Samples 为 0 时为 0
}

// --- JSON 输出结构体定义 ---

// ErrorResult 用于在 JSON 格式中返回错误信息
type ErrorResult struct {
	Error string `json:"error"`
	Line  int    `json:"line,omitempty"` // 出错的输入行号，omitempty 如果为 0 则不输出
}

// GroupTimingStat 代表单个分组的统计信息 (JSON)
type GroupTimingStat struct {
	Name                string  `json:"name"`
	Header              string  `json:"header,omitempty"`
	Samples             int     `json:"samples"`
	TotalSeconds        float64 `json:"totalSeconds"`
	MeanSeconds         float64 `json:"meanSeconds,omitempty"` // 无样本的分组不输出
	MeanFormatted       string  `json:"meanFormatted,omitempty"` // e.g. "1.23s"
	TotalValueFormatted string  `json:"totalValueFormatted"`
}

// TimingAnalysisResult 代表整个日志的分析结果 (JSON)
type TimingAnalysisResult struct {
	ValueType    string            `json:"valueType"` // "real"
	ValueUnit    string            `json:"valueUnit"` // "seconds"
	TotalSamples int               `json:"totalSamples"`
	TotalSeconds float64           `json:"totalSeconds"`
	Groups       []GroupTimingStat `json:"groups"`
}

// FlameGraphNode 代表火焰图中的一个节点 (JSON)
// 用于生成层级化的 JSON 数据，适合 d3-flame-graph 等库使用
type FlameGraphNode struct {
	Name     string            `json:"name"`
	Value    int64             `json:"value"` // 该节点及其子节点的总值 (纳秒)
	Children []*FlameGraphNode `json:"children,omitempty"`
}
