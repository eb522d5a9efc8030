package analyzer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatMean 把平均耗时格式化为最短的可往返十进制表示，并且总是带小数部分
// (2 -> "2.0")。绝对值小于 1e-4 或不小于 1e16 时使用指数形式，
// 非有限值输出 nan、inf、-inf。
func FormatMean(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// FormatSeconds 将秒数转换为人类可读的字符串。
func FormatSeconds(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second))
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%dm%.3fs", int(d/time.Minute), (d % time.Minute).Seconds())
	case d >= time.Second:
		return fmt.Sprintf("%.3fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.2fms", float64(d.Microseconds())/1000)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.2fus", float64(d.Nanoseconds())/1000)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}

// secondsToNanos 用于 pprof 样本值和火焰图节点值
func secondsToNanos(seconds float64) int64 {
	return int64(math.Round(seconds * float64(time.Second)))
}
