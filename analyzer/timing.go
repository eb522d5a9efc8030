package analyzer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	// HeaderPrefix 标记一个新分组的开始
	HeaderPrefix = "Analyzing"
	// RealPrefix 标记一行 `time` 输出的 real 耗时
	RealPrefix = "real"
)

// ErrMalformedDuration 表示 real 行中的耗时字段无法解析。
var ErrMalformedDuration = errors.New("malformed duration")

// ParseError 描述输入中第 Line 行的格式错误。
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseDuration 解析 `<分钟>m<秒>s` 形式的耗时，返回秒数。
// 末尾的 's' 会全部去掉，剩余部分必须恰好被 'm' 分成两段。
func ParseDuration(tok string) (float64, error) {
	s := strings.TrimRight(strings.TrimSpace(tok), "s")
	parts := strings.Split(s, "m")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q has no single 'm' separator", ErrMalformedDuration, tok)
	}
	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: minutes %q: %v", ErrMalformedDuration, parts[0], err)
	}
	seconds, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: seconds %q: %v", ErrMalformedDuration, parts[1], err)
	}
	return float64(minutes)*60 + seconds, nil
}

// ParseRealLine 取 real 行的第二个字段并解析为秒数。
func ParseRealLine(line string) (float64, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0, fmt.Errorf("%w: missing duration field", ErrMalformedDuration)
	}
	return ParseDuration(fields[1])
}

// accumulator 保存当前分组的累计耗时和样本数
type accumulator struct {
	timeSum float64
	n       int
}

func (a *accumulator) add(seconds float64) {
	a.timeSum += seconds
	a.n++
}

func (a *accumulator) mean() float64 {
	return a.timeSum / float64(a.n)
}

func (a *accumulator) reset() {
	a.timeSum = 0
	a.n = 0
}

// scanHandler 接收扫描过程中产生的事件。
// groupEnd 仅在分组结束时调用，无论样本数是否为零。
type scanHandler struct {
	header   func(line string) error
	groupEnd func(header string, hasHeader bool, acc accumulator) error
}

// scanTimingLog 对输入做一次线性扫描，驱动分组状态机。
func scanTimingLog(r io.Reader, h scanHandler) error {
	var (
		acc       accumulator
		header    string
		hasHeader bool
		lineNo    int
	)

	br := bufio.NewReader(r)
	for {
		raw, readErr := br.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return fmt.Errorf("failed to read timing log: %w", readErr)
		}
		if readErr == io.EOF && raw == "" {
			break
		}
		lineNo++
		line := strings.TrimSuffix(strings.TrimSuffix(raw, "\n"), "\r")

		if strings.HasPrefix(line, HeaderPrefix) {
			if err := h.groupEnd(header, hasHeader, acc); err != nil {
				return err
			}
			if err := h.header(line); err != nil {
				return err
			}
			acc.reset()
			header, hasHeader = line, true
		}
		if strings.HasPrefix(line, RealPrefix) {
			seconds, err := ParseRealLine(line)
			if err != nil {
				return &ParseError{Line: lineNo, Text: line, Err: err}
			}
			acc.add(seconds)
		}
		if readErr == io.EOF {
			break
		}
	}
	return h.groupEnd(header, hasHeader, acc)
}

// Average 读取 r 中的基准测试日志，把分组标题原样写入 w，
// 并在每个含有 real 样本的分组结束时写出平均耗时 (秒)。
func Average(r io.Reader, w io.Writer) error {
	bw := bufio.NewWriter(w)
	err := scanTimingLog(r, scanHandler{
		header: func(line string) error {
			_, err := fmt.Fprintln(bw, line)
			return err
		},
		groupEnd: func(_ string, _ bool, acc accumulator) error {
			if acc.n == 0 {
				return nil
			}
			_, err := fmt.Fprintln(bw, FormatMean(acc.mean()))
			return err
		},
	})
	// 出错前已经写出的分组仍然保留
	if flushErr := bw.Flush(); err == nil && flushErr != nil {
		err = fmt.Errorf("failed to write averages: %w", flushErr)
	}
	return err
}

// CollectGroups 与 Average 使用同一状态机，但把每个分组作为 GroupStat 返回。
// 没有标题的首个分组只有在包含样本时才会出现在结果中。
func CollectGroups(r io.Reader) ([]GroupStat, error) {
	groups := []GroupStat{}
	err := scanTimingLog(r, scanHandler{
		header: func(string) error { return nil },
		groupEnd: func(header string, hasHeader bool, acc accumulator) error {
			if !hasHeader && acc.n == 0 {
				return nil
			}
			g := GroupStat{
				Header:       header,
				Name:         groupName(header),
				Samples:      acc.n,
				TotalSeconds: acc.timeSum,
			}
			if acc.n > 0 {
				g.MeanSeconds = acc.mean()
			}
			groups = append(groups, g)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return groups, nil
}

func groupName(header string) string {
	return strings.TrimSpace(strings.TrimPrefix(header, HeaderPrefix))
}
