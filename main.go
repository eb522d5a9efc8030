// timeavg 从标准输入读取基准测试日志，按 Analyzing 分组输出平均 real 耗时。
// 不接受任何参数或环境变量。
package main

import (
	"io"
	"log"
	"os"

	"github.com/ZephyrDeng/timeavg/analyzer"
)

func main() {
	log.SetPrefix("timeavg: ")
	log.SetFlags(0)

	if err := run(os.Stdin, os.Stdout); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(in io.Reader, out io.Writer) error {
	return analyzer.Average(in, out)
}
