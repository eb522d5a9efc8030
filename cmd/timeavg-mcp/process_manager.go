package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ZephyrDeng/timeavg/analyzer"
)

// pprofSession 是一个由本服务器在后台启动的 `go tool pprof` 进程
type pprofSession struct {
	process     *os.Process
	profilePath string // 导出的临时 profile，进程结束后删除
}

var (
	runningPprofs = make(map[int]*pprofSession)
	pprofMutex    sync.Mutex
)

func trackSession(pid int, s *pprofSession) {
	pprofMutex.Lock()
	runningPprofs[pid] = s
	pprofMutex.Unlock()
}

// untrackSession 移除并返回 pid 对应的会话
func untrackSession(pid int) (*pprofSession, bool) {
	pprofMutex.Lock()
	defer pprofMutex.Unlock()
	s, ok := runningPprofs[pid]
	if ok {
		delete(runningPprofs, pid)
	}
	return s, ok
}

func (s *pprofSession) terminate(pid int) error {
	defer func() {
		if err := os.Remove(s.profilePath); err != nil && !os.IsNotExist(err) {
			log.Printf("Warning: failed to remove temporary profile '%s': %v", s.profilePath, err)
		}
	}()

	log.Printf("Sending Interrupt signal to PID %d...", pid)
	if err := s.process.Signal(os.Interrupt); err != nil {
		log.Printf("Failed to send Interrupt to PID %d: %v. Trying Kill.", pid, err)
		if err := s.process.Signal(os.Kill); err != nil {
			return err
		}
	}
	return nil
}

// writeTempProfile 把分组导出到临时 .pb.gz 文件并返回其路径
func writeTempProfile(groups []analyzer.GroupStat) (string, error) {
	f, err := os.CreateTemp("", "timeavg-*.pb.gz")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary profile: %w", err)
	}
	path := f.Name()
	writeErr := analyzer.WriteTimingProfile(f, groups)
	closeErr := f.Close()
	if writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		os.Remove(path)
		return "", writeErr
	}
	return path, nil
}

// handleOpenInteractivePprof 导出计时 profile 并在后台启动 pprof Web UI。
func handleOpenInteractivePprof(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments

	logURIStr, ok := args["log_uri"].(string)
	if !ok || logURIStr == "" {
		return nil, fmt.Errorf("missing or invalid required argument: log_uri (string)")
	}
	httpAddress, ok := args["http_address"].(string)
	if !ok || httpAddress == "" {
		httpAddress = ":8081"
		log.Printf("No http_address provided, using default: %s", httpAddress)
	}

	log.Printf("Handling open_interactive_pprof: URI=%s, Address=%s", logURIStr, httpAddress)

	if _, err := exec.LookPath("go"); err != nil {
		return nil, fmt.Errorf("'go' command not found in PATH, cannot start pprof")
	}

	groups, err := loadGroups(logURIStr)
	if err != nil {
		return nil, err
	}
	profilePath, err := writeTempProfile(groups)
	if err != nil {
		return nil, err
	}

	cmdArgs := []string{"tool", "pprof", "-no_browser", fmt.Sprintf("-http=%s", httpAddress), profilePath}
	log.Printf("Preparing to execute command in background: go %s", strings.Join(cmdArgs, " "))

	// 进程需要比本次请求活得更久，所以不使用请求的 ctx
	cmd := exec.Command("go", cmdArgs...)
	if err := cmd.Start(); err != nil {
		os.Remove(profilePath)
		return nil, fmt.Errorf("failed to start 'go tool pprof': %w", err)
	}

	pid := cmd.Process.Pid
	trackSession(pid, &pprofSession{process: cmd.Process, profilePath: profilePath})
	go func() {
		// 回收进程，避免僵尸进程
		if err := cmd.Wait(); err != nil {
			log.Printf("pprof PID %d exited: %v", pid, err)
		}
	}()

	log.Printf("Started 'go tool pprof' in background with PID: %d", pid)

	resultText := fmt.Sprintf("Started 'go tool pprof' (PID: %d) for %d timing groups, listening on %s.", pid, len(groups), httpAddress)
	resultText += "\nUse 'disconnect_pprof_session' with this PID to stop it."
	return textResult(resultText), nil
}

// handleDisconnectPprofSession 终止指定 PID 的 pprof 会话。
func handleDisconnectPprofSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments

	pidFloat, ok := args["pid"].(float64) // JSON 数字总是 float64
	if !ok {
		return nil, fmt.Errorf("missing or invalid required argument: pid (number)")
	}
	pid := int(pidFloat)
	if pid <= 0 {
		return nil, fmt.Errorf("invalid PID: %d", pid)
	}

	log.Printf("Handling disconnect_pprof_session for PID: %d", pid)

	session, exists := untrackSession(pid)
	if !exists {
		return nil, fmt.Errorf("no running pprof session with PID %d", pid)
	}
	if err := session.terminate(pid); err != nil {
		return nil, fmt.Errorf("failed to terminate PID %d: %w", pid, err)
	}

	resultText := fmt.Sprintf("Sent termination signal to PID %d.", pid)
	log.Println(resultText)
	return textResult(resultText), nil
}

// setupSignalHandler 在服务器退出时终止所有 pprof 进程。应在 main 中调用一次。
func setupSignalHandler() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigs
		log.Printf("Received signal: %s. Cleaning up running pprof processes...", sig)
		terminateAll()
		os.Exit(0)
	}()
}

func terminateAll() {
	pprofMutex.Lock()
	sessions := runningPprofs
	runningPprofs = make(map[int]*pprofSession)
	pprofMutex.Unlock()

	if len(sessions) == 0 {
		log.Println("No running pprof processes to terminate.")
		return
	}

	var wg sync.WaitGroup
	for pid, s := range sessions {
		wg.Add(1)
		go func(pid int, s *pprofSession) {
			defer wg.Done()
			if err := s.terminate(pid); err != nil {
				log.Printf("Failed to terminate PID %d: %v", pid, err)
			}
		}(pid, s)
	}
	wg.Wait()
	log.Println("Cleanup finished.")
}
