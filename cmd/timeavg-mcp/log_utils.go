package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZephyrDeng/timeavg/analyzer"
)

// getLogAsFile 把 log_uri 解析为本地文件路径。
// - 不包含 "://" 的输入视为本地路径 (相对或绝对)
// - file:// URI 直接使用其路径
// - http:// 和 https:// 会下载到临时文件，cleanup 负责删除
func getLogAsFile(uriStr string) (filePath string, cleanup func(), err error) {
	cleanup = func() {}

	if !strings.Contains(uriStr, "://") {
		absPath, err := filepath.Abs(uriStr)
		if err != nil {
			return "", nil, fmt.Errorf("failed to get absolute path for '%s': %w", uriStr, err)
		}
		log.Printf("Using local timing log: %s", absPath)
		return absPath, cleanup, nil
	}

	parsedURI, err := url.Parse(uriStr)
	if err != nil {
		return "", nil, fmt.Errorf("invalid log URI '%s': %w", uriStr, err)
	}

	switch parsedURI.Scheme {
	case "file":
		if parsedURI.Path == "" {
			return "", nil, fmt.Errorf("invalid file path derived from URI '%s'", uriStr)
		}
		log.Printf("Using local timing log: %s", parsedURI.Path)
		return parsedURI.Path, cleanup, nil

	case "http", "https":
		return downloadLog(uriStr)

	default:
		return "", nil, fmt.Errorf("unsupported URI scheme '%s', only 'file://', 'http://', 'https://', or a plain local path are supported", parsedURI.Scheme)
	}
}

func downloadLog(uriStr string) (string, func(), error) {
	log.Printf("Attempting to download timing log from URL: %s", uriStr)
	resp, err := http.Get(uriStr)
	if err != nil {
		return "", nil, fmt.Errorf("failed to download log from '%s': %w", uriStr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("failed to download log from '%s': received status code %d", uriStr, resp.StatusCode)
	}

	tempFile, err := os.CreateTemp("", "timeavg-*.log")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temporary file for download: %w", err)
	}
	filePath := tempFile.Name()
	cleanup := func() {
		log.Printf("Cleaning up temporary file: %s", filePath)
		if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
			log.Printf("Warning: failed to remove temporary file '%s': %v", filePath, err)
		}
	}

	_, err = io.Copy(tempFile, resp.Body)
	closeErr := tempFile.Close()
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to write downloaded content to temporary file '%s': %w", filePath, err)
	}
	if closeErr != nil {
		log.Printf("Warning: failed to close temporary file handle for '%s': %v", filePath, closeErr)
	}

	log.Printf("Downloaded timing log to %s", filePath)
	return filePath, cleanup, nil
}

// loadGroups 读取 log_uri 指向的日志并收集分组
func loadGroups(uriStr string) ([]analyzer.GroupStat, error) {
	filePath, cleanup, err := getLogAsFile(uriStr)
	if err != nil {
		return nil, fmt.Errorf("failed to get timing log: %w", err)
	}
	defer cleanup()

	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open timing log '%s': %w", filePath, err)
	}
	defer f.Close()

	return analyzer.CollectGroups(f)
}
