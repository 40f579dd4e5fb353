package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"RapidESGDataInsights/src/config"
)

func newTestLogger(t *testing.T) (*Logger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.log")
	logger, err := NewLogger(path)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	t.Cleanup(func() { logger.Close() })
	return logger, path
}

func TestLoggerWritesEntries(t *testing.T) {
	logger, path := newTestLogger(t)

	logger.Info("分析开始")
	logger.Warning("国家 TWN 数据缺失")
	logger.Error("推送失败")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	for _, want := range []string{"INFO: 分析开始", "WARNING: 国家 TWN 数据缺失", "ERROR: 推送失败"} {
		if !strings.Contains(content, want) {
			t.Errorf("log file missing %q", want)
		}
	}
}

func TestLoggerSubscribe(t *testing.T) {
	logger, _ := newTestLogger(t)

	ch := logger.Subscribe()
	logger.Info("hello subscriber")

	select {
	case msg := <-ch:
		if !strings.Contains(msg, "hello subscriber") {
			t.Errorf("unexpected message: %q", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("no message received from subscriber channel")
	}
}

func TestLoggerUnsubscribe(t *testing.T) {
	logger, _ := newTestLogger(t)

	ch1 := logger.Subscribe()
	ch2 := logger.Subscribe()
	logger.Unsubscribe(ch1)

	logger.Info("after unsubscribe")

	if len(ch1) != 0 {
		t.Error("unsubscribed channel still receives messages")
	}

	select {
	case msg := <-ch2:
		if !strings.Contains(msg, "after unsubscribe") {
			t.Errorf("unexpected message: %q", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("remaining subscriber did not receive message")
	}

	// 重复取消与未知通道都不应panic
	logger.Unsubscribe(ch1)
}

func TestLoggerRotate(t *testing.T) {
	logger, path := newTestLogger(t)

	// 上限1字节，任何写入后都应触发轮转
	cfg := &config.Config{LogMaxSize: "1"}

	logger.Info("this entry exceeds the rotation threshold")
	if err := logger.CheckRotate(cfg); err != nil {
		t.Fatalf("CheckRotate failed: %v", err)
	}

	// 轮转后原文件重新创建且为空
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("log file missing after rotate: %v", err)
	}
	if info.Size() != 0 {
		t.Errorf("expected empty file after rotate, size = %d", info.Size())
	}

	// 归档文件存在
	matches, err := filepath.Glob(path + ".*")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Errorf("expected 1 archived log, got %d", len(matches))
	}
}

func TestLogLevelString(t *testing.T) {
	cases := map[LogLevel]string{
		DEBUG:        "DEBUG",
		INFO:         "INFO",
		WARNING:      "WARNING",
		ERROR:        "ERROR",
		FATAL:        "FATAL",
		LogLevel(99): "UNKNOWN",
	}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Errorf("LogLevel(%d).String() = %q, want %q", level, got, want)
		}
	}
}

func TestEval(t *testing.T) {
	if got := eval("10 * 1024 * 1024"); got != 10*1024*1024 {
		t.Errorf("eval = %d", got)
	}
	if got := eval("512"); got != 512 {
		t.Errorf("eval = %d", got)
	}
}
