package debug

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestLogger(t *testing.T) {
	t.Run("BasicLogging", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, "TEST", FlagLevel|FlagPrefix)

		logger.Info("Hello %s", "World")

		output := buf.String()
		if !strings.Contains(output, "[INFO]") {
			t.Error("Missing log level")
		}
		if !strings.Contains(output, "[TEST]") {
			t.Error("Missing prefix")
		}
		if !strings.Contains(output, "Hello World") {
			t.Error("Missing message")
		}
		if strings.Count(output, "\n") != 1 {
			t.Errorf("expected exactly one line, got %q", output)
		}
	})

	t.Run("LogLevels", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, "", FlagLevel)
		logger.SetLevel(LogLevelWarn)

		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warn message")
		logger.Error("error message")

		output := buf.String()
		if strings.Contains(output, "debug message") {
			t.Error("Debug message should not be logged")
		}
		if strings.Contains(output, "info message") {
			t.Error("Info message should not be logged")
		}
		if !strings.Contains(output, "warn message") {
			t.Error("Warn message should be logged")
		}
		if !strings.Contains(output, "error message") {
			t.Error("Error message should be logged")
		}
	})

	t.Run("Disabled", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, "", DefaultFlags)
		logger.SetEnabled(false)

		logger.Info("should not appear")

		if buf.Len() > 0 {
			t.Error("Disabled logger should not write")
		}
	})

	t.Run("FileInfo", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, "", FlagShortFile|FlagLevel)

		logger.Info("test")

		if !strings.Contains(buf.String(), "logger_test.go:") {
			t.Errorf("Missing caller file info in output: %s", buf.String())
		}
	})

	t.Run("Fields", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, "", FlagLevel)
		child := logger.With("band", "Low").With("bypassed", true)

		child.Info("gesture")
		logger.Info("plain")

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 2 {
			t.Fatalf("expected 2 lines, got %d", len(lines))
		}
		if !strings.HasSuffix(lines[0], "gesture band=Low bypassed=true") {
			t.Errorf("fields missing: %q", lines[0])
		}
		if strings.Contains(lines[1], "band=") {
			t.Errorf("parent picked up child fields: %q", lines[1])
		}
	})

	t.Run("ChildSharesLevel", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, "", FlagLevel)
		child := logger.With("k", 1)
		logger.SetLevel(LogLevelError)

		child.Info("hidden")
		if buf.Len() != 0 {
			t.Error("child should follow parent level")
		}
	})

	t.Run("FatalPanics", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, "", FlagLevel)

		defer func() {
			if recover() == nil {
				t.Error("Fatal should panic")
			}
			if !strings.Contains(buf.String(), "[FATAL] broken") {
				t.Errorf("fatal message not logged: %q", buf.String())
			}
		}()
		logger.Fatal("broken")
	})
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LogLevelDebug, "DEBUG"},
		{LogLevelInfo, "INFO"},
		{LogLevelWarn, "WARN"},
		{LogLevelError, "ERROR"},
		{LogLevelFatal, "FATAL"},
		{LogLevelOff, "OFF"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("LogLevel.String() = %v, want %v", got, tt.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", LogLevelDebug, false},
		{"INFO", LogLevelInfo, false},
		{"", LogLevelInfo, false},
		{" warning ", LogLevelWarn, false},
		{"off", LogLevelOff, false},
		{"loud", LogLevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestProfiler(t *testing.T) {
	t.Run("Statistics", func(t *testing.T) {
		p := NewProfiler(200)
		for i := 1; i <= 100; i++ {
			p.Record("tick", time.Duration(i)*time.Millisecond)
		}

		m, ok := p.Measurement("tick")
		if !ok {
			t.Fatal("measurement missing")
		}
		if m.Count != 100 {
			t.Errorf("Count = %d, want 100", m.Count)
		}
		if m.Min != time.Millisecond || m.Max != 100*time.Millisecond {
			t.Errorf("Min/Max = %v/%v", m.Min, m.Max)
		}
		if avg := m.Average(); avg < 50*time.Millisecond || avg > 51*time.Millisecond {
			t.Errorf("Average = %v, want ~50.5ms", avg)
		}
		p95 := m.Percentile(95)
		if p95 < 94*time.Millisecond || p95 > 96*time.Millisecond {
			t.Errorf("p95 = %v, want ~95ms", p95)
		}
	})

	t.Run("RingBuffer", func(t *testing.T) {
		p := NewProfiler(4)
		for i := 0; i < 10; i++ {
			p.Record("x", time.Millisecond)
		}
		p.Record("x", 9*time.Millisecond)

		m, _ := p.Measurement("x")
		if m.Count != 11 {
			t.Errorf("Count = %d, want 11", m.Count)
		}
		if got := m.Percentile(100); got < 8*time.Millisecond {
			t.Errorf("latest sample should be kept, p100 = %v", got)
		}
	})

	t.Run("Disabled", func(t *testing.T) {
		p := NewProfiler(10)
		p.SetEnabled(false)
		p.Start("x")()

		if _, ok := p.Measurement("x"); ok {
			t.Error("disabled profiler should not record")
		}
		if p.Report() != "No measurements recorded" {
			t.Error("unexpected report for empty profiler")
		}
	})

	t.Run("Report", func(t *testing.T) {
		p := NewProfiler(10)
		p.Record("b", time.Millisecond)
		p.Record("a", time.Millisecond)

		report := p.Report()
		if strings.Index(report, "a:") > strings.Index(report, "b:") {
			t.Errorf("report not sorted: %q", report)
		}
	})
}

func BenchmarkLogger(b *testing.B) {
	logger := New(bytes.NewBuffer(nil), "BENCH", DefaultFlags)

	b.Run("Enabled", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			logger.Info("Benchmark message %d", i)
		}
	})

	b.Run("BelowLevel", func(b *testing.B) {
		logger.SetLevel(LogLevelError)
		for i := 0; i < b.N; i++ {
			logger.Info("Benchmark message %d", i)
		}
	})
}
