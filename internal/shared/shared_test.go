package shared

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestLogging(t *testing.T) {
	t.Run("NewLogger Writes To Buffer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		WithLogger(logger, "component", "test").Info("hello")

		if !strings.Contains(buf.String(), "component=test") {
			t.Errorf("expected child logger fields in output, got %q", buf.String())
		}
	})

	t.Run("NewFileLogger Creates File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "tdq.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		logger.Info("written")
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected log file at %s: %v", path, err)
		}
	})

	t.Run("ParseLogLevel", func(t *testing.T) {
		tc := []struct {
			in   string
			want log.Level
		}{
			{"", log.InfoLevel},
			{"debug", log.DebugLevel},
			{"warn", log.WarnLevel},
			{"nonsense", log.InfoLevel},
		}
		for _, tt := range tc {
			if got := ParseLogLevel(tt.in); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		}
	})

	t.Run("GenerateID", func(t *testing.T) {
		a, b := GenerateID(), GenerateID()
		if a == b || len(a) != 36 {
			t.Errorf("expected two distinct uuids, got %s and %s", a, b)
		}
	})
}

func TestResponseError(t *testing.T) {
	t.Run("Sentinels Survive Wrapping", func(t *testing.T) {
		err := fmt.Errorf("dispatch: %w", UnknownOperationError("nope", "string"))

		if !errors.Is(err, ErrUnknownOperation) {
			t.Error("expected errors.Is to find ErrUnknownOperation")
		}

		re := AsResponseError(err)
		if re.Status != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", re.Status)
		}
		if re.Short != UnknownOperation {
			t.Errorf("expected short code UNKNOWN_OPERATION, got %s", re.Short)
		}
	})

	t.Run("Upstream Carries Status And Body", func(t *testing.T) {
		re := UpstreamError(http.StatusBadGateway, "bad gateway")

		if re.Status != http.StatusInternalServerError {
			t.Errorf("expected server class status, got %d", re.Status)
		}
		if re.Details["upstreamStatus"] != http.StatusBadGateway {
			t.Errorf("expected upstream status 502, got %v", re.Details["upstreamStatus"])
		}
		if re.Details["upstreamBody"] != "bad gateway" {
			t.Errorf("expected upstream body, got %v", re.Details["upstreamBody"])
		}
		if !errors.Is(re, ErrUpstreamFailure) {
			t.Error("expected errors.Is to find ErrUpstreamFailure")
		}
	})

	t.Run("Plain Errors Become System Exceptions", func(t *testing.T) {
		re := AsResponseError(errors.New("boom"))
		if re.Short != SystemException || re.Status != http.StatusInternalServerError {
			t.Errorf("expected SYSTEM_EXCEPTION/500, got %s/%d", re.Short, re.Status)
		}
	})
}
