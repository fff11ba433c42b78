package log

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestGetLogLevel(t *testing.T) {
	tests := []struct {
		value string
		want  logrus.Level
	}{
		{"DEBUG", logrus.DebugLevel},
		{" warn ", logrus.WarnLevel},
		{"", logrus.InfoLevel},
		{"verbose", logrus.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("TEST_LOG_LEVEL", tt.value)
			if got := GetLogLevel("TEST_LOG_LEVEL"); got != tt.want {
				t.Errorf("GetLogLevel(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestWithFields(t *testing.T) {
	hook := test.NewLocal(Logger())
	defer hook.Reset()

	WithFields(Fields{"runId": "abc"}).Info("polled")
	Warnf("skipped %s", "team/repo")

	entries := hook.AllEntries()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Data["runId"] != "abc" || entries[0].Message != "polled" {
		t.Errorf("entry = %+v", entries[0])
	}
	if entries[1].Level != logrus.WarnLevel || entries[1].Message != "skipped team/repo" {
		t.Errorf("entry = %+v", entries[1])
	}
}
