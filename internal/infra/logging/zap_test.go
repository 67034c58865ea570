package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLoggerForwardsLevelsAndFields(t *testing.T) {
	obs, logs := observer.New(zap.DebugLevel)
	log := NewZapLogger(zap.New(obs))

	log.Debug("debug msg", "k", "v")
	log.Info("info msg", "plan_id", uint64(7))
	log.Warn("warn msg")
	log.Error("error msg", "error", "boom")

	entries := logs.All()
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}
	if entries[1].Message != "info msg" {
		t.Fatalf("unexpected message %q", entries[1].Message)
	}
	fields := entries[1].ContextMap()
	if fields["plan_id"] != uint64(7) {
		t.Fatalf("expected plan_id field, got %+v", fields)
	}
	if entries[3].Level != zap.ErrorLevel {
		t.Fatalf("expected error level, got %v", entries[3].Level)
	}
}

func TestNewProductionLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus"} {
		log, err := NewProduction(level, "dischargecore")
		if err != nil {
			t.Fatalf("new production %q: %v", level, err)
		}
		if log == nil {
			t.Fatalf("expected logger for level %q", level)
		}
	}
}
