package logger

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"clinscore/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestInitCreatesLevelFiles(t *testing.T) {
	dir := t.TempDir()
	log, err := Init(config.LoggingConfig{Directory: dir, ConsoleLevel: "error", MaxSize: 1, MaxBackups: 1, MaxAge: 1})
	require.NoError(t, err)

	log.Info("scored", zap.String("instrument", "gad7"))
	log.Warn("slow")
	_ = log.Sync()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	today := time.Now().Format("2006-01-02")
	assert.Contains(t, names, today+"-info.log")
	assert.Contains(t, names, today+"-warn.log")
}

func TestInitRejectsBadLevel(t *testing.T) {
	_, err := Init(config.LoggingConfig{Directory: t.TempDir(), ConsoleLevel: "loud"})
	assert.Error(t, err)
}

func TestGormTrace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewGormZapLogger(zap.New(core), 50*time.Millisecond)
	sql := func() (string, int64) { return "SELECT 1", 1 }

	l.Trace(context.Background(), time.Now(), sql, gorm.ErrRecordNotFound)
	assert.Equal(t, 0, logs.Len(), "record not found is not logged at warn level")

	l.Trace(context.Background(), time.Now(), sql, errors.New("boom"))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)

	l.Trace(context.Background(), time.Now().Add(-time.Second), sql, nil)
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "slow query", logs.All()[1].Message)

	silent := l.LogMode(logger.Silent)
	silent.Trace(context.Background(), time.Now(), sql, errors.New("boom"))
	assert.Equal(t, 2, logs.Len())
}
