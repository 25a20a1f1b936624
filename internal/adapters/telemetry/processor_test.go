package telemetry_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/rpmd/internal/adapters/telemetry"
	"go.trai.ch/rpmd/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestLogProcessor_LogsFinishedSpans(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)

	var lines []string
	logger.EXPECT().Debug(gomock.Any()).Do(func(msg string) { lines = append(lines, msg) }).Times(2)

	provider := telemetry.NewSDKProvider(telemetry.NewLogProcessor(logger))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	tracer := telemetry.NewProviderTracer(provider, "test")

	_, ok := tracer.Start(context.Background(), "repo.load")
	ok.End()
	_, failed := tracer.Start(context.Background(), "goal.resolve")
	failed.RecordError(errors.New("nothing provides libfoo"))
	failed.End()

	assert.True(t, strings.HasPrefix(lines[0], "span repo.load took "))
	assert.True(t, strings.HasPrefix(lines[1], "span goal.resolve took "))
	assert.True(t, strings.HasSuffix(lines[1], ": nothing provides libfoo"))
}
