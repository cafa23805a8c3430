package costing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"furnicost/pkg/logger"
)

func TestLogObserver(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := (&logger.Logger{SugaredLogger: zap.New(core).Sugar()}).WithComponent("costing")

	NewEngine(WithObserver(LogObserver(log))).CalculateProductCost(markupInput())

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "cost calculated", entry.Message)

	components := 0
	for _, f := range entry.Context {
		if f.Key == "component" {
			components++
		}
	}
	assert.Equal(t, 1, components)

	fields := entry.ContextMap()
	assert.Equal(t, "Cabinet", fields["product"])
	assert.Equal(t, "2436", fields["final_price"])
	assert.Equal(t, false, fields["has_errors"])
}

func TestObserverFunc(t *testing.T) {
	var got Result
	NewEngine(WithObserver(ObserverFunc(func(_ Product, r Result) { got = r }))).CalculateProductCost(markupInput())

	assertDecimal(t, "1624", got.TotalCost)
}
