package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-dfcomm/config"
	pkgif "github.com/dep2p/go-dfcomm/pkg/interfaces"
)

// ============================================================================
// Fx 模块测试
// ============================================================================

// TestModule_Defaults 测试无统一配置时的默认行为
func TestModule_Defaults(t *testing.T) {
	var (
		delivery pkgif.DeliveryReporter
		reporter *Reporter
	)
	app := fxtest.New(t,
		Module,
		fx.Populate(&delivery, &reporter),
	)
	defer app.RequireStart().RequireStop()

	require.NotNil(t, reporter)
	assert.Same(t, reporter, delivery)
}

// TestModule_Disabled 测试禁用时提供 Nop
func TestModule_Disabled(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Metrics.Enabled = false

	var (
		delivery pkgif.DeliveryReporter
		reporter *Reporter
	)
	app := fxtest.New(t,
		fx.Supply(cfg),
		Module,
		fx.Populate(&delivery, &reporter),
	)
	defer app.RequireStart().RequireStop()

	assert.Nil(t, reporter)
	assert.Equal(t, Nop(), delivery)
}

// TestModule_Registerer 测试注册到提供的 Registerer 并启动快照
func TestModule_Registerer(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Metrics.SnapshotInterval = config.Duration(time.Hour)
	reg := prometheus.NewRegistry()

	var collector *SnapshotCollector
	app := fxtest.New(t,
		fx.Supply(cfg),
		fx.Provide(func() prometheus.Registerer { return reg }),
		Module,
		fx.Populate(&collector),
	)
	app.RequireStart()
	require.NotNil(t, collector)
	app.RequireStop()

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotNil(t, families)
}

// TestModule_CollectorOnDemand 测试未配置周期时仍可按需采集快照
func TestModule_CollectorOnDemand(t *testing.T) {
	var (
		reporter  *Reporter
		collector *SnapshotCollector
	)
	app := fxtest.New(t,
		fx.Supply(config.NewConfig()),
		Module,
		fx.Populate(&reporter, &collector),
	)
	defer app.RequireStart().RequireStop()

	require.NotNil(t, collector)
	reporter.FrameDropped(testHeader(1, 8))
	s := collector.Collect()
	assert.Equal(t, uint64(1), s.Stats.FramesDropped)
	assert.Equal(t, uint64(1), s.FramesDroppedDelta)
}
