package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/astropaws/fulfillment/internal/app/api/server"
	"github.com/astropaws/fulfillment/internal/app/service/benefit"
	"github.com/astropaws/fulfillment/internal/app/service/content"
	"github.com/astropaws/fulfillment/internal/app/service/eventlog"
	"github.com/astropaws/fulfillment/internal/app/service/fulfillment"
	"github.com/astropaws/fulfillment/internal/app/service/gift"
	"github.com/astropaws/fulfillment/internal/app/service/notify"
	"github.com/astropaws/fulfillment/internal/app/service/support"
	"github.com/astropaws/fulfillment/internal/app/service/tier"
	"github.com/astropaws/fulfillment/internal/platform/db"
	"github.com/astropaws/fulfillment/pkg/config"
	"github.com/astropaws/fulfillment/pkg/logger"
	"github.com/astropaws/fulfillment/pkg/metrics"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	metrics.Module,
	server.Module,
	tier.Module,
	content.Module,
	notify.Module,
	eventlog.Module,
	benefit.Module,
	gift.Module,
	fulfillment.Module,
	support.Module,
)
