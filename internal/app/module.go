package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/subtrackhq/subtrack/internal/app/api/server"
	"github.com/subtrackhq/subtrack/internal/app/service/approval"
	"github.com/subtrackhq/subtrack/internal/app/service/directory"
	"github.com/subtrackhq/subtrack/internal/app/service/document"
	"github.com/subtrackhq/subtrack/internal/app/service/notification"
	"github.com/subtrackhq/subtrack/internal/app/service/report"
	"github.com/subtrackhq/subtrack/internal/app/service/subscription"
	"github.com/subtrackhq/subtrack/internal/platform/db"
	"github.com/subtrackhq/subtrack/internal/platform/ocr"
	"github.com/subtrackhq/subtrack/pkg/config"
	"github.com/subtrackhq/subtrack/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	ocr.Module,
	server.Module,
	directory.Module,
	subscription.Module,
	approval.Module,
	notification.Module,
	document.Module,
	report.Module,
)
