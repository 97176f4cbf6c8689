package main

import (
	"fmt"
	"os"

	"annual-leave/internal/config"
	"annual-leave/internal/handler"
	"annual-leave/internal/logger"
	"annual-leave/internal/repository"
	"annual-leave/internal/service"
	"annual-leave/pkg/holidays"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.GetConfig()

	log, err := logger.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		logrus.Fatal("Failed to create logger: ", err)
	}

	errLog, err := logger.OpenErrorLog(cfg.ErrorLog)
	if err != nil {
		log.WithError(err).Warn("Error log unavailable, unexpected errors will only be printed")
		errLog = logger.Discard()
	}
	defer errLog.Close()

	defaults := handler.RootOptions{
		DBPath:       cfg.DatabasePath,
		HolidaysPath: cfg.HolidaysPath,
	}
	root := handler.NewRootCommand(defaults, func(opts *handler.RootOptions) (*handler.Handler, func() error, error) {
		return build(opts, log, errLog)
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		errLog.Close()
		os.Exit(1)
	}
}

func build(opts *handler.RootOptions, log *logrus.Logger, errLog *logger.ErrorLog) (*handler.Handler, func() error, error) {
	db, err := repository.Open(opts.DBPath, log)
	if err != nil {
		errLog.WithError(err).WithField("path", opts.DBPath).Error("Failed to open database")
		return nil, nil, err
	}

	store, err := repository.NewStore(db, log)
	if err != nil {
		repository.Close(db)
		errLog.WithError(err).Error("Failed to prepare database")
		return nil, nil, err
	}
	log.WithField("path", opts.DBPath).Debug("Database opened")

	calendar, err := holidays.Load(opts.HolidaysPath)
	if err != nil {
		log.WithError(err).WithField("path", opts.HolidaysPath).Warn("Holiday calendar ignored")
		calendar = holidays.Calendar{}
	}

	accounting := service.NewAccountingService(store, service.WithLogger(log))
	reports := service.NewReportService(accounting, calendar)

	return handler.NewHandler(accounting, reports, calendar, errLog, log), store.Close, nil
}
