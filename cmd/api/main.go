package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"storecredit/application"
	"storecredit/config"
	"storecredit/event"
	"storecredit/handler"
	"storecredit/repository"
	"storecredit/service"
	"storecredit/util/logger"
	"storecredit/util/storage/sqldb"
	"storecredit/util/storage/sqldb/transactor"
	"storecredit/util/translator"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/text/language"
)

func main() {
	closeLog, err := logger.Init()
	if err != nil {
		panic(err.Error())
	}
	defer closeLog()

	config, err := config.Load()
	if err != nil {
		panic(err.Error())
	}

	dbCtx, closeDB, err := sqldb.NewDBContext(config.DSN)
	if err != nil {
		panic(err.Error())
	}
	defer func() { // ใช้ท่า IIFE เพราะต้องการแสดง error ถ้าปิดไม่ได้
		if err := closeDB(); err != nil {
			logger.Log.Error(fmt.Sprintf("Error closing database: %v", err))
		}
	}()

	trx, dbtxCtx := transactor.New(dbCtx.DB())

	accountRepo := repository.NewCreditAccountRepository(dbtxCtx)
	historyRepo := repository.NewCreditHistoryRepository(dbtxCtx)
	expirationRepo := repository.NewCreditExpirationRepository(dbtxCtx)

	trans := translator.New(language.English)
	dispatcher := event.NewDispatcher()

	creditSvc := service.NewCreditService(
		trx,
		accountRepo,
		historyRepo,
		expirationRepo,
		dispatcher,
		trans,
		service.CreditConfig{
			ExpirationEnabled: config.CreditExpirationEnabled,
			ExpirationDelay:   config.CreditExpirationDelay,
		},
		service.NewMetrics(prometheus.DefaultRegisterer),
	)

	// ผูกกฎทั้งหมดเข้ากับ dispatcher ตามตาราง priority
	event.RegisterAll(dispatcher, creditSvc.Subscriptions())

	app := application.New(*config)
	app.RegisterModules(
		handler.NewCreditHandler(dispatcher, accountRepo, historyRepo, trans),
		handler.NewCheckoutHandler(dispatcher, accountRepo),
	)

	app.Run()

	// รอสัญญาณการปิด
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Log.Info("Shutting down...")

	app.Shutdown()

	logger.Log.Info("Shutdown complete.")
}
