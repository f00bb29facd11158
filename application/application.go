package application

import (
	"fmt"

	"storecredit/config"
	"storecredit/util/logger"
	"storecredit/util/module"
)

var (
	Version = "local-dev"
	Time    = "n/a"
)

type Application struct {
	config     config.Config
	httpServer HTTPServer
}

func New(config config.Config) *Application {
	return &Application{
		config:     config,
		httpServer: newHTTPServer(config),
	}
}

// RegisterModules ลงทะเบียน route ของแต่ละ module ใต้ /api/<version>
func (app *Application) RegisterModules(modules ...module.Module) {
	for _, m := range modules {
		router := app.httpServer.Group("/api/" + m.APIVersion())
		m.RegisterRoutes(router)
	}
}

func (app *Application) Run() error {
	app.httpServer.Start()

	return nil
}

func (app *Application) Shutdown() error {
	// Gracefully close fiber server
	logger.Log.Info("Shutting down server")
	if err := app.httpServer.Shutdown(); err != nil {
		logger.Log.Fatal(fmt.Sprintf("Error shutting down server: %v", err))
	}
	logger.Log.Info("Server stopped")

	return nil
}
