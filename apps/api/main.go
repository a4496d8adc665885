package main

import (
	"context"
	"expvar"
	"fmt"
	"net/http"
	_ "net/http/pprof"

	echoapi "github.com/trezcool/classdrop/apps/api/echo"
	"github.com/trezcool/classdrop/core"
	"github.com/trezcool/classdrop/core/coursework"
	emailsvc "github.com/trezcool/classdrop/services/email"
	"github.com/trezcool/classdrop/services/identity"
	logsvc "github.com/trezcool/classdrop/services/logger"
	"github.com/trezcool/classdrop/storage/document/jsonfile"
	"github.com/trezcool/classdrop/storage/upload/disk"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(logsvc.NewStdLogger("API : "), conf)
	logger.Enable(!conf.Debug && conf.RollbarToken != "")

	storeLogger := logsvc.NewRollbarLogger(logsvc.NewStdLogger("STORE : "), conf)

	// set up storage
	store := jsonfile.NewStore(conf.Storage.DocumentPath, storeLogger)
	placer, err := disk.NewPlacer(conf.Storage.UploadDir, conf.Storage.UploadURLPrefix)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up uploads: %v", err), err)
	}
	if _, err = store.Load(context.Background()); err != nil {
		logger.Fatal(fmt.Sprintf("preparing document %s: %v", store.Path(), err), err)
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug || conf.Mail.SendgridApiKey == "" {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	validate, translator := core.NewValidator()
	courseworkSvc := coursework.NewService(coursework.ServiceDeps{
		Store:       store,
		Placer:      placer,
		Identity:    identity.NewAnonymousProvider(),
		Validate:    validate,
		Translator:  translator,
		Logger:      logger,
		MailSvc:     mailSvc,
		NotifyEmail: conf.Mail.NotifyEmail,
	})

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	logger.Info(fmt.Sprintf("document: %s | uploads: %s -> %s", store.Path(), placer.Dir(), conf.Storage.UploadURLPrefix))
	defer logger.Info("Application stopped")

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugAddress, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:          conf,
		Logger:        logger,
		CourseworkSvc: courseworkSvc,
	})

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
