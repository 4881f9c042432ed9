// Command assignmentctl runs the legacy assignment id migration against the
// configured record store: plan, apply, then cleanup as separate steps.
package main

import (
	"context"
	"os"

	"cleaningmanager/config"
	"cleaningmanager/database"
	"cleaningmanager/database/repository"
	"cleaningmanager/services/assignment"
	"cleaningmanager/utils"

	firebase "firebase.google.com/go/v4"
)

func main() {
	if err := newRootCmd(openService).Execute(); err != nil {
		os.Exit(1)
	}
}

// openService connects to the store named by the loaded configuration.
func openService(ctx context.Context) (assignment.AssignmentService, func(), error) {
	config.LoadConfig()
	logger := utils.GetLogger()

	var app *firebase.App
	if config.AppConfig.StoreBackend == "" || config.AppConfig.StoreBackend == "firestore" {
		app = utils.GetFirebaseApp()
	}
	s, closeStore, err := database.Open(ctx, config.AppConfig, app, logger)
	if err != nil {
		return nil, nil, err
	}
	repos := repository.NewSet(s)
	svc := assignment.NewDefaultAssignmentService(repos.Assignments, nil, logger.Named("migration"))
	return svc, func() {
		closeStore()
		_ = logger.Sync()
	}, nil
}
