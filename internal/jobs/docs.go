// Package jobs provides scheduled background tasks for the marketplace.
//
// Jobs are scheduled with github.com/robfig/cron/v3 using six-field
// expressions (seconds first).
//
// # Available Jobs
//
// NotificationRelayJob runs every five seconds by default and republishes
// customer notifications that were stored but never reached the broker.
//
// # Usage
//
//	relayJob := jobs.NewNotificationRelayJob(dispatcher, "", 0, logger)
//	jobManager := jobs.NewJobManager(logger, relayJob)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Job runs never return errors. Failures are logged and the next tick tries
// again; an invalid schedule fails StartAll.
package jobs
