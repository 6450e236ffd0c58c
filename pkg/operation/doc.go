/*
Package operation runs backups, once or on a schedule.

	+-----------+      +-----------------+      +---------------+
	| Scheduler | ---> | BackupOperation | ---> | backup.Runner |
	+-----------+      +-----------------+      +---------------+
	                            |
	                            v
	                      +-------------+
	                      | notify.Sink |
	                      +-------------+

🎯 Purpose:
  - BackupOperation performs one complete backup: it copies the source tree,
    optionally sends a summary notification and prints the completion line
  - Scheduler repeats an Operation with a fixed wait between runs

🔄 Flow:
 1. Scheduler executes the operation
 2. The operation runs backup.Runner against the configured roots
 3. When notifications are enabled the message template is rendered and sent
 4. Scheduler waits Interval, measured from the end of the run, and repeats

⚠️ Failure handling:
  - A failed copy or walk fails the run and stops the scheduler
  - A failed notification is printed as a warning and the run still succeeds
  - Cancelling the context stops the scheduler between runs

🔍 Example:

	cfg, err := config.Load(ctx, "config.yaml")
	if err != nil {
		return err
	}
	op, err := operation.NewBackupOperation(operation.Options{Config: cfg})
	if err != nil {
		return err
	}
	sched := operation.NewScheduler(op, operation.ScheduleOptions{
		Interval: operation.IntervalFromMinutes(cfg.Minutes()),
	})
	return sched.Run(ctx)
*/
package operation
