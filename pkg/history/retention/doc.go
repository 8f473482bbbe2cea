// Package retention prunes the query history by age and by entry count.
//
//	pruner := retention.NewPruner(store, retention.FromConfig(cfg.History),
//		retention.WithMetrics(collector))
//	scheduler := retention.NewScheduler(pruner)
//	if err := scheduler.Start(ctx); err != nil {
//		return err
//	}
//
// The CLI also calls Pruner.Prune directly after recording, so a long
// running `serve` is not needed to keep the history bounded.
package retention
