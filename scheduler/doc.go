// Package scheduler provides a QoS-prioritized implementation of
// future.Scheduler: a fixed-size worker pool that drains five priority
// lanes (mirroring future.Background..future.UserInteractive), always
// preferring ready work from a higher lane over a lower one.
//
// It is the concrete scheduler the future package's process default
// leaves as an exercise to the caller: construct one with New, install
// it with future.SetDefaultScheduler, or pass it explicitly wherever a
// future.Scheduler is accepted.
package scheduler
