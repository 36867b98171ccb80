// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source for the parts of
// Kestrel that wait on deadlines: command timeouts and the SIGTERM to
// SIGKILL grace period in lib/process.
//
// Production code uses [Real]. Tests use [Fake], which only advances
// when [FakeClock.Advance] is called. A goroutine that arms a timer on
// a FakeClock races with the test that advances it; call
// [FakeClock.WaitForTimers] first:
//
//	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	runner := process.NewRunner(process.RunnerOptions{Clock: fake})
//	go runner.Run(ctx, argv, process.Options{Wait: true, Timeout: time.Second})
//	fake.WaitForTimers(1)
//	fake.Advance(time.Second)
package clock
