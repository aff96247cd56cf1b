// Package tracker computes positions, valuations and profit attribution for
// investment portfolios from an immutable trade log. It is designed to be
// local-first and auditable: every figure can be replayed from the trades and
// the frozen snapshot history.
//
// The core functionalities include:
//   - FIFO Accounting: replaying buys and sells through a first-in first-out
//     lot queue, spreading brokerage over units, to produce quantity, average
//     cost and realized profit per symbol.
//   - Price Oracle: serving live quotes from a short-lived cache over a
//     prioritized chain of providers, with synthetic pricing for cash rows
//     and expired option contracts.
//   - Daily Snapshots: freezing each day's valuations behind a write-once,
//     idempotent document-store boundary, including backdated days priced
//     from historical closes.
//   - Profit Attribution: diffing current valuations against snapshot
//     baselines on calendar-resolved reference days to explain day-to-date,
//     month-to-date and year-to-date profit.
//   - Task Scheduling: recording snapshot jobs that only run when explicitly
//     told to, keeping provider quota spending under operator control.
//
// This package serves as the foundational logic for the `ipt` command-line
// tool, ensuring that all operations are consistent and based on a single
// source of truth.
package tracker
