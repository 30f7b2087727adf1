// Package dca simulates recurring investments (dollar-cost averaging) and
// lump-sum investments against historical price series, and compares the
// relative performance of two instruments.
//
// The core functionalities include:
//   - Simulation: [Simulate] replays a chronological series of closing prices
//     and dividends, and reports per period the value of three policies:
//     recurring investment with dividends taken as cash, recurring investment
//     with dividends reinvested, and a single lump sum with dividends
//     reinvested.
//   - Alignment: [Align] joins two price series on their common dates,
//     normalizes each one to its first common price and computes their
//     correlation.
//   - Ticker resolution: [Market] turns a user symbol into a fully qualified
//     ticker.
//
// Computations are pure functions of their input: exact decimal arithmetic,
// no shared state, rounding only applied to reported values.
//
// Market data retrieval (package store), transport (package api) and
// presentation (packages renderer and cmd) are layered on top.
package dca
