// Package ports defines the interfaces that connect the transfer logic to
// infrastructure adapters.
//
// # Port Interfaces
//
//   - [Channel]: an open serial handle (write, drain, modem lines, buffers)
//   - [Opener]: opens a Channel for a [Target]
//   - [PayloadWriter]: stores a packed payload instead of sending it
//
// The transfer session depends only on these interfaces, so it can be tested
// with in-memory fakes; internal/adapters provides the go.bug.st/serial and
// file system implementations.
package ports
