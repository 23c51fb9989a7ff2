// Package runplan models a fully-specified request to build and benchmark
// one configuration: a benchmark, the toolchain that builds it, the
// runner machine identity, and the isolation shield it executes under.
//
// Run plans are immutable value descriptions. The external work they
// describe — installing a toolchain, building the benchmark binary,
// executing the benchmark — is carried out by Executor through safe
// command execution with timeouts and output caps.
package runplan
