// Package cli implements the benchvault command line interface: run a
// suite against the result store, preview the remaining work, and
// inspect cached measurements.
package cli
