// Package suite loads a YAML suite definition and expands it into the
// batches of run plans the collector executes. A suite is the cross
// product of its toolchains and benchmarks, with argv templates
// expanded per plan and duplicates removed.
package suite
