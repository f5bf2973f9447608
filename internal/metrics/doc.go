// Package metrics records build observations.
//
// Components receive a Recorder and default to NoopRecorder, so no nil checks
// are needed at call sites. PrometheusRecorder backs the Recorder with a
// registry that can be written to a node_exporter textfile after a build:
//
//	reg := prom.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	// ... run the build with rec ...
//	err := metrics.WriteTextfile(reg, "/var/lib/node_exporter/sitegen.prom")
package metrics
