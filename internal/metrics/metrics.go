// Package metrics holds the Prometheus collectors shared by every motorsim binary.
package metrics

const Namespace = "motorsim"
