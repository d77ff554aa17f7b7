/*
Package observability exposes Prometheus metrics for experiment construction.

Metrics are fed by the builder hooks:

	m, err := observability.NewMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	exp, err := experiment.New(experiment.WithHooks(m.Hooks()))

Collected series:

  - qdsl_sections_opened_total{kind}
  - qdsl_sections_closed_total{kind}
  - qdsl_operations_total{kind}
  - qdsl_scope_depth (histogram of the stack depth at every open)
*/
package observability
