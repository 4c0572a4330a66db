package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Decision/registration Prometheus metrics. Standalone package to avoid
// import cycles between services and HTTP packages.

var (
	DecisionOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "consentd_decision_outcomes_total",
		Help: "Resultados del engine de decisión, por outcome",
	}, []string{"outcome"})

	Registrations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "consentd_registrations_total",
		Help: "Registros de cuentas, por resultado",
	}, []string{"result"})

	AuthorizationsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "consentd_authorizations_created_total",
		Help: "Autorizaciones permanentes creadas",
	})
)

// Register registra las métricas en el registry dado (default si es nil).
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{DecisionOutcomes, Registrations, AuthorizationsCreated} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
