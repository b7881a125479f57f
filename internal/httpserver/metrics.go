package httpserver

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/robalobadob/bertle/internal/store"
)

type metrics struct {
	gamesStarted  *prometheus.CounterVec
	guesses       *prometheus.CounterVec
	gamesFinished *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer, st store.Store) *metrics {
	m := &metrics{
		gamesStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bertle",
			Name:      "games_started_total",
			Help:      "Games created, by target mode.",
		}, []string{"mode"}),
		guesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bertle",
			Name:      "guesses_total",
			Help:      "Submitted guesses, by result.",
		}, []string{"result"}),
		gamesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bertle",
			Name:      "games_finished_total",
			Help:      "Finished games, by outcome.",
		}, []string{"outcome"}),
	}
	active := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "bertle",
		Name:      "games_active",
		Help:      "Games currently held in memory.",
	}, func() float64 { return float64(st.Len()) })
	reg.MustRegister(m.gamesStarted, m.guesses, m.gamesFinished, active)
	return m
}
