package solver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	expansionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wordle_search_expansions_total",
		Help: "Internal search nodes expanded.",
	})
	memoHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wordle_memo_hits_total",
		Help: "Search nodes answered from the in-process memo.",
	})
	fallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wordle_fallback_total",
		Help: "Nodes answered with the entropy estimate at the depth limit.",
	})
	storeLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wordle_store_lookups_total",
		Help: "Persistent store lookups by result.",
	}, []string{"result"})
	storeWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wordle_store_writes_total",
		Help: "Persistent store writes by result.",
	}, []string{"result"})
)
