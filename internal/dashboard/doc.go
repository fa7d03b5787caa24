// Package dashboard runs the update lifecycle: it polls the metrics
// endpoint on a fixed cadence, feeds valid snapshots into the rolling
// window and the classifier, and pushes the results to a render sink.
//
// A Controller owns all of its state on one event-loop goroutine. Ticks,
// fetch completions, platform signals and API calls (Stop, Resume, Refresh)
// are all serialized through that loop, so nothing inside needs a lock.
// Fetches run on their own goroutines and report back through the loop;
// each is tagged with the lifecycle epoch it was started in, and a result
// that arrives after a Stop, Resume or Close is discarded.
//
// Lifecycle:
//
//	        Start / Resume / Visible / Online
//	Stopped ─────────────────────────────────▶ Running
//	   ▲                                          │
//	   └──────────── Stop / Hidden ───────────────┘
//
//	any state ── Close / Unload ──▶ Closed (terminal)
package dashboard
