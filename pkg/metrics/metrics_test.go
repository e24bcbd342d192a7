package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/decker502/musicalchairs/pkg/systems"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

var _ systems.RoundRecorder = (*Manager)(nil)

// scrape returns the exposition text served by the manager.
func scrape(m *Manager) (int, string) {
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return rec.Code, rec.Body.String()
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			manager := NewManager()

			Convey("Then it should own a registry", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Registry(), ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("arena"),
				WithHistogramBuckets([]float64{1, 2, 3}),
				WithPrometheusRegistry(registry),
			)
			manager.RoundStarted(1)
			manager.RoundResolved(0, 1, 2.5)

			Convey("Then metrics should use the custom names, buckets and registry", func() {
				So(manager.Registry(), ShouldEqual, registry)
				_, body := scrape(manager)
				So(body, ShouldContainSubstring, "test_arena_rounds_started_total 1")
				So(body, ShouldContainSubstring, `test_arena_round_duration_seconds_bucket{le="3"} 1`)
			})
		})

		Convey("When creating two managers", func() {
			Convey("Then they should not conflict", func() {
				So(func() {
					NewManager()
					NewManager()
				}, ShouldNotPanic)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a metrics manager", t, func() {
		manager := NewManager()

		Convey("When a game is played", func() {
			manager.RoundStarted(1)
			manager.MusicStopped("deadline", 12.5)
			manager.SlotCaptured("Girl")
			manager.SlotCaptured("Boy")
			manager.SlotCaptured("Girl")
			manager.RoundResolved(1, 2, 17.0)

			manager.RoundStarted(2)
			manager.MusicStopped("natural", 20)
			manager.RoundResolved(1, 3, 25.0)
			manager.GameOver("Girl", 2)

			code, body := scrape(manager)

			Convey("Then the endpoint should respond", func() {
				So(code, ShouldEqual, http.StatusOK)
			})

			Convey("And counters should reflect each event", func() {
				So(body, ShouldContainSubstring, "chairs_match_rounds_started_total 2")
				So(body, ShouldContainSubstring, `chairs_match_music_stops_total{source="deadline"} 1`)
				So(body, ShouldContainSubstring, `chairs_match_music_stops_total{source="natural"} 1`)
				So(body, ShouldContainSubstring, `chairs_match_slot_captures_total{occupant="Girl"} 2`)
				So(body, ShouldContainSubstring, `chairs_match_slot_captures_total{occupant="Boy"} 1`)
				So(body, ShouldContainSubstring, `chairs_match_games_finished_total{winner="Girl"} 1`)
			})

			Convey("And gauges should hold the last scores", func() {
				So(body, ShouldContainSubstring, `chairs_match_score{actor="Boy"} 1`)
				So(body, ShouldContainSubstring, `chairs_match_score{actor="Girl"} 3`)
			})

			Convey("And histograms should have observations", func() {
				So(body, ShouldContainSubstring, "chairs_match_round_duration_seconds_count 2")
				So(body, ShouldContainSubstring, "chairs_match_rounds_per_game_count 1")
			})
		})
	})
}

func TestMetricsServer(t *testing.T) {
	Convey("Given a metrics server", t, func() {
		manager := NewManager()
		manager.RoundStarted(1)
		srv := NewServer(":0", manager)

		Convey("When scraping /metrics", func() {
			rec := httptest.NewRecorder()
			srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			Convey("Then it should expose the match metrics", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, "chairs_match_rounds_started_total 1")
			})
		})

		Convey("When probing /healthz", func() {
			rec := httptest.NewRecorder()
			srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			Convey("Then it should answer ok", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldEqual, "ok")
			})
		})

		Convey("When serving on a free port and cancelling", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() { done <- Serve(ctx, "127.0.0.1:0", manager) }()
			cancel()

			Convey("Then Serve should return without error", func() {
				So(<-done, ShouldBeNil)
			})
		})
	})
}
