package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/decker502/musicalchairs/pkg/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestLaunchConfigLoader(t *testing.T) {
	convey.Convey("Given a launch config loader", t, func() {
		convey.Convey("When loading with defaults only", func() {
			clearLaunchEnvVars()

			cfg, err := config.LoadLaunchConfig()

			convey.Convey("Then the defaults are returned", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Verbose, convey.ShouldBeFalse)
				convey.So(cfg.WindowWidth, convey.ShouldEqual, config.GameWindowWidth)
				convey.So(cfg.HeadlessGames, convey.ShouldEqual, 10)
				convey.So(cfg.HeadlessTickRate, convey.ShouldEqual, 60)
				convey.So(cfg.SettingsAppName, convey.ShouldEqual, "musicalchairs")
			})
		})

		convey.Convey("When environment variables are set", func() {
			_ = os.Setenv("CHAIRS_VERBOSE", "true")
			_ = os.Setenv("CHAIRS_HEADLESS_GAMES", "3")
			_ = os.Setenv("CHAIRS_METRICS_ADDR", ":9100")
			_ = os.Setenv("CHAIRS_SEED", "42")
			defer clearLaunchEnvVars()

			cfg, err := config.LoadLaunchConfig()

			convey.Convey("Then they override the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Verbose, convey.ShouldBeTrue)
				convey.So(cfg.HeadlessGames, convey.ShouldEqual, 3)
				convey.So(cfg.MetricsAddr, convey.ShouldEqual, ":9100")
				convey.So(cfg.Seed, convey.ShouldEqual, 42)
			})
		})

		convey.Convey("When a YAML file is provided", func() {
			dir := t.TempDir()
			path := filepath.Join(dir, "launch.yaml")
			content := "tuning_path: custom.yaml\nheadless_tick_rate: 30\n"
			convey.So(os.WriteFile(path, []byte(content), 0o644), convey.ShouldBeNil)

			_ = os.Setenv("CHAIRS_CONFIG", path)
			_ = os.Setenv("CHAIRS_HEADLESS_TICK_RATE", "120")
			defer clearLaunchEnvVars()

			cfg, err := config.LoadLaunchConfig()

			convey.Convey("Then file values apply and env still wins", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.TuningPath, convey.ShouldEqual, "custom.yaml")
				convey.So(cfg.HeadlessTickRate, convey.ShouldEqual, 120)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("CHAIRS_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
			defer clearLaunchEnvVars()

			cfg, err := config.LoadLaunchConfig()

			convey.Convey("Then an error is returned", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When a value fails validation", func() {
			_ = os.Setenv("CHAIRS_HEADLESS_TICK_RATE", "0")
			defer clearLaunchEnvVars()

			_, err := config.LoadLaunchConfig()

			convey.Convey("Then ErrInvalidLaunch is reported", func() {
				convey.So(errors.Is(err, config.ErrInvalidLaunch), convey.ShouldBeTrue)
			})
		})
	})
}

func clearLaunchEnvVars() {
	for _, key := range []string{
		"CHAIRS_CONFIG",
		"CHAIRS_VERBOSE",
		"CHAIRS_HEADLESS_GAMES",
		"CHAIRS_HEADLESS_TICK_RATE",
		"CHAIRS_METRICS_ADDR",
		"CHAIRS_SEED",
	} {
		_ = os.Unsetenv(key)
	}
}
