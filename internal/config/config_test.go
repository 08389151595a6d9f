package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/iburimskiy/survival-singularity/internal/config"
)

func TestDefaults(t *testing.T) {
	convey.Convey("Given the defaults", t, func() {
		cfg := config.New(context.Background())

		convey.So(cfg.Validate(), convey.ShouldBeNil)
		convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
		convey.So(cfg.PINAttempts, convey.ShouldEqual, 3)
		convey.So(cfg.SeedDefaults, convey.ShouldBeTrue)
		convey.So(cfg.WindowWidth, convey.ShouldEqual, config.WindowWidth)
	})
}

func TestValidate(t *testing.T) {
	convey.Convey("Given invalid settings", t, func() {
		ctx := context.Background()
		cases := map[string]func(*config.Config){
			"log level":    func(c *config.Config) { c.LogLevel = "loud" },
			"attempts":     func(c *config.Config) { c.PINAttempts = 0 },
			"long pin":     func(c *config.Config) { c.PIN = "123456789" },
			"spaced pin":   func(c *config.Config) { c.PIN = " 12" },
			"small window": func(c *config.Config) { c.WindowWidth = 100 },
		}
		for name, mutate := range cases {
			convey.Convey("Then a bad "+name+" is rejected", func() {
				cfg := config.New(ctx)
				mutate(cfg)
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given no file and no environment", t, func() {
		clearEnv(t)
		cfg, err := config.Load(ctx)

		convey.So(err, convey.ShouldBeNil)
		convey.So(cfg.PIN, convey.ShouldEqual, "4334")
		convey.So(cfg.AudioEnabled, convey.ShouldBeTrue)
	})

	convey.Convey("Given a YAML file", t, func() {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "singularity.yaml")
		body := "log_level: debug\npin: \"\"\naudio_enabled: false\nsoundtrack: /tmp/drone.flac\nwindow_width: 800\n"
		convey.So(os.WriteFile(path, []byte(body), 0o600), convey.ShouldBeNil)
		t.Setenv(config.EnvConfig, path)

		convey.Convey("When it is loaded alone", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it overrides the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.PIN, convey.ShouldBeEmpty)
				convey.So(cfg.AudioEnabled, convey.ShouldBeFalse)
				convey.So(cfg.Soundtrack, convey.ShouldEqual, "/tmp/drone.flac")
				convey.So(cfg.WindowWidth, convey.ShouldEqual, 800)
				convey.So(cfg.WindowHeight, convey.ShouldEqual, config.WindowHeight)
			})
		})

		convey.Convey("When the environment also sets values", func() {
			t.Setenv("SINGULARITY_LOG_LEVEL", "warn")
			t.Setenv("SINGULARITY_PIN_ATTEMPTS", "5")
			t.Setenv("SINGULARITY_METRICS_ADDR", ":9090")
			cfg, err := config.Load(ctx)

			convey.Convey("Then the environment wins", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "warn")
				convey.So(cfg.PINAttempts, convey.ShouldEqual, 5)
				convey.So(cfg.MetricsAddr, convey.ShouldEqual, ":9090")
				convey.So(cfg.WindowWidth, convey.ShouldEqual, 800)
			})
		})
	})

	convey.Convey("Given a missing config file", t, func() {
		clearEnv(t)
		t.Setenv(config.EnvConfig, filepath.Join(t.TempDir(), "nope.yaml"))
		_, err := config.Load(ctx)
		convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
	})

	convey.Convey("Given an invalid value from the environment", t, func() {
		clearEnv(t)
		t.Setenv("SINGULARITY_PIN_ATTEMPTS", "0")
		_, err := config.Load(ctx)
		convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
	})
}

// clearEnv unsets every SINGULARITY_ variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		config.EnvConfig,
		"SINGULARITY_LOG_LEVEL", "SINGULARITY_DATA_PATH", "SINGULARITY_PIN",
		"SINGULARITY_PIN_ATTEMPTS", "SINGULARITY_AUDIO_ENABLED", "SINGULARITY_SOUNDTRACK",
		"SINGULARITY_METRICS_ADDR", "SINGULARITY_WINDOW_WIDTH", "SINGULARITY_WINDOW_HEIGHT",
		"SINGULARITY_SEED_DEFAULTS",
	} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
}
