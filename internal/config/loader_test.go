package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/estimathon/internal/config"
	"github.com/okian/estimathon/internal/domain/contest"
	"github.com/smartystreets/goconvey/convey"
)

func clearConfigEnvVars() {
	_ = os.Unsetenv("ESTIMATHON_CONFIG")
	_ = os.Unsetenv("ESTIMATHON_ADDR")
	_ = os.Unsetenv("ESTIMATHON_LOG_LEVEL")
	_ = os.Unsetenv("ESTIMATHON_SNAPSHOT_QUEUE_SIZE")
	_ = os.Unsetenv("ESTIMATHON_SUBSCRIBER_SEND_BUFFER")
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
				convey.So(cfg.SnapshotQueueSize, convey.ShouldEqual, 1024)
				convey.So(cfg.SubscriberSendBuffer, convey.ShouldEqual, 64)
				convey.So(len(cfg.Problems), convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("ESTIMATHON_ADDR", ":8080")
			_ = os.Setenv("ESTIMATHON_LOG_LEVEL", "debug")
			_ = os.Setenv("ESTIMATHON_SNAPSHOT_QUEUE_SIZE", "256")
			_ = os.Setenv("ESTIMATHON_SUBSCRIBER_SEND_BUFFER", "8")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.SnapshotQueueSize, convey.ShouldEqual, 256)
				convey.So(cfg.SubscriberSendBuffer, convey.ShouldEqual, 8)
			})
		})

		convey.Convey("When loading config from a YAML file", func() {
			clearConfigEnvVars()
			path := filepath.Join(t.TempDir(), "config.yaml")
			yamlContent := "addr: \":7070\"\nlog_level: warn\n"
			convey.So(os.WriteFile(path, []byte(yamlContent), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("ESTIMATHON_CONFIG", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "warn")
			})
		})

		convey.Convey("When the problem catalog has the wrong size", func() {
			clearConfigEnvVars()
			path := filepath.Join(t.TempDir(), "config.yaml")
			yamlContent := "problems:\n  - id: 1\n    description: only one\n    answer: 42\n"
			convey.So(os.WriteFile(path, []byte(yamlContent), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("ESTIMATHON_CONFIG", path)
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then loading fails", func() {
				convey.So(err, convey.ShouldEqual, config.ErrBadCatalog)
			})
		})
	})
}

func TestConfigCatalog(t *testing.T) {
	convey.Convey("Given a config without problems", t, func() {
		cfg := config.New()

		convey.Convey("Then Catalog falls back to the built-in set", func() {
			convey.So(cfg.Catalog().Len(), convey.ShouldEqual, contest.TotalProblems)
		})
	})

	convey.Convey("Given a config with a full catalog", t, func() {
		cfg := config.New()
		for i := 1; i <= contest.TotalProblems; i++ {
			cfg.Problems = append(cfg.Problems, config.ProblemConfig{
				ID: i, Description: "custom", Answer: float64(i * 10),
			})
		}

		convey.Convey("Then Catalog serves the configured answers", func() {
			catalog := cfg.Catalog()
			convey.So(catalog.Len(), convey.ShouldEqual, contest.TotalProblems)
			p, ok := catalog.Lookup(3)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(p.Answer, convey.ShouldEqual, 30)
		})
	})
}
