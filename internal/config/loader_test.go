package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/agegrade/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

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
				convey.So(cfg.DataSource, convey.ShouldEqual, "embedded")
				convey.So(cfg.LoadTimeoutMS, convey.ShouldEqual, 10_000)
				convey.So(cfg.DefaultAgeTable, convey.ShouldResemble, []int{20, 30, 40, 50, 60, 70, 80})
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("AGEGRADE_ADDR", ":8080")
			_ = os.Setenv("AGEGRADE_LOAD_TIMEOUT_MS", "2500")
			_ = os.Setenv("AGEGRADE_MIN_AGE", "8")
			_ = os.Setenv("AGEGRADE_MAX_AGE", "100")
			_ = os.Setenv("AGEGRADE_DEFAULT_EVENT", "10 km")
			_ = os.Setenv("AGEGRADE_LOCALE", "de")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.LoadTimeoutMS, convey.ShouldEqual, 2500)
				convey.So(cfg.MinAge, convey.ShouldEqual, 8)
				convey.So(cfg.MaxAge, convey.ShouldEqual, 100)
				convey.So(cfg.DefaultEvent, convey.ShouldEqual, "10 km")
				convey.So(cfg.Locale, convey.ShouldEqual, "de")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
data_source: dir
data_dir: /srv/standards
min_age: 10
max_age: 95
default_age_table: [35, 45, 55]
debounce_ms: 100
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("AGEGRADE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.DataSource, convey.ShouldEqual, config.SourceDir)
				convey.So(cfg.DataDir, convey.ShouldEqual, "/srv/standards")
				convey.So(cfg.MinAge, convey.ShouldEqual, 10)
				convey.So(cfg.MaxAge, convey.ShouldEqual, 95)
				convey.So(cfg.DefaultAgeTable, convey.ShouldResemble, []int{35, 45, 55})
				convey.So(cfg.DebounceMS, convey.ShouldEqual, 100)
				convey.So(cfg.DefaultEvent, convey.ShouldEqual, "5 km") // From defaults
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
max_age: 95
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("AGEGRADE_CONFIG", tmpFile)
			_ = os.Setenv("AGEGRADE_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080") // Overridden by env
				convey.So(cfg.MaxAge, convey.ShouldEqual, 95)     // From file
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("AGEGRADE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("AGEGRADE_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("AGEGRADE_MIN_AGE", "young")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an inconsistent age range", func() {
			_ = os.Setenv("AGEGRADE_MIN_AGE", "50")
			_ = os.Setenv("AGEGRADE_MAX_AGE", "40")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "max_age")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When selecting the http source without a url", func() {
			_ = os.Setenv("AGEGRADE_DATA_SOURCE", "http")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "data_url")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"AGEGRADE_CONFIG",
		"AGEGRADE_ADDR",
		"AGEGRADE_LOAD_TIMEOUT_MS",
		"AGEGRADE_MIN_AGE",
		"AGEGRADE_MAX_AGE",
		"AGEGRADE_DEFAULT_EVENT",
		"AGEGRADE_LOCALE",
		"AGEGRADE_DATA_SOURCE",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "agegrade-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
