package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/agegrade/internal/gradecli"
	"github.com/okian/agegrade/pkg/logger"
)

func main() {
	var (
		edition     = flag.String("edition", "", "Standards edition (default: manifest default)")
		sex         = flag.String("sex", "", "Runner sex: m, male, f or female")
		age         = flag.Int("age", 0, "Runner age")
		event       = flag.String("event", "", "Event name, e.g. \"10 km\"")
		finish      = flag.String("time", "", "Finish time, mm:ss or h:mm:ss")
		targets     = flag.String("targets", "", "Comma-separated projection targets")
		customSex   = flag.String("custom-sex", "", "Sex for the custom target")
		customAge   = flag.Int("custom-age", 0, "Age for the custom target")
		ages        = flag.String("ages", "", "Comma-separated ages for the age_table target")
		dataDir     = flag.String("data-dir", "", "Read standards from a directory")
		dataURL     = flag.String("data-url", "", "Read standards from a base URL")
		locale      = flag.String("locale", "", "Locale used to format percentages")
		asJSON      = flag.Bool("json", false, "Print JSON instead of text")
		interactive = flag.Bool("interactive", false, "Read \"sex age event time\" lines from stdin")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		gradecli.ShowHelp(os.Stdout)
		return
	}

	// Diagnostics go to stderr so stdout stays parseable.
	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		os.Stderr.WriteString("failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	_ = logger.SetLevelString("warn")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := gradecli.Options{
		Edition:     *edition,
		Sex:         *sex,
		Age:         *age,
		Event:       *event,
		Time:        *finish,
		Targets:     *targets,
		CustomSex:   *customSex,
		CustomAge:   *customAge,
		Ages:        *ages,
		DataDir:     *dataDir,
		DataURL:     *dataURL,
		Locale:      *locale,
		JSON:        *asJSON,
		Interactive: *interactive,
	}

	if err := gradecli.Run(ctx, opts, os.Stdin, os.Stdout); err != nil {
		os.Stderr.WriteString("agegrade: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
