package gradecli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/okian/agegrade/internal/adapters/mq/debounce"
	app "github.com/okian/agegrade/internal/app"
	"github.com/okian/agegrade/internal/config"
	"github.com/okian/agegrade/internal/domain/types"
	"github.com/okian/agegrade/pkg/logger"
)

// Run executes one invocation. Configuration comes from config.Load and is
// then overridden by opts.
func Run(ctx context.Context, opts Options, in io.Reader, out io.Writer) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	applyOptions(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return err
	}

	svc, _, err := app.NewFromConfig(cfg, app.WithLogger(logger.Named("cli")))
	if err != nil {
		return err
	}

	base, err := baseQuery(opts)
	if err != nil {
		return err
	}

	if opts.Interactive {
		return interactive(ctx, svc, cfg, base, opts.JSON, in, out)
	}
	return Render(out, svc.Compute(ctx, base), opts.JSON)
}

func applyOptions(cfg *config.Config, opts Options) {
	switch {
	case opts.DataURL != "":
		cfg.DataSource = config.SourceHTTP
		cfg.DataURL = opts.DataURL
	case opts.DataDir != "":
		cfg.DataSource = config.SourceDir
		cfg.DataDir = opts.DataDir
	}
	if opts.Locale != "" {
		cfg.Locale = opts.Locale
	}
}

func baseQuery(opts Options) (types.Query, error) {
	ages, err := parseAges(opts.Ages)
	if err != nil {
		return types.Query{}, err
	}
	return types.Query{
		Edition:   opts.Edition,
		Sex:       opts.Sex,
		Age:       opts.Age,
		Event:     opts.Event,
		Time:      opts.Time,
		Targets:   splitList(opts.Targets),
		CustomSex: opts.CustomSex,
		CustomAge: opts.CustomAge,
		Ages:      ages,
	}, nil
}

// interactive reads one query per line and prints the latest result of each
// burst. Lines only replace sex, age, event and time; the other fields come
// from the flags.
func interactive(ctx context.Context, svc *app.Service, cfg *config.Config, base types.Query, asJSON bool, in io.Reader, out io.Writer) error {
	var (
		mu       sync.Mutex
		writeErr error
	)
	deliver := func(_ types.Query, res types.Result) {
		mu.Lock()
		defer mu.Unlock()
		if err := Render(out, res, asJSON); err != nil && writeErr == nil {
			writeErr = err
		}
	}

	d := debounce.New(svc.Compute, deliver,
		debounce.WithDelay(cfg.Debounce()),
		debounce.WithName("cli"),
	)
	defer d.Stop()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		q, err := ParseLine(line)
		if err != nil {
			mu.Lock()
			_, _ = fmt.Fprintf(out, "skipped %q: %v\n", line, err)
			mu.Unlock()
			continue
		}
		q.Edition = base.Edition
		q.Targets = base.Targets
		q.CustomSex = base.CustomSex
		q.CustomAge = base.CustomAge
		q.Ages = base.Ages
		if err := d.Submit(ctx, q); err != nil {
			return err
		}
	}

	if err := d.Close(ctx); err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	return errors.Join(scanner.Err(), writeErr)
}
