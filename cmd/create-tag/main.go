// Package main is the pipeline step that runs post-build actions of a job
// against the configured ref store.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"review-consensus-guard/config"
	"review-consensus-guard/internal/action"
	"review-consensus-guard/internal/buildspec"
	"review-consensus-guard/internal/entities"
	"review-consensus-guard/internal/gitref"
	"review-consensus-guard/internal/protection"
	"review-consensus-guard/pkg/logger"

	"go.uber.org/zap"
)

const (
	exitOK = iota
	exitFailure
	exitPolicyViolation
	exitConflict
)

// params collects repeated -param key=value flags.
type params map[string]string

func (p params) String() string {
	pairs := make([]string, 0, len(p))
	for k, v := range p {
		pairs = append(pairs, k+"="+v)
	}
	return strings.Join(pairs, ",")
}

func (p params) Set(raw string) error {
	k, v, ok := strings.Cut(raw, "=")
	if !ok || strings.TrimSpace(k) == "" {
		return fmt.Errorf("param %q must be key=value", raw)
	}
	p[strings.TrimSpace(k)] = v
	return nil
}

type options struct {
	build     entities.Build
	specFile  string
	rulesFile string
	tagName   string
	message   string
}

func parseFlags(args []string, getenv func(string) string, out io.Writer) (options, error) {
	fs := flag.NewFlagSet("create-tag", flag.ContinueOnError)
	fs.SetOutput(out)

	opts := options{build: entities.Build{Params: params{}}}
	number := fs.String("build", getenv("BUILD_NUMBER"), "build number")
	fs.StringVar(&opts.build.ProjectID, "project", getenv("BUILD_PROJECT_ID"), "project id")
	fs.StringVar(&opts.build.JobName, "job", getenv("BUILD_JOB"), "job name")
	fs.StringVar(&opts.build.Branch, "branch", getenv("BUILD_BRANCH"), "branch being built")
	fs.StringVar(&opts.build.CommitHash, "commit", getenv("BUILD_COMMIT"), "commit hash the build ran on")
	fs.StringVar(&opts.build.PullRequestID, "pull-request", getenv("BUILD_PULL_REQUEST"), "pull request id, if any")
	fs.Var(params(opts.build.Params), "param", "build parameter key=value (repeatable)")
	fs.StringVar(&opts.specFile, "spec", "", "build spec file; runs the post-build actions of -job")
	fs.StringVar(&opts.rulesFile, "rules", getenv("TAG_PROTECTION_FILE"), "tag protection rules file")
	fs.StringVar(&opts.tagName, "tag", "", "tag name for a single create_tag step")
	fs.StringVar(&opts.message, "message", "", "tag message for -tag")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if *number != "" {
		n, err := strconv.ParseInt(*number, 10, 64)
		if err != nil {
			return options{}, fmt.Errorf("build number %q: %w", *number, err)
		}
		opts.build.Number = n
	}
	if (opts.specFile == "") == (opts.tagName == "") {
		return options{}, errors.New("exactly one of -spec and -tag is required")
	}
	if opts.build.ProjectID == "" || opts.build.JobName == "" || opts.build.CommitHash == "" {
		return options{}, errors.New("-project, -job and -commit are required")
	}
	return opts, nil
}

func (o options) actions() ([]action.Action, error) {
	if o.tagName != "" {
		a := action.CreateTag{TagName: o.tagName, TagMessage: o.message}
		if err := a.Validate(); err != nil {
			return nil, err
		}
		return []action.Action{a}, nil
	}

	spec, err := buildspec.LoadFile(o.specFile)
	if err != nil {
		return nil, err
	}
	job, err := spec.Job(o.build.JobName)
	if err != nil {
		return nil, err
	}
	return job.Actions(), nil
}

func (o options) policy(fallback entities.CombineStrategy) (*protection.Policy, error) {
	if o.rulesFile == "" {
		return protection.New(fallback, nil)
	}
	rs, err := protection.LoadRulesFile(o.rulesFile)
	if err != nil {
		return nil, err
	}
	return rs.Policy(fallback)
}

func run(ctx context.Context, log *zap.SugaredLogger, opts options, refs gitref.RefStore, tagger entities.PersonIdent, combine entities.CombineStrategy, mutationTimeout time.Duration) ([]entities.ActionResult, error) {
	actions, err := opts.actions()
	if err != nil {
		return nil, err
	}
	policy, err := opts.policy(combine)
	if err != nil {
		return nil, err
	}

	return action.Run(ctx, opts.build, actions, action.Deps{
		Refs:   refs,
		Policy: policy,
		Tagger: tagger,
		Log:    log.Named("action"),

		MutationTimeout: mutationTimeout,
	})
}

func exitCode(err error) int {
	var violation *entities.PolicyViolation
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &violation):
		return exitPolicyViolation
	case errors.Is(err, entities.ErrConflict):
		return exitConflict
	default:
		return exitFailure
	}
}

func main() {
	os.Exit(realMain())
}

func realMain() int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts, err := parseFlags(os.Args[1:], os.Getenv, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(os.Stderr, err)
		return exitFailure
	}

	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFailure
	}

	log, err := logger.New(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitFailure
	}
	defer func() {
		_ = log.Sync()
	}()

	refs, err := gitref.New(cfg.Refs.Backend, log, cfg)
	if err != nil {
		log.Errorw("ref store initialization error", "error", err, "backend", cfg.Refs.Backend)
		return exitFailure
	}

	results, err := run(ctx, log, opts, refs,
		entities.PersonIdent{Name: cfg.System.Name, Email: cfg.System.Email},
		entities.CombineStrategy(cfg.Protection.Combine), cfg.RefsTimeout())
	for _, r := range results {
		log.Infow("post-build action", "action", r.Action, "ref", r.Ref, "outcome", r.Outcome)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCode(err)
	}
	return exitOK
}
