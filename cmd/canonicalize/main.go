package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"

	"github.com/davecgh/go-spew/spew"
	"github.com/logrusorgru/aurora/v3"
	hlog "github.com/mt-inside/http-log/pkg/output"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	tlog "github.com/tetratelabs/log"
	"github.com/tetratelabs/telemetry"

	"github.com/mt-inside/url-canonicalize/pkg/batch"
	"github.com/mt-inside/url-canonicalize/pkg/output"
	"github.com/mt-inside/url-canonicalize/pkg/parser"
	"github.com/mt-inside/url-canonicalize/pkg/policy"
	"github.com/mt-inside/url-canonicalize/pkg/probes"
	"github.com/mt-inside/url-canonicalize/pkg/resolver"
	"github.com/mt-inside/url-canonicalize/pkg/state"
	"github.com/mt-inside/url-canonicalize/pkg/utils"
)

func init() {
	spew.Config.DisableMethods = true
	spew.Config.DisablePointerMethods = true
}

func main() {

	cmd := &cobra.Command{
		Use:   "canonicalize [flags] url...",
		Short: "Find the canonical URL of web resources",
		Long: "Fetches each URL (HEAD first, GET if that's inconclusive) and reports the canonical URL declared in its Link header or HTML head,\n" +
			"or where it permanently redirects to. Temporary redirects and failures are reported as unresolved.",
		SilenceUsage: true,
		RunE:         appMain,
	}

	cmd.Flags().StringP("method", "m", "head", "Initial probe method: head or get")
	cmd.Flags().DurationP("timeout", "t", state.DefaultTimeout, "Timeout for each request")
	cmd.Flags().Int64("max-body", state.DefaultMaxBody, "Max response body bytes to read when looking for HTML canonical links")
	cmd.Flags().StringSlice("force-full-host", nil, "Regexp of hosts to always GET (repeatable; linkedin and crunchbase are built in)")
	cmd.Flags().IntSlice("temporary-status", nil, "Extra 3xx status to treat as a temporary redirect (repeatable; 302 and 307 are built in)")
	cmd.Flags().Bool("http-3", false, "Use HTTP/3 (QUIC) only; https URLs only")
	cmd.Flags().IntP("concurrency", "j", state.DefaultConcurrency, "Number of URLs to resolve at once")
	cmd.Flags().Float64P("rate", "r", 0, "Max requests per second to any one host (0 is unlimited)")
	cmd.Flags().StringP("input", "i", "", "File of URLs, one per line (- for stdin)")
	cmd.Flags().StringP("output", "o", "text", "Output format: text, json or yaml")
	cmd.Flags().BoolP("diff", "d", false, "Show the difference between each input and its result (text output)")
	cmd.Flags().Bool("dump", false, "Dump each result structure (text output)")
	cmd.Flags().Bool("no-colour", false, "Don't colour text output")
	cmd.Flags().BoolP("verbose", "v", false, "Log the resolution steps")
	cmd.Flags().StringP("config", "c", "", "YAML config file; keys as flags, plus hosts.force-full and statuses.temporary")
	err := viper.BindPFlags(cmd.Flags())
	if err != nil {
		panic(errors.New("Can't set up flags"))
	}

	err = cmd.Execute()
	if err != nil {
		s := hlog.NewTtyStyler(aurora.NewAurora(true))
		fmt.Fprintln(os.Stderr, s.Fail("Error during execution:"), err)
		os.Exit(1)
	}
}

func appMain(cmd *cobra.Command, args []string) error {

	if path := viper.GetString("config"); path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("can't read config %s: %w", path, err)
		}
	}

	config, err := state.ConfigFromViper()
	if err != nil {
		return err
	}

	log := tlog.NewFlattened()
	if config.Verbose {
		log.SetLevel(telemetry.LevelDebug)
	} else {
		log.SetLevel(telemetry.LevelError)
	}
	parser.SetLogger(log)

	/* Targets */

	raws := append([]string{}, args...)
	if in := viper.GetString("input"); in != "" {
		more, err := readInput(cmd.InOrStdin(), in)
		if err != nil {
			return err
		}
		raws = append(raws, more...)
	}
	if len(raws) == 0 {
		return errors.New("no URLs given")
	}

	var targets []*url.URL
	for _, raw := range raws {
		t, err := utils.ParseTarget(raw)
		if err != nil {
			return err
		}
		targets = append(targets, t)
	}

	/* Policy */

	hosts, err := policy.ForceFullPolicy(config.ForceFullHosts...)
	if err != nil {
		return err
	}
	statuses, err := policy.NewStatusPolicy(config.TemporaryStatuses...)
	if err != nil {
		return err
	}

	/* Wiring */

	var transport probes.Transport
	if config.HttpForce3 {
		transport = probes.NewHTTP3Transport(log, config.Timeout, config.MaxBody)
	} else {
		transport = probes.NewHTTPTransport(log, config.Timeout, config.MaxBody)
	}
	transport = probes.NewHostRateLimiter(transport, config.Rate)

	res := resolver.New(
		transport,
		resolver.WithHostPolicy(hosts),
		resolver.WithStatusPolicy(statuses),
		resolver.WithLogger(log),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	records := batch.NewRunner(log, res, config.Method, config.Concurrency).Run(ctx, targets)

	p := output.NewPrinter(cmd.OutOrStdout(), !viper.GetBool("no-colour"), config.Output, config.Diff, config.Dump)
	return p.Print(records)
}

func readInput(stdin io.Reader, path string) ([]string, error) {
	if path == "-" {
		return utils.ReadTargets(stdin)
	}

	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	return utils.ReadTargets(fd)
}
