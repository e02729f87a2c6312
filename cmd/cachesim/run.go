package main

import (
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cachesim/datarecording"
	"github.com/sarchlab/cachesim/mem/hierarchy"
	"github.com/sarchlab/cachesim/mem/trace"
	"github.com/sarchlab/cachesim/monitoring"
	"github.com/sarchlab/cachesim/sim/hooking"
)

const (
	flagDB             = "db"
	flagRecordAccesses = "record-accesses"
	flagMonitor        = "monitor"
	flagMonitorPort    = "monitor-port"
	flagOpenBrowser    = "open-browser"
	flagLogAccesses    = "log-accesses"
	flagTraceCounts    = "trace-counts"
)

type runOptions struct {
	db             string
	recordAccesses bool
	monitor        bool
	monitorPort    int
	openBrowser    bool
	logAccesses    bool
	traceCounts    bool
	envFile        string
}

func newRunCmd() *cobra.Command {
	opts := &runOptions{}

	runCmd := &cobra.Command{
		Use:   "run [trace-file]",
		Short: "Replay a trace through the cache hierarchy.",
		Long: `Replay a trace through the cache hierarchy and print the ` +
			`configuration and statistics of every cache. The trace is read ` +
			`from standard input if no file is given or the file is "-". ` +
			`Each line holds an access kind (I, D, L or S) and a hex address.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadDotEnv(opts.envFile); err != nil {
				return err
			}

			config, err := resolveConfig(cmd.Flags())
			if err != nil {
				return err
			}

			tracePath := "-"
			if len(args) > 0 {
				tracePath = args[0]
			}

			return runTrace(cmd, config, tracePath, opts)
		},
	}

	flags := runCmd.Flags()
	addConfigFlags(flags)
	flags.StringVar(&opts.db, flagDB, "",
		"record the run into the given sqlite database")
	flags.BoolVar(&opts.recordAccesses, flagRecordAccesses, false,
		"with --db, also record every cache access")
	flags.BoolVar(&opts.monitor, flagMonitor, false,
		"serve the state of the hierarchy over HTTP while replaying")
	flags.IntVar(&opts.monitorPort, flagMonitorPort, 0,
		"port of the monitoring server; random if not set")
	flags.BoolVar(&opts.openBrowser, flagOpenBrowser, false,
		"with --monitor, open the statistics page in a browser")
	flags.BoolVar(&opts.logAccesses, flagLogAccesses, false,
		"print every cache access to standard error")
	flags.BoolVar(&opts.traceCounts, flagTraceCounts, false,
		"print hits, misses, evictions and average latency per cache")
	flags.StringVar(&opts.envFile, "env-file", ".env",
		"file holding "+envPrefix+"* defaults")

	return runCmd
}

func runTrace(
	cmd *cobra.Command,
	config hierarchy.Config,
	tracePath string,
	opts *runOptions,
) (err error) {
	h, err := hierarchy.New(config)
	if err != nil {
		return err
	}

	in, closeInput, err := openTrace(cmd, tracePath)
	if err != nil {
		return err
	}
	defer closeInput()

	reader := trace.NewReader(in)
	var src trace.Source = reader

	replayer := trace.NewReplayer(h)

	if opts.logAccesses {
		logHook := hooking.NewLogHook(
			log.New(cmd.ErrOrStderr(), "", 0), hooking.AllAccesses)
		attachHook(h, logHook)
	}

	var counts *accessCounts
	if opts.traceCounts || opts.monitor {
		counts = attachAccessCounts(h)
	}

	var (
		recorder datarecording.DataRecorder
		exec     *datarecording.ExecRecorder
	)

	if opts.db != "" {
		recorder = datarecording.New(opts.db)
		exec = datarecording.NewExecRecorder(recorder)
		exec.Start()
		exec.Add("Trace", tracePath)

		defer func() {
			exec.End()

			closeErr := recorder.Close()
			if err == nil {
				err = closeErr
			}
		}()

		if opts.recordAccesses {
			attachHook(h, datarecording.NewAccessRecorder(recorder))
		}
	}

	if opts.monitor {
		src, err = startMonitor(h, replayer, reader, counts, opts)
		if err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	replayErr := replayer.Replay(ctx, src)
	if replayErr != nil {
		log.Printf("replay stopped after %d records: %v",
			replayer.NumRecords(), replayErr)
	}

	report := h.Report()
	if _, err := report.WriteTo(cmd.OutOrStdout()); err != nil {
		return err
	}

	if opts.traceCounts {
		if _, err := counts.WriteTo(cmd.OutOrStdout()); err != nil {
			return err
		}
	}

	if recorder != nil {
		datarecording.RecordReport(recorder, exec.RunID(), report)
	}

	return replayErr
}

func openTrace(cmd *cobra.Command, path string) (io.Reader, func(), error) {
	if path == "-" {
		return cmd.InOrStdin(), func() {}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	return f, func() { f.Close() }, nil
}

func attachHook(h *hierarchy.Hierarchy, hook hooking.Hook) {
	for _, c := range h.Caches() {
		c.AcceptHook(hook)
	}
}

// startMonitor serves the hierarchy over HTTP. The trace is read up front so
// that the progress bar knows its total.
func startMonitor(
	h *hierarchy.Hierarchy,
	replayer *trace.Replayer,
	reader *trace.Reader,
	counts *accessCounts,
	opts *runOptions,
) (trace.Source, error) {
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	monitor := monitoring.NewMonitor().WithPortNumber(opts.monitorPort)
	monitor.RegisterHierarchy(h)
	monitor.RegisterAccessCountTracer(counts.counter)

	url := monitor.StartServer()

	if opts.openBrowser {
		if err := monitoring.OpenInBrowser(url); err != nil {
			log.Printf("cannot open browser: %v", err)
		}
	}

	bar := monitor.CreateProgressBar("Replay", uint64(len(records)))
	replayer.WithLock(monitor).WithProgressTracker(bar)

	return &recordList{records: records}, nil
}

type recordList struct {
	records []trace.Record
	next    int
}

func (l *recordList) Next() (trace.Record, error) {
	if l.next >= len(l.records) {
		return trace.Record{}, io.EOF
	}

	r := l.records[l.next]
	l.next++

	return r, nil
}

var _ trace.Source = (*recordList)(nil)
