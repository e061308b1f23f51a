package people

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/trybenon/peopled/cmd/util"
	"github.com/trybenon/peopled/lib/model"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for collection servers",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfNumThreads = 10
	perfNumOps     = 1000
	perfSkip       = make([]string, 0)
)

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. add,show)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "ops"
	perfTestCmd.Flags().Int(key, 1000, util.WrapString("Number of operations per benchmark"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfNumThreads = viper.GetInt("threads")
	perfNumOps = viper.GetInt("ops")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func runPerf(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for collection servers")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(util.GetClientConfig().String())
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Printf("Operations: %d\n", perfNumOps)
	fmt.Println()

	// The benchmark needs an authenticated session. Use a throwaway account
	// unless credentials were supplied.
	if session.Login() == "" {
		login := fmt.Sprintf("__perf-%d", time.Now().UnixNano())
		if _, err := session.Register(login, "perf"); err != nil {
			return fmt.Errorf("failed to register benchmark account: %w", err)
		}
		if _, err := session.Authenticate(login, "perf"); err != nil {
			return fmt.Errorf("failed to authenticate benchmark account: %w", err)
		}
	}

	fmt.Println("starting tests...")

	registry := gometrics.NewRegistry()
	order := []string{"add", "show", "check-id", "average", "mixed"}

	runPerfTest(registry, "add", func(i int) error {
		_, err := session.Add(perfPerson(i))
		return err
	})

	runPerfTest(registry, "show", func(int) error {
		_, err := session.Show()
		return err
	})

	runPerfTest(registry, "check-id", func(i int) error {
		_, err := session.CheckID(int64(i))
		return err
	})

	runPerfTest(registry, "average", func(int) error {
		_, err := session.AverageHeight()
		return err
	})

	runPerfTest(registry, "mixed", func(i int) error {
		var err error
		switch i % 3 {
		case 0:
			_, err = session.Add(perfPerson(i))
		case 1:
			_, err = session.Show()
		case 2:
			_, err = session.AverageHeight()
		}
		return err
	})

	// drop the records the benchmark inserted
	if _, err := session.Clear(); err != nil {
		fmt.Printf("warning: failed to clean up benchmark records: %v\n", err)
	}

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, registry, order); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// runPerfTest spreads perfNumOps calls of op over perfNumThreads workers and
// records every call in a timer of the registry
func runPerfTest(registry gometrics.Registry, test string, op func(i int) error) {
	if shouldSkip(test) {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	timer := gometrics.NewRegisteredTimer(test, registry)
	errCount := gometrics.NewRegisteredCounter(test+".errors", registry)

	var wg sync.WaitGroup
	opsPerThread := perfNumOps / perfNumThreads
	if opsPerThread < 1 {
		opsPerThread = 1
	}

	for t := 0; t < perfNumThreads; t++ {
		wg.Add(1)
		go func(thread int) {
			defer wg.Done()
			for i := 0; i < opsPerThread; i++ {
				n := thread*opsPerThread + i
				timer.Time(func() {
					if err := op(n); err != nil {
						errCount.Inc(1)
					}
				})
			}
		}(t)
	}
	wg.Wait()

	printResult(test, timer, errCount)
}

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// perfPerson builds a valid record for benchmark inserts
func perfPerson(i int) *model.Person {
	return &model.Person{
		Name:        fmt.Sprintf("__perf-%d", i),
		Coordinates: model.Coordinates{X: int64(i), Y: float64(i)},
		Height:      150 + i%60,
		Weight:      50 + int64(i%50),
		Location:    model.Location{X: 1, Y: 2, Z: 3},
	}
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, timer gometrics.Timer, errCount gometrics.Counter) {
	snap := timer.Snapshot()
	if snap.Count() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	mean := time.Duration(int64(snap.Mean()))
	p95 := time.Duration(int64(snap.Percentile(0.95)))
	p99 := time.Duration(int64(snap.Percentile(0.99)))
	opsPerSec := 1e9 / snap.Mean()

	fmt.Printf("%-20s%d ops\tmean=%s\tp95=%s\tp99=%s\t%.0f ops/sec\terrors=%d\n",
		test, snap.Count(), mean, p95, p99, opsPerSec, errCount.Count())
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, registry gometrics.Registry, order []string) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "Count", "MeanNs", "P95Ns", "P99Ns", "OpsPerSec", "Errors",
		"Endpoint", "TimeoutSec", "Serializer", "Transport", "Threads",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	config := util.GetClientConfig()

	// Write test results
	for _, test := range order {
		timer, ok := registry.Get(test).(gometrics.Timer)
		if !ok {
			continue
		}
		snap := timer.Snapshot()
		if snap.Count() == 0 {
			continue
		}

		var errors int64
		if counter, ok := registry.Get(test + ".errors").(gometrics.Counter); ok {
			errors = counter.Count()
		}

		row := []string{
			test,
			strconv.FormatInt(snap.Count(), 10),
			fmt.Sprintf("%.0f", snap.Mean()),
			fmt.Sprintf("%.0f", snap.Percentile(0.95)),
			fmt.Sprintf("%.0f", snap.Percentile(0.99)),
			fmt.Sprintf("%.0f", 1e9/snap.Mean()),
			strconv.FormatInt(errors, 10),
			config.Endpoint,
			strconv.Itoa(config.TimeoutSecond),
			viper.GetString("serializer"),
			viper.GetString("transport"),
			strconv.Itoa(perfNumThreads),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
