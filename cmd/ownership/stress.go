package main

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/rl1809/nft-ownership/internal/core/domain"
)

var stressRequests int

var stressCmd = &cobra.Command{
	Use:   "stress [public_address]",
	Short: "Fire concurrent resolutions for one account",
	Long: `Fire concurrent ownership resolutions for one account through a single
resolver and check that every request returns the same report.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		network, collection, err := parseTarget()
		if err != nil {
			fatal("Error parsing flags", err)
		}
		if stressRequests <= 0 {
			fatal("Error parsing flags", fmt.Errorf("requests must be positive"))
		}

		ctx := context.Background()
		a, err := newApp(ctx)
		if err != nil {
			fatal("Error initializing resolver", err)
		}
		defer a.Close()

		var successCount atomic.Int32
		var failCount atomic.Int32
		reports := make([]*domain.OwnershipReport, stressRequests)

		var wg sync.WaitGroup
		start := time.Now()

		for i := 0; i < stressRequests; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()

				report, err := a.Ownership.ResolveOwnership(ctx, args[0], collection, network)
				if err != nil {
					failCount.Add(1)
					return
				}
				successCount.Add(1)
				reports[i] = report
			}(i)
		}

		wg.Wait()
		elapsed := time.Since(start)

		success := successCount.Load()
		fail := failCount.Load()

		fmt.Println("========== STRESS TEST RESULTS ==========")
		fmt.Printf("Collection:       %s\n", collection)
		fmt.Printf("Network:          %s\n", network)
		fmt.Printf("Total Requests:   %d\n", stressRequests)
		fmt.Printf("Successful:       %d\n", success)
		fmt.Printf("Failed:           %d\n", fail)
		fmt.Printf("Duration:         %v\n", elapsed)
		fmt.Println("==========================================")

		var first *domain.OwnershipReport
		mismatches := 0
		for _, report := range reports {
			if report == nil {
				continue
			}
			if first == nil {
				first = report
				continue
			}
			if !reflect.DeepEqual(first.Items, report.Items) {
				mismatches++
			}
		}

		if first != nil {
			fmt.Printf("Owned Items:      %d\n", len(first.Items))
		}
		for result, count := range cacheLookups() {
			fmt.Printf("Metadata %-8s  %.0f\n", result+":", count)
		}
		if mismatches == 0 && fail == 0 {
			fmt.Println("PASS: every request returned the same report")
		} else {
			fmt.Printf("FAIL: %d failed requests, %d differing reports\n", fail, mismatches)
		}
	},
}

func init() {
	rootCmd.AddCommand(stressCmd)
	addTargetFlags(stressCmd)
	stressCmd.Flags().IntVar(&stressRequests, "requests", 50, "Number of concurrent requests")
}

// cacheLookups reads the metadata cache counters of this process by result.
func cacheLookups() map[string]float64 {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return nil
	}
	lookups := make(map[string]float64)
	for _, family := range families {
		if family.GetName() != "nft_ownership_metadata_cache_lookups_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "result" {
					lookups[label.GetValue()] += metric.GetCounter().GetValue()
				}
			}
		}
	}
	return lookups
}
