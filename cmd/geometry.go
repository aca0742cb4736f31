package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cache-sim/cache-sim/sim"
)

// geometryCmd derives and prints the set layout for a cache configuration.
var geometryCmd = &cobra.Command{
	Use:   "geometry",
	Short: "Show the derived set layout for a cache configuration",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cache, err := sim.NewCache(lineSize, numLines, associativity)
		if err != nil {
			logrus.Fatalf("Invalid cache configuration: %v", err)
		}

		fmt.Println("=== Cache Geometry ===")
		fmt.Printf("Line Size            : %d bytes\n", cache.LineSize)
		fmt.Printf("Total Lines          : %d\n", cache.NumLines)
		fmt.Printf("Mapping              : %s\n", mappingName(cache.Associativity))
		fmt.Printf("Sets                 : %d\n", cache.NumSets)
		fmt.Printf("Lines Per Set        : %d\n", cache.LinesPerSet)
		fmt.Printf("Capacity             : %d bytes\n", cache.LineSize*cache.NumLines)
	},
}

// mappingName spells out what an associativity value means.
func mappingName(associativity int) string {
	switch associativity {
	case 0:
		return "fully-associative"
	case 1:
		return "direct-mapped"
	default:
		return fmt.Sprintf("%d-way set-associative", associativity)
	}
}

// init sets up geometry CLI flags
func init() {
	geometryCmd.Flags().IntVar(&lineSize, "line-size", 64, "Cache line size in bytes")
	geometryCmd.Flags().IntVar(&numLines, "num-lines", 64, "Total number of cache lines")
	geometryCmd.Flags().IntVar(&associativity, "associativity", 1, "0 = fully associative, 1 = direct-mapped, k = k-way set-associative")

	rootCmd.AddCommand(geometryCmd)
}
