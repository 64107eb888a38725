// cmd/tools/directory-checker/main.go
//
// Maintenance tool for the employer directory. Validates a directory CSV
// before it is rolled out, and answers ad-hoc classification questions the
// way the running engine would.
//
// Usage:
//
//	directory-checker stats -path configs/employers/jse-listed-companies.csv
//	directory-checker classify -path <csv> -sector PRIVATE -name "Anglo American plc"
//	directory-checker normalize -name "Smith & Sons (Pty) Ltd"
package main

import (
	"flag"
	"fmt"
	"os"

	"algolend-workers/internal/directory"
	"algolend-workers/internal/models"
)

func main() {
	statsCmd := flag.NewFlagSet("stats", flag.ExitOnError)
	statsPath := statsCmd.String("path", "configs/employers/jse-listed-companies.csv", "Path to the employer directory CSV")

	classifyCmd := flag.NewFlagSet("classify", flag.ExitOnError)
	classifyPath := classifyCmd.String("path", "configs/employers/jse-listed-companies.csv", "Path to the employer directory CSV")
	classifySector := classifyCmd.String("sector", "PRIVATE", "Employment sector (PRIVATE or GOVERNMENT)")
	classifyName := classifyCmd.String("name", "", "Employer name to classify")

	normalizeCmd := flag.NewFlagSet("normalize", flag.ExitOnError)
	normalizeName := normalizeCmd.String("name", "", "Employer name to normalize")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "stats":
		statsCmd.Parse(os.Args[2:])
		table, err := directory.LoadTable(*statsPath)
		if err != nil {
			fmt.Printf("Error loading directory: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Directory: %s\n", *statsPath)
		fmt.Printf("Entries:   %d\n", table.Len())
		for _, entry := range table.Entries() {
			fmt.Printf("  %-40s %s\n", entry.Normalized, entry.DisplayName)
		}

	case "classify":
		classifyCmd.Parse(os.Args[2:])
		if *classifyName == "" {
			fmt.Println("Error: name is required for classify.")
			classifyCmd.Usage()
			os.Exit(1)
		}
		table, err := directory.LoadTable(*classifyPath)
		if err != nil {
			fmt.Printf("Error loading directory: %v\n", err)
			os.Exit(1)
		}
		matcher := directory.NewMatcher(table)
		match := matcher.Classify(models.EmploymentSector(*classifySector), *classifyName)
		fmt.Printf("Input:      %s\n", *classifyName)
		fmt.Printf("Normalized: %s\n", directory.NormalizeName(*classifyName))
		fmt.Printf("Tier:       %s\n", match.Tier)
		fmt.Printf("Trust:      %.0f%%\n", match.Tier.TrustPercent())
		if match.Entry != nil {
			fmt.Printf("Matched:    %s\n", match.Entry.DisplayName)
		}

	case "normalize":
		normalizeCmd.Parse(os.Args[2:])
		if *normalizeName == "" {
			fmt.Println("Error: name is required for normalize.")
			normalizeCmd.Usage()
			os.Exit(1)
		}
		fmt.Println(directory.NormalizeName(*normalizeName))

	default:
		help()
		os.Exit(1)
	}
}

func help() {
	fmt.Println("Usage: directory-checker <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  stats      Load a directory CSV and list its normalized entries")
	fmt.Println("  classify   Classify an employer name the way the engine would")
	fmt.Println("  normalize  Print the normalized form of an employer name")
}
