// cmd/tools/decision-simulator/main.go
//
// Runs one credit decision locally against the stub bureau, without Camunda
// or any backing services. Used to sanity-check policy changes before they
// ship: feed it an applicant JSON file and it prints the full decision.
//
// Usage:
//
//	decision-simulator -applicant applicant.json [-directory <csv>] [-application-id APP-1]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"algolend-workers/internal/bureau"
	"algolend-workers/internal/common/config"
	"algolend-workers/internal/common/logger"
	"algolend-workers/internal/decision"
	"algolend-workers/internal/directory"
	"algolend-workers/internal/engine"
	"algolend-workers/internal/models"
)

func main() {
	applicantPath := flag.String("applicant", "", "Path to an applicant JSON file")
	directoryPath := flag.String("directory", "configs/employers/jse-listed-companies.csv", "Path to the employer directory CSV")
	applicationID := flag.String("application-id", "SIMULATED", "Application id to stamp on the decision")
	flag.Parse()

	if *applicantPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	data, err := os.ReadFile(*applicantPath)
	if err != nil {
		fmt.Printf("Error reading applicant file: %v\n", err)
		os.Exit(1)
	}
	var input models.ApplicantInput
	if err := json.Unmarshal(data, &input); err != nil {
		fmt.Printf("Error parsing applicant file: %v\n", err)
		os.Exit(1)
	}

	policy, err := engine.NewPolicy(config.DefaultEngineConfig())
	if err != nil {
		fmt.Printf("Error building policy: %v\n", err)
		os.Exit(1)
	}

	table, err := directory.LoadTable(*directoryPath)
	if err != nil {
		fmt.Printf("Error loading employer directory: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewStructured("warn", "console")
	eng := engine.New(policy, directory.NewMatcher(table), nil)
	orch := decision.NewOrchestrator(eng, bureau.NewStubClient(), log)

	outcome, err := orch.Decide(context.Background(), &input)
	if err != nil {
		fmt.Printf("Decision failed in state %s: %v\n", outcome.State, err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(decision.BuildDecision(outcome, *applicationID), "", "  ")
	if err != nil {
		fmt.Printf("Error encoding decision: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
