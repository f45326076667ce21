// Command sqlparse loads the scenario fixtures and drives sql99parser
// against each one, reporting success or the *ParsingError offset.
package main

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	sqlparser "github.com/deepfield-data/sql99parser"
	"github.com/deepfield-data/sql99parser/internal/trace"
)

type scenario struct {
	Name   string `yaml:"name"`
	SQL    string `yaml:"sql"`
	Error  string `yaml:"error"`
	Offset int    `yaml:"offset"`
}

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fatal("build logger", err)
	}
	defer logger.Sync()

	path := "testdata/scenarios.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	scenarios, err := loadScenarios(path)
	if err != nil {
		fatal("load scenarios", err)
	}
	logger.Info("loaded scenarios", zap.Int("count", len(scenarios)))

	tracer := trace.Zap(logger)
	failures := 0
	for _, s := range scenarios {
		runScenario(logger, tracer, s, &failures)
	}
	fmt.Printf("%d scenario(s), %d mismatch(es)\n", len(scenarios), failures)
	if failures > 0 {
		os.Exit(1)
	}
}

func loadScenarios(path string) ([]scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []scenario
	if err := yaml.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func runScenario(logger *zap.Logger, tracer trace.Tracer, s scenario, failures *int) {
	_, err := sqlparser.Parse(s.SQL, sqlparser.WithTracer(tracer))
	wantErr := s.Error != ""

	switch {
	case err == nil && !wantErr:
		fmt.Printf("ok      %-24s %s\n", s.Name, compact(s.SQL))
	case err != nil && wantErr:
		pe := err.(*sqlparser.ParsingError)
		if pe.Message == s.Error && pe.Offset == s.Offset {
			fmt.Printf("ok      %-24s error: %s\n", s.Name, pe.Error())
		} else {
			*failures++
			fmt.Printf("MISMATCH %-24s got %q@%d want %q@%d\n", s.Name, pe.Message, pe.Offset, s.Error, s.Offset)
		}
	default:
		*failures++
		fmt.Printf("MISMATCH %-24s got err=%v want err=%t\n", s.Name, err, wantErr)
	}
}

func compact(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > 100 {
		return s[:100] + " ..."
	}
	return s
}

func fatal(step string, err error) {
	fmt.Fprintf(os.Stderr, "%s failed: %v\n", step, err)
	os.Exit(1)
}
