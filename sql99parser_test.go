package sql99parser_test

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	sqlparser "github.com/deepfield-data/sql99parser"
)

type scenario struct {
	Name   string `yaml:"name"`
	SQL    string `yaml:"sql"`
	Error  string `yaml:"error"`
	Offset int    `yaml:"offset"`
}

func loadScenarios(t *testing.T) []scenario {
	t.Helper()
	b, err := os.ReadFile("testdata/scenarios.yaml")
	require.NoError(t, err)
	var out []scenario
	require.NoError(t, yaml.Unmarshal(b, &out))
	return out
}

func TestScenarios(t *testing.T) {
	for _, s := range loadScenarios(t) {
		s := s
		t.Run(s.Name, func(t *testing.T) {
			_, err := sqlparser.Parse(s.SQL)
			if s.Error == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			pe, ok := err.(*sqlparser.ParsingError)
			require.True(t, ok, "expected *ParsingError, got %T", err)
			if diff := cmp.Diff(s.Error, pe.Message); diff != "" {
				t.Errorf("message mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(s.Offset, pe.Offset); diff != "" {
				t.Errorf("offset mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseIsDeterministic(t *testing.T) {
	const sql = "SELECT a, b FROM t WHERE a > 1 AND b IN (1, 2, 3) ORDER BY a DESC"
	first, err := sqlparser.Parse(sql)
	require.NoError(t, err)
	second, err := sqlparser.Parse(sql)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(first, second))
}
