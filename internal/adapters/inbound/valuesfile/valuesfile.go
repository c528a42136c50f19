package valuesfile

import (
	"fmt"
	"io"
	"os"

	"github.com/skillcoder/guardrail-controller/internal/logic/chart"
)

// StdinPath selects standard input instead of a file.
const StdinPath = "-"

// Load layers values files over the chart defaults in the given order; later
// files win key by key. StdinPath reads from stdin.
func Load(stdin io.Reader, paths ...string) (chart.Values, error) {
	values := chart.DefaultValues()

	for _, path := range paths {
		doc, err := read(stdin, path)
		if err != nil {
			return chart.Values{}, err
		}

		if err := values.Merge(doc); err != nil {
			return chart.Values{}, fmt.Errorf("values file %q: %w", path, err)
		}
	}

	return values, nil
}

func read(stdin io.Reader, path string) ([]byte, error) {
	if path == StdinPath {
		doc, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read values from stdin: %w", err)
		}

		return doc, nil
	}

	doc, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values file: %w", err)
	}

	return doc, nil
}
