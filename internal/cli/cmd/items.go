package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bnema/artcache/internal/cli/model"
)

// readItems collects URLs from args, or from path ("-" is stdin) when no
// args are given.
func readItems(args []string, path string, stdin io.Reader) ([]model.Item, error) {
	if len(args) > 0 {
		return model.ParseItems(strings.NewReader(strings.Join(args, "\n")))
	}
	if path == "" || path == "-" {
		return model.ParseItems(stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open url list: %w", err)
	}
	defer func() { _ = f.Close() }()
	return model.ParseItems(f)
}
