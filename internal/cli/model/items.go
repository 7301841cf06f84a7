package model

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"strings"

	domainurl "github.com/bnema/artcache/internal/domain/url"
)

// Item is one entry of the browsed list.
type Item struct {
	Raw string
	URL *url.URL
	Err error
}

// ParseItems reads one artwork URL per line. Blank lines and lines starting
// with '#' are skipped. Malformed URLs are kept with Err set so the list
// keeps its shape.
func ParseItems(r io.Reader) ([]Item, error) {
	var items []Item
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		u, err := domainurl.ParseAssetURL(line)
		items = append(items, Item{Raw: line, URL: u, Err: err})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read url list: %w", err)
	}
	return items, nil
}
