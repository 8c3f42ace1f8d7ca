package flightradar

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"flight-history-collector/internal/domain/entity"
	"flight-history-collector/internal/infrastructure/fetch"
)

// Airlines scrapes the provider's airline directory: every anchor inside a
// td.notranslate cell of table#tbl-datatable, in page order
func (c *Client) Airlines(ctx context.Context) ([]entity.Airline, error) {
	resp, err := c.fetch.Fetch(ctx, fetch.Get(c.siteURL+airlinesPath, nil))
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse airline directory: %w", err)
	}

	table := findFirst(doc, func(n *html.Node) bool {
		return isElement(n, "table") && attr(n, "id") == "tbl-datatable"
	})
	if table == nil {
		return nil, &entity.UnexpectedPayloadError{Target: "airline directory", Field: "table#tbl-datatable"}
	}

	var airlines []entity.Airline
	for _, td := range findAll(table, func(n *html.Node) bool {
		return isElement(n, "td") && hasClass(n, "notranslate")
	}) {
		a := findFirst(td, func(n *html.Node) bool { return isElement(n, "a") })
		if a == nil {
			continue
		}
		name := strings.TrimSpace(text(a))
		if name == "" {
			continue
		}
		airlines = append(airlines, entity.Airline{Name: name, Handle: attr(a, "href")})
	}

	c.logger.Debug("Scraped airline directory", "count", len(airlines))
	return airlines, nil
}

// Fleet scrapes the registrations listed on an airline's fleet page
func (c *Client) Fleet(ctx context.Context, handle string) ([]string, error) {
	if !strings.HasPrefix(handle, "/") {
		handle = "/" + handle
	}
	pageURL := c.siteURL + strings.TrimRight(handle, "/") + "/fleet"

	resp, err := c.fetch.Fetch(ctx, fetch.Get(pageURL, nil))
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse fleet page %s: %w", handle, err)
	}

	var registrations []string
	for _, a := range findAll(doc, func(n *html.Node) bool {
		return isElement(n, "a") && hasClass(n, "regLinks")
	}) {
		reg := strings.ToLower(strings.TrimSpace(text(a)))
		if reg != "" {
			registrations = append(registrations, reg)
		}
	}
	return registrations, nil
}

func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findFirst(child, match); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if match(n) {
			out = append(out, n)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return out
}

func text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return sb.String()
}
