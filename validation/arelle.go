/*
Package validation sends rendered documents to an external XBRL validator.

PURPOSE:
  The generator does not validate instances itself. An Arelle server
  running next to it reads documents from a shared directory and answers a
  GET request with an HTML report; the client returns the text of each
  table cell so callers can show or store it.

FLOW:
  1. Write the document to <DropDir>/ixbrl/<name>
  2. GET <Endpoint><name>
  3. Skip the blank first line of the response
  4. Collect the text of every <td>

SEE ALSO:
  - api/handlers.go: POST /api/documents/{id}/validate
*/
package validation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// ErrDisabled is returned when no validator endpoint is configured.
var ErrDisabled = errors.New("validation is not configured")

// Validator checks one document and returns the validator's report rows.
type Validator interface {
	Validate(ctx context.Context, name string, content []byte) ([]string, error)
}

// =============================================================================
// ARELLE CLIENT
// =============================================================================

type ArelleClient struct {
	Endpoint string
	DropDir  string
	Client   *http.Client
	Logger   *zap.Logger
}

func NewArelleClient(endpoint, dropDir string, logger *zap.Logger) *ArelleClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArelleClient{
		Endpoint: endpoint,
		DropDir:  dropDir,
		Client:   http.DefaultClient,
		Logger:   logger,
	}
}

// Validate drops the document where the validator can read it and returns
// the text of each result table cell.
func (c *ArelleClient) Validate(ctx context.Context, name string, content []byte) ([]string, error) {
	if c.Endpoint == "" {
		return nil, ErrDisabled
	}
	if name == "" || name != filepath.Base(name) {
		return nil, fmt.Errorf("invalid document name %q", name)
	}

	dir := filepath.Join(c.DropDir, "ixbrl")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create drop directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), content, 0644); err != nil {
		return nil, fmt.Errorf("failed to write document: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint+name, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("validator request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read validator response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("validator returned %s", resp.Status)
	}

	rows, err := TableCells(skipBlankFirstLine(body))
	if err != nil {
		return nil, err
	}
	c.Logger.Info("document validated", zap.String("name", name), zap.Int("rows", len(rows)))
	return rows, nil
}

// TableCells returns the text of every td element in document order, with
// surrounding newlines removed.
func TableCells(page []byte) ([]string, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse validator response: %w", err)
	}

	var rows []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "td" {
			rows = append(rows, strings.Trim(textOf(n), "\n"))
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return rows, nil
}

func textOf(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			collect(child)
		}
	}
	collect(n)
	return sb.String()
}

func skipBlankFirstLine(body []byte) []byte {
	first, rest, found := bytes.Cut(body, []byte("\n"))
	if found && len(bytes.TrimSpace(first)) == 0 {
		return rest
	}
	return body
}

var _ Validator = (*ArelleClient)(nil)
