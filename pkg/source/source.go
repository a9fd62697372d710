// Package source reads résumé and job-description text from a file, an
// http(s) URL or standard input.
package source

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

// Stdin is the input name that reads from standard input.
const Stdin = "-"

// DefaultTimeout bounds a URL fetch when the Reader has no Client.
const DefaultTimeout = 30 * time.Second

//nolint:gochecknoglobals // Immutable selector tables
var (
	noiseSelectors = "nav, footer, header, script, style, noscript, form, .ad, .advertisement, .sidebar, .cookie-banner, .popup"

	contentSelectors = []string{
		".job-description",
		"#job-description",
		".job-details",
		".posting-content",
		"[data-testid='job-description']",
		"main",
		"article",
		"#content",
	}

	blockElements = "p, div, li, tr, h1, h2, h3, h4, h5, h6, section, article, ul, ol, dt, dd"
)

// Reader fetches input text. The zero value reads files, stdin and URLs
// with http.DefaultClient.
type Reader struct {
	Client *http.Client
	Stdin  io.Reader
}

// Fetch retrieves text from a file, URL or stdin with context.
func (r Reader) Fetch(ctx context.Context, input string) (content string, err error) {
	if input == Stdin {
		content, err = r.fetchFromStdin()
		if err != nil {
			err = errors.Wrap(err, "failed to read from stdin")
			return content, err
		}
		return content, err
	}

	// Check if input is a URL
	parsedURL, urlErr := url.Parse(input)
	if urlErr == nil && (parsedURL.Scheme == "http" || parsedURL.Scheme == "https") {
		content, err = r.fetchFromURL(ctx, input)
		if err != nil {
			err = errors.Wrapf(err, "failed to fetch from URL: %s", input)
			return content, err
		}
		return content, err
	}

	content, err = fetchFromFile(input)
	if err != nil {
		err = errors.Wrapf(err, "failed to fetch from file: %s", input)
		return content, err
	}

	return content, err
}

func (r Reader) fetchFromStdin() (content string, err error) {
	in := r.Stdin
	if in == nil {
		in = os.Stdin
	}

	var data []byte
	data, err = io.ReadAll(in)
	if err != nil {
		return content, err
	}

	content = string(data)
	if strings.TrimSpace(content) == "" {
		err = errors.New("stdin is empty")
		return content, err
	}

	return content, err
}

// fetchFromFile reads text from a file.
func fetchFromFile(path string) (content string, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read file: %s", path)
		return content, err
	}

	content = string(data)
	if strings.TrimSpace(content) == "" {
		err = errors.New("file is empty")
		return content, err
	}

	return content, err
}

// fetchFromURL retrieves a page and, if it is HTML, reduces it to text.
func (r Reader) fetchFromURL(ctx context.Context, urlStr string) (content string, err error) {
	var req *http.Request
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return content, err
	}

	req.Header.Set("User-Agent", "letter-tailor/1.0")

	client := r.Client
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	var resp *http.Response
	resp, err = client.Do(req)
	if err != nil {
		err = errors.Wrap(err, "HTTP request failed")
		return content, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = errors.Errorf("HTTP request failed with status: %d", resp.StatusCode)
		return content, err
	}

	var bodyBytes []byte
	bodyBytes, err = io.ReadAll(resp.Body)
	if err != nil {
		err = errors.Wrap(err, "failed to read response body")
		return content, err
	}

	content = string(bodyBytes)

	if isHTML(resp.Header.Get("Content-Type"), content) {
		content, err = HTMLToText(content)
		if err != nil {
			return content, err
		}
	}

	if strings.TrimSpace(content) == "" {
		err = errors.New("fetched content is empty after processing")
		return content, err
	}

	return content, err
}

func isHTML(contentType, body string) (html bool) {
	if strings.Contains(strings.ToLower(contentType), "html") {
		html = true
		return html
	}
	trimmed := strings.ToLower(strings.TrimSpace(body))
	html = strings.HasPrefix(trimmed, "<!doctype html") || strings.HasPrefix(trimmed, "<html")
	return html
}

// HTMLToText extracts the main readable text of a page, one block element
// per line, so line-oriented extraction still works on fetched postings.
func HTMLToText(html string) (text string, err error) {
	var doc *goquery.Document
	doc, err = goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		err = errors.Wrap(err, "failed to parse HTML")
		return text, err
	}

	doc.Find(noiseSelectors).Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find(blockElements).AppendHtml("\n")

	var mainContent *goquery.Selection
	for _, selector := range contentSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			mainContent = selection.First()
			break
		}
	}

	if mainContent == nil {
		mainContent = doc.Find("body")
	}

	text = cleanWhitespace(mainContent.Text())
	return text, err
}

// cleanWhitespace trims every line, collapses runs of spaces and drops
// blank lines.
func cleanWhitespace(text string) (cleaned string) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	cleaned = strings.Join(lines, "\n")
	return cleaned
}
