package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchFromFile(t *testing.T) {
	// Create a test file.
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")
	testContent := "This is a test job description."

	require.NoError(t, os.WriteFile(testFile, []byte(testContent), 0600))

	content, err := fetchFromFile(testFile)
	require.NoError(t, err)
	assert.Equal(t, testContent, content)

	content, err = Reader{}.Fetch(context.Background(), testFile)
	require.NoError(t, err)
	assert.Equal(t, testContent, content)
}

func TestFetchFromFileNonexistent(t *testing.T) {
	_, err := fetchFromFile("/nonexistent/file.txt")
	assert.Error(t, err)
}

func TestFetchFromFileEmpty(t *testing.T) {
	tmpDir := t.TempDir()
	emptyFile := filepath.Join(tmpDir, "empty.txt")

	require.NoError(t, os.WriteFile(emptyFile, []byte("  \n"), 0600))

	_, err := fetchFromFile(emptyFile)
	assert.Error(t, err)
}

func TestFetchFromStdin(t *testing.T) {
	r := Reader{Stdin: strings.NewReader("Company: Acme Corp\n")}

	content, err := r.Fetch(context.Background(), Stdin)
	require.NoError(t, err)
	assert.Equal(t, "Company: Acme Corp\n", content)

	r = Reader{Stdin: strings.NewReader("")}
	_, err = r.Fetch(context.Background(), Stdin)
	assert.Error(t, err)
}

func TestFetchFromURL(t *testing.T) {
	testContent := `<html><head><title>Careers</title><style>.x{color:red}</style></head><body>
<nav>Home | Jobs | About</nav>
<div class="job-description"><h1>Backend Engineer</h1><p>Company: Acme Corp</p>
<ul><li>Go</li><li>PostgreSQL</li></ul><p>Apply today<br>or tomorrow</p></div>
<footer>Copyright</footer><script>track()</script></body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(testContent))
	}))
	defer server.Close()

	content, err := Reader{}.fetchFromURL(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer\nCompany: Acme Corp\nGo\nPostgreSQL\nApply today\nor tomorrow", content)
}

func TestFetchFromURLPlainText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("Company: Acme Corp\nPosition: Backend Engineer"))
	}))
	defer server.Close()

	content, err := Reader{}.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Company: Acme Corp\nPosition: Backend Engineer", content, "plain text passes through unchanged")
}

func TestFetchFromURL404(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := Reader{}.fetchFromURL(context.Background(), server.URL)
	assert.Error(t, err)
}

func TestFetchFromURLTimeout(t *testing.T) {
	// Create a server that takes too long.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
		_, _ = w.Write([]byte("too slow"))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := Reader{}.fetchFromURL(ctx, server.URL)
	assert.Error(t, err)
}

func TestHTMLToText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "inline tags",
			input:    "<p>Hello <strong>world</strong></p>",
			expected: "Hello world",
		},
		{
			name:     "script tags",
			input:    "<p>Text</p><script>alert('hi')</script><p>More</p>",
			expected: "Text\nMore",
		},
		{
			name:     "style tags",
			input:    "<style>.class{color:red}</style><p>Content</p>",
			expected: "Content",
		},
		{
			name:     "main preferred over body",
			input:    "<body><p>Menu</p><main><p>Posting</p></main></body>",
			expected: "Posting",
		},
		{
			name:     "no HTML",
			input:    "Plain text",
			expected: "Plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := HTMLToText(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}
