package faillog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"browser-harness/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestCleanHTML_RemovesScriptStyle(t *testing.T) {
	out, err := CleanHTML(`
<body>
    <div id="main">Hello</div>
    <script>alert("hi")</script>
    <style>.x {}</style>
</body>`, nil)
	require.NoError(t, err)

	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "<style")
	assert.Contains(t, out, `id="main"`)
}

func TestCleanHTML_RemovesComments(t *testing.T) {
	out, err := CleanHTML(`<body><!-- comment --><div>Text</div></body>`, &DefaultCleanConfig)
	require.NoError(t, err)
	assert.NotContains(t, out, "comment")
}

func TestCleanHTML_KeepsLocatorAttributes(t *testing.T) {
	out, err := CleanHTML(`
<body>
    <a href="https://example.com" class="link" id="x" name="n" data-testid="go" aria-label="Go" onclick="track()">Go</a>
</body>`, nil)
	require.NoError(t, err)

	for _, keep := range []string{`href="https://example.com"`, `class="link"`, `id="x"`, `name="n"`, `data-testid="go"`, `aria-label="Go"`} {
		assert.Contains(t, out, keep)
	}
	assert.NotContains(t, out, "onclick")
}

func TestCleanHTML_RemovesStyleAndMediaAttributes(t *testing.T) {
	out, err := CleanHTML(`
<body>
    <div style="color:red" class="ok">Hi</div>
    <img src="x.jpg" srcset="a,b,c" sizes="100w" loading="lazy">
</body>`, nil)
	require.NoError(t, err)

	for _, gone := range []string{"style=", "srcset=", "sizes=", "loading="} {
		assert.NotContains(t, out, gone)
	}
	assert.Contains(t, out, `class="ok"`)
	assert.Contains(t, out, `src="x.jpg"`)
}

func TestCleanHTML_RemovesHead(t *testing.T) {
	out, err := CleanHTML(`
<html>
<head>
    <meta charset="utf-8">
    <link rel="stylesheet" href="x.css">
</head>
<body><p>Hi</p></body>
</html>`, nil)
	require.NoError(t, err)

	assert.NotContains(t, out, "<meta")
	assert.NotContains(t, out, "<link")
	assert.Contains(t, out, "<p>Hi</p>")
}

func TestCleanHTML_CustomFilter(t *testing.T) {
	cfg := DefaultCleanConfig
	cfg.CustomAttrFilter = func(a html.Attribute) bool { return strings.HasPrefix(a.Key, "data-") }

	out, err := CleanHTML(`<body><i data-x="1" id="k"></i></body>`, &cfg)
	require.NoError(t, err)
	assert.NotContains(t, out, "data-x")
	assert.Contains(t, out, `id="k"`)
}

func TestCleanHTML_Truncation(t *testing.T) {
	var big strings.Builder
	big.WriteString("<body>")
	for i := 0; i < 50000; i++ {
		big.WriteString("<div>test</div>")
	}
	big.WriteString("</body>")

	out, err := CleanHTML(big.String(), nil)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(out), DefaultCleanConfig.MaxOutputSize+32)
	assert.True(t, strings.HasSuffix(out, "<!-- truncated -->"))
}

type fakePage struct {
	url    string
	source string
	shot   *entity.Screenshot
	err    error
}

func (p *fakePage) CurrentURL(context.Context) (string, error) { return p.url, nil }
func (p *fakePage) PageSource(context.Context) (string, error) { return p.source, p.err }

func (p *fakePage) Screenshot(context.Context) (*entity.Screenshot, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.shot, nil
}

func withClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
}

func TestDump(t *testing.T) {
	withClock(t, time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC))
	dir := t.TempDir()
	page := &fakePage{
		url:    "http://localhost/login",
		source: `<html><head><script>x()</script></head><body><button id="go">Go</button></body></html>`,
		shot:   &entity.Screenshot{Data: []byte{0xff, 0xd8, 0xff}, Format: "jpeg"},
	}

	out, err := Dump(context.Background(), dir, page, errors.New("query Id=go timed out"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(out), "20240309-140506-"))

	shot, err := os.ReadFile(filepath.Join(out, ScreenshotFile))
	require.NoError(t, err)
	assert.Equal(t, page.shot.Data, shot)

	dom, err := os.ReadFile(filepath.Join(out, DOMFile))
	require.NoError(t, err)
	assert.Contains(t, string(dom), `<button id="go">Go</button>`)
	assert.NotContains(t, string(dom), "script")

	report, err := os.ReadFile(filepath.Join(out, ErrorFile))
	require.NoError(t, err)
	assert.Contains(t, string(report), "query Id=go timed out")
	assert.Contains(t, string(report), "url: http://localhost/login")
}

func TestDump_PartialCapture(t *testing.T) {
	dir := t.TempDir()
	boom := errors.New("session gone")

	out, err := Dump(context.Background(), dir, &fakePage{err: boom}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	require.NotEmpty(t, out)

	_, statErr := os.Stat(filepath.Join(out, ErrorFile))
	assert.NoError(t, statErr)
	_, statErr = os.Stat(filepath.Join(out, ScreenshotFile))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDump_SeparateDirectories(t *testing.T) {
	withClock(t, time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC))
	dir := t.TempDir()
	page := &fakePage{source: "<body></body>", shot: &entity.Screenshot{}}

	a, err := Dump(context.Background(), dir, page, nil)
	require.NoError(t, err)
	b, err := Dump(context.Background(), dir, page, nil)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
