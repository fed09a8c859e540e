package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitry/egrul-agent/internal/browser"
)

// fakePager serves canned result pages and simulates excerpt downloads by
// dropping a file whose content is the clicked row's entity name, so a
// renamed download can be traced back to the row that triggered it.
type fakePager struct {
	dir   string
	pages map[int][]browser.ResultRow
	calls []string
	seq   int
}

func (f *fakePager) NextPage(_ context.Context, page int) ([]browser.ResultRow, bool, error) {
	f.calls = append(f.calls, fmt.Sprintf("page:%d", page))
	rows, ok := f.pages[page]
	return rows, ok, nil
}

func (f *fakePager) DownloadExcerpt(_ context.Context, row browser.ResultRow) error {
	f.calls = append(f.calls, "download:"+row.Name)
	f.seq++
	name := fmt.Sprintf("vypiska-%d.pdf", f.seq)
	return os.WriteFile(filepath.Join(f.dir, name), []byte(row.Name), 0644)
}

func orgRow(index int, name string) browser.ResultRow {
	return browser.ResultRow{
		Index:       index,
		Name:        name,
		Text:        name + ", ОГРН: 1234567890123, ИНН: 1234567890",
		HasDownload: true,
	}
}

func TestCollectQueryDownloadsBeforePagination(t *testing.T) {
	dir := t.TempDir()
	pager := &fakePager{
		dir: dir,
		pages: map[int][]browser.ResultRow{
			2: {orgRow(0, "ООО ВЕГА")},
		},
	}
	firstPage := []browser.ResultRow{
		orgRow(0, "ООО РОМАШКА"),
		{Index: 1, Name: "ИП Иванов", Text: "ОГРНИП: 987654321012345"},
	}

	unfinished := 0
	res := collectQuery(context.Background(), pager, "1234567890", firstPage,
		ScrapeOptions{MaxRecords: 10, DownloadPDFs: true, DownloadDir: dir}, &unfinished)

	// Every row of a page is downloaded while that page is still rendered;
	// the pager advances only afterwards.
	assert.Equal(t, []string{
		"download:ООО РОМАШКА",
		"page:2",
		"download:ООО ВЕГА",
		"page:3",
	}, pager.calls)

	require.Len(t, res.organizations, 2)
	require.Len(t, res.entrepreneurs, 1)
	assert.Equal(t, 2, res.downloads)
	assert.False(t, res.stopped)

	// Each record's PDF must hold the document of the record's own entity.
	for _, rec := range res.organizations {
		require.NotEmpty(t, rec.PDFFile)
		content, err := os.ReadFile(filepath.Join(dir, rec.PDFFile))
		require.NoError(t, err)
		assert.Equal(t, rec.EntityName, string(content))
	}
}

func TestCollectQueryMaxRecords(t *testing.T) {
	dir := t.TempDir()
	pager := &fakePager{
		dir: dir,
		pages: map[int][]browser.ResultRow{
			2: {orgRow(0, "ООО ВЕГА")},
		},
	}
	firstPage := []browser.ResultRow{
		orgRow(0, "ООО РОМАШКА"),
		orgRow(1, "ООО АСТРА"),
	}

	unfinished := 0
	res := collectQuery(context.Background(), pager, "1234567890", firstPage,
		ScrapeOptions{MaxRecords: 1, DownloadPDFs: true, DownloadDir: dir}, &unfinished)

	assert.Len(t, res.organizations, 1)
	assert.Equal(t, "ООО РОМАШКА", res.organizations[0].EntityName)
	assert.NotContains(t, pager.calls, "page:2", "the limit stops collection before the pager advances")
	assert.NotContains(t, pager.calls, "download:ООО АСТРА")
}

func TestCollectQueryCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pager := &fakePager{dir: t.TempDir()}
	unfinished := 0
	res := collectQuery(ctx, pager, "1234567890", []browser.ResultRow{orgRow(0, "ООО РОМАШКА")},
		ScrapeOptions{MaxRecords: 5}, &unfinished)

	assert.True(t, res.stopped)
	assert.Empty(t, res.organizations)
	assert.Empty(t, pager.calls)
}
