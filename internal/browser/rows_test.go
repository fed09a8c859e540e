package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resultsPage = `
<div id="resultContent">
  <div class="res-row">
    <a href="#">ООО "РОМАШКА"</a>
    <div>Москва, ОГРН: 1234567890123, ИНН: 1234567890</div>
    <button class="btn-excerpt">Получить выписку</button>
  </div>
  <div class="res-row">
    <a href="#">ИП Иванов Иван Иванович</a>
    <div>ОГРНИП: 987654321012345</div>
  </div>
  <div class="res-row">
    Без ссылки
Остальной текст строки
  </div>
</div>
<a class="lnk-page" data-page="2" href="#">2</a>
`

func TestParseResultRows(t *testing.T) {
	rows := ParseResultRows(resultsPage)
	require.Len(t, rows, 3)

	assert.Equal(t, 0, rows[0].Index)
	assert.Equal(t, `ООО "РОМАШКА"`, rows[0].Name)
	assert.Contains(t, rows[0].Text, "ОГРН: 1234567890123")
	assert.True(t, rows[0].HasDownload)

	assert.Equal(t, "ИП Иванов Иван Иванович", rows[1].Name)
	assert.False(t, rows[1].HasDownload)

	assert.Equal(t, "Без ссылки", rows[2].Name, "a row without a caption link falls back to its first text line")
	assert.False(t, rows[2].HasDownload)
}

func TestParseResultRowsEmptyPage(t *testing.T) {
	assert.Empty(t, ParseResultRows(`<div id="resultContent"></div>`))
}

func TestHasPageLink(t *testing.T) {
	assert.True(t, HasPageLink(resultsPage, 2))
	assert.False(t, HasPageLink(resultsPage, 3))
}

func TestIsFatalSessionError(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		fatal bool
	}{
		{"Invalid session id", &Error{Message: "invalid session id"}, true},
		{"Websocket closed", &Error{Message: "websocket: close 1006"}, true},
		{"Nil error", nil, false},
		{"Ordinary timeout", &Error{Message: "element not found"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.fatal, IsFatalSessionError(tt.err))
		})
	}
}
