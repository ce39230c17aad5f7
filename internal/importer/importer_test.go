package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/abhisek/lingua/internal/progress"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "words.csv")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestImport_CSV(t *testing.T) {
	path := writeCSV(t, `label,category,subcategory,kind
Hleb (bread),food
voda,drinks

biti,verbs,present,conjugation
"()",food
padež,cases,,declension
so,
hleb,food
`)
	st := progress.New("sr")
	cfg := DefaultConfig()
	cfg.Path = path

	res, err := Import(cfg, st)
	require.NoError(t, err)

	assert.Equal(t, 7, res.Processed)
	assert.Equal(t, 3, res.Skipped)
	assert.Len(t, res.Errors, 3)
	assert.Equal(t, 3, res.Added, "the repeated hleb row is idempotent")
	assert.Equal(t, []string{"sr:food:Hleb", "sr:drinks:voda"}, st.DueSet())
	assert.Equal(t, []string{"grammar:verbs:present:biti"}, st.GrammarDueSet())
}

func TestImport_Excel(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]any{
		{"Label", "Category", "Sub", "Kind"},
		{"Haus", "home"},
		{"sein", "verbs", "", "Rule"},
	}
	for i, r := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := r
		require.NoError(t, f.SetSheetRow("Sheet1", cellRef, &row))
	}
	path := filepath.Join(t.TempDir(), "words.xlsx")
	require.NoError(t, f.SaveAs(path))

	st := progress.New("de")
	cfg := DefaultConfig()
	cfg.Path = path

	res, err := Import(cfg, st)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Added)
	assert.Equal(t, []string{"de:home:Haus"}, st.DueSet())
	assert.Equal(t, []string{"grammar:verbs:general:sein"}, st.GrammarDueSet())
}

func TestImport_MissingSheet(t *testing.T) {
	f := excelize.NewFile()
	path := filepath.Join(t.TempDir(), "words.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	cfg := DefaultConfig()
	cfg.Path = path
	cfg.Sheet = "Vocabulary"
	_, err := Import(cfg, progress.New("de"))
	assert.Error(t, err)
}

func TestReadRows_UnsupportedType(t *testing.T) {
	_, err := ReadRows(Config{Path: "words.txt"})
	assert.Error(t, err)
}

func TestReadRows_NoHeader(t *testing.T) {
	path := writeCSV(t, "kuća,home\n")
	rows, err := ReadRows(Config{Path: path})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "kuća", rows[0].Label)
	assert.Equal(t, 1, rows[0].Line)
}
