package wiki_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/gosom/scrapemate"
	"github.com/stretchr/testify/require"

	"github.com/filippoaprilee/effemmeweb-helper/wiki"
)

const tablePage = `<html><body>
<table class="wikitable">
  <tr><th>Comune</th><th>Abitanti</th></tr>
  <tr><td> Trento </td><td>118000</td></tr>
  <tr><td>Bolzano</td><td>107000</td></tr>
  <tr><td>12</td><td>x</td></tr>
  <tr><td></td><td>vuoto</td></tr>
</table>
<table class="wikitable sortable">
  <tr><td>Intestazione</td></tr>
  <tr><td>Rovereto</td></tr>
  <tr><td>Trento</td></tr>
</table>
<table class="altro"><tr><td>x</td></tr><tr><td>Ignorato</td></tr></table>
</body></html>`

const categoryPage = `<html><body>
<div id="mw-pages">
  <a href="/w/index.php?title=Categoria:Comuni&amp;pageuntil=Avetrana">pagina precedente</a>
  <div class="mw-category-group"><h3>A</h3><ul><li><a href="/wiki/Avetrana">Avetrana</a></li></ul></div>
  <div class="mw-category-group"><h3>C</h3><ul>
    <li><a href="/wiki/Carosino">Carosino</a></li>
    <li><a href="/wiki/Castellaneta"> Castellaneta </a></li>
  </ul></div>
  <a href="/w/index.php?title=Categoria:Comuni&amp;pagefrom=Taranto">pagina successiva</a>
</div>
</body></html>`

func doc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return d
}

func TestParseWikitables(t *testing.T) {
	require.Equal(t, []string{"Trento", "Bolzano", "Rovereto", "Trento"}, wiki.ParseWikitables(doc(t, tablePage)))
}

func TestParseCategory(t *testing.T) {
	require.Equal(t, []string{"Avetrana", "Carosino", "Castellaneta"}, wiki.ParseCategory(doc(t, categoryPage)))
}

func TestNextCategoryPage(t *testing.T) {
	next := wiki.NextCategoryPage(doc(t, categoryPage), "https://it.wikipedia.org/wiki/Categoria:Comuni")
	require.Equal(t, "https://it.wikipedia.org/w/index.php?title=Categoria:Comuni&pagefrom=Taranto", next)

	require.Empty(t, wiki.NextCategoryPage(doc(t, tablePage), "https://it.wikipedia.org/"))
}

func TestTableJobProcess(t *testing.T) {
	job := wiki.NewTableJob(wiki.DefaultTableURL)
	resp := &scrapemate.Response{URL: wiki.DefaultTableURL, Document: doc(t, tablePage)}

	data, next, err := job.Process(context.Background(), resp)
	require.NoError(t, err)
	require.Empty(t, next)
	require.Equal(t, []string{"Trento", "Bolzano", "Rovereto", "Trento"}, data)
	require.Nil(t, resp.Document)
}

func TestCategoryJobFollowsNextPage(t *testing.T) {
	job := wiki.NewCategoryJob(wiki.DefaultCategoryURL, 2)
	resp := &scrapemate.Response{URL: wiki.DefaultCategoryURL, Document: doc(t, categoryPage)}

	data, next, err := job.Process(context.Background(), resp)
	require.NoError(t, err)
	require.Equal(t, []string{"Avetrana", "Carosino", "Castellaneta"}, data)
	require.Len(t, next, 1)

	nextJob, ok := next[0].(*wiki.ComuniJob)
	require.True(t, ok)
	require.Equal(t, wiki.CategoryPage, nextJob.Kind)
	require.Equal(t, job.ID, nextJob.ParentID)
	require.Contains(t, nextJob.URL, "pagefrom=Taranto")

	// la seconda pagina è l'ultima consentita
	_, next, err = nextJob.Process(context.Background(), &scrapemate.Response{Document: doc(t, categoryPage)})
	require.NoError(t, err)
	require.Empty(t, next)
}

func TestJobProcessErrors(t *testing.T) {
	job := wiki.NewTableJob(wiki.DefaultTableURL)

	_, _, err := job.Process(context.Background(), &scrapemate.Response{Error: context.DeadlineExceeded})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	_, _, err = job.Process(context.Background(), &scrapemate.Response{Document: "non un documento"})
	require.Error(t, err)
}

func TestCollector(t *testing.T) {
	c := wiki.NewCollector(nil)

	results := make(chan scrapemate.Result, 2)
	results <- scrapemate.Result{Data: []string{"Taranto", "Avetrana"}}
	results <- scrapemate.Result{Data: []string{"Avetrana", "Brindisi"}}
	close(results)

	require.NoError(t, c.Run(context.Background(), results))
	require.Equal(t, []string{"Avetrana", "Brindisi", "Taranto"}, c.Comuni())

	require.Error(t, c.WriteResult(scrapemate.Result{Data: 42}))
}

func TestWriteComuni(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, wiki.WriteComuni(&out, []string{"Avetrana", "Taranto"}))
	require.Equal(t, "Comune;\nAvetrana;\nTaranto;\n", out.String())
}
