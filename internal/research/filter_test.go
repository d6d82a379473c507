package research

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterTrusted(t *testing.T) {
	results := []Result{
		{Link: "https://example.com/blog", Title: "Random blog"},
		{Link: "https://www.who.int/news/item/flu", Title: "WHO on flu"},
		{Link: "https://WWW.CDC.GOV/flu/symptoms", Title: "CDC flu symptoms"},
		{Link: "https://www.mayoclinic.org/diseases", Title: "Mayo Clinic"},
	}

	filtered := FilterTrusted(results, 2)
	assert.Len(t, filtered, 2)
	assert.Equal(t, "https://www.who.int/news/item/flu", filtered[0].Link)
	assert.Equal(t, "https://WWW.CDC.GOV/flu/symptoms", filtered[1].Link)
}

func TestFilterTrustedNoMatches(t *testing.T) {
	results := []Result{
		{Link: "https://example.com/a"},
		{Link: "https://example.org/b"},
	}
	assert.Empty(t, FilterTrusted(results, 3))
}

func TestFilterTrustedZeroMax(t *testing.T) {
	results := []Result{{Link: "https://who.int/x"}}
	assert.Empty(t, FilterTrusted(results, 0))
}

func TestFilterHealthKeyword(t *testing.T) {
	results := []Result{
		{Link: "https://a.example", Title: "Cooking pasta", Snippet: "boil water"},
		{Link: "https://b.example", Title: "Flu Symptoms explained", Snippet: ""},
		{Link: "https://c.example", Title: "News", Snippet: "new treatment approved"},
		{Link: "https://d.example", Title: "Medicine prices", Snippet: ""},
	}

	filtered := FilterHealthKeyword(results, 3)
	assert.Len(t, filtered, 2)
	assert.Equal(t, "https://b.example", filtered[0].Link)
	assert.Equal(t, "https://c.example", filtered[1].Link)
}

func TestFilterHealthKeywordOnlyScansFirstMax(t *testing.T) {
	results := []Result{
		{Link: "https://a.example", Title: "Cooking pasta", Snippet: ""},
		{Link: "https://b.example", Title: "Gardening", Snippet: ""},
		{Link: "https://c.example", Title: "Flu treatment guide", Snippet: ""},
	}

	assert.Empty(t, FilterHealthKeyword(results, 2))
	assert.Len(t, FilterHealthKeyword(results, 3), 1)
}

func TestFilterHealthKeywordCaseInsensitive(t *testing.T) {
	results := []Result{
		{Link: "https://x.example", Title: "HEALTH advisory", Snippet: ""},
	}
	assert.Len(t, FilterHealthKeyword(results, 5), 1)
}
