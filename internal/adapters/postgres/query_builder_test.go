package postgres

import (
	"property-service/internal/core/domain"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestApplySearchFilters_NoFilters(t *testing.T) {
	where, args := applySearchFilters(domain.SearchFilters{})

	assert.Equal(t, "WHERE status = 'active'", where)
	assert.Empty(t, args)
}

func TestApplySearchFilters_AllFilters(t *testing.T) {
	filters := domain.SearchFilters{
		Type:     "rent",
		Country:  "TR",
		City:     "İstanbul",
		District: "Kadıköy",
		MinPrice: floatPtr(10000),
		MaxPrice: floatPtr(50000),
		Search:   " deniz ",
	}

	where, args := applySearchFilters(filters)

	assert.Equal(t,
		"WHERE status = 'active' AND type = $1 AND country = $2 AND city = $3 AND district = $4"+
			" AND price >= $5 AND price <= $6"+
			" AND (title ILIKE $7 OR description ILIKE $7 OR city ILIKE $7 OR district ILIKE $7)",
		where)
	assert.Equal(t, []interface{}{"rent", "TR", "İstanbul", "Kadıköy", 10000.0, 50000.0, "%deniz%"}, args)
}

func TestApplySearchFilters_EscapesLikeWildcards(t *testing.T) {
	_, args := applySearchFilters(domain.SearchFilters{Search: "100%_off"})

	require.Len(t, args, 1)
	assert.Equal(t, `%100\%\_off%`, args[0])
}

func TestApplySearchFilters_BlankValuesIgnored(t *testing.T) {
	where, args := applySearchFilters(domain.SearchFilters{Type: "  ", City: "", Search: "   "})

	assert.Equal(t, "WHERE status = 'active'", where)
	assert.Empty(t, args)
}

func TestBuildSearchQueries_SecondPage(t *testing.T) {
	filters := domain.SearchFilters{Type: "rent", City: "İstanbul", MinPrice: floatPtr(10000)}
	page := domain.PageRequest{Page: 2, PageSize: 12}

	q := buildSearchQueries(filters, page)

	assert.Equal(t,
		"SELECT COUNT(*) FROM properties WHERE status = 'active' AND type = $1 AND city = $2 AND price >= $3",
		q.countQuery)
	assert.Equal(t, []interface{}{"rent", "İstanbul", 10000.0}, q.countArgs)

	assert.Contains(t, q.pageQuery, "WHERE status = 'active' AND type = $1 AND city = $2 AND price >= $3")
	assert.True(t, strings.HasSuffix(q.pageQuery, "ORDER BY created_at DESC NULLS LAST, id ASC LIMIT $4 OFFSET $5"))
	assert.Equal(t, []interface{}{"rent", "İstanbul", 10000.0, 12, 12}, q.pageArgs)
}

func TestBuildSearchQueries_CountAndPageShareFilters(t *testing.T) {
	filters := domain.SearchFilters{Country: "TR", Search: "villa", MaxPrice: floatPtr(1e6)}
	q := buildSearchQueries(filters, domain.PageRequest{Page: 3, PageSize: 20})

	countWhere := q.countQuery[strings.Index(q.countQuery, "WHERE"):]
	assert.Contains(t, q.pageQuery, countWhere+" ORDER BY")

	require.Len(t, q.pageArgs, len(q.countArgs)+2)
	assert.Equal(t, q.countArgs, q.pageArgs[:len(q.countArgs)])
	assert.Equal(t, []interface{}{20, 40}, q.pageArgs[len(q.countArgs):])
}

func TestBuildSearchQueries_PageArgsDoNotAliasCountArgs(t *testing.T) {
	q := buildSearchQueries(domain.SearchFilters{Type: "sale"}, domain.PageRequest{Page: 1, PageSize: 10})

	q.pageArgs[0] = "mutated"
	assert.Equal(t, "sale", q.countArgs[0])
}

func TestBuildLocationsQuery(t *testing.T) {
	query, args := buildLocationsQuery("")
	assert.Equal(t, "SELECT DISTINCT country, city, district FROM properties WHERE status = 'active'", query)
	assert.Empty(t, args)

	query, args = buildLocationsQuery("sale")
	assert.Equal(t, "SELECT DISTINCT country, city, district FROM properties WHERE status = 'active' AND type = $1", query)
	assert.Equal(t, []interface{}{"sale"}, args)
}
