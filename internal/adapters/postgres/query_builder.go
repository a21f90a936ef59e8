package postgres

import (
	"fmt"
	"property-service/internal/core/domain"
	"strings"
)

// textSearchColumns - columns matched by the free-text filter
var textSearchColumns = []string{"title", "description", "city", "district"}

type queryBuilder struct {
	conditions []string
	args       []interface{}
	argId      int
}

func newQueryBuilder(baseConditions ...string) *queryBuilder {
	return &queryBuilder{
		argId:      1,
		conditions: append([]string{}, baseConditions...),
		args:       make([]interface{}, 0),
	}
}

func (qb *queryBuilder) addCondition(condition string, fieldName string, arg interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, fieldName, qb.argId))
	qb.args = append(qb.args, arg)
	qb.argId++
}

// addAnyOf matches one argument against several columns, reusing a single placeholder.
func (qb *queryBuilder) addAnyOf(condition string, fieldNames []string, arg interface{}) {
	parts := make([]string, len(fieldNames))
	for i, field := range fieldNames {
		parts[i] = fmt.Sprintf(condition, field, qb.argId)
	}
	qb.conditions = append(qb.conditions, "("+strings.Join(parts, " OR ")+")")
	qb.args = append(qb.args, arg)
	qb.argId++
}

func (qb *queryBuilder) AddFloatFilter(fieldName string, min *float64, max *float64) {
	if min != nil {
		qb.addCondition("%s >= $%d", fieldName, *min)
	}
	if max != nil {
		qb.addCondition("%s <= $%d", fieldName, *max)
	}
}

func (qb *queryBuilder) AddEqualFilter(fieldName string, value string) {
	if value == "" {
		return
	}
	qb.addCondition("%s = $%d", fieldName, value)
}

func (qb *queryBuilder) build() (string, []interface{}) {
	whereClause := ""
	if len(qb.conditions) > 0 {
		whereClause = "WHERE " + strings.Join(qb.conditions, " AND ")
	}
	return whereClause, qb.args
}

// applySearchFilters - only active listings are ever searchable
func applySearchFilters(filters domain.SearchFilters) (string, []interface{}) {
	qb := newQueryBuilder("status = 'active'")

	qb.AddEqualFilter("type", strings.TrimSpace(filters.Type))
	qb.AddEqualFilter("country", strings.TrimSpace(filters.Country))
	qb.AddEqualFilter("city", strings.TrimSpace(filters.City))
	qb.AddEqualFilter("district", strings.TrimSpace(filters.District))
	qb.AddFloatFilter("price", filters.MinPrice, filters.MaxPrice)

	if term := strings.TrimSpace(filters.Search); term != "" {
		qb.addAnyOf("%s ILIKE $%d", textSearchColumns, "%"+escapeLike(term)+"%")
	}

	return qb.build()
}

type searchQueries struct {
	countQuery string
	countArgs  []interface{}
	pageQuery  string
	pageArgs   []interface{}
}

// buildSearchQueries - count and page share the WHERE clause and its arguments;
// the page query only appends LIMIT/OFFSET placeholders.
func buildSearchQueries(filters domain.SearchFilters, page domain.PageRequest) searchQueries {
	whereClause, args := applySearchFilters(filters)

	pageArgs := make([]interface{}, 0, len(args)+2)
	pageArgs = append(pageArgs, args...)
	pageArgs = append(pageArgs, page.Limit(), page.Offset())

	return searchQueries{
		countQuery: fmt.Sprintf("SELECT COUNT(*) FROM properties %s", whereClause),
		countArgs:  args,
		pageQuery: fmt.Sprintf("SELECT %s FROM properties %s ORDER BY created_at DESC NULLS LAST, id ASC LIMIT $%d OFFSET $%d",
			propertyColumns, whereClause, len(args)+1, len(args)+2),
		pageArgs: pageArgs,
	}
}

func buildLocationsQuery(propertyType string) (string, []interface{}) {
	qb := newQueryBuilder("status = 'active'")
	qb.AddEqualFilter("type", strings.TrimSpace(propertyType))
	whereClause, args := qb.build()

	return fmt.Sprintf("SELECT DISTINCT country, city, district FROM properties %s", whereClause), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
