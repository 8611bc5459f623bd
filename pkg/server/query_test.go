package server_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/suite"

	"tablescout.dev/TableScout/pkg/repository"
	"tablescout.dev/TableScout/pkg/server"
)

type QueryTranslatorTestSuite struct {
	suite.Suite
}

func TestQueryTranslatorTestSuite(t *testing.T) {
	suite.Run(t, new(QueryTranslatorTestSuite))
}

func (suite *QueryTranslatorTestSuite) parse(rawQuery string) (repository.ListQuery, error) {
	values, err := url.ParseQuery(rawQuery)
	suite.Require().NoError(err)

	return server.ParseListQuery(values, server.FoodFields)
}

func (suite *QueryTranslatorTestSuite) parseRestaurants(rawQuery string) (repository.ListQuery, error) {
	values, err := url.ParseQuery(rawQuery)
	suite.Require().NoError(err)

	return server.ParseListQuery(values, server.RestaurantFields)
}

func (suite *QueryTranslatorTestSuite) TestParse_Defaults() {
	query, err := suite.parse("")

	suite.Require().NoError(err)
	suite.Equal(1, query.Page)
	suite.Equal(25, query.Limit)
	suite.Empty(query.Filters)
	suite.Empty(query.Sort)
	suite.Empty(query.Fields)
}

func (suite *QueryTranslatorTestSuite) TestParse_ComparisonOperators() {
	query, err := suite.parse("price[gte]=10&price[lt]=30")

	suite.Require().NoError(err)
	suite.Require().Len(query.Filters, 2)
	suite.ElementsMatch(
		[]repository.Filter{
			{Field: "price", Op: repository.OpGte, Value: 10.0},
			{Field: "price", Op: repository.OpLt, Value: 30.0},
		},
		query.Filters)
}

func (suite *QueryTranslatorTestSuite) TestParse_EqualityAndInOperators() {
	query, err := suite.parse("name=Carbonara&restaurantId[in]=1,2,3")

	suite.Require().NoError(err)
	suite.Require().Len(query.Filters, 2)
	suite.ElementsMatch(
		[]repository.Filter{
			{Field: "name", Op: repository.OpEq, Value: "Carbonara"},
			{Field: "restaurant_id", Op: repository.OpIn, Value: []float64{1, 2, 3}},
		},
		query.Filters)
}

func (suite *QueryTranslatorTestSuite) TestParse_TextFieldKeepsNumericShapedValue() {
	// a zipcode is text; binding it as a number would strip the leading zero
	query, err := suite.parseRestaurants("zipcode=02108")

	suite.Require().NoError(err)
	suite.Require().Len(query.Filters, 1)
	suite.Equal(repository.Filter{Field: "location_zipcode", Op: repository.OpEq, Value: "02108"}, query.Filters[0])
}

func (suite *QueryTranslatorTestSuite) TestParse_TextFieldListStaysText() {
	query, err := suite.parseRestaurants("phone[in]=02108,555-0134")

	suite.Require().NoError(err)
	suite.Require().Len(query.Filters, 1)
	suite.Equal(repository.Filter{Field: "phone", Op: repository.OpIn, Value: []string{"02108", "555-0134"}}, query.Filters[0])
}

func (suite *QueryTranslatorTestSuite) TestParse_NumericFieldRejectsNonNumericValue() {
	_, err := suite.parse("price[gte]=cheap")

	suite.Require().Error(err)
	suite.ErrorContains(err, `field "price" takes a numeric value, got "cheap"`)
}

func (suite *QueryTranslatorTestSuite) TestParse_NumericFieldListRejectsNonNumericElement() {
	_, err := suite.parse("restaurantId[in]=1,two")

	suite.Require().Error(err)
	suite.ErrorContains(err, `field "restaurantId" takes numeric values, got "two"`)
}

func (suite *QueryTranslatorTestSuite) TestParse_OperatorTokenInsideValueIsNotRewritten() {
	query, err := suite.parse("name=gte")

	suite.Require().NoError(err)
	suite.Require().Len(query.Filters, 1)
	suite.Equal(repository.Filter{Field: "name", Op: repository.OpEq, Value: "gte"}, query.Filters[0])
}

func (suite *QueryTranslatorTestSuite) TestParse_UnknownOperatorRejected() {
	_, err := suite.parse("price[regex]=10")

	suite.Require().Error(err)
	suite.ErrorContains(err, `unsupported filter operator "regex"`)
}

func (suite *QueryTranslatorTestSuite) TestParse_UnknownFieldRejected() {
	_, err := suite.parse("password[gte]=1")

	suite.Require().Error(err)
	suite.ErrorContains(err, `cannot filter on field "password"`)
}

func (suite *QueryTranslatorTestSuite) TestParse_SortKeys() {
	query, err := suite.parse("sort=-price,name")

	suite.Require().NoError(err)
	suite.Equal([]repository.SortKey{
		{Field: "price", Desc: true},
		{Field: "name", Desc: false},
	}, query.Sort)
}

func (suite *QueryTranslatorTestSuite) TestParse_SortOnUnknownFieldRejected() {
	_, err := suite.parse("sort=-secret")

	suite.Require().Error(err)
	suite.ErrorContains(err, `cannot sort on field "secret"`)
}

func (suite *QueryTranslatorTestSuite) TestParse_SelectProjection() {
	query, err := suite.parse("select=name,price")

	suite.Require().NoError(err)
	suite.Equal([]string{"name", "price"}, query.Fields)
}

func (suite *QueryTranslatorTestSuite) TestParse_PageAndLimit() {
	query, err := suite.parse("page=3&limit=2")

	suite.Require().NoError(err)
	suite.Equal(3, query.Page)
	suite.Equal(2, query.Limit)
	suite.Equal(4, query.Offset())
}

func (suite *QueryTranslatorTestSuite) TestParse_GarbagePaginationFallsBackToDefaults() {
	query, err := suite.parse("page=second&limit=-5")

	suite.Require().NoError(err)
	suite.Equal(1, query.Page)
	suite.Equal(25, query.Limit)
}

func (suite *QueryTranslatorTestSuite) TestBuildPagination_FirstPage() {
	query := repository.ListQuery{Page: 1, Limit: 2}

	pagination := server.BuildPagination(query, 5)

	suite.Nil(pagination.Prev)
	suite.Require().NotNil(pagination.Next)
	suite.Equal(2, pagination.Next.Page)
	suite.Equal(2, pagination.Next.Limit)
}

func (suite *QueryTranslatorTestSuite) TestBuildPagination_MiddlePage() {
	query := repository.ListQuery{Page: 2, Limit: 2}

	pagination := server.BuildPagination(query, 5)

	suite.Require().NotNil(pagination.Prev)
	suite.Equal(1, pagination.Prev.Page)
	suite.Require().NotNil(pagination.Next)
	suite.Equal(3, pagination.Next.Page)
}

func (suite *QueryTranslatorTestSuite) TestBuildPagination_LastPage() {
	query := repository.ListQuery{Page: 3, Limit: 2}

	pagination := server.BuildPagination(query, 5)

	suite.Require().NotNil(pagination.Prev)
	suite.Nil(pagination.Next)
}

func (suite *QueryTranslatorTestSuite) TestBuildPagination_UsesFilteredTotal() {
	// 3 records match the filter even though the collection is larger; the
	// window covers all of them, so there must be no next page.
	query := repository.ListQuery{Page: 1, Limit: 5}

	pagination := server.BuildPagination(query, 3)

	suite.Nil(pagination.Prev)
	suite.Nil(pagination.Next)
}
