package usertable

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenspark/saasdash/pkg/domain"
)

func day(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

var sample = []domain.User{
	{ID: "1", Name: "carol", Email: "c@corp.io", DateOfRegistration: day(3)},
	{ID: "2", Name: "Alice", Email: "alice@home.net", DateOfRegistration: day(1)},
	{ID: "3", Name: "bob", Email: "bob@corp.io", DateOfRegistration: day(2)},
}

func ids(users []domain.User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.ID
	}
	return out
}

func TestFilter(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "3"}, ids(Filter(sample, "")))
	assert.Equal(t, []string{"1", "3"}, ids(Filter(sample, "CORP")))
	assert.Equal(t, []string{"2"}, ids(Filter(sample, "ali")))
	assert.Empty(t, Filter(sample, "zzz"))
}

func TestSort(t *testing.T) {
	tests := []struct {
		col  Column
		dir  Direction
		want []string
	}{
		{ColName, Unsorted, []string{"1", "2", "3"}},
		{ColName, Asc, []string{"2", "3", "1"}},
		{ColName, Desc, []string{"1", "3", "2"}},
		{ColEmail, Asc, []string{"2", "3", "1"}},
		{ColDate, Asc, []string{"2", "3", "1"}},
		{ColDate, Desc, []string{"1", "3", "2"}},
	}
	for _, tt := range tests {
		t.Run(tt.col.Title()+tt.dir.Arrow(), func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Sort(sample, tt.col, tt.dir)))
		})
	}
	assert.Equal(t, "1", sample[0].ID, "Sort must not reorder its input")
}

func TestDirectionCycle(t *testing.T) {
	assert.Equal(t, Asc, Unsorted.Next())
	assert.Equal(t, Desc, Asc.Next())
	assert.Equal(t, Unsorted, Desc.Next())
}

func TestNextPageSize(t *testing.T) {
	assert.Equal(t, 10, NextPageSize(5))
	assert.Equal(t, 20, NextPageSize(10))
	assert.Equal(t, 5, NextPageSize(20))
	assert.Equal(t, 5, NextPageSize(7))
}

func TestParsePageSize(t *testing.T) {
	assert.Equal(t, 7, ParsePageSize("7"))
	assert.Equal(t, 20, ParsePageSize(" 20\n"))
	for _, bad := range []string{"", "0", "-5", "ten", "2.5"} {
		assert.Equal(t, DefaultPageSize, ParsePageSize(bad), "ParsePageSize(%q)", bad)
	}
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		n, page, size                       int
		wantStart, wantEnd, wantPages, want int
	}{
		{0, 0, 10, 0, 0, 1, 0},
		{25, 0, 10, 0, 10, 3, 0},
		{25, 2, 10, 20, 25, 3, 2},
		{25, 9, 10, 20, 25, 3, 2},
		{25, -1, 10, 0, 10, 3, 0},
		{10, 1, 5, 5, 10, 2, 1},
		{3, 0, 0, 0, 3, 1, 0},
	}
	for _, tt := range tests {
		start, end, pages, page := Paginate(tt.n, tt.page, tt.size)
		assert.Equal(t, []int{tt.wantStart, tt.wantEnd, tt.wantPages, tt.want}, []int{start, end, pages, page},
			"Paginate(%d, %d, %d)", tt.n, tt.page, tt.size)
	}
}

func TestParseSort(t *testing.T) {
	col, dir, err := ParseSort("-email")
	require.NoError(t, err)
	assert.Equal(t, ColEmail, col)
	assert.Equal(t, Desc, dir)

	col, dir, err = ParseSort("date")
	require.NoError(t, err)
	assert.Equal(t, ColDate, col)
	assert.Equal(t, Asc, dir)

	_, dir, err = ParseSort("")
	require.NoError(t, err)
	assert.Equal(t, Unsorted, dir)

	_, _, err = ParseSort("age")
	assert.Error(t, err)
}
