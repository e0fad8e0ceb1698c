// Package usertable holds the search, sort and paging rules of the user list.
// The TUI table and the users command share them.
package usertable

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/naveenspark/saasdash/pkg/domain"
)

// Column is a sortable column of the user table.
type Column int

const (
	ColName Column = iota
	ColEmail
	ColDate
)

// Columns lists every column in display order.
var Columns = []Column{ColName, ColEmail, ColDate}

func (c Column) Title() string {
	switch c {
	case ColEmail:
		return "Email"
	case ColDate:
		return "Registration Date"
	default:
		return "Name"
	}
}

// Direction is a sort direction. The zero value leaves server order.
type Direction int

const (
	Unsorted Direction = iota
	Asc
	Desc
)

// Next cycles unsorted -> ascending -> descending -> unsorted.
func (d Direction) Next() Direction {
	return (d + 1) % 3
}

// Arrow is the header indicator for d.
func (d Direction) Arrow() string {
	switch d {
	case Asc:
		return "▲"
	case Desc:
		return "▼"
	}
	return ""
}

// PageSizes are the selectable page sizes.
var PageSizes = []int{5, 10, 20}

// DefaultPageSize applies when nothing usable is stored.
const DefaultPageSize = 10

// ParsePageSize reads a stored page size. Anything that is not a positive
// integer yields DefaultPageSize.
func ParsePageSize(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return DefaultPageSize
	}
	return n
}

// NextPageSize returns the size after cur in PageSizes, wrapping. A size that
// is not in the list moves to the first entry.
func NextPageSize(cur int) int {
	i := slices.Index(PageSizes, cur)
	if i < 0 {
		return PageSizes[0]
	}
	return PageSizes[(i+1)%len(PageSizes)]
}

// Filter keeps users whose name or email contains q, ignoring case.
// An empty q keeps everyone.
func Filter(users []domain.User, q string) []domain.User {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return users
	}
	out := make([]domain.User, 0, len(users))
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(strings.ToLower(u.Email), q) {
			out = append(out, u)
		}
	}
	return out
}

// Sort returns a sorted copy of users. Ties keep their original order.
func Sort(users []domain.User, col Column, dir Direction) []domain.User {
	out := slices.Clone(users)
	if dir == Unsorted {
		return out
	}
	slices.SortStableFunc(out, func(a, b domain.User) int {
		var c int
		switch col {
		case ColEmail:
			c = strings.Compare(strings.ToLower(a.Email), strings.ToLower(b.Email))
		case ColDate:
			c = a.DateOfRegistration.Compare(b.DateOfRegistration)
		default:
			c = strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
		if dir == Desc {
			return -c
		}
		return c
	})
	return out
}

// Paginate returns the slice bounds of page (0-based) and the page count.
// page is clamped into range; an empty list has one empty page.
func Paginate(n, page, size int) (start, end, pages, clamped int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	pages = (n + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	clamped = min(max(page, 0), pages-1)
	start = min(clamped*size, n)
	end = min(start+size, n)
	return start, end, pages, clamped
}

// ParseSort reads "name", "-email", "date" and so on. A leading "-" means
// descending. The empty string is unsorted.
func ParseSort(s string) (Column, Direction, error) {
	if s == "" {
		return ColName, Unsorted, nil
	}
	dir := Asc
	if strings.HasPrefix(s, "-") {
		dir = Desc
		s = s[1:]
	}
	switch strings.ToLower(s) {
	case "name":
		return ColName, dir, nil
	case "email":
		return ColEmail, dir, nil
	case "date", "registration", "registered":
		return ColDate, dir, nil
	}
	return ColName, Unsorted, fmt.Errorf("unknown sort column %q: want name, email or date", s)
}
