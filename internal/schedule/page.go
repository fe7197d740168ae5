package schedule

import "pujadisplay/internal/model"

// PageCount returns how many fixed-size pages n items occupy. Zero items
// means zero pages.
func PageCount(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Page returns the items on the given zero-based page. Out-of-range pages
// yield nil; the last page may be shorter than size.
func Page(items []model.Puja, page, size int) []model.Puja {
	if size <= 0 || page < 0 {
		return nil
	}
	lo := page * size
	if lo >= len(items) {
		return nil
	}
	hi := lo + size
	if hi > len(items) {
		hi = len(items)
	}
	return items[lo:hi]
}

// NextPage advances a zero-based page index, wrapping to the first page
// after the last.
func NextPage(page, pageCount int) int {
	if pageCount <= 0 {
		return 0
	}
	return (page + 1) % pageCount
}
