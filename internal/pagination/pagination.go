// File: internal/pagination/pagination.go
package pagination

import "math"

const (
	DefaultPerPage = 15
	MaxPerPage     = 100
)

// Meta 分頁資訊，From / To 在空頁時為 nil
type Meta struct {
	CurrentPage int   `json:"current_page" example:"1"`
	PerPage     int   `json:"per_page" example:"15"`
	Total       int64 `json:"total" example:"25"`
	LastPage    int   `json:"last_page" example:"2"`
	From        *int  `json:"from" example:"1"`
	To          *int  `json:"to" example:"15"`
}

// Page 一頁資料加上分頁資訊
type Page[T any] struct {
	Items []T
	Meta  Meta
}

// MaxPage 回傳在 perPage 下 offset 與 to 不會溢位的最大頁碼
func MaxPage(perPage int) int {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	return (math.MaxInt - perPage) / perPage
}

// Normalize 將不合法的 page / perPage 修正為預設值，過大的 page 截為 MaxPage
func Normalize(page, perPage int) (int, int) {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if page < 1 {
		page = 1
	}
	if max := MaxPage(perPage); page > max {
		page = max
	}
	return page, perPage
}

// Offset 回傳該頁第一筆的 offset
func Offset(page, perPage int) int {
	page, perPage = Normalize(page, perPage)
	return (page - 1) * perPage
}

// NewMeta 依總筆數與本頁筆數計算分頁資訊
func NewMeta(page, perPage int, total int64, count int) Meta {
	page, perPage = Normalize(page, perPage)

	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}

	m := Meta{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		LastPage:    lastPage,
	}
	if count > 0 {
		from := Offset(page, perPage) + 1
		to := from + count - 1
		m.From = &from
		m.To = &to
	}
	return m
}

// NewPage 組合資料與分頁資訊
func NewPage[T any](items []T, page, perPage int, total int64) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items: items,
		Meta:  NewMeta(page, perPage, total, len(items)),
	}
}
