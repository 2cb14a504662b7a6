// Package paging implements 0-based offset/limit pages whose JSON matches the
// Spring Data page shape existing clients already consume.
package paging

import "math"

const (
	DefaultSize = 20
	MaxSize     = 2000
)

type Request struct {
	Page int
	Size int
}

// NewRequest normalizes page/size: negative page -> 0, size <= 0 -> DefaultSize, size capped at MaxSize.
// page は Page*Size と Page+1 が int に収まるよう MaxPage(size) で頭打ちにする。
func NewRequest(page, size int) Request {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	if last := MaxPage(size); page > last {
		page = last
	}
	return Request{Page: page, Size: size}
}

// MaxPage is the largest page number whose offset still fits in an int for the given size.
func MaxPage(size int) int {
	if size <= 0 {
		size = DefaultSize
	}
	return math.MaxInt/size - 1
}

func (r Request) Limit() int  { return r.Size }
func (r Request) Offset() int { return r.Page * r.Size }

type Pageable struct {
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`
	Offset     int `json:"offset"`
}

type Page[T any] struct {
	Content          []T      `json:"content"`
	Pageable         Pageable `json:"pageable"`
	TotalElements    int64    `json:"totalElements"`
	TotalPages       int      `json:"totalPages"`
	Size             int      `json:"size"`
	Number           int      `json:"number"`
	NumberOfElements int      `json:"numberOfElements"`
	First            bool     `json:"first"`
	Last             bool     `json:"last"`
	Empty            bool     `json:"empty"`
}

func New[T any](content []T, req Request, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{
		Content: content,
		Pageable: Pageable{
			PageNumber: req.Page,
			PageSize:   req.Size,
			Offset:     req.Offset(),
		},
		TotalElements:    total,
		TotalPages:       totalPages,
		Size:             req.Size,
		Number:           req.Page,
		NumberOfElements: len(content),
		First:            req.Page == 0,
		Last:             req.Page+1 >= totalPages,
		Empty:            len(content) == 0,
	}
}

// Map converts the content of a page, keeping its metadata.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	out := make([]U, 0, len(p.Content))
	for _, v := range p.Content {
		out = append(out, fn(v))
	}
	return Page[U]{
		Content:          out,
		Pageable:         p.Pageable,
		TotalElements:    p.TotalElements,
		TotalPages:       p.TotalPages,
		Size:             p.Size,
		Number:           p.Number,
		NumberOfElements: p.NumberOfElements,
		First:            p.First,
		Last:             p.Last,
		Empty:            p.Empty,
	}
}
